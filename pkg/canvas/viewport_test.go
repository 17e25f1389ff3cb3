package canvas

import (
	"math"
	"testing"

	"github.com/ha1tch/netsketch/pkg/diagram"
)

func TestToLogicalToScreenRoundTrip(t *testing.T) {
	container := ContainerRect{X: 0, Y: 0, Width: 900, Height: 700}
	zooms := []float64{0.5, 0.75, 1.0, 1.5, 2.0, 3.0}
	pointers := [][2]float64{
		{0, 0}, {450, 350}, {899, 699}, {13, 597}, {720, 41},
	}

	for _, z := range zooms {
		v := NewViewport(1600, 1200)
		v.SetZoom(z)
		v.SetCenter(diagram.Point{X: 500, Y: 400})

		for _, p := range pointers {
			logical, ok := v.ToLogical(p[0], p[1], container)
			if !ok {
				t.Fatalf("zoom %v: projection unavailable", z)
			}
			x, y := v.ToScreen(logical, container)
			if math.Abs(x-p[0]) > 1e-6 || math.Abs(y-p[1]) > 1e-6 {
				t.Errorf("zoom %v: round trip (%v,%v) -> (%v,%v)", z, p[0], p[1], x, y)
			}
		}
	}
}

func TestZoomClamped(t *testing.T) {
	v := NewViewport(1600, 1200)

	v.SetZoom(10)
	if v.Zoom() != ZoomMax {
		t.Errorf("zoom not clamped to max: %v", v.Zoom())
	}
	v.SetZoom(0.01)
	if v.Zoom() != ZoomMin {
		t.Errorf("zoom not clamped to min: %v", v.Zoom())
	}
	v.ZoomAt(diagram.Point{X: 800, Y: 600}, 100)
	if v.Zoom() != ZoomMax {
		t.Errorf("ZoomAt not clamped: %v", v.Zoom())
	}
}

func TestZoomAtKeepsFocusFixed(t *testing.T) {
	container := ContainerRect{Width: 800, Height: 600}
	v := NewViewport(1600, 1200)
	mid := diagram.Point{X: 800, Y: 600}

	beforeX, beforeY := v.ToScreen(mid, container)
	v.ZoomAt(mid, 0.5)
	afterX, afterY := v.ToScreen(mid, container)

	if math.Abs(beforeX-afterX) > 1e-6 || math.Abs(beforeY-afterY) > 1e-6 {
		t.Errorf("midpoint moved: (%v,%v) -> (%v,%v)", beforeX, beforeY, afterX, afterY)
	}
	if v.Zoom() != 1.5 {
		t.Errorf("zoom not applied: %v", v.Zoom())
	}
}

func TestZoomAtKeepsArbitraryFocusFixed(t *testing.T) {
	container := ContainerRect{Width: 800, Height: 600}
	v := NewViewport(1600, 1200)
	v.SetZoom(1.2)
	focus := diagram.Point{X: 1000, Y: 450}

	beforeX, beforeY := v.ToScreen(focus, container)
	v.ZoomAt(focus, 0.4)
	afterX, afterY := v.ToScreen(focus, container)

	// The focus only stays pinned while the centre clamp is inactive.
	// This focus is interior, so it must hold exactly.
	if math.Abs(beforeX-afterX) > 1e-6 || math.Abs(beforeY-afterY) > 1e-6 {
		t.Errorf("focus moved: (%v,%v) -> (%v,%v)", beforeX, beforeY, afterX, afterY)
	}
}

func TestToLogicalDegenerateContainer(t *testing.T) {
	v := NewViewport(1600, 1200)
	if _, ok := v.ToLogical(10, 10, ContainerRect{Width: 0, Height: 100}); ok {
		t.Error("expected no projection for zero-width container")
	}
	if _, ok := v.ToLogical(10, 10, ContainerRect{Width: 100, Height: 0}); ok {
		t.Error("expected no projection for zero-height container")
	}
}

func TestPanClampedToPaddedBounds(t *testing.T) {
	v := NewViewport(1600, 1200)
	v.SetZoom(2.0)

	v.Pan(-1e9, -1e9)
	win := v.Window()
	if win.X < -CanvasPadding-1e-9 || win.Y < -CanvasPadding-1e-9 {
		t.Errorf("window escaped padded bounds: %+v", win)
	}

	v.Pan(1e9, 1e9)
	win = v.Window()
	if win.X+win.Width > 1600+CanvasPadding+1e-9 {
		t.Errorf("window escaped right bound: %+v", win)
	}
	if win.Y+win.Height > 1200+CanvasPadding+1e-9 {
		t.Errorf("window escaped bottom bound: %+v", win)
	}
}

func TestDefaultExtentWhenEmpty(t *testing.T) {
	v := NewViewport(0, 0)
	w, h := v.Extent()
	if w != DefaultExtentW || h != DefaultExtentH {
		t.Errorf("default extent not applied: %vx%v", w, h)
	}
}

func TestClampToCanvas(t *testing.T) {
	v := NewViewport(1600, 1200)
	p := v.ClampToCanvas(diagram.Point{X: -50, Y: 5000}, 24, 24)
	if p.X != 24 || p.Y != 1200-24 {
		t.Errorf("clamp wrong: %+v", p)
	}
}
