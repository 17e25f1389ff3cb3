// Package canvas provides the pure geometry under the diagram editor:
// the zoom/pan viewport transform, the fallback ring layout, and
// derivation of connection and boundary geometry.
package canvas

import (
	"github.com/ha1tch/netsketch/pkg/diagram"
)

// Zoom bounds and canvas framing.
const (
	ZoomMin = 0.5
	ZoomMax = 3.0

	// CanvasPadding extends the pannable area past the canvas on every
	// side so entities at the edge can be centred.
	CanvasPadding = 100.0

	// Default logical canvas extent, used when a diagram carries no
	// entities to size against.
	DefaultExtentW = 1600.0
	DefaultExtentH = 1200.0
)

// ContainerRect is the on-screen pixel rectangle the canvas is drawn
// into.
type ContainerRect struct {
	X, Y          float64
	Width, Height float64
}

// Viewport maps pointer coordinates to logical canvas coordinates and
// back. Entities always live in logical coordinates; zooming and
// panning only move the window, never rescale committed positions.
type Viewport struct {
	zoom    float64
	center  diagram.Point
	extentW float64
	extentH float64
}

// NewViewport creates a viewport over a canvas of the given logical
// extent, centred and at zoom 1. Non-positive extents fall back to the
// defaults.
func NewViewport(extentW, extentH float64) *Viewport {
	if extentW <= 0 || extentH <= 0 {
		extentW = DefaultExtentW
		extentH = DefaultExtentH
	}
	return &Viewport{
		zoom:    1.0,
		center:  diagram.Point{X: extentW / 2, Y: extentH / 2},
		extentW: extentW,
		extentH: extentH,
	}
}

// Zoom returns the current zoom factor.
func (v *Viewport) Zoom() float64 { return v.zoom }

// Center returns the current pan centre in logical coordinates.
func (v *Viewport) Center() diagram.Point { return v.center }

// Extent returns the logical canvas extent.
func (v *Viewport) Extent() (w, h float64) { return v.extentW, v.extentH }

// SetZoom sets the zoom factor, clamped to [ZoomMin, ZoomMax].
func (v *Viewport) SetZoom(z float64) {
	v.zoom = clampf(z, ZoomMin, ZoomMax)
	v.clampCenter()
}

// SetCenter moves the pan centre, clamped so the window stays within
// the padded canvas bounds.
func (v *Viewport) SetCenter(c diagram.Point) {
	v.center = c
	v.clampCenter()
}

// Pan moves the centre by a logical delta.
func (v *Viewport) Pan(dx, dy float64) {
	v.SetCenter(diagram.Point{X: v.center.X + dx, Y: v.center.Y + dy})
}

// viewSpan returns the logical width and height of the visible window
// for the current zoom. The span shrinks as zoom grows, clamped to the
// range the zoom bounds allow.
func (v *Viewport) viewSpan() (w, h float64) {
	w = clampf(v.extentW/v.zoom, v.extentW/ZoomMax, 2*v.extentW)
	h = clampf(v.extentH/v.zoom, v.extentH/ZoomMax, 2*v.extentH)
	return w, h
}

// Window returns the visible logical-space rectangle.
func (v *Viewport) Window() diagram.Rect {
	w, h := v.viewSpan()
	origin := diagram.Point{
		X: clampf(v.center.X-w/2, -CanvasPadding, v.extentW+CanvasPadding-w),
		Y: clampf(v.center.Y-h/2, -CanvasPadding, v.extentH+CanvasPadding-h),
	}
	return diagram.Rect{X: origin.X, Y: origin.Y, Width: w, Height: h}
}

// ToLogical projects a pointer position within the container onto
// logical canvas coordinates. Returns false when the container is
// degenerate and no projection exists.
func (v *Viewport) ToLogical(px, py float64, c ContainerRect) (diagram.Point, bool) {
	if c.Width <= 0 || c.Height <= 0 {
		return diagram.Point{}, false
	}
	win := v.Window()
	rx := (px - c.X) / c.Width
	ry := (py - c.Y) / c.Height
	return diagram.Point{
		X: win.X + rx*win.Width,
		Y: win.Y + ry*win.Height,
	}, true
}

// ToScreen projects a logical point back to container pixels. Inverse
// of ToLogical for any in-range zoom.
func (v *Viewport) ToScreen(p diagram.Point, c ContainerRect) (x, y float64) {
	win := v.Window()
	x = c.X + (p.X-win.X)/win.Width*c.Width
	y = c.Y + (p.Y-win.Y)/win.Height*c.Height
	return x, y
}

// ZoomAt changes zoom by delta while keeping the given logical point
// at the same screen position (cursor-stable zoom). The focus point's
// ratio within the window is preserved across the zoom change, then
// the resulting centre is clamped.
func (v *Viewport) ZoomAt(focus diagram.Point, delta float64) {
	oldWin := v.Window()
	if oldWin.Width <= 0 || oldWin.Height <= 0 {
		return
	}
	rx := (focus.X - oldWin.X) / oldWin.Width
	ry := (focus.Y - oldWin.Y) / oldWin.Height

	v.zoom = clampf(v.zoom+delta, ZoomMin, ZoomMax)

	w, h := v.viewSpan()
	v.center = diagram.Point{
		X: focus.X - rx*w + w/2,
		Y: focus.Y - ry*h + h/2,
	}
	v.clampCenter()
}

func (v *Viewport) clampCenter() {
	w, h := v.viewSpan()
	v.center.X = clampf(v.center.X, -CanvasPadding+w/2, v.extentW+CanvasPadding-w/2)
	v.center.Y = clampf(v.center.Y, -CanvasPadding+h/2, v.extentH+CanvasPadding-h/2)
}

// clampf clamps v to [lo, hi]. When the window is larger than the
// allowed range the midpoint is used, which centres an oversized view.
func clampf(v, lo, hi float64) float64 {
	if hi < lo {
		return (lo + hi) / 2
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampToCanvas restricts an entity centre so the entity stays fully
// on the canvas. halfW/halfH are half the entity's footprint.
func (v *Viewport) ClampToCanvas(p diagram.Point, halfW, halfH float64) diagram.Point {
	return diagram.Point{
		X: clampf(p.X, halfW, v.extentW-halfW),
		Y: clampf(p.Y, halfH, v.extentH-halfH),
	}
}
