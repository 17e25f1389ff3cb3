package editor

import (
	"testing"
	"time"

	"github.com/ha1tch/netsketch/pkg/canvas"
	"github.com/ha1tch/netsketch/pkg/diagram"
)

type recordingWriter struct {
	created []diagram.Boundary
	updates []diagram.Rect
}

func (r *recordingWriter) CreateBoundary(b diagram.Boundary) {
	r.created = append(r.created, b)
}

func (r *recordingWriter) UpdateBoundaryRect(id string, rect diagram.Rect, points []diagram.Point) {
	r.updates = append(r.updates, rect)
}

func drawFixture() (*recordingWriter, *BoundaryDrawEngine) {
	vp := canvas.NewViewport(1600, 1200)
	writer := &recordingWriter{}
	e := NewBoundaryDrawEngine(vp, NewBus(), writer)
	e.now = func() time.Time {
		return time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)
	}
	return writer, e
}

func TestDrawCommitsUnderOrRule(t *testing.T) {
	writer, e := drawFixture()

	if err := e.EnterDrawMode(diagram.BoundaryZone); err != nil {
		t.Fatal(err)
	}
	e.PointerDown(100, 100, testContainer)
	e.PointerMove(140, 115, testContainer)
	b, committed := e.PointerUp(140, 115, testContainer)

	// width 40 >= 20 commits even though height 15 < 20.
	if !committed {
		t.Fatal("boundary did not commit")
	}
	if len(writer.created) != 1 {
		t.Fatalf("expected 1 create, got %d", len(writer.created))
	}
	wantPoints := []diagram.Point{
		{X: 100, Y: 100}, {X: 140, Y: 100}, {X: 140, Y: 115}, {X: 100, Y: 115},
	}
	for i, p := range wantPoints {
		if b.Points[i] != p {
			t.Errorf("point %d: got %+v, want %+v", i, b.Points[i], p)
		}
	}
	if b.Label != "Zone 2024-03-09" {
		t.Errorf("default label wrong: %q", b.Label)
	}
	if b.ID == "" {
		t.Error("boundary committed without id")
	}
	if b.Style != diagram.BoundaryStylePreset(diagram.BoundaryZone) {
		t.Error("style preset not applied")
	}
	if e.Active() {
		t.Error("draw mode still active after commit")
	}
}

func TestDrawDiscardsUndersizedSilently(t *testing.T) {
	writer, e := drawFixture()

	var events int
	bus := NewBus()
	bus.Subscribe(func(Event) { events++ })
	e.bus = bus

	_ = e.EnterDrawMode(diagram.BoundarySubnet)
	e.PointerDown(100, 100, testContainer)
	e.PointerMove(115, 112, testContainer)
	_, committed := e.PointerUp(115, 112, testContainer)

	if committed {
		t.Error("undersized boundary committed")
	}
	if len(writer.created) != 0 {
		t.Errorf("expected zero creates, got %d", len(writer.created))
	}
	if events != 0 {
		t.Errorf("discard published %d events", events)
	}
}

func TestEnterDrawModeRejectsReentry(t *testing.T) {
	_, e := drawFixture()

	if err := e.EnterDrawMode(diagram.BoundaryZone); err != nil {
		t.Fatal(err)
	}
	if err := e.EnterDrawMode(diagram.BoundarySite); err == nil {
		t.Error("re-entry allowed while draw mode active")
	}

	e.Cancel()
	if err := e.EnterDrawMode(diagram.BoundarySite); err != nil {
		t.Errorf("enter after cancel failed: %v", err)
	}
}

func TestCancelAlwaysResets(t *testing.T) {
	_, e := drawFixture()

	_ = e.EnterDrawMode(diagram.BoundaryZone)
	e.PointerDown(50, 50, testContainer)
	e.PointerMove(300, 300, testContainer)
	e.Cancel()

	if e.Phase() != DrawInactive {
		t.Errorf("phase after cancel: %v", e.Phase())
	}
	if _, ok := e.Preview(); ok {
		t.Error("preview survived cancel")
	}
}

func TestPreviewIsPerAxisMinMax(t *testing.T) {
	_, e := drawFixture()

	_ = e.EnterDrawMode(diagram.BoundaryZone)
	e.PointerDown(100, 100, testContainer)
	e.PointerMove(60, 140, testContainer)

	preview, ok := e.Preview()
	if !ok {
		t.Fatal("no preview while dragging")
	}
	want := diagram.Rect{X: 60, Y: 100, Width: 40, Height: 40}
	if preview != want {
		t.Errorf("preview %+v, want %+v", preview, want)
	}
}

func TestResizeEnforcesMinimumSpan(t *testing.T) {
	writer, e := drawFixture()
	r := diagram.Rect{X: 0, Y: 0, Width: 200, Height: 100}
	b := diagram.Boundary{ID: "b1", Rect: &r}

	if !e.StartResize(b, CornerBR) {
		t.Fatal("resize did not start")
	}
	e.ResizeMove(30, 20, testContainer)

	draft, ok := e.ResizeDraft()
	if !ok {
		t.Fatal("no resize draft")
	}
	want := diagram.Rect{X: 0, Y: 0, Width: MinResizeSpan, Height: MinResizeSpan}
	if draft != want {
		t.Errorf("draft %+v, want %+v", draft, want)
	}

	committed, ok := e.EndResize()
	if !ok || committed != want {
		t.Errorf("committed %+v, want %+v", committed, want)
	}
	if len(writer.updates) != 1 {
		t.Errorf("expected 1 update, got %d", len(writer.updates))
	}
}

func TestResizeAnchorsOppositeCorner(t *testing.T) {
	_, e := drawFixture()
	r := diagram.Rect{X: 100, Y: 100, Width: 200, Height: 200}
	b := diagram.Boundary{ID: "b1", Rect: &r}

	// Dragging TL anchors BR at (300,300).
	e.StartResize(b, CornerTL)
	e.ResizeMove(150, 180, testContainer)

	draft, _ := e.ResizeDraft()
	want := diagram.Rect{X: 150, Y: 180, Width: 150, Height: 120}
	if draft != want {
		t.Errorf("draft %+v, want %+v", draft, want)
	}
}

func TestCancelResizeDiscardsDraft(t *testing.T) {
	writer, e := drawFixture()
	r := diagram.Rect{X: 0, Y: 0, Width: 200, Height: 100}

	e.StartResize(diagram.Boundary{ID: "b1", Rect: &r}, CornerBR)
	e.ResizeMove(500, 400, testContainer)
	e.CancelResize()

	if e.Resizing() {
		t.Error("resize still active after cancel")
	}
	if _, ok := e.ResizeDraft(); ok {
		t.Error("draft survived cancel")
	}
	if len(writer.updates) != 0 {
		t.Errorf("cancel committed %d updates", len(writer.updates))
	}

	if _, ok := e.EndResize(); ok {
		t.Error("EndResize committed after cancel")
	}
}
