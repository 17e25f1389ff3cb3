package editor

import (
	"fmt"
	"math"
	"time"

	"github.com/ha1tch/netsketch/pkg/canvas"
	"github.com/ha1tch/netsketch/pkg/diagram"
)

// Boundary sizing rules.
const (
	// MinDrawSpan is the minimum commit size for a freshly drawn
	// boundary. The rule is per-axis OR: a rectangle commits when
	// width or height reaches the minimum.
	MinDrawSpan = 20.0

	// MinResizeSpan is the minimum span per axis while corner-resizing
	// an existing boundary.
	MinResizeSpan = 50.0
)

// Corner identifies a boundary corner handle, in canonical winding
// order.
type Corner int

const (
	CornerTL Corner = iota
	CornerTR
	CornerBR
	CornerBL
)

// opposite returns the anchored corner for a resize.
func (c Corner) opposite() Corner {
	return (c + 2) % 4
}

// BoundaryWriter receives committed boundary creates and geometry
// updates. Writes are expected to be asynchronous and non-blocking.
type BoundaryWriter interface {
	CreateBoundary(b diagram.Boundary)
	UpdateBoundaryRect(id string, rect diagram.Rect, points []diagram.Point)
}

// DrawPhase is the drawing state machine's current state.
type DrawPhase int

const (
	DrawInactive DrawPhase = iota // no draw mode active
	DrawArmed                     // mode entered, waiting for first corner
	DrawDragging                  // first corner recorded, pointer held
)

// BoundaryDrawEngine runs the two-point rectangle drawing protocol and
// the corner-resize protocol for boundaries.
type BoundaryDrawEngine struct {
	viewport *canvas.Viewport
	bus      *Bus
	writer   BoundaryWriter
	now      func() time.Time

	phase        DrawPhase
	boundaryType string
	first        diagram.Point
	preview      *diagram.Rect

	resizing     bool
	resizeID     string
	resizeAnchor diagram.Point
	resizeCorner Corner
	draft        *diagram.Rect
}

// NewBoundaryDrawEngine wires the engine to its collaborators. writer
// may be nil, in which case commits only publish events.
func NewBoundaryDrawEngine(vp *canvas.Viewport, bus *Bus, writer BoundaryWriter) *BoundaryDrawEngine {
	return &BoundaryDrawEngine{
		viewport: vp,
		bus:      bus,
		writer:   writer,
		now:      time.Now,
	}
}

// Phase returns the drawing state.
func (e *BoundaryDrawEngine) Phase() DrawPhase { return e.phase }

// Active reports whether draw mode is engaged.
func (e *BoundaryDrawEngine) Active() bool { return e.phase != DrawInactive }

// EnterDrawMode arms drawing for one boundary type. Re-entry is
// rejected until the engine returns to inactive.
func (e *BoundaryDrawEngine) EnterDrawMode(boundaryType string) error {
	if e.phase != DrawInactive {
		return fmt.Errorf("editor: draw mode already active for %q", e.boundaryType)
	}
	e.phase = DrawArmed
	e.boundaryType = boundaryType
	e.preview = nil
	return nil
}

// PointerDown records the first corner. The caller only routes downs
// that hit empty canvas here. A no-op unless armed, or when no
// projection is available.
func (e *BoundaryDrawEngine) PointerDown(px, py float64, c canvas.ContainerRect) {
	if e.phase != DrawArmed {
		return
	}
	logical, ok := e.viewport.ToLogical(px, py, c)
	if !ok {
		return
	}
	e.first = logical
	e.phase = DrawDragging
	r := diagram.Rect{X: logical.X, Y: logical.Y}
	e.preview = &r
}

// PointerMove updates the live preview rectangle: the per-axis min/max
// of the first corner and the current pointer.
func (e *BoundaryDrawEngine) PointerMove(px, py float64, c canvas.ContainerRect) {
	if e.phase != DrawDragging {
		return
	}
	logical, ok := e.viewport.ToLogical(px, py, c)
	if !ok {
		return
	}
	r := rectBetween(e.first, logical)
	e.preview = &r
}

// PointerUp finishes the draw. The rectangle commits when its width
// or height reaches MinDrawSpan; anything smaller is discarded
// silently. Draw mode exits either way.
func (e *BoundaryDrawEngine) PointerUp(px, py float64, c canvas.ContainerRect) (diagram.Boundary, bool) {
	if e.phase != DrawDragging {
		return diagram.Boundary{}, false
	}
	logical, ok := e.viewport.ToLogical(px, py, c)
	if !ok {
		e.resetDraw()
		return diagram.Boundary{}, false
	}
	r := rectBetween(e.first, logical)
	e.resetDraw()

	if r.Width < MinDrawSpan && r.Height < MinDrawSpan {
		return diagram.Boundary{}, false
	}

	b := diagram.Boundary{
		ID:     diagram.NewID(),
		Type:   e.boundaryType,
		Points: diagram.RectanglePoints(r.X, r.Y, r.X+r.Width, r.Y+r.Height),
		Rect:   &r,
		Style:  diagram.BoundaryStylePreset(e.boundaryType),
		Label: fmt.Sprintf("%s %s",
			diagram.BoundaryTypeLabel(e.boundaryType),
			e.now().Format("2006-01-02")),
	}
	if e.writer != nil {
		e.writer.CreateBoundary(b)
	}
	if e.bus != nil {
		e.bus.Publish(BoundaryCommitted{Boundary: b})
	}
	return b, true
}

// Cancel resets drawing to inactive regardless of progress. Any
// resize draft is discarded as well.
func (e *BoundaryDrawEngine) Cancel() {
	e.resetDraw()
	e.resetResize()
}

// Preview returns the live draw rectangle, if any.
func (e *BoundaryDrawEngine) Preview() (diagram.Rect, bool) {
	if e.preview == nil {
		return diagram.Rect{}, false
	}
	return *e.preview, true
}

func (e *BoundaryDrawEngine) resetDraw() {
	e.phase = DrawInactive
	e.preview = nil
}

// StartResize begins a corner-resize of a selected boundary. The
// opposite corner becomes the fixed anchor. Returns false when the
// boundary has no resolvable rectangle or a session is active.
func (e *BoundaryDrawEngine) StartResize(b diagram.Boundary, corner Corner) bool {
	if e.resizing || e.phase != DrawInactive {
		return false
	}
	rect, ok := canvas.BoundaryRect(b)
	if !ok {
		return false
	}
	corners := []diagram.Point{
		{X: rect.X, Y: rect.Y},
		{X: rect.X + rect.Width, Y: rect.Y},
		{X: rect.X + rect.Width, Y: rect.Y + rect.Height},
		{X: rect.X, Y: rect.Y + rect.Height},
	}
	e.resizing = true
	e.resizeID = b.ID
	e.resizeCorner = corner
	e.resizeAnchor = corners[corner.opposite()]
	draft := rect
	e.draft = &draft
	return true
}

// Resizing reports whether a resize session is in flight.
func (e *BoundaryDrawEngine) Resizing() bool { return e.resizing }

// ResizeDraft returns the live resize rectangle, if any.
func (e *BoundaryDrawEngine) ResizeDraft() (diagram.Rect, bool) {
	if e.draft == nil {
		return diagram.Rect{}, false
	}
	return *e.draft, true
}

// ResizeMove recomputes the draft rectangle from the anchor and the
// pointer, enforcing the minimum span per axis. The dragged corner
// never crosses the anchor.
func (e *BoundaryDrawEngine) ResizeMove(px, py float64, c canvas.ContainerRect) {
	if !e.resizing {
		return
	}
	logical, ok := e.viewport.ToLogical(px, py, c)
	if !ok {
		return
	}

	x := logical.X
	y := logical.Y
	// The moving corner stays on its original side of the anchor.
	switch e.resizeCorner {
	case CornerTL:
		x = math.Min(x, e.resizeAnchor.X-MinResizeSpan)
		y = math.Min(y, e.resizeAnchor.Y-MinResizeSpan)
	case CornerTR:
		x = math.Max(x, e.resizeAnchor.X+MinResizeSpan)
		y = math.Min(y, e.resizeAnchor.Y-MinResizeSpan)
	case CornerBR:
		x = math.Max(x, e.resizeAnchor.X+MinResizeSpan)
		y = math.Max(y, e.resizeAnchor.Y+MinResizeSpan)
	case CornerBL:
		x = math.Min(x, e.resizeAnchor.X-MinResizeSpan)
		y = math.Max(y, e.resizeAnchor.Y+MinResizeSpan)
	}

	r := rectBetween(e.resizeAnchor, diagram.Point{X: x, Y: y})
	e.draft = &r
}

// EndResize commits the draft once and clears the session. Returns the
// committed rectangle when an update was issued.
func (e *BoundaryDrawEngine) EndResize() (diagram.Rect, bool) {
	if !e.resizing || e.draft == nil {
		e.resetResize()
		return diagram.Rect{}, false
	}
	r := *e.draft
	id := e.resizeID
	e.resetResize()

	points := diagram.RectanglePoints(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
	if e.writer != nil {
		e.writer.UpdateBoundaryRect(id, r, points)
	}
	if e.bus != nil {
		e.bus.Publish(BoundaryCommitted{
			Boundary: diagram.Boundary{ID: id, Points: points, Rect: &r},
			Updated:  true,
		})
	}
	return r, true
}

// CancelResize discards the draft without committing.
func (e *BoundaryDrawEngine) CancelResize() {
	e.resetResize()
}

func (e *BoundaryDrawEngine) resetResize() {
	e.resizing = false
	e.resizeID = ""
	e.draft = nil
}

func rectBetween(a, b diagram.Point) diagram.Rect {
	minX, maxX := math.Min(a.X, b.X), math.Max(a.X, b.X)
	minY, maxY := math.Min(a.Y, b.Y), math.Max(a.Y, b.Y)
	return diagram.Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
