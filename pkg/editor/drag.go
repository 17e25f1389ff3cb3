package editor

import (
	"math"

	"github.com/ha1tch/netsketch/pkg/canvas"
	"github.com/ha1tch/netsketch/pkg/diagram"
)

// DragThreshold is the logical-unit displacement on either axis past
// which a pointer gesture counts as a drag rather than a click.
const DragThreshold = 5.0

// Default device footprint, used to keep dragged devices on-canvas.
const (
	DeviceHalfWidth  = 24.0
	DeviceHalfHeight = 24.0
)

// PositionCommitter receives final positions at drag release. Commits
// are expected to be asynchronous and non-blocking.
type PositionCommitter interface {
	CommitDevicePosition(id string, p diagram.Point)
}

// DragPhase is the drag state machine's current state.
type DragPhase int

const (
	DragIdle DragPhase = iota
	DragSingle
	DragGroup
)

type dragMember struct {
	id     string
	start  diagram.Point
	offset diagram.Point // down-point minus entity position
}

// DragController runs single- and group-entity drag sessions. A
// session exists only while the pointer is captured; positions are
// updated live on the diagram and committed exactly once at release.
type DragController struct {
	viewport  *canvas.Viewport
	selection *SelectionModel
	bus       *Bus
	committer PositionCommitter

	phase        DragPhase
	members      []dragMember
	startPointer diagram.Point
	hasMoved     bool
	delta        diagram.Point
}

// NewDragController wires a controller to its collaborators. committer
// may be nil, in which case releases only publish events.
func NewDragController(vp *canvas.Viewport, sel *SelectionModel, bus *Bus, committer PositionCommitter) *DragController {
	return &DragController{
		viewport:  vp,
		selection: sel,
		bus:       bus,
		committer: committer,
	}
}

// Phase returns the current state.
func (dc *DragController) Phase() DragPhase { return dc.phase }

// Active reports whether a drag session is in flight.
func (dc *DragController) Active() bool { return dc.phase != DragIdle }

// Moved reports whether the session has crossed the drag threshold.
// Once true it stays true for the rest of the session.
func (dc *DragController) Moved() bool { return dc.hasMoved }

// PointerDown starts a drag session for the device under the pointer.
// When the device belongs to an active multi-selection with at least
// two members, every member joins a group session; otherwise a single
// session starts. Returns false (no-op) when no logical projection is
// available or a session is already active.
func (dc *DragController) PointerDown(d *diagram.Diagram, deviceID string, px, py float64, c canvas.ContainerRect) bool {
	if dc.phase != DragIdle {
		return false
	}
	logical, ok := dc.viewport.ToLogical(px, py, c)
	if !ok {
		return false
	}
	dev := d.FindDevice(deviceID)
	if dev == nil || dev.Position == nil {
		return false
	}

	group := dc.selection != nil &&
		dc.selection.MultiSize() >= 2 &&
		dc.selection.InMulti(deviceID)

	dc.members = dc.members[:0]
	if group {
		for _, id := range dc.selection.MultiIDs() {
			member := d.FindDevice(id)
			if member == nil || member.Position == nil {
				continue
			}
			dc.members = append(dc.members, dragMember{
				id:     id,
				start:  *member.Position,
				offset: diagram.Point{X: logical.X - member.Position.X, Y: logical.Y - member.Position.Y},
			})
		}
		dc.phase = DragGroup
	} else {
		dc.members = append(dc.members, dragMember{
			id:     deviceID,
			start:  *dev.Position,
			offset: diagram.Point{X: logical.X - dev.Position.X, Y: logical.Y - dev.Position.Y},
		})
		dc.phase = DragSingle
	}

	dc.startPointer = logical
	dc.hasMoved = false
	dc.delta = diagram.Point{}
	return true
}

// PointerMove updates the live draft positions. The shared delta is
// clamped per-axis so every member stays within
// [halfSize, extent-halfSize]; clamping the delta rather than each
// member keeps a group drag a rigid translation at canvas edges.
func (dc *DragController) PointerMove(d *diagram.Diagram, px, py float64, c canvas.ContainerRect) {
	if dc.phase == DragIdle {
		return
	}
	logical, ok := dc.viewport.ToLogical(px, py, c)
	if !ok {
		return
	}

	raw := diagram.Point{X: logical.X - dc.startPointer.X, Y: logical.Y - dc.startPointer.Y}
	if math.Abs(raw.X) > DragThreshold || math.Abs(raw.Y) > DragThreshold {
		dc.hasMoved = true
	}
	if !dc.hasMoved {
		return
	}

	dc.delta = dc.clampDelta(raw)
	for _, m := range dc.members {
		_ = d.SetDevicePosition(m.id, diagram.Point{
			X: m.start.X + dc.delta.X,
			Y: m.start.Y + dc.delta.Y,
		})
	}
}

// clampDelta restricts the translation so every member's centre stays
// inside the canvas margins.
func (dc *DragController) clampDelta(raw diagram.Point) diagram.Point {
	extentW, extentH := dc.viewport.Extent()
	lo := diagram.Point{X: math.Inf(-1), Y: math.Inf(-1)}
	hi := diagram.Point{X: math.Inf(1), Y: math.Inf(1)}
	for _, m := range dc.members {
		lo.X = math.Max(lo.X, DeviceHalfWidth-m.start.X)
		hi.X = math.Min(hi.X, extentW-DeviceHalfWidth-m.start.X)
		lo.Y = math.Max(lo.Y, DeviceHalfHeight-m.start.Y)
		hi.Y = math.Min(hi.Y, extentH-DeviceHalfHeight-m.start.Y)
	}
	clamp := func(v, lo, hi float64) float64 {
		if hi < lo {
			return (lo + hi) / 2
		}
		return math.Min(math.Max(v, lo), hi)
	}
	return diagram.Point{X: clamp(raw.X, lo.X, hi.X), Y: clamp(raw.Y, lo.Y, hi.Y)}
}

// PointerUp ends the session. A session that crossed the threshold
// issues exactly one commit per member with its final position; one
// that did not issues nothing and leaves click handling to selection
// logic. Either way the controller returns to Idle.
func (dc *DragController) PointerUp(d *diagram.Diagram, px, py float64, c canvas.ContainerRect) {
	if dc.phase == DragIdle {
		return
	}
	dc.PointerMove(d, px, py, c)

	if dc.hasMoved {
		moves := make([]Move, 0, len(dc.members))
		for _, m := range dc.members {
			final := diagram.Point{X: m.start.X + dc.delta.X, Y: m.start.Y + dc.delta.Y}
			if dc.committer != nil {
				dc.committer.CommitDevicePosition(m.id, final)
			}
			moves = append(moves, Move{ID: m.id, Position: final})
		}
		if dc.bus != nil {
			dc.bus.Publish(DragCommitted{Moves: moves})
		}
	}
	dc.reset()
}

// Cancel aborts the session without committing, restoring every
// member to its pre-drag position.
func (dc *DragController) Cancel(d *diagram.Diagram) {
	if dc.phase == DragIdle {
		return
	}
	for _, m := range dc.members {
		_ = d.SetDevicePosition(m.id, m.start)
	}
	dc.reset()
}

func (dc *DragController) reset() {
	dc.phase = DragIdle
	dc.members = dc.members[:0]
	dc.hasMoved = false
	dc.delta = diagram.Point{}
}
