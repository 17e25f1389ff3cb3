package canvas

import (
	"math"

	"github.com/ha1tch/netsketch/pkg/diagram"
)

// Connection label sizing.
const (
	LabelMinWidth  = 44.0
	LabelCharWidth = 7.0
	LabelPadding   = 4.0
	LabelHeight    = 16.0

	// Vertical gap between a boundary's bottom edge and a below-placed
	// label.
	labelBelowOffset = 14.0
)

// BoundingBox derives the axis-aligned bounding box of a point list.
// Width and height are floored at 1 so degenerate boundaries still
// have a hit-testable area. Returns false for an empty list.
func BoundingBox(points []diagram.Point) (diagram.Rect, bool) {
	if len(points) == 0 {
		return diagram.Rect{}, false
	}
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := points[0].X, points[0].Y
	for _, p := range points[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return diagram.Rect{
		X:      minX,
		Y:      minY,
		Width:  math.Max(1, maxX-minX),
		Height: math.Max(1, maxY-minY),
	}, true
}

// BoundaryRect resolves a boundary's rectangle: the explicit rect
// fields when present, otherwise the bounding box of its points.
func BoundaryRect(b diagram.Boundary) (diagram.Rect, bool) {
	if b.Rect != nil {
		return *b.Rect, true
	}
	return BoundingBox(b.Points)
}

// BoundaryLabelAnchor returns where a boundary's label is centred,
// honouring the per-boundary label placement option.
func BoundaryLabelAnchor(b diagram.Boundary) (diagram.Point, bool) {
	rect, ok := BoundaryRect(b)
	if !ok {
		return diagram.Point{}, false
	}
	opts, _ := diagram.ParseBoundaryOptions(b.Config)
	switch opts.LabelPlacement {
	case diagram.LabelBelow:
		return diagram.Point{
			X: rect.X + rect.Width/2,
			Y: rect.Y + rect.Height + labelBelowOffset,
		}, true
	default:
		return rect.Center(), true
	}
}

// Segment is the render-ready geometry for one connection.
type Segment struct {
	Connection diagram.Connection
	From       diagram.Point
	To         diagram.Point
	Midpoint   diagram.Point
	LabelBox   diagram.Rect
}

// LabelBoxAt sizes a label box for the given text, centred on p.
func LabelBoxAt(p diagram.Point, text string) diagram.Rect {
	w := math.Max(LabelMinWidth, float64(len(text))*LabelCharWidth+2*LabelPadding)
	return diagram.Rect{
		X:      p.X - w/2,
		Y:      p.Y - LabelHeight/2,
		Width:  w,
		Height: LabelHeight,
	}
}

// ResolveConnections projects connections onto resolved device
// positions. Connections whose source or target is missing from the
// position map are dropped from the result; a dangling reference is
// not an error here, the device may simply have been deleted.
func ResolveConnections(conns []diagram.Connection, positions map[string]diagram.Point) []Segment {
	segments := make([]Segment, 0, len(conns))
	for _, c := range conns {
		from, okFrom := positions[c.SourceID]
		to, okTo := positions[c.TargetID]
		if !okFrom || !okTo {
			continue
		}
		mid := diagram.Point{X: (from.X + to.X) / 2, Y: (from.Y + to.Y) / 2}
		segments = append(segments, Segment{
			Connection: c,
			From:       from,
			To:         to,
			Midpoint:   mid,
			LabelBox:   LabelBoxAt(mid, c.LinkType),
		})
	}
	return segments
}
