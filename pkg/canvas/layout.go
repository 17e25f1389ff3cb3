package canvas

import (
	"math"

	"github.com/ha1tch/netsketch/pkg/diagram"
)

// RingParams configures the fallback ring-packing layout.
type RingParams struct {
	Center    diagram.Point
	MinRadius float64
	MaxRadius float64
}

// DefaultRingParams returns ring parameters sized to a canvas extent.
func DefaultRingParams(extentW, extentH float64) RingParams {
	short := math.Min(extentW, extentH)
	return RingParams{
		Center:    diagram.Point{X: extentW / 2, Y: extentH / 2},
		MinRadius: short * 0.15,
		MaxRadius: short * 0.4,
	}
}

// RingLayout assigns deterministic positions to devices that carry no
// explicit position, distributing them across concentric rings around
// the canvas centre. The result depends only on the id ordering; the
// same input always produces the same placement.
func RingLayout(orderedIDs []string, params RingParams) map[string]diagram.Point {
	positions := make(map[string]diagram.Point, len(orderedIDs))
	n := len(orderedIDs)
	if n == 0 {
		return positions
	}
	if n == 1 {
		positions[orderedIDs[0]] = params.Center
		return positions
	}

	rings := int(math.Floor(math.Sqrt(float64(n) / 6)))
	if rings < 1 {
		rings = 1
	}
	perRing := (n + rings - 1) / rings

	for i, id := range orderedIDs {
		ringIndex := i / perRing
		slot := i % perRing
		totalInRing := perRing
		if remaining := n - ringIndex*perRing; remaining < totalInRing {
			totalInRing = remaining
		}

		radius := params.MinRadius
		if rings > 1 {
			radius += (params.MaxRadius - params.MinRadius) *
				float64(ringIndex) / float64(rings-1)
		}

		angle := 2 * math.Pi * float64(slot) / float64(totalInRing)
		positions[id] = diagram.Point{
			X: params.Center.X + radius*math.Cos(angle),
			Y: params.Center.Y + radius*math.Sin(angle),
		}
	}
	return positions
}

// ApplyFallbackLayout fills in positions for every unpositioned device
// in the diagram and returns the ids that were placed.
func ApplyFallbackLayout(d *diagram.Diagram, params RingParams) []string {
	ids := d.UnpositionedDeviceIDs()
	placed := RingLayout(ids, params)
	for id, p := range placed {
		// Positions from the layout are always finite.
		_ = d.SetDevicePosition(id, p)
	}
	return ids
}
