package editor

import (
	"time"

	"github.com/ha1tch/netsketch/pkg/diagram"
)

// WheelInterval is the minimum spacing between zoom recomputations
// under rapid wheel input.
const WheelInterval = 16 * time.Millisecond

// WheelCoalescer folds bursts of wheel events into at most one zoom
// update per interval. Deltas accumulate; the focus point of the most
// recent event wins.
type WheelCoalescer struct {
	now   func() time.Time
	last  time.Time
	sum   float64
	focus diagram.Point
	dirty bool
}

// NewWheelCoalescer creates a coalescer. now may be nil to use the
// wall clock; tests inject a fake.
func NewWheelCoalescer(now func() time.Time) *WheelCoalescer {
	if now == nil {
		now = time.Now
	}
	return &WheelCoalescer{now: now}
}

// Add records a wheel event. When at least WheelInterval has passed
// since the last flush, the accumulated delta and latest focus are
// returned with ok=true and the accumulator resets.
func (w *WheelCoalescer) Add(delta float64, focus diagram.Point) (float64, diagram.Point, bool) {
	w.sum += delta
	w.focus = focus
	w.dirty = true

	t := w.now()
	if !w.last.IsZero() && t.Sub(w.last) < WheelInterval {
		return 0, diagram.Point{}, false
	}
	return w.flush(t)
}

// Flush forces out any pending delta, e.g. when the pointer leaves the
// canvas mid-burst.
func (w *WheelCoalescer) Flush() (float64, diagram.Point, bool) {
	if !w.dirty {
		return 0, diagram.Point{}, false
	}
	return w.flush(w.now())
}

func (w *WheelCoalescer) flush(t time.Time) (float64, diagram.Point, bool) {
	delta, focus := w.sum, w.focus
	w.sum = 0
	w.dirty = false
	w.last = t
	return delta, focus, true
}
