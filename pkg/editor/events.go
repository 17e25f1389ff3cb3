// Package editor implements the interaction engine of the diagram
// editor: selection, drag sessions, boundary drawing, and the event
// stream external observers (history, persistence, analytics)
// subscribe to.
package editor

import (
	"github.com/ha1tch/netsketch/pkg/diagram"
)

// Event is a discrete committed occurrence published on the Bus.
type Event interface{ event() }

// Move is one committed device position.
type Move struct {
	ID       string
	Position diagram.Point
}

// SelectionChanged is published whenever the selection model mutates.
type SelectionChanged struct {
	Selection Selection
}

// DragCommitted is published once per completed drag, carrying every
// committed move. A group drag carries one Move per member.
type DragCommitted struct {
	Moves []Move
}

// BoundaryCommitted is published when a boundary create or geometry
// update is committed.
type BoundaryCommitted struct {
	Boundary diagram.Boundary
	Updated  bool // false for a fresh draw-commit
}

// CommitFailed is published when an asynchronous store write reports
// failure. The engine never rolls back local state; subscribers decide
// whether to retry or revert.
type CommitFailed struct {
	EntityID string
	Op       string
	Err      error
}

func (SelectionChanged) event()  {}
func (DragCommitted) event()     {}
func (BoundaryCommitted) event() {}
func (CommitFailed) event()      {}

// Bus is a synchronous observer list. Handlers run inline in the
// interaction step that published the event; the engine itself is
// single-threaded.
type Bus struct {
	subs []func(Event)
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a handler for all events.
func (b *Bus) Subscribe(fn func(Event)) {
	b.subs = append(b.subs, fn)
}

// Publish delivers an event to every subscriber in order.
func (b *Bus) Publish(ev Event) {
	for _, fn := range b.subs {
		fn(ev)
	}
}
