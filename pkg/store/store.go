// Package store persists diagram state. The editor mutates its local
// diagram synchronously and hands durable writes to a Dispatcher,
// which applies them to a Store off the interaction loop.
package store

import (
	"context"

	"github.com/ha1tch/netsketch/pkg/diagram"
)

// Op names a durable write for logging and failure events.
type Op string

const (
	OpMoveDevice       Op = "move_device"
	OpSaveDevice       Op = "save_device"
	OpDeleteDevice     Op = "delete_device"
	OpSaveBoundary     Op = "save_boundary"
	OpUpdateBoundary   Op = "update_boundary"
	OpDeleteBoundary   Op = "delete_boundary"
	OpSaveConnection   Op = "save_connection"
	OpDeleteConnection Op = "delete_connection"
)

// Store is a durable diagram backend.
type Store interface {
	SaveDevice(ctx context.Context, dev diagram.Device) error
	SaveDevicePosition(ctx context.Context, id string, p diagram.Point) error
	DeleteDevice(ctx context.Context, id string) error

	SaveBoundary(ctx context.Context, b diagram.Boundary) error
	UpdateBoundaryRect(ctx context.Context, id string, rect diagram.Rect, points []diagram.Point) error
	DeleteBoundary(ctx context.Context, id string) error

	SaveConnection(ctx context.Context, c diagram.Connection) error
	DeleteConnection(ctx context.Context, id string) error

	// Load returns a snapshot of the stored diagram.
	Load(ctx context.Context) (*diagram.Diagram, error)
}
