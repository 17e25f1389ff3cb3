package store

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ha1tch/netsketch/pkg/diagram"
	"github.com/ha1tch/netsketch/pkg/editor"
)

// commitTimeout bounds a single store write.
const commitTimeout = 5 * time.Second

type task struct {
	entityID string
	rev      uint64
	op       Op
	fn       func(ctx context.Context) error
}

// Dispatcher applies durable writes off the interaction loop. Commits
// are fire-and-forget: the editor keeps its local state and moves on.
// Each entity carries a revision counter; a queued write whose revision
// is no longer current is dropped, so a stale result can never land on
// top of a newer one.
type Dispatcher struct {
	store  Store
	log    *zap.Logger
	notify func(editor.Event)

	mu   sync.Mutex
	revs map[string]uint64

	queue chan task
	done  chan struct{}
	once  sync.Once
}

// NewDispatcher creates a dispatcher over store. notify receives
// CommitFailed events from the worker goroutine; callers that feed a
// UI loop must re-post into it. Both log and notify may be nil.
func NewDispatcher(store Store, log *zap.Logger, notify func(editor.Event)) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	if notify == nil {
		notify = func(editor.Event) {}
	}
	return &Dispatcher{
		store:  store,
		log:    log,
		notify: notify,
		revs:   make(map[string]uint64),
		queue:  make(chan task, 256),
		done:   make(chan struct{}),
	}
}

// Start launches the worker. Submissions before Start queue up and are
// processed once it runs.
func (d *Dispatcher) Start() {
	d.once.Do(func() { go d.run() })
}

// Close stops intake, drains every pending write, and waits for the
// worker to exit. The dispatcher must not be used afterwards.
func (d *Dispatcher) Close() {
	d.Start()
	close(d.queue)
	<-d.done
}

// Submit enqueues one durable write for the given entity. It bumps the
// entity revision, so any older write still in the queue becomes stale.
func (d *Dispatcher) Submit(entityID string, op Op, fn func(ctx context.Context) error) {
	d.mu.Lock()
	d.revs[entityID]++
	rev := d.revs[entityID]
	d.mu.Unlock()

	d.queue <- task{entityID: entityID, rev: rev, op: op, fn: fn}
}

// CommitDevicePosition implements editor.PositionCommitter.
func (d *Dispatcher) CommitDevicePosition(id string, p diagram.Point) {
	d.Submit(id, OpMoveDevice, func(ctx context.Context) error {
		return d.store.SaveDevicePosition(ctx, id, p)
	})
}

// CreateBoundary implements editor.BoundaryWriter.
func (d *Dispatcher) CreateBoundary(b diagram.Boundary) {
	d.Submit(b.ID, OpSaveBoundary, func(ctx context.Context) error {
		return d.store.SaveBoundary(ctx, b)
	})
}

// UpdateBoundaryRect implements editor.BoundaryWriter.
func (d *Dispatcher) UpdateBoundaryRect(id string, rect diagram.Rect, points []diagram.Point) {
	d.Submit(id, OpUpdateBoundary, func(ctx context.Context) error {
		return d.store.UpdateBoundaryRect(ctx, id, rect, points)
	})
}

// SaveDevice persists a created or edited device.
func (d *Dispatcher) SaveDevice(dev diagram.Device) {
	d.Submit(dev.ID, OpSaveDevice, func(ctx context.Context) error {
		return d.store.SaveDevice(ctx, dev)
	})
}

// DeleteDevice removes a device and its connections from the store.
func (d *Dispatcher) DeleteDevice(id string) {
	d.Submit(id, OpDeleteDevice, func(ctx context.Context) error {
		return d.store.DeleteDevice(ctx, id)
	})
}

// DeleteBoundary removes a boundary from the store.
func (d *Dispatcher) DeleteBoundary(id string) {
	d.Submit(id, OpDeleteBoundary, func(ctx context.Context) error {
		return d.store.DeleteBoundary(ctx, id)
	})
}

// SaveConnection persists a connection.
func (d *Dispatcher) SaveConnection(c diagram.Connection) {
	d.Submit(c.ID, OpSaveConnection, func(ctx context.Context) error {
		return d.store.SaveConnection(ctx, c)
	})
}

// DeleteConnection removes a connection from the store.
func (d *Dispatcher) DeleteConnection(id string) {
	d.Submit(id, OpDeleteConnection, func(ctx context.Context) error {
		return d.store.DeleteConnection(ctx, id)
	})
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for t := range d.queue {
		if d.stale(t) {
			d.log.Debug("dropping stale commit",
				zap.String("entity", t.entityID),
				zap.String("op", string(t.op)),
				zap.Uint64("rev", t.rev))
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), commitTimeout)
		err := t.fn(ctx)
		cancel()
		if err != nil {
			d.log.Warn("commit failed",
				zap.String("entity", t.entityID),
				zap.String("op", string(t.op)),
				zap.Error(err))
			d.notify(editor.CommitFailed{EntityID: t.entityID, Op: string(t.op), Err: err})
		}
	}
}

func (d *Dispatcher) stale(t task) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return t.rev != d.revs[t.entityID]
}
