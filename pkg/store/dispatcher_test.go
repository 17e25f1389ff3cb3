package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/netsketch/pkg/diagram"
	"github.com/ha1tch/netsketch/pkg/editor"
)

type countingStore struct {
	Store
	mu        sync.Mutex
	positions []diagram.Point
	err       error
}

func (s *countingStore) SaveDevicePosition(ctx context.Context, id string, p diagram.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.positions = append(s.positions, p)
	return nil
}

func (s *countingStore) saved() []diagram.Point {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]diagram.Point(nil), s.positions...)
}

func TestDispatcherDropsStaleWrites(t *testing.T) {
	fake := &countingStore{}
	d := NewDispatcher(fake, nil, nil)

	// Two commits for the same device queued before the worker runs.
	// Only the newest revision may reach the store.
	d.CommitDevicePosition("r1", diagram.Point{X: 10, Y: 10})
	d.CommitDevicePosition("r1", diagram.Point{X: 99, Y: 88})
	d.Start()
	d.Close()

	saved := fake.saved()
	require.Len(t, saved, 1)
	assert.Equal(t, diagram.Point{X: 99, Y: 88}, saved[0])
}

func TestDispatcherKeepsWritesForDistinctEntities(t *testing.T) {
	fake := &countingStore{}
	d := NewDispatcher(fake, nil, nil)

	d.CommitDevicePosition("r1", diagram.Point{X: 1, Y: 1})
	d.CommitDevicePosition("r2", diagram.Point{X: 2, Y: 2})
	d.Start()
	d.Close()

	assert.Len(t, fake.saved(), 2)
}

func TestDispatcherReportsFailures(t *testing.T) {
	fake := &countingStore{err: errors.New("disk gone")}

	var mu sync.Mutex
	var failures []editor.CommitFailed
	d := NewDispatcher(fake, nil, func(ev editor.Event) {
		if cf, ok := ev.(editor.CommitFailed); ok {
			mu.Lock()
			failures = append(failures, cf)
			mu.Unlock()
		}
	})

	d.Start()
	d.CommitDevicePosition("r1", diagram.Point{X: 5, Y: 5})
	d.Close()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, failures, 1)
	assert.Equal(t, "r1", failures[0].EntityID)
	assert.Equal(t, string(OpMoveDevice), failures[0].Op)
	assert.EqualError(t, failures[0].Err, "disk gone")
}

func TestDispatcherForwardsSaves(t *testing.T) {
	backing := NewMemoryStore(nil)
	d := NewDispatcher(backing, nil, nil)

	d.SaveDevice(diagram.Device{ID: "r1", Type: diagram.DeviceRouter})
	d.SaveDevice(diagram.Device{ID: "r2", Type: diagram.DeviceSwitch})
	d.SaveConnection(diagram.Connection{ID: "c1", SourceID: "r1", TargetID: "r2"})
	d.Start()
	d.Close()

	snap, err := backing.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, snap.FindDevice("r1"))
	assert.NotNil(t, snap.FindDevice("r2"))
	assert.Len(t, snap.Connections, 1)
}

func TestDispatcherForwardsDeletes(t *testing.T) {
	seed := diagram.New()
	p1 := diagram.Point{X: 10, Y: 10}
	p2 := diagram.Point{X: 90, Y: 10}
	seed.AddDevice(diagram.Device{ID: "r1", Type: diagram.DeviceRouter, Position: &p1})
	seed.AddDevice(diagram.Device{ID: "r2", Type: diagram.DeviceSwitch, Position: &p2})
	seed.AddConnection(diagram.Connection{ID: "c1", SourceID: "r1", TargetID: "r2"})
	r := diagram.Rect{X: 0, Y: 0, Width: 100, Height: 80}
	seed.AddBoundary(diagram.Boundary{ID: "z1", Type: diagram.BoundaryZone, Rect: &r})

	backing := NewMemoryStore(seed)
	d := NewDispatcher(backing, nil, nil)

	d.DeleteConnection("c1")
	d.DeleteDevice("r2")
	d.DeleteBoundary("z1")
	d.Start()
	d.Close()

	snap, err := backing.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, snap.FindDevice("r1"))
	assert.Nil(t, snap.FindDevice("r2"))
	assert.Empty(t, snap.Connections)
	assert.Nil(t, snap.FindBoundary("z1"))
}

func TestDispatcherDrainsOnClose(t *testing.T) {
	fake := &countingStore{}
	d := NewDispatcher(fake, nil, nil)
	for i := 0; i < 50; i++ {
		d.CommitDevicePosition(diagram.NewID(), diagram.Point{X: float64(i), Y: 0})
	}
	d.Start()
	d.Close()

	assert.Len(t, fake.saved(), 50)
}
