package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/netsketch/pkg/diagram"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(nil)

	require.NoError(t, s.SaveDevice(ctx, diagram.Device{ID: "r1", Type: diagram.DeviceRouter}))
	require.NoError(t, s.SaveDevicePosition(ctx, "r1", diagram.Point{X: 40, Y: 60}))
	require.NoError(t, s.SaveConnection(ctx, diagram.Connection{
		ID: "c1", SourceID: "r1", TargetID: "r1", LinkType: "ethernet",
	}))

	d, err := s.Load(ctx)
	require.NoError(t, err)
	dev := d.FindDevice("r1")
	require.NotNil(t, dev)
	assert.Equal(t, diagram.Point{X: 40, Y: 60}, *dev.Position)
	assert.Len(t, d.Connections, 1)
}

func TestMemoryStoreLoadReturnsSnapshot(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(nil)
	require.NoError(t, s.SaveDevice(ctx, diagram.Device{ID: "r1", Type: diagram.DeviceRouter}))

	snap, err := s.Load(ctx)
	require.NoError(t, err)
	snap.FindDevice("r1").Type = diagram.DeviceFirewall

	fresh, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, diagram.DeviceRouter, fresh.FindDevice("r1").Type,
		"mutating a loaded snapshot leaked into the store")
}

func TestMemoryStoreSaveDeviceUpserts(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(nil)
	require.NoError(t, s.SaveDevice(ctx, diagram.Device{ID: "r1", Type: diagram.DeviceRouter}))
	require.NoError(t, s.SaveDevice(ctx, diagram.Device{ID: "r1", Type: diagram.DeviceSwitch}))

	d, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, d.Devices, 1)
	assert.Equal(t, diagram.DeviceSwitch, d.FindDevice("r1").Type)
}

func TestMemoryStoreBoundaryLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(nil)
	r := diagram.Rect{X: 0, Y: 0, Width: 100, Height: 80}
	require.NoError(t, s.SaveBoundary(ctx, diagram.Boundary{ID: "z1", Type: diagram.BoundaryZone, Rect: &r}))

	updated := diagram.Rect{X: 10, Y: 10, Width: 200, Height: 150}
	pts := diagram.RectanglePoints(10, 10, 210, 160)
	require.NoError(t, s.UpdateBoundaryRect(ctx, "z1", updated, pts))

	d, err := s.Load(ctx)
	require.NoError(t, err)
	b := d.FindBoundary("z1")
	require.NotNil(t, b)
	assert.Equal(t, updated, *b.Rect)
	assert.Equal(t, pts, b.Points)

	require.NoError(t, s.DeleteBoundary(ctx, "z1"))
	assert.Error(t, s.DeleteBoundary(ctx, "z1"))
	assert.Error(t, s.UpdateBoundaryRect(ctx, "z1", updated, pts))
}

func TestMemoryStoreUnknownIDs(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(nil)
	assert.Error(t, s.SaveDevicePosition(ctx, "ghost", diagram.Point{X: 1, Y: 1}))
	assert.Error(t, s.DeleteDevice(ctx, "ghost"))
}
