package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/ha1tch/netsketch/pkg/diagram"
)

// MemoryStore keeps the diagram in process memory. It backs unsaved
// editing sessions and tests.
type MemoryStore struct {
	mu sync.Mutex
	d  *diagram.Diagram
}

// NewMemoryStore creates a store seeded from d, or empty when d is nil.
func NewMemoryStore(d *diagram.Diagram) *MemoryStore {
	if d == nil {
		d = diagram.New()
	}
	return &MemoryStore{d: d.Clone()}
}

func (s *MemoryStore) SaveDevice(ctx context.Context, dev diagram.Device) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing := s.d.FindDevice(dev.ID); existing != nil {
		*existing = dev
		return nil
	}
	s.d.AddDevice(dev)
	return nil
}

func (s *MemoryStore) SaveDevicePosition(ctx context.Context, id string, p diagram.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.d.SetDevicePosition(id, p)
}

func (s *MemoryStore) DeleteDevice(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.d.RemoveDevice(id) {
		return fmt.Errorf("store: unknown device %s", id)
	}
	return nil
}

func (s *MemoryStore) SaveBoundary(ctx context.Context, b diagram.Boundary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing := s.d.FindBoundary(b.ID); existing != nil {
		*existing = b
		return nil
	}
	s.d.AddBoundary(b)
	return nil
}

func (s *MemoryStore) UpdateBoundaryRect(ctx context.Context, id string, rect diagram.Rect, points []diagram.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.d.FindBoundary(id)
	if b == nil {
		return fmt.Errorf("store: unknown boundary %s", id)
	}
	r := rect
	b.Rect = &r
	b.Points = append([]diagram.Point(nil), points...)
	return nil
}

func (s *MemoryStore) DeleteBoundary(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.d.RemoveBoundary(id) {
		return fmt.Errorf("store: unknown boundary %s", id)
	}
	return nil
}

func (s *MemoryStore) SaveConnection(ctx context.Context, c diagram.Connection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.d.AddConnection(c)
	return nil
}

func (s *MemoryStore) DeleteConnection(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.d.RemoveConnection(id) {
		return fmt.Errorf("store: unknown connection %s", id)
	}
	return nil
}

func (s *MemoryStore) Load(ctx context.Context) (*diagram.Diagram, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.d.Clone(), nil
}
