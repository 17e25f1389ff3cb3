// Package diagram provides the core network-diagram types and operations.
package diagram

import (
	"fmt"
	"math"

	"github.com/google/uuid"
)

// Point is a position in logical canvas coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// IsFinite reports whether both coordinates are ordinary numbers.
func (p Point) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// Rect is an axis-aligned rectangle in logical canvas coordinates.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Contains reports whether p falls inside the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width &&
		p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Center returns the rectangle centroid.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Device represents a network device placed on the canvas.
type Device struct {
	ID       string            `json:"id"`
	Type     string            `json:"type"`
	Config   map[string]string `json:"config,omitempty"`
	Position *Point            `json:"position,omitempty"`
}

// Connection represents a link between two devices. Connections are
// rendered by the engine but never mutated by it.
type Connection struct {
	ID       string `json:"id"`
	SourceID string `json:"source_id"`
	TargetID string `json:"target_id"`
	LinkType string `json:"link_type"`
}

// Boundary represents a rectangular region grouping devices, such as a
// security zone or a subnet. Points follow canonical TL,TR,BR,BL
// winding for rectangles.
type Boundary struct {
	ID     string            `json:"id"`
	Type   string            `json:"type"`
	Points []Point           `json:"points"`
	Rect   *Rect             `json:"rect,omitempty"`
	Style  Style             `json:"style"`
	Label  string            `json:"label,omitempty"`
	Config map[string]string `json:"config,omitempty"`
}

// RectanglePoints builds the canonical four-corner point list for a
// rectangle spanning (x1,y1)-(x2,y2) in any corner order.
func RectanglePoints(x1, y1, x2, y2 float64) []Point {
	minX, maxX := math.Min(x1, x2), math.Max(x1, x2)
	minY, maxY := math.Min(y1, y2), math.Max(y1, y2)
	return []Point{
		{X: minX, Y: minY}, // TL
		{X: maxX, Y: minY}, // TR
		{X: maxX, Y: maxY}, // BR
		{X: minX, Y: maxY}, // BL
	}
}

// NewID returns a fresh entity id.
func NewID() string {
	return uuid.NewString()
}

// Diagram is the aggregate of everything on one canvas. Device order
// is preserved; the fallback layout depends on it.
type Diagram struct {
	Name        string       `json:"name,omitempty"`
	Description string       `json:"description,omitempty"`
	Devices     []Device     `json:"devices"`
	Connections []Connection `json:"connections"`
	Boundaries  []Boundary   `json:"boundaries"`
}

// New creates an empty diagram.
func New() *Diagram {
	return &Diagram{
		Devices:     make([]Device, 0),
		Connections: make([]Connection, 0),
		Boundaries:  make([]Boundary, 0),
	}
}

// AddDevice appends a device. A device with a duplicate id is ignored.
func (d *Diagram) AddDevice(dev Device) {
	if d.FindDevice(dev.ID) != nil {
		return
	}
	d.Devices = append(d.Devices, dev)
}

// FindDevice returns the device with the given id, or nil.
func (d *Diagram) FindDevice(id string) *Device {
	for i := range d.Devices {
		if d.Devices[i].ID == id {
			return &d.Devices[i]
		}
	}
	return nil
}

// RemoveDevice deletes a device and every connection touching it.
func (d *Diagram) RemoveDevice(id string) bool {
	idx := -1
	for i := range d.Devices {
		if d.Devices[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	d.Devices = append(d.Devices[:idx], d.Devices[idx+1:]...)

	kept := d.Connections[:0]
	for _, c := range d.Connections {
		if c.SourceID != id && c.TargetID != id {
			kept = append(kept, c)
		}
	}
	d.Connections = kept
	return true
}

// SetDevicePosition records a committed position. Non-finite
// coordinates are rejected.
func (d *Diagram) SetDevicePosition(id string, p Point) error {
	if !p.IsFinite() {
		return fmt.Errorf("diagram: non-finite position for device %s", id)
	}
	dev := d.FindDevice(id)
	if dev == nil {
		return fmt.Errorf("diagram: unknown device %s", id)
	}
	pos := p
	dev.Position = &pos
	return nil
}

// AddConnection appends a connection. Dangling endpoints are allowed
// here; the geometry resolver drops them at render time.
func (d *Diagram) AddConnection(c Connection) {
	for _, existing := range d.Connections {
		if existing.ID == c.ID {
			return
		}
	}
	d.Connections = append(d.Connections, c)
}

// RemoveConnection deletes a connection.
func (d *Diagram) RemoveConnection(id string) bool {
	for i := range d.Connections {
		if d.Connections[i].ID == id {
			d.Connections = append(d.Connections[:i], d.Connections[i+1:]...)
			return true
		}
	}
	return false
}

// AddBoundary appends a boundary.
func (d *Diagram) AddBoundary(b Boundary) {
	if d.FindBoundary(b.ID) != nil {
		return
	}
	d.Boundaries = append(d.Boundaries, b)
}

// FindBoundary returns the boundary with the given id, or nil.
func (d *Diagram) FindBoundary(id string) *Boundary {
	for i := range d.Boundaries {
		if d.Boundaries[i].ID == id {
			return &d.Boundaries[i]
		}
	}
	return nil
}

// RemoveBoundary deletes a boundary.
func (d *Diagram) RemoveBoundary(id string) bool {
	for i := range d.Boundaries {
		if d.Boundaries[i].ID == id {
			d.Boundaries = append(d.Boundaries[:i], d.Boundaries[i+1:]...)
			return true
		}
	}
	return false
}

// UnpositionedDeviceIDs returns, in diagram order, the ids of devices
// that have no explicit position yet.
func (d *Diagram) UnpositionedDeviceIDs() []string {
	ids := make([]string, 0)
	for _, dev := range d.Devices {
		if dev.Position == nil {
			ids = append(ids, dev.ID)
		}
	}
	return ids
}

// DevicePositions returns the resolved position of every positioned
// device.
func (d *Diagram) DevicePositions() map[string]Point {
	out := make(map[string]Point, len(d.Devices))
	for _, dev := range d.Devices {
		if dev.Position != nil {
			out[dev.ID] = *dev.Position
		}
	}
	return out
}

// Clone returns a deep copy, used by editors for undo snapshots.
func (d *Diagram) Clone() *Diagram {
	c := &Diagram{
		Name:        d.Name,
		Description: d.Description,
		Devices:     make([]Device, len(d.Devices)),
		Connections: make([]Connection, len(d.Connections)),
		Boundaries:  make([]Boundary, len(d.Boundaries)),
	}
	copy(c.Connections, d.Connections)
	for i, dev := range d.Devices {
		cd := dev
		if dev.Position != nil {
			p := *dev.Position
			cd.Position = &p
		}
		cd.Config = cloneMap(dev.Config)
		c.Devices[i] = cd
	}
	for i, b := range d.Boundaries {
		cb := b
		cb.Points = make([]Point, len(b.Points))
		copy(cb.Points, b.Points)
		if b.Rect != nil {
			r := *b.Rect
			cb.Rect = &r
		}
		cb.Config = cloneMap(b.Config)
		c.Boundaries[i] = cb
	}
	return c
}

func cloneMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
