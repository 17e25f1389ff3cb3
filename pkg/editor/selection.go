package editor

import "sort"

// Kind identifies which entity class a selection refers to.
type Kind string

const (
	KindDevice     Kind = "device"
	KindBoundary   Kind = "boundary"
	KindConnection Kind = "connection"
)

// Ref is a (kind, id) pair.
type Ref struct {
	Kind Kind
	ID   string
}

// Selection is a snapshot of the selection state: nothing, a single
// entity of any kind, or a multi-set of devices. Single and multi are
// mutually exclusive.
type Selection struct {
	Single   *Ref
	MultiIDs []string // sorted; only devices participate in multi
}

// None reports whether nothing is selected.
func (s Selection) None() bool {
	return s.Single == nil && len(s.MultiIDs) == 0
}

// SelectionModel tracks single/multi selection with toggle semantics.
type SelectionModel struct {
	bus    *Bus
	single *Ref
	multi  map[string]struct{}

	// Background-clear pairing: a clear only fires when pointer-down
	// and pointer-up of the same gesture both hit empty background.
	backgroundDown bool
}

// NewSelectionModel creates an empty selection publishing to bus.
// A nil bus is allowed and disables events.
func NewSelectionModel(bus *Bus) *SelectionModel {
	return &SelectionModel{bus: bus}
}

// Snapshot returns the current selection.
func (m *SelectionModel) Snapshot() Selection {
	var s Selection
	if m.single != nil {
		r := *m.single
		s.Single = &r
	}
	if len(m.multi) > 0 {
		s.MultiIDs = make([]string, 0, len(m.multi))
		for id := range m.multi {
			s.MultiIDs = append(s.MultiIDs, id)
		}
		sort.Strings(s.MultiIDs)
	}
	return s
}

// Select sets a single selection, clearing any multi-set.
func (m *SelectionModel) Select(kind Kind, id string) {
	m.single = &Ref{Kind: kind, ID: id}
	m.multi = nil
	m.changed()
}

// ToggleMulti toggles a device's membership in the multi-set. A toggle
// while no multi-set is active, or while the active set is of another
// kind, starts a new set containing just this entity and clears the
// single selection. Removing the last member collapses to none. Only
// devices participate in multi-selection; other kinds fall back to a
// single selection.
func (m *SelectionModel) ToggleMulti(kind Kind, id string) {
	if kind != KindDevice {
		m.Select(kind, id)
		return
	}
	if m.multi == nil {
		m.multi = map[string]struct{}{id: {}}
		m.single = nil
		m.changed()
		return
	}
	if _, ok := m.multi[id]; ok {
		delete(m.multi, id)
		if len(m.multi) == 0 {
			m.multi = nil
		}
	} else {
		m.multi[id] = struct{}{}
	}
	m.changed()
}

// Clear empties the selection.
func (m *SelectionModel) Clear() {
	if m.single == nil && m.multi == nil {
		return
	}
	m.single = nil
	m.multi = nil
	m.changed()
}

// IsSingle reports whether exactly this entity is single-selected.
func (m *SelectionModel) IsSingle(kind Kind, id string) bool {
	return m.single != nil && m.single.Kind == kind && m.single.ID == id
}

// InMulti reports whether the device id is in the multi-set.
func (m *SelectionModel) InMulti(id string) bool {
	_, ok := m.multi[id]
	return ok
}

// MultiSize returns the number of devices in the multi-set.
func (m *SelectionModel) MultiSize() int {
	return len(m.multi)
}

// MultiIDs returns the multi-set ids in sorted order.
func (m *SelectionModel) MultiIDs() []string {
	return m.Snapshot().MultiIDs
}

// BackgroundDown records that a pointer-down hit empty background.
// Any down on an entity must call EntityDown instead.
func (m *SelectionModel) BackgroundDown() {
	m.backgroundDown = true
}

// EntityDown records that a pointer-down hit an entity, disarming the
// background clear for this gesture.
func (m *SelectionModel) EntityDown() {
	m.backgroundDown = false
}

// BackgroundUp completes a gesture over empty background. The
// selection clears only when the matching down was also on background,
// so a drag that ends over empty space never wipes the selection.
func (m *SelectionModel) BackgroundUp() {
	if m.backgroundDown {
		m.Clear()
	}
	m.backgroundDown = false
}

func (m *SelectionModel) changed() {
	if m.bus != nil {
		m.bus.Publish(SelectionChanged{Selection: m.Snapshot()})
	}
}
