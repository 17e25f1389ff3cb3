// Package sketchfile reads and writes diagram project files. A project
// is either a bare diagram.json or a .sketch archive bundling the
// diagram with editor layout metadata.
package sketchfile

import (
	"encoding/json"
	"fmt"

	"github.com/ha1tch/netsketch/pkg/diagram"
)

// ParseJSON parses a diagram from JSON.
func ParseJSON(data []byte) (*diagram.Diagram, error) {
	var d diagram.Diagram
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	if d.Devices == nil {
		d.Devices = make([]diagram.Device, 0)
	}
	if d.Connections == nil {
		d.Connections = make([]diagram.Connection, 0)
	}
	if d.Boundaries == nil {
		d.Boundaries = make([]diagram.Boundary, 0)
	}
	return &d, nil
}

// ToJSON converts a diagram to JSON.
func ToJSON(d *diagram.Diagram, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(d, "", "  ")
	}
	return json.Marshal(d)
}

// Validate checks referential integrity. It returns one error per
// problem found, or nil for a clean diagram.
func Validate(d *diagram.Diagram) []error {
	var errs []error

	seen := make(map[string]bool)
	for _, dev := range d.Devices {
		if dev.ID == "" {
			errs = append(errs, fmt.Errorf("device without id"))
			continue
		}
		if seen[dev.ID] {
			errs = append(errs, fmt.Errorf("duplicate device id %q", dev.ID))
		}
		seen[dev.ID] = true
		if dev.Position != nil && !dev.Position.IsFinite() {
			errs = append(errs, fmt.Errorf("device %q has a non-finite position", dev.ID))
		}
	}

	for _, c := range d.Connections {
		if !seen[c.SourceID] {
			errs = append(errs, fmt.Errorf("connection %q references unknown source %q", c.ID, c.SourceID))
		}
		if !seen[c.TargetID] {
			errs = append(errs, fmt.Errorf("connection %q references unknown target %q", c.ID, c.TargetID))
		}
	}

	bseen := make(map[string]bool)
	for _, b := range d.Boundaries {
		if b.ID == "" {
			errs = append(errs, fmt.Errorf("boundary without id"))
			continue
		}
		if bseen[b.ID] {
			errs = append(errs, fmt.Errorf("duplicate boundary id %q", b.ID))
		}
		bseen[b.ID] = true
		if b.Rect == nil && len(b.Points) == 0 {
			errs = append(errs, fmt.Errorf("boundary %q has no geometry", b.ID))
		}
		if len(b.Config) > 0 {
			if _, optErrs := diagram.ParseBoundaryOptions(b.Config); len(optErrs) > 0 {
				for _, e := range optErrs {
					errs = append(errs, fmt.Errorf("boundary %q: %w", b.ID, e))
				}
			}
		}
	}

	return errs
}
