package editor

import (
	"errors"
	"fmt"

	"github.com/ha1tch/netsketch/pkg/diagram"
)

// Action is a tagged committed mutation. All durable diagram changes
// flow through Reduce with an explicit state argument; there is no
// ambient application store.
type Action interface{ isAction() }

// MoveDevices commits final positions for one or more devices. A
// single drag carries one move, a group drag one per member.
type MoveDevices struct {
	Moves []Move
}

// CreateBoundary commits a freshly drawn boundary.
type CreateBoundary struct {
	Boundary diagram.Boundary
}

// UpdateBoundary commits partial boundary fields. Nil fields are left
// untouched.
type UpdateBoundary struct {
	ID     string
	Rect   *diagram.Rect
	Points []diagram.Point
	Label  *string
	Config map[string]string
}

// DeleteBoundary removes a boundary.
type DeleteBoundary struct {
	ID string
}

// AddDevice adds a device to the diagram.
type AddDevice struct {
	Device diagram.Device
}

// RemoveDevice removes a device and its connections.
type RemoveDevice struct {
	ID string
}

func (MoveDevices) isAction()    {}
func (CreateBoundary) isAction() {}
func (UpdateBoundary) isAction() {}
func (DeleteBoundary) isAction() {}
func (AddDevice) isAction()      {}
func (RemoveDevice) isAction()   {}

// Reduce applies one action to the given diagram. The diagram passed
// in is the single source of truth; Reduce never reaches for globals.
func Reduce(d *diagram.Diagram, action Action) error {
	switch a := action.(type) {
	case MoveDevices:
		for _, m := range a.Moves {
			if err := d.SetDevicePosition(m.ID, m.Position); err != nil {
				return err
			}
		}
		return nil

	case CreateBoundary:
		if a.Boundary.ID == "" {
			return fmt.Errorf("editor: boundary without id")
		}
		d.AddBoundary(a.Boundary)
		return nil

	case UpdateBoundary:
		b := d.FindBoundary(a.ID)
		if b == nil {
			return fmt.Errorf("editor: unknown boundary %s", a.ID)
		}
		if a.Rect != nil {
			r := *a.Rect
			b.Rect = &r
		}
		if a.Points != nil {
			b.Points = append([]diagram.Point(nil), a.Points...)
		}
		if a.Label != nil {
			b.Label = *a.Label
		}
		if a.Config != nil {
			// Unknown keys ride along untouched; only a malformed value
			// for a recognised key blocks the write.
			_, errs := diagram.ParseBoundaryOptions(a.Config)
			for _, err := range errs {
				var unknown *diagram.UnknownKeyError
				if !errors.As(err, &unknown) {
					return fmt.Errorf("editor: invalid boundary config: %v", err)
				}
			}
			b.Config = a.Config
		}
		return nil

	case DeleteBoundary:
		if !d.RemoveBoundary(a.ID) {
			return fmt.Errorf("editor: unknown boundary %s", a.ID)
		}
		return nil

	case AddDevice:
		if a.Device.ID == "" {
			return fmt.Errorf("editor: device without id")
		}
		d.AddDevice(a.Device)
		return nil

	case RemoveDevice:
		if !d.RemoveDevice(a.ID) {
			return fmt.Errorf("editor: unknown device %s", a.ID)
		}
		return nil

	default:
		return fmt.Errorf("editor: unhandled action %T", action)
	}
}
