package diagram

import (
	"fmt"
	"strconv"
	"strings"
)

// LabelPlacement selects where a boundary label is anchored.
type LabelPlacement string

const (
	LabelCenter LabelPlacement = "center"
	LabelBelow  LabelPlacement = "below"
)

// Config keys recognised on boundaries and devices. Anything else in
// the raw map is preserved round-trip but flagged by Validate.
const (
	keyLabelPlacement = "label_placement"
	keyLocked         = "locked"
	keyNotes          = "notes"
	keyMgmtAddr       = "mgmt_addr"
	keyVLAN           = "vlan"
)

// UnknownKeyError marks a config key outside the recognised set. The
// key rides along through codecs and edits untouched; Validate reports
// it and typed parsing skips it.
type UnknownKeyError struct {
	Scope string
	Key   string
}

func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("%s config: unknown key %q", e.Scope, e.Key)
}

// BoundaryOptions is the typed view of a boundary's config map.
type BoundaryOptions struct {
	LabelPlacement LabelPlacement
	Locked         bool
	Notes          string
}

// DeviceOptions is the typed view of a device's config map.
type DeviceOptions struct {
	MgmtAddr string
	VLAN     int
	Notes    string
}

// ParseBoundaryOptions interprets a raw config map. Unknown or
// malformed values fall back to defaults; errors accumulate so the
// store boundary can report them instead of reading keys ad hoc.
func ParseBoundaryOptions(config map[string]string) (BoundaryOptions, []error) {
	opts := BoundaryOptions{LabelPlacement: LabelCenter}
	var errs []error
	for k, v := range config {
		switch k {
		case keyLabelPlacement:
			switch LabelPlacement(v) {
			case LabelCenter, LabelBelow:
				opts.LabelPlacement = LabelPlacement(v)
			default:
				errs = append(errs, fmt.Errorf("boundary config: bad %s %q", keyLabelPlacement, v))
			}
		case keyLocked:
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("boundary config: bad %s %q", keyLocked, v))
				continue
			}
			opts.Locked = b
		case keyNotes:
			opts.Notes = v
		default:
			errs = append(errs, &UnknownKeyError{Scope: "boundary", Key: k})
		}
	}
	return opts, errs
}

// ParseDeviceOptions interprets a raw device config map.
func ParseDeviceOptions(config map[string]string) (DeviceOptions, []error) {
	var opts DeviceOptions
	var errs []error
	for k, v := range config {
		switch k {
		case keyMgmtAddr:
			opts.MgmtAddr = strings.TrimSpace(v)
		case keyVLAN:
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 || n > 4094 {
				errs = append(errs, fmt.Errorf("device config: bad %s %q", keyVLAN, v))
				continue
			}
			opts.VLAN = n
		case keyNotes:
			opts.Notes = v
		default:
			errs = append(errs, &UnknownKeyError{Scope: "device", Key: k})
		}
	}
	return opts, errs
}

// EncodeBoundaryOptions writes typed options back to a raw config map.
func EncodeBoundaryOptions(opts BoundaryOptions) map[string]string {
	m := make(map[string]string)
	if opts.LabelPlacement != "" && opts.LabelPlacement != LabelCenter {
		m[keyLabelPlacement] = string(opts.LabelPlacement)
	}
	if opts.Locked {
		m[keyLocked] = "true"
	}
	if opts.Notes != "" {
		m[keyNotes] = opts.Notes
	}
	return m
}
