package diagram

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseBoundaryOptions(t *testing.T) {
	tests := []struct {
		name     string
		config   map[string]string
		expected BoundaryOptions
		errCount int
	}{
		{
			"empty map gives defaults",
			nil,
			BoundaryOptions{LabelPlacement: LabelCenter},
			0,
		},
		{
			"below placement",
			map[string]string{"label_placement": "below"},
			BoundaryOptions{LabelPlacement: LabelBelow},
			0,
		},
		{
			"bad placement falls back to center",
			map[string]string{"label_placement": "floating"},
			BoundaryOptions{LabelPlacement: LabelCenter},
			1,
		},
		{
			"locked and notes",
			map[string]string{"locked": "true", "notes": "dmz"},
			BoundaryOptions{LabelPlacement: LabelCenter, Locked: true, Notes: "dmz"},
			0,
		},
		{
			"unknown key reported",
			map[string]string{"colour": "red"},
			BoundaryOptions{LabelPlacement: LabelCenter},
			1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errs := ParseBoundaryOptions(tt.config)
			assert.Equal(t, tt.expected, got)
			assert.Len(t, errs, tt.errCount)
		})
	}
}

func TestUnknownKeyErrorIsDistinguishable(t *testing.T) {
	_, errs := ParseBoundaryOptions(map[string]string{"colour": "red"})
	assert.Len(t, errs, 1)

	var unknown *UnknownKeyError
	assert.True(t, errors.As(errs[0], &unknown))
	assert.Equal(t, "colour", unknown.Key)
	assert.EqualError(t, errs[0], `boundary config: unknown key "colour"`)
}

func TestParseDeviceOptions(t *testing.T) {
	opts, errs := ParseDeviceOptions(map[string]string{
		"mgmt_addr": " 10.0.0.1 ",
		"vlan":      "120",
	})
	assert.Empty(t, errs)
	assert.Equal(t, "10.0.0.1", opts.MgmtAddr)
	assert.Equal(t, 120, opts.VLAN)

	_, errs = ParseDeviceOptions(map[string]string{"vlan": "99999"})
	assert.Len(t, errs, 1)

	_, errs = ParseDeviceOptions(map[string]string{"vlan": "abc"})
	assert.Len(t, errs, 1)
}

func TestEncodeBoundaryOptionsRoundTrip(t *testing.T) {
	opts := BoundaryOptions{LabelPlacement: LabelBelow, Locked: true, Notes: "edge"}
	m := EncodeBoundaryOptions(opts)
	back, errs := ParseBoundaryOptions(m)
	assert.Empty(t, errs)
	assert.Equal(t, opts, back)
}

func TestBoundaryStylePreset(t *testing.T) {
	assert.True(t, BoundaryStylePreset(BoundaryZone).Dashed)
	assert.Equal(t, defaultBoundaryStyle, BoundaryStylePreset("mystery"))
	assert.Equal(t, "Subnet", BoundaryTypeLabel(BoundarySubnet))
	assert.Equal(t, "Boundary", BoundaryTypeLabel("mystery"))
}
