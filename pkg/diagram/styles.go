package diagram

// Style describes how a boundary or device is rendered.
type Style struct {
	Stroke      string  `json:"stroke"`
	Fill        string  `json:"fill,omitempty"`
	FillOpacity float64 `json:"fill_opacity,omitempty"`
	Dashed      bool    `json:"dashed,omitempty"`
}

// Boundary types known to the editor. Arbitrary type strings are
// accepted; these just get presets and display labels.
const (
	BoundaryZone   = "zone"
	BoundarySubnet = "subnet"
	BoundarySite   = "site"
)

var boundaryPresets = map[string]Style{
	BoundaryZone:   {Stroke: "#c0392b", Fill: "#c0392b", FillOpacity: 0.08, Dashed: true},
	BoundarySubnet: {Stroke: "#2980b9", Fill: "#2980b9", FillOpacity: 0.08},
	BoundarySite:   {Stroke: "#27ae60", Fill: "#27ae60", FillOpacity: 0.05, Dashed: true},
}

var boundaryLabels = map[string]string{
	BoundaryZone:   "Zone",
	BoundarySubnet: "Subnet",
	BoundarySite:   "Site",
}

var defaultBoundaryStyle = Style{Stroke: "#7f8c8d", FillOpacity: 0.05, Dashed: true}

// BoundaryStylePreset returns the style preset for a boundary type.
func BoundaryStylePreset(boundaryType string) Style {
	if s, ok := boundaryPresets[boundaryType]; ok {
		return s
	}
	return defaultBoundaryStyle
}

// BoundaryTypeLabel returns the human-readable label for a boundary
// type, used for default boundary names.
func BoundaryTypeLabel(boundaryType string) string {
	if l, ok := boundaryLabels[boundaryType]; ok {
		return l
	}
	return "Boundary"
}

// Device type tags with dedicated glyphs in the renderers.
const (
	DeviceRouter   = "router"
	DeviceSwitch   = "switch"
	DeviceFirewall = "firewall"
	DeviceServer   = "server"
	DeviceHost     = "host"
)

var deviceGlyphs = map[string]rune{
	DeviceRouter:   'R',
	DeviceSwitch:   'S',
	DeviceFirewall: 'F',
	DeviceServer:   '#',
	DeviceHost:     'H',
}

// DeviceGlyph returns the one-character glyph for a device type.
func DeviceGlyph(deviceType string) rune {
	if g, ok := deviceGlyphs[deviceType]; ok {
		return g
	}
	return '?'
}
