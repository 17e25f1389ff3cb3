package sketchfile

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ha1tch/netsketch/pkg/diagram"
)

// Layout holds the editor state that belongs to a workstation, not to
// the diagram itself: viewport zoom and center, plus a position cache
// so a diagram edited elsewhere still opens where it was left.
type Layout struct {
	Version   int
	Zoom      float64
	CenterX   float64
	CenterY   float64
	Positions map[string]diagram.Point
}

// NewLayout creates an empty layout at the default viewport.
func NewLayout() *Layout {
	return &Layout{
		Version:   1,
		Zoom:      1.0,
		Positions: make(map[string]diagram.Point),
	}
}

// GenerateLayout renders layout.toml content. Device sections are
// emitted in sorted id order so output is stable.
func GenerateLayout(l *Layout) string {
	var sb strings.Builder

	sb.WriteString("[layout]\n")
	sb.WriteString(fmt.Sprintf("version = %d\n", l.Version))
	sb.WriteString("\n")

	sb.WriteString("[viewport]\n")
	sb.WriteString(fmt.Sprintf("zoom = %s\n", formatFloat(l.Zoom)))
	sb.WriteString(fmt.Sprintf("center_x = %s\n", formatFloat(l.CenterX)))
	sb.WriteString(fmt.Sprintf("center_y = %s\n", formatFloat(l.CenterY)))
	sb.WriteString("\n")

	if len(l.Positions) > 0 {
		ids := make([]string, 0, len(l.Positions))
		for id := range l.Positions {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		for _, id := range ids {
			p := l.Positions[id]
			sb.WriteString(fmt.Sprintf("[devices.%q]\n", id))
			sb.WriteString(fmt.Sprintf("x = %s\n", formatFloat(p.X)))
			sb.WriteString(fmt.Sprintf("y = %s\n", formatFloat(p.Y)))
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// ParseLayout parses layout.toml content.
func ParseLayout(text string) (*Layout, error) {
	l := NewLayout()

	var currentSection string
	var currentDevice string

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section := line[1 : len(line)-1]

			if strings.HasPrefix(section, "devices.") {
				currentSection = "devices"
				currentDevice = unquoteKey(section[len("devices."):])
				if _, exists := l.Positions[currentDevice]; !exists {
					l.Positions[currentDevice] = diagram.Point{}
				}
			} else {
				currentSection = section
				currentDevice = ""
			}
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		switch currentSection {
		case "layout":
			if key == "version" {
				l.Version, _ = strconv.Atoi(value)
			}
		case "viewport":
			switch key {
			case "zoom":
				l.Zoom, _ = strconv.ParseFloat(value, 64)
			case "center_x":
				l.CenterX, _ = strconv.ParseFloat(value, 64)
			case "center_y":
				l.CenterY, _ = strconv.ParseFloat(value, 64)
			}
		case "devices":
			if currentDevice != "" {
				p := l.Positions[currentDevice]
				switch key {
				case "x":
					p.X, _ = strconv.ParseFloat(value, 64)
				case "y":
					p.Y, _ = strconv.ParseFloat(value, 64)
				}
				l.Positions[currentDevice] = p
			}
		}
	}

	if l.Zoom <= 0 {
		l.Zoom = 1.0
	}
	return l, nil
}

// LayoutFromDiagram snapshots the positioned devices of d.
func LayoutFromDiagram(d *diagram.Diagram, zoom, centerX, centerY float64) *Layout {
	l := NewLayout()
	l.Zoom = zoom
	l.CenterX = centerX
	l.CenterY = centerY
	for id, p := range d.DevicePositions() {
		l.Positions[id] = p
	}
	return l
}

// ApplyLayout writes cached positions back onto matching devices.
// Unknown ids are ignored.
func ApplyLayout(d *diagram.Diagram, l *Layout) {
	for id, p := range l.Positions {
		if d.FindDevice(id) != nil {
			_ = d.SetDevicePosition(id, p)
		}
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// unquoteKey removes surrounding quotes from a TOML key.
func unquoteKey(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') ||
			(s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
