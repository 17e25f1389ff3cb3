// Package render produces static SVG and PNG images of a diagram.
// Both renderers share the same fit-to-canvas scaling so output is
// comparable across formats.
package render

import (
	"fmt"
	"html"
	"math"
	"strings"

	"github.com/ha1tch/netsketch/pkg/canvas"
	"github.com/ha1tch/netsketch/pkg/diagram"
)

// Device node sizing in logical units.
const (
	nodeHalfWidth  = 24.0
	nodeHalfHeight = 24.0
	// Gap between a node's bottom edge and its id label.
	nodeLabelGap = 14.0
)

// SVGOptions controls SVG rendering.
type SVGOptions struct {
	Width     int    // canvas width in pixels
	Height    int    // canvas height in pixels
	Title     string // diagram title; falls back to the diagram name
	FontSize  int    // base font size for device labels
	LabelSize int    // font size for link labels (0 = FontSize - 2)
	TitleSize int    // font size for the title (0 = FontSize + 4)
	Padding   int    // padding around edges
}

// DefaultSVGOptions returns sensible defaults.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		Width:    800,
		Height:   600,
		FontSize: 13,
		Padding:  50,
	}
}

// fit maps logical diagram coordinates onto the pixel canvas: uniform
// scale clamped to a readable range, content centred.
type fit struct {
	scale   float64
	offsetX float64
	offsetY float64
}

func (f fit) point(p diagram.Point) (float64, float64) {
	return p.X*f.scale + f.offsetX, p.Y*f.scale + f.offsetY
}

func (f fit) rect(r diagram.Rect) (x, y, w, h float64) {
	x, y = f.point(diagram.Point{X: r.X, Y: r.Y})
	return x, y, r.Width * f.scale, r.Height * f.scale
}

// contentBounds returns the logical bounding box of everything that
// will be drawn: device nodes with their labels, boundary rectangles,
// and below-placed boundary labels.
func contentBounds(d *diagram.Diagram, positions map[string]diagram.Point) (diagram.Rect, bool) {
	var pts []diagram.Point
	for _, p := range positions {
		pts = append(pts,
			diagram.Point{X: p.X - nodeHalfWidth, Y: p.Y - nodeHalfHeight},
			diagram.Point{X: p.X + nodeHalfWidth, Y: p.Y + nodeHalfHeight + nodeLabelGap + 6},
		)
	}
	for _, b := range d.Boundaries {
		rect, ok := canvas.BoundaryRect(b)
		if !ok {
			continue
		}
		pts = append(pts,
			diagram.Point{X: rect.X, Y: rect.Y},
			diagram.Point{X: rect.X + rect.Width, Y: rect.Y + rect.Height},
		)
		if anchor, ok := canvas.BoundaryLabelAnchor(b); ok {
			pts = append(pts, diagram.Point{X: anchor.X, Y: anchor.Y + canvas.LabelHeight})
		}
	}
	return canvas.BoundingBox(pts)
}

func fitToCanvas(bounds diagram.Rect, width, height, padding int, titleSpace float64) fit {
	contentW := math.Max(bounds.Width, 100)
	contentH := math.Max(bounds.Height, 100)

	availW := float64(width - 2*padding)
	availH := float64(height-2*padding) - titleSpace

	scale := math.Min(availW/contentW, availH/contentH)
	if scale > 1.5 {
		scale = 1.5
	}
	if scale < 0.3 {
		scale = 0.3
	}

	return fit{
		scale:   scale,
		offsetX: float64(padding) + (availW-contentW*scale)/2 - bounds.X*scale,
		offsetY: float64(padding) + titleSpace + (availH-contentH*scale)/2 - bounds.Y*scale,
	}
}

// resolvedPositions returns a position per device, running the fallback
// layout for devices that have none.
func resolvedPositions(d *diagram.Diagram) map[string]diagram.Point {
	if len(d.UnpositionedDeviceIDs()) > 0 {
		d = d.Clone()
		canvas.ApplyFallbackLayout(d, canvas.DefaultRingParams(canvas.DefaultExtentW, canvas.DefaultExtentH))
	}
	return d.DevicePositions()
}

// GenerateSVG renders a diagram to SVG markup.
func GenerateSVG(d *diagram.Diagram, opts SVGOptions) string {
	if opts.Width == 0 {
		opts.Width = 800
	}
	if opts.Height == 0 {
		opts.Height = 600
	}
	if opts.FontSize == 0 {
		opts.FontSize = 13
	}
	if opts.LabelSize == 0 {
		opts.LabelSize = opts.FontSize - 2
	}
	if opts.TitleSize == 0 {
		opts.TitleSize = opts.FontSize + 4
	}
	if opts.Padding == 0 {
		opts.Padding = 50
	}
	title := opts.Title
	if title == "" {
		title = d.Name
	}

	positions := resolvedPositions(d)
	bounds, hasContent := contentBounds(d, positions)

	titleSpace := 0.0
	if title != "" {
		titleSpace = 35
	}
	f := fitToCanvas(bounds, opts.Width, opts.Height, opts.Padding, titleSpace)

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<style>
  .device { fill: white; stroke: #333; stroke-width: 2; }
  .device-glyph { font-family: sans-serif; font-size: %dpx; font-weight: bold; text-anchor: middle; dominant-baseline: middle; }
  .device-label { font-family: sans-serif; font-size: %dpx; text-anchor: middle; }
  .link { stroke: #555; stroke-width: 1.5; }
  .link-label-box { fill: white; stroke: #ccc; stroke-width: 0.5; }
  .link-label { font-family: sans-serif; font-size: %dpx; fill: #333; text-anchor: middle; dominant-baseline: middle; }
  .boundary-label { font-family: sans-serif; font-size: %dpx; font-style: italic; text-anchor: middle; dominant-baseline: middle; }
  .title { font-family: sans-serif; font-size: %dpx; font-weight: bold; text-anchor: middle; }
</style>
<rect width="%d" height="%d" fill="white"/>
`, opts.Width, opts.Height, opts.Width, opts.Height,
		opts.FontSize, opts.LabelSize, opts.LabelSize, opts.LabelSize, opts.TitleSize,
		opts.Width, opts.Height))

	if title != "" {
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="25" class="title">%s</text>
`, opts.Width/2, html.EscapeString(title)))
	}

	if !hasContent {
		sb.WriteString("</svg>\n")
		return sb.String()
	}

	// Boundaries first, under everything else.
	for _, b := range d.Boundaries {
		rect, ok := canvas.BoundaryRect(b)
		if !ok {
			continue
		}
		x, y, w, h := f.rect(rect)
		style := b.Style
		if style.Stroke == "" {
			style = diagram.BoundaryStylePreset(b.Type)
		}

		attrs := fmt.Sprintf(`stroke="%s" stroke-width="2" fill="%s" fill-opacity="%.2f"`,
			style.Stroke, fillOrNone(style.Fill), style.FillOpacity)
		if style.Dashed {
			attrs += ` stroke-dasharray="6 4"`
		}
		sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" %s/>
`, x, y, w, h, attrs))

		if b.Label != "" {
			if anchor, ok := canvas.BoundaryLabelAnchor(b); ok {
				ax, ay := f.point(anchor)
				sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" class="boundary-label" fill="%s">%s</text>
`, ax, ay, style.Stroke, html.EscapeString(b.Label)))
			}
		}
	}

	// Connections under devices.
	for _, seg := range canvas.ResolveConnections(d.Connections, positions) {
		x1, y1 := f.point(seg.From)
		x2, y2 := f.point(seg.To)
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" class="link"/>
`, x1, y1, x2, y2))

		if seg.Connection.LinkType != "" {
			bx, by, bw, bh := f.rect(seg.LabelBox)
			mx, my := f.point(seg.Midpoint)
			sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="3" class="link-label-box"/>
`, bx, by, bw, bh))
			sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" class="link-label">%s</text>
`, mx, my, html.EscapeString(seg.Connection.LinkType)))
		}
	}

	// Devices on top, in diagram order.
	for _, dev := range d.Devices {
		p, ok := positions[dev.ID]
		if !ok {
			continue
		}
		x, y := f.point(p)
		w := nodeHalfWidth * 2 * f.scale
		h := nodeHalfHeight * 2 * f.scale

		sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="6" class="device"/>
`, x-w/2, y-h/2, w, h))
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" class="device-glyph">%s</text>
`, x, y, html.EscapeString(string(diagram.DeviceGlyph(dev.Type)))))
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" class="device-label">%s</text>
`, x, y+h/2+nodeLabelGap*f.scale, html.EscapeString(dev.ID)))
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

func fillOrNone(fill string) string {
	if fill == "" {
		return "none"
	}
	return fill
}
