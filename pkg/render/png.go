// Native PNG rendering. Mirrors the SVG renderer output using Go's
// image packages.

package render

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"strconv"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/ha1tch/netsketch/pkg/canvas"
	"github.com/ha1tch/netsketch/pkg/diagram"
)

// PNGOptions configures PNG rendering.
type PNGOptions struct {
	Width   int
	Height  int
	Padding int
	Title   string
}

// DefaultPNGOptions returns sensible defaults for PNG rendering.
func DefaultPNGOptions() PNGOptions {
	return PNGOptions{
		Width:   800,
		Height:  600,
		Padding: 50,
	}
}

var (
	pngWhite     = color.RGBA{255, 255, 255, 255}
	pngBlack     = color.RGBA{51, 51, 51, 255}    // #333
	pngLink      = color.RGBA{85, 85, 85, 255}    // #555
	pngLabelEdge = color.RGBA{204, 204, 204, 255} // #ccc
)

// renderContext carries the supersampled image plus the derived sizes
// every draw helper needs.
type renderContext struct {
	img       *image.RGBA
	scale     float64
	lineWidth float64
	face      font.Face
	smallFace font.Face
}

func newRenderContext(img *image.RGBA, scale int) *renderContext {
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		panic(err) // embedded font always parses
	}

	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    float64(13 * scale),
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		panic(err)
	}
	smallFace, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    float64(11 * scale),
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		panic(err)
	}

	return &renderContext{
		img:       img,
		scale:     float64(scale),
		lineWidth: float64(scale) * 2,
		face:      face,
		smallFace: smallFace,
	}
}

// RenderPNG renders a diagram to PNG. The image is drawn at 4x size
// and downsampled for smooth edges.
func RenderPNG(d *diagram.Diagram, w io.Writer, opts PNGOptions) error {
	if opts.Width == 0 {
		opts.Width = 800
	}
	if opts.Height == 0 {
		opts.Height = 600
	}
	if opts.Padding == 0 {
		opts.Padding = 50
	}

	scale := 4
	largeOpts := opts
	largeOpts.Width = opts.Width * scale
	largeOpts.Height = opts.Height * scale
	largeOpts.Padding = opts.Padding * scale

	largeImg := renderPNGInternal(d, largeOpts, scale)

	finalImg := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.CatmullRom.Scale(finalImg, finalImg.Bounds(), largeImg, largeImg.Bounds(), draw.Over, nil)

	return png.Encode(w, finalImg)
}

func renderPNGInternal(d *diagram.Diagram, opts PNGOptions, scale int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	ctx := newRenderContext(img, scale)

	for y := 0; y < opts.Height; y++ {
		for x := 0; x < opts.Width; x++ {
			img.Set(x, y, pngWhite)
		}
	}

	title := opts.Title
	if title == "" {
		title = d.Name
	}

	positions := resolvedPositions(d)
	bounds, hasContent := contentBounds(d, positions)

	titleSpace := 0.0
	if title != "" {
		titleSpace = 35 * ctx.scale
	}
	f := fitToCanvas(bounds, opts.Width, opts.Height, opts.Padding, titleSpace)

	if title != "" {
		drawTextCentered(ctx, ctx.face, opts.Width/2, 25*scale, title, pngBlack)
	}
	if !hasContent {
		return img
	}

	// Boundaries under everything else.
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
		stroke := parseHexColor(style.Stroke, pngBlack)

		if style.Fill != "" && style.FillOpacity > 0 {
			fillRect(ctx, x, y, w, h, tint(parseHexColor(style.Fill, pngWhite), style.FillOpacity))
		}
		drawRectOutline(ctx, x, y, w, h, stroke, style.Dashed)

		if b.Label != "" {
			if anchor, ok := canvas.BoundaryLabelAnchor(b); ok {
				ax, ay := f.point(anchor)
				drawTextCentered(ctx, ctx.smallFace, int(ax), int(ay), b.Label, stroke)
			}
		}
	}

	// Connections under devices.
	for _, seg := range canvas.ResolveConnections(d.Connections, positions) {
		x1, y1 := f.point(seg.From)
		x2, y2 := f.point(seg.To)
		drawLine(ctx, x1, y1, x2, y2, pngLink)

		if seg.Connection.LinkType != "" {
			bx, by, bw, bh := f.rect(seg.LabelBox)
			fillRect(ctx, bx, by, bw, bh, pngWhite)
			drawRectOutline(ctx, bx, by, bw, bh, pngLabelEdge, false)
			mx, my := f.point(seg.Midpoint)
			drawTextCentered(ctx, ctx.smallFace, int(mx), int(my), seg.Connection.LinkType, pngBlack)
		}
	}

	// Devices on top.
	for _, dev := range d.Devices {
		p, ok := positions[dev.ID]
		if !ok {
			continue
		}
		x, y := f.point(p)
		w := nodeHalfWidth * 2 * f.scale
		h := nodeHalfHeight * 2 * f.scale

		fillRect(ctx, x-w/2, y-h/2, w, h, pngWhite)
		drawRectOutline(ctx, x-w/2, y-h/2, w, h, pngBlack, false)
		drawTextCentered(ctx, ctx.face, int(x), int(y), string(diagram.DeviceGlyph(dev.Type)), pngBlack)
		drawTextCentered(ctx, ctx.smallFace, int(x), int(y+h/2+nodeLabelGap*f.scale), dev.ID, pngBlack)
	}

	return img
}

// parseHexColor parses #rgb or #rrggbb, falling back on bad input.
func parseHexColor(s string, fallback color.RGBA) color.RGBA {
	if len(s) == 0 || s[0] != '#' {
		return fallback
	}
	hex := s[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return fallback
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return fallback
	}
	return color.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 255}
}

// tint blends c toward white by 1-opacity, matching SVG fill-opacity
// over a white background.
func tint(c color.RGBA, opacity float64) color.RGBA {
	blend := func(v uint8) uint8 {
		return uint8(float64(v)*opacity + 255*(1-opacity))
	}
	return color.RGBA{blend(c.R), blend(c.G), blend(c.B), 255}
}

func fillRect(ctx *renderContext, x, y, w, h float64, c color.Color) {
	for py := int(y); py < int(y+h); py++ {
		for px := int(x); px < int(x+w); px++ {
			ctx.img.Set(px, py, c)
		}
	}
}

func drawRectOutline(ctx *renderContext, x, y, w, h float64, c color.Color, dashed bool) {
	edge := func(x1, y1, x2, y2 float64) {
		if dashed {
			drawDashedLine(ctx, x1, y1, x2, y2, c)
		} else {
			drawLine(ctx, x1, y1, x2, y2, c)
		}
	}
	edge(x, y, x+w, y)
	edge(x+w, y, x+w, y+h)
	edge(x+w, y+h, x, y+h)
	edge(x, y+h, x, y)
}

// drawLine draws a line between two points with thickness from context.
func drawLine(ctx *renderContext, x1, y1, x2, y2 float64, c color.Color) {
	img := ctx.img
	thickness := ctx.lineWidth

	dx := x2 - x1
	dy := y2 - y1
	steps := math.Max(math.Abs(dx), math.Abs(dy))
	if steps < 1 {
		steps = 1
	}

	halfThick := thickness / 2

	dist := math.Sqrt(dx*dx + dy*dy)
	if dist < 1 {
		for ty := -halfThick; ty <= halfThick; ty++ {
			for tx := -halfThick; tx <= halfThick; tx++ {
				img.Set(int(x1+tx), int(y1+ty), c)
			}
		}
		return
	}

	perpX := -dy / dist
	perpY := dx / dist

	for i := 0.0; i <= steps; i++ {
		t := i / steps
		cx := x1 + dx*t
		cy := y1 + dy*t

		for offset := -halfThick; offset <= halfThick; offset += 0.5 {
			img.Set(int(cx+perpX*offset), int(cy+perpY*offset), c)
		}
	}
}

// drawDashedLine draws a line as 6-on 4-off dashes in logical pixels.
func drawDashedLine(ctx *renderContext, x1, y1, x2, y2 float64, c color.Color) {
	dx := x2 - x1
	dy := y2 - y1
	dist := math.Sqrt(dx*dx + dy*dy)
	if dist < 1 {
		drawLine(ctx, x1, y1, x2, y2, c)
		return
	}

	nx := dx / dist
	ny := dy / dist
	dashOn := 6.0 * ctx.scale
	dashOff := 4.0 * ctx.scale

	pos := 0.0
	for pos < dist {
		end := math.Min(pos+dashOn, dist)
		drawLine(ctx, x1+nx*pos, y1+ny*pos, x1+nx*end, y1+ny*end, c)
		pos = end + dashOff
	}
}

// drawTextCentered draws text centered at the given position.
func drawTextCentered(ctx *renderContext, face font.Face, x, y int, text string, c color.Color) {
	width := font.MeasureString(face, text).Ceil()

	metrics := face.Metrics()
	ascent := metrics.Ascent.Ceil()
	baselineY := y + int(float64(ascent)*0.15)

	point := fixed.Point26_6{
		X: fixed.I(x - width/2),
		Y: fixed.I(baselineY),
	}

	drawer := &font.Drawer{
		Dst:  ctx.img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  point,
	}
	drawer.DrawString(text)
}
