package main

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/netsketch/pkg/canvas"
	"github.com/ha1tch/netsketch/pkg/diagram"
	"github.com/ha1tch/netsketch/pkg/editor"
)

// Styles
var (
	styleDefault   = tcell.StyleDefault
	styleDevice    = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleDeviceSel = tcell.StyleDefault.Background(tcell.ColorGreen).Foreground(tcell.ColorBlack)
	styleDeviceMul = tcell.StyleDefault.Background(tcell.ColorTeal).Foreground(tcell.ColorBlack)
	styleLink      = tcell.StyleDefault.Foreground(tcell.ColorTeal)
	styleLinkSel   = tcell.StyleDefault.Background(tcell.ColorTeal).Foreground(tcell.ColorBlack)
	styleZone      = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleSubnet    = tcell.StyleDefault.Foreground(tcell.ColorBlue)
	styleSite      = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleBoundSel  = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	stylePreview   = tcell.StyleDefault.Foreground(tcell.ColorPurple)
	styleSidebar   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleSidebarH  = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleStatus    = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	styleMsgError  = tcell.StyleDefault.Foreground(tcell.ColorRed).Background(tcell.ColorNavy).Bold(true)
	styleHelp      = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleBorder    = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

func boundaryStyle(boundaryType string, selected bool) tcell.Style {
	if selected {
		return styleBoundSel
	}
	switch boundaryType {
	case diagram.BoundaryZone:
		return styleZone
	case diagram.BoundarySubnet:
		return styleSubnet
	case diagram.BoundarySite:
		return styleSite
	default:
		return styleBorder
	}
}

func (ed *Editor) draw() {
	ed.screen.Clear()
	w, h := ed.screen.Size()

	ed.drawCanvas(w, h)
	ed.drawSidebar(w, h)

	if ed.mode == ModeHelp {
		ed.drawHelpOverlay(w, h)
	}

	ed.drawStatusBar(w, h)
}

func (ed *Editor) drawCanvas(w, h int) {
	c := ed.container()
	canvasW := int(c.Width)
	canvasH := int(c.Height)

	for y := 0; y < canvasH; y++ {
		ed.screen.SetContent(canvasW, y, '│', nil, styleBorder)
	}

	// Boundaries under everything else.
	for i := range ed.diag.Boundaries {
		b := &ed.diag.Boundaries[i]
		rect, ok := canvas.BoundaryRect(*b)
		if !ok {
			continue
		}
		// Resize in flight shows the draft, not the stored rect.
		if ed.boundaries.Resizing() && ed.resizeID == b.ID {
			if draft, ok := ed.boundaries.ResizeDraft(); ok {
				rect = draft
			}
		}
		selected := ed.selection.IsSingle(editor.KindBoundary, b.ID)
		ed.drawRectOutline(rect, c, boundaryStyle(b.Type, selected), b.Style.Dashed)

		if b.Label != "" {
			if anchor, ok := canvas.BoundaryLabelAnchor(*b); ok {
				ax, ay := ed.viewport.ToScreen(anchor, c)
				ed.drawClippedString(int(ax)-len(b.Label)/2, int(ay), b.Label, canvasW, canvasH,
					boundaryStyle(b.Type, selected))
			}
		}
	}

	// Connections under devices.
	positions := ed.diag.DevicePositions()
	for _, seg := range canvas.ResolveConnections(ed.diag.Connections, positions) {
		style := styleLink
		if ed.selection.IsSingle(editor.KindConnection, seg.Connection.ID) {
			style = styleLinkSel
		}
		x1, y1 := ed.viewport.ToScreen(seg.From, c)
		x2, y2 := ed.viewport.ToScreen(seg.To, c)
		ed.drawSegment(int(x1), int(y1), int(x2), int(y2), canvasW, canvasH, style)

		if seg.Connection.LinkType != "" {
			mx, my := ed.viewport.ToScreen(seg.Midpoint, c)
			label := seg.Connection.LinkType
			ed.drawClippedString(int(mx)-len(label)/2, int(my), label, canvasW, canvasH, style)
		}
	}

	// Devices on top.
	for i := range ed.diag.Devices {
		dev := &ed.diag.Devices[i]
		if dev.Position == nil {
			continue
		}
		x, y := ed.viewport.ToScreen(*dev.Position, c)

		style := styleDevice
		if ed.selection.IsSingle(editor.KindDevice, dev.ID) {
			style = styleDeviceSel
		} else if ed.selection.InMulti(dev.ID) {
			style = styleDeviceMul
		}

		node := fmt.Sprintf("[%c]", diagram.DeviceGlyph(dev.Type))
		ed.drawClippedString(int(x)-1, int(y), node, canvasW, canvasH, style)
		ed.drawClippedString(int(x)-len(dev.ID)/2, int(y)+1, dev.ID, canvasW, canvasH, style)
	}

	// Boundary draw preview.
	if preview, ok := ed.boundaries.Preview(); ok {
		ed.drawRectOutline(preview, c, stylePreview, true)
	}
}

// drawRectOutline draws a logical-space rectangle clipped to the
// canvas area.
func (ed *Editor) drawRectOutline(rect diagram.Rect, c canvas.ContainerRect, style tcell.Style, dashed bool) {
	x1f, y1f := ed.viewport.ToScreen(diagram.Point{X: rect.X, Y: rect.Y}, c)
	x2f, y2f := ed.viewport.ToScreen(diagram.Point{X: rect.X + rect.Width, Y: rect.Y + rect.Height}, c)
	x1, y1, x2, y2 := int(x1f), int(y1f), int(x2f), int(y2f)
	canvasW := int(c.Width)
	canvasH := int(c.Height)

	horiz, vert := '─', '│'
	if dashed {
		horiz, vert = '╌', '┆'
	}

	put := func(x, y int, r rune) {
		if x >= 0 && x < canvasW && y >= 0 && y < canvasH {
			ed.screen.SetContent(x, y, r, nil, style)
		}
	}

	for x := x1 + 1; x < x2; x++ {
		put(x, y1, horiz)
		put(x, y2, horiz)
	}
	for y := y1 + 1; y < y2; y++ {
		put(x1, y, vert)
		put(x2, y, vert)
	}
	put(x1, y1, '┌')
	put(x2, y1, '┐')
	put(x1, y2, '└')
	put(x2, y2, '┘')
}

// drawSegment draws a clipped line of dots between two cells.
func (ed *Editor) drawSegment(x1, y1, x2, y2, canvasW, canvasH int, style tcell.Style) {
	dx := x2 - x1
	dy := y2 - y1
	steps := abs(dx)
	if abs(dy) > steps {
		steps = abs(dy)
	}
	if steps == 0 {
		steps = 1
	}
	for i := 0; i <= steps; i++ {
		x := x1 + dx*i/steps
		y := y1 + dy*i/steps
		if x >= 0 && x < canvasW && y >= 0 && y < canvasH {
			ed.screen.SetContent(x, y, '·', nil, style)
		}
	}
}

func (ed *Editor) drawClippedString(x, y int, s string, canvasW, canvasH int, style tcell.Style) {
	if y < 0 || y >= canvasH {
		return
	}
	for i, r := range s {
		cx := x + i
		if cx < 0 || cx >= canvasW {
			continue
		}
		ed.screen.SetContent(cx, y, r, nil, style)
	}
}

func (ed *Editor) drawString(x, y int, s string, style tcell.Style) {
	for i, r := range s {
		ed.screen.SetContent(x+i, y, r, nil, style)
	}
}

func (ed *Editor) drawSidebar(w, h int) {
	x := w - ed.sidebarWidth
	row := 0

	put := func(s string, style tcell.Style) {
		if row < h-2 {
			ed.drawString(x, row, fmt.Sprintf(" %-*s", ed.sidebarWidth-1, s), style)
			row++
		}
	}

	name := ed.diag.Name
	if name == "" {
		name = "untitled"
	}
	put(name, styleSidebarH)
	put(fmt.Sprintf("zoom %.2fx", ed.viewport.Zoom()), styleSidebar)
	center := ed.viewport.Center()
	put(fmt.Sprintf("center %.0f,%.0f", center.X, center.Y), styleSidebar)
	put("", styleSidebar)

	put(fmt.Sprintf("Devices (%d)", len(ed.diag.Devices)), styleSidebarH)
	for i := range ed.diag.Devices {
		dev := &ed.diag.Devices[i]
		marker := ' '
		if ed.selection.IsSingle(editor.KindDevice, dev.ID) {
			marker = '>'
		} else if ed.selection.InMulti(dev.ID) {
			marker = '+'
		}
		put(fmt.Sprintf("%c [%c] %s", marker, diagram.DeviceGlyph(dev.Type), dev.ID), styleSidebar)
	}
	put("", styleSidebar)

	put(fmt.Sprintf("Boundaries (%d)", len(ed.diag.Boundaries)), styleSidebarH)
	for i := range ed.diag.Boundaries {
		b := &ed.diag.Boundaries[i]
		marker := ' '
		if ed.selection.IsSingle(editor.KindBoundary, b.ID) {
			marker = '>'
		}
		label := b.Label
		if label == "" {
			label = diagram.BoundaryTypeLabel(b.Type)
		}
		put(fmt.Sprintf("%c %s", marker, label), boundaryStyle(b.Type, false))
	}
	put("", styleSidebar)

	put(fmt.Sprintf("Connections (%d)", len(ed.diag.Connections)), styleSidebarH)
}

func (ed *Editor) drawStatusBar(w, h int) {
	left := ed.statusLeft()

	style := styleStatus
	if ed.message != "" {
		elapsed := time.Now().UnixMilli() - ed.messageFlashStart
		inverted := false
		if shouldFlashForType(ed.messageType) {
			inverted = shouldBeInverted(elapsed)
		}
		if ed.messageType == MsgError {
			style = styleMsgError
		}
		if inverted {
			style = style.Reverse(true)
		}
		left = ed.message
	}

	ed.drawString(0, h-2, fmt.Sprintf("%-*s", w, left), style)
	ed.drawString(0, h-1,
		" q quit  s save  u undo  r redo  1/2/3 draw  a device  c connect  +/- zoom  h help",
		styleHelp)
}

func (ed *Editor) statusLeft() string {
	mod := ""
	if ed.modified {
		mod = " [+]"
	}
	name := ed.filename
	if name == "" {
		name = "untitled"
	}
	mode := ""
	switch {
	case ed.boundaries.Resizing():
		mode = "  RESIZE"
	case ed.mode == ModeDrawBoundary:
		mode = "  DRAW"
	}
	sel := ""
	if n := ed.selection.MultiSize(); n > 0 {
		sel = fmt.Sprintf("  %d selected", n)
	}
	return fmt.Sprintf(" %s%s%s%s", name, mod, mode, sel)
}

var helpLines = []string{
	"Mouse",
	"  click        select device, boundary, or link",
	"  ctrl+click   toggle device in multi-selection",
	"  drag         move device (or the whole selection)",
	"  corner drag  resize a boundary",
	"  wheel        zoom at cursor",
	"  middle drag  pan the canvas",
	"",
	"Keys",
	"  1 / 2 / 3    draw zone / subnet / site boundary",
	"  a / A        add router / switch at view center",
	"  c            connect the two multi-selected devices",
	"  del          delete selection",
	"  l            lay out unpositioned devices",
	"  u / r        undo / redo",
	"  + / - / 0    zoom in / out / reset",
	"  arrows       pan",
	"  s            save",
	"  esc          cancel mode or clear selection",
	"  q            quit",
}

func (ed *Editor) drawHelpOverlay(w, h int) {
	boxW := 58
	boxH := h - 6
	if boxH > len(helpLines)+4 {
		boxH = len(helpLines) + 4
	}
	startX := (w - boxW) / 2
	startY := (h - boxH) / 2
	if startX < 0 {
		startX = 0
	}
	if startY < 0 {
		startY = 0
	}

	ed.drawTitledBox(startX, startY, boxW, boxH, "netsketchedit")

	visible := boxH - 4
	offset := ed.helpScrollOffset
	if offset > len(helpLines)-visible {
		offset = len(helpLines) - visible
	}
	if offset < 0 {
		offset = 0
	}
	ed.helpScrollOffset = offset

	for i := 0; i < visible && offset+i < len(helpLines); i++ {
		ed.drawString(startX+2, startY+2+i, helpLines[offset+i], styleSidebar)
	}
}

// drawTitledBox draws a bordered box with optional title.
func (ed *Editor) drawTitledBox(x, y, w, h int, title string) {
	ed.screen.SetContent(x, y, '┌', nil, styleBorder)
	for i := 1; i < w-1; i++ {
		ed.screen.SetContent(x+i, y, '─', nil, styleBorder)
	}
	ed.screen.SetContent(x+w-1, y, '┐', nil, styleBorder)

	if title != "" {
		titleX := x + (w-len(title)-2)/2
		ed.screen.SetContent(titleX, y, ' ', nil, styleBorder)
		ed.drawString(titleX+1, y, title, styleSidebarH)
		ed.screen.SetContent(titleX+1+len(title), y, ' ', nil, styleBorder)
	}

	for row := 1; row < h-1; row++ {
		ed.screen.SetContent(x, y+row, '│', nil, styleBorder)
		for col := 1; col < w-1; col++ {
			ed.screen.SetContent(x+col, y+row, ' ', nil, styleDefault)
		}
		ed.screen.SetContent(x+w-1, y+row, '│', nil, styleBorder)
	}

	ed.screen.SetContent(x, y+h-1, '└', nil, styleBorder)
	for i := 1; i < w-1; i++ {
		ed.screen.SetContent(x+i, y+h-1, '─', nil, styleBorder)
	}
	ed.screen.SetContent(x+w-1, y+h-1, '┘', nil, styleBorder)
}

// shouldBeInverted implements the status flash pattern: two inverted
// pulses of 125ms inside the first 500ms.
func shouldBeInverted(elapsed int64) bool {
	if elapsed < 0 || elapsed >= 500 {
		return false
	}
	phase := elapsed / 125
	return phase == 1 || phase == 3
}

func shouldFlashForType(msgType MessageType) bool {
	switch msgType {
	case MsgError, MsgSuccess, MsgWarning:
		return true
	default:
		return false
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
