package ui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/shapetrail/internal/world"
)

// cellWidth is the number of terminal columns per lattice cell.
const cellWidth = 2

// Panel is one grid to draw. Pointers are optional markers.
type Panel struct {
	Title   string
	Graph   *world.Graph
	Heat    map[world.TileID]int // nil draws tile colors instead of heat
	Token   *world.Point
	Cursor  *world.Point
	Portals []world.Point
	Reject  *world.Point // flashed for a single frame
}

// Frame is everything drawn in one pass.
type Frame struct {
	Panels []Panel
	Status string
	Solved bool
	Help   string
}

// Renderer handles drawing frames to the screen.
type Renderer struct {
	screen *Screen
}

// NewRenderer creates a new renderer for the given screen.
func NewRenderer(screen *Screen) *Renderer {
	return &Renderer{screen: screen}
}

// Render draws panels side by side above the status and help lines.
func (r *Renderer) Render(f Frame) {
	r.screen.Clear()
	w, h := r.screen.Size()

	gridRows := h - 3
	if gridRows < 1 || len(f.Panels) == 0 {
		r.renderFooter(f, h)
		r.screen.Show()
		return
	}

	panelWidth := w / len(f.Panels)
	for i, p := range f.Panels {
		r.renderPanel(p, i*panelWidth, 0, panelWidth, gridRows)
	}

	r.renderFooter(f, h)
	r.screen.Show()
}

func (r *Renderer) renderFooter(f Frame, h int) {
	statusStyle := styleStatus
	if f.Solved {
		statusStyle = styleSolved
	}
	if h >= 2 {
		r.screen.DrawText(0, h-2, f.Status, statusStyle)
	}
	if h >= 1 {
		r.screen.DrawText(0, h-1, f.Help, styleTitle)
	}
}

// renderPanel draws one grid into the rectangle at (left, top).
// Row 0 of the rectangle holds the title.
func (r *Renderer) renderPanel(p Panel, left, top, width, height int) {
	r.screen.DrawText(left, top, p.Title, styleTitle)
	cols := (width - 1) / cellWidth
	rows := height - 1
	if cols < 1 || rows < 1 {
		return
	}

	view := Viewport(p, cols, rows)
	for y := view.Max.Y; y >= view.Min.Y; y-- {
		for x := view.Min.X; x <= view.Max.X; x++ {
			pos := world.Point{X: x, Y: y}
			sx := left + (x-view.Min.X)*cellWidth
			sy := top + 1 + (view.Max.Y - y)
			ch, style := r.cell(p, pos)
			r.screen.SetContent(sx, sy, ch, style)
		}
	}
}

// cell picks the rune and style for one lattice position.
func (r *Renderer) cell(p Panel, pos world.Point) (rune, tcell.Style) {
	if p.Reject != nil && *p.Reject == pos {
		return '✗', styleReject
	}

	t, ok := p.Graph.TileAt(pos)
	if !ok {
		if p.Cursor != nil && isNeighbor(*p.Cursor, pos) {
			return '·', styleEmpty
		}
		return ' ', styleDefault
	}

	fg := ToTCell(t.Color.Color)
	if p.Heat != nil {
		fg = ToTCell(HeatColor(p.Heat[t.ID]))
	}
	style := styleDefault.Foreground(fg)

	switch {
	case p.Token != nil && *p.Token == pos:
		return '@', styleToken.Background(fg)
	case p.Cursor != nil && *p.Cursor == pos:
		return Glyph(t.Kind, t.Rotation), styleCursor.Foreground(fg)
	}
	for _, portal := range p.Portals {
		if portal == pos {
			return Glyph(t.Kind, t.Rotation), stylePortal.Underline(true)
		}
	}
	return Glyph(t.Kind, t.Rotation), style
}

func isNeighbor(a, b world.Point) bool {
	for _, d := range world.AllDirections {
		if a.Step(d) == b {
			return true
		}
	}
	return false
}

// Viewport picks the lattice rectangle shown in a cols by rows panel.
// It covers the whole graph plus a one-cell margin when that fits, and
// otherwise centers on the token or cursor.
func Viewport(p Panel, cols, rows int) world.Bounds {
	focus := world.Point{}
	switch {
	case p.Token != nil:
		focus = *p.Token
	case p.Cursor != nil:
		focus = *p.Cursor
	}

	full, ok := p.Graph.Bounds()
	if !ok {
		full = world.Bounds{Min: focus, Max: focus}
	}
	full = full.Extend(world.Point{X: full.Min.X - 1, Y: full.Min.Y - 1})
	full = full.Extend(world.Point{X: full.Max.X + 1, Y: full.Max.Y + 1})

	if full.Width() <= cols && full.Height() <= rows {
		return full
	}

	// Too large: a cols by rows window around the focus, clamped into full.
	minX := clamp(focus.X-cols/2, full.Min.X, full.Max.X-cols+1)
	minY := clamp(focus.Y-rows/2, full.Min.Y, full.Max.Y-rows+1)
	view := world.Bounds{
		Min: world.Point{X: minX, Y: minY},
		Max: world.Point{X: minX + cols - 1, Y: minY + rows - 1},
	}
	if full.Width() <= cols {
		view.Min.X, view.Max.X = full.Min.X, full.Max.X
	}
	if full.Height() <= rows {
		view.Min.Y, view.Max.Y = full.Min.Y, full.Max.Y
	}
	return view
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
