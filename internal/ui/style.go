package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/samdwyer/shapetrail/internal/world"
)

// MaxHeat is the visit count at which the heat palette stops changing.
const MaxHeat = 5

// heatStops run from unvisited to hottest.
var heatStops = []colorful.Color{
	{R: 1, G: 1, B: 1},
	{R: 1, G: 0.92, B: 0.23},
	{R: 1, G: 0.6, B: 0.1},
	{R: 0.86, G: 0.1, B: 0.1},
}

// HeatColor returns the palette color for a visit count. Counts at or
// above MaxHeat share the hottest color.
func HeatColor(visits int) colorful.Color {
	if visits <= 0 {
		return heatStops[0]
	}
	if visits >= MaxHeat {
		return heatStops[len(heatStops)-1]
	}

	pos := float64(visits) / MaxHeat * float64(len(heatStops)-1)
	i := int(pos)
	return heatStops[i].BlendLab(heatStops[i+1], pos-float64(i)).Clamped()
}

// ToTCell converts a color to a 24-bit terminal color.
func ToTCell(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// Glyph returns the rune for a shape. Right triangles show the corner
// between their two straight legs.
func Glyph(kind world.ShapeKind, rot world.Rotation) rune {
	switch kind {
	case world.Square:
		return '■'
	case world.Triangle:
		return '▲'
	case world.RightTriangle:
		switch rot.Bucket() {
		case 0:
			return '◣'
		case 1:
			return '◢'
		case 2:
			return '◥'
		default:
			return '◤'
		}
	default:
		return '?'
	}
}

var (
	styleDefault = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite)
	styleEmpty   = styleDefault.Foreground(tcell.ColorDarkGray)
	styleToken   = styleDefault.Foreground(tcell.ColorBlack).Bold(true)
	styleCursor  = styleDefault.Reverse(true)
	styleReject  = styleDefault.Foreground(tcell.ColorRed).Bold(true)
	stylePortal  = styleDefault.Foreground(tcell.ColorAqua)
	styleTitle   = styleDefault.Foreground(tcell.ColorGray)
	styleStatus  = styleDefault.Foreground(tcell.ColorYellow)
	styleSolved  = styleDefault.Foreground(tcell.ColorGreen).Bold(true)
)
