// Package world provides the tile grid model shared by the builder and the
// traversal engine: lattice geometry, shapes, edge classification, and the
// position-indexed tile graph.
package world

import (
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ShapeKind identifies the geometric shape of a tile.
type ShapeKind int

const (
	// Square has four straight edges.
	Square ShapeKind = iota
	// Triangle is treated as fully straight-edged for adjacency.
	Triangle
	// RightTriangle has two straight legs and one hypotenuse.
	RightTriangle
)

// String returns the shape name used in level files.
func (k ShapeKind) String() string {
	switch k {
	case Square:
		return "Square"
	case Triangle:
		return "Triangle"
	case RightTriangle:
		return "RightTriangle"
	default:
		return "Unknown"
	}
}

// ParseShapeKind accepts the level-file spellings of a shape name.
func ParseShapeKind(s string) (ShapeKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "square":
		return Square, nil
	case "triangle":
		return Triangle, nil
	case "righttriangle", "right triangle", "right_triangle":
		return RightTriangle, nil
	default:
		return 0, fmt.Errorf("unknown shape type %q", s)
	}
}

// Rotation is a clockwise-agnostic rotation in degrees, always one of
// 0, 90, 180 or 270.
type Rotation int

// NewRotation normalizes an arbitrary angle into [0, 360) and snaps it to
// the nearest 90 degree bucket.
func NewRotation(deg float64) Rotation {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	bucket := int(math.Round(d/90)) % 4
	return Rotation(bucket * 90)
}

// Next returns the rotation advanced by 90 degrees, wrapping to 0.
func (r Rotation) Next() Rotation {
	return Rotation((int(r) + 90) % 360)
}

// Bucket returns the rotation as a quarter-turn index 0..3.
func (r Rotation) Bucket() int {
	return int(NewRotation(float64(r))) / 90
}

// Degrees returns the rotation as a float angle.
func (r Rotation) Degrees() float64 {
	return float64(r)
}

// TileID identifies a tile within one graph. Zero is never a valid id.
type TileID int

// Tile is a placed shape instance.
type Tile struct {
	ID       TileID
	Kind     ShapeKind
	Rotation Rotation
	Pos      Point
	Color    Color
}

// String returns a compact description for logs.
func (t Tile) String() string {
	return fmt.Sprintf("%s#%d@%s rot=%d", t.Kind, t.ID, t.Pos, t.Rotation)
}

// Color is an author-chosen tile color with alpha.
type Color struct {
	colorful.Color
	A float64
}

// White is the default tile color.
var White = Color{Color: colorful.Color{R: 1, G: 1, B: 1}, A: 1}

// NewColor builds a color from float channels in [0, 1].
func NewColor(r, g, b, a float64) Color {
	return Color{Color: colorful.Color{R: r, G: g, B: b}, A: a}
}

// IsDefault reports whether the color is white. A non-default color marks
// the starting piece of a level.
func (c Color) IsDefault() bool {
	return c.AlmostEqualRgb(White.Color)
}

// ParseHexColor converts "#RRGGBB" or "RRGGBB" to an opaque Color.
func ParseHexColor(hex string) (Color, error) {
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %s: %w", hex, err)
	}
	return Color{Color: c, A: 1}, nil
}

// MustParseHexColor is ParseHexColor that panics on error.
func MustParseHexColor(hex string) Color {
	c, err := ParseHexColor(hex)
	if err != nil {
		panic(err)
	}
	return c
}
