package game

import "github.com/samdwyer/shapetrail/internal/world"

// DefaultGenerateSize is the tile count produced by the generate command.
const DefaultGenerateSize = 12

// Config holds session options.
type Config struct {
	// Seed for random number generation. Used for reproducible generated layouts.
	// A seed of 0 means a random seed will be generated.
	Seed int64
	// LevelName names levels saved from the builder.
	LevelName string
	// CellSize converts lattice cells to saved world positions.
	CellSize float64
	// Palette lists the colors cycled by the next-color command. The first
	// entry is used for new tiles.
	Palette []world.Color
	// GenerateSize is the tile count the generate command grows to.
	GenerateSize int
}

// DefaultPalette is white followed by the marker colors offered in build mode.
func DefaultPalette() []world.Color {
	return []world.Color{
		world.White,
		world.MustParseHexColor("#3399ff"),
		world.MustParseHexColor("#f2594c"),
		world.MustParseHexColor("#5ccf6b"),
		world.MustParseHexColor("#b57aff"),
	}
}

func (c Config) withDefaults() Config {
	if c.LevelName == "" {
		c.LevelName = "Untitled"
	}
	if c.CellSize <= 0 {
		c.CellSize = 0.5
	}
	if len(c.Palette) == 0 {
		c.Palette = DefaultPalette()
	}
	if c.GenerateSize <= 0 {
		c.GenerateSize = DefaultGenerateSize
	}
	return c
}
