// Package level converts tile graphs to and from saved level descriptions
// and persists them in a file or badger-backed store.
package level

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/samdwyer/shapetrail/internal/world"
)

// DefaultCellSize is the world-space width of one lattice cell.
const DefaultCellSize = 0.5

var (
	// ErrDuplicatePosition is returned when two records land on the same cell.
	ErrDuplicatePosition = errors.New("duplicate tile position")
	// ErrEmptyLevel is returned when a level has no shapes to ingest.
	ErrEmptyLevel = errors.New("level has no shapes")
	// ErrInvalidCellSize is returned for a non-positive cell size.
	ErrInvalidCellSize = errors.New("cell size must be positive")
)

// levelValidate checks struct tags on levels and records.
var levelValidate *validator.Validate

func init() {
	levelValidate = validator.New()
	_ = levelValidate.RegisterValidation("shapetype", validateShapeType)
}

func validateShapeType(fl validator.FieldLevel) bool {
	_, err := world.ParseShapeKind(fl.Field().String())
	return err == nil
}

// ShapeRecord is one saved tile in world coordinates.
type ShapeRecord struct {
	ShapeType       string  `json:"shapeType" validate:"required,shapetype"`
	ColorR          float64 `json:"colorR" validate:"gte=0,lte=1"`
	ColorG          float64 `json:"colorG" validate:"gte=0,lte=1"`
	ColorB          float64 `json:"colorB" validate:"gte=0,lte=1"`
	ColorA          float64 `json:"colorA" validate:"gte=0,lte=1"`
	PositionX       float64 `json:"positionX"`
	PositionY       float64 `json:"positionY"`
	RotationZ       float64 `json:"rotationZ"`
	IsStartingPiece bool    `json:"isStartingPiece"`
}

// Color returns the record's color.
func (r ShapeRecord) Color() world.Color {
	return world.NewColor(r.ColorR, r.ColorG, r.ColorB, r.ColorA)
}

// Level is a named, saved tile layout.
type Level struct {
	ID        uuid.UUID     `json:"id"`
	LevelName string        `json:"levelName" validate:"required,max=64"`
	CreatedAt time.Time     `json:"createdAt"`
	Shapes    []ShapeRecord `json:"shapes" validate:"required,min=1,dive"`
}

// Validate checks field constraints on the level and every record.
func (l *Level) Validate() error {
	if err := levelValidate.Struct(l); err != nil {
		return fmt.Errorf("level %q: %w", l.LevelName, err)
	}
	return nil
}

// EnsureDefaults assigns an id and creation time when missing.
func (l *Level) EnsureDefaults() {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}
}

// Summary is the listing entry for a stored level.
type Summary struct {
	ID        uuid.UUID
	Name      string
	Tiles     int
	CreatedAt time.Time
}

// Summarize returns the listing entry for l.
func (l *Level) Summarize() Summary {
	return Summary{ID: l.ID, Name: l.LevelName, Tiles: len(l.Shapes), CreatedAt: l.CreatedAt}
}

// Ingest builds a graph from a level's records and returns it with the
// start cell. Records are inserted in order; edge compatibility is not
// re-checked. The start is the first record flagged as the starting piece,
// else the first non-white record, else the first record.
func Ingest(l *Level, cellSize float64) (*world.Graph, world.Point, error) {
	if cellSize <= 0 {
		return nil, world.Point{}, ErrInvalidCellSize
	}
	if len(l.Shapes) == 0 {
		return nil, world.Point{}, ErrEmptyLevel
	}

	g := world.NewGraph()
	flagged, colored := -1, -1
	points := make([]world.Point, 0, len(l.Shapes))
	for i, rec := range l.Shapes {
		kind, err := world.ParseShapeKind(rec.ShapeType)
		if err != nil {
			return nil, world.Point{}, fmt.Errorf("record %d: %w", i, err)
		}
		pos := ToGrid(rec.PositionX, rec.PositionY, cellSize)
		color := rec.Color()
		if _, err := g.Insert(kind, world.NewRotation(rec.RotationZ), pos, color); err != nil {
			if errors.Is(err, world.ErrOccupied) {
				return nil, world.Point{}, fmt.Errorf("record %d at %s: %w", i, pos, ErrDuplicatePosition)
			}
			return nil, world.Point{}, err
		}
		points = append(points, pos)

		if rec.IsStartingPiece && flagged < 0 {
			flagged = i
		}
		if !color.IsDefault() && colored < 0 {
			colored = i
		}
	}

	start := points[0]
	switch {
	case flagged >= 0:
		start = points[flagged]
	case colored >= 0:
		start = points[colored]
	}
	return g, start, nil
}

// StartTile returns the cell play should begin on: the first tile with a
// non-default color, else the first tile. It returns the origin for an
// empty slice.
func StartTile(tiles []world.Tile) world.Point {
	for _, t := range tiles {
		if !t.Color.IsDefault() {
			return t.Pos
		}
	}
	if len(tiles) == 0 {
		return world.Point{}
	}
	return tiles[0].Pos
}

// Egest converts tiles, in the given order, into a new level. The tile at
// start, if any, is flagged as the starting piece; StartTile picks the
// start the way Ingest would.
func Egest(name string, tiles []world.Tile, start world.Point, cellSize float64) (*Level, error) {
	if cellSize <= 0 {
		return nil, ErrInvalidCellSize
	}
	l := &Level{LevelName: name, Shapes: make([]ShapeRecord, 0, len(tiles))}
	for _, t := range tiles {
		x, y := ToWorld(t.Pos, cellSize)
		l.Shapes = append(l.Shapes, ShapeRecord{
			ShapeType:       t.Kind.String(),
			ColorR:          t.Color.R,
			ColorG:          t.Color.G,
			ColorB:          t.Color.B,
			ColorA:          t.Color.A,
			PositionX:       x,
			PositionY:       y,
			RotationZ:       t.Rotation.Degrees(),
			IsStartingPiece: t.Pos == start,
		})
	}
	l.EnsureDefaults()
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return l, nil
}

// ToGrid rounds a world position to the nearest lattice cell.
func ToGrid(x, y, cellSize float64) world.Point {
	return world.Point{
		X: int(math.Round(x / cellSize)),
		Y: int(math.Round(y / cellSize)),
	}
}

// ToWorld returns the world position of a lattice cell.
func ToWorld(p world.Point, cellSize float64) (float64, float64) {
	return float64(p.X) * cellSize, float64(p.Y) * cellSize
}
