package world

import (
	"fmt"
	"strings"
)

// Direction is one of the four cardinal grid directions.
type Direction int

const (
	// Up moves toward +Y.
	Up Direction = iota
	// Down moves toward -Y.
	Down
	// Left moves toward -X.
	Left
	// Right moves toward +X.
	Right
)

// AllDirections lists the cardinal directions in a stable order.
var AllDirections = [4]Direction{Up, Down, Left, Right}

// String returns a human-readable direction name.
func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// Valid reports whether d is one of the four cardinal directions.
func (d Direction) Valid() bool {
	return d >= Up && d <= Right
}

// Delta returns the unit lattice vector for the direction.
// The grid is y-up: Up is (0, 1).
func (d Direction) Delta() Point {
	switch d {
	case Up:
		return Point{0, 1}
	case Down:
		return Point{0, -1}
	case Left:
		return Point{-1, 0}
	case Right:
		return Point{1, 0}
	default:
		return Point{}
	}
}

// Opposite returns the direction pointing the other way.
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	case Right:
		return Left
	default:
		return d
	}
}

// ParseDirection converts a name such as "up" or "Right" to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up":
		return Up, nil
	case "down":
		return Down, nil
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	default:
		return 0, fmt.Errorf("unknown direction %q", s)
	}
}

// Point is an integer lattice coordinate.
type Point struct {
	X, Y int
}

// Add returns the component-wise sum of p and q.
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

// Step returns the neighbouring point one cell away in direction d.
func (p Point) Step(d Direction) Point {
	return p.Add(d.Delta())
}

// String formats the point as "(x,y)".
func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}
