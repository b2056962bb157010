package puzzle

import (
	"fmt"

	"github.com/samdwyer/shapetrail/internal/world"
)

// SquareGrid builds a w by h grid of white squares with its lower-left
// corner at the origin.
func SquareGrid(w, h int) (*world.Graph, error) {
	g := world.NewGraph()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if _, err := g.Insert(world.Square, 0, world.Point{X: x, Y: y}, world.White); err != nil {
				return nil, err
			}
		}
	}
	return g, nil
}

// SquareLevel returns a single w by h grid starting at its top-left cell.
func SquareLevel(w, h int) (*Topology, Location, error) {
	if w <= 0 || h <= 0 {
		return nil, Location{}, fmt.Errorf("square level %dx%d: %w", w, h, ErrNoGrids)
	}
	g, err := SquareGrid(w, h)
	if err != nil {
		return nil, Location{}, err
	}
	return NewTopology(g), Location{Grid: 0, Pos: world.Point{X: 0, Y: h - 1}}, nil
}

// TeleportLevel returns two 2x2 grids joined corner to corner. Leaving
// grid 0's bottom-right cell to the right or downward arrives at grid 1's
// top-left cell; leaving that cell left or upward comes back.
func TeleportLevel() (*Topology, Location, error) {
	a, err := SquareGrid(2, 2)
	if err != nil {
		return nil, Location{}, err
	}
	b, err := SquareGrid(2, 2)
	if err != nil {
		return nil, Location{}, err
	}

	topo := NewTopology(a, b)
	err = topo.Portals.BindPair(
		Location{Grid: 0, Pos: world.Point{X: 1, Y: 0}}, []world.Direction{world.Right, world.Down},
		Location{Grid: 1, Pos: world.Point{X: 0, Y: 1}}, []world.Direction{world.Left, world.Up},
	)
	if err != nil {
		return nil, Location{}, err
	}
	return topo, Location{Grid: 0, Pos: world.Point{X: 0, Y: 1}}, nil
}
