package world

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrOccupied is returned when inserting onto a taken cell.
	ErrOccupied = errors.New("cell already occupied")
	// ErrUnknownTile is returned when an id is not in the graph.
	ErrUnknownTile = errors.New("unknown tile")
)

// Graph is the set of placed tiles with a position index.
// Tiles live in an id-keyed table; the index maps each occupied cell to
// its tile id. Ids are handed out in increasing order and never reused.
type Graph struct {
	tiles  map[TileID]Tile
	index  map[Point]TileID
	order  []TileID
	nextID TileID
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		tiles:  make(map[TileID]Tile),
		index:  make(map[Point]TileID),
		order:  make([]TileID, 0),
		nextID: 1,
	}
}

// Insert places a new tile at pos and returns it with its assigned id.
func (g *Graph) Insert(kind ShapeKind, rot Rotation, pos Point, color Color) (Tile, error) {
	if id, ok := g.index[pos]; ok {
		return Tile{}, fmt.Errorf("insert %s at %s: %w (tile %d)", kind, pos, ErrOccupied, id)
	}

	t := Tile{
		ID:       g.nextID,
		Kind:     kind,
		Rotation: NewRotation(float64(rot)),
		Pos:      pos,
		Color:    color,
	}
	g.nextID++

	g.tiles[t.ID] = t
	g.index[pos] = t.ID
	g.order = append(g.order, t.ID)
	return t, nil
}

// Remove deletes the tile with the given id and frees its cell.
func (g *Graph) Remove(id TileID) (Tile, error) {
	t, ok := g.tiles[id]
	if !ok {
		return Tile{}, fmt.Errorf("remove %d: %w", id, ErrUnknownTile)
	}
	delete(g.tiles, id)
	delete(g.index, t.Pos)
	if i := slices.Index(g.order, id); i >= 0 {
		g.order = slices.Delete(g.order, i, i+1)
	}
	return t, nil
}

// Tile returns the tile with the given id.
func (g *Graph) Tile(id TileID) (Tile, bool) {
	t, ok := g.tiles[id]
	return t, ok
}

// TileAt returns the tile occupying pos, if any.
func (g *Graph) TileAt(pos Point) (Tile, bool) {
	id, ok := g.index[pos]
	if !ok {
		return Tile{}, false
	}
	return g.tiles[id], true
}

// Occupied reports whether pos holds a tile.
func (g *Graph) Occupied(pos Point) bool {
	_, ok := g.index[pos]
	return ok
}

// Neighbor returns the tile one step from pos in direction dir.
func (g *Graph) Neighbor(pos Point, dir Direction) (Tile, bool) {
	return g.TileAt(pos.Step(dir))
}

// Len returns the number of tiles.
func (g *Graph) Len() int {
	return len(g.order)
}

// IDs returns tile ids in insertion order.
func (g *Graph) IDs() []TileID {
	return slices.Clone(g.order)
}

// Tiles returns all tiles in insertion order.
func (g *Graph) Tiles() []Tile {
	out := make([]Tile, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.tiles[id])
	}
	return out
}

// Bounds returns the smallest rectangle containing every tile.
// The second result is false for an empty graph.
func (g *Graph) Bounds() (Bounds, bool) {
	if len(g.order) == 0 {
		return Bounds{}, false
	}
	first := g.tiles[g.order[0]].Pos
	b := Bounds{Min: first, Max: first}
	for _, id := range g.order[1:] {
		b = b.Extend(g.tiles[id].Pos)
	}
	return b, true
}

// IsConnected reports whether every tile can reach every other tile through
// cardinal steps over occupied cells. An empty graph is connected.
func (g *Graph) IsConnected() bool {
	if len(g.order) == 0 {
		return true
	}

	start := g.tiles[g.order[0]].Pos
	seen := map[Point]bool{start: true}
	queue := []Point{start}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		for _, d := range AllDirections {
			n := p.Step(d)
			if seen[n] || !g.Occupied(n) {
				continue
			}
			seen[n] = true
			queue = append(queue, n)
		}
	}
	return len(seen) == len(g.order)
}

// Clone returns an independent copy that keeps ids and insertion order.
func (g *Graph) Clone() *Graph {
	c := &Graph{
		tiles:  make(map[TileID]Tile, len(g.tiles)),
		index:  make(map[Point]TileID, len(g.index)),
		order:  slices.Clone(g.order),
		nextID: g.nextID,
	}
	for id, t := range g.tiles {
		c.tiles[id] = t
	}
	for p, id := range g.index {
		c.index[p] = id
	}
	return c
}
