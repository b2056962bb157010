package world

import (
	"errors"
	"testing"
)

func TestGraphInsertAndLookup(t *testing.T) {
	g := NewGraph()

	a, err := g.Insert(Square, 0, Point{0, 0}, White)
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	b, err := g.Insert(RightTriangle, 450, Point{1, 0}, White)
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	if a.ID == b.ID {
		t.Fatalf("ids should be unique, both %d", a.ID)
	}
	if b.Rotation != 90 {
		t.Errorf("Insert() rotation = %d, want 90", b.Rotation)
	}
	if g.Len() != 2 {
		t.Errorf("Len() = %d, want 2", g.Len())
	}

	got, ok := g.TileAt(Point{1, 0})
	if !ok || got.ID != b.ID {
		t.Errorf("TileAt((1,0)) = %v, %v; want tile %d", got, ok, b.ID)
	}
	n, ok := g.Neighbor(Point{0, 0}, Right)
	if !ok || n.ID != b.ID {
		t.Errorf("Neighbor((0,0), right) = %v, %v; want tile %d", n, ok, b.ID)
	}
	if _, ok := g.Neighbor(Point{0, 0}, Up); ok {
		t.Error("Neighbor((0,0), up) should be empty")
	}
}

func TestGraphInsertOccupied(t *testing.T) {
	g := NewGraph()
	if _, err := g.Insert(Square, 0, Point{2, 3}, White); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	_, err := g.Insert(Triangle, 0, Point{2, 3}, White)
	if !errors.Is(err, ErrOccupied) {
		t.Errorf("Insert() on occupied cell error = %v, want ErrOccupied", err)
	}
	if g.Len() != 1 {
		t.Errorf("Len() = %d, want 1", g.Len())
	}
}

func TestGraphRemoveFreesCell(t *testing.T) {
	g := NewGraph()
	a, _ := g.Insert(Square, 0, Point{0, 0}, White)
	b, _ := g.Insert(Square, 0, Point{0, 1}, White)

	if _, err := g.Remove(b.ID); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if g.Occupied(Point{0, 1}) {
		t.Error("cell (0,1) should be free after Remove")
	}
	if _, ok := g.Tile(b.ID); ok {
		t.Error("removed tile should not be found by id")
	}
	ids := g.IDs()
	if len(ids) != 1 || ids[0] != a.ID {
		t.Errorf("IDs() = %v, want [%d]", ids, a.ID)
	}

	if _, err := g.Remove(b.ID); !errors.Is(err, ErrUnknownTile) {
		t.Errorf("second Remove() error = %v, want ErrUnknownTile", err)
	}

	c, _ := g.Insert(Square, 0, Point{0, 1}, White)
	if c.ID == b.ID {
		t.Errorf("ids must not be reused, got %d again", c.ID)
	}
}

func TestGraphIsConnected(t *testing.T) {
	g := NewGraph()
	if !g.IsConnected() {
		t.Error("empty graph should be connected")
	}

	g.Insert(Square, 0, Point{0, 0}, White)
	g.Insert(Square, 0, Point{1, 0}, White)
	g.Insert(Square, 0, Point{1, 1}, White)
	if !g.IsConnected() {
		t.Error("L-shaped graph should be connected")
	}

	// Diagonal contact does not connect.
	g.Insert(Square, 0, Point{2, 2}, White)
	if g.IsConnected() {
		t.Error("graph with a diagonal-only tile should not be connected")
	}
}

func TestGraphBounds(t *testing.T) {
	g := NewGraph()
	if _, ok := g.Bounds(); ok {
		t.Error("empty graph should have no bounds")
	}

	g.Insert(Square, 0, Point{-1, 2}, White)
	g.Insert(Square, 0, Point{3, -4}, White)
	b, ok := g.Bounds()
	if !ok {
		t.Fatal("Bounds() ok = false")
	}
	want := Bounds{Min: Point{-1, -4}, Max: Point{3, 2}}
	if b != want {
		t.Errorf("Bounds() = %v, want %v", b, want)
	}
	if b.Width() != 5 || b.Height() != 7 {
		t.Errorf("Width/Height = %d/%d, want 5/7", b.Width(), b.Height())
	}
	if !b.Contains(Point{0, 0}) || b.Contains(Point{4, 0}) {
		t.Error("Contains() mismatch")
	}
}

func TestGraphCloneIsIndependent(t *testing.T) {
	g := NewGraph()
	a, _ := g.Insert(Square, 0, Point{0, 0}, White)

	c := g.Clone()
	c.Insert(Square, 0, Point{1, 0}, White)
	c.Remove(a.ID)

	if g.Len() != 1 || !g.Occupied(Point{0, 0}) {
		t.Error("mutating the clone changed the original")
	}
	if c.Len() != 1 || !c.Occupied(Point{1, 0}) {
		t.Error("clone does not reflect its own mutations")
	}
}

func TestTilesKeepInsertionOrder(t *testing.T) {
	g := NewGraph()
	positions := []Point{{0, 0}, {0, -1}, {-1, -1}, {-1, 0}}
	for _, p := range positions {
		g.Insert(Triangle, 0, p, White)
	}

	for i, tile := range g.Tiles() {
		if tile.Pos != positions[i] {
			t.Errorf("Tiles()[%d].Pos = %v, want %v", i, tile.Pos, positions[i])
		}
	}
}
