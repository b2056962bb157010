package builder

import (
	"context"
	"errors"
	"math/rand"
	"reflect"
	"testing"

	"github.com/samdwyer/shapetrail/internal/world"
)

func square() PendingTile {
	return NewPendingTile(world.Square, world.White)
}

func rightTriangle(rot world.Rotation) PendingTile {
	return PendingTile{Kind: world.RightTriangle, Rotation: rot, Color: world.White}
}

// snapshot captures everything Undo promises to restore.
type snapshot struct {
	tiles   []world.Tile
	cursor  world.Tile
	hasCur  bool
	history []world.TileID
	index   map[world.Point]world.TileID
}

func take(b *Builder) snapshot {
	cur, ok := b.Cursor()
	index := make(map[world.Point]world.TileID)
	for _, t := range b.Graph().Tiles() {
		if at, ok := b.Graph().TileAt(t.Pos); ok {
			index[t.Pos] = at.ID
		}
	}
	return snapshot{
		tiles:   b.Graph().Tiles(),
		cursor:  cur,
		hasCur:  ok,
		history: b.History(),
		index:   index,
	}
}

func TestPlaceFirst(t *testing.T) {
	ctx := context.Background()
	b := New()

	if _, ok := b.Cursor(); ok {
		t.Fatal("new builder should have no cursor")
	}

	res, err := b.PlaceFirst(ctx, world.Point{X: 3, Y: 4}, square())
	if err != nil {
		t.Fatalf("PlaceFirst() error = %v", err)
	}
	if res.Outcome != Placed {
		t.Errorf("PlaceFirst().Outcome = %v, want placed", res.Outcome)
	}
	cur, ok := b.Cursor()
	if !ok || cur.ID != res.Tile.ID || cur.Pos != (world.Point{X: 3, Y: 4}) {
		t.Errorf("Cursor() = %v, %v; want tile at (3,4)", cur, ok)
	}

	if _, err := b.PlaceFirst(ctx, world.Point{X: 0, Y: 0}, square()); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("second PlaceFirst() error = %v, want ErrAlreadyStarted", err)
	}
	if b.Len() != 1 {
		t.Errorf("Len() = %d, want 1", b.Len())
	}
}

func TestPlaceAdjacentWithoutCursor(t *testing.T) {
	b := New()
	if _, err := b.PlaceAdjacent(context.Background(), world.Up, square()); !errors.Is(err, ErrNoCursor) {
		t.Errorf("PlaceAdjacent() on empty builder error = %v, want ErrNoCursor", err)
	}
}

func TestPlaceAdjacentInvalidDirection(t *testing.T) {
	ctx := context.Background()
	b := New()
	b.PlaceFirst(ctx, world.Point{}, square())

	if _, err := b.PlaceAdjacent(ctx, world.Direction(9), square()); !errors.Is(err, ErrInvalidDirection) {
		t.Errorf("PlaceAdjacent() error = %v, want ErrInvalidDirection", err)
	}
}

func TestPlaceAdjacentAdvancesCursor(t *testing.T) {
	ctx := context.Background()
	b := New()
	b.PlaceFirst(ctx, world.Point{X: 0, Y: 0}, square())

	steps := []struct {
		dir  world.Direction
		want world.Point
	}{
		{world.Right, world.Point{X: 1, Y: 0}},
		{world.Up, world.Point{X: 1, Y: 1}},
		{world.Left, world.Point{X: 0, Y: 1}},
	}
	for _, s := range steps {
		res, err := b.PlaceAdjacent(ctx, s.dir, square())
		if err != nil {
			t.Fatalf("PlaceAdjacent(%v) error = %v", s.dir, err)
		}
		if res.Outcome != Placed || res.Tile.Pos != s.want {
			t.Errorf("PlaceAdjacent(%v) = %v at %v, want placed at %v", s.dir, res.Outcome, res.Tile.Pos, s.want)
		}
		cur, _ := b.Cursor()
		if cur.Pos != s.want {
			t.Errorf("cursor at %v, want %v", cur.Pos, s.want)
		}
	}
	if !b.Graph().IsConnected() {
		t.Error("graph should stay connected")
	}
}

func TestPlaceAdjacentOccupiedRedirect(t *testing.T) {
	ctx := context.Background()
	b := New()
	root, _ := b.PlaceFirst(ctx, world.Point{X: 0, Y: 0}, square())
	b.PlaceAdjacent(ctx, world.Right, square())

	before := b.Len()
	// Even a shape that would be incompatible is not checked on redirect.
	res, err := b.PlaceAdjacent(ctx, world.Left, rightTriangle(0))
	if err != nil {
		t.Fatalf("PlaceAdjacent() toward occupied cell error = %v", err)
	}
	if res.Outcome != MovedToExisting {
		t.Errorf("Outcome = %v, want moved_to_existing", res.Outcome)
	}
	if res.Tile.ID != root.Tile.ID {
		t.Errorf("redirected to tile %d, want root %d", res.Tile.ID, root.Tile.ID)
	}
	if b.Len() != before {
		t.Errorf("Len() = %d after redirect, want %d", b.Len(), before)
	}
	cur, _ := b.Cursor()
	if cur.ID != root.Tile.ID {
		t.Errorf("cursor = %d, want %d", cur.ID, root.Tile.ID)
	}
}

func TestPlaceAdjacentIncompatibleLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	b := New()
	b.PlaceFirst(ctx, world.Point{X: 0, Y: 0}, rightTriangle(0))
	before := take(b)

	// A 0 degree right triangle has its hypotenuse facing up.
	_, err := b.PlaceAdjacent(ctx, world.Up, square())
	if !errors.Is(err, ErrIncompatibleEdge) {
		t.Fatalf("PlaceAdjacent() error = %v, want ErrIncompatibleEdge", err)
	}
	var mismatch *EdgeMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("error %T should be *EdgeMismatchError", err)
	}
	if mismatch.AnchorStraight || !mismatch.PendingStraight {
		t.Errorf("mismatch sides = %v/%v, want false/true", mismatch.AnchorStraight, mismatch.PendingStraight)
	}

	if after := take(b); !reflect.DeepEqual(before, after) {
		t.Errorf("state changed on rejection:\nbefore %+v\nafter  %+v", before, after)
	}
}

func TestRightTrianglePairCompatibility(t *testing.T) {
	ctx := context.Background()
	for aRot := world.Rotation(0); aRot < 360; aRot += 90 {
		for bRot := world.Rotation(0); bRot < 360; bRot += 90 {
			for _, d := range world.AllDirections {
				b := New()
				b.PlaceFirst(ctx, world.Point{}, rightTriangle(aRot))

				_, err := b.PlaceAdjacent(ctx, d, rightTriangle(bRot))
				want := world.IsEdgeStraight(world.RightTriangle, aRot, d) &&
					world.IsEdgeStraight(world.RightTriangle, bRot, d.Opposite())
				if got := err == nil; got != want {
					t.Errorf("rt(%d) then rt(%d) %v: success = %v, want %v (err %v)", aRot, bRot, d, got, want, err)
				}
			}
		}
	}
}

func TestNonRightTrianglePairsAlwaysPlace(t *testing.T) {
	ctx := context.Background()
	kinds := []world.ShapeKind{world.Square, world.Triangle}
	for _, a := range kinds {
		for _, k := range kinds {
			for _, d := range world.AllDirections {
				b := New()
				b.PlaceFirst(ctx, world.Point{}, PendingTile{Kind: a, Rotation: 180, Color: world.White})
				if _, err := b.PlaceAdjacent(ctx, d, PendingTile{Kind: k, Rotation: 90, Color: world.White}); err != nil {
					t.Errorf("%v then %v %v: error = %v", a, k, d, err)
				}
			}
		}
	}
}

func TestUndoRestoresPrePlacementState(t *testing.T) {
	ctx := context.Background()
	b := New()
	b.PlaceFirst(ctx, world.Point{X: 0, Y: 0}, square())
	b.PlaceAdjacent(ctx, world.Right, square())
	b.PlaceAdjacent(ctx, world.Up, rightTriangle(0))
	// Jump back to the root before branching off it.
	b.PlaceAdjacent(ctx, world.Down, square())
	b.PlaceAdjacent(ctx, world.Left, square())

	before := take(b)
	if _, err := b.PlaceAdjacent(ctx, world.Down, square()); err != nil {
		t.Fatalf("PlaceAdjacent() error = %v", err)
	}
	removed, err := b.Undo(ctx)
	if err != nil {
		t.Fatalf("Undo() error = %v", err)
	}
	if removed.Pos != (world.Point{X: 0, Y: -1}) {
		t.Errorf("Undo() removed tile at %v, want (0,-1)", removed.Pos)
	}

	if after := take(b); !reflect.DeepEqual(before, after) {
		t.Errorf("Undo did not restore state:\nbefore %+v\nafter  %+v", before, after)
	}
}

func TestUndoLinearHistoryWalksBack(t *testing.T) {
	ctx := context.Background()
	b := New()
	first, _ := b.PlaceFirst(ctx, world.Point{}, square())
	second, _ := b.PlaceAdjacent(ctx, world.Right, square())
	b.PlaceAdjacent(ctx, world.Right, square())

	b.Undo(ctx)
	if cur, _ := b.Cursor(); cur.ID != second.Tile.ID {
		t.Errorf("cursor after first undo = %d, want %d", cur.ID, second.Tile.ID)
	}
	b.Undo(ctx)
	if cur, _ := b.Cursor(); cur.ID != first.Tile.ID {
		t.Errorf("cursor after second undo = %d, want %d", cur.ID, first.Tile.ID)
	}
	if b.Graph().Occupied(world.Point{X: 1, Y: 0}) || b.Graph().Occupied(world.Point{X: 2, Y: 0}) {
		t.Error("undone cells should be free")
	}
}

func TestUndoRoot(t *testing.T) {
	ctx := context.Background()
	b := New()
	if _, err := b.Undo(ctx); !errors.Is(err, ErrNoCursor) {
		t.Errorf("Undo() on empty builder error = %v, want ErrNoCursor", err)
	}

	b.PlaceFirst(ctx, world.Point{}, square())
	if _, err := b.Undo(ctx); !errors.Is(err, ErrCannotUndoRoot) {
		t.Errorf("Undo() on root error = %v, want ErrCannotUndoRoot", err)
	}
	if b.Len() != 1 {
		t.Errorf("Len() = %d, want 1", b.Len())
	}
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	b := New()
	b.PlaceFirst(ctx, world.Point{}, square())
	b.PlaceAdjacent(ctx, world.Up, square())

	b.Clear(ctx)
	if !b.Empty() {
		t.Errorf("Len() = %d after Clear, want 0", b.Len())
	}
	if _, ok := b.Cursor(); ok {
		t.Error("cursor should be cleared")
	}
	if len(b.History()) != 0 {
		t.Errorf("History() = %v, want empty", b.History())
	}
	if _, err := b.PlaceFirst(ctx, world.Point{X: 5, Y: 5}, square()); err != nil {
		t.Errorf("PlaceFirst() after Clear error = %v", err)
	}
}

func TestRotateWraps(t *testing.T) {
	b := New()
	p := rightTriangle(270)
	p = b.Rotate(p)
	if p.Rotation != 0 {
		t.Errorf("Rotate() from 270 = %d, want 0", p.Rotation)
	}
	if !b.Empty() {
		t.Error("Rotate must not touch the graph")
	}
}

func TestTilesInPlacementOrder(t *testing.T) {
	ctx := context.Background()
	b := New()
	b.PlaceFirst(ctx, world.Point{}, square())
	b.PlaceAdjacent(ctx, world.Down, square())
	b.PlaceAdjacent(ctx, world.Up, square()) // redirect to root
	b.PlaceAdjacent(ctx, world.Left, square())

	want := []world.Point{{X: 0, Y: 0}, {X: 0, Y: -1}, {X: -1, Y: 0}}
	got := b.Tiles()
	if len(got) != len(want) {
		t.Fatalf("Tiles() length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Pos != want[i] {
			t.Errorf("Tiles()[%d].Pos = %v, want %v", i, got[i].Pos, want[i])
		}
	}
}

type recorder struct {
	NopListener
	events []string
}

func (r *recorder) TilePlaced(world.Tile)                { r.events = append(r.events, "placed") }
func (r *recorder) TileRemoved(world.Tile)               { r.events = append(r.events, "removed") }
func (r *recorder) CursorMoved(world.Tile)               { r.events = append(r.events, "cursor") }
func (r *recorder) PlacementRejected(world.Point, error) { r.events = append(r.events, "rejected") }
func (r *recorder) Cleared()                             { r.events = append(r.events, "cleared") }

func TestListenerNotifications(t *testing.T) {
	ctx := context.Background()
	rec := &recorder{}
	b := New()
	b.SetListener(rec)

	b.PlaceFirst(ctx, world.Point{}, rightTriangle(0))
	b.PlaceAdjacent(ctx, world.Up, square())    // hypotenuse: rejected
	b.PlaceAdjacent(ctx, world.Right, square()) // hypotenuse: rejected
	b.PlaceAdjacent(ctx, world.Left, square())
	b.PlaceAdjacent(ctx, world.Right, square()) // back onto root
	b.Undo(ctx)
	b.Clear(ctx)

	want := []string{"placed", "rejected", "rejected", "placed", "cursor", "removed", "cursor", "cleared"}
	if !reflect.DeepEqual(rec.events, want) {
		t.Errorf("events = %v, want %v", rec.events, want)
	}
}

func TestGenerateReproducibility(t *testing.T) {
	ctx := context.Background()
	seed := int64(12345)

	b1 := New()
	b2 := New()
	n1, err := b1.Generate(ctx, rand.New(rand.NewSource(seed)), 25, world.White)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	n2, _ := b2.Generate(ctx, rand.New(rand.NewSource(seed)), 25, world.White)

	if n1 != 25 || n2 != 25 {
		t.Fatalf("Generate() sizes = %d, %d; want 25", n1, n2)
	}
	t1, t2 := b1.Tiles(), b2.Tiles()
	for i := range t1 {
		if t1[i] != t2[i] {
			t.Errorf("tile %d mismatch: %v != %v", i, t1[i], t2[i])
		}
	}
	if !b1.Graph().IsConnected() {
		t.Error("generated graph should be connected")
	}
}

func TestGenerateRespectsEdgeRules(t *testing.T) {
	ctx := context.Background()
	b := New()
	b.Generate(ctx, rand.New(rand.NewSource(7)), 40, world.White)

	g := b.Graph()
	for _, id := range b.History()[1:] {
		tile, _ := g.Tile(id)
		// Every placed tile was checked against its anchor; at least one
		// neighbor must accept it.
		ok := false
		for _, d := range world.AllDirections {
			n, found := g.Neighbor(tile.Pos, d)
			if found && world.Compatible(n.Kind, n.Rotation, tile.Kind, tile.Rotation, d.Opposite()) {
				ok = true
				break
			}
		}
		if !ok {
			t.Errorf("tile %v has no compatible neighbor", tile)
		}
	}
}
