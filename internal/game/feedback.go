package game

import (
	"errors"
	"fmt"

	"github.com/samdwyer/shapetrail/internal/builder"
	"github.com/samdwyer/shapetrail/internal/puzzle"
	"github.com/samdwyer/shapetrail/internal/world"
)

// feedback turns builder and engine notifications into status text and
// one-frame flashes.
type feedback struct {
	g *Game
}

var (
	_ builder.Listener = feedback{}
	_ puzzle.Listener  = feedback{}
)

func (f feedback) TilePlaced(t world.Tile) {
	f.g.status = fmt.Sprintf("placed %s at %s", t.Kind, t.Pos)
}

func (f feedback) TileRemoved(t world.Tile) {
	f.g.status = fmt.Sprintf("removed %s at %s", t.Kind, t.Pos)
}

func (f feedback) CursorMoved(t world.Tile) {
	f.g.status = fmt.Sprintf("cursor on %s at %s", t.Kind, t.Pos)
}

func (f feedback) PlacementRejected(at world.Point, err error) {
	f.g.reject = &puzzle.Location{Pos: at}
	var mismatch *builder.EdgeMismatchError
	if errors.As(err, &mismatch) {
		f.g.status = fmt.Sprintf("edges don't match: %s side is %s, new %s side is %s",
			mismatch.Dir, edgeWord(mismatch.AnchorStraight),
			mismatch.Dir.Opposite(), edgeWord(mismatch.PendingStraight))
		return
	}
	f.g.status = err.Error()
}

func (f feedback) Cleared() {
	f.g.status = "cleared"
}

func (f feedback) TokenMoved(r puzzle.MoveResult) {
	switch {
	case r.Solved:
		f.g.status = fmt.Sprintf("SOLVED in %d moves!", r.Moves)
	case r.Outcome == puzzle.Teleported:
		f.g.status = fmt.Sprintf("teleported to grid %d", r.To.Grid+1)
	default:
		f.g.status = ""
	}
}

func (f feedback) MoveBlocked(at puzzle.Location, dir world.Direction) {
	blocked := puzzle.Location{Grid: at.Grid, Pos: at.Pos.Step(dir)}
	f.g.reject = &blocked
	f.g.status = "blocked"
}

func (f feedback) PuzzleSolved(moves int) {
	f.g.status = fmt.Sprintf("SOLVED in %d moves!", moves)
}

func (f feedback) PuzzleReset(puzzle.Location) {
	f.g.status = "reset"
}

func edgeWord(straight bool) string {
	if straight {
		return "straight"
	}
	return "slanted"
}
