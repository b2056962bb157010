package puzzle

import "github.com/samdwyer/shapetrail/internal/world"

// Listener receives notifications after traversal state changes commit.
// The engine never waits on a listener to finish anything it started,
// such as an animation.
type Listener interface {
	TokenMoved(r MoveResult)
	MoveBlocked(at Location, dir world.Direction)
	PuzzleSolved(moves int)
	PuzzleReset(start Location)
}

// NopListener ignores every notification.
type NopListener struct{}

func (NopListener) TokenMoved(MoveResult)                 {}
func (NopListener) MoveBlocked(Location, world.Direction) {}
func (NopListener) PuzzleSolved(int)                      {}
func (NopListener) PuzzleReset(Location)                  {}
