// Package puzzle runs the traversal puzzle: a single token moves over one
// or more tile grids, counting visits per tile, until every tile has been
// visited at least once.
package puzzle

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/samdwyer/shapetrail/internal/ctxlog"
	"github.com/samdwyer/shapetrail/internal/telemetry"
	"github.com/samdwyer/shapetrail/internal/world"
)

var (
	// ErrBlockedMove is returned when the target is neither an occupied
	// neighbor nor a bound portal exit.
	ErrBlockedMove = errors.New("move blocked")
	// ErrPuzzleAlreadySolved is returned for moves after the puzzle is solved.
	ErrPuzzleAlreadySolved = errors.New("puzzle already solved")
	// ErrInvalidStart is returned when the start location holds no tile.
	ErrInvalidStart = errors.New("start location is not an occupied cell")
)

// MoveResult reports a successful move.
type MoveResult struct {
	Outcome Outcome
	From    Location
	To      Location
	Visits  int // visit count of the destination after the move
	Moves   int // successful moves since the last reset
	Solved  bool
}

// Engine owns the token and visit counts for one puzzle attempt.
// The topology is shared read-only; the engine never mutates it.
type Engine struct {
	topo     *Topology
	start    Location
	token    Location
	visits   []map[world.TileID]int
	moves    int
	state    State
	listener Listener
	tracer   trace.Tracer

	moveCount  metric.Int64Counter
	blocked    metric.Int64Counter
	teleports  metric.Int64Counter
	solveCount metric.Int64Counter
}

// NewEngine validates the topology and start, then places the token on
// start with a visit count of one.
func NewEngine(topo *Topology, start Location) (*Engine, error) {
	if topo == nil {
		return nil, ErrNoGrids
	}
	if err := topo.Validate(); err != nil {
		return nil, err
	}
	if !topo.Contains(start) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStart, start)
	}

	e := &Engine{
		topo:       topo,
		start:      start,
		listener:   NopListener{},
		tracer:     telemetry.Tracer("puzzle"),
		moveCount:  telemetry.Counter("puzzle", "shapetrail.puzzle.moves", "Successful token moves"),
		blocked:    telemetry.Counter("puzzle", "shapetrail.puzzle.blocked", "Moves rejected as blocked"),
		teleports:  telemetry.Counter("puzzle", "shapetrail.puzzle.teleports", "Moves that crossed a portal"),
		solveCount: telemetry.Counter("puzzle", "shapetrail.puzzle.solved", "Puzzles solved"),
	}
	e.resetState()
	return e, nil
}

// SetListener registers the presentation listener. A nil listener disables
// notifications.
func (e *Engine) SetListener(l Listener) {
	if l == nil {
		l = NopListener{}
	}
	e.listener = l
}

// resetState zeroes every count, puts the token on start, and visits it.
func (e *Engine) resetState() {
	e.visits = make([]map[world.TileID]int, len(e.topo.Grids))
	for i, g := range e.topo.Grids {
		counts := make(map[world.TileID]int, g.Len())
		for _, id := range g.IDs() {
			counts[id] = 0
		}
		e.visits[i] = counts
	}
	e.moves = 0
	e.state = StatePlaying
	e.token = e.start
	e.visit(e.start)
	// A single-tile puzzle is solved by the initial placement.
	if e.allVisited() {
		e.state = StateSolved
	}
}

// visit increments the count of the tile at loc and returns the new count.
func (e *Engine) visit(loc Location) int {
	t, _ := e.topo.Grid(loc.Grid).TileAt(loc.Pos)
	e.visits[loc.Grid][t.ID]++
	return e.visits[loc.Grid][t.ID]
}

func (e *Engine) allVisited() bool {
	for _, counts := range e.visits {
		for _, n := range counts {
			if n == 0 {
				return false
			}
		}
	}
	return true
}

// Move tries to move the token one step in dir. A step to an occupied
// neighbor in the current grid takes precedence over a portal exit.
// Rejected moves leave the token and all counts unchanged.
func (e *Engine) Move(ctx context.Context, dir world.Direction) (MoveResult, error) {
	_, span := e.tracer.Start(ctx, "puzzle.move")
	defer span.End()
	span.SetAttributes(attribute.String("direction", dir.String()))

	if e.state == StateSolved {
		return MoveResult{}, ErrPuzzleAlreadySolved
	}

	from := e.token
	if !dir.Valid() {
		return MoveResult{}, e.block(ctx, span, from, dir)
	}

	outcome := Stepped
	target := Location{Grid: from.Grid, Pos: from.Pos.Step(dir)}
	if !e.topo.Grid(from.Grid).Occupied(target.Pos) {
		to, ok := e.topo.Portals.Lookup(from, dir)
		if !ok || !e.topo.Contains(to) {
			return MoveResult{}, e.block(ctx, span, from, dir)
		}
		target = to
		outcome = Teleported
	}

	e.token = target
	e.moves++
	visits := e.visit(target)
	if e.allVisited() {
		e.state = StateSolved
	}

	res := MoveResult{
		Outcome: outcome,
		From:    from,
		To:      target,
		Visits:  visits,
		Moves:   e.moves,
		Solved:  e.state == StateSolved,
	}

	span.SetAttributes(
		attribute.String("outcome", outcome.String()),
		attribute.Int("token.grid", int(target.Grid)),
		attribute.Int("token.x", target.Pos.X),
		attribute.Int("token.y", target.Pos.Y),
		attribute.Int("visits", visits),
		attribute.Int("moves", e.moves),
	)
	e.moveCount.Add(ctx, 1)
	if outcome == Teleported {
		e.teleports.Add(ctx, 1)
	}

	e.listener.TokenMoved(res)
	if res.Solved {
		e.solveCount.Add(ctx, 1)
		span.SetAttributes(attribute.Bool("solved", true))
		ctxlog.FromContext(ctx).Info("puzzle solved", "moves", e.moves, "tiles", e.topo.TileCount())
		e.listener.PuzzleSolved(e.moves)
	}
	return res, nil
}

// block records a rejected move and returns the error to report.
func (e *Engine) block(ctx context.Context, span trace.Span, from Location, dir world.Direction) error {
	span.SetAttributes(attribute.Bool("blocked", true))
	e.blocked.Add(ctx, 1)
	ctxlog.FromContext(ctx).Debug("move blocked", "from", from.String(), "direction", dir.String())
	e.listener.MoveBlocked(from, dir)
	return fmt.Errorf("%w: %s %s", ErrBlockedMove, from, dir)
}

// Reset restores the initial traversal state. The topology is untouched.
func (e *Engine) Reset(ctx context.Context) {
	_, span := e.tracer.Start(ctx, "puzzle.reset")
	defer span.End()
	span.SetAttributes(attribute.Int("moves", e.moves))

	e.resetState()
	e.listener.PuzzleReset(e.start)
}

// Token returns the token's current location.
func (e *Engine) Token() Location {
	return e.token
}

// Start returns the configured start location.
func (e *Engine) Start() Location {
	return e.start
}

// Topology returns the playing field.
func (e *Engine) Topology() *Topology {
	return e.topo
}

// Visits returns the visit count of a tile in a grid.
func (e *Engine) Visits(grid GridID, id world.TileID) int {
	if grid < 0 || int(grid) >= len(e.visits) {
		return 0
	}
	return e.visits[grid][id]
}

// VisitsAt returns the visit count of the tile at loc, or zero for an
// empty cell.
func (e *Engine) VisitsAt(loc Location) int {
	g := e.topo.Grid(loc.Grid)
	if g == nil {
		return 0
	}
	t, ok := g.TileAt(loc.Pos)
	if !ok {
		return 0
	}
	return e.visits[loc.Grid][t.ID]
}

// Heat returns a copy of every visit count, indexed by grid.
func (e *Engine) Heat() []map[world.TileID]int {
	out := make([]map[world.TileID]int, len(e.visits))
	for i, counts := range e.visits {
		out[i] = maps.Clone(counts)
	}
	return out
}

// Unvisited returns how many tiles still have a zero count.
func (e *Engine) Unvisited() int {
	n := 0
	for _, counts := range e.visits {
		for _, v := range counts {
			if v == 0 {
				n++
			}
		}
	}
	return n
}

// Moves returns the number of successful moves since the last reset.
func (e *Engine) Moves() int {
	return e.moves
}

// State returns the current traversal state.
func (e *Engine) State() State {
	return e.state
}

// Solved reports whether every tile has been visited.
func (e *Engine) Solved() bool {
	return e.state == StateSolved
}
