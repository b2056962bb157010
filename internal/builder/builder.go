// Package builder grows a connected tile graph one cardinal step at a time
// from a cursor tile, enforcing edge compatibility and supporting LIFO undo.
package builder

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/samdwyer/shapetrail/internal/ctxlog"
	"github.com/samdwyer/shapetrail/internal/telemetry"
	"github.com/samdwyer/shapetrail/internal/world"
)

var (
	// ErrIncompatibleEdge is returned when the shared edge would put a
	// hypotenuse against another edge.
	ErrIncompatibleEdge = errors.New("incompatible edge")
	// ErrCannotUndoRoot is returned when undo would remove the only tile.
	ErrCannotUndoRoot = errors.New("cannot undo the first tile")
	// ErrNoCursor is returned by cursor-relative operations on an empty graph.
	ErrNoCursor = errors.New("no tile placed yet")
	// ErrAlreadyStarted is returned by PlaceFirst when tiles already exist.
	ErrAlreadyStarted = errors.New("first tile already placed")
	// ErrInvalidDirection is returned for a direction outside the four cardinals.
	ErrInvalidDirection = errors.New("invalid direction")
)

// EdgeMismatchError describes a rejected placement. It matches
// ErrIncompatibleEdge under errors.Is.
type EdgeMismatchError struct {
	Anchor          world.Tile
	Pending         PendingTile
	Dir             world.Direction
	AnchorStraight  bool
	PendingStraight bool
}

func (e *EdgeMismatchError) Error() string {
	return fmt.Sprintf("%s: %s edge %s is %s, %s(rot:%d) edge %s is %s",
		ErrIncompatibleEdge,
		e.Anchor, e.Dir, edgeName(e.AnchorStraight),
		e.Pending.Kind, e.Pending.Rotation, e.Dir.Opposite(), edgeName(e.PendingStraight))
}

// Is reports whether target is ErrIncompatibleEdge.
func (e *EdgeMismatchError) Is(target error) bool {
	return target == ErrIncompatibleEdge
}

func edgeName(straight bool) string {
	if straight {
		return "straight"
	}
	return "hypotenuse"
}

// Outcome is the non-error result of a placement request.
type Outcome int

const (
	// Placed means a new tile was inserted and became the cursor.
	Placed Outcome = iota
	// MovedToExisting means the target cell was occupied and the cursor
	// moved onto that tile without inserting anything.
	MovedToExisting
)

// String returns a human-readable outcome name.
func (o Outcome) String() string {
	switch o {
	case Placed:
		return "placed"
	case MovedToExisting:
		return "moved_to_existing"
	default:
		return "unknown"
	}
}

// Result reports what a placement request did. Tile is the new cursor.
type Result struct {
	Outcome Outcome
	Tile    world.Tile
}

// PendingTile is the shape that the next placement will insert.
type PendingTile struct {
	Kind     world.ShapeKind
	Rotation world.Rotation
	Color    world.Color
}

// NewPendingTile creates an unrotated pending tile.
func NewPendingTile(kind world.ShapeKind, color world.Color) PendingTile {
	return PendingTile{Kind: kind, Color: color}
}

// Rotate returns the descriptor turned by 90 degrees, wrapping at 360.
func (p PendingTile) Rotate() PendingTile {
	p.Rotation = p.Rotation.Next()
	return p
}

// placement is one entry of the linear placement history.
type placement struct {
	id     world.TileID
	anchor world.TileID // cursor before the placement; zero for the root
}

// Builder owns a graph under construction.
// It is a single-threaded state machine: callers must not share it
// between goroutines without their own synchronization.
type Builder struct {
	graph    *world.Graph
	cursor   world.TileID
	history  []placement
	listener Listener
	tracer   trace.Tracer

	placements metric.Int64Counter
	rejections metric.Int64Counter
	undos      metric.Int64Counter
}

// New creates a builder with an empty graph.
func New() *Builder {
	return &Builder{
		graph:      world.NewGraph(),
		history:    make([]placement, 0),
		listener:   NopListener{},
		tracer:     telemetry.Tracer("builder"),
		placements: telemetry.Counter("builder", "shapetrail.builder.placements", "Tiles placed by the builder"),
		rejections: telemetry.Counter("builder", "shapetrail.builder.rejections", "Placements rejected for incompatible edges"),
		undos:      telemetry.Counter("builder", "shapetrail.builder.undos", "Placements undone"),
	}
}

// SetListener registers the presentation listener. A nil listener disables
// notifications.
func (b *Builder) SetListener(l Listener) {
	if l == nil {
		l = NopListener{}
	}
	b.listener = l
}

// Graph returns the graph under construction. Callers must treat it as
// read-only.
func (b *Builder) Graph() *world.Graph {
	return b.graph
}

// Len returns the number of placed tiles.
func (b *Builder) Len() int {
	return b.graph.Len()
}

// Empty reports whether no tile has been placed.
func (b *Builder) Empty() bool {
	return b.graph.Len() == 0
}

// Cursor returns the anchor tile for the next placement.
func (b *Builder) Cursor() (world.Tile, bool) {
	if b.cursor == 0 {
		return world.Tile{}, false
	}
	return b.graph.Tile(b.cursor)
}

// History returns tile ids in placement order.
func (b *Builder) History() []world.TileID {
	ids := make([]world.TileID, len(b.history))
	for i, p := range b.history {
		ids[i] = p.id
	}
	return ids
}

// Tiles returns the placed tiles in placement order.
func (b *Builder) Tiles() []world.Tile {
	out := make([]world.Tile, 0, len(b.history))
	for _, p := range b.history {
		if t, ok := b.graph.Tile(p.id); ok {
			out = append(out, t)
		}
	}
	return out
}

// PlaceFirst inserts the root tile. It is only valid on an empty graph.
func (b *Builder) PlaceFirst(ctx context.Context, pos world.Point, pending PendingTile) (Result, error) {
	_, span := b.tracer.Start(ctx, "builder.place_first")
	defer span.End()

	if !b.Empty() {
		return Result{}, ErrAlreadyStarted
	}

	t, err := b.graph.Insert(pending.Kind, pending.Rotation, pos, pending.Color)
	if err != nil {
		return Result{}, err
	}
	b.history = append(b.history, placement{id: t.ID})
	b.cursor = t.ID

	span.SetAttributes(
		attribute.String("tile.kind", t.Kind.String()),
		attribute.Int("tile.x", t.Pos.X),
		attribute.Int("tile.y", t.Pos.Y),
	)
	b.placements.Add(ctx, 1)
	ctxlog.FromContext(ctx).Debug("first tile placed", "tile", t.String())

	b.listener.TilePlaced(t)
	return Result{Outcome: Placed, Tile: t}, nil
}

// PlaceAdjacent places pending one step from the cursor in direction dir.
// If that cell is already occupied the cursor moves there instead and
// nothing is inserted. A rejected placement leaves graph and cursor as
// they were.
func (b *Builder) PlaceAdjacent(ctx context.Context, dir world.Direction, pending PendingTile) (Result, error) {
	_, span := b.tracer.Start(ctx, "builder.place")
	defer span.End()
	span.SetAttributes(attribute.String("direction", dir.String()))

	if !dir.Valid() {
		return Result{}, fmt.Errorf("%w: %d", ErrInvalidDirection, dir)
	}
	anchor, ok := b.Cursor()
	if !ok {
		return Result{}, ErrNoCursor
	}

	target := anchor.Pos.Step(dir)
	if existing, ok := b.graph.TileAt(target); ok {
		b.cursor = existing.ID
		span.SetAttributes(attribute.String("outcome", MovedToExisting.String()))
		b.listener.CursorMoved(existing)
		return Result{Outcome: MovedToExisting, Tile: existing}, nil
	}

	if !world.Compatible(anchor.Kind, anchor.Rotation, pending.Kind, pending.Rotation, dir) {
		err := &EdgeMismatchError{
			Anchor:          anchor,
			Pending:         pending,
			Dir:             dir,
			AnchorStraight:  world.IsEdgeStraight(anchor.Kind, anchor.Rotation, dir),
			PendingStraight: world.IsEdgeStraight(pending.Kind, pending.Rotation, dir.Opposite()),
		}
		span.SetAttributes(attribute.Bool("rejected", true))
		b.rejections.Add(ctx, 1)
		ctxlog.FromContext(ctx).Debug("placement rejected", "target", target.String(), "error", err)
		b.listener.PlacementRejected(target, err)
		return Result{}, err
	}

	t, err := b.graph.Insert(pending.Kind, pending.Rotation, target, pending.Color)
	if err != nil {
		return Result{}, err
	}
	b.history = append(b.history, placement{id: t.ID, anchor: anchor.ID})
	b.cursor = t.ID

	span.SetAttributes(
		attribute.String("outcome", Placed.String()),
		attribute.String("tile.kind", t.Kind.String()),
		attribute.Int("graph.tiles", b.graph.Len()),
	)
	b.placements.Add(ctx, 1)
	b.listener.TilePlaced(t)
	return Result{Outcome: Placed, Tile: t}, nil
}

// Undo removes the most recently placed tile and restores the cursor to
// the tile it was placed from. After a move onto an existing tile that
// anchor can differ from the previously placed tile. The root tile cannot
// be undone; use Clear.
func (b *Builder) Undo(ctx context.Context) (world.Tile, error) {
	_, span := b.tracer.Start(ctx, "builder.undo")
	defer span.End()

	switch len(b.history) {
	case 0:
		return world.Tile{}, ErrNoCursor
	case 1:
		return world.Tile{}, ErrCannotUndoRoot
	}

	last := b.history[len(b.history)-1]
	removed, err := b.graph.Remove(last.id)
	if err != nil {
		return world.Tile{}, err
	}
	b.history = b.history[:len(b.history)-1]
	b.cursor = last.anchor

	span.SetAttributes(attribute.Int("graph.tiles", b.graph.Len()))
	b.undos.Add(ctx, 1)

	b.listener.TileRemoved(removed)
	if cur, ok := b.Cursor(); ok {
		b.listener.CursorMoved(cur)
	}
	return removed, nil
}

// Clear empties the graph, cursor and history.
func (b *Builder) Clear(ctx context.Context) {
	_, span := b.tracer.Start(ctx, "builder.clear")
	defer span.End()
	span.SetAttributes(attribute.Int("graph.tiles", b.graph.Len()))

	b.graph = world.NewGraph()
	b.cursor = 0
	b.history = b.history[:0]
	b.listener.Cleared()
}

// Rotate returns pending turned by 90 degrees. It never touches the graph.
func (b *Builder) Rotate(pending PendingTile) PendingTile {
	return pending.Rotate()
}
