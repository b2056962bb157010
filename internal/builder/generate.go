package builder

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/shapetrail/internal/world"
)

// attemptsPerTile bounds how many random steps Generate tries per tile
// before giving up on reaching the requested size.
const attemptsPerTile = 50

var shapeKinds = []world.ShapeKind{world.Square, world.Triangle, world.RightTriangle}

// Generate grows the graph by a seeded random walk until it holds count
// tiles. Each step picks a random shape, rotation and direction and goes
// through PlaceAdjacent, so every generated graph obeys the same edge
// rules as an authored one. An empty builder gets a square root at the
// origin. It returns the number of tiles in the graph afterwards.
func (b *Builder) Generate(ctx context.Context, rng *rand.Rand, count int, color world.Color) (int, error) {
	ctx, span := b.tracer.Start(ctx, "builder.generate")
	defer span.End()

	startTime := time.Now()

	if b.Empty() && count > 0 {
		if _, err := b.PlaceFirst(ctx, world.Point{}, NewPendingTile(world.Square, color)); err != nil {
			return 0, err
		}
	}

	attempts := 0
	rejected := 0
	for b.Len() < count && attempts < count*attemptsPerTile {
		attempts++
		pending := PendingTile{
			Kind:     shapeKinds[rng.Intn(len(shapeKinds))],
			Rotation: world.Rotation(rng.Intn(4) * 90),
			Color:    color,
		}
		dir := world.AllDirections[rng.Intn(len(world.AllDirections))]

		_, err := b.PlaceAdjacent(ctx, dir, pending)
		if errors.Is(err, ErrIncompatibleEdge) {
			rejected++
			continue
		}
		if err != nil {
			return b.Len(), err
		}
	}

	span.SetAttributes(
		attribute.Int("generate.requested", count),
		attribute.Int("generate.tiles", b.Len()),
		attribute.Int("generate.attempts", attempts),
		attribute.Int("generate.rejected", rejected),
		attribute.Int64("generate.ms", time.Since(startTime).Milliseconds()),
	)
	return b.Len(), nil
}
