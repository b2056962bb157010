package builder

import "github.com/samdwyer/shapetrail/internal/world"

// Listener receives notifications after builder state changes commit.
// Implementations must not call back into the builder.
type Listener interface {
	TilePlaced(t world.Tile)
	TileRemoved(t world.Tile)
	CursorMoved(t world.Tile)
	PlacementRejected(at world.Point, err error)
	Cleared()
}

// NopListener ignores every notification.
type NopListener struct{}

func (NopListener) TilePlaced(world.Tile)                {}
func (NopListener) TileRemoved(world.Tile)               {}
func (NopListener) CursorMoved(world.Tile)               {}
func (NopListener) PlacementRejected(world.Point, error) {}
func (NopListener) Cleared()                             {}
