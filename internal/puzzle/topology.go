package puzzle

import (
	"errors"
	"fmt"
	"slices"

	"github.com/samdwyer/shapetrail/internal/world"
)

var (
	// ErrPortalConflict is returned when a cell and direction are bound twice.
	ErrPortalConflict = errors.New("portal exit already bound")
	// ErrPortalEndpoint is returned when a portal touches an empty cell or a
	// grid that does not exist.
	ErrPortalEndpoint = errors.New("portal endpoint is not an occupied cell")
	// ErrNoGrids is returned for a topology without any tiles.
	ErrNoGrids = errors.New("topology has no grids")
)

// GridID indexes a grid within a Topology.
type GridID int

// Location is a cell within a specific grid.
type Location struct {
	Grid GridID
	Pos  world.Point
}

// String formats the location as "g0(1,0)".
func (l Location) String() string {
	return fmt.Sprintf("g%d%s", l.Grid, l.Pos)
}

// Portal binds leaving From in one of Exits to arriving at To.
type Portal struct {
	From  Location
	Exits []world.Direction
	To    Location
}

type portalKey struct {
	from Location
	dir  world.Direction
}

// PortalTable maps (cell, exit direction) to a destination cell.
// Portals are only usable from the exact cells they are bound to.
type PortalTable struct {
	bindings map[portalKey]Location
	portals  []Portal
}

// NewPortalTable creates an empty table.
func NewPortalTable() *PortalTable {
	return &PortalTable{bindings: make(map[portalKey]Location)}
}

// Bind adds a one-way portal. Each (cell, direction) may map to exactly one
// destination.
func (pt *PortalTable) Bind(p Portal) error {
	for _, d := range p.Exits {
		if _, ok := pt.bindings[portalKey{p.From, d}]; ok {
			return fmt.Errorf("bind %s %s: %w", p.From, d, ErrPortalConflict)
		}
	}
	for _, d := range p.Exits {
		pt.bindings[portalKey{p.From, d}] = p.To
	}
	p.Exits = slices.Clone(p.Exits)
	pt.portals = append(pt.portals, p)
	return nil
}

// BindPair adds a bidirectional portal between a and b.
func (pt *PortalTable) BindPair(a Location, aExits []world.Direction, b Location, bExits []world.Direction) error {
	if err := pt.Bind(Portal{From: a, Exits: aExits, To: b}); err != nil {
		return err
	}
	return pt.Bind(Portal{From: b, Exits: bExits, To: a})
}

// Lookup returns the destination for leaving from in direction dir.
func (pt *PortalTable) Lookup(from Location, dir world.Direction) (Location, bool) {
	if pt == nil {
		return Location{}, false
	}
	to, ok := pt.bindings[portalKey{from, dir}]
	return to, ok
}

// Portals returns the bound portals in insertion order.
func (pt *PortalTable) Portals() []Portal {
	if pt == nil {
		return nil
	}
	return slices.Clone(pt.portals)
}

// IsPortalCell reports whether loc is the source of any portal.
func (pt *PortalTable) IsPortalCell(loc Location) bool {
	if pt == nil {
		return false
	}
	for _, p := range pt.portals {
		if p.From == loc {
			return true
		}
	}
	return false
}

// Topology is the read-only playing field handed to an Engine: one or more
// grids plus the portals that stitch them together.
type Topology struct {
	Grids   []*world.Graph
	Portals *PortalTable
}

// NewTopology wraps grids with an empty portal table.
func NewTopology(grids ...*world.Graph) *Topology {
	return &Topology{Grids: grids, Portals: NewPortalTable()}
}

// Contains reports whether loc names an occupied cell.
func (t *Topology) Contains(loc Location) bool {
	g := t.Grid(loc.Grid)
	return g != nil && g.Occupied(loc.Pos)
}

// Grid returns the grid with the given id, or nil.
func (t *Topology) Grid(id GridID) *world.Graph {
	if id < 0 || int(id) >= len(t.Grids) {
		return nil
	}
	return t.Grids[id]
}

// TileCount returns the number of tiles across all grids.
func (t *Topology) TileCount() int {
	n := 0
	for _, g := range t.Grids {
		n += g.Len()
	}
	return n
}

// Validate checks that there is at least one tile and every portal
// endpoint is an occupied cell.
func (t *Topology) Validate() error {
	if t.TileCount() == 0 {
		return ErrNoGrids
	}
	for _, p := range t.Portals.Portals() {
		if !t.Contains(p.From) {
			return fmt.Errorf("portal from %s: %w", p.From, ErrPortalEndpoint)
		}
		if !t.Contains(p.To) {
			return fmt.Errorf("portal to %s: %w", p.To, ErrPortalEndpoint)
		}
	}
	return nil
}
