package ui

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/shapetrail/internal/world"
)

func TestHeatColorEndpoints(t *testing.T) {
	if got := HeatColor(0); got != heatStops[0] {
		t.Errorf("HeatColor(0) = %v, want %v", got, heatStops[0])
	}
	hottest := heatStops[len(heatStops)-1]
	for _, v := range []int{MaxHeat, MaxHeat + 1, 100} {
		if got := HeatColor(v); got != hottest {
			t.Errorf("HeatColor(%d) = %v, want %v", v, got, hottest)
		}
	}
	if got := HeatColor(-3); got != heatStops[0] {
		t.Errorf("HeatColor(-3) = %v, want %v", got, heatStops[0])
	}
}

func TestHeatColorStepsAreDistinct(t *testing.T) {
	for v := 0; v < MaxHeat; v++ {
		a, b := HeatColor(v), HeatColor(v+1)
		if a.AlmostEqualRgb(b) {
			t.Errorf("HeatColor(%d) and HeatColor(%d) are indistinguishable: %v", v, v+1, a)
		}
	}
}

func TestGlyph(t *testing.T) {
	tests := []struct {
		kind world.ShapeKind
		rot  world.Rotation
		want rune
	}{
		{world.Square, 90, '■'},
		{world.Triangle, 0, '▲'},
		{world.RightTriangle, 0, '◣'},
		{world.RightTriangle, 90, '◢'},
		{world.RightTriangle, 180, '◥'},
		{world.RightTriangle, 270, '◤'},
	}
	for _, tt := range tests {
		if got := Glyph(tt.kind, tt.rot); got != tt.want {
			t.Errorf("Glyph(%v, %d) = %q, want %q", tt.kind, tt.rot, got, tt.want)
		}
	}
}

func smallGraph(t *testing.T) *world.Graph {
	t.Helper()
	g := world.NewGraph()
	for _, p := range []world.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}} {
		if _, err := g.Insert(world.Square, 0, p, world.White); err != nil {
			t.Fatalf("Insert(%v) error = %v", p, err)
		}
	}
	return g
}

func TestViewportFitsWholeGraph(t *testing.T) {
	p := Panel{Graph: smallGraph(t)}
	got := Viewport(p, 20, 20)
	want := world.Bounds{Min: world.Point{X: -1, Y: -1}, Max: world.Point{X: 2, Y: 2}}
	if got != want {
		t.Errorf("Viewport() = %v, want %v", got, want)
	}
}

func TestViewportFollowsFocus(t *testing.T) {
	g := world.NewGraph()
	for x := 0; x < 40; x++ {
		if _, err := g.Insert(world.Square, 0, world.Point{X: x}, world.White); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}
	token := world.Point{X: 30}
	got := Viewport(Panel{Graph: g, Token: &token}, 10, 5)

	if got.Width() != 10 {
		t.Errorf("Width() = %d, want 10", got.Width())
	}
	if !got.Contains(token) {
		t.Errorf("Viewport() = %v does not contain token %v", got, token)
	}
	if got.Min.Y != -1 || got.Max.Y != 1 {
		t.Errorf("rows = %d..%d, want -1..1", got.Min.Y, got.Max.Y)
	}
}

func TestRenderDrawsTilesAndToken(t *testing.T) {
	sim := tcell.NewSimulationScreen("")
	screen, err := Wrap(sim)
	if err != nil {
		t.Fatalf("Wrap() error = %v", err)
	}
	defer screen.Close()
	sim.SetSize(40, 12)

	g := smallGraph(t)
	token := world.Point{X: 1, Y: 1}
	NewRenderer(screen).Render(Frame{
		Panels: []Panel{{Title: "grid", Graph: g, Heat: map[world.TileID]int{}, Token: &token}},
		Status: "MOVES: 0",
		Help:   "q quit",
	})

	// View spans x -1..2 and y -1..2; row 1 of the panel is y = 2.
	at := func(x, y int) rune {
		sx := (x + 1) * cellWidth
		sy := 1 + (2 - y)
		r, _, _, _ := sim.GetContent(sx, sy)
		return r
	}
	if got := at(0, 0); got != '■' {
		t.Errorf("cell (0,0) = %q, want '■'", got)
	}
	if got := at(1, 1); got != '@' {
		t.Errorf("cell (1,1) = %q, want '@'", got)
	}
	if got := at(0, 1); got != ' ' {
		t.Errorf("cell (0,1) = %q, want blank", got)
	}

	if r, _, _, _ := sim.GetContent(0, 10); r != 'M' {
		t.Errorf("status line starts with %q, want 'M'", r)
	}
}
