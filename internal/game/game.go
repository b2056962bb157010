package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/shapetrail/internal/builder"
	"github.com/samdwyer/shapetrail/internal/ctxlog"
	"github.com/samdwyer/shapetrail/internal/level"
	"github.com/samdwyer/shapetrail/internal/puzzle"
	"github.com/samdwyer/shapetrail/internal/telemetry"
	"github.com/samdwyer/shapetrail/internal/ui"
	"github.com/samdwyer/shapetrail/internal/world"
)

// Game holds the state of one interactive session.
type Game struct {
	screen   *ui.Screen
	renderer *ui.Renderer
	cfg      Config
	mode     Mode
	rng      *rand.Rand
	running  bool

	// Build mode. build is nil for play-only sessions.
	build    *builder.Builder
	pending  builder.PendingTile
	colorIdx int
	store    level.Store
	saved    *level.Level

	// Play mode.
	engine *puzzle.Engine
	title  string

	status string
	reject *puzzle.Location // flashed for one frame
}

// NewBuilder creates a build session. A nil store disables saving.
func NewBuilder(cfg Config, store level.Store) *Game {
	cfg = cfg.withDefaults()
	g := &Game{
		cfg:     cfg,
		mode:    ModeBuild,
		rng:     newRNG(cfg.Seed),
		build:   builder.New(),
		pending: builder.NewPendingTile(world.Square, cfg.Palette[0]),
		store:   store,
		title:   cfg.LevelName,
		status:  "press a direction to place the first tile",
	}
	g.build.SetListener(feedback{g})
	return g
}

// NewPlayer creates a play session over a fixed topology.
func NewPlayer(cfg Config, topo *puzzle.Topology, start puzzle.Location, title string) (*Game, error) {
	cfg = cfg.withDefaults()
	e, err := puzzle.NewEngine(topo, start)
	if err != nil {
		return nil, err
	}
	g := &Game{
		cfg:    cfg,
		mode:   ModePlay,
		rng:    newRNG(cfg.Seed),
		engine: e,
		title:  title,
		status: "visit every tile",
	}
	e.SetListener(feedback{g})
	return g, nil
}

func newRNG(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Mode returns the current session mode.
func (g *Game) Mode() Mode {
	return g.mode
}

// Status returns the latest feedback message.
func (g *Game) Status() string {
	return g.status
}

// Builder returns the build-mode builder, or nil for play-only sessions.
func (g *Game) Builder() *builder.Builder {
	return g.build
}

// Engine returns the active traversal engine, or nil outside play mode.
func (g *Game) Engine() *puzzle.Engine {
	return g.engine
}

// Pending returns the tile the next placement will insert.
func (g *Game) Pending() builder.PendingTile {
	return g.pending
}

// Running reports whether the session loop should continue.
func (g *Game) Running() bool {
	return g.running
}

// Run executes the main session loop on screen until the user quits or
// ctx is canceled. The caller owns the screen.
func (g *Game) Run(ctx context.Context, screen *ui.Screen) error {
	tracer := telemetry.Tracer("game")
	ctx, span := tracer.Start(ctx, "game.session")
	defer span.End()
	span.SetAttributes(
		attribute.String("mode", g.mode.String()),
		attribute.String("title", g.title),
	)

	g.screen = screen
	g.renderer = ui.NewRenderer(screen)
	g.running = true

	for g.running && ctx.Err() == nil {
		g.renderer.Render(g.Frame())
		g.reject = nil
		g.handleInput(ctx)
	}

	if g.build != nil {
		span.SetAttributes(attribute.Int("builder.tiles", g.build.Len()))
	}
	if g.engine != nil {
		span.SetAttributes(
			attribute.Int("puzzle.moves", g.engine.Moves()),
			attribute.Bool("puzzle.solved", g.engine.Solved()),
		)
	}
	return nil
}

// handleInput processes a single input event.
func (g *Game) handleInput(ctx context.Context) {
	ev := g.screen.PollEvent()

	switch ev := ev.(type) {
	case *tcell.EventKey:
		g.Apply(ctx, TranslateKey(ev, g.mode))
	case *tcell.EventResize:
		g.screen.Sync()
	}
}

// Apply executes one command. Rejections are reported through Status and
// never end the session.
func (g *Game) Apply(ctx context.Context, cmd Command) {
	if cmd == CmdNone {
		return
	}
	ctxlog.FromContext(ctx).Debug("command", "cmd", cmd.String(), "mode", g.mode.String())

	switch cmd {
	case CmdQuit:
		g.running = false
		return
	case CmdToggleMode:
		g.toggleMode(ctx)
		return
	}

	if g.mode == ModePlay {
		g.applyPlay(ctx, cmd)
		return
	}
	g.applyBuild(ctx, cmd)
}

func (g *Game) applyBuild(ctx context.Context, cmd Command) {
	if dir, ok := cmd.Direction(); ok {
		g.place(ctx, dir)
		return
	}

	switch cmd {
	case CmdRotate:
		g.pending = g.build.Rotate(g.pending)
		g.status = "next: " + describePending(g.pending)
	case CmdUndo:
		g.undo(ctx)
	case CmdClear:
		g.build.Clear(ctx)
		g.saved = nil
	case CmdSelectSquare:
		g.selectKind(world.Square)
	case CmdSelectTriangle:
		g.selectKind(world.Triangle)
	case CmdSelectRightTriangle:
		g.selectKind(world.RightTriangle)
	case CmdNextColor:
		g.colorIdx = (g.colorIdx + 1) % len(g.cfg.Palette)
		g.pending.Color = g.cfg.Palette[g.colorIdx]
		g.status = "color " + g.pending.Color.Hex()
	case CmdGenerate:
		g.generate(ctx)
	case CmdSave:
		g.save(ctx)
	}
}

func (g *Game) place(ctx context.Context, dir world.Direction) {
	var err error
	if g.build.Empty() {
		_, err = g.build.PlaceFirst(ctx, world.Point{}, g.pending)
	} else {
		_, err = g.build.PlaceAdjacent(ctx, dir, g.pending)
	}
	// Edge mismatches are reported by the listener.
	if err != nil && !errors.Is(err, builder.ErrIncompatibleEdge) {
		g.status = err.Error()
	}
}

func (g *Game) undo(ctx context.Context) {
	_, err := g.build.Undo(ctx)
	switch {
	case errors.Is(err, builder.ErrCannotUndoRoot):
		g.status = "cannot undo the first tile; press c to clear"
	case errors.Is(err, builder.ErrNoCursor):
		g.status = "nothing to undo"
	case err != nil:
		g.status = err.Error()
	}
}

func (g *Game) selectKind(kind world.ShapeKind) {
	g.pending.Kind = kind
	g.status = "next: " + describePending(g.pending)
}

func (g *Game) generate(ctx context.Context) {
	target := g.build.Len() + g.cfg.GenerateSize
	n, err := g.build.Generate(ctx, g.rng, target, g.cfg.Palette[0])
	if err != nil {
		g.status = err.Error()
		return
	}
	g.status = fmt.Sprintf("generated %d tiles", n)
}

func (g *Game) save(ctx context.Context) {
	if g.store == nil {
		g.status = "no level store configured"
		return
	}
	tiles := g.build.Tiles()
	if len(tiles) == 0 {
		g.status = "nothing to save"
		return
	}

	l, err := level.Egest(g.cfg.LevelName, tiles, level.StartTile(tiles), g.cfg.CellSize)
	if err != nil {
		g.status = err.Error()
		return
	}
	if g.saved != nil {
		l.ID = g.saved.ID
		l.CreatedAt = g.saved.CreatedAt
	}
	if err := g.store.Save(ctx, l); err != nil {
		g.status = "save failed: " + err.Error()
		return
	}
	g.saved = l
	g.status = fmt.Sprintf("saved %q (%d tiles)", l.LevelName, len(l.Shapes))
}

func (g *Game) applyPlay(ctx context.Context, cmd Command) {
	if dir, ok := cmd.Direction(); ok {
		_, err := g.engine.Move(ctx, dir)
		if errors.Is(err, puzzle.ErrPuzzleAlreadySolved) {
			g.status = fmt.Sprintf("solved in %d moves; press r to play again", g.engine.Moves())
		}
		return
	}
	if cmd == CmdReset {
		g.engine.Reset(ctx)
	}
}

// toggleMode switches between editing and test-playing the built graph.
// The playtest starts where a saved copy would. Play-only sessions have
// nothing to switch to.
func (g *Game) toggleMode(ctx context.Context) {
	if g.build == nil {
		return
	}

	if g.mode == ModePlay {
		g.mode = ModeBuild
		g.engine = nil
		g.status = "editing"
		return
	}

	tiles := g.build.Tiles()
	if len(tiles) == 0 {
		g.status = "place a tile before testing"
		return
	}
	topo := puzzle.NewTopology(g.build.Graph().Clone())
	e, err := puzzle.NewEngine(topo, puzzle.Location{Pos: level.StartTile(tiles)})
	if err != nil {
		g.status = err.Error()
		return
	}
	e.SetListener(feedback{g})
	g.engine = e
	g.mode = ModePlay
	g.status = "testing: visit every tile"
	ctxlog.FromContext(ctx).Debug("playtest started", "tiles", topo.TileCount())
}

// Frame describes the current state for the renderer.
func (g *Game) Frame() ui.Frame {
	if g.mode == ModePlay {
		return g.playFrame()
	}
	return g.buildFrame()
}

func (g *Game) buildFrame() ui.Frame {
	p := ui.Panel{
		Title: fmt.Sprintf("%s  [build]", g.title),
		Graph: g.build.Graph(),
	}
	if cur, ok := g.build.Cursor(); ok {
		pos := cur.Pos
		p.Cursor = &pos
	}
	if g.reject != nil {
		pos := g.reject.Pos
		p.Reject = &pos
	}

	status := fmt.Sprintf("TILES: %d  next: %s %s", g.build.Len(), describePending(g.pending), g.pending.Color.Hex())
	if g.status != "" {
		status += "  | " + g.status
	}
	return ui.Frame{
		Panels: []ui.Panel{p},
		Status: status,
		Help:   helpText(ModeBuild, true),
	}
}

func (g *Game) playFrame() ui.Frame {
	topo := g.engine.Topology()
	heat := g.engine.Heat()
	token := g.engine.Token()

	panels := make([]ui.Panel, len(topo.Grids))
	for i, grid := range topo.Grids {
		id := puzzle.GridID(i)
		p := ui.Panel{Graph: grid, Heat: heat[i]}
		p.Title = g.title
		if len(topo.Grids) > 1 {
			p.Title = fmt.Sprintf("%s  grid %d", g.title, i+1)
		}
		if token.Grid == id {
			pos := token.Pos
			p.Token = &pos
		}
		if g.reject != nil && g.reject.Grid == id {
			pos := g.reject.Pos
			p.Reject = &pos
		}
		for _, portal := range topo.Portals.Portals() {
			if portal.From.Grid == id {
				p.Portals = append(p.Portals, portal.From.Pos)
			}
		}
		panels[i] = p
	}

	status := fmt.Sprintf("MOVES: %d  unvisited: %d", g.engine.Moves(), g.engine.Unvisited())
	if g.status != "" {
		status += "  | " + g.status
	}
	return ui.Frame{
		Panels: panels,
		Status: status,
		Solved: g.engine.Solved(),
		Help:   helpText(ModePlay, g.build != nil),
	}
}

func describePending(p builder.PendingTile) string {
	return fmt.Sprintf("%c %s %d°", ui.Glyph(p.Kind, p.Rotation), p.Kind, p.Rotation)
}
