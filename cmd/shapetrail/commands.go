package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/samdwyer/shapetrail/internal/game"
	"github.com/samdwyer/shapetrail/internal/level"
	"github.com/samdwyer/shapetrail/internal/puzzle"
	"github.com/samdwyer/shapetrail/internal/ui"
	"github.com/samdwyer/shapetrail/internal/world"
)

var version = "0.1.0"

var (
	configPath string
	logLevel   string
	current    *app

	buildName string
	buildSeed int64

	rootCmd = &cobra.Command{
		Use:           "shapetrail",
		Short:         "Build tile paths and solve them by visiting every tile",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			a, err := newApp(cmd.Context(), configPath, logLevel)
			if err != nil {
				return err
			}
			current = a
			cmd.SetContext(a.context(cmd.Context()))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if current != nil {
				current.close(context.Background())
			}
		},
	}

	buildCmd = &cobra.Command{
		Use:   "build",
		Short: "Build a new level in the terminal editor",
		Args:  cobra.NoArgs,
		RunE:  runBuild,
	}

	playCmd = &cobra.Command{
		Use:   "play <level-id-or-name>",
		Short: "Play a bundled or saved level",
		Args:  cobra.ExactArgs(1),
		RunE:  runPlay,
	}

	portalCmd = &cobra.Command{
		Use:   "portal",
		Short: "Play the two-grid teleport level",
		Args:  cobra.NoArgs,
		RunE:  runPortal,
	}

	levelsCmd = &cobra.Command{
		Use:   "levels",
		Short: "Manage saved levels",
	}
	levelsListCmd = &cobra.Command{
		Use:   "list",
		Short: "List bundled and saved levels",
		Args:  cobra.NoArgs,
		RunE:  runLevelsList,
	}
	levelsShowCmd = &cobra.Command{
		Use:   "show <level-id-or-name>",
		Short: "Print a level's layout",
		Args:  cobra.ExactArgs(1),
		RunE:  runLevelsShow,
	}
	levelsDeleteCmd = &cobra.Command{
		Use:   "delete <level-id>",
		Short: "Delete a saved level",
		Args:  cobra.ExactArgs(1),
		RunE:  runLevelsDelete,
	}
	levelsWatchCmd = &cobra.Command{
		Use:   "watch",
		Short: "Reprint the level list whenever the levels directory changes",
		Args:  cobra.NoArgs,
		RunE:  runLevelsWatch,
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "shapetrail", version)
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "settings file (default $HOME/.shapetrail/shapetrail.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override the log level (debug, info, warn, error)")

	buildCmd.Flags().StringVar(&buildName, "name", "Untitled", "name for saved levels")
	buildCmd.Flags().Int64Var(&buildSeed, "seed", 0, "seed for the generate command (0 picks one)")

	levelsCmd.AddCommand(levelsListCmd, levelsShowCmd, levelsDeleteCmd, levelsWatchCmd)
	rootCmd.AddCommand(buildCmd, playCmd, portalCmd, levelsCmd, versionCmd)
}

func gameConfig() game.Config {
	return game.Config{
		Seed:      buildSeed,
		LevelName: buildName,
		CellSize:  current.cfg.CellSize,
	}
}

// runSession runs g on a fresh terminal screen.
func runSession(ctx context.Context, g *game.Game) error {
	screen, err := ui.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to initialize screen: %w", err)
	}
	defer screen.Close()
	return g.Run(ctx, screen)
}

func runBuild(cmd *cobra.Command, args []string) error {
	store, err := current.levelStore()
	if err != nil {
		return err
	}
	return runSession(cmd.Context(), game.NewBuilder(gameConfig(), store))
}

func runPlay(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	reg, err := current.registry(ctx)
	if err != nil {
		return err
	}
	l, err := reg.Find(args[0])
	if err != nil {
		return err
	}

	graph, start, err := level.Ingest(l, current.cfg.CellSize)
	if err != nil {
		return err
	}
	if !graph.IsConnected() {
		current.logger.Warn("level is not connected; it cannot be solved", "level", l.LevelName)
	}

	topo := puzzle.NewTopology(graph)
	g, err := game.NewPlayer(gameConfig(), topo, puzzle.Location{Pos: start}, l.LevelName)
	if err != nil {
		return err
	}
	return runSession(ctx, g)
}

func runPortal(cmd *cobra.Command, args []string) error {
	topo, start, err := puzzle.TeleportLevel()
	if err != nil {
		return err
	}
	g, err := game.NewPlayer(gameConfig(), topo, start, "Teleport")
	if err != nil {
		return err
	}
	return runSession(cmd.Context(), g)
}

func runLevelsList(cmd *cobra.Command, args []string) error {
	return printLevels(cmd.Context(), cmd.OutOrStdout())
}

func printLevels(ctx context.Context, out io.Writer) error {
	bundled, err := level.LoadBundled()
	if err != nil {
		return err
	}
	s, err := current.levelStore()
	if err != nil {
		return err
	}
	saved, err := s.List(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTILES\tSOURCE\tID")
	for _, l := range bundled {
		fmt.Fprintf(tw, "%s\t%d\tbundled\t%s\n", l.LevelName, len(l.Shapes), l.ID)
	}
	for _, sum := range saved {
		fmt.Fprintf(tw, "%s\t%d\tsaved\t%s\n", sum.Name, sum.Tiles, sum.ID)
	}
	return tw.Flush()
}

func runLevelsShow(cmd *cobra.Command, args []string) error {
	reg, err := current.registry(cmd.Context())
	if err != nil {
		return err
	}
	l, err := reg.Find(args[0])
	if err != nil {
		return err
	}
	graph, start, err := level.Ingest(l, current.cfg.CellSize)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s  (%s)\n", l.LevelName, l.ID)
	fmt.Fprintf(out, "tiles: %d  connected: %t  start: %s\n\n", graph.Len(), graph.IsConnected(), start)
	fmt.Fprint(out, layout(graph, start))
	return nil
}

// layout draws the graph as text, top row first, marking the start with @.
func layout(g *world.Graph, start world.Point) string {
	b, ok := g.Bounds()
	if !ok {
		return ""
	}
	var sb strings.Builder
	for y := b.Max.Y; y >= b.Min.Y; y-- {
		for x := b.Min.X; x <= b.Max.X; x++ {
			p := world.Point{X: x, Y: y}
			t, ok := g.TileAt(p)
			switch {
			case !ok:
				sb.WriteString("  ")
			case p == start:
				sb.WriteString("@ ")
			default:
				sb.WriteRune(ui.Glyph(t.Kind, t.Rotation))
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func runLevelsDelete(cmd *cobra.Command, args []string) error {
	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid level id %q: %w", args[0], err)
	}
	s, err := current.levelStore()
	if err != nil {
		return err
	}
	if err := s.Delete(cmd.Context(), id); err != nil {
		if errors.Is(err, level.ErrNotFound) {
			return fmt.Errorf("no saved level with id %s (bundled levels cannot be deleted)", id)
		}
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "deleted", id)
	return nil
}

func runLevelsWatch(cmd *cobra.Command, args []string) error {
	s, err := current.levelStore()
	if err != nil {
		return err
	}
	fstore, ok := s.(*level.FileStore)
	if !ok {
		return errors.New("watch needs the file store")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	out := cmd.OutOrStdout()
	if err := printLevels(ctx, out); err != nil {
		return err
	}
	changed := make(chan struct{}, 1)
	err = fstore.Watch(ctx, func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\nwatching %s (ctrl-c to stop)\n", fstore.Dir())

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-changed:
			fmt.Fprintln(out)
			if err := printLevels(ctx, out); err != nil {
				return err
			}
		}
	}
}
