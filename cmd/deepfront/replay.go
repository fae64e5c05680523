package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/deepfront/internal/config"
	"github.com/vovakirdan/deepfront/internal/ground"
	"github.com/vovakirdan/deepfront/internal/render"
	"github.com/vovakirdan/deepfront/internal/replication"
	"github.com/vovakirdan/deepfront/internal/storage"
)

var (
	flagReplayPNG   string
	flagReplayScale float64
	flagReplayShow  bool
)

var replayCmd = &cobra.Command{
	Use:   "replay <match-id>",
	Short: "Rebuild a recorded match and verify it",
	Long: `Regenerate the terrain of a recorded match from its seed and the
ground config it was recorded with (--config is ignored), apply every
journaled dig and collect in order and check that each one removes exactly
the cells the original match reported.

Examples:
  deepfront replay watch-1712345678
  deepfront replay watch-1712345678 --show
  deepfront replay watch-1712345678 --png final.png`,
	Args: cobra.ExactArgs(1),
	Run:  runReplayCmd,
}

func init() {
	replayCmd.Flags().StringVar(&flagReplayPNG, "png", "", "Write the final terrain as a PNG")
	replayCmd.Flags().Float64Var(&flagReplayScale, "scale", 1, "PNG scale factor")
	replayCmd.Flags().BoolVar(&flagReplayShow, "show", false, "Print an ASCII preview of the final terrain")
}

func runReplayCmd(_ *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening match journal: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := runReplay(store, args[0]); err != nil {
		store.Close()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// replayResult is a rebuilt match.
type replayResult struct {
	Match  storage.MatchRecord
	Ground *ground.Ground
	Report replication.ReplayReport

	// Exact is false for journals recorded without their ground config.
	Exact bool
}

// rebuildMatch regenerates a recorded match from its journaled config and
// reapplies its deltas. base is only consulted for rows recorded without a
// config.
func rebuildMatch(store *storage.Store, matchID string, base func() config.GroundConfig, logger *log.Logger) (replayResult, error) {
	var res replayResult
	rec, err := store.Match(matchID)
	if err != nil {
		return res, err
	}
	if rec == nil {
		return res, fmt.Errorf("unknown match %q; run 'deepfront matches' to list recorded matches", matchID)
	}
	res.Match = *rec

	var cfg config.GroundConfig
	if rec.HasGround() {
		cfg, res.Exact = rec.Ground, true
	} else {
		cfg, res.Exact = rec.GroundConfig(base())
		logger.Warn("match recorded without its config; using the loaded one", "match", matchID)
	}

	res.Ground = ground.New(cfg, ground.WithLogger(logger))
	if err := res.Ground.Init(rec.Seed); err != nil {
		return res, err
	}

	deltas, err := store.Deltas(matchID)
	if err != nil {
		return res, err
	}
	data := make([]replication.DeltaData, len(deltas))
	for i, d := range deltas {
		data[i] = d.Data()
	}

	res.Report, err = replication.Replay(replication.NewReplica(res.Ground), data)
	return res, err
}

// runReplay rebuilds one match and prints the report.
func runReplay(store *storage.Store, matchID string) error {
	res, err := rebuildMatch(store, matchID, loadConfig, newLogger(os.Stderr))
	if err != nil {
		return err
	}
	rec, rep, g := res.Match, res.Report, res.Ground
	cfg := g.Config()

	fmt.Printf("Match:     %s\n", rec.MatchID)
	fmt.Printf("Seed:      %d\n", rec.Seed)
	fmt.Printf("Recorded:  %s\n", rec.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Printf("Deltas:    %d\n", rep.Deltas)
	fmt.Printf("Duration:  %.1fs (%d ticks)\n", float64(rep.Ticks)/float64(cfg.Vision.TickRate), rep.Ticks)
	fmt.Printf("Dug:       %s\n", rep.Dug)
	fmt.Printf("Collected: %s\n", rep.Collected)

	if !res.Exact {
		fmt.Println("Config:    not recorded, rebuilt with the loaded config")
	}
	if len(rep.Desyncs) == 0 {
		fmt.Println("Verified:  every delta matched")
	} else {
		fmt.Printf("DESYNC:    %d deltas disagreed, first at seq %d\n", len(rep.Desyncs), rep.Desyncs[0])
	}

	view := render.View{Terrain: g.TerrainSnapshot()}
	if flagReplayShow {
		width, height := terminalSize()
		fmt.Println()
		fmt.Print(render.RenderASCII(view, g.Mapper(), width, max(height-4, 1)))
	}
	if flagReplayPNG != "" {
		if err := writePNG(flagReplayPNG, view, g.Mapper(), flagReplayScale); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", flagReplayPNG)
	}

	if len(rep.Desyncs) > 0 {
		return fmt.Errorf("%w: match %s", replication.ErrDesync, matchID)
	}
	return nil
}
