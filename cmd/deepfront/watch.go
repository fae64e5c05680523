package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/deepfront/internal/demo"
	"github.com/vovakirdan/deepfront/internal/platform/tui"
	"github.com/vovakirdan/deepfront/internal/replication"
	"github.com/vovakirdan/deepfront/internal/storage"
)

var (
	flagWatchView        string
	flagWatchBotTop      bool
	flagWatchBotBottom   bool
	flagWatchLaunchEvery int
	flagWatchRecord      bool
	flagWatchMirror      bool
	flagWatchLog         string
	flagWatchShots       string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch and steer a match in the terminal",
	Long: `Start a match between the top and bottom sides and watch it through
one side's fog of war. Houses on each surface launch drills that tunnel
toward the enemy; gold and hard rock damage them.

Controls:
  Space/Enter  - Launch a drill
  Left/Right   - Aim
  Tab          - Next house
  X            - Explode newest drill
  F            - Toggle fog
  C            - Copy frame to clipboard
  Ctrl+S       - PNG screenshot
  P/Esc        - Pause
  Q/Ctrl+C     - Quit

Examples:
  deepfront watch
  deepfront watch --view both --bot-top
  deepfront watch --seed 42 --record
  deepfront watch --mirror --log watch.log -v`,
	Run: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&flagWatchView, "view", "top", "Whose vision to watch: top, bottom, both")
	watchCmd.Flags().BoolVar(&flagWatchBotTop, "bot-top", false, "Let a bot launch drills for the top side")
	watchCmd.Flags().BoolVar(&flagWatchBotBottom, "bot-bottom", true, "Let a bot launch drills for the bottom side")
	watchCmd.Flags().IntVar(&flagWatchLaunchEvery, "launch-every", 180, "Ticks between bot launches")
	watchCmd.Flags().BoolVar(&flagWatchRecord, "record", false, "Record the match journal to --db")
	watchCmd.Flags().BoolVar(&flagWatchMirror, "mirror", false, "Replay every delta on a second ground and report desyncs")
	watchCmd.Flags().StringVar(&flagWatchLog, "log", "", "Write logs to this file")
	watchCmd.Flags().StringVar(&flagWatchShots, "screenshots", "~/.deepfront/screenshots", "Screenshot directory")
}

func runWatch(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	seed := resolveSeed()

	view, err := demo.ParseView(flagWatchView)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	match := demo.DefaultConfig()
	match.View = view
	match.Bots = [2]bool{flagWatchBotTop, flagWatchBotBottom}
	match.LaunchEvery = flagWatchLaunchEvery

	// The viewer owns the terminal, so logs go to a file or nowhere.
	var logOut io.Writer = io.Discard
	if flagWatchLog != "" {
		f, err := os.OpenFile(flagWatchLog, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	logger := newLogger(logOut)

	width, height := terminalSize()
	wcfg := tui.WatchConfig{
		Ground:        cfg,
		Seed:          seed,
		Match:         match,
		TickRate:      flagFPS,
		ScreenW:       width,
		ScreenH:       height,
		MatchID:       replication.MatchID(fmt.Sprintf("watch-%d", time.Now().UnixNano())),
		Mirror:        flagWatchMirror,
		Clipboard:     true,
		ScreenshotDir: expandHome(flagWatchShots),
		Logger:        logger,
	}

	var store *storage.Store
	if flagWatchRecord {
		store, err = storage.Open(flagDBPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not open match journal: %v\n", err)
			// Continue without recording
			store = nil
		}
	}
	if store != nil {
		_, err := store.CreateMatch(storage.MatchRecord{
			MatchID: string(wcfg.MatchID),
			Seed:    seed,
			Ground:  cfg,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not record match: %v\n", err)
		} else {
			wcfg.Journal = store
			logger.Info("recording match", "match", wcfg.MatchID, "seed", seed)
		}
	}

	runErr := tui.RunWatch(wcfg)

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running viewer: %v\n", runErr)
		os.Exit(1)
	}
	if wcfg.Journal != nil {
		fmt.Printf("Recorded match %s (seed %d)\n", wcfg.MatchID, seed)
		fmt.Printf("Replay with: deepfront replay %s\n", wcfg.MatchID)
	}
}

// expandHome replaces a leading ~ with the home directory.
func expandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, path[1:])
}
