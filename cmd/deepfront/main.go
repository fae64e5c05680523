// deepfront generates, watches and replays destructible terrain matches.
//
// Usage:
//
//	deepfront generate            - Generate a field and print a preview
//	deepfront watch               - Watch and steer a match in the terminal
//	deepfront serve               - Start SSH server for remote viewers
//	deepfront matches             - Browse recorded matches
//	deepfront replay <match-id>   - Rebuild a recorded match and verify it
//
// Global flags:
//
//	--seed <value>  - Terrain seed (0 = random)
//	--config <path> - Ground config YAML
//	--fps <rate>    - Viewer frame rate (0 = ground tick rate)
//	--db <path>     - Match journal path (default: ~/.deepfront/matches.db)
//	--verbose       - Debug logging
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/deepfront/internal/config"
	"github.com/vovakirdan/deepfront/internal/ground"
)

var (
	// Global flags
	flagSeed    int64
	flagConfig  string
	flagFPS     int
	flagDBPath  string
	flagVerbose bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "deepfront",
	Short: "Deepfront - destructible terrain with fog of war",
	Long: `Deepfront generates a seeded two-sided rock field, lets drills tunnel
through it under fog of war, and records every dig so a match can be
rebuilt exactly on another machine.

Available commands:
  generate - Generate a field and print a preview
  watch    - Watch and steer a match in the terminal
  serve    - Start SSH server for remote viewers
  matches  - Browse recorded matches
  replay   - Rebuild a recorded match and verify it

Examples:
  deepfront generate --seed 42
  deepfront generate --seed 42 --png field.png
  deepfront watch --record
  deepfront serve --ssh :2222
  deepfront replay alice-1712345678`,
}

func init() {
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "Terrain seed (0 = random)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom ground config YAML")
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Viewer frame rate (0 = ground tick rate)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.deepfront/matches.db", "Path to match journal database")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(matchesCmd)
	rootCmd.AddCommand(replayCmd)
}

// newLogger returns the CLI logger writing to w.
func newLogger(w io.Writer) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "deepfront",
	})
	if flagVerbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// loadConfig loads the ground config, exiting on error.
func loadConfig() config.GroundConfig {
	cfg, err := config.LoadGround(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// resolveSeed returns --seed, or a fresh random seed when it is zero.
func resolveSeed() int64 {
	if flagSeed != 0 {
		return flagSeed
	}
	seed, err := ground.NewSeed()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error drawing seed: %v\n", err)
		os.Exit(1)
	}
	return seed
}

// terminalSize returns the stdout size, or 80x24 when it is not a terminal.
func terminalSize() (int, int) {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}
	return width, height
}

// isTerminal reports whether stdout is an interactive terminal.
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
