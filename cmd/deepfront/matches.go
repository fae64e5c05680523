package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/deepfront/internal/platform/tui"
	"github.com/vovakirdan/deepfront/internal/storage"
)

var (
	flagMatchesLimit int
	flagMatchesPlain bool
)

var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "Browse recorded matches",
	Long: `List recorded matches, newest first. In a terminal this opens an
interactive browser; press Enter to replay a match or D to delete it.

Examples:
  deepfront matches
  deepfront matches --plain --limit 5`,
	Run: runMatches,
}

func init() {
	matchesCmd.Flags().IntVar(&flagMatchesLimit, "limit", 50, "Maximum matches to list")
	matchesCmd.Flags().BoolVar(&flagMatchesPlain, "plain", false, "Print a plain list instead of the browser")
}

func runMatches(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening match journal: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagMatchesPlain || !isTerminal() {
		if err := printMatches(store); err != nil {
			store.Close()
			fmt.Fprintf(os.Stderr, "Error listing matches: %v\n", err)
			os.Exit(1)
		}
		return
	}

	width, height := terminalSize()
	selected, err := tui.RunMatches(store, flagMatchesLimit, width, height)
	if err != nil {
		store.Close()
		fmt.Fprintf(os.Stderr, "Error running browser: %v\n", err)
		os.Exit(1)
	}
	if selected == "" {
		return
	}

	if err := runReplay(store, selected); err != nil {
		store.Close()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printMatches(store *storage.Store) error {
	matches, err := store.RecentMatches(flagMatchesLimit)
	if err != nil {
		return err
	}

	if len(matches) == 0 {
		fmt.Println("No matches recorded yet.")
		fmt.Println()
		fmt.Println("Run 'deepfront watch --record' to record one.")
		return nil
	}

	fmt.Printf("  %-28s  %-20s  %-7s  %-9s  %s\n", "Match", "Seed", "Deltas", "Cells", "Date")
	fmt.Printf("  %-28s  %-20s  %-7s  %-9s  %s\n", "-----", "----", "------", "-----", "----")
	for _, m := range matches {
		fmt.Printf("  %-28s  %-20d  %-7d  %-9d  %s\n",
			m.MatchID, m.Seed, m.Deltas, m.Cells, m.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}
