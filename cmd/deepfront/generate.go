package main

import (
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/deepfront/internal/ground"
	"github.com/vovakirdan/deepfront/internal/render"
	"github.com/vovakirdan/deepfront/internal/terrain"
)

var (
	flagGenWidth  int
	flagGenHeight int
	flagGenPNG    string
	flagGenScale  float64
	flagGenCopy   bool
	flagGenQuiet  bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a field and print a preview",
	Long: `Generate the terrain for a seed and print its composition and an
ASCII preview. The same seed and config always give the same field.

Legend:
  "  grass    .  dirt     $  gold
  #  hardrock %  rock3    &  rock4

Examples:
  deepfront generate --seed 42
  deepfront generate --seed 42 --width 120 --height 50
  deepfront generate --seed 42 --png field.png --scale 2
  deepfront generate --seed 42 --copy`,
	Run: runGenerate,
}

func init() {
	generateCmd.Flags().IntVar(&flagGenWidth, "width", 0, "Preview width in characters (0 = terminal width)")
	generateCmd.Flags().IntVar(&flagGenHeight, "height", 0, "Preview height in lines (0 = terminal height)")
	generateCmd.Flags().StringVar(&flagGenPNG, "png", "", "Write a PNG image of the field to this path")
	generateCmd.Flags().Float64Var(&flagGenScale, "scale", 1, "PNG scale factor")
	generateCmd.Flags().BoolVar(&flagGenCopy, "copy", false, "Copy the ASCII preview to the clipboard")
	generateCmd.Flags().BoolVarP(&flagGenQuiet, "quiet", "q", false, "Print only the summary")
}

func runGenerate(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	seed := resolveSeed()
	logger := newLogger(os.Stderr)

	g := ground.New(cfg, ground.WithLogger(logger))
	if err := g.Init(seed); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating terrain: %v\n", err)
		os.Exit(1)
	}

	m := g.Mapper()
	fmt.Printf("Seed:     %d\n", seed)
	fmt.Printf("World:    %gx%g units\n", m.Width, m.Height)
	fmt.Printf("Fine:     %dx%d cells\n", m.PixelsWide, m.PixelsHigh)
	fmt.Printf("Collect:  %dx%d cells\n", m.CollectWide, m.CollectHigh)
	fmt.Println()
	printCounts("Field", g.Field().Counts())
	printCounts("Collect", g.Collect().Remaining())

	view := render.View{Terrain: g.TerrainSnapshot()}

	width, height := terminalSize()
	if flagGenWidth > 0 {
		width = flagGenWidth
	}
	if flagGenHeight > 0 {
		height = flagGenHeight
	} else {
		height -= 4 // Leave room for the header and prompt
	}
	preview := render.RenderASCII(view, m, width, max(height, 1))

	if !flagGenQuiet {
		fmt.Println()
		fmt.Print(preview)
	}

	if flagGenCopy {
		if err := clipboard.WriteAll(preview); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not copy preview: %v\n", err)
		} else {
			fmt.Println("Preview copied to clipboard.")
		}
	}

	if flagGenPNG != "" {
		if err := writePNG(flagGenPNG, view, m, flagGenScale); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing PNG: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", flagGenPNG)
	}
}

// printCounts prints one line per kind with its share of the total.
func printCounts(title string, c terrain.Counts) {
	total := c.Total()
	fmt.Printf("%s (%d cells)\n", title, total)
	for k := terrain.None; k < terrain.NumRockKinds; k++ {
		if c[k] == 0 {
			continue
		}
		fmt.Printf("  %-9s %c  %8d  %5.1f%%\n", k, k.Char(), c[k], 100*float64(c[k])/float64(total))
	}
}

func writePNG(path string, v render.View, m terrain.Mapper, scale float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render.WritePNG(f, v, m, scale); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
