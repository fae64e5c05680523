package render

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/deepfront/internal/terrain"
	"github.com/vovakirdan/deepfront/internal/vision"
)

// FogRune marks fogged blocks in text output.
const FogRune = '~'

// Marker is a unit or point of interest drawn over the terrain.
type Marker struct {
	Pos   terrain.Vec
	Rune  rune
	Color Color
}

// View is everything a frame shows. Fog may be nil for an unfogged view.
type View struct {
	Terrain terrain.TerrainSnapshot
	Fog     *vision.FogSnapshot
	Markers []Marker
}

// KindGlyph returns the glyph used for a rock kind.
func KindGlyph(k terrain.RockKind) Glyph {
	return Glyph{Rune: k.Char(), Color: kindColor(k)}
}

func kindColor(k terrain.RockKind) Color {
	switch k {
	case terrain.Dirt:
		return ColorDirt
	case terrain.Grass:
		return ColorGrass
	case terrain.Gold:
		return ColorGold
	case terrain.Hardrock:
		return ColorHardrock
	case terrain.RockVariant3:
		return ColorRock3
	case terrain.RockVariant4:
		return ColorRock4
	default:
		return ColorDefault
	}
}

// span returns the source range [lo, hi) covered by output index i of n.
func span(i, n, size int) (int, int) {
	lo := i * size / n
	hi := (i + 1) * size / n
	if hi <= lo {
		hi = lo + 1
	}
	return lo, min(hi, size)
}

// Draw downsamples the view onto a w x h canvas. Each output cell shows the
// most common kind of the block it covers; a block is fogged when most of
// its cells are fogged. World +y is drawn upward.
func Draw(v View, m terrain.Mapper, w, h int) *Canvas {
	c := NewCanvas(w, h)
	snap := v.Terrain
	if w <= 0 || h <= 0 || snap.W == 0 || snap.H == 0 {
		return c
	}

	var hist terrain.Counts
	for cy := 0; cy < h; cy++ {
		// Output row 0 is the highest source row.
		y0, y1 := span(h-1-cy, h, snap.H)
		for cx := 0; cx < w; cx++ {
			x0, x1 := span(cx, w, snap.W)

			hist = terrain.Counts{}
			fogged, total := 0, 0
			for y := y0; y < y1; y++ {
				for x := x0; x < x1; x++ {
					hist[snap.Get(x, y)]++
					if v.Fog != nil && v.Fog.Get(x, y) == vision.Fog {
						fogged++
					}
					total++
				}
			}

			if fogged*2 > total {
				c.Set(cx, cy, Glyph{Rune: FogRune, Color: ColorFog})
				continue
			}
			c.Set(cx, cy, KindGlyph(mode(hist)))
		}
	}

	for _, mk := range v.Markers {
		f := m.WorldToFine(mk.Pos)
		if f.X < 0 || f.Y < 0 {
			continue
		}
		cx := int(f.X * float64(w) / float64(snap.W))
		cy := h - 1 - int(f.Y*float64(h)/float64(snap.H))
		c.Set(cx, cy, Glyph{Rune: mk.Rune, Color: mk.Color})
	}
	return c
}

// mode returns the most common kind, the lowest ordinal on ties.
func mode(hist terrain.Counts) terrain.RockKind {
	best := terrain.None
	for k, n := range hist {
		if n > hist[best] {
			best = terrain.RockKind(k)
		}
	}
	return best
}

// CountKinds tallies every cell of a snapshot.
func CountKinds(s terrain.TerrainSnapshot) terrain.Counts {
	var c terrain.Counts
	for _, k := range s.Kinds {
		c[k]++
	}
	return c
}

// RenderASCII returns a plain-text frame with a one-line summary header.
func RenderASCII(v View, m terrain.Mapper, w, h int) string {
	var sb strings.Builder

	header := fmt.Sprintf("%dx%d cells  %s", v.Terrain.W, v.Terrain.H, CountKinds(v.Terrain))
	sb.WriteString(header)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", max(w, len(header))))
	sb.WriteString("\n")
	sb.WriteString(Draw(v, m, w, h).String())
	sb.WriteString("\n")

	return sb.String()
}
