// Package render turns terrain and fog snapshots into text and images.
// It holds no simulation state.
package render

import (
	"strings"
)

// Color is a palette entry for a canvas glyph. Front ends map it to
// terminal styles or RGB values.
type Color uint8

const (
	ColorDefault Color = iota
	ColorDirt
	ColorGrass
	ColorGold
	ColorHardrock
	ColorRock3
	ColorRock4
	ColorFog
	ColorUnit
	ColorEnemy
	ColorText
)

// Glyph is one canvas cell.
type Glyph struct {
	Rune  rune
	Color Color
}

var blank = Glyph{Rune: ' '}

// Canvas is a 2D glyph buffer. Row 0 is the top line of output.
type Canvas struct {
	width  int
	height int
	cells  [][]Glyph
}

// NewCanvas creates a blank canvas with the given dimensions.
func NewCanvas(width, height int) *Canvas {
	c := &Canvas{width: max(width, 0), height: max(height, 0)}
	c.cells = make([][]Glyph, c.height)
	for y := range c.cells {
		c.cells[y] = make([]Glyph, c.width)
	}
	c.Clear()
	return c
}

// Width returns the canvas width in characters.
func (c *Canvas) Width() int {
	return c.width
}

// Height returns the canvas height in characters.
func (c *Canvas) Height() int {
	return c.height
}

// Clear fills the canvas with spaces.
func (c *Canvas) Clear() {
	for y := range c.cells {
		for x := range c.cells[y] {
			c.cells[y][x] = blank
		}
	}
}

// Set places a glyph at the given position.
// Out-of-bounds coordinates are silently ignored.
func (c *Canvas) Set(x, y int, g Glyph) {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return
	}
	c.cells[y][x] = g
}

// Get returns the glyph at the given position.
// Returns a space for out-of-bounds coordinates.
func (c *Canvas) Get(x, y int) Glyph {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return blank
	}
	return c.cells[y][x]
}

// DrawText writes a string horizontally starting at (x, y).
func (c *Canvas) DrawText(x, y int, text string, color Color) {
	i := 0
	for _, r := range text {
		c.Set(x+i, y, Glyph{Rune: r, Color: color})
		i++
	}
}

// String converts the canvas to plain text, one line per row.
func (c *Canvas) String() string {
	var sb strings.Builder
	sb.Grow(c.width*c.height + c.height)

	for y := 0; y < c.height; y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}
		for x := 0; x < c.width; x++ {
			sb.WriteRune(c.cells[y][x].Rune)
		}
	}
	return sb.String()
}

// Row returns the runes of row y as a string.
func (c *Canvas) Row(y int) string {
	if y < 0 || y >= c.height {
		return strings.Repeat(" ", c.width)
	}
	var sb strings.Builder
	for _, g := range c.cells[y] {
		sb.WriteRune(g.Rune)
	}
	return sb.String()
}
