package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/deepfront/internal/render"
)

// colorStyles maps render.Color to lipgloss styles.
var colorStyles = map[render.Color]lipgloss.Style{
	render.ColorDefault:  lipgloss.NewStyle(),
	render.ColorDirt:     lipgloss.NewStyle().Foreground(lipgloss.Color("130")),
	render.ColorGrass:    lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	render.ColorGold:     lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
	render.ColorHardrock: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	render.ColorRock3:    lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	render.ColorRock4:    lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	render.ColorFog:      lipgloss.NewStyle().Foreground(lipgloss.Color("237")),
	render.ColorUnit:     lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
	render.ColorEnemy:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	render.ColorText:     lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
}

// RenderCanvas converts a canvas to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderCanvas(c *render.Canvas) string {
	var sb strings.Builder
	sb.Grow(c.Width()*c.Height()*2 + c.Height())

	for y := range c.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < c.Width() {
			startColor := c.Get(x, y).Color

			var run strings.Builder
			for x < c.Width() {
				g := c.Get(x, y)
				if g.Color != startColor {
					break
				}
				run.WriteRune(g.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[render.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}
