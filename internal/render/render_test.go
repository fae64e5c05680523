package render

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/vovakirdan/deepfront/internal/terrain"
	"github.com/vovakirdan/deepfront/internal/vision"
)

func testMapper(w, h int) terrain.Mapper {
	return terrain.Mapper{
		Width: float64(w), Height: float64(h), Resolution: 1, Ratio: 1,
		PixelsWide: w, PixelsHigh: h, CollectWide: w, CollectHigh: h,
	}
}

// snapshotOf builds a snapshot from rows listed top to bottom.
func snapshotOf(rows ...[]terrain.RockKind) terrain.TerrainSnapshot {
	h := len(rows)
	w := len(rows[0])
	s := terrain.TerrainSnapshot{W: w, H: h, Kinds: make([]terrain.RockKind, w*h), Density: make([]float64, w*h)}
	for i, row := range rows {
		y := h - 1 - i
		copy(s.Kinds[y*w:], row)
	}
	return s
}

func repeat(k terrain.RockKind, n int) []terrain.RockKind {
	out := make([]terrain.RockKind, n)
	for i := range out {
		out[i] = k
	}
	return out
}

func TestCanvasSetGet(t *testing.T) {
	c := NewCanvas(5, 2)

	c.Set(1, 1, Glyph{Rune: 'X'})
	if c.Get(1, 1).Rune != 'X' {
		t.Errorf("Get(1, 1) = %q, expected 'X'", c.Get(1, 1).Rune)
	}

	c.Set(-1, 0, Glyph{Rune: 'A'})
	c.Set(5, 0, Glyph{Rune: 'A'})
	if c.Get(-1, 0).Rune != ' ' || c.Get(0, 9).Rune != ' ' {
		t.Error("Out of bounds Get should return space")
	}

	c.DrawText(0, 0, "hi", ColorText)
	if got := c.String(); got != "hi   \n X   " {
		t.Errorf("String() = %q", got)
	}
	if got := c.Row(7); got != "     " {
		t.Errorf("Row(out of bounds) = %q", got)
	}
}

func TestDrawFlipsRows(t *testing.T) {
	snap := snapshotOf(
		repeat(terrain.Gold, 4),
		repeat(terrain.Dirt, 4),
	)
	c := Draw(View{Terrain: snap}, testMapper(4, 2), 4, 2)

	if got := c.Row(0); got != "$$$$" {
		t.Errorf("top row = %q, want gold", got)
	}
	if got := c.Row(1); got != "...." {
		t.Errorf("bottom row = %q, want dirt", got)
	}
	if c.Get(0, 0).Color != ColorGold {
		t.Errorf("gold glyph color = %v", c.Get(0, 0).Color)
	}
}

func TestDrawDownsamplesByMode(t *testing.T) {
	g, d, n := terrain.Gold, terrain.Dirt, terrain.None
	snap := snapshotOf(
		[]terrain.RockKind{g, g, d, n},
		[]terrain.RockKind{g, d, n, n},
		[]terrain.RockKind{d, d, d, d},
		[]terrain.RockKind{d, d, d, g},
	)
	c := Draw(View{Terrain: snap}, testMapper(4, 4), 2, 2)

	want := []string{"$ ", ".."}
	for y, row := range want {
		if got := c.Row(y); got != row {
			t.Errorf("row %d = %q, want %q", y, got, row)
		}
	}
}

func TestDrawFog(t *testing.T) {
	snap := snapshotOf(repeat(terrain.Dirt, 4), repeat(terrain.Dirt, 4))
	fog := vision.FogSnapshot{W: 4, H: 2, States: make([]vision.FogState, 8)}
	for i := range fog.States {
		if i%4 < 2 {
			fog.States[i] = vision.NoFog
		}
	}

	c := Draw(View{Terrain: snap, Fog: &fog}, testMapper(4, 2), 4, 2)
	if got := c.Row(0); got != "..~~" {
		t.Errorf("row = %q, want visible left half", got)
	}
	if c.Get(3, 1).Color != ColorFog {
		t.Errorf("fog glyph color = %v", c.Get(3, 1).Color)
	}
}

func TestDrawMarkers(t *testing.T) {
	snap := snapshotOf(
		repeat(terrain.Dirt, 4), repeat(terrain.Dirt, 4),
		repeat(terrain.Dirt, 4), repeat(terrain.Dirt, 4),
	)
	v := View{Terrain: snap, Markers: []Marker{
		{Pos: terrain.V(-1.5, 1.5), Rune: '@', Color: ColorUnit},
		{Pos: terrain.V(1.5, -1.5), Rune: 'E', Color: ColorEnemy},
		{Pos: terrain.V(50, 50), Rune: '!', Color: ColorEnemy},
	}}
	c := Draw(v, testMapper(4, 4), 4, 4)

	if c.Get(0, 0).Rune != '@' {
		t.Errorf("marker at top-left missing, row 0 = %q", c.Row(0))
	}
	if c.Get(3, 3).Rune != 'E' {
		t.Errorf("marker at bottom-right missing, row 3 = %q", c.Row(3))
	}
	if strings.ContainsRune(c.String(), '!') {
		t.Error("off-grid marker should be clipped")
	}
}

func TestRenderASCIIHeader(t *testing.T) {
	snap := snapshotOf(repeat(terrain.Dirt, 4), repeat(terrain.None, 4))
	out := RenderASCII(View{Terrain: snap}, testMapper(4, 2), 4, 2)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header, separator and 2 rows, got %d lines", len(lines))
	}
	if !strings.Contains(lines[0], "4x2 cells") || !strings.Contains(lines[0], "dirt=4") {
		t.Errorf("unexpected header %q", lines[0])
	}
	if strings.Trim(lines[1], "-") != "" {
		t.Errorf("separator should be dashes, got %q", lines[1])
	}
}

func TestImage(t *testing.T) {
	snap := snapshotOf(repeat(terrain.Gold, 3), repeat(terrain.Dirt, 3))
	snap.Density[3] = 1 // Top row, x=0

	img := Image(View{Terrain: snap}, testMapper(3, 2))
	if b := img.Bounds(); b.Dx() != 3 || b.Dy() != 2 {
		t.Fatalf("image is %dx%d, want 3x2", b.Dx(), b.Dy())
	}
	if got := img.RGBAAt(1, 0); got != Palette[ColorGold] {
		t.Errorf("top pixel = %v, want gold", got)
	}
	if got := img.RGBAAt(1, 1); got != Palette[ColorDirt] {
		t.Errorf("bottom pixel = %v, want dirt", got)
	}
	if got := img.RGBAAt(0, 0); got == Palette[ColorGold] {
		t.Error("dense gold should be shaded")
	}

	fog := vision.FogSnapshot{W: 3, H: 2, States: make([]vision.FogState, 6)}
	img = Image(View{Terrain: snap, Fog: &fog}, testMapper(3, 2))
	if got := img.RGBAAt(2, 1); got != Palette[ColorFog] {
		t.Errorf("fogged pixel = %v, want fog", got)
	}
}

func TestScale(t *testing.T) {
	snap := snapshotOf(repeat(terrain.Gold, 3), repeat(terrain.Dirt, 3))
	img := Image(View{Terrain: snap}, testMapper(3, 2))

	scaled, err := Scale(img, 4)
	if err != nil {
		t.Fatalf("Scale() failed: %v", err)
	}
	if b := scaled.Bounds(); b.Dx() != 12 || b.Dy() != 8 {
		t.Errorf("scaled image is %dx%d, want 12x8", b.Dx(), b.Dy())
	}
	if got := scaled.RGBAAt(11, 7); got != Palette[ColorDirt] {
		t.Errorf("scaled corner = %v, want dirt", got)
	}

	if _, err := Scale(img, 0); err == nil {
		t.Error("expected error for zero factor")
	}
}

func TestWritePNG(t *testing.T) {
	snap := snapshotOf(repeat(terrain.Grass, 5), repeat(terrain.Dirt, 5))

	var buf bytes.Buffer
	if err := WritePNG(&buf, View{Terrain: snap}, testMapper(5, 2), 2); err != nil {
		t.Fatalf("WritePNG() failed: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode() failed: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 10 || b.Dy() != 4 {
		t.Errorf("decoded image is %dx%d, want 10x4", b.Dx(), b.Dy())
	}
}
