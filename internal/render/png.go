package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"golang.org/x/image/draw"

	"github.com/vovakirdan/deepfront/internal/terrain"
	"github.com/vovakirdan/deepfront/internal/vision"
)

// Palette maps canvas colors to RGB for image output.
var Palette = map[Color]color.RGBA{
	ColorDefault:  {R: 12, G: 10, B: 18, A: 255},
	ColorDirt:     {R: 120, G: 82, B: 50, A: 255},
	ColorGrass:    {R: 70, G: 150, B: 60, A: 255},
	ColorGold:     {R: 235, G: 190, B: 40, A: 255},
	ColorHardrock: {R: 95, G: 95, B: 105, A: 255},
	ColorRock3:    {R: 150, G: 70, B: 60, A: 255},
	ColorRock4:    {R: 110, G: 70, B: 140, A: 255},
	ColorFog:      {R: 30, G: 30, B: 40, A: 255},
	ColorUnit:     {R: 80, G: 200, B: 255, A: 255},
	ColorEnemy:    {R: 255, G: 80, B: 80, A: 255},
	ColorText:     {R: 230, G: 230, B: 230, A: 255},
}

// shade darkens c by density, keeping at least half the brightness.
func shade(c color.RGBA, density float64) color.RGBA {
	f := 1 - density/2
	return color.RGBA{
		R: uint8(float64(c.R) * f),
		G: uint8(float64(c.G) * f),
		B: uint8(float64(c.B) * f),
		A: c.A,
	}
}

// Image renders the view at one pixel per fine cell. Denser rock is drawn
// darker and fogged cells use the fog color.
func Image(v View, m terrain.Mapper) *image.RGBA {
	snap := v.Terrain
	img := image.NewRGBA(image.Rect(0, 0, snap.W, snap.H))
	for y := 0; y < snap.H; y++ {
		row := snap.H - 1 - y
		for x := 0; x < snap.W; x++ {
			if v.Fog != nil && v.Fog.Get(x, y) == vision.Fog {
				img.SetRGBA(x, row, Palette[ColorFog])
				continue
			}
			k := snap.Get(x, y)
			c := Palette[kindColor(k)]
			if k.Special() && len(snap.Density) == len(snap.Kinds) {
				c = shade(c, snap.Density[y*snap.W+x])
			}
			img.SetRGBA(x, row, c)
		}
	}

	for _, mk := range v.Markers {
		cell := m.WorldToFineCell(mk.Pos)
		drawDot(img, cell.X, snap.H-1-cell.Y, Palette[mk.Color])
	}
	return img
}

func drawDot(img *image.RGBA, cx, cy int, c color.RGBA) {
	for dy := -2; dy <= 2; dy++ {
		for dx := -2; dx <= 2; dx++ {
			if dx*dx+dy*dy > 4 {
				continue
			}
			p := image.Pt(cx+dx, cy+dy)
			if p.In(img.Rect) {
				img.SetRGBA(p.X, p.Y, c)
			}
		}
	}
}

// Scale resizes src by factor using nearest-neighbor sampling, which keeps
// cell edges sharp.
func Scale(src image.Image, factor float64) (*image.RGBA, error) {
	if factor <= 0 {
		return nil, fmt.Errorf("render: scale factor must be positive, got %v", factor)
	}
	b := src.Bounds()
	w := max(int(float64(b.Dx())*factor), 1)
	h := max(int(float64(b.Dy())*factor), 1)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst, nil
}

// WritePNG renders the view, scales it and encodes it as PNG.
func WritePNG(w io.Writer, v View, m terrain.Mapper, factor float64) error {
	img, err := Scale(Image(v, m), factor)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("render: cannot encode png: %w", err)
	}
	return nil
}
