package terrain

import "math"

// Field is the authoritative fine grid: one rock kind and one cosmetic
// density per cell, plus the fixed per-column boundary heights.
// Cells are stored in row-major order: index = y*PixelsWide + x.
type Field struct {
	m       Mapper
	seed    int64
	kinds   []RockKind
	density []float64
	top     []float64 // Pixel units, fixed after generation
	bot     []float64
	grassPx float64

	listeners []DigListener
}

// DugCell reports one cell removed by a dig and what it held before.
type DugCell struct {
	Cell    Cell
	Prior   RockKind
	Density float64
}

// DigListener is notified after every dig that removed at least one cell.
type DigListener interface {
	OnDig(cells []DugCell)
}

// DigListenerFunc adapts a function to DigListener.
type DigListenerFunc func(cells []DugCell)

// OnDig implements DigListener.
func (f DigListenerFunc) OnDig(cells []DugCell) { f(cells) }

func newField(m Mapper, seed int64, grassPx float64) *Field {
	n := m.PixelsWide * m.PixelsHigh
	return &Field{
		m:       m,
		seed:    seed,
		kinds:   make([]RockKind, n),
		density: make([]float64, n),
		top:     make([]float64, m.PixelsWide),
		bot:     make([]float64, m.PixelsWide),
		grassPx: grassPx,
	}
}

// Mapper returns the coordinate mapper the field was built with.
func (f *Field) Mapper() Mapper {
	return f.m
}

// Seed returns the seed the field was generated from.
func (f *Field) Seed() int64 {
	return f.seed
}

// Subscribe registers a listener for dig notifications.
func (f *Field) Subscribe(l DigListener) {
	f.listeners = append(f.listeners, l)
}

// KindAt returns the rock kind of a cell, or None if out of bounds.
func (f *Field) KindAt(c Cell) RockKind {
	if !f.m.InFine(c) {
		return None
	}
	return f.kinds[f.m.FineIndex(c)]
}

// DensityAt returns the shading density of a cell, or 0 if out of bounds.
func (f *Field) DensityAt(c Cell) float64 {
	if !f.m.InFine(c) {
		return 0
	}
	return f.density[f.m.FineIndex(c)]
}

// KindAtWorld returns the rock kind under a world position.
func (f *Field) KindAtWorld(p Vec) RockKind {
	return f.KindAt(f.m.WorldToFineCell(p))
}

// ColumnHeight returns a boundary height in pixel units for a column. The
// column is clamped to the grid.
func (f *Field) ColumnHeight(x int, top bool) float64 {
	x = clamp(x, 0, f.m.PixelsWide-1)
	if top {
		return f.top[x]
	}
	return f.bot[x]
}

// RegionAt classifies a cell against its column's band. Rows past the grid
// edges are classified as beyond the nearer boundary.
func (f *Field) RegionAt(c Cell) Region {
	x := clamp(c.X, 0, f.m.PixelsWide-1)
	fy := float64(c.Y) + 0.5
	top, bot := f.top[x], f.bot[x]
	switch {
	case fy > top:
		return RegionAboveTop
	case fy < bot:
		return RegionBelowBot
	case fy > top-f.grassPx:
		return RegionTopMargin
	case fy < bot+f.grassPx:
		return RegionBotMargin
	default:
		return RegionInterior
	}
}

// Counts returns the number of cells of each kind currently in the field.
func (f *Field) Counts() Counts {
	var c Counts
	for _, k := range f.kinds {
		c[k]++
	}
	return c
}

// TerrainSnapshot is a read-only copy of the field for rendering.
type TerrainSnapshot struct {
	W       int
	H       int
	Kinds   []RockKind
	Density []float64
}

// Snapshot returns a copy of the current kinds and densities.
func (f *Field) Snapshot() TerrainSnapshot {
	kinds := make([]RockKind, len(f.kinds))
	copy(kinds, f.kinds)
	density := make([]float64, len(f.density))
	copy(density, f.density)
	return TerrainSnapshot{
		W:       f.m.PixelsWide,
		H:       f.m.PixelsHigh,
		Kinds:   kinds,
		Density: density,
	}
}

// Get returns the kind at (x, y), or None if out of bounds.
func (s TerrainSnapshot) Get(x, y int) RockKind {
	if x < 0 || x >= s.W || y < 0 || y >= s.H {
		return None
	}
	return s.Kinds[y*s.W+x]
}

// Heights returns copies of the top and bottom boundary arrays.
func (f *Field) Heights() (top, bot []float64) {
	top = make([]float64, len(f.top))
	copy(top, f.top)
	bot = make([]float64, len(f.bot))
	copy(bot, f.bot)
	return top, bot
}

// DigShape removes every non-empty cell whose center lies inside shape and
// returns how many cells of each kind were removed. Empty cells are left
// alone so repeated digs yield nothing.
func (f *Field) DigShape(shape Shape) Counts {
	var counts Counts
	lo, hi := shape.Bounds()
	a, b, ok := f.m.FineRange(lo, hi)
	if !ok {
		return counts
	}

	var dug []DugCell
	for y := a.Y; y <= b.Y; y++ {
		for x := a.X; x <= b.X; x++ {
			c := Cell{X: x, Y: y}
			i := f.m.FineIndex(c)
			k := f.kinds[i]
			if k == None {
				continue
			}
			if !shape.Contains(f.m.FineCellCenter(c)) {
				continue
			}
			counts[k]++
			dug = append(dug, DugCell{Cell: c, Prior: k, Density: f.density[i]})
			f.kinds[i] = None
			f.density[i] = 0
		}
	}

	if len(dug) > 0 {
		for _, l := range f.listeners {
			l.OnDig(dug)
		}
	}
	return counts
}

// HeightAt returns the world-space height of a boundary at worldX,
// interpolated linearly between column centers.
func (f *Field) HeightAt(worldX float64, top bool) float64 {
	col := f.bot
	if top {
		col = f.top
	}
	lo := f.m.Min()
	px := (worldX-lo.X)*f.m.Resolution - 0.5

	last := len(col) - 1
	var h float64
	switch {
	case px <= 0:
		h = col[0]
	case px >= float64(last):
		h = col[last]
	default:
		i := int(math.Floor(px))
		h = lerp(col[i], col[i+1], px-float64(i))
	}
	return lo.Y + h/f.m.Resolution
}

// NormalAt returns the unit surface normal of a boundary at worldX. The top
// boundary's normal points up (+Y) and the bottom boundary's points down,
// each facing away from the band.
func (f *Field) NormalAt(worldX float64, top bool) Vec {
	col := f.bot
	if top {
		col = f.top
	}
	x := clamp(f.m.WorldToFineCell(Vec{X: worldX}).X, 0, len(col)-1)
	a := clamp(x-1, 0, len(col)-1)
	b := clamp(x+1, 0, len(col)-1)

	dx := float64(b-a) / f.m.Resolution
	dh := (col[b] - col[a]) / f.m.Resolution
	if dx == 0 {
		if top {
			return Vec{X: 0, Y: 1}
		}
		return Vec{X: 0, Y: -1}
	}
	if top {
		return Vec{X: -dh, Y: dx}.Normalized()
	}
	return Vec{X: dh, Y: -dx}.Normalized()
}
