package terrain

import (
	"fmt"
	"math"

	"github.com/vovakirdan/deepfront/internal/config"
)

// Cell is an integer grid coordinate. X increases to the right, Y increases
// upward, matching world space.
type Cell struct {
	X int
	Y int
}

// C is a convenience constructor for Cell.
func C(x, y int) Cell {
	return Cell{X: x, Y: y}
}

// String returns a string representation of the cell.
func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Mapper converts between world positions and cells of the fine and collect
// grids. The world is centered on the origin.
type Mapper struct {
	Width      float64 // World units
	Height     float64 // World units
	Resolution float64 // Fine cells per world unit
	Ratio      int     // Fine cells per collect cell, per axis

	PixelsWide  int
	PixelsHigh  int
	CollectWide int
	CollectHigh int
}

// NewMapper derives grid sizes from the configuration.
func NewMapper(cfg config.GroundConfig) Mapper {
	w, h := cfg.PixelsWide(), cfg.PixelsHigh()
	r := cfg.World.CollectRatio
	return Mapper{
		Width:       cfg.World.Width,
		Height:      cfg.World.Height,
		Resolution:  float64(cfg.World.Resolution),
		Ratio:       r,
		PixelsWide:  w,
		PixelsHigh:  h,
		CollectWide: (w + r - 1) / r,
		CollectHigh: (h + r - 1) / r,
	}
}

// Min returns the world position of the grid's lower-left corner.
func (m Mapper) Min() Vec {
	return Vec{X: -m.Width / 2, Y: -m.Height / 2}
}

// CollectResolution returns collect cells per world unit.
func (m Mapper) CollectResolution() float64 {
	return m.Resolution / float64(m.Ratio)
}

// WorldToFine returns the continuous fine-grid position of p.
func (m Mapper) WorldToFine(p Vec) Vec {
	lo := m.Min()
	return Vec{X: (p.X - lo.X) * m.Resolution, Y: (p.Y - lo.Y) * m.Resolution}
}

// WorldToFineCell returns the fine cell containing p. The result may lie
// outside the grid; see InFine and ClampFine.
func (m Mapper) WorldToFineCell(p Vec) Cell {
	f := m.WorldToFine(p)
	return Cell{X: int(math.Floor(f.X)), Y: int(math.Floor(f.Y))}
}

// FineCellCenter returns the world position of a fine cell's center.
func (m Mapper) FineCellCenter(c Cell) Vec {
	lo := m.Min()
	return Vec{
		X: lo.X + (float64(c.X)+0.5)/m.Resolution,
		Y: lo.Y + (float64(c.Y)+0.5)/m.Resolution,
	}
}

// InFine returns true if the cell is within the fine grid.
func (m Mapper) InFine(c Cell) bool {
	return c.X >= 0 && c.X < m.PixelsWide && c.Y >= 0 && c.Y < m.PixelsHigh
}

// ClampFine restricts a cell to the fine grid.
func (m Mapper) ClampFine(c Cell) Cell {
	return Cell{X: clamp(c.X, 0, m.PixelsWide-1), Y: clamp(c.Y, 0, m.PixelsHigh-1)}
}

// FineIndex converts an in-bounds fine cell to a flat array index.
// Cells are stored in row-major order: index = y*PixelsWide + x.
func (m Mapper) FineIndex(c Cell) int {
	return c.Y*m.PixelsWide + c.X
}

// FineCellAt converts a flat index back to a fine cell.
func (m Mapper) FineCellAt(i int) Cell {
	return Cell{X: i % m.PixelsWide, Y: i / m.PixelsWide}
}

// WorldToCollectCell returns the collect cell containing p, unclamped.
func (m Mapper) WorldToCollectCell(p Vec) Cell {
	lo := m.Min()
	res := m.CollectResolution()
	return Cell{
		X: int(math.Floor((p.X - lo.X) * res)),
		Y: int(math.Floor((p.Y - lo.Y) * res)),
	}
}

// CollectCellCenter returns the world position of a collect cell's center.
func (m Mapper) CollectCellCenter(c Cell) Vec {
	lo := m.Min()
	res := m.CollectResolution()
	return Vec{
		X: lo.X + (float64(c.X)+0.5)/res,
		Y: lo.Y + (float64(c.Y)+0.5)/res,
	}
}

// InCollect returns true if the cell is within the collect grid.
func (m Mapper) InCollect(c Cell) bool {
	return c.X >= 0 && c.X < m.CollectWide && c.Y >= 0 && c.Y < m.CollectHigh
}

// ClampCollect restricts a cell to the collect grid.
func (m Mapper) ClampCollect(c Cell) Cell {
	return Cell{X: clamp(c.X, 0, m.CollectWide-1), Y: clamp(c.Y, 0, m.CollectHigh-1)}
}

// CollectIndex converts an in-bounds collect cell to a flat array index.
func (m Mapper) CollectIndex(c Cell) int {
	return c.Y*m.CollectWide + c.X
}

// CollectToFine returns the fine cell nearest the collect cell's center.
func (m Mapper) CollectToFine(c Cell) Cell {
	return m.ClampFine(Cell{X: c.X*m.Ratio + m.Ratio/2, Y: c.Y*m.Ratio + m.Ratio/2})
}

// FineRange returns the clamped fine-cell rectangle covering [lo, hi].
// ok is false when the rectangle misses the grid entirely.
func (m Mapper) FineRange(lo, hi Vec) (Cell, Cell, bool) {
	a, b := m.WorldToFineCell(lo), m.WorldToFineCell(hi)
	if b.X < 0 || b.Y < 0 || a.X >= m.PixelsWide || a.Y >= m.PixelsHigh {
		return Cell{}, Cell{}, false
	}
	return m.ClampFine(a), m.ClampFine(b), true
}

// collectRange is FineRange for the collect grid.
func (m Mapper) collectRange(lo, hi Vec) (Cell, Cell, bool) {
	a, b := m.WorldToCollectCell(lo), m.WorldToCollectCell(hi)
	if b.X < 0 || b.Y < 0 || a.X >= m.CollectWide || a.Y >= m.CollectHigh {
		return Cell{}, Cell{}, false
	}
	return m.ClampCollect(a), m.ClampCollect(b), true
}
