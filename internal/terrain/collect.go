package terrain

import "math"

// CollectGrid is the coarse resource-yield grid. It is sampled once from
// the finished fine grid and afterwards consumed only by CollectResource;
// digs on the fine grid never touch it.
type CollectGrid struct {
	m     Mapper
	kinds []RockKind
}

// newCollectGrid samples each coarse cell from the nearest fine cell.
func newCollectGrid(f *Field) *CollectGrid {
	m := f.m
	g := &CollectGrid{
		m:     m,
		kinds: make([]RockKind, m.CollectWide*m.CollectHigh),
	}
	for y := 0; y < m.CollectHigh; y++ {
		for x := 0; x < m.CollectWide; x++ {
			c := Cell{X: x, Y: y}
			g.kinds[m.CollectIndex(c)] = f.KindAt(m.CollectToFine(c))
		}
	}
	return g
}

// KindAt returns the remaining kind of a collect cell, or None if out of
// bounds.
func (g *CollectGrid) KindAt(c Cell) RockKind {
	if !g.m.InCollect(c) {
		return None
	}
	return g.kinds[g.m.CollectIndex(c)]
}

// CollectResource consumes every non-empty collect cell whose center lies
// within taxicab distance radius of center, and returns what was consumed.
// The footprint is a diamond.
func (g *CollectGrid) CollectResource(center Vec, radius float64) Counts {
	var counts Counts
	if radius < 0 {
		return counts
	}
	r := Vec{X: radius, Y: radius}
	a, b, ok := g.m.collectRange(center.Sub(r), center.Add(r))
	if !ok {
		return counts
	}

	for y := a.Y; y <= b.Y; y++ {
		for x := a.X; x <= b.X; x++ {
			c := Cell{X: x, Y: y}
			i := g.m.CollectIndex(c)
			k := g.kinds[i]
			if k == None {
				continue
			}
			cc := g.m.CollectCellCenter(c)
			if math.Abs(cc.X-center.X)+math.Abs(cc.Y-center.Y) > radius {
				continue
			}
			counts[k]++
			g.kinds[i] = None
		}
	}
	return counts
}

// Remaining returns the number of collect cells of each kind left.
func (g *CollectGrid) Remaining() Counts {
	var c Counts
	for _, k := range g.kinds {
		c[k]++
	}
	return c
}

// Snapshot returns a copy of the collect grid kinds in row-major order.
func (g *CollectGrid) Snapshot() []RockKind {
	out := make([]RockKind, len(g.kinds))
	copy(out, g.kinds)
	return out
}
