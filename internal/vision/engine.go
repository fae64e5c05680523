// Package vision computes per-observer fog of war over a terrain field.
//
// Each Advance recomputes the fog from scratch: every cell that is not
// permanently visible falls back to Fog, then every POV unit stamps a vision
// disc whose edge wobbles with time. Digs that happen under fog are recorded
// as hidden so the observer keeps seeing the terrain as it was when last
// seen, until vision returns to that cell.
package vision

import (
	"github.com/vovakirdan/deepfront/internal/config"
	"github.com/vovakirdan/deepfront/internal/terrain"
)

// FogState is the visibility of one fine cell.
type FogState uint8

const (
	Fog      FogState = iota // Not currently observed
	NoFog                    // Inside a POV unit's vision this tick
	NeverFog                 // Permanently visible
)

// String returns the string representation of a fog state.
func (s FogState) String() string {
	switch s {
	case Fog:
		return "fog"
	case NoFog:
		return "nofog"
	case NeverFog:
		return "neverfog"
	default:
		return "unknown"
	}
}

// Engine is one observer's visibility state over a field.
type Engine struct {
	field *terrain.Field
	m     terrain.Mapper
	cfg   config.VisionConfig
	edge  *edgeNoise

	fog     []FogState
	scratch []FogState
	hidden  []bool
	shown   []terrain.RockKind // Kind shown while hidden
	shownD  []float64          // Density shown while hidden

	units registry
	sides [2]bool
	tick  uint64
}

// New creates an engine over field and subscribes it to the field's digs.
// Cells outside the playable band start as NeverFog, everything else as Fog.
func New(field *terrain.Field, cfg config.VisionConfig) *Engine {
	m := field.Mapper()
	n := m.PixelsWide * m.PixelsHigh
	e := &Engine{
		field:   field,
		m:       m,
		cfg:     cfg,
		edge:    newEdgeNoise(cfg, field.Seed()),
		fog:     make([]FogState, n),
		scratch: make([]FogState, n),
		hidden:  make([]bool, n),
		shown:   make([]terrain.RockKind, n),
		shownD:  make([]float64, n),
		units:   newRegistry(),
	}

	for i := range e.fog {
		if field.RegionAt(m.FineCellAt(i)).Outside() {
			e.fog[i] = NeverFog
		}
	}

	field.Subscribe(e)
	return e
}

// OnDig implements terrain.DigListener. Cells dug while fogged keep showing
// their prior contents until they are seen again.
func (e *Engine) OnDig(cells []terrain.DugCell) {
	for _, d := range cells {
		i := e.m.FineIndex(d.Cell)
		if e.fog[i] != Fog || e.hidden[i] {
			continue
		}
		e.hidden[i] = true
		e.shown[i] = d.Prior
		e.shownD[i] = d.Density
	}
}

// RegisterUnit starts tracking u. POV units reveal terrain; the others are
// only judged visible or not. Registering again updates the POV flag.
func (e *Engine) RegisterUnit(u Unit, pov bool) {
	e.units.add(u, pov)
}

// UnregisterUnit stops tracking u.
func (e *Engine) UnregisterUnit(u Unit) {
	e.units.remove(u.ID())
}

// SetVisionSide grants side permanent vision over its home margin: its grass
// band and everything beyond its boundary.
func (e *Engine) SetVisionSide(side terrain.Side) {
	if int(side) >= len(e.sides) || e.sides[side] {
		return
	}
	e.sides[side] = true
	for i := range e.fog {
		if side.Home(e.field.RegionAt(e.m.FineCellAt(i))) {
			e.fog[i] = NeverFog
			e.hidden[i] = false
		}
	}
}

// Tick returns the number of completed passes.
func (e *Engine) Tick() uint64 {
	return e.tick
}

// Time returns the simulation time in seconds.
func (e *Engine) Time() float64 {
	return float64(e.tick) / float64(e.cfg.TickRate)
}

// Advance runs one fog pass. The new state becomes visible to readers only
// once the whole pass is complete.
func (e *Engine) Advance() {
	for i, s := range e.fog {
		if s == NeverFog {
			e.scratch[i] = NeverFog
		} else {
			e.scratch[i] = Fog
		}
	}

	t := e.Time()
	e.units.each(func(r *registration) {
		if r.pov {
			e.stamp(r.unit.Position(), r.unit.VisionRadius(), t)
		}
	})

	e.fog, e.scratch = e.scratch, e.fog
	e.updateUnits()
	e.tick++
}

// stamp reveals a wobbling disc around pos into the scratch buffer.
func (e *Engine) stamp(pos terrain.Vec, radius, t float64) {
	if radius <= 0 {
		return
	}
	reach := radius * e.edge.maxFactor()
	span := terrain.Vec{X: reach, Y: reach}
	a, b, ok := e.m.FineRange(pos.Sub(span), pos.Add(span))
	if !ok {
		return
	}
	row := e.m.WorldToFineCell(pos).Y

	for y := a.Y; y <= b.Y; y++ {
		r := radius * e.edge.factor(t, y-row)
		for x := a.X; x <= b.X; x++ {
			c := terrain.Cell{X: x, Y: y}
			if !terrain.PointInCircle(e.m.FineCellCenter(c), pos, r) {
				continue
			}
			i := e.m.FineIndex(c)
			if e.scratch[i] == NeverFog {
				continue
			}
			e.scratch[i] = NoFog
			e.hidden[i] = false
		}
	}
}

// updateUnits recomputes visibility of every registered unit.
func (e *Engine) updateUnits() {
	e.units.each(func(r *registration) {
		switch {
		case r.pov:
			r.visible = true
		case r.latched:
			// Seen buildings stay seen.
		default:
			r.visible = e.judge(r.unit)
			if r.visible && r.unit.Immobile() {
				r.latched = true
			}
		}
	})
}

// judge decides whether a non-POV unit is visible this tick.
func (e *Engine) judge(u Unit) bool {
	pos := u.Position()
	state := e.FogAt(e.m.WorldToFineCell(pos))
	if state == NeverFog {
		return true
	}
	if e.cfg.UnitRule == config.UnitRuleDistance {
		seen := false
		e.units.each(func(r *registration) {
			if seen || !r.pov {
				return
			}
			seen = terrain.PointInCircle(pos, r.unit.Position(), r.unit.VisionRadius())
		})
		return seen
	}
	return state == NoFog
}

// UnitVisible reports whether the unit was visible after the last pass.
// Unknown units are not visible.
func (e *Engine) UnitVisible(id UnitID) bool {
	r, ok := e.units.byID[id]
	return ok && r.visible
}

// FogAt returns the fog state of a cell, or Fog if out of bounds.
func (e *Engine) FogAt(c terrain.Cell) FogState {
	if !e.m.InFine(c) {
		return Fog
	}
	return e.fog[e.m.FineIndex(c)]
}

// HiddenAt reports whether a cell was dug while fogged and has not been
// seen since.
func (e *Engine) HiddenAt(c terrain.Cell) bool {
	if !e.m.InFine(c) {
		return false
	}
	return e.hidden[e.m.FineIndex(c)]
}

// RenderedKindAt returns the kind the observer should see at a cell: the
// last seen kind for hidden digs, the live kind otherwise. Out of bounds is
// None.
func (e *Engine) RenderedKindAt(c terrain.Cell) terrain.RockKind {
	if !e.m.InFine(c) {
		return terrain.None
	}
	i := e.m.FineIndex(c)
	if e.hidden[i] {
		return e.shown[i]
	}
	return e.field.KindAt(c)
}

// FogSnapshot is a read-only copy of the fog grid.
type FogSnapshot struct {
	W      int
	H      int
	States []FogState
}

// Get returns the state at (x, y), or Fog if out of bounds.
func (s FogSnapshot) Get(x, y int) FogState {
	if x < 0 || x >= s.W || y < 0 || y >= s.H {
		return Fog
	}
	return s.States[y*s.W+x]
}

// FogSnapshot returns a copy of the current fog grid.
func (e *Engine) FogSnapshot() FogSnapshot {
	states := make([]FogState, len(e.fog))
	copy(states, e.fog)
	return FogSnapshot{W: e.m.PixelsWide, H: e.m.PixelsHigh, States: states}
}

// HiddenSnapshot returns a copy of the dug-but-hidden flags in row-major
// order.
func (e *Engine) HiddenSnapshot() []bool {
	out := make([]bool, len(e.hidden))
	copy(out, e.hidden)
	return out
}

// RenderedSnapshot returns the terrain as this observer should draw it.
func (e *Engine) RenderedSnapshot() terrain.TerrainSnapshot {
	s := e.field.Snapshot()
	for i, h := range e.hidden {
		if h {
			s.Kinds[i] = e.shown[i]
			s.Density[i] = e.shownD[i]
		}
	}
	return s
}
