package vision

import "github.com/vovakirdan/deepfront/internal/terrain"

// UnitID identifies a registered unit.
type UnitID uint64

// Unit is an observed entity owned by the game layer. The engine reads it
// through this interface on every pass and never retains it past
// UnregisterUnit.
type Unit interface {
	ID() UnitID
	Position() terrain.Vec
	VisionRadius() float64 // World units
	Immobile() bool        // Buildings stay visible once seen
}

// registration is the engine's view of one registered unit.
type registration struct {
	unit    Unit
	pov     bool
	visible bool
	latched bool // Immobile and seen; no longer evaluated
}

// registry keeps units in registration order so passes are reproducible.
type registry struct {
	byID  map[UnitID]*registration
	order []UnitID
}

func newRegistry() registry {
	return registry{byID: make(map[UnitID]*registration)}
}

// add registers u or updates its POV flag if already present.
func (r *registry) add(u Unit, pov bool) {
	if reg, ok := r.byID[u.ID()]; ok {
		reg.unit = u
		reg.pov = pov
		return
	}
	r.byID[u.ID()] = &registration{unit: u, pov: pov}
	r.order = append(r.order, u.ID())
}

// remove drops the unit with the given id. Unknown ids are ignored.
func (r *registry) remove(id UnitID) {
	if _, ok := r.byID[id]; !ok {
		return
	}
	delete(r.byID, id)
	for i, o := range r.order {
		if o == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// each visits registrations in registration order.
func (r *registry) each(fn func(*registration)) {
	for _, id := range r.order {
		fn(r.byID[id])
	}
}
