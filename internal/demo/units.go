// Package demo drives a small two-sided digging match on top of the ground
// core: houses launch drills that tunnel toward the enemy, haul resources
// and take damage from hard rock. It exists to exercise the core end to end
// and has no terminal dependencies.
package demo

import (
	"errors"
	"math"

	"github.com/vovakirdan/deepfront/internal/terrain"
	"github.com/vovakirdan/deepfront/internal/vision"
)

// Drill and house tuning.
const (
	RockValue      = 0.01 // Health lost per collected cell, before kind multipliers
	GoldDamage     = 0.7
	HardrockDamage = 3.0

	DrillSpeed    = 1.0 // World units per second
	DrillVision   = 2.5
	DigRadius     = 1.0
	ExplodeRadius = 4.0
	digOffset     = 0.5 // Dig center trails the drill by this much

	// A drill dies once |y| exceeds this fraction of the world height.
	OutOfBoundsFactor = 0.7

	HouseVision = 5.0

	// Two drills of opposite sides closer than this destroy each other.
	CollisionDistance = 0.5

	// A drill closer than this to an enemy house destroys it.
	HouseHitDistance = 1.0
)

// Economy, per side.
const (
	StartGold     = 100.0
	DrillCost     = 20.0
	HouseKillGold = 50.0 // Paid to the side whose drill destroys a house
)

var (
	// ErrNoGold is returned when a side cannot pay for a drill.
	ErrNoGold = errors.New("demo: not enough gold")

	// ErrNoHouse is returned when a side has no house left to launch from.
	ErrNoHouse = errors.New("demo: no house left")
)

// Drill tunnels in a straight line from its launch point.
type Drill struct {
	id        vision.UnitID
	side      terrain.Side
	origin    terrain.Vec
	pos       terrain.Vec
	heading   terrain.Vec
	life      float64 // Seconds since launch
	health    float64
	exploding bool
	dead      bool
	haul      terrain.Counts
}

func newDrill(id vision.UnitID, side terrain.Side, origin, heading terrain.Vec) *Drill {
	return &Drill{
		id:      id,
		side:    side,
		origin:  origin,
		pos:     origin,
		heading: heading.Normalized(),
		health:  1,
	}
}

func (d *Drill) ID() vision.UnitID      { return d.id }
func (d *Drill) Position() terrain.Vec  { return d.pos }
func (d *Drill) VisionRadius() float64  { return DrillVision }
func (d *Drill) Immobile() bool         { return false }
func (d *Drill) Side() terrain.Side     { return d.side }
func (d *Drill) Heading() terrain.Vec   { return d.heading }
func (d *Drill) Health() float64        { return d.health }
func (d *Drill) Dead() bool             { return d.dead }
func (d *Drill) Exploding() bool        { return d.exploding }
func (d *Drill) Haul() terrain.Counts   { return d.haul }
func (d *Drill) digCenter() terrain.Vec { return d.pos.Sub(d.heading.Scale(digOffset)) }
func (d *Drill) outOfBounds(h float64) bool {
	return math.Abs(d.pos.Y) > h*OutOfBoundsFactor
}

// digRadius is the radius of this tick's dig and collect.
func (d *Drill) digRadius() float64 {
	if d.exploding {
		return ExplodeRadius
	}
	return DigRadius
}

// Explode makes the drill dig a wide crater on its next tick and die.
func (d *Drill) Explode() {
	if d.dead {
		return
	}
	d.exploding = true
	d.health = 0
}

// Damage returns the health lost for collecting counts.
func Damage(counts terrain.Counts) float64 {
	dmg := float64(counts[terrain.Gold]) * RockValue * GoldDamage
	dmg += float64(counts[terrain.Hardrock]) * RockValue * HardrockDamage
	return dmg
}

// House is an immobile building drills are launched from. Enemy drills
// destroy it on contact.
type House struct {
	id   vision.UnitID
	side terrain.Side
	pos  terrain.Vec
	dead bool
}

func (h *House) ID() vision.UnitID     { return h.id }
func (h *House) Position() terrain.Vec { return h.pos }
func (h *House) VisionRadius() float64 { return HouseVision }
func (h *House) Immobile() bool        { return true }
func (h *House) Side() terrain.Side    { return h.side }
func (h *House) Dead() bool            { return h.dead }
