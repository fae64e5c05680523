// Package ground is the entry point of the simulation core. A Ground owns
// one terrain field, its collect grid and one observer's fog of war, and
// exposes the operations the game layer drives each tick.
//
// Every method other than New, Init and Subscribe panics with
// ErrNotInitialized until Init has succeeded.
package ground

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/deepfront/internal/config"
	"github.com/vovakirdan/deepfront/internal/terrain"
	"github.com/vovakirdan/deepfront/internal/vision"
)

// ErrNotInitialized is the panic value for use before Init.
var ErrNotInitialized = errors.New("ground: not initialized")

// Ground is the terrain and fog-of-war core for one match.
type Ground struct {
	cfg    config.GroundConfig
	logger *log.Logger

	field   *terrain.Field
	collect *terrain.CollectGrid
	vision  *vision.Engine

	listeners []Listener
}

// Option configures a Ground.
type Option func(*Ground)

// WithLogger sets the logger used for lifecycle and mutation logs.
func WithLogger(l *log.Logger) Option {
	return func(g *Ground) {
		if l != nil {
			g.logger = l
		}
	}
}

// New creates an uninitialized Ground.
func New(cfg config.GroundConfig, opts ...Option) *Ground {
	g := &Ground{
		cfg:    cfg,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// NewSeed returns a random seed for matches without a fixed one.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("ground: read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// Init generates the terrain for seed and resets visibility. Calling Init
// again starts a new match; registered units are dropped.
func (g *Ground) Init(seed int64) error {
	field, collect, err := terrain.Generate(g.cfg, seed)
	if err != nil {
		return fmt.Errorf("ground: init: %w", err)
	}
	g.field = field
	g.collect = collect
	g.vision = vision.New(field, g.cfg.Vision)

	m := field.Mapper()
	g.logger.Info("terrain generated",
		"seed", seed,
		"fine", fmt.Sprintf("%dx%d", m.PixelsWide, m.PixelsHigh),
		"collect", fmt.Sprintf("%dx%d", m.CollectWide, m.CollectHigh),
	)
	g.logger.Debug("terrain composition", "counts", field.Counts().String())

	g.emit(InitEvent{Seed: seed})
	return nil
}

// Initialized reports whether Init has succeeded.
func (g *Ground) Initialized() bool {
	return g.field != nil
}

func (g *Ground) mustInit() {
	if g.field == nil {
		panic(ErrNotInitialized)
	}
}

// Config returns the configuration the ground was created with.
func (g *Ground) Config() config.GroundConfig {
	return g.cfg
}

// Seed returns the seed of the current match.
func (g *Ground) Seed() int64 {
	g.mustInit()
	return g.field.Seed()
}

// Mapper returns the coordinate mapper of the current match.
func (g *Ground) Mapper() terrain.Mapper {
	g.mustInit()
	return g.field.Mapper()
}

// Field returns the authoritative fine grid.
func (g *Ground) Field() *terrain.Field {
	g.mustInit()
	return g.field
}

// Collect returns the collect grid.
func (g *Ground) Collect() *terrain.CollectGrid {
	g.mustInit()
	return g.collect
}

// Vision returns the fog-of-war engine.
func (g *Ground) Vision() *vision.Engine {
	g.mustInit()
	return g.vision
}

// RegisterUnit starts tracking u for the fog pass.
func (g *Ground) RegisterUnit(u vision.Unit, pov bool) {
	g.mustInit()
	g.vision.RegisterUnit(u, pov)
	g.logger.Debug("unit registered", "id", u.ID(), "pov", pov)
}

// UnregisterUnit stops tracking u.
func (g *Ground) UnregisterUnit(u vision.Unit) {
	g.mustInit()
	g.vision.UnregisterUnit(u)
	g.logger.Debug("unit unregistered", "id", u.ID())
}

// SetVisionSide grants side permanent vision over its home margin.
func (g *Ground) SetVisionSide(side terrain.Side) {
	g.mustInit()
	g.vision.SetVisionSide(side)
	g.logger.Debug("vision side granted", "side", side)
}

// DigShape removes every non-empty cell covered by shape and returns the
// removed counts per kind.
func (g *Ground) DigShape(shape terrain.Shape) terrain.Counts {
	g.mustInit()
	counts := g.field.DigShape(shape)
	if counts.Total() > 0 {
		g.logger.Debug("dig", "cells", counts.Total(), "counts", counts.String())
	}
	g.emit(DigEvent{Shape: shape, Counts: counts})
	return counts
}

// CollectResource consumes the collect cells within taxicab distance radius
// of center and returns the consumed counts per kind.
func (g *Ground) CollectResource(center terrain.Vec, radius float64) terrain.Counts {
	g.mustInit()
	counts := g.collect.CollectResource(center, radius)
	if counts.Total() > 0 {
		g.logger.Debug("collect", "cells", counts.Total(), "counts", counts.String())
	}
	g.emit(CollectEvent{Center: center, Radius: radius, Counts: counts})
	return counts
}

// GetHeightAt returns the world y of the top or bottom boundary at worldX.
func (g *Ground) GetHeightAt(worldX float64, top bool) float64 {
	g.mustInit()
	return g.field.HeightAt(worldX, top)
}

// GetNormalAt returns the unit normal of the top or bottom boundary at
// worldX, facing away from the band.
func (g *Ground) GetNormalAt(worldX float64, top bool) terrain.Vec {
	g.mustInit()
	return g.field.NormalAt(worldX, top)
}

// GetRockKindAt returns the live rock kind at a world position, or None
// outside the grid.
func (g *Ground) GetRockKindAt(pos terrain.Vec) terrain.RockKind {
	g.mustInit()
	return g.field.KindAtWorld(pos)
}

// Advance runs one fog pass.
func (g *Ground) Advance() {
	g.mustInit()
	g.vision.Advance()
	g.emit(AdvanceEvent{Tick: g.vision.Tick()})
}

// TerrainSnapshot returns the live kinds and densities.
func (g *Ground) TerrainSnapshot() terrain.TerrainSnapshot {
	g.mustInit()
	return g.field.Snapshot()
}

// RenderedSnapshot returns the terrain as the observer should draw it.
func (g *Ground) RenderedSnapshot() terrain.TerrainSnapshot {
	g.mustInit()
	return g.vision.RenderedSnapshot()
}

// FogSnapshot returns the fog state per cell.
func (g *Ground) FogSnapshot() vision.FogSnapshot {
	g.mustInit()
	return g.vision.FogSnapshot()
}

// HiddenSnapshot returns the dug-but-hidden flags per cell.
func (g *Ground) HiddenSnapshot() []bool {
	g.mustInit()
	return g.vision.HiddenSnapshot()
}

// RenderedKindAt returns the kind the observer should see at a cell.
func (g *Ground) RenderedKindAt(c terrain.Cell) terrain.RockKind {
	g.mustInit()
	return g.vision.RenderedKindAt(c)
}

// UnitVisible reports whether a registered unit was visible after the last
// fog pass.
func (g *Ground) UnitVisible(id vision.UnitID) bool {
	g.mustInit()
	return g.vision.UnitVisible(id)
}
