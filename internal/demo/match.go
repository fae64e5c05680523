package demo

import (
	"fmt"
	"io"
	"math"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/deepfront/internal/ground"
	"github.com/vovakirdan/deepfront/internal/replication"
	"github.com/vovakirdan/deepfront/internal/terrain"
	"github.com/vovakirdan/deepfront/internal/vision"
)

// View selects whose fog of war the match is observed through.
type View int

const (
	ViewTop View = iota
	ViewBottom
	ViewBoth // Both sides share vision, as when only bots play
)

// String returns the string representation of a view.
func (v View) String() string {
	switch v {
	case ViewTop:
		return "top"
	case ViewBottom:
		return "bottom"
	case ViewBoth:
		return "both"
	default:
		return "unknown"
	}
}

// ParseView converts a string to a View.
func ParseView(s string) (View, error) {
	switch s {
	case "top":
		return ViewTop, nil
	case "bottom":
		return ViewBottom, nil
	case "both":
		return ViewBoth, nil
	default:
		return ViewTop, fmt.Errorf("demo: unknown view %q", s)
	}
}

// Sees reports whether the observer shares the vision of side.
func (v View) Sees(side terrain.Side) bool {
	switch v {
	case ViewTop:
		return side == terrain.SideTop
	case ViewBottom:
		return side == terrain.SideBottom
	default:
		return true
	}
}

// Player returns the side driven by player input.
func (v View) Player() terrain.Side {
	if v == ViewBottom {
		return terrain.SideBottom
	}
	return terrain.SideTop
}

// Config tunes a match.
type Config struct {
	View View

	// Bot launches a drill for a side every LaunchEvery ticks. Zero
	// disables bots.
	LaunchEvery int
	Bots        [2]bool // Indexed by terrain.Side

	HousesPerSide int
	AimStep       float64 // Radians per aim action
	MaxAim        float64 // Radians either side of straight ahead

	StartGold   float64
	GoldPerCell float64 // Credited per collected gold cell
}

// DefaultConfig returns a watchable bot-versus-bot match seen from the top.
func DefaultConfig() Config {
	return Config{
		View:          ViewTop,
		LaunchEvery:   180,
		Bots:          [2]bool{false, true},
		HousesPerSide: 2,
		AimStep:       math.Pi / 36,
		MaxAim:        math.Pi / 3,
		StartGold:     StartGold,
		GoldPerCell:   1,
	}
}

// State is the match status returned after each step.
type State struct {
	Tick    uint64
	Paused  bool
	Aim     float64 // Radians
	House   int     // Selected launch house of the player side
	Drills  [2]int  // Live drills per side
	Hauls   [2]terrain.Counts
	Lost    [2]int // Drills destroyed per side
	Desyncs int    // Mirror disagreements, if a mirror is attached

	Gold       [2]float64
	Houses     [2]int // Standing houses per side
	HousesLost [2]int
}

// Winner returns the only side with houses left.
func (s State) Winner() (terrain.Side, bool) {
	top, bot := s.Houses[terrain.SideTop], s.Houses[terrain.SideBottom]
	switch {
	case top > 0 && bot == 0:
		return terrain.SideTop, true
	case bot > 0 && top == 0:
		return terrain.SideBottom, true
	}
	return terrain.SideTop, false
}

// Option configures a Match.
type Option func(*Match)

// WithLogger sets the match logger.
func WithLogger(l *log.Logger) Option {
	return func(m *Match) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithMirror replays every delta onto a second ground generated from the
// same seed and counts disagreements in State.Desyncs.
func WithMirror() Option {
	return func(m *Match) { m.mirror = true }
}

// Bots aim this many world units around an enemy house.
const botSpread = 4.0

// Match runs houses and drills for both sides against one authoritative
// ground. It is not safe for concurrent use.
type Match struct {
	auth   *replication.Authority
	ground *ground.Ground
	cfg    Config
	logger *log.Logger
	rng    *rand.Rand
	dt     float64

	houses [2][]*House
	drills []*Drill
	nextID vision.UnitID

	aim    float64
	house  int
	paused bool
	hauls  [2]terrain.Counts
	lost   [2]int

	gold       [2]float64
	housesLost [2]int

	mirror  bool
	replica *replication.Replica
	peer    *replication.ChannelPeer
	desyncs int
}

// New sets up houses on both surfaces and grants the observer's vision.
// The authority's ground must be initialized.
func New(auth *replication.Authority, cfg Config, opts ...Option) (*Match, error) {
	g := auth.Ground()
	if !g.Initialized() {
		return nil, ground.ErrNotInitialized
	}
	rate := g.Config().Vision.TickRate
	if rate <= 0 {
		return nil, fmt.Errorf("demo: tick rate %d must be positive", rate)
	}

	m := &Match{
		auth:   auth,
		ground: g,
		cfg:    cfg,
		logger: log.New(io.Discard),
		rng:    rand.New(rand.NewSource(g.Seed())),
		dt:     1 / float64(rate),
		gold:   [2]float64{cfg.StartGold, cfg.StartGold},
	}
	for _, opt := range opts {
		opt(m)
	}

	if m.mirror {
		if err := m.attachMirror(); err != nil {
			return nil, err
		}
	}

	for _, side := range []terrain.Side{terrain.SideTop, terrain.SideBottom} {
		if cfg.View.Sees(side) {
			g.SetVisionSide(side)
		}
		m.placeHouses(side)
	}
	return m, nil
}

func (m *Match) attachMirror() error {
	mg := ground.New(m.ground.Config())
	if err := mg.Init(m.ground.Seed()); err != nil {
		return fmt.Errorf("demo: mirror: %w", err)
	}
	m.replica = replication.NewReplica(mg)
	m.peer = replication.NewChannelPeer("mirror", 0)
	m.auth.AddPeer(m.peer)
	return nil
}

// placeHouses spreads houses evenly across the side's surface.
func (m *Match) placeHouses(side terrain.Side) {
	n := max(m.cfg.HousesPerSide, 1)
	w := m.ground.Mapper().Width
	top := side == terrain.SideTop
	for i := 0; i < n; i++ {
		x := -w/2 + w*(float64(i)+0.5)/float64(n)
		h := &House{id: m.newID(), side: side, pos: terrain.V(x, m.ground.GetHeightAt(x, top))}
		m.houses[side] = append(m.houses[side], h)
		m.ground.RegisterUnit(h, m.cfg.View.Sees(side))
	}
}

func (m *Match) newID() vision.UnitID {
	m.nextID++
	return m.nextID
}

// Ground returns the authoritative ground.
func (m *Match) Ground() *ground.Ground {
	return m.ground
}

// Config returns the match configuration.
func (m *Match) Config() Config {
	return m.cfg
}

// Houses returns the houses of a side.
func (m *Match) Houses(side terrain.Side) []*House {
	return m.houses[side]
}

// Drills returns the live drills.
func (m *Match) Drills() []*Drill {
	return m.drills
}

// Launch pays DrillCost and sends a drill from a house of side along
// heading. The heading is normalized; a zero heading points straight at
// the enemy.
func (m *Match) Launch(side terrain.Side, house int, heading terrain.Vec) (*Drill, error) {
	hs := m.houses[side]
	if len(hs) == 0 {
		return nil, ErrNoHouse
	}
	if m.gold[side] < DrillCost {
		return nil, fmt.Errorf("%w: %s has %.0f, a drill costs %.0f", ErrNoGold, side, m.gold[side], DrillCost)
	}
	m.gold[side] -= DrillCost

	h := hs[((house%len(hs))+len(hs))%len(hs)]
	if heading.Len() == 0 {
		heading = side.Up().Scale(-1)
	}
	d := newDrill(m.newID(), side, h.pos, heading)
	m.drills = append(m.drills, d)
	m.ground.RegisterUnit(d, m.cfg.View.Sees(side))
	m.logger.Debug("drill launched", "side", side, "id", d.id, "from", h.pos, "heading", d.heading, "gold", m.gold[side])
	return d, nil
}

// AimHeading returns the launch heading of side for an aim angle measured
// from straight down into the ground, positive toward +x.
func AimHeading(side terrain.Side, aim float64) terrain.Vec {
	down := side.Up().Scale(-1)
	return terrain.V(math.Sin(aim), 0).Add(down.Scale(math.Cos(aim)))
}

// Step applies input, runs bots, moves every drill and advances fog by
// one tick.
func (m *Match) Step(in InputFrame) State {
	if in.Has(ActionPause) {
		m.paused = !m.paused
	}
	if m.paused {
		return m.State()
	}

	m.handleInput(in)
	m.runBots()

	for _, d := range m.drills {
		m.stepDrill(d)
	}
	m.collide()
	m.reap()

	m.auth.Step()
	m.syncMirror()
	return m.State()
}

func (m *Match) handleInput(in InputFrame) {
	player := m.cfg.View.Player()
	if in.Has(ActionAimLeft) {
		m.aim = math.Max(m.aim-m.cfg.AimStep, -m.cfg.MaxAim)
	}
	if in.Has(ActionAimRight) {
		m.aim = math.Min(m.aim+m.cfg.AimStep, m.cfg.MaxAim)
	}
	if in.Has(ActionCycleHouse) && len(m.houses[player]) > 0 {
		m.house = (m.house + 1) % len(m.houses[player])
	}
	if in.Has(ActionLaunch) {
		if _, err := m.Launch(player, m.house, AimHeading(player, m.aim)); err != nil {
			m.logger.Debug("launch refused", "side", player, "error", err)
		}
	}
	if in.Has(ActionExplode) {
		for i := len(m.drills) - 1; i >= 0; i-- {
			if d := m.drills[i]; d.side == player && !d.dead {
				d.Explode()
				break
			}
		}
	}
}

// runBots launches one drill per bot side every LaunchEvery ticks, aimed
// near a random enemy house, or at a random point on the enemy surface
// once none are left.
func (m *Match) runBots() {
	if m.cfg.LaunchEvery <= 0 {
		return
	}
	if m.ground.Vision().Tick()%uint64(m.cfg.LaunchEvery) != 0 {
		return
	}
	w := m.ground.Mapper().Width
	for _, side := range []terrain.Side{terrain.SideTop, terrain.SideBottom} {
		if !m.cfg.Bots[side] || len(m.houses[side]) == 0 || m.gold[side] < DrillCost {
			continue
		}
		house := m.rng.Intn(len(m.houses[side]))
		from := m.houses[side][house].pos

		x := (m.rng.Float64() - 0.5) * w
		if enemy := m.houses[side.Opponent()]; len(enemy) > 0 {
			x = enemy[m.rng.Intn(len(enemy))].pos.X + (m.rng.Float64()-0.5)*botSpread
		}
		target := terrain.V(x, m.ground.GetHeightAt(x, side.Opponent() == terrain.SideTop))
		if _, err := m.Launch(side, house, target.Sub(from)); err != nil {
			m.logger.Debug("bot launch refused", "side", side, "error", err)
		}
	}
}

// stepDrill digs and collects around the drill, applies dig damage, then
// moves it.
func (m *Match) stepDrill(d *Drill) {
	if d.dead {
		return
	}
	actor := d.side.String()
	center, r := d.digCenter(), d.digRadius()

	if _, err := m.auth.Dig(actor, terrain.Circle{Center: center, Radius: r}); err != nil {
		m.logger.Warn("dig failed", "drill", d.id, "error", err)
	}
	counts, err := m.auth.Collect(actor, center, r)
	if err != nil {
		m.logger.Warn("collect failed", "drill", d.id, "error", err)
	}
	d.haul = d.haul.Add(counts)
	m.hauls[d.side] = m.hauls[d.side].Add(counts)
	m.gold[d.side] += float64(counts[terrain.Gold]) * m.cfg.GoldPerCell
	d.health -= Damage(counts)

	d.life += m.dt
	d.pos = d.origin.Add(d.heading.Scale(d.life * DrillSpeed))

	if d.health <= 0 || d.outOfBounds(m.ground.Mapper().Height) {
		d.dead = true
	}
}

// collide destroys pairs of enemy drills that touch, then enemy houses a
// live drill has reached.
func (m *Match) collide() {
	lim := CollisionDistance * CollisionDistance
	for i, a := range m.drills {
		for _, b := range m.drills[i+1:] {
			if a.dead || b.dead || a.side == b.side {
				continue
			}
			if terrain.Dist2(a.pos, b.pos) < lim {
				a.dead, b.dead = true, true
				m.logger.Debug("drills collided", "a", a.id, "b", b.id)
			}
		}
	}

	hit := HouseHitDistance * HouseHitDistance
	for _, d := range m.drills {
		if d.dead {
			continue
		}
		for _, h := range m.houses[d.side.Opponent()] {
			if !h.dead && terrain.Dist2(d.pos, h.pos) < hit {
				h.dead = true
				m.gold[d.side] += HouseKillGold
				m.housesLost[h.side]++
				m.logger.Debug("house destroyed", "side", h.side, "id", h.id, "by", d.id)
			}
		}
	}
}

// reap unregisters and drops dead drills and houses.
func (m *Match) reap() {
	for side := range m.houses {
		standing := m.houses[side][:0]
		for _, h := range m.houses[side] {
			if h.dead {
				m.ground.UnregisterUnit(h)
				continue
			}
			standing = append(standing, h)
		}
		clear(m.houses[side][len(standing):])
		m.houses[side] = standing
	}
	if m.house >= len(m.houses[m.cfg.View.Player()]) {
		m.house = 0
	}

	live := m.drills[:0]
	for _, d := range m.drills {
		if !d.dead {
			live = append(live, d)
			continue
		}
		m.ground.UnregisterUnit(d)
		m.lost[d.side]++
		m.logger.Debug("drill destroyed", "side", d.side, "id", d.id, "haul", d.haul)
	}
	clear(m.drills[len(live):])
	m.drills = live
}

// syncMirror applies pending deltas to the mirror ground.
func (m *Match) syncMirror() {
	if m.replica == nil {
		return
	}
	for {
		select {
		case d := <-m.peer.Deltas():
			if err := m.replica.Apply(d); err != nil {
				m.desyncs++
				m.logger.Warn("mirror disagrees", "seq", d.Header().Seq, "error", err)
			}
		default:
			if m.peer.Lagged() {
				m.logger.Warn("mirror fell behind and was dropped")
				m.replica = nil
			}
			return
		}
	}
}

// Mirror returns the mirror replica, or nil when none is attached.
func (m *Match) Mirror() *replication.Replica {
	return m.replica
}

// State returns the current match status.
func (m *Match) State() State {
	s := State{
		Tick:    m.ground.Vision().Tick(),
		Paused:  m.paused,
		Aim:     m.aim,
		House:   m.house,
		Hauls:   m.hauls,
		Lost:    m.lost,
		Desyncs: m.desyncs,

		Gold:       m.gold,
		HousesLost: m.housesLost,
	}
	for _, d := range m.drills {
		s.Drills[d.side]++
	}
	for side, hs := range m.houses {
		s.Houses[side] = len(hs)
	}
	return s
}

// Visible reports whether the observer currently sees a unit.
func (m *Match) Visible(u vision.Unit) bool {
	return m.ground.UnitVisible(u.ID())
}
