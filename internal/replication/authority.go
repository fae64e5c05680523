package replication

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/deepfront/internal/ground"
	"github.com/vovakirdan/deepfront/internal/terrain"
)

// Authority is the single writer of a match. It applies commands in one
// order, stamps each result with a sequence number and the current tick,
// and broadcasts the delta to every peer.
type Authority struct {
	id      MatchID
	ground  *ground.Ground
	journal Journal
	logger  *log.Logger

	mu    sync.Mutex
	seq   uint64
	peers map[PeerID]Peer
	order []PeerID
}

// AuthorityOption configures an Authority.
type AuthorityOption func(*Authority)

// WithJournal records every delta to j.
func WithJournal(j Journal) AuthorityOption {
	return func(a *Authority) { a.journal = j }
}

// WithLogger sets the authority's logger.
func WithLogger(l *log.Logger) AuthorityOption {
	return func(a *Authority) {
		if l != nil {
			a.logger = l
		}
	}
}

// NewAuthority wraps an initialized Ground.
func NewAuthority(id MatchID, g *ground.Ground, opts ...AuthorityOption) *Authority {
	a := &Authority{
		id:     id,
		ground: g,
		logger: log.New(io.Discard),
		peers:  make(map[PeerID]Peer),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ID returns the match identifier.
func (a *Authority) ID() MatchID {
	return a.id
}

// Ground returns the authoritative ground. Callers must not mutate it
// directly; dig and collect through Submit.
func (a *Authority) Ground() *ground.Ground {
	return a.ground
}

// Seq returns the sequence number of the last applied delta.
func (a *Authority) Seq() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.seq
}

// AddPeer subscribes a peer to future deltas.
func (a *Authority) AddPeer(p Peer) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.peers[p.ID()]; !ok {
		a.order = append(a.order, p.ID())
	}
	a.peers[p.ID()] = p
}

// RemovePeer unsubscribes a peer.
func (a *Authority) RemovePeer(id PeerID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.removePeerLocked(id)
}

func (a *Authority) removePeerLocked(id PeerID) {
	if _, ok := a.peers[id]; !ok {
		return
	}
	delete(a.peers, id)
	for i, o := range a.order {
		if o == id {
			a.order = append(a.order[:i], a.order[i+1:]...)
			break
		}
	}
}

// PeerCount returns the number of subscribed peers.
func (a *Authority) PeerCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.peers)
}

// Submit applies a command immediately and returns its delta. A journal
// failure is returned alongside the delta, since the mutation has already
// happened.
func (a *Authority) Submit(cmd Command) (Delta, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.applyLocked(cmd)
}

func (a *Authority) applyLocked(cmd Command) (Delta, error) {
	header := DeltaHeader{Seq: a.seq + 1, Tick: a.ground.Vision().Tick()}

	var d Delta
	switch c := cmd.(type) {
	case DigCommand:
		shape, err := c.Shape.Shape()
		if err != nil {
			return nil, fmt.Errorf("replication: dig: %w", err)
		}
		counts := a.ground.DigShape(shape)
		d = DigApplied{DeltaHeader: header, Actor: c.Actor, Shape: c.Shape, Counts: counts}
	case CollectCommand:
		counts := a.ground.CollectResource(c.Center, c.Radius)
		d = CollectApplied{DeltaHeader: header, Actor: c.Actor, Center: c.Center, Radius: c.Radius, Counts: counts}
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownCommand, cmd)
	}
	a.seq = header.Seq

	a.broadcastLocked(d)

	if a.journal != nil {
		data, err := EncodeDelta(a.id, d)
		if err == nil {
			err = a.journal.SaveDelta(data)
		}
		if err != nil {
			a.logger.Warn("could not journal delta", "seq", header.Seq, "error", err)
			return d, fmt.Errorf("replication: journal seq %d: %w", header.Seq, err)
		}
	}
	return d, nil
}

func (a *Authority) broadcastLocked(d Delta) {
	for _, id := range append([]PeerID(nil), a.order...) {
		p := a.peers[id]
		select {
		case <-p.Done():
			a.logger.Debug("dropping closed peer", "peer", id)
			a.removePeerLocked(id)
			continue
		default:
		}
		p.Send(d)
	}
}

// Step runs one fog pass. Deltas submitted afterwards carry the new tick.
func (a *Authority) Step() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ground.Advance()
}

// Collect is a convenience wrapper submitting a CollectCommand.
func (a *Authority) Collect(actor string, center terrain.Vec, radius float64) (terrain.Counts, error) {
	d, err := a.Submit(CollectCommand{Actor: actor, Center: center, Radius: radius})
	if d == nil {
		return terrain.Counts{}, err
	}
	return CountsOf(d), err
}

// Dig is a convenience wrapper submitting a DigCommand.
func (a *Authority) Dig(actor string, shape terrain.Shape) (terrain.Counts, error) {
	spec, err := SpecOf(shape)
	if err != nil {
		return terrain.Counts{}, err
	}
	d, err := a.Submit(DigCommand{Actor: actor, Shape: spec})
	if d == nil {
		return terrain.Counts{}, err
	}
	return CountsOf(d), err
}
