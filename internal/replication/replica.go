package replication

import (
	"fmt"

	"github.com/vovakirdan/deepfront/internal/ground"
	"github.com/vovakirdan/deepfront/internal/terrain"
)

// Replica applies authoritative deltas to a locally generated Ground and
// checks that every result matches.
type Replica struct {
	ground *ground.Ground
	last   uint64
}

// NewReplica wraps a Ground initialized with the match seed.
func NewReplica(g *ground.Ground) *Replica {
	return &Replica{ground: g}
}

// Ground returns the replica's ground.
func (r *Replica) Ground() *ground.Ground {
	return r.ground
}

// Last returns the sequence number of the last applied delta.
func (r *Replica) Last() uint64 {
	return r.last
}

// Apply re-runs a delta. Deltas must arrive in sequence order. A count
// mismatch means the two hosts no longer agree and returns ErrDesync; the
// delta is still considered applied.
func (r *Replica) Apply(d Delta) error {
	h := d.Header()
	if h.Seq != r.last+1 {
		return fmt.Errorf("%w: got seq %d, want %d", ErrOutOfOrder, h.Seq, r.last+1)
	}

	var got, want terrain.Counts
	switch v := d.(type) {
	case DigApplied:
		shape, err := v.Shape.Shape()
		if err != nil {
			return fmt.Errorf("replication: apply seq %d: %w", h.Seq, err)
		}
		got, want = r.ground.DigShape(shape), v.Counts
	case CollectApplied:
		got, want = r.ground.CollectResource(v.Center, v.Radius), v.Counts
	default:
		return fmt.Errorf("replication: apply seq %d: unknown delta %T", h.Seq, d)
	}
	r.last = h.Seq

	if got != want {
		return fmt.Errorf("%w: seq %d yielded %v, authority %v", ErrDesync, h.Seq, got, want)
	}
	return nil
}

// CatchUp runs fog passes until the replica reaches the delta's tick, then
// applies it. Used to replay a match with the same fog timing.
func (r *Replica) CatchUp(d Delta) error {
	for r.ground.Vision().Tick() < d.Header().Tick {
		r.ground.Advance()
	}
	return r.Apply(d)
}
