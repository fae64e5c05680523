package replication

import "github.com/vovakirdan/deepfront/internal/terrain"

// Command is a mutation request sent to the authority.
type Command interface {
	command()
}

// DigCommand asks the authority to dig a shape.
type DigCommand struct {
	Actor string
	Shape ShapeSpec
}

func (DigCommand) command() {}

// CollectCommand asks the authority to collect resources.
type CollectCommand struct {
	Actor  string
	Center terrain.Vec
	Radius float64
}

func (CollectCommand) command() {}

// DeltaHeader orders deltas. Seq starts at 1 and has no gaps; Tick is the
// number of fog passes completed when the command was applied.
type DeltaHeader struct {
	Seq  uint64 `json:"seq"`
	Tick uint64 `json:"tick"`
}

// Header returns the header.
func (h DeltaHeader) Header() DeltaHeader { return h }

// Delta is the applied result of one command, broadcast by the authority.
type Delta interface {
	Header() DeltaHeader
	delta()
}

// DigApplied records an applied dig.
type DigApplied struct {
	DeltaHeader
	Actor  string         `json:"actor,omitempty"`
	Shape  ShapeSpec      `json:"shape"`
	Counts terrain.Counts `json:"counts"`
}

func (DigApplied) delta() {}

// CollectApplied records an applied collection.
type CollectApplied struct {
	DeltaHeader
	Actor  string         `json:"actor,omitempty"`
	Center terrain.Vec    `json:"center"`
	Radius float64        `json:"radius"`
	Counts terrain.Counts `json:"counts"`
}

func (CollectApplied) delta() {}

// Delta kinds as stored in the journal.
const (
	KindDig     = "dig"
	KindCollect = "collect"
)

// KindOf returns the journal kind of a delta.
func KindOf(d Delta) string {
	switch d.(type) {
	case DigApplied:
		return KindDig
	case CollectApplied:
		return KindCollect
	default:
		return ""
	}
}

// CountsOf returns the counts carried by a delta.
func CountsOf(d Delta) terrain.Counts {
	switch v := d.(type) {
	case DigApplied:
		return v.Counts
	case CollectApplied:
		return v.Counts
	default:
		return terrain.Counts{}
	}
}
