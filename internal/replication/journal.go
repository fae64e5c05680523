package replication

import (
	"encoding/json"
	"fmt"
)

// DeltaData is the storage-neutral form of a delta.
type DeltaData struct {
	MatchID string
	Seq     uint64
	Tick    uint64
	Kind    string
	Payload []byte // JSON
	Cells   int    // Total cells removed or collected
}

// Journal persists deltas in sequence order. It lets the authority record
// a match without depending on a storage backend.
type Journal interface {
	SaveDelta(data DeltaData) error
}

// EncodeDelta converts a delta to its storage form.
func EncodeDelta(match MatchID, d Delta) (DeltaData, error) {
	kind := KindOf(d)
	if kind == "" {
		return DeltaData{}, fmt.Errorf("replication: encode: unknown delta %T", d)
	}
	payload, err := json.Marshal(d)
	if err != nil {
		return DeltaData{}, fmt.Errorf("replication: encode seq %d: %w", d.Header().Seq, err)
	}
	h := d.Header()
	return DeltaData{
		MatchID: string(match),
		Seq:     h.Seq,
		Tick:    h.Tick,
		Kind:    kind,
		Payload: payload,
		Cells:   CountsOf(d).Total(),
	}, nil
}

// DecodeDelta restores a delta from its storage form.
func DecodeDelta(data DeltaData) (Delta, error) {
	switch data.Kind {
	case KindDig:
		var d DigApplied
		if err := json.Unmarshal(data.Payload, &d); err != nil {
			return nil, fmt.Errorf("replication: decode dig seq %d: %w", data.Seq, err)
		}
		return d, nil
	case KindCollect:
		var d CollectApplied
		if err := json.Unmarshal(data.Payload, &d); err != nil {
			return nil, fmt.Errorf("replication: decode collect seq %d: %w", data.Seq, err)
		}
		return d, nil
	default:
		return nil, fmt.Errorf("replication: decode seq %d: unknown kind %q", data.Seq, data.Kind)
	}
}
