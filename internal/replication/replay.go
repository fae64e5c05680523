package replication

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/deepfront/internal/terrain"
)

// ReplayReport summarizes a journal replay.
type ReplayReport struct {
	Deltas    int
	Ticks     uint64   // Tick of the last delta
	Desyncs   []uint64 // Sequence numbers whose counts disagreed
	Dug       terrain.Counts
	Collected terrain.Counts
}

// Replay decodes journaled deltas and applies them to the replica in
// order, advancing fog to each delta's tick. Desyncs are collected in the
// report; any other failure stops the replay.
func Replay(r *Replica, records []DeltaData) (ReplayReport, error) {
	var rep ReplayReport
	for _, data := range records {
		d, err := DecodeDelta(data)
		if err != nil {
			return rep, err
		}

		err = r.CatchUp(d)
		switch {
		case errors.Is(err, ErrDesync):
			rep.Desyncs = append(rep.Desyncs, data.Seq)
		case err != nil:
			return rep, fmt.Errorf("replication: replay: %w", err)
		}

		rep.Deltas++
		rep.Ticks = d.Header().Tick
		switch v := d.(type) {
		case DigApplied:
			rep.Dug = rep.Dug.Add(v.Counts)
		case CollectApplied:
			rep.Collected = rep.Collected.Add(v.Counts)
		}
	}
	return rep, nil
}
