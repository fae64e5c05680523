// Package replication serializes terrain mutations into one authoritative
// order and replays them on other hosts.
//
// Terrain is regenerated from the match seed, so only commands and their
// resulting deltas cross the wire. An Authority applies commands to its
// Ground and broadcasts deltas to peers; a Replica applies the same deltas
// to an independently generated Ground and reports divergence.
package replication

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/deepfront/internal/terrain"
)

// MatchID uniquely identifies a match.
type MatchID string

// PeerID identifies a delta subscriber.
type PeerID string

var (
	// ErrDesync is returned when a replica's result differs from the
	// authority's.
	ErrDesync = errors.New("replication: replica diverged from authority")

	// ErrOutOfOrder is returned when a delta arrives with an unexpected
	// sequence number.
	ErrOutOfOrder = errors.New("replication: delta out of order")

	// ErrUnknownShape is returned for shape specs that name no shape.
	ErrUnknownShape = errors.New("replication: unknown shape")

	// ErrUnknownCommand is returned for commands the authority cannot apply.
	ErrUnknownCommand = errors.New("replication: unknown command")
)

// Shape kinds on the wire.
const (
	ShapeCircle  = "circle"
	ShapePolygon = "polygon"
)

// ShapeSpec is the serializable form of a dig shape.
type ShapeSpec struct {
	Kind   string        `json:"kind"`
	Center terrain.Vec   `json:"center"`
	Radius float64       `json:"radius,omitempty"`
	Points []terrain.Vec `json:"points,omitempty"`
}

// CircleSpec describes a circle.
func CircleSpec(center terrain.Vec, radius float64) ShapeSpec {
	return ShapeSpec{Kind: ShapeCircle, Center: center, Radius: radius}
}

// PolygonSpec describes a polygon.
func PolygonSpec(points ...terrain.Vec) ShapeSpec {
	return ShapeSpec{Kind: ShapePolygon, Points: points}
}

// SpecOf converts a shape to its serializable form.
func SpecOf(shape terrain.Shape) (ShapeSpec, error) {
	switch s := shape.(type) {
	case terrain.Circle:
		return CircleSpec(s.Center, s.Radius), nil
	case *terrain.Circle:
		return CircleSpec(s.Center, s.Radius), nil
	case terrain.Polygon:
		return PolygonSpec(s.Points...), nil
	case *terrain.Polygon:
		return PolygonSpec(s.Points...), nil
	default:
		return ShapeSpec{}, fmt.Errorf("%w: %T", ErrUnknownShape, shape)
	}
}

// Shape converts a ShapeSpec back to a dig shape.
func (s ShapeSpec) Shape() (terrain.Shape, error) {
	switch s.Kind {
	case ShapeCircle:
		return terrain.Circle{Center: s.Center, Radius: s.Radius}, nil
	case ShapePolygon:
		pts := make([]terrain.Vec, len(s.Points))
		copy(pts, s.Points)
		return terrain.Polygon{Points: pts}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownShape, s.Kind)
	}
}
