// Package terrain provides the deterministic rock field: generation from a
// seed, the fine dig grid, the coarse collect grid and coordinate mapping.
// This package is UI-agnostic and holds no references to units.
package terrain

import (
	"fmt"
	"strings"
)

// RockKind is the material of one terrain cell.
type RockKind uint8

const (
	None RockKind = iota // Empty, dug, or outside the playable band
	Dirt
	Grass
	Gold
	Hardrock
	RockVariant3
	RockVariant4
	NumRockKinds // Sentinel value for iteration
)

// String returns the string representation of a rock kind.
func (k RockKind) String() string {
	switch k {
	case None:
		return "none"
	case Dirt:
		return "dirt"
	case Grass:
		return "grass"
	case Gold:
		return "gold"
	case Hardrock:
		return "hardrock"
	case RockVariant3:
		return "rock3"
	case RockVariant4:
		return "rock4"
	default:
		return "unknown"
	}
}

// Char returns a single character representation for ASCII rendering.
func (k RockKind) Char() rune {
	switch k {
	case None:
		return ' '
	case Dirt:
		return '.'
	case Grass:
		return '"'
	case Gold:
		return '$'
	case Hardrock:
		return '#'
	case RockVariant3:
		return '%'
	case RockVariant4:
		return '&'
	default:
		return '?'
	}
}

// ParseRockKind converts a string to a RockKind.
func ParseRockKind(s string) (RockKind, error) {
	switch strings.ToLower(s) {
	case "none":
		return None, nil
	case "dirt":
		return Dirt, nil
	case "grass":
		return Grass, nil
	case "gold":
		return Gold, nil
	case "hardrock":
		return Hardrock, nil
	case "rock3", "rockvariant3":
		return RockVariant3, nil
	case "rock4", "rockvariant4":
		return RockVariant4, nil
	default:
		return None, fmt.Errorf("terrain: unknown rock kind %q", s)
	}
}

// Special reports whether the kind is placed by a noise field rather than
// by the band layout.
func (k RockKind) Special() bool {
	return k >= Gold && k < NumRockKinds
}

// Counts holds one count per rock kind, indexed by ordinal.
type Counts [NumRockKinds]int

// Total returns the sum over all kinds.
func (c Counts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// Add returns the element-wise sum of two counts.
func (c Counts) Add(other Counts) Counts {
	for i := range c {
		c[i] += other[i]
	}
	return c
}

// String lists the non-zero entries, e.g. "dirt=12 gold=3".
func (c Counts) String() string {
	var parts []string
	for k, n := range c {
		if n != 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", RockKind(k), n))
		}
	}
	if len(parts) == 0 {
		return "(none)"
	}
	return strings.Join(parts, " ")
}
