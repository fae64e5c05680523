package terrain

// Side identifies one of the two mining fronts.
type Side uint8

const (
	SideTop    Side = iota // Digs downward from the top boundary
	SideBottom             // Digs upward from the bottom boundary
)

// String returns the string representation of a side.
func (s Side) String() string {
	switch s {
	case SideTop:
		return "top"
	case SideBottom:
		return "bottom"
	default:
		return "unknown"
	}
}

// Up returns the direction pointing away from the side's enemy, toward its
// home margin.
func (s Side) Up() Vec {
	if s == SideBottom {
		return Vec{X: 0, Y: -1}
	}
	return Vec{X: 0, Y: 1}
}

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == SideTop {
		return SideBottom
	}
	return SideTop
}

// Region classifies a cell relative to the playable band of its column.
type Region uint8

const (
	RegionAboveTop  Region = iota // Above the top boundary, always empty
	RegionTopMargin               // Grass margin under the top boundary
	RegionInterior                // Excavatable band
	RegionBotMargin               // Grass margin over the bottom boundary
	RegionBelowBot                // Below the bottom boundary, always empty
)

// Outside reports whether the region lies outside the playable band.
func (r Region) Outside() bool {
	return r == RegionAboveTop || r == RegionBelowBot
}

// Home reports whether the region belongs to the side's home margin: its
// grass band and everything beyond its boundary.
func (s Side) Home(r Region) bool {
	switch s {
	case SideTop:
		return r == RegionAboveTop || r == RegionTopMargin
	case SideBottom:
		return r == RegionBelowBot || r == RegionBotMargin
	default:
		return false
	}
}
