package terrain_test

import (
	"math"
	"testing"

	"github.com/vovakirdan/deepfront/internal/config"
	"github.com/vovakirdan/deepfront/internal/terrain"
)

func defaultMapper() terrain.Mapper {
	return terrain.NewMapper(config.DefaultGroundConfig())
}

func TestNewMapperSizes(t *testing.T) {
	m := defaultMapper()

	if m.PixelsWide != 640 || m.PixelsHigh != 700 {
		t.Errorf("expected 640x700 fine grid, got %dx%d", m.PixelsWide, m.PixelsHigh)
	}
	if m.CollectWide != 160 || m.CollectHigh != 175 {
		t.Errorf("expected 160x175 collect grid, got %dx%d", m.CollectWide, m.CollectHigh)
	}
}

func TestWorldToFineCell(t *testing.T) {
	m := defaultMapper()

	tests := []struct {
		name   string
		pos    terrain.Vec
		cell   terrain.Cell
		inGrid bool
	}{
		{"lower-left corner", terrain.V(-16, -17.5), terrain.C(0, 0), true},
		{"origin", terrain.V(0, 0), terrain.C(320, 350), true},
		{"upper-right inside", terrain.V(15.99, 17.49), terrain.C(639, 699), true},
		{"right edge is outside", terrain.V(16, 0), terrain.C(640, 350), false},
		{"below grid", terrain.V(0, -20), terrain.C(320, -50), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.WorldToFineCell(tt.pos)
			if got != tt.cell {
				t.Errorf("WorldToFineCell(%v) = %v, want %v", tt.pos, got, tt.cell)
			}
			if m.InFine(got) != tt.inGrid {
				t.Errorf("InFine(%v) = %v, want %v", got, m.InFine(got), tt.inGrid)
			}
		})
	}
}

func TestFineCellCenterRoundTrip(t *testing.T) {
	m := defaultMapper()

	cells := []terrain.Cell{
		terrain.C(0, 0),
		terrain.C(639, 699),
		terrain.C(320, 350),
		terrain.C(17, 503),
	}
	for _, c := range cells {
		center := m.FineCellCenter(c)
		if got := m.WorldToFineCell(center); got != c {
			t.Errorf("center of %v maps back to %v", c, got)
		}
	}

	center := m.FineCellCenter(terrain.C(0, 0))
	if math.Abs(center.X-(-15.975)) > 1e-9 || math.Abs(center.Y-(-17.475)) > 1e-9 {
		t.Errorf("unexpected center of (0,0): %v", center)
	}
}

func TestCollectMapping(t *testing.T) {
	m := defaultMapper()

	if got := m.WorldToCollectCell(terrain.V(0, 0)); got != terrain.C(80, 87) {
		t.Errorf("WorldToCollectCell(origin) = %v, want (80,87)", got)
	}
	if got := m.CollectToFine(terrain.C(0, 0)); got != terrain.C(2, 2) {
		t.Errorf("CollectToFine((0,0)) = %v, want (2,2)", got)
	}

	c := terrain.C(111, 40)
	if got := m.WorldToCollectCell(m.CollectCellCenter(c)); got != c {
		t.Errorf("collect center of %v maps back to %v", c, got)
	}
}

func TestClamping(t *testing.T) {
	m := defaultMapper()

	if got := m.ClampFine(terrain.C(-5, 900)); got != terrain.C(0, 699) {
		t.Errorf("ClampFine = %v, want (0,699)", got)
	}
	if got := m.ClampCollect(terrain.C(500, -1)); got != terrain.C(159, 0) {
		t.Errorf("ClampCollect = %v, want (159,0)", got)
	}
}

func TestFineRange(t *testing.T) {
	m := defaultMapper()

	a, b, ok := m.FineRange(terrain.V(-20, -1), terrain.V(-15.5, 1))
	if !ok {
		t.Fatal("expected range overlapping the left edge")
	}
	if a.X != 0 || b.X != 10 {
		t.Errorf("expected columns 0..10, got %d..%d", a.X, b.X)
	}

	if _, _, ok := m.FineRange(terrain.V(20, 0), terrain.V(25, 1)); ok {
		t.Error("expected range right of the grid to miss")
	}
}
