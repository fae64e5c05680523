package terrain_test

import (
	"math"
	"testing"

	"github.com/vovakirdan/deepfront/internal/terrain"
)

// coveredCells lists the non-empty cells whose centers lie inside shape.
func coveredCells(f *terrain.Field, shape terrain.Shape) map[terrain.Cell]terrain.RockKind {
	m := f.Mapper()
	out := make(map[terrain.Cell]terrain.RockKind)
	for y := 0; y < m.PixelsHigh; y++ {
		for x := 0; x < m.PixelsWide; x++ {
			c := terrain.C(x, y)
			if k := f.KindAt(c); k != terrain.None && shape.Contains(m.FineCellCenter(c)) {
				out[c] = k
			}
		}
	}
	return out
}

func TestDigShapeYieldConservation(t *testing.T) {
	shapes := []struct {
		name  string
		shape terrain.Shape
	}{
		{"circle at origin", terrain.Circle{Center: terrain.V(0, 0), Radius: 1}},
		{"circle across grass", terrain.Circle{Center: terrain.V(3, 12.5), Radius: 2.5}},
		{"rect", terrain.Rect(terrain.V(-4, -2), terrain.V(-1, 3))},
		{"triangle", terrain.Polygon{Points: []terrain.Vec{{X: 2, Y: -6}, {X: 8, Y: -6}, {X: 5, Y: 0}}}},
		{"circle clipped at corner", terrain.Circle{Center: terrain.V(-16, -17.5), Radius: 3}},
		{"circle off grid", terrain.Circle{Center: terrain.V(40, 40), Radius: 2}},
	}

	for _, tt := range shapes {
		t.Run(tt.name, func(t *testing.T) {
			f, _ := mustGenerate(t, 7)
			before := coveredCells(f, tt.shape)

			var want terrain.Counts
			for _, k := range before {
				want[k]++
			}

			got := f.DigShape(tt.shape)
			if got != want {
				t.Errorf("DigShape counts = %v, want %v", got, want)
			}
			if got.Total() != len(before) {
				t.Errorf("total %d, want %d", got.Total(), len(before))
			}
			for c := range before {
				if k := f.KindAt(c); k != terrain.None {
					t.Fatalf("%v still holds %v after dig", c, k)
				}
			}
		})
	}
}

func TestDigShapeScenarioNonEmpty(t *testing.T) {
	f, _ := mustGenerate(t, 7)

	counts := f.DigShape(terrain.Circle{Center: terrain.V(0, 0), Radius: 1})
	if counts.Total() == 0 {
		t.Fatal("expected a dig at the origin to remove rock")
	}
	if counts[terrain.None] != 0 {
		t.Errorf("None must never be counted, got %d", counts[terrain.None])
	}
}

func TestDigShapeIrreversible(t *testing.T) {
	f, _ := mustGenerate(t, 7)
	circle := terrain.Circle{Center: terrain.V(1, 1), Radius: 1.5}

	first := f.DigShape(circle)
	if first.Total() == 0 {
		t.Fatal("expected first dig to remove rock")
	}
	dug := coveredCells(f, circle)
	if len(dug) != 0 {
		t.Fatalf("expected no rock left in circle, found %d cells", len(dug))
	}

	second := f.DigShape(circle)
	if second.Total() != 0 {
		t.Errorf("second dig yielded %v", second)
	}

	// A larger overlapping dig only counts the ring around the first hole.
	bigger := terrain.Circle{Center: terrain.V(1, 1), Radius: 2}
	ring := coveredCells(f, bigger)
	if got := f.DigShape(bigger).Total(); got != len(ring) {
		t.Errorf("overlapping dig counted %d, want %d", got, len(ring))
	}

	m := f.Mapper()
	a, b, _ := m.FineRange(bigger.Bounds())
	for y := a.Y; y <= b.Y; y++ {
		for x := a.X; x <= b.X; x++ {
			c := terrain.C(x, y)
			if bigger.Contains(m.FineCellCenter(c)) && f.KindAt(c) != terrain.None {
				t.Fatalf("%v refilled", c)
			}
		}
	}
}

func TestDigShapeNotifiesListeners(t *testing.T) {
	f, _ := mustGenerate(t, 7)

	var got []terrain.DugCell
	calls := 0
	f.Subscribe(terrain.DigListenerFunc(func(cells []terrain.DugCell) {
		calls++
		got = append(got, cells...)
	}))

	shape := terrain.Rect(terrain.V(-1, -1), terrain.V(1, 1))
	before := coveredCells(f, shape)
	counts := f.DigShape(shape)

	if calls != 1 {
		t.Fatalf("expected 1 notification, got %d", calls)
	}
	if len(got) != counts.Total() {
		t.Fatalf("notified %d cells, counted %d", len(got), counts.Total())
	}
	for _, d := range got {
		if before[d.Cell] != d.Prior {
			t.Errorf("%v prior = %v, want %v", d.Cell, d.Prior, before[d.Cell])
		}
	}

	// Empty digs do not notify.
	f.DigShape(shape)
	if calls != 1 {
		t.Errorf("empty dig notified listeners")
	}
}

func TestKindAtOutOfBounds(t *testing.T) {
	f, _ := mustGenerate(t, 7)

	for _, c := range []terrain.Cell{terrain.C(-1, 0), terrain.C(0, -1), terrain.C(640, 10), terrain.C(10, 700)} {
		if k := f.KindAt(c); k != terrain.None {
			t.Errorf("KindAt(%v) = %v, want none", c, k)
		}
		if d := f.DensityAt(c); d != 0 {
			t.Errorf("DensityAt(%v) = %g, want 0", c, d)
		}
	}
	if k := f.KindAtWorld(terrain.V(100, 100)); k != terrain.None {
		t.Errorf("KindAtWorld off grid = %v", k)
	}
}

func TestHeightAtMatchesColumns(t *testing.T) {
	f, _ := mustGenerate(t, 7)
	m := f.Mapper()
	top, bot := f.Heights()
	lo := m.Min()

	for _, x := range []int{0, 1, 100, 320, 639} {
		wx := m.FineCellCenter(terrain.C(x, 0)).X
		if got, want := f.HeightAt(wx, true), lo.Y+top[x]/m.Resolution; math.Abs(got-want) > 1e-9 {
			t.Errorf("top height at column %d = %g, want %g", x, got, want)
		}
		if got, want := f.HeightAt(wx, false), lo.Y+bot[x]/m.Resolution; math.Abs(got-want) > 1e-9 {
			t.Errorf("bottom height at column %d = %g, want %g", x, got, want)
		}
	}

	// Off-grid positions clamp to the edge columns.
	if got, want := f.HeightAt(-100, true), lo.Y+top[0]/m.Resolution; got != want {
		t.Errorf("clamped left height = %g, want %g", got, want)
	}

	// Digging never moves the boundaries.
	before := f.HeightAt(0, true)
	f.DigShape(terrain.Circle{Center: terrain.V(0, f.HeightAt(0, true)), Radius: 3})
	if after := f.HeightAt(0, true); after != before {
		t.Errorf("dig moved the top boundary from %g to %g", before, after)
	}
}

func TestNormalAt(t *testing.T) {
	f, _ := mustGenerate(t, 7)

	for _, wx := range []float64{-16, -7.3, 0, 4.2, 15.99, 30} {
		top := f.NormalAt(wx, true)
		bot := f.NormalAt(wx, false)

		if l := top.Len(); math.Abs(l-1) > 1e-9 {
			t.Errorf("top normal at %g has length %g", wx, l)
		}
		if l := bot.Len(); math.Abs(l-1) > 1e-9 {
			t.Errorf("bottom normal at %g has length %g", wx, l)
		}
		if top.Y <= 0 {
			t.Errorf("top normal at %g points down: %v", wx, top)
		}
		if bot.Y >= 0 {
			t.Errorf("bottom normal at %g points up: %v", wx, bot)
		}
	}
}
