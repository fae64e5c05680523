package terrain_test

import (
	"errors"
	"math"
	"testing"

	"github.com/vovakirdan/deepfront/internal/config"
	"github.com/vovakirdan/deepfront/internal/terrain"
)

func mustGenerate(t *testing.T, seed int64) (*terrain.Field, *terrain.CollectGrid) {
	t.Helper()
	f, g, err := terrain.Generate(config.DefaultGroundConfig(), seed)
	if err != nil {
		t.Fatalf("Generate(%d) failed: %v", seed, err)
	}
	return f, g
}

func TestGenerateDeterministic(t *testing.T) {
	for _, seed := range []int64{0, 7, -3, 1 << 40} {
		a, ga := mustGenerate(t, seed)
		b, gb := mustGenerate(t, seed)

		sa, sb := a.Snapshot(), b.Snapshot()
		for i := range sa.Kinds {
			if sa.Kinds[i] != sb.Kinds[i] || sa.Density[i] != sb.Density[i] {
				t.Fatalf("seed %d: cell %d differs: %v/%g vs %v/%g",
					seed, i, sa.Kinds[i], sa.Density[i], sb.Kinds[i], sb.Density[i])
			}
		}

		ta, ba := a.Heights()
		tb, bb := b.Heights()
		for x := range ta {
			if ta[x] != tb[x] || ba[x] != bb[x] {
				t.Fatalf("seed %d: heights differ at column %d", seed, x)
			}
		}

		ca, cb := ga.Snapshot(), gb.Snapshot()
		for i := range ca {
			if ca[i] != cb[i] {
				t.Fatalf("seed %d: collect cell %d differs", seed, i)
			}
		}
	}
}

func TestGenerateSeedsDiffer(t *testing.T) {
	a, _ := mustGenerate(t, 1)
	b, _ := mustGenerate(t, 2)

	sa, sb := a.Snapshot(), b.Snapshot()
	diff := 0
	for i := range sa.Kinds {
		if sa.Kinds[i] != sb.Kinds[i] {
			diff++
		}
	}
	if diff == 0 {
		t.Error("different seeds produced identical fields")
	}
}

func TestGenerateLayout(t *testing.T) {
	f, _ := mustGenerate(t, 7)
	m := f.Mapper()
	top, bot := f.Heights()

	for x := 0; x < m.PixelsWide; x++ {
		if top[x] < 0 || top[x] > float64(m.PixelsHigh) || bot[x] < 0 || bot[x] > float64(m.PixelsHigh) {
			t.Fatalf("column %d heights out of range: top=%g bot=%g", x, top[x], bot[x])
		}
		if bot[x] >= top[x] {
			t.Fatalf("column %d band collapsed: top=%g bot=%g", x, top[x], bot[x])
		}
	}

	for y := 0; y < m.PixelsHigh; y++ {
		for x := 0; x < m.PixelsWide; x++ {
			c := terrain.C(x, y)
			k := f.KindAt(c)
			switch f.RegionAt(c) {
			case terrain.RegionAboveTop, terrain.RegionBelowBot:
				if k != terrain.None {
					t.Fatalf("%v outside the band holds %v", c, k)
				}
			case terrain.RegionTopMargin, terrain.RegionBotMargin:
				if k != terrain.Grass {
					t.Fatalf("%v in a margin holds %v", c, k)
				}
			default:
				if k == terrain.None || k == terrain.Grass {
					t.Fatalf("%v in the interior holds %v", c, k)
				}
			}
			if d := f.DensityAt(c); d < 0 || d >= 1 {
				t.Fatalf("%v density %g outside [0,1)", c, d)
			}
		}
	}

	counts := f.Counts()
	if counts[terrain.Dirt] == 0 {
		t.Error("expected some dirt")
	}
	special := 0
	for k := terrain.Gold; k < terrain.NumRockKinds; k++ {
		special += counts[k]
	}
	if special == 0 {
		t.Error("expected some special rock")
	}
}

func TestGenerateRejectsUnplaceableKind(t *testing.T) {
	cfg := config.DefaultGroundConfig()
	cfg.Kinds = append(cfg.Kinds, config.KindConfig{Kind: "dirt", Threshold: 0.5, Scale: 0.1})

	_, _, err := terrain.Generate(cfg, 1)
	if !errors.Is(err, terrain.ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind, got %v", err)
	}

	cfg.Kinds[len(cfg.Kinds)-1].Kind = "obsidian"
	_, _, err = terrain.Generate(cfg, 1)
	if !errors.Is(err, terrain.ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind, got %v", err)
	}
}

func TestGenerateRejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultGroundConfig()
	cfg.World.Resolution = 0

	_, _, err := terrain.Generate(cfg, 1)
	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestCollectGridSampledFromField(t *testing.T) {
	f, g := mustGenerate(t, 7)
	m := f.Mapper()

	for y := 0; y < m.CollectHigh; y++ {
		for x := 0; x < m.CollectWide; x++ {
			c := terrain.C(x, y)
			if got, want := g.KindAt(c), f.KindAt(m.CollectToFine(c)); got != want {
				t.Fatalf("collect %v = %v, nearest fine cell holds %v", c, got, want)
			}
		}
	}
}

func interiorKinds(t *testing.T, cfg config.GroundConfig) (map[terrain.RockKind]int, int) {
	t.Helper()
	f, _, err := terrain.Generate(cfg, 11)
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}
	m := f.Mapper()
	counts := make(map[terrain.RockKind]int)
	total := 0
	for y := 0; y < m.PixelsHigh; y++ {
		for x := 0; x < m.PixelsWide; x++ {
			c := terrain.C(x, y)
			if f.RegionAt(c) != terrain.RegionInterior {
				continue
			}
			counts[f.KindAt(c)]++
			total++
		}
	}
	return counts, total
}

func TestGenerateKindPriority(t *testing.T) {
	cfg := config.DefaultGroundConfig()
	cfg.Kinds = []config.KindConfig{
		{Kind: "gold", Threshold: 0.01, Scale: 0.05},
		{Kind: "hardrock", Threshold: 0.01, Scale: 0.05},
	}

	counts, total := interiorKinds(t, cfg)
	if total == 0 {
		t.Fatal("no interior cells")
	}
	if counts[terrain.Gold]*100 < total*99 {
		t.Errorf("gold listed first holds %d of %d interior cells", counts[terrain.Gold], total)
	}
	if counts[terrain.Hardrock]*100 > total {
		t.Errorf("hardrock listed second holds %d of %d interior cells", counts[terrain.Hardrock], total)
	}

	cfg.Kinds[0], cfg.Kinds[1] = cfg.Kinds[1], cfg.Kinds[0]
	counts, total = interiorKinds(t, cfg)
	if counts[terrain.Hardrock]*100 < total*99 {
		t.Errorf("hardrock listed first holds %d of %d interior cells", counts[terrain.Hardrock], total)
	}
	if counts[terrain.Gold]*100 > total {
		t.Errorf("gold listed second holds %d of %d interior cells", counts[terrain.Gold], total)
	}
}

// goldDepths returns the distance from target of every gold cell's depth.
func goldDepths(t *testing.T, cfg config.GroundConfig, target float64) []float64 {
	t.Helper()
	f, _, err := terrain.Generate(cfg, 11)
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}
	m := f.Mapper()
	half := float64(m.PixelsHigh) / 2
	var out []float64
	for y := 0; y < m.PixelsHigh; y++ {
		depth := math.Abs(float64(y)+0.5-half) / half
		for x := 0; x < m.PixelsWide; x++ {
			if f.KindAt(terrain.C(x, y)) == terrain.Gold {
				out = append(out, math.Abs(depth-target))
			}
		}
	}
	return out
}

func TestGenerateDepthBias(t *testing.T) {
	const target, threshold, weight = 0.8, 0.3, 1.5

	cfg := config.DefaultGroundConfig()
	cfg.Kinds = []config.KindConfig{{Kind: "gold", Threshold: threshold, Scale: 0.05, DepthTarget: target}}
	flat := goldDepths(t, cfg, target)

	cfg.Kinds[0].DepthWeight = weight
	biased := goldDepths(t, cfg, target)

	if len(flat) == 0 || len(biased) == 0 {
		t.Fatalf("expected gold in both fields, got %d and %d cells", len(flat), len(biased))
	}
	mean := func(ds []float64) float64 {
		sum := 0.0
		for _, d := range ds {
			sum += d
		}
		return sum / float64(len(ds))
	}
	if mean(biased) >= mean(flat) {
		t.Errorf("weighted gold sits %.3f from the target depth, unweighted %.3f", mean(biased), mean(flat))
	}
	// A sample never exceeds 1, so no biased cell can sit farther than this.
	limit := (1 - threshold) / weight
	for _, d := range biased {
		if d > limit {
			t.Fatalf("gold at distance %.3f from the target depth, limit %.3f", d, limit)
		}
	}
}
