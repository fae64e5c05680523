package terrain

import (
	"errors"
	"fmt"
	"math"

	"github.com/vovakirdan/deepfront/internal/config"
)

// ErrUnknownKind is returned when a kind entry does not name a special
// rock kind.
var ErrUnknownKind = errors.New("terrain: kind cannot be placed by noise")

// Seed salts for the independent noise streams.
const (
	saltTopCurve = 1
	saltBotCurve = 2
	saltKindBase = 0x100
)

// kindLayer is a resolved special kind placement rule.
type kindLayer struct {
	kind        RockKind
	seed        uint64
	threshold   float64
	scale       float64
	depthTarget float64
	depthWeight float64
}

// Generate builds the fine field and collect grid for a seed. The result
// depends only on cfg and seed.
func Generate(cfg config.GroundConfig, seed int64) (*Field, *CollectGrid, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("terrain: %w", err)
	}
	layers, err := resolveKinds(cfg.Kinds, seed)
	if err != nil {
		return nil, nil, err
	}

	m := NewMapper(cfg)
	f := newField(m, seed, cfg.Bands.GrassMargin*m.Resolution)
	params := NoiseParams{
		Octaves:     cfg.Noise.Octaves,
		Persistence: cfg.Noise.Persistence,
		Lacunarity:  cfg.Noise.Lacunarity,
	}

	generateHeights(f, cfg.Bands, params)
	fillCells(f, layers, params, cfg.DensitySteps)

	return f, newCollectGrid(f), nil
}

func resolveKinds(kinds []config.KindConfig, seed int64) ([]kindLayer, error) {
	layers := make([]kindLayer, 0, len(kinds))
	for i, kc := range kinds {
		k, err := ParseRockKind(kc.Kind)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnknownKind, err)
		}
		if !k.Special() {
			return nil, fmt.Errorf("%w: %s", ErrUnknownKind, k)
		}
		layers = append(layers, kindLayer{
			kind:        k,
			seed:        mixSeed(seed, saltKindBase+uint64(i)),
			threshold:   kc.Threshold,
			scale:       kc.Scale,
			depthTarget: kc.DepthTarget,
			depthWeight: kc.DepthWeight,
		})
	}
	return layers, nil
}

// generateHeights samples one noise curve per boundary.
func generateHeights(f *Field, bands config.BandConfig, params NoiseParams) {
	h := float64(f.m.PixelsHigh)
	ampPx := bands.Amplitude * f.m.Resolution
	topSeed := mixSeed(f.seed, saltTopCurve)
	botSeed := mixSeed(f.seed, saltBotCurve)

	for x := 0; x < f.m.PixelsWide; x++ {
		nx := float64(x) * bands.HeightStep
		nt := fractal1D(nx, topSeed, params)
		nb := fractal1D(nx, botSeed, params)
		f.top[x] = clampF(float64(h*bands.TopBase)+float64(ampPx*(float64(2*nt)-1)), 0, h)
		f.bot[x] = clampF(float64(h*bands.BotBase)+float64(ampPx*(float64(2*nb)-1)), 0, h)
	}
}

// fillCells assigns a kind and density to every cell.
func fillCells(f *Field, layers []kindLayer, params NoiseParams, steps int) {
	half := float64(f.m.PixelsHigh) / 2

	for y := 0; y < f.m.PixelsHigh; y++ {
		depth := math.Abs(float64(y)+0.5-half) / half
		for x := 0; x < f.m.PixelsWide; x++ {
			c := Cell{X: x, Y: y}
			i := f.m.FineIndex(c)
			switch f.RegionAt(c) {
			case RegionAboveTop, RegionBelowBot:
				f.kinds[i] = None
			case RegionTopMargin, RegionBotMargin:
				f.kinds[i] = Grass
			default:
				f.kinds[i], f.density[i] = pickKind(x, y, depth, layers, params, steps)
			}
		}
	}
}

// pickKind returns the first layer whose depth-biased sample exceeds its
// threshold, or Dirt.
func pickKind(x, y int, depth float64, layers []kindLayer, params NoiseParams, steps int) (RockKind, float64) {
	for _, l := range layers {
		sample := fractal2D(float64(x)*l.scale, float64(y)*l.scale, l.seed, params)
		biased := sample - float64(l.depthWeight*math.Abs(depth-l.depthTarget))
		if biased <= l.threshold {
			continue
		}
		return l.kind, quantize((biased-l.threshold)/(1-l.threshold), steps)
	}
	return Dirt, 0
}

// quantize buckets v in [0,1] into steps shading levels, always below 1.
func quantize(v float64, steps int) float64 {
	s := float64(steps)
	d := math.Floor(clampF(v, 0, 1)*s) / s
	if d >= 1 {
		d = (s - 1) / s
	}
	return d
}
