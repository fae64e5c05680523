package vision

import (
	"github.com/aquilax/go-perlin"

	"github.com/vovakirdan/deepfront/internal/config"
)

// Perlin parameters for the disc edge.
const (
	edgeAlpha  = 2.0
	edgeBeta   = 2.0
	edgeOctave = 3
)

// edgeNoise perturbs the vision disc radius per scanline over time.
type edgeNoise struct {
	p     *perlin.Perlin
	amp   float64
	speed float64
	scale float64
}

func newEdgeNoise(cfg config.VisionConfig, seed int64) *edgeNoise {
	return &edgeNoise{
		p:     perlin.NewPerlin(edgeAlpha, edgeBeta, edgeOctave, seed),
		amp:   cfg.EdgeAmplitude,
		speed: cfg.EdgeSpeed,
		scale: cfg.EdgeScale,
	}
}

// factor returns the radius multiplier for a scanline offset from the
// unit's row at time t seconds. The result is in [1, 1+amp].
func (e *edgeNoise) factor(t float64, offset int) float64 {
	if e.amp == 0 {
		return 1
	}
	n := e.p.Noise2D(t*e.speed, float64(offset)*e.scale)
	if n < -1 {
		n = -1
	} else if n > 1 {
		n = 1
	}
	return 1 + e.amp*(n+1)/2
}

// maxFactor is the largest value factor can return.
func (e *edgeNoise) maxFactor() float64 {
	return 1 + e.amp
}
