package terrain

import "math"

// Coherent value noise used for generation. Generated terrain is
// distributed by seed, so every host must compute identical bits: lattice
// values come from integer hashing and every product that feeds an addition
// goes through an explicit float64 conversion, which the language guarantees
// prevents fusing into a multiply-add on architectures that have one.

// NoiseParams holds fractal parameters for a noise field.
type NoiseParams struct {
	Octaves     int
	Persistence float64
	Lacunarity  float64
}

// mixSeed derives an independent stream seed from a base seed and a salt.
func mixSeed(seed int64, salt uint64) uint64 {
	h := uint64(seed) ^ (salt * 0x9e3779b97f4a7c15)
	h ^= h >> 30
	h *= 0xbf58476d1ce4e5b9
	h ^= h >> 27
	h *= 0x94d049bb133111eb
	h ^= h >> 31
	return h
}

// lattice2 returns a pseudo-random value in [0,1] for integer coordinates.
func lattice2(x, y int64, seed uint64) float64 {
	h := seed
	h ^= uint64(x) * 0x517cc1b727220a95
	h ^= uint64(y) * 0x6c62272e07bb0142
	h = h*0x2545f4914f6cdd1d + 0x14057b7ef767814f
	h ^= h >> 16
	h *= 0xd6e8feb86659fd93
	h ^= h >> 16
	return float64(h&0xFFFFFFFF) / float64(0xFFFFFFFF)
}

// smoothstep is the hermite curve t*t*(3-2t).
func smoothstep(t float64) float64 {
	return float64(t*t) * (3 - float64(2*t))
}

// lerp interpolates from a to b.
func lerp(a, b, t float64) float64 {
	return a + float64((b-a)*t)
}

// valueNoise1D returns smooth noise in [0,1] along a line.
func valueNoise1D(x float64, seed uint64) float64 {
	xf := math.Floor(x)
	xi := int64(xf)
	u := smoothstep(x - xf)
	return lerp(lattice2(xi, 0, seed), lattice2(xi+1, 0, seed), u)
}

// valueNoise2D returns smooth noise in [0,1] using lattice-based value noise
// with hermite interpolation.
func valueNoise2D(x, y float64, seed uint64) float64 {
	xf, yf := math.Floor(x), math.Floor(y)
	xi, yi := int64(xf), int64(yf)
	u := smoothstep(x - xf)
	v := smoothstep(y - yf)

	n00 := lattice2(xi, yi, seed)
	n10 := lattice2(xi+1, yi, seed)
	n01 := lattice2(xi, yi+1, seed)
	n11 := lattice2(xi+1, yi+1, seed)

	return lerp(lerp(n00, n10, u), lerp(n01, n11, u), v)
}

// fractal1D sums octaves of valueNoise1D and normalizes the result to [0,1].
func fractal1D(x float64, seed uint64, p NoiseParams) float64 {
	sum, norm := 0.0, 0.0
	amp, freq := 1.0, 1.0
	for o := 0; o < p.Octaves; o++ {
		sum += float64(amp * valueNoise1D(x*freq, seed+uint64(o)))
		norm += amp
		amp *= p.Persistence
		freq *= p.Lacunarity
	}
	if norm == 0 {
		return 0
	}
	return sum / norm
}

// fractal2D sums octaves of valueNoise2D and normalizes the result to [0,1].
func fractal2D(x, y float64, seed uint64, p NoiseParams) float64 {
	sum, norm := 0.0, 0.0
	amp, freq := 1.0, 1.0
	for o := 0; o < p.Octaves; o++ {
		sum += float64(amp * valueNoise2D(x*freq, y*freq, seed+uint64(o)))
		norm += amp
		amp *= p.Persistence
		freq *= p.Lacunarity
	}
	if norm == 0 {
		return 0
	}
	return sum / norm
}
