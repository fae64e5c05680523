package terrain

import "testing"

func TestQuantize(t *testing.T) {
	tests := []struct {
		v     float64
		steps int
		want  float64
	}{
		{0, 4, 0},
		{0.3, 4, 0.25},
		{0.99, 4, 0.75},
		{1, 4, 0.75},
		{2, 4, 0.75},
		{-1, 4, 0},
	}
	for _, tt := range tests {
		if got := quantize(tt.v, tt.steps); got != tt.want {
			t.Errorf("quantize(%g,%d) = %g, want %g", tt.v, tt.steps, got, tt.want)
		}
	}
}
