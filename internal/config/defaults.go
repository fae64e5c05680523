package config

import (
	_ "embed"
)

//go:embed defaults/ground.yaml
var defaultGroundYAML []byte

// DefaultGroundConfig returns the default ground configuration.
func DefaultGroundConfig() GroundConfig {
	return GroundConfig{
		World: WorldConfig{
			Width:        32,
			Height:       35,
			Resolution:   20,
			CollectRatio: 4,
		},
		Bands: BandConfig{
			TopBase:     0.85,
			BotBase:     0.15,
			Amplitude:   2.5,
			HeightStep:  0.012,
			GrassMargin: 0.5,
		},
		Noise: NoiseConfig{
			Octaves:     3,
			Persistence: 0.5,
			Lacunarity:  2.0,
		},
		Kinds: []KindConfig{
			{Kind: "hardrock", Threshold: 0.66, Scale: 0.03, DepthTarget: 0.0, DepthWeight: 0.25},
			{Kind: "rock4", Threshold: 0.72, Scale: 0.05, DepthTarget: 0.55, DepthWeight: 0.2},
			{Kind: "rock3", Threshold: 0.68, Scale: 0.06, DepthTarget: 0.35, DepthWeight: 0.2},
			{Kind: "gold", Threshold: 0.7, Scale: 0.08, DepthTarget: 0.3, DepthWeight: 0.3},
		},
		DensitySteps: 4,
		Vision: VisionConfig{
			EdgeAmplitude: 0.12,
			EdgeSpeed:     1.5,
			EdgeScale:     0.08,
			UnitRule:      UnitRuleFogSample,
			TickRate:      60,
		},
	}
}

// GetDefaultYAML returns the embedded default YAML.
func GetDefaultYAML() []byte {
	return defaultGroundYAML
}
