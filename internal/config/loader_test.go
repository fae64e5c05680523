package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestEmbeddedDefaultMatchesHardcoded(t *testing.T) {
	cfg, err := readGround("")
	if err != nil {
		t.Fatalf("readGround() failed: %v", err)
	}
	def := DefaultGroundConfig()

	if cfg.World != def.World {
		t.Errorf("world: embedded %+v, hardcoded %+v", cfg.World, def.World)
	}
	if cfg.Bands != def.Bands {
		t.Errorf("bands: embedded %+v, hardcoded %+v", cfg.Bands, def.Bands)
	}
	if cfg.Vision != def.Vision {
		t.Errorf("vision: embedded %+v, hardcoded %+v", cfg.Vision, def.Vision)
	}
	if len(cfg.Kinds) != len(def.Kinds) {
		t.Fatalf("expected %d kinds, got %d", len(def.Kinds), len(cfg.Kinds))
	}
	for i := range def.Kinds {
		if cfg.Kinds[i] != def.Kinds[i] {
			t.Errorf("kinds[%d]: embedded %+v, hardcoded %+v", i, cfg.Kinds[i], def.Kinds[i])
		}
	}
}

func TestLoadGroundCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ground.yaml")
	data := []byte(`
world:
  width: 10
  height: 12
  resolution: 8
  collect_ratio: 2
bands:
  top_base: 0.8
  bot_base: 0.2
  amplitude: 1
  height_step: 0.02
  grass_margin: 0.25
noise:
  octaves: 2
  persistence: 0.5
  lacunarity: 2
kinds:
  - kind: gold
    threshold: 0.6
    scale: 0.1
density_steps: 2
vision:
  edge_amplitude: 0.1
  edge_speed: 1
  edge_scale: 0.1
  unit_rule: distance
  tick_rate: 30
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	cfg, err := LoadGround(path)
	if err != nil {
		t.Fatalf("LoadGround() failed: %v", err)
	}
	if cfg.PixelsWide() != 80 || cfg.PixelsHigh() != 96 {
		t.Errorf("expected 80x96 grid, got %dx%d", cfg.PixelsWide(), cfg.PixelsHigh())
	}
	if cfg.CollectResolution() != 4 {
		t.Errorf("expected collect resolution 4, got %g", cfg.CollectResolution())
	}
	if cfg.Vision.UnitRule != UnitRuleDistance {
		t.Errorf("expected distance rule, got %q", cfg.Vision.UnitRule)
	}
}

func TestLoadGroundMissingCustomPath(t *testing.T) {
	_, err := LoadGround(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing custom config")
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("DEEPFRONT_RESOLUTION", "10")
	t.Setenv("DEEPFRONT_UNIT_RULE", "distance")

	cfg := DefaultGroundConfig()
	if err := ApplyEnv(&cfg); err != nil {
		t.Fatalf("ApplyEnv() failed: %v", err)
	}
	if cfg.World.Resolution != 10 {
		t.Errorf("expected resolution 10, got %d", cfg.World.Resolution)
	}
	if cfg.Vision.UnitRule != UnitRuleDistance {
		t.Errorf("expected distance rule, got %q", cfg.Vision.UnitRule)
	}
	// Untouched values survive.
	if cfg.World.Width != 32 {
		t.Errorf("expected width 32, got %g", cfg.World.Width)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*GroundConfig)
		valid  bool
	}{
		{"defaults", func(*GroundConfig) {}, true},
		{"zero resolution", func(c *GroundConfig) { c.World.Resolution = 0 }, false},
		{"negative width", func(c *GroundConfig) { c.World.Width = -1 }, false},
		{"zero collect ratio", func(c *GroundConfig) { c.World.CollectRatio = 0 }, false},
		{"inverted bands", func(c *GroundConfig) { c.Bands.BotBase = 0.9 }, false},
		{"zero octaves", func(c *GroundConfig) { c.Noise.Octaves = 0 }, false},
		{"edge amplitude too large", func(c *GroundConfig) { c.Vision.EdgeAmplitude = 2 }, false},
		{"unknown unit rule", func(c *GroundConfig) { c.Vision.UnitRule = "psychic" }, false},
		{"threshold of one", func(c *GroundConfig) { c.Kinds[0].Threshold = 1 }, false},
		{"no special kinds", func(c *GroundConfig) { c.Kinds = nil }, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultGroundConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.valid && err != nil {
				t.Errorf("Validate() = %v, expected nil", err)
			}
			if !tc.valid {
				if err == nil {
					t.Error("Validate() = nil, expected error")
				} else if !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("expected ErrInvalidConfig, got %v", err)
				}
			}
		})
	}
}

func TestEncodeDecodeIgnoresEnv(t *testing.T) {
	cfg := DefaultGroundConfig()
	cfg.World.CollectRatio = 2
	cfg.Noise.Persistence = 0.3
	cfg.Kinds = cfg.Kinds[:1]

	data, err := Encode(cfg)
	if err != nil {
		t.Fatalf("Encode() failed: %v", err)
	}

	t.Setenv("DEEPFRONT_COLLECT_RATIO", "8")
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}
	if got.World != cfg.World || got.Bands != cfg.Bands || got.Noise != cfg.Noise || got.Vision != cfg.Vision {
		t.Errorf("Decode() = %+v, want %+v", got, cfg)
	}
	if len(got.Kinds) != 1 || got.Kinds[0] != cfg.Kinds[0] || got.DensitySteps != cfg.DensitySteps {
		t.Errorf("kinds: got %+v, want %+v", got.Kinds, cfg.Kinds)
	}

	if _, err := Decode([]byte("world: {width: -1}")); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}
