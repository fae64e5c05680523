package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid ground config")

// LoadGround loads the ground configuration and applies DEEPFRONT_*
// environment overrides.
// Search order: customPath -> ~/.deepfront/configs/ground.yaml -> ./configs/ground.yaml -> embedded default
func LoadGround(customPath string) (GroundConfig, error) {
	cfg, err := readGround(customPath)
	if err != nil {
		return cfg, err
	}
	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func readGround(customPath string) (GroundConfig, error) {
	var cfg GroundConfig

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("ground.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile("configs/ground.yaml"); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultGroundYAML, &cfg); err != nil {
		return DefaultGroundConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".deepfront", "configs", filename)
}

// Validate reports the first setting that would make generation or the
// fog pass ill-defined.
func (c GroundConfig) Validate() error {
	switch {
	case c.World.Width <= 0 || c.World.Height <= 0:
		return fmt.Errorf("%w: world size %gx%g must be positive", ErrInvalidConfig, c.World.Width, c.World.Height)
	case c.World.Resolution <= 0:
		return fmt.Errorf("%w: resolution %d must be positive", ErrInvalidConfig, c.World.Resolution)
	case c.World.CollectRatio <= 0:
		return fmt.Errorf("%w: collect_ratio %d must be positive", ErrInvalidConfig, c.World.CollectRatio)
	case c.PixelsWide() < 2 || c.PixelsHigh() < 2:
		return fmt.Errorf("%w: grid %dx%d is too small", ErrInvalidConfig, c.PixelsWide(), c.PixelsHigh())
	case c.Bands.BotBase < 0 || c.Bands.TopBase > 1 || c.Bands.BotBase >= c.Bands.TopBase:
		return fmt.Errorf("%w: band bases must satisfy 0 <= bot_base < top_base <= 1", ErrInvalidConfig)
	case c.Bands.HeightStep <= 0:
		return fmt.Errorf("%w: height_step must be positive", ErrInvalidConfig)
	case c.Noise.Octaves <= 0:
		return fmt.Errorf("%w: octaves must be positive", ErrInvalidConfig)
	case c.DensitySteps <= 0:
		return fmt.Errorf("%w: density_steps must be positive", ErrInvalidConfig)
	case c.Vision.EdgeAmplitude < 0 || c.Vision.EdgeAmplitude > 1:
		return fmt.Errorf("%w: edge_amplitude %g outside [0,1]", ErrInvalidConfig, c.Vision.EdgeAmplitude)
	case c.Vision.TickRate <= 0:
		return fmt.Errorf("%w: tick_rate must be positive", ErrInvalidConfig)
	}

	switch c.Vision.UnitRule {
	case UnitRuleFogSample, UnitRuleDistance:
	default:
		return fmt.Errorf("%w: unknown unit_rule %q", ErrInvalidConfig, c.Vision.UnitRule)
	}

	for i, k := range c.Kinds {
		if k.Threshold <= 0 || k.Threshold >= 1 {
			return fmt.Errorf("%w: kinds[%d] (%s) threshold %g outside (0,1)", ErrInvalidConfig, i, k.Kind, k.Threshold)
		}
		if k.Scale <= 0 {
			return fmt.Errorf("%w: kinds[%d] (%s) scale must be positive", ErrInvalidConfig, i, k.Kind)
		}
	}
	return nil
}

// Encode renders cfg as YAML in the same layout LoadGround reads.
func Encode(cfg GroundConfig) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return data, nil
}

// Decode parses a config written by Encode. No environment overrides are
// applied, so a recorded config always reads back as it was written.
func Decode(data []byte) (GroundConfig, error) {
	var cfg GroundConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
