package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// envOverrides lists the settings that may be overridden from the
// environment. Nil fields were not set.
type envOverrides struct {
	WorldWidth   *float64  `env:"DEEPFRONT_WORLD_WIDTH"`
	WorldHeight  *float64  `env:"DEEPFRONT_WORLD_HEIGHT"`
	Resolution   *int      `env:"DEEPFRONT_RESOLUTION"`
	CollectRatio *int      `env:"DEEPFRONT_COLLECT_RATIO"`
	DensitySteps *int      `env:"DEEPFRONT_DENSITY_STEPS"`
	UnitRule     *UnitRule `env:"DEEPFRONT_UNIT_RULE"`
	TickRate     *int      `env:"DEEPFRONT_TICK_RATE"`
}

// ApplyEnv overrides scalar settings from DEEPFRONT_* environment variables.
// Unset variables leave the loaded values untouched.
func ApplyEnv(cfg *GroundConfig) error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	if o.WorldWidth != nil {
		cfg.World.Width = *o.WorldWidth
	}
	if o.WorldHeight != nil {
		cfg.World.Height = *o.WorldHeight
	}
	if o.Resolution != nil {
		cfg.World.Resolution = *o.Resolution
	}
	if o.CollectRatio != nil {
		cfg.World.CollectRatio = *o.CollectRatio
	}
	if o.DensitySteps != nil {
		cfg.DensitySteps = *o.DensitySteps
	}
	if o.UnitRule != nil {
		cfg.Vision.UnitRule = *o.UnitRule
	}
	if o.TickRate != nil {
		cfg.Vision.TickRate = *o.TickRate
	}
	return nil
}
