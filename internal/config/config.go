// Package config provides YAML-based terrain and visibility configuration
// loading for the deepfront simulation core.
package config

// GroundConfig contains all configuration for terrain generation, resource
// collection and the fog-of-war pass.
type GroundConfig struct {
	World        WorldConfig  `yaml:"world"`
	Bands        BandConfig   `yaml:"bands"`
	Noise        NoiseConfig  `yaml:"noise"`
	Kinds        []KindConfig `yaml:"kinds"`
	DensitySteps int          `yaml:"density_steps"`
	Vision       VisionConfig `yaml:"vision"`
}

// WorldConfig defines the world extent and grid resolutions.
type WorldConfig struct {
	Width        float64 `yaml:"width"`  // World units
	Height       float64 `yaml:"height"` // World units
	Resolution   int     `yaml:"resolution"`
	CollectRatio int     `yaml:"collect_ratio"` // Fine cells per collect cell, per axis
}

// BandConfig shapes the two boundary curves of the playable band.
type BandConfig struct {
	TopBase     float64 `yaml:"top_base"`     // Fraction of field height
	BotBase     float64 `yaml:"bot_base"`     // Fraction of field height
	Amplitude   float64 `yaml:"amplitude"`    // World units
	HeightStep  float64 `yaml:"height_step"`  // Noise units per column
	GrassMargin float64 `yaml:"grass_margin"` // World units
}

// NoiseConfig defines fractal parameters shared by every rock kind field.
type NoiseConfig struct {
	Octaves     int     `yaml:"octaves"`
	Persistence float64 `yaml:"persistence"`
	Lacunarity  float64 `yaml:"lacunarity"`
}

// KindConfig places one special rock kind. Order in GroundConfig.Kinds is
// the placement priority.
type KindConfig struct {
	Kind        string  `yaml:"kind"`
	Threshold   float64 `yaml:"threshold"`
	Scale       float64 `yaml:"scale"`        // Noise units per cell
	DepthTarget float64 `yaml:"depth_target"` // 0 = field center, 1 = field edge
	DepthWeight float64 `yaml:"depth_weight"`
}

// VisionConfig defines fog-of-war parameters.
type VisionConfig struct {
	EdgeAmplitude float64  `yaml:"edge_amplitude"` // Max radius growth as a fraction of nominal
	EdgeSpeed     float64  `yaml:"edge_speed"`     // Noise units per second
	EdgeScale     float64  `yaml:"edge_scale"`     // Noise units per scanline
	UnitRule      UnitRule `yaml:"unit_rule"`
	TickRate      int      `yaml:"tick_rate"`
}

// UnitRule selects how non-POV units are judged visible.
type UnitRule string

const (
	UnitRuleFogSample UnitRule = "fog_sample" // Visible if the unit's cell is NoFog
	UnitRuleDistance  UnitRule = "distance"   // Visible if within any POV unit's vision radius
)

// PixelsWide returns the fine grid width in cells.
func (c GroundConfig) PixelsWide() int {
	return int(c.World.Width * float64(c.World.Resolution))
}

// PixelsHigh returns the fine grid height in cells.
func (c GroundConfig) PixelsHigh() int {
	return int(c.World.Height * float64(c.World.Resolution))
}

// CollectResolution returns collect cells per world unit.
func (c GroundConfig) CollectResolution() float64 {
	return float64(c.World.Resolution) / float64(c.World.CollectRatio)
}
