// Package config handles configuration loading and management.
package config

import (
	"fmt"
	"time"

	"github.com/Faultbox/voyager-lod/pkg/derivative"
	"github.com/Faultbox/voyager-lod/pkg/lod"
)

// Config holds all settings of the LOD simulator.
type Config struct {
	LOD        LODConfig        `yaml:"lod" toml:"lod"`
	Simulation SimulationConfig `yaml:"simulation" toml:"simulation"`
	Logging    LoggingConfig    `yaml:"logging" toml:"logging"`
}

// LODConfig holds the level-of-detail tuning.
type LODConfig struct {
	Enabled    bool               `yaml:"enabled" toml:"enabled"`
	Thresholds []ThresholdConfig  `yaml:"thresholds" toml:"thresholds"`
	Ceiling    derivative.Quality `yaml:"ceiling" toml:"ceiling"`
	Hysteresis float32            `yaml:"hysteresis" toml:"hysteresis"`
	Budget     int64              `yaml:"budget" toml:"budget"` // pixels
	Costs      CostsConfig        `yaml:"costs" toml:"costs"`
	// ShadowReserve is set aside for shadow maps and other non-model textures.
	ShadowReserve int64 `yaml:"shadow_reserve" toml:"shadow_reserve"`
	ReservedSlots int   `yaml:"reserved_slots" toml:"reserved_slots"`
}

// ThresholdConfig caps the quality of models whose weight is below Size.
type ThresholdConfig struct {
	Size    float32            `yaml:"size" toml:"size"`
	Quality derivative.Quality `yaml:"quality" toml:"quality"`
}

// CostsConfig holds the texture cost of each tier, in pixels.
type CostsConfig struct {
	Thumb   int64 `yaml:"thumb" toml:"thumb"`
	Low     int64 `yaml:"low" toml:"low"`
	Medium  int64 `yaml:"medium" toml:"medium"`
	High    int64 `yaml:"high" toml:"high"`
	Highest int64 `yaml:"highest" toml:"highest"`
}

// SimulationConfig holds settings of the frame loop driven by lodsim.
type SimulationConfig struct {
	Frames   int           `yaml:"frames" toml:"frames"`
	TickRate time.Duration `yaml:"tick_rate" toml:"tick_rate"`
	// Force runs the pass every frame instead of only when the view changed.
	Force bool `yaml:"force" toml:"force"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" toml:"level"`
	Format  string `yaml:"format" toml:"format"`
	LogFile string `yaml:"log_file" toml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	s := lod.DefaultSettings()

	thresholds := make([]ThresholdConfig, len(s.Thresholds))
	for i, t := range s.Thresholds {
		thresholds[i] = ThresholdConfig{Size: t.Size, Quality: t.Quality}
	}

	return &Config{
		LOD: LODConfig{
			Enabled:    true,
			Thresholds: thresholds,
			Ceiling:    s.Ceiling,
			Hysteresis: s.Hysteresis,
			Budget:     s.Budget,
			Costs: CostsConfig{
				Thumb:   s.Costs.Cost(derivative.Thumb),
				Low:     s.Costs.Cost(derivative.Low),
				Medium:  s.Costs.Cost(derivative.Medium),
				High:    s.Costs.Cost(derivative.High),
				Highest: s.Costs.Cost(derivative.Highest),
			},
			ShadowReserve: s.ShadowReserve,
			ReservedSlots: s.ReservedSlots,
		},
		Simulation: SimulationConfig{
			Frames:   120,
			TickRate: time.Second / 30,
		},
		Logging: LoggingConfig{
			Level:   "info",
			Format:  "console",
			LogFile: "",
		},
	}
}

// Settings converts the LOD section into controller settings.
func (c LODConfig) Settings() (lod.Settings, error) {
	s := lod.Settings{
		Ceiling:    c.Ceiling,
		Hysteresis: c.Hysteresis,
		Budget:     c.Budget,
		Costs: lod.Costs{
			derivative.Thumb:   c.Costs.Thumb,
			derivative.Low:     c.Costs.Low,
			derivative.Medium:  c.Costs.Medium,
			derivative.High:    c.Costs.High,
			derivative.Highest: c.Costs.Highest,
		},
		ShadowReserve: c.ShadowReserve,
		ReservedSlots: c.ReservedSlots,
	}
	for _, t := range c.Thresholds {
		s.Thresholds = append(s.Thresholds, lod.Threshold{Size: t.Size, Quality: t.Quality})
	}
	if err := s.Validate(); err != nil {
		return lod.Settings{}, fmt.Errorf("invalid lod config: %w", err)
	}
	return s, nil
}
