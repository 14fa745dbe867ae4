package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file (.yaml or .toml)")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagDisable    = flag.Bool("disable", false, "Disable dynamic level of detail")
	flagBudget     = flag.Int64("budget", 0, "Texture budget in pixels")
	flagHysteresis = flag.Float64("hysteresis", -1, "Hysteresis margin for quality downgrades")
	flagFrames     = flag.Int("frames", 0, "Number of frames to simulate")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the non-flag command-line arguments.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagDisable {
		cfg.LOD.Enabled = false
	}
	if *flagBudget > 0 {
		cfg.LOD.Budget = *flagBudget
	}
	if *flagHysteresis >= 0 {
		cfg.LOD.Hysteresis = float32(*flagHysteresis)
	}
	if *flagFrames > 0 {
		cfg.Simulation.Frames = *flagFrames
	}
}
