package loom

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config carries the tunable interaction parameters. All distances are in
// screen pixels; scales are factors.
type Config struct {
	MinScale            float64 `toml:"min_scale"`
	MaxScale            float64 `toml:"max_scale"`
	DragBoundary        float64 `toml:"drag_boundary"`        // boundary zone thickness
	BoundaryTranslation float64 `toml:"boundary_translation"` // per-tick scroll step
	SnapThreshold       float64 `toml:"snap_threshold"`
	GhostThreshold      float64 `toml:"ghost_threshold"`
	DragDeadZone        float64 `toml:"drag_dead_zone"`
	FitPadding          float64 `toml:"fit_padding"`
}

// DefaultConfig returns the stock parameters.
func DefaultConfig() Config {
	return Config{
		MinScale:            DefaultMinScale,
		MaxScale:            DefaultMaxScale,
		DragBoundary:        50,
		BoundaryTranslation: 5,
		SnapThreshold:       DefaultSnapThreshold,
		GhostThreshold:      DefaultGhostThreshold,
		DragDeadZone:        4,
		FitPadding:          40,
	}
}

// LoadConfig reads a TOML config file, filling unset keys from the defaults.
// A missing file is not an error: the defaults are returned.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config as TOML, creating parent directories as needed.
func (c Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("save config %s: %w", path, err)
	}
	return nil
}
