package configuration

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Config represents the application configuration
type Config struct {
	Watch  WatchConfig  `toml:"watch"`
	UI     UIConfig     `toml:"ui"`
	Safety SafetyConfig `toml:"safety"`
	Debug  bool         `toml:"debug"`
}

type WatchConfig struct {
	// Enabled controls whether external file changes are picked up.
	Enabled bool `toml:"enabled"`
	// DebounceMs is the window during which repeated change notifications
	// for one file are coalesced into a single event.
	DebounceMs int `toml:"debounce_ms"`
}

type UIConfig struct {
	// MaxPreview caps how many pending changes the save summary lists.
	MaxPreview int `toml:"max_preview"`
}

type SafetyConfig struct {
	// BackupDir overrides where pre-save snapshots are stored.
	BackupDir string `toml:"backup_dir"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Watch: WatchConfig{
			Enabled:    true,
			DebounceMs: 150,
		},
		UI: UIConfig{
			MaxPreview: 3,
		},
	}
}

// LoadConfig loads configuration with fallback to defaults. When path is
// empty, multiple locations are tried in order (following XDG conventions);
// otherwise only the given file is read and a missing file is an error.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	if path != "" {
		if _, err := toml.DecodeFile(path, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
		applyEnvOverrides(config)

		return config, nil
	}

	configPaths := []string{
		"./envdiff.toml", // Current directory (for development)
		filepath.Join(os.Getenv("HOME"), ".config", "envdiff", "config.toml"), // User config (XDG)
		"/etc/envdiff/config.toml", // System-wide config
	}

	for _, p := range configPaths {
		if _, err := os.Stat(p); err == nil {
			if _, err := toml.DecodeFile(p, config); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", p, err)
			}
			break
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

func applyEnvOverrides(config *Config) {
	if ms := os.Getenv("ENVDIFF_DEBOUNCE_MS"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 {
			config.Watch.DebounceMs = v
		}
	}
	if dir := os.Getenv("ENVDIFF_BACKUP_DIR"); dir != "" {
		config.Safety.BackupDir = dir
	}
	if debug := os.Getenv("DEBUG"); debug == "true" {
		config.Debug = true
	}
}
