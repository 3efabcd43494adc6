package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultSuffixFileName is the suffix file looked up next to the image
// prefix when none is given on the command line.
const DefaultSuffixFileName = "igridvu_suffix.txt"

// Config represents the application configuration structure.
// It defines the image safety limits, grid defaults, and zoom behavior.
type Config struct {
	Limits struct {
		MaxFileMB    int `yaml:"max_file_mb"`   // Per-file size ceiling before decode is attempted
		MaxDimension int `yaml:"max_dimension"` // Max width or height in pixels
		MaxImages    int `yaml:"max_images"`    // Max panels in one grid
	} `yaml:"limits"`
	Grid struct {
		Columns    int    `yaml:"columns"`     // Default column count
		SuffixFile string `yaml:"suffix_file"` // Default suffix file name
	} `yaml:"grid"`
	Zoom struct {
		Min  float64 `yaml:"min"`  // Minimum scale factor
		Max  float64 `yaml:"max"`  // Maximum scale factor
		Step float64 `yaml:"step"` // Scale multiplier per wheel notch
	} `yaml:"zoom"`
	Watch struct {
		Enabled    bool `yaml:"enabled"`     // Reload panels when dataset files change
		DebounceMS int  `yaml:"debounce_ms"` // Quiet period before a reload fires
	} `yaml:"watch"`
}

// LoadConfig loads configuration from the default location
// (~/.config/igridvu/config.yaml).
func LoadConfig() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	configPath := filepath.Join(home, ".config", "igridvu", "config.yaml")
	return LoadConfigFile(configPath)
}

// LoadConfigFile loads configuration from a specific file path.
// If the file doesn't exist, returns default configuration.
func LoadConfigFile(path string) (*Config, error) {
	// Start with default configuration
	cfg := defaultConfig()

	// Try to read the config file
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if file doesn't exist
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Unmarshal into a temporary config to preserve defaults for unset fields
	var tempCfg Config
	if err := yaml.Unmarshal(data, &tempCfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	// Merge the loaded config with defaults. Zero or negative values
	// keep the default rather than erroring, so a sparse file works.
	if tempCfg.Limits.MaxFileMB > 0 {
		cfg.Limits.MaxFileMB = tempCfg.Limits.MaxFileMB
	}
	if tempCfg.Limits.MaxDimension > 0 {
		cfg.Limits.MaxDimension = tempCfg.Limits.MaxDimension
	}
	if tempCfg.Limits.MaxImages > 0 {
		cfg.Limits.MaxImages = tempCfg.Limits.MaxImages
	}
	if tempCfg.Grid.Columns > 0 {
		cfg.Grid.Columns = tempCfg.Grid.Columns
	}
	if tempCfg.Grid.SuffixFile != "" {
		cfg.Grid.SuffixFile = tempCfg.Grid.SuffixFile
	}
	if tempCfg.Zoom.Min > 0 {
		cfg.Zoom.Min = tempCfg.Zoom.Min
	}
	if tempCfg.Zoom.Max > 0 {
		cfg.Zoom.Max = tempCfg.Zoom.Max
	}
	if tempCfg.Zoom.Step > 0 {
		cfg.Zoom.Step = tempCfg.Zoom.Step
	}
	cfg.Watch.Enabled = tempCfg.Watch.Enabled
	if tempCfg.Watch.DebounceMS > 0 {
		cfg.Watch.DebounceMS = tempCfg.Watch.DebounceMS
	}

	// Validate the final configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns the default configuration with safe defaults.
func defaultConfig() *Config {
	cfg := &Config{}

	cfg.Limits.MaxFileMB = 50
	cfg.Limits.MaxDimension = 10000
	cfg.Limits.MaxImages = 30

	cfg.Grid.Columns = 4
	cfg.Grid.SuffixFile = DefaultSuffixFileName

	cfg.Zoom.Min = 0.1
	cfg.Zoom.Max = 10.0
	cfg.Zoom.Step = 1.15

	cfg.Watch.Enabled = false
	cfg.Watch.DebounceMS = 250

	return cfg
}

// SaveConfig saves the configuration to the specified file.
// It creates parent directories if they don't exist.
func SaveConfig(cfg *Config, path string) error {
	// Create parent directories if they don't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Marshal the config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write the data to the file
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid.
// Returns error if any settings are invalid.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("nil config")
	}

	if c.Limits.MaxFileMB < 1 {
		return fmt.Errorf("limits.max_file_mb must be >= 1")
	}
	if c.Limits.MaxDimension < 1 {
		return fmt.Errorf("limits.max_dimension must be >= 1")
	}
	if c.Limits.MaxImages < 1 {
		return fmt.Errorf("limits.max_images must be >= 1")
	}
	if c.Grid.Columns < 1 {
		return fmt.Errorf("grid.columns must be >= 1")
	}
	if c.Zoom.Min <= 0 {
		return fmt.Errorf("zoom.min must be > 0")
	}
	if c.Zoom.Max <= c.Zoom.Min {
		return fmt.Errorf("zoom.max must be greater than zoom.min")
	}
	if c.Zoom.Step <= 1 {
		return fmt.Errorf("zoom.step must be > 1")
	}
	if c.Watch.DebounceMS < 0 {
		return fmt.Errorf("watch.debounce_ms must be >= 0")
	}

	return nil
}

// MaxFileBytes returns the file size ceiling in bytes.
func (c *Config) MaxFileBytes() int64 {
	return int64(c.Limits.MaxFileMB) << 20
}

// NewTestConfig returns a configuration suitable for tests: default
// values without touching the filesystem.
func NewTestConfig() *Config {
	return defaultConfig()
}
