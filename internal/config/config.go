package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ferret/internal/errors"
	"ferret/pkg/types"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration structure.
// It defines search defaults, listing behaviour, volume polling and logging.
type Config struct {
	Search  Search  `yaml:"search"`
	Listing Listing `yaml:"listing"`
	Volumes Volumes `yaml:"volumes"`
	Logging Logging `yaml:"logging"`
}

// Search holds the defaults applied to `ferret find` and backend searches.
type Search struct {
	IncludeHidden           bool              `yaml:"include_hidden"`             // Descend into and report hidden entries
	IncludeExtensionInMatch bool              `yaml:"include_extension_in_match"` // Match against the full file name
	CaseSensitive           bool              `yaml:"case_sensitive"`             // Case-sensitive pattern matching
	AnchorRegex             bool              `yaml:"anchor_regex"`               // Regex must match the whole name
	FollowSymlinks          bool              `yaml:"follow_symlinks"`            // Descend symlinked directories
	DefaultKind             types.PatternKind `yaml:"default_kind"`               // plain, mask or regex
}

// Listing controls directory reads.
type Listing struct {
	IncludeHidden bool `yaml:"include_hidden"`
	FoldersFirst  bool `yaml:"folders_first"`
}

// Volumes configures the volume monitor.
type Volumes struct {
	PollInterval    int      `yaml:"poll_interval"`     // Poll interval in seconds
	WatchMountRoots bool     `yaml:"watch_mount_roots"` // Also poll on fsnotify events under mount roots
	MountRoots      []string `yaml:"mount_roots"`       // Defaults per OS when empty
}

// Logging configures internal/log.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file,omitempty"`
}

// DefaultPath returns ~/.config/ferret/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "ferret", "config.yaml"), nil
}

// LoadConfig loads configuration from the default location
// (~/.config/ferret/config.yaml).
func LoadConfig() (*Config, error) {
	configPath, err := DefaultPath()
	if err != nil {
		return nil, err
	}
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

	// Decode over the defaults so keys absent from the file keep their default values
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "error parsing config file %s", path)
	}

	cfg.Logging.Level = strings.ToLower(cfg.Logging.Level)
	cfg.Logging.Format = strings.ToLower(cfg.Logging.Format)

	// Validate the final configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns the default configuration.
func defaultConfig() *Config {
	cfg := &Config{}

	cfg.Search.IncludeHidden = false
	cfg.Search.IncludeExtensionInMatch = true
	cfg.Search.CaseSensitive = false
	cfg.Search.AnchorRegex = false
	cfg.Search.FollowSymlinks = false
	cfg.Search.DefaultKind = types.PlainText

	cfg.Listing.IncludeHidden = true
	cfg.Listing.FoldersFirst = true

	cfg.Volumes.PollInterval = 5 // 5 seconds default interval
	cfg.Volumes.WatchMountRoots = true
	cfg.Volumes.MountRoots = []string{}

	cfg.Logging.Level = "info"
	cfg.Logging.Format = "text"

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
// Returns a *errors.ConfigError naming the offending key.
func (c *Config) Validate() error {
	if c == nil {
		return errors.NewConfigError("nil config", "", errors.InvalidConfig, nil)
	}

	if !c.Search.DefaultKind.Valid() {
		return errors.NewConfigError("invalid pattern kind", "search.default_kind", errors.InvalidConfig,
			fmt.Errorf("%d", int(c.Search.DefaultKind)))
	}

	if c.Volumes.PollInterval < 1 {
		return errors.NewConfigError("poll interval must be >= 1 second", "volumes.poll_interval", errors.InvalidConfig, nil)
	}

	for i, root := range c.Volumes.MountRoots {
		if strings.TrimSpace(root) == "" {
			return errors.NewConfigError(fmt.Sprintf("mount root %d: path cannot be empty", i), "volumes.mount_roots", errors.InvalidConfig, nil)
		}
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return errors.NewConfigError(fmt.Sprintf("invalid log level %q", c.Logging.Level), "logging.level", errors.InvalidConfig, nil)
	}

	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return errors.NewConfigError(fmt.Sprintf("invalid log format %q", c.Logging.Format), "logging.format", errors.InvalidConfig, nil)
	}

	return nil
}

// SearchRequest builds a request for pattern under root using the configured defaults.
func (c *Config) SearchRequest(root, pattern string) types.SearchRequest {
	return types.SearchRequest{
		Root:                    root,
		Pattern:                 pattern,
		Kind:                    c.Search.DefaultKind,
		IncludeHidden:           c.Search.IncludeHidden,
		IncludeExtensionInMatch: c.Search.IncludeExtensionInMatch,
	}
}

// NewTestConfig creates a configuration instance for testing purposes.
func NewTestConfig() *Config {
	cfg := defaultConfig()
	cfg.Search.IncludeHidden = true
	cfg.Volumes.PollInterval = 1
	cfg.Volumes.WatchMountRoots = false
	cfg.Logging.Level = "debug"
	return cfg
}

// New creates a new configuration instance with default values.
func New() *Config {
	return defaultConfig()
}
