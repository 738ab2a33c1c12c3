package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"ferret/internal/config"
	"ferret/internal/errors"
	"ferret/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to create a temporary YAML config file
func createTestYAML(t *testing.T, content string) string {
	t.Helper()
	tmpFile, err := os.CreateTemp(t.TempDir(), "config-*.yaml")
	require.NoError(t, err)
	_, err = tmpFile.WriteString(content)
	require.NoError(t, err)
	err = tmpFile.Close()
	require.NoError(t, err)
	return tmpFile.Name()
}

const (
	validYAML = `
search:
  include_hidden: true
  include_extension_in_match: false
  case_sensitive: true
  default_kind: regex
listing:
  folders_first: false
volumes:
  poll_interval: 10
  mount_roots: ["/media/test", "/run/media/test"]
logging:
  level: DEBUG
  format: json
`
	partialYAML = `
search:
  default_kind: mask
`
	invalidSyntaxYAML = `
search:
  default_kind: "plain
listing: # Missing closing quote
  include_hidden: yes
`
	invalidKindYAML = `
search:
  default_kind: fuzzy
`
	invalidIntervalYAML = `
volumes:
  poll_interval: 0
`
	invalidRootsYAML = `
volumes:
  mount_roots:
    - ""
    - "/media/test"
`
)

func TestLoadConfigFile(t *testing.T) {
	t.Run("load valid config", func(t *testing.T) {
		configFile := createTestYAML(t, validYAML)
		cfg, err := config.LoadConfigFile(configFile)

		require.NoError(t, err)
		require.NotNil(t, cfg)

		// Assert specific loaded values
		assert.True(t, cfg.Search.IncludeHidden)
		assert.False(t, cfg.Search.IncludeExtensionInMatch)
		assert.True(t, cfg.Search.CaseSensitive)
		assert.Equal(t, types.Regex, cfg.Search.DefaultKind)
		assert.False(t, cfg.Listing.FoldersFirst)
		assert.Equal(t, 10, cfg.Volumes.PollInterval)
		assert.Equal(t, []string{"/media/test", "/run/media/test"}, cfg.Volumes.MountRoots)
		assert.Equal(t, "debug", cfg.Logging.Level)
		assert.Equal(t, "json", cfg.Logging.Format)
	})

	t.Run("unset keys keep defaults", func(t *testing.T) {
		configFile := createTestYAML(t, partialYAML)
		cfg, err := config.LoadConfigFile(configFile)
		require.NoError(t, err)

		assert.Equal(t, types.Mask, cfg.Search.DefaultKind)
		assert.True(t, cfg.Search.IncludeExtensionInMatch)
		assert.True(t, cfg.Listing.IncludeHidden)
		assert.True(t, cfg.Listing.FoldersFirst)
		assert.True(t, cfg.Volumes.WatchMountRoots)
		assert.Equal(t, 5, cfg.Volumes.PollInterval)
	})

	t.Run("load non-existent file", func(t *testing.T) {
		nonExistentPath := filepath.Join(t.TempDir(), "does_not_exist.yaml")
		cfg, err := config.LoadConfigFile(nonExistentPath)

		require.NoError(t, err, "Loading non-existent file should return default config, not an error")
		require.NotNil(t, cfg)
		assert.Equal(t, config.New(), cfg)
	})

	t.Run("load file with invalid YAML syntax", func(t *testing.T) {
		configFile := createTestYAML(t, invalidSyntaxYAML)
		_, err := config.LoadConfigFile(configFile)

		require.Error(t, err, "Loading invalid YAML should return an error")
		assert.Contains(t, err.Error(), "error parsing config file", "Error message should indicate parsing failure")
		assert.Contains(t, err.Error(), configFile, "Error message should name the file")
	})

	t.Run("load file with unknown pattern kind", func(t *testing.T) {
		configFile := createTestYAML(t, invalidKindYAML)
		_, err := config.LoadConfigFile(configFile)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown pattern kind")
	})

	t.Run("load file with invalid poll interval", func(t *testing.T) {
		configFile := createTestYAML(t, invalidIntervalYAML)
		_, err := config.LoadConfigFile(configFile)

		require.Error(t, err, "Loading config with invalid value should return an error")
		assert.Contains(t, err.Error(), "invalid configuration", "Error message should indicate validation failure")
		assert.Contains(t, err.Error(), "volumes.poll_interval")
		assert.True(t, errors.IsInvalidConfig(err))
	})

	t.Run("load file with invalid mount roots", func(t *testing.T) {
		configFile := createTestYAML(t, invalidRootsYAML)
		_, err := config.LoadConfigFile(configFile)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid configuration")
		assert.Contains(t, err.Error(), "path cannot be empty")
	})
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*config.Config)
		wantErr bool
	}{
		{name: "defaults", modify: func(*config.Config) {}},
		{name: "warn level", modify: func(c *config.Config) { c.Logging.Level = "warn" }},
		{name: "invalid kind", modify: func(c *config.Config) { c.Search.DefaultKind = types.PatternKind(9) }, wantErr: true},
		{name: "invalid interval", modify: func(c *config.Config) { c.Volumes.PollInterval = -1 }, wantErr: true},
		{name: "invalid level", modify: func(c *config.Config) { c.Logging.Level = "loud" }, wantErr: true},
		{name: "invalid format", modify: func(c *config.Config) { c.Logging.Format = "xml" }, wantErr: true},
		{name: "blank mount root", modify: func(c *config.Config) { c.Volumes.MountRoots = []string{" "} }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	var nilCfg *config.Config
	assert.Error(t, nilCfg.Validate())
}

func TestSaveConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "ferret", "config.yaml")

	cfg := config.New()
	cfg.Search.DefaultKind = types.Mask
	cfg.Volumes.MountRoots = []string{"/media/usb"}
	require.NoError(t, config.SaveConfig(cfg, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "default_kind: mask")

	loaded, err := config.LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestSearchRequest(t *testing.T) {
	cfg := config.NewTestConfig()
	cfg.Search.DefaultKind = types.Regex

	req := cfg.SearchRequest("/data", `^report`)
	assert.Equal(t, "/data", req.Root)
	assert.Equal(t, `^report`, req.Pattern)
	assert.Equal(t, types.Regex, req.Kind)
	assert.True(t, req.IncludeHidden)
	assert.True(t, req.IncludeExtensionInMatch)
}
