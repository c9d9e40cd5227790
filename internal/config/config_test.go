package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fxnlabs/device-runtime/fixtures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		config, err := LoadConfig("../../fixtures/tests/config/valid_config.yaml")
		require.NoError(t, err)
		require.NotNil(t, config)

		assert.Equal(t, "debug", config.Logger.Verbosity)
		assert.Equal(t, "console", config.Logger.Encoding)
		assert.Equal(t, 1, config.Device.Default)
		assert.Equal(t, "0.0.0.0", config.Server.ListenAddress)
		assert.Equal(t, 8080, config.Server.ListenPort)
		assert.Equal(t, 2*time.Second, config.Server.ReadHeaderTimeout)
		assert.False(t, config.Metrics.Enabled)
		// not set in the file
		assert.Equal(t, 10*time.Second, config.Server.ShutdownTimeout)
		assert.Equal(t, "0.0.0.0:8080", config.ListenAddr())
	})

	t.Run("directory resolves to config.yaml", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("device:\n  default: 2\n"), 0o600))

		config, err := LoadConfig(dir)
		require.NoError(t, err)
		assert.Equal(t, 2, config.Device.Default)
		assert.Equal(t, "info", config.Logger.Verbosity)
	})

	t.Run("non-existent file", func(t *testing.T) {
		_, err := LoadConfig("non-existent-file.yaml")
		assert.Error(t, err)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		dir, err := os.Getwd()
		require.NoError(t, err)

		configPath := filepath.Join(dir, "..", "..", "fixtures", "tests", "invalid_config", "config.yaml")
		_, err = LoadConfig(configPath)
		assert.Error(t, err)
	})

	t.Run("port out of range", func(t *testing.T) {
		_, err := LoadConfig("../../fixtures/tests/bad_port/config.yaml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "listenPort")
	})
}

func TestTemplateMatchesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, fixtures.ConfigTemplate, 0o600))

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), config)
}

func TestValidate(t *testing.T) {
	config := Default()
	require.NoError(t, config.Validate())

	config.Logger.Encoding = "xml"
	assert.Error(t, config.Validate())

	config = Default()
	config.Server.ShutdownTimeout = -time.Second
	assert.Error(t, config.Validate())
}

func TestGetDefaultConfigHome(t *testing.T) {
	assert.Equal(t, ".devctl", filepath.Base(GetDefaultConfigHome()))
}
