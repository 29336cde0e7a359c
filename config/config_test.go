package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/meridianhft/meridian/config"
	"github.com/meridianhft/meridian/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := config.Read(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, config.NewDefaultConfig(), cfg)
}

func TestConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()

	cfg := config.NewDefaultConfig()
	cfg.Logging.Level = logging.DebugLevel
	cfg.Feed.Shards = 8
	cfg.Matching.LogRemovedOrdersDebug = true

	require.NoError(t, config.Write(dir, cfg))

	got, err := config.Read(dir)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestConfigOverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	raw := "[feed]\nShards = 2\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.DefaultFileName), []byte(raw), 0o644))

	cfg, err := config.Read(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Feed.Shards)
	// untouched sections keep their defaults
	assert.Equal(t, config.NewDefaultConfig().Candles, cfg.Candles)
}
