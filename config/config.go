package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/meridianhft/meridian/candles"
	"github.com/meridianhft/meridian/feed"
	"github.com/meridianhft/meridian/logging"
	"github.com/meridianhft/meridian/matching"
)

// DefaultFileName is the config file looked up under the root path.
const DefaultFileName = "config.toml"

// Config ties together all other application configuration types.
type Config struct {
	Logging  logging.Config  `toml:"logging"`
	Matching matching.Config `toml:"matching"`
	Candles  candles.Config  `toml:"candles"`
	Feed     feed.Config     `toml:"feed"`
}

// NewDefaultConfig returns the whole tree at its defaults.
func NewDefaultConfig() Config {
	return Config{
		Logging:  logging.NewDefaultConfig(),
		Matching: matching.NewDefaultConfig(),
		Candles:  candles.NewDefaultConfig(),
		Feed:     feed.NewDefaultConfig(),
	}
}

// Read loads the config file under rootPath, layering it over the
// defaults. A missing file yields the defaults untouched.
func Read(rootPath string) (Config, error) {
	cfg := NewDefaultConfig()
	path := filepath.Join(rootPath, DefaultFileName)
	buf, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, err
	}
	if err := toml.Unmarshal(buf, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Write serialises the config tree to rootPath, creating the directory
// when needed.
func Write(rootPath string, cfg Config) error {
	if err := os.MkdirAll(rootPath, 0o755); err != nil {
		return err
	}
	f, err := os.Create(filepath.Join(rootPath, DefaultFileName))
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}
