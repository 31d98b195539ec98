package cli

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/graphpad/internal/api"
	"github.com/matzehuels/graphpad/pkg/analytics"
	"github.com/matzehuels/graphpad/pkg/layout"
	"github.com/matzehuels/graphpad/pkg/store"
)

// configFile is the config file name inside the config directory.
const configFile = "config.toml"

// Config is the on-disk CLI configuration. Flags override its values.
type Config struct {
	Canvas   CanvasConfig   `toml:"canvas"`
	Store    store.Config   `toml:"store"`
	Server   ServerConfig   `toml:"server"`
	PageRank PageRankConfig `toml:"pagerank"`
	Cache    CacheConfig    `toml:"cache"`
}

// CanvasConfig sets the layout canvas.
type CanvasConfig struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

// ServerConfig configures "graphpad serve".
type ServerConfig struct {
	Addr           string   `toml:"addr"`
	AllowedOrigins []string `toml:"allowed_origins"`
}

// PageRankConfig holds PageRank defaults.
type PageRankConfig struct {
	Damping float64 `toml:"damping"`
	MaxIter int     `toml:"max_iter"`
	Tol     float64 `toml:"tol"`
}

// CacheConfig controls the result cache.
type CacheConfig struct {
	Disabled bool `toml:"disabled"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Canvas: CanvasConfig{Width: layout.DefaultWidth, Height: layout.DefaultHeight},
		Store:  store.Config{Backend: store.BackendFile},
		Server: ServerConfig{Addr: api.DefaultAddr},
		PageRank: PageRankConfig{
			Damping: analytics.DefaultDamping,
			MaxIter: analytics.DefaultMaxIter,
			Tol:     analytics.DefaultTol,
		},
	}
}

// LoadConfig reads path over the defaults. A missing file is not an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if stderrors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return DefaultConfig(), fmt.Errorf("read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return DefaultConfig(), fmt.Errorf("config %s: unknown key %q", path, undecoded[0].String())
	}
	return cfg, nil
}

// WriteConfig writes cfg to path, creating the directory if needed.
func WriteConfig(cfg Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("create config: %w", err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}
