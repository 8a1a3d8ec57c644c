package repo

import (
	"bytes"
	"fmt"
	"path"

	"github.com/BurntSushi/toml"

	"github.com/odvcencio/g1t/pkg/fsys"
	"github.com/odvcencio/g1t/pkg/object"
)

const configFile = "config.toml"

// Config stores repository-local settings.
type Config struct {
	User UserConfig `toml:"user"`
	Core CoreConfig `toml:"core"`
}

type UserConfig struct {
	Name string `toml:"name"`
}

type CoreConfig struct {
	// CacheSize bounds the object read cache. Zero disables caching.
	CacheSize int `toml:"cache_size"`
}

// DefaultConfig returns the config written by Init.
func DefaultConfig() *Config {
	return &Config{
		Core: CoreConfig{CacheSize: object.DefaultCacheSize},
	}
}

func (r *Repo) configPath() string {
	return path.Join(r.dir, configFile)
}

// readConfig reads the TOML config at p. Missing config returns the
// defaults; keys absent from the file keep their default values.
func readConfig(fs fsys.FS, p string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := fsys.ReadFile(fs, p)
	if err != nil {
		if fsys.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("read config: decode: %w", err)
	}
	if cfg.Core.CacheSize < 0 {
		return nil, fmt.Errorf("read config: core.cache_size must not be negative, got %d", cfg.Core.CacheSize)
	}
	return cfg, nil
}

// writeConfig atomically writes cfg as TOML to p.
func writeConfig(fs fsys.FS, p string, cfg *Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("write config: encode: %w", err)
	}
	if err := fsys.WriteFileAtomic(fs, p, buf.Bytes()); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// SetUserName stores the author name used for new commits.
func (r *Repo) SetUserName(name string) error {
	if err := validateAuthor(name); err != nil {
		return fmt.Errorf("set user name: %w", err)
	}
	unlock, err := r.lock()
	if err != nil {
		return fmt.Errorf("set user name: %w", err)
	}
	defer unlock()

	cfg, err := readConfig(r.fs, r.configPath())
	if err != nil {
		return fmt.Errorf("set user name: %w", err)
	}
	cfg.User.Name = name
	if err := writeConfig(r.fs, r.configPath(), cfg); err != nil {
		return fmt.Errorf("set user name: %w", err)
	}
	r.Config = cfg
	r.author = name
	return nil
}
