package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/appengine-ltd/mine-anything/internal/logging"
)

// AppConfig is the on-disk process configuration. Game state lives in the
// store, not here.
type AppConfig struct {
	StoreDriver string `yaml:"store_driver"`
	StorePath   string `yaml:"store_path"`
	LogLevel    string `yaml:"log_level"`
	LogDir      string `yaml:"log_dir"`
	Seed        int64  `yaml:"seed,omitempty"`
	TickMillis  int    `yaml:"tick_ms"`
	DebugAddr   string `yaml:"debug_addr,omitempty"`
	AssetsDir   string `yaml:"assets_dir,omitempty"`
}

const defaultTickMillis = 16

func Defaults() AppConfig {
	return AppConfig{
		StoreDriver: "sqlite",
		StorePath:   defaultStorePath(),
		LogLevel:    "info",
		LogDir:      defaultLogDir(),
		TickMillis:  defaultTickMillis,
	}
}

// Load reads path. A missing file yields the defaults; empty fields in an
// existing file are filled from the defaults.
func Load(path string) (AppConfig, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return AppConfig{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return AppConfig{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

func (c *AppConfig) normalize() error {
	d := Defaults()
	c.StoreDriver = strings.ToLower(strings.TrimSpace(c.StoreDriver))
	if c.StoreDriver == "" {
		c.StoreDriver = d.StoreDriver
	}
	if c.StoreDriver != "sqlite" && c.StoreDriver != "memory" {
		return fmt.Errorf("parse config: unknown store_driver %q", c.StoreDriver)
	}
	if c.StorePath == "" {
		c.StorePath = d.StorePath
	}
	if c.LogDir == "" {
		c.LogDir = d.LogDir
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	if c.TickMillis <= 0 {
		c.TickMillis = d.TickMillis
	}
	return nil
}

func (c AppConfig) Tick() time.Duration {
	return time.Duration(c.TickMillis) * time.Millisecond
}

func (c AppConfig) Level() logging.Level {
	l, _ := logging.ParseLevel(c.LogLevel)
	return l
}

// Save writes cfg to path through a temp file and rename.
func Save(path string, cfg AppConfig) error {
	if err := cfg.normalize(); err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "config-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return err
	}

	cleanup = false
	return nil
}
