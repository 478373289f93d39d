package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	defaultInterval     = 3000 // milliseconds
	defaultWindowWidth  = 1024
	defaultWindowHeight = 768
	defaultCacheSize    = 5
)

type Config struct {
	Interval     int  `koanf:"interval"`      // time between slides in milliseconds
	WindowWidth  int  `koanf:"window_width"`  // windowed-mode width in pixels
	WindowHeight int  `koanf:"window_height"` // windowed-mode height in pixels
	IsFullscreen bool `koanf:"is_fullscreen"` // start in fullscreen mode
	CacheSize    int  `koanf:"cache_size"`    // prefetch cache capacity
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Try config files in order of priority (last wins)
	configPaths := getConfigPaths()

	for _, path := range configPaths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{
		Interval:     defaultInterval,
		WindowWidth:  defaultWindowWidth,
		WindowHeight: defaultWindowHeight,
		CacheSize:    defaultCacheSize,
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	// Clamp nonsense values back to defaults
	if cfg.Interval <= 0 {
		cfg.Interval = defaultInterval
	}
	if cfg.WindowWidth <= 0 {
		cfg.WindowWidth = defaultWindowWidth
	}
	if cfg.WindowHeight <= 0 {
		cfg.WindowHeight = defaultWindowHeight
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = defaultCacheSize
	}

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/photodrift/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "photodrift", "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

// IntervalDuration returns the slide interval as a duration.
func (c *Config) IntervalDuration() time.Duration {
	return time.Duration(c.Interval) * time.Millisecond
}
