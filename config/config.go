// Package config loads the agent's process settings from the environment and
// its auto-roll presets and matcher data from the resource bundle.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/MaaXYZ/MaaCube/agent/go-service/potential"
	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

// Config - process settings
type Config struct {
	LogLevel    string `env:"CUBE_AGENT_LOG_LEVEL" envDefault:"info"`
	LogDir      string `env:"CUBE_AGENT_LOG_DIR" envDefault:"debug"`
	ResourceDir string `env:"CUBE_AGENT_RESOURCE_DIR" envDefault:"resource"`
	DefaultStat string `env:"CUBE_AGENT_DEFAULT_STAT" envDefault:"STR"`
	MaxCycles   int    `env:"CUBE_AGENT_MAX_CYCLES" envDefault:"0"`
	SnapshotDir string `env:"CUBE_AGENT_SNAPSHOT_DIR" envDefault:"debug/cube"`
}

// Parse loads Config from environment variables and checks it.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
		return Config{}, fmt.Errorf("CUBE_AGENT_LOG_LEVEL: %w", err)
	}
	if _, ok := potential.ParseStat(cfg.DefaultStat); !ok {
		return Config{}, fmt.Errorf("CUBE_AGENT_DEFAULT_STAT: unknown stat %q", cfg.DefaultStat)
	}
	if cfg.MaxCycles < 0 {
		return Config{}, fmt.Errorf("CUBE_AGENT_MAX_CYCLES: must not be negative, got %d", cfg.MaxCycles)
	}
	return cfg, nil
}

// Level is the parsed log level; unparsable values fall back to info.
func (c Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// Stat is the configured default primary stat.
func (c Config) Stat() potential.Stat {
	s, ok := potential.ParseStat(c.DefaultStat)
	if !ok {
		return potential.StatSTR
	}
	return s
}

// ResourceBase locates the resource bundle: ResourceDir as given when it
// exists, otherwise next to the executable or one level above it.
func (c Config) ResourceBase() string {
	if filepath.IsAbs(c.ResourceDir) || isDir(c.ResourceDir) {
		return c.ResourceDir
	}
	if exe, err := os.Executable(); err == nil {
		dir := filepath.Dir(exe)
		for _, cand := range []string{
			filepath.Join(dir, c.ResourceDir),
			filepath.Join(dir, "..", c.ResourceDir),
		} {
			if isDir(cand) {
				return cand
			}
		}
	}
	return c.ResourceDir
}

// GameDataDir holds the auto-roll data files.
func (c Config) GameDataDir() string {
	return filepath.Join(c.ResourceBase(), "gamedata", "CubeAutoRoll")
}

func (c Config) AutoRollPath() string {
	return filepath.Join(c.GameDataDir(), "auto_roll.yaml")
}

func (c Config) PoolPath() string {
	return filepath.Join(c.GameDataDir(), "potential_pool.json")
}

func (c Config) MatcherConfigPath() string {
	return filepath.Join(c.GameDataDir(), "matcher_config.json")
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
