// Package config loads the hivecore TOML configuration file.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config gathers everything the CLI needs to assemble a planner and an
// executor: where rules come from, how accumulation behaves, and where
// finished plans are archived.
type Config struct {
	Rules    RulesConfig    `toml:"rules"`
	Executor ExecutorConfig `toml:"executor"`
	Archive  ArchiveConfig  `toml:"archive"`
	Log      LogConfig      `toml:"log"`
}

type RulesConfig struct {
	Driver   string `toml:"driver"`   // json, sqlite, postgres
	Location string `toml:"location"` // file path or DSN, driver dependent
}

type ExecutorConfig struct {
	AccumulateBuffer int           `toml:"accumulate_buffer"`
	AccumulateYield  int           `toml:"accumulate_yield"`
	PollInterval     time.Duration `toml:"-"`
	PollIntervalRaw  string        `toml:"poll_interval"`
}

type ArchiveConfig struct {
	Driver string `toml:"driver"` // memory, fs, s3
	FSRoot string `toml:"fs_root"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Rules:    RulesConfig{Driver: "json"},
		Executor: ExecutorConfig{AccumulateBuffer: 1, AccumulateYield: 1, PollInterval: 50 * time.Millisecond},
		Archive:  ArchiveConfig{Driver: "memory"},
		Log:      LogConfig{Level: "info"},
	}
}

// Load reads path, fills unset fields with defaults, and validates the
// result. An empty path returns Default().
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	var raw Config
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}

	if meta.IsDefined("rules", "driver") {
		cfg.Rules.Driver = strings.TrimSpace(raw.Rules.Driver)
	}
	if meta.IsDefined("rules", "location") {
		cfg.Rules.Location = strings.TrimSpace(raw.Rules.Location)
	}
	if meta.IsDefined("executor", "accumulate_buffer") {
		cfg.Executor.AccumulateBuffer = raw.Executor.AccumulateBuffer
	}
	if meta.IsDefined("executor", "accumulate_yield") {
		cfg.Executor.AccumulateYield = raw.Executor.AccumulateYield
	}
	if meta.IsDefined("executor", "poll_interval") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Executor.PollIntervalRaw))
		if err != nil {
			return Config{}, fmt.Errorf("config parse failed (%s): poll_interval: %w", path, err)
		}
		cfg.Executor.PollInterval = d
	}
	if meta.IsDefined("archive", "driver") {
		cfg.Archive.Driver = strings.TrimSpace(raw.Archive.Driver)
	}
	if meta.IsDefined("archive", "fs_root") {
		cfg.Archive.FSRoot = strings.TrimSpace(raw.Archive.FSRoot)
	}
	if meta.IsDefined("log", "level") {
		cfg.Log.Level = strings.TrimSpace(raw.Log.Level)
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the CLI could not act on.
func Validate(cfg Config) error {
	switch cfg.Rules.Driver {
	case "json", "sqlite", "postgres":
	default:
		return fmt.Errorf("config invalid: unknown rules driver %q", cfg.Rules.Driver)
	}
	if cfg.Executor.AccumulateBuffer < 0 {
		return fmt.Errorf("config invalid: accumulate_buffer must not be negative")
	}
	if cfg.Executor.AccumulateYield < 1 {
		return fmt.Errorf("config invalid: accumulate_yield must be at least 1")
	}
	if cfg.Executor.PollInterval <= 0 {
		return fmt.Errorf("config invalid: poll_interval must be positive")
	}
	switch cfg.Archive.Driver {
	case "memory", "fs", "s3":
	default:
		return fmt.Errorf("config invalid: unknown archive driver %q", cfg.Archive.Driver)
	}
	return nil
}
