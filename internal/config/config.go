// Package config resolves job settings from defaults, an optional TOML
// file and CHAINCOMP_* environment variables. Command-line flags are
// applied on top by the cli package.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

const (
	PolicyFail = "fail"
	PolicyWarn = "warn"
)

// Duration decodes TOML strings such as "90s".
type Duration time.Duration

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(b)))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) { return []byte(time.Duration(d).String()), nil }

type EngineConfig struct {
	Seed         int64  `toml:"seed"`
	MaxRounds    int    `toml:"max_rounds"`    // 0 = no budget
	BudgetPolicy string `toml:"budget_policy"` // fail | warn
}

type StoreConfig struct {
	Partitions    int `toml:"partitions"`
	KeepSnapshots int `toml:"keep_snapshots"` // 0 = keep every round
}

type RunConfig struct {
	Threads      int      `toml:"threads"` // 0 = all CPUs
	RoundTimeout Duration `toml:"round_timeout"`
	Retries      int      `toml:"retries"`
	MetricsFile  string   `toml:"metrics_file"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

type Config struct {
	Engine EngineConfig `toml:"engine"`
	Store  StoreConfig  `toml:"store"`
	Run    RunConfig    `toml:"run"`
	Log    LogConfig    `toml:"log"`
}

func Default() Config {
	return Config{
		Engine: EngineConfig{BudgetPolicy: PolicyFail},
		Store:  StoreConfig{Partitions: 8},
		Run:    RunConfig{Retries: 3},
		Log:    LogConfig{Level: "info"},
	}
}

// Load returns the defaults overlaid with the file at path. An empty path
// yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return cfg, nil
}

// LoadDotEnv reads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing file is not
// an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}

// Resolve is Load followed by ApplyEnv with the process environment.
func Resolve(path string) (Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return cfg, err
	}
	if err := ApplyEnv(&cfg, os.Getenv); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs *multierror.Error
	if c.Engine.MaxRounds < 0 {
		errs = multierror.Append(errs, fmt.Errorf("engine.max_rounds must be ≥ 0"))
	}
	switch c.Engine.BudgetPolicy {
	case PolicyFail, PolicyWarn:
	default:
		errs = multierror.Append(errs, fmt.Errorf("engine.budget_policy must be %q or %q, got %q", PolicyFail, PolicyWarn, c.Engine.BudgetPolicy))
	}
	if c.Store.Partitions < 1 {
		errs = multierror.Append(errs, fmt.Errorf("store.partitions must be ≥ 1"))
	}
	if c.Store.KeepSnapshots < 0 {
		errs = multierror.Append(errs, fmt.Errorf("store.keep_snapshots must be ≥ 0"))
	}
	if c.Run.Threads < 0 {
		errs = multierror.Append(errs, fmt.Errorf("run.threads must be ≥ 0"))
	}
	if c.Run.Retries < 0 {
		errs = multierror.Append(errs, fmt.Errorf("run.retries must be ≥ 0"))
	}
	if c.Run.RoundTimeout < 0 {
		errs = multierror.Append(errs, fmt.Errorf("run.round_timeout must be ≥ 0"))
	}
	if _, ok := ParseLevel(c.Log.Level); !ok {
		errs = multierror.Append(errs, fmt.Errorf("log.level %q is not a level", c.Log.Level))
	}
	return errs.ErrorOrNil()
}
