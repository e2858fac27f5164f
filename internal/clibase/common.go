// internal/clibase/common.go
package clibase

import (
	"errors"
	"flag"

	"chaincomp/internal/config"
)

// Common holds CLI fields shared by chaincomp, chaincomp-import and
// chaincomp-export.
type Common struct {
	ConfigFile string
	EnvFile    string
	Threads    int
	LogLevel   string
	Quiet      bool
	Examples   bool
	Version    bool
}

// Register wires shared flags onto fs.
func Register(fs *flag.FlagSet, c *Common) {
	fs.StringVar(&c.ConfigFile, "config", "", "TOML config file")
	fs.StringVar(&c.EnvFile, "env-file", ".env", "dotenv file with CHAINCOMP_* overrides [.env]")
	fs.IntVar(&c.Threads, "threads", 0, "worker threads (0=all CPUs) [0]")
	fs.IntVar(&c.Threads, "t", 0, "alias of --threads")
	fs.StringVar(&c.LogLevel, "log-level", "info", "log level: trace | debug | info | warn | error [info]")

	fs.BoolVar(&c.Quiet, "quiet", false, "suppress non-essential warnings [false]")
	fs.BoolVar(&c.Quiet, "q", false, "alias of --quiet")
	fs.BoolVar(&c.Examples, "examples", false, "print usage examples and exit [false]")
	fs.BoolVar(&c.Version, "v", false, "print version and exit [false]")
	fs.BoolVar(&c.Version, "version", false, "print version and exit [false]")
}

// SetFlags returns the names of the flags given on the command line.
func SetFlags(fs *flag.FlagSet) map[string]bool {
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

// Apply copies explicitly given shared flags over cfg.
func Apply(c Common, set map[string]bool, cfg *config.Config) {
	if set["threads"] || set["t"] {
		cfg.Run.Threads = c.Threads
	}
	if set["log-level"] {
		cfg.Log.Level = c.LogLevel
	}
}

// Validate applies shared CLI invariants used by all tools.
func Validate(c *Common) error {
	if c.Threads < 0 {
		return errors.New("--threads must be ≥ 0")
	}
	if _, ok := config.ParseLevel(c.LogLevel); !ok {
		return errors.New("--log-level must be one of trace, debug, info, warn, error")
	}
	return nil
}
