// internal/appcore/core.go
package appcore

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"runtime"

	"github.com/sirupsen/logrus"

	"chaincomp/internal/clibase"
	"chaincomp/internal/cmdutil"
	"chaincomp/internal/config"
	"chaincomp/internal/controller"
	"chaincomp/internal/graph"
	"chaincomp/internal/snapshot"
	"chaincomp/internal/version"
)

// Env is what every command needs once its flags are parsed.
type Env struct {
	Config config.Config
	Log    *logrus.Logger
}

// ParseResult maps a parser error onto the early exits. Help and examples
// print to stdout and exit 0; usage errors print the message plus usage and
// exit 2. done is false when the command should proceed.
func ParseResult(fs *flag.FlagSet, err error, name string, showVersion bool, examples func(io.Writer), outw *bufio.Writer, stderr io.Writer) (code int, done bool) {
	switch {
	case err == nil && showVersion:
		_, _ = fmt.Fprintf(outw, "%s version %s\n", name, version.Version)
		return cmdutil.FlushExit(outw, stderr, cmdutil.ExitOK), true
	case err == nil:
		return 0, false
	case errors.Is(err, flag.ErrHelp):
		fs.SetOutput(outw)
		fs.Usage()
		return cmdutil.FlushExit(outw, stderr, cmdutil.ExitOK), true
	case errors.Is(err, clibase.ErrPrintedAndExitOK):
		clibase.PrintExamples(outw, name, examples)
		return cmdutil.FlushExit(outw, stderr, cmdutil.ExitOK), true
	}
	_, _ = fmt.Fprintln(stderr, err)
	fs.SetOutput(outw)
	fs.Usage()
	return cmdutil.FlushExit(outw, stderr, cmdutil.ExitUsage), true
}

// Setup resolves the configuration (defaults < TOML < env < flags) and
// builds the stderr logger. apply overlays the explicitly given flags.
func Setup(c clibase.Common, apply func(*config.Config), stderr io.Writer) (Env, error) {
	if c.EnvFile != "" {
		if err := config.LoadDotEnv(c.EnvFile); err != nil {
			return Env{}, fmt.Errorf("env file %s: %w", c.EnvFile, err)
		}
	}
	cfg, err := config.Resolve(c.ConfigFile)
	if err != nil {
		return Env{}, err
	}
	apply(&cfg)
	if err := cfg.Validate(); err != nil {
		return Env{}, err
	}
	if cfg.Run.Threads <= 0 {
		cfg.Run.Threads = runtime.NumCPU()
	}
	lvl, _ := config.ParseLevel(cfg.Log.Level)
	return Env{Config: cfg, Log: cmdutil.NewLogger(stderr, lvl, c.Quiet)}, nil
}

// OpenStore opens (or creates) the store at dir with the configured
// retention and IO parallelism.
func (e Env) OpenStore(dir string) (*snapshot.FSStore, error) {
	return snapshot.Open(dir, snapshot.Options{
		KeepSnapshots: e.Config.Store.KeepSnapshots,
		Threads:       e.Config.Run.Threads,
		Log:           e.Log,
	})
}

// ExitCode maps a run error onto the shared exit codes.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return cmdutil.ExitOK
	case errors.Is(err, context.Canceled):
		return cmdutil.ExitCanceled
	case errors.Is(err, controller.ErrConvergenceNotReached):
		return cmdutil.ExitBudget
	}
	return cmdutil.ExitRuntime
}

// Reason is a short label for err used in the final log line.
func Reason(err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, controller.ErrConvergenceNotReached):
		return "budget"
	case graph.IsFatal(err):
		return "fatal"
	}
	return "error"
}
