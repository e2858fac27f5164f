// internal/cli/compress.go
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"chaincomp/internal/clibase"
	"chaincomp/internal/config"
)

// CompressOptions holds the chaincomp flags.
type CompressOptions struct {
	clibase.Common

	Input     string // JSONL graph or an existing store
	Sequences string // FASTA sidecar when Input is JSONL
	Output    string // store directory
	Overlap   int    // required when Input is JSONL

	Seed          int64
	MaxRounds     int
	BudgetPolicy  string
	Partitions    int
	KeepSnapshots int
	RoundTimeout  time.Duration
	Retries       int
	MetricsFile   string

	set map[string]bool
}

func registerCompress(fs *flag.FlagSet, o *CompressOptions) {
	clibase.Register(fs, &o.Common)
	d := config.Default()

	fs.StringVar(&o.Input, "input", "", "JSONL graph (.gz ok) or existing store to resume")
	fs.StringVar(&o.Input, "i", "", "alias of --input")
	fs.StringVar(&o.Sequences, "sequences", "", "FASTA sidecar with node sequences (JSONL input)")
	fs.StringVar(&o.Output, "output", "", "store directory [*]")
	fs.StringVar(&o.Output, "o", "", "alias of --output")
	fs.IntVar(&o.Overlap, "overlap", -1, "bases shared by adjacent nodes, K-1 (JSONL input) [*]")

	fs.Int64Var(&o.Seed, "seed", d.Engine.Seed, "coin seed")
	fs.IntVar(&o.MaxRounds, "max-rounds", d.Engine.MaxRounds, "round budget (0=none)")
	fs.StringVar(&o.BudgetPolicy, "budget-policy", d.Engine.BudgetPolicy, "on budget exhaustion: fail | warn")
	fs.IntVar(&o.Partitions, "partitions", d.Store.Partitions, "snapshot partitions")
	fs.IntVar(&o.KeepSnapshots, "keep-snapshots", d.Store.KeepSnapshots, "rounds kept on disk besides round 0 (0=all)")
	fs.DurationVar(&o.RoundTimeout, "round-timeout", 0, "fail a round that runs longer (0=none)")
	fs.IntVar(&o.Retries, "retries", d.Run.Retries, "retries of a round after a transient store error")
	fs.StringVar(&o.MetricsFile, "metrics-file", "", "write Prometheus textfile metrics here")

	clibase.UsageCommon(fs, "chaincomp", "contract unambiguous chains in an assembly graph", func(out io.Writer, def func(string) string) {
		fmt.Fprintln(out, "Usage:")
		fmt.Fprintln(out, "  chaincomp --input graph.jsonl --overlap 30 --output store/ --seed 42")
		fmt.Fprintln(out, "  chaincomp --output store/                  # resume")
		fmt.Fprintln(out, "\nInput:")
		fmt.Fprintln(out, "  -i, --input file|dir        JSONL graph (.gz ok) or an existing store")
		fmt.Fprintln(out, "      --sequences file        FASTA sidecar with node sequences")
		fmt.Fprintln(out, "      --overlap int           Bases shared by adjacent nodes (K-1)")
		fmt.Fprintln(out, "  -o, --output dir            Store directory [*]")
		fmt.Fprintln(out, "\nEngine:")
		fmt.Fprintf(out, "      --seed int              Coin seed [%s]\n", def("seed"))
		fmt.Fprintf(out, "      --max-rounds int        Round budget (0=none) [%s]\n", def("max-rounds"))
		fmt.Fprintf(out, "      --budget-policy string  fail | warn [%s]\n", def("budget-policy"))
		fmt.Fprintf(out, "      --partitions int        Snapshot partitions [%s]\n", def("partitions"))
		fmt.Fprintf(out, "      --keep-snapshots int    Rounds kept on disk (0=all) [%s]\n", def("keep-snapshots"))
		fmt.Fprintf(out, "      --round-timeout dur     Fail a round that runs longer (0=none) [%s]\n", def("round-timeout"))
		fmt.Fprintf(out, "      --retries int           Retries after transient store errors [%s]\n", def("retries"))
		fmt.Fprintln(out, "      --metrics-file file     Prometheus textfile output")
	})
}

// ParseCompress registers and parses the chaincomp flags.
func ParseCompress(fs *flag.FlagSet, argv []string) (CompressOptions, error) {
	var o CompressOptions
	var help bool
	registerCompress(fs, &o)
	fs.BoolVar(&help, "h", false, "show this help message")

	if err := fs.Parse(argv); err != nil {
		return o, err
	}
	if help {
		return o, flag.ErrHelp
	}
	if o.Version {
		return o, nil
	}
	if o.Examples {
		return o, clibase.ErrPrintedAndExitOK
	}
	o.set = clibase.SetFlags(fs)

	if err := clibase.Validate(&o.Common); err != nil {
		return o, err
	}
	if fs.NArg() > 0 {
		return o, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}
	if o.Output == "" {
		return o, errors.New("--output store directory is required")
	}
	if o.Sequences != "" && o.Input == "" {
		return o, errors.New("--sequences needs --input")
	}
	if o.MaxRounds < 0 {
		return o, errors.New("--max-rounds must be ≥ 0")
	}
	if o.BudgetPolicy != config.PolicyFail && o.BudgetPolicy != config.PolicyWarn {
		return o, fmt.Errorf("invalid --budget-policy %q", o.BudgetPolicy)
	}
	if o.Partitions < 1 {
		return o, errors.New("--partitions must be ≥ 1")
	}
	if o.KeepSnapshots < 0 || o.Retries < 0 || o.RoundTimeout < 0 {
		return o, errors.New("--keep-snapshots, --retries and --round-timeout must be ≥ 0")
	}
	return o, nil
}

// Set reports whether flag name was given on the command line.
func (o CompressOptions) Set(name string) bool { return o.set[name] }

// Apply copies the explicitly given flags over cfg.
func (o CompressOptions) Apply(cfg *config.Config) {
	clibase.Apply(o.Common, o.set, cfg)
	if o.set["seed"] {
		cfg.Engine.Seed = o.Seed
	}
	if o.set["max-rounds"] {
		cfg.Engine.MaxRounds = o.MaxRounds
	}
	if o.set["budget-policy"] {
		cfg.Engine.BudgetPolicy = o.BudgetPolicy
	}
	if o.set["partitions"] {
		cfg.Store.Partitions = o.Partitions
	}
	if o.set["keep-snapshots"] {
		cfg.Store.KeepSnapshots = o.KeepSnapshots
	}
	if o.set["round-timeout"] {
		cfg.Run.RoundTimeout = config.Duration(o.RoundTimeout)
	}
	if o.set["retries"] {
		cfg.Run.Retries = o.Retries
	}
	if o.set["metrics-file"] {
		cfg.Run.MetricsFile = o.MetricsFile
	}
}
