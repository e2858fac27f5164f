// internal/cli/import.go
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"chaincomp/internal/clibase"
	"chaincomp/internal/cliutil"
	"chaincomp/internal/config"
)

// ImportOptions holds the chaincomp-import flags.
type ImportOptions struct {
	clibase.Common

	Graphs     []string
	Sequences  string
	Store      string
	Overlap    int
	Partitions int
	NoValidate bool

	set map[string]bool
}

// sliceValue appends each value to a *[]string (for --graph/-g).
type sliceValue struct{ dst *[]string }

func (s *sliceValue) String() string {
	if s.dst == nil {
		return ""
	}
	return fmt.Sprint(*s.dst)
}

func (s *sliceValue) Set(v string) error {
	*s.dst = append(*s.dst, v)
	return nil
}

func registerImport(fs *flag.FlagSet, o *ImportOptions) {
	clibase.Register(fs, &o.Common)
	gv := &sliceValue{dst: &o.Graphs}
	fs.Var(gv, "graph", "JSONL graph file(s) (repeatable, .gz ok, '-' for STDIN)")
	fs.Var(gv, "g", "alias of --graph")
	fs.StringVar(&o.Sequences, "sequences", "", "FASTA sidecar with node sequences")
	fs.StringVar(&o.Store, "store", "", "store directory to create [*]")
	fs.IntVar(&o.Overlap, "overlap", -1, "bases shared by adjacent nodes, K-1 [*]")
	fs.IntVar(&o.Partitions, "partitions", config.Default().Store.Partitions, "snapshot partitions")
	fs.BoolVar(&o.NoValidate, "no-validate", false, "skip graph invariant checks [false]")

	clibase.UsageCommon(fs, "chaincomp-import", "load a graph into a snapshot store", func(out io.Writer, def func(string) string) {
		fmt.Fprintln(out, "Usage:")
		fmt.Fprintln(out, "  chaincomp-import --graph g.jsonl.gz --sequences nodes.fa --overlap 30 --store store/")
		fmt.Fprintln(out, "  chaincomp-import --overlap 30 --store store/ shards/*.jsonl")
		fmt.Fprintln(out, "\nInput:")
		fmt.Fprintln(out, "  -g, --graph file            JSONL graph (repeatable, positional globs ok) [*]")
		fmt.Fprintln(out, "      --sequences file        FASTA sidecar keyed by node id")
		fmt.Fprintln(out, "      --overlap int           Bases shared by adjacent nodes (K-1) [*]")
		fmt.Fprintln(out, "      --store dir             Store directory to create [*]")
		fmt.Fprintf(out, "      --partitions int        Snapshot partitions [%s]\n", def("partitions"))
		fmt.Fprintf(out, "      --no-validate           Skip graph invariant checks [%s]\n", def("no-validate"))
	})
}

// ParseImport registers and parses the chaincomp-import flags. Positional
// arguments (globs allowed) are added to the graph inputs.
func ParseImport(fs *flag.FlagSet, argv []string) (ImportOptions, error) {
	var o ImportOptions
	var help bool
	registerImport(fs, &o)
	fs.BoolVar(&help, "h", false, "show this help message")

	flagArgs, posArgs := cliutil.SplitFlagsAndPositionals(fs, argv)
	if err := fs.Parse(flagArgs); err != nil {
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
	if len(posArgs) > 0 {
		exp, err := cliutil.ExpandPositionals(posArgs)
		if err != nil {
			return o, err
		}
		o.Graphs = append(o.Graphs, exp...)
	}

	if err := clibase.Validate(&o.Common); err != nil {
		return o, err
	}
	if len(o.Graphs) == 0 {
		return o, errors.New("at least one --graph file is required")
	}
	if o.Store == "" {
		return o, errors.New("--store is required")
	}
	if o.Overlap < 0 {
		return o, errors.New("--overlap is required (≥ 0)")
	}
	if o.Partitions < 1 {
		return o, errors.New("--partitions must be ≥ 1")
	}
	return o, nil
}

// Apply copies the explicitly given flags over cfg.
func (o ImportOptions) Apply(cfg *config.Config) {
	clibase.Apply(o.Common, o.set, cfg)
	if o.set["partitions"] {
		cfg.Store.Partitions = o.Partitions
	}
}
