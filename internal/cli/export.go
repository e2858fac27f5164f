// internal/cli/export.go
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"chaincomp/internal/clibase"
	"chaincomp/internal/config"
	"chaincomp/internal/output"
)

// ExportOptions holds the chaincomp-export flags.
type ExportOptions struct {
	clibase.Common

	Store  string
	Round  int // -1 = latest
	Output string
	Sort   bool
	Header bool // true unless --no-header
	Rounds bool // print the ledger instead of nodes

	set map[string]bool
}

func registerExport(fs *flag.FlagSet, o *ExportOptions, noHeader *bool) {
	clibase.Register(fs, &o.Common)
	fs.StringVar(&o.Store, "store", "", "store directory [*]")
	fs.IntVar(&o.Round, "round", -1, "round to export (-1=latest) [-1]")
	fs.StringVar(&o.Output, "output", output.FormatJSONL, "output: jsonl | json | fasta | text [jsonl]")
	fs.StringVar(&o.Output, "o", output.FormatJSONL, "alias of --output")
	fs.BoolVar(&o.Sort, "sort", false, "sort nodes by id [false]")
	fs.BoolVar(noHeader, "no-header", false, "suppress header line (text) [false]")
	fs.BoolVar(&o.Rounds, "rounds", false, "list committed rounds instead of nodes [false]")

	clibase.UsageCommon(fs, "chaincomp-export", "read a committed snapshot", func(out io.Writer, def func(string) string) {
		fmt.Fprintln(out, "Usage:")
		fmt.Fprintln(out, "  chaincomp-export --store store/ --output fasta > contigs.fa")
		fmt.Fprintln(out, "  chaincomp-export --store store/ --rounds --output text")
		fmt.Fprintln(out, "\nOutput:")
		fmt.Fprintln(out, "      --store dir             Store directory [*]")
		fmt.Fprintf(out, "      --round int             Round to export (-1=latest) [%s]\n", def("round"))
		fmt.Fprintf(out, "  -o, --output string         jsonl | json | fasta | text [%s]\n", def("output"))
		fmt.Fprintf(out, "      --sort                  Sort nodes by id [%s]\n", def("sort"))
		fmt.Fprintf(out, "      --no-header             Suppress header line (text) [%s]\n", def("no-header"))
		fmt.Fprintf(out, "      --rounds                List committed rounds [%s]\n", def("rounds"))
	})
}

// ParseExport registers and parses the chaincomp-export flags.
func ParseExport(fs *flag.FlagSet, argv []string) (ExportOptions, error) {
	var o ExportOptions
	var help bool
	noHeader := false
	registerExport(fs, &o, &noHeader)
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
	o.Header = !noHeader

	if err := clibase.Validate(&o.Common); err != nil {
		return o, err
	}
	if o.Store == "" {
		return o, errors.New("--store is required")
	}
	if o.Round < -1 {
		return o, errors.New("--round must be ≥ -1")
	}
	if !output.Known(o.Output) {
		return o, fmt.Errorf("invalid --output %q", o.Output)
	}
	if o.Rounds && o.Output == output.FormatFASTA {
		return o, errors.New("--rounds cannot be written as fasta")
	}
	return o, nil
}

// Apply copies the explicitly given flags over cfg.
func (o ExportOptions) Apply(cfg *config.Config) {
	clibase.Apply(o.Common, o.set, cfg)
}
