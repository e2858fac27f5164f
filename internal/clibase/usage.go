// internal/clibase/usage.go
package clibase

import (
	"flag"
	"fmt"
	"io"

	"chaincomp/internal/version"
)

// UsageCommon installs a shared Usage() handler on fs.
// extra prints tool-specific sections before the shared block.
func UsageCommon(fs *flag.FlagSet, name, summary string, extra func(out io.Writer, def func(string) string)) {
	fs.Usage = func() {
		out := fs.Output()
		def := func(flagName string) string {
			if f := fs.Lookup(flagName); f != nil {
				return f.DefValue
			}
			return ""
		}

		fmt.Fprintf(out, "%s – %s\n\n", name, summary)
		fmt.Fprintf(out, "Version: %s\n\n", version.Version)

		if extra != nil {
			extra(out, def)
		}

		fmt.Fprintln(out, "\nRuntime:")
		fmt.Fprintln(out, "      --config file           TOML config ([engine] [store] [run] [log])")
		fmt.Fprintf(out, "      --env-file file         dotenv file with CHAINCOMP_* overrides [%s]\n", def("env-file"))
		fmt.Fprintf(out, "  -t, --threads int           Worker threads (0=all CPUs) [%s]\n", def("threads"))
		fmt.Fprintf(out, "      --log-level string      trace | debug | info | warn | error [%s]\n", def("log-level"))

		fmt.Fprintln(out, "\nMiscellaneous:")
		fmt.Fprintf(out, "  -q, --quiet                 Suppress non-essential warnings [%s]\n", def("quiet"))
		fmt.Fprintln(out, "      --examples              Print usage examples and exit")
		fmt.Fprintln(out, "  -v, --version               Print version and exit")
		fmt.Fprintln(out, "  -h, --help                  Show this help and exit")
		fmt.Fprintln(out, "\nPrecedence: flags > CHAINCOMP_* environment > --config file > defaults.")
	}
}
