package cli

import (
	"flag"
	"io"
)

// NewFlagSet returns a ContinueOnError FlagSet that prints nothing while
// parsing. Parse errors come back to the caller, which reports them once
// and prints usage on the writer of its choosing.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	return fs
}
