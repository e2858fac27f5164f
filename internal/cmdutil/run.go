package cmdutil

import (
	"bufio"
	"fmt"
	"io"

	"chaincomp/internal/writers"
)

// Exit codes shared by the commands.
const (
	ExitOK       = 0
	ExitUsage    = 2
	ExitRuntime  = 3
	ExitBudget   = 4
	ExitCanceled = 130
)

// FlushExit flushes w and maps the outcome onto an exit code: a broken pipe
// is a normal end of output, any other error is a runtime failure.
func FlushExit(w *bufio.Writer, stderr io.Writer, code int) int {
	if err := w.Flush(); writers.IsBrokenPipe(err) {
		return code
	} else if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return ExitRuntime
	}
	return code
}
