// Package appshell wires a command's RunContext to the process: signals,
// argv and the exit code.
package appshell

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"chaincomp/internal/cmdutil"
)

// RunFunc is the signature of every command's RunContext.
type RunFunc func(context.Context, []string, io.Writer, io.Writer) int

// Main runs run with os.Args and exits. The first SIGINT/SIGTERM cancels the
// context, which the controller honours at the next round boundary; a
// second one exits at once.
func Main(run RunFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sig := make(chan os.Signal, 2)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		cancel()
		<-sig
		os.Exit(cmdutil.ExitCanceled)
	}()

	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	// Normalize cancellation exit code.
	if ctx.Err() != nil && code == cmdutil.ExitOK {
		code = cmdutil.ExitCanceled
	}

	signal.Stop(sig)
	cancel()
	os.Exit(code)
}
