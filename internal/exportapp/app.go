// internal/exportapp/app.go
package exportapp

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"chaincomp/internal/appcore"
	"chaincomp/internal/cli"
	"chaincomp/internal/cmdutil"
	"chaincomp/internal/graph"
	"chaincomp/internal/snapshot"
	"chaincomp/internal/writers"
)

const name = "chaincomp-export"

func examples(out io.Writer) {
	fmt.Fprintln(out, "# contigs of the final round as FASTA")
	fmt.Fprintln(out, "chaincomp-export --store store/ --output fasta > contigs.fa")
	fmt.Fprintln(out, "\n# round 3 as sorted TSV")
	fmt.Fprintln(out, "chaincomp-export --store store/ --round 3 --output text --sort")
	fmt.Fprintln(out, "\n# the ledger")
	fmt.Fprintln(out, "chaincomp-export --store store/ --rounds --output json")
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

func RunContext(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriterSize(stdout, 64<<10)
	defer func() { _ = outw.Flush() }()

	fs := cli.NewFlagSet(name)
	if len(argv) == 0 {
		argv = []string{"-h"}
	}
	opts, err := cli.ParseExport(fs, argv)
	if code, done := appcore.ParseResult(fs, err, name, opts.Version, examples, outw, stderr); done {
		return code
	}

	env, err := appcore.Setup(opts.Common, opts.Apply, stderr)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return cmdutil.ExitUsage
	}
	log := env.Log.WithField("store", opts.Store)

	if !snapshot.IsStore(opts.Store) {
		_, _ = fmt.Fprintf(stderr, "%s is not a chaincomp store\n", opts.Store)
		return cmdutil.ExitUsage
	}
	st, err := env.OpenStore(opts.Store)
	if err != nil {
		log.WithError(err).Error("open store")
		return cmdutil.ExitRuntime
	}
	defer st.Close()

	if opts.Rounds {
		recs, err := st.Records(ctx)
		if err == nil {
			err = writers.WriteRounds(outw, opts.Output, opts.Header, recs)
		}
		if err != nil && !writers.IsBrokenPipe(err) {
			log.WithError(err).Error("export rounds")
			return cmdutil.ExitRuntime
		}
		return cmdutil.FlushExit(outw, stderr, cmdutil.ExitOK)
	}

	var snap *graph.Snapshot
	if opts.Round < 0 {
		snap, _, err = snapshot.LoadLatest(ctx, st)
	} else {
		snap, err = st.Load(ctx, opts.Round)
	}
	if err != nil {
		log.WithError(err).WithField("round", opts.Round).Error("load snapshot")
		return appcore.ExitCode(err)
	}

	in, done := writers.StartNodeWriter(outw, opts.Output, opts.Sort, opts.Header, 256)
	sent := 0
feed:
	for _, part := range snap.Partitions {
		for _, n := range part {
			select {
			case in <- n:
				sent++
			case <-ctx.Done():
				break feed
			}
		}
	}
	close(in)
	if werr := <-done; writers.IsBrokenPipe(werr) {
		return cmdutil.ExitOK
	} else if werr != nil {
		log.WithError(werr).Error("write nodes")
		return cmdutil.ExitRuntime
	}
	if err := ctx.Err(); err != nil {
		return appcore.ExitCode(err)
	}
	log.WithField("round", snap.Round).WithField("nodes", sent).Debug("exported")
	return cmdutil.FlushExit(outw, stderr, cmdutil.ExitOK)
}
