// internal/app/app.go
package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"chaincomp/internal/appcore"
	"chaincomp/internal/cli"
	"chaincomp/internal/cmdutil"
	"chaincomp/internal/config"
	"chaincomp/internal/controller"
	"chaincomp/internal/graphio"
	"chaincomp/internal/metrics"
	"chaincomp/internal/snapshot"
)

const name = "chaincomp"

// usageError is a bad flag combination that only shows up once the store
// state is known; it exits like a parse error.
type usageError string

func (e usageError) Error() string { return string(e) }

func examples(out io.Writer) {
	fmt.Fprintln(out, "# import a JSONL graph (31-mers) and compress it")
	fmt.Fprintln(out, "chaincomp --input graph.jsonl.gz --overlap 30 --output store/ --seed 42")
	fmt.Fprintln(out, "\n# resume an interrupted job; the seed must match")
	fmt.Fprintln(out, "chaincomp --output store/ --seed 42")
	fmt.Fprintln(out, "\n# bounded run that only warns when the budget is used up")
	fmt.Fprintln(out, "chaincomp --output store/ --seed 42 --max-rounds 50 --budget-policy warn")
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

func RunContext(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	defer func() { _ = outw.Flush() }()

	fs := cli.NewFlagSet(name)
	if len(argv) == 0 {
		argv = []string{"-h"}
	}
	opts, err := cli.ParseCompress(fs, argv)
	if code, done := appcore.ParseResult(fs, err, name, opts.Version, examples, outw, stderr); done {
		return code
	}

	env, err := appcore.Setup(opts.Common, opts.Apply, stderr)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return cmdutil.ExitUsage
	}
	cfg, log := env.Config, env.Log

	if opts.Sequences != "" && snapshot.IsStore(opts.Input) {
		cmdutil.Warnf(stderr, opts.Quiet, "--sequences is ignored when --input is a store")
	}
	st, err := prepareStore(ctx, opts, env)
	var uerr usageError
	if errors.As(err, &uerr) {
		_, _ = fmt.Fprintln(stderr, uerr)
		return cmdutil.ExitUsage
	} else if err != nil {
		log.WithError(err).Error("prepare store")
		return appcore.ExitCode(err)
	}
	defer st.Close()

	meta, _, err := st.Meta(ctx)
	if err != nil {
		log.WithError(err).Error("read store meta")
		return cmdutil.ExitRuntime
	}
	runID := meta.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	m := metrics.New(runID)

	overlap := -1
	if opts.Set("overlap") {
		overlap = opts.Overlap
	}
	res, err := controller.New(st, controller.Options{
		Seed:         cfg.Engine.Seed,
		Overlap:      overlap,
		MaxRounds:    cfg.Engine.MaxRounds,
		Threads:      cfg.Run.Threads,
		Partitions:   meta.Partitions,
		RoundTimeout: time.Duration(cfg.Run.RoundTimeout),
		Retries:      cfg.Run.Retries,
		RunID:        runID,
		Metrics:      m,
		Log:          log,
	}).Run(ctx)

	if cfg.Run.MetricsFile != "" {
		if werr := m.WriteFile(cfg.Run.MetricsFile); werr != nil {
			log.WithError(werr).Warn("write metrics file")
		}
	}

	_, _ = fmt.Fprintf(outw, "%s\tround=%d\tnodes=%d\trun_id=%s\n", res.State, res.Last.Round, res.Last.Nodes, res.RunID)

	code := appcore.ExitCode(err)
	fields := logrus.Fields{"run_id": res.RunID, "round": res.Last.Round, "rounds_run": len(res.Rounds)}
	switch {
	case err == nil:
	case errors.Is(err, controller.ErrConvergenceNotReached) && cfg.Engine.BudgetPolicy == config.PolicyWarn:
		log.WithError(err).WithFields(fields).Warn("stopped at round budget")
		code = cmdutil.ExitOK
	default:
		log.WithError(err).WithFields(fields).WithField("reason", appcore.Reason(err)).Error("compression failed")
	}
	return cmdutil.FlushExit(outw, stderr, code)
}

// prepareStore returns the store to compress. Without --input (or with
// --input naming the output store) the job resumes; a store input is forked
// from its latest round; anything else is imported as a JSONL graph.
func prepareStore(ctx context.Context, opts cli.CompressOptions, env appcore.Env) (*snapshot.FSStore, error) {
	if opts.Input == "" || samePath(opts.Input, opts.Output) {
		if !snapshot.IsStore(opts.Output) {
			return nil, usageError(opts.Output + " is not a store; pass --input to import a graph")
		}
		return env.OpenStore(opts.Output)
	}
	if snapshot.IsStore(opts.Output) {
		// A store without round 0 is an import that died; redo it.
		committed, err := hasRound(ctx, opts.Output, env)
		if err != nil {
			return nil, err
		}
		if committed {
			return nil, usageError(opts.Output + " already holds a store; drop --input to resume it")
		}
	}
	if snapshot.IsStore(opts.Input) {
		return fork(ctx, opts.Input, opts.Output, env)
	}

	if !opts.Set("overlap") || opts.Overlap < 0 {
		return nil, usageError("--overlap is required with a JSONL --input")
	}
	nodes, err := graphio.Load([]string{opts.Input}, graphio.Options{
		Sequences: opts.Sequences,
		Overlap:   opts.Overlap,
		Validate:  true,
		Log:       env.Log,
	})
	if err != nil {
		return nil, err
	}
	st, err := env.OpenStore(opts.Output)
	if err != nil {
		return nil, err
	}
	if _, err := snapshot.Import(ctx, st, nodes, opts.Overlap, env.Config.Store.Partitions); err != nil {
		_ = st.Close()
		return nil, err
	}
	env.Log.WithFields(logrus.Fields{"input": opts.Input, "nodes": len(nodes)}).Info("imported round 0")
	return st, nil
}

// fork seeds a new store at dst with the latest round of the store at src.
func fork(ctx context.Context, src, dst string, env appcore.Env) (*snapshot.FSStore, error) {
	in, err := env.OpenStore(src)
	if err != nil {
		return nil, err
	}
	defer in.Close()
	meta, _, err := in.Meta(ctx)
	if err != nil {
		return nil, err
	}
	snap, rec, err := snapshot.LoadLatest(ctx, in)
	if err != nil {
		return nil, err
	}

	st, err := env.OpenStore(dst)
	if err != nil {
		return nil, err
	}
	if _, err := snapshot.Import(ctx, st, snap.Nodes(), meta.Overlap, env.Config.Store.Partitions); err != nil {
		_ = st.Close()
		return nil, err
	}
	env.Log.WithFields(logrus.Fields{"from": src, "round": rec.Round, "nodes": rec.Nodes}).Info("forked store")
	return st, nil
}

func hasRound(ctx context.Context, dir string, env appcore.Env) (bool, error) {
	st, err := env.OpenStore(dir)
	if err != nil {
		return false, err
	}
	defer st.Close()
	_, ok, err := st.Latest(ctx)
	return ok, err
}

func samePath(a, b string) bool {
	aa, err1 := filepath.Abs(a)
	bb, err2 := filepath.Abs(b)
	return err1 == nil && err2 == nil && aa == bb
}
