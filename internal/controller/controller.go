// Package controller drives rounds over a snapshot store until the graph
// reaches its fixpoint, the round budget runs out, or a fatal error occurs.
package controller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"chaincomp/internal/bsp"
	"chaincomp/internal/coin"
	"chaincomp/internal/engine"
	"chaincomp/internal/graph"
	"chaincomp/internal/metrics"
	"chaincomp/internal/snapshot"
)

// Options configures a Controller. Zero values are usable defaults except
// for Seed, which callers always set.
type Options struct {
	Seed         int64
	Overlap      int // -1 = take the overlap recorded at import
	MaxRounds    int // highest round number allowed; 0 = unbounded
	Threads      int
	Partitions   int // reduce partitions; 0 = keep the snapshot's count
	RoundTimeout time.Duration
	Retries      int
	RunID        string // used only when the store has no run yet

	// Backoff builds the retry schedule for one round; nil = exponential.
	Backoff func() backoff.BackOff
	// Coins overrides the murmur3 coins derived from Seed.
	Coins   coin.Flipper
	Metrics *metrics.Metrics
	Log     logrus.FieldLogger
}

// Result summarizes one Run call.
type Result struct {
	State  State
	RunID  string
	Last   snapshot.Record
	Rounds []engine.Stats // rounds executed by this call, in order
}

type Controller struct {
	store snapshot.Store
	opts  Options
	coins coin.Flipper
	log   logrus.FieldLogger
}

func New(store snapshot.Store, opts Options) *Controller {
	c := &Controller{store: store, opts: opts, coins: opts.Coins, log: opts.Log}
	if c.coins == nil {
		c.coins = coin.New(opts.Seed)
	}
	if c.log == nil {
		c.log = logrus.StandardLogger()
	}
	if c.opts.Threads < 1 {
		c.opts.Threads = 1
	}
	return c
}

func (c *Controller) newBackoff() backoff.BackOff {
	if c.opts.Backoff != nil {
		return c.opts.Backoff()
	}
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = 200 * time.Millisecond
	eb.MaxElapsedTime = 0
	return eb
}

// claim attaches this run to the store, or verifies that a resumed run uses
// the same seed and overlap as the one that started it.
func (c *Controller) claim(ctx context.Context) (snapshot.Meta, error) {
	meta, ok, err := c.store.Meta(ctx)
	if err != nil {
		return meta, err
	}
	if !ok {
		return meta, ErrNotImported
	}
	if c.opts.Overlap >= 0 && c.opts.Overlap != meta.Overlap {
		return meta, fmt.Errorf("%w: store has %d, asked for %d", ErrOverlapChange, meta.Overlap, c.opts.Overlap)
	}
	if meta.Started() {
		if meta.Seed != c.opts.Seed {
			return meta, fmt.Errorf("%w: run %s used seed %d, asked for %d", ErrSeedMismatch, meta.RunID, meta.Seed, c.opts.Seed)
		}
		return meta, nil
	}
	meta.RunID = c.opts.RunID
	if meta.RunID == "" {
		meta.RunID = uuid.NewString()
	}
	meta.Seed = c.opts.Seed
	return meta, c.store.SetMeta(ctx, meta)
}

// Run executes rounds until a terminal state. The returned error is nil only
// for Converged; budget exhaustion returns ErrConvergenceNotReached.
func (c *Controller) Run(ctx context.Context) (Result, error) {
	res := Result{State: Running}

	meta, err := c.claim(ctx)
	if err != nil {
		return c.fail(res, "store", err)
	}
	res.RunID = meta.RunID
	log := c.log.WithField("run_id", meta.RunID)

	last, ok, err := c.store.Latest(ctx)
	if err != nil {
		return c.fail(res, "store", err)
	}
	if !ok {
		return c.fail(res, "store", ErrNotImported)
	}
	res.Last = last
	if last.Converged {
		log.WithField("round", last.Round).Info("store already converged")
		res.State = Converged
		return res, nil
	}
	log.WithFields(logrus.Fields{"round": last.Round, "nodes": last.Nodes, "seed": meta.Seed}).Info("starting")

	for {
		round := last.Round + 1
		if c.opts.MaxRounds > 0 && round > c.opts.MaxRounds {
			return c.fail(res, "budget", fmt.Errorf("%w: %d rounds", ErrConvergenceNotReached, c.opts.MaxRounds))
		}
		if err := ctx.Err(); err != nil {
			return c.fail(res, "canceled", err)
		}

		st, rec, err := c.runWithRetry(ctx, last, round)
		if err != nil {
			return c.fail(res, reason(ctx, err), err)
		}
		res.Rounds = append(res.Rounds, st)
		res.Last, last = rec, rec
		if c.opts.Metrics != nil {
			c.opts.Metrics.ObserveRound(st)
		}

		entry := log.WithFields(logrus.Fields{
			"round":        round,
			"nodes":        st.NodesOut,
			"compressible": st.Compressible,
			"merges":       st.Merges,
			"took":         st.Duration.Round(time.Millisecond),
		})
		switch {
		case st.Fixpoint():
			entry.Info("converged")
			res.State = Converged
			return res, nil
		case st.Merges == 0:
			entry.Warn("round stalled: no coin pairing, continuing")
		default:
			entry.Info("round committed")
		}
	}
}

// runWithRetry computes round from the committed snapshot of prev and
// commits it. Transient failures recompute the whole round.
func (c *Controller) runWithRetry(ctx context.Context, prev snapshot.Record, round int) (engine.Stats, snapshot.Record, error) {
	var (
		st  engine.Stats
		rec snapshot.Record
	)
	op := func() error {
		in, err := c.store.Load(ctx, prev.Round)
		if err != nil {
			return classify(ctx, err)
		}

		rctx, cancel := ctx, context.CancelFunc(func() {})
		if c.opts.RoundTimeout > 0 {
			rctx, cancel = context.WithTimeout(ctx, c.opts.RoundTimeout)
		}
		next, stats, err := engine.RunRound(rctx, engine.Params{
			Round: round,
			Coins: c.coins,
			BSP:   bsp.Config{Threads: c.opts.Threads, Partitions: c.opts.Partitions},
		}, in)
		cancel()
		if err != nil {
			if ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
				return backoff.Permanent(fmt.Errorf("round %d: %w (%s)", round, ErrRoundTimeout, c.opts.RoundTimeout))
			}
			return classify(ctx, err)
		}

		r := snapshot.Record{
			Merges:       stats.Merges,
			Compressible: stats.Compressible,
			Converged:    stats.Fixpoint(),
			CommittedAt:  time.Now().UTC(),
		}
		if err := c.store.Commit(ctx, next, r); err != nil {
			return classify(ctx, err)
		}
		committed, _, err := c.store.Latest(ctx)
		if err != nil {
			return classify(ctx, err)
		}
		st, rec = stats, committed
		return nil
	}

	notify := func(err error, wait time.Duration) {
		if c.opts.Metrics != nil {
			c.opts.Metrics.Retries.Inc()
		}
		c.log.WithError(err).WithFields(logrus.Fields{"round": round, "retry_in": wait}).Warn("round failed, retrying")
	}
	b := backoff.WithContext(backoff.WithMaxRetries(c.newBackoff(), uint64(c.opts.Retries)), ctx)
	if err := backoff.RetryNotify(op, b, notify); err != nil {
		return st, rec, err
	}
	return st, rec, nil
}

// classify marks errors that a recomputation cannot fix as permanent.
func classify(ctx context.Context, err error) error {
	switch {
	case ctx.Err() != nil:
		return backoff.Permanent(ctx.Err())
	case graph.IsFatal(err), errors.Is(err, snapshot.ErrCommitted):
		return backoff.Permanent(err)
	}
	return err
}

func reason(ctx context.Context, err error) string {
	switch {
	case ctx.Err() != nil:
		return "canceled"
	case errors.Is(err, ErrRoundTimeout):
		return "timeout"
	case graph.IsFatal(err):
		return "fatal"
	}
	return "store"
}

func (c *Controller) fail(res Result, why string, err error) (Result, error) {
	res.State = Failed
	if c.opts.Metrics != nil {
		c.opts.Metrics.Failures.WithLabelValues(why).Inc()
	}
	return res, err
}
