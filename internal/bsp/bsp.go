// internal/bsp/bsp.go
package bsp

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"chaincomp/internal/graph"
)

// Config controls stage parallelism.
type Config struct {
	Threads    int // concurrent map/reduce tasks (>=1)
	Partitions int // reduce partitions; 0 keeps the input partition count
}

// Emit hands one message to the shuffle.
type Emit func(graph.Message)

// MapFunc turns one node into keyed messages.
type MapFunc func(n graph.Node, emit Emit) error

// ReduceFunc consumes every message for one key and returns the records to
// keep. Returned nodes must be keyed by the group key so the output stays
// partitioned by id.
type ReduceFunc func(g *graph.Group) ([]graph.Node, error)

// checkEvery is how many nodes a task processes between cancellation checks.
const checkEvery = 1024

// Run executes map → shuffle → reduce and returns the reduce output,
// partitioned by graph.PartitionOf(id). Output within a partition is sorted by
// id, so results do not depend on scheduling. The first error cancels the
// remaining tasks and is returned.
func Run(ctx context.Context, cfg Config, in [][]graph.Node, mapFn MapFunc, reduceFn ReduceFunc) ([][]graph.Node, error) {
	if cfg.Threads < 1 {
		cfg.Threads = 1
	}
	parts := cfg.Partitions
	if parts < 1 {
		parts = len(in)
	}
	if parts < 1 {
		parts = 1
	}

	// Map: each task owns its outbound buckets, so no locking is needed.
	buckets := make([][][]graph.Message, len(in))
	mg, mctx := errgroup.WithContext(ctx)
	mg.SetLimit(cfg.Threads)
	for i := range in {
		i := i
		mg.Go(func() error {
			local := make([][]graph.Message, parts)
			emit := func(m graph.Message) {
				p := graph.PartitionOf(m.Key, parts)
				local[p] = append(local[p], m)
			}
			for j, n := range in[i] {
				if j%checkEvery == 0 {
					if err := mctx.Err(); err != nil {
						return err
					}
				}
				if err := mapFn(n, emit); err != nil {
					return err
				}
			}
			buckets[i] = local
			return nil
		})
	}
	if err := mg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Shuffle + reduce: reduce partition p pulls bucket p from every map task.
	out := make([][]graph.Node, parts)
	rg, rctx := errgroup.WithContext(ctx)
	rg.SetLimit(cfg.Threads)
	for p := 0; p < parts; p++ {
		p := p
		rg.Go(func() error {
			groups := make(map[string]*graph.Group)
			for i := range buckets {
				for _, m := range buckets[i][p] {
					g, ok := groups[m.Key]
					if !ok {
						g = &graph.Group{Key: m.Key}
						groups[m.Key] = g
					}
					if err := g.Add(m); err != nil {
						return err
					}
				}
			}
			keys := make([]string, 0, len(groups))
			for k := range groups {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			res := make([]graph.Node, 0, len(keys))
			for j, k := range keys {
				if j%checkEvery == 0 {
					if err := rctx.Err(); err != nil {
						return err
					}
				}
				nodes, err := reduceFn(groups[k])
				if err != nil {
					return err
				}
				res = append(res, nodes...)
			}
			out[p] = res
			return nil
		})
	}
	if err := rg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
