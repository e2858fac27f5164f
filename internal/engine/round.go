package engine

import (
	"context"
	"fmt"
	"time"

	"chaincomp/internal/bsp"
	"chaincomp/internal/coin"
	"chaincomp/internal/graph"
)

// Params configures one round.
type Params struct {
	Round int
	Coins coin.Flipper
	BSP   bsp.Config
}

// RunRound runs detect → break → merge over in and returns the next snapshot.
// in is not modified. Merges == 0 in the returned Stats means in was already
// a fixpoint.
func RunRound(ctx context.Context, p Params, in *graph.Snapshot) (*graph.Snapshot, Stats, error) {
	if p.Coins == nil {
		return nil, Stats{}, fmt.Errorf("round %d: no coin source", p.Round)
	}
	start := time.Now()
	c := &counters{}

	det := &Detector{c: c}
	parts, err := bsp.Run(ctx, p.BSP, in.Partitions, det.Map, det.Reduce)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("round %d: compressibility: %w", p.Round, err)
	}

	brk := &Breaker{Round: p.Round, Coins: p.Coins, c: c}
	parts, err = bsp.Run(ctx, p.BSP, parts, brk.Map, brk.Reduce)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("round %d: symmetry breaking: %w", p.Round, err)
	}

	mrg := &Merger{Overlap: in.Overlap, c: c}
	parts, err = bsp.Run(ctx, p.BSP, parts, mrg.Map, mrg.Reduce)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("round %d: merge: %w", p.Round, err)
	}

	st := c.stats(p.Round, time.Since(start))
	if st.Merges != st.Marked {
		return nil, st, &graph.DataIntegrityError{
			Reason: fmt.Sprintf("round %d: %d marks but %d merges", p.Round, st.Marked, st.Merges),
		}
	}
	return &graph.Snapshot{Round: p.Round, Overlap: in.Overlap, Partitions: parts}, st, nil
}
