package engine

import (
	"sync/atomic"
	"time"
)

// Stats summarises one round.
type Stats struct {
	Round        int           `json:"round"`
	Nodes        int64         `json:"nodes"`
	Claims       int64         `json:"claims"`
	Compressible int64         `json:"compressible"`
	Up           int64         `json:"up"`
	Promoted     int64         `json:"promoted"`
	Marked       int64         `json:"marked"`
	LinkUpdates  int64         `json:"link_updates"`
	Merges       int64         `json:"merges"`
	NodesOut     int64         `json:"nodes_out"`
	Duration     time.Duration `json:"duration"`
}

// counters are shared by the concurrent map/reduce tasks of one round.
type counters struct {
	nodes, claims, compressible   atomic.Int64
	up, promoted, marked, updates atomic.Int64
	merges, nodesOut              atomic.Int64
}

func (c *counters) stats(round int, took time.Duration) Stats {
	return Stats{
		Round:        round,
		Nodes:        c.nodes.Load(),
		Claims:       c.claims.Load(),
		Compressible: c.compressible.Load(),
		Up:           c.up.Load(),
		Promoted:     c.promoted.Load(),
		Marked:       c.marked.Load(),
		LinkUpdates:  c.updates.Load(),
		Merges:       c.merges.Load(),
		NodesOut:     c.nodesOut.Load(),
		Duration:     took,
	}
}

// Fixpoint reports whether the round left nothing to contract. A round with
// zero merges but compressible strands only means every coin missed.
func (s Stats) Fixpoint() bool { return s.Merges == 0 && s.Compressible == 0 }
