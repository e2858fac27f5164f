// Package bsp runs one bulk-synchronous stage over a partitioned node
// collection: a parallel map over input partitions, a shuffle that routes each
// message to the reduce partition owning its key, and a parallel reduce over
// per-key groups.
//
// The only contracts are MapFunc and ReduceFunc. Stages hold no shared mutable
// state; everything crosses the barrier as keyed graph.Messages.
package bsp
