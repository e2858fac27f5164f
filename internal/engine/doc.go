// Package engine contains the chain-contraction core: the compressibility
// detector, the symmetry breaker and the chain merger, chained into one round.
// It never imports app, writers, cli, snapshot or controller; keep it
// domain-only.
//
// External outputs must not depend on the internal shape here; use pkg/api
// for stable wire types (JSON/JSONL v1).
package engine
