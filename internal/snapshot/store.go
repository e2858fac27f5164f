// Package snapshot persists committed rounds. A round is visible only once
// its partition files are in place and its ledger record is written; a crash
// in between leaves the previous round authoritative.
package snapshot

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"chaincomp/internal/graph"
)

// FormatVersion is bumped whenever the partition file layout changes.
const FormatVersion = 1

var (
	ErrNoSnapshot = errors.New("snapshot: no such round")
	ErrCommitted  = errors.New("snapshot: round already committed")
	ErrNotEmpty   = errors.New("snapshot: store already holds a graph")
)

// Meta describes the job a store belongs to. Overlap and Partitions are
// fixed at import; RunID and Seed are set by the first compression run.
type Meta struct {
	Format     int       `msgpack:"format" json:"format"`
	Overlap    int       `msgpack:"overlap" json:"overlap"`
	Partitions int       `msgpack:"partitions" json:"partitions"`
	RunID      string    `msgpack:"run_id,omitempty" json:"run_id,omitempty"`
	Seed       int64     `msgpack:"seed" json:"seed"`
	CreatedAt  time.Time `msgpack:"created_at" json:"created_at"`
}

// Started reports whether a compression run has claimed the store.
func (m Meta) Started() bool { return m.RunID != "" }

// Record is the ledger entry of one committed round.
type Record struct {
	Round        int       `msgpack:"round" json:"round"`
	Nodes        int64     `msgpack:"nodes" json:"nodes"`
	Partitions   int       `msgpack:"partitions" json:"partitions"`
	Merges       int64     `msgpack:"merges" json:"merges"`
	Compressible int64     `msgpack:"compressible" json:"compressible"`
	Converged    bool      `msgpack:"converged" json:"converged"`
	Pruned       bool      `msgpack:"pruned,omitempty" json:"pruned,omitempty"`
	CommittedAt  time.Time `msgpack:"committed_at" json:"committed_at"`
}

// Store is the snapshot contract the controller and the import/export tools
// depend on.
type Store interface {
	Meta(ctx context.Context) (Meta, bool, error)
	SetMeta(ctx context.Context, m Meta) error
	Latest(ctx context.Context) (Record, bool, error)
	Records(ctx context.Context) ([]Record, error)
	Load(ctx context.Context, round int) (*graph.Snapshot, error)
	Commit(ctx context.Context, snap *graph.Snapshot, rec Record) error
	Close() error
}

// LoadLatest returns the newest committed snapshot and its record.
func LoadLatest(ctx context.Context, s Store) (*graph.Snapshot, Record, error) {
	rec, ok, err := s.Latest(ctx)
	if err != nil {
		return nil, Record{}, err
	}
	if !ok {
		return nil, Record{}, errors.Wrap(ErrNoSnapshot, "store is empty")
	}
	snap, err := s.Load(ctx, rec.Round)
	if err != nil {
		return nil, Record{}, err
	}
	return snap, rec, nil
}

// Import records the job meta and commits nodes as round 0 of an empty store.
func Import(ctx context.Context, s Store, nodes []graph.Node, overlap, partitions int) (Record, error) {
	// A store with meta but no round is an import that died before its
	// commit; it is safe to redo.
	if _, ok, err := s.Latest(ctx); err != nil {
		return Record{}, err
	} else if ok {
		return Record{}, ErrNotEmpty
	}
	meta := Meta{
		Format:     FormatVersion,
		Overlap:    overlap,
		Partitions: partitions,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.SetMeta(ctx, meta); err != nil {
		return Record{}, err
	}
	snap := graph.NewSnapshot(0, overlap, partitions, nodes)
	if err := s.Commit(ctx, snap, Record{}); err != nil {
		return Record{}, err
	}
	rec, _, err := s.Latest(ctx)
	return rec, err
}

func completeRecord(snap *graph.Snapshot, rec Record) Record {
	rec.Round = snap.Round
	rec.Nodes = int64(snap.Len())
	rec.Partitions = len(snap.Partitions)
	if rec.CommittedAt.IsZero() {
		rec.CommittedAt = time.Now().UTC()
	}
	return rec
}
