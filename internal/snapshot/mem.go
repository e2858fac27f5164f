package snapshot

import (
	"context"
	"sort"
	"sync"

	"github.com/pkg/errors"

	"chaincomp/internal/graph"
)

// MemStore is an in-process Store. Snapshots are deep-copied on the way in
// and out, so callers can never alias committed data.
type MemStore struct {
	mu      sync.Mutex
	meta    Meta
	hasMeta bool
	snaps   map[int][][]graph.Node
	recs    map[int]Record
}

func NewMemStore() *MemStore {
	return &MemStore{snaps: map[int][][]graph.Node{}, recs: map[int]Record{}}
}

func clonePartitions(in [][]graph.Node) [][]graph.Node {
	out := make([][]graph.Node, len(in))
	for p, nodes := range in {
		out[p] = make([]graph.Node, len(nodes))
		for i, n := range nodes {
			out[p][i] = n.Clone()
		}
	}
	return out
}

func (m *MemStore) Meta(context.Context) (Meta, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.meta, m.hasMeta, nil
}

func (m *MemStore) SetMeta(_ context.Context, meta Meta) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if meta.Format == 0 {
		meta.Format = FormatVersion
	}
	m.meta, m.hasMeta = meta, true
	return nil
}

func (m *MemStore) Latest(context.Context) (Record, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	best, ok := Record{}, false
	for r, rec := range m.recs {
		if !ok || r > best.Round {
			best, ok = rec, true
		}
	}
	return best, ok, nil
}

func (m *MemStore) Records(context.Context) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Record, 0, len(m.recs))
	for _, rec := range m.recs {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Round < out[j].Round })
	return out, nil
}

func (m *MemStore) Load(_ context.Context, round int) (*graph.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	parts, ok := m.snaps[round]
	if !ok {
		return nil, errors.Wrapf(ErrNoSnapshot, "round %d", round)
	}
	return &graph.Snapshot{Round: round, Overlap: m.meta.Overlap, Partitions: clonePartitions(parts)}, nil
}

func (m *MemStore) Commit(ctx context.Context, snap *graph.Snapshot, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.recs[snap.Round]; ok {
		return errors.Wrapf(ErrCommitted, "round %d", snap.Round)
	}
	m.snaps[snap.Round] = clonePartitions(snap.Partitions)
	m.recs[snap.Round] = completeRecord(snap, rec)
	return nil
}

func (m *MemStore) Close() error { return nil }
