package graph

import (
	"sort"

	"github.com/spaolacci/murmur3"
)

// Snapshot is the immutable, partitioned node collection of one committed
// round. Partition boundaries carry no meaning beyond load balancing.
type Snapshot struct {
	Round      int
	Overlap    int
	Partitions [][]Node
}

// PartitionOf places id into one of n partitions by murmur3 token.
func PartitionOf(id string, n int) int {
	if n <= 1 {
		return 0
	}
	return int(murmur3.Sum64([]byte(id)) % uint64(n))
}

// NewSnapshot distributes nodes into n partitions.
func NewSnapshot(round, overlap, n int, nodes []Node) *Snapshot {
	if n < 1 {
		n = 1
	}
	parts := make([][]Node, n)
	for _, nd := range nodes {
		p := PartitionOf(nd.ID, n)
		parts[p] = append(parts[p], nd)
	}
	return &Snapshot{Round: round, Overlap: overlap, Partitions: parts}
}

// Len is the total node count.
func (s *Snapshot) Len() int {
	n := 0
	for _, p := range s.Partitions {
		n += len(p)
	}
	return n
}

// Nodes flattens the snapshot into a slice sorted by id.
func (s *Snapshot) Nodes() []Node {
	out := make([]Node, 0, s.Len())
	for _, p := range s.Partitions {
		out = append(out, p...)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Index builds an id lookup over the snapshot. Intended for tests and
// tooling on graphs that fit in memory.
func (s *Snapshot) Index() map[string]Node {
	idx := make(map[string]Node, s.Len())
	for _, p := range s.Partitions {
		for _, n := range p {
			idx[n.ID] = n
		}
	}
	return idx
}
