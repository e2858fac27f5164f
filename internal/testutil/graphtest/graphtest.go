// Package graphtest builds strand-consistent graphs for tests.
package graphtest

import (
	"fmt"
	"sort"

	"chaincomp/internal/dna"
	"chaincomp/internal/graph"
)

// Builder accumulates nodes and mirrored edges.
type Builder struct {
	nodes map[string]*graph.Node
	order []string
}

func New() *Builder { return &Builder{nodes: map[string]*graph.Node{}} }

// Node adds (or replaces the payload of) a node.
func (b *Builder) Node(id, seq string, cov float64) *Builder {
	if n, ok := b.nodes[id]; ok {
		n.Sequence, n.Coverage = seq, cov
		return b
	}
	b.nodes[id] = &graph.Node{ID: id, Sequence: seq, Coverage: cov}
	b.order = append(b.order, id)
	return b
}

// Link adds from:fs -> to:ts and its mirror to:comp(ts) -> from:comp(fs).
func (b *Builder) Link(from string, fs graph.Strand, to string, ts graph.Strand) *Builder {
	src, ok := b.nodes[from]
	if !ok {
		panic(fmt.Sprintf("graphtest: unknown node %q", from))
	}
	dst, ok := b.nodes[to]
	if !ok {
		panic(fmt.Sprintf("graphtest: unknown node %q", to))
	}
	src.AddEdge(fs, graph.Terminal{NodeID: to, Strand: ts})
	dst.AddEdge(ts.Complement(), graph.Terminal{NodeID: from, Strand: fs.Complement()})
	return b
}

// Nodes returns copies of the nodes in insertion order.
func (b *Builder) Nodes() []graph.Node {
	out := make([]graph.Node, 0, len(b.order))
	for _, id := range b.order {
		n := b.nodes[id].Clone()
		n.SortEdges()
		out = append(out, n)
	}
	return out
}

// Snapshot partitions the nodes into parts partitions as round 0.
func (b *Builder) Snapshot(overlap, parts int) *graph.Snapshot {
	return graph.NewSnapshot(0, overlap, parts, b.Nodes())
}

// Chain describes a linear run of n fragments cut from one sequence.
type Chain struct {
	Full    string
	IDs     []string
	Overlap int
	Nodes   []graph.Node
}

// LinearChain cuts a deterministic sequence into n fragments of length
// fragLen that overlap by overlap bases and links them in order. Fragments
// whose index is in flipped are stored on their reverse strand.
func LinearChain(prefix string, n, fragLen, overlap int, flipped ...int) Chain {
	step := fragLen - overlap
	full := Sequence(step*(n-1)+fragLen, uint32(n*31+fragLen))
	isFlipped := map[int]bool{}
	for _, i := range flipped {
		isFlipped[i] = true
	}

	b := New()
	ids := make([]string, n)
	orient := make([]graph.Strand, n)
	for i := 0; i < n; i++ {
		ids[i] = fmt.Sprintf("%s%04d", prefix, i)
		frag := full[i*step : i*step+fragLen]
		if isFlipped[i] {
			orient[i] = graph.Reverse
			frag = dna.RevComp(frag)
		}
		b.Node(ids[i], frag, float64(10+i%5))
	}
	for i := 0; i+1 < n; i++ {
		b.Link(ids[i], orient[i], ids[i+1], orient[i+1])
	}
	return Chain{Full: full, IDs: ids, Overlap: overlap, Nodes: b.Nodes()}
}

// Sequence returns a deterministic pseudo-random ACGT string.
func Sequence(n int, seed uint32) string {
	const bases = "ACGT"
	out := make([]byte, n)
	x := seed | 1
	for i := range out {
		x ^= x << 13
		x ^= x >> 17
		x ^= x << 5
		out[i] = bases[x&3]
	}
	return string(out)
}

// Endpoints returns the multiset of (node, strand, terminal) edge endpoints,
// one entry per outgoing terminal, sorted.
func Endpoints(nodes []graph.Node) []string {
	var out []string
	for _, n := range nodes {
		for _, s := range graph.Strands {
			for _, t := range n.Edges[s] {
				out = append(out, fmt.Sprintf("%s:%s>%s", n.ID, s, t))
			}
		}
	}
	sort.Strings(out)
	return out
}

// EndpointCount is len(Endpoints(nodes)) without the allocation.
func EndpointCount(nodes []graph.Node) int {
	c := 0
	for _, n := range nodes {
		c += n.EdgeCount()
	}
	return c
}
