package engine

import (
	"chaincomp/internal/bsp"
	"chaincomp/internal/graph"
)

// Detector marks the strands that sit on a mutually unique link.
//
// Map: a strand with exactly one outgoing edge, not to itself, claims to be
// the unique predecessor of the node it points at.
// Reduce: strand s of X with tail (Y, d) is compressible iff Y claimed back
// over comp(d), i.e. Y_d has in-degree one. Self-loops never qualify. The
// claim also names Y's neighbour on its far side, which the breaker needs to
// keep a second source away from Y.
type Detector struct {
	c *counters
}

func (d *Detector) Map(n graph.Node, emit bsp.Emit) error {
	// The input snapshot is shared with the caller; later stages edit in place.
	n = n.Clone()
	n.Compressible = graph.CompressNone
	n.Rivals = [2]string{}
	n.Mark = nil
	d.count(func(c *counters) { c.nodes.Add(1) })

	for _, s := range graph.Strands {
		t, ok := n.Tail(s)
		if !ok || t.NodeID == n.ID {
			continue
		}
		claim := graph.Claim{FromID: n.ID, Strand: s}
		if far, ok := n.Tail(s.Complement()); ok && far.NodeID != n.ID {
			claim.Rival = far.NodeID
		}
		emit(graph.ClaimMessage(t.NodeID, claim))
		d.count(func(c *counters) { c.claims.Add(1) })
	}
	emit(graph.NodeRecord(n))
	return nil
}

func (d *Detector) count(f func(*counters)) {
	if d.c != nil {
		f(d.c)
	}
}

func (d *Detector) Reduce(g *graph.Group) ([]graph.Node, error) {
	n, err := g.Record()
	if err != nil {
		return nil, err
	}
	for _, s := range graph.Strands {
		if rival, ok := compressibleStrand(&n, s, g.Claims); ok {
			n.Compressible = n.Compressible.With(s)
			n.Rivals[s] = rival
			d.count(func(c *counters) { c.compressible.Add(1) })
		}
	}
	return []graph.Node{n}, nil
}

// compressibleStrand reports whether strand s links uniquely both ways, and
// the buddy's rival when it does.
func compressibleStrand(n *graph.Node, s graph.Strand, claims []graph.Claim) (string, bool) {
	t, ok := n.Tail(s)
	if !ok || t.NodeID == n.ID {
		return "", false
	}
	var (
		matches int
		rival   string
	)
	for _, c := range claims {
		if c.FromID == t.NodeID && c.Strand == t.Strand.Complement() {
			matches++
			rival = c.Rival
		}
	}
	return rival, matches == 1
}
