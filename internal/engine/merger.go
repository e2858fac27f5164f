package engine

import (
	"fmt"

	"chaincomp/internal/bsp"
	"chaincomp/internal/dna"
	"chaincomp/internal/graph"
)

// Merger ships every marked source to its target and fuses the pair there.
// The fused node keeps the target's id.
type Merger struct {
	Overlap int

	c *counters
}

func (m *Merger) Map(n graph.Node, emit bsp.Emit) error {
	n.Rivals = [2]string{}
	if n.Mark == nil {
		emit(graph.NodeRecord(n))
		return nil
	}
	mk := *n.Mark
	n.Mark = nil
	emit(graph.MergeMessage(graph.MergeInstruction{
		SourceID:     n.ID,
		TargetID:     mk.Target.NodeID,
		Strand:       mk.Strand,
		TargetStrand: mk.Target.Strand,
		Source:       n,
	}))
	return nil
}

func (m *Merger) Reduce(g *graph.Group) ([]graph.Node, error) {
	y, err := g.Record()
	if err != nil {
		return nil, err
	}
	switch len(g.Merges) {
	case 0:
		if m.c != nil {
			m.c.nodesOut.Add(1)
		}
		return []graph.Node{y}, nil
	case 1:
		merged, err := Merge(g.Merges[0], y, m.Overlap)
		if err != nil {
			return nil, err
		}
		if m.c != nil {
			m.c.merges.Add(1)
			m.c.nodesOut.Add(1)
		}
		return []graph.Node{merged}, nil
	}
	return nil, &graph.DataIntegrityError{
		NodeID:  y.ID,
		Records: 1,
		Reason:  fmt.Sprintf("%d merge instructions for one target", len(g.Merges)),
	}
}

// Merge fuses in.Source, read along in.Strand, with target read along
// in.TargetStrand. The result carries the target id; its TargetStrand reads
// source-then-target. Edges internal to the pair are dropped, references to
// the source are re-pointed at the matching strand of the result, and every
// other edge is kept.
func Merge(in graph.MergeInstruction, target graph.Node, overlap int) (graph.Node, error) {
	x, y := in.Source, target
	s, d := in.Strand, in.TargetStrand
	link := graph.Terminal{NodeID: y.ID, Strand: d}
	if t, ok := x.Tail(s); !ok || t != link {
		return graph.Node{}, &graph.DataIntegrityError{
			NodeID:  y.ID,
			Records: 1,
			Reason:  fmt.Sprintf("merge source %s:%s does not link uniquely to %s", x.ID, s, link),
		}
	}
	if n := y.Degree(d, graph.Incoming); n != 1 {
		return graph.Node{}, &graph.DataIntegrityError{
			NodeID:  y.ID,
			Records: 1,
			Reason:  fmt.Sprintf("merge target %s has in-degree %d", link, n),
		}
	}

	seq, err := dna.Join(x.StrandSequence(s), y.StrandSequence(d), overlap)
	if err != nil {
		return graph.Node{}, &graph.DataIntegrityError{
			NodeID:  y.ID,
			Records: 1,
			Reason:  fmt.Sprintf("merge %s:%s into %s: %v", x.ID, s, link, err),
		}
	}
	if d == graph.Reverse {
		seq = dna.RevComp(seq)
	}

	remap := func(t graph.Terminal) graph.Terminal {
		if t.NodeID != x.ID {
			return t
		}
		if t.Strand == s {
			return link
		}
		return link.Complement()
	}

	out := graph.Node{
		ID:       y.ID,
		Sequence: seq,
		Coverage: weightedCoverage(x, y),
	}
	for _, t := range y.Edges[d] {
		out.Edges[d] = append(out.Edges[d], remap(t))
	}
	for _, t := range x.Edges[s.Complement()] {
		out.Edges[d.Complement()] = append(out.Edges[d.Complement()], remap(t))
	}
	out.SortEdges()
	return out, nil
}

func weightedCoverage(x, y graph.Node) float64 {
	lx, ly := float64(len(x.Sequence)), float64(len(y.Sequence))
	if lx+ly == 0 {
		return 0
	}
	return (x.Coverage*lx + y.Coverage*ly) / (lx + ly)
}
