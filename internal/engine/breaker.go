package engine

import (
	"fmt"

	"chaincomp/internal/bsp"
	"chaincomp/internal/coin"
	"chaincomp/internal/graph"
)

// Breaker orients each chain link so that no node is both merged into and
// merged from in the same round, and no target receives two sources.
//
// A compressible node draws Up or Down. A Down node whose buddies are all
// Down and which holds the smallest id among them is promoted to Up, so
// all-Down stretches still make progress. An Up node merges into its forward
// buddy, else its reverse buddy, when that buddy drew Down and no rival on
// the buddy's far side outranks it (see yields).
//
// Map decides the mark and asks every external neighbour of the source to
// re-point its edges from the source to the target. Reduce applies those
// rewrites, so by the time the merger runs every reference already names the
// surviving id.
type Breaker struct {
	Round int
	Coins coin.Flipper

	c *counters
}

// buddy is the compressible neighbour over strand s.
func buddy(n *graph.Node, s graph.Strand) (graph.Terminal, bool) {
	if !n.Compressible.Has(s) {
		return graph.Terminal{}, false
	}
	return n.Tail(s)
}

// Decide returns the merge this node initiates this round, or nil.
func (b *Breaker) Decide(n *graph.Node) *graph.Mark {
	var (
		buddies [2]graph.Terminal
		has     [2]bool
	)
	for _, s := range graph.Strands {
		buddies[s], has[s] = buddy(n, s)
	}
	if !has[graph.Forward] && !has[graph.Reverse] {
		return nil
	}

	side := b.Coins.Flip(b.Round, n.ID)
	if side == coin.Down && b.promote(n.ID, buddies, has) {
		side = coin.Up
		b.count(func(c *counters) { c.promoted.Add(1) })
	}
	if side == coin.Down {
		return nil
	}
	b.count(func(c *counters) { c.up.Add(1) })

	for _, s := range graph.Strands {
		if !has[s] {
			continue
		}
		t := buddies[s]
		if b.Coins.Flip(b.Round, t.NodeID) == coin.Down && !b.yields(n.ID, t, n.Rivals[s]) {
			return &graph.Mark{Strand: s, Target: t}
		}
	}
	return nil
}

// yields reports whether id must leave buddy t to rival, the node on t's far
// side. Both are able to merge into t only if rival can act this round: it
// drew Up, or it drew Down with an id below t's and so might be promoted. Of
// two such sources the smaller id goes. Both ends evaluate the same rule, so
// t never receives two instructions, and the smallest id of an all-Down chain
// never yields.
func (b *Breaker) yields(id string, t graph.Terminal, rival string) bool {
	if rival == "" || rival == id {
		return false
	}
	if b.Coins.Flip(b.Round, rival) == coin.Down && rival > t.NodeID {
		return false
	}
	return rival < id
}

// promote reports whether a Down node leads its all-Down neighbourhood.
func (b *Breaker) promote(id string, buddies [2]graph.Terminal, has [2]bool) bool {
	for s := range buddies {
		if !has[s] {
			continue
		}
		t := buddies[s]
		if b.Coins.Flip(b.Round, t.NodeID) != coin.Down || t.NodeID <= id {
			return false
		}
	}
	return true
}

func (b *Breaker) count(f func(*counters)) {
	if b.c != nil {
		f(b.c)
	}
}

func (b *Breaker) Map(n graph.Node, emit bsp.Emit) error {
	n.Mark = b.Decide(&n)
	if n.Mark != nil {
		b.count(func(c *counters) { c.marked.Add(1) })
		old := graph.Terminal{NodeID: n.ID, Strand: n.Mark.Strand}
		// Neighbours pointing into (n, S) are exactly the targets of comp(S).
		seen := make(map[string]struct{}, len(n.Edges[n.Mark.Strand.Complement()]))
		for _, t := range n.Edges[n.Mark.Strand.Complement()] {
			if t.NodeID == n.ID || t.NodeID == n.Mark.Target.NodeID {
				continue
			}
			if _, ok := seen[t.NodeID]; ok {
				continue
			}
			seen[t.NodeID] = struct{}{}
			emit(graph.UpdateMessage(t.NodeID, graph.LinkUpdate{Old: old, New: n.Mark.Target}))
			b.count(func(c *counters) { c.updates.Add(1) })
		}
	}
	emit(graph.NodeRecord(n))
	return nil
}

func (b *Breaker) Reduce(g *graph.Group) ([]graph.Node, error) {
	n, err := g.Record()
	if err != nil {
		return nil, err
	}
	for _, u := range g.Updates {
		if n.ReplaceTerminal(u.Old, u.New) == 0 {
			return nil, &graph.DataIntegrityError{
				NodeID:  n.ID,
				Records: 1,
				Reason:  fmt.Sprintf("link update %s -> %s matched no edge", u.Old, u.New),
			}
		}
	}
	return []graph.Node{n}, nil
}
