package graph

import (
	"fmt"
	"sort"
	"strings"

	"chaincomp/internal/dna"
)

// Strand is one of the two complementary orientations of a fragment.
type Strand uint8

const (
	Forward Strand = iota
	Reverse
)

// Strands lists both strands in the order the stages visit them.
var Strands = [2]Strand{Forward, Reverse}

func (s Strand) Complement() Strand { return s ^ 1 }

func (s Strand) String() string {
	if s == Reverse {
		return "R"
	}
	return "F"
}

// ParseStrand accepts F/R (any case) and the long forms.
func ParseStrand(v string) (Strand, error) {
	switch strings.ToUpper(strings.TrimSpace(v)) {
	case "F", "FORWARD", "+":
		return Forward, nil
	case "R", "REVERSE", "-":
		return Reverse, nil
	}
	return Forward, fmt.Errorf("invalid strand %q", v)
}

// Direction selects incoming or outgoing adjacency of a strand.
type Direction uint8

const (
	Incoming Direction = iota
	Outgoing
)

func (d Direction) String() string {
	if d == Incoming {
		return "in"
	}
	return "out"
}

// Terminal identifies one strand of one node.
type Terminal struct {
	NodeID string `msgpack:"id" json:"id"`
	Strand Strand `msgpack:"s" json:"strand"`
}

func (t Terminal) Complement() Terminal { return Terminal{NodeID: t.NodeID, Strand: t.Strand.Complement()} }

func (t Terminal) String() string { return t.NodeID + ":" + t.Strand.String() }

// Compressibility records which strands lie on a 1-in/1-out chain link.
type Compressibility uint8

const (
	CompressNone    Compressibility = 0
	CompressForward Compressibility = 1 << 0
	CompressReverse Compressibility = 1 << 1
	CompressBoth                    = CompressForward | CompressReverse
)

func (c Compressibility) Has(s Strand) bool { return c&(1<<s) != 0 }

func (c Compressibility) With(s Strand) Compressibility { return c | 1<<s }

func (c Compressibility) String() string {
	switch c {
	case CompressForward:
		return "forward"
	case CompressReverse:
		return "reverse"
	case CompressBoth:
		return "both"
	}
	return "none"
}

// Mark is the round-scoped decision that this node merges into Target
// over its outgoing edge on Strand. It is never persisted.
type Mark struct {
	Strand Strand
	Target Terminal
}

// Node is one fragment. Edges holds only the outgoing terminals of each
// strand; incoming adjacency is derived from the complementary strand.
type Node struct {
	ID           string          `msgpack:"id"`
	Sequence     string          `msgpack:"seq"`
	Coverage     float64         `msgpack:"cov"`
	Edges        [2][]Terminal   `msgpack:"e"`
	Compressible Compressibility `msgpack:"c,omitempty"`

	// Rivals[s] is the other node that could merge into the buddy over s
	// this round. Like Mark it lives for one round only.
	Rivals [2]string `msgpack:"-"`
	Mark   *Mark     `msgpack:"-"`
}

// StrandSequence returns the sequence read along strand s.
func (n *Node) StrandSequence(s Strand) string {
	if s == Reverse {
		return dna.RevComp(n.Sequence)
	}
	return n.Sequence
}

// Terminals returns the adjacency of strand s in direction d.
// Incoming edges of s are the outgoing edges of complement(s), complemented.
func (n *Node) Terminals(s Strand, d Direction) []Terminal {
	if d == Outgoing {
		return n.Edges[s]
	}
	src := n.Edges[s.Complement()]
	if len(src) == 0 {
		return nil
	}
	out := make([]Terminal, len(src))
	for i, t := range src {
		out[i] = t.Complement()
	}
	return out
}

// Degree counts the edges of strand s in direction d.
func (n *Node) Degree(s Strand, d Direction) int {
	if d == Outgoing {
		return len(n.Edges[s])
	}
	return len(n.Edges[s.Complement()])
}

// Tail returns the only outgoing terminal of strand s, if there is exactly one.
func (n *Node) Tail(s Strand) (Terminal, bool) {
	if len(n.Edges[s]) != 1 {
		return Terminal{}, false
	}
	return n.Edges[s][0], true
}

// AddEdge appends an outgoing edge from strand s to t unless it is already present.
func (n *Node) AddEdge(s Strand, t Terminal) {
	for _, e := range n.Edges[s] {
		if e == t {
			return
		}
	}
	n.Edges[s] = append(n.Edges[s], t)
}

// ReplaceTerminal rewrites every outgoing reference to old into repl and
// returns how many references changed.
func (n *Node) ReplaceTerminal(old, repl Terminal) int {
	changed := 0
	for s := range n.Edges {
		for i, t := range n.Edges[s] {
			if t == old {
				n.Edges[s][i] = repl
				changed++
			}
		}
	}
	return changed
}

// EdgeCount is the number of outgoing terminals over both strands.
func (n *Node) EdgeCount() int { return len(n.Edges[Forward]) + len(n.Edges[Reverse]) }

// Clone deep-copies the node so later stages never alias a previous round's slices.
func (n Node) Clone() Node {
	c := n
	for s := range n.Edges {
		if n.Edges[s] != nil {
			c.Edges[s] = append([]Terminal(nil), n.Edges[s]...)
		}
	}
	if n.Mark != nil {
		m := *n.Mark
		c.Mark = &m
	}
	return c
}

// SortEdges orders every terminal list by (id, strand) for stable output.
func (n *Node) SortEdges() {
	for s := range n.Edges {
		ts := n.Edges[s]
		sort.Slice(ts, func(i, j int) bool {
			if ts[i].NodeID != ts[j].NodeID {
				return ts[i].NodeID < ts[j].NodeID
			}
			return ts[i].Strand < ts[j].Strand
		})
	}
}
