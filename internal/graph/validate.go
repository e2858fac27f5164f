package graph

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"chaincomp/internal/dna"
)

// maxViolations bounds how many problems Validate reports before giving up.
const maxViolations = 100

// Validate checks the node invariants the engine relies on: unique ids,
// valid sequences, no duplicate terminals, and strand-symmetric edges
// (A:S -> B:Sb implies B:comp(Sb) -> A:comp(S)). Every violation found is
// returned in one multierror.
func Validate(nodes []Node) error {
	var result *multierror.Error
	add := func(err error) bool {
		result = multierror.Append(result, err)
		return len(result.Errors) < maxViolations
	}

	idx := make(map[string]*Node, len(nodes))
	for i := range nodes {
		n := &nodes[i]
		if n.ID == "" {
			if !add(&DataIntegrityError{Reason: "empty node id"}) {
				return result
			}
			continue
		}
		if _, dup := idx[n.ID]; dup {
			if !add(&DataIntegrityError{NodeID: n.ID, Records: 2}) {
				return result
			}
			continue
		}
		idx[n.ID] = n
		if !dna.Valid(n.Sequence) {
			if !add(&DataIntegrityError{NodeID: n.ID, Reason: "sequence contains non-IUPAC bases"}) {
				return result
			}
		}
	}

	for _, n := range idx {
		for _, s := range Strands {
			seen := make(map[Terminal]struct{}, len(n.Edges[s]))
			for _, t := range n.Edges[s] {
				if _, dup := seen[t]; dup {
					if !add(&DataIntegrityError{NodeID: n.ID, Reason: fmt.Sprintf("duplicate edge %s -> %s", s, t)}) {
						return result
					}
					continue
				}
				seen[t] = struct{}{}

				other, ok := idx[t.NodeID]
				if !ok {
					if !add(&MissingNeighborError{NodeID: t.NodeID, Referrer: n.ID, Kind: KindNodeRecord}) {
						return result
					}
					continue
				}
				back := Terminal{NodeID: n.ID, Strand: s.Complement()}
				if !hasTerminal(other.Edges[t.Strand.Complement()], back) {
					if !add(&DataIntegrityError{NodeID: n.ID, Reason: fmt.Sprintf(
						"edge %s -> %s has no mirror %s:%s -> %s", s, t, t.NodeID, t.Strand.Complement(), back)}) {
						return result
					}
				}
			}
		}
	}
	return result.ErrorOrNil()
}

func hasTerminal(ts []Terminal, want Terminal) bool {
	for _, t := range ts {
		if t == want {
			return true
		}
	}
	return false
}
