// internal/output/convert.go
package output

import (
	"fmt"
	"strings"
	"time"

	"chaincomp/internal/graph"
	"chaincomp/internal/snapshot"
	"chaincomp/pkg/api"
)

// ToAPINode converts a node to the stable wire schema (v1).
func ToAPINode(n graph.Node) api.NodeV1 {
	v := api.NodeV1{
		ID:       n.ID,
		Seq:      n.Sequence,
		Length:   len(n.Sequence),
		Coverage: n.Coverage,
		Fwd:      toAPITerminals(n.Edges[graph.Forward]),
		Rev:      toAPITerminals(n.Edges[graph.Reverse]),
	}
	if n.Compressible != graph.CompressNone {
		v.Compressible = n.Compressible.String()
	}
	return v
}

func toAPITerminals(ts []graph.Terminal) []api.TerminalV1 {
	out := make([]api.TerminalV1, 0, len(ts))
	for _, t := range ts {
		out = append(out, api.TerminalV1{ID: t.NodeID, Strand: t.Strand.String()})
	}
	return out
}

// FromAPINode converts a decoded wire node back into a graph node.
// Sequences are upper-cased; compressibility is round-scoped and dropped.
func FromAPINode(v api.NodeV1) (graph.Node, error) {
	n := graph.Node{
		ID:       v.ID,
		Sequence: strings.ToUpper(v.Seq),
		Coverage: v.Coverage,
	}
	for s, ts := range [2][]api.TerminalV1{v.Fwd, v.Rev} {
		for _, t := range ts {
			st, err := graph.ParseStrand(t.Strand)
			if err != nil {
				return graph.Node{}, fmt.Errorf("node %q: %w", v.ID, err)
			}
			n.Edges[s] = append(n.Edges[s], graph.Terminal{NodeID: t.ID, Strand: st})
		}
	}
	return n, nil
}

// ToAPIRound converts a ledger record to the stable wire schema (v1).
func ToAPIRound(r snapshot.Record) api.RoundV1 {
	return api.RoundV1{
		Round:        r.Round,
		Nodes:        r.Nodes,
		Partitions:   r.Partitions,
		Merges:       r.Merges,
		Compressible: r.Compressible,
		Converged:    r.Converged,
		Pruned:       r.Pruned,
		CommittedAt:  r.CommittedAt.UTC().Format(time.RFC3339),
	}
}
