// internal/output/json.go
package output

import (
	"encoding/json"
	"io"

	"chaincomp/internal/graph"
	"chaincomp/internal/snapshot"
	"chaincomp/pkg/api"
)

// encodePretty writes v as indented JSON to w.
func encodePretty(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func toAPINodes(list []graph.Node) []api.NodeV1 {
	out := make([]api.NodeV1, 0, len(list))
	for _, n := range list {
		out = append(out, ToAPINode(n))
	}
	return out
}

// WriteJSON writes a single JSON array of v1 nodes (pretty-indented).
func WriteJSON(w io.Writer, list []graph.Node) error {
	return encodePretty(w, toAPINodes(list))
}

// WriteRoundsJSON writes the ledger as a JSON array of v1 rounds.
func WriteRoundsJSON(w io.Writer, recs []snapshot.Record) error {
	out := make([]api.RoundV1, 0, len(recs))
	for _, r := range recs {
		out = append(out, ToAPIRound(r))
	}
	return encodePretty(w, out)
}
