// internal/writers/jsonl.go
package writers

import (
	"encoding/json"
	"io"

	"chaincomp/internal/graph"
	"chaincomp/internal/jsonlutil"
	"chaincomp/internal/output"
	"chaincomp/internal/snapshot"
)

// StartNodeJSONLWriter streams each graph.Node as one JSON line (v1).
func StartNodeJSONLWriter(out io.Writer, bufSize int) (chan<- graph.Node, <-chan error) {
	return jsonlutil.Start[graph.Node](out, bufSize,
		func(enc *json.Encoder, n graph.Node) error {
			return enc.Encode(output.ToAPINode(n))
		},
		IsBrokenPipe,
	)
}

// StartRoundJSONLWriter streams each ledger record as one JSON line (v1).
func StartRoundJSONLWriter(out io.Writer, bufSize int) (chan<- snapshot.Record, <-chan error) {
	return jsonlutil.Start[snapshot.Record](out, bufSize,
		func(enc *json.Encoder, r snapshot.Record) error {
			return enc.Encode(output.ToAPIRound(r))
		},
		IsBrokenPipe,
	)
}
