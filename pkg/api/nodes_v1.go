// pkg/api/nodes_v1.go
package api

// NodeV1 is the stable JSON/JSONL schema for one graph node.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type NodeV1 struct {
	ID           string       `json:"id"`
	Seq          string       `json:"seq,omitempty"`
	Length       int          `json:"length"`
	Coverage     float64      `json:"cov"`
	Fwd          []TerminalV1 `json:"fwd"`
	Rev          []TerminalV1 `json:"rev"`
	Compressible string       `json:"compressible,omitempty"` // "forward" | "reverse" | "both"
}

// TerminalV1 is one outgoing edge target.
type TerminalV1 struct {
	ID     string `json:"id"`
	Strand string `json:"strand"` // "F" | "R"
}

// RoundV1 is the stable schema of a ledger entry.
type RoundV1 struct {
	Round        int    `json:"round"`
	Nodes        int64  `json:"nodes"`
	Partitions   int    `json:"partitions"`
	Merges       int64  `json:"merges"`
	Compressible int64  `json:"compressible"`
	Converged    bool   `json:"converged"`
	Pruned       bool   `json:"pruned,omitempty"`
	CommittedAt  string `json:"committed_at"` // RFC 3339
}
