// Package writers turns graph nodes and ledger records into serialized outputs.
//
// Design:
//   • Writers own all presentation knowledge (JSON/JSONL/FASTA/TSV).
//   • Engine stays domain-only; the controller stays orchestration-only.
//   • JSON/JSONL go through pkg/api (v1) for a stable wire format.
package writers
