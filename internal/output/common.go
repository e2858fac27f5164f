package output

// Output formats accepted by the export tool.
const (
	FormatJSONL = "jsonl"
	FormatJSON  = "json"
	FormatFASTA = "fasta"
	FormatText  = "text"
)

// TSVHeader is the canonical header row for text/TSV node outputs.
// Keep this as the single source of truth; all writers should use it.
const TSVHeader = "id\tlength\tcov\tfwd\trev\tcompressible"

// RoundsTSVHeader is the header row for the text rendering of the ledger.
const RoundsTSVHeader = "round\tnodes\tpartitions\tmerges\tcompressible\tconverged\tpruned\tcommitted_at"

// Known reports whether format names a supported output.
func Known(format string) bool {
	switch format {
	case FormatJSONL, FormatJSON, FormatFASTA, FormatText:
		return true
	}
	return false
}
