package output

import (
	"fmt"
	"io"

	"chaincomp/internal/graph"
)

func writeFASTARecord(w io.Writer, n graph.Node) error {
	_, err := fmt.Fprintf(w, ">%s len=%d cov=%.3f\n%s\n", n.ID, len(n.Sequence), n.Coverage, n.Sequence)
	return err
}

// StreamFASTA streams FASTA records from a channel to the writer.
// Nodes without a sequence are skipped.
func StreamFASTA(w io.Writer, in <-chan graph.Node) error {
	for n := range in {
		if n.Sequence == "" {
			continue
		}
		if err := writeFASTARecord(w, n); err != nil {
			return err
		}
	}
	return nil
}

// WriteFASTA writes a slice of nodes as FASTA records to the writer.
func WriteFASTA(w io.Writer, list []graph.Node) error {
	for _, n := range list {
		if n.Sequence == "" {
			continue
		}
		if err := writeFASTARecord(w, n); err != nil {
			return err
		}
	}
	return nil
}
