// internal/output/text.go
package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"chaincomp/internal/graph"
	"chaincomp/internal/snapshot"
)

func terminalsCSV(ts []graph.Terminal) string {
	if len(ts) == 0 {
		return "-"
	}
	ss := make([]string, len(ts))
	for i, t := range ts {
		ss[i] = t.String()
	}
	return strings.Join(ss, ",")
}

// FormatRowTSV returns the columns of TSVHeader for n (no trailing newline).
func FormatRowTSV(n graph.Node) string {
	return fmt.Sprintf("%s\t%d\t%.3f\t%s\t%s\t%s",
		n.ID, len(n.Sequence), n.Coverage,
		terminalsCSV(n.Edges[graph.Forward]), terminalsCSV(n.Edges[graph.Reverse]),
		n.Compressible,
	)
}

// StreamText prints one TSV line per node as they arrive.
func StreamText(w io.Writer, in <-chan graph.Node, header bool) error {
	if header {
		if _, err := fmt.Fprintln(w, TSVHeader); err != nil {
			return err
		}
	}
	for n := range in {
		if _, err := fmt.Fprintln(w, FormatRowTSV(n)); err != nil {
			return err
		}
	}
	return nil
}

// WriteText prints one TSV line per node.
func WriteText(w io.Writer, list []graph.Node, header bool) error {
	if header {
		if _, err := fmt.Fprintln(w, TSVHeader); err != nil {
			return err
		}
	}
	for _, n := range list {
		if _, err := fmt.Fprintln(w, FormatRowTSV(n)); err != nil {
			return err
		}
	}
	return nil
}

// WriteRoundsText prints the ledger as TSV.
func WriteRoundsText(w io.Writer, recs []snapshot.Record, header bool) error {
	if header {
		if _, err := fmt.Fprintln(w, RoundsTSVHeader); err != nil {
			return err
		}
	}
	for _, r := range recs {
		if _, err := fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%d\t%t\t%t\t%s\n",
			r.Round, r.Nodes, r.Partitions, r.Merges, r.Compressible,
			r.Converged, r.Pruned, r.CommittedAt.UTC().Format(time.RFC3339),
		); err != nil {
			return err
		}
	}
	return nil
}
