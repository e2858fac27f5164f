// internal/writers/rounds.go
package writers

import (
	"io"

	"chaincomp/internal/output"
	"chaincomp/internal/snapshot"
)

type roundArgs struct {
	Header  bool
	Records []snapshot.Record
}

func init() {
	RegisterRound(output.FormatJSON, func(w io.Writer, payload interface{}) error {
		return output.WriteRoundsJSON(w, payload.(roundArgs).Records)
	})
	RegisterRound(output.FormatJSONL, func(w io.Writer, payload interface{}) error {
		pipe, done := StartRoundJSONLWriter(w, 16)
		for _, r := range payload.(roundArgs).Records {
			pipe <- r
		}
		close(pipe)
		return <-done
	})
	RegisterRound(output.FormatText, func(w io.Writer, payload interface{}) error {
		args := payload.(roundArgs)
		return output.WriteRoundsText(w, args.Records, args.Header)
	})
}

// WriteRounds renders the ledger in format.
func WriteRounds(out io.Writer, format string, header bool, recs []snapshot.Record) error {
	return WriteRound(format, out, roundArgs{Header: header, Records: recs})
}
