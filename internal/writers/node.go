// internal/writers/node.go
package writers

import (
	"io"
	"sort"

	"chaincomp/internal/graph"
	"chaincomp/internal/output"
)

type nodeArgs struct {
	Sort   bool
	Header bool
	In     <-chan graph.Node
}

func drainNodes(ch <-chan graph.Node, sorted bool) []graph.Node {
	list := make([]graph.Node, 0, 128)
	for n := range ch {
		list = append(list, n)
	}
	if sorted {
		sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	}
	return list
}

func init() {
	// JSON array
	RegisterNode(output.FormatJSON, func(w io.Writer, payload interface{}) error {
		args := payload.(nodeArgs)
		return output.WriteJSON(w, drainNodes(args.In, args.Sort))
	})

	// JSONL (stream or buffered+sort)
	RegisterNode(output.FormatJSONL, func(w io.Writer, payload interface{}) error {
		args := payload.(nodeArgs)
		pipe, done := StartNodeJSONLWriter(w, 64)
		if args.Sort {
			for _, n := range drainNodes(args.In, true) {
				pipe <- n
			}
		} else {
			for n := range args.In {
				pipe <- n
			}
		}
		close(pipe)
		return <-done
	})

	// FASTA (stream or buffered+sort)
	RegisterNode(output.FormatFASTA, func(w io.Writer, payload interface{}) error {
		args := payload.(nodeArgs)
		if args.Sort {
			return output.WriteFASTA(w, drainNodes(args.In, true))
		}
		return output.StreamFASTA(w, args.In)
	})

	// TSV text (stream or buffered+sort)
	RegisterNode(output.FormatText, func(w io.Writer, payload interface{}) error {
		args := payload.(nodeArgs)
		if args.Sort {
			return output.WriteText(w, drainNodes(args.In, true), args.Header)
		}
		return output.StreamText(w, args.In, args.Header)
	})
}

// StartNodeWriter spins up a writer goroutine for graph nodes in the given
// format. The input channel is always drained, even when the format is unknown.
func StartNodeWriter(out io.Writer, format string, sorted, header bool, bufSize int) (chan<- graph.Node, <-chan error) {
	if bufSize <= 0 {
		bufSize = 64
	}
	in := make(chan graph.Node, bufSize)
	errCh := make(chan error, 1)

	go func() {
		err := WriteNode(format, out, nodeArgs{Sort: sorted, Header: header, In: in})
		for range in {
		}
		errCh <- err
	}()
	return in, errCh
}
