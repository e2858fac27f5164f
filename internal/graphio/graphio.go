// Package graphio loads upstream graphs: JSONL node records (pkg/api.NodeV1,
// optionally gzipped) plus an optional FASTA sidecar keyed by node id.
package graphio

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"chaincomp/internal/fasta"
	"chaincomp/internal/graph"
	"chaincomp/internal/jsonlutil"
	"chaincomp/internal/output"
	"chaincomp/pkg/api"
)

// Options controls Load.
type Options struct {
	Sequences string // FASTA sidecar; empty = sequences are inline
	Overlap   int
	Validate  bool
	Log       logrus.FieldLogger
}

// Load reads every path in order and returns the nodes. With Validate set,
// the graph invariants and the per-node length constraint (len > overlap)
// are checked and every violation is returned in one multierror.
func Load(paths []string, opts Options) ([]graph.Node, error) {
	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	var nodes []graph.Node
	for _, p := range paths {
		n0 := len(nodes)
		if err := readFile(p, func(n graph.Node) { nodes = append(nodes, n) }); err != nil {
			return nil, err
		}
		log.WithField("file", p).WithField("nodes", len(nodes)-n0).Debug("graph file read")
	}

	if opts.Sequences != "" {
		seqs, err := fasta.ReadAll(opts.Sequences)
		if err != nil {
			return nil, err
		}
		unused, err := attachSequences(nodes, seqs)
		if err != nil {
			return nil, err
		}
		if unused > 0 {
			log.WithField("unused", unused).Warn("sidecar sequences without a graph node")
		}
	}

	if opts.Validate {
		if err := validate(nodes, opts.Overlap); err != nil {
			return nil, err
		}
	}
	return nodes, nil
}

func readFile(path string, emit func(graph.Node)) error {
	rc, err := fasta.Open(path)
	if err != nil {
		return err
	}
	defer rc.Close()

	err = jsonlutil.Decode[api.NodeV1](rc, func(_ int, v api.NodeV1) error {
		n, err := output.FromAPINode(v)
		if err != nil {
			return err
		}
		emit(n)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// attachSequences fills empty node sequences from seqs. A node carrying an
// inline sequence that disagrees with the sidecar is an integrity error.
func attachSequences(nodes []graph.Node, seqs map[string]string) (int, error) {
	used := 0
	for i := range nodes {
		s, ok := seqs[nodes[i].ID]
		if !ok {
			continue
		}
		used++
		switch nodes[i].Sequence {
		case "":
			nodes[i].Sequence = s
		case s:
		default:
			return 0, &graph.DataIntegrityError{NodeID: nodes[i].ID, Reason: "inline sequence differs from sidecar"}
		}
	}
	return len(seqs) - used, nil
}

func validate(nodes []graph.Node, overlap int) error {
	var result *multierror.Error
	if err := graph.Validate(nodes); err != nil {
		result = multierror.Append(result, err)
	}
	for _, n := range nodes {
		if len(n.Sequence) <= overlap {
			result = multierror.Append(result, &graph.DataIntegrityError{
				NodeID: n.ID,
				Reason: fmt.Sprintf("sequence length %d must exceed overlap %d", len(n.Sequence), overlap),
			})
		}
	}
	return result.ErrorOrNil()
}
