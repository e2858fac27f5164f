package integration

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"chaincomp/internal/dna"
	"chaincomp/internal/graph"
	"chaincomp/internal/output"
	"chaincomp/internal/testutil/graphtest"
)

const overlap = 6

// fixture is two independent chains plus a fork X→{Y,Z} that must survive.
type fixture struct {
	dir     string
	graph   string
	contigs map[string]bool // either strand of each expected chain
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()

	a := graphtest.LinearChain("a", 24, 16, overlap, 5, 6, 11)
	b := graphtest.LinearChain("b", 9, 14, overlap)
	fork := graphtest.New().
		Node("x", "ACGTTGCAAC", 1).
		Node("y", "GCAACTTTGG", 1).
		Node("z", "GCAACGGGAT", 1).
		Link("x", graph.Forward, "y", graph.Forward).
		Link("x", graph.Forward, "z", graph.Forward).
		Nodes()

	nodes := append(append(append([]graph.Node{}, a.Nodes...), b.Nodes...), fork...)
	path := filepath.Join(dir, "graph.jsonl")
	fh, err := os.Create(path)
	require.NoError(t, err)
	bw := bufio.NewWriter(fh)
	enc := json.NewEncoder(bw)
	for _, n := range nodes {
		require.NoError(t, enc.Encode(output.ToAPINode(n)))
	}
	require.NoError(t, bw.Flush())
	require.NoError(t, fh.Close())

	return fixture{
		dir:   dir,
		graph: path,
		contigs: map[string]bool{
			a.Full: true, dna.RevComp(a.Full): true,
			b.Full: true, dna.RevComp(b.Full): true,
		},
	}
}

func (f fixture) path(name string) string { return filepath.Join(f.dir, name) }
