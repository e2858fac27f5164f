// internal/output/json_test.go
package output

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chaincomp/internal/graph"
	"chaincomp/internal/snapshot"
	"chaincomp/pkg/api"
)

func sampleNode() graph.Node {
	n := graph.Node{ID: "b", Sequence: "ACGTA", Coverage: 3.5, Compressible: graph.CompressForward}
	n.Edges[graph.Forward] = []graph.Terminal{{NodeID: "c", Strand: graph.Reverse}}
	n.Edges[graph.Reverse] = []graph.Terminal{{NodeID: "a", Strand: graph.Reverse}}
	return n
}

func TestWriteJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, WriteJSON(buf, []graph.Node{sampleNode()}))

	var got []api.NodeV1
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, 5, got[0].Length)
	assert.Equal(t, "forward", got[0].Compressible)
	assert.Equal(t, []api.TerminalV1{{ID: "c", Strand: "R"}}, got[0].Fwd)
}

func TestFromAPINode(t *testing.T) {
	v := ToAPINode(sampleNode())
	v.Seq = "acgta"
	n, err := FromAPINode(v)
	require.NoError(t, err)
	assert.Equal(t, "ACGTA", n.Sequence)
	assert.Equal(t, graph.CompressNone, n.Compressible)
	assert.Equal(t, sampleNode().Edges, n.Edges)

	v.Rev[0].Strand = "x"
	_, err = FromAPINode(v)
	assert.ErrorContains(t, err, `invalid strand "x"`)
}

func TestWriteRounds(t *testing.T) {
	recs := []snapshot.Record{
		{Round: 0, Nodes: 3, Partitions: 2, CommittedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)},
		{Round: 1, Nodes: 1, Partitions: 2, Merges: 2, Converged: true},
	}

	var js bytes.Buffer
	require.NoError(t, WriteRoundsJSON(&js, recs))
	var got []api.RoundV1
	require.NoError(t, json.Unmarshal(js.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "2026-01-02T03:04:05Z", got[0].CommittedAt)
	assert.True(t, got[1].Converged)

	var txt bytes.Buffer
	require.NoError(t, WriteRoundsText(&txt, recs, true))
	assert.Contains(t, txt.String(), RoundsTSVHeader+"\n")
	assert.Contains(t, txt.String(), "1\t1\t2\t2\t0\ttrue\tfalse\t")
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, []graph.Node{sampleNode(), {ID: "lone", Sequence: "A"}}, true))
	want := TSVHeader + "\n" +
		"b\t5\t3.500\tc:R\ta:R\tforward\n" +
		"lone\t1\t0.000\t-\t-\tnone\n"
	assert.Equal(t, want, buf.String())
}
