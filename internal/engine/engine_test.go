// internal/engine/engine_test.go
package engine

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chaincomp/internal/bsp"
	"chaincomp/internal/coin"
	"chaincomp/internal/graph"
	"chaincomp/internal/testutil/graphtest"
)

const maxTestRounds = 1000

var testBSP = bsp.Config{Threads: 4, Partitions: 3}

func detect(t *testing.T, snap *graph.Snapshot) map[string]graph.Node {
	t.Helper()
	d := &Detector{c: &counters{}}
	parts, err := bsp.Run(context.Background(), testBSP, snap.Partitions, d.Map, d.Reduce)
	require.NoError(t, err)
	return (&graph.Snapshot{Partitions: parts}).Index()
}

// converge runs rounds until a fixpoint, checking invariants after every round.
func converge(t *testing.T, snap *graph.Snapshot, coins coin.Flipper) (*graph.Snapshot, int) {
	t.Helper()
	for r := 1; r <= maxTestRounds; r++ {
		before := snap.Nodes()
		next, st, err := RunRound(context.Background(), Params{Round: r, Coins: coins, BSP: testBSP}, snap)
		require.NoError(t, err, "round %d", r)
		after := next.Nodes()

		require.NoError(t, graph.Validate(after), "round %d", r)
		assert.Equal(t, len(before)-int(st.Merges), len(after), "round %d node count", r)
		assert.Equal(t, graphtest.EndpointCount(before)-2*int(st.Merges), graphtest.EndpointCount(after),
			"round %d: a merge removes exactly the internal edge pair", r)
		if st.Fixpoint() {
			return next, r
		}
		snap = next
	}
	t.Fatalf("no fixpoint after %d rounds", maxTestRounds)
	return nil, 0
}

func onlyNode(t *testing.T, snap *graph.Snapshot) graph.Node {
	t.Helper()
	nodes := snap.Nodes()
	require.Len(t, nodes, 1)
	return nodes[0]
}

func TestDetectorMarksChainInterior(t *testing.T) {
	snap := graphtest.New().
		Node("A", "ACGTT", 1).Node("B", "TTGCA", 1).Node("C", "CAGGA", 1).
		Link("A", graph.Forward, "B", graph.Forward).
		Link("B", graph.Forward, "C", graph.Forward).
		Snapshot(2, 2)

	got := detect(t, snap)
	assert.Equal(t, graph.CompressForward, got["A"].Compressible)
	assert.Equal(t, graph.CompressBoth, got["B"].Compressible)
	assert.Equal(t, graph.CompressReverse, got["C"].Compressible)
}

func TestDetectorRejectsBranches(t *testing.T) {
	// A forks into B and C; D joins into B as well.
	snap := graphtest.New().
		Node("A", "AAAA", 1).Node("B", "AAAA", 1).Node("C", "AAAA", 1).Node("D", "AAAA", 1).Node("E", "AAAA", 1).
		Link("A", graph.Forward, "B", graph.Forward).
		Link("A", graph.Forward, "C", graph.Forward).
		Link("D", graph.Forward, "B", graph.Forward).
		Link("C", graph.Forward, "E", graph.Forward).
		Snapshot(2, 3)

	got := detect(t, snap)
	assert.Equal(t, graph.CompressNone, got["A"].Compressible, "out-degree 2")
	assert.Equal(t, graph.CompressNone, got["B"].Compressible, "in-degree 2")
	assert.Equal(t, graph.CompressNone, got["D"].Compressible, "points at a shared strand")
	assert.Equal(t, graph.CompressForward, got["C"].Compressible, "C->E is a clean link, A->C is not")
	assert.Equal(t, graph.CompressReverse, got["E"].Compressible)
}

func TestDetectorExcludesSelfLoops(t *testing.T) {
	snap := graphtest.New().
		Node("A", "ACAC", 1).
		Link("A", graph.Forward, "A", graph.Forward).
		Snapshot(2, 1)

	got := detect(t, snap)
	assert.Equal(t, graph.CompressNone, got["A"].Compressible)

	out, st, err := RunRound(context.Background(), Params{Round: 1, Coins: coin.New(1), BSP: testBSP}, snap)
	require.NoError(t, err)
	assert.True(t, st.Fixpoint())
	assert.Equal(t, snap.Nodes(), out.Nodes())
}

func TestDetectorMissingNeighbor(t *testing.T) {
	nodes := []graph.Node{{
		ID:       "A",
		Sequence: "ACGT",
		Edges:    [2][]graph.Terminal{{{NodeID: "ghost", Strand: graph.Forward}}, nil},
	}}
	d := &Detector{c: &counters{}}
	_, err := bsp.Run(context.Background(), testBSP, graph.NewSnapshot(0, 2, 1, nodes).Partitions, d.Map, d.Reduce)
	var mn *graph.MissingNeighborError
	require.ErrorAs(t, err, &mn)
	assert.Equal(t, "ghost", mn.NodeID)
	assert.Equal(t, "A", mn.Referrer)
}

func chainABC() *graphtest.Builder {
	return graphtest.New().
		Node("A", "ACGTT", 1).Node("B", "TTGCA", 1).Node("C", "CAGGA", 1).
		Link("A", graph.Forward, "B", graph.Forward).
		Link("B", graph.Forward, "C", graph.Forward)
}

func compressed(t *testing.T, b *graphtest.Builder) map[string]graph.Node {
	t.Helper()
	return detect(t, b.Snapshot(2, 1))
}

func TestBreakerDecide(t *testing.T) {
	nodes := compressed(t, chainABC())

	tests := []struct {
		name  string
		coins coin.Fixed
		node  string
		want  *graph.Mark
	}{
		{
			name:  "up merges into down forward buddy",
			coins: coin.Fixed{Sides: map[string]coin.Side{"B": coin.Up}},
			node:  "B",
			want:  &graph.Mark{Strand: graph.Forward, Target: graph.Terminal{NodeID: "C", Strand: graph.Forward}},
		},
		{
			name:  "falls back to reverse buddy when forward buddy is up",
			coins: coin.Fixed{Sides: map[string]coin.Side{"B": coin.Up, "C": coin.Up}},
			node:  "B",
			want:  &graph.Mark{Strand: graph.Reverse, Target: graph.Terminal{NodeID: "A", Strand: graph.Reverse}},
		},
		{
			name:  "up buddy is never a target",
			coins: coin.Fixed{DefaultSide: coin.Up},
			node:  "A",
		},
		{
			name:  "smaller up rival takes the shared buddy",
			coins: coin.Fixed{Sides: map[string]coin.Side{"A": coin.Up, "C": coin.Up}},
			node:  "A",
			want:  &graph.Mark{Strand: graph.Forward, Target: graph.Terminal{NodeID: "B", Strand: graph.Forward}},
		},
		{
			name:  "larger up rival leaves the shared buddy",
			coins: coin.Fixed{Sides: map[string]coin.Side{"A": coin.Up, "C": coin.Up}},
			node:  "C",
		},
		{
			name:  "yields to a down rival that may be promoted",
			coins: coin.Fixed{Sides: map[string]coin.Side{"C": coin.Up}},
			node:  "C",
		},
		{
			name:  "all down promotes the smallest id",
			coins: coin.Fixed{},
			node:  "A",
			want:  &graph.Mark{Strand: graph.Forward, Target: graph.Terminal{NodeID: "B", Strand: graph.Forward}},
		},
		{
			name:  "all down leaves larger ids passive",
			coins: coin.Fixed{},
			node:  "B",
		},
		{
			name:  "down node with an up buddy is not promoted",
			coins: coin.Fixed{Sides: map[string]coin.Side{"B": coin.Up}},
			node:  "A",
		},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			b := &Breaker{Round: 1, Coins: tc.coins}
			n := nodes[tc.node]
			assert.Equal(t, tc.want, b.Decide(&n))
		})
	}
}

func TestBreakerRivalThatCannotBePromoted(t *testing.T) {
	// m -> b -> z: m is Down with an id above b's, so it can never act on b.
	nodes := compressed(t, graphtest.New().
		Node("m", "ACGTT", 1).Node("b", "TTGCA", 1).Node("z", "CAGGA", 1).
		Link("m", graph.Forward, "b", graph.Forward).
		Link("b", graph.Forward, "z", graph.Forward))
	z := nodes["z"]
	require.Equal(t, "m", z.Rivals[graph.Reverse])

	b := &Breaker{Round: 1, Coins: coin.Fixed{Sides: map[string]coin.Side{"z": coin.Up}}}
	assert.Equal(t, &graph.Mark{Strand: graph.Reverse, Target: graph.Terminal{NodeID: "b", Strand: graph.Reverse}}, b.Decide(&z))

	b = &Breaker{Round: 1, Coins: coin.Fixed{Sides: map[string]coin.Side{"z": coin.Up, "m": coin.Up}}}
	assert.Nil(t, b.Decide(&z), "an up rival with a smaller id wins")
	m := nodes["m"]
	assert.NotNil(t, b.Decide(&m))
}

func TestDetectorRecordsRivals(t *testing.T) {
	got := compressed(t, chainABC())
	assert.Equal(t, [2]string{"C", ""}, got["A"].Rivals)
	assert.Equal(t, [2]string{"", ""}, got["B"].Rivals)
	assert.Equal(t, [2]string{"", "A"}, got["C"].Rivals)
}

func TestBreakerIgnoresIncompressibleNodes(t *testing.T) {
	n := graph.Node{ID: "A", Sequence: "ACGT"}
	b := &Breaker{Round: 1, Coins: coin.Fixed{DefaultSide: coin.Up}}
	assert.Nil(t, b.Decide(&n))
}

func TestBreakerRewritesNeighbours(t *testing.T) {
	// X -> A -> B with A merging into B: X must point at B before data moves.
	b := graphtest.New().
		Node("X", "GGAC", 1).Node("A", "ACGTT", 1).Node("B", "TTGCA", 1).
		Link("X", graph.Forward, "A", graph.Forward).
		Link("A", graph.Forward, "B", graph.Forward)
	snap := detect(t, b.Snapshot(2, 1))
	// A is the only forward-merging node; X stays Down, B accepts on F.
	coins := coin.Fixed{Sides: map[string]coin.Side{"A": coin.Up}}

	in := [][]graph.Node{{snap["A"], snap["B"], snap["X"]}}
	c := &counters{}
	brk := &Breaker{Round: 1, Coins: coins, c: c}
	parts, err := bsp.Run(context.Background(), testBSP, in, brk.Map, brk.Reduce)
	require.NoError(t, err)
	got := (&graph.Snapshot{Partitions: parts}).Index()

	assert.Equal(t, []graph.Terminal{{NodeID: "B", Strand: graph.Forward}}, got["X"].Edges[graph.Forward])
	require.NotNil(t, got["A"].Mark)
	assert.Equal(t, "B", got["A"].Mark.Target.NodeID)
	assert.Nil(t, got["B"].Mark)
	assert.EqualValues(t, 1, c.marked.Load())
	assert.EqualValues(t, 1, c.updates.Load())
}

func TestBreakerRejectsUnmatchedUpdate(t *testing.T) {
	g := &graph.Group{
		Key:     "N",
		Records: []graph.Node{{ID: "N"}},
		Updates: []graph.LinkUpdate{{Old: graph.Terminal{NodeID: "X"}, New: graph.Terminal{NodeID: "Y"}}},
	}
	_, err := (&Breaker{Coins: coin.Fixed{}}).Reduce(g)
	var di *graph.DataIntegrityError
	require.ErrorAs(t, err, &di)
	assert.True(t, graph.IsFatal(err))
}

func TestMerge(t *testing.T) {
	tests := []struct {
		name      string
		ySeq      string
		yStrand   graph.Strand
		wantFwd   string
		wantAlong string
	}{
		{name: "target forward", ySeq: "TTGCA", yStrand: graph.Forward, wantFwd: "ACGTTGCA", wantAlong: "ACGTTGCA"},
		{name: "target stored reversed", ySeq: "TGCAA", yStrand: graph.Reverse, wantFwd: "TGCAACGT", wantAlong: "ACGTTGCA"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			nodes := graphtest.New().
				Node("P", "GGAC", 1).
				Node("X", "ACGTT", 10).
				Node("Y", tc.ySeq, 20).
				Node("Q", "CAGG", 1).
				Link("P", graph.Forward, "X", graph.Forward).
				Link("X", graph.Forward, "Y", tc.yStrand).
				Link("Y", tc.yStrand, "Q", graph.Forward).
				Nodes()
			idx := map[string]graph.Node{}
			for _, n := range nodes {
				idx[n.ID] = n
			}
			in := graph.MergeInstruction{
				SourceID: "X", TargetID: "Y",
				Strand: graph.Forward, TargetStrand: tc.yStrand,
				Source: idx["X"],
			}
			got, err := Merge(in, idx["Y"], 2)
			require.NoError(t, err)

			assert.Equal(t, "Y", got.ID)
			assert.Equal(t, tc.wantFwd, got.Sequence)
			assert.Equal(t, tc.wantAlong, got.StrandSequence(tc.yStrand))
			assert.InDelta(t, 15.0, got.Coverage, 1e-9)
			assert.Equal(t, []graph.Terminal{{NodeID: "Q", Strand: graph.Forward}}, got.Edges[tc.yStrand])
			assert.Equal(t, []graph.Terminal{{NodeID: "P", Strand: graph.Reverse}}, got.Edges[tc.yStrand.Complement()])
		})
	}
}

func TestMergeRejectsOverlapMismatch(t *testing.T) {
	nodes := graphtest.New().
		Node("X", "ACGTA", 1).Node("Y", "TTGCA", 1).
		Link("X", graph.Forward, "Y", graph.Forward).
		Nodes()
	in := graph.MergeInstruction{SourceID: "X", TargetID: "Y", Source: nodes[0]}
	_, err := Merge(in, nodes[1], 2)
	var di *graph.DataIntegrityError
	require.ErrorAs(t, err, &di)
	assert.Equal(t, "Y", di.NodeID)
	assert.True(t, graph.IsFatal(err))
}

func TestMergeRejectsNonUniqueLink(t *testing.T) {
	nodes := graphtest.New().
		Node("X", "ACGTT", 1).Node("Y", "TTGCA", 1).Node("Z", "TTAAA", 1).
		Link("X", graph.Forward, "Y", graph.Forward).
		Link("X", graph.Forward, "Z", graph.Forward).
		Nodes()
	in := graph.MergeInstruction{SourceID: "X", TargetID: "Y", Source: nodes[0]}
	_, err := Merge(in, nodes[1], 2)
	assert.True(t, graph.IsFatal(err))
}

func TestMergerReduceErrors(t *testing.T) {
	m := &Merger{Overlap: 2}

	_, err := m.Reduce(&graph.Group{
		Key:    "Y",
		Merges: []graph.MergeInstruction{{SourceID: "X", TargetID: "Y"}},
	})
	var mn *graph.MissingNeighborError
	require.ErrorAs(t, err, &mn)
	assert.Equal(t, "X", mn.Referrer)

	_, err = m.Reduce(&graph.Group{
		Key:     "Y",
		Records: []graph.Node{{ID: "Y"}},
		Merges:  []graph.MergeInstruction{{SourceID: "X1"}, {SourceID: "X2"}},
	})
	var di *graph.DataIntegrityError
	require.ErrorAs(t, err, &di)
}

func TestChainConvergesToOneNode(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		flipped []int
		seed    int64
	}{
		{name: "two nodes", n: 2, seed: 1},
		{name: "forward chain", n: 64, seed: 7},
		{name: "mixed orientation", n: 40, flipped: []int{1, 4, 5, 6, 11, 39}, seed: 3},
		{name: "all reversed", n: 9, flipped: []int{0, 1, 2, 3, 4, 5, 6, 7, 8}, seed: 11},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			ch := graphtest.LinearChain("n", tc.n, 12, 4, tc.flipped...)
			out, rounds := converge(t, graph.NewSnapshot(0, ch.Overlap, 4, ch.Nodes), coin.New(tc.seed))

			n := onlyNode(t, out)
			assert.Contains(t, []string{n.StrandSequence(graph.Forward), n.StrandSequence(graph.Reverse)}, ch.Full)
			assert.Zero(t, n.EdgeCount())
			assert.Equal(t, graph.CompressNone, n.Compressible)
			assert.Less(t, rounds, maxTestRounds)
		})
	}
}

func TestAllDownStillProgresses(t *testing.T) {
	ch := graphtest.LinearChain("d", 6, 10, 3)
	coins := coin.Fixed{DefaultSide: coin.Down}

	_, st, err := RunRound(context.Background(), Params{Round: 1, Coins: coins, BSP: testBSP},
		graph.NewSnapshot(0, ch.Overlap, 2, ch.Nodes))
	require.NoError(t, err)
	assert.EqualValues(t, 1, st.Promoted)
	assert.EqualValues(t, 1, st.Merges)

	out, _ := converge(t, graph.NewSnapshot(0, ch.Overlap, 2, ch.Nodes), coins)
	n := onlyNode(t, out)
	assert.Equal(t, ch.Full, n.StrandSequence(graph.Forward))
}

// shuffledChain links n nodes in a line with ids in a random order and
// mixed orientations. Overlap 0 keeps every join valid.
func shuffledChain(rng *rand.Rand, n int) *graph.Snapshot {
	b := graphtest.New()
	ids := make([]string, n)
	for i, p := range rng.Perm(n) {
		ids[i] = fmt.Sprintf("v%03d", p)
		b.Node(ids[i], "ACG", 1)
	}
	strand := func() graph.Strand { return graph.Strand(rng.Intn(2)) }
	prev := strand()
	for i := 0; i+1 < n; i++ {
		next := strand()
		b.Link(ids[i], prev, ids[i+1], next)
		prev = next
	}
	return b.Snapshot(0, 3)
}

func TestAllDownMergesEveryRound(t *testing.T) {
	rng := rand.New(rand.NewSource(17))
	coins := coin.Fixed{DefaultSide: coin.Down}
	for trial := 0; trial < 40; trial++ {
		snap := shuffledChain(rng, 2+rng.Intn(20))
		for r := 1; snap.Len() > 1; r++ {
			require.Less(t, r, maxTestRounds)
			next, st, err := RunRound(context.Background(), Params{Round: r, Coins: coins, BSP: testBSP}, snap)
			require.NoError(t, err)
			require.GreaterOrEqual(t, st.Merges, int64(1), "trial %d round %d: all-down round merged nothing", trial, r)
			snap = next
		}
	}
}

func TestSharedBuddyGetsOneInstruction(t *testing.T) {
	// Random coins on shuffled chains put Up nodes on both sides of a Down
	// node often; the merger rejects a second instruction as fatal.
	rng := rand.New(rand.NewSource(5))
	for seed := int64(0); seed < 40; seed++ {
		_, _ = converge(t, shuffledChain(rng, 3+rng.Intn(30)), coin.New(seed))
	}
}

func TestAtMostOneMergePerTarget(t *testing.T) {
	// Chains hanging off a branching hub, across many seeds.
	b := graphtest.New()
	for _, id := range []string{"h", "p1", "p2", "s1", "s2", "c1", "c2", "c3", "c4"} {
		b.Node(id, "AC", 1)
	}
	b.Link("p1", graph.Forward, "h", graph.Forward).
		Link("p2", graph.Forward, "h", graph.Forward).
		Link("h", graph.Forward, "s1", graph.Forward).
		Link("h", graph.Forward, "s2", graph.Reverse).
		Link("s1", graph.Forward, "c1", graph.Forward).
		Link("c1", graph.Forward, "c2", graph.Reverse).
		Link("c2", graph.Reverse, "c3", graph.Forward).
		Link("c3", graph.Forward, "c4", graph.Reverse)

	for seed := int64(0); seed < 50; seed++ {
		// Overlap 0 keeps every join valid whatever the orientation.
		snap := b.Snapshot(0, 3)
		_, _ = converge(t, snap, coin.New(seed))
	}
}

func TestScenarioABC(t *testing.T) {
	snap := chainABC().
		Node("X1", "GGAC", 3).Node("X2", "TTAC", 3).
		Node("Y1", "GATT", 3).Node("Y2", "GACC", 3).
		Link("X1", graph.Forward, "A", graph.Forward).
		Link("X2", graph.Forward, "A", graph.Forward).
		Link("C", graph.Forward, "Y1", graph.Forward).
		Link("C", graph.Forward, "Y2", graph.Forward).
		Snapshot(2, 2)

	out, _ := converge(t, snap, coin.New(42))
	idx := out.Index()
	require.Len(t, idx, 5)

	var merged graph.Node
	for _, id := range []string{"A", "B", "C"} {
		if n, ok := idx[id]; ok {
			merged = n
		}
	}
	require.NotEmpty(t, merged.ID, "one of A, B, C survives")

	o := graph.Forward
	if merged.StrandSequence(graph.Reverse) == "ACGTTGCAGGA" {
		o = graph.Reverse
	}
	require.Equal(t, "ACGTTGCAGGA", merged.StrandSequence(o))

	m := graph.Terminal{NodeID: merged.ID, Strand: o}
	assert.Equal(t, []graph.Terminal{{NodeID: "Y1", Strand: graph.Forward}, {NodeID: "Y2", Strand: graph.Forward}}, merged.Edges[o])
	assert.ElementsMatch(t, []graph.Terminal{{NodeID: "X1", Strand: graph.Forward}, {NodeID: "X2", Strand: graph.Forward}},
		merged.Terminals(o, graph.Incoming))
	assert.Equal(t, []graph.Terminal{m}, idx["X1"].Edges[graph.Forward])
	assert.Equal(t, []graph.Terminal{m}, idx["X2"].Edges[graph.Forward])
	assert.Equal(t, []graph.Terminal{m.Complement()}, idx["Y1"].Edges[graph.Reverse])
	assert.Equal(t, []graph.Terminal{m.Complement()}, idx["Y2"].Edges[graph.Reverse])
	assert.InDelta(t, 1.0, merged.Coverage, 1e-9)
}

func TestRunRoundLeavesInputUntouched(t *testing.T) {
	ch := graphtest.LinearChain("u", 12, 8, 3)
	snap := graph.NewSnapshot(0, ch.Overlap, 3, ch.Nodes)
	before := graphtest.Endpoints(snap.Nodes())

	for r := 1; r <= 5; r++ {
		_, _, err := RunRound(context.Background(), Params{Round: r, Coins: coin.New(5), BSP: testBSP}, snap)
		require.NoError(t, err)
	}
	assert.Equal(t, before, graphtest.Endpoints(snap.Nodes()))
}

func TestRunRoundIsDeterministic(t *testing.T) {
	ch := graphtest.LinearChain("r", 30, 9, 3, 2, 3, 17)
	snap := graph.NewSnapshot(0, ch.Overlap, 4, ch.Nodes)

	a, sa, err := RunRound(context.Background(), Params{Round: 3, Coins: coin.New(9), BSP: bsp.Config{Threads: 1, Partitions: 1}}, snap)
	require.NoError(t, err)
	b, sb, err := RunRound(context.Background(), Params{Round: 3, Coins: coin.New(9), BSP: bsp.Config{Threads: 8, Partitions: 5}}, snap)
	require.NoError(t, err)

	assert.Equal(t, a.Nodes(), b.Nodes())
	assert.Equal(t, sa.Merges, sb.Merges)
	assert.Equal(t, sa.Promoted, sb.Promoted)
}

func TestStagesRunWithoutCounters(t *testing.T) {
	ctx := context.Background()
	snap := chainABC().Snapshot(2, 2)
	det := &Detector{}
	brk := &Breaker{Round: 1, Coins: coin.Fixed{}}
	mrg := &Merger{Overlap: 2}

	var parts [][]graph.Node
	require.NotPanics(t, func() {
		var err error
		parts, err = bsp.Run(ctx, testBSP, snap.Partitions, det.Map, det.Reduce)
		require.NoError(t, err)
		parts, err = bsp.Run(ctx, testBSP, parts, brk.Map, brk.Reduce)
		require.NoError(t, err)
		parts, err = bsp.Run(ctx, testBSP, parts, mrg.Map, mrg.Reduce)
		require.NoError(t, err)
	})
	assert.Len(t, (&graph.Snapshot{Partitions: parts}).Nodes(), 2, "A is promoted and merges into B")
}

func TestRunRoundRequiresCoins(t *testing.T) {
	_, _, err := RunRound(context.Background(), Params{Round: 1}, graph.NewSnapshot(0, 0, 1, nil))
	require.Error(t, err)
	assert.False(t, graph.IsFatal(err))
}
