package scc

import (
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/stretchr/testify/require"

	"github.com/urbansched/taskplan/pkg/graph"
)

type edge struct {
	u, v int
	w    int64
}

func buildGraph(t *testing.T, n int, edges []edge) *graph.Graph {
	t.Helper()
	g := graph.New(n, true)
	for _, e := range edges {
		require.NoError(t, g.AddEdge(e.u, e.v, e.w))
	}
	return g
}

// requirePartition asserts that the components partition {0..n-1}: every node
// appears in exactly one component.
func requirePartition(t *testing.T, n int, components [][]int) {
	t.Helper()
	seen := mapset.NewSet[int]()
	total := 0
	for _, comp := range components {
		total += len(comp)
		for _, node := range comp {
			require.False(t, seen.Contains(node), "node %d appears in two components", node)
			seen.Add(node)
			require.GreaterOrEqual(t, node, 0)
			require.Less(t, node, n)
		}
	}
	require.Equal(t, n, total)
}

func TestThreeNodeCycleCollapsesToOneComponent(t *testing.T) {
	g := buildGraph(t, 3, []edge{{0, 1, 1}, {1, 2, 1}, {2, 0, 1}})

	res, err := Compute(g)
	require.NoError(t, err)

	require.Len(t, res.Components, 1)
	require.ElementsMatch(t, []int{0, 1, 2}, res.Components[0])
	require.Equal(t, []int{0, 0, 0}, res.ComponentID)

	require.Equal(t, 1, res.Condensation.NodeCount())
	require.Zero(t, res.Condensation.EdgeCount())
}

func TestMixedGraph(t *testing.T) {
	// Cycle {0,1,2} -> cycle {3,4} -> sink 5.
	g := buildGraph(t, 6, []edge{
		{0, 1, 1}, {1, 2, 1}, {2, 0, 1},
		{2, 3, 5},
		{3, 4, 1}, {4, 3, 1},
		{4, 5, 2},
	})

	res, err := Compute(g)
	require.NoError(t, err)

	require.Equal(t, [][]int{{0, 2, 1}, {3, 4}, {5}}, res.Components)
	require.Equal(t, []int{0, 0, 0, 1, 1, 2}, res.ComponentID)
	requirePartition(t, 6, res.Components)

	// Condensation: 0 -> 1 (weight 5), 1 -> 2 (weight 2).
	c := res.Condensation
	require.Equal(t, 3, c.NodeCount())
	require.Equal(t, []graph.Edge{{Target: 1, Weight: 5}}, c.Neighbors(0))
	require.Equal(t, []graph.Edge{{Target: 2, Weight: 2}}, c.Neighbors(1))
	require.Empty(t, c.Neighbors(2))
}

func TestCondensationDeduplicatesFirstSeenWeightWins(t *testing.T) {
	// Two 2-cycles with three cross edges; the condensation keeps exactly
	// one edge and the first weight encountered, never a merge.
	g := buildGraph(t, 4, []edge{
		{0, 1, 1}, {1, 0, 1},
		{2, 3, 1}, {3, 2, 1},
		{0, 2, 9}, {1, 2, 4}, {0, 3, 7},
	})

	res, err := Compute(g)
	require.NoError(t, err)

	require.Len(t, res.Components, 2)
	c := res.Condensation
	require.Equal(t, 1, c.EdgeCount())
	require.Equal(t, []graph.Edge{{Target: 1, Weight: 9}}, c.Neighbors(0))
}

func TestSelfLoopStaysSingleton(t *testing.T) {
	g := buildGraph(t, 2, []edge{{0, 0, 1}, {0, 1, 1}})

	res, err := Compute(g)
	require.NoError(t, err)

	require.Equal(t, [][]int{{0}, {1}}, res.Components)
	requirePartition(t, 2, res.Components)
}

func TestEmptyGraph(t *testing.T) {
	res, err := Compute(graph.New(0, true))
	require.NoError(t, err)

	require.Empty(t, res.Components)
	require.Empty(t, res.ComponentID)
	require.Zero(t, res.Condensation.NodeCount())
}

func TestDisconnectedSingletons(t *testing.T) {
	res, err := Compute(graph.New(4, true))
	require.NoError(t, err)

	require.Len(t, res.Components, 4)
	requirePartition(t, 4, res.Components)
	for _, comp := range res.Components {
		require.Len(t, comp, 1)
	}
}

func TestUndirectedRejected(t *testing.T) {
	_, err := Compute(graph.New(2, false))
	require.ErrorIs(t, err, ErrUndirected)
}

func TestCountersRecordBothPasses(t *testing.T) {
	g := buildGraph(t, 6, []edge{
		{0, 1, 1}, {1, 2, 1}, {2, 0, 1},
		{2, 3, 5},
		{3, 4, 1}, {4, 3, 1},
		{4, 5, 2},
	})

	res, err := Compute(g)
	require.NoError(t, err)

	// Every node is visited once per pass; every edge is examined once per
	// pass (the second over the transpose).
	require.Equal(t, int64(12), res.Counters.DFSVisits)
	require.Equal(t, int64(14), res.Counters.EdgeTraversals)
	require.GreaterOrEqual(t, res.Counters.Elapsed.Nanoseconds(), int64(0))
}

func TestLargeChainDoesNotOverflowStack(t *testing.T) {
	// A path long enough to break recursive DFS implementations.
	const n = 200000
	g := graph.New(n, true)
	for i := 0; i < n-1; i++ {
		require.NoError(t, g.AddEdge(i, i+1, 1))
	}

	res, err := Compute(g)
	require.NoError(t, err)
	require.Len(t, res.Components, n)
}
