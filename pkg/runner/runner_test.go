package runner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/urbansched/taskplan/pkg/dagpath"
	"github.com/urbansched/taskplan/pkg/graph"
	"github.com/urbansched/taskplan/pkg/loader"
)

type fakeExporter struct {
	exported []*GraphResult
	err      error
}

func (f *fakeExporter) ExportGraphResult(_ context.Context, res *GraphResult) error {
	if f.err != nil {
		return f.err
	}
	f.exported = append(f.exported, res)
	return nil
}

type fakeStore struct {
	stored []*GraphResult
}

func (f *fakeStore) PutRun(_ context.Context, res *GraphResult) error {
	f.stored = append(f.stored, res)
	return nil
}

func diamondDescriptor() *loader.Descriptor {
	return &loader.Descriptor{
		N:        4,
		Directed: true,
		Source:   0,
		Edges: []loader.EdgeSpec{
			{U: 0, V: 1, W: 5},
			{U: 0, V: 2, W: 3},
			{U: 1, V: 3, W: 2},
			{U: 2, V: 3, W: 1},
		},
	}
}

func TestProcessDescriptorDiamond(t *testing.T) {
	r := New()

	res, err := r.ProcessDescriptor(context.Background(), "diamond", diamondDescriptor())
	require.NoError(t, err)

	require.NotEmpty(t, res.RunID)
	require.Equal(t, "diamond", res.Dataset)
	require.Equal(t, 4, res.NodeCount)
	require.Equal(t, 4, res.EdgeCount)
	require.True(t, res.IsDAG)

	// Every node is its own component, so the condensation is the graph
	// itself and component ids line up with the topological order.
	require.Len(t, res.Components, 4)
	require.Equal(t, 4, res.CondensationNodes)
	require.Equal(t, 4, res.CondensationEdges)
	require.Len(t, res.TaskOrder, 4)
	require.Equal(t, res.TaskOrder[0], res.ComponentOrder[0])

	src := res.SourceComponent
	require.Equal(t, dagpath.Reached(0), res.ShortestDistances[src])
	require.Equal(t, int64(7), res.Critical.Length)
	require.Len(t, res.CriticalTasks, 3)

	require.Positive(t, res.SCCCounters.DFSVisits)
	require.Positive(t, res.TopoCounters.QueuePops)
	require.Positive(t, res.ShortestCounters.RelaxOps)
	require.Positive(t, res.LongestCounters.RelaxOps)
}

func TestProcessDescriptorCollapsesCycle(t *testing.T) {
	d := &loader.Descriptor{
		N:        4,
		Directed: true,
		Source:   0,
		Edges: []loader.EdgeSpec{
			{U: 0, V: 1, W: 1},
			{U: 1, V: 2, W: 1},
			{U: 2, V: 0, W: 1},
			{U: 2, V: 3, W: 4},
		},
	}

	res, err := New().ProcessDescriptor(context.Background(), "cycle", d)
	require.NoError(t, err)

	require.Len(t, res.Components, 2)
	require.Equal(t, 1, res.CycleComponentCount())
	require.Equal(t, 2, res.CondensationNodes)
	require.True(t, res.IsDAG)

	// The source sits inside the collapsed cycle; the sink is one hop away.
	require.Equal(t, res.ComponentID[0], res.SourceComponent)
	require.Equal(t, int64(4), res.Critical.Length)
	require.ElementsMatch(t, []int{0, 1, 2, 3}, res.TaskOrder)
}

func TestProcessDescriptorEmptyGraph(t *testing.T) {
	d := &loader.Descriptor{N: 0, Directed: true}

	res, err := New().ProcessDescriptor(context.Background(), "empty", d)
	require.NoError(t, err)

	require.True(t, res.IsDAG)
	require.Empty(t, res.Components)
	require.Empty(t, res.TaskOrder)
	require.Zero(t, res.Critical.Length)
}

func TestProcessDescriptorSourceOutOfRange(t *testing.T) {
	d := diamondDescriptor()
	d.Source = 9

	_, err := New().ProcessDescriptor(context.Background(), "bad-source", d)
	require.ErrorIs(t, err, graph.ErrNodeOutOfRange)
}

func TestProcessDescriptorSourceOverride(t *testing.T) {
	r := New(WithSourceNode(3))

	res, err := r.ProcessDescriptor(context.Background(), "diamond", diamondDescriptor())
	require.NoError(t, err)

	require.Equal(t, 3, res.SourceNode)
	// Node 3 is a sink, so nothing is strictly farther than the source.
	require.Zero(t, res.Critical.Length)
	require.Empty(t, res.Critical.Path)
}

func TestProcessDescriptorInvalidEdge(t *testing.T) {
	d := &loader.Descriptor{
		N:        2,
		Directed: true,
		Edges:    []loader.EdgeSpec{{U: 0, V: 7, W: 1}},
	}

	_, err := New().ProcessDescriptor(context.Background(), "invalid", d)
	require.ErrorIs(t, err, graph.ErrNodeOutOfRange)
}

func TestExporterAndStoreHooks(t *testing.T) {
	exp := &fakeExporter{}
	store := &fakeStore{}
	r := New(WithExporter(exp), WithStore(store))

	res, err := r.ProcessDescriptor(context.Background(), "diamond", diamondDescriptor())
	require.NoError(t, err)

	require.Len(t, exp.exported, 1)
	require.Len(t, store.stored, 1)
	require.Same(t, res, exp.exported[0])
	require.Same(t, res, store.stored[0])
	require.Len(t, r.Results(), 1)
}

func TestExporterFailureSurfaces(t *testing.T) {
	exp := &fakeExporter{err: errors.New("disk full")}
	r := New(WithExporter(exp))

	_, err := r.ProcessDescriptor(context.Background(), "diamond", diamondDescriptor())
	require.Error(t, err)
	require.Contains(t, err.Error(), "disk full")
	require.Empty(t, r.Results())
}

func TestProcessAllSkipsFailedGraphs(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.json")
	require.NoError(t, os.WriteFile(good, []byte(
		`{"n": 2, "directed": true, "source": 0, "edges": [{"u": 0, "v": 1, "w": 3}]}`,
	), 0o644))
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"n":`), 0o644))

	r := New()
	results, err := r.ProcessAll(context.Background(), []string{bad, good})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "good.json", results[0].Dataset)
}

func TestProcessAllReportsTotalFailure(t *testing.T) {
	r := New()
	_, err := r.ProcessAll(context.Background(), []string{filepath.Join(t.TempDir(), "missing.json")})
	require.Error(t, err)
}

func TestRepeatedRunsAreDeterministic(t *testing.T) {
	r := New()
	ctx := context.Background()

	first, err := r.ProcessDescriptor(ctx, "diamond", diamondDescriptor())
	require.NoError(t, err)
	second, err := r.ProcessDescriptor(ctx, "diamond", diamondDescriptor())
	require.NoError(t, err)

	require.NotEqual(t, first.RunID, second.RunID)
	require.Equal(t, first.Components, second.Components)
	require.Equal(t, first.ComponentOrder, second.ComponentOrder)
	require.Equal(t, first.ShortestDistances, second.ShortestDistances)
	require.Equal(t, first.Critical, second.Critical)
}
