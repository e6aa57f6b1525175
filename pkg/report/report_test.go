package report

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/urbansched/taskplan/pkg/loader"
	"github.com/urbansched/taskplan/pkg/runner"
)

func process(t *testing.T, d *loader.Descriptor) *runner.GraphResult {
	t.Helper()
	res, err := runner.New().ProcessDescriptor(context.Background(), "report-test", d)
	require.NoError(t, err)
	return res
}

func TestWriteGraphReport(t *testing.T) {
	res := process(t, &loader.Descriptor{
		N:        4,
		Directed: true,
		Source:   0,
		Edges: []loader.EdgeSpec{
			{U: 0, V: 1, W: 1},
			{U: 1, V: 2, W: 1},
			{U: 2, V: 0, W: 1},
			{U: 2, V: 3, W: 4},
		},
	})

	var buf bytes.Buffer
	New(&buf).WriteGraphReport(res)
	out := buf.String()

	require.Contains(t, out, "PROCESSING: report-test")
	require.Contains(t, out, "Strongly connected components: 2")
	require.Contains(t, out, "cycle components: 1, single-node components: 1")
	require.Contains(t, out, "Scheduling order:")
	require.Contains(t, out, "Critical path analysis:")
	require.Contains(t, out, "length: 4 units")
}

func TestWriteGraphReportEmptyGraph(t *testing.T) {
	res := process(t, &loader.Descriptor{N: 0, Directed: true})

	var buf bytes.Buffer
	New(&buf).WriteGraphReport(res)
	out := buf.String()

	require.Contains(t, out, "nodes: 0")
	// No distance sections when nothing was computed.
	require.NotContains(t, out, "Shortest paths")
	require.NotContains(t, out, "Critical path analysis")
}

func TestWritePerformanceReport(t *testing.T) {
	res := process(t, &loader.Descriptor{
		N:        2,
		Directed: true,
		Source:   0,
		Edges:    []loader.EdgeSpec{{U: 0, V: 1, W: 2}},
	})

	var buf bytes.Buffer
	New(&buf).WritePerformanceReport([]*runner.GraphResult{res})
	out := buf.String()

	require.Contains(t, out, "PERFORMANCE ANALYSIS REPORT")
	require.Contains(t, out, "Graph: report-test")
	require.Contains(t, out, "size: 2 nodes, 1 edges")
	require.Contains(t, out, "DAG")
}
