// Package report renders human-readable analysis reports to an io.Writer.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/urbansched/taskplan/pkg/runner"
)

// Writer renders reports for finished runs.
type Writer struct {
	out io.Writer
}

// New returns a report writer targeting out.
func New(out io.Writer) *Writer {
	return &Writer{out: out}
}

// WriteGraphReport renders the full per-graph report: summary, components,
// scheduling order, distances, and critical path.
func (w *Writer) WriteGraphReport(res *runner.GraphResult) {
	fmt.Fprintf(w.out, "\n%s\n", strings.Repeat("=", 60))
	fmt.Fprintf(w.out, "PROCESSING: %s (run %s)\n", res.Dataset, res.RunID)
	fmt.Fprintf(w.out, "%s\n", strings.Repeat("=", 60))

	w.writeSummary(res)
	w.writeComponents(res)
	w.writeSchedule(res)
	w.writeDistances(res)
	w.writeCriticalPath(res)
}

func (w *Writer) writeSummary(res *runner.GraphResult) {
	fmt.Fprintf(w.out, "Graph summary:\n")
	fmt.Fprintf(w.out, "  nodes: %d\n", res.NodeCount)
	fmt.Fprintf(w.out, "  edges: %d\n", res.EdgeCount)
	fmt.Fprintf(w.out, "  density: %.3f\n", res.Stats.Density)
	fmt.Fprintf(w.out, "  weight range: [%d, %d]\n", res.Stats.MinWeight, res.Stats.MaxWeight)
	fmt.Fprintf(w.out, "  directed: %v\n", res.Directed)
	fmt.Fprintf(w.out, "  source node: %d\n", res.SourceNode)
}

func (w *Writer) writeComponents(res *runner.GraphResult) {
	fmt.Fprintf(w.out, "\nStrongly connected components: %d\n", len(res.Components))
	for i, comp := range res.Components {
		kind := "single"
		if len(comp) > 1 {
			kind = "cycle"
		}
		fmt.Fprintf(w.out, "  component %d (%s): %v [size: %d]\n", i, kind, comp, len(comp))
	}
	fmt.Fprintf(w.out, "  cycle components: %d, single-node components: %d\n",
		res.CycleComponentCount(), len(res.Components)-res.CycleComponentCount())
	fmt.Fprintf(w.out, "  %s\n", res.SCCCounters)
}

func (w *Writer) writeSchedule(res *runner.GraphResult) {
	if !res.IsDAG {
		fmt.Fprintf(w.out, "\nGraph contains cycles - cannot compute topological order\n")
		return
	}
	fmt.Fprintf(w.out, "\nScheduling order:\n")
	fmt.Fprintf(w.out, "  component order: %v\n", res.ComponentOrder)
	fmt.Fprintf(w.out, "  task execution order: %v\n", res.TaskOrder)
	fmt.Fprintf(w.out, "  %d components, %d total tasks\n", len(res.ComponentOrder), len(res.TaskOrder))
	fmt.Fprintf(w.out, "  %s\n", res.TopoCounters)
}

func (w *Writer) writeDistances(res *runner.GraphResult) {
	if len(res.ShortestDistances) == 0 {
		return
	}
	fmt.Fprintf(w.out, "\nShortest paths from component %d:\n", res.SourceComponent)
	for i, d := range res.ShortestDistances {
		if d.Reachable {
			fmt.Fprintf(w.out, "  -> component %d %v: %d units\n", i, res.Components[i], d.Value)
		} else {
			fmt.Fprintf(w.out, "  -> component %d %v: unreachable\n", i, res.Components[i])
		}
	}
	fmt.Fprintf(w.out, "  %s\n", res.ShortestCounters)
}

func (w *Writer) writeCriticalPath(res *runner.GraphResult) {
	if len(res.LongestDistances) == 0 {
		return
	}
	fmt.Fprintf(w.out, "\nCritical path analysis:\n")
	fmt.Fprintf(w.out, "  length: %d units\n", res.Critical.Length)
	fmt.Fprintf(w.out, "  component path: %v\n", res.Critical.Path)
	fmt.Fprintf(w.out, "  task sequence: %v\n", res.CriticalTasks)
	fmt.Fprintf(w.out, "  this path bounds the minimum achievable completion span\n")
	fmt.Fprintf(w.out, "  %s\n", res.LongestCounters)
}

// WritePerformanceReport renders a cross-run comparison of phase timings.
func (w *Writer) WritePerformanceReport(results []*runner.GraphResult) {
	fmt.Fprintf(w.out, "\n%s\n", strings.Repeat("=", 30))
	fmt.Fprintf(w.out, "PERFORMANCE ANALYSIS REPORT\n")
	fmt.Fprintf(w.out, "%s\n", strings.Repeat("=", 30))

	for _, res := range results {
		fmt.Fprintf(w.out, "\nGraph: %s\n", res.Dataset)
		fmt.Fprintf(w.out, "  size: %d nodes, %d edges\n", res.NodeCount, res.EdgeCount)
		fmt.Fprintf(w.out, "  scc: %.3fms, %d components\n", res.SCCCounters.ElapsedMillis(), len(res.Components))
		kind := "Cyclic"
		if res.IsDAG {
			kind = "DAG"
		}
		fmt.Fprintf(w.out, "  topo: %.3fms, %s\n", res.TopoCounters.ElapsedMillis(), kind)
		if res.IsDAG {
			fmt.Fprintf(w.out, "  paths: %.3fms\n",
				res.ShortestCounters.ElapsedMillis()+res.LongestCounters.ElapsedMillis())
		}
		fmt.Fprintf(w.out, "  total: %.3fms\n", float64(res.TotalElapsed.Nanoseconds())/1e6)
	}
}
