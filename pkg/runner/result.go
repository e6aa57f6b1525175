package runner

import (
	"time"

	"github.com/urbansched/taskplan/pkg/dagpath"
	"github.com/urbansched/taskplan/pkg/graph"
	"github.com/urbansched/taskplan/pkg/metrics"
)

// GraphResult is everything one pipeline run produces for one graph. It is
// the unit handed to exporters, stores, and reporters.
type GraphResult struct {
	RunID   string `json:"run_id"`
	Dataset string `json:"dataset"`

	NodeCount  int         `json:"node_count"`
	EdgeCount  int         `json:"edge_count"`
	Directed   bool        `json:"directed"`
	SourceNode int         `json:"source_node"`
	Stats      graph.Stats `json:"stats"`

	Components        [][]int `json:"components"`
	ComponentID       []int   `json:"component_id"`
	CondensationNodes int     `json:"condensation_nodes"`
	CondensationEdges int     `json:"condensation_edges"`
	SourceComponent   int     `json:"source_component"`

	IsDAG          bool  `json:"is_dag"`
	ComponentOrder []int `json:"component_order"`
	TaskOrder      []int `json:"task_order"`

	ShortestDistances []dagpath.Distance   `json:"shortest_distances"`
	LongestDistances  []dagpath.Distance   `json:"longest_distances"`
	Critical          dagpath.CriticalPath `json:"critical_path"`
	CriticalTasks     []int                `json:"critical_tasks"`

	SCCCounters      metrics.Counters `json:"scc_counters"`
	TopoCounters     metrics.Counters `json:"topo_counters"`
	ShortestCounters metrics.Counters `json:"shortest_counters"`
	LongestCounters  metrics.Counters `json:"longest_counters"`

	TotalElapsed time.Duration `json:"total_elapsed_ns"`
}

// CycleComponentCount returns how many components contain more than one node.
func (r *GraphResult) CycleComponentCount() int {
	count := 0
	for _, c := range r.Components {
		if len(c) > 1 {
			count++
		}
	}
	return count
}
