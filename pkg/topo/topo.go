// Package topo produces a topological order of a directed graph using
// Kahn's algorithm, or detects that the graph is cyclic.
package topo

import (
	"github.com/urbansched/taskplan/pkg/graph"
	"github.com/urbansched/taskplan/pkg/metrics"
)

// Result is one topological-sort run. An empty Order on a non-empty graph is
// the cycle signal: callers must check before feeding the order to path
// computation. A graph with zero nodes also yields an empty order and is
// trivially acyclic; callers distinguish the two by node count.
type Result struct {
	Order    []int
	Counters metrics.Counters
}

// Sort runs Kahn's algorithm: in-degrees are computed with one scan over all
// edges, the queue is seeded with zero-in-degree nodes in id order, and nodes
// are appended to the order as they are dequeued.
func Sort(g *graph.Graph) Result {
	timer := metrics.StartTimer()
	n := g.NodeCount()
	counters := metrics.Counters{}

	inDegree := make([]int, n)
	for u := 0; u < n; u++ {
		for _, e := range g.Neighbors(u) {
			inDegree[e.Target]++
		}
	}

	queue := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if inDegree[i] == 0 {
			queue = append(queue, i)
			counters.QueuePushes++
		}
	}

	order := make([]int, 0, n)
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		counters.QueuePops++
		order = append(order, u)

		for _, e := range g.Neighbors(u) {
			inDegree[e.Target]--
			if inDegree[e.Target] == 0 {
				queue = append(queue, e.Target)
				counters.QueuePushes++
			}
		}
	}

	counters.Elapsed = timer.Stop()

	// Fewer ordered nodes than n means a cycle; signal with an empty order
	// rather than an error.
	if len(order) != n {
		return Result{Order: []int{}, Counters: counters}
	}
	return Result{Order: order, Counters: counters}
}

// IsDAG reports whether g admits a topological order. The sort is recomputed
// on every call; callers that need the order should call Sort once and keep
// the result. A zero-node graph is trivially acyclic.
func IsDAG(g *graph.Graph) bool {
	if g.NodeCount() == 0 {
		return true
	}
	return len(Sort(g).Order) > 0
}
