// Package dagpath computes single-source shortest and longest path distances
// over a topologically ordered DAG, and reconstructs paths from recorded
// predecessor links. The expected input is a condensation graph together
// with its topological order.
package dagpath

import (
	"errors"
	"fmt"

	"github.com/urbansched/taskplan/pkg/graph"
	"github.com/urbansched/taskplan/pkg/metrics"
)

var (
	// ErrInvalidOrder is returned when the supplied topological order does
	// not cover the graph (length mismatch, typically a cyclic graph's empty
	// order) or does not contain the source.
	ErrInvalidOrder = errors.New("invalid topological order")
	// ErrNotComputed is returned by ReconstructPath before any path
	// computation has run.
	ErrNotComputed = errors.New("no path computation has run")
)

// Engine runs path computations over one graph. It keeps the distance and
// predecessor arrays of the most recent run for path reconstruction; each
// run allocates fresh arrays, so results never leak between runs.
//
// An Engine is not safe for concurrent use.
type Engine struct {
	g        *graph.Graph
	dist     []Distance
	prev     []int
	computed bool
}

// New returns an Engine over g. The graph must not be mutated afterwards.
func New(g *graph.Graph) *Engine {
	return &Engine{g: g}
}

// ShortestPaths computes shortest distances from source to every node, using
// the supplied topological order. Nodes at earlier topological positions than
// the source are never visited. The returned slice is a copy.
func (e *Engine) ShortestPaths(source int, order []int) ([]Distance, metrics.Counters, error) {
	return e.compute(source, order, false)
}

// LongestPaths is the symmetric longest-distance variant.
func (e *Engine) LongestPaths(source int, order []int) ([]Distance, metrics.Counters, error) {
	return e.compute(source, order, true)
}

func (e *Engine) compute(source int, order []int, longest bool) ([]Distance, metrics.Counters, error) {
	n := e.g.NodeCount()
	counters := metrics.Counters{}

	if source < 0 || source >= n {
		return nil, counters, fmt.Errorf("source node %d is out of range [0, %d): %w", source, n, graph.ErrNodeOutOfRange)
	}
	if len(order) != n {
		return nil, counters, fmt.Errorf("order covers %d of %d nodes (graph may contain cycles): %w", len(order), n, ErrInvalidOrder)
	}
	sourceIdx := -1
	for i, node := range order {
		if node == source {
			sourceIdx = i
			break
		}
	}
	if sourceIdx == -1 {
		return nil, counters, fmt.Errorf("source node %d not present in order: %w", source, ErrInvalidOrder)
	}

	timer := metrics.StartTimer()

	dist := make([]Distance, n)
	prev := make([]int, n)
	for i := range prev {
		prev[i] = -1
	}
	dist[source] = Reached(0)

	for i := sourceIdx; i < len(order); i++ {
		u := order[i]
		if !dist[u].Reachable {
			continue
		}
		for _, edge := range e.g.Neighbors(u) {
			counters.RelaxOps++
			candidate := dist[u].Value + edge.Weight
			d := dist[edge.Target]
			improved := !d.Reachable
			if !improved {
				if longest {
					improved = candidate > d.Value
				} else {
					improved = candidate < d.Value
				}
			}
			if improved {
				dist[edge.Target] = Reached(candidate)
				prev[edge.Target] = u
			}
		}
	}

	counters.Elapsed = timer.Stop()

	e.dist = dist
	e.prev = prev
	e.computed = true

	out := make([]Distance, n)
	copy(out, dist)
	return out, counters, nil
}

// Distances returns a copy of the distance array from the most recent
// computation.
func (e *Engine) Distances() ([]Distance, error) {
	if !e.computed {
		return nil, ErrNotComputed
	}
	out := make([]Distance, len(e.dist))
	copy(out, e.dist)
	return out, nil
}

// ReconstructPath walks predecessor links from target back to the source of
// the most recent computation and returns the node sequence source→target.
// An unreachable target yields an empty path.
func (e *Engine) ReconstructPath(target int) ([]int, error) {
	if !e.computed {
		return nil, ErrNotComputed
	}
	if target < 0 || target >= e.g.NodeCount() {
		return nil, fmt.Errorf("target node %d is out of range [0, %d): %w", target, e.g.NodeCount(), graph.ErrNodeOutOfRange)
	}
	if !e.dist[target].Reachable {
		return []int{}, nil
	}

	path := make([]int, 0, 8)
	for at := target; at != -1; at = e.prev[at] {
		path = append(path, at)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, nil
}
