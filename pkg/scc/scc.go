// Package scc computes strongly connected components of a directed graph
// using Kosaraju's two-pass algorithm and builds the condensation graph
// (one node per component, deduplicated inter-component edges).
//
// Both DFS passes are iterative with an explicit stack of (node, edge-cursor)
// frames so that graphs with thousands of nodes cannot overflow the call
// stack.
package scc

import (
	"errors"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/urbansched/taskplan/pkg/graph"
	"github.com/urbansched/taskplan/pkg/metrics"
)

// ErrUndirected is returned when the input graph was built as undirected;
// strongly connected components are only defined here for directed graphs.
var ErrUndirected = errors.New("scc requires a directed graph")

// Result holds everything one SCC run produces. The condensation graph is
// acyclic by construction as long as the component computation is correct.
type Result struct {
	// Components lists each component's node ids in second-pass visitation
	// order. Component ids are dense: Components[i] is component i.
	Components [][]int
	// ComponentID maps each node id to its component id.
	ComponentID []int
	// Condensation has one node per component and at most one edge per
	// ordered component pair. The first edge seen between two components
	// supplies the weight; later parallel edges are dropped, not merged.
	Condensation *graph.Graph
	// Counters reports the work performed by this run.
	Counters metrics.Counters
}

// frame is one level of the explicit DFS stack: a node plus a cursor into
// its adjacency list.
type frame struct {
	node   int
	cursor int
}

// Compute runs Kosaraju's algorithm over g and builds the condensation.
func Compute(g *graph.Graph) (*Result, error) {
	if !g.IsDirected() {
		return nil, ErrUndirected
	}

	timer := metrics.StartTimer()
	n := g.NodeCount()
	counters := metrics.Counters{}

	// First pass: DFS over every unvisited node in id order, pushing nodes
	// onto the finishing-order stack in post-order.
	visited := make([]bool, n)
	finish := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if !visited[i] {
			dfsFirstPass(g, i, visited, &finish, &counters)
		}
	}

	transposed := g.Transpose()

	// Second pass: pop the finishing-order stack; every unvisited node seeds
	// one component on the transposed graph.
	for i := range visited {
		visited[i] = false
	}
	componentID := make([]int, n)
	for i := range componentID {
		componentID[i] = -1
	}
	components := make([][]int, 0)
	for i := len(finish) - 1; i >= 0; i-- {
		node := finish[i]
		if visited[node] {
			continue
		}
		compID := len(components)
		component := dfsSecondPass(transposed, node, compID, visited, componentID, &counters)
		components = append(components, component)
	}

	condensation, err := condense(g, components, componentID)
	if err != nil {
		return nil, err
	}

	counters.Elapsed = timer.Stop()
	return &Result{
		Components:   components,
		ComponentID:  componentID,
		Condensation: condensation,
		Counters:     counters,
	}, nil
}

// dfsFirstPass explores from root and appends nodes to finish in post-order.
func dfsFirstPass(g *graph.Graph, root int, visited []bool, finish *[]int, c *metrics.Counters) {
	stack := []frame{{node: root}}
	visited[root] = true
	c.DFSVisits++

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		edges := g.Neighbors(top.node)
		if top.cursor < len(edges) {
			target := edges[top.cursor].Target
			top.cursor++
			c.EdgeTraversals++
			if !visited[target] {
				visited[target] = true
				c.DFSVisits++
				stack = append(stack, frame{node: target})
			}
			continue
		}
		// All edges explored: the node is finished.
		*finish = append(*finish, top.node)
		stack = stack[:len(stack)-1]
	}
}

// dfsSecondPass explores the transposed graph from root and returns the
// component's nodes in visitation order.
func dfsSecondPass(t *graph.Graph, root, compID int, visited []bool, componentID []int, c *metrics.Counters) []int {
	component := []int{root}
	visited[root] = true
	componentID[root] = compID
	c.DFSVisits++

	stack := []frame{{node: root}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		edges := t.Neighbors(top.node)
		if top.cursor < len(edges) {
			target := edges[top.cursor].Target
			top.cursor++
			c.EdgeTraversals++
			if !visited[target] {
				visited[target] = true
				componentID[target] = compID
				component = append(component, target)
				c.DFSVisits++
				stack = append(stack, frame{node: target})
			}
			continue
		}
		stack = stack[:len(stack)-1]
	}
	return component
}

// condense collapses each component to one node. For every original edge
// crossing components, exactly one condensation edge is added per ordered
// component pair; the first occurrence wins.
func condense(g *graph.Graph, components [][]int, componentID []int) (*graph.Graph, error) {
	condensation := graph.New(len(components), true)
	for uComp, nodes := range components {
		targets := mapset.NewThreadUnsafeSet[int]()
		for _, u := range nodes {
			for _, e := range g.Neighbors(u) {
				vComp := componentID[e.Target]
				if vComp == uComp || targets.Contains(vComp) {
					continue
				}
				if err := condensation.AddEdge(uComp, vComp, e.Weight); err != nil {
					return nil, err
				}
				targets.Add(vComp)
			}
		}
	}
	return condensation, nil
}
