package graph

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNodeOutOfRange is returned when an edge endpoint or query refers to
	// a node id outside [0, n).
	ErrNodeOutOfRange = errors.New("node out of range")
)

// Edge is a directed, weighted edge. Only the target is stored; the source
// is implied by the adjacency list the edge lives in.
type Edge struct {
	Target int   `json:"target"`
	Weight int64 `json:"weight"`
}

// Graph is a directed graph over dense integer node ids [0, n) with weighted
// edges. Nodes carry no payload; callers map ids to task metadata themselves.
//
// Construction is append-only: edges are added with AddEdge and the graph is
// treated as frozen once any algorithm starts reading it. Parallel edges
// between the same ordered pair are allowed.
type Graph struct {
	n        int
	directed bool
	adj      [][]Edge
}

// New returns an empty graph with n nodes.
func New(n int, directed bool) *Graph {
	return &Graph{
		n:        n,
		directed: directed,
		adj:      make([][]Edge, n),
	}
}

// AddEdge appends a directed edge from u to v with the given weight. Both
// endpoints must be in [0, n); out-of-range ids are an error, never clamped
// or dropped.
func (g *Graph) AddEdge(u, v int, w int64) error {
	if err := g.validateNode(u); err != nil {
		return err
	}
	if err := g.validateNode(v); err != nil {
		return err
	}
	g.adj[u] = append(g.adj[u], Edge{Target: v, Weight: w})
	return nil
}

// Neighbors returns the outgoing edges of node in insertion order. The order
// is load-bearing: it determines DFS exploration order and therefore SCC and
// topological tie-breaking. The returned slice is owned by the graph and must
// not be mutated.
func (g *Graph) Neighbors(node int) []Edge {
	if node < 0 || node >= g.n {
		return nil
	}
	return g.adj[node]
}

// NodeCount returns n.
func (g *Graph) NodeCount() int {
	return g.n
}

// IsDirected reports whether the graph was constructed as directed.
func (g *Graph) IsDirected() bool {
	return g.directed
}

// EdgeCount returns the total number of edges.
func (g *Graph) EdgeCount() int {
	total := 0
	for _, edges := range g.adj {
		total += len(edges)
	}
	return total
}

// Transpose returns a new graph with every edge reversed, weights preserved.
func (g *Graph) Transpose() *Graph {
	t := New(g.n, true)
	for u, edges := range g.adj {
		for _, e := range edges {
			t.adj[e.Target] = append(t.adj[e.Target], Edge{Target: u, Weight: e.Weight})
		}
	}
	return t
}

// Validate re-checks every stored edge endpoint. AddEdge already rejects
// out-of-range endpoints, so this only fails if the graph was built by
// bypassing AddEdge.
func (g *Graph) Validate() error {
	for u, edges := range g.adj {
		for _, e := range edges {
			if e.Target < 0 || e.Target >= g.n {
				return fmt.Errorf("node %d has edge to invalid node %d: %w", u, e.Target, ErrNodeOutOfRange)
			}
		}
	}
	return nil
}

func (g *Graph) validateNode(node int) error {
	if node < 0 || node >= g.n {
		return fmt.Errorf("node %d is out of range [0, %d): %w", node, g.n, ErrNodeOutOfRange)
	}
	return nil
}

// String renders the adjacency lists line by line. Useful for debugging.
func (g *Graph) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Graph(n=%d, directed=%v)\n", g.n, g.directed)
	for u, edges := range g.adj {
		fmt.Fprintf(&sb, "%d:", u)
		for _, e := range edges {
			fmt.Fprintf(&sb, " ->%d(%d)", e.Target, e.Weight)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
