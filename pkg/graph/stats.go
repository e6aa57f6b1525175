package graph

import "fmt"

// Stats holds basic structural statistics for a graph.
type Stats struct {
	NodeCount int     `json:"node_count"`
	EdgeCount int     `json:"edge_count"`
	MinWeight int64   `json:"min_weight"`
	MaxWeight int64   `json:"max_weight"`
	Density   float64 `json:"density"`
}

func (s Stats) String() string {
	return fmt.Sprintf("Stats{nodes=%d, edges=%d, weight=[%d,%d], density=%.3f}",
		s.NodeCount, s.EdgeCount, s.MinWeight, s.MaxWeight, s.Density)
}

// Density returns the ratio of stored edges to the maximum possible for the
// graph's directedness. Graphs with fewer than two nodes have density 0.
func (g *Graph) Density() float64 {
	if g.n <= 1 {
		return 0
	}
	maxEdges := g.n * (g.n - 1)
	if !g.directed {
		maxEdges /= 2
	}
	return float64(g.EdgeCount()) / float64(maxEdges)
}

// HasSelfLoops reports whether any node has an edge to itself.
func (g *Graph) HasSelfLoops() bool {
	for u, edges := range g.adj {
		for _, e := range edges {
			if e.Target == u {
				return true
			}
		}
	}
	return false
}

// GetStats computes node/edge counts, the weight range, and density. With no
// edges the weight range is [0, 0].
func (g *Graph) GetStats() Stats {
	stats := Stats{
		NodeCount: g.n,
		Density:   g.Density(),
	}
	first := true
	for _, edges := range g.adj {
		stats.EdgeCount += len(edges)
		for _, e := range edges {
			if first {
				stats.MinWeight, stats.MaxWeight = e.Weight, e.Weight
				first = false
				continue
			}
			if e.Weight < stats.MinWeight {
				stats.MinWeight = e.Weight
			}
			if e.Weight > stats.MaxWeight {
				stats.MaxWeight = e.Weight
			}
		}
	}
	return stats
}
