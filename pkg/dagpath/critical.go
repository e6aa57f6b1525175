package dagpath

import (
	"fmt"

	"github.com/urbansched/taskplan/pkg/metrics"
)

// CriticalPath is the maximum-weight path from a source to its farthest
// reachable node: the minimum achievable completion span of the schedule.
type CriticalPath struct {
	Length int64 `json:"length"`
	Path   []int `json:"path"`
}

func (cp CriticalPath) String() string {
	return fmt.Sprintf("CriticalPath{length=%d, path=%v}", cp.Length, cp.Path)
}

// FindCriticalPath runs LongestPaths from source, picks the node with the
// maximum finite distance (ties broken by the lowest node id, since ids are
// scanned in ascending order), and reconstructs the path to it.
//
// When no node is strictly farther than the source — an isolated source, or
// a single-node graph — the result is a zero-length critical path with an
// empty node sequence rather than the trivial [source] path.
func (e *Engine) FindCriticalPath(source int, order []int) (CriticalPath, metrics.Counters, error) {
	dists, counters, err := e.LongestPaths(source, order)
	if err != nil {
		return CriticalPath{}, counters, err
	}

	best := -1
	var bestDist int64
	for i, d := range dists {
		if !d.Reachable {
			continue
		}
		if best == -1 || d.Value > bestDist {
			best = i
			bestDist = d.Value
		}
	}

	if best == -1 || best == source {
		return CriticalPath{Length: 0, Path: []int{}}, counters, nil
	}

	path, err := e.ReconstructPath(best)
	if err != nil {
		return CriticalPath{}, counters, err
	}
	return CriticalPath{Length: bestDist, Path: path}, counters, nil
}
