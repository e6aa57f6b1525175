package metrics

import (
	"fmt"
	"time"
)

// Counters captures the work performed by a single algorithm run: operation
// counts plus elapsed wall time. Every algorithm returns its Counters by
// value; nothing is accumulated globally, and a Counters must never be shared
// between concurrent runs.
type Counters struct {
	DFSVisits      int64 `json:"dfs_visits"`
	EdgeTraversals int64 `json:"edge_traversals"`
	QueuePushes    int64 `json:"queue_pushes"`
	QueuePops      int64 `json:"queue_pops"`
	RelaxOps       int64 `json:"relax_operations"`

	Elapsed time.Duration `json:"elapsed_ns"`
}

// ElapsedMillis returns the elapsed time in fractional milliseconds.
func (c Counters) ElapsedMillis() float64 {
	return float64(c.Elapsed.Nanoseconds()) / 1e6
}

func (c Counters) String() string {
	return fmt.Sprintf("Counters[time=%.3fms, dfsVisits=%d, edges=%d, queueOps=(push=%d, pop=%d), relax=%d]",
		c.ElapsedMillis(), c.DFSVisits, c.EdgeTraversals, c.QueuePushes, c.QueuePops, c.RelaxOps)
}

// Timer measures elapsed time for one run.
type Timer struct {
	start time.Time
}

// StartTimer begins timing.
func StartTimer() Timer {
	return Timer{start: time.Now()}
}

// Stop returns the time elapsed since StartTimer.
func (t Timer) Stop() time.Duration {
	return time.Since(t.start)
}
