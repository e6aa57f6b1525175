package metrics

import (
	"context"
)

// Handler publishes named instruments to some metrics backend. Implementations
// must be safe for concurrent use; the algorithm packages never touch a
// Handler, only the runner does, after a run completes.
type Handler interface {
	Int64Counter(name string, description string, unit Unit) Int64Counter
	Int64Gauge(name string, description string, unit Unit) Int64Gauge
	Int64Histogram(name string, description string, unit Unit) Int64Histogram
}

type Int64Counter interface {
	Add(ctx context.Context, value int64)
}

type Int64Histogram interface {
	Record(ctx context.Context, value int64)
}

type Int64Gauge interface {
	Observe(ctx context.Context, value int64)
}

type Unit string

const (
	Dimensionless Unit = "1"
	Bytes         Unit = "By"
	Milliseconds  Unit = "ms"
)

const (
	dfsVisitsName      = "taskplan.dfs_visits"
	edgeTraversalsName = "taskplan.edge_traversals"
	queuePushesName    = "taskplan.queue_pushes"
	queuePopsName      = "taskplan.queue_pops"
	relaxOpsName       = "taskplan.relax_operations"
	phaseDurationName  = "taskplan.phase_duration"

	dfsVisitsDesc      = "number of DFS node visits by phase"
	edgeTraversalsDesc = "number of edges examined by phase"
	queuePushesDesc    = "number of queue pushes by phase"
	queuePopsDesc      = "number of queue pops by phase"
	relaxOpsDesc       = "number of relaxation operations by phase"
	phaseDurationDesc  = "duration of an algorithm phase"
)

// Publish records one run's Counters through the handler. Zero-valued
// counters are skipped so that a topological-sort run does not emit DFS
// instruments and vice versa.
func Publish(ctx context.Context, h Handler, c Counters) {
	if h == nil {
		return
	}
	if c.DFSVisits > 0 {
		h.Int64Counter(dfsVisitsName, dfsVisitsDesc, Dimensionless).Add(ctx, c.DFSVisits)
	}
	if c.EdgeTraversals > 0 {
		h.Int64Counter(edgeTraversalsName, edgeTraversalsDesc, Dimensionless).Add(ctx, c.EdgeTraversals)
	}
	if c.QueuePushes > 0 {
		h.Int64Counter(queuePushesName, queuePushesDesc, Dimensionless).Add(ctx, c.QueuePushes)
	}
	if c.QueuePops > 0 {
		h.Int64Counter(queuePopsName, queuePopsDesc, Dimensionless).Add(ctx, c.QueuePops)
	}
	if c.RelaxOps > 0 {
		h.Int64Counter(relaxOpsName, relaxOpsDesc, Dimensionless).Add(ctx, c.RelaxOps)
	}
	h.Int64Histogram(phaseDurationName, phaseDurationDesc, Milliseconds).Record(ctx, c.Elapsed.Milliseconds())
}
