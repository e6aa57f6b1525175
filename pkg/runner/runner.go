// Package runner drives the full analysis pipeline for task graphs: load →
// validate → SCC condensation → topological order → shortest/longest paths →
// critical path. It owns no file formats itself; exporters and stores are
// plugged in as interfaces.
package runner

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/segmentio/ksuid"
	"go.uber.org/zap"

	"github.com/urbansched/taskplan/pkg/dagpath"
	"github.com/urbansched/taskplan/pkg/graph"
	"github.com/urbansched/taskplan/pkg/loader"
	"github.com/urbansched/taskplan/pkg/metrics"
	"github.com/urbansched/taskplan/pkg/scc"
	"github.com/urbansched/taskplan/pkg/topo"
)

// ErrCyclicCondensation is returned if the condensation graph fails its
// topological sort. A correct SCC computation makes this impossible; it is a
// regression guard, not an expected input condition.
var ErrCyclicCondensation = errors.New("condensation graph is cyclic")

// Exporter persists a finished result to some external format.
type Exporter interface {
	ExportGraphResult(ctx context.Context, res *GraphResult) error
}

// Store records finished results for later listing.
type Store interface {
	PutRun(ctx context.Context, res *GraphResult) error
}

// Runner executes the pipeline. All hooks are optional.
type Runner struct {
	handler    metrics.Handler
	exporter   Exporter
	store      Store
	sourceNode *int // overrides the descriptor's source when set

	results []*GraphResult
}

// Option configures a Runner.
type Option func(*Runner)

// WithMetricsHandler publishes each phase's counters through h.
func WithMetricsHandler(h metrics.Handler) Option {
	return func(r *Runner) { r.handler = h }
}

// WithExporter exports every finished result.
func WithExporter(e Exporter) Option {
	return func(r *Runner) { r.exporter = e }
}

// WithStore records every finished result.
func WithStore(s Store) Option {
	return func(r *Runner) { r.store = s }
}

// WithSourceNode overrides the descriptor's designated source node.
func WithSourceNode(node int) Option {
	return func(r *Runner) { r.sourceNode = &node }
}

// New returns a Runner with the given options applied.
func New(opts ...Option) *Runner {
	r := &Runner{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Results returns every result processed by this runner, in order.
func (r *Runner) Results() []*GraphResult {
	return r.results
}

// ProcessFile loads one descriptor file and runs the pipeline on it.
func (r *Runner) ProcessFile(ctx context.Context, path string) (*GraphResult, error) {
	d, err := loader.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return r.ProcessDescriptor(ctx, filepath.Base(path), d)
}

// ProcessAll runs the pipeline over every file. A failure aborts only the
// failing graph: it is logged and the loop moves on, mirroring the fact that
// these are deterministic per-dataset logic errors with no retry value.
// The returned error is non-nil if every file failed.
func (r *Runner) ProcessAll(ctx context.Context, paths []string) ([]*GraphResult, error) {
	l := ctxzap.Extract(ctx)

	processed := make([]*GraphResult, 0, len(paths))
	failures := 0
	for _, path := range paths {
		res, err := r.ProcessFile(ctx, path)
		if err != nil {
			failures++
			l.Error("failed to process graph", zap.String("path", path), zap.Error(err))
			continue
		}
		processed = append(processed, res)
	}

	if failures > 0 && len(processed) == 0 {
		return nil, fmt.Errorf("all %d graph(s) failed to process", failures)
	}
	return processed, nil
}

// ProcessDescriptor runs the full pipeline on one descriptor.
func (r *Runner) ProcessDescriptor(ctx context.Context, name string, d *loader.Descriptor) (*GraphResult, error) {
	l := ctxzap.Extract(ctx)

	g, err := loader.Build(d)
	if err != nil {
		return nil, err
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}

	res := &GraphResult{
		RunID:      ksuid.New().String(),
		Dataset:    name,
		NodeCount:  g.NodeCount(),
		EdgeCount:  g.EdgeCount(),
		Directed:   g.IsDirected(),
		SourceNode: d.Source,
		Stats:      g.GetStats(),
	}
	if r.sourceNode != nil {
		res.SourceNode = *r.sourceNode
	}

	l.Info("processing graph",
		zap.String("run_id", res.RunID),
		zap.String("dataset", name),
		zap.Int("nodes", res.NodeCount),
		zap.Int("edges", res.EdgeCount),
	)

	// Empty graphs are trivially acyclic: no components, no order, no paths.
	if g.NodeCount() == 0 {
		res.Components = [][]int{}
		res.ComponentID = []int{}
		res.ComponentOrder = []int{}
		res.TaskOrder = []int{}
		res.IsDAG = true
		return r.finish(ctx, res)
	}

	if res.SourceNode < 0 || res.SourceNode >= g.NodeCount() {
		return nil, fmt.Errorf("source node %d is out of range [0, %d): %w",
			res.SourceNode, g.NodeCount(), graph.ErrNodeOutOfRange)
	}

	sccRes, err := scc.Compute(g)
	if err != nil {
		return nil, err
	}
	res.Components = sccRes.Components
	res.ComponentID = sccRes.ComponentID
	res.CondensationNodes = sccRes.Condensation.NodeCount()
	res.CondensationEdges = sccRes.Condensation.EdgeCount()
	res.SCCCounters = sccRes.Counters
	metrics.Publish(ctx, r.handler, sccRes.Counters)

	l.Debug("scc computed",
		zap.String("run_id", res.RunID),
		zap.Int("components", len(res.Components)),
		zap.String("counters", sccRes.Counters.String()),
	)

	topoRes := topo.Sort(sccRes.Condensation)
	res.TopoCounters = topoRes.Counters
	metrics.Publish(ctx, r.handler, topoRes.Counters)
	if len(topoRes.Order) == 0 {
		return nil, ErrCyclicCondensation
	}
	res.IsDAG = true
	res.ComponentOrder = topoRes.Order
	res.TaskOrder = flattenComponents(res.Components, topoRes.Order)

	res.SourceComponent = sccRes.ComponentID[res.SourceNode]

	engine := dagpath.New(sccRes.Condensation)

	shortest, shortestCounters, err := engine.ShortestPaths(res.SourceComponent, topoRes.Order)
	if err != nil {
		return nil, err
	}
	res.ShortestDistances = shortest
	res.ShortestCounters = shortestCounters
	metrics.Publish(ctx, r.handler, shortestCounters)

	critical, longestCounters, err := engine.FindCriticalPath(res.SourceComponent, topoRes.Order)
	if err != nil {
		return nil, err
	}
	longest, err := engine.Distances()
	if err != nil {
		return nil, err
	}
	res.LongestDistances = longest
	res.LongestCounters = longestCounters
	res.Critical = critical
	res.CriticalTasks = flattenComponents(res.Components, critical.Path)
	metrics.Publish(ctx, r.handler, longestCounters)

	l.Info("graph processed",
		zap.String("run_id", res.RunID),
		zap.Bool("is_dag", res.IsDAG),
		zap.Int64("critical_path_length", res.Critical.Length),
	)

	return r.finish(ctx, res)
}

func (r *Runner) finish(ctx context.Context, res *GraphResult) (*GraphResult, error) {
	res.TotalElapsed = res.SCCCounters.Elapsed +
		res.TopoCounters.Elapsed +
		res.ShortestCounters.Elapsed +
		res.LongestCounters.Elapsed

	if r.exporter != nil {
		if err := r.exporter.ExportGraphResult(ctx, res); err != nil {
			return nil, fmt.Errorf("exporting %s: %w", res.Dataset, err)
		}
	}
	if r.store != nil {
		if err := r.store.PutRun(ctx, res); err != nil {
			return nil, fmt.Errorf("storing %s: %w", res.Dataset, err)
		}
	}

	r.results = append(r.results, res)
	return res, nil
}

// flattenComponents expands a sequence of component ids into the node ids of
// those components, preserving both orders.
func flattenComponents(components [][]int, order []int) []int {
	tasks := make([]int, 0)
	for _, compID := range order {
		tasks = append(tasks, components[compID]...)
	}
	return tasks
}
