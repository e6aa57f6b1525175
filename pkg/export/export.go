// Package export writes finished analysis results to disk as indented JSON
// and as CSV summaries, under <dir>/json and <dir>/csv.
package export

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/urbansched/taskplan/pkg/dagpath"
	"github.com/urbansched/taskplan/pkg/runner"
)

// Exporter writes results below a base directory.
type Exporter struct {
	baseDir string
}

var _ runner.Exporter = (*Exporter)(nil)

// New creates the json/ and csv/ subdirectories under baseDir.
func New(baseDir string) (*Exporter, error) {
	for _, sub := range []string{"json", "csv"} {
		if err := os.MkdirAll(filepath.Join(baseDir, sub), 0o755); err != nil {
			return nil, fmt.Errorf("creating export dir: %w", err)
		}
	}
	return &Exporter{baseDir: baseDir}, nil
}

// ExportGraphResult writes the full JSON result and the CSV summaries for
// one run.
func (e *Exporter) ExportGraphResult(ctx context.Context, res *runner.GraphResult) error {
	base := baseName(res.Dataset)

	if err := e.exportJSON(res, base); err != nil {
		return err
	}
	if err := e.exportSCCJSON(res, base); err != nil {
		return err
	}
	if err := e.exportComponentsCSV(res, base); err != nil {
		return err
	}
	if err := e.exportSummaryCSV(res, base); err != nil {
		return err
	}

	ctxzap.Extract(ctx).Info("results exported",
		zap.String("dataset", res.Dataset),
		zap.String("dir", e.baseDir),
	)
	return nil
}

func (e *Exporter) exportJSON(res *runner.GraphResult, base string) error {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	path := filepath.Join(e.baseDir, "json", base+"_full.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// exportSCCJSON writes just the component structure, for consumers that only
// care about the decomposition.
func (e *Exporter) exportSCCJSON(res *runner.GraphResult, base string) error {
	scc := struct {
		RunID          string  `json:"run_id"`
		Dataset        string  `json:"dataset"`
		Components     [][]int `json:"components"`
		ComponentID    []int   `json:"component_id"`
		CycleCount     int     `json:"cycle_components"`
		ComponentOrder []int   `json:"component_order"`
	}{
		RunID:          res.RunID,
		Dataset:        res.Dataset,
		Components:     res.Components,
		ComponentID:    res.ComponentID,
		CycleCount:     res.CycleComponentCount(),
		ComponentOrder: res.ComponentOrder,
	}
	data, err := json.MarshalIndent(scc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding scc result: %w", err)
	}
	path := filepath.Join(e.baseDir, "json", base+"_scc.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// exportComponentsCSV writes one row per component: id, size, node list.
func (e *Exporter) exportComponentsCSV(res *runner.GraphResult, base string) error {
	path := filepath.Join(e.baseDir, "csv", base+"_components.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"component_id", "size", "nodes", "shortest_distance", "longest_distance"}); err != nil {
		return err
	}
	for i, comp := range res.Components {
		row := []string{
			strconv.Itoa(i),
			strconv.Itoa(len(comp)),
			joinInts(comp, " "),
			distanceCell(res.ShortestDistances, i),
			distanceCell(res.LongestDistances, i),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// exportSummaryCSV writes a single row with the run's headline numbers.
func (e *Exporter) exportSummaryCSV(res *runner.GraphResult, base string) error {
	path := filepath.Join(e.baseDir, "csv", base+"_summary.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{
		"run_id", "dataset", "nodes", "edges", "components", "cycle_components",
		"is_dag", "critical_path_length", "critical_path",
		"scc_ms", "topo_ms", "shortest_ms", "longest_ms", "total_ms",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	row := []string{
		res.RunID,
		res.Dataset,
		strconv.Itoa(res.NodeCount),
		strconv.Itoa(res.EdgeCount),
		strconv.Itoa(len(res.Components)),
		strconv.Itoa(res.CycleComponentCount()),
		strconv.FormatBool(res.IsDAG),
		strconv.FormatInt(res.Critical.Length, 10),
		joinInts(res.Critical.Path, " "),
		formatMillis(res.SCCCounters.ElapsedMillis()),
		formatMillis(res.TopoCounters.ElapsedMillis()),
		formatMillis(res.ShortestCounters.ElapsedMillis()),
		formatMillis(res.LongestCounters.ElapsedMillis()),
		formatMillis(float64(res.TotalElapsed.Nanoseconds()) / 1e6),
	}
	if err := w.Write(row); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func baseName(dataset string) string {
	base := filepath.Base(dataset)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func joinInts(values []int, sep string) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, sep)
}

func distanceCell(dists []dagpath.Distance, i int) string {
	if i >= len(dists) {
		return ""
	}
	return dists[i].String()
}

func formatMillis(ms float64) string {
	return strconv.FormatFloat(ms, 'f', 3, 64)
}
