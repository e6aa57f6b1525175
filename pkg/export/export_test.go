package export

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/urbansched/taskplan/pkg/loader"
	"github.com/urbansched/taskplan/pkg/runner"
)

func runDiamond(t *testing.T) *runner.GraphResult {
	t.Helper()
	d := &loader.Descriptor{
		N:        4,
		Directed: true,
		Source:   0,
		Edges: []loader.EdgeSpec{
			{U: 0, V: 1, W: 5},
			{U: 0, V: 2, W: 3},
			{U: 1, V: 3, W: 2},
			{U: 2, V: 3, W: 1},
		},
	}
	res, err := runner.New().ProcessDescriptor(context.Background(), "diamond.json", d)
	require.NoError(t, err)
	return res
}

func TestExportWritesAllArtifacts(t *testing.T) {
	dir := t.TempDir()
	e, err := New(dir)
	require.NoError(t, err)

	res := runDiamond(t)
	require.NoError(t, e.ExportGraphResult(context.Background(), res))

	// Full JSON round-trips back into a result.
	data, err := os.ReadFile(filepath.Join(dir, "json", "diamond_full.json"))
	require.NoError(t, err)
	var decoded runner.GraphResult
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, res.RunID, decoded.RunID)
	require.Equal(t, res.Critical, decoded.Critical)

	// SCC-only JSON carries just the decomposition.
	sccData, err := os.ReadFile(filepath.Join(dir, "json", "diamond_scc.json"))
	require.NoError(t, err)
	var scc struct {
		RunID      string  `json:"run_id"`
		Components [][]int `json:"components"`
	}
	require.NoError(t, json.Unmarshal(sccData, &scc))
	require.Equal(t, res.RunID, scc.RunID)
	require.Equal(t, res.Components, scc.Components)

	// Components CSV: header plus one row per component.
	f, err := os.Open(filepath.Join(dir, "csv", "diamond_components.csv"))
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1+len(res.Components))
	require.Equal(t, []string{"component_id", "size", "nodes", "shortest_distance", "longest_distance"}, rows[0])
	require.Equal(t, "0", rows[1][0])
	require.Equal(t, "1", rows[1][1])

	// Summary CSV: header plus exactly one row.
	sf, err := os.Open(filepath.Join(dir, "csv", "diamond_summary.csv"))
	require.NoError(t, err)
	defer sf.Close()
	summary, err := csv.NewReader(sf).ReadAll()
	require.NoError(t, err)
	require.Len(t, summary, 2)
	require.Equal(t, res.RunID, summary[1][0])
	require.Equal(t, "diamond.json", summary[1][1])
	require.Equal(t, "7", summary[1][7])
}

func TestBaseNameStripsPathAndExtension(t *testing.T) {
	require.Equal(t, "city", baseName("data/graphs/city.yaml"))
	require.Equal(t, "plain", baseName("plain"))
}

func TestNewFailsOnUnwritableBase(t *testing.T) {
	file := filepath.Join(t.TempDir(), "occupied")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	_, err := New(filepath.Join(file, "results"))
	require.Error(t, err)
}
