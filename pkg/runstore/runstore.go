// Package runstore persists finished analysis runs to a local SQLite
// database so repeated invocations can be compared later.
package runstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	// NOTE: required to register the dialect for goqu.
	//
	// If you remove this import, goqu.Dialect("sqlite3") will return a copy
	// of the default dialect, which is not what we want.
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"

	_ "github.com/glebarez/go-sqlite"

	"github.com/urbansched/taskplan/pkg/runner"
)

const runsTableName = "v1_runs"

const runsTableSchema = `
create table if not exists %s (
    id integer primary key,
    run_id text not null unique,
    dataset text not null,
    node_count integer not null,
    edge_count integer not null,
    component_count integer not null,
    cycle_component_count integer not null,
    is_dag integer not null,
    source_node integer not null,
    source_component integer not null,
    critical_path_length integer not null,
    critical_path text not null,
    scc_elapsed_ns integer not null,
    topo_elapsed_ns integer not null,
    shortest_elapsed_ns integer not null,
    longest_elapsed_ns integer not null,
    created_at datetime not null
);
create index if not exists idx_runs_dataset_v1 on %s (dataset);
create index if not exists idx_runs_created_v1 on %s (created_at);`

// Run is one stored row.
type Run struct {
	RunID               string    `db:"run_id"`
	Dataset             string    `db:"dataset"`
	NodeCount           int       `db:"node_count"`
	EdgeCount           int       `db:"edge_count"`
	ComponentCount      int       `db:"component_count"`
	CycleComponentCount int       `db:"cycle_component_count"`
	IsDAG               bool      `db:"is_dag"`
	SourceNode          int       `db:"source_node"`
	SourceComponent     int       `db:"source_component"`
	CriticalPathLength  int64     `db:"critical_path_length"`
	CriticalPath        string    `db:"critical_path"`
	SCCElapsedNS        int64     `db:"scc_elapsed_ns"`
	TopoElapsedNS       int64     `db:"topo_elapsed_ns"`
	ShortestElapsedNS   int64     `db:"shortest_elapsed_ns"`
	LongestElapsedNS    int64     `db:"longest_elapsed_ns"`
	CreatedAt           time.Time `db:"created_at"`
}

// Store wraps the run-history database.
type Store struct {
	rawDB *sql.DB
	db    *goqu.Database
}

var _ runner.Store = (*Store)(nil)

// New opens (creating if needed) the run database at dbFilePath.
func New(ctx context.Context, dbFilePath string) (*Store, error) {
	rawDB, err := sql.Open("sqlite", dbFilePath)
	if err != nil {
		return nil, fmt.Errorf("opening run store %s: %w", dbFilePath, err)
	}
	if _, err := rawDB.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = rawDB.Close()
		return nil, fmt.Errorf("setting journal mode: %w", err)
	}

	schema := fmt.Sprintf(runsTableSchema, runsTableName, runsTableName, runsTableName)
	if _, err := rawDB.ExecContext(ctx, schema); err != nil {
		_ = rawDB.Close()
		return nil, fmt.Errorf("creating runs table: %w", err)
	}

	ctxzap.Extract(ctx).Debug("run store opened", zap.String("path", dbFilePath))

	return &Store{
		rawDB: rawDB,
		db:    goqu.New("sqlite3", rawDB),
	}, nil
}

// PutRun inserts one finished result.
func (s *Store) PutRun(ctx context.Context, res *runner.GraphResult) error {
	pathJSON, err := json.Marshal(res.Critical.Path)
	if err != nil {
		return fmt.Errorf("encoding critical path: %w", err)
	}

	q := s.db.Insert(runsTableName).Rows(goqu.Record{
		"run_id":                res.RunID,
		"dataset":               res.Dataset,
		"node_count":            res.NodeCount,
		"edge_count":            res.EdgeCount,
		"component_count":       len(res.Components),
		"cycle_component_count": res.CycleComponentCount(),
		"is_dag":                res.IsDAG,
		"source_node":           res.SourceNode,
		"source_component":      res.SourceComponent,
		"critical_path_length":  res.Critical.Length,
		"critical_path":         string(pathJSON),
		"scc_elapsed_ns":        res.SCCCounters.Elapsed.Nanoseconds(),
		"topo_elapsed_ns":       res.TopoCounters.Elapsed.Nanoseconds(),
		"shortest_elapsed_ns":   res.ShortestCounters.Elapsed.Nanoseconds(),
		"longest_elapsed_ns":    res.LongestCounters.Elapsed.Nanoseconds(),
		"created_at":            time.Now().UTC(),
	})

	query, args, err := q.ToSQL()
	if err != nil {
		return fmt.Errorf("building insert: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting run %s: %w", res.RunID, err)
	}
	return nil
}

// ListRuns returns stored runs for a dataset, newest first. An empty dataset
// returns every run.
func (s *Store) ListRuns(ctx context.Context, dataset string) ([]*Run, error) {
	q := s.db.From(runsTableName).
		Select(
			"run_id", "dataset", "node_count", "edge_count",
			"component_count", "cycle_component_count", "is_dag",
			"source_node", "source_component",
			"critical_path_length", "critical_path",
			"scc_elapsed_ns", "topo_elapsed_ns",
			"shortest_elapsed_ns", "longest_elapsed_ns",
			"created_at",
		).
		Order(goqu.C("created_at").Desc())
	if dataset != "" {
		q = q.Where(goqu.C("dataset").Eq(dataset))
	}

	query, args, err := q.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("building select: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		r := &Run{}
		err := rows.Scan(
			&r.RunID, &r.Dataset, &r.NodeCount, &r.EdgeCount,
			&r.ComponentCount, &r.CycleComponentCount, &r.IsDAG,
			&r.SourceNode, &r.SourceComponent,
			&r.CriticalPathLength, &r.CriticalPath,
			&r.SCCElapsedNS, &r.TopoElapsedNS,
			&r.ShortestElapsedNS, &r.LongestElapsedNS,
			&r.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.rawDB.Close()
}
