// Package columnar owns the connection to the analytical columnar store
// (DuckDB) that holds the two span-ingestion relations: spans and
// state_patches. It exposes DDL bootstrap, idempotent batch inserts, and
// the typed read helpers the out-of-scope HTTP query layer calls into.
package columnar

import (
	"context"
	"database/sql"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/teranos/spanpump/errors"
)

// MinLimit and MaxLimit bound every read helper's limit parameter.
const (
	MinLimit     = 1
	MaxLimit     = 10000
	DefaultLimit = 500
)

// Gateway owns the DuckDB connection used for span ingestion and the
// read-side query helpers.
type Gateway struct {
	db *sql.DB
}

// Open opens (creating if absent) the DuckDB file at path.
func Open(path string) (*Gateway, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, errors.Wrapf(err, "open columnar store at %s", path)
	}
	return &Gateway{db: db}, nil
}

// Close releases the underlying connection.
func (g *Gateway) Close() error {
	return g.db.Close()
}

// Bootstrap idempotently creates the spans and state_patches relations
// and the indexes the read helpers rely on. It fails only when the store
// is unreachable or already holds an incompatible schema.
func (g *Gateway) Bootstrap(ctx context.Context) error {
	for _, stmt := range bootstrapStatements {
		if _, err := g.db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "bootstrap columnar store")
		}
	}
	return nil
}

var bootstrapStatements = []string{
	`CREATE TABLE IF NOT EXISTS spans (
		trace_id TEXT NOT NULL,
		span_id TEXT NOT NULL,
		parent_span_id TEXT,
		service_name TEXT NOT NULL,
		name TEXT NOT NULL,
		kind TEXT NOT NULL,
		start_time TIMESTAMPTZ,
		end_time TIMESTAMPTZ,
		status_code TEXT,
		status_message TEXT,
		attributes_json TEXT NOT NULL,
		events_json TEXT NOT NULL,
		links_json TEXT NOT NULL,
		trace_flags INTEGER,
		trace_state TEXT,
		junjo_id TEXT,
		junjo_parent_id TEXT,
		junjo_span_type TEXT,
		junjo_wf_state_start TEXT,
		junjo_wf_state_end TEXT,
		junjo_wf_graph_structure TEXT,
		junjo_wf_store_id TEXT,
		PRIMARY KEY (trace_id, span_id)
	)`,
	`CREATE TABLE IF NOT EXISTS state_patches (
		patch_id TEXT PRIMARY KEY,
		service_name TEXT NOT NULL,
		trace_id TEXT NOT NULL,
		span_id TEXT NOT NULL,
		workflow_id TEXT,
		node_id TEXT,
		event_time TIMESTAMPTZ,
		patch_json TEXT NOT NULL,
		patch_store_id TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_spans_service_name ON spans (service_name)`,
	`CREATE INDEX IF NOT EXISTS idx_spans_trace_id ON spans (trace_id)`,
	`CREATE INDEX IF NOT EXISTS idx_state_patches_trace_span ON state_patches (trace_id, span_id)`,
}

// Begin starts a transaction for callers that need to group a batch's span
// and patch inserts so they commit or roll back together.
func (g *Gateway) Begin(ctx context.Context) (*sql.Tx, error) {
	tx, err := g.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "begin columnar store transaction")
	}
	return tx, nil
}
