package columnar

import (
	"context"
	"database/sql"

	"github.com/teranos/spanpump/errors"
	"github.com/teranos/spanpump/ingest/model"
)

const insertSpanSQL = `
	INSERT OR IGNORE INTO spans (
		trace_id, span_id, parent_span_id, service_name, name, kind,
		start_time, end_time, status_code, status_message,
		attributes_json, events_json, links_json,
		trace_flags, trace_state,
		junjo_id, junjo_parent_id, junjo_span_type,
		junjo_wf_state_start, junjo_wf_state_end, junjo_wf_graph_structure, junjo_wf_store_id
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const insertPatchSQL = `
	INSERT OR IGNORE INTO state_patches (
		patch_id, service_name, trace_id, span_id, workflow_id, node_id,
		event_time, patch_json, patch_store_id
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// InsertSpans performs an idempotent multi-row insert of rows within tx.
// Rows whose (trace_id, span_id) primary key already exists are silently
// ignored, which is the mechanism by which at-least-once delivery becomes
// exactly-once storage.
func InsertSpans(ctx context.Context, tx *sql.Tx, rows []model.SpanRow) error {
	stmt, err := tx.PrepareContext(ctx, insertSpanSQL)
	if err != nil {
		return errors.Wrap(err, "prepare span insert")
	}
	defer stmt.Close()

	for _, r := range rows {
		_, err := stmt.ExecContext(ctx,
			r.TraceID, r.SpanID, nullIfEmpty(r.ParentSpanID), r.ServiceName, r.Name, r.Kind,
			nullIfEmpty(r.StartTimeUTC), nullIfEmpty(r.EndTimeUTC), r.StatusCode, r.StatusMsg,
			r.AttributesJSON, r.EventsJSON, r.LinksJSON,
			r.TraceFlags, nullIfEmpty(r.TraceState),
			r.JunjoID, r.JunjoParentID, r.JunjoSpanType,
			r.JunjoWFStateStart, r.JunjoWFStateEnd, r.JunjoWFGraphStruct, r.JunjoWFStoreID,
		)
		if err != nil {
			return errors.Wrapf(err, "insert span %s/%s", r.TraceID, r.SpanID)
		}
	}
	return nil
}

// InsertPatches is InsertSpans' counterpart for derived Patch Rows.
func InsertPatches(ctx context.Context, tx *sql.Tx, rows []model.PatchRow) error {
	stmt, err := tx.PrepareContext(ctx, insertPatchSQL)
	if err != nil {
		return errors.Wrap(err, "prepare patch insert")
	}
	defer stmt.Close()

	for _, p := range rows {
		_, err := stmt.ExecContext(ctx,
			p.PatchID, p.ServiceName, p.TraceID, p.SpanID, p.WorkflowID, p.NodeID,
			nullIfEmpty(p.EventTimeUTC), p.PatchJSON, nullIfEmpty(p.PatchStoreID),
		)
		if err != nil {
			return errors.Wrapf(err, "insert patch %s", p.PatchID)
		}
	}
	return nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
