package columnar

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/teranos/spanpump/errors"
)

// Span is the read-side projection of a spans row, with JSON body columns
// parsed back into structured values: the write path stores them as
// strings for storage-engine portability, but callers get structured
// values, per SPEC_FULL.md §4.1's read-helper parsing requirement.
type Span struct {
	TraceID            string
	SpanID             string
	ParentSpanID       string
	ServiceName        string
	Name               string
	Kind               string
	StartTime          string
	EndTime            string
	StatusCode         string
	StatusMessage      string
	Attributes         json.RawMessage
	Events             json.RawMessage
	Links              json.RawMessage
	TraceFlags         uint32
	TraceState         string
	JunjoID            string
	JunjoParentID      string
	JunjoSpanType      string
	JunjoWFStateStart  json.RawMessage
	JunjoWFStateEnd    json.RawMessage
	JunjoWFGraphStruct json.RawMessage
	JunjoWFStoreID     string
}

const spanColumns = `
	trace_id, span_id, parent_span_id, service_name, name, kind,
	start_time::VARCHAR, end_time::VARCHAR, status_code, status_message,
	attributes_json, events_json, links_json, trace_flags, trace_state,
	junjo_id, junjo_parent_id, junjo_span_type,
	junjo_wf_state_start, junjo_wf_state_end, junjo_wf_graph_structure, junjo_wf_store_id
`

// ErrInvalidLimit is returned when a caller passes a limit outside
// [MinLimit, MaxLimit].
var ErrInvalidLimit = errors.New("limit out of range")

func checkLimit(limit int) error {
	if limit < MinLimit || limit > MaxLimit {
		return errors.Wrapf(ErrInvalidLimit, "limit=%d must be in [%d, %d]", limit, MinLimit, MaxLimit)
	}
	return nil
}

// ListServices returns the distinct service names present in the store,
// ascending.
func (g *Gateway) ListServices(ctx context.Context) ([]string, error) {
	rows, err := g.db.QueryContext(ctx, "SELECT DISTINCT service_name FROM spans ORDER BY service_name ASC")
	if err != nil {
		return nil, errors.Wrap(err, "list services")
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errors.Wrap(err, "scan service name")
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

// ListServiceSpans returns a service's spans, newest first, bounded by limit.
func (g *Gateway) ListServiceSpans(ctx context.Context, serviceName string, limit int) ([]Span, error) {
	if err := checkLimit(limit); err != nil {
		return nil, err
	}
	query := `SELECT ` + spanColumns + ` FROM spans WHERE service_name = ? ORDER BY start_time DESC LIMIT ?`
	return g.querySpans(ctx, query, serviceName, limit)
}

// ListRootSpans returns root spans (no parent) for a service, optionally
// restricted to traces containing at least one LLM-kind span.
func (g *Gateway) ListRootSpans(ctx context.Context, serviceName string, limit int, llmOnly bool) ([]Span, error) {
	if err := checkLimit(limit); err != nil {
		return nil, err
	}

	query := `SELECT ` + spanColumns + ` FROM spans WHERE service_name = ? AND parent_span_id IS NULL`
	if llmOnly {
		query += ` AND trace_id IN (
			SELECT trace_id FROM spans WHERE json_extract(attributes_json, '$."openinference.span.kind"') = '"LLM"'
		)`
	}
	query += ` ORDER BY start_time DESC LIMIT ?`

	return g.querySpans(ctx, query, serviceName, limit)
}

// ListWorkflowSpans returns a service's workflow-type spans, newest first,
// bounded by limit. Spans are not filtered on having a parent.
func (g *Gateway) ListWorkflowSpans(ctx context.Context, serviceName string, limit int) ([]Span, error) {
	if err := checkLimit(limit); err != nil {
		return nil, err
	}
	query := `SELECT ` + spanColumns + ` FROM spans WHERE junjo_span_type = 'workflow' AND service_name = ? ORDER BY start_time DESC LIMIT ?`
	return g.querySpans(ctx, query, serviceName, limit)
}

// ListTraceSpans returns every span sharing trace_id, newest first, with
// no limit (a trace is assumed small enough to return in full).
func (g *Gateway) ListTraceSpans(ctx context.Context, traceID string) ([]Span, error) {
	query := `SELECT ` + spanColumns + ` FROM spans WHERE trace_id = ? ORDER BY start_time DESC`
	rows, err := g.db.QueryContext(ctx, query, traceID)
	if err != nil {
		return nil, errors.Wrap(err, "list trace spans")
	}
	defer rows.Close()
	return scanSpans(rows)
}

// GetSpan returns a single span by its identity, or (nil, nil) on miss.
func (g *Gateway) GetSpan(ctx context.Context, traceID, spanID string) (*Span, error) {
	query := `SELECT ` + spanColumns + ` FROM spans WHERE trace_id = ? AND span_id = ?`
	rows, err := g.db.QueryContext(ctx, query, traceID, spanID)
	if err != nil {
		return nil, errors.Wrap(err, "get span")
	}
	defer rows.Close()

	spans, err := scanSpans(rows)
	if err != nil {
		return nil, err
	}
	if len(spans) == 0 {
		return nil, nil
	}
	return &spans[0], nil
}

func (g *Gateway) querySpans(ctx context.Context, query string, serviceName string, limit int) ([]Span, error) {
	rows, err := g.db.QueryContext(ctx, query, serviceName, limit)
	if err != nil {
		return nil, errors.Wrap(err, "query spans")
	}
	defer rows.Close()
	return scanSpans(rows)
}

func scanSpans(rows *sql.Rows) ([]Span, error) {
	var out []Span
	for rows.Next() {
		var (
			s                                                         Span
			parentSpanID, statusCode, statusMsg, traceState           sql.NullString
			junjoID, junjoParentID, junjoSpanType, junjoWFStoreID     sql.NullString
			attrs, events, links                                     string
			wfStart, wfEnd, wfGraph                                  sql.NullString
		)

		err := rows.Scan(
			&s.TraceID, &s.SpanID, &parentSpanID, &s.ServiceName, &s.Name, &s.Kind,
			&s.StartTime, &s.EndTime, &statusCode, &statusMsg,
			&attrs, &events, &links, &s.TraceFlags, &traceState,
			&junjoID, &junjoParentID, &junjoSpanType,
			&wfStart, &wfEnd, &wfGraph, &junjoWFStoreID,
		)
		if err != nil {
			return nil, errors.Wrap(err, "scan span row")
		}

		s.ParentSpanID = parentSpanID.String
		s.StatusCode = statusCode.String
		s.StatusMessage = statusMsg.String
		s.TraceState = traceState.String
		s.JunjoID = junjoID.String
		s.JunjoParentID = junjoParentID.String
		s.JunjoSpanType = junjoSpanType.String
		s.JunjoWFStoreID = junjoWFStoreID.String
		s.Attributes = json.RawMessage(attrs)
		s.Events = json.RawMessage(events)
		s.Links = json.RawMessage(links)
		if wfStart.Valid {
			s.JunjoWFStateStart = json.RawMessage(wfStart.String)
		}
		if wfEnd.Valid {
			s.JunjoWFStateEnd = json.RawMessage(wfEnd.String)
		}
		if wfGraph.Valid {
			s.JunjoWFGraphStruct = json.RawMessage(wfGraph.String)
		}

		out = append(out, s)
	}
	return out, rows.Err()
}
