// Package model defines the plain Go types shared by the span decoder, the
// columnar store gateway, and the columnar store's read helpers. No ORM:
// the gateway binds these fields positionally in raw SQL, the way the
// teacher's store packages do for bulk inserts.
package model

// SpanRow is a single decoded OpenTelemetry span, flattened into the
// columnar store's wire shape. AttributesJSON, EventsJSON, and LinksJSON
// are JSON-encoded strings on write; read helpers parse them back into
// json.RawMessage before returning.
type SpanRow struct {
	TraceID      string
	SpanID       string
	ParentSpanID string // "" for a root span
	ServiceName  string
	Name         string
	Kind         string // one of UNSPECIFIED/INTERNAL/SERVER/CLIENT/PRODUCER/CONSUMER
	StartTimeUTC string // RFC3339 with microsecond precision, UTC
	EndTimeUTC   string
	StatusCode   string // stringified numeric status code, "" if absent
	StatusMsg    string

	AttributesJSON string
	EventsJSON     string
	LinksJSON      string

	TraceFlags uint32
	TraceState string

	// Junjo workflow-engine attributes, extracted from span attributes at
	// decode time and dropped from AttributesJSON so they aren't stored
	// twice.
	JunjoID            string
	JunjoParentID      string
	JunjoSpanType      string
	JunjoWFStateStart  string // JSON string, "{}" if absent
	JunjoWFStateEnd    string
	JunjoWFGraphStruct string
	JunjoWFStoreID     string
}

// PatchRow is a workflow state-patch event extracted from a span's events,
// recording an incremental mutation to workflow state.
type PatchRow struct {
	PatchID      string // surrogate key, generated at decode time
	ServiceName  string
	TraceID      string
	SpanID       string
	WorkflowID   string
	NodeID       string
	EventTimeUTC string
	PatchJSON    string
	PatchStoreID string
}

// Cursor is the resumption position recorded after each committed batch:
// the opaque, lexicographically-ordered key of the last frame in that
// batch, whether or not that frame decoded. The core never interprets its
// bytes.
type Cursor []byte

// Empty reports whether the cursor has never advanced (poller has never
// committed a batch, or the operator cleared resumption state).
func (c Cursor) Empty() bool {
	return len(c) == 0
}
