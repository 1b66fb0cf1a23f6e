// Package otlp implements the Span Decoder: a pure, stateless conversion
// from a raw OTLP protobuf span (plus its owning resource) into the flat
// row shapes the columnar store persists. It is the only place in the
// repository that bridges OpenTelemetry's dynamic, variant-typed
// attribute values into JSON.
package otlp

import (
	"encoding/hex"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
	"google.golang.org/protobuf/proto"

	commonpb "go.opentelemetry.io/proto/otlp/common/v1"
	resourcepb "go.opentelemetry.io/proto/otlp/resource/v1"
	tracepb "go.opentelemetry.io/proto/otlp/trace/v1"

	"github.com/teranos/spanpump/errors"
	"github.com/teranos/spanpump/ingest/model"
	"github.com/teranos/spanpump/logger"
)

// DefaultServiceName is used whenever the owning resource is absent or
// lacks a service.name attribute.
const DefaultServiceName = "NO_SERVICE_NAME"

// dedicatedAttributeKeys are the span attributes given their own columns
// (or consumed to populate them) and therefore excluded from
// attributes_json, so a span's domain and generic attributes are never
// duplicated on read.
var dedicatedAttributeKeys = map[string]struct{}{
	"junjo.id":                        {},
	"junjo.parent_id":                 {},
	"junjo.span_type":                 {},
	"junjo.workflow.state.start":      {},
	"junjo.workflow.state.end":        {},
	"junjo.workflow.graph_structure":  {},
	"junjo.workflow.store.id":         {},
	"junjo.workflow_id":               {}, // legacy, filtered though never extracted
	"node.id":                         {}, // legacy, filtered though never extracted
}

// ExtractServiceName reads service.name off a serialized OTLP Resource,
// defaulting when absent or unparseable.
func ExtractServiceName(resourceBytes []byte) string {
	if len(resourceBytes) == 0 {
		return DefaultServiceName
	}

	var res resourcepb.Resource
	if err := proto.Unmarshal(resourceBytes, &res); err != nil {
		return DefaultServiceName
	}

	for _, kv := range res.GetAttributes() {
		if kv.GetKey() == "service.name" {
			if s := kv.GetValue().GetStringValue(); s != "" {
				return s
			}
		}
	}

	return DefaultServiceName
}

// Decode converts one raw OTLP span into a Span Row and its derived Patch
// Rows. It returns an error when spanBytes itself fails to parse as
// protobuf (a CorruptFrame, in the caller's vocabulary), or when the
// converted attributes or events cannot be marshaled to JSON (for example
// a NaN or infinite double). Every other condition (missing attributes,
// unknown kind, absent status) degrades to a documented default rather
// than failing.
func Decode(serviceName string, spanBytes []byte) (model.SpanRow, []model.PatchRow, error) {
	var span tracepb.Span
	if err := proto.Unmarshal(spanBytes, &span); err != nil {
		return model.SpanRow{}, nil, errors.Wrap(err, "parse span")
	}

	row := model.SpanRow{
		TraceID:      hex.EncodeToString(span.GetTraceId()),
		SpanID:       hex.EncodeToString(span.GetSpanId()),
		ParentSpanID: encodeParentSpanID(span.GetParentSpanId()),
		ServiceName:  serviceName,
		Name:         span.GetName(),
		Kind:         kindString(span.GetKind()),
		StartTimeUTC: convertTimestamp(span.GetStartTimeUnixNano()),
		EndTimeUTC:   convertTimestamp(span.GetEndTimeUnixNano()),
		TraceFlags:   span.GetFlags(),
		TraceState:   span.GetTraceState(),
		// Absent on non-workflow spans; always "{}", never "".
		JunjoWFStateStart:  "{}",
		JunjoWFStateEnd:    "{}",
		JunjoWFGraphStruct: "{}",
	}

	if status := span.GetStatus(); status != nil {
		row.StatusCode = strconv.Itoa(int(status.GetCode()))
		row.StatusMsg = status.GetMessage()
	}

	attrs := span.GetAttributes()
	row.JunjoID = extractStringAttribute(attrs, "junjo.id")
	row.JunjoParentID = extractStringAttribute(attrs, "junjo.parent_id")
	row.JunjoSpanType = extractStringAttribute(attrs, "junjo.span_type")

	var workflowID, nodeID string
	switch row.JunjoSpanType {
	case "workflow":
		workflowID = row.JunjoID
	case "node":
		nodeID = row.JunjoID
	}

	if row.JunjoSpanType == "workflow" || row.JunjoSpanType == "subflow" {
		row.JunjoWFStateStart = extractJSONAttribute(attrs, "junjo.workflow.state.start")
		row.JunjoWFStateEnd = extractJSONAttribute(attrs, "junjo.workflow.state.end")
		row.JunjoWFGraphStruct = extractJSONAttribute(attrs, "junjo.workflow.graph_structure")
		row.JunjoWFStoreID = extractStringAttribute(attrs, "junjo.workflow.store.id")
	}

	attrJSON, err := json.Marshal(filteredAttributesMap(attrs))
	if err != nil {
		return model.SpanRow{}, nil, errors.Wrap(err, "marshal attributes")
	}
	row.AttributesJSON = string(attrJSON)

	eventsJSON, err := json.Marshal(convertEvents(span.GetEvents()))
	if err != nil {
		return model.SpanRow{}, nil, errors.Wrap(err, "marshal events")
	}
	row.EventsJSON = string(eventsJSON)

	// Links are deliberately not carried; see SPEC_FULL.md §4.2/§9.
	row.LinksJSON = "[]"

	patches := extractPatches(&row, span.GetEvents(), workflowID, nodeID)

	return row, patches, nil
}

func encodeParentSpanID(b []byte) string {
	allZero := true
	for _, v := range b {
		if v != 0 {
			allZero = false
			break
		}
	}
	if len(b) == 0 || allZero {
		return ""
	}
	return hex.EncodeToString(b)
}

// kindString maps the standard OTLP SpanKind enum to its name. Unknown
// integers (including values outside the enum's current range) map to
// UNSPECIFIED, matching the Decoder's documented fallback.
func kindString(kind tracepb.Span_SpanKind) string {
	switch kind {
	case tracepb.Span_SPAN_KIND_INTERNAL:
		return "INTERNAL"
	case tracepb.Span_SPAN_KIND_SERVER:
		return "SERVER"
	case tracepb.Span_SPAN_KIND_CLIENT:
		return "CLIENT"
	case tracepb.Span_SPAN_KIND_PRODUCER:
		return "PRODUCER"
	case tracepb.Span_SPAN_KIND_CONSUMER:
		return "CONSUMER"
	default:
		return "UNSPECIFIED"
	}
}

// convertTimestamp normalizes a nanosecond OTLP timestamp to a
// microsecond-precision UTC RFC3339 string; the final three decimal
// digits of precision are intentionally discarded.
func convertTimestamp(unixNano uint64) string {
	if unixNano == 0 {
		return ""
	}
	t := time.Unix(0, int64(unixNano)).UTC()
	return t.Truncate(time.Microsecond).Format("2006-01-02T15:04:05.000000Z07:00")
}

func extractStringAttribute(attrs []*commonpb.KeyValue, key string) string {
	for _, kv := range attrs {
		if kv.GetKey() == key {
			return kv.GetValue().GetStringValue()
		}
	}
	return ""
}

// extractJSONAttribute reads a string-valued attribute expected to
// already contain a JSON object body, defaulting to "{}" when absent.
func extractJSONAttribute(attrs []*commonpb.KeyValue, key string) string {
	if v := extractStringAttribute(attrs, key); v != "" {
		return v
	}
	return "{}"
}

func filteredAttributesMap(attrs []*commonpb.KeyValue) map[string]interface{} {
	out := make(map[string]interface{}, len(attrs))
	for _, kv := range attrs {
		if _, dedicated := dedicatedAttributeKeys[kv.GetKey()]; dedicated {
			continue
		}
		v := convertAnyValue(kv.GetValue())
		if v == nil {
			continue
		}
		out[kv.GetKey()] = v
	}
	return out
}

// convertAnyValue converts one OTLP AnyValue variant into a JSON-ready Go
// value. Every variant in the oneof is handled explicitly; a future
// variant this table doesn't know about logs a warning and drops the
// value rather than silently coercing it.
func convertAnyValue(v *commonpb.AnyValue) interface{} {
	if v == nil {
		return nil
	}

	switch val := v.GetValue().(type) {
	case *commonpb.AnyValue_StringValue:
		return val.StringValue
	case *commonpb.AnyValue_IntValue:
		return val.IntValue
	case *commonpb.AnyValue_DoubleValue:
		return val.DoubleValue
	case *commonpb.AnyValue_BoolValue:
		return val.BoolValue
	case *commonpb.AnyValue_BytesValue:
		return hex.EncodeToString(val.BytesValue)
	case *commonpb.AnyValue_ArrayValue:
		out := make([]interface{}, 0, len(val.ArrayValue.GetValues()))
		for _, elem := range val.ArrayValue.GetValues() {
			if !isPrimitive(elem) {
				logger.Logger.Warnw("dropping non-primitive array element", "component", "otlp")
				continue
			}
			out = append(out, convertAnyValue(elem))
		}
		return out
	case *commonpb.AnyValue_KvlistValue:
		out := make(map[string]interface{}, len(val.KvlistValue.GetValues()))
		for _, kv := range val.KvlistValue.GetValues() {
			if !isPrimitive(kv.GetValue()) {
				logger.Logger.Warnw("dropping non-primitive kvlist element", "component", "otlp", "key", kv.GetKey())
				continue
			}
			out[kv.GetKey()] = convertAnyValue(kv.GetValue())
		}
		return out
	default:
		logger.Logger.Warnw("unrecognized attribute value variant", "component", "otlp")
		return nil
	}
}

func isPrimitive(v *commonpb.AnyValue) bool {
	switch v.GetValue().(type) {
	case *commonpb.AnyValue_StringValue, *commonpb.AnyValue_IntValue,
		*commonpb.AnyValue_DoubleValue, *commonpb.AnyValue_BoolValue, *commonpb.AnyValue_BytesValue:
		return true
	default:
		return false
	}
}

type eventJSON struct {
	Name                   string                 `json:"name"`
	TimeUnixNano           uint64                 `json:"timeUnixNano"`
	DroppedAttributesCount uint32                 `json:"droppedAttributesCount"`
	Attributes             map[string]interface{} `json:"attributes"`
}

func convertEvents(events []*tracepb.Span_Event) []eventJSON {
	out := make([]eventJSON, 0, len(events))
	for _, ev := range events {
		attrs := make(map[string]interface{}, len(ev.GetAttributes()))
		for _, kv := range ev.GetAttributes() {
			attrs[kv.GetKey()] = convertAnyValue(kv.GetValue())
		}
		out = append(out, eventJSON{
			Name:                   ev.GetName(),
			TimeUnixNano:           ev.GetTimeUnixNano(),
			DroppedAttributesCount: ev.GetDroppedAttributesCount(),
			Attributes:             attrs,
		})
	}
	return out
}

// extractPatches emits one Patch Row per "set_state" event on the span.
func extractPatches(row *model.SpanRow, events []*tracepb.Span_Event, workflowID, nodeID string) []model.PatchRow {
	var patches []model.PatchRow

	for _, ev := range events {
		if ev.GetName() != "set_state" {
			continue
		}

		patches = append(patches, model.PatchRow{
			PatchID:      uuid.New().String(),
			ServiceName:  row.ServiceName,
			TraceID:      row.TraceID,
			SpanID:       row.SpanID,
			WorkflowID:   workflowID,
			NodeID:       nodeID,
			EventTimeUTC: convertTimestamp(ev.GetTimeUnixNano()),
			PatchJSON:    extractJSONAttribute(ev.GetAttributes(), "junjo.state_json_patch"),
			PatchStoreID: extractStringAttribute(ev.GetAttributes(), "junjo.store.id"),
		})
	}

	return patches
}
