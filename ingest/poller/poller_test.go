package poller

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"google.golang.org/protobuf/proto"

	tracepb "go.opentelemetry.io/proto/otlp/trace/v1"

	"github.com/teranos/spanpump/errors"
	"github.com/teranos/spanpump/ingest/columnar"
	"github.com/teranos/spanpump/ingest/model"
	"github.com/teranos/spanpump/ingest/reader"
	"github.com/teranos/spanpump/ingest/resume"
	"github.com/teranos/spanpump/rowstore"
)

type fakeReader struct {
	batches [][]reader.Frame
	calls   int
}

func (f *fakeReader) ReadSpans(ctx context.Context, cursor model.Cursor, batchSize int) ([]reader.Frame, error) {
	defer func() { f.calls++ }()
	if f.calls >= len(f.batches) {
		return nil, nil
	}
	return f.batches[f.calls], nil
}

func marshalSpan(t *testing.T, traceID, spanID string) []byte {
	t.Helper()
	raw, err := proto.Marshal(&tracepb.Span{
		TraceId: []byte(traceID),
		SpanId:  []byte(spanID),
		Name:    "op",
	})
	require.NoError(t, err)
	return raw
}

func newTestEnv(t *testing.T) (*columnar.Gateway, *resume.Store) {
	t.Helper()

	gw, err := columnar.Open(t.TempDir() + "/spans.duckdb")
	require.NoError(t, err)
	t.Cleanup(func() { gw.Close() })
	require.NoError(t, gw.Bootstrap(context.Background()))

	db, err := rowstore.OpenWithMigrations(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return gw, resume.New(db)
}

func TestPoller_AppliesBatchAndAdvancesCursor(t *testing.T) {
	gw, cursors := newTestEnv(t)
	fr := &fakeReader{
		batches: [][]reader.Frame{
			{{SpanBytes: marshalSpan(t, "trace-aaaaaaaaaaaaaaaa", "span-aaaaaaaa"), Cursor: []byte("cursor-1")}},
		},
	}

	p := New(Config{PollInterval: 10 * time.Millisecond, BatchSize: 10}, fr, gw, cursors, zaptest.NewLogger(t).Sugar())

	n, err := p.pollOnce(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, n)

	cursor, err := cursors.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, "cursor-1", string(cursor))
}

func TestPoller_EmptyBatchIsNotAnError(t *testing.T) {
	gw, cursors := newTestEnv(t)
	fr := &fakeReader{batches: [][]reader.Frame{{}}}

	p := New(Config{PollInterval: 10 * time.Millisecond, BatchSize: 10}, fr, gw, cursors, zaptest.NewLogger(t).Sugar())

	n, err := p.pollOnce(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, n)
}

func TestPoller_CorruptFrameSkippedNonStrict(t *testing.T) {
	gw, cursors := newTestEnv(t)
	fr := &fakeReader{
		batches: [][]reader.Frame{
			{
				{SpanBytes: []byte{0xff, 0xff}, Cursor: []byte("bad")},
				{SpanBytes: marshalSpan(t, "trace-bbbbbbbbbbbbbbbb", "span-bbbbbbbb"), Cursor: []byte("cursor-2")},
			},
		},
	}

	p := New(Config{PollInterval: 10 * time.Millisecond, BatchSize: 10, StrictMode: false}, fr, gw, cursors, zaptest.NewLogger(t).Sugar())

	n, err := p.pollOnce(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestPoller_CorruptFrameFailsBatchInStrictMode(t *testing.T) {
	gw, cursors := newTestEnv(t)
	fr := &fakeReader{
		batches: [][]reader.Frame{
			{{SpanBytes: []byte{0xff, 0xff}, Cursor: []byte("bad")}},
		},
	}

	p := New(Config{PollInterval: 10 * time.Millisecond, BatchSize: 10, StrictMode: true}, fr, gw, cursors, zaptest.NewLogger(t).Sugar())

	_, err := p.pollOnce(context.Background())
	require.Error(t, err)

	cursor, loadErr := cursors.Load(context.Background())
	require.NoError(t, loadErr)
	require.True(t, cursor.Empty(), "cursor must not advance when strict mode fails the batch")
}

func TestPoller_ColumnarTxFailureIsNonFatalAndCursorUnchanged(t *testing.T) {
	gw, cursors := newTestEnv(t)
	require.NoError(t, gw.Close()) // force Begin to fail on a closed connection

	fr := &fakeReader{
		batches: [][]reader.Frame{
			{{SpanBytes: marshalSpan(t, "trace-cccccccccccccccc", "span-cccccccc"), Cursor: []byte("cursor-3")}},
		},
	}

	p := New(Config{PollInterval: 10 * time.Millisecond, BatchSize: 10}, fr, gw, cursors, zaptest.NewLogger(t).Sugar())

	_, err := p.pollOnce(context.Background())
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrFatalBatch), "a store transaction failure must not be fatal")

	cursor, loadErr := cursors.Load(context.Background())
	require.NoError(t, loadErr)
	require.True(t, cursor.Empty(), "cursor must not advance when the batch transaction fails")
}

func TestPoller_CursorSaveFailureIsSwallowed(t *testing.T) {
	gw, err := columnar.Open(t.TempDir() + "/spans.duckdb")
	require.NoError(t, err)
	t.Cleanup(func() { gw.Close() })
	require.NoError(t, gw.Bootstrap(context.Background()))

	db, err := rowstore.OpenWithMigrations(":memory:", nil)
	require.NoError(t, err)
	cursors := resume.New(db)
	require.NoError(t, db.Close()) // force Save to fail after a successful commit

	p := New(Config{PollInterval: 10 * time.Millisecond, BatchSize: 10}, &fakeReader{}, gw, cursors, zaptest.NewLogger(t).Sugar())

	rows := []model.SpanRow{{
		TraceID: "trace-dddddddddddddddd", SpanID: "span-dddddddd",
		ServiceName: "svc", Name: "op", Kind: "INTERNAL",
		AttributesJSON: "{}", EventsJSON: "[]", LinksJSON: "[]",
		JunjoWFStateStart: "{}", JunjoWFStateEnd: "{}", JunjoWFGraphStruct: "{}",
	}}

	err = p.applyBatch(context.Background(), rows, nil, model.Cursor("cursor-4"))
	require.NoError(t, err, "a cursor-save failure after a successful commit must be swallowed")
}

func TestPoller_StartStop(t *testing.T) {
	gw, cursors := newTestEnv(t)
	fr := &fakeReader{}

	p := New(Config{PollInterval: 5 * time.Millisecond, BatchSize: 10}, fr, gw, cursors, zaptest.NewLogger(t).Sugar())

	ctx, cancel := context.WithCancel(context.Background())
	go p.Start(ctx)

	time.Sleep(20 * time.Millisecond)
	cancel()
	p.Stop(time.Second)

	require.Equal(t, StateStopped, p.State())
}
