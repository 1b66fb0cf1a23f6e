package reader

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"

	"github.com/teranos/spanpump/proto/ingestionpb"
)

type fakeIngestionServer struct {
	ingestionpb.UnimplementedInternalIngestionServiceServer
	frames [][]*ingestionpb.SpanFrame
}

func (f *fakeIngestionServer) ReadSpans(req *ingestionpb.ReadSpansRequest, stream ingestionpb.InternalIngestionService_ReadSpansServer) error {
	for _, batch := range f.frames {
		if err := stream.Send(&ingestionpb.ReadSpansResponse{Frames: batch}); err != nil {
			return err
		}
	}
	return nil
}

func newTestReader(t *testing.T, srv *fakeIngestionServer) *Reader {
	t.Helper()

	lis := bufconn.Listen(1024 * 1024)
	s := grpc.NewServer()
	ingestionpb.RegisterInternalIngestionServiceServer(s, srv)
	go s.Serve(lis)
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return &Reader{conn: conn, client: ingestionpb.NewInternalIngestionServiceClient(conn)}
}

func TestReadSpans_CollectsAllBatches(t *testing.T) {
	srv := &fakeIngestionServer{
		frames: [][]*ingestionpb.SpanFrame{
			{{Span: []byte("span-1"), Cursor: []byte("c1")}},
			{{Span: []byte("span-2"), Cursor: []byte("c2")}, {Span: []byte("span-3"), Cursor: []byte("c3")}},
		},
	}
	r := newTestReader(t, srv)

	frames, err := r.ReadSpans(context.Background(), nil, 100)
	require.NoError(t, err)
	require.Len(t, frames, 3)
	require.Equal(t, "c3", string(frames[2].Cursor))
}

func TestReadSpans_EmptyBatch(t *testing.T) {
	r := newTestReader(t, &fakeIngestionServer{})

	frames, err := r.ReadSpans(context.Background(), []byte("resume-here"), 100)
	require.NoError(t, err)
	require.Empty(t, frames)
}
