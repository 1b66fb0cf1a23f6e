// Package reader implements the Upstream Reader: a gRPC client over the
// InternalIngestionService that turns a streamed batch of OTLP span
// frames into a flat slice the poller can apply in one transaction.
package reader

import (
	"context"
	"io"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/keepalive"

	"github.com/teranos/spanpump/errors"
	"github.com/teranos/spanpump/ingest/model"
	"github.com/teranos/spanpump/proto/ingestionpb"
)

const (
	keepaliveTime    = 10 * time.Second
	keepaliveTimeout = 5 * time.Second
)

// Frame is one raw, not-yet-decoded span delivered by the upstream
// service, paired with the cursor value it advances to.
type Frame struct {
	SpanBytes     []byte
	ResourceBytes []byte
	Cursor        model.Cursor
}

// Reader is a client connection to the upstream ingestion service.
type Reader struct {
	conn   *grpc.ClientConn
	client ingestionpb.InternalIngestionServiceClient
}

// Dial connects to the upstream ingestion service at addr. The connection
// carries keepalive pings so a silently-dead peer (a common failure mode
// for long-lived streams behind load balancers) is detected within a few
// multiples of keepaliveTime rather than only on the next write.
func Dial(ctx context.Context, addr string) (*Reader, error) {
	conn, err := grpc.NewClient(addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithKeepaliveParams(keepalive.ClientParameters{
			Time:                keepaliveTime,
			Timeout:             keepaliveTimeout,
			PermitWithoutStream: true,
		}),
	)
	if err != nil {
		return nil, errors.Wrapf(err, "dial upstream ingestion service at %s", addr)
	}
	return &Reader{conn: conn, client: ingestionpb.NewInternalIngestionServiceClient(conn)}, nil
}

// Close releases the underlying connection.
func (r *Reader) Close() error {
	return r.conn.Close()
}

// ReadSpans requests one batch of up to batchSize spans starting after
// cursor and collects the full stream into a slice. The upstream service
// is expected to close the stream once the batch is exhausted; a batch
// may legitimately be empty.
func (r *Reader) ReadSpans(ctx context.Context, cursor model.Cursor, batchSize int) ([]Frame, error) {
	stream, err := r.client.ReadSpans(ctx, &ingestionpb.ReadSpansRequest{
		StartCursor: []byte(cursor),
		BatchSize:   int32(batchSize),
	})
	if err != nil {
		return nil, errors.Wrap(err, "open ReadSpans stream")
	}

	var frames []Frame
	for {
		resp, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "receive ReadSpans batch")
		}

		for _, f := range resp.GetFrames() {
			frames = append(frames, Frame{
				SpanBytes:     f.GetSpan(),
				ResourceBytes: f.GetResource(),
				Cursor:        model.Cursor(f.GetCursor()),
			})
		}
	}

	return frames, nil
}
