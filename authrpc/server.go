// Package authrpc implements the Internal Auth RPC Server: a small,
// fail-closed gRPC service that other platform components call to check
// whether an API key is valid.
package authrpc

import (
	"context"
	"net"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/teranos/spanpump/errors"
	"github.com/teranos/spanpump/proto/authpb"
	"github.com/teranos/spanpump/rowstore"
)

// keyPrefixLogLen is how much of a submitted key is safe to log: enough
// to correlate calls without ever persisting a usable credential.
const keyPrefixLogLen = 12

// KeyLookup is the subset of *rowstore.APIKeyRepository the server
// depends on.
type KeyLookup interface {
	GetByKey(ctx context.Context, key string) (*rowstore.APIKey, error)
}

// Server implements authpb.InternalAuthServiceServer.
type Server struct {
	authpb.UnimplementedInternalAuthServiceServer
	keys KeyLookup
	log  *zap.SugaredLogger
}

// New builds a Server backed by keys.
func New(keys KeyLookup, log *zap.SugaredLogger) *Server {
	return &Server{keys: keys, log: log}
}

// ValidateApiKey reports whether req.Key exactly matches a stored key. It is
// fail-closed: any lookup error is logged and reported to the caller as
// "not valid", never surfaced as an RPC error, so a storage hiccup cannot
// be mistaken for an authorization grant by a confused caller retrying
// blindly.
func (s *Server) ValidateApiKey(ctx context.Context, req *authpb.ValidateApiKeyRequest) (*authpb.ValidateApiKeyResponse, error) {
	prefix := req.GetKey()
	if len(prefix) > keyPrefixLogLen {
		prefix = prefix[:keyPrefixLogLen]
	}

	key, err := s.keys.GetByKey(ctx, req.GetKey())
	if err != nil {
		s.log.Errorw("api key lookup failed", "key_prefix", prefix, "error", err)
		return &authpb.ValidateApiKeyResponse{IsValid: false}, nil
	}
	if key == nil {
		s.log.Infow("api key not found", "key_prefix", prefix)
		return &authpb.ValidateApiKeyResponse{IsValid: false}, nil
	}

	return &authpb.ValidateApiKeyResponse{
		IsValid: true,
		KeyId:   key.ID,
		Name:    key.Name,
	}, nil
}

// Serve binds addr and runs a gRPC server hosting Server until ctx is
// cancelled, at which point it drains in-flight calls via GracefulStop.
func Serve(ctx context.Context, addr string, srv *Server) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "listen on %s", addr)
	}

	grpcServer := grpc.NewServer()
	authpb.RegisterInternalAuthServiceServer(grpcServer, srv)

	go func() {
		<-ctx.Done()
		srv.log.Infow("shutting down auth rpc server")
		grpcServer.GracefulStop()
	}()

	srv.log.Infow("auth rpc server listening", "address", addr)
	if err := grpcServer.Serve(listener); err != nil {
		return errors.Wrap(err, "auth rpc server error")
	}
	return nil
}
