package authrpc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/teranos/spanpump/errors"
	"github.com/teranos/spanpump/proto/authpb"
	"github.com/teranos/spanpump/rowstore"
)

type fakeKeyLookup struct {
	keys map[string]*rowstore.APIKey
	err  error
}

func (f *fakeKeyLookup) GetByKey(ctx context.Context, key string) (*rowstore.APIKey, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.keys[key], nil
}

func TestValidateApiKey_Valid(t *testing.T) {
	s := New(&fakeKeyLookup{keys: map[string]*rowstore.APIKey{
		"sk-live-abc123": {ID: "key-1", Key: "sk-live-abc123", Name: "ingest-bot"},
	}}, zaptest.NewLogger(t).Sugar())

	resp, err := s.ValidateApiKey(context.Background(), &authpb.ValidateApiKeyRequest{Key: "sk-live-abc123"})
	require.NoError(t, err)
	require.True(t, resp.IsValid)
	require.Equal(t, "key-1", resp.KeyId)
}

func TestValidateApiKey_Unknown(t *testing.T) {
	s := New(&fakeKeyLookup{keys: map[string]*rowstore.APIKey{}}, zaptest.NewLogger(t).Sugar())

	resp, err := s.ValidateApiKey(context.Background(), &authpb.ValidateApiKeyRequest{Key: "sk-live-nope"})
	require.NoError(t, err)
	require.False(t, resp.IsValid)
}

func TestValidateApiKey_FailsClosedOnLookupError(t *testing.T) {
	s := New(&fakeKeyLookup{err: errors.New("database is closed")}, zaptest.NewLogger(t).Sugar())

	resp, err := s.ValidateApiKey(context.Background(), &authpb.ValidateApiKeyRequest{Key: "sk-live-abc123"})
	require.NoError(t, err, "a lookup error must never become an RPC error")
	require.False(t, resp.IsValid)
}
