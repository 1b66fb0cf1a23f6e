// Package resume implements the Resumption Store: the durable record of
// how far the poller has progressed through the upstream span stream.
package resume

import (
	"context"
	"database/sql"

	"github.com/teranos/spanpump/ingest/model"
	"github.com/teranos/spanpump/rowstore"
)

// Store wraps the row store's poller_state table behind the Cursor type
// the rest of the ingestion pipeline speaks.
type Store struct {
	repo *rowstore.PollerStateRepository
}

// New builds a Store backed by db, which must already carry the
// poller_state migration.
func New(db *sql.DB) *Store {
	return &Store{repo: rowstore.NewPollerStateRepository(db)}
}

// Load returns the last saved cursor, or a nil (empty) Cursor if the
// poller has never completed a batch.
func (s *Store) Load(ctx context.Context) (model.Cursor, error) {
	key, err := s.repo.LastKey(ctx)
	if err != nil {
		return nil, err
	}
	return model.Cursor(key), nil
}

// Save persists cursor as the new resumption point, outside of any
// caller-managed transaction.
func (s *Store) Save(ctx context.Context, cursor model.Cursor) error {
	return s.repo.UpsertLastKey(ctx, []byte(cursor))
}

// Clear resets the cursor to empty, causing the next poll to restart from
// the beginning of the upstream stream.
func (s *Store) Clear(ctx context.Context) error {
	return s.repo.ClearState(ctx)
}
