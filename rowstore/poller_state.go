package rowstore

import (
	"context"
	"database/sql"

	"github.com/teranos/spanpump/errors"
)

// PollerStateRepository persists the span ingestion poller's resumption
// cursor as a single row keyed on id=1. The cursor is treated as an
// opaque byte string throughout, per the upstream log's own key format.
type PollerStateRepository struct {
	db *sql.DB
}

// NewPollerStateRepository constructs a repository over an already-opened
// and migrated row store.
func NewPollerStateRepository(db *sql.DB) *PollerStateRepository {
	return &PollerStateRepository{db: db}
}

// LastKey returns the last persisted cursor, or nil if the poller has
// never committed a batch (fresh install, or state was cleared).
func (r *PollerStateRepository) LastKey(ctx context.Context) ([]byte, error) {
	var lastKey []byte
	err := r.db.QueryRowContext(ctx, "SELECT last_key FROM poller_state WHERE id = 1").Scan(&lastKey)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "query poller_state")
	}
	return lastKey, nil
}

// UpsertLastKey persists the cursor, creating the singleton row if absent.
func (r *PollerStateRepository) UpsertLastKey(ctx context.Context, lastKey []byte) error {
	_, err := r.db.ExecContext(ctx, upsertLastKeySQL, lastKey)
	if err != nil {
		return errors.Wrap(err, "upsert poller_state")
	}
	return nil
}

const upsertLastKeySQL = `
	INSERT INTO poller_state (id, last_key) VALUES (1, ?)
	ON CONFLICT(id) DO UPDATE SET last_key = excluded.last_key
`

// ClearState resets the cursor to NULL, causing the next poll cycle to
// restart from the beginning of the upstream log.
func (r *PollerStateRepository) ClearState(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, "UPDATE poller_state SET last_key = NULL WHERE id = 1")
	if err != nil {
		return errors.Wrap(err, "clear poller_state")
	}
	return nil
}
