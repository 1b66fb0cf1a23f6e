package rowstore

import (
	"context"
	"database/sql"

	"github.com/teranos/spanpump/errors"
)

// APIKey mirrors a row in the api_keys table.
type APIKey struct {
	ID        string
	Key       string
	Name      string
	CreatedAt string
}

// APIKeyRepository looks up API keys for the internal auth server.
type APIKeyRepository struct {
	db *sql.DB
}

// NewAPIKeyRepository constructs a repository over an already-opened and
// migrated row store.
func NewAPIKeyRepository(db *sql.DB) *APIKeyRepository {
	return &APIKeyRepository{db: db}
}

// GetByKey returns the row matching key, or (nil, nil) if no key matches.
func (r *APIKeyRepository) GetByKey(ctx context.Context, key string) (*APIKey, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, key, name, created_at FROM api_keys WHERE key = ?", key)

	var rec APIKey
	err := row.Scan(&rec.ID, &rec.Key, &rec.Name, &rec.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "query api_keys")
	}
	return &rec, nil
}

// Create inserts a new API key row. Exposed for operator tooling and tests;
// the auth server itself is read-only against this table.
func (r *APIKeyRepository) Create(ctx context.Context, id, key, name string) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO api_keys (id, key, name) VALUES (?, ?, ?)", id, key, name)
	if err != nil {
		return errors.Wrap(err, "insert api_keys")
	}
	return nil
}
