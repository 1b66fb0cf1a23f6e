package rowstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) (*PollerStateRepository, *APIKeyRepository) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := OpenWithMigrations(dbPath, nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPollerStateRepository(db), NewAPIKeyRepository(db)
}

func TestPollerStateRepository_LastKeyEmpty(t *testing.T) {
	repo, _ := newTestDB(t)

	key, err := repo.LastKey(context.Background())
	require.NoError(t, err)
	assert.Nil(t, key)
}

func TestPollerStateRepository_UpsertAndRead(t *testing.T) {
	repo, _ := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.UpsertLastKey(ctx, []byte("01J000000000000000000001")))
	key, err := repo.LastKey(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte("01J000000000000000000001"), key)

	require.NoError(t, repo.UpsertLastKey(ctx, []byte("01J000000000000000000002")))
	key, err = repo.LastKey(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte("01J000000000000000000002"), key)
}

func TestPollerStateRepository_ClearState(t *testing.T) {
	repo, _ := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.UpsertLastKey(ctx, []byte("01J000000000000000000001")))
	require.NoError(t, repo.ClearState(ctx))

	key, err := repo.LastKey(ctx)
	require.NoError(t, err)
	assert.Nil(t, key)
}

func TestAPIKeyRepository_GetByKey(t *testing.T) {
	_, repo := newTestDB(t)
	ctx := context.Background()

	found, err := repo.GetByKey(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, found)

	require.NoError(t, repo.Create(ctx, "id-1", "secret-key", "ci"))

	found, err = repo.GetByKey(ctx, "secret-key")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "id-1", found.ID)
	assert.Equal(t, "ci", found.Name)
}
