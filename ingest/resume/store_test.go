package resume

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/spanpump/rowstore"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := rowstore.OpenWithMigrations(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db)
}

func TestStore_LoadEmpty(t *testing.T) {
	s := newTestStore(t)
	cursor, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, cursor.Empty())
}

func TestStore_SaveAndLoad(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, []byte("01J8Z...cursor")))

	cursor, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "01J8Z...cursor", string(cursor))
}

func TestStore_Clear(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, []byte("some-cursor")))
	require.NoError(t, s.Clear(ctx))

	cursor, err := s.Load(ctx)
	require.NoError(t, err)
	assert.True(t, cursor.Empty())
}
