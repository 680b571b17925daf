package metadata

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE metadata (key TEXT PRIMARY KEY, value BLOB)`)
	require.NoError(t, err)
	return db
}

func TestGet_AbsentKey(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	v, err := r.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestSetGetOverwrite(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "k", []byte("one")))
	v, err := r.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("one"), v)

	require.NoError(t, r.Set(ctx, "k", []byte("two")))
	v, err = r.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), v)
}

func TestDelete(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "k", []byte("v")))
	require.NoError(t, r.Delete(ctx, "k"))

	v, err := r.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, v)

	// deleting an absent key is not an error
	require.NoError(t, r.Delete(ctx, "k"))
}

func TestClear(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, KeyLastSyncTime, []byte("a")))
	require.NoError(t, r.Set(ctx, KeyLastFullRefresh, []byte("b")))
	require.NoError(t, r.Clear(ctx))

	v, err := r.Get(ctx, KeyLastSyncTime)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestTimeRoundTrip(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	// absent key reads as the zero time
	got, err := r.GetTime(ctx, KeyLastSyncTime)
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	now := time.Now()
	require.NoError(t, r.SetTime(ctx, KeyLastSyncTime, now))

	got, err = r.GetTime(ctx, KeyLastSyncTime)
	require.NoError(t, err)
	assert.True(t, got.Equal(now))
}

func TestGetTime_Malformed(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, KeyLastSyncTime, []byte("not a time")))
	_, err := r.GetTime(ctx, KeyLastSyncTime)
	assert.Error(t, err)
}
