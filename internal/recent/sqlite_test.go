package recent

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "nested", "recent.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

var base = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func TestSQLiteStore_UpsertAndGet(t *testing.T) {
	store := openTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, Record{BotID: "b1", BotName: "Recorder", MeetingURL: "https://meet/x", LastAccessed: base}))
	require.NoError(t, store.Upsert(ctx, Record{BotID: "b1", LastAccessed: base.Add(time.Minute)}))

	rec, err := store.Get(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, "Recorder", rec.BotName, "empty name must not overwrite")
	assert.Equal(t, "https://meet/x", rec.MeetingURL)
	assert.Equal(t, 2, rec.AccessCount)
	assert.True(t, rec.FirstSeen.Equal(base))
	assert.True(t, rec.LastAccessed.Equal(base.Add(time.Minute)))
	assert.True(t, rec.CreatedAt.IsZero())
}

func TestSQLiteStore_GetMissing(t *testing.T) {
	store := openTestSQLite(t)

	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStore_UpsertRequiresID(t *testing.T) {
	store := openTestSQLite(t)
	assert.Error(t, store.Upsert(context.Background(), Record{}))
}

func TestSQLiteStore_ListOrders(t *testing.T) {
	store := openTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, Record{BotID: "old-popular", LastAccessed: base}))
	require.NoError(t, store.Upsert(ctx, Record{BotID: "old-popular", LastAccessed: base.Add(time.Second)}))
	require.NoError(t, store.Upsert(ctx, Record{BotID: "old-popular", LastAccessed: base.Add(2 * time.Second)}))
	require.NoError(t, store.Upsert(ctx, Record{BotID: "newest", LastAccessed: base.Add(time.Hour)}))
	require.NoError(t, store.Upsert(ctx, Record{BotID: "middle", LastAccessed: base.Add(time.Minute)}))

	recent, err := store.List(ctx, OrderRecent, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"newest", "middle", "old-popular"}, ids(recent))

	accessed, err := store.List(ctx, OrderAccessed, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"old-popular", "newest"}, ids(accessed))
}

func TestSQLiteStore_Delete(t *testing.T) {
	store := openTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, Record{BotID: "b1"}))
	require.NoError(t, store.Delete(ctx, "b1"))
	require.NoError(t, store.Delete(ctx, "b1"))

	_, err := store.Get(ctx, "b1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStore_ConcurrentUpserts(t *testing.T) {
	store := openTestSQLite(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.Upsert(ctx, Record{BotID: "shared"}))
		}()
	}
	wg.Wait()

	rec, err := store.Get(ctx, "shared")
	require.NoError(t, err)
	assert.Equal(t, 20, rec.AccessCount)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	store, err := Open(ctx, Options{Type: BackendNone})
	require.NoError(t, err)
	assert.IsType(t, NopStore{}, store)

	store, err = Open(ctx, Options{Type: BackendSQLite, Path: filepath.Join(t.TempDir(), "r.db")})
	require.NoError(t, err)
	assert.NoError(t, store.Close())

	_, err = Open(ctx, Options{Type: BackendRedis})
	assert.Error(t, err)

	_, err = Open(ctx, Options{Type: "etcd"})
	assert.Error(t, err)
}

func TestParseOrder(t *testing.T) {
	o, err := ParseOrder("")
	require.NoError(t, err)
	assert.Equal(t, OrderRecent, o)

	o, err = ParseOrder("accessed")
	require.NoError(t, err)
	assert.Equal(t, OrderAccessed, o)

	_, err = ParseOrder("popular")
	assert.Error(t, err)
}

func ids(recs []Record) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.BotID)
	}
	return out
}
