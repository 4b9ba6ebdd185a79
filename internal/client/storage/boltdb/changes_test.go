package boltdb

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/docsync/internal/client/storage"
	"github.com/iudanet/docsync/internal/models"
)

func receive(t *testing.T, feed storage.Feed) storage.Change {
	t.Helper()
	select {
	case c, ok := <-feed.Changes():
		require.True(t, ok, "feed closed unexpectedly")
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for change")
		return storage.Change{}
	}
}

func TestChanges_LiveFromNow(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	_, err := store.Put(ctx, &models.Document{ID: "old"})
	require.NoError(t, err)

	feed, err := store.Changes(ctx, storage.ChangesOptions{Since: storage.SinceNow, Live: true, IncludeDocs: true})
	require.NoError(t, err)
	defer feed.Cancel()

	saved, err := store.Put(ctx, &models.Document{ID: "a", Fields: models.Fields{"text": "hi"}})
	require.NoError(t, err)

	c := receive(t, feed)
	assert.Equal(t, "a", c.ID)
	assert.Equal(t, int64(2), c.Seq)
	require.NotNil(t, c.Doc)
	assert.Equal(t, saved.Rev, c.Doc.Rev)
	assert.Equal(t, "hi", c.Doc.Field("text"))

	require.NoError(t, store.Remove(ctx, saved))

	c = receive(t, feed)
	assert.Equal(t, "a", c.ID)
	assert.True(t, c.Deleted)
	require.NotNil(t, c.Doc)
	assert.True(t, c.Doc.IsTombstone())
}

func TestChanges_ReplayThenClose(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	for _, id := range []string{"a", "b", "c"} {
		_, err := store.Put(ctx, &models.Document{ID: id})
		require.NoError(t, err)
	}

	feed, err := store.Changes(ctx, storage.ChangesOptions{Since: 1})
	require.NoError(t, err)
	defer feed.Cancel()

	var ids []string
	for c := range feed.Changes() {
		assert.Nil(t, c.Doc)
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"b", "c"}, ids)
}

func TestChanges_ReplicatedWritesAreDelivered(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	feed, err := store.Changes(ctx, storage.ChangesOptions{Since: storage.SinceNow, Live: true, IncludeDocs: true})
	require.NoError(t, err)
	defer feed.Cancel()

	_, err = store.ApplyReplicated(ctx, []models.Document{{ID: "r", Rev: "1-abc"}}, nil)
	require.NoError(t, err)

	c := receive(t, feed)
	assert.Equal(t, "r", c.ID)
	assert.Equal(t, "1-abc", c.Doc.Rev)
}

func TestChanges_CancelIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	feed, err := store.Changes(ctx, storage.ChangesOptions{Since: storage.SinceNow, Live: true})
	require.NoError(t, err)

	feed.Cancel()
	feed.Cancel()

	_, ok := <-feed.Changes()
	assert.False(t, ok)

	// Запись после отмены никому не доставляется и не блокирует
	_, err = store.Put(ctx, &models.Document{ID: "a"})
	require.NoError(t, err)
}

func TestChanges_ContextCancel(t *testing.T) {
	store := createTestStorage(t)
	ctx, cancel := context.WithCancel(context.Background())

	feed, err := store.Changes(ctx, storage.ChangesOptions{Since: storage.SinceNow, Live: true})
	require.NoError(t, err)

	cancel()

	select {
	case _, ok := <-feed.Changes():
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("feed was not closed after context cancel")
	}
}

func TestChanges_CloseStopsFeeds(t *testing.T) {
	ctx := context.Background()
	store, err := New(ctx, t.TempDir()+"/test.db")
	require.NoError(t, err)

	feed, err := store.Changes(ctx, storage.ChangesOptions{Since: storage.SinceNow, Live: true})
	require.NoError(t, err)

	require.NoError(t, store.Close())

	_, ok := <-feed.Changes()
	assert.False(t, ok)
	feed.Cancel()

	_, err = store.Changes(ctx, storage.ChangesOptions{Live: true})
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}

func TestChanges_SlowReaderDoesNotBlockWriters(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	feed, err := store.Changes(ctx, storage.ChangesOptions{Since: storage.SinceNow, Live: true})
	require.NoError(t, err)
	defer feed.Cancel()

	for i := range 50 {
		_, err := store.Put(ctx, &models.Document{ID: fmt.Sprintf("doc-%02d", i)})
		require.NoError(t, err)
	}

	var last int64
	for range 50 {
		c := receive(t, feed)
		assert.Greater(t, c.Seq, last)
		last = c.Seq
	}
}
