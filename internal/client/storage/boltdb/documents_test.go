package boltdb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/docsync/internal/client/storage"
	"github.com/iudanet/docsync/internal/models"
)

func TestGet_NotFound(t *testing.T) {
	store := createTestStorage(t)

	doc, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrDocumentNotFound)
	assert.Nil(t, doc)
}

func TestPut_AssignsRevisions(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	first, err := store.Put(ctx, &models.Document{ID: "a", Fields: models.Fields{"text": "one"}})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Generation())

	edited := first.Merge(models.Fields{"text": "two"})
	second, err := store.Put(ctx, &edited)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Generation())
	assert.NotEqual(t, first.Rev, second.Rev)

	got, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, second.Rev, got.Rev)
	assert.Equal(t, "two", got.Field("text"))
}

func TestPut_Conflict(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	first, err := store.Put(ctx, &models.Document{ID: "a"})
	require.NoError(t, err)
	_, err = store.Put(ctx, &models.Document{ID: "a", Rev: first.Rev, Fields: models.Fields{"n": 1.0}})
	require.NoError(t, err)

	tests := []struct {
		doc  *models.Document
		name string
	}{
		{name: "stale revision", doc: &models.Document{ID: "a", Rev: first.Rev}},
		{name: "missing revision for existing document", doc: &models.Document{ID: "a"}},
		{name: "revision for new document", doc: &models.Document{ID: "b", Rev: "1-abc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Put(ctx, tt.doc)
			assert.ErrorIs(t, err, storage.ErrConflict)
		})
	}
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	saved, err := store.Put(ctx, &models.Document{ID: "a"})
	require.NoError(t, err)

	err = store.Remove(ctx, &models.Document{ID: "a", Rev: "1-stale"})
	assert.ErrorIs(t, err, storage.ErrConflict)

	require.NoError(t, store.Remove(ctx, saved))

	_, err = store.Get(ctx, "a")
	assert.ErrorIs(t, err, storage.ErrDocumentNotFound)

	err = store.Remove(ctx, saved)
	assert.ErrorIs(t, err, storage.ErrDocumentNotFound)

	// Вместо документа в ленте остается маркер удаления
	docs, last, err := store.ChangedSince(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), last)
	require.Len(t, docs, 1)
	assert.Equal(t, "a", docs[0].ID)
	assert.True(t, docs[0].Deleted)
	assert.Equal(t, 2, docs[0].Generation())
	assert.True(t, docs[0].IsNewerThan(saved))

	all, err := store.AllDocs(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestPut_AfterRemoveContinuesRevisions(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	saved, err := store.Put(ctx, &models.Document{ID: "a"})
	require.NoError(t, err)
	require.NoError(t, store.Remove(ctx, saved))

	again, err := store.Put(ctx, &models.Document{ID: "a", Fields: models.Fields{"v": "back"}})
	require.NoError(t, err)
	assert.Equal(t, 3, again.Generation())

	docs, _, err := store.ChangedSince(ctx, 0)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.False(t, docs[0].Deleted)
	assert.Equal(t, again.Rev, docs[0].Rev)
}

func TestAllDocs_IncludesTombstones(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)
	now := time.Now().UTC()

	_, err := store.Put(ctx, &models.Document{ID: "b"})
	require.NoError(t, err)
	_, err = store.Put(ctx, &models.Document{ID: "a", DeletedAt: &now})
	require.NoError(t, err)

	docs, err := store.AllDocs(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "a", docs[0].ID)
	assert.True(t, docs[0].IsTombstone())
	assert.Equal(t, "b", docs[1].ID)
}

func TestChangedSince(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	a, err := store.Put(ctx, &models.Document{ID: "a"})
	require.NoError(t, err)
	_, err = store.Put(ctx, &models.Document{ID: "b"})
	require.NoError(t, err)

	docs, last, err := store.ChangedSince(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), last)
	require.Len(t, docs, 2)
	assert.Equal(t, "a", docs[0].ID)
	assert.Equal(t, "b", docs[1].ID)

	// Повторная запись переносит документ в конец ленты
	edited := a.Merge(models.Fields{"n": 1.0})
	_, err = store.Put(ctx, &edited)
	require.NoError(t, err)

	docs, last, err = store.ChangedSince(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), last)
	require.Len(t, docs, 1)
	assert.Equal(t, "a", docs[0].ID)

	docs, last, err = store.ChangedSince(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), last)
	assert.Empty(t, docs)
}

func TestApplyReplicated(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	local, err := store.Put(ctx, &models.Document{ID: "a", Fields: models.Fields{"v": "local"}})
	require.NoError(t, err)

	incoming := []models.Document{
		{ID: "a", Rev: "2-ffff", Fields: models.Fields{"v": "remote"}},
		{ID: "b", Rev: "1-aaaa", Fields: models.Fields{"v": "new"}},
		{ID: "c", Rev: "3-bbbb", Deleted: true},
		{ID: "d", Rev: "0-old"},
	}
	_, err = store.Put(ctx, &models.Document{ID: "d"})
	require.NoError(t, err)

	var seen []string
	winners, err := store.ApplyReplicated(ctx, incoming, func(docs []models.Document) {
		for _, d := range docs {
			seen = append(seen, d.ID)
		}
	})
	require.NoError(t, err)

	require.Len(t, winners, 2)
	assert.Equal(t, []string{"a", "b"}, seen)

	got, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "2-ffff", got.Rev, "replicated revision is kept as-is")
	assert.Equal(t, "remote", got.Field("v"))
	assert.NotEqual(t, local.Rev, got.Rev)

	_, err = store.Get(ctx, "c")
	assert.ErrorIs(t, err, storage.ErrDocumentNotFound)

	// Повтор той же пачки ничего не пишет
	winners, err = store.ApplyReplicated(ctx, incoming, nil)
	require.NoError(t, err)
	assert.Empty(t, winners)
}

func TestApplyReplicated_RemovalMarkerDeletesLocal(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	_, err := store.Put(ctx, &models.Document{ID: "a"})
	require.NoError(t, err)

	winners, err := store.ApplyReplicated(ctx, []models.Document{{ID: "a", Rev: "5-abc", Deleted: true}}, nil)
	require.NoError(t, err)
	require.Len(t, winners, 1)

	_, err = store.Get(ctx, "a")
	assert.ErrorIs(t, err, storage.ErrDocumentNotFound)
}

func TestApplyReplicated_OlderRevisionAfterRemove(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)
	now := time.Now().UTC()

	// Документ пришел с сервера уже tombstone-ом, затем удален локально
	_, err := store.ApplyReplicated(ctx, []models.Document{{ID: "a", Rev: "2-aaaa", DeletedAt: &now}}, nil)
	require.NoError(t, err)
	doc, err := store.Get(ctx, "a")
	require.NoError(t, err)
	require.NoError(t, store.Remove(ctx, doc))

	tests := []struct {
		doc  models.Document
		name string
	}{
		{name: "same tombstone echoed back", doc: models.Document{ID: "a", Rev: "2-aaaa", DeletedAt: &now}},
		{name: "stale live revision", doc: models.Document{ID: "a", Rev: "1-bbbb"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			winners, err := store.ApplyReplicated(ctx, []models.Document{tt.doc}, nil)
			require.NoError(t, err)
			assert.Empty(t, winners)

			_, err = store.Get(ctx, "a")
			assert.ErrorIs(t, err, storage.ErrDocumentNotFound)
		})
	}

	// Более новая ревизия с сервера восстанавливает документ
	winners, err := store.ApplyReplicated(ctx, []models.Document{{ID: "a", Rev: "4-cccc", Fields: models.Fields{"v": "revived"}}}, nil)
	require.NoError(t, err)
	require.Len(t, winners, 1)

	got, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "revived", got.Field("v"))

	docs, _, err := store.ChangedSince(ctx, 0)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.False(t, docs[0].Deleted)
}
