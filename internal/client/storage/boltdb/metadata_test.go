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

func TestGetMeta_NotFound(t *testing.T) {
	store := createTestStorage(t)

	meta, err := store.GetMeta(context.Background())
	assert.ErrorIs(t, err, storage.ErrMetaNotFound)
	assert.Nil(t, meta)
}

func TestSaveAndGetMeta(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	meta := &models.Meta{TsUpload: ts, Unuploadeds: map[string]bool{"a": true, "b": true}}
	require.NoError(t, store.SaveMeta(ctx, meta))

	got, err := store.GetMeta(ctx)
	require.NoError(t, err)
	assert.True(t, ts.Equal(got.TsUpload))
	assert.Equal(t, []string{"a", "b"}, got.UnuploadedIDs())

	// Запись заменяется целиком
	require.NoError(t, store.SaveMeta(ctx, &models.Meta{TsUpload: ts}))
	got, err = store.GetMeta(ctx)
	require.NoError(t, err)
	assert.Empty(t, got.UnuploadedIDs())
}

func TestMeta_NotPartOfDocuments(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	meta := models.DefaultMeta()
	require.NoError(t, store.SaveMeta(ctx, &meta))

	docs, err := store.AllDocs(ctx)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestSaveAndGetCheckpoint(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	// Изначально, если чекпоинт не сохранён, ожидаем 0
	seq, err := store.GetCheckpoint(ctx, "pull")
	require.NoError(t, err)
	assert.Equal(t, int64(0), seq)

	require.NoError(t, store.SaveCheckpoint(ctx, "pull", 42))
	require.NoError(t, store.SaveCheckpoint(ctx, "push", 7))

	seq, err = store.GetCheckpoint(ctx, "pull")
	require.NoError(t, err)
	assert.Equal(t, int64(42), seq)

	seq, err = store.GetCheckpoint(ctx, "push")
	require.NoError(t, err)
	assert.Equal(t, int64(7), seq)
}
