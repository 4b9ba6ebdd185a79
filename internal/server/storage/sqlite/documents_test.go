package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/docsync/internal/models"
	"github.com/iudanet/docsync/internal/server/storage"
)

func setupTestStorage(t *testing.T) *Storage {
	t.Helper()

	// Используем in-memory database для тестов
	s, err := New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func testDoc(id, rev string) *models.Document {
	return &models.Document{
		ID:        id,
		Rev:       rev,
		CreatedAt: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		CreatedBy: "alice",
		Fields:    models.Fields{"text": "rev " + rev},
	}
}

func TestNew_FileDatabase(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "server.db")

	s, err := New(ctx, path)
	require.NoError(t, err)
	_, err = s.SaveDocument(ctx, "todos_alice", testDoc("a", "1-aaa"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// Миграции идемпотентны, данные сохраняются между запусками
	s, err = New(ctx, path)
	require.NoError(t, err)
	defer s.Close()

	doc, err := s.GetDocument(ctx, "todos_alice", "a")
	require.NoError(t, err)
	assert.Equal(t, "1-aaa", doc.Rev)
	assert.NoError(t, s.Ping(ctx))
}

func TestSaveDocument(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)

	saved, err := s.SaveDocument(ctx, "todos_alice", testDoc("a", "2-bbb"))
	require.NoError(t, err)
	require.True(t, saved)

	tests := []struct {
		wantErr   error
		name      string
		rev       string
		wantSaved bool
	}{
		{name: "same revision is skipped", rev: "2-bbb", wantSaved: false},
		{name: "older generation conflicts", rev: "1-zzz", wantErr: storage.ErrConflict},
		{name: "same generation smaller hash conflicts", rev: "2-aaa", wantErr: storage.ErrConflict},
		{name: "same generation larger hash wins", rev: "2-ccc", wantSaved: true},
		{name: "newer generation wins", rev: "3-aaa", wantSaved: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			saved, err := s.SaveDocument(ctx, "todos_alice", testDoc("a", tt.rev))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSaved, saved)
		})
	}

	doc, err := s.GetDocument(ctx, "todos_alice", "a")
	require.NoError(t, err)
	assert.Equal(t, "3-aaa", doc.Rev)
	assert.Equal(t, "rev 3-aaa", doc.Field("text"))
	assert.Equal(t, "alice", doc.CreatedBy)
}

func TestSaveDocument_RequiresIDAndRev(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)

	_, err := s.SaveDocument(ctx, "todos_alice", &models.Document{ID: "a"})
	assert.Error(t, err)
	_, err = s.SaveDocument(ctx, "todos_alice", &models.Document{Rev: "1-a"})
	assert.Error(t, err)
}

func TestGetDocument(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)

	_, err := s.GetDocument(ctx, "todos_alice", "missing")
	assert.ErrorIs(t, err, storage.ErrDocumentNotFound)

	deletedAt := time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC)
	tombstone := testDoc("gone", "2-aaa")
	tombstone.DeletedAt = &deletedAt
	tombstone.DeletedBy = "bob"
	_, err = s.SaveDocument(ctx, "todos_alice", tombstone)
	require.NoError(t, err)

	doc, err := s.GetDocument(ctx, "todos_alice", "gone")
	require.NoError(t, err)
	require.NotNil(t, doc.DeletedAt)
	assert.True(t, doc.DeletedAt.Equal(deletedAt))
	assert.Equal(t, "bob", doc.DeletedBy)

	var deleted int
	require.NoError(t, s.DB().QueryRow(`SELECT deleted FROM documents WHERE id = 'gone'`).Scan(&deleted))
	assert.Equal(t, 1, deleted)

	// Базы изолированы друг от друга
	_, err = s.GetDocument(ctx, "todos_bob", "gone")
	assert.ErrorIs(t, err, storage.ErrDocumentNotFound)
}

func TestChangesSince(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)

	for i := 1; i <= 5; i++ {
		_, err := s.SaveDocument(ctx, "todos_alice", testDoc(fmt.Sprintf("doc-%d", i), "1-aaa"))
		require.NoError(t, err)
	}
	_, err := s.SaveDocument(ctx, "todos_bob", testDoc("other", "1-aaa"))
	require.NoError(t, err)

	page, err := s.ChangesSince(ctx, "todos_alice", 0, 2)
	require.NoError(t, err)
	assert.Len(t, page.Docs, 2)
	assert.Equal(t, "doc-1", page.Docs[0].ID)
	assert.Equal(t, int64(2), page.LastSeq)
	assert.Equal(t, int64(3), page.Pending)

	page, err = s.ChangesSince(ctx, "todos_alice", page.LastSeq, 0)
	require.NoError(t, err)
	assert.Len(t, page.Docs, 3)
	assert.Equal(t, int64(5), page.LastSeq)
	assert.Equal(t, int64(0), page.Pending)

	// Перезапись перемещает документ в конец журнала
	_, err = s.SaveDocument(ctx, "todos_alice", testDoc("doc-1", "2-aaa"))
	require.NoError(t, err)

	page, err = s.ChangesSince(ctx, "todos_alice", 5, 10)
	require.NoError(t, err)
	require.Len(t, page.Docs, 1)
	assert.Equal(t, "doc-1", page.Docs[0].ID)
	assert.Equal(t, int64(6), page.LastSeq)

	page, err = s.ChangesSince(ctx, "todos_alice", 6, 10)
	require.NoError(t, err)
	assert.Empty(t, page.Docs)
	assert.NotNil(t, page.Docs)
	assert.Equal(t, int64(6), page.LastSeq)

	page, err = s.ChangesSince(ctx, "todos_bob", 0, 10)
	require.NoError(t, err)
	require.Len(t, page.Docs, 1)
	assert.Equal(t, int64(1), page.LastSeq)
}

func TestListDatabases(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)

	dbs, err := s.ListDatabases(ctx)
	require.NoError(t, err)
	assert.Empty(t, dbs)

	for _, id := range []string{"a", "b"} {
		_, err := s.SaveDocument(ctx, "todos_alice", testDoc(id, "1-aaa"))
		require.NoError(t, err)
	}
	_, err = s.SaveDocument(ctx, "profile_alice", testDoc("profile", "1-aaa"))
	require.NoError(t, err)

	dbs, err = s.ListDatabases(ctx)
	require.NoError(t, err)
	assert.Equal(t, []storage.DatabaseInfo{
		{Name: "profile_alice", Documents: 1, LastSeq: 1},
		{Name: "todos_alice", Documents: 2, LastSeq: 2},
	}, dbs)
}
