package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/docsync/internal/models"
	"github.com/iudanet/docsync/internal/server/storage"
)

// SaveDocument stores doc in db if its revision wins over the stored one.
// The write gets the next seq of the database.
func (s *Storage) SaveDocument(ctx context.Context, db string, doc *models.Document) (bool, error) {
	if doc.ID == "" || doc.Rev == "" {
		return false, fmt.Errorf("document must have _id and _rev")
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return false, fmt.Errorf("failed to marshal document: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var storedRev string
	err = tx.QueryRowContext(ctx, `SELECT rev FROM documents WHERE db = ? AND id = ?`, db, doc.ID).Scan(&storedRev)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return false, fmt.Errorf("failed to check existing document: %w", err)
	default:
		// Та же ревизия уже сохранена: клиент повторно отправил то, что получил
		if storedRev == doc.Rev {
			return false, nil
		}
		stored := models.Document{ID: doc.ID, Rev: storedRev}
		if !doc.IsNewerThan(&stored) {
			return false, storage.ErrConflict
		}
	}

	var seq int64
	err = tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM documents WHERE db = ?`, db).Scan(&seq)
	if err != nil {
		return false, fmt.Errorf("failed to allocate seq: %w", err)
	}

	query := `
		INSERT INTO documents (db, id, rev, seq, deleted, body, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (db, id) DO UPDATE SET
			rev = excluded.rev,
			seq = excluded.seq,
			deleted = excluded.deleted,
			body = excluded.body,
			updated_at = excluded.updated_at
	`
	_, err = tx.ExecContext(ctx, query,
		db,
		doc.ID,
		doc.Rev,
		seq,
		boolToInt(doc.IsTombstone()),
		body,
		time.Now().Unix(),
	)
	if err != nil {
		return false, fmt.Errorf("failed to save document: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit document: %w", err)
	}

	return true, nil
}

// GetDocument retrieves a document by id, tombstones included
func (s *Storage) GetDocument(ctx context.Context, db, id string) (*models.Document, error) {
	var body []byte
	err := s.db.QueryRowContext(ctx, `SELECT body FROM documents WHERE db = ? AND id = ?`, db, id).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	var doc models.Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document: %w", err)
	}
	return &doc, nil
}

// ChangesSince returns up to limit documents with seq greater than since.
// A limit of zero or less returns everything.
func (s *Storage) ChangesSince(ctx context.Context, db string, since int64, limit int) (*storage.ChangesPage, error) {
	query := `SELECT seq, body FROM documents WHERE db = ? AND seq > ? ORDER BY seq`
	args := []any{db, since}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query changes: %w", err)
	}
	defer rows.Close()

	page := &storage.ChangesPage{Docs: []models.Document{}, LastSeq: since}
	for rows.Next() {
		var seq int64
		var body []byte
		if err := rows.Scan(&seq, &body); err != nil {
			return nil, fmt.Errorf("failed to scan change: %w", err)
		}

		var doc models.Document
		if err := json.Unmarshal(body, &doc); err != nil {
			return nil, fmt.Errorf("failed to unmarshal document %d: %w", seq, err)
		}
		page.Docs = append(page.Docs, doc)
		page.LastSeq = seq
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate changes: %w", err)
	}
	rows.Close()

	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM documents WHERE db = ? AND seq > ?`, db, page.LastSeq,
	).Scan(&page.Pending)
	if err != nil {
		return nil, fmt.Errorf("failed to count pending changes: %w", err)
	}

	return page, nil
}

// ListDatabases returns the databases known to the server
func (s *Storage) ListDatabases(ctx context.Context) ([]storage.DatabaseInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT db, COUNT(*), MAX(seq)
		FROM documents
		GROUP BY db
		ORDER BY db
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list databases: %w", err)
	}
	defer rows.Close()

	dbs := []storage.DatabaseInfo{}
	for rows.Next() {
		var info storage.DatabaseInfo
		if err := rows.Scan(&info.Name, &info.Documents, &info.LastSeq); err != nil {
			return nil, fmt.Errorf("failed to scan database: %w", err)
		}
		dbs = append(dbs, info)
	}

	return dbs, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
