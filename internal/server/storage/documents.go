package storage

import (
	"context"

	"github.com/iudanet/docsync/internal/models"
)

//go:generate moq -out documents_mock.go . DocumentStorage

// ChangesPage is one page of a database change log
type ChangesPage struct {
	Docs    []models.Document
	LastSeq int64 // LastSeq seq последнего документа страницы (since, если страница пуста)
	Pending int64 // Pending сколько изменений осталось после страницы
}

// DatabaseInfo summarizes one replicated database
type DatabaseInfo struct {
	Name      string
	Documents int64
	LastSeq   int64
}

// DocumentStorage defines interface for replicated document persistence.
// Every database (store name) has its own sequence counter.
type DocumentStorage interface {
	// SaveDocument stores doc in db if it wins over the stored revision.
	// Returns true if the document was written, false if the same revision is
	// already stored, and ErrConflict if the stored revision wins.
	SaveDocument(ctx context.Context, db string, doc *models.Document) (bool, error)

	// GetDocument retrieves a document, tombstones included
	// Returns ErrDocumentNotFound if document doesn't exist
	GetDocument(ctx context.Context, db, id string) (*models.Document, error)

	// ChangesSince returns up to limit documents written after since, ordered by seq
	ChangesSince(ctx context.Context, db string, since int64, limit int) (*ChangesPage, error)

	// ListDatabases returns every database that has at least one document
	ListDatabases(ctx context.Context) ([]DatabaseInfo, error)

	// Ping checks that the database is reachable
	Ping(ctx context.Context) error
}
