package storage

import (
	"context"

	"github.com/iudanet/docsync/internal/models"
)

//go:generate moq -out documents_mock.go . DocumentStorage
//go:generate moq -out metadata_mock.go . MetadataStorage

// SinceNow starts a change feed at the current end of the log without replaying history.
const SinceNow int64 = -1

// ChangesOptions configures a change feed subscription
type ChangesOptions struct {
	// Since is the sequence after which changes are delivered, or SinceNow
	Since int64
	// Live keeps the feed open and delivers future changes
	Live bool
	// IncludeDocs attaches the document body to every change
	IncludeDocs bool
}

// Change is a single entry of the change feed
type Change struct {
	Doc     *models.Document // nil unless IncludeDocs is set
	ID      string
	Seq     int64
	Deleted bool // the record was physically removed
}

// Feed is a cancellable stream of changes.
// Cancel is synchronous and idempotent: after it returns no more changes are delivered
// and the channel is closed.
type Feed interface {
	Changes() <-chan Change
	Cancel()
}

// DocumentStorage defines the persistent document store capability used by the client.
// It is the lowest storage layer: it knows nothing about upload tracking or memory mirrors.
type DocumentStorage interface {
	// Get retrieves a document by ID
	// Returns ErrDocumentNotFound if document doesn't exist
	Get(ctx context.Context, id string) (*models.Document, error)

	// Put stores a document and returns it with the newly assigned revision.
	// doc.Rev must equal the stored revision ("" for new documents),
	// otherwise ErrConflict is returned.
	Put(ctx context.Context, doc *models.Document) (*models.Document, error)

	// Remove physically deletes a document (hard delete)
	// Returns ErrDocumentNotFound or ErrConflict
	Remove(ctx context.Context, doc *models.Document) error

	// AllDocs returns every stored document, tombstones included
	AllDocs(ctx context.Context) ([]models.Document, error)

	// Changes subscribes to the change feed
	Changes(ctx context.Context, opts ChangesOptions) (Feed, error)

	// Close releases the underlying database
	Close() error
}

// ReplicaStorage is the part of the local store used by replication.
type ReplicaStorage interface {
	// ChangedSince returns documents written after seq and the last sequence seen
	ChangedSince(ctx context.Context, seq int64) ([]models.Document, int64, error)

	// ApplyReplicated writes incoming documents that win over the local revision.
	// before is called with the winners before the write is committed.
	// Returns the documents that were actually written.
	ApplyReplicated(ctx context.Context, docs []models.Document, before func([]models.Document)) ([]models.Document, error)

	// GetCheckpoint returns the saved replication checkpoint (0 if none)
	GetCheckpoint(ctx context.Context, key string) (int64, error)

	// SaveCheckpoint persists the replication checkpoint
	SaveCheckpoint(ctx context.Context, key string, seq int64) error
}

// MetadataStorage defines interface for storing the store metadata record
type MetadataStorage interface {
	// GetMeta retrieves the metadata record
	// Returns ErrMetaNotFound if nothing has been saved yet
	GetMeta(ctx context.Context) (*models.Meta, error)

	// SaveMeta replaces the metadata record
	SaveMeta(ctx context.Context, meta *models.Meta) error

	// Close releases the underlying database
	Close() error
}
