package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/iudanet/docsync/internal/models"
)

// Adapter wraps DocumentStorage with fail-safe reads, create-or-update
// and id generation. It keeps no state of its own.
type Adapter struct {
	docs DocumentStorage
}

// NewAdapter creates a new adapter over the given storage
func NewAdapter(docs DocumentStorage) *Adapter {
	return &Adapter{docs: docs}
}

// Storage returns the wrapped storage
func (a *Adapter) Storage() DocumentStorage {
	return a.docs
}

// GetOrNull retrieves a document, returning (nil, nil) when it doesn't exist.
// Any other error is propagated.
func (a *Adapter) GetOrNull(ctx context.Context, id string) (*models.Document, error) {
	doc, err := a.docs.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrDocumentNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return doc, nil
}

// Upsert fetches the document (or starts from one holding defaults), merges patch into it and persists it.
func (a *Adapter) Upsert(ctx context.Context, id string, defaults, patch models.Fields) (*models.Document, error) {
	doc, err := a.GetOrNull(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	if doc == nil {
		doc = &models.Document{ID: id, Fields: defaults.Clone()}
	}

	merged := doc.Merge(patch)
	saved, err := a.docs.Put(ctx, &merged)
	if err != nil {
		return nil, fmt.Errorf("failed to save document: %w", err)
	}
	return saved, nil
}

// GenerateID returns a new time-prefixed random id in canonical 8-4-4-4-12 form.
func (a *Adapter) GenerateID() string {
	return GenerateID()
}

// GenerateID returns a UUIDv7: 48 bits of unix milliseconds followed by random bits,
// so ids sort roughly by creation time.
func GenerateID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// NewV7 падает только при отказе источника случайности
		return uuid.NewString()
	}
	return id.String()
}

// ListAll returns every document including tombstones
func (a *Adapter) ListAll(ctx context.Context) ([]models.Document, error) {
	docs, err := a.docs.AllDocs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return docs, nil
}
