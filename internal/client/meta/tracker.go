// Package meta tracks which documents of a store still have to be uploaded
// and when the last successful upload happened.
package meta

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/iudanet/docsync/internal/client/storage"
	"github.com/iudanet/docsync/internal/models"
)

// Tracker keeps a cached copy of the metadata record and persists every change.
// All mutations are serialized: the lock is held from reading the current
// record until the new one is persisted and published.
type Tracker struct {
	store  storage.MetadataStorage
	logger *slog.Logger
	meta   models.Meta
	mu     sync.RWMutex
}

// NewTracker creates a tracker with the default record cached
func NewTracker(store storage.MetadataStorage, logger *slog.Logger) *Tracker {
	return &Tracker{
		store:  store,
		logger: logger,
		meta:   models.DefaultMeta(),
	}
}

// Load reads the persisted record, falling back to defaults when nothing was saved.
func (t *Tracker) Load(ctx context.Context) (models.Meta, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	stored, err := t.store.GetMeta(ctx)
	if err != nil {
		if !errors.Is(err, storage.ErrMetaNotFound) {
			return models.Meta{}, fmt.Errorf("failed to load meta: %w", err)
		}
		t.logger.Debug("No metadata record, using defaults")
		t.meta = models.DefaultMeta()
		return t.meta.Clone(), nil
	}

	t.meta = stored.Clone()
	return t.meta.Clone(), nil
}

// Update persists the current record with patch applied and caches the result.
func (t *Tracker) Update(ctx context.Context, patch models.MetaPatch) (models.Meta, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.update(ctx, patch)
}

// SetUnuploaded adds id to the pending set (flag true) or removes it (flag false).
func (t *Tracker) SetUnuploaded(ctx context.Context, id string, flag bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	pending := t.meta.Clone().Unuploadeds
	if flag {
		pending[id] = true
	} else {
		delete(pending, id)
	}

	_, err := t.update(ctx, models.MetaPatch{Unuploadeds: pending})
	return err
}

// CompleteUpload records a successful upload: ids leave the pending set and
// tsUpload moves to at. The watermark never moves backwards.
func (t *Tracker) CompleteUpload(ctx context.Context, ids []string, at time.Time) (models.Meta, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	pending := t.meta.Clone().Unuploadeds
	for _, id := range ids {
		delete(pending, id)
	}

	patch := models.MetaPatch{Unuploadeds: pending}
	if at.After(t.meta.TsUpload) {
		patch.TsUpload = &at
	}
	return t.update(ctx, patch)
}

// IsUploaded reports whether id has no pending local changes
func (t *Tracker) IsUploaded(id string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return !t.meta.Unuploadeds[id]
}

// CountUnuploaded returns the number of pending documents
func (t *Tracker) CountUnuploaded() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.meta.Unuploadeds)
}

// Snapshot returns a copy of the cached record
func (t *Tracker) Snapshot() models.Meta {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.meta.Clone()
}

// update сохраняет запись с примененным patch и только после успеха заменяет кэш.
// Вызывается под t.mu.
func (t *Tracker) update(ctx context.Context, patch models.MetaPatch) (models.Meta, error) {
	next := t.meta.Apply(patch)
	if err := t.store.SaveMeta(ctx, &next); err != nil {
		return models.Meta{}, fmt.Errorf("failed to save meta: %w", err)
	}
	t.meta = next
	return next.Clone(), nil
}
