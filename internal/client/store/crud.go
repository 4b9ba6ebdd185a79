package store

import (
	"context"
	"fmt"
	"time"

	"github.com/iudanet/docsync/internal/client/meta"
	"github.com/iudanet/docsync/internal/client/replicate"
	"github.com/iudanet/docsync/internal/client/storage"
	"github.com/iudanet/docsync/internal/models"
	"github.com/iudanet/docsync/internal/validation"
)

// now is replaced in tests
var now = func() time.Time {
	return time.Now().UTC()
}

// ready returns the collaborators of an initialized store
func (s *Store) ready() (*storage.Adapter, *meta.Tracker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateInitialized {
		return nil, nil, ErrNotInitialized
	}
	return s.adapter, s.tracker, nil
}

// AddItem creates a document with a generated id and returns the id
func (s *Store) AddItem(ctx context.Context, fields models.Fields, actor string) (string, error) {
	adapter, _, err := s.ready()
	if err != nil {
		return "", err
	}

	id := adapter.GenerateID()
	if err := s.AddItemWithID(ctx, id, fields, actor); err != nil {
		return "", err
	}
	return id, nil
}

// AddItemWithID marks id unuploaded, then creates the document
func (s *Store) AddItemWithID(ctx context.Context, id string, fields models.Fields, actor string) error {
	adapter, tracker, err := s.ready()
	if err != nil {
		return err
	}
	if err := validation.ValidateDocumentID(id); err != nil {
		return err
	}

	if err := tracker.SetUnuploaded(ctx, id, true); err != nil {
		return err
	}

	base := models.Document{ID: id, CreatedAt: now(), CreatedBy: actor}
	doc := base.Merge(fields)
	if _, err := adapter.Storage().Put(ctx, &doc); err != nil {
		return fmt.Errorf("failed to add document: %w", err)
	}
	return nil
}

// EditItem merges fields into an existing document. Missing documents are ignored.
func (s *Store) EditItem(ctx context.Context, id string, fields models.Fields, actor string) error {
	adapter, tracker, err := s.ready()
	if err != nil {
		return err
	}

	doc, err := adapter.GetOrNull(ctx, id)
	if err != nil {
		return err
	}
	if doc == nil {
		return nil
	}

	if err := tracker.SetUnuploaded(ctx, id, true); err != nil {
		return err
	}

	edited := doc.Merge(fields)
	ts := now()
	edited.UpdatedAt = &ts
	edited.UpdatedBy = actor
	if _, err := adapter.Storage().Put(ctx, &edited); err != nil {
		return fmt.Errorf("failed to edit document: %w", err)
	}
	return nil
}

// DeleteItem deletes a document. Missing documents are ignored.
// A document the remote has never seen (created after the last upload) or one
// that is already a tombstone is removed for good; otherwise a tombstone is
// written so the deletion reaches the remote.
func (s *Store) DeleteItem(ctx context.Context, id string, actor string) error {
	adapter, tracker, err := s.ready()
	if err != nil {
		return err
	}

	doc, err := adapter.GetOrNull(ctx, id)
	if err != nil {
		return err
	}
	if doc == nil {
		return nil
	}

	tsUpload := tracker.Snapshot().TsUpload
	if doc.DeletedAt != nil || doc.CreatedAt.After(tsUpload) {
		if err := tracker.SetUnuploaded(ctx, id, false); err != nil {
			return err
		}
		if err := adapter.Storage().Remove(ctx, doc); err != nil {
			return fmt.Errorf("failed to remove document: %w", err)
		}
		s.logger.Debug("Document removed", "id", id)
		return nil
	}

	if err := tracker.SetUnuploaded(ctx, id, true); err != nil {
		return err
	}

	tombstone := doc.Clone()
	ts := now()
	tombstone.DeletedAt = &ts
	tombstone.DeletedBy = actor
	if _, err := adapter.Storage().Put(ctx, &tombstone); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	s.logger.Debug("Document tombstoned", "id", id)
	return nil
}

// EditSingle merges fields into the single document, creating it from the defaults when absent
func (s *Store) EditSingle(ctx context.Context, fields models.Fields) error {
	adapter, tracker, err := s.readySingle()
	if err != nil {
		return err
	}

	if err := tracker.SetUnuploaded(ctx, s.cfg.SingleID, true); err != nil {
		return err
	}

	if _, err := adapter.Upsert(ctx, s.cfg.SingleID, s.cfg.Default, fields); err != nil {
		return fmt.Errorf("failed to edit single document: %w", err)
	}
	return nil
}

// DeleteSingle resets the single document to the configured default fields.
// The document itself is kept so the reset replicates like any other edit.
func (s *Store) DeleteSingle(ctx context.Context) error {
	adapter, tracker, err := s.readySingle()
	if err != nil {
		return err
	}

	doc, err := s.fetchSingle(ctx, adapter)
	if err != nil {
		return err
	}

	if err := tracker.SetUnuploaded(ctx, doc.ID, true); err != nil {
		return err
	}

	reset := models.Document{ID: doc.ID, Rev: doc.Rev, Fields: s.cfg.Default.Clone()}
	if _, err := adapter.Storage().Put(ctx, &reset); err != nil {
		return fmt.Errorf("failed to reset single document: %w", err)
	}
	return nil
}

func (s *Store) readySingle() (*storage.Adapter, *meta.Tracker, error) {
	if !s.cfg.IsSingle() {
		return nil, nil, fmt.Errorf("%w: store is not in single mode", ErrConfig)
	}
	return s.ready()
}

func (s *Store) fetchSingle(ctx context.Context, adapter *storage.Adapter) (*models.Document, error) {
	doc, err := adapter.GetOrNull(ctx, s.cfg.SingleID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		doc = &models.Document{ID: s.cfg.SingleID, Fields: s.cfg.Default.Clone()}
	}
	return doc, nil
}

// Upload pushes local changes to the remote, resets the pending set and
// notifies subscribers with markers of the uploaded ids.
// Without remote sync it does nothing; without connectivity it returns ErrOffline.
func (s *Store) Upload(ctx context.Context) error {
	if !s.cfg.Remote {
		return nil
	}
	if _, _, err := s.ready(); err != nil {
		return err
	}

	ids, err := s.upload(ctx)
	if err != nil {
		return err
	}

	markers := make([]models.Document, 0, len(ids))
	for _, id := range ids {
		markers = append(markers, models.Document{ID: id})
	}
	s.notify(Notification{Kind: KindUploaded, Docs: markers})
	return nil
}

// upload выполняет выгрузку и возвращает id, которые были в ожидании
func (s *Store) upload(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	remote, tracker := s.remote, s.tracker
	s.mu.Unlock()

	if remote == nil || tracker == nil {
		return nil, ErrNotInitialized
	}

	if err := s.probe(ctx); err != nil {
		return nil, err
	}

	ids := tracker.Snapshot().UnuploadedIDs()

	result, err := remote.Push(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to upload: %w", err)
	}

	if _, err := tracker.CompleteUpload(ctx, ids, now()); err != nil {
		return nil, err
	}

	if result == nil {
		result = &replicate.Result{}
	}
	s.logger.Info("Upload completed", "documents", len(ids), "pushed", result.Pushed, "conflicts", result.Conflicts)
	return ids, nil
}

// probe проверяет связь с сервером с ограничением по времени
func (s *Store) probe(ctx context.Context) error {
	s.mu.Lock()
	remote := s.remote
	s.mu.Unlock()

	if remote == nil {
		return ErrOffline
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.ProbeTimeout)
	defer cancel()

	if err := remote.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrOffline, err)
	}
	return nil
}
