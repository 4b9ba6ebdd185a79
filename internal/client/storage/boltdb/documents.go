package boltdb

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/docsync/internal/client/storage"
	"github.com/iudanet/docsync/internal/models"
)

// Get retrieves a document by ID
func (s *Storage) Get(ctx context.Context, id string) (*models.Document, error) {
	if s.isClosed() {
		return nil, storage.ErrStorageClosed
	}

	var doc *models.Document

	err := s.db.View(func(tx *bbolt.Tx) error {
		var err error
		doc, err = getDoc(tx.Bucket(bucketDocs), id)
		if err != nil {
			return err
		}
		if doc == nil {
			return storage.ErrDocumentNotFound
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	return doc, nil
}

// Put stores a document with a new revision.
// The incoming revision must match the stored one, otherwise ErrConflict is returned.
// A document recreated after a removal continues the revision history of the removal marker.
func (s *Storage) Put(ctx context.Context, doc *models.Document) (*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, storage.ErrStorageClosed
	}

	stored := doc.Clone()
	stored.Deleted = false
	var seq uint64

	err := s.db.Update(func(tx *bbolt.Tx) error {
		existing, err := getDoc(tx.Bucket(bucketDocs), doc.ID)
		if err != nil {
			return err
		}

		// Проверяем ревизию: писать можно только поверх текущей версии
		currentRev := ""
		if existing != nil {
			currentRev = existing.Rev
		}
		if doc.Rev != currentRev {
			return storage.ErrConflict
		}

		if existing == nil {
			marker, err := getDoc(tx.Bucket(bucketRemoved), doc.ID)
			if err != nil {
				return err
			}
			if marker != nil {
				stored.Rev = marker.Rev
			}
		}

		rev, err := stored.NextRev()
		if err != nil {
			return err
		}
		stored.Rev = rev

		seq, err = writeDoc(tx, &stored)
		return err
	})

	if err != nil {
		return nil, fmt.Errorf("put transaction failed: %w", err)
	}

	s.broadcast(storage.Change{Seq: int64(seq), ID: stored.ID, Doc: &stored})

	out := stored.Clone()
	return &out, nil
}

// Remove physically deletes a document (hard delete).
// A removal marker with the next revision takes its place in the sequence index,
// so the removal is replicated like any other write.
func (s *Storage) Remove(ctx context.Context, doc *models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return storage.ErrStorageClosed
	}

	var (
		seq    uint64
		marker models.Document
	)

	err := s.db.Update(func(tx *bbolt.Tx) error {
		existing, err := getDoc(tx.Bucket(bucketDocs), doc.ID)
		if err != nil {
			return err
		}
		if existing == nil {
			return storage.ErrDocumentNotFound
		}
		if existing.Rev != doc.Rev {
			return storage.ErrConflict
		}

		marker = models.Document{ID: doc.ID, Rev: doc.Rev, Deleted: true}
		if marker.Rev, err = marker.NextRev(); err != nil {
			return err
		}

		seq, err = writeDoc(tx, &marker)
		return err
	})

	if err != nil {
		return fmt.Errorf("remove transaction failed: %w", err)
	}

	s.broadcast(storage.Change{Seq: int64(seq), ID: doc.ID, Deleted: true, Doc: &marker})

	return nil
}

// AllDocs returns all documents (including tombstones) ordered by id
func (s *Storage) AllDocs(ctx context.Context) ([]models.Document, error) {
	if s.isClosed() {
		return nil, storage.ErrStorageClosed
	}

	var docs []models.Document

	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketDocs).ForEach(func(k, v []byte) error {
			var doc models.Document
			if err := json.Unmarshal(v, &doc); err != nil {
				return fmt.Errorf("failed to unmarshal document %s: %w", k, err)
			}
			docs = append(docs, doc)
			return nil
		})
	})

	if err != nil {
		return nil, fmt.Errorf("failed to get all documents: %w", err)
	}

	return docs, nil
}

// ChangedSince returns documents and removal markers written after seq in
// sequence order together with the last sequence number of the log.
func (s *Storage) ChangedSince(ctx context.Context, seq int64) ([]models.Document, int64, error) {
	if s.isClosed() {
		return nil, 0, storage.ErrStorageClosed
	}

	var (
		docs    []models.Document
		lastSeq = seq
	)

	err := s.db.View(func(tx *bbolt.Tx) error {
		changes := tx.Bucket(bucketChanges)

		if last := int64(changes.Sequence()); last > lastSeq {
			lastSeq = last
		}

		c := changes.Cursor()
		for k, v := c.Seek(seqKey(uint64(seq + 1))); k != nil; k, v = c.Next() {
			doc, err := getRecord(tx, string(v))
			if err != nil {
				return err
			}
			if doc != nil {
				docs = append(docs, *doc)
			}
		}
		return nil
	})

	if err != nil {
		return nil, 0, fmt.Errorf("failed to get changes since %d: %w", seq, err)
	}

	return docs, lastSeq, nil
}

// ApplyReplicated writes replicated documents that win over the local revision.
// A removed document is compared against its removal marker, so an older
// revision arriving later does not bring it back.
// Incoming revisions are kept as-is. before is called with the winners inside the
// transaction, before anything becomes visible to change feeds.
func (s *Storage) ApplyReplicated(ctx context.Context, docs []models.Document, before func([]models.Document)) ([]models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, storage.ErrStorageClosed
	}

	var (
		winners []models.Document
		changes []storage.Change
	)

	err := s.db.Update(func(tx *bbolt.Tx) error {
		for _, incoming := range docs {
			existing, err := getRecord(tx, incoming.ID)
			if err != nil {
				return err
			}
			if existing == nil && incoming.Deleted {
				continue
			}
			if existing != nil && !incoming.IsNewerThan(existing) {
				continue
			}
			winners = append(winners, incoming.Clone())
		}

		if len(winners) == 0 {
			return nil
		}
		if before != nil {
			before(winners)
		}

		for i := range winners {
			doc := &winners[i]
			seq, err := writeDoc(tx, doc)
			if err != nil {
				return err
			}
			changes = append(changes, storage.Change{Seq: int64(seq), ID: doc.ID, Deleted: doc.Deleted, Doc: doc})
		}
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("replication transaction failed: %w", err)
	}

	for _, c := range changes {
		s.broadcast(c)
	}

	return winners, nil
}

func (s *Storage) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// getDoc читает документ из bucket, nil если его нет
func getDoc(bucket *bbolt.Bucket, id string) (*models.Document, error) {
	data := bucket.Get([]byte(id))
	if data == nil {
		return nil, nil
	}

	doc := &models.Document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document: %w", err)
	}
	return doc, nil
}

// getRecord возвращает документ или маркер его удаления, nil если нет ни того, ни другого
func getRecord(tx *bbolt.Tx, id string) (*models.Document, error) {
	doc, err := getDoc(tx.Bucket(bucketDocs), id)
	if err != nil || doc != nil {
		return doc, err
	}
	return getDoc(tx.Bucket(bucketRemoved), id)
}

// writeDoc сохраняет документ (или маркер удаления) и переносит его в конец ленты изменений
func writeDoc(tx *bbolt.Tx, doc *models.Document) (uint64, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal document: %w", err)
	}

	target, other := bucketDocs, bucketRemoved
	if doc.Deleted {
		target, other = bucketRemoved, bucketDocs
	}
	if err := tx.Bucket(target).Put([]byte(doc.ID), data); err != nil {
		return 0, fmt.Errorf("failed to save document: %w", err)
	}
	if err := tx.Bucket(other).Delete([]byte(doc.ID)); err != nil {
		return 0, fmt.Errorf("failed to drop previous record: %w", err)
	}

	if err := dropSeq(tx, doc.ID); err != nil {
		return 0, err
	}

	changes := tx.Bucket(bucketChanges)
	seq, err := changes.NextSequence()
	if err != nil {
		return 0, fmt.Errorf("failed to allocate sequence: %w", err)
	}
	if err := changes.Put(seqKey(seq), []byte(doc.ID)); err != nil {
		return 0, fmt.Errorf("failed to save change: %w", err)
	}
	if err := tx.Bucket(bucketSeqs).Put([]byte(doc.ID), seqKey(seq)); err != nil {
		return 0, fmt.Errorf("failed to save sequence: %w", err)
	}

	return seq, nil
}

// dropSeq удаляет прежнюю позицию документа в ленте изменений
func dropSeq(tx *bbolt.Tx, id string) error {
	old := tx.Bucket(bucketSeqs).Get([]byte(id))
	if old == nil {
		return nil
	}
	if err := tx.Bucket(bucketChanges).Delete(old); err != nil {
		return fmt.Errorf("failed to drop old sequence: %w", err)
	}
	return nil
}

func seqKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}
