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

const checkpointPrefix = "_local/checkpoint/"

// GetMeta retrieves the metadata record stored under _local/meta
func (s *Storage) GetMeta(ctx context.Context) (*models.Meta, error) {
	var meta *models.Meta

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketLocal)
		if bucket == nil {
			return fmt.Errorf("local bucket not found")
		}

		data := bucket.Get([]byte(models.MetaID))
		if data == nil {
			return storage.ErrMetaNotFound
		}

		meta = &models.Meta{}
		if err := json.Unmarshal(data, meta); err != nil {
			return fmt.Errorf("failed to unmarshal meta: %w", err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	return meta, nil
}

// SaveMeta replaces the metadata record
func (s *Storage) SaveMeta(ctx context.Context, meta *models.Meta) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to marshal meta: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketLocal)
		if bucket == nil {
			return fmt.Errorf("local bucket not found")
		}

		if err := bucket.Put([]byte(models.MetaID), data); err != nil {
			return fmt.Errorf("failed to save meta: %w", err)
		}
		return nil
	})
}

// SaveCheckpoint saves the replication checkpoint for key
func (s *Storage) SaveCheckpoint(ctx context.Context, key string, seq int64) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketLocal)
		if bucket == nil {
			return fmt.Errorf("local bucket not found")
		}

		// Конвертируем int64 в bytes
		seqBytes := make([]byte, 8)
		binary.BigEndian.PutUint64(seqBytes, uint64(seq))

		if err := bucket.Put([]byte(checkpointPrefix+key), seqBytes); err != nil {
			return fmt.Errorf("failed to save checkpoint: %w", err)
		}

		return nil
	})
}

// GetCheckpoint retrieves the replication checkpoint for key
// Returns 0 if replication has never completed
func (s *Storage) GetCheckpoint(ctx context.Context, key string) (int64, error) {
	var seq int64

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketLocal)
		if bucket == nil {
			return fmt.Errorf("local bucket not found")
		}

		seqBytes := bucket.Get([]byte(checkpointPrefix + key))
		if seqBytes == nil {
			// Первая репликация
			seq = 0
			return nil
		}

		seq = int64(binary.BigEndian.Uint64(seqBytes))
		return nil
	})

	if err != nil {
		return 0, fmt.Errorf("failed to get checkpoint: %w", err)
	}

	return seq, nil
}
