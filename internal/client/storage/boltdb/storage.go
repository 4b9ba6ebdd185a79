package boltdb

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.etcd.io/bbolt"

	"github.com/iudanet/docsync/internal/client/storage"
)

var (
	// BoltDB bucket names
	bucketDocs    = []byte("docs")    // id -> JSON документа
	bucketSeqs    = []byte("seqs")    // id -> seq последней записи
	bucketChanges = []byte("changes") // seq -> id
	bucketRemoved = []byte("removed") // id -> маркер удаления {_id, _rev, _deleted}
	bucketLocal   = []byte("local")   // _local/* записи (метаданные, чекпоинты)
)

// Storage represents BoltDB storage implementation of a local document database
type Storage struct {
	db     *bbolt.DB
	feeds  map[*Feed]struct{}
	path   string
	mu     sync.Mutex // сериализует запись и рассылку изменений
	closed bool
}

var (
	_ storage.DocumentStorage = (*Storage)(nil)
	_ storage.ReplicaStorage  = (*Storage)(nil)
	_ storage.MetadataStorage = (*Storage)(nil)
)

// New creates a new BoltDB storage instance
// dbPath is the path to the BoltDB database file
func New(ctx context.Context, dbPath string) (*Storage, error) {
	// Открываем BoltDB
	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	s := &Storage{
		db:    db,
		path:  dbPath,
		feeds: make(map[*Feed]struct{}),
	}

	// Инициализируем buckets
	if err := s.initBuckets(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize buckets: %w", err)
	}

	return s, nil
}

// Path returns the database file path
func (s *Storage) Path() string {
	return s.path
}

// Close stops all change feeds and closes the database connection
func (s *Storage) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	feeds := s.feeds
	s.feeds = make(map[*Feed]struct{})
	s.mu.Unlock()

	for f := range feeds {
		f.stop()
	}

	return s.db.Close()
}

// initBuckets создает необходимые buckets если они не существуют
func (s *Storage) initBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketDocs, bucketSeqs, bucketChanges, bucketRemoved, bucketLocal} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("failed to create %s bucket: %w", name, err)
			}
		}
		return nil
	})
}

// Opener opens named databases as files inside Dir
type Opener struct {
	Dir string
}

// Open opens (or creates) the database <Dir>/<name>.db
func (o Opener) Open(ctx context.Context, name string) (*Storage, error) {
	if err := os.MkdirAll(o.Dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return New(ctx, filepath.Join(o.Dir, name+".db"))
}
