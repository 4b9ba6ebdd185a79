package store

import (
	"context"
	"log/slog"

	"github.com/iudanet/docsync/internal/client/api"
	"github.com/iudanet/docsync/internal/client/replicate"
	"github.com/iudanet/docsync/internal/client/storage"
	"github.com/iudanet/docsync/internal/client/storage/boltdb"
	"github.com/iudanet/docsync/internal/models"
)

//go:generate moq -out remote_mock.go . Remote

// Remote is the replication capability the engine drives
type Remote interface {
	// Ping checks connectivity
	Ping(ctx context.Context) error
	// Pull replicates remote changes into the local store
	Pull(ctx context.Context) (*replicate.Result, error)
	// Push replicates local changes to the remote
	Push(ctx context.Context) (*replicate.Result, error)
	// Live starts continuous pull; mark is called before each local write commits
	Live(ctx context.Context, mark func([]models.Document)) *replicate.Stream
}

var _ Remote = (*replicate.Service)(nil)

// LocalStore is the local database as seen by the engine
type LocalStore interface {
	storage.DocumentStorage
	storage.ReplicaStorage
}

// Openers открывают базы хранилища по имени
type Openers struct {
	Local  func(ctx context.Context, name string) (LocalStore, error)
	Meta   func(ctx context.Context, name string) (storage.MetadataStorage, error)
	Remote func(ctx context.Context, cfg Config, local storage.ReplicaStorage) (Remote, error)
}

// BoltOpeners opens local and metadata databases as bbolt files in dir
// and replicates over HTTP, authenticating with token.
func BoltOpeners(dir, token string, logger *slog.Logger) Openers {
	opener := boltdb.Opener{Dir: dir}
	return Openers{
		Local: func(ctx context.Context, name string) (LocalStore, error) {
			s, err := opener.Open(ctx, name)
			if err != nil {
				return nil, err
			}
			return s, nil
		},
		Meta: func(ctx context.Context, name string) (storage.MetadataStorage, error) {
			s, err := opener.Open(ctx, name)
			if err != nil {
				return nil, err
			}
			return s, nil
		},
		Remote: func(ctx context.Context, cfg Config, local storage.ReplicaStorage) (Remote, error) {
			client := api.NewClient(cfg.RemoteURL, token)
			return replicate.NewService(client, local, cfg.Name, logger), nil
		},
	}
}
