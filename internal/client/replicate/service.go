// Package replicate moves documents between the local store and the replication server.
package replicate

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	httpClient "github.com/iudanet/docsync/internal/client/api"
	"github.com/iudanet/docsync/internal/client/storage"
	"github.com/iudanet/docsync/internal/models"
	"github.com/iudanet/docsync/pkg/api"
)

//go:generate moq -out transport_mock.go . Transport

const (
	checkpointPull = "pull"
	checkpointPush = "push"
)

// Transport определяет сетевую часть репликации
type Transport interface {
	Ping(ctx context.Context) error
	Changes(ctx context.Context, db string, q httpClient.ChangesQuery) (*api.ChangesResponse, error)
	BulkDocs(ctx context.Context, db string, docs []models.Document) (*api.BulkDocsResponse, error)
}

// Options tunes batching, long-polling and retry behaviour
type Options struct {
	BatchSize       int
	LongPollTimeout time.Duration
	BackoffMin      time.Duration // 1s
	BackoffMax      time.Duration // 60s
}

// DefaultOptions returns the options used by NewService
func DefaultOptions() Options {
	return Options{
		BatchSize:       200,
		LongPollTimeout: 30 * time.Second,
		BackoffMin:      1 * time.Second,
		BackoffMax:      60 * time.Second,
	}
}

// Service replicates one local database with the database of the same name on the server
type Service struct {
	transport Transport
	local     storage.ReplicaStorage
	logger    *slog.Logger
	db        string
	opts      Options
}

// NewService creates a new replication service
func NewService(transport Transport, local storage.ReplicaStorage, db string, logger *slog.Logger) *Service {
	return NewServiceWithOptions(transport, local, db, logger, DefaultOptions())
}

// NewServiceWithOptions creates a replication service with custom options
func NewServiceWithOptions(transport Transport, local storage.ReplicaStorage, db string, logger *slog.Logger, opts Options) *Service {
	defaults := DefaultOptions()
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaults.BatchSize
	}
	if opts.LongPollTimeout <= 0 {
		opts.LongPollTimeout = defaults.LongPollTimeout
	}
	if opts.BackoffMin <= 0 {
		opts.BackoffMin = defaults.BackoffMin
	}
	if opts.BackoffMax < opts.BackoffMin {
		opts.BackoffMax = opts.BackoffMin
	}

	return &Service{
		transport: transport,
		local:     local,
		db:        db,
		logger:    logger.With("db", db),
		opts:      opts,
	}
}

// Result contains replication results
type Result struct {
	Pulled    int // количество полученных с сервера документов
	Applied   int // количество записанных локально (победивших) документов
	Skipped   int // количество пропущенных (локальная ревизия не хуже)
	Pushed    int // количество записанных на сервере документов
	Conflicts int // количество документов, проигравших серверной ревизии
}

// Ping checks that the server is reachable
func (s *Service) Ping(ctx context.Context) error {
	return s.transport.Ping(ctx)
}

// Pull replicates server changes into the local store.
// Pages through the changes feed from the pull checkpoint and writes only revision winners.
func (s *Service) Pull(ctx context.Context) (*Result, error) {
	result := &Result{}

	since, err := s.local.GetCheckpoint(ctx, checkpointPull)
	if err != nil {
		s.logger.Warn("Failed to get pull checkpoint, using 0", "error", err)
		since = 0
	}

	for {
		resp, err := s.transport.Changes(ctx, s.db, httpClient.ChangesQuery{Since: since, Limit: s.opts.BatchSize})
		if err != nil {
			return result, fmt.Errorf("failed to pull changes: %w", err)
		}

		if _, err := s.apply(ctx, resp, nil, result); err != nil {
			return result, err
		}
		since = resp.LastSeq

		if resp.Pending <= 0 || len(resp.Results) == 0 {
			break
		}
	}

	s.logger.Info("Pull completed",
		"pulled", result.Pulled,
		"applied", result.Applied,
		"skipped", result.Skipped)

	return result, nil
}

// Push sends every local document written since the push checkpoint, tombstones included.
func (s *Service) Push(ctx context.Context) (*Result, error) {
	result := &Result{}

	since, err := s.local.GetCheckpoint(ctx, checkpointPush)
	if err != nil {
		s.logger.Warn("Failed to get push checkpoint, using 0", "error", err)
		since = 0
	}

	docs, lastSeq, err := s.local.ChangedSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to get local changes: %w", err)
	}

	s.logger.Debug("Collected local changes", "count", len(docs))

	for start := 0; start < len(docs); start += s.opts.BatchSize {
		end := min(start+s.opts.BatchSize, len(docs))
		resp, err := s.transport.BulkDocs(ctx, s.db, docs[start:end])
		if err != nil {
			return result, fmt.Errorf("failed to push changes: %w", err)
		}
		result.Pushed += resp.Written
		result.Conflicts += resp.Conflicts
	}

	if lastSeq != since {
		if err := s.local.SaveCheckpoint(ctx, checkpointPush, lastSeq); err != nil {
			return result, fmt.Errorf("failed to save push checkpoint: %w", err)
		}
	}

	s.logger.Info("Push completed",
		"pushed", result.Pushed,
		"conflicts", result.Conflicts)

	return result, nil
}

// apply записывает страницу изменений локально и сохраняет чекпоинт
func (s *Service) apply(ctx context.Context, resp *api.ChangesResponse, mark func([]models.Document), result *Result) ([]models.Document, error) {
	var winners []models.Document
	if len(resp.Results) > 0 {
		var err error
		winners, err = s.local.ApplyReplicated(ctx, resp.Results, mark)
		if err != nil {
			return nil, fmt.Errorf("failed to apply changes: %w", err)
		}
	}

	result.Pulled += len(resp.Results)
	result.Applied += len(winners)
	result.Skipped += len(resp.Results) - len(winners)

	if err := s.local.SaveCheckpoint(ctx, checkpointPull, resp.LastSeq); err != nil {
		return winners, fmt.Errorf("failed to save pull checkpoint: %w", err)
	}

	return winners, nil
}
