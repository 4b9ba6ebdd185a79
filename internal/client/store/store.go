// Package store implements an offline-first document store: a local database
// mirrored into memory, upload tracking and live replication with a remote.
package store

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/iudanet/docsync/internal/client/meta"
	"github.com/iudanet/docsync/internal/client/replicate"
	"github.com/iudanet/docsync/internal/client/storage"
	"github.com/iudanet/docsync/internal/models"
	"github.com/iudanet/docsync/internal/validation"
)

// State is the lifecycle state of a Store
type State int

const (
	StateUninitialized State = iota
	StateInitializing
	StateInitialized
	StateDeinitializing
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateInitialized:
		return "initialized"
	case StateDeinitializing:
		return "deinitializing"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Store is one logical document store.
// Subscribers must not call Deinitialize from inside a notification.
type Store struct {
	*Hub

	openers Openers
	logger  *slog.Logger
	local   LocalStore
	metaDB  storage.MetadataStorage
	remote  Remote
	adapter *storage.Adapter
	tracker *meta.Tracker

	localFeed    storage.Feed
	remoteStream *replicate.Stream

	// Зеркало в памяти и счетчики записей, пришедших с сервера
	guard  map[string]int
	single models.Document
	docs   []models.Document

	cfg      Config
	watchers sync.WaitGroup
	mu       sync.Mutex
	state    State
}

// New creates an uninitialized store
func New(cfg Config, openers Openers, logger *slog.Logger) *Store {
	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = DefaultProbeTimeout
	}
	logger = logger.With("store", cfg.Name)

	s := &Store{
		Hub:     NewHub(logger),
		cfg:     cfg,
		openers: openers,
		logger:  logger,
	}
	s.resetMemory()
	return s
}

// Config returns the store configuration
func (s *Store) Config() Config {
	return s.cfg
}

// State returns the lifecycle state
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Initialize opens the databases, runs a best-effort sync with the remote,
// loads the mirror, notifies subscribers with the snapshot and arms the watchers.
// Calling it on an initialized store is a no-op.
func (s *Store) Initialize(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateUninitialized {
		s.mu.Unlock()
		return nil
	}
	s.state = StateInitializing
	s.mu.Unlock()

	if err := s.initialize(ctx); err != nil {
		if closeErr := s.teardown(); closeErr != nil {
			s.logger.Warn("Failed to release store after failed initialize", "error", closeErr)
		}
		return err
	}

	return nil
}

func (s *Store) initialize(ctx context.Context) error {
	if err := s.validateConfig(); err != nil {
		return err
	}

	local, err := s.openers.Local(ctx, s.cfg.Name)
	if err != nil {
		return fmt.Errorf("failed to open local store: %w", err)
	}
	s.setLocal(local)

	metaDB, err := s.openers.Meta(ctx, s.cfg.MetaName())
	if err != nil {
		return fmt.Errorf("failed to open metadata store: %w", err)
	}
	s.mu.Lock()
	s.metaDB = metaDB
	s.tracker = meta.NewTracker(metaDB, s.logger)
	s.mu.Unlock()

	if _, err := s.tracker.Load(ctx); err != nil {
		return err
	}

	if s.cfg.Remote {
		remote, err := s.openers.Remote(ctx, s.cfg, local)
		if err != nil {
			return fmt.Errorf("failed to open remote: %w", err)
		}
		s.mu.Lock()
		s.remote = remote
		s.mu.Unlock()

		// Синхронизация при старте не обязательна: хранилище должно работать офлайн
		if err := s.syncOnce(ctx); err != nil {
			s.logger.Warn("Initial sync skipped", "error", err)
		}
	}

	// Подписываемся до чтения снимка, чтобы не потерять записи между ними
	feed, err := local.Changes(context.WithoutCancel(ctx), storage.ChangesOptions{
		Since:       storage.SinceNow,
		Live:        true,
		IncludeDocs: true,
	})
	if err != nil {
		return fmt.Errorf("failed to watch local changes: %w", err)
	}
	s.mu.Lock()
	s.localFeed = feed
	s.mu.Unlock()

	all, err := s.adapter.ListAll(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.loadMirror(all)
	s.state = StateInitialized
	s.mu.Unlock()

	snapshot := all
	if s.cfg.IsSingle() {
		snapshot = []models.Document{s.Single()}
	} else if s.cfg.Mirror {
		snapshot = s.Docs()
	}
	s.notify(Notification{Kind: KindSnapshot, Docs: snapshot})

	if s.cfg.Remote {
		s.watchRemote(ctx)
	}
	s.watchLocal(feed)

	s.logger.Info("Store initialized", "documents", len(all), "remote", s.cfg.Remote)
	return nil
}

func (s *Store) validateConfig() error {
	if s.cfg.Name == "" {
		return fmt.Errorf("%w: store must have a name", ErrConfig)
	}
	if err := validation.ValidateStoreName(s.cfg.Name); err != nil {
		return fmt.Errorf("%w: %v", ErrConfig, err)
	}
	if s.cfg.Remote && s.cfg.RemoteURL == "" {
		return fmt.Errorf("%w: remote sync requires a remote URL", ErrConfig)
	}
	if s.openers.Local == nil || s.openers.Meta == nil || (s.cfg.Remote && s.openers.Remote == nil) {
		return fmt.Errorf("%w: missing store openers", ErrConfig)
	}
	return nil
}

func (s *Store) setLocal(local LocalStore) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.local = local
	s.adapter = storage.NewAdapter(local)
}

// syncOnce выполняет pull, затем выгрузку локальных изменений
func (s *Store) syncOnce(ctx context.Context) error {
	if err := s.probe(ctx); err != nil {
		return err
	}
	if _, err := s.remote.Pull(ctx); err != nil {
		return err
	}
	_, err := s.upload(ctx)
	return err
}

// Deinitialize cancels both watchers, closes the databases and resets the store.
// Safe to call on a store that was never (or only partially) initialized.
func (s *Store) Deinitialize(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateInitialized {
		s.mu.Unlock()
		return nil
	}
	s.state = StateDeinitializing
	s.mu.Unlock()

	err := s.teardown()
	s.Hub.reset()
	s.logger.Info("Store deinitialized")
	return err
}

// teardown отменяет наблюдателей, закрывает базы и сбрасывает состояние
func (s *Store) teardown() error {
	s.mu.Lock()
	stream, feed := s.remoteStream, s.localFeed
	local, metaDB := s.local, s.metaDB
	s.remoteStream, s.localFeed = nil, nil
	s.mu.Unlock()

	if stream != nil {
		stream.Cancel()
	}
	if feed != nil {
		feed.Cancel()
	}
	s.watchers.Wait()

	var errs []error
	if local != nil {
		if err := local.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close local store: %w", err))
		}
	}
	if metaDB != nil {
		if err := metaDB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close metadata store: %w", err))
		}
	}

	s.mu.Lock()
	s.local, s.metaDB, s.remote = nil, nil, nil
	s.adapter, s.tracker = nil, nil
	s.resetMemory()
	s.state = StateUninitialized
	s.mu.Unlock()

	return errors.Join(errs...)
}

// resetMemory возвращает зеркало и guard к значениям по умолчанию. Вызывается под s.mu.
func (s *Store) resetMemory() {
	s.guard = make(map[string]int)
	s.docs = nil
	s.single = models.Document{}
	if s.cfg.IsSingle() {
		s.single = models.Document{ID: s.cfg.SingleID, Fields: s.cfg.Default.Clone()}
	} else if s.cfg.Mirror {
		s.docs = []models.Document{}
	}
}

// loadMirror проецирует полный список документов в зеркало. Вызывается под s.mu.
func (s *Store) loadMirror(all []models.Document) {
	if s.cfg.IsSingle() {
		for _, doc := range all {
			if doc.ID == s.cfg.SingleID {
				s.single = doc.Clone()
				return
			}
		}
		return
	}
	if !s.cfg.Mirror {
		return
	}

	s.docs = make([]models.Document, 0, len(all))
	for _, doc := range all {
		if doc.IsTombstone() {
			continue
		}
		s.docs = append(s.docs, doc.Clone())
	}
	s.sortMirror()
}

// applyToMirror применяет один документ к зеркалу. Вызывается под s.mu.
func (s *Store) applyToMirror(doc models.Document) {
	if s.cfg.IsSingle() {
		if doc.ID == s.cfg.SingleID {
			s.single = doc.Clone()
		}
		return
	}
	if !s.cfg.Mirror {
		return
	}

	index := slices.IndexFunc(s.docs, func(d models.Document) bool { return d.ID == doc.ID })
	switch {
	case doc.IsTombstone() && index != -1:
		s.docs = slices.Delete(s.docs, index, index+1)
	case doc.IsTombstone():
		// удаленного документа и так нет в зеркале
	case index != -1:
		s.docs[index] = doc.Clone()
	default:
		s.docs = append(s.docs, doc.Clone())
	}
	s.sortMirror()
}

func (s *Store) sortMirror() {
	if s.cfg.Less == nil {
		return
	}
	slices.SortStableFunc(s.docs, func(a, b models.Document) int {
		switch {
		case s.cfg.Less(&a, &b):
			return -1
		case s.cfg.Less(&b, &a):
			return 1
		default:
			return cmp.Compare(a.ID, b.ID)
		}
	})
}

// notify публикует уведомление, предварительно заменяя зеркало свежей копией,
// чтобы ранее выданные снимки оставались неизменными
func (s *Store) notify(n Notification) {
	s.mu.Lock()
	if s.state != StateInitialized {
		s.mu.Unlock()
		return
	}
	if s.docs != nil {
		s.docs = slices.Clone(s.docs)
	}
	s.single = s.single.Clone()
	s.mu.Unlock()

	s.publish(n)
}

// watchRemote запускает непрерывный pull с сервера
func (s *Store) watchRemote(ctx context.Context) {
	s.mu.Lock()
	remote := s.remote
	s.mu.Unlock()

	// Наблюдатель живет до Deinitialize, а не до отмены ctx вызова Initialize
	stream := remote.Live(context.WithoutCancel(ctx), s.markRemote)

	s.mu.Lock()
	s.remoteStream = stream
	s.mu.Unlock()

	s.watchers.Add(1)
	go func() {
		defer s.watchers.Done()
		for ev := range stream.Events() {
			if ev.Err != nil {
				s.logger.Warn("Remote watcher error", "error", ev.Err)
				continue
			}
			s.handleRemote(ev.Docs)
		}
	}()
}

// markRemote помечает документы, которые сейчас будут записаны репликацией
func (s *Store) markRemote(docs []models.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, doc := range docs {
		s.guard[doc.ID]++
	}
}

func (s *Store) handleRemote(docs []models.Document) {
	if len(docs) == 0 {
		return
	}

	s.mu.Lock()
	for _, doc := range docs {
		s.applyToMirror(doc)
	}
	s.mu.Unlock()

	s.logger.Debug("Remote changes applied", "count", len(docs))
	s.notify(Notification{Kind: KindChanges, Docs: docs})
}

// watchLocal обрабатывает ленту изменений локальной базы
func (s *Store) watchLocal(feed storage.Feed) {
	s.watchers.Add(1)
	go func() {
		defer s.watchers.Done()
		for change := range feed.Changes() {
			s.handleLocal(change)
		}
	}()
}

func (s *Store) handleLocal(change storage.Change) {
	if change.Doc == nil {
		return
	}
	doc := *change.Doc

	s.mu.Lock()
	if n := s.guard[doc.ID]; n > 0 {
		// Запись сделана репликацией: зеркало и подписчики обновляются наблюдателем сервера
		if n == 1 {
			delete(s.guard, doc.ID)
		} else {
			s.guard[doc.ID] = n - 1
		}
		s.mu.Unlock()
		return
	}
	s.applyToMirror(doc)
	s.mu.Unlock()

	s.notify(Notification{Kind: KindChanges, Docs: []models.Document{doc}})
}

// Docs returns a copy of the collection mirror
func (s *Store) Docs() []models.Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.docs == nil {
		return nil
	}
	out := make([]models.Document, len(s.docs))
	for i := range s.docs {
		out[i] = s.docs[i].Clone()
	}
	return out
}

// Single returns a copy of the single-mode mirror
func (s *Store) Single() models.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.single.Clone()
}

// Meta returns a copy of the metadata record
func (s *Store) Meta() models.Meta {
	tracker := s.currentTracker()
	if tracker == nil {
		return models.DefaultMeta()
	}
	return tracker.Snapshot()
}

// IsUploaded reports whether id has no pending local changes
func (s *Store) IsUploaded(id string) bool {
	tracker := s.currentTracker()
	if tracker == nil {
		return true
	}
	return tracker.IsUploaded(id)
}

// CountUnuploaded returns the number of documents waiting for upload
func (s *Store) CountUnuploaded() int {
	tracker := s.currentTracker()
	if tracker == nil {
		return 0
	}
	return tracker.CountUnuploaded()
}

func (s *Store) currentTracker() *meta.Tracker {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracker
}
