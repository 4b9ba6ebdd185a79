package store

import (
	"cmp"
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	httpClient "github.com/iudanet/docsync/internal/client/api"
	"github.com/iudanet/docsync/internal/client/replicate"
	"github.com/iudanet/docsync/internal/client/storage"
	"github.com/iudanet/docsync/internal/client/storage/boltdb"
	"github.com/iudanet/docsync/internal/models"
	"github.com/iudanet/docsync/pkg/api"
)

var errUnreachable = errors.New("remote unreachable")

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memRemote имитирует сервер репликации в памяти
type memRemote struct {
	docs    map[string]models.Document
	seqs    map[string]int64
	changed chan struct{}
	seq     int64
	mu      sync.Mutex
	offline atomic.Bool
}

var _ replicate.Transport = (*memRemote)(nil)

func newMemRemote() *memRemote {
	return &memRemote{
		docs:    make(map[string]models.Document),
		seqs:    make(map[string]int64),
		changed: make(chan struct{}),
	}
}

func (r *memRemote) Ping(ctx context.Context) error {
	if r.offline.Load() {
		return errUnreachable
	}
	return nil
}

func (r *memRemote) Changes(ctx context.Context, db string, q httpClient.ChangesQuery) (*api.ChangesResponse, error) {
	for {
		if r.offline.Load() {
			return nil, errUnreachable
		}

		r.mu.Lock()
		var ids []string
		for id, seq := range r.seqs {
			if seq > q.Since {
				ids = append(ids, id)
			}
		}
		slices.SortFunc(ids, func(a, b string) int { return cmp.Compare(r.seqs[a], r.seqs[b]) })

		pending := 0
		if q.Limit > 0 && len(ids) > q.Limit {
			pending = len(ids) - q.Limit
			ids = ids[:q.Limit]
		}

		if len(ids) > 0 || !q.LongPoll {
			resp := &api.ChangesResponse{LastSeq: q.Since, Pending: int64(pending)}
			for _, id := range ids {
				resp.Results = append(resp.Results, r.docs[id].Clone())
				resp.LastSeq = r.seqs[id]
			}
			r.mu.Unlock()
			return resp, nil
		}

		changed := r.changed
		r.mu.Unlock()

		select {
		case <-changed:
		case <-time.After(q.Timeout):
			return &api.ChangesResponse{LastSeq: q.Since}, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func (r *memRemote) BulkDocs(ctx context.Context, db string, docs []models.Document) (*api.BulkDocsResponse, error) {
	if r.offline.Load() {
		return nil, errUnreachable
	}

	resp := &api.BulkDocsResponse{}
	for _, doc := range docs {
		written, conflict := r.save(doc)
		if written {
			resp.Written++
		}
		if conflict {
			resp.Conflicts++
		}
	}
	return resp, nil
}

// put записывает документ так, будто его изменил другой клиент
func (r *memRemote) put(doc models.Document) {
	r.save(doc)
}

func (r *memRemote) get(id string) (models.Document, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	return doc.Clone(), ok
}

func (r *memRemote) save(doc models.Document) (written, conflict bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.docs[doc.ID]
	if ok && !doc.IsNewerThan(&existing) {
		return false, existing.Rev != doc.Rev
	}

	r.seq++
	r.docs[doc.ID] = doc.Clone()
	r.seqs[doc.ID] = r.seq
	close(r.changed)
	r.changed = make(chan struct{})
	return true, false
}

// recorder собирает уведомления подписки
type recorder struct {
	ch chan Notification
}

func newRecorder() *recorder {
	return &recorder{ch: make(chan Notification, 256)}
}

func (r *recorder) Notify(n Notification) error {
	r.ch <- n
	return nil
}

// waitFor читает уведомления, пока pred не вернет true
func (r *recorder) waitFor(t *testing.T, pred func(Notification) bool) Notification {
	t.Helper()
	timeout := time.After(3 * time.Second)
	for {
		select {
		case n := <-r.ch:
			if pred(n) {
				return n
			}
		case <-timeout:
			t.Fatal("timeout waiting for notification")
			return Notification{}
		}
	}
}

// expectNone проверяет, что за d не пришло ни одного уведомления
func (r *recorder) expectNone(t *testing.T, d time.Duration) {
	t.Helper()
	select {
	case n := <-r.ch:
		t.Fatalf("unexpected notification %s %v", n.Kind, n.IDs())
	case <-time.After(d):
	}
}

func hasID(id string) func(Notification) bool {
	return func(n Notification) bool {
		return n.Kind == KindChanges && slices.Contains(n.IDs(), id)
	}
}

// fakeClock делает now детерминированным: каждый вызов на секунду позже
func fakeClock(t *testing.T) {
	t.Helper()
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	var ticks atomic.Int64
	prev := now
	now = func() time.Time {
		return base.Add(time.Duration(ticks.Add(1)) * time.Second)
	}
	t.Cleanup(func() { now = prev })
}

// testOpeners открывает bbolt базы во временном каталоге и реплицирует в remote
func testOpeners(dir string, remote replicate.Transport) Openers {
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
			return replicate.NewServiceWithOptions(remote, local, cfg.Name, testLogger(), replicate.Options{
				BatchSize:       50,
				LongPollTimeout: 200 * time.Millisecond,
				BackoffMin:      10 * time.Millisecond,
				BackoffMax:      50 * time.Millisecond,
			}), nil
		},
	}
}

type env struct {
	store  *Store
	remote *memRemote
	rec    *recorder
	dir    string
}

func testConfig() Config {
	cfg := DefaultConfig("todos_alice")
	cfg.RemoteURL = "http://remote.test"
	cfg.Less = ByCreatedAtDesc
	return cfg
}

// newEnv создает хранилище с подпиской-регистратором; Initialize не вызывается
func newEnv(t *testing.T, cfg Config) *env {
	t.Helper()
	e := &env{remote: newMemRemote(), rec: newRecorder(), dir: t.TempDir()}
	e.store = New(cfg, testOpeners(e.dir, e.remote), testLogger())
	e.store.Subscribe(e.rec)
	t.Cleanup(func() {
		require.NoError(t, e.store.Deinitialize(context.Background()))
	})
	return e
}

// startEnv создает и инициализирует хранилище, поглощая начальный снимок
func startEnv(t *testing.T, cfg Config) *env {
	t.Helper()
	e := newEnv(t, cfg)
	require.NoError(t, e.store.Initialize(context.Background()))
	e.rec.waitFor(t, func(n Notification) bool { return n.Kind == KindSnapshot })
	return e
}
