package boltdb

import (
	"context"
	"encoding/binary"
	"sync"

	"go.etcd.io/bbolt"

	"github.com/iudanet/docsync/internal/client/storage"
)

// Feed delivers changes of one subscription in sequence order.
// Writers never block on a slow reader: changes are queued per feed
// and pumped to the channel by a dedicated goroutine.
type Feed struct {
	storage     *Storage
	out         chan storage.Change
	signal      chan struct{}
	done        chan struct{}
	stopCtx     func() bool
	queue       []storage.Change
	wg          sync.WaitGroup
	mu          sync.Mutex
	once        sync.Once
	live        bool
	includeDocs bool
}

var _ storage.Feed = (*Feed)(nil)

// Changes subscribes to the change feed.
// With Since set to SinceNow nothing is replayed; otherwise every document
// written after Since is delivered first. A non-live feed closes after the replay.
// The feed is cancelled when ctx is done.
func (s *Storage) Changes(ctx context.Context, opts storage.ChangesOptions) (storage.Feed, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, storage.ErrStorageClosed
	}

	f := &Feed{
		storage:     s,
		out:         make(chan storage.Change),
		signal:      make(chan struct{}, 1),
		done:        make(chan struct{}),
		live:        opts.Live,
		includeDocs: opts.IncludeDocs,
	}

	if opts.Since != storage.SinceNow {
		// Снимок истории берем под s.mu, чтобы между ним и подпиской не вклинилась запись
		err := s.db.View(func(tx *bbolt.Tx) error {
			c := tx.Bucket(bucketChanges).Cursor()
			for k, v := c.Seek(seqKey(uint64(opts.Since + 1))); k != nil; k, v = c.Next() {
				doc, err := getRecord(tx, string(v))
				if err != nil {
					return err
				}
				if doc == nil {
					continue
				}
				change := storage.Change{Seq: int64(seqFromKey(k)), ID: doc.ID, Deleted: doc.Deleted}
				if f.includeDocs {
					change.Doc = doc
				}
				f.queue = append(f.queue, change)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	if f.live {
		s.feeds[f] = struct{}{}
	}

	f.wg.Add(1)
	go f.run()

	f.stopCtx = context.AfterFunc(ctx, f.Cancel)

	return f, nil
}

// Changes returns the delivery channel. It is closed when the feed ends.
func (f *Feed) Changes() <-chan storage.Change {
	return f.out
}

// Cancel detaches the feed and waits for its goroutine to exit.
// Safe to call more than once and from any goroutine.
func (f *Feed) Cancel() {
	f.storage.detach(f)
	f.stop()
}

func (f *Feed) stop() {
	f.once.Do(func() {
		close(f.done)
		if f.stopCtx != nil {
			f.stopCtx()
		}
	})
	f.wg.Wait()
}

func (f *Feed) push(c storage.Change) {
	if !f.includeDocs {
		c.Doc = nil
	} else if c.Doc != nil {
		doc := c.Doc.Clone()
		c.Doc = &doc
	}

	f.mu.Lock()
	f.queue = append(f.queue, c)
	f.mu.Unlock()

	select {
	case f.signal <- struct{}{}:
	default:
	}
}

func (f *Feed) run() {
	defer f.wg.Done()
	defer close(f.out)

	for {
		f.mu.Lock()
		if len(f.queue) == 0 {
			f.mu.Unlock()
			if !f.live {
				return
			}
			select {
			case <-f.signal:
				continue
			case <-f.done:
				return
			}
		}
		c := f.queue[0]
		f.queue = f.queue[1:]
		f.mu.Unlock()

		select {
		case f.out <- c:
		case <-f.done:
			return
		}
	}
}

// broadcast рассылает изменение всем живым подпискам, вызывается под s.mu
func (s *Storage) broadcast(c storage.Change) {
	for f := range s.feeds {
		f.push(c)
	}
}

func (s *Storage) detach(f *Feed) {
	s.mu.Lock()
	delete(s.feeds, f)
	s.mu.Unlock()
}

func seqFromKey(k []byte) uint64 {
	if len(k) != 8 {
		return 0
	}
	return binary.BigEndian.Uint64(k)
}
