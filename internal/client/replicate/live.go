package replicate

import (
	"context"
	"sync"
	"time"

	httpClient "github.com/iudanet/docsync/internal/client/api"
	"github.com/iudanet/docsync/internal/models"
)

// Event is emitted by a live replication stream.
// Exactly one of Docs or Err is set.
type Event struct {
	Err  error
	Docs []models.Document // документы, реально записанные локально
}

// Stream is a running live replication
type Stream struct {
	events chan Event
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Events returns the event channel. It is closed when the stream stops.
func (st *Stream) Events() <-chan Event {
	return st.events
}

// Cancel stops the stream and waits for it to exit. Safe to call more than once.
func (st *Stream) Cancel() {
	st.cancel()
	st.wg.Wait()
}

// NewStream runs fn on its own goroutine until it returns, ctx is done or Cancel is called.
// The events channel is closed after fn returns.
func NewStream(ctx context.Context, fn func(ctx context.Context, events chan<- Event)) *Stream {
	ctx, cancel := context.WithCancel(ctx)
	st := &Stream{
		events: make(chan Event),
		cancel: cancel,
	}

	st.wg.Add(1)
	go func() {
		defer st.wg.Done()
		defer close(st.events)
		fn(ctx, st.events)
	}()

	return st
}

// Live starts continuous pull replication.
// mark is called with the documents about to be written locally, before the
// write becomes visible to local change feeds. Errors are reported as events
// and retried with exponential backoff.
func (s *Service) Live(ctx context.Context, mark func([]models.Document)) *Stream {
	return NewStream(ctx, func(ctx context.Context, events chan<- Event) {
		s.liveLoop(ctx, events, mark)
	})
}

func (s *Service) liveLoop(ctx context.Context, events chan<- Event, mark func([]models.Document)) {
	backoff := s.opts.BackoffMin

	since, err := s.local.GetCheckpoint(ctx, checkpointPull)
	if err != nil {
		s.logger.Warn("Failed to get pull checkpoint, using 0", "error", err)
		since = 0
	}

	for ctx.Err() == nil {
		resp, err := s.transport.Changes(ctx, s.db, httpClient.ChangesQuery{
			Since:    since,
			Limit:    s.opts.BatchSize,
			LongPoll: true,
			Timeout:  s.opts.LongPollTimeout,
		})
		if err == nil {
			var winners []models.Document
			winners, err = s.apply(ctx, resp, mark, &Result{})
			if len(winners) > 0 && !send(ctx, events, Event{Docs: winners}) {
				return
			}
			if err == nil {
				since = resp.LastSeq
			}
		}

		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.logger.Warn("Live replication failed, retrying", "error", err, "backoff", backoff)
			if !send(ctx, events, Event{Err: err}) || !sleep(ctx, backoff) {
				return
			}
			// Exponential backoff on error
			backoff = min(backoff*2, s.opts.BackoffMax)
			continue
		}

		// Reset backoff on success
		backoff = s.opts.BackoffMin
	}
}

func send(ctx context.Context, events chan<- Event, ev Event) bool {
	select {
	case events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
