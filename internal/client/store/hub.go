package store

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/iudanet/docsync/internal/models"
)

// Kind describes what a notification carries
type Kind int

const (
	// KindSnapshot начальный снимок после Initialize
	KindSnapshot Kind = iota
	// KindChanges пачка измененных или удаленных документов
	KindChanges
	// KindUploaded маркеры выгруженных документов (только _id)
	KindUploaded
)

func (k Kind) String() string {
	switch k {
	case KindSnapshot:
		return "snapshot"
	case KindChanges:
		return "changes"
	case KindUploaded:
		return "uploaded"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Notification is delivered to every subscriber.
// Docs is shared between subscribers and must not be modified.
type Notification struct {
	Docs []models.Document
	Kind Kind
}

// IDs returns the ids of the documents in the notification
func (n Notification) IDs() []string {
	ids := make([]string, 0, len(n.Docs))
	for _, d := range n.Docs {
		ids = append(ids, d.ID)
	}
	return ids
}

// Subscriber receives store notifications.
// Implementations are compared with ==, so they must be comparable values (usually pointers).
type Subscriber interface {
	Notify(n Notification) error
}

// SubscriberFunc adapts a plain function. Register it by pointer:
//
//	fn := store.SubscriberFunc(func(n store.Notification) error { ... })
//	unsubscribe := s.Subscribe(&fn)
type SubscriberFunc func(n Notification) error

// Notify calls f(n)
func (f *SubscriberFunc) Notify(n Notification) error {
	return (*f)(n)
}

// Hub fans notifications out to registered subscribers
type Hub struct {
	logger *slog.Logger
	subs   []Subscriber
	mu     sync.Mutex
}

// NewHub creates an empty hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{logger: logger}
}

// Subscribe registers s once and returns a handle that unsubscribes it.
// Subscribing an already registered subscriber is a no-op.
func (h *Hub) Subscribe(s Subscriber) (unsubscribe func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if slices.Contains(h.subs, s) {
		return func() {}
	}

	h.subs = append(h.subs, s)
	return func() { h.Unsubscribe(s) }
}

// Unsubscribe removes s; unknown subscribers are ignored
func (h *Hub) Unsubscribe(s Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if i := slices.Index(h.subs, s); i != -1 {
		h.subs = slices.Delete(h.subs, i, i+1)
	}
}

// Len returns the number of subscribers
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// publish доставляет уведомление всем подписчикам, ошибки и паники изолированы
func (h *Hub) publish(n Notification) {
	h.mu.Lock()
	subs := slices.Clone(h.subs)
	h.mu.Unlock()

	for _, s := range subs {
		if err := h.deliver(s, n); err != nil {
			h.logger.Error("Subscriber failed", "kind", n.Kind.String(), "error", err)
		}
	}
}

func (h *Hub) deliver(s Subscriber, n Notification) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("subscriber panic: %v", r)
		}
	}()
	return s.Notify(n)
}

func (h *Hub) reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subs = nil
}
