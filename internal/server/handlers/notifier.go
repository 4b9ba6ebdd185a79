package handlers

import "sync"

// Notifier wakes long-poll requests waiting on a database
type Notifier struct {
	waiters map[string]chan struct{}
	mu      sync.Mutex
}

// NewNotifier creates an empty notifier
func NewNotifier() *Notifier {
	return &Notifier{waiters: make(map[string]chan struct{})}
}

// Wait returns a channel that is closed on the next Notify for db
func (n *Notifier) Wait(db string) <-chan struct{} {
	n.mu.Lock()
	defer n.mu.Unlock()

	ch, ok := n.waiters[db]
	if !ok {
		ch = make(chan struct{})
		n.waiters[db] = ch
	}
	return ch
}

// Notify wakes every waiter of db
func (n *Notifier) Notify(db string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if ch, ok := n.waiters[db]; ok {
		close(ch)
		delete(n.waiters, db)
	}
}
