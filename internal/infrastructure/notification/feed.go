package notification

import (
	"sync"

	"trocagames/internal/domain/entity"
	"trocagames/pkg/logger"
)

const subscriberBuffer = 64

// Feed is the ordered list of notifications received by one session. Items are kept in
// arrival order and are never dropped; reading only resets the unread counter.
type Feed struct {
	mu          sync.Mutex
	items       []entity.Notification
	unread      int
	subscribers map[int]chan entity.Notification
	nextID      int
}

func NewFeed() *Feed {
	return &Feed{
		items:       []entity.Notification{},
		subscribers: make(map[int]chan entity.Notification),
	}
}

// Append stores n as unread and hands it to every live subscriber.
func (f *Feed) Append(n entity.Notification) {
	n.Read = false

	f.mu.Lock()
	defer f.mu.Unlock()

	f.items = append(f.items, n)
	f.unread++

	for id, ch := range f.subscribers {
		select {
		case ch <- n:
		default:
			logger.Warn("Notification subscriber %d is full, dropping notification %d", id, n.ID)
		}
	}
}

// Snapshot returns a copy of the items and the unread count.
func (f *Feed) Snapshot() ([]entity.Notification, int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	items := make([]entity.Notification, len(f.items))
	copy(items, f.items)
	return items, f.unread
}

func (f *Feed) Unread() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.unread
}

func (f *Feed) MarkAllRead() {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.items {
		f.items[i].Read = true
	}
	f.unread = 0
}

// Subscribe returns a channel receiving every notification appended from now on. The
// cancel func closes the channel and may be called more than once.
func (f *Feed) Subscribe() (<-chan entity.Notification, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.nextID
	f.nextID++
	ch := make(chan entity.Notification, subscriberBuffer)
	f.subscribers[id] = ch

	cancel := func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if sub, ok := f.subscribers[id]; ok {
			delete(f.subscribers, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Close drops every subscriber.
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	for id, ch := range f.subscribers {
		delete(f.subscribers, id)
		close(ch)
	}
}
