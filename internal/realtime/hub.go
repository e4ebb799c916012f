package realtime

import (
	"sync"
)

// subscriberBuffer bounds each subscriber channel; slow consumers drop
// events rather than stalling delivery to others.
const subscriberBuffer = 16

// Hub fans a single Feed out to per-link subscribers. Multiple
// subscribers to one link id share the link's delivery entry instead of
// opening duplicate feed registrations; the entry is torn down only when
// the last subscriber detaches.
type Hub struct {
	feed Feed

	mu     sync.Mutex
	subs   map[string]map[int]chan Event // link id -> subscriber id -> channel
	nextID int
	closed bool
}

// NewHub starts dispatching events from the feed.
func NewHub(feed Feed) *Hub {
	h := &Hub{
		feed: feed,
		subs: make(map[string]map[int]chan Event),
	}
	go h.dispatch()
	return h
}

func (h *Hub) dispatch() {
	for event := range h.feed.Events() {
		h.mu.Lock()
		for _, ch := range h.subs[event.LinkID] {
			select {
			case ch <- event:
			default:
				// Subscriber not keeping up; drop for this one only.
			}
		}
		h.mu.Unlock()
	}

	// Feed closed: release every subscriber.
	h.mu.Lock()
	for _, linkSubs := range h.subs {
		for _, ch := range linkSubs {
			close(ch)
		}
	}
	h.subs = make(map[string]map[int]chan Event)
	h.closed = true
	h.mu.Unlock()
}

// Subscribe attaches a handler channel for one link id. The returned
// cancel func detaches only this subscriber; remaining subscribers to the
// same link keep receiving. Cancel is idempotent.
func (h *Hub) Subscribe(linkID string) (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, subscriberBuffer)

	if h.closed {
		close(ch)
		return ch, func() {}
	}

	if h.subs[linkID] == nil {
		h.subs[linkID] = make(map[int]chan Event)
	}
	id := h.nextID
	h.nextID++
	h.subs[linkID][id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if h.closed {
				return
			}
			delete(h.subs[linkID], id)
			if len(h.subs[linkID]) == 0 {
				delete(h.subs, linkID)
			}
			close(ch)
		})
	}

	return ch, cancel
}

// SubscriberCount reports how many handlers are attached to a link id.
func (h *Hub) SubscriberCount(linkID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[linkID])
}

// Close shuts down the underlying feed and releases all subscribers.
func (h *Hub) Close() error {
	return h.feed.Close()
}
