// Package clicks records redirects on a best-effort basis. Resolution
// must never wait on accounting, so events go through a buffered channel
// into a small worker pool; failures are logged and dropped.
package clicks

import (
	"log"
	"sync"
	"time"

	"linkdash-be/internal/entities"
)

// Event is one resolved redirect awaiting accounting.
type Event struct {
	LinkID string
	At     time.Time
}

// LinkStore is the slice of the link repository the accountant needs.
type LinkStore interface {
	GetByID(id string) (*entities.Link, error)
	SetClicks(id string, clicks int) error
}

// EventStore appends analytics events.
type EventStore interface {
	Insert(linkID string, clickedAt time.Time) error
}

// Accountant increments link click counters and appends analytics events
// for resolved redirects. The counter update is a read-then-write, so
// concurrent resolutions of one slug across processes can lose updates;
// that matches the dashboard's observed behavior and is asserted as an
// upper bound only in tests.
type Accountant struct {
	events chan Event
	links  LinkStore
	store  EventStore

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewAccountant starts workerCount workers draining a queue of the given
// capacity.
func NewAccountant(links LinkStore, store EventStore, workerCount, queueSize int) *Accountant {
	if workerCount <= 0 {
		workerCount = 1
	}
	if queueSize <= 0 {
		queueSize = 64
	}

	a := &Accountant{
		events: make(chan Event, queueSize),
		links:  links,
		store:  store,
	}

	a.wg.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		go a.worker(i)
	}

	return a
}

// Record enqueues a click event without blocking. When the queue is full
// or the accountant is closed the event is dropped; the redirect has
// already been served and must not be held up.
func (a *Accountant) Record(linkID string, at time.Time) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.closed {
		return false
	}

	select {
	case a.events <- Event{LinkID: linkID, At: at}:
		return true
	default:
		log.Printf("Warning: click queue full, dropping event for link %s", linkID)
		return false
	}
}

// Close stops intake and waits for queued events to be processed.
func (a *Accountant) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	close(a.events)
	a.mu.Unlock()

	a.wg.Wait()
}

func (a *Accountant) worker(id int) {
	defer a.wg.Done()

	for event := range a.events {
		// Counter increment: read current value, write current+1.
		link, err := a.links.GetByID(event.LinkID)
		switch {
		case err != nil:
			log.Printf("[click worker %d] ERROR: failed to load link %s: %v", id, event.LinkID, err)
		case link == nil:
			log.Printf("[click worker %d] link %s gone before accounting", id, event.LinkID)
		default:
			if err := a.links.SetClicks(link.ID, link.Clicks+1); err != nil {
				log.Printf("[click worker %d] ERROR: failed to increment clicks for link %s: %v", id, link.ID, err)
			}
		}

		// Analytics append is attempted regardless of the counter outcome.
		if err := a.store.Insert(event.LinkID, event.At); err != nil {
			log.Printf("[click worker %d] ERROR: failed to insert analytics event for link %s: %v", id, event.LinkID, err)
		}
	}
}
