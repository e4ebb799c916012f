// Package realtime pushes link click changes to connected dashboard
// clients. A Feed is the transport for row-change notifications; the Hub
// fans one feed out to any number of local per-link subscribers.
package realtime

import "time"

type EventKind string

const (
	// LinkUpdated fires on any update to a link row (including the
	// counter write done by click accounting).
	LinkUpdated EventKind = "link_update"
	// ClickRecorded fires on every appended analytics event.
	ClickRecorded EventKind = "click"
)

// Event is one row-change notification scoped to a link.
type Event struct {
	Kind     EventKind `json:"kind"`
	LinkID   string    `json:"link_id"`
	Clicks   int       `json:"clicks,omitempty"` // populated for LinkUpdated
	IsActive bool      `json:"is_active,omitempty"`
	At       time.Time `json:"at"`
}

// Feed is a stream of row-change events. Its channel closes when the
// feed shuts down.
type Feed interface {
	Events() <-chan Event
	Close() error
}
