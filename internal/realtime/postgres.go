package realtime

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/lib/pq"
)

const (
	linkUpdateChannel      = "link_updates"
	analyticsInsertChannel = "analytics_inserts"
)

// PostgresFeed turns LISTEN/NOTIFY traffic from the notify triggers into
// Events. One feed per process; fan-out happens in the Hub.
type PostgresFeed struct {
	listener *pq.Listener
	out      chan Event

	closeOnce sync.Once
	done      chan struct{}
}

// NewPostgresFeed connects a listener to the link and analytics notify
// channels.
func NewPostgresFeed(databaseURL string) (*PostgresFeed, error) {
	listener := pq.NewListener(databaseURL, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			log.Printf("Warning: realtime listener event %d: %v", ev, err)
		}
	})

	for _, channel := range []string{linkUpdateChannel, analyticsInsertChannel} {
		if err := listener.Listen(channel); err != nil {
			listener.Close()
			return nil, fmt.Errorf("failed to listen on %s: %w", channel, err)
		}
	}

	f := &PostgresFeed{
		listener: listener,
		out:      make(chan Event, 64),
		done:     make(chan struct{}),
	}
	go f.loop()

	return f, nil
}

func (f *PostgresFeed) loop() {
	defer close(f.out)

	for {
		select {
		case notification, ok := <-f.listener.Notify:
			if !ok {
				return
			}
			if notification == nil {
				// Reconnect marker; rows changed while disconnected may
				// have been missed, nothing to replay here.
				continue
			}
			event, ok := parseNotification(notification.Channel, notification.Extra)
			if !ok {
				continue
			}
			select {
			case f.out <- event:
			default:
				log.Printf("Warning: realtime feed buffer full, dropping %s for link %s", event.Kind, event.LinkID)
			}
		case <-f.done:
			return
		}
	}
}

func parseNotification(channel, payload string) (Event, bool) {
	switch channel {
	case linkUpdateChannel:
		var row struct {
			ID       string `json:"id"`
			Clicks   int    `json:"clicks"`
			IsActive bool   `json:"is_active"`
		}
		if err := json.Unmarshal([]byte(payload), &row); err != nil || row.ID == "" {
			log.Printf("Warning: bad link update payload: %q", payload)
			return Event{}, false
		}
		return Event{
			Kind:     LinkUpdated,
			LinkID:   row.ID,
			Clicks:   row.Clicks,
			IsActive: row.IsActive,
			At:       time.Now().UTC(),
		}, true
	case analyticsInsertChannel:
		var row struct {
			LinkID    string    `json:"link_id"`
			ClickedAt time.Time `json:"clicked_at"`
		}
		if err := json.Unmarshal([]byte(payload), &row); err != nil || row.LinkID == "" {
			log.Printf("Warning: bad analytics payload: %q", payload)
			return Event{}, false
		}
		return Event{
			Kind:   ClickRecorded,
			LinkID: row.LinkID,
			At:     row.ClickedAt,
		}, true
	}
	return Event{}, false
}

// Events implements Feed.
func (f *PostgresFeed) Events() <-chan Event {
	return f.out
}

// Close implements Feed.
func (f *PostgresFeed) Close() error {
	var err error
	f.closeOnce.Do(func() {
		close(f.done)
		err = f.listener.Close()
	})
	return err
}
