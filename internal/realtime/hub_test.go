package realtime_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkdash-be/internal/realtime"
)

// fakeFeed is an in-memory Feed driven directly by the tests.
type fakeFeed struct {
	events chan realtime.Event
}

func newFakeFeed() *fakeFeed {
	return &fakeFeed{events: make(chan realtime.Event, 16)}
}

func (f *fakeFeed) Events() <-chan realtime.Event { return f.events }

func (f *fakeFeed) Close() error {
	close(f.events)
	return nil
}

func receive(t *testing.T, ch <-chan realtime.Event) realtime.Event {
	t.Helper()
	select {
	case event, ok := <-ch:
		require.True(t, ok, "channel closed before event arrived")
		return event
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return realtime.Event{}
	}
}

func assertNoEvent(t *testing.T, ch <-chan realtime.Event) {
	t.Helper()
	select {
	case event, ok := <-ch:
		if ok {
			t.Fatalf("unexpected event: %+v", event)
		}
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSubscribe_EventDeliveredToMatchingLinkOnly(t *testing.T) {
	feed := newFakeFeed()
	hub := realtime.NewHub(feed)
	defer hub.Close()

	matching, cancelMatching := hub.Subscribe("link-1")
	defer cancelMatching()
	other, cancelOther := hub.Subscribe("link-2")
	defer cancelOther()

	feed.events <- realtime.Event{Kind: realtime.ClickRecorded, LinkID: "link-1"}

	event := receive(t, matching)
	assert.Equal(t, realtime.ClickRecorded, event.Kind)
	assert.Equal(t, "link-1", event.LinkID)
	assertNoEvent(t, other)
}

func TestSubscribe_TwoSubscribersSameLink_EachReceivesOnce(t *testing.T) {
	feed := newFakeFeed()
	hub := realtime.NewHub(feed)
	defer hub.Close()

	first, cancelFirst := hub.Subscribe("link-1")
	defer cancelFirst()
	second, cancelSecond := hub.Subscribe("link-1")
	defer cancelSecond()

	assert.Equal(t, 2, hub.SubscriberCount("link-1"))

	feed.events <- realtime.Event{Kind: realtime.LinkUpdated, LinkID: "link-1", Clicks: 7}

	assert.Equal(t, 7, receive(t, first).Clicks)
	assert.Equal(t, 7, receive(t, second).Clicks)
	assertNoEvent(t, first)
}

func TestCancel_DetachesOnlyThatSubscriber(t *testing.T) {
	feed := newFakeFeed()
	hub := realtime.NewHub(feed)
	defer hub.Close()

	first, cancelFirst := hub.Subscribe("link-1")
	second, cancelSecond := hub.Subscribe("link-1")
	defer cancelSecond()

	cancelFirst()
	assert.Equal(t, 1, hub.SubscriberCount("link-1"))

	feed.events <- realtime.Event{Kind: realtime.ClickRecorded, LinkID: "link-1"}

	assert.Equal(t, "link-1", receive(t, second).LinkID)
	_, open := <-first
	assert.False(t, open)
}

func TestCancel_LastSubscriberRemovesLinkEntry(t *testing.T) {
	hub := realtime.NewHub(newFakeFeed())

	_, cancel := hub.Subscribe("link-1")
	cancel()

	assert.Equal(t, 0, hub.SubscriberCount("link-1"))
}

func TestCancel_Twice_DoesNotPanic(t *testing.T) {
	hub := realtime.NewHub(newFakeFeed())

	_, cancel := hub.Subscribe("link-1")
	cancel()

	assert.NotPanics(t, cancel)
}

func TestClose_ReleasesAllSubscribers(t *testing.T) {
	feed := newFakeFeed()
	hub := realtime.NewHub(feed)

	ch, cancel := hub.Subscribe("link-1")
	defer cancel()

	require.NoError(t, hub.Close())

	select {
	case _, open := <-ch:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("subscriber channel not closed after hub shutdown")
	}
}

func TestSubscribe_AfterClose_ReturnsClosedChannel(t *testing.T) {
	feed := newFakeFeed()
	hub := realtime.NewHub(feed)
	require.NoError(t, hub.Close())

	// Wait for dispatch to observe the closed feed.
	ch, cancel := hub.Subscribe("link-1")
	deadline := time.Now().Add(time.Second)
	for hub.SubscriberCount("link-1") != 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	assert.Equal(t, 0, hub.SubscriberCount("link-1"))
	assert.NotPanics(t, cancel)
	_ = ch
}
