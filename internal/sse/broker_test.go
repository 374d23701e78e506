package sse

import (
	"strings"
	"testing"
	"time"
)

func recv(t *testing.T, ch chan []byte) string {
	t.Helper()
	select {
	case msg := <-ch:
		return string(msg)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return ""
	}
}

func TestPublishReachesSubscribers(t *testing.T) {
	b := NewBroker(0)
	defer b.Close()

	ch := b.Subscribe()
	b.PublishNowPlaying(map[string]bool{"is_playing": true})

	msg := recv(t, ch)
	if !strings.Contains(msg, "event: nowplaying.updated") {
		t.Errorf("msg = %q", msg)
	}
	if !strings.Contains(msg, `"is_playing":true`) {
		t.Errorf("msg = %q", msg)
	}
}

func TestContentEventsThrottled(t *testing.T) {
	b := NewBroker(time.Hour)
	defer b.Close()

	ch := b.Subscribe()
	b.PublishContentUpdated()
	recv(t, ch)

	b.PublishContentUpdated()
	select {
	case msg := <-ch:
		t.Fatalf("second content event should be throttled, got %q", msg)
	case <-time.After(100 * time.Millisecond):
	}

	// Other event types pass through the throttle window.
	b.PublishPresence(map[string]string{"status": "online"})
	msg := recv(t, ch)
	if !strings.Contains(msg, "presence.updated") {
		t.Errorf("msg = %q", msg)
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	b := NewBroker(0)
	defer b.Close()

	ch := b.Subscribe()
	if got := b.ClientCount(); got != 1 {
		t.Fatalf("clients = %d", got)
	}
	b.Unsubscribe(ch)

	select {
	case _, ok := <-ch:
		if ok {
			t.Error("expected closed channel")
		}
	case <-time.After(time.Second):
		t.Error("channel not closed after unsubscribe")
	}
	if got := b.ClientCount(); got != 0 {
		t.Errorf("clients = %d, want 0", got)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	b := NewBroker(0)
	ch := b.Subscribe()
	b.Close()
	b.Close()

	if _, ok := <-ch; ok {
		t.Error("expected closed client channel after Close")
	}
	// Operations after close are no-ops.
	b.PublishNowPlaying(nil)
	if b.ClientCount() != 0 {
		t.Error("count after close should be 0")
	}
}
