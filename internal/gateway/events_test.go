package gateway

import (
	"io"
	"log/slog"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestEventHub_PublishReachesSubscribers(t *testing.T) {
	t.Parallel()

	hub := NewEventHub(testLogger())
	defer hub.Close()

	ch, ok := hub.subscribe()
	if !ok {
		t.Fatal("subscribe failed on open hub")
	}

	hub.Publish(Event{Type: "tool.canonicalized", Tool: "x", At: time.Now()})

	select {
	case ev := <-ch:
		if ev.Type != "tool.canonicalized" || ev.Tool != "x" {
			t.Errorf("event = %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
}

func TestEventHub_SlowSubscriberDropsEvents(t *testing.T) {
	t.Parallel()

	hub := NewEventHub(testLogger())
	defer hub.Close()

	ch, _ := hub.subscribe()

	// Overfill the buffer; Publish must never block.
	for i := 0; i < subscriberBuffer*2; i++ {
		hub.Publish(Event{Type: "tool.saved"})
	}

	if len(ch) != subscriberBuffer {
		t.Errorf("buffered = %d, want %d", len(ch), subscriberBuffer)
	}
}

func TestEventHub_CloseDisconnects(t *testing.T) {
	t.Parallel()

	hub := NewEventHub(testLogger())
	ch, _ := hub.subscribe()

	hub.Close()

	if _, open := <-ch; open {
		t.Error("channel still open after Close")
	}

	if _, ok := hub.subscribe(); ok {
		t.Error("subscribe succeeded on closed hub")
	}

	// Publish after Close is a no-op, not a panic.
	hub.Publish(Event{Type: "tool.deleted"})
}

func TestEventHub_UnsubscribeIsIdempotentWithClose(t *testing.T) {
	t.Parallel()

	hub := NewEventHub(testLogger())
	ch, _ := hub.subscribe()

	hub.unsubscribe(ch)
	hub.unsubscribe(ch)
	hub.Close()
}
