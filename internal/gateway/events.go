package gateway

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

// Event is one registry or canonicalization notification pushed to
// WebSocket subscribers.
type Event struct {
	Type         string    `json:"type"`
	Tool         string    `json:"tool,omitempty"`
	SourceFormat string    `json:"source_format,omitempty"`
	Warnings     int       `json:"warnings,omitempty"`
	At           time.Time `json:"at"`
}

const subscriberBuffer = 16

// EventHub fans events out to connected WebSocket subscribers. Slow
// subscribers drop events rather than block publishers.
type EventHub struct {
	logger *slog.Logger

	mu     sync.Mutex
	subs   map[chan Event]struct{}
	closed bool
}

// NewEventHub constructs an empty hub.
func NewEventHub(logger *slog.Logger) *EventHub {
	return &EventHub{
		logger: logger,
		subs:   make(map[chan Event]struct{}),
	}
}

// Publish delivers an event to every subscriber without blocking.
func (h *EventHub) Publish(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}

	for ch := range h.subs {
		select {
		case ch <- ev:
		default:
			// Subscriber is not keeping up; the event is dropped for it.
		}
	}
}

// Close disconnects all subscribers. Publish becomes a no-op afterwards.
func (h *EventHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true

	for ch := range h.subs {
		close(ch)
		delete(h.subs, ch)
	}
}

func (h *EventHub) subscribe() (chan Event, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, false
	}

	ch := make(chan Event, subscriberBuffer)
	h.subs[ch] = struct{}{}
	return ch, true
}

func (h *EventHub) unsubscribe(ch chan Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.subs[ch]; ok {
		delete(h.subs, ch)
		close(ch)
	}
}

// ServeHTTP upgrades the request to a WebSocket and streams events until
// the client disconnects or the hub closes.
func (h *EventHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket accept failed", "error", err)
		return
	}
	defer conn.CloseNow()

	ch, ok := h.subscribe()
	if !ok {
		_ = conn.Close(websocket.StatusGoingAway, "shutting down")
		return
	}
	defer h.unsubscribe(ch)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			_ = conn.Close(websocket.StatusNormalClosure, "")
			return
		case ev, open := <-ch:
			if !open {
				_ = conn.Close(websocket.StatusGoingAway, "shutting down")
				return
			}

			writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err := wsjson.Write(writeCtx, conn, ev)
			cancel()
			if err != nil {
				return
			}
		}
	}
}
