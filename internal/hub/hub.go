// Package hub implements the in-memory fan-out of pipeline completion and
// failure events to currently connected listeners. Delivery is at-most-once
// and best-effort: there is no per-listener addressing, no queueing for
// disconnected listeners, and no replay. A listener that attaches after an
// event has fired reconciles through the list endpoint instead.
package hub

import (
	"sync"

	"askvantage/internal/dto"
	"askvantage/internal/logger"

	"go.uber.org/zap"
)

// Event types pushed to listeners.
const (
	EventOcrCompleted        = "ocr.completed"
	EventOcrFailed           = "ocr.failed"
	EventGenerationCompleted = "generation.completed"
	EventGenerationFailed    = "generation.failed"
)

// Event is the envelope delivered to every attached listener.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// FailurePayload carries a human-readable failure message.
type FailurePayload struct {
	Message string `json:"message"`
}

// subscriberBuffer bounds how many undelivered events a listener may lag
// behind before events are dropped for it.
const subscriberBuffer = 16

// Subscriber is one attached listener. Its channel is closed on Unsubscribe.
type Subscriber struct {
	events chan Event
}

// Events returns the channel the subscriber receives broadcasts on.
func (s *Subscriber) Events() <-chan Event {
	return s.events
}

// Hub fans events out to all attached subscribers. Subscribe and Unsubscribe
// are safe to call concurrently with broadcasts.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[*Subscriber]struct{}
}

// New creates an empty Hub.
func New() *Hub {
	return &Hub{subscribers: make(map[*Subscriber]struct{})}
}

// Subscribe attaches a new listener and returns its handle.
func (h *Hub) Subscribe() *Subscriber {
	sub := &Subscriber{events: make(chan Event, subscriberBuffer)}
	h.mu.Lock()
	h.subscribers[sub] = struct{}{}
	h.mu.Unlock()
	return sub
}

// Unsubscribe detaches the listener and closes its event channel. Detaching
// an already-detached subscriber is a no-op.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subscribers[sub]; !ok {
		return
	}
	delete(h.subscribers, sub)
	close(sub.events)
}

// SubscriberCount returns the number of currently attached listeners.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

func (h *Hub) broadcast(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for sub := range h.subscribers {
		select {
		case sub.events <- event:
			delivered++
		default:
			// Listener is too far behind; drop the event for it.
		}
	}

	logger.Get().Debug("Broadcast event",
		zap.String("type", event.Type),
		zap.Int("delivered", delivered),
		zap.Int("subscribers", len(h.subscribers)),
	)
}

// GenerationCompleted broadcasts a successful generation result.
func (h *Hub) GenerationCompleted(result *dto.QuestionGenerationResult) {
	h.broadcast(Event{Type: EventGenerationCompleted, Payload: result})
}

// GenerationFailed broadcasts a generation failure message.
func (h *Hub) GenerationFailed(message string) {
	h.broadcast(Event{Type: EventGenerationFailed, Payload: FailurePayload{Message: message}})
}

// OcrCompleted broadcasts a successful recognition result.
func (h *Hub) OcrCompleted(result *dto.ImageOcrResult) {
	h.broadcast(Event{Type: EventOcrCompleted, Payload: result})
}

// OcrFailed broadcasts a recognition failure message.
func (h *Hub) OcrFailed(message string) {
	h.broadcast(Event{Type: EventOcrFailed, Payload: FailurePayload{Message: message}})
}
