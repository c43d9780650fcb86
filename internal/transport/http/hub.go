package http

import (
	"sync"

	"quiz-live-service/internal/domain"
)

type outboundMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type subscriber struct {
	send chan outboundMessage
}

// Hub fans events out to every websocket subscribed to a presentation's
// topic. Broadcast runs under one lock, so subscribers of a single
// presentation observe events in the order the triggering operations
// completed; nothing is promised across presentations.
type Hub struct {
	mu     sync.Mutex
	topics map[int64]map[*subscriber]struct{}
}

func NewHub() *Hub {
	return &Hub{topics: make(map[int64]map[*subscriber]struct{})}
}

// Broadcast implements app.Broadcaster.
func (h *Hub) Broadcast(presentationID int64, event domain.Event) {
	msg := outboundMessage{Type: event.EventName(), Payload: event}

	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.topics[presentationID] {
		select {
		case sub.send <- msg:
		default:
			// Slow client: drop its oldest pending update rather than
			// blocking fan-out to everyone else.
			select {
			case <-sub.send:
			default:
			}
			sub.send <- msg
		}
	}
}

func (h *Hub) subscribe(presentationID int64) (*subscriber, func()) {
	sub := &subscriber{send: make(chan outboundMessage, 16)}

	h.mu.Lock()
	if h.topics[presentationID] == nil {
		h.topics[presentationID] = make(map[*subscriber]struct{})
	}
	h.topics[presentationID][sub] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		topic, ok := h.topics[presentationID]
		if !ok {
			return
		}
		if _, ok := topic[sub]; ok {
			delete(topic, sub)
			close(sub.send)
		}
		if len(topic) == 0 {
			delete(h.topics, presentationID)
		}
	}
	return sub, cancel
}
