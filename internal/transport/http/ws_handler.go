package http

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"

	"quiz-live-service/internal/app"
)

// WSHandler upgrades viewers onto a presentation's topic. Writes go over
// REST; the socket is a one-way event feed.
type WSHandler struct {
	hub      *Hub
	control  *app.SessionControl
	upgrader websocket.Upgrader
}

func NewWSHandler(hub *Hub, control *app.SessionControl) *WSHandler {
	return &WSHandler{
		hub:     hub,
		control: control,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// ServeWS subscribes the connection to presentation events. A late joiner
// immediately receives the active-question marker, if any, so it can
// reconstruct the same view clients present from the start have.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	presentationID, err := strconv.ParseInt(r.URL.Query().Get("presentation_id"), 10, 64)
	if err != nil {
		http.Error(w, "missing or invalid presentation_id", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	sub, cancel := h.hub.subscribe(presentationID)
	defer cancel()

	if marker, ok, err := h.control.CurrentQuestion(r.Context(), presentationID); err == nil && ok {
		if err := conn.WriteJSON(outboundMessage{Type: "current_question", Payload: marker}); err != nil {
			return
		}
	}

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for msg := range sub.send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	// Viewers send nothing meaningful; the read loop only notices the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	cancel()
	<-writerDone
}
