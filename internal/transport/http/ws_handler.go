package http

import (
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/hieudo2808/lms-project-sub000/internal/app"
)

// WSHandler streams attempt lifecycle events for one quiz to monitoring
// clients (instructor dashboards). The feed carries no correctness data for
// in-flight attempts.
type WSHandler struct {
	hub      *app.EventHub
	upgrader websocket.Upgrader
}

func NewWSHandler(hub *app.EventHub) *WSHandler {
	return &WSHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Register wires the event feed route onto the mux.
func (h *WSHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /ws/quizzes/{quizID}/events", h.ServeEvents)
}

// ServeEvents upgrades the connection and forwards the quiz's attempt events
// until the client disconnects.
func (h *WSHandler) ServeEvents(w http.ResponseWriter, r *http.Request) {
	quizID, err := uuid.Parse(r.PathValue("quizID"))
	if err != nil {
		http.Error(w, "invalid quizID", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	events, cancel := h.hub.Subscribe(quizID)
	defer cancel()

	// Reader drains control frames and signals disconnect; the feed is
	// one-way, so inbound payloads are discarded.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := conn.WriteJSON(ev); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		case <-done:
			return
		}
	}
}
