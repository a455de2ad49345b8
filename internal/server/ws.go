package server

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/fitmirror/fitmirror/internal/analyzer"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// LiveFeed is a source of per-frame analysis results. Subscribe returns a
// channel of results and a function that cancels the subscription.
type LiveFeed interface {
	Subscribe() (<-chan analyzer.FrameResult, func())
}

// LiveHandler streams real-time analysis results via WebSocket.
type LiveHandler struct {
	feed LiveFeed
}

// NewLiveHandler creates a new LiveHandler over the given feed.
func NewLiveHandler(feed LiveFeed) *LiveHandler {
	return &LiveHandler{feed: feed}
}

// ServeHTTP upgrades the connection and forwards analysis results until
// the client disconnects.
func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	results, cancel := h.feed.Subscribe()
	defer cancel()

	// Drain client messages so close frames are processed.
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
		case <-done:
			return
		case result, ok := <-results:
			if !ok {
				return
			}
			if err := conn.WriteJSON(result); err != nil {
				return
			}
		}
	}
}
