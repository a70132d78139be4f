package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/log"
)

const writeWait = 2 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// ResultsHandler streams pipeline results to WebSocket clients.
type ResultsHandler struct {
	app *app.App
}

// NewResultsHandler creates a new ResultsHandler over the given app.
func NewResultsHandler(a *app.App) *ResultsHandler {
	return &ResultsHandler{app: a}
}

// ServeHTTP upgrades the connection and writes one JSON message per result
// until the client goes away.
func (h *ResultsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithRequestID(r.Context()).WithError(err).Warn("websocket upgrade")
		return
	}
	defer conn.Close()

	results, cancel := h.app.Subscribe()
	defer cancel()

	// The reader only notices the client closing.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	log.WithRequestID(r.Context()).Debug("results subscriber connected")

	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case res, ok := <-results:
			if !ok {
				return
			}
			msg, err := json.Marshal(res)
			if err != nil {
				log.WithRequestID(r.Context()).WithError(err).Error("encode result")
				continue
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		}
	}
}
