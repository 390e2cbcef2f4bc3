package http

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"quizforge-service/internal/app"
	"quizforge-service/internal/domain"
)

// WSHandler streams leaderboard snapshots to websocket clients: one snapshot
// on connect, then one after every scoring mutation.
type WSHandler struct {
	scores   *app.ScoreService
	upgrader websocket.Upgrader
}

func NewWSHandler(scores *app.ScoreService) *WSHandler {
	return &WSHandler{
		scores: scores,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type outboundMessage struct {
	Type    string             `json:"type"`
	Payload domain.Leaderboard `json:"payload"`
}

// ServeWS upgrades the request and forwards leaderboard updates until the
// client disconnects.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.WithField("error", err).Warn("ws upgrade failed")
		return
	}
	defer conn.Close()

	updates, cancel, err := h.scores.Subscribe()
	if err != nil {
		logrus.WithField("error", err).Warn("ws subscribe failed")
		return
	}
	defer cancel()

	// Reader goroutine: drain until the client closes, then stop the writer.
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
		case lb, ok := <-updates:
			if !ok {
				return
			}
			if err := conn.WriteJSON(outboundMessage{Type: "leaderboard", Payload: lb}); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
