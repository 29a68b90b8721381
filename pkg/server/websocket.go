package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

// handleWebSocket subscribes the connection to the session's frames and
// holds it open until the client goes away.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		s.config.Metrics.RecordWebSocketError("upgrade")
		return
	}

	if err := sess.subscribe(conn); err != nil {
		s.config.Metrics.RecordWebSocketError("subscribe")
		conn.Close()
		return
	}

	// Clients send nothing; reading detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.config.Metrics.RecordWebSocketError("read")
				sess.logger.Debug("websocket read error", "error", err)
			}
			break
		}
	}

	if sess.unsubscribe(conn) {
		conn.Close()
	}
}
