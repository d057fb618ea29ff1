package httpapi

import (
	"net/http"

	"github.com/gorilla/websocket"
)

// Stream message types sent to the client
const (
	msgChunk  = "chunk"
	msgResult = "result"
	msgError  = "error"
)

type streamMessage struct {
	Type    string `json:"type"`
	Content string `json:"content,omitempty"`
	Answer  string `json:"answer,omitempty"`
	Result  any    `json:"response_json,omitempty"`
	Error   string `json:"error,omitempty"`
}

// handleAskStream upgrades to a websocket, reads a single ask request and
// streams narrator chunks followed by the final answer+envelope pair.
func (s *Server) handleAskStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	var req askRequest
	if err := conn.ReadJSON(&req); err != nil {
		conn.WriteJSON(streamMessage{Type: msgError, Error: "invalid request"})
		return
	}
	if req.Question == "" {
		conn.WriteJSON(streamMessage{Type: msgError, Error: "question is required"})
		return
	}

	// Chunks are emitted synchronously from the narrator loop, so all
	// writes stay on this goroutine as the websocket API requires.
	resp, err := s.pipeline.RunStream(r.Context(), req.Question, func(chunk string) {
		conn.WriteJSON(streamMessage{Type: msgChunk, Content: chunk})
	})
	if err != nil {
		s.logger.Error("pipeline stream failed", "error", err)
		conn.WriteJSON(streamMessage{Type: msgError, Error: err.Error()})
		return
	}

	conn.WriteJSON(streamMessage{
		Type:   msgResult,
		Answer: resp.Answer,
		Result: resp.ResponseJSON,
	})

	conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
