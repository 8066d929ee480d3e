package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/skillswap/skillswap/internal/domain/notification"
)

// streamEvents pushes the caller's notification events as server-sent events.
func (s *Server) streamEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, http.StatusInternalServerError, "INTERNAL", "streaming not supported")
		return
	}
	userID := callerID(r.Context()).String()
	clientID := uuid.New().String()
	client := notification.NewSSEClient(clientID, &userID)
	s.sseHub.Register(client)
	defer s.sseHub.Unregister(clientID)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(": connected\n\n"))
	flusher.Flush()

	ctx := r.Context()
	for {
		select {
		case msg := <-client.MessageChan:
			if msg == nil {
				return
			}
			payload, err := json.Marshal(msg)
			if err != nil {
				s.logger.Warn().Err(err).Str("client_id", clientID).Msg("encode sse message failed")
				continue
			}
			_, _ = w.Write([]byte("id: " + msg.ID + "\nevent: " + msg.Event + "\ndata: "))
			_, _ = w.Write(payload)
			_, _ = w.Write([]byte("\n\n"))
			flusher.Flush()
		case <-ctx.Done():
			return
		}
	}
}
