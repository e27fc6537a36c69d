package api

import (
	"encoding/json"
	"net/http"

	"github.com/feedgate/feedgate/internal/feed"
)

// handleIngestFeed stores one reading over HTTP. The same ingestion
// service serves the MQTT broker, so authorization is identical on
// both transports.
func (s *Server) handleIngestFeed(w http.ResponseWriter, r *http.Request) {
	var p feed.Payload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		respond(w, http.StatusBadRequest, MessageInvalidPayload, None())
		return
	}

	if err := s.feeds.Ingest(r.Context(), identityFrom(r.Context()), &p); err != nil {
		s.errorResponse(w, r, err)
		return
	}

	respond(w, http.StatusCreated, MessageCreated, None())
}
