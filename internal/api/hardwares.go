package api

import (
	"encoding/json"
	"net/http"

	"github.com/feedgate/feedgate/internal/catalog"
)

// handleListHardware returns the full catalog.
func (s *Server) handleListHardware(w http.ResponseWriter, r *http.Request) {
	entries, err := s.hardware.List(r.Context())
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	respond(w, http.StatusOK, MessageOK, Multiple(entries))
}

// handleGetHardware returns one catalog entry.
func (s *Server) handleGetHardware(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respond(w, http.StatusNotFound, MessageNotFound, None())
		return
	}

	hw, err := s.hardware.GetByID(r.Context(), id)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	respond(w, http.StatusOK, MessageOK, Single(hw))
}

// handleCreateHardware adds a catalog entry. The type domain is closed;
// anything outside it is rejected before storage.
func (s *Server) handleCreateHardware(w http.ResponseWriter, r *http.Request) {
	p, ok := decodeHardwarePayload(w, r)
	if !ok {
		return
	}

	hw, err := s.hardware.Insert(r.Context(), p)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	respond(w, http.StatusCreated, MessageCreated, Single(hw))
}

// handleUpdateHardware replaces a catalog entry's fields.
func (s *Server) handleUpdateHardware(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respond(w, http.StatusNotFound, MessageNotFound, None())
		return
	}

	p, ok := decodeHardwarePayload(w, r)
	if !ok {
		return
	}

	if err := s.hardware.Update(r.Context(), id, p); err != nil {
		s.errorResponse(w, r, err)
		return
	}
	respond(w, http.StatusOK, MessageOK, None())
}

// handleDeleteHardware removes a catalog entry.
func (s *Server) handleDeleteHardware(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respond(w, http.StatusNotFound, MessageNotFound, None())
		return
	}

	if err := s.hardware.Delete(r.Context(), id); err != nil {
		s.errorResponse(w, r, err)
		return
	}
	respond(w, http.StatusOK, MessageOK, None())
}

// decodeHardwarePayload decodes and validates a catalog payload,
// writing the terminal response itself on failure.
func decodeHardwarePayload(w http.ResponseWriter, r *http.Request) (*catalog.Payload, bool) {
	var p catalog.Payload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		respond(w, http.StatusBadRequest, MessageInvalidPayload, None())
		return nil, false
	}
	if err := p.Validate(); err != nil {
		status, message := classifyError(err)
		if status == http.StatusInternalServerError {
			status, message = http.StatusBadRequest, MessageInvalidPayload
		}
		respond(w, status, message, None())
		return nil, false
	}
	return &p, true
}
