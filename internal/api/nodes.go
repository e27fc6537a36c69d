package api

import (
	"encoding/json"
	"net/http"

	"github.com/feedgate/feedgate/internal/node"
)

// handleListNodes returns every node visible to the caller, each with
// its feed history. Visibility is a single filtered query, not
// post-filtering in memory.
func (s *Server) handleListNodes(w http.ResponseWriter, r *http.Request) {
	nodes, err := s.nodes.List(r.Context(), identityFrom(r.Context()))
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	respond(w, http.StatusOK, MessageOK, Multiple(nodes))
}

// handleGetNode returns one visible node with feeds. A node outside
// the caller's visibility is indistinguishable from a missing one.
func (s *Server) handleGetNode(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respond(w, http.StatusNotFound, MessageNodeNotFound, None())
		return
	}

	result, err := s.nodes.GetWithFeeds(r.Context(), id, identityFrom(r.Context()))
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	respond(w, http.StatusOK, MessageOK, Single(result))
}

// handleCreateNode validates the payload against the catalog and
// stores a node owned by the caller. Validation failures never reach
// storage.
func (s *Server) handleCreateNode(w http.ResponseWriter, r *http.Request) {
	var p node.Payload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		respond(w, http.StatusBadRequest, MessageInvalidPayload, None())
		return
	}

	if err := node.ValidatePayload(r.Context(), &p, s.hardware); err != nil {
		s.errorResponse(w, r, err)
		return
	}

	created, err := s.nodes.Insert(r.Context(), identityFrom(r.Context()), &p)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	respond(w, http.StatusCreated, MessageCreated, Single(created))
}

// handleUpdateNode validates and applies an ownership-scoped update.
// A non-owner's update affects zero rows and reads as not-found.
func (s *Server) handleUpdateNode(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respond(w, http.StatusNotFound, MessageNodeNotFound, None())
		return
	}

	var p node.Payload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		respond(w, http.StatusBadRequest, MessageInvalidPayload, None())
		return
	}

	if err := node.ValidatePayload(r.Context(), &p, s.hardware); err != nil {
		s.errorResponse(w, r, err)
		return
	}

	if err := s.nodes.Update(r.Context(), id, identityFrom(r.Context()), &p); err != nil {
		s.errorResponse(w, r, err)
		return
	}
	respond(w, http.StatusOK, MessageOK, Single(p))
}

// handleDeleteNode applies an ownership-scoped delete.
func (s *Server) handleDeleteNode(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respond(w, http.StatusNotFound, MessageNodeNotFound, None())
		return
	}

	if err := s.nodes.Delete(r.Context(), id, identityFrom(r.Context())); err != nil {
		s.errorResponse(w, r, err)
		return
	}
	respond(w, http.StatusOK, MessageOK, None())
}
