package api

import (
	"errors"
	"net/http"

	"github.com/feedgate/feedgate/internal/auth"
	"github.com/feedgate/feedgate/internal/catalog"
	"github.com/feedgate/feedgate/internal/feed"
	"github.com/feedgate/feedgate/internal/node"
)

// errorResponse maps a domain error to its terminal status and
// message. Validation and not-found errors keep their specific,
// non-sensitive message; anything unrecognised is a storage failure,
// logged with full detail while the client sees only the generic
// message.
func (s *Server) errorResponse(w http.ResponseWriter, r *http.Request, err error) {
	status, message := classifyError(err)

	if status == http.StatusInternalServerError {
		s.logger.Error("request failed",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", r.Context().Value(ctxKeyRequestID),
		)
	}

	respond(w, status, message, None())
}

// classifyError resolves the (status, message) pair for a domain error.
func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, auth.ErrUserNotFound):
		return http.StatusNotFound, MessageUserNotFound
	case errors.Is(err, auth.ErrUsernameExists):
		return http.StatusConflict, MessageUsernameExists
	case errors.Is(err, catalog.ErrHardwareNotFound):
		return http.StatusNotFound, MessageHardwareNotFound
	case errors.Is(err, catalog.ErrInvalidHardwareType):
		return http.StatusBadRequest, MessageHardwareTypeNotValid
	case errors.Is(err, node.ErrNodeNotFound), errors.Is(err, feed.ErrNodeNotFound):
		return http.StatusNotFound, MessageNodeNotFound
	case errors.Is(err, node.ErrNodeHardwareIsSensor):
		return http.StatusBadRequest, MessageNodeHardwareIsSensor
	case errors.Is(err, node.ErrSensorCountMismatch):
		return http.StatusBadRequest, MessageSensorLengthMismatch
	case errors.Is(err, node.ErrSensorNotFound):
		return http.StatusNotFound, MessageSensorNotFound
	case errors.Is(err, node.ErrSensorTypeInvalid):
		return http.StatusBadRequest, MessageSensorTypeNotValid
	case errors.Is(err, feed.ErrInvalidPayload):
		return http.StatusBadRequest, MessageInvalidPayload
	default:
		return http.StatusInternalServerError, MessageInternalServerError
	}
}

// authErrorResponse maps credential failures to their terminal
// response: 401 with the specific auth message, or 403 when the
// identity is valid but the role is insufficient.
func authErrorResponse(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrTokenMissing):
		respond(w, http.StatusUnauthorized, MessageTokenMissing, None())
	case errors.Is(err, auth.ErrTokenExpired):
		respond(w, http.StatusUnauthorized, MessageTokenExpired, None())
	case errors.Is(err, auth.ErrForbidden):
		respond(w, http.StatusForbidden, MessageUnauthorized, None())
	default:
		respond(w, http.StatusUnauthorized, MessageInvalidToken, None())
	}
}
