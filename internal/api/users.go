package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/feedgate/feedgate/internal/auth"
)

// signupRequest is the body of POST /users/signup.
type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginRequest is the body of POST /users/login.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// changePasswordRequest is the body of POST /users/change-password.
type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// activateRequest is the body of POST /users/activate.
type activateRequest struct {
	Token string `json:"token"`
}

// tokenResponse carries an issued session token.
type tokenResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
}

// handleListUsers returns all accounts. Admin only; password hashes
// never leave the repository on this path.
func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.List(r.Context())
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	respond(w, http.StatusOK, MessageOK, Multiple(users))
}

// handleGetUser returns one account. Callers may fetch themselves;
// admins may fetch anyone.
func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respond(w, http.StatusNotFound, MessageNotFound, None())
		return
	}

	identity := identityFrom(r.Context())
	if !identity.IsAdmin && identity.UserID != id {
		respond(w, http.StatusForbidden, MessageUnauthorized, None())
		return
	}

	user, err := s.users.GetByID(r.Context(), id)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	respond(w, http.StatusOK, MessageOK, Single(user))
}

// handleSignup registers an account with a hashed password.
//
// When activation is required the account starts inactive and the
// activation token is returned to the caller; otherwise the account is
// usable immediately.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, MessageInvalidPayload, None())
		return
	}

	if !auth.IsValidUsername(req.Username) || req.Password == "" {
		respond(w, http.StatusBadRequest, MessageInvalidPayload, None())
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	user := &auth.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		IsActive:     !s.secCfg.RequireActivation,
	}
	if err := s.users.Create(r.Context(), user); err != nil {
		s.errorResponse(w, r, err)
		return
	}

	if s.secCfg.RequireActivation {
		token, err := auth.GenerateActivationToken(user.ID, s.secCfg.JWT.Secret, s.secCfg.JWT.ActivationTTLHours)
		if err != nil {
			s.errorResponse(w, r, err)
			return
		}
		respond(w, http.StatusCreated, MessageSignupSuccess, Single(map[string]string{
			"activation_token": token,
		}))
		return
	}

	respond(w, http.StatusCreated, MessageSignupSuccess, None())
}

// handleLogin verifies credentials and issues a session token.
// Unknown username and wrong password are indistinguishable.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, MessageInvalidPayload, None())
		return
	}

	user, err := s.users.GetByUsername(r.Context(), req.Username)
	if err != nil {
		// Not-found collapses into the generic credential failure.
		respond(w, http.StatusUnauthorized, MessageLoginFailed, None())
		return
	}

	ok, err := auth.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil || !ok {
		respond(w, http.StatusUnauthorized, MessageLoginFailed, None())
		return
	}

	if !user.IsActive {
		respond(w, http.StatusUnauthorized, MessageAccountInactive, None())
		return
	}

	token, err := auth.GenerateToken(user, s.secCfg.JWT.Secret, s.secCfg.JWT.TokenTTLHours)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	respond(w, http.StatusOK, MessageLoginSuccess, Single(tokenResponse{
		Token:     token,
		TokenType: "bearer",
	}))
}

// handleChangePassword verifies the old password and stores a new hash
// for the authenticated account.
func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.NewPassword == "" {
		respond(w, http.StatusBadRequest, MessageInvalidPayload, None())
		return
	}

	identity := identityFrom(r.Context())
	user, err := s.users.GetByID(r.Context(), identity.UserID)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	ok, err := auth.VerifyPassword(req.OldPassword, user.PasswordHash)
	if err != nil || !ok {
		respond(w, http.StatusBadRequest, MessagePasswordNotMatch, None())
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	if err := s.users.UpdatePassword(r.Context(), user.ID, hash); err != nil {
		s.errorResponse(w, r, err)
		return
	}

	respond(w, http.StatusOK, MessageChangePasswordSuccess, None())
}

// handleActivate turns an activation token into an active account.
func (s *Server) handleActivate(w http.ResponseWriter, r *http.Request) {
	var req activateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		respond(w, http.StatusBadRequest, MessageInvalidPayload, None())
		return
	}

	userID, err := auth.ParseActivationToken(req.Token, s.secCfg.JWT.Secret)
	if err != nil {
		authErrorResponse(w, err)
		return
	}

	if err := s.users.SetActive(r.Context(), userID, true); err != nil {
		s.errorResponse(w, r, err)
		return
	}

	respond(w, http.StatusOK, MessageAccountActivated, None())
}

// pathID parses the {id} route parameter.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
