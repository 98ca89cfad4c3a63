package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/donation-hub/internal/service"
)

// AuthHandler serves /api/auth: login and the current-user lookup.
type AuthHandler struct {
	auth   *service.AuthService
	logger *slog.Logger
}

// NewAuthHandler creates an AuthHandler. All dependencies are injected here;
// the handler has no knowledge of how they're constructed.
func NewAuthHandler(auth *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

// HandleCurrentUser returns the authenticated user's profile.
//
// HTTP: GET /api/auth
// Auth: Required (RequireAuth middleware sets the identity in context)
//
// The password hash is on the model but tagged json:"-", so it never
// reaches the response.
func (h *AuthHandler) HandleCurrentUser(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}

	user, err := h.auth.CurrentUser(r.Context(), id.ID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// HandleLogin exchanges credentials for a token.
//
// HTTP: POST /api/auth
// REQUEST BODY: {"email": "...", "password": "..."}
// RESPONSE: {"token": "<jwt>"}
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}
