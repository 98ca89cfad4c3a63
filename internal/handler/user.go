package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/donation-hub/internal/service"
)

// UserHandler serves /api/users: registration and the caller's own
// resources.
type UserHandler struct {
	auth      *service.AuthService
	resources *service.ResourceService
	logger    *slog.Logger
}

func NewUserHandler(auth *service.AuthService, resources *service.ResourceService, logger *slog.Logger) *UserHandler {
	return &UserHandler{auth: auth, resources: resources, logger: logger}
}

// HandleRegister creates an account.
//
// HTTP: POST /api/users
// REQUEST BODY: {"name": "...", "email": "...", "password": "..."}
// RESPONSE: {"token": "<jwt>"}
func (h *UserHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	token, err := h.auth.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

// HandleAddResource lists a new donation for the caller.
//
// HTTP: POST /api/users/resource
// REQUEST BODY: {"name": "...", "qtty": 5, "pincode": "110001", "phone": "..."}
// RESPONSE: all of the caller's resources
func (h *UserHandler) HandleAddResource(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}
	var req resourceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	list, err := h.resources.Add(r.Context(), id.ID, req.input())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// HandleUpdateResource replaces one of the caller's resources.
//
// HTTP: PUT /api/users/resource/{id}
func (h *UserHandler) HandleUpdateResource(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}
	var req resourceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	list, err := h.resources.Update(r.Context(), id.ID, chi.URLParam(r, "id"), req.input())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// HandleDeleteResource deletes one of the caller's resources and returns the
// rest.
//
// HTTP: DELETE /api/users/{id}
func (h *UserHandler) HandleDeleteResource(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}

	list, err := h.resources.DeleteOwned(r.Context(), id.ID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (req resourceRequest) input() service.ResourceInput {
	return service.ResourceInput{
		Name:     req.Name,
		Quantity: req.Quantity.String(),
		Pincode:  req.Pincode.String(),
		Phone:    req.Phone.String(),
	}
}
