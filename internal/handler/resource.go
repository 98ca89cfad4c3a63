package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/donation-hub/internal/service"
)

// ResourceHandler serves /api/resources.
type ResourceHandler struct {
	resources *service.ResourceService
	logger    *slog.Logger
}

func NewResourceHandler(resources *service.ResourceService, logger *slog.Logger) *ResourceHandler {
	return &ResourceHandler{resources: resources, logger: logger}
}

// HandleList returns every resource. Public.
//
// HTTP: GET /api/resources
func (h *ResourceHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.resources.List(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// HandleFilter returns resources near a pincode.
//
// HTTP: GET /api/resources/{filterby}
// REQUEST BODY: {"pincode": "110001"}, or ?pincode=110001 for clients that
// cannot send a body with GET.
//
// filterby is city, state or country. Anything else answers 200 with null.
func (h *ResourceHandler) HandleFilter(w http.ResponseWriter, r *http.Request) {
	if _, ok := caller(w, r); !ok {
		return
	}

	var req filterRequest
	if err := decodeJSON(r, &req); err != nil {
		// A GET body is optional; fall through to the query string.
		h.logger.Debug("ignoring unreadable filter body", slog.String("error", err.Error()))
	}
	pincode := req.Pincode.String()
	if pincode == "" {
		pincode = r.URL.Query().Get("pincode")
	}

	list, err := h.resources.Filter(r.Context(), chi.URLParam(r, "filterby"), pincode)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// HandleDelete deletes one of the caller's resources.
//
// HTTP: DELETE /api/resources/{id}
// RESPONSE: {"msg": "resource removed"}
func (h *ResourceHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}

	if err := h.resources.Delete(r.Context(), id.ID, chi.URLParam(r, "id")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Msg: "resource removed"})
}
