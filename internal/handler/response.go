package handler

// RESPONSE HELPERS:
// These functions standardise how we send JSON responses and errors.
//
// ERROR SHAPES:
// The web client reads two error shapes, depending on the failure:
//
//	{"errors": [{"msg": "Name is required", "param": "name", "location": "body"}]}
//	{"msg": "Blog not found"}
//
// Input checks (and a few rule failures the client shows next to the form)
// use the list; everything else uses the single message. A failure we did not
// anticipate is a plain-text 500 with no details.

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/sakif/donation-hub/internal/apperror"
	"github.com/sakif/donation-hub/internal/auth"
)

// maxBodyBytes caps request bodies; every payload here is a handful of short
// strings.
const maxBodyBytes = 1 << 20

type messageResponse struct {
	Msg string `json:"msg"`
}

type errorsResponse struct {
	Errors []apperror.FieldError `json:"errors"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// writeJSON sends a JSON response with the given status code.
//
// HEADER ORDER MATTERS:
// Headers and status must be set before the body; once Encode writes, any
// header change is silently ignored.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers are already sent; all we can do is log.
		slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}

// writeError maps a domain error to a status code and body.
//
// errors.Is walks the whole chain, so a service may wrap an apperror with
// fmt.Errorf("...: %w") and it still maps correctly.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		switch {
		case errors.Is(err, apperror.ErrValidation):
			details := appErr.Details
			if len(details) == 0 {
				details = []apperror.FieldError{{Msg: appErr.Message}}
			}
			writeJSON(w, http.StatusBadRequest, errorsResponse{Errors: details})
			return
		case errors.Is(err, apperror.ErrBadRequest):
			writeJSON(w, http.StatusBadRequest, messageResponse{Msg: appErr.Message})
			return
		case errors.Is(err, apperror.ErrUnauthorized):
			writeJSON(w, http.StatusUnauthorized, messageResponse{Msg: appErr.Message})
			return
		case errors.Is(err, apperror.ErrNotFound):
			writeJSON(w, http.StatusNotFound, messageResponse{Msg: appErr.Message})
			return
		}
	}

	// NEVER expose internal error details to the client: the chain may carry
	// queries, hostnames or file paths.
	logger.Error("request failed", slog.String("error", err.Error()))
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// decodeJSON reads the request body into dst. An empty body leaves dst at
// its zero value so the field checks report what is missing.
func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return apperror.BadRequest("Invalid JSON body")
	}
	return nil
}

// caller returns the authenticated identity. On a route without RequireAuth
// it answers 401 itself and reports false.
func caller(w http.ResponseWriter, r *http.Request) (auth.Identity, bool) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, messageResponse{Msg: "No token, authorization denied"})
	}
	return id, ok
}
