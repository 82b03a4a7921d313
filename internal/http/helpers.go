package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/airatk/budget-api/internal/auth"
	"github.com/airatk/budget-api/internal/core"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}

// respondDomainError maps domain errors to HTTP statuses. Anything it does
// not recognise is a 500 with a generic body.
func respondDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrRecordNotFound):
		respondError(w, http.StatusNotFound, "record not found")
	case errors.Is(err, core.ErrRecordNotOwned):
		respondError(w, http.StatusForbidden, "record belongs to another user")
	case errors.Is(err, core.ErrAlreadyExists):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, core.ErrSelfIsNotRelative),
		errors.Is(err, core.ErrInvalidInvite):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, core.ErrInvalidType),
		errors.Is(err, core.ErrInvalidPeriod),
		errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrEmptyName):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		respondError(w, http.StatusUnauthorized, "invalid or expired token")
	default:
		slog.ErrorContext(r.Context(), "Request failed", "method", r.Method, "url", r.URL.Path, "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeRequest parses the JSON body into dst and writes the error response
// itself on failure. Domain value errors surfaced by custom unmarshalers
// (amounts, dates) are reported as 422, malformed JSON as 400.
func decodeRequest(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	err := dec.Decode(dst)
	if err == nil {
		return true
	}
	if errors.Is(err, core.ErrInvalidAmount) || errors.Is(err, core.ErrInvalidDate) {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	} else {
		respondError(w, http.StatusBadRequest, "invalid request body")
	}
	return false
}
