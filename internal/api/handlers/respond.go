package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/lmarques/goaltrack-be/internal/apperrors"
)

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

func respondMessage(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// respondError is the only place core error kinds become HTTP statuses.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *apperrors.ValidationError
	switch {
	case errors.As(err, &ve):
		respondMessage(w, http.StatusBadRequest, ve.Error())
	case errors.Is(err, apperrors.ErrNotFound):
		respondMessage(w, http.StatusNotFound, "Not found")
	case errors.Is(err, apperrors.ErrForbidden):
		respondMessage(w, http.StatusForbidden, "Forbidden")
	case errors.Is(err, apperrors.ErrConflict):
		respondMessage(w, http.StatusConflict, err.Error())
	case errors.Is(err, apperrors.ErrUnauthenticated):
		respondMessage(w, http.StatusUnauthorized, "Invalid credentials")
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Str("method", r.Method).Msg("Request failed")
		respondMessage(w, http.StatusInternalServerError, "Internal server error")
	}
}
