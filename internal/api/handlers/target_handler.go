package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/lmarques/goaltrack-be/internal/auth"
	"github.com/lmarques/goaltrack-be/internal/services"
)

// TargetHandler handles HTTP requests for targets nested under goals.
type TargetHandler struct {
	targets services.TargetServiceProvider
}

// NewTargetHandler creates a new TargetHandler.
func NewTargetHandler(targets services.TargetServiceProvider) *TargetHandler {
	return &TargetHandler{targets: targets}
}

// Add handles target creation under an owned goal.
func (h *TargetHandler) Add(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFrom(r.Context())
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	goalID, err := pathID(r, "goalID")
	if err != nil {
		respondError(w, r, err)
		return
	}

	var payload TargetPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	target, err := h.targets.Add(r.Context(), goalID, user.ID,
		services.TargetInput{Title: payload.Title, Target: payload.Target, Progress: payload.Progress})
	if err != nil {
		log.Warn().Err(err).Int64("goal_id", goalID).Msg("Failed to add target")
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, target)
}

// Update handles changes to a target's fields.
func (h *TargetHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFrom(r.Context())
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	goalID, err := pathID(r, "goalID")
	if err != nil {
		respondError(w, r, err)
		return
	}
	targetID, err := pathID(r, "targetID")
	if err != nil {
		respondError(w, r, err)
		return
	}

	var payload TargetPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	target, err := h.targets.Update(r.Context(), goalID, targetID, user.ID,
		services.TargetInput{Title: payload.Title, Target: payload.Target, Progress: payload.Progress})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, target)
}

// Delete removes a target. An already-absent target still yields 204.
func (h *TargetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFrom(r.Context())
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	goalID, err := pathID(r, "goalID")
	if err != nil {
		respondError(w, r, err)
		return
	}
	targetID, err := pathID(r, "targetID")
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.targets.Delete(r.Context(), goalID, targetID, user.ID); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
