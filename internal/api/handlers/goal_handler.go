package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/lmarques/goaltrack-be/internal/access"
	"github.com/lmarques/goaltrack-be/internal/apperrors"
	"github.com/lmarques/goaltrack-be/internal/auth"
	"github.com/lmarques/goaltrack-be/internal/models"
	"github.com/lmarques/goaltrack-be/internal/services"
)

// GoalHandler handles HTTP requests for goals.
type GoalHandler struct {
	goals services.GoalServiceProvider
}

// NewGoalHandler creates a new GoalHandler.
func NewGoalHandler(goals services.GoalServiceProvider) *GoalHandler {
	return &GoalHandler{goals: goals}
}

// TargetPayload defines target fields in requests.
type TargetPayload struct {
	Title    string `json:"title"`
	Target   int64  `json:"target"`
	Progress int64  `json:"progress"`
}

// GoalPayload defines the structure for goal update requests.
type GoalPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Private     bool   `json:"private"`
}

// CreateGoalPayload defines the structure for goal creation requests.
type CreateGoalPayload struct {
	GoalPayload
	Targets []TargetPayload `json:"targets"`
}

// GoalsResponse wraps list results.
type GoalsResponse struct {
	Goals []*models.Goal `json:"goals"`
}

// Create handles goal creation, with any supplied targets inserted in the
// same transaction.
func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFrom(r.Context())
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	var payload CreateGoalPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	goal, err := h.goals.Create(r.Context(), user.ID, payload.Title, payload.Description, payload.Private, targetInputs(payload.Targets))
	if err != nil {
		log.Warn().Err(err).Int64("user_id", user.ID).Msg("Failed to create goal")
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, goal)
}

// Get returns a single goal. Authentication is optional here: anonymous
// requesters see only public goals.
func (h *GoalHandler) Get(w http.ResponseWriter, r *http.Request) {
	goalID, err := pathID(r, "goalID")
	if err != nil {
		respondError(w, r, err)
		return
	}

	requesterID := access.Anonymous
	if user, ok := auth.UserFrom(r.Context()); ok {
		requesterID = user.ID
	}

	goal, err := h.goals.Get(r.Context(), goalID, requesterID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, goal)
}

// ListOwn returns the authenticated user's goals, paginated.
func (h *GoalHandler) ListOwn(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFrom(r.Context())
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	limit, offset := pageParams(r)
	goals, err := h.goals.ListOwn(r.Context(), user.ID, limit, offset)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, GoalsResponse{Goals: goals})
}

// ListPublic returns everyone's public goals, paginated.
func (h *GoalHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	goals, err := h.goals.ListPublic(r.Context(), limit, offset)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, GoalsResponse{Goals: goals})
}

// Update handles title/description/visibility changes to an owned goal.
func (h *GoalHandler) Update(w http.ResponseWriter, r *http.Request) {
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

	var payload GoalPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	goal, err := h.goals.Update(r.Context(), goalID, user.ID, payload.Title, payload.Description, payload.Private)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, goal)
}

// Delete removes an owned goal and its targets.
func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.goals.Delete(r.Context(), goalID, user.ID); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func targetInputs(payloads []TargetPayload) []services.TargetInput {
	inputs := make([]services.TargetInput, 0, len(payloads))
	for _, p := range payloads {
		inputs = append(inputs, services.TargetInput{Title: p.Title, Target: p.Target, Progress: p.Progress})
	}
	return inputs
}

// pathID parses a numeric id from the route. A non-numeric id cannot name an
// existing row, so it maps to NotFound like any other missing entity.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0, apperrors.ErrNotFound
	}
	return id, nil
}

func pageParams(r *http.Request) (limit, offset int) {
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	return limit, offset
}
