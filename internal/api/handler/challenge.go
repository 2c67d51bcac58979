package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ollav12/DAT251/internal/api/models"
	"github.com/ollav12/DAT251/internal/api/response"
	"github.com/ollav12/DAT251/internal/challenge"
)

// ChallengeHandler handles challenge definition and progress endpoints.
type ChallengeHandler struct {
	challenges *challenge.Service
	engine     *challenge.Engine
}

// NewChallengeHandler creates a new ChallengeHandler.
func NewChallengeHandler(challenges *challenge.Service, engine *challenge.Engine) *ChallengeHandler {
	return &ChallengeHandler{
		challenges: challenges,
		engine:     engine,
	}
}

// Create handles POST /v1/challenges - define a new challenge.
func (h *ChallengeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.ChallengeCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	created, err := h.challenges.Create(r.Context(), challenge.CreateInput{
		Title:        req.Title,
		Description:  req.Description,
		RewardPoints: req.RewardPoints,
		DurationDays: req.DurationDays,
		Type:         req.Type,
		TargetValue:  req.TargetValue,
		MetricUnit:   req.MetricUnit,
	})
	if err != nil {
		var verr *challenge.ValidationError
		if errors.As(err, &verr) {
			response.BadRequest(w, r, "validation error", verr.Errors)
			return
		}
		response.InternalError(w, r, "failed to create challenge")
		return
	}

	response.Created(w, r, "/v1/challenges/"+created.ID, toChallengeModel(created))
}

// List handles GET /v1/challenges - list all challenge definitions.
func (h *ChallengeHandler) List(w http.ResponseWriter, r *http.Request) {
	challenges, err := h.challenges.List(r.Context())
	if err != nil {
		response.InternalError(w, r, "failed to list challenges")
		return
	}

	out := make([]models.Challenge, len(challenges))
	for i, c := range challenges {
		out[i] = toChallengeModel(c)
	}
	response.JSON(w, r, http.StatusOK, out)
}

// Get handles GET /v1/challenges/{challengeId}.
func (h *ChallengeHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.challenges.Get(r.Context(), chi.URLParam(r, "challengeId"))
	if err != nil {
		if errors.Is(err, challenge.ErrChallengeNotFound) {
			response.NotFound(w, r, "challenge not found")
			return
		}
		response.InternalError(w, r, "failed to get challenge")
		return
	}
	response.JSON(w, r, http.StatusOK, toChallengeModel(c))
}

// Delete handles DELETE /v1/challenges/{challengeId} - removes the
// challenge and every user's status on it.
func (h *ChallengeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.challenges.Delete(r.Context(), chi.URLParam(r, "challengeId"))
	if err != nil {
		if errors.Is(err, challenge.ErrChallengeNotFound) {
			response.NotFound(w, r, "challenge not found")
			return
		}
		response.InternalError(w, r, "failed to delete challenge")
		return
	}
	response.NoContent(w, r)
}

// Start handles POST /v1/users/{userId}/challenges/{challengeId}/start.
func (h *ChallengeHandler) Start(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if !requireOwner(w, r, userID) {
		return
	}

	status, err := h.engine.Assign(r.Context(), userID, chi.URLParam(r, "challengeId"))
	if err != nil {
		h.writeChallengeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, toStatusModel(status))
}

// Progress handles POST /v1/users/{userId}/challenges/{challengeId}/progress.
func (h *ChallengeHandler) Progress(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if !requireOwner(w, r, userID) {
		return
	}

	var req models.ChallengeProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	status, err := h.engine.Progress(r.Context(), userID, chi.URLParam(r, "challengeId"), challenge.Update{
		MetricUnit: req.MetricUnit,
		Value:      req.Value,
	})
	if err != nil {
		h.writeChallengeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, toStatusModel(status))
}

// Complete handles POST /v1/users/{userId}/challenges/{challengeId}/complete.
func (h *ChallengeHandler) Complete(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if !requireOwner(w, r, userID) {
		return
	}

	status, err := h.engine.Complete(r.Context(), userID, chi.URLParam(r, "challengeId"))
	if err != nil {
		h.writeChallengeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, toStatusModel(status))
}

// ListForUser handles GET /v1/users/{userId}/challenges. An optional
// status query parameter filters by progress state.
func (h *ChallengeHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if !requireOwner(w, r, userID) {
		return
	}

	var filter challenge.Status
	if s := r.URL.Query().Get("status"); s != "" {
		parsed, ok := challenge.ParseStatus(s)
		if !ok {
			response.BadRequest(w, r, "unknown status filter", []models.FieldError{
				{Field: "status", Message: "unknown status: " + s, Code: "invalid"},
			})
			return
		}
		filter = parsed
	}

	userChallenges, err := h.engine.ListForUser(r.Context(), userID)
	if err != nil {
		h.writeChallengeError(w, r, err)
		return
	}

	out := make([]models.UserChallenge, 0, len(userChallenges))
	for _, uc := range userChallenges {
		if filter != "" && uc.Status.Status != filter {
			continue
		}
		out = append(out, models.UserChallenge{
			Challenge: toChallengeModel(uc.Challenge),
			Status:    toStatusModel(uc.Status),
		})
	}
	response.JSON(w, r, http.StatusOK, out)
}

// writeChallengeError maps challenge domain errors to responses.
func (h *ChallengeHandler) writeChallengeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, challenge.ErrChallengeNotFound):
		response.NotFound(w, r, "challenge not found")
	case errors.Is(err, challenge.ErrStatusNotFound):
		response.NotFound(w, r, "challenge has not been started")
	case errors.Is(err, challenge.ErrAlreadyCompleted):
		response.Conflict(w, r, "challenge is already completed")
	case errors.Is(err, challenge.ErrTargetNotMet):
		response.BadRequest(w, r, "challenge target has not been reached", nil)
	case errors.Is(err, challenge.ErrUnitMismatch):
		response.BadRequest(w, r, "metric unit does not match the challenge", nil)
	default:
		response.InternalError(w, r, "challenge operation failed")
	}
}

// toChallengeModel maps a challenge definition to its API representation.
func toChallengeModel(c *challenge.Challenge) models.Challenge {
	return models.Challenge{
		ID:           c.ID,
		Title:        c.Title,
		Description:  c.Description,
		RewardPoints: c.RewardPoints,
		DurationDays: c.DurationDays,
		Type:         string(c.Type),
		TargetValue:  c.TargetValue,
		MetricUnit:   c.MetricUnit,
	}
}

// toStatusModel maps a challenge status to its API representation.
func toStatusModel(s *challenge.ChallengeStatus) models.ChallengeStatus {
	return models.ChallengeStatus{
		ChallengeID:  s.ChallengeID,
		Status:       string(s.Status),
		CurrentValue: s.CurrentValue,
		StartedAt:    s.StartedAt,
		CompletedAt:  s.CompletedAt,
	}
}
