package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ollav12/DAT251/internal/api/models"
	"github.com/ollav12/DAT251/internal/api/response"
	"github.com/ollav12/DAT251/internal/trip"
	"github.com/ollav12/DAT251/internal/user"
)

// UserHandler handles user account endpoints.
type UserHandler struct {
	users *user.Service
	trips *trip.Service
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users *user.Service, trips *trip.Service) *UserHandler {
	return &UserHandler{
		users: users,
		trips: trips,
	}
}

// Register handles POST /v1/users - register a new user account.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.UserCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	created, err := h.users.Register(r.Context(), user.RegisterInput{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		var verr *user.ValidationError
		switch {
		case errors.As(err, &verr):
			response.BadRequest(w, r, "validation error", verr.Errors)
		case errors.Is(err, user.ErrUsernameTaken):
			response.Conflict(w, r, "username is already taken")
		default:
			response.InternalError(w, r, "failed to register user")
		}
		return
	}

	response.Created(w, r, "/v1/users/"+created.ID, toUserModel(created))
}

// Get handles GET /v1/users/{userId} - get a user account.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if !requireOwner(w, r, userID) {
		return
	}

	u, err := h.users.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			response.NotFound(w, r, "user not found")
			return
		}
		response.InternalError(w, r, "failed to get user")
		return
	}

	response.JSON(w, r, http.StatusOK, toUserModel(u))
}

// Update handles PUT /v1/users/{userId} - update a user account.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if !requireOwner(w, r, userID) {
		return
	}

	var req models.UserUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	updated, err := h.users.Update(r.Context(), userID, user.UpdateInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		var verr *user.ValidationError
		switch {
		case errors.As(err, &verr):
			response.BadRequest(w, r, "validation error", verr.Errors)
		case errors.Is(err, user.ErrUserNotFound):
			response.NotFound(w, r, "user not found")
		default:
			response.InternalError(w, r, "failed to update user")
		}
		return
	}

	response.JSON(w, r, http.StatusOK, toUserModel(updated))
}

// Delete handles DELETE /v1/users/{userId} - delete a user account.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if !requireOwner(w, r, userID) {
		return
	}

	if err := h.users.Delete(r.Context(), userID); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			response.NotFound(w, r, "user not found")
			return
		}
		response.InternalError(w, r, "failed to delete user")
		return
	}

	response.NoContent(w, r)
}

// Statistics handles GET /v1/users/{userId}/statistics - trip rollups.
func (h *UserHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if !requireOwner(w, r, userID) {
		return
	}

	stats, err := h.trips.Statistics(r.Context(), userID)
	if err != nil {
		response.InternalError(w, r, "failed to compute statistics")
		return
	}

	response.JSON(w, r, http.StatusOK, models.Statistics{
		TripCount:            stats.TripCount,
		TotalDistanceKm:      stats.TotalDistanceKm,
		TotalDurationSeconds: stats.TotalDurationSeconds,
		TotalEmissionsCO2eKg: stats.TotalEmissionsCO2eKg,
		TotalSavedCO2eKg:     stats.TotalSavedCO2eKg,
	})
}

// Leaderboard handles GET /v1/leaderboard - ranked user aggregates.
func (h *UserHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	metricParam := r.URL.Query().Get("metric")
	if metricParam == "" {
		metricParam = string(trip.MetricTotalSavedEmissions)
	}
	metric, ok := trip.ParseLeaderboardMetric(metricParam)
	if !ok {
		response.BadRequest(w, r, "unknown leaderboard metric", []models.FieldError{
			{Field: "metric", Message: "unknown metric: " + metricParam, Code: "invalid"},
		})
		return
	}

	periodParam := r.URL.Query().Get("period")
	if periodParam == "" {
		periodParam = string(trip.PeriodLifetime)
	}
	period, ok := trip.ParseLeaderboardPeriod(periodParam)
	if !ok {
		response.BadRequest(w, r, "unknown leaderboard period", []models.FieldError{
			{Field: "period", Message: "unknown period: " + periodParam, Code: "invalid"},
		})
		return
	}

	entries, err := h.trips.Leaderboard(r.Context(), metric, period)
	if err != nil {
		response.InternalError(w, r, "failed to compute leaderboard")
		return
	}

	resp := models.LeaderboardResponse{
		Metric:  string(metric),
		Period:  string(period),
		Entries: make([]models.LeaderboardEntry, len(entries)),
	}
	for i, e := range entries {
		resp.Entries[i] = models.LeaderboardEntry{
			Rank:      i + 1,
			Username:  e.Username,
			FirstName: e.FirstName,
			LastName:  e.LastName,
			Value:     e.Value,
		}
	}

	response.JSON(w, r, http.StatusOK, resp)
}

// toUserModel maps a domain user to its API representation.
func toUserModel(u *user.User) models.User {
	return models.User{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Points:    u.Points,
		CreatedAt: u.CreatedAt,
	}
}
