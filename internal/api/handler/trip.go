package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ollav12/DAT251/internal/api/models"
	"github.com/ollav12/DAT251/internal/api/response"
	"github.com/ollav12/DAT251/internal/routing"
	"github.com/ollav12/DAT251/internal/trip"
	"github.com/ollav12/DAT251/internal/vehicle"
)

// TripHandler handles trip estimation and recording endpoints.
type TripHandler struct {
	trips *trip.Service
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(trips *trip.Service) *TripHandler {
	return &TripHandler{
		trips: trips,
	}
}

// Estimate handles GET /v1/trips/estimate - compare emissions per mode.
func (h *TripHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	origin := r.URL.Query().Get("origin")
	destination := r.URL.Query().Get("destination")
	if origin == "" || destination == "" {
		response.BadRequest(w, r, "origin and destination are required", nil)
		return
	}

	vehicleID := r.URL.Query().Get("vehicleId")
	ownerID := GetUserID(r.Context())
	if vehicleID != "" && ownerID == "" {
		response.Unauthorized(w, r, "authentication is required to estimate with a personal vehicle")
		return
	}

	estimates, err := h.trips.Estimate(r.Context(), ownerID, origin, destination, vehicleID)
	if err != nil {
		h.writeTripError(w, r, err)
		return
	}

	resp := models.TripEstimateResponse{
		Alternatives: make(map[string]models.TripEstimate, len(estimates)),
	}
	for mode, est := range estimates {
		resp.Alternatives[string(mode)] = models.TripEstimate{
			DurationSeconds: est.DurationSeconds,
			DistanceKm:      est.DistanceKm,
			EmissionsCO2eKg: est.EmissionsCO2eKg,
		}
	}
	response.JSON(w, r, http.StatusOK, resp)
}

// Create handles POST /v1/users/{userId}/trips - record a trip.
func (h *TripHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if !requireOwner(w, r, userID) {
		return
	}

	var req models.TripCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	created, err := h.trips.Create(r.Context(), userID, trip.CreateInput{
		Origin:      req.Origin,
		Destination: req.Destination,
		Mode:        req.Mode,
		VehicleID:   req.VehicleID,
	})
	if err != nil {
		h.writeTripError(w, r, err)
		return
	}

	location := fmt.Sprintf("/v1/trips/%s", created.ID)
	response.Created(w, r, location, toTripModel(created))
}

// List handles GET /v1/users/{userId}/trips - list the user's trips.
func (h *TripHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if !requireOwner(w, r, userID) {
		return
	}

	trips, err := h.trips.List(r.Context(), userID)
	if err != nil {
		response.InternalError(w, r, "failed to list trips")
		return
	}

	out := make([]models.Trip, len(trips))
	for i, t := range trips {
		out[i] = toTripModel(t)
	}
	response.JSON(w, r, http.StatusOK, out)
}

// Get handles GET /v1/trips/{tripId}.
func (h *TripHandler) Get(w http.ResponseWriter, r *http.Request) {
	t, ok := h.ownedTrip(w, r)
	if !ok {
		return
	}
	response.JSON(w, r, http.StatusOK, toTripModel(t))
}

// Update handles PUT /v1/trips/{tripId} - overwrite a recorded trip.
func (h *TripHandler) Update(w http.ResponseWriter, r *http.Request) {
	t, ok := h.ownedTrip(w, r)
	if !ok {
		return
	}

	var req models.TripUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	updated, err := h.trips.Update(r.Context(), t.ID, trip.UpdateInput{
		Origin:               req.Origin,
		Destination:          req.Destination,
		Mode:                 req.Mode,
		DistanceKm:           req.DistanceKm,
		DurationSeconds:      req.DurationSeconds,
		EmissionsCO2eKg:      req.EmissionsCO2eKg,
		SavedEmissionsCO2eKg: req.SavedEmissionsCO2eKg,
	})
	if err != nil {
		h.writeTripError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, toTripModel(updated))
}

// Delete handles DELETE /v1/trips/{tripId}.
func (h *TripHandler) Delete(w http.ResponseWriter, r *http.Request) {
	t, ok := h.ownedTrip(w, r)
	if !ok {
		return
	}

	if err := h.trips.Delete(r.Context(), t.ID); err != nil {
		if errors.Is(err, trip.ErrTripNotFound) {
			response.NotFound(w, r, "trip not found")
			return
		}
		response.InternalError(w, r, "failed to delete trip")
		return
	}

	response.NoContent(w, r)
}

// ownedTrip loads the trip from the URL and checks that the
// authenticated user owns it.
func (h *TripHandler) ownedTrip(w http.ResponseWriter, r *http.Request) (*trip.Trip, bool) {
	tripID := chi.URLParam(r, "tripId")

	t, err := h.trips.Get(r.Context(), tripID)
	if err != nil {
		if errors.Is(err, trip.ErrTripNotFound) {
			response.NotFound(w, r, "trip not found")
			return nil, false
		}
		response.InternalError(w, r, "failed to get trip")
		return nil, false
	}

	if t.UserID != GetUserID(r.Context()) {
		response.Forbidden(w, r, "you can only access your own trips")
		return nil, false
	}
	return t, true
}

// writeTripError maps domain errors from trip operations to responses.
func (h *TripHandler) writeTripError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, trip.ErrModeAndVehicle),
		errors.Is(err, trip.ErrModeOrVehicleRequired),
		errors.Is(err, trip.ErrUnknownMode),
		errors.Is(err, trip.ErrNoRouteForMode),
		errors.Is(err, trip.ErrNoDrivingBaseline),
		errors.Is(err, routing.ErrInvalidRequest):
		response.BadRequest(w, r, err.Error(), nil)
	case errors.Is(err, trip.ErrTripNotFound):
		response.NotFound(w, r, "trip not found")
	case errors.Is(err, vehicle.ErrVehicleNotFound):
		response.NotFound(w, r, "vehicle not found")
	case errors.Is(err, routing.ErrProviderUnavailable),
		errors.Is(err, routing.ErrQuotaExceeded),
		errors.Is(err, routing.ErrAccessDenied):
		response.ServiceUnavailable(w, r, "routing provider is unavailable")
	default:
		response.InternalError(w, r, "trip operation failed")
	}
}

// toTripModel maps a domain trip to its API representation.
func toTripModel(t *trip.Trip) models.Trip {
	return models.Trip{
		ID:                   t.ID,
		UserID:               t.UserID,
		Origin:               t.Origin,
		Destination:          t.Destination,
		Mode:                 string(t.Mode),
		VehicleID:            t.VehicleID,
		DistanceKm:           t.DistanceKm,
		DurationSeconds:      t.DurationSeconds,
		EmissionsCO2eKg:      t.EmissionsCO2eKg,
		SavedEmissionsCO2eKg: t.SavedEmissionsCO2eKg,
		CreatedAt:            t.CreatedAt,
	}
}
