package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ollav12/DAT251/internal/api/models"
	"github.com/ollav12/DAT251/internal/api/response"
	"github.com/ollav12/DAT251/internal/vehicle"
)

// VehicleHandler handles personal vehicle endpoints.
type VehicleHandler struct {
	vehicles *vehicle.Service
}

// NewVehicleHandler creates a new VehicleHandler.
func NewVehicleHandler(vehicles *vehicle.Service) *VehicleHandler {
	return &VehicleHandler{
		vehicles: vehicles,
	}
}

// Create handles POST /v1/users/{userId}/vehicles - add a vehicle.
func (h *VehicleHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if !requireOwner(w, r, userID) {
		return
	}

	var req models.VehicleCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	created, err := h.vehicles.Create(r.Context(), userID, vehicle.CreateInput{
		Make:                req.Make,
		Model:               req.Model,
		Year:                req.Year,
		Type:                req.Type,
		EmissionsGramsPerKm: req.EmissionsGramsPerKm,
	})
	if err != nil {
		var verr *vehicle.ValidationError
		if errors.As(err, &verr) {
			response.BadRequest(w, r, "validation error", verr.Errors)
			return
		}
		response.InternalError(w, r, "failed to create vehicle")
		return
	}

	location := fmt.Sprintf("/v1/users/%s/vehicles/%s", userID, created.ID)
	response.Created(w, r, location, toVehicleModel(created))
}

// List handles GET /v1/users/{userId}/vehicles - list the user's vehicles.
func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if !requireOwner(w, r, userID) {
		return
	}

	vehicles, err := h.vehicles.List(r.Context(), userID)
	if err != nil {
		response.InternalError(w, r, "failed to list vehicles")
		return
	}

	out := make([]models.Vehicle, len(vehicles))
	for i, v := range vehicles {
		out[i] = toVehicleModel(v)
	}
	response.JSON(w, r, http.StatusOK, out)
}

// Get handles GET /v1/users/{userId}/vehicles/{vehicleId}.
func (h *VehicleHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if !requireOwner(w, r, userID) {
		return
	}

	v, err := h.vehicles.Get(r.Context(), userID, chi.URLParam(r, "vehicleId"))
	if err != nil {
		if errors.Is(err, vehicle.ErrVehicleNotFound) {
			response.NotFound(w, r, "vehicle not found")
			return
		}
		response.InternalError(w, r, "failed to get vehicle")
		return
	}

	response.JSON(w, r, http.StatusOK, toVehicleModel(v))
}

// SetDefault handles PUT /v1/users/{userId}/vehicles/{vehicleId}/default.
func (h *VehicleHandler) SetDefault(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if !requireOwner(w, r, userID) {
		return
	}

	vehicleID := chi.URLParam(r, "vehicleId")
	if err := h.vehicles.SetDefault(r.Context(), userID, vehicleID); err != nil {
		if errors.Is(err, vehicle.ErrVehicleNotFound) {
			response.NotFound(w, r, "vehicle not found")
			return
		}
		response.InternalError(w, r, "failed to set default vehicle")
		return
	}

	v, err := h.vehicles.Get(r.Context(), userID, vehicleID)
	if err != nil {
		response.InternalError(w, r, "failed to get vehicle")
		return
	}
	response.JSON(w, r, http.StatusOK, toVehicleModel(v))
}

// Delete handles DELETE /v1/users/{userId}/vehicles/{vehicleId}.
func (h *VehicleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if !requireOwner(w, r, userID) {
		return
	}

	err := h.vehicles.Delete(r.Context(), userID, chi.URLParam(r, "vehicleId"))
	if err != nil {
		switch {
		case errors.Is(err, vehicle.ErrVehicleNotFound):
			response.NotFound(w, r, "vehicle not found")
		case errors.Is(err, vehicle.ErrDefaultVehicle):
			response.Conflict(w, r, "the default vehicle cannot be deleted")
		default:
			response.InternalError(w, r, "failed to delete vehicle")
		}
		return
	}

	response.NoContent(w, r)
}

// toVehicleModel maps a domain vehicle to its API representation.
func toVehicleModel(v *vehicle.Vehicle) models.Vehicle {
	return models.Vehicle{
		ID:                  v.ID,
		Make:                v.Make,
		Model:               v.Model,
		Year:                v.Year,
		Type:                string(v.Type),
		EmissionsGramsPerKm: v.EmissionsGramsPerKm,
		IsDefault:           v.IsDefault,
		CreatedAt:           v.CreatedAt,
	}
}
