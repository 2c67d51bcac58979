package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ollav12/DAT251/internal/api"
	"github.com/ollav12/DAT251/internal/api/models"
	"github.com/ollav12/DAT251/internal/auth"
	"github.com/ollav12/DAT251/internal/challenge"
	"github.com/ollav12/DAT251/internal/emission"
	"github.com/ollav12/DAT251/internal/routing"
	"github.com/ollav12/DAT251/internal/trip"
	"github.com/ollav12/DAT251/internal/user"
	"github.com/ollav12/DAT251/internal/vehicle"
)

// fakeRouteSource serves fixed routes so no external provider is needed.
// Driving is 10 km, walking 9 km, transit a tram leg; there is no
// bicycling route.
type fakeRouteSource struct{}

func (fakeRouteSource) GetRoutes(_ context.Context, _, _ string, mode routing.TravelMode) ([]routing.Route, error) {
	switch mode {
	case routing.ModeDriving:
		return []routing.Route{fixedRoute(routing.ModeDriving, 10000, 900)}, nil
	case routing.ModeWalking:
		return []routing.Route{fixedRoute(routing.ModeWalking, 9000, 7200)}, nil
	case routing.ModeTransit:
		return []routing.Route{{
			Summary: "Bybanen",
			Legs: []routing.Leg{{Steps: []routing.Step{
				{DistanceMeters: 500, DurationSeconds: 400, Mode: routing.ModeWalking},
				{DistanceMeters: 8000, DurationSeconds: 1100, Mode: routing.ModeTransit, TransitVehicle: routing.VehicleTram},
			}}},
		}}, nil
	}
	return nil, nil
}

func fixedRoute(mode routing.TravelMode, meters float64, seconds int64) routing.Route {
	return routing.Route{
		Legs: []routing.Leg{{Steps: []routing.Step{
			{DistanceMeters: meters, DurationSeconds: seconds, Mode: mode},
		}}},
	}
}

func newTestRouter() http.Handler {
	logger := zerolog.New(io.Discard)

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SigningKey: "test-secret-key-for-testing-only",
		Issuer:     "https://api.dat251.no",
		Audience:   "dat251-api",
	})

	userRepo := user.NewInMemoryRepository()
	userService := user.NewService(userRepo)
	authService := auth.NewService(userService, jwtService)

	vehicleRepo := vehicle.NewInMemoryRepository()
	vehicleService := vehicle.NewService(vehicleRepo)

	challengeRepo := challenge.NewInMemoryRepository()
	challengeService := challenge.NewService(challengeRepo)
	engine := challenge.NewEngine(challenge.EngineConfig{
		Repo:   challengeRepo,
		Points: userService,
		Logger: logger,
	})

	aggregator := trip.NewAggregator(fakeRouteSource{}, emission.NewEstimator(emission.DefaultFactors()))
	tripService := trip.NewService(trip.ServiceConfig{
		Repo:       trip.NewInMemoryRepository(),
		Vehicles:   vehicleRepo,
		Users:      userRepo,
		Aggregator: aggregator,
		Progress:   engine,
		Logger:     logger,
	})

	return api.NewRouter(api.RouterConfig{
		Version:          "test",
		BuildTime:        "2024-01-01T00:00:00Z",
		Logger:           logger,
		JWTService:       jwtService,
		AuthService:      authService,
		UserService:      userService,
		VehicleService:   vehicleService,
		TripService:      tripService,
		ChallengeService: challengeService,
		ChallengeEngine:  engine,
	})
}

// registerAndLogin registers a user through the API and returns the
// user ID and a valid access token.
func registerAndLogin(t *testing.T, router http.Handler, username string) (string, string) {
	t.Helper()

	body, _ := json.Marshal(models.UserCreateRequest{
		Username:  username,
		FirstName: "Ola",
		LastName:  "Nordmann",
		Password:  "correct-horse-battery",
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/users", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	body, _ = json.Marshal(models.LoginRequest{Username: username, Password: "correct-horse-battery"})
	req = httptest.NewRequest(http.MethodPost, "/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var login models.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	require.NotEmpty(t, login.AccessToken)

	return created.ID, login.AccessToken
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader = http.NoBody
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRouter_HealthCheck(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/health", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	var health models.Health
	err := json.Unmarshal(w.Body.Bytes(), &health)
	require.NoError(t, err)

	assert.Equal(t, models.HealthStatusOK, health.Status)
}

func TestRouter_ReadinessCheck(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/ready", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_Unauthorized(t *testing.T) {
	router := newTestRouter()

	w := doJSON(t, router, http.MethodGet, "/v1/users/usr_whoever", "", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
}

func TestRouter_ForbiddenForOtherUser(t *testing.T) {
	router := newTestRouter()

	_, tokenA := registerAndLogin(t, router, "ola")
	userB, _ := registerAndLogin(t, router, "kari")

	w := doJSON(t, router, http.MethodGet, "/v1/users/"+userB, tokenA, nil)

	assert.Equal(t, http.StatusForbidden, w.Code)

	var problem models.Problem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	assert.Equal(t, models.ProblemTypeForbidden, problem.Type)
}

func TestRouter_Register_Validation(t *testing.T) {
	router := newTestRouter()

	w := doJSON(t, router, http.MethodPost, "/v1/users", "", models.UserCreateRequest{
		Username: "ab", // too short
		Password: "short",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var problem models.Problem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	assert.Equal(t, models.ProblemTypeValidation, problem.Type)
	assert.NotEmpty(t, problem.Errors)
}

func TestRouter_Register_DuplicateUsername(t *testing.T) {
	router := newTestRouter()

	registerAndLogin(t, router, "ola")

	w := doJSON(t, router, http.MethodPost, "/v1/users", "", models.UserCreateRequest{
		Username:  "ola",
		FirstName: "Other",
		LastName:  "Person",
		Password:  "another-password-1",
	})

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRouter_Login_WrongPassword(t *testing.T) {
	router := newTestRouter()

	registerAndLogin(t, router, "ola")

	w := doJSON(t, router, http.MethodPost, "/v1/auth/login", "", models.LoginRequest{
		Username: "ola",
		Password: "not-the-password",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_EstimateTrip(t *testing.T) {
	router := newTestRouter()

	w := doJSON(t, router, http.MethodGet, "/v1/trips/estimate?origin=Bergen&destination=Oslo", "", nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.TripEstimateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	driving, ok := resp.Alternatives["driving"]
	require.True(t, ok)
	assert.InDelta(t, 1.18, driving.EmissionsCO2eKg, 1e-9)
	assert.InDelta(t, 10.0, driving.DistanceKm, 1e-9)

	walking, ok := resp.Alternatives["walking"]
	require.True(t, ok)
	assert.Zero(t, walking.EmissionsCO2eKg)

	// No bicycling route exists, so the mode is omitted
	_, ok = resp.Alternatives["bicycling"]
	assert.False(t, ok)
}

func TestRouter_EstimateTrip_MissingParams(t *testing.T) {
	router := newTestRouter()

	w := doJSON(t, router, http.MethodGet, "/v1/trips/estimate?origin=Bergen", "", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_TripFlow(t *testing.T) {
	router := newTestRouter()
	userID, token := registerAndLogin(t, router, "ola")

	// Record a walking trip
	w := doJSON(t, router, http.MethodPost, "/v1/users/"+userID+"/trips", token, models.TripCreateRequest{
		Origin:      "Bergen",
		Destination: "Askøy",
		Mode:        "walking",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("Location"))

	var created models.Trip
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "walking", created.Mode)
	assert.Zero(t, created.EmissionsCO2eKg)
	assert.InDelta(t, 1.18, created.SavedEmissionsCO2eKg, 1e-9)

	// The trip shows up in the list
	w = doJSON(t, router, http.MethodGet, "/v1/users/"+userID+"/trips", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var trips []models.Trip
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &trips))
	require.Len(t, trips, 1)

	// And in the user's statistics
	w = doJSON(t, router, http.MethodGet, "/v1/users/"+userID+"/statistics", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats models.Statistics
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, int64(1), stats.TripCount)
	assert.InDelta(t, 1.18, stats.TotalSavedCO2eKg, 1e-9)

	// And on the public leaderboard
	w = doJSON(t, router, http.MethodGet, "/v1/leaderboard?metric=total_saved_emissions&period=lifetime", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var board models.LeaderboardResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &board))
	require.Len(t, board.Entries, 1)
	assert.Equal(t, 1, board.Entries[0].Rank)
	assert.Equal(t, "ola", board.Entries[0].Username)

	// Delete it
	w = doJSON(t, router, http.MethodDelete, "/v1/trips/"+created.ID, token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRouter_TripRejectsModeAndVehicle(t *testing.T) {
	router := newTestRouter()
	userID, token := registerAndLogin(t, router, "ola")

	w := doJSON(t, router, http.MethodPost, "/v1/users/"+userID+"/trips", token, models.TripCreateRequest{
		Origin:      "Bergen",
		Destination: "Askøy",
		Mode:        "walking",
		VehicleID:   "veh_something",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_VehicleFlow(t *testing.T) {
	router := newTestRouter()
	userID, token := registerAndLogin(t, router, "ola")

	w := doJSON(t, router, http.MethodPost, "/v1/users/"+userID+"/vehicles", token, models.VehicleCreateRequest{
		Make:                "Volvo",
		Model:               "XC60",
		Year:                2019,
		Type:                "CAR",
		EmissionsGramsPerKm: 250,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var v models.Vehicle
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	assert.True(t, v.IsDefault) // first vehicle becomes the default

	// A trip with the vehicle uses its emission factor (250 g/km x 10 km)
	w = doJSON(t, router, http.MethodPost, "/v1/users/"+userID+"/trips", token, models.TripCreateRequest{
		Origin:      "Bergen",
		Destination: "Askøy",
		VehicleID:   v.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created models.Trip
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "driving", created.Mode)
	assert.InDelta(t, 2.5, created.EmissionsCO2eKg, 1e-9)
	assert.InDelta(t, 1.18-2.5, created.SavedEmissionsCO2eKg, 1e-9)

	// The default vehicle cannot be deleted
	w = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/v1/users/%s/vehicles/%s", userID, v.ID), token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRouter_ChallengeFlow(t *testing.T) {
	router := newTestRouter()
	userID, token := registerAndLogin(t, router, "ola")

	// Define an action challenge completed by a single trip
	w := doJSON(t, router, http.MethodPost, "/v1/challenges", token, models.ChallengeCreateRequest{
		Title:        "First green trip",
		Description:  "Record one trip",
		RewardPoints: 10,
		Type:         "ACTION",
		TargetValue:  1,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var c models.Challenge
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &c))

	// Start it explicitly
	w = doJSON(t, router, http.MethodPost, fmt.Sprintf("/v1/users/%s/challenges/%s/start", userID, c.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var status models.ChallengeStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, "NOT_STARTED", status.Status)

	// Completing before the target is met is a validation failure
	w = doJSON(t, router, http.MethodPost, fmt.Sprintf("/v1/users/%s/challenges/%s/complete", userID, c.ID), token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	// Recording a trip credits the challenge
	w = doJSON(t, router, http.MethodPost, "/v1/users/"+userID+"/trips", token, models.TripCreateRequest{
		Origin:      "Bergen",
		Destination: "Askøy",
		Mode:        "walking",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// The challenge is now completed and frozen at its target
	w = doJSON(t, router, http.MethodGet, "/v1/users/"+userID+"/challenges?status=COMPLETED", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var userChallenges []models.UserChallenge
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &userChallenges))
	require.Len(t, userChallenges, 1)
	assert.Equal(t, c.ID, userChallenges[0].Challenge.ID)
	assert.Equal(t, float64(1), userChallenges[0].Status.CurrentValue)

	// Completing again conflicts
	w = doJSON(t, router, http.MethodPost, fmt.Sprintf("/v1/users/%s/challenges/%s/complete", userID, c.ID), token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Reward points were paid exactly once
	w = doJSON(t, router, http.MethodGet, "/v1/users/"+userID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var u models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &u))
	assert.Equal(t, 10, u.Points)
}

func TestRouter_Leaderboard_UnknownMetric(t *testing.T) {
	router := newTestRouter()

	w := doJSON(t, router, http.MethodGet, "/v1/leaderboard?metric=shoe_size", "", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_RequestID_Preserved(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/health", http.NoBody)
	req.Header.Set("X-Request-Id", "custom_request_id")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, "custom_request_id", w.Header().Get("X-Request-Id"))
}

func TestRouter_NotFound(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/nonexistent", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
