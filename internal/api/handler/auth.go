package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ollav12/DAT251/internal/api/models"
	"github.com/ollav12/DAT251/internal/api/response"
	"github.com/ollav12/DAT251/internal/auth"
	"github.com/ollav12/DAT251/internal/user"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService *auth.Service
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Login handles POST /v1/auth/login - username/password authentication.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if req.Username == "" || req.Password == "" {
		response.BadRequest(w, r, "username and password are required", nil)
		return
	}

	result, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			response.Unauthorized(w, r, "invalid username or password")
			return
		}
		response.InternalError(w, r, "authentication failed")
		return
	}

	resp := models.LoginResponse{
		AccessToken: result.AccessToken,
		TokenType:   "Bearer",
		ExpiresAt:   result.ExpiresAt,
		User:        toUserModel(result.User),
	}
	response.JSON(w, r, http.StatusOK, resp)
}
