package handler

import (
	"context"
	"net/http"

	"github.com/ollav12/DAT251/internal/api/middleware"
	"github.com/ollav12/DAT251/internal/api/response"
)

// GetUserID retrieves the authenticated user ID from the context.
// This is a convenience wrapper around middleware.GetUserID.
func GetUserID(ctx context.Context) string {
	return middleware.GetUserID(ctx)
}

// requireOwner checks that the authenticated user matches the user ID
// in the URL. Writes a 403 response and returns false on mismatch.
func requireOwner(w http.ResponseWriter, r *http.Request, userID string) bool {
	authenticated := GetUserID(r.Context())
	if authenticated == "" {
		response.Unauthorized(w, r, "authentication required")
		return false
	}
	if authenticated != userID {
		response.Forbidden(w, r, "you can only access your own resources")
		return false
	}
	return true
}
