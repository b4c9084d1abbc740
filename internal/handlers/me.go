package handlers

import (
	"errors"
	"net/http"

	"github.com/example/musiccritic/internal/platform/api"
	"github.com/example/musiccritic/internal/platform/auth"
	"github.com/example/musiccritic/internal/store"
)

type meResponse struct {
	Success bool       `json:"success"`
	User    store.User `json:"user"`
}

// Me handles GET /v1/me
func Me(us store.UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok || userID == "" {
			api.Unauthorized(w, "UNAUTHORIZED", "Authentication required", "")
			return
		}

		user, err := us.GetByID(r.Context(), userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				api.NotFound(w, "USER_NOT_FOUND", "User not found", "")
				return
			}
			api.Internal(w, "")
			return
		}
		api.WriteJSON(w, http.StatusOK, meResponse{Success: true, User: user})
	}
}
