package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/example/musiccritic/internal/platform/api"
	"github.com/example/musiccritic/internal/store"
)

// publicProfile is the subset of an account visible to other users.
type publicProfile struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Image *string `json:"image,omitempty"`
}

type publicProfileResponse struct {
	Success bool          `json:"success"`
	User    publicProfile `json:"user"`
}

// UserProfile handles GET /v1/users/{user_id}
func UserProfile(us store.UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := strings.TrimSpace(chi.URLParam(r, "user_id"))
		if userID == "" {
			api.BadRequest(w, "MISSING_ID", "user_id is required", "", nil)
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
		api.WriteJSON(w, http.StatusOK, publicProfileResponse{
			Success: true,
			User:    publicProfile{ID: user.ID, Name: user.Name, Image: user.Image},
		})
	}
}
