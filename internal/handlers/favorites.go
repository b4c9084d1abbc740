package handlers

import (
	"errors"
	"net/http"

	"github.com/example/musiccritic/internal/platform/analytics"
	"github.com/example/musiccritic/internal/platform/api"
	"github.com/example/musiccritic/internal/platform/auth"
	"github.com/example/musiccritic/internal/store"
)

type favoritesRequest struct {
	SongID string `json:"song_id" validate:"required"`
	Action string `json:"action" validate:"required,oneof=add remove"`
}

type favoritesResponse struct {
	Success   bool     `json:"success"`
	Message   string   `json:"message,omitempty"`
	Favorites []string `json:"favorites"`
	Count     int      `json:"count"`
}

// ManageFavorites handles POST /v1/favorites
func ManageFavorites(us store.UserStore, pub *analytics.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok || userID == "" {
			api.Unauthorized(w, "UNAUTHORIZED", "Authentication required", "")
			return
		}

		req, err := decodeJSON[favoritesRequest](w, r)
		if err != nil {
			api.BadRequest(w, "INVALID_REQUEST", err.Error(), "", nil)
			return
		}

		var favorites []string
		var message string
		switch req.Action {
		case "add":
			favorites, err = us.AddFavorite(r.Context(), userID, req.SongID)
			message = "Song added to favorites"
		case "remove":
			favorites, err = us.RemoveFavorite(r.Context(), userID, req.SongID)
			message = "Song removed from favorites"
		}
		if err != nil {
			switch {
			case errors.Is(err, store.ErrAlreadyFavorite):
				api.Conflict(w, "ALREADY_FAVORITE", "Song is already in favorites", "", nil)
			case errors.Is(err, store.ErrNotFavorite):
				api.NotFound(w, "NOT_FAVORITE", "Song is not in favorites", "")
			case errors.Is(err, store.ErrNotFound):
				api.NotFound(w, "USER_NOT_FOUND", "User not found", "")
			default:
				api.Internal(w, "")
			}
			return
		}

		subject := analytics.SubjectFavoriteAdded
		event := "favorite_added"
		if req.Action == "remove" {
			subject = analytics.SubjectFavoriteRemoved
			event = "favorite_removed"
		}
		pub.Publish(subject, event, userID, map[string]any{"song_id": req.SongID})

		if favorites == nil {
			favorites = []string{}
		}
		api.WriteJSON(w, http.StatusOK, favoritesResponse{
			Success:   true,
			Message:   message,
			Favorites: favorites,
			Count:     len(favorites),
		})
	}
}

// ListFavorites handles GET /v1/favorites
func ListFavorites(us store.UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok || userID == "" {
			api.Unauthorized(w, "UNAUTHORIZED", "Authentication required", "")
			return
		}

		favorites, err := us.Favorites(r.Context(), userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				api.NotFound(w, "USER_NOT_FOUND", "User not found", "")
				return
			}
			api.Internal(w, "")
			return
		}
		if favorites == nil {
			favorites = []string{}
		}
		api.WriteJSON(w, http.StatusOK, favoritesResponse{
			Success:   true,
			Favorites: favorites,
			Count:     len(favorites),
		})
	}
}
