package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/example/musiccritic/internal/platform/analytics"
	"github.com/example/musiccritic/internal/platform/api"
	"github.com/example/musiccritic/internal/platform/auth"
	"github.com/example/musiccritic/internal/spotify"
	"github.com/example/musiccritic/internal/store"
)

type submitReviewRequest struct {
	SongID string  `json:"song_id" validate:"required,min=10"`
	Rating int     `json:"rating" validate:"required,gte=1,lte=5"`
	Review *string `json:"review" validate:"omitempty,max=1000"`
}

type submitReviewResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Review  store.Review `json:"review"`
}

type listReviewsResponse struct {
	Success    bool             `json:"success"`
	Reviews    []store.Review   `json:"reviews"`
	Statistics store.Statistics `json:"statistics"`
}

type recentReviewsResponse struct {
	Success bool           `json:"success"`
	Reviews []store.Review `json:"reviews"`
	Count   int            `json:"count"`
}

// SubmitReview handles POST /v1/reviews
func SubmitReview(rs store.ReviewStore, us store.UserStore, pub *analytics.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok || userID == "" {
			api.Unauthorized(w, "UNAUTHORIZED", "Authentication required", "")
			return
		}

		req, err := decodeJSON[submitReviewRequest](w, r)
		if err != nil {
			api.BadRequest(w, "INVALID_REQUEST", err.Error(), "", nil)
			return
		}

		if _, err := us.GetByID(r.Context(), userID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				api.NotFound(w, "USER_NOT_FOUND", "User not found", "")
				return
			}
			api.Internal(w, "")
			return
		}

		review := store.Review{
			SongID:     req.SongID,
			ReviewerID: userID,
			Rating:     req.Rating,
			Text:       req.Review,
		}
		created, err := rs.Create(r.Context(), review)
		if err != nil {
			if errors.Is(err, store.ErrDuplicateReview) {
				api.Conflict(w, "DUPLICATE_REVIEW",
					"You have already reviewed this song. Only one review per song is allowed.", "", nil)
				return
			}
			api.Internal(w, "")
			return
		}

		pub.Publish(analytics.SubjectReviewSubmitted, "review_submitted", userID, map[string]any{
			"song_id": created.SongID,
			"rating":  created.Rating,
		})

		api.WriteJSON(w, http.StatusCreated, submitReviewResponse{
			Success: true,
			Message: "Review posted successfully",
			Review:  created,
		})
	}
}

// ListReviews handles GET /v1/reviews?song_id=...
func ListReviews(rs store.ReviewStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		songID := strings.TrimSpace(r.URL.Query().Get("song_id"))
		if songID == "" {
			api.BadRequest(w, "MISSING_SONG_ID", "song_id parameter is required", "", nil)
			return
		}

		reviews, stats, err := rs.ListForSong(r.Context(), songID)
		if err != nil {
			api.Internal(w, "")
			return
		}
		if reviews == nil {
			reviews = []store.Review{}
		}
		api.WriteJSON(w, http.StatusOK, listReviewsResponse{
			Success:    true,
			Reviews:    reviews,
			Statistics: stats,
		})
	}
}

// RecentReviews handles GET /v1/recent-reviews?limit=N
func RecentReviews(rs store.ReviewStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 3
		if l := r.URL.Query().Get("limit"); l != "" {
			parsed, err := strconv.Atoi(l)
			if err != nil {
				api.BadRequest(w, "INVALID_LIMIT", "limit must be an integer", "", nil)
				return
			}
			limit = parsed
		}
		if limit < 1 || limit > 50 {
			api.BadRequest(w, "INVALID_LIMIT", "Limit must be between 1 and 50", "", nil)
			return
		}

		reviews, err := rs.Recent(r.Context(), limit)
		if err != nil {
			api.Internal(w, "")
			return
		}
		if reviews == nil {
			reviews = []store.Review{}
		}
		api.WriteJSON(w, http.StatusOK, recentReviewsResponse{
			Success: true,
			Reviews: reviews,
			Count:   len(reviews),
		})
	}
}

// enrichedReview is a review joined with catalog metadata for profile pages.
type enrichedReview struct {
	store.Review
	SongTitle string  `json:"songTitle"`
	Artist    string  `json:"artist"`
	AlbumArt  *string `json:"albumArt"`
	Album     string  `json:"album"`
}

type userReviewsResponse struct {
	Success bool             `json:"success"`
	Reviews []enrichedReview `json:"reviews"`
	Count   int              `json:"count"`
}

// UserReviews handles GET /v1/user/reviews. Each review is decorated with
// song metadata from the catalog; lookup failures degrade to placeholders
// rather than failing the request.
func UserReviews(rs store.ReviewStore, catalog spotify.Catalog, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok || userID == "" {
			api.Unauthorized(w, "UNAUTHORIZED", "Authentication required", "")
			return
		}

		reviews, err := rs.ListForReviewer(r.Context(), userID)
		if err != nil {
			api.Internal(w, "")
			return
		}

		enriched := make([]enrichedReview, 0, len(reviews))
		for _, rev := range reviews {
			e := enrichedReview{
				Review:    rev,
				SongTitle: "Unknown Song",
				Artist:    "Unknown Artist",
				Album:     "Unknown Album",
			}
			if catalog != nil {
				track, err := catalog.GetTrack(r.Context(), rev.SongID)
				if err != nil {
					log.Debug("catalog lookup failed", zap.String("song_id", rev.SongID), zap.Error(err))
				} else {
					e.SongTitle = track.Name
					if artists := track.ArtistNames(); artists != "" {
						e.Artist = artists
					}
					e.AlbumArt = track.AlbumArt()
					if track.Album.Name != "" {
						e.Album = track.Album.Name
					}
				}
			}
			enriched = append(enriched, e)
		}

		api.WriteJSON(w, http.StatusOK, userReviewsResponse{
			Success: true,
			Reviews: enriched,
			Count:   len(enriched),
		})
	}
}

type userStats struct {
	Reviews   int `json:"reviews"`
	Favorites int `json:"favorites"`
}

type userStatsResponse struct {
	Success bool      `json:"success"`
	Stats   userStats `json:"stats"`
}

// UserStats handles GET /v1/user/stats
func UserStats(rs store.ReviewStore, us store.UserStore) http.HandlerFunc {
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
		reviews, err := rs.ListForReviewer(r.Context(), userID)
		if err != nil {
			api.Internal(w, "")
			return
		}

		api.WriteJSON(w, http.StatusOK, userStatsResponse{
			Success: true,
			Stats:   userStats{Reviews: len(reviews), Favorites: len(favorites)},
		})
	}
}
