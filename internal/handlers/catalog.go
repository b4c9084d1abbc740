package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/example/musiccritic/internal/platform/analytics"
	"github.com/example/musiccritic/internal/platform/api"
	"github.com/example/musiccritic/internal/spotify"
)

// GetTrack handles GET /v1/track/{id}
func GetTrack(catalog spotify.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "id"))
		if !spotify.TrackIDPattern.MatchString(id) {
			api.BadRequest(w, "INVALID_TRACK_ID", "Invalid track ID format", "", nil)
			return
		}

		track, err := catalog.GetTrack(r.Context(), id)
		if err != nil {
			if errors.Is(err, spotify.ErrTrackNotFound) {
				api.NotFound(w, "TRACK_NOT_FOUND", "Track not found", "")
				return
			}
			api.Internal(w, "")
			return
		}
		api.WriteJSON(w, http.StatusOK, track)
	}
}

type searchResponse struct {
	Tracks []spotify.Track `json:"tracks"`
	Total  int             `json:"total"`
}

// SearchTracks handles GET /v1/search?q=...&limit=N
func SearchTracks(catalog spotify.Catalog, pub *analytics.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := strings.TrimSpace(r.URL.Query().Get("q"))
		if q == "" {
			api.BadRequest(w, "MISSING_QUERY", "q parameter is required", "", nil)
			return
		}

		limit := 20
		if l := r.URL.Query().Get("limit"); l != "" {
			if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 50 {
				limit = parsed
			}
		}

		tracks, total, err := catalog.SearchTracks(r.Context(), q, limit)
		if err != nil {
			api.Internal(w, "")
			return
		}
		if tracks == nil {
			tracks = []spotify.Track{}
		}

		pub.Publish(analytics.SubjectSearchPerformed, "search_performed", "", map[string]any{
			"query": q,
		})
		api.WriteJSON(w, http.StatusOK, searchResponse{Tracks: tracks, Total: total})
	}
}

type newReleasesResponse struct {
	Albums []spotify.Album `json:"albums"`
}

// NewReleases handles GET /v1/new-releases?limit=N
func NewReleases(catalog spotify.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 20
		if l := r.URL.Query().Get("limit"); l != "" {
			if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 50 {
				limit = parsed
			}
		}

		albums, err := catalog.NewReleases(r.Context(), limit)
		if err != nil {
			api.Internal(w, "")
			return
		}
		if albums == nil {
			albums = []spotify.Album{}
		}
		api.WriteJSON(w, http.StatusOK, newReleasesResponse{Albums: albums})
	}
}
