package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/example/musiccritic/internal/platform/api"
	"github.com/example/musiccritic/internal/store"
)

type toggleVerifiedRequest struct {
	ReviewerID string `json:"reviewer_id" validate:"required"`
	Verified   *bool  `json:"verified" validate:"required"`
}

type toggleVerifiedResponse struct {
	Success        bool           `json:"success"`
	Message        string         `json:"message"`
	UpdatedReviews int            `json:"updated_reviews"`
	Reviews        []store.Review `json:"reviews"`
}

// ToggleVerified handles POST /v1/admin/toggle-verified. It flips the
// verified flag on every review the reviewer has written.
func ToggleVerified(rs store.ReviewStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := decodeJSON[toggleVerifiedRequest](w, r)
		if err != nil {
			api.BadRequest(w, "INVALID_REQUEST", err.Error(), "", nil)
			return
		}

		updated, err := rs.SetVerifiedForReviewer(r.Context(), req.ReviewerID, *req.Verified)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				api.NotFound(w, "NO_REVIEWS", "No reviews found for this reviewer", "")
				return
			}
			api.Internal(w, "")
			return
		}

		state := "disabled"
		if *req.Verified {
			state = "enabled"
		}
		api.WriteJSON(w, http.StatusOK, toggleVerifiedResponse{
			Success:        true,
			Message:        fmt.Sprintf("Verified status %s for reviewer", state),
			UpdatedReviews: len(updated),
			Reviews:        updated,
		})
	}
}

type verifiedReviewersResponse struct {
	Success           bool                   `json:"success"`
	VerifiedReviewers []store.ReviewerStatus `json:"verified_reviewers"`
}

type reviewerStatusResponse struct {
	Success        bool                   `json:"success"`
	ReviewerStatus []store.ReviewerStatus `json:"reviewer_status"`
}

// VerifiedStatus handles GET /v1/admin/toggle-verified. With a reviewer_id
// query it reports that reviewer's status; without one it lists all
// verified reviewers.
func VerifiedStatus(rs store.ReviewStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reviewerID := strings.TrimSpace(r.URL.Query().Get("reviewer_id"))
		if reviewerID == "" {
			reviewers, err := rs.VerifiedReviewers(r.Context())
			if err != nil {
				api.Internal(w, "")
				return
			}
			if reviewers == nil {
				reviewers = []store.ReviewerStatus{}
			}
			api.WriteJSON(w, http.StatusOK, verifiedReviewersResponse{
				Success:           true,
				VerifiedReviewers: reviewers,
			})
			return
		}

		status, err := rs.ReviewerStatus(r.Context(), reviewerID)
		if err != nil {
			api.Internal(w, "")
			return
		}
		if status == nil {
			status = []store.ReviewerStatus{}
		}
		api.WriteJSON(w, http.StatusOK, reviewerStatusResponse{
			Success:        true,
			ReviewerStatus: status,
		})
	}
}

// sampleReviews is the fixture set installed by the seed endpoint.
var sampleReviews = []store.Review{
	{
		SongID:     "4iV5W9uYEdYUVa79Axb7Rh",
		ReviewerID: "critic_1",
		Rating:     5,
		Text:       strptr("An absolutely stunning piece of work. The production quality is exceptional and the emotional depth is remarkable. This track showcases incredible artistic maturity."),
		Verified:   true,
	},
	{
		SongID:     "4iV5W9uYEdYUVa79Axb7Rh",
		ReviewerID: "user_12345",
		Rating:     4,
		Text:       strptr("Really love this song! The beat is amazing and I can't stop listening to it. Definitely going on my playlist."),
	},
	{
		SongID:     "4iV5W9uYEdYUVa79Axb7Rh",
		ReviewerID: "critic_2",
		Rating:     4,
		Text:       strptr("A compelling entry that demonstrates technical proficiency without sacrificing emotional resonance. The songwriting shows genuine evolution."),
		Verified:   true,
	},
	{
		SongID:     "4iV5W9uYEdYUVa79Axb7Rh",
		ReviewerID: "user_67890",
		Rating:     5,
		Text:       strptr("This track is fire! Been on repeat all week. The vocals are incredible."),
	},
	{
		SongID:     "4iV5W9uYEdYUVa79Axb7Rh",
		ReviewerID: "critic_3",
		Rating:     3,
		Text:       strptr("While the concept is interesting, the execution feels somewhat rushed. There's potential here but it doesn't quite reach its mark."),
		Verified:   true,
	},
}

func strptr(s string) *string { return &s }

type seedReviewsResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Reviews []store.Review `json:"reviews"`
}

// SeedReviews handles POST /v1/admin/seed-reviews
func SeedReviews(rs store.ReviewStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		seeded, err := rs.SeedReviews(r.Context(), sampleReviews)
		if err != nil {
			api.Internal(w, "")
			return
		}
		api.WriteJSON(w, http.StatusOK, seedReviewsResponse{
			Success: true,
			Message: fmt.Sprintf("Successfully seeded %d reviews", len(seeded)),
			Reviews: seeded,
		})
	}
}

type clearTestReviewsResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	DeletedCount int    `json:"deleted_count"`
}

// ClearTestReviews handles DELETE /v1/admin/seed-reviews
func ClearTestReviews(rs store.ReviewStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deleted, err := rs.DeleteTestReviews(r.Context())
		if err != nil {
			api.Internal(w, "")
			return
		}
		api.WriteJSON(w, http.StatusOK, clearTestReviewsResponse{
			Success:      true,
			Message:      fmt.Sprintf("Deleted %d test reviews", deleted),
			DeletedCount: deleted,
		})
	}
}

type reviewStatsResponse struct {
	Success bool               `json:"success"`
	Stats   store.ReviewCounts `json:"stats"`
}

// ReviewStats handles GET /v1/admin/seed-reviews
func ReviewStats(rs store.ReviewStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		counts, err := rs.Counts(r.Context())
		if err != nil {
			api.Internal(w, "")
			return
		}
		api.WriteJSON(w, http.StatusOK, reviewStatsResponse{Success: true, Stats: counts})
	}
}
