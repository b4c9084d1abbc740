package store

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors shared by all store implementations.
var (
	ErrDuplicateReview = errors.New("review already exists for this song and reviewer")
	ErrNotFound        = errors.New("not found")
	ErrAlreadyFavorite = errors.New("song is already in favorites")
	ErrNotFavorite     = errors.New("song is not in favorites")
)

// Review represents one reviewer's opinion of one catalog song.
// SongID is an opaque catalog identifier; it is never validated against the
// catalog beyond a length check at the boundary.
type Review struct {
	ID         string    `json:"id"`
	SongID     string    `json:"song_id"`
	ReviewerID string    `json:"reviewer_id"`
	Rating     int       `json:"rating"` // 1-5
	Text       *string   `json:"review,omitempty"`
	Verified   bool      `json:"verified"`
	CreatedAt  time.Time `json:"created_at"`
}

// Statistics is derived per song, recomputed on every read, never cached.
type Statistics struct {
	TotalReviews  int     `json:"total_reviews"`
	AverageRating float64 `json:"average_rating"` // mean rounded to 1 decimal, 0 when empty
}

// ReviewerStatus summarizes the verified flag for one reviewer.
type ReviewerStatus struct {
	ReviewerID  string `json:"reviewer_id"`
	Verified    bool   `json:"verified"`
	ReviewCount int    `json:"review_count,omitempty"`
}

// ReviewCounts is the whole-table breakdown used by the seed/stats path.
type ReviewCounts struct {
	TotalReviews     int `json:"total_reviews"`
	VerifiedReviews  int `json:"verified_reviews"`
	CommunityReviews int `json:"community_reviews"`
}

// ReviewStore defines the contract for review persistence.
//
// Create relies on the (song_id, reviewer_id) uniqueness constraint as the
// sole duplicate guard; there is no advisory pre-check.
type ReviewStore interface {
	Create(ctx context.Context, r Review) (Review, error)
	ListForSong(ctx context.Context, songID string) ([]Review, Statistics, error)
	ListForReviewer(ctx context.Context, reviewerID string) ([]Review, error)
	Recent(ctx context.Context, limit int) ([]Review, error)
	SetVerifiedForReviewer(ctx context.Context, reviewerID string, verified bool) ([]Review, error)
	ReviewerStatus(ctx context.Context, reviewerID string) ([]ReviewerStatus, error)
	VerifiedReviewers(ctx context.Context) ([]ReviewerStatus, error)
	Counts(ctx context.Context) (ReviewCounts, error)
	SeedReviews(ctx context.Context, reviews []Review) ([]Review, error)
	DeleteTestReviews(ctx context.Context) (int, error)
}
