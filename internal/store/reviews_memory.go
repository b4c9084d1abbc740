package store

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryReviewStore is a development-only in-memory implementation.
type InMemoryReviewStore struct {
	mu      sync.RWMutex
	reviews map[string]Review // id -> review
	seq     int64             // monotonic tiebreaker for equal timestamps
	order   map[string]int64  // id -> insertion sequence
}

func NewInMemoryReviewStore() *InMemoryReviewStore {
	return &InMemoryReviewStore{
		reviews: make(map[string]Review),
		order:   make(map[string]int64),
	}
}

func (s *InMemoryReviewStore) Create(_ context.Context, r Review) (Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.reviews {
		if existing.SongID == r.SongID && existing.ReviewerID == r.ReviewerID {
			return Review{}, ErrDuplicateReview
		}
	}

	r.ID = uuid.New().String()
	r.Verified = false
	r.CreatedAt = time.Now().UTC()
	s.seq++
	s.reviews[r.ID] = r
	s.order[r.ID] = s.seq
	return r, nil
}

func (s *InMemoryReviewStore) ListForSong(_ context.Context, songID string) ([]Review, Statistics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Review
	sum := 0
	for _, r := range s.reviews {
		if r.SongID == songID {
			out = append(out, r)
			sum += r.Rating
		}
	}
	s.sortNewestFirst(out)

	stats := Statistics{TotalReviews: len(out)}
	if len(out) > 0 {
		stats.AverageRating = math.Round(float64(sum)/float64(len(out))*10) / 10
	}
	return out, stats, nil
}

func (s *InMemoryReviewStore) ListForReviewer(_ context.Context, reviewerID string) ([]Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Review
	for _, r := range s.reviews {
		if r.ReviewerID == reviewerID {
			out = append(out, r)
		}
	}
	s.sortNewestFirst(out)
	return out, nil
}

func (s *InMemoryReviewStore) Recent(_ context.Context, limit int) ([]Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Review, 0, len(s.reviews))
	for _, r := range s.reviews {
		out = append(out, r)
	}
	s.sortNewestFirst(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *InMemoryReviewStore) SetVerifiedForReviewer(_ context.Context, reviewerID string, verified bool) ([]Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var updated []Review
	for id, r := range s.reviews {
		if r.ReviewerID == reviewerID {
			r.Verified = verified
			s.reviews[id] = r
			updated = append(updated, r)
		}
	}
	if len(updated) == 0 {
		return nil, ErrNotFound
	}
	s.sortNewestFirst(updated)
	return updated, nil
}

func (s *InMemoryReviewStore) ReviewerStatus(_ context.Context, reviewerID string) ([]ReviewerStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := map[bool]int{}
	for _, r := range s.reviews {
		if r.ReviewerID == reviewerID {
			counts[r.Verified]++
		}
	}
	var out []ReviewerStatus
	for verified, n := range counts {
		out = append(out, ReviewerStatus{ReviewerID: reviewerID, Verified: verified, ReviewCount: n})
	}
	return out, nil
}

func (s *InMemoryReviewStore) VerifiedReviewers(_ context.Context) ([]ReviewerStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := map[string]bool{}
	for _, r := range s.reviews {
		if r.Verified {
			seen[r.ReviewerID] = true
		}
	}
	out := make([]ReviewerStatus, 0, len(seen))
	for id := range seen {
		out = append(out, ReviewerStatus{ReviewerID: id, Verified: true})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReviewerID < out[j].ReviewerID })
	return out, nil
}

func (s *InMemoryReviewStore) Counts(_ context.Context) (ReviewCounts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var c ReviewCounts
	for _, r := range s.reviews {
		c.TotalReviews++
		if r.Verified {
			c.VerifiedReviews++
		} else {
			c.CommunityReviews++
		}
	}
	return c, nil
}

func (s *InMemoryReviewStore) SeedReviews(_ context.Context, reviews []Review) ([]Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Review, 0, len(reviews))
	for _, r := range reviews {
		// Upsert on the (song, reviewer) pair like the Postgres seed path.
		for id, existing := range s.reviews {
			if existing.SongID == r.SongID && existing.ReviewerID == r.ReviewerID {
				delete(s.reviews, id)
				delete(s.order, id)
				break
			}
		}
		r.ID = uuid.New().String()
		r.CreatedAt = time.Now().UTC()
		s.seq++
		s.reviews[r.ID] = r
		s.order[r.ID] = s.seq
		out = append(out, r)
	}
	return out, nil
}

func (s *InMemoryReviewStore) DeleteTestReviews(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := 0
	for id, r := range s.reviews {
		if strings.HasPrefix(r.ReviewerID, "critic_") || strings.HasPrefix(r.ReviewerID, "user_") {
			delete(s.reviews, id)
			delete(s.order, id)
			deleted++
		}
	}
	return deleted, nil
}

func (s *InMemoryReviewStore) sortNewestFirst(reviews []Review) {
	sort.Slice(reviews, func(i, j int) bool {
		if !reviews[i].CreatedAt.Equal(reviews[j].CreatedAt) {
			return reviews[i].CreatedAt.After(reviews[j].CreatedAt)
		}
		return s.order[reviews[i].ID] > s.order[reviews[j].ID]
	})
}
