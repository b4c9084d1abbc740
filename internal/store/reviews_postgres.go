package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgUniqueViolation = "23505"

// PostgresReviewStore persists reviews in Postgres.
type PostgresReviewStore struct {
	pool *pgxpool.Pool
}

// NewPostgresReviewStore creates a store backed by Postgres.
func NewPostgresReviewStore(pool *pgxpool.Pool) *PostgresReviewStore {
	return &PostgresReviewStore{pool: pool}
}

const reviewColumns = `id::text, song_id, reviewer_id, rating, review, verified, created_at`

func (s *PostgresReviewStore) Create(ctx context.Context, r Review) (Review, error) {
	const q = `INSERT INTO song_feedback (song_id, reviewer_id, rating, review)
	           VALUES ($1, $2, $3, $4)
	           RETURNING ` + reviewColumns
	row := s.pool.QueryRow(ctx, q, r.SongID, r.ReviewerID, r.Rating, r.Text)
	var out Review
	if err := row.Scan(&out.ID, &out.SongID, &out.ReviewerID, &out.Rating,
		&out.Text, &out.Verified, &out.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return Review{}, ErrDuplicateReview
		}
		return Review{}, err
	}
	return out, nil
}

func (s *PostgresReviewStore) ListForSong(ctx context.Context, songID string) ([]Review, Statistics, error) {
	const q = `SELECT ` + reviewColumns + `
	           FROM song_feedback
	           WHERE song_id = $1
	           ORDER BY created_at DESC, id DESC`
	reviews, err := s.scanReviews(ctx, q, songID)
	if err != nil {
		return nil, Statistics{}, err
	}

	const statsQ = `SELECT COUNT(*), COALESCE(ROUND(AVG(rating)::numeric, 1), 0)::float8
	                FROM song_feedback WHERE song_id = $1`
	var stats Statistics
	if err := s.pool.QueryRow(ctx, statsQ, songID).Scan(&stats.TotalReviews, &stats.AverageRating); err != nil {
		return nil, Statistics{}, err
	}
	return reviews, stats, nil
}

func (s *PostgresReviewStore) ListForReviewer(ctx context.Context, reviewerID string) ([]Review, error) {
	const q = `SELECT ` + reviewColumns + `
	           FROM song_feedback
	           WHERE reviewer_id = $1
	           ORDER BY created_at DESC, id DESC`
	return s.scanReviews(ctx, q, reviewerID)
}

func (s *PostgresReviewStore) Recent(ctx context.Context, limit int) ([]Review, error) {
	const q = `SELECT ` + reviewColumns + `
	           FROM song_feedback
	           ORDER BY created_at DESC, id DESC
	           LIMIT $1`
	return s.scanReviews(ctx, q, limit)
}

func (s *PostgresReviewStore) SetVerifiedForReviewer(ctx context.Context, reviewerID string, verified bool) ([]Review, error) {
	const q = `UPDATE song_feedback
	           SET verified = $2
	           WHERE reviewer_id = $1
	           RETURNING ` + reviewColumns
	updated, err := s.scanReviews(ctx, q, reviewerID, verified)
	if err != nil {
		return nil, err
	}
	if len(updated) == 0 {
		return nil, ErrNotFound
	}
	return updated, nil
}

func (s *PostgresReviewStore) ReviewerStatus(ctx context.Context, reviewerID string) ([]ReviewerStatus, error) {
	const q = `SELECT reviewer_id, verified, COUNT(*)
	           FROM song_feedback
	           WHERE reviewer_id = $1
	           GROUP BY reviewer_id, verified`
	rows, err := s.pool.Query(ctx, q, reviewerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ReviewerStatus
	for rows.Next() {
		var st ReviewerStatus
		if err := rows.Scan(&st.ReviewerID, &st.Verified, &st.ReviewCount); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (s *PostgresReviewStore) VerifiedReviewers(ctx context.Context) ([]ReviewerStatus, error) {
	const q = `SELECT DISTINCT reviewer_id, verified
	           FROM song_feedback
	           WHERE verified = true
	           ORDER BY reviewer_id`
	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ReviewerStatus
	for rows.Next() {
		var st ReviewerStatus
		if err := rows.Scan(&st.ReviewerID, &st.Verified); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (s *PostgresReviewStore) Counts(ctx context.Context) (ReviewCounts, error) {
	const q = `SELECT COUNT(*),
	                  COUNT(CASE WHEN verified THEN 1 END),
	                  COUNT(CASE WHEN NOT verified THEN 1 END)
	           FROM song_feedback`
	var c ReviewCounts
	err := s.pool.QueryRow(ctx, q).Scan(&c.TotalReviews, &c.VerifiedReviews, &c.CommunityReviews)
	return c, err
}

// SeedReviews upserts sample rows for testing. The conflict clause is
// intentional here: reseeding refreshes existing sample data in place.
func (s *PostgresReviewStore) SeedReviews(ctx context.Context, reviews []Review) ([]Review, error) {
	const q = `INSERT INTO song_feedback (song_id, reviewer_id, rating, review, verified)
	           VALUES ($1, $2, $3, $4, $5)
	           ON CONFLICT (song_id, reviewer_id) DO UPDATE SET
	             rating = EXCLUDED.rating,
	             review = EXCLUDED.review,
	             verified = EXCLUDED.verified,
	             created_at = now()
	           RETURNING ` + reviewColumns
	out := make([]Review, 0, len(reviews))
	for _, r := range reviews {
		var seeded Review
		err := s.pool.QueryRow(ctx, q, r.SongID, r.ReviewerID, r.Rating, r.Text, r.Verified).
			Scan(&seeded.ID, &seeded.SongID, &seeded.ReviewerID, &seeded.Rating,
				&seeded.Text, &seeded.Verified, &seeded.CreatedAt)
		if err != nil {
			return nil, err
		}
		out = append(out, seeded)
	}
	return out, nil
}

func (s *PostgresReviewStore) DeleteTestReviews(ctx context.Context) (int, error) {
	const q = `DELETE FROM song_feedback
	           WHERE reviewer_id LIKE 'critic_%' OR reviewer_id LIKE 'user_%'`
	tag, err := s.pool.Exec(ctx, q)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func (s *PostgresReviewStore) scanReviews(ctx context.Context, q string, args ...any) ([]Review, error) {
	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Review
	for rows.Next() {
		var r Review
		if err := rows.Scan(&r.ID, &r.SongID, &r.ReviewerID, &r.Rating,
			&r.Text, &r.Verified, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
