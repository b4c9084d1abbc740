package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresUserStore persists accounts and favorites in Postgres.
type PostgresUserStore struct {
	pool *pgxpool.Pool
}

// NewPostgresUserStore creates a store backed by Postgres.
func NewPostgresUserStore(pool *pgxpool.Pool) *PostgresUserStore {
	return &PostgresUserStore{pool: pool}
}

const userColumns = `id::text, COALESCE(name, ''), email, image, favorites, created_at`

func (s *PostgresUserStore) GetByID(ctx context.Context, id string) (User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id::text = $1`
	return s.scanUser(s.pool.QueryRow(ctx, q, id))
}

func (s *PostgresUserStore) GetByEmail(ctx context.Context, email string) (User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`
	return s.scanUser(s.pool.QueryRow(ctx, q, email))
}

func (s *PostgresUserStore) UpsertOnSignIn(ctx context.Context, email, name string, image *string) (User, error) {
	const q = `INSERT INTO users (email, name, image)
	           VALUES ($1, $2, $3)
	           ON CONFLICT (email) DO UPDATE SET
	             name  = COALESCE(NULLIF(EXCLUDED.name, ''), users.name),
	             image = COALESCE(EXCLUDED.image, users.image)
	           RETURNING ` + userColumns
	return s.scanUser(s.pool.QueryRow(ctx, q, email, name, image))
}

func (s *PostgresUserStore) AddFavorite(ctx context.Context, userID, songID string) ([]string, error) {
	// Membership check and append happen in one statement so concurrent
	// adds cannot overwrite each other.
	const q = `UPDATE users
	           SET favorites = array_append(favorites, $2)
	           WHERE id::text = $1 AND NOT ($2 = ANY(favorites))
	           RETURNING favorites`
	var favorites []string
	err := s.pool.QueryRow(ctx, q, userID, songID).Scan(&favorites)
	if errors.Is(err, pgx.ErrNoRows) {
		// Missing user or already present; disambiguate for the caller.
		if _, lookupErr := s.GetByID(ctx, userID); lookupErr != nil {
			return nil, lookupErr
		}
		return nil, ErrAlreadyFavorite
	}
	return favorites, err
}

func (s *PostgresUserStore) RemoveFavorite(ctx context.Context, userID, songID string) ([]string, error) {
	const q = `UPDATE users
	           SET favorites = array_remove(favorites, $2)
	           WHERE id::text = $1 AND $2 = ANY(favorites)
	           RETURNING favorites`
	var favorites []string
	err := s.pool.QueryRow(ctx, q, userID, songID).Scan(&favorites)
	if errors.Is(err, pgx.ErrNoRows) {
		if _, lookupErr := s.GetByID(ctx, userID); lookupErr != nil {
			return nil, lookupErr
		}
		return nil, ErrNotFavorite
	}
	return favorites, err
}

func (s *PostgresUserStore) Favorites(ctx context.Context, userID string) ([]string, error) {
	const q = `SELECT favorites FROM users WHERE id::text = $1`
	var favorites []string
	err := s.pool.QueryRow(ctx, q, userID).Scan(&favorites)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return favorites, err
}

func (s *PostgresUserStore) scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Image, &u.Favorites, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}
