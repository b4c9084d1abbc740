package store

import (
	"context"
	"time"
)

// User represents an authenticated account. Accounts are created by the
// OAuth sign-in path on first login; the review core only reads them.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Image     *string   `json:"image,omitempty"`
	Favorites []string  `json:"favorites"`
	CreatedAt time.Time `json:"created_at"`
}

// UserStore defines the contract for account and favorites persistence.
//
// AddFavorite and RemoveFavorite are single conditional updates: membership
// is checked and mutated in one statement, so concurrent calls merge instead
// of overwriting each other's favorites list.
type UserStore interface {
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	UpsertOnSignIn(ctx context.Context, email, name string, image *string) (User, error)
	AddFavorite(ctx context.Context, userID, songID string) ([]string, error)
	RemoveFavorite(ctx context.Context, userID, songID string) ([]string, error)
	Favorites(ctx context.Context, userID string) ([]string, error)
}
