package spotify

import "context"

// Catalog is the track-catalog surface handlers depend on.
type Catalog interface {
	GetTrack(ctx context.Context, id string) (*Track, error)
	SearchTracks(ctx context.Context, q string, limit int) ([]Track, int, error)
	NewReleases(ctx context.Context, limit int) ([]Album, error)
}

var _ Catalog = (*Client)(nil)
