package store

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryUserStore is a development-only in-memory implementation.
type InMemoryUserStore struct {
	mu    sync.RWMutex
	users map[string]User // id -> user
}

func NewInMemoryUserStore() *InMemoryUserStore {
	return &InMemoryUserStore{users: make(map[string]User)}
}

func (s *InMemoryUserStore) GetByID(_ context.Context, id string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (s *InMemoryUserStore) GetByEmail(_ context.Context, email string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (s *InMemoryUserStore) UpsertOnSignIn(_ context.Context, email, name string, image *string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			if name != "" {
				u.Name = name
			}
			if image != nil {
				u.Image = image
			}
			s.users[id] = u
			return u, nil
		}
	}

	u := User{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     email,
		Image:     image,
		Favorites: []string{},
		CreatedAt: time.Now().UTC(),
	}
	s.users[u.ID] = u
	return u, nil
}

func (s *InMemoryUserStore) AddFavorite(_ context.Context, userID, songID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, ErrNotFound
	}
	if slices.Contains(u.Favorites, songID) {
		return nil, ErrAlreadyFavorite
	}
	u.Favorites = append(u.Favorites, songID)
	s.users[userID] = u
	return slices.Clone(u.Favorites), nil
}

func (s *InMemoryUserStore) RemoveFavorite(_ context.Context, userID, songID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, ErrNotFound
	}
	idx := slices.Index(u.Favorites, songID)
	if idx < 0 {
		return nil, ErrNotFavorite
	}
	u.Favorites = slices.Delete(slices.Clone(u.Favorites), idx, idx+1)
	s.users[userID] = u
	return slices.Clone(u.Favorites), nil
}

func (s *InMemoryUserStore) Favorites(_ context.Context, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return slices.Clone(u.Favorites), nil
}
