package storage

import (
	"context"
	"sync"

	"github.com/aliskhannn/reaction-games-bot/internal/domain/entities"
)

// ResultStorage keeps session results in memory, newest last per user.
// It is used when no database is configured.
type ResultStorage struct {
	mu      sync.RWMutex
	results map[string][]*entities.Result
	nextID  int64
	keep    int
}

// NewResultStorage creates a ResultStorage keeping at most keep results per user.
// A non-positive keep stores everything.
func NewResultStorage(keep int) *ResultStorage {
	return &ResultStorage{
		results: make(map[string][]*entities.Result),
		keep:    keep,
	}
}

// Save stores a copy of r and assigns its id.
func (s *ResultStorage) Save(_ context.Context, r *entities.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	r.ID = s.nextID

	stored := *r
	list := append(s.results[r.UserID], &stored)
	if s.keep > 0 && len(list) > s.keep {
		list = list[len(list)-s.keep:]
	}
	s.results[r.UserID] = list
	return nil
}

// Recent returns up to limit results of a user, newest first.
func (s *ResultStorage) Recent(_ context.Context, userID string, limit int) ([]*entities.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.results[userID]
	if limit <= 0 || limit > len(list) {
		limit = len(list)
	}

	out := make([]*entities.Result, 0, limit)
	for i := len(list) - 1; i >= 0 && len(out) < limit; i-- {
		r := *list[i]
		out = append(out, &r)
	}
	return out, nil
}
