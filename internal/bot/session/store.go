// Package session holds the per-user dialogue state store. All access goes
// through Store, which serializes read-modify-write per user key so that
// rapid duplicate messages from one user cannot race a phase transition.
package session

import (
	"context"
	"sync"

	"github.com/drinkcal-bot/server/internal/bot/model"
)

// Store wraps a SessionRepository with a per-user mutex. The lock is
// process-local: the service assumes a single instance owns a user's
// conversation at a time.
type Store struct {
	repo model.SessionRepository

	mu    sync.Mutex
	locks map[string]*userLock
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

func NewStore(repo model.SessionRepository) *Store {
	return &Store{
		repo:  repo,
		locks: make(map[string]*userLock),
	}
}

// Acquire takes the user's lock and returns the release function. Entries
// are reference-counted so the lock map does not grow with user churn.
func (s *Store) Acquire(userID string) func() {
	s.mu.Lock()
	l, ok := s.locks[userID]
	if !ok {
		l = &userLock{}
		s.locks[userID] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, userID)
		}
		s.mu.Unlock()
	}
}

// Load returns the user's session; absent or expired sessions read as Idle.
func (s *Store) Load(ctx context.Context, userID string) (model.Session, error) {
	return s.repo.Load(ctx, userID)
}

// Save persists the session and refreshes its idle TTL.
func (s *Store) Save(ctx context.Context, userID string, sess model.Session) error {
	return s.repo.Save(ctx, userID, sess)
}

// Clear resets the user to Idle.
func (s *Store) Clear(ctx context.Context, userID string) error {
	return s.repo.Clear(ctx, userID)
}
