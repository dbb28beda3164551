package session

import (
	"context"
	"sync"

	"github.com/ledgerline/onboarding/internal/models"
)

// Store persists onboarding sessions keyed by viewer ID. A missing session
// is (nil, nil), not an error. Implementations hold at most one session per
// viewer; Put replaces any existing one.
type Store interface {
	Get(ctx context.Context, userID int64) (*models.Session, error)
	Put(ctx context.Context, sess *models.Session) error
	Delete(ctx context.Context, userID int64) error
}

// MemoryStore is the in-process Store used in development and tests.
// Expiry is enforced by the Tracker, not the store.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[int64]models.Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[int64]models.Session),
	}
}

func (s *MemoryStore) Get(ctx context.Context, userID int64) (*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[userID]
	if !ok {
		return nil, nil
	}
	return &sess, nil
}

func (s *MemoryStore) Put(ctx context.Context, sess *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sess.UserID] = *sess
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, userID)
	return nil
}
