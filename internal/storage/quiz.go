package storage

import (
	"sync"

	"github.com/aliskhannn/quranlingo-bot/internal/domain/entities"
)

// QuizStorage provides in-memory storage for the active lesson quiz of each user.
type QuizStorage struct {
	mu       sync.RWMutex
	sessions map[int64]*entities.QuizSession
}

// NewQuizStorage creates a new QuizStorage.
func NewQuizStorage() *QuizStorage {
	return &QuizStorage{
		sessions: make(map[int64]*entities.QuizSession),
	}
}

// Store saves the quiz of a user, replacing any previous one.
func (s *QuizStorage) Store(userID int64, session *entities.QuizSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = session
}

// Get retrieves the quiz of a user.
func (s *QuizStorage) Get(userID int64) (*entities.QuizSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[userID]
	return session, ok
}

// Delete removes the quiz of a user.
func (s *QuizStorage) Delete(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}
