package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

const loadTimeout = 10 * time.Second

// ErrLearnerUnavailable is returned when stored state could not be read.
var ErrLearnerUnavailable = errors.New("learner state unavailable")

// SessionManager hands out one Learner per user, loading it on first use.
type SessionManager struct {
	mu       sync.Mutex
	learners map[int64]*Learner

	progressRepo ProgressRepository
	reviewRepo   ReviewRepository
	curriculum   Curriculum
	rewards      Rewards
	clock        Clock
	logger       *zap.Logger
}

func NewSessionManager(
	progressRepo ProgressRepository,
	reviewRepo ReviewRepository,
	curriculum Curriculum,
	rewards Rewards,
	clock Clock,
	logger *zap.Logger,
) *SessionManager {
	return &SessionManager{
		learners:     make(map[int64]*Learner),
		progressRepo: progressRepo,
		reviewRepo:   reviewRepo,
		curriculum:   curriculum,
		rewards:      rewards,
		clock:        clock,
		logger:       logger,
	}
}

// Learner returns the loaded learner of userID. The first load is detached
// from ctx cancellation so a dropped request cannot fail it halfway; a failed
// load is retried on the next call.
func (m *SessionManager) Learner(ctx context.Context, userID int64) (*Learner, error) {
	m.mu.Lock()
	l, ok := m.learners[userID]
	if !ok {
		l = m.newLearner(userID)
		m.learners[userID] = l
	}
	m.mu.Unlock()

	loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
	defer cancel()

	if err := l.Load(loadCtx); err != nil {
		m.logger.Warn("failed to load learner", zap.Int64("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrLearnerUnavailable, err)
	}
	return l, nil
}

// Clock returns the clock shared by every learner.
func (m *SessionManager) Clock() Clock {
	return m.clock
}

func (m *SessionManager) newLearner(userID int64) *Learner {
	progress := NewProgressStore(userID, m.progressRepo, m.curriculum.Thresholds(), m.clock, m.logger)
	reviews := NewReviewScheduler(userID, m.reviewRepo, progress, m.rewards.ReviewKnownXP, m.clock, m.logger)
	return NewLearner(userID, progress, reviews, m.curriculum, m.rewards, m.logger)
}
