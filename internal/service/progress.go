package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/aliskhannn/quranlingo-bot/internal/domain/entities"
	"github.com/aliskhannn/quranlingo-bot/internal/repository"
)

// ProgressStore owns the progress of one learner. The in-memory state is
// authoritative; every transition is written through the repository and a
// failed write is logged, not retried.
type ProgressStore struct {
	mu         sync.Mutex
	userID     int64
	repo       ProgressRepository
	thresholds []entities.LevelThreshold
	clock      Clock
	logger     *zap.Logger
	state      entities.ProgressState
}

func NewProgressStore(
	userID int64,
	repo ProgressRepository,
	thresholds []entities.LevelThreshold,
	clock Clock,
	logger *zap.Logger,
) *ProgressStore {
	s := &ProgressStore{
		userID:     userID,
		repo:       repo,
		thresholds: thresholds,
		clock:      clock,
		logger:     logger.With(zap.Int64("user_id", userID)),
		state:      entities.DefaultProgressState(),
	}
	s.state.Resolve(thresholds)
	return s
}

// Load replaces the in-memory state with the persisted one. A missing or
// corrupt document yields the default state. Any other read error is
// returned and the current state is kept.
func (s *ProgressStore) Load(ctx context.Context) (entities.ProgressState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.repo.Get(ctx, s.userID)
	switch {
	case err == nil:
		s.state = *state
	case errors.Is(err, repository.ErrProgressNotFound):
		s.logger.Debug("no saved progress, starting fresh")
		s.state = entities.DefaultProgressState()
	case errors.Is(err, repository.ErrCorruptDocument):
		s.logger.Warn("saved progress is corrupt, using defaults", zap.Error(err))
		s.state = entities.DefaultProgressState()
	default:
		return s.state.Clone(), fmt.Errorf("load progress: %w", err)
	}

	s.state.Resolve(s.thresholds)
	return s.state.Clone(), nil
}

// State returns a copy of the current progress.
func (s *ProgressStore) State() entities.ProgressState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// AddXP credits amount and unlocks every level the new total reaches.
// Negative amounts are ignored.
func (s *ProgressStore) AddXP(ctx context.Context, amount int) entities.ProgressState {
	s.mu.Lock()
	defer s.mu.Unlock()

	if amount < 0 {
		s.logger.Warn("ignoring negative xp amount", zap.Int("amount", amount))
		return s.state.Clone()
	}

	s.state.XP += amount
	s.state.UnlockedLevels = entities.UnlockLevels(s.state.XP, s.thresholds, s.state.UnlockedLevels)
	s.persist(ctx)

	return s.state.Clone()
}

// CompleteLesson records lessonID as completed. The boolean reports whether
// the lesson was newly added; nothing is written when it was already there.
func (s *ProgressStore) CompleteLesson(ctx context.Context, lessonID string) (entities.ProgressState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if slices.Contains(s.state.CompletedLessons, lessonID) {
		return s.state.Clone(), false
	}

	s.state.CompletedLessons = append(s.state.CompletedLessons, lessonID)
	s.persist(ctx)

	return s.state.Clone(), true
}

// CheckAndUpdateStreak applies today's activity to the streak.
func (s *ProgressStore) CheckAndUpdateStreak(ctx context.Context) entities.ProgressState {
	s.mu.Lock()
	defer s.mu.Unlock()

	streak, last := entities.NextStreak(s.state.LastActiveDate, s.state.Streak, s.clock.Today())
	if streak == s.state.Streak && sameDate(last, s.state.LastActiveDate) {
		return s.state.Clone()
	}

	s.state.Streak = streak
	s.state.LastActiveDate = last
	s.persist(ctx)

	return s.state.Clone()
}

// ResetProgress returns the learner to the default state.
func (s *ProgressStore) ResetProgress(ctx context.Context) entities.ProgressState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = entities.DefaultProgressState()
	s.state.Resolve(s.thresholds)
	s.persist(ctx)

	s.logger.Info("progress reset")

	return s.state.Clone()
}

// persist must be called with mu held.
func (s *ProgressStore) persist(ctx context.Context) {
	if err := s.repo.Save(ctx, s.userID, s.state); err != nil {
		s.logger.Error("failed to save progress",
			zap.String("key", "progress"),
			zap.Error(err),
		)
	}
}

func sameDate(a, b *entities.Date) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
