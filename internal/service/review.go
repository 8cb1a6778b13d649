package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/quranlingo-bot/internal/domain/entities"
	"github.com/aliskhannn/quranlingo-bot/internal/repository"
)

// ReviewScheduler owns the spaced-repetition items of one learner.
type ReviewScheduler struct {
	mu      sync.Mutex
	userID  int64
	repo    ReviewRepository
	awarder XPAwarder
	knownXP int
	clock   Clock
	logger  *zap.Logger

	items []entities.ReviewItem
	index map[string]int // word id -> position in items
}

func NewReviewScheduler(
	userID int64,
	repo ReviewRepository,
	awarder XPAwarder,
	knownXP int,
	clock Clock,
	logger *zap.Logger,
) *ReviewScheduler {
	return &ReviewScheduler{
		userID:  userID,
		repo:    repo,
		awarder: awarder,
		knownXP: knownXP,
		clock:   clock,
		logger:  logger.With(zap.Int64("user_id", userID)),
		index:   make(map[string]int),
	}
}

// Load replaces the in-memory items with the persisted collection and reports
// whether one existed. Invalid and duplicate items are dropped. A corrupt
// collection counts as missing; any other read error is returned and the
// current items are kept.
func (s *ReviewScheduler) Load(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.repo.GetByUserID(ctx, s.userID)
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrReviewsNotFound):
		s.logger.Debug("no saved reviews")
		s.reset(nil)
		return false, nil
	case errors.Is(err, repository.ErrCorruptDocument):
		s.logger.Warn("saved reviews are corrupt, starting empty", zap.Error(err))
		s.reset(nil)
		return false, nil
	default:
		return false, fmt.Errorf("load reviews: %w", err)
	}

	s.reset(items)
	return true, nil
}

// reset must be called with mu held.
func (s *ReviewScheduler) reset(items []entities.ReviewItem) {
	s.items = nil
	s.index = make(map[string]int)

	for _, item := range items {
		if !item.Valid() {
			s.logger.Warn("skipping invalid review item",
				zap.String("word_id", item.WordID),
				zap.Int("bucket", item.Bucket),
			)
			continue
		}
		if _, dup := s.index[item.WordID]; dup {
			continue
		}
		s.index[item.WordID] = len(s.items)
		s.items = append(s.items, item)
	}
}

// Seed schedules every word of a lesson that is not scheduled yet, due
// immediately in the first bucket. It returns how many items were added.
func (s *ReviewScheduler) Seed(ctx context.Context, lessonID string, wordIDs []string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	added := 0
	for _, wordID := range wordIDs {
		if wordID == "" {
			continue
		}
		if _, ok := s.index[wordID]; ok {
			continue
		}
		s.index[wordID] = len(s.items)
		s.items = append(s.items, entities.NewReviewItem(wordID, lessonID, now))
		added++
	}

	if added > 0 {
		s.persist(ctx)
		s.logger.Debug("reviews seeded", zap.String("lesson_id", lessonID), zap.Int("added", added))
	}

	return added
}

// SubmitReview moves the item of wordID to its next bucket and due time.
// A known answer is rewarded with XP. Unknown word ids are ignored and
// reported with false.
func (s *ReviewScheduler) SubmitReview(ctx context.Context, wordID string, known bool) (entities.ReviewItem, bool) {
	s.mu.Lock()

	idx, ok := s.index[wordID]
	if !ok {
		s.mu.Unlock()
		s.logger.Debug("review for unscheduled word ignored", zap.String("word_id", wordID))
		return entities.ReviewItem{}, false
	}

	s.items[idx].Advance(known, s.clock.Now())
	item := s.items[idx]
	s.persist(ctx)
	s.mu.Unlock()

	if known && s.awarder != nil && s.knownXP > 0 {
		s.awarder.AddXP(ctx, s.knownXP)
	}

	return item, true
}

// DueItems returns the items due at now, oldest first.
func (s *ReviewScheduler) DueItems(now time.Time) []entities.ReviewItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return entities.DueItems(s.items, now)
}

// GetDueReviewItems returns the items due right now.
func (s *ReviewScheduler) GetDueReviewItems(_ context.Context) []entities.ReviewItem {
	return s.DueItems(s.clock.Now())
}

// Items returns a copy of every scheduled item.
func (s *ReviewScheduler) Items() []entities.ReviewItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entities.ReviewItem(nil), s.items...)
}

// Len returns the number of scheduled words.
func (s *ReviewScheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// persist must be called with mu held.
func (s *ReviewScheduler) persist(ctx context.Context) {
	if err := s.repo.Save(ctx, s.userID, s.items); err != nil {
		s.logger.Error("failed to save reviews",
			zap.String("key", "reviews"),
			zap.Error(err),
		)
	}
}
