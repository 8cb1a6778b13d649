package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/aliskhannn/quranlingo-bot/internal/domain/entities"
)

// Rewards holds the XP paid for activities other than lessons.
type Rewards struct {
	ReviewKnownXP        int
	ReviewSessionBonusXP int
	FlashcardXP          int
}

// DefaultRewards returns the standard reward table.
func DefaultRewards() Rewards {
	return Rewards{
		ReviewKnownXP:        1,
		ReviewSessionBonusXP: 5,
		FlashcardXP:          5,
	}
}

// LessonOutcome is the result of finishing a lesson.
type LessonOutcome struct {
	State           entities.ProgressState
	XPEarned        int
	FirstCompletion bool
	WordsScheduled  int
	NewLevels       []string
}

// Learner bundles the progress store and review scheduler of one user.
type Learner struct {
	UserID int64

	progress   *ProgressStore
	reviews    *ReviewScheduler
	curriculum Curriculum
	rewards    Rewards
	logger     *zap.Logger

	loadMu sync.Mutex
	loaded bool

	mu     sync.Mutex
	review *ReviewSession
}

func NewLearner(
	userID int64,
	progress *ProgressStore,
	reviews *ReviewScheduler,
	curriculum Curriculum,
	rewards Rewards,
	logger *zap.Logger,
) *Learner {
	return &Learner{
		UserID:     userID,
		progress:   progress,
		reviews:    reviews,
		curriculum: curriculum,
		rewards:    rewards,
		logger:     logger.With(zap.Int64("user_id", userID)),
	}
}

// Progress returns the learner's progress store.
func (l *Learner) Progress() *ProgressStore {
	return l.progress
}

// Reviews returns the learner's review scheduler.
func (l *Learner) Reviews() *ReviewScheduler {
	return l.reviews
}

// Load reads persisted state until it succeeds once. A learner without a
// review collection has one built from the lessons already completed.
func (l *Learner) Load(ctx context.Context) error {
	l.loadMu.Lock()
	defer l.loadMu.Unlock()

	if l.loaded {
		return nil
	}

	state, err := l.progress.Load(ctx)
	if err != nil {
		return err
	}
	found, err := l.reviews.Load(ctx)
	if err != nil {
		return err
	}
	if !found {
		l.backfillReviews(ctx, state.CompletedLessons)
	}

	l.loaded = true
	return nil
}

func (l *Learner) backfillReviews(ctx context.Context, lessonIDs []string) {
	seeded := 0
	for _, lessonID := range lessonIDs {
		lesson, err := l.curriculum.Lesson(lessonID)
		if err != nil {
			l.logger.Debug("completed lesson not in curriculum", zap.String("lesson_id", lessonID))
			continue
		}
		seeded += l.reviews.Seed(ctx, lesson.ID, lesson.WordIDs())
	}
	if seeded > 0 {
		l.logger.Info("review queue backfilled", zap.Int("words", seeded))
	}
}

// CompleteLesson marks a lesson finished, pays xp and schedules its words for
// review. Lessons missing from the curriculum are still recorded.
func (l *Learner) CompleteLesson(ctx context.Context, lessonID string, xp int) LessonOutcome {
	before := l.progress.State().UnlockedLevels

	_, first := l.progress.CompleteLesson(ctx, lessonID)
	state := l.progress.AddXP(ctx, max(xp, 0))

	scheduled := 0
	if lesson, err := l.curriculum.Lesson(lessonID); err == nil {
		scheduled = l.reviews.Seed(ctx, lesson.ID, lesson.WordIDs())
	}

	return LessonOutcome{
		State:           state,
		XPEarned:        max(xp, 0),
		FirstCompletion: first,
		WordsScheduled:  scheduled,
		NewLevels:       newLevels(before, state.UnlockedLevels),
	}
}

// FinishFlashcards pays the flashcard reward.
func (l *Learner) FinishFlashcards(ctx context.Context) entities.ProgressState {
	return l.progress.AddXP(ctx, l.rewards.FlashcardXP)
}

// StartReview begins a session over the words due now, replacing any session
// in progress.
func (l *Learner) StartReview(ctx context.Context) *ReviewSession {
	due := l.reviews.GetDueReviewItems(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()

	l.review = newReviewSession(l.reviews, l.progress, l.rewards, due)
	return l.review
}

// ActiveReview returns the session in progress, if any.
func (l *Learner) ActiveReview() (*ReviewSession, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.review == nil || l.review.Done() {
		return nil, false
	}
	return l.review, true
}

// Reset restores default progress and drops the session in progress.
// Scheduled reviews are kept.
func (l *Learner) Reset(ctx context.Context) entities.ProgressState {
	l.mu.Lock()
	l.review = nil
	l.mu.Unlock()

	return l.progress.ResetProgress(ctx)
}

func newLevels(before, after []string) []string {
	seen := make(map[string]struct{}, len(before))
	for _, id := range before {
		seen[id] = struct{}{}
	}

	var added []string
	for _, id := range after {
		if _, ok := seen[id]; !ok {
			added = append(added, id)
		}
	}
	return added
}
