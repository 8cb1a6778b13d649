package service

import (
	"context"

	"github.com/aliskhannn/quranlingo-bot/internal/domain/entities"
)

type ProgressRepository interface {
	Get(ctx context.Context, userID int64) (*entities.ProgressState, error)
	Save(ctx context.Context, userID int64, state entities.ProgressState) error
}

type ReviewRepository interface {
	GetByUserID(ctx context.Context, userID int64) ([]entities.ReviewItem, error)
	Save(ctx context.Context, userID int64, items []entities.ReviewItem) error
	UserIDs(ctx context.Context) ([]int64, error)
}

// Curriculum is the read-only catalogue of levels, lessons and words.
type Curriculum interface {
	Thresholds() []entities.LevelThreshold
	Levels() []entities.Level
	Lesson(id string) (entities.Lesson, error)
	Word(id string) (entities.Word, error)
	Words() []entities.Word
}

// XPAwarder credits experience points to a learner.
type XPAwarder interface {
	AddXP(ctx context.Context, amount int) entities.ProgressState
}

// ReviewNotifier sends due-review reminders to users.
type ReviewNotifier interface {
	SendReviewReminder(ctx context.Context, reminder entities.ReviewReminder) error
}

// QuizStorage keeps the active lesson quiz of each user.
type QuizStorage interface {
	Store(userID int64, session *entities.QuizSession)
	Get(userID int64) (*entities.QuizSession, bool)
	Delete(userID int64)
}
