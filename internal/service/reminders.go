package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/aliskhannn/quranlingo-bot/internal/domain/entities"
)

// DefaultReminderSchedule fires once a day at 09:00 in the configured zone.
const DefaultReminderSchedule = "0 9 * * *"

const maxConcurrentReminders = 10

var errNotifierNotSet = errors.New("notifier not initialized")

// ReminderService tells users when words are waiting for review. It only
// reads persisted state.
type ReminderService struct {
	reviewRepo   ReviewRepository
	progressRepo ProgressRepository
	curriculum   Curriculum
	notifier     ReviewNotifier
	clock        Clock
	schedule     string
	logger       *zap.Logger
}

func NewReminderService(
	reviewRepo ReviewRepository,
	progressRepo ProgressRepository,
	curriculum Curriculum,
	clock Clock,
	schedule string,
	logger *zap.Logger,
) *ReminderService {
	if schedule == "" {
		schedule = DefaultReminderSchedule
	}
	return &ReminderService{
		reviewRepo:   reviewRepo,
		progressRepo: progressRepo,
		curriculum:   curriculum,
		clock:        clock,
		schedule:     schedule,
		logger:       logger,
	}
}

// SetNotifier sets the notifier (called after the delivery layer is created).
func (s *ReminderService) SetNotifier(notifier ReviewNotifier) {
	s.notifier = notifier
}

// Start runs the reminder schedule until ctx is cancelled.
func (s *ReminderService) Start(ctx context.Context) error {
	c := cron.New(cron.WithLocation(s.clock.Location()))

	_, err := c.AddFunc(s.schedule, func() {
		s.logger.Info("cron triggered: sending review reminders")
		if _, err := s.SendDueReminders(ctx); err != nil {
			s.logger.Error("failed to send review reminders", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("add cron job: %w", err)
	}

	c.Start()
	s.logger.Info("reminder service started", zap.String("schedule", s.schedule))

	<-ctx.Done()

	<-c.Stop().Done()
	s.logger.Info("reminder service stopped")

	return nil
}

// SendDueReminders notifies every user with at least one due word and
// returns how many reminders were sent.
func (s *ReminderService) SendDueReminders(ctx context.Context) (int, error) {
	if s.notifier == nil {
		return 0, errNotifierNotSet
	}

	userIDs, err := s.reviewRepo.UserIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("list users: %w", err)
	}

	sent := s.processBatch(ctx, userIDs)

	s.logger.Info("review reminders processed",
		zap.Int("users", len(userIDs)),
		zap.Int("total_sent", sent),
	)

	return sent, nil
}

// processBatch handles users concurrently with bounded parallelism. Users not
// yet started when ctx ends are skipped.
func (s *ReminderService) processBatch(ctx context.Context, userIDs []int64) int {
	sem := semaphore.NewWeighted(maxConcurrentReminders)
	var wg sync.WaitGroup
	var sent atomic.Int64

	for _, userID := range userIDs {
		if err := sem.Acquire(ctx, 1); err != nil {
			s.logger.Warn("reminder batch interrupted", zap.Error(err))
			break
		}

		userID := userID
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)

			ok, err := s.processUser(ctx, userID)
			if err != nil {
				s.logger.Error("failed to process reminder",
					zap.Int64("user_id", userID),
					zap.Error(err))
				return
			}
			if ok {
				sent.Add(1)
			}
		}()
	}

	wg.Wait()
	return int(sent.Load())
}

func (s *ReminderService) processUser(ctx context.Context, userID int64) (bool, error) {
	items, err := s.reviewRepo.GetByUserID(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("get reviews: %w", err)
	}

	valid := make([]entities.ReviewItem, 0, len(items))
	for _, it := range items {
		if it.Valid() {
			valid = append(valid, it)
		}
	}

	due := entities.DueItems(valid, s.clock.Now())
	if len(due) == 0 {
		return false, nil
	}

	reminder := entities.ReviewReminder{
		UserID:   userID,
		ChatID:   userID,
		DueCount: len(due),
	}

	if state, err := s.progressRepo.Get(ctx, userID); err == nil {
		reminder.Streak = state.Streak
	}
	if word, err := s.curriculum.Word(due[0].WordID); err == nil {
		reminder.NextWord = word.Arabic
	}

	if err := s.notifier.SendReviewReminder(ctx, reminder); err != nil {
		return false, fmt.Errorf("send reminder: %w", err)
	}

	s.logger.Debug("review reminder sent",
		zap.Int64("user_id", userID),
		zap.Int("due", len(due)),
	)

	return true, nil
}
