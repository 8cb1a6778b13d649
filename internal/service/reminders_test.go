package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aliskhannn/quranlingo-bot/internal/domain/entities"
)

type recordingNotifier struct {
	mu        sync.Mutex
	reminders []entities.ReviewReminder
	failFor   int64
}

func (n *recordingNotifier) SendReviewReminder(_ context.Context, r entities.ReviewReminder) error {
	if r.UserID == n.failFor {
		return errors.New("chat not found")
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.reminders = append(n.reminders, r)
	return nil
}

func (n *recordingNotifier) sorted() []entities.ReviewReminder {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := append([]entities.ReviewReminder(nil), n.reminders...)
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out
}

func TestReminderService_SendDueReminders(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	due := f.learnerFor(t, 1)
	due.CompleteLesson(ctx, "L1", 0)
	due.Progress().CheckAndUpdateStreak(ctx)

	notDue := f.learnerFor(t, 2)
	notDue.CompleteLesson(ctx, "L2", 0)
	for _, it := range notDue.Reviews().GetDueReviewItems(ctx) {
		notDue.Reviews().SubmitReview(ctx, it.WordID, true)
	}

	failing := f.learnerFor(t, 3)
	failing.CompleteLesson(ctx, "L2", 0)

	notifier := &recordingNotifier{failFor: 3}
	svc := NewReminderService(f.reviews, f.progress, newStubCurriculum(), f.clock, "", zap.NewNop())
	svc.SetNotifier(notifier)

	sent, err := svc.SendDueReminders(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	got := notifier.sorted()
	require.Len(t, got, 1)
	assert.Equal(t, entities.ReviewReminder{
		UserID:   1,
		ChatID:   1,
		DueCount: 3,
		Streak:   1,
		NextWord: "اللّٰه",
	}, got[0])

	f.clock.Advance(3 * 24 * time.Hour)
	sent, err = svc.SendDueReminders(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
}

func TestReminderService_RequiresNotifier(t *testing.T) {
	f := newFixture(t)
	svc := NewReminderService(f.reviews, f.progress, newStubCurriculum(), f.clock, "", zap.NewNop())

	_, err := svc.SendDueReminders(context.Background())
	assert.ErrorIs(t, err, errNotifierNotSet)
}

func TestReminderService_StartRejectsBadSchedule(t *testing.T) {
	f := newFixture(t)
	svc := NewReminderService(f.reviews, f.progress, newStubCurriculum(), f.clock, "not a cron line", zap.NewNop())

	assert.Error(t, svc.Start(context.Background()))
}

func TestReminderService_StartStopsWithContext(t *testing.T) {
	f := newFixture(t)
	svc := NewReminderService(f.reviews, f.progress, newStubCurriculum(), f.clock, DefaultReminderSchedule, zap.NewNop())
	svc.SetNotifier(&recordingNotifier{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Start(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("reminder service did not stop")
	}
}

func TestReminderService_CancelledBatchSendsNothing(t *testing.T) {
	f := newFixture(t)
	f.learnerFor(t, 1).CompleteLesson(context.Background(), "L1", 0)

	notifier := &recordingNotifier{}
	svc := NewReminderService(f.reviews, f.progress, newStubCurriculum(), f.clock, "", zap.NewNop())
	svc.SetNotifier(notifier)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sent, err := svc.SendDueReminders(ctx)
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Empty(t, notifier.sorted())
}
