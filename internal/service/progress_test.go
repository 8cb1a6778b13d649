package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aliskhannn/quranlingo-bot/internal/domain/entities"
	"github.com/aliskhannn/quranlingo-bot/internal/repository"
)

func newTestProgressStore(t *testing.T) (*ProgressStore, *countingStore, *fakeClock) {
	t.Helper()

	store := newCountingStore()
	clock := newFakeClock(time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC))
	ps := NewProgressStore(testUserID, repository.NewProgressRepository(store), testThresholds, clock, zap.NewNop())
	ps.Load(context.Background())

	return ps, store, clock
}

func TestProgressStore_AddXPUnlocksLevels(t *testing.T) {
	ctx := context.Background()
	ps, _, _ := newTestProgressStore(t)

	ps.AddXP(ctx, 30)
	state := ps.AddXP(ctx, 25)

	assert.Equal(t, 55, state.XP)
	assert.Equal(t, []string{"level-1", "level-2"}, state.UnlockedLevels)
}

func TestProgressStore_AddXPSumsAmounts(t *testing.T) {
	ctx := context.Background()
	ps, _, _ := newTestProgressStore(t)

	amounts := []int{0, 7, 13, 1, 0, 42, 100}
	sum := 0
	prev := ps.State().UnlockedLevels
	for _, a := range amounts {
		sum += a
		state := ps.AddXP(ctx, a)
		assert.Subset(t, state.UnlockedLevels, prev)
		prev = state.UnlockedLevels
	}

	assert.Equal(t, sum, ps.State().XP)
	assert.Equal(t, []string{"level-1", "level-2", "level-3"}, ps.State().UnlockedLevels)
}

func TestProgressStore_AddXPIgnoresNegative(t *testing.T) {
	ctx := context.Background()
	ps, store, _ := newTestProgressStore(t)

	ps.AddXP(ctx, 10)
	puts := store.Puts()

	state := ps.AddXP(ctx, -5)
	assert.Equal(t, 10, state.XP)
	assert.Equal(t, puts, store.Puts())
}

func TestProgressStore_CompleteLessonIdempotent(t *testing.T) {
	ctx := context.Background()
	ps, store, _ := newTestProgressStore(t)

	_, added := ps.CompleteLesson(ctx, "L1")
	require.True(t, added)
	puts := store.Puts()

	state, added := ps.CompleteLesson(ctx, "L1")
	assert.False(t, added)
	assert.Equal(t, []string{"L1"}, state.CompletedLessons)
	assert.Equal(t, puts, store.Puts(), "repeat completion must not write")

	state, _ = ps.CompleteLesson(ctx, "not-in-curriculum")
	assert.Equal(t, []string{"L1", "not-in-curriculum"}, state.CompletedLessons)
}

func TestProgressStore_CheckAndUpdateStreak(t *testing.T) {
	ctx := context.Background()
	ps, store, clock := newTestProgressStore(t)

	state := ps.CheckAndUpdateStreak(ctx)
	assert.Equal(t, 1, state.Streak)
	require.NotNil(t, state.LastActiveDate)
	assert.Equal(t, "2024-01-10", state.LastActiveDate.String())

	puts := store.Puts()
	clock.Advance(10 * time.Hour)
	state = ps.CheckAndUpdateStreak(ctx)
	assert.Equal(t, 1, state.Streak)
	assert.Equal(t, puts, store.Puts(), "same-day check must not write")

	clock.Set(time.Date(2024, 1, 11, 0, 5, 0, 0, time.UTC))
	state = ps.CheckAndUpdateStreak(ctx)
	assert.Equal(t, 2, state.Streak)

	clock.Set(time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC))
	state = ps.CheckAndUpdateStreak(ctx)
	assert.Equal(t, 1, state.Streak)
	assert.Equal(t, "2024-01-15", state.LastActiveDate.String())
}

func TestProgressStore_ResetProgress(t *testing.T) {
	ctx := context.Background()
	ps, _, _ := newTestProgressStore(t)

	ps.AddXP(ctx, 120)
	ps.CompleteLesson(ctx, "L1")
	ps.CheckAndUpdateStreak(ctx)

	state := ps.ResetProgress(ctx)
	assert.Equal(t, entities.DefaultProgressState(), state)

	reloaded, err := ps.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, entities.DefaultProgressState(), reloaded)
}

func TestProgressStore_LoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	ps, store, clock := newTestProgressStore(t)

	ps.AddXP(ctx, 60)
	ps.CompleteLesson(ctx, "L1")
	ps.CheckAndUpdateStreak(ctx)
	want := ps.State()

	other := NewProgressStore(testUserID, repository.NewProgressRepository(store), testThresholds, clock, zap.NewNop())
	got, err := other.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestProgressStore_LoadFailsSoft(t *testing.T) {
	ctx := context.Background()
	store := newCountingStore()
	require.NoError(t, store.Put(ctx, "progress:42", []byte(`{"xp":`)))

	ps := NewProgressStore(testUserID, repository.NewProgressRepository(store), testThresholds, newFakeClock(time.Now()), zap.NewNop())
	state, err := ps.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, entities.DefaultProgressState(), state)
}

func TestProgressStore_LoadReResolvesLevels(t *testing.T) {
	ctx := context.Background()
	store := newCountingStore()
	require.NoError(t, store.Put(ctx, "progress:42",
		[]byte(`{"xp":60,"streak":0,"lastActiveDate":null,"completedLessons":[],"unlockedLevels":[]}`)))

	ps := NewProgressStore(testUserID, repository.NewProgressRepository(store), testThresholds, newFakeClock(time.Now()), zap.NewNop())
	state, err := ps.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"level-1", "level-2"}, state.UnlockedLevels)
}

func TestProgressStore_WriteFailureKeepsMemoryState(t *testing.T) {
	ctx := context.Background()
	ps, store, _ := newTestProgressStore(t)

	store.FailPuts(true)
	state := ps.AddXP(ctx, 15)
	assert.Equal(t, 15, state.XP)
	assert.Equal(t, 15, ps.State().XP)

	_, err := repository.NewProgressRepository(store).Get(ctx, testUserID)
	assert.ErrorIs(t, err, repository.ErrProgressNotFound)
}

func TestProgressStore_StateIsACopy(t *testing.T) {
	ctx := context.Background()
	ps, _, _ := newTestProgressStore(t)
	ps.CompleteLesson(ctx, "L1")

	state := ps.State()
	state.CompletedLessons[0] = "mutated"
	state.UnlockedLevels = append(state.UnlockedLevels, "level-9")

	assert.Equal(t, []string{"L1"}, ps.State().CompletedLessons)
	assert.Equal(t, []string{"level-1"}, ps.State().UnlockedLevels)
}

func TestProgressStore_LoadReadErrorKeepsState(t *testing.T) {
	ctx := context.Background()
	store := newCountingStore()
	require.NoError(t, store.Put(ctx, "progress:42",
		[]byte(`{"xp":60,"streak":3,"lastActiveDate":"2024-01-09","completedLessons":["L1"],"unlockedLevels":[]}`)))

	ps := NewProgressStore(testUserID, repository.NewProgressRepository(store), testThresholds, newFakeClock(time.Now()), zap.NewNop())

	store.FailGets("", errStoreDown)
	state, err := ps.Load(ctx)
	require.ErrorIs(t, err, errStoreDown)
	assert.Equal(t, entities.DefaultProgressState(), state)

	store.FailGets("", nil)
	state, err = ps.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 60, state.XP)
	assert.Equal(t, 3, state.Streak)
	assert.Equal(t, []string{"L1"}, state.CompletedLessons)

	store.FailGets("", context.DeadlineExceeded)
	_, err = ps.Load(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 60, ps.State().XP)
}
