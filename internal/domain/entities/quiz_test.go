package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuizSession_Lifecycle(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.January, 10, 9, 0, 0, 0, time.UTC)
	qs := NewQuizSession(1, "lesson-1-1", []Question{
		{Type: QuestionTypeMeaning, Options: []string{"a", "b"}},
		{Type: QuestionTypeMeaning, Options: []string{"a", "b"}},
		{Type: QuestionTypeTranslation},
	}, now)

	q, ok := qs.CurrentQuestion()
	require.True(t, ok)
	assert.True(t, q.IsChoice())

	qs.Record(true, now)
	qs.Record(false, now)
	q, ok = qs.CurrentQuestion()
	require.True(t, ok)
	assert.False(t, q.IsChoice())

	qs.Record(true, now)
	assert.Equal(t, QuizCompleted, qs.Status)
	require.NotNil(t, qs.CompletedAt)

	_, ok = qs.CurrentQuestion()
	assert.False(t, ok)

	qs.Record(true, now)
	assert.Equal(t, 2, qs.CorrectAnswers)

	assert.Equal(t, 13, qs.EarnedXP(20))
}

func TestQuizSession_EarnedXPEmpty(t *testing.T) {
	t.Parallel()

	qs := NewQuizSession(1, "l", nil, time.Now())
	assert.Equal(t, 0, qs.EarnedXP(20))
}

func TestParseTimezoneLocation(t *testing.T) {
	t.Parallel()

	loc, err := ParseTimezoneLocation("")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	loc, err = ParseTimezoneLocation("UTC+3")
	require.NoError(t, err)
	_, offset := time.Date(2024, 1, 1, 0, 0, 0, 0, loc).Zone()
	assert.Equal(t, 3*3600, offset)

	loc, err = ParseTimezoneLocation("-03:30")
	require.NoError(t, err)
	_, offset = time.Date(2024, 1, 1, 0, 0, 0, 0, loc).Zone()
	assert.Equal(t, -(3*3600 + 30*60), offset)

	_, err = ParseTimezoneLocation("Mars/Olympus")
	assert.Error(t, err)
}
