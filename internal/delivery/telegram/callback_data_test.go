package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeCallback(t *testing.T) {
	cd := decodeCallback(buildQuizAnswerCallback(3, 1))

	assert.Equal(t, actionQuiz, cd.Action)
	assert.Equal(t, quizAnswer, cd.param(0))

	n, ok := cd.intParam(1)
	require.True(t, ok)
	assert.Equal(t, 3, n)

	idx, ok := cd.intParam(2)
	require.True(t, ok)
	assert.Equal(t, 1, idx)

	assert.Equal(t, "", cd.param(5))
	_, ok = cd.intParam(5)
	assert.False(t, ok)
}

func TestDecodeCallback_NoParams(t *testing.T) {
	cd := decodeCallback(buildLevelsCallback())

	assert.Equal(t, actionLevels, cd.Action)
	assert.Empty(t, cd.Params)
	assert.Equal(t, "levels", cd.encode())
}

func TestIntParam_RejectsNegativeAndGarbage(t *testing.T) {
	cd := decodeCallback("card:lesson-1-1:-1")
	_, ok := cd.intParam(1)
	assert.False(t, ok)

	cd = decodeCallback("card:lesson-1-1:x")
	_, ok = cd.intParam(1)
	assert.False(t, ok)
}

func TestCallbackData_FitsTelegramLimit(t *testing.T) {
	lessonID := "lesson-12-34"
	wordID := "word-12-34-56"

	for _, data := range []string{
		buildMenuCallback(),
		buildLevelsCallback(),
		buildProgressCallback(),
		buildLessonCallback(lessonID),
		buildCardCallback(lessonID, 99),
		buildCardsDoneCallback(lessonID),
		buildQuizStartCallback(lessonID),
		buildQuizAnswerCallback(99, 3),
		buildReviewCallback(reviewStart),
		buildReviewAnswerCallback(reviewUnknown, wordID),
		buildResetConfirmCallback(),
		buildResetCancelCallback(),
	} {
		assert.LessOrEqual(t, len(data), maxCallbackDataLen, data)
	}
}

func TestBuildReviewAnswerCallback(t *testing.T) {
	cd := decodeCallback(buildReviewAnswerCallback(reviewKnown, "word-1-1-2"))

	assert.Equal(t, actionReview, cd.Action)
	assert.Equal(t, []string{reviewKnown, "word-1-1-2"}, cd.Params)
}
