package service

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aliskhannn/quranlingo-bot/internal/curriculum"
	"github.com/aliskhannn/quranlingo-bot/internal/domain/entities"
	"github.com/aliskhannn/quranlingo-bot/internal/storage"
)

func newTestQuizService(t *testing.T, f *fixture) *QuizService {
	t.Helper()

	c := newStubCurriculum()
	options := NewOptionGenerator(c.Words(), rand.New(rand.NewSource(1)))
	return NewQuizService(c, options, NewAnswerValidator(), storage.NewQuizStorage(), f.clock, zap.NewNop())
}

func TestQuizService_BuildsQuestions(t *testing.T) {
	f := newFixture(t)
	qs := newTestQuizService(t, f)

	session, err := qs.StartQuiz(testUserID, "L1")
	require.NoError(t, err)
	require.Equal(t, 5, session.Total())

	meaning := 0
	for _, q := range session.Questions[:3] {
		assert.Equal(t, entities.QuestionTypeMeaning, q.Type)
		assert.Len(t, q.Options, 4)
		assert.Equal(t, q.CorrectAnswer, q.Options[q.CorrectIndex])
		meaning++
	}
	assert.Equal(t, 3, meaning)

	choice := session.Questions[3]
	assert.Equal(t, entities.QuestionTypeChoice, choice.Type)
	assert.Equal(t, 0, choice.CorrectIndex)

	translation := session.Questions[4]
	assert.Equal(t, entities.QuestionTypeTranslation, translation.Type)
	assert.False(t, translation.IsChoice())
	assert.Contains(t, translation.Prompt, "بِسْمِ اللّٰهِ")
}

func TestQuizService_StartUnknownLesson(t *testing.T) {
	qs := newTestQuizService(t, newFixture(t))

	_, err := qs.StartQuiz(testUserID, "nope")
	assert.ErrorIs(t, err, curriculum.ErrLessonNotFound)
}

func TestQuizService_FullRun(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	qs := newTestQuizService(t, f)
	learner := f.learner(t)

	session, err := qs.StartQuiz(testUserID, "L1")
	require.NoError(t, err)

	_, err = qs.Finish(ctx, learner)
	assert.ErrorIs(t, err, ErrQuizNotFinished)

	// first meaning question right, the other two wrong
	for i := 0; i < 3; i++ {
		q, ok := session.CurrentQuestion()
		require.True(t, ok)
		pick := q.CorrectIndex
		if i > 0 {
			pick = (q.CorrectIndex + 1) % len(q.Options)
		}
		ans, err := qs.AnswerOption(testUserID, pick)
		require.NoError(t, err)
		assert.Equal(t, i == 0, ans.Correct)
		assert.False(t, ans.Completed)
	}

	_, err = qs.AnswerText(testUserID, "God")
	assert.ErrorIs(t, err, ErrWrongAnswerKind)
	_, err = qs.AnswerOption(testUserID, 9)
	assert.ErrorIs(t, err, ErrInvalidOption)

	ans, err := qs.AnswerOption(testUserID, 0)
	require.NoError(t, err)
	assert.True(t, ans.Correct)

	_, err = qs.AnswerOption(testUserID, 0)
	assert.ErrorIs(t, err, ErrWrongAnswerKind)

	ans, err = qs.AnswerText(testUserID, "in the name of allah!")
	require.NoError(t, err)
	assert.True(t, ans.Correct)
	assert.True(t, ans.Completed)

	outcome, err := qs.Finish(ctx, learner)
	require.NoError(t, err)

	// 3 of 5 correct on a 20 XP lesson
	assert.Equal(t, 12, outcome.XPEarned)
	assert.True(t, outcome.FirstCompletion)
	assert.Equal(t, 3, outcome.WordsScheduled)
	assert.Equal(t, 12, learner.Progress().State().XP)

	_, err = qs.Active(testUserID)
	assert.ErrorIs(t, err, ErrNoActiveQuiz)
}

func TestQuizService_NoActiveQuiz(t *testing.T) {
	qs := newTestQuizService(t, newFixture(t))

	_, err := qs.AnswerOption(testUserID, 0)
	assert.ErrorIs(t, err, ErrNoActiveQuiz)
	_, err = qs.AnswerText(testUserID, "x")
	assert.ErrorIs(t, err, ErrNoActiveQuiz)
}

func TestQuizService_Cancel(t *testing.T) {
	qs := newTestQuizService(t, newFixture(t))

	_, err := qs.StartQuiz(testUserID, "L2")
	require.NoError(t, err)
	qs.Cancel(testUserID)

	_, err = qs.Active(testUserID)
	assert.ErrorIs(t, err, ErrNoActiveQuiz)
}

func TestOptionGenerator_GenerateOptions(t *testing.T) {
	t.Parallel()

	words := newStubCurriculum().Words()
	gen := NewOptionGenerator(words, rand.New(rand.NewSource(7)))

	for i := 0; i < 20; i++ {
		options, idx := gen.GenerateOptions(words[1])
		require.Len(t, options, 4)
		assert.Equal(t, "Mercy", options[idx])

		seen := map[string]bool{}
		for _, o := range options {
			assert.False(t, seen[o], "duplicate option %q", o)
			seen[o] = true
		}
	}
}

func TestOptionGenerator_Deterministic(t *testing.T) {
	t.Parallel()

	words := newStubCurriculum().Words()
	a := NewOptionGenerator(words, rand.New(rand.NewSource(3)))
	b := NewOptionGenerator(words, rand.New(rand.NewSource(3)))

	for i := 0; i < 5; i++ {
		optsA, idxA := a.GenerateOptions(words[0])
		optsB, idxB := b.GenerateOptions(words[0])
		assert.Equal(t, optsA, optsB)
		assert.Equal(t, idxA, idxB)
	}
}

func TestOptionGenerator_FewWords(t *testing.T) {
	t.Parallel()

	words := []entities.Word{
		{ID: "a", Meaning: "Day"},
		{ID: "b", Meaning: "Day"},
		{ID: "c", Meaning: "Book"},
	}
	gen := NewOptionGenerator(words, rand.New(rand.NewSource(1)))

	options, idx := gen.GenerateOptions(words[0])
	assert.ElementsMatch(t, []string{"Day", "Book"}, options)
	assert.Equal(t, "Day", options[idx])
}

func TestAnswerValidator_Validate(t *testing.T) {
	t.Parallel()

	v := NewAnswerValidator()

	tests := []struct {
		name     string
		answer   string
		expected string
		want     bool
	}{
		{name: "exact", answer: "In the name of Allah", expected: "In the name of Allah", want: true},
		{name: "case and punctuation", answer: "  in the NAME of allah. ", expected: "In the name of Allah", want: true},
		{name: "small typo", answer: "In the nme of Allah", expected: "In the name of Allah", want: true},
		{name: "arabic diacritics", answer: "بسم الله", expected: "بِسْمِ اللّٰهِ", want: true},
		{name: "different", answer: "And establish prayer", expected: "In the name of Allah", want: false},
		{name: "empty", answer: "", expected: "In the name of Allah", want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, v.Validate(tt.answer, tt.expected))
		})
	}
}
