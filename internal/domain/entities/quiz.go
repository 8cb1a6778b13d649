package entities

import (
	"math"
	"time"
)

// QuizStatus is the lifecycle state of a lesson quiz.
type QuizStatus string

const (
	QuizActive    QuizStatus = "active"
	QuizCompleted QuizStatus = "completed"
)

// QuizSession tracks a learner going through a lesson quiz.
type QuizSession struct {
	UserID         int64
	LessonID       string
	Questions      []Question
	Current        int // index of the question being asked
	CorrectAnswers int
	Status         QuizStatus
	StartedAt      time.Time
	CompletedAt    *time.Time
}

// NewQuizSession creates an active quiz over questions.
func NewQuizSession(userID int64, lessonID string, questions []Question, now time.Time) *QuizSession {
	return &QuizSession{
		UserID:    userID,
		LessonID:  lessonID,
		Questions: questions,
		Status:    QuizActive,
		StartedAt: now,
	}
}

// CurrentQuestion returns the question awaiting an answer.
func (qs *QuizSession) CurrentQuestion() (Question, bool) {
	if qs.Status != QuizActive || qs.Current >= len(qs.Questions) {
		return Question{}, false
	}
	return qs.Questions[qs.Current], true
}

// Record stores the outcome of the current question and moves on. The session
// completes after the last question.
func (qs *QuizSession) Record(correct bool, now time.Time) {
	if qs.Status != QuizActive {
		return
	}
	if correct {
		qs.CorrectAnswers++
	}
	qs.Current++
	if qs.Current >= len(qs.Questions) {
		qs.Status = QuizCompleted
		qs.CompletedAt = &now
	}
}

// Total returns the number of questions in the quiz.
func (qs *QuizSession) Total() int {
	return len(qs.Questions)
}

// EarnedXP scales the lesson reward by the share of correct answers,
// rounded to the nearest point.
func (qs *QuizSession) EarnedXP(reward int) int {
	if qs.Total() == 0 || reward <= 0 {
		return 0
	}
	return int(math.Round(float64(qs.CorrectAnswers) / float64(qs.Total()) * float64(reward)))
}
