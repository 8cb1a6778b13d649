package api

import (
	"time"

	"github.com/aliskhannn/quranlingo-bot/internal/domain/entities"
	"github.com/aliskhannn/quranlingo-bot/internal/service"
)

// ProgressResponse mirrors the stored progress document.
type ProgressResponse struct {
	XP               int            `json:"xp"`
	Streak           int            `json:"streak"`
	LastActiveDate   *string        `json:"lastActiveDate"`
	CompletedLessons []string       `json:"completedLessons"`
	UnlockedLevels   []string       `json:"unlockedLevels"`
	NextLevel        *NextLevelInfo `json:"nextLevel,omitempty"`
}

// NextLevelInfo is the cheapest locked level and the XP it still needs.
type NextLevelInfo struct {
	LevelID     string `json:"levelId"`
	XPRemaining int    `json:"xpRemaining"`
}

type ReviewItemResponse struct {
	WordID       string    `json:"wordId"`
	LessonID     string    `json:"lessonId"`
	Bucket       int       `json:"bucket"`
	NextReviewAt time.Time `json:"nextReviewAt"`
}

type DueReviewsResponse struct {
	Items []ReviewItemResponse `json:"items"`
	Total int                  `json:"total"`
}

type LessonOutcomeResponse struct {
	Progress        ProgressResponse `json:"progress"`
	XPEarned        int              `json:"xpEarned"`
	FirstCompletion bool             `json:"firstCompletion"`
	WordsScheduled  int              `json:"wordsScheduled"`
	NewLevels       []string         `json:"newLevels"`
}

type AddXPRequest struct {
	Amount *int `json:"amount" validate:"required,min=0"`
}

type CompleteLessonRequest struct {
	XP int `json:"xp" validate:"min=0"`
}

type SubmitReviewRequest struct {
	Known *bool `json:"known" validate:"required"`
}

func newProgressResponse(state entities.ProgressState, thresholds []entities.LevelThreshold) ProgressResponse {
	state = state.Clone()

	resp := ProgressResponse{
		XP:               state.XP,
		Streak:           state.Streak,
		CompletedLessons: state.CompletedLessons,
		UnlockedLevels:   state.UnlockedLevels,
	}
	if state.LastActiveDate != nil {
		d := state.LastActiveDate.String()
		resp.LastActiveDate = &d
	}
	if next, remaining, ok := entities.NextLevel(state.XP, thresholds); ok {
		resp.NextLevel = &NextLevelInfo{LevelID: next.LevelID, XPRemaining: remaining}
	}
	return resp
}

func newReviewItemResponse(it entities.ReviewItem) ReviewItemResponse {
	return ReviewItemResponse{
		WordID:       it.WordID,
		LessonID:     it.LessonID,
		Bucket:       it.Bucket,
		NextReviewAt: it.NextReviewAt.UTC(),
	}
}

func newLessonOutcomeResponse(o service.LessonOutcome, thresholds []entities.LevelThreshold) LessonOutcomeResponse {
	levels := o.NewLevels
	if levels == nil {
		levels = []string{}
	}
	return LessonOutcomeResponse{
		Progress:        newProgressResponse(o.State, thresholds),
		XPEarned:        o.XPEarned,
		FirstCompletion: o.FirstCompletion,
		WordsScheduled:  o.WordsScheduled,
		NewLevels:       levels,
	}
}
