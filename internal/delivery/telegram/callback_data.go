package telegram

import (
	"strconv"
	"strings"
)

// Callback action constants.
const (
	actionMenu     = "menu"
	actionLevels   = "levels"
	actionLesson   = "lesson"
	actionCard     = "card"
	actionCards    = "cards"
	actionQuiz     = "quiz"
	actionReview   = "review"
	actionProgress = "progress"
	actionReset    = "reset"
)

// Quiz sub-actions.
const (
	quizStart  = "start"
	quizAnswer = "answer"
)

// Review sub-actions.
const (
	reviewStart   = "start"
	reviewShow    = "show"
	reviewKnown   = "known"
	reviewUnknown = "unknown"
)

const (
	resetConfirm = "confirm"
	resetCancel  = "cancel"
)

// Telegram rejects callback data longer than this many bytes.
const maxCallbackDataLen = 64

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")
	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

// param returns the i-th parameter or "".
func (cd callbackData) param(i int) string {
	if i < 0 || i >= len(cd.Params) {
		return ""
	}
	return cd.Params[i]
}

// intParam parses the i-th parameter as a non-negative int.
func (cd callbackData) intParam(i int) (int, bool) {
	n, err := strconv.Atoi(cd.param(i))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func buildMenuCallback() string {
	return actionMenu
}

func buildLevelsCallback() string {
	return actionLevels
}

func buildProgressCallback() string {
	return actionProgress
}

// buildLessonCallback builds callback data for opening a lesson overview.
func buildLessonCallback(lessonID string) string {
	return callbackData{Action: actionLesson, Params: []string{lessonID}}.encode()
}

// buildCardCallback builds callback data for showing the idx-th flashcard of a lesson.
func buildCardCallback(lessonID string, idx int) string {
	return callbackData{Action: actionCard, Params: []string{lessonID, strconv.Itoa(idx)}}.encode()
}

// buildCardsDoneCallback builds callback data for finishing a lesson's flashcards.
func buildCardsDoneCallback(lessonID string) string {
	return callbackData{Action: actionCards, Params: []string{lessonID}}.encode()
}

// buildQuizStartCallback builds callback data for starting a lesson quiz.
func buildQuizStartCallback(lessonID string) string {
	return callbackData{Action: actionQuiz, Params: []string{quizStart, lessonID}}.encode()
}

// buildQuizAnswerCallback builds callback data for answering question
// questionNum with the option at answerIndex.
func buildQuizAnswerCallback(questionNum, answerIndex int) string {
	return callbackData{
		Action: actionQuiz,
		Params: []string{quizAnswer, strconv.Itoa(questionNum), strconv.Itoa(answerIndex)},
	}.encode()
}

func buildReviewCallback(sub string) string {
	return callbackData{Action: actionReview, Params: []string{sub}}.encode()
}

// buildReviewAnswerCallback binds an answer to the word it was given for so
// stale buttons are ignored.
func buildReviewAnswerCallback(sub, wordID string) string {
	return callbackData{Action: actionReview, Params: []string{sub, wordID}}.encode()
}

func buildResetConfirmCallback() string {
	return callbackData{Action: actionReset, Params: []string{resetConfirm}}.encode()
}

func buildResetCancelCallback() string {
	return callbackData{Action: actionReset, Params: []string{resetCancel}}.encode()
}
