package telegram

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/quranlingo-bot/internal/domain/entities"
	"github.com/aliskhannn/quranlingo-bot/internal/service"
)

// callbackFunc handles one callback action and returns the toast shown to the user.
type callbackFunc func(ctx context.Context, cb *tgbotapi.CallbackQuery, data callbackData) (string, error)

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	toast := ""
	// Remove the user's "clock".
	defer func() {
		h.request(tgbotapi.NewCallback(cb.ID, toast))
	}()

	if cb.Message == nil {
		return
	}

	data := decodeCallback(cb.Data)

	var fn callbackFunc
	switch data.Action {
	case actionMenu:
		fn = h.menuCallback
	case actionLevels:
		fn = h.levelsCallback
	case actionProgress:
		fn = h.progressCallback
	case actionLesson:
		fn = h.lessonCallback
	case actionCard:
		fn = h.cardCallback
	case actionCards:
		fn = h.cardsDoneCallback
	case actionQuiz:
		fn = h.quizCallback
	case actionReview:
		fn = h.reviewCallback
	case actionReset:
		fn = h.resetCallback
	default:
		h.logger.Warn("unknown callback", zap.String("data", cb.Data))
		return
	}

	var err error
	toast, err = fn(ctx, cb, data)
	if errors.Is(err, service.ErrLearnerUnavailable) {
		toast = msgUnavailable
		return
	}
	if err != nil {
		h.logger.Error("handle callback",
			zap.Int64("user_id", cb.From.ID),
			zap.String("data", cb.Data),
			zap.Error(err),
		)
		h.sendError(cb.Message.Chat.ID, msgInternalError)
	}
}

func (h *Handler) edit(cb *tgbotapi.CallbackQuery, text string, kb *tgbotapi.InlineKeyboardMarkup) {
	h.send(newHTMLEdit(cb.Message.Chat.ID, cb.Message.MessageID, text, kb))
}

func (h *Handler) menuCallback(_ context.Context, cb *tgbotapi.CallbackQuery, _ callbackData) (string, error) {
	kb := buildMenuKeyboard()
	h.edit(cb, msgWelcome, &kb)
	return "", nil
}

func (h *Handler) levelsCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, _ callbackData) (string, error) {
	text, kb, err := h.levelsScreen(ctx, cb.From.ID)
	if err != nil {
		return "", err
	}
	h.edit(cb, text, &kb)
	return "", nil
}

func (h *Handler) progressCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, _ callbackData) (string, error) {
	text, err := h.progressText(ctx, cb.From.ID)
	if err != nil {
		return "", err
	}
	kb := buildProgressKeyboard()
	h.edit(cb, text, &kb)
	return "", nil
}

// openLesson resolves lessonID for userID. The toast is non-empty when the
// lesson is unknown or its level is still locked.
func (h *Handler) openLesson(ctx context.Context, userID int64, lessonID string) (entities.Lesson, entities.ProgressState, string, error) {
	lesson, err := h.curriculum.Lesson(lessonID)
	if err != nil {
		return entities.Lesson{}, entities.ProgressState{}, msgLessonUnavailable, nil
	}

	learner, err := h.learners.Learner(ctx, userID)
	if err != nil {
		return entities.Lesson{}, entities.ProgressState{}, "", err
	}
	state := learner.Progress().State()
	if state.IsUnlocked(lesson.LevelID) {
		return lesson, state, "", nil
	}

	level, err := h.curriculum.Level(lesson.LevelID)
	if err != nil {
		return entities.Lesson{}, state, msgLessonUnavailable, nil
	}
	return entities.Lesson{}, state, fmt.Sprintf(msgLessonLocked, max(level.XPRequired-state.XP, 0), level.Name), nil
}

func (h *Handler) lessonCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, data callbackData) (string, error) {
	lesson, state, toast, err := h.openLesson(ctx, cb.From.ID, data.param(0))
	if err != nil || toast != "" {
		return toast, err
	}

	kb := buildLessonKeyboard(lesson.ID)
	h.edit(cb, formatLesson(lesson, state.HasCompleted(lesson.ID)), &kb)
	return "", nil
}

func (h *Handler) cardCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, data callbackData) (string, error) {
	lesson, _, toast, err := h.openLesson(ctx, cb.From.ID, data.param(0))
	if err != nil || toast != "" {
		return toast, err
	}

	idx, ok := data.intParam(1)
	if !ok || idx >= len(lesson.Words) {
		h.logger.Debug("card out of range", zap.String("data", data.Raw))
		return "", nil
	}

	kb := buildCardKeyboard(lesson.ID, idx, len(lesson.Words))
	h.edit(cb, formatWordCard(lesson.Words[idx], idx, len(lesson.Words)), &kb)
	return "", nil
}

// cardsDoneCallback pays the flashcard reward and offers the lesson quiz.
func (h *Handler) cardsDoneCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, data callbackData) (string, error) {
	lesson, _, toast, err := h.openLesson(ctx, cb.From.ID, data.param(0))
	if err != nil || toast != "" {
		return toast, err
	}

	learner, err := h.learners.Learner(ctx, cb.From.ID)
	if err != nil {
		return "", err
	}
	before := learner.Progress().State().XP
	after := learner.FinishFlashcards(ctx).XP

	kb := buildLessonKeyboard(lesson.ID)
	text := fmt.Sprintf("📖 <b>%s</b>: words studied!\n⭐ +%d XP\n\nReady for the quiz?", esc(lesson.Title), after-before)
	h.edit(cb, text, &kb)
	return "", nil
}

func (h *Handler) quizCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, data callbackData) (string, error) {
	userID := cb.From.ID
	chatID := cb.Message.Chat.ID

	switch data.param(0) {
	case quizStart:
		lesson, _, toast, err := h.openLesson(ctx, userID, data.param(1))
		if err != nil || toast != "" {
			return toast, err
		}
		if _, err := h.quiz.StartQuiz(userID, lesson.ID); err != nil {
			if errors.Is(err, service.ErrNoQuestionsAvailable) {
				return msgLessonUnavailable, nil
			}
			return "", fmt.Errorf("start quiz: %w", err)
		}
		return "", h.sendQuestion(userID, chatID)

	case quizAnswer:
		return h.quizAnswerCallback(ctx, cb, data)
	}

	return "", nil
}

func (h *Handler) quizAnswerCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, data callbackData) (string, error) {
	userID := cb.From.ID

	questionNum, ok1 := data.intParam(1)
	index, ok2 := data.intParam(2)
	if !ok1 || !ok2 {
		return "", nil
	}

	session, err := h.quiz.Active(userID)
	if err != nil {
		return msgQuizExpired, nil
	}
	q, ok := session.CurrentQuestion()
	if !ok || session.Current != questionNum {
		// Button of an already answered question.
		return "", nil
	}
	total := session.Total()

	ans, err := h.quiz.AnswerOption(userID, index)
	switch {
	case errors.Is(err, service.ErrNoActiveQuiz):
		return msgQuizExpired, nil
	case errors.Is(err, service.ErrInvalidOption), errors.Is(err, service.ErrWrongAnswerKind):
		return "", nil
	case err != nil:
		return "", err
	}

	h.edit(cb, formatQuestion(q, questionNum, total)+"\n\n"+formatAnswerFeedback(ans), nil)
	return "", h.continueQuiz(ctx, userID, cb.Message.Chat.ID, ans)
}

func (h *Handler) reviewCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, data callbackData) (string, error) {
	userID := cb.From.ID

	if data.param(0) == reviewStart {
		return "", h.reviewStartHandler(userID)(ctx, cb.Message.Chat.ID)
	}

	learner, err := h.learners.Learner(ctx, userID)
	if err != nil {
		return "", err
	}
	session, ok := learner.ActiveReview()
	if !ok {
		return msgNoDueReviews, nil
	}
	item, ok := session.Current()
	if !ok || item.WordID != data.param(1) {
		// Button of an already answered card.
		return "", nil
	}

	switch data.param(0) {
	case reviewShow:
		w, err := h.curriculum.Word(item.WordID)
		if err != nil {
			return "", fmt.Errorf("get word %s: %w", item.WordID, err)
		}
		s := session.Summary()
		kb := buildReviewAnswerKeyboard(item.WordID)
		h.edit(cb, formatReviewBack(w, item, s.Reviewed, s.Total), &kb)

	case reviewKnown, reviewUnknown:
		if _, done := session.Answer(ctx, data.param(0) == reviewKnown); done {
			kb := buildMenuKeyboard()
			h.edit(cb, formatReviewSummary(session.Summary()), &kb)
			return "", nil
		}

		next, ok := session.Current()
		if !ok {
			return "", nil
		}
		text, kb, err := h.reviewFront(session, next)
		if err != nil {
			return "", err
		}
		h.edit(cb, text, &kb)
	}

	return "", nil
}

func (h *Handler) resetCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, data callbackData) (string, error) {
	switch data.param(0) {
	case resetConfirm:
		userID := cb.From.ID
		learner, err := h.learners.Learner(ctx, userID)
		if err != nil {
			return "", err
		}
		learner.Reset(ctx)
		h.quiz.Cancel(userID)
		h.logger.Info("progress reset", zap.Int64("user_id", userID))
		h.edit(cb, msgResetDone, nil)
	case resetCancel:
		h.edit(cb, msgResetCancelled, nil)
	}
	return "", nil
}
