package telegram

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/quranlingo-bot/internal/domain/entities"
	"github.com/aliskhannn/quranlingo-bot/internal/service"
	"github.com/aliskhannn/quranlingo-bot/internal/storage"
)

func (h *Handler) startHandler() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		msg := newHTMLMessage(chatID, msgWelcome)
		msg.ReplyMarkup = buildMenuKeyboard()
		h.send(msg)
		return nil
	}
}

// lessonsHandler shows every level with its lock status and the lessons of
// the unlocked ones.
func (h *Handler) lessonsHandler(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		text, kb, err := h.levelsScreen(ctx, userID)
		if err != nil {
			return err
		}
		msg := newHTMLMessage(chatID, text)
		msg.ReplyMarkup = kb
		h.send(msg)
		return nil
	}
}

func (h *Handler) levelsScreen(ctx context.Context, userID int64) (string, tgbotapi.InlineKeyboardMarkup, error) {
	learner, err := h.learners.Learner(ctx, userID)
	if err != nil {
		return "", tgbotapi.InlineKeyboardMarkup{}, err
	}
	state := learner.Progress().State()
	levels := h.curriculum.Levels()
	return formatLevels(levels, state), buildLevelsKeyboard(levels, state), nil
}

// reviewStartHandler starts a review session over the words due now.
func (h *Handler) reviewStartHandler(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		learner, err := h.learners.Learner(ctx, userID)
		if err != nil {
			return err
		}
		h.dropReminder(userID)

		session := learner.StartReview(ctx)
		item, ok := session.Current()
		if !ok {
			h.send(newHTMLMessage(chatID, msgNoDueReviews))
			return nil
		}

		text, kb, err := h.reviewFront(session, item)
		if err != nil {
			return err
		}

		msg := newHTMLMessage(chatID, text)
		msg.ReplyMarkup = kb
		h.send(msg)
		return nil
	}
}

func (h *Handler) reviewFront(session *service.ReviewSession, item entities.ReviewItem) (string, tgbotapi.InlineKeyboardMarkup, error) {
	w, err := h.curriculum.Word(item.WordID)
	if err != nil {
		return "", tgbotapi.InlineKeyboardMarkup{}, fmt.Errorf("get word %s: %w", item.WordID, err)
	}
	s := session.Summary()
	return formatReviewFront(w, item, s.Reviewed, s.Total), buildReviewShowKeyboard(item.WordID), nil
}

func (h *Handler) resetHandler() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		msg := newHTMLMessage(chatID, msgResetConfirm)
		msg.ReplyMarkup = buildResetKeyboard()
		h.send(msg)
		return nil
	}
}

// sendQuestion posts the current question of the user's quiz.
func (h *Handler) sendQuestion(userID, chatID int64) error {
	session, err := h.quiz.Active(userID)
	if err != nil {
		return err
	}
	q, ok := session.CurrentQuestion()
	if !ok {
		return service.ErrNoActiveQuiz
	}

	msg := newHTMLMessage(chatID, formatQuestion(q, session.Current, session.Total()))
	if q.IsChoice() {
		msg.ReplyMarkup = buildQuizAnswerKeyboard(q, session.Current)
	}
	h.send(msg)
	return nil
}

// continueQuiz asks the next question or, after the last one, credits the
// lesson and reports the result.
func (h *Handler) continueQuiz(ctx context.Context, userID, chatID int64, ans service.QuizAnswer) error {
	if !ans.Completed {
		return h.sendQuestion(userID, chatID)
	}

	session, err := h.quiz.Active(userID)
	if err != nil {
		return err
	}

	learner, err := h.learners.Learner(ctx, userID)
	if err != nil {
		return err
	}

	outcome, err := h.quiz.Finish(ctx, learner)
	if errors.Is(err, service.ErrNoActiveQuiz) {
		// A concurrent answer already finished the quiz.
		return nil
	}
	if err != nil {
		return fmt.Errorf("finish quiz: %w", err)
	}

	msg := newHTMLMessage(chatID, formatQuizResult(session, outcome, h.levelNames()))
	msg.ReplyMarkup = buildQuizResultKeyboard(session.LessonID)
	h.send(msg)
	return nil
}

func (h *Handler) levelNames() map[string]string {
	levels := h.curriculum.Levels()
	names := make(map[string]string, len(levels))
	for _, lv := range levels {
		names[lv.ID] = lv.Name
	}
	return names
}

// SendReviewReminder posts a reminder with a button that starts a review and
// removes the previous reminder so a chat holds at most one.
func (h *Handler) SendReviewReminder(ctx context.Context, r entities.ReviewReminder) error {
	msg := newHTMLMessage(r.ChatID, formatReminder(r))
	msg.ReplyMarkup = buildReminderKeyboard(r.DueCount)

	sent, err := h.bot.Send(msg)
	if err != nil {
		return fmt.Errorf("send reminder: %w", err)
	}

	prev, hadPrev := h.reminders.Replace(r.UserID, storage.ReminderMessage{
		ChatID:    r.ChatID,
		MessageID: sent.MessageID,
		DueCount:  r.DueCount,
		SentAt:    sent.Time(),
	})
	if hadPrev {
		h.request(tgbotapi.NewDeleteMessage(prev.ChatID, prev.MessageID))
	}

	h.logger.Debug("review reminder sent",
		zap.Int64("user_id", r.UserID),
		zap.Int("due", r.DueCount),
	)
	return nil
}

// dropReminder deletes the pending reminder of userID, if any.
func (h *Handler) dropReminder(userID int64) {
	if prev, ok := h.reminders.Take(userID); ok {
		h.request(tgbotapi.NewDeleteMessage(prev.ChatID, prev.MessageID))
	}
}
