package telegram

import (
	"context"
	"errors"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/quranlingo-bot/internal/service"
	"github.com/aliskhannn/quranlingo-bot/internal/storage"
)

type Handler struct {
	bot        BotAPI
	logger     *zap.Logger
	learners   LearnerProvider
	quiz       QuizService
	curriculum Curriculum
	reminders  *storage.ReminderStorage
}

func NewHandler(
	bot BotAPI,
	logger *zap.Logger,
	learners LearnerProvider,
	quiz QuizService,
	curriculum Curriculum,
	reminders *storage.ReminderStorage,
) *Handler {
	return &Handler{
		bot:        bot,
		logger:     logger,
		learners:   learners,
		quiz:       quiz,
		curriculum: curriculum,
		reminders:  reminders,
	}
}

func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)
	defer h.bot.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer h.recoverUpdate(update.UpdateID)

	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.touch(ctx, update.CallbackQuery.From.ID)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil || update.Message.From == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	h.logger.Debug("update received",
		zap.Int64("chat_id", update.Message.Chat.ID),
		zap.String("text", update.Message.Text),
	)

	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID
	h.touch(ctx, userID)

	if update.Message.IsCommand() {
		switch update.Message.Command() {
		case "start":
			_ = h.withErrorHandling(h.startHandler())(ctx, chatID)
		case "lessons":
			_ = h.withErrorHandling(h.lessonsHandler(userID))(ctx, chatID)
		case "review":
			_ = h.withErrorHandling(h.reviewStartHandler(userID))(ctx, chatID)
		case "progress":
			_ = h.withErrorHandling(h.progressHandler(userID))(ctx, chatID)
		case "reset":
			_ = h.withErrorHandling(h.resetHandler())(ctx, chatID)
		case "help":
			h.send(newHTMLMessage(chatID, msgHelp))
		default:
			h.send(newHTMLMessage(chatID, msgUnknownCommand))
		}
		return
	}

	_ = h.withErrorHandling(h.textAnswerHandler(userID, update.Message.Text))(ctx, chatID)
}

// touch records today's activity for the streak. A learner that cannot be
// loaded is skipped; the handler that needs it reports the failure.
func (h *Handler) touch(ctx context.Context, userID int64) {
	learner, err := h.learners.Learner(ctx, userID)
	if err != nil {
		return
	}
	learner.Progress().CheckAndUpdateStreak(ctx)
}

// textAnswerHandler treats free text as the answer to a translation question.
func (h *Handler) textAnswerHandler(userID int64, text string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		text = strings.TrimSpace(text)
		if text == "" {
			return nil
		}

		ans, err := h.quiz.AnswerText(userID, text)
		switch {
		case errors.Is(err, service.ErrNoActiveQuiz), errors.Is(err, service.ErrWrongAnswerKind):
			h.send(newHTMLMessage(chatID, msgUnknownCommand))
			return nil
		case err != nil:
			return err
		}

		h.send(newHTMLMessage(chatID, formatAnswerFeedback(ans)))
		return h.continueQuiz(ctx, userID, chatID, ans)
	}
}

func (h *Handler) sendError(chatID int64, err string) {
	msg := newHTMLMessage(chatID, err)
	h.send(msg)
}

func (h *Handler) send(c tgbotapi.Chattable) (tgbotapi.Message, bool) {
	sent, err := h.bot.Send(c)
	if err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
		return tgbotapi.Message{}, false
	}
	return sent, true
}

func (h *Handler) request(c tgbotapi.Chattable) {
	if _, err := h.bot.Request(c); err != nil {
		h.logger.Debug("telegram request failed", zap.Error(err))
	}
}
