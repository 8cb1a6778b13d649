package telegram

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/aliskhannn/quranlingo-bot/internal/curriculum"
	"github.com/aliskhannn/quranlingo-bot/internal/service"
)

type HandlerFunc func(ctx context.Context, chatID int64) error

// withErrorHandling turns handler errors into a reply. Expected failures get
// a specific message, everything else is logged as internal.
func (h *Handler) withErrorHandling(fn HandlerFunc) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		err := fn(ctx, chatID)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, service.ErrNoActiveQuiz):
			h.sendError(chatID, msgQuizExpired)
		case errors.Is(err, service.ErrLearnerUnavailable):
			h.sendError(chatID, msgUnavailable)
		case errors.Is(err, curriculum.ErrLessonNotFound), errors.Is(err, service.ErrNoQuestionsAvailable):
			h.sendError(chatID, msgLessonUnavailable)
		default:
			h.logger.Error("handle error",
				zap.Int64("chat_id", chatID),
				zap.Error(err),
			)
			h.sendError(chatID, msgInternalError)
		}
		return nil
	}
}

// recoverUpdate keeps a panicking update from stopping the update loop.
func (h *Handler) recoverUpdate(updateID int) {
	if r := recover(); r != nil {
		h.logger.Error("panic while handling update",
			zap.Int("update_id", updateID),
			zap.Error(fmt.Errorf("%v", r)),
			zap.Stack("stack"),
		)
	}
}
