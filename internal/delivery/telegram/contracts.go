package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/quranlingo-bot/internal/domain/entities"
	"github.com/aliskhannn/quranlingo-bot/internal/service"
)

// BotAPI is the part of *tgbotapi.BotAPI the handler uses.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

type LearnerProvider interface {
	Learner(ctx context.Context, userID int64) (*service.Learner, error)
}

type QuizService interface {
	StartQuiz(userID int64, lessonID string) (*entities.QuizSession, error)
	Active(userID int64) (*entities.QuizSession, error)
	AnswerOption(userID int64, index int) (service.QuizAnswer, error)
	AnswerText(userID int64, text string) (service.QuizAnswer, error)
	Finish(ctx context.Context, learner *service.Learner) (service.LessonOutcome, error)
	Cancel(userID int64)
}

type Curriculum interface {
	Thresholds() []entities.LevelThreshold
	Levels() []entities.Level
	Level(id string) (entities.Level, error)
	Lesson(id string) (entities.Lesson, error)
	Word(id string) (entities.Word, error)
}
