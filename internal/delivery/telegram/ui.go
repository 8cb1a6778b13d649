package telegram

import (
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/quranlingo-bot/internal/domain/entities"
)

// buildMenuKeyboard builds the main menu keyboard.
func buildMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📚 Lessons", buildLevelsCallback()),
			tgbotapi.NewInlineKeyboardButtonData("🔁 Review", buildReviewCallback(reviewStart)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 My progress", buildProgressCallback()),
		),
	)
}

// buildLevelsKeyboard lists the lessons of every unlocked level.
func buildLevelsKeyboard(levels []entities.Level, state entities.ProgressState) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, lv := range levels {
		if !state.IsUnlocked(lv.ID) {
			continue
		}
		for _, ls := range lv.Lessons {
			label := lv.Emoji + " " + ls.Title
			if state.HasCompleted(ls.ID) {
				label = "✅ " + ls.Title
			}
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(label, buildLessonCallback(ls.ID)),
			))
		}
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("« Menu", buildMenuCallback()),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildLessonKeyboard builds the lesson overview keyboard.
func buildLessonKeyboard(lessonID string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📖 Study words", buildCardCallback(lessonID, 0)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎯 Take the quiz", buildQuizStartCallback(lessonID)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("« Levels", buildLevelsCallback()),
		),
	)
}

// buildCardKeyboard builds flashcard paging for the idx-th of total cards.
func buildCardKeyboard(lessonID string, idx, total int) tgbotapi.InlineKeyboardMarkup {
	var row []tgbotapi.InlineKeyboardButton
	if idx > 0 {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("◀️ Back", buildCardCallback(lessonID, idx-1)))
	}
	if idx < total-1 {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("Next ▶️", buildCardCallback(lessonID, idx+1)))
	} else {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("✅ Done", buildCardsDoneCallback(lessonID)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}

// buildQuizAnswerKeyboard builds one button per option of a choice question.
func buildQuizAnswerKeyboard(q entities.Question, questionNum int) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(q.Options))
	for i, option := range q.Options {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(option, buildQuizAnswerCallback(questionNum, i)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func buildQuizResultKeyboard(lessonID string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Retry", buildQuizStartCallback(lessonID)),
			tgbotapi.NewInlineKeyboardButtonData("📚 Lessons", buildLevelsCallback()),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 My progress", buildProgressCallback()),
		),
	)
}

func buildReviewShowKeyboard(wordID string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("👁 Show meaning", buildReviewAnswerCallback(reviewShow, wordID)),
		),
	)
}

func buildReviewAnswerKeyboard(wordID string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ I knew it", buildReviewAnswerCallback(reviewKnown, wordID)),
			tgbotapi.NewInlineKeyboardButtonData("❌ Forgot", buildReviewAnswerCallback(reviewUnknown, wordID)),
		),
	)
}

func buildReminderKeyboard(dueCount int) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔁 Review "+strconv.Itoa(dueCount)+" words", buildReviewCallback(reviewStart)),
		),
	)
}

// buildProgressKeyboard builds keyboard for progress screen.
func buildProgressKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Refresh", buildProgressCallback()),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📚 Lessons", buildLevelsCallback()),
			tgbotapi.NewInlineKeyboardButtonData("🔁 Review", buildReviewCallback(reviewStart)),
		),
	)
}

func buildResetKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Yes, reset", buildResetConfirmCallback()),
			tgbotapi.NewInlineKeyboardButtonData("Cancel", buildResetCancelCallback()),
		),
	)
}
