// messages.go contains message templates and formatting functions for Telegram.

package telegram

import (
	"fmt"
	"strings"

	"github.com/aliskhannn/quranlingo-bot/internal/domain/entities"
	"github.com/aliskhannn/quranlingo-bot/internal/service"
)

const (
	msgWelcome = "<b>Assalamu alaikum!</b> 👋\n\n" +
		"Learn the most frequent words of the Qur'an, a few minutes a day.\n\n" +
		"📚 /lessons — levels and lessons\n" +
		"🔁 /review — words due for review\n" +
		"📊 /progress — XP, streak and levels"
	msgHelp = "<b>Commands</b>\n\n" +
		"/lessons — levels and lessons\n" +
		"/review — review due words\n" +
		"/progress — your progress\n" +
		"/reset — start over\n" +
		"/help — this message\n\n" +
		"Every day you open the bot keeps your 🔥 streak alive."
	msgUnknownCommand    = "Unknown command. Send /help to see what I can do."
	msgInternalError     = "Something went wrong. Please try again later."
	msgUnavailable       = "Your progress can't be loaded right now. Please try again in a minute."
	msgLessonLocked      = "🔒 Locked. Earn %d more XP to unlock %s."
	msgLessonUnavailable = "This lesson is not available."
	msgNoDueReviews      = "✨ All caught up! No words are due for review.\n\nFinish a lesson to add new words."
	msgQuizExpired       = "This quiz has ended. Open /lessons to start again."
	msgTypeTranslation   = "✍️ Type your translation as a message."
	msgResetConfirm      = "⚠️ <b>Reset progress?</b>\n\nXP, streak and completed lessons will be cleared. Your review words are kept."
	msgResetDone         = "Progress reset. Bismillah, let's start again! /lessons"
	msgResetCancelled    = "Reset cancelled."
)

func formatLevels(levels []entities.Level, state entities.ProgressState) string {
	var sb strings.Builder
	sb.WriteString("<b>📚 Levels</b>\n")

	for _, lv := range levels {
		sb.WriteString("\n")
		if state.IsUnlocked(lv.ID) {
			done := 0
			for _, ls := range lv.Lessons {
				if state.HasCompleted(ls.ID) {
					done++
				}
			}
			fmt.Fprintf(&sb, "%s <b>%s</b> · %d/%d lessons\n", lv.Emoji, esc(lv.Name), done, len(lv.Lessons))
		} else {
			fmt.Fprintf(&sb, "🔒 <b>%s</b> · unlocks at %d XP\n", esc(lv.Name), lv.XPRequired)
		}
		if lv.Description != "" {
			fmt.Fprintf(&sb, "<i>%s</i>\n", esc(lv.Description))
		}
	}

	return sb.String()
}

func formatLesson(lesson entities.Lesson, completed bool) string {
	status := ""
	if completed {
		status = " ✅"
	}
	return fmt.Sprintf(
		"<b>%s</b>%s\n%s\n\n📖 %d words · 🎯 %d challenges · ⭐ up to %d XP",
		esc(lesson.Title), status,
		esc(lesson.Description),
		len(lesson.Words), len(lesson.Challenges), lesson.XPReward,
	)
}

func formatWordCard(w entities.Word, idx, total int) string {
	text := fmt.Sprintf(
		"<i>Card %d of %d</i>\n\n%s<b>%s</b>\n\n<b>Transliteration:</b> %s\n<b>Meaning:</b> %s",
		idx+1, total,
		lrm, esc(w.Arabic),
		esc(w.Transliteration),
		esc(w.Meaning),
	)
	if w.Example.Arabic != "" {
		text += fmt.Sprintf("\n\n%s%s\n<i>%s</i>", lrm, esc(w.Example.Arabic), esc(w.Example.Translation))
	}
	return text
}

func formatQuestion(q entities.Question, num, total int) string {
	text := fmt.Sprintf("<i>Question %d of %d</i>\n\n%s", num+1, total, esc(q.Prompt))
	if !q.IsChoice() {
		text += "\n\n" + msgTypeTranslation
	}
	return text
}

func formatAnswerFeedback(ans service.QuizAnswer) string {
	if ans.Correct {
		return "✅ Correct!"
	}
	return fmt.Sprintf("❌ Not quite. Correct answer: <b>%s</b>", esc(ans.CorrectAnswer))
}

func formatQuizResult(session *entities.QuizSession, outcome service.LessonOutcome, levels map[string]string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<b>🎉 Lesson complete!</b>\n\n✅ %d / %d correct\n⭐ +%d XP (total %d)",
		session.CorrectAnswers, session.Total(), outcome.XPEarned, outcome.State.XP)

	if outcome.WordsScheduled > 0 {
		fmt.Fprintf(&sb, "\n🔁 %d new words added to your reviews", outcome.WordsScheduled)
	}
	for _, id := range outcome.NewLevels {
		name := levels[id]
		if name == "" {
			name = id
		}
		fmt.Fprintf(&sb, "\n🔓 New level unlocked: <b>%s</b>", esc(name))
	}

	return sb.String()
}

func formatReviewFront(w entities.Word, item entities.ReviewItem, pos, total int) string {
	return fmt.Sprintf(
		"<i>Review %d of %d · box %d</i>\n\n%s<b>%s</b>\n%s\n\nDo you remember the meaning?",
		pos+1, total, item.Bucket,
		lrm, esc(w.Arabic), esc(w.Transliteration),
	)
}

func formatReviewBack(w entities.Word, item entities.ReviewItem, pos, total int) string {
	return fmt.Sprintf(
		"<i>Review %d of %d · box %d</i>\n\n%s<b>%s</b>\n%s\n\n<b>Meaning:</b> %s",
		pos+1, total, item.Bucket,
		lrm, esc(w.Arabic), esc(w.Transliteration), esc(w.Meaning),
	)
}

func formatReviewSummary(s service.ReviewSummary) string {
	return fmt.Sprintf(
		"<b>🎉 Review complete!</b>\n\n🔁 %d words reviewed\n✅ %d remembered\n⭐ +%d XP",
		s.Reviewed, s.Known, s.XPEarned,
	)
}

func formatReminder(r entities.ReviewReminder) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🔁 <b>%d words</b> are waiting for review.", r.DueCount)
	if r.NextWord != "" {
		fmt.Fprintf(&sb, "\n\nFirst up: %s<b>%s</b>", lrm, esc(r.NextWord))
	}
	if r.Streak > 0 {
		fmt.Fprintf(&sb, "\n\n🔥 Keep your %d-day streak going!", r.Streak)
	}
	return sb.String()
}
