package telegram

import (
	"context"
	"fmt"
	"strings"

	"github.com/aliskhannn/quranlingo-bot/internal/domain/entities"
)

func (h *Handler) progressHandler(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		text, err := h.progressText(ctx, userID)
		if err != nil {
			return err
		}
		msg := newHTMLMessage(chatID, text)
		msg.ReplyMarkup = buildProgressKeyboard()
		h.send(msg)
		return nil
	}
}

func (h *Handler) progressText(ctx context.Context, userID int64) (string, error) {
	learner, err := h.learners.Learner(ctx, userID)
	if err != nil {
		return "", err
	}
	state := learner.Progress().State()
	due := len(learner.Reviews().GetDueReviewItems(ctx))

	into, band := entities.XPBar(state.XP, entities.DefaultXPBarStep)

	var sb strings.Builder
	fmt.Fprintf(&sb, "<b>📊 Your progress</b>\n\n⭐ <b>%d XP</b> · band %d\n%s %d/%d\n\n",
		state.XP, band,
		buildProgressBar(into, entities.DefaultXPBarStep, 20), into, entities.DefaultXPBarStep,
	)
	fmt.Fprintf(&sb, "🔥 <b>Streak:</b> %d days\n", state.Streak)
	fmt.Fprintf(&sb, "📖 <b>Lessons completed:</b> %d\n", len(state.CompletedLessons))
	fmt.Fprintf(&sb, "🔓 <b>Levels unlocked:</b> %d / %d\n", len(state.UnlockedLevels), len(h.curriculum.Levels()))
	fmt.Fprintf(&sb, "🔁 <b>Due for review:</b> %d of %d words\n", due, learner.Reviews().Len())

	if next, remaining, ok := entities.NextLevel(state.XP, h.curriculum.Thresholds()); ok {
		name := next.LevelID
		if lv, err := h.curriculum.Level(next.LevelID); err == nil {
			name = lv.Name
		}
		fmt.Fprintf(&sb, "\n🎯 %d XP to unlock <b>%s</b>", remaining, esc(name))
	} else {
		sb.WriteString("\n🏆 Every level is unlocked!")
	}

	return sb.String(), nil
}

// buildProgressBar creates ASCII progress bar.
func buildProgressBar(current, total, length int) string {
	if total == 0 {
		return strings.Repeat("░", length)
	}

	filled := int(float64(current) / float64(total) * float64(length))
	filled = min(max(filled, 0), length)

	empty := length - filled

	bar := strings.Repeat("█", filled) + strings.Repeat("░", empty)
	return fmt.Sprintf("[%s]", bar)
}
