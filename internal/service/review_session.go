package service

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/aliskhannn/quranlingo-bot/internal/domain/entities"
)

// ReviewSummary describes a review session so far.
type ReviewSummary struct {
	Reviewed int
	Known    int
	Total    int
	XPEarned int
}

// ReviewSession walks the due queue captured when the session started. Items
// that become due while it runs wait for the next session.
type ReviewSession struct {
	ID uuid.UUID

	mu        sync.Mutex
	scheduler *ReviewScheduler
	awarder   XPAwarder
	rewards   Rewards
	queue     []entities.ReviewItem
	pos       int
	known     int
	bonusPaid bool
}

func newReviewSession(scheduler *ReviewScheduler, awarder XPAwarder, rewards Rewards, queue []entities.ReviewItem) *ReviewSession {
	return &ReviewSession{
		ID:        uuid.New(),
		scheduler: scheduler,
		awarder:   awarder,
		rewards:   rewards,
		queue:     queue,
	}
}

// Current returns the item awaiting an answer.
func (rs *ReviewSession) Current() (entities.ReviewItem, bool) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.pos >= len(rs.queue) {
		return entities.ReviewItem{}, false
	}
	return rs.queue[rs.pos], true
}

// Answer submits the current item and moves to the next one. Exhausting a
// non-empty queue pays the session bonus exactly once. The returned boolean
// reports whether the session is finished.
func (rs *ReviewSession) Answer(ctx context.Context, known bool) (entities.ReviewItem, bool) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.pos >= len(rs.queue) {
		return entities.ReviewItem{}, true
	}

	current := rs.queue[rs.pos]
	item, ok := rs.scheduler.SubmitReview(ctx, current.WordID, known)
	if !ok {
		item = current
	}
	if known {
		rs.known++
	}
	rs.pos++

	done := rs.pos >= len(rs.queue)
	if done && !rs.bonusPaid {
		rs.bonusPaid = true
		if rs.rewards.ReviewSessionBonusXP > 0 {
			rs.awarder.AddXP(ctx, rs.rewards.ReviewSessionBonusXP)
		}
	}

	return item, done
}

// Done reports whether every item has been answered.
func (rs *ReviewSession) Done() bool {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.pos >= len(rs.queue)
}

// Summary reports the answers so far and the XP they earned.
func (rs *ReviewSession) Summary() ReviewSummary {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	xp := rs.known * rs.rewards.ReviewKnownXP
	if rs.bonusPaid {
		xp += rs.rewards.ReviewSessionBonusXP
	}

	return ReviewSummary{
		Reviewed: rs.pos,
		Known:    rs.known,
		Total:    len(rs.queue),
		XPEarned: xp,
	}
}
