package entities

import (
	"sort"
	"time"
)

// Review buckets. A word climbs one bucket per known answer and falls back to
// BucketDaily on any miss.
const (
	BucketDaily    = 1 // reviewed every day
	BucketEvery3   = 2 // every 3 days
	BucketWeekly   = 3 // every week
	BucketMastered = 4 // monthly, a mastered word stays here while it is known
)

const day = 24 * time.Hour

// BucketInterval returns the review interval for a bucket. Out of range
// buckets are treated as BucketDaily.
func BucketInterval(bucket int) time.Duration {
	switch bucket {
	case BucketEvery3:
		return 3 * day
	case BucketWeekly:
		return 7 * day
	case BucketMastered:
		return 30 * day
	default:
		return day
	}
}

// ReviewItem is the spaced-repetition schedule of a single word.
type ReviewItem struct {
	WordID       string
	LessonID     string    // lesson that first scheduled the word
	Bucket       int       // 1..4
	NextReviewAt time.Time // the item is due once now reaches this instant
}

// NewReviewItem schedules a freshly learned word, due immediately.
func NewReviewItem(wordID, lessonID string, now time.Time) ReviewItem {
	return ReviewItem{
		WordID:       wordID,
		LessonID:     lessonID,
		Bucket:       BucketDaily,
		NextReviewAt: now,
	}
}

// Advance moves the item after an answer given at now.
//
// A known answer promotes the word one bucket (saturating at BucketMastered),
// an unknown answer demotes it to BucketDaily. The next review is exactly
// now + BucketInterval(new bucket).
func (r *ReviewItem) Advance(known bool, now time.Time) {
	if known {
		r.Bucket = min(BucketMastered, max(BucketDaily, r.Bucket)+1)
	} else {
		r.Bucket = BucketDaily
	}
	r.NextReviewAt = now.Add(BucketInterval(r.Bucket))
}

// IsDue reports whether the item should be reviewed at now.
func (r ReviewItem) IsDue(now time.Time) bool {
	return !r.NextReviewAt.After(now)
}

// Valid reports whether the item satisfies the bucket and identity invariants.
func (r ReviewItem) Valid() bool {
	return r.WordID != "" && r.Bucket >= BucketDaily && r.Bucket <= BucketMastered
}

// DueItems returns the items due at now ordered by next review time and then
// word id, so the same input always yields the same queue.
func DueItems(items []ReviewItem, now time.Time) []ReviewItem {
	due := make([]ReviewItem, 0, len(items))
	for _, it := range items {
		if it.IsDue(now) {
			due = append(due, it)
		}
	}

	sort.SliceStable(due, func(i, j int) bool {
		if !due[i].NextReviewAt.Equal(due[j].NextReviewAt) {
			return due[i].NextReviewAt.Before(due[j].NextReviewAt)
		}
		return due[i].WordID < due[j].WordID
	})

	return due
}
