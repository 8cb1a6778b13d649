package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aliskhannn/quranlingo-bot/internal/domain/entities"
)

// ErrReviewsNotFound is returned when a user has no saved review collection.
var ErrReviewsNotFound = errors.New("reviews not found")

type reviewDocument struct {
	WordID       string    `json:"wordId"`
	LessonID     string    `json:"lessonId"`
	Bucket       int       `json:"bucket"`
	NextReviewAt time.Time `json:"nextReviewAt"`
}

// ReviewRepository stores one review collection per user.
type ReviewRepository struct {
	store DocumentStore
}

// NewReviewRepository creates a ReviewRepository backed by store.
func NewReviewRepository(store DocumentStore) *ReviewRepository {
	return &ReviewRepository{store: store}
}

// GetByUserID loads every review item of userID.
// Items are returned as stored; callers decide what to do with invalid ones.
func (r *ReviewRepository) GetByUserID(ctx context.Context, userID int64) ([]entities.ReviewItem, error) {
	data, err := r.store.Get(ctx, reviewsKey(userID))
	if err != nil {
		if errors.Is(err, ErrDocumentNotFound) {
			return nil, ErrReviewsNotFound
		}
		return nil, fmt.Errorf("get reviews: %w", err)
	}

	var docs []reviewDocument
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("get reviews: %w: %v", ErrCorruptDocument, err)
	}

	items := make([]entities.ReviewItem, 0, len(docs))
	for _, d := range docs {
		items = append(items, entities.ReviewItem{
			WordID:       d.WordID,
			LessonID:     d.LessonID,
			Bucket:       d.Bucket,
			NextReviewAt: d.NextReviewAt,
		})
	}

	return items, nil
}

// Save overwrites the review collection of userID.
func (r *ReviewRepository) Save(ctx context.Context, userID int64, items []entities.ReviewItem) error {
	docs := make([]reviewDocument, 0, len(items))
	for _, it := range items {
		docs = append(docs, reviewDocument{
			WordID:       it.WordID,
			LessonID:     it.LessonID,
			Bucket:       it.Bucket,
			NextReviewAt: it.NextReviewAt.UTC(),
		})
	}

	data, err := json.Marshal(docs)
	if err != nil {
		return fmt.Errorf("save reviews: %w", err)
	}

	if err := r.store.Put(ctx, reviewsKey(userID), data); err != nil {
		return fmt.Errorf("save reviews: %w", err)
	}

	return nil
}

// UserIDs lists every user with a review collection.
func (r *ReviewRepository) UserIDs(ctx context.Context) ([]int64, error) {
	return userIDsWithPrefix(ctx, r.store, reviewsPrefix)
}
