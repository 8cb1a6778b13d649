package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aliskhannn/quranlingo-bot/internal/domain/entities"
)

// ErrProgressNotFound is returned when a user has no saved progress.
var ErrProgressNotFound = errors.New("progress not found")

// progressDocument is the persisted shape of entities.ProgressState.
type progressDocument struct {
	XP               int      `json:"xp"`
	Streak           int      `json:"streak"`
	LastActiveDate   *string  `json:"lastActiveDate"`
	CompletedLessons []string `json:"completedLessons"`
	UnlockedLevels   []string `json:"unlockedLevels"`
}

// ProgressRepository stores one progress document per user.
type ProgressRepository struct {
	store DocumentStore
}

// NewProgressRepository creates a ProgressRepository backed by store.
func NewProgressRepository(store DocumentStore) *ProgressRepository {
	return &ProgressRepository{store: store}
}

// Get loads the progress of userID.
// Returns ErrProgressNotFound if nothing was saved yet and ErrCorruptDocument
// if the stored document is unreadable.
func (r *ProgressRepository) Get(ctx context.Context, userID int64) (*entities.ProgressState, error) {
	data, err := r.store.Get(ctx, progressKey(userID))
	if err != nil {
		if errors.Is(err, ErrDocumentNotFound) {
			return nil, ErrProgressNotFound
		}
		return nil, fmt.Errorf("get progress: %w", err)
	}

	state, err := decodeProgress(data)
	if err != nil {
		return nil, fmt.Errorf("get progress: %w", err)
	}

	return state, nil
}

// Save overwrites the progress of userID.
func (r *ProgressRepository) Save(ctx context.Context, userID int64, state entities.ProgressState) error {
	data, err := encodeProgress(state)
	if err != nil {
		return fmt.Errorf("save progress: %w", err)
	}

	if err := r.store.Put(ctx, progressKey(userID), data); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}

	return nil
}

func encodeProgress(state entities.ProgressState) ([]byte, error) {
	doc := progressDocument{
		XP:               state.XP,
		Streak:           state.Streak,
		CompletedLessons: state.CompletedLessons,
		UnlockedLevels:   state.UnlockedLevels,
	}
	if doc.CompletedLessons == nil {
		doc.CompletedLessons = []string{}
	}
	if doc.UnlockedLevels == nil {
		doc.UnlockedLevels = []string{}
	}
	if state.LastActiveDate != nil {
		s := state.LastActiveDate.String()
		doc.LastActiveDate = &s
	}

	return json.Marshal(doc)
}

func decodeProgress(data []byte) (*entities.ProgressState, error) {
	var doc progressDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptDocument, err)
	}

	if doc.XP < 0 || doc.Streak < 0 {
		return nil, fmt.Errorf("%w: negative xp or streak", ErrCorruptDocument)
	}

	state := &entities.ProgressState{
		XP:               doc.XP,
		Streak:           doc.Streak,
		CompletedLessons: dedupe(doc.CompletedLessons),
		UnlockedLevels:   dedupe(doc.UnlockedLevels),
	}

	if doc.LastActiveDate != nil {
		d, err := entities.ParseDate(*doc.LastActiveDate)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptDocument, err)
		}
		state.LastActiveDate = &d
	}

	return state, nil
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
