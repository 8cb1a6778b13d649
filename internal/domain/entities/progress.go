package entities

import "slices"

// ProgressState is the learner's cumulative progression.
type ProgressState struct {
	XP               int      // cumulative experience points
	Streak           int      // consecutive active calendar days
	LastActiveDate   *Date    // nil until the first recorded activity
	CompletedLessons []string // completed lesson ids, insertion ordered, no duplicates
	UnlockedLevels   []string // derived from XP, always contains DefaultLevelID
}

// DefaultProgressState returns the state of a learner who has never studied.
func DefaultProgressState() ProgressState {
	return ProgressState{
		CompletedLessons: []string{},
		UnlockedLevels:   []string{DefaultLevelID},
	}
}

// Clone returns a deep copy of s.
func (s ProgressState) Clone() ProgressState {
	out := s
	if s.LastActiveDate != nil {
		d := *s.LastActiveDate
		out.LastActiveDate = &d
	}
	out.CompletedLessons = slices.Clone(s.CompletedLessons)
	out.UnlockedLevels = slices.Clone(s.UnlockedLevels)
	if out.CompletedLessons == nil {
		out.CompletedLessons = []string{}
	}
	if out.UnlockedLevels == nil {
		out.UnlockedLevels = []string{}
	}
	return out
}

// HasCompleted reports whether lessonID was completed.
func (s ProgressState) HasCompleted(lessonID string) bool {
	return slices.Contains(s.CompletedLessons, lessonID)
}

// IsUnlocked reports whether levelID is unlocked.
func (s ProgressState) IsUnlocked(levelID string) bool {
	return slices.Contains(s.UnlockedLevels, levelID)
}

// Resolve recomputes the unlocked level set for the current XP, keeping
// DefaultLevelID present even when the threshold table omits it.
func (s *ProgressState) Resolve(thresholds []LevelThreshold) {
	levels := s.UnlockedLevels
	if !slices.Contains(levels, DefaultLevelID) {
		levels = append([]string{DefaultLevelID}, levels...)
	}
	s.UnlockedLevels = UnlockLevels(s.XP, thresholds, levels)
}
