package storage

import (
	"sync"
	"time"
)

// ReminderMessage identifies the last review reminder posted to a chat.
type ReminderMessage struct {
	ChatID    int64
	MessageID int
	DueCount  int
	SentAt    time.Time
}

// ReminderStorage remembers the latest reminder per user so the previous one
// can be removed when a new one is posted or the user starts reviewing.
type ReminderStorage struct {
	mu       sync.Mutex
	messages map[int64]ReminderMessage
}

func NewReminderStorage() *ReminderStorage {
	return &ReminderStorage{
		messages: make(map[int64]ReminderMessage),
	}
}

// Replace stores msg for userID and returns the message it replaced.
func (s *ReminderStorage) Replace(userID int64, msg ReminderMessage) (prev ReminderMessage, hadPrev bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, hadPrev = s.messages[userID]
	s.messages[userID] = msg

	return prev, hadPrev
}

// Take removes and returns the stored reminder of userID.
func (s *ReminderStorage) Take(userID int64) (ReminderMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg, ok := s.messages[userID]
	if ok {
		delete(s.messages, userID)
	}
	return msg, ok
}
