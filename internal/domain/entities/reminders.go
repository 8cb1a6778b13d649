package entities

// ReviewReminder is the payload of a "words are due" notification.
type ReviewReminder struct {
	UserID   int64
	ChatID   int64
	DueCount int    // number of words due at send time
	Streak   int    // current daily streak, shown to encourage keeping it
	NextWord string // Arabic form of the first due word, if known
}
