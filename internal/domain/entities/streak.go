package entities

// NextStreak computes the streak transition for an activity recorded on today.
//
// It follows the daily-streak rules:
//  1. No previous activity: the streak starts at 1.
//  2. Activity already recorded today: nothing changes.
//  3. Previous activity yesterday: the streak grows by one.
//  4. Any other gap (including a clock that moved backwards): the streak restarts at 1.
//
// The returned date is the new last active date and is never nil.
func NextStreak(lastActive *Date, streak int, today Date) (int, *Date) {
	if lastActive == nil {
		return 1, &today
	}

	if today.Equal(*lastActive) {
		last := *lastActive
		return streak, &last
	}

	if today.Equal(lastActive.AddDays(1)) {
		return streak + 1, &today
	}

	return 1, &today
}
