package entities

// DefaultLevelID is the entry level every learner has unlocked.
const DefaultLevelID = "level-1"

// DefaultXPBarStep is the width of one band of the XP bar.
const DefaultXPBarStep = 50

// LevelThreshold is the minimum XP required to unlock a level.
type LevelThreshold struct {
	LevelID    string
	XPRequired int
}

// UnlockLevels resolves the unlocked level set for the given XP.
//
// The result is the union of previous and every level whose threshold is at
// most xp. Levels are never removed, so a threshold raised later does not
// lock an already unlocked level. Order is deterministic: previous levels keep
// their order and newly unlocked ones follow in threshold-table order.
func UnlockLevels(xp int, thresholds []LevelThreshold, previous []string) []string {
	unlocked := make([]string, 0, len(previous)+len(thresholds))
	seen := make(map[string]struct{}, len(previous)+len(thresholds))

	for _, id := range previous {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unlocked = append(unlocked, id)
	}

	for _, th := range thresholds {
		if th.XPRequired > xp {
			continue
		}
		if _, ok := seen[th.LevelID]; ok {
			continue
		}
		seen[th.LevelID] = struct{}{}
		unlocked = append(unlocked, th.LevelID)
	}

	return unlocked
}

// NextLevel returns the cheapest level that xp does not unlock yet and how much
// XP is still missing. ok is false when every level is reachable.
func NextLevel(xp int, thresholds []LevelThreshold) (next LevelThreshold, remaining int, ok bool) {
	for _, th := range thresholds {
		if th.XPRequired <= xp {
			continue
		}
		if !ok || th.XPRequired < next.XPRequired {
			next = th
			ok = true
		}
	}
	if !ok {
		return LevelThreshold{}, 0, false
	}
	return next, next.XPRequired - xp, true
}

// XPBar splits xp into bands of step XP and reports the position inside the
// current band together with the 1-based band number.
func XPBar(xp, step int) (into, band int) {
	if step <= 0 {
		step = DefaultXPBarStep
	}
	if xp < 0 {
		xp = 0
	}
	return xp % step, xp/step + 1
}
