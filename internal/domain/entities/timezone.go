package entities

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseTimezoneLocation resolves the canonical zone used for day boundaries.
//
// Accepted forms:
//   - IANA names such as "Asia/Riyadh"
//   - "UTC", "GMT" or an empty string
//   - fixed offsets: "UTC+3", "UTC-7", "UTC+5:30", "+3", "-03:30"
//
// Fixed offsets become a time.FixedZone and never observe DST.
func ParseTimezoneLocation(tz string) (*time.Location, error) {
	tz = strings.TrimSpace(tz)
	switch strings.ToUpper(tz) {
	case "", "UTC", "ETC/UTC", "GMT":
		return time.UTC, nil
	}

	if loc, err := time.LoadLocation(tz); err == nil {
		return loc, nil
	}

	offset, ok := parseOffset(tz)
	if !ok {
		return nil, fmt.Errorf("unsupported timezone %q", tz)
	}

	return time.FixedZone(offsetName(offset), offset), nil
}

// parseOffset returns the offset east of UTC in seconds.
func parseOffset(tz string) (int, bool) {
	s := tz
	if strings.HasPrefix(strings.ToUpper(s), "UTC") {
		s = strings.TrimSpace(s[3:])
	}
	if len(s) < 2 || (s[0] != '+' && s[0] != '-') {
		return 0, false
	}

	sign := 1
	if s[0] == '-' {
		sign = -1
	}

	hours, minutes, found := strings.Cut(s[1:], ":")
	if !found {
		minutes = "0"
	}

	h, err := strconv.Atoi(hours)
	if err != nil || h < 0 || h > 14 {
		return 0, false
	}
	m, err := strconv.Atoi(minutes)
	if err != nil || m < 0 || m >= 60 {
		return 0, false
	}

	return sign * (h*3600 + m*60), true
}

func offsetName(offset int) string {
	sign := "+"
	if offset < 0 {
		sign = "-"
		offset = -offset
	}
	return fmt.Sprintf("UTC%s%02d:%02d", sign, offset/3600, offset%3600/60)
}
