package service

import (
	"time"

	"github.com/aliskhannn/quranlingo-bot/internal/domain/entities"
)

// Clock supplies the current instant and the calendar day it falls on in the
// configured time zone.
type Clock interface {
	Now() time.Time
	Today() entities.Date
	Location() *time.Location
}

// SystemClock reads the wall clock.
type SystemClock struct {
	loc *time.Location
}

// NewSystemClock creates a clock whose days are counted in loc. A nil loc
// means UTC.
func NewSystemClock(loc *time.Location) *SystemClock {
	if loc == nil {
		loc = time.UTC
	}
	return &SystemClock{loc: loc}
}

func (c *SystemClock) Now() time.Time {
	return time.Now().In(c.loc)
}

func (c *SystemClock) Today() entities.Date {
	return entities.DateOf(time.Now(), c.loc)
}

func (c *SystemClock) Location() *time.Location {
	return c.loc
}
