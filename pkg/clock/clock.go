package clock

import (
	"fmt"
	"time"
)

type Interface interface {
	Now() time.Time
}

type Clock struct {
	now func() time.Time
}

func NewClock() *Clock {
	return &Clock{
		now: time.Now,
	}
}

func NewZonedClock(location *time.Location) *Clock {
	return &Clock{
		now: func() time.Time {
			return time.Now().In(location)
		},
	}
}

// NewOffsetClock returns a clock reporting time in a zone that is a fixed number of hours away from UTC.
// The host clock is expected to run in UTC, so no tz database lookup is involved.
func NewOffsetClock(offsetHours int) *Clock {
	return NewZonedClock(FixedZone(offsetHours))
}

// NewFixedClock always returns t. Useful in tests and for replaying a run at a given moment.
func NewFixedClock(t time.Time) *Clock {
	return &Clock{
		now: func() time.Time {
			return t
		},
	}
}

// FixedZone builds a location named after its offset, e.g. "UTC-03".
func FixedZone(offsetHours int) *time.Location {
	sign := "+"
	hours := offsetHours
	if hours < 0 {
		sign = "-"
		hours = -hours
	}
	return time.FixedZone(fmt.Sprintf("UTC%s%02d", sign, hours), offsetHours*int(time.Hour/time.Second))
}

func (c *Clock) Now() time.Time {
	return c.now()
}
