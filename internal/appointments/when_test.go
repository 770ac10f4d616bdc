package appointments

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Roma7-7-7/salon-notifier/pkg/clock"
)

func TestParseWhen(t *testing.T) {
	loc := clock.FixedZone(-3)
	ref := time.Date(2024, 6, 10, 6, 0, 0, 0, loc)

	tests := []struct {
		name     string
		raw      string
		expected time.Time
		ok       bool
	}{
		{name: "naive ISO minutes", raw: "2024-06-10T08:00", expected: time.Date(2024, 6, 10, 8, 0, 0, 0, loc), ok: true},
		{name: "naive ISO seconds", raw: "2024-06-10T08:00:30", expected: time.Date(2024, 6, 10, 8, 0, 30, 0, loc), ok: true},
		{name: "naive ISO millis", raw: "2024-06-10T08:00:00.000", expected: time.Date(2024, 6, 10, 8, 0, 0, 0, loc), ok: true},
		{name: "ISO UTC", raw: "2024-06-10T11:00:00Z", expected: time.Date(2024, 6, 10, 8, 0, 0, 0, loc), ok: true},
		{name: "ISO with offset", raw: "2024-06-10T08:00:00-03:00", expected: time.Date(2024, 6, 10, 8, 0, 0, 0, loc), ok: true},
		{name: "ISO minutes with offset", raw: "2024-06-10T11:00Z", expected: time.Date(2024, 6, 10, 8, 0, 0, 0, loc), ok: true},
		{name: "locale", raw: "10/06/2024 08:00", expected: time.Date(2024, 6, 10, 8, 0, 0, 0, loc), ok: true},
		{name: "locale single digit hour", raw: "10/06/2024 8:05", expected: time.Date(2024, 6, 10, 8, 5, 0, 0, loc), ok: true},
		{name: "surrounding spaces", raw: "  10/06/2024 08:00 ", expected: time.Date(2024, 6, 10, 8, 0, 0, 0, loc), ok: true},
		{name: "empty", raw: ""},
		{name: "garbage", raw: "tomorrow morning"},
		{name: "invalid ISO day", raw: "2024-02-30T08:00"},
		{name: "invalid locale day", raw: "31/04/2024 10:00"},
		{name: "invalid locale month", raw: "10/13/2024 10:00"},
		{name: "locale without time", raw: "10/06/2024"},
		{name: "US order is not accepted", raw: "06/25/2024 10:00"},
		{name: "ISO date only", raw: "2024-06-10"},
		{name: "T inside free text", raw: "Tuesday 10:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseWhen(tt.raw, ref)
			assert.Equal(t, tt.ok, ok)
			if !tt.ok {
				assert.True(t, got.IsZero())
				return
			}
			assert.True(t, tt.expected.Equal(got), "expected %s, got %s", tt.expected, got)
			assert.Equal(t, loc, got.Location())
		})
	}
}

func TestParseWhen_Deterministic(t *testing.T) {
	ref := time.Date(2024, 6, 10, 6, 0, 0, 0, clock.FixedZone(-3))

	for _, raw := range []string{"2024-06-10T08:00", "10/06/2024 08:00", "2024-06-10T11:00:00Z"} {
		first, ok1 := ParseWhen(raw, ref)
		second, ok2 := ParseWhen(raw, ref)
		assert.True(t, ok1)
		assert.True(t, ok2)
		assert.True(t, first.Equal(second), raw)
	}

	iso, _ := ParseWhen("2024-06-10T08:00", ref)
	locale, _ := ParseWhen("10/06/2024 08:00", ref)
	assert.True(t, iso.Equal(locale), "both representations must normalize to the same instant")
}

func TestParseWhen_UsesReferenceLocation(t *testing.T) {
	utcRef := time.Date(2024, 6, 10, 6, 0, 0, 0, time.UTC)
	brtRef := time.Date(2024, 6, 10, 6, 0, 0, 0, clock.FixedZone(-3))

	inUTC, _ := ParseWhen("2024-06-10T08:00", utcRef)
	inBRT, _ := ParseWhen("2024-06-10T08:00", brtRef)

	assert.Equal(t, 3*time.Hour, inBRT.Sub(inUTC))
}
