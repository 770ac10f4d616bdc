package appointments

import (
	"strings"
	"time"
)

const LocaleLayout = "02/01/2006 15:04"

var (
	zonedISOLayouts = []string{
		time.RFC3339Nano,
		"2006-01-02T15:04Z07:00",
	}
	naiveISOLayouts = []string{
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04",
	}
)

// ParseWhen turns a stored appointment timestamp into an instant in ref's location.
//
// A "T" separator marks the ISO form; naive ISO values are read as wall time in ref's location.
// Anything else must match LocaleLayout. The second return is false for every input that does not
// name a real calendar instant.
func ParseWhen(raw string, ref time.Time) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	loc := ref.Location()

	if isISO(raw) {
		for _, layout := range zonedISOLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				return t.In(loc), true
			}
		}
		for _, layout := range naiveISOLayouts {
			if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	}

	t, err := time.ParseInLocation(LocaleLayout, raw, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func isISO(raw string) bool {
	i := strings.IndexByte(raw, 'T')
	// yyyy-MM-dd is exactly ten characters long
	return i == 10 && strings.Count(raw[:i], "-") == 2
}
