package appointments

import (
	"sort"
	"time"
)

// Window is a closed time interval.
type Window struct {
	From time.Time
	To   time.Time
}

// ReminderWindow returns [now+lead-tolerance, now+lead+tolerance].
func ReminderWindow(now time.Time, lead, tolerance time.Duration) Window {
	target := now.Add(lead)
	return Window{
		From: target.Add(-tolerance),
		To:   target.Add(tolerance),
	}
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.From) && !t.After(w.To)
}

// DueReminders selects the reminder-eligible appointments whose instant falls into the reminder
// window computed from now. Result order is unspecified.
func DueReminders(list []Appointment, now time.Time, lead, tolerance time.Duration) []Scheduled {
	window := ReminderWindow(now, lead, tolerance)
	return collect(list, now, window.Contains)
}

// OnDay returns reminder-eligible appointments on now's calendar day, earliest first.
func OnDay(list []Appointment, now time.Time) []Scheduled {
	y, m, d := now.Date()
	res := collect(list, now, func(t time.Time) bool {
		ty, tm, td := t.Date()
		return ty == y && tm == m && td == d
	})
	sortByInstant(res)
	return res
}

// InMonth returns reminder-eligible appointments in now's calendar month, earliest first.
func InMonth(list []Appointment, now time.Time) []Scheduled {
	y, m, _ := now.Date()
	res := collect(list, now, func(t time.Time) bool {
		ty, tm, _ := t.Date()
		return ty == y && tm == m
	})
	sortByInstant(res)
	return res
}

func collect(list []Appointment, now time.Time, match func(time.Time) bool) []Scheduled {
	if len(list) == 0 {
		return nil
	}

	res := make([]Scheduled, 0, len(list))
	for _, a := range list {
		if !ReminderEligible(a) {
			continue
		}
		s, ok := a.Schedule(now)
		if !ok {
			continue
		}
		if match(s.At) {
			res = append(res, s)
		}
	}
	return res
}

func sortByInstant(list []Scheduled) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].At.Before(list[j].At)
	})
}
