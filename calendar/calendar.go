// Package calendar answers "is this date a working day" and shifts dates by
// working days against an immutable holiday table. Saturday and Sunday are
// always non-working; all checks use the date component only, so values
// carrying a time of day keep their clock through every operation.
package calendar

import "time"

const dayKeyLayout = "2006-01-02"

// Calendar is an immutable working-day calendar. Safe for concurrent use.
type Calendar struct {
	holidays map[string]struct{}
}

// New builds a calendar from the built-in public-holiday table, the
// organization-specific overrides, and any extra dates supplied by the caller.
func New(extra ...time.Time) *Calendar {
	c := &Calendar{holidays: make(map[string]struct{}, len(baseHolidays)+len(orgHolidays)+len(extra))}
	for _, d := range baseHolidays {
		c.holidays[d] = struct{}{}
	}
	for _, d := range orgHolidays {
		c.holidays[d] = struct{}{}
	}
	for _, d := range extra {
		c.holidays[d.Format(dayKeyLayout)] = struct{}{}
	}
	return c
}

// IsWorkingDay reports whether t falls on a working day.
func (c *Calendar) IsWorkingDay(t time.Time) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	_, holiday := c.holidays[t.Format(dayKeyLayout)]
	return !holiday
}

// ShiftWorkingDays moves t by n working days, stepping one calendar day at a
// time in the sign of n and counting only working days. n = 0 returns t.
func (c *Calendar) ShiftWorkingDays(t time.Time, n int) time.Time {
	step := 1
	if n < 0 {
		step = -1
		n = -n
	}
	for n > 0 {
		t = t.AddDate(0, 0, step)
		if c.IsWorkingDay(t) {
			n--
		}
	}
	return t
}

// NearestWorkingDay returns t itself when it is a working day, otherwise the
// first working day found stepping one calendar day at a time in direction
// (+1 forward, -1 backward). This is distinct from ShiftWorkingDays: no day
// is consumed when t already works.
func (c *Calendar) NearestWorkingDay(t time.Time, direction int) time.Time {
	step := 1
	if direction < 0 {
		step = -1
	}
	for !c.IsWorkingDay(t) {
		t = t.AddDate(0, 0, step)
	}
	return t
}
