// Package calendar provides business-day arithmetic over an injectable
// set of non-working dates.
package calendar

import (
	"time"
)

// civilDate is a calendar date without time-of-day or zone.
type civilDate struct {
	year  int
	month time.Month
	day   int
}

func toCivil(t time.Time) civilDate {
	y, m, d := t.Date()
	return civilDate{year: y, month: m, day: d}
}

// Calendar is a set of holiday dates. It is immutable after construction
// and safe for concurrent readers.
type Calendar struct {
	holidays map[civilDate]struct{}
}

// New creates a calendar from the given holiday dates. Time-of-day and
// zone information on the inputs is discarded.
func New(dates ...time.Time) *Calendar {
	c := &Calendar{holidays: make(map[civilDate]struct{}, len(dates))}
	for _, d := range dates {
		c.holidays[toCivil(d)] = struct{}{}
	}
	return c
}

// WithHolidays returns a new calendar containing this calendar's holidays
// plus the given extra dates.
func (c *Calendar) WithHolidays(dates ...time.Time) *Calendar {
	merged := &Calendar{holidays: make(map[civilDate]struct{}, len(c.holidays)+len(dates))}
	for d := range c.holidays {
		merged.holidays[d] = struct{}{}
	}
	for _, d := range dates {
		merged.holidays[toCivil(d)] = struct{}{}
	}
	return merged
}

// IsHoliday reports whether the date is in the holiday set. Dates outside
// the enumerated years are never holidays; there is no recurrence rule.
func (c *Calendar) IsHoliday(t time.Time) bool {
	_, ok := c.holidays[toCivil(t)]
	return ok
}

// IsBusinessDay reports whether the date is a weekday that is not a holiday.
func (c *Calendar) IsBusinessDay(t time.Time) bool {
	wd := t.Weekday()
	if wd == time.Saturday || wd == time.Sunday {
		return false
	}
	return !c.IsHoliday(t)
}

// Size returns the number of holidays in the calendar.
func (c *Calendar) Size() int {
	return len(c.holidays)
}

// BusinessDays counts business days in the inclusive range [start, end].
// Both endpoints count when they qualify, so a single-day span on a
// business day yields 1. Returns nil when either date is nil and 0 when
// end precedes start.
func (c *Calendar) BusinessDays(start, end *time.Time) *int {
	if start == nil || end == nil {
		return nil
	}

	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)

	count := 0
	if e.Before(s) {
		return &count
	}

	for cur := s; !cur.After(e); cur = cur.AddDate(0, 0, 1) {
		if c.IsBusinessDay(cur) {
			count++
		}
	}
	return &count
}
