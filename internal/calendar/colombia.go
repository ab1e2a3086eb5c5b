package calendar

import "time"

func d(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// colombiaHolidays enumerates the Colombian national holidays observed by
// the dispatch operation, 2024 through the start of 2027. Years beyond the
// enumerated range have no holidays; extend this list (or inject extra
// dates through a policy file) when the data catches up.
var colombiaHolidays = []time.Time{
	// 2024
	d(2024, time.January, 1),
	d(2024, time.January, 8),
	d(2024, time.March, 25),
	d(2024, time.March, 28),
	d(2024, time.March, 29),
	d(2024, time.May, 1),
	d(2024, time.May, 13),
	d(2024, time.June, 3),
	d(2024, time.June, 10),
	d(2024, time.July, 1),
	d(2024, time.July, 20),
	d(2024, time.August, 7),
	d(2024, time.August, 19),
	d(2024, time.October, 14),
	d(2024, time.November, 4),
	d(2024, time.November, 11),
	d(2024, time.December, 8),
	d(2024, time.December, 25),
	// 2025
	d(2025, time.January, 1),
	d(2025, time.January, 6),
	d(2025, time.March, 24),
	d(2025, time.April, 17),
	d(2025, time.April, 18),
	d(2025, time.May, 1),
	d(2025, time.June, 2),
	d(2025, time.June, 23),
	d(2025, time.June, 30),
	d(2025, time.July, 20),
	d(2025, time.August, 7),
	d(2025, time.August, 18),
	d(2025, time.October, 13),
	d(2025, time.November, 3),
	d(2025, time.November, 17),
	d(2025, time.December, 8),
	d(2025, time.December, 25),
	// 2026
	d(2026, time.January, 1),
	d(2026, time.January, 12),
	d(2026, time.March, 23),
	d(2026, time.April, 2),
	d(2026, time.April, 3),
	d(2026, time.May, 1),
	d(2026, time.May, 18),
	d(2026, time.June, 8),
	d(2026, time.June, 15),
	d(2026, time.June, 29),
	d(2026, time.July, 20),
	d(2026, time.August, 7),
	d(2026, time.August, 17),
	d(2026, time.October, 12),
	d(2026, time.November, 2),
	d(2026, time.November, 16),
	d(2026, time.December, 8),
	d(2026, time.December, 25),
	// 2027
	d(2027, time.January, 1),
	d(2027, time.January, 11),
}

// Colombia returns a calendar with the built-in Colombian holiday set.
func Colombia() *Calendar {
	return New(colombiaHolidays...)
}
