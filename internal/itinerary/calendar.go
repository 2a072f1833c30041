package itinerary

import "time"

// Calendar decides what "the same day" means. Day generation and day sync
// compare dates only through a Calendar, so the caller's time zone is always
// explicit.
type Calendar interface {
	// StartOfDay truncates t to midnight of its calendar day.
	StartOfDay(t time.Time) time.Time
	// AddDays returns the start of the calendar day n days after t's day.
	AddDays(t time.Time, n int) time.Time
	// Date returns the start of the given calendar date.
	Date(year int, month time.Month, day int) time.Time
}

// UTC is a Calendar whose days run midnight to midnight UTC.
var UTC Calendar = InLocation(time.UTC)

// InLocation returns a Calendar whose days begin at local midnight in loc.
// A nil loc means UTC.
func InLocation(loc *time.Location) Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return locationCalendar{loc: loc}
}

type locationCalendar struct {
	loc *time.Location
}

func (c locationCalendar) StartOfDay(t time.Time) time.Time {
	y, m, d := t.In(c.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, c.loc)
}

// AddDays steps in calendar days rather than 24h blocks so DST changes never
// skip or repeat a date.
func (c locationCalendar) AddDays(t time.Time, n int) time.Time {
	y, m, d := t.In(c.loc).Date()
	return time.Date(y, m, d+n, 0, 0, 0, 0, c.loc)
}

func (c locationCalendar) Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, c.loc)
}

// dateKey is a calendar date with the time-of-day and zone stripped.
type dateKey struct {
	year  int
	month time.Month
	day   int
}

func keyOf(cal Calendar, t time.Time) dateKey {
	y, m, d := cal.StartOfDay(t).Date()
	return dateKey{year: y, month: m, day: d}
}

// datesInRange lists the start of every calendar day from start's day through
// end's day inclusive. It is empty when end's day precedes start's.
func datesInRange(cal Calendar, start, end time.Time) []time.Time {
	first := cal.StartOfDay(start)
	last := cal.StartOfDay(end)

	var out []time.Time
	for cur := first; !cur.After(last); cur = cal.AddDays(cur, 1) {
		out = append(out, cur)
	}
	return out
}
