package domain

import "time"

const DateLayout = "2006-01-02"

// DateOf drops the clock part of t, keeping its calendar date in t's location,
// and returns that date as midnight UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateIn returns the calendar date of instant t as observed in loc.
func DateIn(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return DateOf(t.In(loc))
}

// ParseDate parses a YYYY-MM-DD string into a midnight UTC date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// At places the calendar date d at hour:00 in loc.
func At(d time.Time, hour int, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, day := d.Date()
	return time.Date(y, m, day, hour, 0, 0, 0, loc)
}

// DatesInRange returns each date in [from, to).
func DatesInRange(from, to time.Time) []time.Time {
	from, to = DateOf(from), DateOf(to)
	var out []time.Time
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}
