package services

import (
	"fmt"
	"strings"
	"time"
)

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// parseWeekday accepts an English weekday name in any case.
func parseWeekday(day string) (time.Weekday, bool) {
	wd, ok := weekdays[strings.ToLower(strings.TrimSpace(day))]
	return wd, ok
}

// parseClock converts "HH:MM" to minutes since midnight.
func parseClock(s string) (int, error) {
	t, err := time.Parse(clockLayout, strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

func parseDate(s string) (time.Time, error) {
	d, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return d, nil
}

// clockRange is a half-open [start, end) interval in minutes since midnight.
type clockRange struct {
	start int
	end   int
}

func parseClockRange(start, end string) (clockRange, error) {
	s, err := parseClock(start)
	if err != nil {
		return clockRange{}, err
	}
	e, err := parseClock(end)
	if err != nil {
		return clockRange{}, err
	}
	if s >= e {
		return clockRange{}, fmt.Errorf("start time must be before end time")
	}
	return clockRange{start: s, end: e}, nil
}

func (r clockRange) contains(o clockRange) bool {
	return r.start <= o.start && o.end <= r.end
}

func (r clockRange) overlaps(o clockRange) bool {
	return r.start < o.end && o.start < r.end
}
