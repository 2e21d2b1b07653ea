package parse

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
)

var (
	clockPattern    = regexp.MustCompile(`(\d{1,2}):(\d{2})`)
	meridianPattern = regexp.MustCompile(`(?i)(\d{1,2}):(\d{2})\s*(am|pm)`)
)

var monthNames = map[string]time.Month{
	"january":   time.January,
	"february":  time.February,
	"march":     time.March,
	"april":     time.April,
	"may":       time.May,
	"june":      time.June,
	"july":      time.July,
	"august":    time.August,
	"september": time.September,
	"october":   time.October,
	"november":  time.November,
	"december":  time.December,
}

type Clock struct {
	Hour   int
	Minute int
}

type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// UTCClock reads the first HH:MM in label as a 24-hour clock.
func UTCClock(label string) (Clock, error) {
	match := clockPattern.FindStringSubmatch(SanitizeText(label))
	if match == nil {
		return Clock{}, crerr.Wrapf(ErrParse, "time %q", label)
	}
	hour, _ := strconv.Atoi(match[1])
	minute, _ := strconv.Atoi(match[2])
	if hour > 23 || minute > 59 {
		return Clock{}, crerr.Wrapf(ErrParse, "time %q out of range", label)
	}
	return Clock{Hour: hour, Minute: minute}, nil
}

// MeridianClock reads "12:05pm" or "7:30 AM".
func MeridianClock(label string) (Clock, error) {
	match := meridianPattern.FindStringSubmatch(SanitizeText(label))
	if match == nil {
		return Clock{}, crerr.Wrapf(ErrParse, "time %q", label)
	}
	hour, _ := strconv.Atoi(match[1])
	minute, _ := strconv.Atoi(match[2])
	if hour > 12 || minute > 59 {
		return Clock{}, crerr.Wrapf(ErrParse, "time %q out of range", label)
	}

	hour %= 12
	if strings.EqualFold(match[3], "pm") {
		hour += 12
	}
	return Clock{Hour: hour, Minute: minute}, nil
}

// USDate reads "July 10, 2025".
func USDate(label string) (Date, error) {
	parts := strings.Fields(strings.ReplaceAll(SanitizeText(label), ",", ""))
	if len(parts) < 3 {
		return Date{}, crerr.Wrapf(ErrParse, "date %q", label)
	}
	month, ok := monthNames[strings.ToLower(parts[0])]
	if !ok {
		return Date{}, crerr.Wrapf(ErrParse, "date %q: unknown month", label)
	}
	day, err := strconv.Atoi(parts[1])
	if err != nil || day < 1 || day > 31 {
		return Date{}, crerr.Wrapf(ErrParse, "date %q: bad day", label)
	}
	year, err := strconv.Atoi(parts[2])
	if err != nil {
		return Date{}, crerr.Wrapf(ErrParse, "date %q: bad year", label)
	}
	return Date{Year: year, Month: month, Day: day}, nil
}

// NextUTCOccurrence returns the earliest instant strictly after now that
// falls on one of days at the given UTC wall clock.
func NextUTCOccurrence(now time.Time, days []time.Weekday, clock Clock) time.Time {
	now = now.UTC()
	base := time.Date(now.Year(), now.Month(), now.Day(), clock.Hour, clock.Minute, 0, 0, time.UTC)
	if len(days) == 0 {
		return base
	}

	var chosen time.Time
	for _, day := range days {
		delta := (int(day) - int(base.Weekday()) + 7) % 7
		candidate := base.AddDate(0, 0, delta)
		if delta == 0 && !candidate.After(now) {
			candidate = candidate.AddDate(0, 0, 7)
		}
		if chosen.IsZero() || candidate.Before(chosen) {
			chosen = candidate
		}
	}
	return chosen
}

// EasternToUTC converts a US Eastern wall-clock reading to UTC. Daylight
// time runs from the second Sunday in March 02:00 to the first Sunday in
// November 02:00.
func EasternToUTC(date Date, clock Clock) time.Time {
	offset := 5 * time.Hour
	if easternDST(date, clock) {
		offset = 4 * time.Hour
	}
	return time.Date(date.Year, date.Month, date.Day, clock.Hour, clock.Minute, 0, 0, time.UTC).Add(offset)
}

func easternDST(date Date, clock Clock) bool {
	startDay := nthWeekday(date.Year, time.March, time.Sunday, 2)
	endDay := nthWeekday(date.Year, time.November, time.Sunday, 1)

	afterStart := date.Month > time.March ||
		(date.Month == time.March && (date.Day > startDay || (date.Day == startDay && clock.Hour >= 2)))
	beforeEnd := date.Month < time.November ||
		(date.Month == time.November && (date.Day < endDay || (date.Day == endDay && clock.Hour < 2)))
	return afterStart && beforeEnd
}

func nthWeekday(year int, month time.Month, weekday time.Weekday, nth int) int {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := (7 + int(weekday) - int(first.Weekday())) % 7
	return 1 + offset + (nth-1)*7
}

// RelativeStart reads a listing time such as "Today 18:30" or "Tomorrow
// 02:00" against now in UTC. A bare clock already in the past means
// tomorrow. Unreadable labels fall back to one hour from now.
func RelativeStart(now time.Time, label string) time.Time {
	now = now.UTC()
	lower := strings.ToLower(label)
	match := clockPattern.FindStringSubmatch(lower)
	if match == nil {
		return now.Add(time.Hour)
	}
	hour, _ := strconv.Atoi(match[1])
	minute, _ := strconv.Atoi(match[2])
	if hour > 23 || minute > 59 {
		return now.Add(time.Hour)
	}

	start := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, time.UTC)
	switch {
	case strings.Contains(lower, "tomorrow"):
		start = start.AddDate(0, 0, 1)
	case strings.Contains(lower, "today"):
	case start.Before(now):
		start = start.AddDate(0, 0, 1)
	}
	return start
}
