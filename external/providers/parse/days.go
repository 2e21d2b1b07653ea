package parse

import (
	"sort"
	"strings"
	"time"
)

var dayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"sun":       time.Sunday,
	"monday":    time.Monday,
	"mon":       time.Monday,
	"tuesday":   time.Tuesday,
	"tue":       time.Tuesday,
	"tues":      time.Tuesday,
	"wednesday": time.Wednesday,
	"wed":       time.Wednesday,
	"thursday":  time.Thursday,
	"thu":       time.Thursday,
	"thur":      time.Thursday,
	"thurs":     time.Thursday,
	"friday":    time.Friday,
	"fri":       time.Friday,
	"saturday":  time.Saturday,
	"sat":       time.Saturday,
}

// AllDays is Sunday through Saturday.
var AllDays = []time.Weekday{
	time.Sunday, time.Monday, time.Tuesday, time.Wednesday,
	time.Thursday, time.Friday, time.Saturday,
}

// ExpandDays turns labels like "Mon - Wed", "Sat & Sun" or "Daily" into a
// sorted weekday set. Unrecognised or empty labels mean every day.
func ExpandDays(label string) []time.Weekday {
	normalized := strings.ToLower(label)
	if strings.TrimSpace(normalized) == "" ||
		strings.Contains(normalized, "daily") ||
		strings.Contains(normalized, "every") {
		return allDays()
	}

	parts := strings.FieldsFunc(normalized, func(r rune) bool {
		return r == ',' || r == '/' || r == '&'
	})
	joined := strings.ReplaceAll(strings.Join(parts, " "), "-", " - ")
	tokens := strings.Fields(joined)

	set := make(map[time.Weekday]struct{}, 7)
	for i, token := range tokens {
		if token == "-" {
			if i > 0 && i+1 < len(tokens) {
				addRange(set, tokens[i-1], tokens[i+1])
			}
			continue
		}
		if day, ok := lookupDay(token); ok {
			set[day] = struct{}{}
		}
	}
	if len(set) == 0 {
		return allDays()
	}

	days := make([]time.Weekday, 0, len(set))
	for day := range set {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })
	return days
}

// DayLabels renders weekdays as short English labels ("Mon").
func DayLabels(days []time.Weekday) []string {
	out := make([]string, 0, len(days))
	for _, day := range days {
		out = append(out, day.String()[:3])
	}
	return out
}

func addRange(set map[time.Weekday]struct{}, startLabel, endLabel string) {
	start, ok := lookupDay(startLabel)
	if !ok {
		return
	}
	end, ok := lookupDay(endLabel)
	if !ok {
		return
	}

	current := start
	for i := 0; i < 7; i++ {
		set[current] = struct{}{}
		if current == end {
			break
		}
		current = (current + 1) % 7
	}
}

func lookupDay(token string) (time.Weekday, bool) {
	key := strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' {
			return r
		}
		return -1
	}, token)
	day, ok := dayNames[key]
	return day, ok
}

func allDays() []time.Weekday {
	out := make([]time.Weekday, len(AllDays))
	copy(out, AllDays)
	return out
}
