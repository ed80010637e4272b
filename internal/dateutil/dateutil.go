// Package dateutil provides weekday and clock parsing utilities for the grid.
package dateutil

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Validation errors.
var (
	ErrInvalidDay  = errors.New("day must be a weekday name or an index 0-6")
	ErrInvalidTime = errors.New("time must be in HH:MM format")
)

var dayNames = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// dayAliases maps lowercase weekday names and abbreviations to indices (0 = Sunday).
// Portuguese names are accepted alongside English.
var dayAliases = map[string]int{
	"sunday": 0, "sun": 0, "domingo": 0, "dom": 0,
	"monday": 1, "mon": 1, "segunda": 1, "seg": 1,
	"tuesday": 2, "tue": 2, "terca": 2, "terça": 2, "ter": 2,
	"wednesday": 3, "wed": 3, "quarta": 3, "qua": 3,
	"thursday": 4, "thu": 4, "quinta": 4, "qui": 4,
	"friday": 5, "fri": 5, "sexta": 5, "sex": 5,
	"saturday": 6, "sat": 6, "sabado": 6, "sábado": 6, "sab": 6,
}

// DayName returns the English name for a day index, or "" when out of range.
func DayName(day int) string {
	if day < 0 || day >= len(dayNames) {
		return ""
	}
	return dayNames[day]
}

// ShortDayName returns the three-letter abbreviation for a day index.
func ShortDayName(day int) string {
	name := DayName(day)
	if len(name) < 3 {
		return name
	}
	return name[:3]
}

// ParseDay parses a day index from a name, abbreviation, numeric index,
// or the keywords "today" and "tomorrow" relative to now.
// All inputs are case-insensitive.
func ParseDay(s string, now time.Time) (int, error) {
	input := strings.ToLower(strings.TrimSpace(s))

	switch input {
	case "", "today":
		return int(now.Weekday()), nil
	case "tomorrow":
		return (int(now.Weekday()) + 1) % 7, nil
	}

	if d, ok := dayAliases[input]; ok {
		return d, nil
	}

	n, err := strconv.Atoi(input)
	if err != nil || n < 0 || n > 6 {
		return 0, fmt.Errorf("%w, got %q", ErrInvalidDay, s)
	}
	return n, nil
}

// ParseClock parses "HH:MM" (or "H:MM") into hour and minute.
// "24:00" is accepted as the end of the day.
func ParseClock(s string) (hour, minute int, err error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(m) != 2 || h == "" || len(h) > 2 {
		return 0, 0, fmt.Errorf("%w, got %q", ErrInvalidTime, s)
	}
	hour, err = strconv.Atoi(h)
	if err != nil {
		return 0, 0, fmt.Errorf("%w, got %q", ErrInvalidTime, s)
	}
	minute, err = strconv.Atoi(m)
	if err != nil {
		return 0, 0, fmt.Errorf("%w, got %q", ErrInvalidTime, s)
	}
	if minute < 0 || minute > 59 || hour < 0 || hour > 24 || (hour == 24 && minute != 0) {
		return 0, 0, fmt.Errorf("%w, got %q", ErrInvalidTime, s)
	}
	return hour, minute, nil
}

// WeekStart returns midnight of the Sunday that starts the week containing t.
func WeekStart(t time.Time) time.Time {
	t = TruncateToDay(t)
	return t.AddDate(0, 0, -int(t.Weekday()))
}

// DateOf returns the calendar date of a day index within the week containing t.
func DateOf(t time.Time, day int) time.Time {
	return WeekStart(t).AddDate(0, 0, day)
}

// TruncateToDay returns t with time set to midnight.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
