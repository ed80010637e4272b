// Package grid maps the planner's day/slot coordinates to wall-clock times.
package grid

import (
	"errors"
	"fmt"
)

const (
	// DaysPerWeek is the number of day columns. Day 0 is Sunday.
	DaysPerWeek = 7
	// MinutesPerHour is used for slot arithmetic.
	MinutesPerHour = 60

	DefaultStartHour       = 8
	DefaultEndHour         = 24
	DefaultIntervalMinutes = 20
)

// Config errors.
var (
	ErrInvalidInterval = errors.New("interval_minutes must be a positive divisor of 60")
	ErrInvalidHours    = errors.New("hours must satisfy 0 <= start_hour < end_hour <= 24")
)

// Config describes the time axis of the weekly grid.
type Config struct {
	StartHour       int // first hour shown, e.g. 8
	EndHour         int // exclusive, e.g. 24
	IntervalMinutes int // slot length, e.g. 20
}

// Default returns the 08:00-24:00 grid with 20-minute slots.
func Default() Config {
	return Config{
		StartHour:       DefaultStartHour,
		EndHour:         DefaultEndHour,
		IntervalMinutes: DefaultIntervalMinutes,
	}
}

// Validate checks the grid geometry.
func (c Config) Validate() error {
	if c.IntervalMinutes <= 0 || MinutesPerHour%c.IntervalMinutes != 0 {
		return fmt.Errorf("%w, got %d", ErrInvalidInterval, c.IntervalMinutes)
	}
	if c.StartHour < 0 || c.EndHour > 24 || c.StartHour >= c.EndHour {
		return fmt.Errorf("%w, got %d-%d", ErrInvalidHours, c.StartHour, c.EndHour)
	}
	return nil
}

// SlotsPerHour returns how many slots fit in one hour.
func (c Config) SlotsPerHour() int {
	return MinutesPerHour / c.IntervalMinutes
}

// TotalSlots returns the number of slots in one day column.
func (c Config) TotalSlots() int {
	return (c.EndHour - c.StartHour) * c.SlotsPerHour()
}

// SlotToTime returns the wall-clock start of a slot.
func (c Config) SlotToTime(slot int) (hour, minute int) {
	hour = c.StartHour + slot/c.SlotsPerHour()
	minute = (slot % c.SlotsPerHour()) * c.IntervalMinutes
	return hour, minute
}

// SlotLabel formats the start of a slot as "HH:MM".
func (c Config) SlotLabel(slot int) string {
	h, m := c.SlotToTime(slot)
	return fmt.Sprintf("%02d:%02d", h, m)
}

// SlotEndLabel formats the end of a slot as "HH:MM".
// The end of the last slot is rendered as "24:00" when EndHour is 24.
func (c Config) SlotEndLabel(slot int) string {
	mins := c.StartHour*MinutesPerHour + (slot+1)*c.IntervalMinutes
	return fmt.Sprintf("%02d:%02d", mins/MinutesPerHour, mins%MinutesPerHour)
}

// SlotsForDuration returns the number of slots needed to hold a duration,
// rounding up. Durations of zero or less still occupy one slot.
func (c Config) SlotsForDuration(minutes int) int {
	if minutes <= 0 {
		return 1
	}
	return (minutes + c.IntervalMinutes - 1) / c.IntervalMinutes
}

// DurationForSlots returns the minutes covered by n slots.
func (c Config) DurationForSlots(n int) int {
	return n * c.IntervalMinutes
}

// TimeToSlot returns the slot containing the given wall-clock time.
// ok is false when the time falls outside the grid.
func (c Config) TimeToSlot(hour, minute int) (slot int, ok bool) {
	mins := (hour-c.StartHour)*MinutesPerHour + minute
	if mins < 0 {
		return 0, false
	}
	slot = mins / c.IntervalMinutes
	if slot >= c.TotalSlots() {
		return 0, false
	}
	return slot, true
}

// IsValidDay reports whether day is a column index.
func (c Config) IsValidDay(day int) bool {
	return day >= 0 && day < DaysPerWeek
}

// IsValidSlot reports whether (day, slot) lies on the grid.
func (c Config) IsValidSlot(day, slot int) bool {
	return c.IsValidDay(day) && slot >= 0 && slot < c.TotalSlots()
}

// FitsRange reports whether a block of n slots starting at slot stays on the grid.
func (c Config) FitsRange(day, slot, n int) bool {
	return n > 0 && c.IsValidSlot(day, slot) && slot+n-1 < c.TotalSlots()
}

// ClampSlot bounds slot to [0, TotalSlots-1].
func (c Config) ClampSlot(slot int) int {
	return max(0, min(slot, c.TotalSlots()-1))
}
