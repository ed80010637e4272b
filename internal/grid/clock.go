package grid

import "time"

// DefaultUTCOffset is the fixed offset used to place the "now" marker.
const DefaultUTCOffset = -3 * time.Hour

// Clock locates the current moment on the grid at a fixed UTC offset.
// Daylight saving is not applied.
type Clock struct {
	Grid   Config
	Offset time.Duration
	Now    func() time.Time // Injectable for testing
}

// NewClock returns a Clock using time.Now.
func NewClock(g Config, offset time.Duration) Clock {
	return Clock{Grid: g, Offset: offset, Now: time.Now}
}

// Location returns the fixed zone the clock reports in.
func (c Clock) Location() *time.Location {
	return time.FixedZone("planner", int(c.Offset.Seconds()))
}

// Position returns the day column and slot for the current moment.
// ok is false when the moment falls outside the grid's hours.
func (c Clock) Position() (day, slot int, ok bool) {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	return c.PositionAt(now())
}

// PositionAt returns the grid position of t.
func (c Clock) PositionAt(t time.Time) (day, slot int, ok bool) {
	local := t.In(c.Location())
	day = int(local.Weekday())
	slot, ok = c.Grid.TimeToSlot(local.Hour(), local.Minute())
	return day, slot, ok
}
