package grid

import (
	"errors"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	g := Default()
	if g.SlotsPerHour() != 3 {
		t.Errorf("expected 3 slots per hour, got %d", g.SlotsPerHour())
	}
	if g.TotalSlots() != 48 {
		t.Errorf("expected 48 slots, got %d", g.TotalSlots())
	}
	if err := g.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{"valid 30 min", Config{StartHour: 9, EndHour: 17, IntervalMinutes: 30}, nil},
		{"valid full day", Config{StartHour: 0, EndHour: 24, IntervalMinutes: 15}, nil},
		{"interval not divisor", Config{StartHour: 8, EndHour: 24, IntervalMinutes: 25}, ErrInvalidInterval},
		{"zero interval", Config{StartHour: 8, EndHour: 24, IntervalMinutes: 0}, ErrInvalidInterval},
		{"start after end", Config{StartHour: 18, EndHour: 8, IntervalMinutes: 20}, ErrInvalidHours},
		{"end past midnight", Config{StartHour: 8, EndHour: 25, IntervalMinutes: 20}, ErrInvalidHours},
		{"equal hours", Config{StartHour: 8, EndHour: 8, IntervalMinutes: 20}, ErrInvalidHours},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.want == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestSlotToTime(t *testing.T) {
	g := Default()
	tests := []struct {
		slot  int
		label string
	}{
		{0, "08:00"},
		{1, "08:20"},
		{2, "08:40"},
		{3, "09:00"},
		{47, "23:40"},
	}

	for _, tt := range tests {
		if got := g.SlotLabel(tt.slot); got != tt.label {
			t.Errorf("SlotLabel(%d) = %s, want %s", tt.slot, got, tt.label)
		}
	}

	if got := g.SlotEndLabel(47); got != "24:00" {
		t.Errorf("SlotEndLabel(47) = %s, want 24:00", got)
	}
}

func TestSlotsForDuration(t *testing.T) {
	g := Default()
	tests := []struct {
		minutes int
		want    int
	}{
		{20, 1},
		{21, 2},
		{40, 2},
		{45, 3},
		{60, 3},
		{1, 1},
		{0, 1},
	}

	for _, tt := range tests {
		if got := g.SlotsForDuration(tt.minutes); got != tt.want {
			t.Errorf("SlotsForDuration(%d) = %d, want %d", tt.minutes, got, tt.want)
		}
	}
}

func TestIsValidSlot(t *testing.T) {
	g := Default()
	tests := []struct {
		day, slot int
		want      bool
	}{
		{0, 0, true},
		{6, 47, true},
		{7, 0, false},
		{-1, 0, false},
		{0, 48, false},
		{0, -1, false},
	}

	for _, tt := range tests {
		if got := g.IsValidSlot(tt.day, tt.slot); got != tt.want {
			t.Errorf("IsValidSlot(%d, %d) = %v, want %v", tt.day, tt.slot, got, tt.want)
		}
	}
}

func TestFitsRange(t *testing.T) {
	g := Default()
	if !g.FitsRange(1, 46, 2) {
		t.Error("expected range ending at last slot to fit")
	}
	if g.FitsRange(1, 47, 2) {
		t.Error("expected range overflowing the day to not fit")
	}
}

func TestTimeToSlot(t *testing.T) {
	g := Default()
	if slot, ok := g.TimeToSlot(9, 25); !ok || slot != 4 {
		t.Errorf("TimeToSlot(9:25) = %d, %v; want 4, true", slot, ok)
	}
	if _, ok := g.TimeToSlot(7, 59); ok {
		t.Error("expected 07:59 to be outside the grid")
	}
}

func TestClockPosition(t *testing.T) {
	g := Default()
	// 2026-10-19 is a Monday. 13:10 UTC is 10:10 at UTC-3.
	now := time.Date(2026, 10, 19, 13, 10, 0, 0, time.UTC)
	c := Clock{Grid: g, Offset: DefaultUTCOffset, Now: func() time.Time { return now }}

	day, slot, ok := c.Position()
	if !ok {
		t.Fatal("expected position on grid")
	}
	if day != 1 {
		t.Errorf("expected day 1 (Monday), got %d", day)
	}
	if slot != 6 {
		t.Errorf("expected slot 6, got %d", slot)
	}

	early := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC) // 06:00 local
	if _, _, ok := c.PositionAt(early); ok {
		t.Error("expected 06:00 to be off the grid")
	}
}
