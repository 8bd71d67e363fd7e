package engine

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Window
		want bool
	}{
		{
			name: "disjoint",
			a:    NewWindow(date(2024, 1, 1), date(2024, 1, 5)),
			b:    NewWindow(date(2024, 1, 6), date(2024, 1, 10)),
			want: false,
		},
		{
			name: "shared boundary day",
			a:    NewWindow(date(2024, 1, 1), date(2024, 1, 5)),
			b:    NewWindow(date(2024, 1, 5), date(2024, 1, 10)),
			want: true,
		},
		{
			name: "contained",
			a:    NewWindow(date(2024, 1, 1), date(2024, 1, 31)),
			b:    NewWindow(date(2024, 1, 10), date(2024, 1, 12)),
			want: true,
		},
		{
			name: "zero-length window overlaps itself",
			a:    SingleDay(date(2024, 1, 3)),
			b:    SingleDay(date(2024, 1, 3)),
			want: true,
		},
		{
			name: "zero-length windows on different days",
			a:    SingleDay(date(2024, 1, 3)),
			b:    SingleDay(date(2024, 1, 4)),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.a, tt.b); got != tt.want {
				t.Errorf("Overlaps(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			// Overlap is symmetric.
			if got := Overlaps(tt.b, tt.a); got != tt.want {
				t.Errorf("Overlaps(%v, %v) = %v, want %v", tt.b, tt.a, got, tt.want)
			}
		})
	}
}

func TestWindowContains(t *testing.T) {
	w := NewWindow(date(2024, 1, 1), date(2024, 1, 5))

	if !w.Contains(date(2024, 1, 1)) || !w.Contains(date(2024, 1, 5)) {
		t.Error("window should contain both boundary days")
	}
	if w.Contains(date(2023, 12, 31)) || w.Contains(date(2024, 1, 6)) {
		t.Error("window should not contain days outside it")
	}
	// Time-of-day must not matter.
	if !w.Contains(time.Date(2024, 1, 5, 23, 59, 0, 0, time.UTC)) {
		t.Error("late on the last day is still inside the window")
	}
}

func TestWindowValid(t *testing.T) {
	if !SingleDay(date(2024, 1, 1)).Valid() {
		t.Error("single-day window should be valid")
	}
	inverted := Window{Start: date(2024, 1, 5), End: date(2024, 1, 1)}
	if inverted.Valid() {
		t.Error("inverted window should be invalid")
	}
}
