package utils

import (
	"testing"
	"time"
)

func TestStartOfDayUTC(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)

	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			name: "midday UTC",
			in:   time.Date(2025, 3, 10, 15, 30, 45, 123, time.UTC),
			want: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "local morning lands on previous UTC date",
			in:   time.Date(2025, 3, 10, 3, 0, 0, 0, loc),
			want: time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "already midnight",
			in:   time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
			want: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StartOfDayUTC(tt.in); !got.Equal(tt.want) {
				t.Errorf("StartOfDayUTC(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestDatesEqualUTC(t *testing.T) {
	morning := time.Date(2025, 3, 10, 1, 0, 0, 0, time.UTC)
	evening := time.Date(2025, 3, 10, 23, 59, 0, 0, time.UTC)
	nextDay := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)

	if !DatesEqualUTC(morning, evening) {
		t.Error("same UTC date reported unequal")
	}
	if DatesEqualUTC(evening, nextDay) {
		t.Error("adjacent dates reported equal")
	}
}

func TestTruncateToMinutes(t *testing.T) {
	in := time.Date(2025, 3, 10, 12, 34, 56, 789, time.UTC)
	want := time.Date(2025, 3, 10, 12, 34, 0, 0, time.UTC)
	if got := TruncateToMinutes(in); !got.Equal(want) {
		t.Errorf("TruncateToMinutes = %v, want %v", got, want)
	}
}
