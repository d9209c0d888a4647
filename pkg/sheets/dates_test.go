package sheets

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	march15 := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		in     string
		want   time.Time
		wantOK bool
	}{
		{"15-03-2026", march15, true},
		{"3/15/2026", march15, true},
		{"  15-03-2026  ", march15, true},
		{"2026-03-15", march15, true},
		{"15.03.2026", march15, true},
		{"15 marzo 2026", time.Time{}, false},
		{"45000", time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC), true},
		// Only one reading is a valid date, so month first wins.
		{"02-13-2026", time.Date(2026, 2, 13, 0, 0, 0, 0, time.UTC), true},
		{"12-31-2026", time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC), true},
		{"3/15/2026 0:00:00", march15, true},
		{"2/13/26", time.Date(2026, 2, 13, 0, 0, 0, 0, time.UTC), true},
		{"03.15.2026", march15, true},
		// Both readings are valid: day first.
		{"03-04-2026", time.Date(2026, 4, 3, 0, 0, 0, 0, time.UTC), true},
		{"4/3/26", time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC), true},
		{"15/03/2026 08:30:00", march15, true},
		{"13-13-2026", time.Time{}, false},
		// Slashes are read month first.
		{"3/4/2026", time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC), true},
		{"", time.Time{}, false},
		{"   ", time.Time{}, false},
		{"pendiente", time.Time{}, false},
		{"12", time.Time{}, false},
	}
	for _, tt := range tests {
		got, ok := ParseDate(tt.in)
		if ok != tt.wantOK {
			t.Errorf("ParseDate(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			continue
		}
		if ok && !got.Equal(tt.want) {
			t.Errorf("ParseDate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
