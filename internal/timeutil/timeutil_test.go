package timeutil

import (
	"testing"
	"time"
)

func TestParseAndFormatDate(t *testing.T) {
	d, err := ParseDate("2025-09-06")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if FormatDate(d) != "2025-09-06" {
		t.Fatalf("unexpected format %s", FormatDate(d))
	}
	if _, err := ParseDate("09/06/2025"); err == nil {
		t.Fatal("expected error for non-ISO date")
	}
}

func TestParseTimestamp(t *testing.T) {
	for _, in := range []string{
		"2025-08-30T14:00:00Z",
		"2025-08-30T14:00:00+00:00",
		"2025-08-30T14:00:00.123456",
		"2025-08-30 14:00:00",
		"2025-08-30",
	} {
		got, err := ParseTimestamp(in)
		if err != nil {
			t.Fatalf("ParseTimestamp(%q): %v", in, err)
		}
		if got.Year() != 2025 || got.Month() != time.August || got.Day() != 30 {
			t.Fatalf("ParseTimestamp(%q) = %v", in, got)
		}
	}
	if _, err := ParseTimestamp("last tuesday"); err == nil {
		t.Fatal("expected error")
	}
}

func TestSeasonYear(t *testing.T) {
	now := time.Date(2031, 1, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		in   string
		want int
	}{
		{"2025-08-30T14:00:00Z", 2025},
		{"", 2031},
		{"garbage", 2031},
	}
	for _, tt := range tests {
		if got := SeasonYear(tt.in, now); got != tt.want {
			t.Fatalf("SeasonYear(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
