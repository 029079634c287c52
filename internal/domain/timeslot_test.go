package domain

import (
	"errors"
	"testing"
)

func TestNormalizeDate(t *testing.T) {
	t.Parallel()

	t.Run("accepts ISO dates", func(t *testing.T) {
		got, err := NormalizeDate("2025-01-10")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got != "2025-01-10" {
			t.Fatalf("expected 2025-01-10, got %s", got)
		}
	})

	t.Run("accepts DD/MM/YYYY dates", func(t *testing.T) {
		got, err := NormalizeDate("10/01/2025")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got != "2025-01-10" {
			t.Fatalf("expected 2025-01-10, got %s", got)
		}
	})

	t.Run("rejects impossible calendar dates", func(t *testing.T) {
		if _, err := NormalizeDate("2025-13-40"); !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("expected ErrInvalidDate, got %v", err)
		}
	})

	t.Run("rejects other layouts", func(t *testing.T) {
		for _, in := range []string{"", "10-01-2025", "2025/01/10", "Jan 10 2025"} {
			if _, err := NormalizeDate(in); !errors.Is(err, ErrInvalidDate) {
				t.Fatalf("expected ErrInvalidDate for %q, got %v", in, err)
			}
		}
	})
}

func TestNormalizeClock(t *testing.T) {
	t.Parallel()

	got, err := NormalizeClock("09:00")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != "09:00" {
		t.Fatalf("expected 09:00, got %s", got)
	}

	for _, in := range []string{"", "9am", "25:00", "09:61"} {
		if _, err := NormalizeClock(in); !errors.Is(err, ErrInvalidTime) {
			t.Fatalf("expected ErrInvalidTime for %q, got %v", in, err)
		}
	}
}

func TestEndTime(t *testing.T) {
	t.Parallel()

	t.Run("carries minute overflow into hours", func(t *testing.T) {
		got, err := EndTime("14:00", 90)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got != "15:30" {
			t.Fatalf("expected 15:30, got %s", got)
		}
	})

	t.Run("exact hour boundary", func(t *testing.T) {
		got, err := EndTime("09:30", 30)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got != "10:00" {
			t.Fatalf("expected 10:00, got %s", got)
		}
	})

	t.Run("rejects intervals ending past midnight", func(t *testing.T) {
		if _, err := EndTime("23:50", 30); !errors.Is(err, ErrEndsPastMidnight) {
			t.Fatalf("expected ErrEndsPastMidnight, got %v", err)
		}
		// Ending exactly at midnight crosses the day boundary too.
		if _, err := EndTime("23:30", 30); !errors.Is(err, ErrEndsPastMidnight) {
			t.Fatalf("expected ErrEndsPastMidnight, got %v", err)
		}
	})

	t.Run("last representable interval of the day", func(t *testing.T) {
		got, err := EndTime("23:29", 30)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got != "23:59" {
			t.Fatalf("expected 23:59, got %s", got)
		}
	})
}
