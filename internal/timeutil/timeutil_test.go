package timeutil

import (
	"testing"
	"time"
)

func TestNaiveAsUTC_KeepsWallClock(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Moscow")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	naive := time.Date(2024, 3, 15, 9, 30, 45, 0, loc)

	got := NaiveAsUTC(naive)

	if got.Location() != time.UTC {
		t.Fatalf("expected UTC location, got %v", got.Location())
	}
	if got.Year() != 2024 || got.Month() != 3 || got.Day() != 15 ||
		got.Hour() != 9 || got.Minute() != 30 || got.Second() != 45 {
		t.Fatalf("wall clock changed: %v", got)
	}
}

func TestToUTC_PreservesInstant(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	aware := time.Date(2024, 6, 1, 18, 0, 0, 0, loc)

	got := ToUTC(aware)

	if got.Location() != time.UTC {
		t.Fatalf("expected UTC location, got %v", got.Location())
	}
	if !got.Equal(aware) {
		t.Fatalf("instant changed: %v vs %v", got, aware)
	}
	// Round trip through another zone yields the same instant.
	back := ToUTC(got.In(loc))
	if !back.Equal(got) {
		t.Fatalf("round trip changed instant: %v vs %v", back, got)
	}
}

func TestNoonUTC(t *testing.T) {
	d := time.Date(2024, 1, 2, 23, 59, 59, 0, time.UTC)
	got := NoonUTC(d)
	want := time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}
