package storage

import (
	"context"
	"testing"
	"time"
)

func openTestStore(t *testing.T, name string) *SQLiteStore {
	t.Helper()
	// Shared cache keeps the same in-memory DB across pooled connections.
	s, err := OpenSQLite("file:" + name + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	return s
}

func TestInit_Idempotent(t *testing.T) {
	s := openTestStore(t, "init")
	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("second init: %v", err)
	}
}

func TestUpsertUser_DoesNotOverwrite(t *testing.T) {
	s := openTestStore(t, "upsert")
	ctx := context.Background()

	if err := s.UpsertUser(ctx, User{ID: 1, FirstName: "Anna", Username: "anna"}); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if err := s.UpsertUser(ctx, User{ID: 1, FirstName: "Other", Username: "other"}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	var firstName, username string
	err := s.db.QueryRow(`SELECT first_name, username FROM users WHERE id = 1`).Scan(&firstName, &username)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if firstName != "Anna" || username != "anna" {
		t.Fatalf("original attributes overwritten: %s %s", firstName, username)
	}
}

func TestAddMeasurement_DefaultsToNowUTC(t *testing.T) {
	s := openTestStore(t, "nowutc")
	ctx := context.Background()

	before := time.Now().UTC().Add(-time.Second)
	if err := s.AddMeasurement(ctx, Measurement{UserID: 7, Value: 2}); err != nil {
		t.Fatalf("add: %v", err)
	}
	after := time.Now().UTC().Add(time.Second)

	pts, err := s.Measurements(ctx, 7, 0)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(pts) != 1 {
		t.Fatalf("expected 1 point, got %d", len(pts))
	}
	ts := pts[0].Timestamp
	if ts.Location() != time.UTC {
		t.Fatalf("timestamp not UTC: %v", ts)
	}
	if ts.Before(before) || ts.After(after) {
		t.Fatalf("timestamp %v outside [%v, %v]", ts, before, after)
	}
}

func TestAddMeasurement_NormalizesZoneAware(t *testing.T) {
	s := openTestStore(t, "normalize")
	ctx := context.Background()

	loc, err := time.LoadLocation("Europe/Moscow")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	aware := time.Date(2024, 5, 10, 15, 0, 0, 0, loc)
	if err := s.AddMeasurement(ctx, Measurement{UserID: 7, Value: 1, Timestamp: aware}); err != nil {
		t.Fatalf("add: %v", err)
	}

	pts, err := s.Measurements(ctx, 7, 0)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(pts) != 1 {
		t.Fatalf("expected 1 point, got %d", len(pts))
	}
	if !pts[0].Timestamp.Equal(aware) {
		t.Fatalf("instant changed: %v vs %v", pts[0].Timestamp, aware)
	}
	if pts[0].Timestamp.Location() != time.UTC {
		t.Fatalf("stored timestamp not UTC: %v", pts[0].Timestamp)
	}
}

func TestAddMeasurement_OutOfRangeAccepted(t *testing.T) {
	// Range enforcement is a caller responsibility, not a store invariant.
	s := openTestStore(t, "range")
	ctx := context.Background()

	if err := s.AddMeasurement(ctx, Measurement{UserID: 7, Value: 99}); err != nil {
		t.Fatalf("add out-of-range: %v", err)
	}
	pts, err := s.Measurements(ctx, 7, 0)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(pts) != 1 || pts[0].Value != 99 {
		t.Fatalf("out-of-range value not stored: %+v", pts)
	}
}

func TestMeasurements_OrderAndWindow(t *testing.T) {
	s := openTestStore(t, "window")
	ctx := context.Background()
	now := time.Now().UTC()

	for _, m := range []Measurement{
		{UserID: 7, Value: 1, Timestamp: now.AddDate(0, 0, -10)},
		{UserID: 7, Value: 2, Timestamp: now.AddDate(0, 0, -6)},
		{UserID: 7, Value: 3, Timestamp: now.Add(-time.Hour)},
		{UserID: 8, Value: -1, Timestamp: now.Add(-time.Hour)},
	} {
		if err := s.AddMeasurement(ctx, m); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	all, err := s.Measurements(ctx, 7, 0)
	if err != nil {
		t.Fatalf("query all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 points for user 7, got %d", len(all))
	}
	if all[0].Value != 3 || all[1].Value != 2 || all[2].Value != 1 {
		t.Fatalf("not most-recent-first: %+v", all)
	}

	windowed, err := s.Measurements(ctx, 7, 7)
	if err != nil {
		t.Fatalf("query windowed: %v", err)
	}
	if len(windowed) != 2 {
		t.Fatalf("expected 2 points within 7 days, got %d: %+v", len(windowed), windowed)
	}
	for _, p := range windowed {
		if p.Value == 1 {
			t.Fatalf("10-day-old record leaked into 7-day window")
		}
	}
}

func TestMeasurements_WindowBoundaryInclusive(t *testing.T) {
	s := openTestStore(t, "boundary")
	ctx := context.Background()

	// Pin the clock to a whole second so the stored timestamp string and
	// the query cutoff string are equal and the >= comparison decides.
	fixed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	boundary := fixed.AddDate(0, 0, -7)
	for _, m := range []Measurement{
		{UserID: 7, Value: 2, Timestamp: boundary},
		{UserID: 7, Value: -2, Timestamp: boundary.Add(-time.Second)},
	} {
		if err := s.AddMeasurement(ctx, m); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	windowed, err := s.Measurements(ctx, 7, 7)
	if err != nil {
		t.Fatalf("query windowed: %v", err)
	}
	if len(windowed) != 1 {
		t.Fatalf("expected exactly the boundary record, got %+v", windowed)
	}
	if windowed[0].Value != 2 || !windowed[0].Timestamp.Equal(boundary) {
		t.Fatalf("record exactly at now-7d must be included: %+v", windowed[0])
	}
}

func TestMeasurements_EmptyForUnknownUser(t *testing.T) {
	s := openTestStore(t, "empty")
	pts, err := s.Measurements(context.Background(), 12345, 0)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(pts) != 0 {
		t.Fatalf("expected empty result, got %+v", pts)
	}
}

func TestUserIDs(t *testing.T) {
	s := openTestStore(t, "userids")
	ctx := context.Background()
	for _, id := range []int64{5, 2, 9} {
		if err := s.UpsertUser(ctx, User{ID: id}); err != nil {
			t.Fatalf("upsert %d: %v", id, err)
		}
	}
	ids, err := s.UserIDs(ctx)
	if err != nil {
		t.Fatalf("user ids: %v", err)
	}
	if len(ids) != 3 || ids[0] != 2 || ids[1] != 5 || ids[2] != 9 {
		t.Fatalf("unexpected ids: %v", ids)
	}
}
