package storage

import (
	"context"
	"time"
)

// User mirrors the profile the transport supplies on first contact.
// Registration is insert-if-absent: attributes are never overwritten.
type User struct {
	ID           int64
	IsBot        bool
	FirstName    string
	LastName     string
	Username     string
	LanguageCode string
}

// Measurement is one self-reported sample. Records are immutable once
// written. Timestamp is always an unambiguous UTC instant; every write
// path normalizes before persisting. A zero Timestamp on insert means
// "now". State and ErrorMessage are optional annotations.
type Measurement struct {
	ID           int64
	UserID       int64
	Timestamp    time.Time
	Value        int
	State        string
	ErrorMessage string
}

// Point is a (timestamp, value) pair as returned by windowed queries.
type Point struct {
	Timestamp time.Time
	Value     int
}

// Store abstracts persistence of users and measurements.
// Implementations must be safe for concurrent use. The store does not
// validate the measurement value range: it is a trusted-input log, and
// range enforcement belongs to the interactive flow and the importer.
type Store interface {
	// Init idempotently creates the schema. Safe to call repeatedly.
	Init(ctx context.Context) error
	// UpsertUser inserts the user if absent; a duplicate id is a no-op.
	UpsertUser(ctx context.Context, u User) error
	// AddMeasurement appends an immutable record, flushed before return.
	AddMeasurement(ctx context.Context, m Measurement) error
	// Measurements returns (timestamp, value) pairs for the user,
	// most-recent-first. windowDays > 0 restricts to records within that
	// many days of the current UTC instant (inclusive at the boundary);
	// windowDays <= 0 returns everything.
	Measurements(ctx context.Context, userID int64, windowDays int) ([]Point, error)
	// UserIDs lists every registered user id.
	UserIDs(ctx context.Context) ([]int64, error)
}
