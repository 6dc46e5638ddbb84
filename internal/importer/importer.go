package importer

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"mood-bot/internal/storage"
	"mood-bot/internal/timeutil"
)

const dateLayout = "2006-01-02"

// Record is one accepted line of a bulk import block, ready to persist.
type Record struct {
	Line      int
	Timestamp time.Time
	Value     int
}

// ParseBlock splits raw user text into measurement records, one attempted
// per non-empty line. Lines are independent: a malformed line yields an
// error message for its 1-based position and never aborts the rest.
// Format errors (bad split, bad date, bad integer) and range errors are
// worded distinctly so the user can tell garbage from out-of-bounds input.
func ParseBlock(raw string, minValue, maxValue int) ([]Record, []string) {
	var records []Record
	var errs []string

	for i, line := range strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n") {
		lineNo := i + 1
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		parts := strings.SplitN(line, ",", 2)
		if len(parts) != 2 {
			errs = append(errs, formatError(lineNo))
			continue
		}
		dateStr := strings.TrimSpace(parts[0])
		valueStr := strings.TrimSpace(parts[1])

		date, err := time.Parse(dateLayout, dateStr)
		if err != nil {
			errs = append(errs, formatError(lineNo))
			continue
		}
		value, err := strconv.Atoi(valueStr)
		if err != nil {
			errs = append(errs, formatError(lineNo))
			continue
		}
		if value < minValue || value > maxValue {
			errs = append(errs, fmt.Sprintf("Строка %d: значение должно быть от %d до %d", lineNo, minValue, maxValue))
			continue
		}

		// Day-granularity input is pinned to noon UTC.
		records = append(records, Record{Line: lineNo, Timestamp: timeutil.NoonUTC(date), Value: value})
	}
	return records, errs
}

func formatError(lineNo int) string {
	return fmt.Sprintf("Строка %d: неверный формат данных", lineNo)
}

// Importer persists parsed bulk blocks into a store.
type Importer struct {
	store    storage.Store
	minValue int
	maxValue int
}

func New(store storage.Store, minValue, maxValue int) *Importer {
	return &Importer{store: store, minValue: minValue, maxValue: maxValue}
}

// ImportBlock parses raw text and inserts every accepted record for the
// user. It returns the number of persisted measurements and the ordered
// per-line error descriptions. A failed insert is reported against its
// line like any other error and does not stop the remaining lines.
func (im *Importer) ImportBlock(ctx context.Context, userID int64, raw string) (int, []string) {
	records, errs := ParseBlock(raw, im.minValue, im.maxValue)

	imported := 0
	for _, r := range records {
		m := storage.Measurement{UserID: userID, Value: r.Value, Timestamp: r.Timestamp}
		if err := im.store.AddMeasurement(ctx, m); err != nil {
			errs = append(errs, fmt.Sprintf("Строка %d: %v", r.Line, err))
			continue
		}
		imported++
	}
	return imported, errs
}
