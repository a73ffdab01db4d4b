package sqlite

import (
	"database/sql"
	"fmt"
	"time"
)

type scanner interface {
	Scan(dest ...any) error
}

// formatTime is the single on-disk timestamp format. RFC3339Nano round-trips
// exactly, which keeps first_seen stable across upserts.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05.000",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized time format: %s", s)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// nullString maps the empty string to SQL NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
