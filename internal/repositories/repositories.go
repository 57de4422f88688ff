// package repositories provides persistence layer implementations for session and thumbnail state.
package repositories

import (
	"database/sql"
	"time"
)

// nullTime converts a zero time to NULL and everything else to UTC.
func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
