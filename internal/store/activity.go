package store

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// DayLayout is the calendar-day key format used by the activity table
const DayLayout = "2006-01-02"

// MaxDailySeconds caps a single record call and a day's stored total
const MaxDailySeconds = 24 * 60 * 60

// RecordActivity adds seconds to the user's counter for day, creating the
// row on first use, and returns the new total
func (s *SQLiteStore) RecordActivity(ctx context.Context, userID, day string, seconds int64) (Activity, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Activity{}, fmt.Errorf("%w: user is required", ErrInvalid)
	}
	if seconds <= 0 || seconds > MaxDailySeconds {
		return Activity{}, fmt.Errorf("%w: seconds must be between 1 and %d", ErrInvalid, MaxDailySeconds)
	}
	if _, err := time.Parse(DayLayout, day); err != nil {
		return Activity{}, fmt.Errorf("%w: date %q is not YYYY-MM-DD", ErrInvalid, day)
	}

	a := Activity{UserID: userID, Day: day}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO activity (user_id, day, seconds_active, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(user_id, day) DO UPDATE SET
			seconds_active = MIN(seconds_active + excluded.seconds_active, ?),
			updated_at = CURRENT_TIMESTAMP
		RETURNING seconds_active`,
		userID, day, seconds, MaxDailySeconds).Scan(&a.SecondsActive)
	if err != nil {
		return Activity{}, fmt.Errorf("failed to record activity: %w", err)
	}
	return a, nil
}

// ListActivity returns the user's days in [from, to], oldest first. Empty
// bounds are open.
func (s *SQLiteStore) ListActivity(ctx context.Context, userID, from, to string) ([]Activity, error) {
	for _, bound := range []string{from, to} {
		if bound == "" {
			continue
		}
		if _, err := time.Parse(DayLayout, bound); err != nil {
			return nil, fmt.Errorf("%w: date %q is not YYYY-MM-DD", ErrInvalid, bound)
		}
	}

	query := `SELECT user_id, day, seconds_active FROM activity WHERE user_id = ?`
	args := []interface{}{userID}
	if from != "" {
		query += ` AND day >= ?`
		args = append(args, from)
	}
	if to != "" {
		query += ` AND day <= ?`
		args = append(args, to)
	}
	query += ` ORDER BY day`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()

	days := []Activity{}
	for rows.Next() {
		var a Activity
		if err := rows.Scan(&a.UserID, &a.Day, &a.SecondsActive); err != nil {
			return nil, err
		}
		days = append(days, a)
	}
	return days, rows.Err()
}

// Today returns the current UTC day key
func (s *SQLiteStore) Today() string {
	return s.now().UTC().Format(DayLayout)
}
