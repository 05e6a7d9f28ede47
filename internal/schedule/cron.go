// Package schedule derives the probables job's cron expression from the
// day's game list.
package schedule

import (
	"errors"
	"fmt"
	"time"

	"mlb_today/pipeline/internal/models"
)

// The probables build runs this far ahead of the day's first pitch
const firstPitchBuffer = 30 * time.Minute

// ErrNoGames signals an empty schedule. Callers skip the reschedule step;
// it is not a failure.
var ErrNoGames = errors.New("no games scheduled")

// Compute derives a six-field cron expression ("run once daily at UTC
// hh:mm:00") from the earliest game start time, minus the first-pitch
// buffer. The earliest game is chosen by comparing the raw ISO-8601
// timestamps; ties keep the first occurrence in input order.
func Compute(games []models.Game) (string, error) {
	if len(games) == 0 {
		return "", ErrNoGames
	}

	earliest := games[0].GameDate
	for _, g := range games[1:] {
		if g.GameDate < earliest {
			earliest = g.GameDate
		}
	}

	return FromTimestamp(earliest, firstPitchBuffer)
}

// FromTimestamp converts an ISO-8601 timestamp into a six-field cron
// expression of the form "0 {minute} {hour} * * *", normalized to UTC after
// subtracting the given duration. The offset in the input is preserved
// during arithmetic, so a 12:10-04:00 start minus 30m yields "0 40 15 * * *".
func FromTimestamp(iso string, subtract time.Duration) (string, error) {
	if iso == "" {
		return "", errors.New("missing game timestamp")
	}

	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return "", fmt.Errorf("could not parse game timestamp %q: %w", iso, err)
	}

	utc := t.Add(-subtract).UTC()
	return fmt.Sprintf("0 %d %d * * *", utc.Minute(), utc.Hour()), nil
}
