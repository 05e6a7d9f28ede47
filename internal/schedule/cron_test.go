package schedule

import (
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mlb_today/pipeline/internal/models"
)

func TestCompute_SingleGame(t *testing.T) {
	games := []models.Game{
		{GameDate: "2025-07-03T12:10:00-04:00"},
	}

	expr, err := Compute(games)
	require.NoError(t, err)

	// 12:10-04:00 is 16:10 UTC; minus the 30 minute buffer is 15:40 UTC
	assert.Equal(t, "0 40 15 * * *", expr)
}

func TestCompute_PicksEarliestGame(t *testing.T) {
	games := []models.Game{
		{GameDate: "2025-07-03T19:05:00-04:00"},
		{GameDate: "2025-07-03T12:10:00-04:00"},
		{GameDate: "2025-07-03T13:40:00-07:00"},
	}

	expr, err := Compute(games)
	require.NoError(t, err)

	// Earliest by lexicographic ISO comparison is the 12:10 eastern start
	assert.Equal(t, "0 40 15 * * *", expr)
}

func TestCompute_TieKeepsFirstOccurrence(t *testing.T) {
	games := []models.Game{
		{GamePk: 1, GameDate: "2025-07-03T12:10:00-04:00"},
		{GamePk: 2, GameDate: "2025-07-03T12:10:00-04:00"},
	}

	expr, err := Compute(games)
	require.NoError(t, err)
	assert.Equal(t, "0 40 15 * * *", expr)
}

func TestCompute_EmptySchedule(t *testing.T) {
	expr, err := Compute(nil)
	assert.ErrorIs(t, err, ErrNoGames)
	assert.Empty(t, expr)
}

func TestCompute_MissingTimestamp(t *testing.T) {
	games := []models.Game{{GameDate: ""}}

	expr, err := Compute(games)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoGames)
	assert.Empty(t, expr)
}

func TestCompute_MalformedTimestamp(t *testing.T) {
	games := []models.Game{{GameDate: "not-a-timestamp"}}

	expr, err := Compute(games)
	assert.Error(t, err)
	assert.Empty(t, expr)
}

func TestFromTimestamp_ZuluSuffix(t *testing.T) {
	expr, err := FromTimestamp("2024-07-20T17:05:00Z", 0)
	require.NoError(t, err)
	assert.Equal(t, "0 5 17 * * *", expr)
}

func TestFromTimestamp_BufferRollsAcrossMidnight(t *testing.T) {
	expr, err := FromTimestamp("2025-07-04T00:10:00Z", 30*time.Minute)
	require.NoError(t, err)

	// The expression wildcards day/month, so only the UTC clock time moves
	assert.Equal(t, "0 40 23 * * *", expr)
}

func TestCompute_OutputParsesAsSixFieldCron(t *testing.T) {
	games := []models.Game{{GameDate: "2025-06-27T18:40:00-04:00"}}

	expr, err := Compute(games)
	require.NoError(t, err)

	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	_, err = parser.Parse(expr)
	assert.NoError(t, err, "Derived expression should be a valid six-field schedule")
}
