package client

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"mlb_today/pipeline/internal/models"
)

// ScheduleClient fetches the daily game schedule from the MLB StatsAPI
type ScheduleClient struct {
	endpoint string
	timeZone string
	getter   *httpGetter
}

// NewScheduleClient creates a schedule client for the given endpoint.
// timeZone is passed through to the API so game dates come back with the
// expected local offset.
func NewScheduleClient(endpoint, timeZone string, timeout time.Duration) *ScheduleClient {
	return &ScheduleClient{
		endpoint: endpoint,
		timeZone: timeZone,
		getter:   newHTTPGetter(timeout),
	}
}

// FetchSchedule fetches the game list for a single date (YYYY-MM-DD).
// A day with no games returns an empty slice, not an error.
func (c *ScheduleClient) FetchSchedule(ctx context.Context, date string) ([]models.Game, error) {
	params := map[string]string{
		"sportId":   "1",
		"startDate": date,
		"endDate":   date,
		"timeZone":  c.timeZone,
		"sortBy":    "gameDate,gameType",
		"hydrate":   "team,broadcasts(all),venue(location),probablePitcher",
	}

	body, err := c.getter.get(ctx, c.endpoint, params)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch schedule: %w", err)
	}

	var resp models.ScheduleResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schedule: %w", err)
	}

	if len(resp.Dates) == 0 {
		log.Debug().Str("date", date).Msg("Schedule has no dates entry")
		return nil, nil
	}

	return resp.Dates[0].Games, nil
}
