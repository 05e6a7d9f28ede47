package client

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"mlb_today/pipeline/internal/models"
)

// Stat categories accepted by the leaders endpoint
const (
	StatsBatting  = "bat"
	StatsPitching = "pit"
)

// StatsClient fetches season leaderboards from the Fangraphs leaders API
type StatsClient struct {
	endpoint string
	getter   *httpGetter
}

// NewStatsClient creates a leaders client for the given endpoint
func NewStatsClient(endpoint string, timeout time.Duration) *StatsClient {
	return &StatsClient{
		endpoint: endpoint,
		getter:   newHTTPGetter(timeout),
	}
}

// FetchLeaders fetches a season leaderboard, pre-sorted by the requested
// stat. The page size is effectively unbounded so one call returns the
// whole qualified pool.
func (c *StatsClient) FetchLeaders(ctx context.Context, position, statsType, season, sortDir, sortStat string) (*models.LeaderResponse, error) {
	params := map[string]string{
		"pos":       position,
		"stats":     statsType,
		"lg":        "all",
		"qual":      "y",
		"season":    season,
		"pageItems": "2000000000",
		"sortDir":   sortDir,
		"sortStat":  sortStat,
	}

	body, err := c.getter.get(ctx, c.endpoint, params)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s leaders: %w", statsType, err)
	}

	var resp models.LeaderResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s leaders: %w", statsType, err)
	}

	return &resp, nil
}
