package email

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mlb_today/pipeline/internal/models"
)

func TestParseRecipients(t *testing.T) {
	assert.Nil(t, ParseRecipients(""))
	assert.Equal(t, []string{"a@example.com"}, ParseRecipients("a@example.com"))
	assert.Equal(t,
		[]string{"a@example.com", "b@example.com"},
		ParseRecipients(" a@example.com , b@example.com "))
	assert.Equal(t,
		[]string{"a@example.com"},
		ParseRecipients("a@example.com,,  ,"))
}

func TestComposer_Subject(t *testing.T) {
	c, err := NewComposer()
	require.NoError(t, err)

	day := time.Date(2025, time.July, 3, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, "MLB Today for July 3, 2025", c.Subject(day))
}

func TestComposer_Render(t *testing.T) {
	c, err := NewComposer()
	require.NoError(t, err)

	data := &models.EmailData{
		Probables: []models.Matchup{
			{
				Date:  "6:40 PM",
				Venue: "Fenway Park, (Boston, MA)",
				Home: models.MatchupTeam{
					Abbr:   "BOS",
					Record: models.TeamRecord{Wins: "45", Losses: "36"},
					Pitcher: models.PitcherLine{
						Name: "Ace Starter", Wins: 11, Losses: 3, ERA: 2.31, XFIP: 2.87, WAR: 4.2,
					},
				},
				Away: models.MatchupTeam{
					Abbr:    "NYY",
					Record:  models.TeamRecord{Wins: "N/A", Losses: "N/A"},
					Pitcher: models.PitcherLine{},
				},
				Watch: &models.BroadcastGrouping{
					National: []string{"ESPN"},
					Home:     []string{"NESN"},
				},
			},
		},
		Batting: []map[string]any{
			{"name": "Top Batter", "team": "LAD", "avg": 0.330, "hr": 28,
				"obp": nil, "slg": nil, "ops": nil, "babip": nil, "war": 6.1},
		},
		Pitching: []map[string]any{
			{"name": "Ace Starter", "team": "BOS", "w": 11, "l": 3,
				"era": 2.31, "xfip": 2.87, "war": 4.2},
		},
	}

	html, err := c.Render(data)
	require.NoError(t, err)

	assert.Contains(t, html, "Ace Starter")
	assert.Contains(t, html, "Fenway Park, (Boston, MA)")
	assert.Contains(t, html, "BOS (45-36)")
	assert.Contains(t, html, "NYY (N/A-N/A)")
	assert.Contains(t, html, "TBD", "An unnamed pitcher renders as TBD")
	assert.Contains(t, html, "National: ESPN")
	assert.Contains(t, html, "Top Batter")
	assert.NotContains(t, html, "&lt;nil&gt;", "Absent leaderboard stats render blank")
}

func TestComposer_RenderEmptyDay(t *testing.T) {
	c, err := NewComposer()
	require.NoError(t, err)

	html, err := c.Render(&models.EmailData{})
	require.NoError(t, err)
	assert.Contains(t, html, "No games scheduled today.")
}
