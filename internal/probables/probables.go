// Package probables builds the daily matchup report: probable pitchers
// joined against the cached pitching leaderboard, plus the leaderboard
// projections for the email. Everything here is pure; fetching games and
// leaders is the caller's job, which keeps this package testable without
// network or storage stubs.
package probables

import (
	"fmt"
	"strconv"
	"time"

	"mlb_today/pipeline/internal/models"
)

// Display sentinels
const (
	missingValue   = "N/A"
	missingLocale  = "?"
	invalidTime    = "Invalid Time"
	broadcastTV    = "TV"
	sideHome       = "home"
	sideAway       = "away"
)

// BuildMatchups produces one Matchup per game, resolving each side
// independently against the cached pitching leaders
func BuildMatchups(games []models.Game, pitching []models.LeaderRecord) []models.Matchup {
	matchups := make([]models.Matchup, 0, len(games))
	for _, game := range games {
		matchups = append(matchups, models.Matchup{
			Date:  FormatGameTime(game.GameDate),
			Venue: FormatVenue(game.Venue),
			Away:  buildTeam(game.Teams.Away, pitching),
			Home:  buildTeam(game.Teams.Home, pitching),
			Watch: ClassifyBroadcasts(game.Broadcasts),
		})
	}
	return matchups
}

// buildTeam resolves one side of a matchup. The pitcher's name comes from
// the schedule feed; the stat line comes from the leader cache and defaults
// to 0.0 wherever the join misses, so an unassigned or uncached pitcher
// still renders.
func buildTeam(side models.TeamSide, pitching []models.LeaderRecord) models.MatchupTeam {
	var pitcherID *int
	var pitcherName string
	if side.ProbablePitcher != nil {
		pitcherID = side.ProbablePitcher.ID
		pitcherName = side.ProbablePitcher.FullName
	}

	return models.MatchupTeam{
		Abbr:   side.Team.Abbreviation,
		Record: formatRecord(side.LeagueRecord),
		Pitcher: models.PitcherLine{
			Name:   pitcherName,
			Wins:   statOrZero("W", pitcherID, pitching),
			Losses: statOrZero("L", pitcherID, pitching),
			ERA:    statOrZero("ERA", pitcherID, pitching),
			XFIP:   statOrZero("xFIP", pitcherID, pitching),
			WAR:    statOrZero("WAR", pitcherID, pitching),
		},
	}
}

// formatRecord renders win/loss counts, keeping "no data" distinct from 0
func formatRecord(rec *models.LeagueRecord) models.TeamRecord {
	out := models.TeamRecord{Wins: missingValue, Losses: missingValue}
	if rec == nil {
		return out
	}
	if rec.Wins != nil {
		out.Wins = strconv.Itoa(*rec.Wins)
	}
	if rec.Losses != nil {
		out.Losses = strconv.Itoa(*rec.Losses)
	}
	return out
}

// lookupStat scans the leader cache for the first record whose external id,
// coerced to an integer, equals playerID. A nil playerID misses immediately;
// a record with a non-integer id is skipped without aborting the scan.
func lookupStat(code string, playerID *int, leaders []models.LeaderRecord) (any, bool) {
	if playerID == nil {
		return nil, false
	}
	for _, rec := range leaders {
		id, ok := rec.PlayerID()
		if !ok || id != *playerID {
			continue
		}
		return rec.Value(code)
	}
	return nil, false
}

// statOrZero applies the display policy for pitcher stats: any miss or
// non-numeric source value becomes 0.0 so rendering never breaks
func statOrZero(code string, playerID *int, leaders []models.LeaderRecord) float64 {
	v, ok := lookupStat(code, playerID, leaders)
	if !ok {
		return 0
	}
	f, ok := models.CoerceFloat(v)
	if !ok {
		return 0
	}
	return f
}

// FormatVenue renders "Name, (City, ST)". Missing sub-fields degrade to
// their sentinels instead of failing the build.
func FormatVenue(v models.Venue) string {
	name := v.Name
	if name == "" {
		name = missingValue
	}
	city := v.Location.City
	if city == "" {
		city = missingLocale
	}
	state := v.Location.State
	if state == "" {
		state = missingLocale
	}
	return fmt.Sprintf("%s, (%s, %s)", name, city, state)
}

// FormatGameTime converts an ISO-8601 start time to a 12-hour clock with an
// AM/PM suffix and no leading zero, e.g. "6:40 PM". An unparsable input
// passes through as the "Invalid Time" sentinel.
func FormatGameTime(iso string) string {
	if iso == "" {
		return missingValue
	}
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return invalidTime
	}
	return t.Format("3:04 PM")
}

// ClassifyBroadcasts buckets TV call signs by who carries the game.
// The national flag is checked before home/away, and a call sign enters at
// most one bucket: the first classification wins. An empty or absent
// broadcast list yields nil rather than an empty grouping.
func ClassifyBroadcasts(broadcasts []models.Broadcast) *models.BroadcastGrouping {
	if len(broadcasts) == 0 {
		return nil
	}

	grouping := &models.BroadcastGrouping{
		Home:     []string{},
		Away:     []string{},
		National: []string{},
		Misc:     []string{},
	}

	seen := make(map[string]bool)
	for _, b := range broadcasts {
		if b.Type != broadcastTV {
			continue
		}
		if b.CallSign == "" || seen[b.CallSign] {
			continue
		}
		seen[b.CallSign] = true

		switch {
		case b.IsNational:
			grouping.National = append(grouping.National, b.CallSign)
		case b.HomeAway == sideHome:
			grouping.Home = append(grouping.Home, b.CallSign)
		case b.HomeAway == sideAway:
			grouping.Away = append(grouping.Away, b.CallSign)
		default:
			grouping.Misc = append(grouping.Misc, b.CallSign)
		}
	}

	return grouping
}
