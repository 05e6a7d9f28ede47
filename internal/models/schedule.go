package models

// ScheduleResponse is the envelope returned by the StatsAPI schedule endpoint.
// The pipeline only ever requests a single day, so Dates holds at most one entry.
type ScheduleResponse struct {
	Dates []ScheduleDate `json:"dates"`
}

// ScheduleDate is one calendar day of games
type ScheduleDate struct {
	Date  string `json:"date"`
	Games []Game `json:"games"`
}

// Game represents a single scheduled game as returned by the schedule API.
// Immutable once fetched; only derived artifacts are persisted.
type Game struct {
	GamePk     int         `json:"gamePk"`
	GameDate   string      `json:"gameDate"` // ISO-8601 with offset
	Teams      GameTeams   `json:"teams"`
	Venue      Venue       `json:"venue"`
	Broadcasts []Broadcast `json:"broadcasts"`
}

// GameTeams holds both sides of a matchup
type GameTeams struct {
	Away TeamSide `json:"away"`
	Home TeamSide `json:"home"`
}

// TeamSide is one team's entry in a game, with its season record and
// the probable starting pitcher if one has been named
type TeamSide struct {
	Team            TeamInfo      `json:"team"`
	LeagueRecord    *LeagueRecord `json:"leagueRecord,omitempty"`
	ProbablePitcher *PlayerRef    `json:"probablePitcher,omitempty"`
}

// TeamInfo is the hydrated team detail
type TeamInfo struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
}

// LeagueRecord is a team's win/loss record. Fields are pointers because the
// schedule API occasionally omits them; a missing count renders as "N/A"
// downstream, which is distinct from 0 wins.
type LeagueRecord struct {
	Wins   *int `json:"wins,omitempty"`
	Losses *int `json:"losses,omitempty"`
}

// PlayerRef identifies a probable pitcher. ID is nullable because some
// probables have no assigned pitcher yet.
type PlayerRef struct {
	ID       *int   `json:"id,omitempty"`
	FullName string `json:"fullName"`
}

// Venue is the hydrated venue detail for a game
type Venue struct {
	Name     string        `json:"name"`
	Location VenueLocation `json:"location"`
}

// VenueLocation holds the venue's city and state
type VenueLocation struct {
	City  string `json:"city"`
	State string `json:"stateAbbrev"`
}

// Broadcast is one broadcast entry for a game
type Broadcast struct {
	CallSign   string `json:"callSign"`
	Type       string `json:"type"` // "TV", "AM", "FM", ...
	IsNational bool   `json:"isNational"`
	HomeAway   string `json:"homeAway"` // "home", "away", or neither
}
