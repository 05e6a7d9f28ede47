package models

// Matchup is the derived, per-game view rendered into the daily email
type Matchup struct {
	Date  string             `json:"date"`  // local time, 12-hour clock
	Venue string             `json:"venue"` // "Name, (City, ST)"
	Away  MatchupTeam        `json:"away"`
	Home  MatchupTeam        `json:"home"`
	Watch *BroadcastGrouping `json:"watch,omitempty"`
}

// MatchupTeam is one side of a matchup with its record and pitcher stat line
type MatchupTeam struct {
	Abbr    string      `json:"abbr"`
	Record  TeamRecord  `json:"record"`
	Pitcher PitcherLine `json:"pitcher"`
}

// TeamRecord holds win/loss counts as display strings.
// A missing count is the literal sentinel "N/A", never 0.
type TeamRecord struct {
	Wins   string `json:"wins"`
	Losses string `json:"losses"`
}

// PitcherLine is the probable pitcher's display stat line. Numeric fields
// default to 0.0 when the pitcher is unassigned or absent from the leader
// cache; Name stays empty only when no pitcher has been named.
type PitcherLine struct {
	Name   string  `json:"name"`
	Wins   float64 `json:"wins"`
	Losses float64 `json:"losses"`
	ERA    float64 `json:"era"`
	XFIP   float64 `json:"xfip"`
	WAR    float64 `json:"war"`
}

// BroadcastGrouping buckets TV call signs by who carries the game.
// A call sign appears in exactly one bucket; national wins.
type BroadcastGrouping struct {
	Home     []string `json:"home"`
	Away     []string `json:"away"`
	National []string `json:"national"`
	Misc     []string `json:"misc"`
}

// EmailData is the sole persisted pipeline output, overwritten daily and
// consumed by the email stage
type EmailData struct {
	Probables []Matchup        `json:"probables"`
	Batting   []map[string]any `json:"batting"`
	Pitching  []map[string]any `json:"pitching"`
}
