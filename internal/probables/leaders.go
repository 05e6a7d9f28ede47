package probables

import "mlb_today/pipeline/internal/models"

// DefaultLeaderboardSize is the number of rows projected for the email
const DefaultLeaderboardSize = 25

// FieldMapping projects one provider stat code to an output field name
type FieldMapping struct {
	Out  string
	Code string
}

// FieldSet is a fixed projection applied to each leader record
type FieldSet []FieldMapping

// BattingFields is the projection for the offensive WAR leaderboard
var BattingFields = FieldSet{
	{"name", "PlayerName"},
	{"team", "TeamNameAbb"},
	{"avg", "AVG"},
	{"hr", "HR"},
	{"obp", "OBP"},
	{"slg", "SLG"},
	{"ops", "OPS"},
	{"babip", "BABIP"},
	{"war", "WAR"},
}

// PitchingFields is the projection for the pitching WAR leaderboard
var PitchingFields = FieldSet{
	{"name", "PlayerName"},
	{"team", "TeamNameAbb"},
	{"w", "W"},
	{"l", "L"},
	{"era", "ERA"},
	{"xfip", "xFIP"},
	{"war", "WAR"},
}

// TopN projects the first n leader records. The upstream fetch is sorted by
// the requested stat, so input order is trusted and never re-sorted. Missing
// fields stay nil (rendered blank) rather than defaulting; these rows are
// display-only, unlike pitcher stat lines. Short inputs return whole.
func TopN(leaders []models.LeaderRecord, n int, fields FieldSet) []map[string]any {
	if n < 0 {
		n = 0
	}
	if n > len(leaders) {
		n = len(leaders)
	}

	rows := make([]map[string]any, 0, n)
	for _, rec := range leaders[:n] {
		row := make(map[string]any, len(fields))
		for _, f := range fields {
			v, ok := rec.Value(f.Code)
			if !ok {
				row[f.Out] = nil
				continue
			}
			row[f.Out] = v
		}
		rows = append(rows, row)
	}
	return rows
}
