package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// PlayerIDKey is the provider-specific key under which the stats API reports
// a player's external id. Values arrive as numbers or numeric strings.
const PlayerIDKey = "xMLBAMID"

// LeaderRecord is one row from a stats leaderboard fetch: a flat mapping of
// stat code to value. The stat universe differs between batting and pitching
// datasets, so rows stay dynamic rather than being forced into a struct.
type LeaderRecord map[string]any

// LeaderResponse is the envelope the stats API and the blob cache share:
// {"data": [LeaderRecord...]}
type LeaderResponse struct {
	Data []LeaderRecord `json:"data"`
}

// Value returns the raw value for a stat code, reporting whether it was present
func (r LeaderRecord) Value(code string) (any, bool) {
	v, ok := r[code]
	return v, ok
}

// PlayerID returns the record's external player id coerced to an integer.
// Non-numeric ids report false; they are treated as "not found", never a crash.
func (r LeaderRecord) PlayerID() (int, bool) {
	v, ok := r[PlayerIDKey]
	if !ok {
		return 0, false
	}
	return CoerceInt(v)
}

// CoerceInt converts a JSON-decoded value to an int.
// Floats with fractional parts and non-numeric strings report false.
func CoerceInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != float64(int(n)) {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}

// CoerceFloat converts a JSON-decoded value to a float64.
// Non-numeric values report false.
func CoerceFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
