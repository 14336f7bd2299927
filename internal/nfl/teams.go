// Package nfl holds the static NFL reference data shared across the service.
// The table is initialized once and never mutated, so it needs no locking.
package nfl

import "strings"

// TeamInfo describes one franchise in the reference table.
type TeamInfo struct {
	Abbreviation string
	City         string
	Name         string
	Conference   string
	Division     string
}

// Division labels used in the reference table.
const (
	ConferenceAFC = "AFC"
	ConferenceNFC = "NFC"
)

// Teams is the canonical 32-team table. Abbreviations follow the league's
// official style; provider-specific variants go through Normalize first.
var Teams = []TeamInfo{
	{"BUF", "Buffalo", "Bills", ConferenceAFC, "East"},
	{"MIA", "Miami", "Dolphins", ConferenceAFC, "East"},
	{"NE", "New England", "Patriots", ConferenceAFC, "East"},
	{"NYJ", "New York", "Jets", ConferenceAFC, "East"},
	{"BAL", "Baltimore", "Ravens", ConferenceAFC, "North"},
	{"CIN", "Cincinnati", "Bengals", ConferenceAFC, "North"},
	{"CLE", "Cleveland", "Browns", ConferenceAFC, "North"},
	{"PIT", "Pittsburgh", "Steelers", ConferenceAFC, "North"},
	{"HOU", "Houston", "Texans", ConferenceAFC, "South"},
	{"IND", "Indianapolis", "Colts", ConferenceAFC, "South"},
	{"JAX", "Jacksonville", "Jaguars", ConferenceAFC, "South"},
	{"TEN", "Tennessee", "Titans", ConferenceAFC, "South"},
	{"DEN", "Denver", "Broncos", ConferenceAFC, "West"},
	{"KC", "Kansas City", "Chiefs", ConferenceAFC, "West"},
	{"LV", "Las Vegas", "Raiders", ConferenceAFC, "West"},
	{"LAC", "Los Angeles", "Chargers", ConferenceAFC, "West"},
	{"DAL", "Dallas", "Cowboys", ConferenceNFC, "East"},
	{"NYG", "New York", "Giants", ConferenceNFC, "East"},
	{"PHI", "Philadelphia", "Eagles", ConferenceNFC, "East"},
	{"WAS", "Washington", "Commanders", ConferenceNFC, "East"},
	{"CHI", "Chicago", "Bears", ConferenceNFC, "North"},
	{"DET", "Detroit", "Lions", ConferenceNFC, "North"},
	{"GB", "Green Bay", "Packers", ConferenceNFC, "North"},
	{"MIN", "Minnesota", "Vikings", ConferenceNFC, "North"},
	{"ATL", "Atlanta", "Falcons", ConferenceNFC, "South"},
	{"CAR", "Carolina", "Panthers", ConferenceNFC, "South"},
	{"NO", "New Orleans", "Saints", ConferenceNFC, "South"},
	{"TB", "Tampa Bay", "Buccaneers", ConferenceNFC, "South"},
	{"ARI", "Arizona", "Cardinals", ConferenceNFC, "West"},
	{"LAR", "Los Angeles", "Rams", ConferenceNFC, "West"},
	{"SF", "San Francisco", "49ers", ConferenceNFC, "West"},
	{"SEA", "Seattle", "Seahawks", ConferenceNFC, "West"},
}

var byAbbr = func() map[string]TeamInfo {
	m := make(map[string]TeamInfo, len(Teams))
	for _, t := range Teams {
		m[t.Abbreviation] = t
	}
	return m
}()

// aliases maps provider-specific abbreviations to the canonical ones.
// Upstream sources are inconsistent here the same way ESPN is for the NBA.
var aliases = map[string]string{
	"WSH": "WAS",
	"JAC": "JAX",
	"LA":  "LAR",
	"OAK": "LV",
	"SD":  "LAC",
	"STL": "LAR",
	"ARZ": "ARI",
	"GNB": "GB",
	"KAN": "KC",
	"NOR": "NO",
	"NWE": "NE",
	"SFO": "SF",
	"TAM": "TB",
	"LVR": "LV",
}

// Normalize maps a raw provider abbreviation onto the canonical form.
// Unknown input is returned upper-cased and trimmed; IsValid decides whether
// it resolves.
func Normalize(abbr string) string {
	abbr = strings.ToUpper(strings.TrimSpace(abbr))
	if canonical, ok := aliases[abbr]; ok {
		return canonical
	}
	return abbr
}

// IsValid reports whether abbr (case-insensitive, alias-aware) names one of
// the 32 franchises.
func IsValid(abbr string) bool {
	_, ok := byAbbr[Normalize(abbr)]
	return ok
}

// Lookup returns the reference entry for abbr.
func Lookup(abbr string) (TeamInfo, bool) {
	info, ok := byAbbr[Normalize(abbr)]
	return info, ok
}

// GetDivision returns the (conference, division) pair for abbr.
// Both strings are empty when the abbreviation is unknown.
func GetDivision(abbr string) (conference string, division string, ok bool) {
	info, found := byAbbr[Normalize(abbr)]
	if !found {
		return "", "", false
	}
	return info.Conference, info.Division, true
}

// Divisions groups the reference table by "CONF DIVISION" (e.g. "NFC East"),
// preserving table order within each group. Used by the reporting endpoints.
func Divisions() map[string][]TeamInfo {
	groups := make(map[string][]TeamInfo, 8)
	for _, t := range Teams {
		key := t.Conference + " " + t.Division
		groups[key] = append(groups[key], t)
	}
	return groups
}
