package espn

import (
	"fmt"
	"strings"
	"time"

	"github.com/kayGweb/gridiron/internal/provider"
)

// ESPN box score category names and stat labels. Labels are resolved
// dynamically per response; ESPN occasionally reorders columns.
const (
	categoryPassing   = "passing"
	categoryRushing   = "rushing"
	categoryReceiving = "receiving"

	statLabelCompAtt = "C/ATT"
	statLabelYards   = "YDS"
	statLabelTD      = "TD"
	statLabelInt     = "INT"
	statLabelCarries = "CAR"
	statLabelRec     = "REC"
)

func parseTeams(payload map[string]interface{}) ([]provider.TeamRecord, error) {
	sports := extractArray(payload, "sports")
	if len(sports) == 0 {
		return nil, fmt.Errorf("teams payload missing sports array")
	}
	leagues := extractArray(asMap(sports[0]), "leagues")
	if len(leagues) == 0 {
		return nil, fmt.Errorf("teams payload missing leagues array")
	}
	entries := extractArray(asMap(leagues[0]), "teams")

	records := make([]provider.TeamRecord, 0, len(entries))
	for _, entry := range entries {
		team := extractMap(asMap(entry), "team")
		if len(team) == 0 {
			continue
		}
		records = append(records, provider.TeamRecord{
			ExternalID:   extractString(team, "id"),
			Abbreviation: extractString(team, "abbreviation"),
			City:         extractString(team, "location"),
			Name:         extractString(team, "name"),
		})
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("teams payload contained no teams")
	}
	return records, nil
}

func parseScoreboard(payload map[string]interface{}, season, week int) ([]provider.GameRecord, error) {
	events := extractArray(payload, "events")

	// A bye-heavy or future week can legitimately be empty.
	records := make([]provider.GameRecord, 0, len(events))
	for _, eventRaw := range events {
		event := asMap(eventRaw)
		record, err := parseEvent(event, season, week)
		if err != nil {
			return nil, fmt.Errorf("event %s: %w", extractString(event, "id"), err)
		}
		records = append(records, record)
	}
	return records, nil
}

func parseEvent(event map[string]interface{}, season, week int) (provider.GameRecord, error) {
	record := provider.GameRecord{
		ExternalID: extractString(event, "id"),
		Season:     season,
		Week:       week,
	}

	if seasonInfo := extractMap(event, "season"); len(seasonInfo) > 0 {
		if year := extractInt(seasonInfo, "year"); year > 0 {
			record.Season = year
		}
	}
	if weekInfo := extractMap(event, "week"); len(weekInfo) > 0 {
		if number := extractInt(weekInfo, "number"); number > 0 {
			record.Week = number
		}
	}

	if dateStr := extractString(event, "date"); dateStr != "" {
		parsed, err := parseEventDate(dateStr)
		if err != nil {
			return record, fmt.Errorf("parse date %q: %w", dateStr, err)
		}
		record.Date = parsed
	}

	competitions := extractArray(event, "competitions")
	if len(competitions) == 0 {
		return record, fmt.Errorf("no competitions")
	}
	comp := asMap(competitions[0])

	status := extractMap(comp, "status")
	statusType := extractMap(status, "type")
	record.Status = extractString(statusType, "name")
	if completed, ok := statusType["completed"].(bool); ok {
		record.Completed = completed
	}

	competitors := extractArray(comp, "competitors")
	if len(competitors) < 2 {
		return record, fmt.Errorf("insufficient competitors")
	}

	for _, competitorRaw := range competitors {
		competitor := asMap(competitorRaw)
		team := extractMap(competitor, "team")
		abbr := extractString(team, "abbreviation")
		score := extractString(competitor, "score")

		switch extractString(competitor, "homeAway") {
		case "home":
			record.HomeTeam = abbr
			record.HomeScore = score
		case "away":
			record.AwayTeam = abbr
			record.AwayScore = score
		}
	}

	if record.HomeTeam == "" || record.AwayTeam == "" {
		return record, fmt.Errorf("missing home/away designation")
	}

	return record, nil
}

// parseEventDate accepts RFC3339 and ESPN's shortened no-seconds variant.
func parseEventDate(dateStr string) (time.Time, error) {
	parsed, err := time.Parse(time.RFC3339, dateStr)
	if err != nil {
		parsed, err = time.Parse("2006-01-02T15:04Z", dateStr)
	}
	return parsed, err
}

// parseBoxScore walks boxscore.players, merging each athlete's passing,
// rushing and receiving lines into a single record per player.
func parseBoxScore(payload map[string]interface{}, gameExternalID string) ([]provider.PlayerStatRecord, error) {
	boxscore := extractMap(payload, "boxscore")
	teamsStats := extractArray(boxscore, "players")
	if len(teamsStats) == 0 {
		return nil, fmt.Errorf("summary for game %s has no box score", gameExternalID)
	}

	byPlayer := make(map[string]*provider.PlayerStatRecord)
	var order []string

	for _, teamRaw := range teamsStats {
		teamEntry := asMap(teamRaw)
		teamAbbr := extractString(extractMap(teamEntry, "team"), "abbreviation")

		for _, categoryRaw := range extractArray(teamEntry, "statistics") {
			category := asMap(categoryRaw)
			name := extractString(category, "name")
			if name != categoryPassing && name != categoryRushing && name != categoryReceiving {
				continue
			}

			labelIndex := buildLabelIndex(extractArray(category, "labels"))

			for _, athleteRaw := range extractArray(category, "athletes") {
				entry := asMap(athleteRaw)
				athlete := extractMap(entry, "athlete")
				playerID := extractString(athlete, "id")
				playerName := extractString(athlete, "displayName")
				if playerID == "" && playerName == "" {
					continue
				}

				key := playerID
				if key == "" {
					key = teamAbbr + "/" + playerName
				}

				record, ok := byPlayer[key]
				if !ok {
					record = &provider.PlayerStatRecord{
						GameExternalID:   gameExternalID,
						PlayerExternalID: playerID,
						PlayerName:       playerName,
						Team:             teamAbbr,
						Position:         extractString(extractMap(athlete, "position"), "abbreviation"),
						Jersey:           extractString(athlete, "jersey"),
					}
					byPlayer[key] = record
					order = append(order, key)
				}

				stats := extractArray(entry, "stats")
				applyCategory(record, name, labelIndex, stats)
			}
		}
	}

	records := make([]provider.PlayerStatRecord, 0, len(order))
	for _, key := range order {
		records = append(records, *byPlayer[key])
	}
	return records, nil
}

func applyCategory(record *provider.PlayerStatRecord, category string, labelIndex map[string]int, stats []interface{}) {
	statAt := func(label string) string {
		idx, ok := labelIndex[label]
		if !ok || idx >= len(stats) {
			return ""
		}
		s, _ := stats[idx].(string)
		return s
	}

	switch category {
	case categoryPassing:
		// C/ATT arrives as "21/30".
		compAtt := statAt(statLabelCompAtt)
		if comp, att, found := strings.Cut(compAtt, "/"); found {
			record.PassCompletions = comp
			record.PassAttempts = att
		}
		record.PassYards = statAt(statLabelYards)
		record.PassTouchdowns = statAt(statLabelTD)
		record.Interceptions = statAt(statLabelInt)
	case categoryRushing:
		record.RushAttempts = statAt(statLabelCarries)
		record.RushYards = statAt(statLabelYards)
		record.RushTouchdowns = statAt(statLabelTD)
	case categoryReceiving:
		record.Receptions = statAt(statLabelRec)
		record.ReceivingYards = statAt(statLabelYards)
		record.ReceivingTouchdowns = statAt(statLabelTD)
	}
}

func buildLabelIndex(labels []interface{}) map[string]int {
	index := make(map[string]int, len(labels))
	for i, labelRaw := range labels {
		if label, ok := labelRaw.(string); ok {
			index[strings.ToUpper(label)] = i
		}
	}
	return index
}

func asMap(v interface{}) map[string]interface{} {
	m, _ := v.(map[string]interface{})
	return m
}

func extractString(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func extractInt(m map[string]interface{}, key string) int {
	switch v := m[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}

func extractMap(m map[string]interface{}, key string) map[string]interface{} {
	if v, ok := m[key].(map[string]interface{}); ok {
		return v
	}
	return map[string]interface{}{}
}

func extractArray(m map[string]interface{}, key string) []interface{} {
	if v, ok := m[key].([]interface{}); ok {
		return v
	}
	return nil
}
