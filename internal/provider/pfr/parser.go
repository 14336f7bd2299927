package pfr

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/kayGweb/gridiron/internal/nfl"
	"github.com/kayGweb/gridiron/internal/provider"
)

// fullNameToAbbr maps "City Name" strings as printed on schedule pages back
// to canonical abbreviations. Built once from the reference table.
var fullNameToAbbr = func() map[string]string {
	m := make(map[string]string, len(nfl.Teams))
	for _, t := range nfl.Teams {
		m[t.City+" "+t.Name] = t.Abbreviation
	}
	return m
}()

func teamAbbrFromName(name string) string {
	if abbr, ok := fullNameToAbbr[strings.TrimSpace(name)]; ok {
		return abbr
	}
	// Leave unknown names verbatim; the mapper reports them per record.
	return strings.TrimSpace(name)
}

func parseTeamsIndex(doc *goquery.Document) ([]provider.TeamRecord, error) {
	var records []provider.TeamRecord

	doc.Find("table#teams_active tbody tr").Each(func(_ int, row *goquery.Selection) {
		link := row.Find(`th[data-stat="team_name"] a`)
		fullName := strings.TrimSpace(link.Text())
		if fullName == "" {
			return
		}

		href, _ := link.Attr("href")
		slug := strings.Trim(strings.TrimPrefix(href, "/teams/"), "/")

		abbr := teamAbbrFromName(fullName)
		city, name := splitFullName(fullName)

		records = append(records, provider.TeamRecord{
			ExternalID:   slug,
			Abbreviation: abbr,
			City:         city,
			Name:         name,
		})
	})

	if len(records) == 0 {
		return nil, fmt.Errorf("teams page contained no active franchise rows")
	}
	return records, nil
}

// splitFullName separates the nickname (last word) from the city.
func splitFullName(fullName string) (city, name string) {
	idx := strings.LastIndex(fullName, " ")
	if idx < 0 {
		return "", fullName
	}
	return fullName[:idx], fullName[idx+1:]
}

func parseSchedule(doc *goquery.Document, season, week int) ([]provider.GameRecord, error) {
	var records []provider.GameRecord
	var parseErr error

	doc.Find("table#games tbody tr").Each(func(_ int, row *goquery.Selection) {
		if parseErr != nil {
			return
		}
		// Header separator rows repeat the column labels.
		if row.HasClass("thead") {
			return
		}

		weekText := cellText(row, "week_num")
		weekNum, err := strconv.Atoi(weekText)
		if err != nil {
			// Playoff rows use labels like "WildCard"; regular-season scope only.
			return
		}
		if week > 0 && weekNum != week {
			return
		}

		record := provider.GameRecord{
			Season: season,
			Week:   weekNum,
		}

		if dateText := cellText(row, "game_date"); dateText != "" {
			parsed, err := time.Parse("2006-01-02", dateText)
			if err != nil {
				parseErr = fmt.Errorf("week %d: parse date %q: %w", weekNum, dateText, err)
				return
			}
			record.Date = parsed
		}

		winner := teamAbbrFromName(cellText(row, "winner"))
		loser := teamAbbrFromName(cellText(row, "loser"))
		ptsWin := cellText(row, "pts_win")
		ptsLose := cellText(row, "pts_lose")

		// "@" in the location column means the winner played on the road.
		if cellText(row, "game_location") == "@" {
			record.HomeTeam, record.AwayTeam = loser, winner
			record.HomeScore, record.AwayScore = ptsLose, ptsWin
		} else {
			record.HomeTeam, record.AwayTeam = winner, loser
			record.HomeScore, record.AwayScore = ptsWin, ptsLose
		}

		record.Completed = ptsWin != "" && ptsLose != ""
		if record.Completed {
			record.Status = "final"
		} else {
			record.Status = "scheduled"
		}

		if link, ok := row.Find(`td[data-stat="boxscore_word"] a`).Attr("href"); ok {
			record.ExternalID = strings.TrimSuffix(strings.TrimPrefix(link, "/boxscores/"), ".htm")
		}

		records = append(records, record)
	})

	if parseErr != nil {
		return nil, parseErr
	}
	return records, nil
}

func parseBoxScore(doc *goquery.Document, gameExternalID string) ([]provider.PlayerStatRecord, error) {
	table := doc.Find("table#player_offense")
	if table.Length() == 0 {
		return nil, fmt.Errorf("box score %s: player offense table not found", gameExternalID)
	}

	var records []provider.PlayerStatRecord
	table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		if row.HasClass("thead") {
			return
		}

		playerCell := row.Find(`th[data-stat="player"]`)
		playerName := strings.TrimSpace(playerCell.Find("a").Text())
		if playerName == "" {
			return
		}
		playerID, _ := playerCell.Attr("data-append-csv")

		records = append(records, provider.PlayerStatRecord{
			GameExternalID:      gameExternalID,
			PlayerExternalID:    playerID,
			PlayerName:          playerName,
			Team:                cellText(row, "team"),
			PassCompletions:     cellText(row, "pass_cmp"),
			PassAttempts:        cellText(row, "pass_att"),
			PassYards:           cellText(row, "pass_yds"),
			PassTouchdowns:      cellText(row, "pass_td"),
			Interceptions:       cellText(row, "pass_int"),
			RushAttempts:        cellText(row, "rush_att"),
			RushYards:           cellText(row, "rush_yds"),
			RushTouchdowns:      cellText(row, "rush_td"),
			Receptions:          cellText(row, "rec"),
			ReceivingYards:      cellText(row, "rec_yds"),
			ReceivingTouchdowns: cellText(row, "rec_td"),
		})
	})

	if len(records) == 0 {
		return nil, fmt.Errorf("box score %s: no offense rows", gameExternalID)
	}
	return records, nil
}

func cellText(row *goquery.Selection, stat string) string {
	return strings.TrimSpace(row.Find(fmt.Sprintf(`td[data-stat=%q], th[data-stat=%q]`, stat, stat)).First().Text())
}
