package pfr

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scheduleHTML = `
<table id="games"><tbody>
<tr>
  <th data-stat="week_num">1</th>
  <td data-stat="game_date">2024-09-08</td>
  <td data-stat="winner">Kansas City Chiefs</td>
  <td data-stat="game_location"></td>
  <td data-stat="loser">Baltimore Ravens</td>
  <td data-stat="boxscore_word"><a href="/boxscores/202409080kan.htm">boxscore</a></td>
  <td data-stat="pts_win">27</td>
  <td data-stat="pts_lose">20</td>
</tr>
<tr>
  <th data-stat="week_num">2</th>
  <td data-stat="game_date">2024-09-15</td>
  <td data-stat="winner">Buffalo Bills</td>
  <td data-stat="game_location">@</td>
  <td data-stat="loser">Miami Dolphins</td>
  <td data-stat="boxscore_word"><a href="/boxscores/202409150mia.htm">boxscore</a></td>
  <td data-stat="pts_win">31</td>
  <td data-stat="pts_lose">10</td>
</tr>
<tr class="thead"><th data-stat="week_num">Week</th></tr>
<tr>
  <th data-stat="week_num">WildCard</th>
  <td data-stat="game_date">2025-01-11</td>
</tr>
</tbody></table>`

const boxScoreHTML = `
<table id="player_offense"><tbody>
<tr>
  <th data-stat="player" data-append-csv="MahoPa00"><a href="/players/M/MahoPa00.htm">Patrick Mahomes</a></th>
  <td data-stat="team">KAN</td>
  <td data-stat="pass_cmp">20</td>
  <td data-stat="pass_att">28</td>
  <td data-stat="pass_yds">291</td>
  <td data-stat="pass_td">1</td>
  <td data-stat="pass_int">0</td>
  <td data-stat="rush_att">3</td>
  <td data-stat="rush_yds">29</td>
  <td data-stat="rush_td">0</td>
  <td data-stat="rec"></td>
  <td data-stat="rec_yds"></td>
  <td data-stat="rec_td"></td>
</tr>
</tbody></table>`

func docFrom(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestParseScheduleResolvesHomeAwayFromLocation(t *testing.T) {
	games, err := parseSchedule(docFrom(t, scheduleHTML), 2024, 0)
	require.NoError(t, err)
	require.Len(t, games, 2) // playoff row skipped

	kc := games[0]
	assert.Equal(t, 1, kc.Week)
	assert.Equal(t, "KC", kc.HomeTeam)
	assert.Equal(t, "BAL", kc.AwayTeam)
	assert.Equal(t, "27", kc.HomeScore)
	assert.Equal(t, "20", kc.AwayScore)
	assert.Equal(t, "202409080kan", kc.ExternalID)
	assert.True(t, kc.Completed)

	// Winner marked "@" played away, so Miami is the home side.
	buf := games[1]
	assert.Equal(t, "MIA", buf.HomeTeam)
	assert.Equal(t, "BUF", buf.AwayTeam)
	assert.Equal(t, "10", buf.HomeScore)
	assert.Equal(t, "31", buf.AwayScore)
}

func TestParseScheduleWeekFilter(t *testing.T) {
	games, err := parseSchedule(docFrom(t, scheduleHTML), 2024, 2)
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, 2, games[0].Week)
}

func TestParseBoxScoreReadsOffenseRows(t *testing.T) {
	stats, err := parseBoxScore(docFrom(t, boxScoreHTML), "202409080kan")
	require.NoError(t, err)
	require.Len(t, stats, 1)

	line := stats[0]
	assert.Equal(t, "MahoPa00", line.PlayerExternalID)
	assert.Equal(t, "Patrick Mahomes", line.PlayerName)
	assert.Equal(t, "KAN", line.Team)
	assert.Equal(t, "20", line.PassCompletions)
	assert.Equal(t, "291", line.PassYards)
	assert.Empty(t, line.Receptions)
}

func TestParseBoxScoreMissingTableIsAnError(t *testing.T) {
	_, err := parseBoxScore(docFrom(t, "<html><body></body></html>"), "x")
	assert.Error(t, err)
}
