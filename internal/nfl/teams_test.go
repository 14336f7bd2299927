package nfl

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferenceTableHas32Teams(t *testing.T) {
	require.Len(t, Teams, 32)

	seen := make(map[string]bool)
	for _, team := range Teams {
		assert.False(t, seen[team.Abbreviation], "duplicate abbreviation %s", team.Abbreviation)
		seen[team.Abbreviation] = true
	}
}

func TestIsValidAndGetDivisionForAllTeams(t *testing.T) {
	for _, team := range Teams {
		assert.True(t, IsValid(team.Abbreviation), "expected %s to be valid", team.Abbreviation)

		// Case-insensitive lookups must resolve too.
		assert.True(t, IsValid(strings.ToLower(team.Abbreviation)))

		conf, div, ok := GetDivision(team.Abbreviation)
		require.True(t, ok, "division lookup failed for %s", team.Abbreviation)
		assert.NotEmpty(t, conf)
		assert.NotEmpty(t, div)
	}
}

func TestUnknownAbbreviationIsDeterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		assert.False(t, IsValid("XYZ"))

		conf, div, ok := GetDivision("XYZ")
		assert.False(t, ok)
		assert.Empty(t, conf)
		assert.Empty(t, div)
	}
}

func TestNormalizeProviderAliases(t *testing.T) {
	cases := map[string]string{
		"WSH":  "WAS",
		"JAC":  "JAX",
		"jac":  "JAX",
		"LA":   "LAR",
		"OAK":  "LV",
		" kc ": "KC",
		"SEA":  "SEA",
	}

	for input, want := range cases {
		assert.Equal(t, want, Normalize(input), "Normalize(%q)", input)
	}
}

func TestDivisionsGroupsEightByFour(t *testing.T) {
	groups := Divisions()
	require.Len(t, groups, 8)

	for key, teams := range groups {
		assert.Len(t, teams, 4, "division %s", key)
	}
}
