package rules

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weather-talk/internal/models"
	"weather-talk/internal/reference"
)

func f(v float64) *float64 { return &v }

func code(c int) *int { return &c }

func at(hour, minute int) *time.Time {
	t := time.Date(2025, time.October, 15, hour, minute, 0, 0, time.UTC)
	return &t
}

var october15 = time.Date(2025, time.October, 15, 0, 0, 0, 0, time.UTC)

// contextFor builds a context whose today falls on date, with empty neighbors.
func contextFor(date time.Time, today models.DayRecord) *models.WeatherContext {
	today.Date = date
	return &models.WeatherContext{
		Today:     today,
		Yesterday: models.DayRecord{Date: date.AddDate(0, 0, -1)},
		Tomorrow:  models.DayRecord{Date: date.AddDate(0, 0, 1)},
		Last7:     []models.DayRecord{today},
	}
}

func ruleByID(t *testing.T, id string) Rule {
	t.Helper()
	r, ok := NewCatalog(reference.Default()).Lookup(id)
	require.True(t, ok, "rule %s not catalogued", id)
	return r
}

func TestCatalogIntegrity(t *testing.T) {
	c := NewCatalog(reference.Default())
	all := Build(c, nil)
	require.Len(t, all, len(c.Base)+len(c.Extensions))

	validTopics := map[models.Topic]bool{
		models.TopicTemp:       true,
		models.TopicRain:       true,
		models.TopicFeel:       true,
		models.TopicSeason:     true,
		models.TopicComparison: true,
	}

	seen := map[string]bool{}
	for _, r := range all {
		assert.False(t, seen[r.ID], "duplicate id %s", r.ID)
		seen[r.ID] = true

		assert.Greater(t, r.Weight, 1, "%s must outweigh the fallback", r.ID)
		assert.True(t, validTopics[r.Topic], "%s has unknown topic %q", r.ID, r.Topic)
		assert.True(t, strings.HasPrefix(r.ID, string(r.Topic)+"."), "%s id must start with its topic", r.ID)
		assert.NotNil(t, r.Predicate, r.ID)
		assert.NotNil(t, r.Render, r.ID)
	}
	assert.Len(t, seen, 25)
}

func TestCatalogLookup(t *testing.T) {
	c := NewCatalog(reference.Default())

	r, ok := c.Lookup("rain.sun-break")
	require.True(t, ok)
	assert.Equal(t, models.TopicRain, r.Topic)

	_, ok = c.Lookup("rain.does-not-exist")
	assert.False(t, ok)
}

func TestBuild(t *testing.T) {
	c := NewCatalog(reference.Default())

	ids := func(rs []Rule) []string {
		out := make([]string, len(rs))
		for i, r := range rs {
			out[i] = r.ID
		}
		return out
	}

	tests := []struct {
		name    string
		flags   Flags
		present []string
		absent  []string
	}{
		{
			name:    "Unset flags default to enabled",
			flags:   nil,
			present: []string{"rain.tomorrow.probable", "rain.sun-break", "feel.apparent-gap"},
		},
		{
			name:    "Tomorrow rain disabled",
			flags:   Flags{FlagTomorrowRain: false},
			present: []string{"rain.sun-break", "feel.apparent-gap"},
			absent:  []string{"rain.tomorrow.probable"},
		},
		{
			name:    "All extensions disabled",
			flags:   Flags{FlagTomorrowRain: false, FlagSunBreak: false, FlagApparentFeel: false},
			present: []string{"temp.absolute.hot", "comparison.unseasonable.cold"},
			absent:  []string{"rain.tomorrow.probable", "rain.sun-break", "feel.apparent-gap"},
		},
		{
			name:    "Unrecognized flag names are ignored",
			flags:   Flags{"enablePressure": false, "bogus": true},
			present: []string{"rain.tomorrow.probable", "rain.sun-break"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Build(c, tt.flags))
			for _, id := range tt.present {
				assert.Contains(t, got, id)
			}
			for _, id := range tt.absent {
				assert.NotContains(t, got, id)
			}
			assert.Equal(t, ids(c.Base), got[:len(c.Base)], "base rules come first in catalog order")
		})
	}
}

func TestBuildFailsClosedOnUnknownExtension(t *testing.T) {
	c := Catalog{
		Base: []Rule{{ID: "temp.base"}},
		Extensions: []Extension{
			{Flag: "enableMystery", Rule: Rule{ID: "temp.mystery"}},
			{Flag: FlagSunBreak, Rule: Rule{ID: "rain.sun-break"}},
		},
	}

	got := Build(c, Flags{"enableMystery": true})
	require.Len(t, got, 2)
	assert.Equal(t, "temp.base", got[0].ID)
	assert.Equal(t, "rain.sun-break", got[1].ID)
}

func TestBuildIsIdempotent(t *testing.T) {
	c := NewCatalog(reference.Default())
	flags := Flags{FlagSunBreak: false}

	first := Build(c, flags)
	second := Build(c, flags)
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
	}

	first[0].ID = "mutated"
	assert.NotEqual(t, "mutated", c.Base[0].ID, "Build must not alias the catalog")
}

func TestFlagsEnabled(t *testing.T) {
	var none Flags
	assert.True(t, none.Enabled(FlagSunBreak))
	assert.False(t, Flags{FlagSunBreak: false}.Enabled(FlagSunBreak))
	assert.True(t, Flags{FlagSunBreak: true}.Enabled(FlagSunBreak))
	assert.True(t, IsKnownFlag(FlagApparentFeel))
	assert.False(t, IsKnownFlag("enablePressure"))
}

func TestVariantsUnknownTimeOfDay(t *testing.T) {
	r := ruleByID(t, "temp.absolute.hot")
	ctx := contextFor(october15, models.DayRecord{Max: f(30)})
	require.True(t, r.Predicate(ctx))
	assert.Empty(t, r.Render(models.TimeOfDay("midnight"), ctx))
	assert.Equal(t, "Hot already this morning, isn't it?", r.Render(models.Morning, ctx))
}

func TestIsRainCode(t *testing.T) {
	tests := []struct {
		code *int
		want bool
	}{
		{nil, false},
		{code(0), false},
		{code(3), false},
		{code(51), true},
		{code(67), true},
		{code(71), false},
		{code(80), true},
		{code(82), true},
		{code(95), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isRainCode(tt.code), "code %v", tt.code)
	}
}

func TestSeasonName(t *testing.T) {
	assert.Equal(t, "spring", seasonName(time.March))
	assert.Equal(t, "summer", seasonName(time.June))
	assert.Equal(t, "autumn", seasonName(time.October))
	assert.Equal(t, "winter", seasonName(time.December))
	assert.Equal(t, "winter", seasonName(time.January))
}
