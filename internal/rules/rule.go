// Package rules defines the phrase rule catalog and builds the active rule
// set for one evaluation.
//
// A rule is a value holding two pure functions: a predicate over the
// weather context and a renderer producing the phrase for a time of day.
// Rule ids are stable and referenced outside this package (evidence,
// frontend), so an id must never change meaning once assigned.
package rules

import (
	"weather-talk/internal/models"
	"weather-talk/internal/reference"
)

// Predicate reports whether a rule applies to the context.
type Predicate func(ctx *models.WeatherContext) bool

// Renderer returns the phrase for the time of day, or "" to suppress the hit.
type Renderer func(tod models.TimeOfDay, ctx *models.WeatherContext) string

// Evidence names the figure that backs a rule's phrase in reports.
type Evidence int

const (
	EvidenceBasic Evidence = iota // today's max and min
	EvidenceMaxTemp
	EvidenceYesterdayDiff
	EvidenceDiurnalRange
	EvidenceYesterdayRain
	EvidenceRainProbToday
	EvidenceRainProbTomorrow
	EvidenceSunBreak
	EvidenceWind
	EvidenceGust
	EvidenceColdWind
	EvidenceHumidityTemp
	EvidenceHumidity
	EvidenceApparent
	EvidenceSunset
	EvidenceMeanTemp
)

// Rule is one catalogued phrase rule.
type Rule struct {
	ID        string
	Topic     models.Topic
	Weight    int
	Evidence  Evidence
	Predicate Predicate
	Render    Renderer
}

// Extension is a rule that is only active while its flag is enabled.
type Extension struct {
	Flag string
	Rule Rule
}

// Catalog is the full universe of rules for one set of reference data.
type Catalog struct {
	Base       []Rule
	Extensions []Extension
}

// NewCatalog builds every rule against ref. Base rules are ordered by topic:
// temp, rain, feel, season, comparison.
func NewCatalog(ref reference.Data) Catalog {
	th := ref.Thresholds

	var base []Rule
	base = append(base, tempRules(th)...)
	base = append(base, rainRules(th)...)
	base = append(base, feelRules(th)...)
	base = append(base, seasonRules(th)...)
	base = append(base, comparisonRules(th, ref.Climatology)...)

	return Catalog{
		Base: base,
		Extensions: []Extension{
			{Flag: FlagTomorrowRain, Rule: tomorrowRainRule(th)},
			{Flag: FlagSunBreak, Rule: sunBreakRule(th)},
			{Flag: FlagApparentFeel, Rule: apparentGapRule(th)},
		},
	}
}

// Lookup finds a rule by id among base and extension rules.
func (c Catalog) Lookup(id string) (Rule, bool) {
	for _, r := range c.Base {
		if r.ID == id {
			return r, true
		}
	}
	for _, ext := range c.Extensions {
		if ext.Rule.ID == id {
			return ext.Rule, true
		}
	}
	return Rule{}, false
}

// variants holds one wording per time of day.
type variants struct {
	morning, noon, evening string
}

func (v variants) at(tod models.TimeOfDay) string {
	switch tod {
	case models.Morning:
		return v.morning
	case models.Noon:
		return v.noon
	case models.Evening:
		return v.evening
	}
	return ""
}

// say renders the same text at every time of day.
func say(text string) Renderer {
	return func(models.TimeOfDay, *models.WeatherContext) string { return text }
}

// sayAt renders the variant for the time of day.
func sayAt(v variants) Renderer {
	return func(tod models.TimeOfDay, _ *models.WeatherContext) string { return v.at(tod) }
}
