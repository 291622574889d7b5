package rules

import (
	"weather-talk/internal/models"
	"weather-talk/internal/reference"
)

func comparisonRules(th reference.Thresholds, normals reference.Climatology) []Rule {
	// departure is today's max minus the monthly normal max.
	departure := func(ctx *models.WeatherContext) (float64, bool) {
		hi, ok := val(ctx.Today.Max)
		if !ok {
			return 0, false
		}
		n, ok := normals.Lookup(ctx.Today.Month())
		if !ok {
			return 0, false
		}
		return hi - n.AvgMax, true
	}

	above := func(limit float64) Predicate {
		return func(ctx *models.WeatherContext) bool {
			d, ok := departure(ctx)
			return ok && d >= limit
		}
	}
	below := func(limit float64) Predicate {
		return func(ctx *models.WeatherContext) bool {
			d, ok := departure(ctx)
			return ok && d <= limit
		}
	}

	return []Rule{
		{
			ID:        "comparison.normal.warmer",
			Topic:     models.TopicComparison,
			Weight:    54,
			Evidence:  EvidenceMaxTemp,
			Predicate: above(th.NormalDiffWarm),
			Render:    say("Warm for this time of year."),
		},
		{
			ID:        "comparison.normal.colder",
			Topic:     models.TopicComparison,
			Weight:    54,
			Evidence:  EvidenceMaxTemp,
			Predicate: below(th.NormalDiffCold),
			Render:    say("Cold for this time of year."),
		},
		{
			ID:        "comparison.unseasonable.warm",
			Topic:     models.TopicComparison,
			Weight:    68,
			Evidence:  EvidenceMaxTemp,
			Predicate: above(th.UnseasonableWarm),
			Render:    say("Unseasonably warm today."),
		},
		{
			ID:        "comparison.unseasonable.cold",
			Topic:     models.TopicComparison,
			Weight:    68,
			Evidence:  EvidenceMaxTemp,
			Predicate: below(th.UnseasonableCold),
			Render:    say("Unseasonably cold today."),
		},
	}
}
