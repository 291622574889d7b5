package rules

import (
	"math"

	"weather-talk/internal/models"
	"weather-talk/internal/reference"
)

func tempRules(th reference.Thresholds) []Rule {
	return []Rule{
		{
			ID:       "temp.absolute.hot",
			Topic:    models.TopicTemp,
			Weight:   65,
			Evidence: EvidenceMaxTemp,
			Predicate: func(ctx *models.WeatherContext) bool {
				hi, ok := val(ctx.Today.Max)
				return ok && hi >= th.HotMax
			},
			Render: sayAt(variants{
				morning: "Hot already this morning, isn't it?",
				noon:    "It's as hot as midsummer out there.",
				evening: "Still hot even this evening.",
			}),
		},
		{
			ID:       "temp.absolute.cold",
			Topic:    models.TopicTemp,
			Weight:   65,
			Evidence: EvidenceMaxTemp,
			Predicate: func(ctx *models.WeatherContext) bool {
				hi, ok := val(ctx.Today.Max)
				return ok && hi <= th.ColdMax
			},
			Render: sayAt(variants{
				morning: "Chilly this morning, isn't it?",
				noon:    "Cold even at midday.",
				evening: "It's getting cold tonight.",
			}),
		},
		{
			ID:       "temp.delta",
			Topic:    models.TopicTemp,
			Weight:   50,
			Evidence: EvidenceYesterdayDiff,
			Predicate: func(ctx *models.WeatherContext) bool {
				d, ok := maxDelta(ctx)
				return ok && math.Abs(d) >= th.DeltaDay
			},
			Render: func(_ models.TimeOfDay, ctx *models.WeatherContext) string {
				d, ok := maxDelta(ctx)
				if !ok {
					return ""
				}
				warmYesterday := *ctx.Yesterday.Max >= th.DeltaWarmCutoff
				if d >= th.DeltaDay {
					if warmYesterday {
						return "Even hotter than yesterday."
					}
					return "Warmer than yesterday, isn't it?"
				}
				if warmYesterday {
					return "Cooler than yesterday."
				}
				return "Colder than yesterday, isn't it?"
			},
		},
		{
			ID:       "temp.diurnal",
			Topic:    models.TopicTemp,
			Weight:   45,
			Evidence: EvidenceDiurnalRange,
			Predicate: func(ctx *models.WeatherContext) bool {
				hi, ok1 := val(ctx.Today.Max)
				lo, ok2 := val(ctx.Today.Min)
				return ok1 && ok2 && hi-lo >= th.Diurnal
			},
			Render: sayAt(variants{
				morning: "They say it warms up around midday.",
				noon:    "Cold this morning, but it's warming up now.",
				evening: "It's suddenly gotten cold tonight.",
			}),
		},
	}
}
