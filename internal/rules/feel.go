package rules

import (
	"math"

	"weather-talk/internal/models"
	"weather-talk/internal/reference"
)

func feelRules(th reference.Thresholds) []Rule {
	return []Rule{
		{
			ID:       "feel.wind.moderate",
			Topic:    models.TopicFeel,
			Weight:   48,
			Evidence: EvidenceWind,
			Predicate: func(ctx *models.WeatherContext) bool {
				wind := valOr(ctx.Today.WindMax, 0)
				gust := valOr(ctx.Today.GustMax, 0)
				return (wind >= th.WindModerate && wind < th.WindStrong) ||
					(gust >= th.GustModerate && gust < th.GustStrong)
			},
			Render: sayAt(variants{
				morning: "A bit breezy today, it seems.",
				noon:    "The wind's picking up.",
				evening: "It was a bit windy today.",
			}),
		},
		{
			ID:       "feel.wind.strong",
			Topic:    models.TopicFeel,
			Weight:   58,
			Evidence: EvidenceGust,
			Predicate: func(ctx *models.WeatherContext) bool {
				return valOr(ctx.Today.WindMax, 0) >= th.WindStrong ||
					valOr(ctx.Today.GustMax, 0) >= th.GustStrong
			},
			Render: sayAt(variants{
				morning: "They say it'll be really windy today.",
				noon:    "Really windy out there.",
				evening: "It was really windy today, apparently.",
			}),
		},
		{
			ID:       "feel.wind.cold-windy",
			Topic:    models.TopicFeel,
			Weight:   62,
			Evidence: EvidenceColdWind,
			Predicate: func(ctx *models.WeatherContext) bool {
				hi, ok := val(ctx.Today.Max)
				return ok && hi <= th.ColdMax && valOr(ctx.Today.WindMax, 0) >= th.WindModerate
			},
			Render: sayAt(variants{
				morning: "Cold, and windy on top of it.",
				noon:    "The wind is bitterly cold.",
				evening: "The wind was freezing today.",
			}),
		},
		{
			ID:       "feel.humidity.muggy",
			Topic:    models.TopicFeel,
			Weight:   55,
			Evidence: EvidenceHumidityTemp,
			Predicate: func(ctx *models.WeatherContext) bool {
				return valOr(ctx.Today.HumidityMean, 0) >= th.HumidityHigh &&
					valOr(ctx.Today.Max, 0) >= th.HumidityMuggyTemp
			},
			Render: func(tod models.TimeOfDay, ctx *models.WeatherContext) string {
				if inMonths(ctx.Today.Month(), th.RainySeasonFrom, th.RainySeasonTo) {
					return variants{
						morning: "Feels damp and sticky today.",
						noon:    "So humid, isn't it?",
						evening: "It was really humid today.",
					}.at(tod)
				}
				return variants{
					morning: "Looks muggy today.",
					noon:    "Hot and muggy, isn't it?",
					evening: "It was hot and muggy today.",
				}.at(tod)
			},
		},
		{
			ID:       "feel.humidity.dry",
			Topic:    models.TopicFeel,
			Weight:   52,
			Evidence: EvidenceHumidity,
			Predicate: func(ctx *models.WeatherContext) bool {
				humidity, ok1 := val(ctx.Today.HumidityMean)
				hi, ok2 := val(ctx.Today.Max)
				return ok1 && ok2 && humidity > 0 && humidity <= th.HumidityLow && hi <= th.HumidityDryTemp
			},
			Render: sayAt(variants{
				morning: "The air looks dry today.",
				noon:    "The air is really dry.",
				evening: "The air was dry today.",
			}),
		},
	}
}

// apparentGapRule matches when the apparent max strays from the measured max.
func apparentGapRule(th reference.Thresholds) Rule {
	return Rule{
		ID:       "feel.apparent-gap",
		Topic:    models.TopicFeel,
		Weight:   46,
		Evidence: EvidenceApparent,
		Predicate: func(ctx *models.WeatherContext) bool {
			hi, ok1 := val(ctx.Today.Max)
			app, ok2 := val(ctx.Today.AppMax)
			return ok1 && ok2 && math.Abs(app-hi) >= th.ApparentGap
		},
		Render: func(_ models.TimeOfDay, ctx *models.WeatherContext) string {
			hi, ok1 := val(ctx.Today.Max)
			app, ok2 := val(ctx.Today.AppMax)
			if !ok1 || !ok2 {
				return ""
			}
			if app < hi {
				return "Feels colder than the thermometer says."
			}
			return "Feels warmer than the thermometer says."
		},
	}
}
