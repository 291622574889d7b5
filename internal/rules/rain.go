package rules

import (
	"weather-talk/internal/models"
	"weather-talk/internal/reference"
)

func rainRules(th reference.Thresholds) []Rule {
	return []Rule{
		{
			ID:       "rain.yesterday.heavy",
			Topic:    models.TopicRain,
			Weight:   68,
			Evidence: EvidenceYesterdayRain,
			Predicate: func(ctx *models.WeatherContext) bool {
				return valOr(ctx.Yesterday.Rain, 0) >= th.HeavyRainYday
			},
			Render: say("That was quite a downpour yesterday."),
		},
		{
			ID:       "rain.today.probable",
			Topic:    models.TopicRain,
			Weight:   65,
			Evidence: EvidenceRainProbToday,
			Predicate: func(ctx *models.WeatherContext) bool {
				return valOr(ctx.Today.RainProb, 0) >= th.RainProbToday || isRainCode(ctx.Today.Code)
			},
			Render: sayAt(variants{
				morning: "Looks like rain today.",
				noon:    "Sounds like rain this afternoon.",
				evening: "Looks like rain is on the way.",
			}),
		},
	}
}

func tomorrowRainRule(th reference.Thresholds) Rule {
	return Rule{
		ID:       "rain.tomorrow.probable",
		Topic:    models.TopicRain,
		Weight:   55,
		Evidence: EvidenceRainProbTomorrow,
		Predicate: func(ctx *models.WeatherContext) bool {
			return valOr(ctx.Tomorrow.RainProb, 0) >= th.RainProbTomorrow || isRainCode(ctx.Tomorrow.Code)
		},
		Render: say("They say it'll rain tomorrow."),
	}
}

// sunBreakRule matches a wet day that still saw a good stretch of sunshine.
func sunBreakRule(th reference.Thresholds) Rule {
	return Rule{
		ID:       "rain.sun-break",
		Topic:    models.TopicRain,
		Weight:   50,
		Evidence: EvidenceSunBreak,
		Predicate: func(ctx *models.WeatherContext) bool {
			rain, ok1 := val(ctx.Today.Rain)
			sun, ok2 := val(ctx.Today.SunshineSec)
			return ok1 && ok2 && rain >= th.SunBreakRainMin && sun >= th.SunBreakSunshine.Seconds()
		},
		Render: sayAt(variants{
			morning: "Nice to see some sun between the showers.",
			noon:    "The sun's breaking through the rain.",
			evening: "We got some sun between the showers today.",
		}),
	}
}
