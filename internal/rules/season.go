package rules

import (
	"fmt"
	"math"

	"weather-talk/internal/models"
	"weather-talk/internal/reference"
)

const (
	shiftWindowDays  = 7
	shiftMinReadings = 5
	rainStreakDays   = 3
)

func seasonRules(th reference.Thresholds) []Rule {
	return []Rule{
		{
			ID:       "season.daylight.sunset-early",
			Topic:    models.TopicSeason,
			Weight:   55,
			Evidence: EvidenceSunset,
			Predicate: func(ctx *models.WeatherContext) bool {
				at, ok := sinceMidnight(ctx.Today.Sunset)
				return ok && at < th.SunsetEarly
			},
			Render: say("The days are getting shorter."),
		},
		{
			ID:       "season.daylight.sunset-late",
			Topic:    models.TopicSeason,
			Weight:   55,
			Evidence: EvidenceSunset,
			Predicate: func(ctx *models.WeatherContext) bool {
				at, ok := sinceMidnight(ctx.Today.Sunset)
				return ok && at > th.SunsetLate
			},
			Render: say("The days are getting longer."),
		},
		{
			ID:       "season.feel.summer-like",
			Topic:    models.TopicSeason,
			Weight:   60,
			Evidence: EvidenceMeanTemp,
			Predicate: func(ctx *models.WeatherContext) bool {
				mean, ok := meanTemp(ctx.Today)
				return ok && mean >= th.SummerLike
			},
			Render: say("Feels like summer."),
		},
		{
			ID:       "season.feel.winter-like",
			Topic:    models.TopicSeason,
			Weight:   60,
			Evidence: EvidenceMeanTemp,
			Predicate: func(ctx *models.WeatherContext) bool {
				mean, ok := meanTemp(ctx.Today)
				return ok && mean <= th.WinterLike
			},
			Render: say("Feels like winter."),
		},
		{
			ID:       "season.feel.spring-autumn",
			Topic:    models.TopicSeason,
			Weight:   52,
			Evidence: EvidenceMeanTemp,
			Predicate: func(ctx *models.WeatherContext) bool {
				mean, ok := meanTemp(ctx.Today)
				pleasant := ok && mean >= th.SpringAutumnMin && mean <= th.SpringAutumnMax
				return pleasant && valOr(ctx.Today.SunshineSec, 0) > th.SunshineModerate.Seconds()
			},
			Render: func(_ models.TimeOfDay, ctx *models.WeatherContext) string {
				if isSpring(ctx.Today.Month()) {
					return "Real spring weather."
				}
				return "Real autumn weather."
			},
		},
		{
			ID:        "season.transition.seasonal-shift",
			Topic:     models.TopicSeason,
			Weight:    58,
			Evidence:  EvidenceBasic,
			Predicate: seasonalShift(th),
			Render: func(_ models.TimeOfDay, ctx *models.WeatherContext) string {
				m := ctx.Today.Month()
				if m == 0 {
					return ""
				}
				return fmt.Sprintf("There's a hint of %s in the air.", seasonName(m))
			},
		},
		{
			ID:       "season.rainy-season",
			Topic:    models.TopicSeason,
			Weight:   56,
			Evidence: EvidenceBasic,
			Predicate: func(ctx *models.WeatherContext) bool {
				if !inMonths(ctx.Today.Month(), th.RainySeasonFrom, th.RainySeasonTo) {
					return false
				}
				if len(ctx.Last7) < rainStreakDays {
					return false
				}
				for _, d := range ctx.Last7[len(ctx.Last7)-rainStreakDays:] {
					if valOr(d.Rain, 0) < th.ConsecutiveRainMin {
						return false
					}
				}
				return true
			},
			Render: say("So much rain lately."),
		},
	}
}

// seasonalShift needs a sharp day-over-day change inside a week whose
// maxima spread by at least WeeklyTempChange.
func seasonalShift(th reference.Thresholds) Predicate {
	return func(ctx *models.WeatherContext) bool {
		d, ok := maxDelta(ctx)
		if !ok || math.Abs(d) < th.DeltaDay {
			return false
		}
		if len(ctx.Last7) < shiftWindowDays {
			return false
		}

		var readings int
		var lo, hi float64
		for _, day := range ctx.Last7[len(ctx.Last7)-shiftWindowDays:] {
			v, ok := val(day.Max)
			if !ok {
				continue
			}
			if readings == 0 || v < lo {
				lo = v
			}
			if readings == 0 || v > hi {
				hi = v
			}
			readings++
		}
		if readings < shiftMinReadings {
			return false
		}
		return hi-lo >= th.WeeklyTempChange
	}
}
