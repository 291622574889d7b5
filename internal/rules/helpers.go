package rules

import (
	"math"
	"time"

	"weather-talk/internal/models"
)

// val dereferences an optional reading.
func val(p *float64) (float64, bool) {
	if p == nil || math.IsNaN(*p) {
		return 0, false
	}
	return *p, true
}

// valOr treats a missing reading as def.
func valOr(p *float64, def float64) float64 {
	if v, ok := val(p); ok {
		return v
	}
	return def
}

// isRainCode reports WMO drizzle/rain (51-67) and rain showers (80-82).
func isRainCode(code *int) bool {
	if code == nil {
		return false
	}
	c := *code
	return (c >= 51 && c <= 67) || (c >= 80 && c <= 82)
}

// meanTemp is the midpoint of max and min.
func meanTemp(d models.DayRecord) (float64, bool) {
	hi, ok1 := val(d.Max)
	lo, ok2 := val(d.Min)
	if !ok1 || !ok2 {
		return 0, false
	}
	return (hi + lo) / 2, true
}

// sinceMidnight is the wall-clock offset of t within its own day.
func sinceMidnight(t *time.Time) (time.Duration, bool) {
	if t == nil || t.IsZero() {
		return 0, false
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, true
}

// maxDelta is today's max minus yesterday's max.
func maxDelta(ctx *models.WeatherContext) (float64, bool) {
	today, ok1 := val(ctx.Today.Max)
	yday, ok2 := val(ctx.Yesterday.Max)
	if !ok1 || !ok2 {
		return 0, false
	}
	return today - yday, true
}

// inMonths reports whether m falls in [from, to].
func inMonths(m, from, to time.Month) bool {
	return m != 0 && m >= from && m <= to
}

// isSpring covers February through April, when the turn of the season is felt.
func isSpring(m time.Month) bool {
	return inMonths(m, time.February, time.April)
}

// seasonName names the season a month leans toward.
func seasonName(m time.Month) string {
	switch {
	case inMonths(m, time.February, time.April):
		return "spring"
	case inMonths(m, time.May, time.July):
		return "summer"
	case inMonths(m, time.August, time.October):
		return "autumn"
	}
	return "winter"
}
