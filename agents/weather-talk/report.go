package weathertalk

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"weather-talk/internal/models"
	"weather-talk/internal/rules"
	"weather-talk/shared/config"
)

// Reporter turns a ranked evaluation into the published report.
type Reporter struct {
	catalog  rules.Catalog
	ranking  config.RankingConfig
	location string
	loc      *time.Location
}

func NewReporter(catalog rules.Catalog, ranking config.RankingConfig, location string, loc *time.Location) *Reporter {
	if loc == nil {
		loc = time.UTC
	}
	return &Reporter{
		catalog:  catalog,
		ranking:  ranking,
		location: location,
		loc:      loc,
	}
}

// Build assembles the report for one run.
func (r *Reporter) Build(runID string, now time.Time, ctx *models.WeatherContext, tod models.TimeOfDay, result models.EvaluationResult) *models.TalkReport {
	details := BuildDetails(ctx, r.loc)

	report := &models.TalkReport{
		RunID:          runID,
		UpdatedAt:      now.UTC(),
		UpdatedAtLocal: now.In(r.loc).Format(time.RFC3339),
		Location:       r.location,
		Date:           ctx.Today.Date.Format(dateLayout),
		TimeOfDay:      tod,
		TopPhrases:     r.phrases(result.Top(r.ranking.TopN), details),
		ByTopic:        make([]models.TopicSection, 0, len(r.ranking.TopicOrder)),
		Details:        details,
	}

	for _, topic := range r.ranking.TopicOrder {
		report.ByTopic = append(report.ByTopic, models.TopicSection{
			Topic:   topic,
			Header:  r.ranking.Header(topic),
			Phrases: r.phrases(result.ByTopic[topic], details),
		})
	}

	return report
}

func (r *Reporter) phrases(hits []models.Hit, details models.Details) []models.Phrase {
	out := make([]models.Phrase, 0, len(hits))
	for _, h := range hits {
		kind := rules.EvidenceBasic
		if rule, ok := r.catalog.Lookup(h.ID); ok {
			kind = rule.Evidence
		}
		out = append(out, models.Phrase{
			ID:       h.ID,
			Topic:    h.Topic,
			Text:     h.Text,
			Weight:   h.Weight,
			Evidence: Evidence(kind, details),
		})
	}
	return out
}

// BuildDetails rounds today's figures for display.
func BuildDetails(ctx *models.WeatherContext, loc *time.Location) models.Details {
	today := ctx.Today

	d := models.Details{
		MaxTemp:          round1(today.Max),
		MinTemp:          round1(today.Min),
		YesterdayDiff:    signedDiff(today.Max, ctx.Yesterday.Max),
		ApparentMax:      round1(today.AppMax),
		ApparentMin:      round1(today.AppMin),
		ApparentDeltaMax: signedDiff(today.AppMax, today.Max),
		ApparentDeltaMin: signedDiff(today.AppMin, today.Min),
		Rain:             round1(today.Rain),
		YesterdayRain:    round1(ctx.Yesterday.Rain),
		RainProbToday:    round1(today.RainProb),
		RainProbTomorrow: round1(ctx.Tomorrow.RainProb),
		WindMax:          round1(today.WindMax),
		GustMax:          round1(today.GustMax),
		Humidity:         round1(today.HumidityMean),
		Sunrise:          clock(today.Sunrise, loc),
		Sunset:           clock(today.Sunset, loc),
		Code:             today.Code,
		WeatherType:      WeatherType(today.Code),
	}
	if today.SunshineSec != nil {
		hours := *today.SunshineSec / 3600
		d.SunshineHours = round1(&hours)
	}
	return d
}

// WeatherType maps a WMO code to a coarse sky type used for theming.
func WeatherType(code *int) string {
	if code == nil {
		return "cloudy"
	}
	switch c := *code; {
	case c == 0 || c == 1:
		return "clear"
	case c == 2 || c == 3:
		return "cloudy"
	case c >= 51 && c <= 67, c >= 80 && c <= 82:
		return "rain"
	case c >= 71 && c <= 77, c >= 85 && c <= 86:
		return "snow"
	case c >= 95 && c <= 99:
		return "storm"
	}
	return "cloudy"
}

// Evidence formats the figure behind a phrase. It returns "" when the
// figure was not reported.
func Evidence(kind rules.Evidence, d models.Details) string {
	switch kind {
	case rules.EvidenceMaxTemp:
		return "Max temp: " + num(d.MaxTemp) + "°C"
	case rules.EvidenceYesterdayDiff:
		if d.YesterdayDiff == "" {
			return ""
		}
		return "vs yesterday: " + d.YesterdayDiff + "°C"
	case rules.EvidenceDiurnalRange:
		if d.MaxTemp == nil || d.MinTemp == nil {
			return ""
		}
		return fmt.Sprintf("Day-night range: %.1f°C", *d.MaxTemp-*d.MinTemp)
	case rules.EvidenceYesterdayRain:
		return "Rain yesterday: " + num(d.YesterdayRain) + "mm"
	case rules.EvidenceRainProbToday:
		return "Chance of rain: " + num(d.RainProbToday) + "%"
	case rules.EvidenceRainProbTomorrow:
		return "Chance of rain tomorrow: " + num(d.RainProbTomorrow) + "%"
	case rules.EvidenceSunBreak:
		return "Rain: " + num(d.Rain) + "mm / Sunshine: " + num(d.SunshineHours) + "h"
	case rules.EvidenceWind:
		return "Max wind: " + num(d.WindMax) + "m/s / Gusts: " + num(d.GustMax) + "m/s"
	case rules.EvidenceGust:
		return "Gusts: " + num(d.GustMax) + "m/s"
	case rules.EvidenceColdWind:
		return "Max temp: " + num(d.MaxTemp) + "°C / Wind: " + num(d.WindMax) + "m/s"
	case rules.EvidenceHumidityTemp:
		return "Humidity: " + num(d.Humidity) + "% / Temp: " + num(d.MaxTemp) + "°C"
	case rules.EvidenceHumidity:
		return "Humidity: " + num(d.Humidity) + "%"
	case rules.EvidenceApparent:
		if d.ApparentDeltaMax == "" {
			return ""
		}
		return "Feels like: " + num(d.ApparentMax) + "°C (" + d.ApparentDeltaMax + "°C)"
	case rules.EvidenceSunset:
		if d.Sunset == "" {
			return ""
		}
		return "Sunset: " + d.Sunset
	case rules.EvidenceMeanTemp:
		if d.MaxTemp == nil || d.MinTemp == nil {
			return ""
		}
		return fmt.Sprintf("Mean temp: %.1f°C", (*d.MaxTemp+*d.MinTemp)/2)
	}
	return "High: " + num(d.MaxTemp) + "°C / Low: " + num(d.MinTemp) + "°C"
}

func round1(p *float64) *float64 {
	if p == nil || math.IsNaN(*p) {
		return nil
	}
	v := math.Round(*p*10) / 10
	return &v
}

// signedDiff formats a-b with an explicit plus sign for positive values.
func signedDiff(a, b *float64) string {
	if a == nil || b == nil || math.IsNaN(*a) || math.IsNaN(*b) {
		return ""
	}
	d := *a - *b
	r := *round1(&d)
	if r == 0 {
		return "0"
	}
	s := strconv.FormatFloat(r, 'f', -1, 64)
	if r > 0 {
		return "+" + s
	}
	return s
}

func num(p *float64) string {
	if p == nil {
		return "n/a"
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}

func clock(t *time.Time, loc *time.Location) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.In(loc).Format("15:04")
}
