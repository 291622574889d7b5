package weathertalk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weather-talk/internal/engine"
	"weather-talk/internal/models"
	"weather-talk/internal/reference"
	"weather-talk/internal/rules"
	"weather-talk/shared/config"
)

func f(v float64) *float64 { return &v }

func code(c int) *int { return &c }

func TestRound1AndSignedDiff(t *testing.T) {
	assert.Nil(t, round1(nil))
	assert.Equal(t, 23.5, *round1(f(23.46)))
	assert.Equal(t, -1.2, *round1(f(-1.24)))

	tests := []struct {
		a, b *float64
		want string
	}{
		{f(29), f(24), "+5"},
		{f(21.3), f(24), "-2.7"},
		{f(20), f(20), "0"},
		{f(20.02), f(20), "0"},
		{nil, f(20), ""},
		{f(20), nil, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, signedDiff(tt.a, tt.b))
	}
}

func TestWeatherType(t *testing.T) {
	tests := []struct {
		code *int
		want string
	}{
		{nil, "cloudy"},
		{code(0), "clear"},
		{code(1), "clear"},
		{code(3), "cloudy"},
		{code(45), "cloudy"},
		{code(61), "rain"},
		{code(81), "rain"},
		{code(73), "snow"},
		{code(86), "snow"},
		{code(95), "storm"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, WeatherType(tt.code))
	}
}

func TestEvidence(t *testing.T) {
	d := models.Details{
		MaxTemp:          f(29),
		MinTemp:          f(21),
		YesterdayDiff:    "+5",
		ApparentMax:      f(31.5),
		ApparentDeltaMax: "+2.5",
		Rain:             f(2),
		YesterdayRain:    f(14.5),
		RainProbToday:    f(70),
		RainProbTomorrow: f(40),
		WindMax:          f(9.2),
		GustMax:          f(13),
		Humidity:         f(82),
		SunshineHours:    f(3.5),
		Sunset:           "16:40",
	}

	tests := []struct {
		kind rules.Evidence
		want string
	}{
		{rules.EvidenceBasic, "High: 29°C / Low: 21°C"},
		{rules.EvidenceMaxTemp, "Max temp: 29°C"},
		{rules.EvidenceYesterdayDiff, "vs yesterday: +5°C"},
		{rules.EvidenceDiurnalRange, "Day-night range: 8.0°C"},
		{rules.EvidenceYesterdayRain, "Rain yesterday: 14.5mm"},
		{rules.EvidenceRainProbToday, "Chance of rain: 70%"},
		{rules.EvidenceRainProbTomorrow, "Chance of rain tomorrow: 40%"},
		{rules.EvidenceSunBreak, "Rain: 2mm / Sunshine: 3.5h"},
		{rules.EvidenceWind, "Max wind: 9.2m/s / Gusts: 13m/s"},
		{rules.EvidenceGust, "Gusts: 13m/s"},
		{rules.EvidenceColdWind, "Max temp: 29°C / Wind: 9.2m/s"},
		{rules.EvidenceHumidityTemp, "Humidity: 82% / Temp: 29°C"},
		{rules.EvidenceHumidity, "Humidity: 82%"},
		{rules.EvidenceApparent, "Feels like: 31.5°C (+2.5°C)"},
		{rules.EvidenceSunset, "Sunset: 16:40"},
		{rules.EvidenceMeanTemp, "Mean temp: 25.0°C"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Evidence(tt.kind, d))
	}

	empty := models.Details{}
	assert.Equal(t, "", Evidence(rules.EvidenceSunset, empty))
	assert.Equal(t, "", Evidence(rules.EvidenceMeanTemp, empty))
	assert.Equal(t, "High: n/a°C / Low: n/a°C", Evidence(rules.EvidenceBasic, empty))
}

func TestReporterBuild(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	sunset := time.Date(2025, 10, 15, 17, 13, 0, 0, tokyo)
	ctx := &models.WeatherContext{
		Yesterday: models.DayRecord{Max: f(24), Rain: f(0)},
		Today: models.DayRecord{
			Date:        time.Date(2025, 10, 15, 0, 0, 0, 0, tokyo),
			Max:         f(29.04),
			Min:         f(21),
			AppMax:      f(29.5),
			SunshineSec: f(25200),
			Sunset:      &sunset,
			Code:        code(1),
		},
		Tomorrow: models.DayRecord{RainProb: f(70)},
	}

	cfg := config.Default()
	catalog := rules.NewCatalog(reference.Default())
	ranker := engine.NewRanker(cfg.Ranking.TopicOrder, cfg.Ranking.Limits)
	result := ranker.Rank([]models.Hit{
		{ID: "temp.delta", Topic: models.TopicTemp, Weight: 50, Text: "Even hotter than yesterday."},
		{ID: "temp.absolute.hot", Topic: models.TopicTemp, Weight: 65, Text: "It's as hot as midsummer out there."},
		{ID: "temp.diurnal", Topic: models.TopicTemp, Weight: 45, Text: "Cold this morning, but it's warming up now."},
		{ID: "rain.tomorrow.probable", Topic: models.TopicRain, Weight: 55, Text: "They say it'll rain tomorrow."},
	})

	now := time.Date(2025, 10, 15, 3, 0, 0, 0, time.UTC)
	report := NewReporter(catalog, cfg.Ranking, "Tokyo", tokyo).Build("run-1", now, ctx, models.Noon, result)

	assert.Equal(t, "run-1", report.RunID)
	assert.Equal(t, "2025-10-15T12:00:00+09:00", report.UpdatedAtLocal)
	assert.Equal(t, "2025-10-15", report.Date)
	assert.Equal(t, models.Noon, report.TimeOfDay)

	require.Len(t, report.TopPhrases, 3)
	assert.Equal(t, "temp.absolute.hot", report.TopPhrases[0].ID)
	assert.Equal(t, "Max temp: 29°C", report.TopPhrases[0].Evidence)
	assert.Equal(t, "vs yesterday: +5°C", report.TopPhrases[1].Evidence)
	assert.Equal(t, "temp.diurnal", report.TopPhrases[2].ID)

	require.Len(t, report.ByTopic, len(cfg.Ranking.TopicOrder))
	for i, section := range report.ByTopic {
		assert.Equal(t, cfg.Ranking.TopicOrder[i], section.Topic)
		assert.NotNil(t, section.Phrases)
	}
	assert.Equal(t, "Temperature", report.ByTopic[0].Header)
	assert.Len(t, report.ByTopic[0].Phrases, 2)
	assert.Equal(t, "Chance of rain tomorrow: 70%", report.ByTopic[1].Phrases[0].Evidence)
	assert.Empty(t, report.ByTopic[2].Phrases)

	d := report.Details
	assert.Equal(t, 29.0, *d.MaxTemp)
	assert.Equal(t, "+5", d.YesterdayDiff)
	assert.Equal(t, "+0.5", d.ApparentDeltaMax)
	assert.Equal(t, "", d.ApparentDeltaMin)
	assert.Equal(t, 7.0, *d.SunshineHours)
	assert.Equal(t, "17:13", d.Sunset)
	assert.Equal(t, "", d.Sunrise)
	assert.Equal(t, "clear", d.WeatherType)
	assert.Equal(t, 70.0, *d.RainProbTomorrow)
}

func TestReporterFallbackEvidence(t *testing.T) {
	ctx := &models.WeatherContext{Today: models.DayRecord{Max: f(21), Min: f(16)}}
	result := models.EvaluationResult{
		Flat: []models.Hit{{ID: engine.FallbackID, Topic: models.TopicFallback, Weight: 1, Text: "A calm day today."}},
	}

	report := NewReporter(rules.NewCatalog(reference.Default()), config.Default().Ranking, "Tokyo", nil).
		Build("run-2", time.Now(), ctx, models.Evening, result)

	require.Len(t, report.TopPhrases, 1)
	assert.Equal(t, "High: 21°C / Low: 16°C", report.TopPhrases[0].Evidence)
}
