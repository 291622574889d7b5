// Package reference holds the numeric thresholds and monthly climatology
// the phrase rules compare against. Values are plain data and can be
// overridden from the YAML config or swapped wholesale in tests.
package reference

import "time"

// Thresholds are the boundaries rules compare against. Temperatures are
// Celsius, rain is mm, wind is m/s, probabilities and humidity are percent.
// Clock-time thresholds are offsets from local midnight.
type Thresholds struct {
	// Temperature
	HotMax          float64 `yaml:"hotMax"`
	ColdMax         float64 `yaml:"coldMax"`
	DeltaDay        float64 `yaml:"deltaDay"`
	DeltaWarmCutoff float64 `yaml:"deltaWarmCutoff"` // yesterday's max above which a change reads as hotter/cooler
	Diurnal         float64 `yaml:"diurnal"`

	// Rain
	RainProbToday    float64       `yaml:"rainProbToday"`
	RainProbTomorrow float64       `yaml:"rainProbTomorrow"`
	HeavyRainYday    float64       `yaml:"heavyRainYday"`
	SunBreakSunshine time.Duration `yaml:"sunBreakSunshine"`
	SunBreakRainMin  float64       `yaml:"sunBreakRainMin"`

	// Wind and perceived temperature
	WindModerate float64 `yaml:"windModerate"`
	WindStrong   float64 `yaml:"windStrong"`
	GustModerate float64 `yaml:"gustModerate"`
	GustStrong   float64 `yaml:"gustStrong"`
	ApparentGap  float64 `yaml:"apparentGap"`

	// Humidity
	HumidityHigh      float64 `yaml:"humidityHigh"`
	HumidityLow       float64 `yaml:"humidityLow"`
	HumidityMuggyTemp float64 `yaml:"humidityMuggyTemp"`
	HumidityDryTemp   float64 `yaml:"humidityDryTemp"`

	// Season feel, on the mean of max and min
	SummerLike       float64       `yaml:"summerLike"`
	WinterLike       float64       `yaml:"winterLike"`
	SpringAutumnMin  float64       `yaml:"springAutumnMin"`
	SpringAutumnMax  float64       `yaml:"springAutumnMax"`
	SunshineModerate time.Duration `yaml:"sunshineModerate"`

	// Daylight
	SunsetEarly time.Duration `yaml:"sunsetEarly"`
	SunsetLate  time.Duration `yaml:"sunsetLate"`

	// Trends
	WeeklyTempChange   float64    `yaml:"weeklyTempChange"`
	ConsecutiveRainMin float64    `yaml:"consecutiveRainMin"`
	RainySeasonFrom    time.Month `yaml:"rainySeasonFrom"`
	RainySeasonTo      time.Month `yaml:"rainySeasonTo"`

	// Departure of today's max from the monthly normal
	NormalDiffWarm   float64 `yaml:"normalDiffWarm"`
	NormalDiffCold   float64 `yaml:"normalDiffCold"`
	UnseasonableWarm float64 `yaml:"unseasonableWarm"`
	UnseasonableCold float64 `yaml:"unseasonableCold"`
}

// DefaultThresholds returns the values tuned for Tokyo.
func DefaultThresholds() Thresholds {
	return Thresholds{
		HotMax:          28,
		ColdMax:         12,
		DeltaDay:        3,
		DeltaWarmCutoff: 20,
		Diurnal:         7,

		RainProbToday:    60,
		RainProbTomorrow: 50,
		HeavyRainYday:    10,
		SunBreakSunshine: 3 * time.Hour,
		SunBreakRainMin:  1,

		WindModerate: 8,
		WindStrong:   12,
		GustModerate: 10,
		GustStrong:   12,
		ApparentGap:  2,

		HumidityHigh:      75,
		HumidityLow:       40,
		HumidityMuggyTemp: 20,
		HumidityDryTemp:   15,

		SummerLike:       25,
		WinterLike:       10,
		SpringAutumnMin:  15,
		SpringAutumnMax:  20,
		SunshineModerate: 4 * time.Hour,

		SunsetEarly: 17 * time.Hour,
		SunsetLate:  18*time.Hour + 30*time.Minute,

		WeeklyTempChange:   5,
		ConsecutiveRainMin: 1,
		RainySeasonFrom:    time.June,
		RainySeasonTo:      time.July,

		NormalDiffWarm:   2,
		NormalDiffCold:   -2,
		UnseasonableWarm: 4,
		UnseasonableCold: -4,
	}
}
