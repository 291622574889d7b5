package reference

import "time"

// Normal is the long-run average of daily extremes for one month.
type Normal struct {
	AvgMax float64 `yaml:"avgMax" json:"avgMax"`
	AvgMin float64 `yaml:"avgMin" json:"avgMin"`
}

// Climatology maps calendar month to its normals.
type Climatology map[time.Month]Normal

// Lookup returns the normals for month m.
func (c Climatology) Lookup(m time.Month) (Normal, bool) {
	n, ok := c[m]
	return n, ok
}

// TokyoClimatology returns the JMA 1991-2020 normals for Tokyo.
func TokyoClimatology() Climatology {
	return Climatology{
		time.January:   {AvgMax: 9.8, AvgMin: 2.1},
		time.February:  {AvgMax: 10.7, AvgMin: 2.9},
		time.March:     {AvgMax: 14.0, AvgMin: 5.8},
		time.April:     {AvgMax: 19.4, AvgMin: 11.0},
		time.May:       {AvgMax: 23.6, AvgMin: 15.7},
		time.June:      {AvgMax: 26.1, AvgMin: 19.4},
		time.July:      {AvgMax: 29.9, AvgMin: 23.3},
		time.August:    {AvgMax: 31.3, AvgMin: 24.5},
		time.September: {AvgMax: 27.3, AvgMin: 21.1},
		time.October:   {AvgMax: 21.7, AvgMin: 15.0},
		time.November:  {AvgMax: 16.5, AvgMin: 9.4},
		time.December:  {AvgMax: 11.9, AvgMin: 4.4},
	}
}

// Data bundles everything the rule catalog reads.
type Data struct {
	Thresholds  Thresholds  `yaml:"thresholds"`
	Climatology Climatology `yaml:"climatology"`
}

// Default returns the Tokyo thresholds and climatology.
func Default() Data {
	return Data{
		Thresholds:  DefaultThresholds(),
		Climatology: TokyoClimatology(),
	}
}
