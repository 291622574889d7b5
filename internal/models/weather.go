package models

import (
	"errors"
	"fmt"
	"time"
)

// ErrInsufficientHistory is returned when a daily series is too short to
// hold yesterday, today and tomorrow.
var ErrInsufficientHistory = errors.New("insufficient daily history")

// DayRecord holds one calendar day of observations from the Open-Meteo daily API.
// A nil field means the value was not reported for that day.
type DayRecord struct {
	Date         time.Time  `json:"date"`
	Max          *float64   `json:"max,omitempty"`          // Celsius
	Min          *float64   `json:"min,omitempty"`          // Celsius
	AppMax       *float64   `json:"appMax,omitempty"`       // apparent, Celsius
	AppMin       *float64   `json:"appMin,omitempty"`       // apparent, Celsius
	Rain         *float64   `json:"rain,omitempty"`         // mm
	RainProb     *float64   `json:"rainProb,omitempty"`     // percent, 0-100
	WindMax      *float64   `json:"windMax,omitempty"`      // m/s
	GustMax      *float64   `json:"gustMax,omitempty"`      // m/s
	Code         *int       `json:"code,omitempty"`         // WMO weather code
	SunshineSec  *float64   `json:"sunshineSec,omitempty"`  // seconds
	Sunrise      *time.Time `json:"sunrise,omitempty"`      // local time
	Sunset       *time.Time `json:"sunset,omitempty"`       // local time
	DaylightSec  *float64   `json:"daylightSec,omitempty"`  // seconds
	HumidityMean *float64   `json:"humidityMean,omitempty"` // percent
}

// Month returns the calendar month of the record, or 0 when the date is unknown.
func (d DayRecord) Month() time.Month {
	if d.Date.IsZero() {
		return 0
	}
	return d.Date.Month()
}

// WeatherContext is the read-only input of one evaluation pass.
// Last7 is in chronological order and its final element is Today.
type WeatherContext struct {
	Today     DayRecord   `json:"today"`
	Yesterday DayRecord   `json:"yesterday"`
	Tomorrow  DayRecord   `json:"tomorrow"`
	Last7     []DayRecord `json:"last7"`
}

// NewWeatherContext slices a chronological daily series around the day at
// todayIndex. The series must contain at least one day before and one day
// after today.
func NewWeatherContext(days []DayRecord, todayIndex int) (*WeatherContext, error) {
	if len(days) < 3 {
		return nil, fmt.Errorf("%w: need at least 3 days, got %d", ErrInsufficientHistory, len(days))
	}
	if todayIndex < 1 || todayIndex > len(days)-2 {
		return nil, fmt.Errorf("%w: today index %d out of range for %d days", ErrInsufficientHistory, todayIndex, len(days))
	}

	start := todayIndex - 6
	if start < 0 {
		start = 0
	}
	last7 := make([]DayRecord, todayIndex+1-start)
	copy(last7, days[start:todayIndex+1])

	return &WeatherContext{
		Today:     days[todayIndex],
		Yesterday: days[todayIndex-1],
		Tomorrow:  days[todayIndex+1],
		Last7:     last7,
	}, nil
}
