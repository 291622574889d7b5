package weathertalk

import (
	"time"

	"weather-talk/internal/models"
)

const (
	morningEnds = 10
	noonEnds    = 17
)

// TimeOfDayAt buckets t by its wall-clock hour in loc: morning before 10:00,
// noon before 17:00, evening otherwise.
func TimeOfDayAt(t time.Time, loc *time.Location) models.TimeOfDay {
	if loc != nil {
		t = t.In(loc)
	}
	switch h := t.Hour(); {
	case h < morningEnds:
		return models.Morning
	case h < noonEnds:
		return models.Noon
	default:
		return models.Evening
	}
}
