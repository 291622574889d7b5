package models

import "time"

// TalkReport is the JSON document written for the frontend and the email digest.
type TalkReport struct {
	RunID          string         `json:"runId"`
	UpdatedAt      time.Time      `json:"updatedAt"`      // UTC
	UpdatedAtLocal string         `json:"updatedAtLocal"` // RFC3339 in the configured timezone
	Location       string         `json:"location"`
	Date           string         `json:"date"` // YYYY-MM-DD of today
	TimeOfDay      TimeOfDay      `json:"timeOfDay"`
	TopPhrases     []Phrase       `json:"topPhrases"`
	ByTopic        []TopicSection `json:"byTopic"`
	Details        Details        `json:"details"`
}

// Phrase is a hit as presented to readers, with the figure that backs it.
type Phrase struct {
	ID       string `json:"id"`
	Topic    Topic  `json:"topic"`
	Text     string `json:"text"`
	Weight   int    `json:"weight"`
	Evidence string `json:"evidence,omitempty"`
}

// TopicSection is one capped topic group with its display header.
type TopicSection struct {
	Topic   Topic    `json:"topic"`
	Header  string   `json:"header"`
	Phrases []Phrase `json:"phrases"`
}

// Details carries today's rounded figures. Nil and empty values were not reported.
type Details struct {
	MaxTemp          *float64 `json:"maxTemp"`
	MinTemp          *float64 `json:"minTemp"`
	YesterdayDiff    string   `json:"yesterdayDiff,omitempty"`
	ApparentMax      *float64 `json:"apparentMax"`
	ApparentMin      *float64 `json:"apparentMin"`
	ApparentDeltaMax string   `json:"apparentDeltaMax,omitempty"`
	ApparentDeltaMin string   `json:"apparentDeltaMin,omitempty"`
	Rain             *float64 `json:"rain"`
	YesterdayRain    *float64 `json:"yesterdayRain"`
	RainProbToday    *float64 `json:"rainProbToday"`
	RainProbTomorrow *float64 `json:"rainProbTomorrow"`
	WindMax          *float64 `json:"windMax"`
	GustMax          *float64 `json:"gustMax"`
	Humidity         *float64 `json:"humidity"`
	SunshineHours    *float64 `json:"sunshineHours"`
	Sunrise          string   `json:"sunrise,omitempty"` // HH:MM local
	Sunset           string   `json:"sunset,omitempty"`  // HH:MM local
	Code             *int     `json:"code"`
	WeatherType      string   `json:"weatherType"`
}
