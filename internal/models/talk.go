package models

// Topic is the coarse category a phrase belongs to.
type Topic string

const (
	TopicTemp       Topic = "temp"
	TopicRain       Topic = "rain"
	TopicFeel       Topic = "feel"
	TopicSeason     Topic = "season"
	TopicComparison Topic = "comparison"
	TopicFallback   Topic = "fallback"
)

// TimeOfDay selects the wording variant of a phrase.
type TimeOfDay string

const (
	Morning TimeOfDay = "morning"
	Noon    TimeOfDay = "noon"
	Evening TimeOfDay = "evening"
)

// Valid reports whether t is one of the three known buckets.
func (t TimeOfDay) Valid() bool {
	switch t {
	case Morning, Noon, Evening:
		return true
	}
	return false
}

// Hit is a phrase produced by a matching rule.
type Hit struct {
	ID     string `json:"id"`
	Topic  Topic  `json:"topic"`
	Weight int    `json:"weight"`
	Text   string `json:"text"`
}

// EvaluationResult is the ranked output of one evaluation pass.
// Flat is uncapped; ByTopic holds the capped per-topic lists.
type EvaluationResult struct {
	Flat    []Hit           `json:"flat"`
	ByTopic map[Topic][]Hit `json:"byTopic"`
}

// Top returns at most n hits from the head of Flat.
func (r EvaluationResult) Top(n int) []Hit {
	if n < 0 {
		n = 0
	}
	if n > len(r.Flat) {
		n = len(r.Flat)
	}
	return r.Flat[:n]
}
