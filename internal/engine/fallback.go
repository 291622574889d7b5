package engine

import "weather-talk/internal/models"

const (
	FallbackID     = "fallback.stable"
	FallbackWeight = 1
)

var fallbackPhrases = map[models.TimeOfDay][]string{
	models.Morning: {
		"A calm morning, isn't it?",
		"A pleasant morning.",
		"The nice weather is holding up.",
	},
	models.Noon: {
		"A comfortable day today.",
		"The weather's been steady.",
		"Calm weather again today.",
	},
	models.Evening: {
		"A peaceful day, wasn't it?",
		"A calm day today.",
		"The nice weather is holding up.",
	},
}

// FallbackPhrases returns the filler phrases for tod. Unknown buckets use
// the noon set.
func FallbackPhrases(tod models.TimeOfDay) []string {
	phrases, ok := fallbackPhrases[tod]
	if !ok {
		phrases = fallbackPhrases[models.Noon]
	}
	out := make([]string, len(phrases))
	copy(out, phrases)
	return out
}

func (e *Evaluator) fallback(tod models.TimeOfDay) models.Hit {
	phrases := FallbackPhrases(tod)
	i := e.rand.IntN(len(phrases))
	if i < 0 || i >= len(phrases) {
		i = 0
	}

	return models.Hit{
		ID:     FallbackID,
		Topic:  models.TopicFallback,
		Weight: FallbackWeight,
		Text:   phrases[i],
	}
}
