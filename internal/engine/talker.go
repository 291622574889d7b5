package engine

import (
	"weather-talk/internal/models"
	"weather-talk/internal/rules"
)

// Talker runs one full pass: evaluate, then rank.
type Talker struct {
	Evaluator *Evaluator
	Ranker    Ranker
}

func (t Talker) Talk(ctx *models.WeatherContext, tod models.TimeOfDay, flags rules.Flags) models.EvaluationResult {
	return t.Ranker.Rank(t.Evaluator.Evaluate(ctx, tod, flags))
}
