// Package engine turns a weather context into ranked phrase hits.
//
// Evaluation is a synchronous, in-memory pass: the Evaluator runs every
// active rule and collects hits, the Ranker orders, groups and caps them.
package engine

import (
	"math/rand/v2"

	"weather-talk/internal/models"
	"weather-talk/internal/rules"
)

// Rand picks the fallback phrase. *rand.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

// Stage identifies where a rule fault happened.
type Stage string

const (
	StagePredicate Stage = "predicate"
	StageRender    Stage = "render"
)

// FaultHandler is told about a rule that panicked. The rule is skipped for
// the current pass either way.
type FaultHandler func(ruleID string, stage Stage, recovered any)

// Evaluator runs the active rules of a catalog against one context.
type Evaluator struct {
	catalog rules.Catalog
	rand    Rand
	onFault FaultHandler
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithRand replaces the randomness source used for the fallback phrase.
func WithRand(r Rand) Option {
	return func(e *Evaluator) {
		e.rand = r
	}
}

// WithFaultHandler registers a callback for rules that panic.
func WithFaultHandler(h FaultHandler) Option {
	return func(e *Evaluator) {
		e.onFault = h
	}
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

func NewEvaluator(catalog rules.Catalog, opts ...Option) *Evaluator {
	e := &Evaluator{
		catalog: catalog,
		rand:    globalRand{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate returns the hits of every active rule in rule order. When no
// rule matches it returns exactly one fallback hit, so the result is never
// empty. Hits are not sorted.
func (e *Evaluator) Evaluate(ctx *models.WeatherContext, tod models.TimeOfDay, flags rules.Flags) []models.Hit {
	active := rules.Build(e.catalog, flags)

	var hits []models.Hit
	for _, r := range active {
		if hit, ok := e.apply(r, ctx, tod); ok {
			hits = append(hits, hit)
		}
	}

	if len(hits) == 0 {
		hits = append(hits, e.fallback(tod))
	}
	return hits
}

// apply evaluates one rule, converting a panic into a non-match.
func (e *Evaluator) apply(r rules.Rule, ctx *models.WeatherContext, tod models.TimeOfDay) (hit models.Hit, ok bool) {
	stage := StagePredicate
	defer func() {
		if rec := recover(); rec != nil {
			if e.onFault != nil {
				e.onFault(r.ID, stage, rec)
			}
			hit, ok = models.Hit{}, false
		}
	}()

	if r.Predicate == nil || r.Render == nil {
		return models.Hit{}, false
	}
	if !r.Predicate(ctx) {
		return models.Hit{}, false
	}

	stage = StageRender
	text := r.Render(tod, ctx)
	if text == "" {
		return models.Hit{}, false
	}

	return models.Hit{
		ID:     r.ID,
		Topic:  r.Topic,
		Weight: r.Weight,
		Text:   text,
	}, true
}
