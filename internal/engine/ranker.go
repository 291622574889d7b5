package engine

import (
	"cmp"
	"slices"

	"weather-talk/internal/models"
)

// DefaultTopicOrder is the display order of topics.
func DefaultTopicOrder() []models.Topic {
	return []models.Topic{
		models.TopicTemp,
		models.TopicRain,
		models.TopicFeel,
		models.TopicSeason,
		models.TopicComparison,
		models.TopicFallback,
	}
}

// DefaultLimits caps every topic at two phrases and the fallback at one.
func DefaultLimits() map[models.Topic]int {
	return map[models.Topic]int{
		models.TopicTemp:       2,
		models.TopicRain:       2,
		models.TopicFeel:       2,
		models.TopicSeason:     2,
		models.TopicComparison: 2,
		models.TopicFallback:   1,
	}
}

// Ranker orders hits by topic rank, then weight descending, then id, and
// caps each topic group. Topics missing from the order sort after all
// listed topics; topics without a limit are uncapped.
type Ranker struct {
	rank   map[models.Topic]int
	last   int
	limits map[models.Topic]int
}

func NewRanker(order []models.Topic, limits map[models.Topic]int) Ranker {
	rank := make(map[models.Topic]int, len(order))
	for i, t := range order {
		if _, dup := rank[t]; !dup {
			rank[t] = i
		}
	}

	capped := make(map[models.Topic]int, len(limits))
	for t, n := range limits {
		capped[t] = max(n, 0)
	}

	return Ranker{rank: rank, last: len(order), limits: capped}
}

func (r Ranker) topicRank(t models.Topic) int {
	if i, ok := r.rank[t]; ok {
		return i
	}
	return r.last
}

// Compare is the total order used by Rank.
func (r Ranker) Compare(a, b models.Hit) int {
	if c := cmp.Compare(r.topicRank(a.Topic), r.topicRank(b.Topic)); c != 0 {
		return c
	}
	if c := cmp.Compare(b.Weight, a.Weight); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// Limit returns the cap for topic t and whether one is configured.
func (r Ranker) Limit(t models.Topic) (int, bool) {
	n, ok := r.limits[t]
	return n, ok
}

// Rank sorts a copy of hits and groups it by topic. Flat is uncapped.
func (r Ranker) Rank(hits []models.Hit) models.EvaluationResult {
	flat := slices.Clone(hits)
	slices.SortStableFunc(flat, r.Compare)

	byTopic := make(map[models.Topic][]models.Hit)
	for _, h := range flat {
		group, seen := byTopic[h.Topic]
		if !seen {
			group = []models.Hit{}
		}
		if n, ok := r.limits[h.Topic]; ok && len(group) >= n {
			byTopic[h.Topic] = group
			continue
		}
		byTopic[h.Topic] = append(group, h)
	}

	if flat == nil {
		flat = []models.Hit{}
	}
	return models.EvaluationResult{Flat: flat, ByTopic: byTopic}
}
