package engine

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weather-talk/internal/models"
	"weather-talk/internal/rules"
)

func hit(id string, topic models.Topic, weight int) models.Hit {
	return models.Hit{ID: id, Topic: topic, Weight: weight, Text: id}
}

func sampleHits() []models.Hit {
	return []models.Hit{
		hit("season.feel.summer-like", models.TopicSeason, 60),
		hit("temp.delta", models.TopicTemp, 50),
		hit("rain.today.probable", models.TopicRain, 65),
		hit("temp.absolute.hot", models.TopicTemp, 65),
		hit("feel.humidity.muggy", models.TopicFeel, 55),
		hit("temp.diurnal", models.TopicTemp, 45),
		hit("comparison.normal.warmer", models.TopicComparison, 54),
		hit("comparison.unseasonable.warm", models.TopicComparison, 68),
		hit("feel.wind.moderate", models.TopicFeel, 48),
		hit("season.daylight.sunset-early", models.TopicSeason, 55),
		hit("season.daylight.sunset-late", models.TopicSeason, 55),
	}
}

func TestRankOrder(t *testing.T) {
	r := NewRanker(DefaultTopicOrder(), DefaultLimits())
	got := r.Rank(sampleHits())

	assert.Equal(t, []string{
		"temp.absolute.hot",
		"temp.delta",
		"temp.diurnal",
		"rain.today.probable",
		"feel.humidity.muggy",
		"feel.wind.moderate",
		"season.feel.summer-like",
		"season.daylight.sunset-early",
		"season.daylight.sunset-late",
		"comparison.unseasonable.warm",
		"comparison.normal.warmer",
	}, hitIDs(got.Flat))
}

func TestRankIsTotalOrder(t *testing.T) {
	r := NewRanker(DefaultTopicOrder(), DefaultLimits())
	want := hitIDs(r.Rank(sampleHits()).Flat)

	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 20; i++ {
		shuffled := sampleHits()
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		assert.Equal(t, want, hitIDs(r.Rank(shuffled).Flat))
	}

	flat := r.Rank(sampleHits()).Flat
	assert.True(t, slices.IsSortedFunc(flat, r.Compare))
}

func TestRankCapsTopics(t *testing.T) {
	r := NewRanker(DefaultTopicOrder(), DefaultLimits())
	got := r.Rank(sampleHits())

	assert.Len(t, got.Flat, 11)
	assert.Equal(t, []string{"temp.absolute.hot", "temp.delta"}, hitIDs(got.ByTopic[models.TopicTemp]))
	assert.Equal(t, []string{"season.feel.summer-like", "season.daylight.sunset-early"}, hitIDs(got.ByTopic[models.TopicSeason]))
	assert.Equal(t, []string{"rain.today.probable"}, hitIDs(got.ByTopic[models.TopicRain]))

	for topic, group := range got.ByTopic {
		limit, ok := r.Limit(topic)
		if ok {
			assert.LessOrEqual(t, len(group), limit, topic)
		}
		assert.True(t, slices.IsSortedFunc(group, r.Compare), topic)
	}
}

func TestRankTopicOutsideOrder(t *testing.T) {
	r := NewRanker([]models.Topic{models.TopicRain, models.TopicTemp}, map[models.Topic]int{models.TopicRain: 1})
	hits := []models.Hit{
		hit("feel.wind.strong", models.TopicFeel, 90),
		hit("temp.delta", models.TopicTemp, 50),
		hit("rain.yesterday.heavy", models.TopicRain, 68),
		hit("rain.today.probable", models.TopicRain, 65),
		hit("feel.wind.moderate", models.TopicFeel, 48),
		hit("feel.humidity.dry", models.TopicFeel, 52),
	}

	got := r.Rank(hits)
	assert.Equal(t, []string{
		"rain.yesterday.heavy",
		"rain.today.probable",
		"temp.delta",
		"feel.wind.strong",
		"feel.humidity.dry",
		"feel.wind.moderate",
	}, hitIDs(got.Flat))

	assert.Len(t, got.ByTopic[models.TopicRain], 1)
	assert.Len(t, got.ByTopic[models.TopicFeel], 3)
}

func TestRankZeroLimitKeepsEmptyGroup(t *testing.T) {
	r := NewRanker(DefaultTopicOrder(), map[models.Topic]int{models.TopicTemp: 0, models.TopicRain: -3})
	got := r.Rank([]models.Hit{
		hit("temp.delta", models.TopicTemp, 50),
		hit("rain.today.probable", models.TopicRain, 65),
	})

	require.Contains(t, got.ByTopic, models.TopicTemp)
	assert.Empty(t, got.ByTopic[models.TopicTemp])
	assert.Empty(t, got.ByTopic[models.TopicRain])
	assert.Len(t, got.Flat, 2)
}

func TestRankDoesNotMutateInput(t *testing.T) {
	hits := sampleHits()
	before := slices.Clone(hits)

	NewRanker(DefaultTopicOrder(), DefaultLimits()).Rank(hits)
	assert.Equal(t, before, hits)
}

func TestRankEmpty(t *testing.T) {
	got := NewRanker(DefaultTopicOrder(), DefaultLimits()).Rank(nil)
	assert.NotNil(t, got.Flat)
	assert.Empty(t, got.Flat)
	assert.Empty(t, got.ByTopic)
}

func TestNewRankerDuplicateTopicKeepsFirstRank(t *testing.T) {
	r := NewRanker([]models.Topic{models.TopicRain, models.TopicTemp, models.TopicRain}, nil)
	a := hit("rain.today.probable", models.TopicRain, 1)
	b := hit("temp.delta", models.TopicTemp, 99)
	assert.Negative(t, r.Compare(a, b))

	_, ok := r.Limit(models.TopicRain)
	assert.False(t, ok)
}

func TestCompareTieBreaksOnID(t *testing.T) {
	r := NewRanker(DefaultTopicOrder(), DefaultLimits())
	a := hit("season.daylight.sunset-early", models.TopicSeason, 55)
	b := hit("season.daylight.sunset-late", models.TopicSeason, 55)

	assert.Negative(t, r.Compare(a, b))
	assert.Positive(t, r.Compare(b, a))
	assert.Zero(t, r.Compare(a, a))
}

func TestTalkerCapsFallback(t *testing.T) {
	talker := Talker{
		Evaluator: NewEvaluator(rules.Catalog{}, WithRand(fixedRand(1))),
		Ranker:    NewRanker(DefaultTopicOrder(), DefaultLimits()),
	}
	got := talker.Talk(quietContext(), models.Morning, nil)

	require.Len(t, got.Flat, 1)
	assert.Equal(t, FallbackID, got.Flat[0].ID)
	assert.Equal(t, got.Flat, got.ByTopic[models.TopicFallback])
	assert.Equal(t, []models.Hit{got.Flat[0]}, got.Top(3))
}
