// Package mastery aggregates progress records into per-topic statistics and
// an overall exam-readiness score.
package mastery

import (
	"sort"

	"github.com/samber/lo"

	"github.com/abhisek/cramkit/internal/catalog"
	"github.com/abhisek/cramkit/internal/store"
)

// DefaultTopicWeight is used for topics missing from the weight table.
const DefaultTopicWeight = 10

// TopicStat aggregates the items of one category:topic.
type TopicStat struct {
	Category  string
	Topic     string
	Total     int // catalog items in the topic
	Attempted int // items with a progress record
	Correct   int // sum of CorrectStreak over attempted items
	Mastered  int
}

// Key returns the topic's map key.
func (s *TopicStat) Key() string {
	return catalog.TopicKey(s.Category, s.Topic)
}

// Accuracy returns StreakAccuracy for the topic.
func (s *TopicStat) Accuracy() float64 {
	return StreakAccuracy(s.Correct, s.Attempted)
}

// StreakAccuracy is Correct/Attempted*100 where Correct is a sum of streaks,
// not a count of correct answers. It can exceed 100.
func StreakAccuracy(streakSum, attempted int) float64 {
	if attempted == 0 {
		return 0
	}
	return float64(streakSum) / float64(attempted) * 100
}

// ComputeTopicStats builds per-topic statistics keyed by catalog.TopicKey.
// Every catalog item counts toward Total; records without a catalog item
// are ignored.
func ComputeTopicStats(records []store.ProgressRecord, cat *catalog.Catalog) map[string]*TopicStat {
	byID := lo.KeyBy(records, func(r store.ProgressRecord) string { return r.ItemID })

	stats := make(map[string]*TopicStat)
	for _, it := range cat.Items() {
		key := catalog.TopicKey(it.Category, it.Topic)
		st, ok := stats[key]
		if !ok {
			st = &TopicStat{Category: it.Category, Topic: it.Topic}
			stats[key] = st
		}
		st.Total++

		rec, ok := byID[it.ID]
		if !ok {
			continue
		}
		st.Attempted++
		st.Correct += rec.CorrectStreak
		if rec.Mastered() {
			st.Mastered++
		}
	}
	return stats
}

// SortedTopics returns the stats ordered by category, then topic.
func SortedTopics(stats map[string]*TopicStat) []TopicStat {
	out := make([]TopicStat, 0, len(stats))
	for _, st := range stats {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Topic < out[j].Topic
	})
	return out
}

// ComputeReadiness returns the weight-averaged accuracy of attempted topics,
// or 0 when nothing has been attempted. It is not clamped.
func ComputeReadiness(stats map[string]*TopicStat, weights catalog.WeightTable) float64 {
	var parts []WeightedAccuracy
	for _, st := range stats {
		if st.Attempted == 0 {
			continue
		}
		w, ok := weights.Weight(st.Category, st.Topic)
		if !ok {
			w = DefaultTopicWeight
		}
		parts = append(parts, WeightedAccuracy{Accuracy: st.Accuracy(), Weight: w})
	}
	return ReadinessScore(parts)
}

// WeightedAccuracy is one topic's contribution to readiness.
type WeightedAccuracy struct {
	Accuracy float64
	Weight   int
}

// ReadinessScore is sum(accuracy*weight) / sum(weight), 0 when the total
// weight is 0.
func ReadinessScore(parts []WeightedAccuracy) float64 {
	var sum float64
	var total int
	for _, p := range parts {
		sum += p.Accuracy * float64(p.Weight)
		total += p.Weight
	}
	if total == 0 {
		return 0
	}
	return sum / float64(total)
}

// ComputeOverallAccuracy returns NonZeroStreakRatio over all records.
func ComputeOverallAccuracy(records []store.ProgressRecord) float64 {
	return NonZeroStreakRatio(records)
}

// NonZeroStreakRatio is the percentage of records whose current streak is
// positive. Attempt counts are not considered.
func NonZeroStreakRatio(records []store.ProgressRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	n := lo.CountBy(records, func(r store.ProgressRecord) bool { return r.CorrectStreak > 0 })
	return float64(n) / float64(len(records)) * 100
}
