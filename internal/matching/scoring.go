package matching

import (
	"math"
	"sort"

	"github.com/sistersconnect/backend/internal/domain"
)

const (
	// defaultDecayRate drives the exponential score decay per day of
	// candidate inactivity.
	defaultDecayRate = 0.02

	// maxPopularityPenalty is the largest deduction applied to heavily
	// connected candidates.
	maxPopularityPenalty = 15.0
)

// AgeCompatibility scores how well candidate age age2 fits a requester
// of age1 with the given preferred range. Returns 0 when age2 falls
// outside the range, 100 for an exact age match, then steps down and
// finally decays linearly with the difference relative to the range
// size, floored at 20.
func AgeCompatibility(age1, age2 int, r domain.AgeRange) float64 {
	if !r.Contains(age2) {
		return 0
	}

	diff := age1 - age2
	if diff < 0 {
		diff = -diff
	}

	switch {
	case diff == 0:
		return 100
	case diff <= 2:
		return 95
	case diff <= 5:
		return 80
	case diff <= 10:
		return 60
	}

	rangeSize := r.Max - r.Min
	if rangeSize <= 0 {
		return 20
	}
	normalized := float64(diff) / float64(rangeSize)
	return math.Max(20, 100-normalized*80)
}

// JaccardSimilarity returns |A∩B| / |A∪B| scaled to [0,100]. Duplicate
// entries are collapsed; an empty union scores 0.
func JaccardSimilarity(a, b []string) float64 {
	setA := toSet(a)
	setB := toSet(b)

	union := make(map[string]struct{}, len(setA)+len(setB))
	intersection := 0
	for v := range setA {
		union[v] = struct{}{}
		if _, ok := setB[v]; ok {
			intersection++
		}
	}
	for v := range setB {
		union[v] = struct{}{}
	}

	if len(union) == 0 {
		return 0
	}
	return float64(intersection) / float64(len(union)) * 100
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// WeightedScore pairs a raw score with its weight.
type WeightedScore struct {
	Score  float64
	Weight float64
}

// WeightedAverage returns Σ(score·weight) / Σ(weight), or 0 when the
// total weight is 0 so callers never see NaN.
func WeightedAverage(pairs []WeightedScore) float64 {
	var totalWeight, weightedSum float64
	for _, p := range pairs {
		totalWeight += p.Weight
		weightedSum += p.Score * p.Weight
	}
	if totalWeight == 0 {
		return 0
	}
	return weightedSum / totalWeight
}

// TimeDecay applies exponential decay to a score based on days of
// inactivity.
func TimeDecay(score, daysSinceActive, decayRate float64) float64 {
	return score * math.Exp(-decayRate*daysSinceActive)
}

// PopularityPenalty subtracts up to maxPenalty points, scaled by the
// candidate's recent connection count normalized against 100. The
// result never goes below 0.
func PopularityPenalty(score float64, popularity int, maxPenalty float64) float64 {
	normalized := math.Min(1, float64(popularity)/100)
	return math.Max(0, score-normalized*maxPenalty)
}

// PercentileRank returns the share of scores at or below the given
// score, in [0,100].
func PercentileRank(score float64, allScores []float64) float64 {
	if len(allScores) == 0 {
		return 100
	}
	sorted := append([]float64(nil), allScores...)
	sort.Float64s(sorted)

	rank := -1
	for i, s := range sorted {
		if s >= score {
			rank = i
			break
		}
	}
	if rank == -1 {
		return 100
	}
	return float64(rank) / float64(len(sorted)) * 100
}

// clampScore bounds a score to the conventional [0,100] range.
func clampScore(score float64) float64 {
	return math.Min(100, math.Max(0, score))
}
