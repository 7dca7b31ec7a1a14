package domain

import "math"

// Breakdown holds the weighted contribution of each scoring factor.
// It is a fixed-shape record so the ranking tie-break can compute
// variance exhaustively over exactly these seven slots.
type Breakdown struct {
	InterestCompatibility  float64 `json:"interest_compatibility"`
	LocationProximity      float64 `json:"location_proximity"`
	AgeCompatibility       float64 `json:"age_compatibility"`
	LanguageMatch          float64 `json:"language_match"`
	IslamicCompatibility   float64 `json:"islamic_compatibility"`
	LifestyleCompatibility float64 `json:"lifestyle_compatibility"`
	SocialGraphBonus       float64 `json:"social_graph_bonus"`
}

// Values returns the factor scores in declaration order.
func (b Breakdown) Values() [7]float64 {
	return [7]float64{
		b.InterestCompatibility,
		b.LocationProximity,
		b.AgeCompatibility,
		b.LanguageMatch,
		b.IslamicCompatibility,
		b.LifestyleCompatibility,
		b.SocialGraphBonus,
	}
}

// Variance returns the population variance of the factor scores. A low
// variance means an evenly balanced match.
func (b Breakdown) Variance() float64 {
	values := b.Values()
	var mean float64
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	var variance float64
	for _, v := range values {
		variance += math.Pow(v-mean, 2)
	}
	return variance / float64(len(values))
}

// MatchScore is the scored outcome for one (requester, candidate) pair.
// It is immutable after creation except for ranking's percentile
// decoration and the behavior adjuster's additive pass.
type MatchScore struct {
	UserID          string    `json:"user_id"`
	TotalScore      float64   `json:"total_score"`
	Breakdown       Breakdown `json:"breakdown"`
	Reasons         []string  `json:"reasons"`
	DealBreakers    []string  `json:"deal_breakers,omitempty"`
	SpecialFeatures []string  `json:"special_features,omitempty"`
	PercentileRank  *float64  `json:"percentile_rank,omitempty"`
}

// Ineligible reports whether a deal-breaker fired for this pair. The
// recorded deal-breaker reasons are authoritative; a total score of
// zero alone does not mean ineligible (honest near-zero compatibility
// can round there too).
func (m *MatchScore) Ineligible() bool {
	return len(m.DealBreakers) > 0
}

// Clone returns a deep copy so cached result lists stay immutable.
func (m *MatchScore) Clone() *MatchScore {
	out := *m
	out.Reasons = append([]string(nil), m.Reasons...)
	out.DealBreakers = append([]string(nil), m.DealBreakers...)
	out.SpecialFeatures = append([]string(nil), m.SpecialFeatures...)
	if m.PercentileRank != nil {
		rank := *m.PercentileRank
		out.PercentileRank = &rank
	}
	return &out
}
