package matching

import (
	"sort"
	"strconv"

	"github.com/sistersconnect/backend/internal/domain"
)

const (
	// similarityThreshold is the minimum behavior similarity for a user
	// to count as a collaborative-filtering neighbor.
	similarityThreshold = 0.3

	// maxNeighbors bounds how many similar users feed a prediction.
	maxNeighbors = 5
)

// BehaviorTracker records interaction outcomes and derives
// collaborative-filtering signals from them. Tracking is pure: it
// returns a new behavior record and never mutates the input, so the
// caller stays in control of persistence.
type BehaviorTracker struct{}

func NewBehaviorTracker() *BehaviorTracker {
	return &BehaviorTracker{}
}

// TrackInteraction appends targetID to the outcome set for
// interactionType, if not already present.
func (t *BehaviorTracker) TrackInteraction(
	behavior *domain.UserBehavior,
	targetID string,
	outcome domain.InteractionOutcome,
) (*domain.UserBehavior, error) {
	updated := behavior.Clone()

	switch outcome {
	case domain.OutcomeLike:
		updated.LikedProfiles = appendIfAbsent(updated.LikedProfiles, targetID)
	case domain.OutcomeDislike:
		updated.DislikedProfiles = appendIfAbsent(updated.DislikedProfiles, targetID)
	case domain.OutcomeAccept:
		updated.AcceptedConnections = appendIfAbsent(updated.AcceptedConnections, targetID)
	case domain.OutcomeDecline:
		updated.DeclinedConnections = appendIfAbsent(updated.DeclinedConnections, targetID)
	case domain.OutcomeReport:
		updated.ReportedUsers = appendIfAbsent(updated.ReportedUsers, targetID)
	default:
		return nil, domain.ErrUnknownOutcome
	}

	return updated, nil
}

func appendIfAbsent(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}

type similarUser struct {
	userID     string
	similarity float64
}

// PredictCompatibility estimates how well targetID fits userID by
// looking at how behaviorally similar users treated the target.
// Returns the neutral 50 when no signal exists.
func (t *BehaviorTracker) PredictCompatibility(
	userID, targetID string,
	allBehaviors map[string]*domain.UserBehavior,
) float64 {
	behavior, ok := allBehaviors[userID]
	if !ok {
		return 50
	}

	neighbors := t.findSimilarUsers(behavior, allBehaviors)
	if len(neighbors) > maxNeighbors {
		neighbors = neighbors[:maxNeighbors]
	}

	var totalScore, weightSum float64
	for _, neighbor := range neighbors {
		neighborBehavior := allBehaviors[neighbor.userID]

		score := 50.0
		switch {
		case containsID(neighborBehavior.LikedProfiles, targetID):
			score = 80
		case containsID(neighborBehavior.AcceptedConnections, targetID):
			score = 90
		case containsID(neighborBehavior.DislikedProfiles, targetID):
			score = 20
		case containsID(neighborBehavior.DeclinedConnections, targetID):
			score = 10
		}

		totalScore += score * neighbor.similarity
		weightSum += neighbor.similarity
	}

	if weightSum == 0 {
		return 50
	}
	return totalScore / weightSum
}

// AdjustScores applies the collaborative-filtering bonus on top of
// already computed matches. The pass is additive: it returns adjusted
// clones and leaves the originals untouched.
func (t *BehaviorTracker) AdjustScores(
	matches []*domain.MatchScore,
	userID string,
	allBehaviors map[string]*domain.UserBehavior,
) []*domain.MatchScore {
	adjusted := make([]*domain.MatchScore, len(matches))
	for i, match := range matches {
		clone := match.Clone()

		estimate := t.PredictCompatibility(userID, match.UserID, allBehaviors)
		bonus := (estimate - 50) * 0.2 // at most ±10 points

		clone.TotalScore = clampScore(clone.TotalScore + bonus)
		if bonus > 2 {
			clone.Reasons = append(clone.Reasons,
				"Sisters with similar preferences also connected with this person")
		}
		adjusted[i] = clone
	}
	return adjusted
}

// RecommendationDiversity measures how varied a result list is across
// age, city and practice level: the mean of per-dimension uniqueness
// ratios, in [0,100]. Short lists count as fully diverse.
func (t *BehaviorTracker) RecommendationDiversity(
	matches []*domain.MatchScore,
	profiles map[string]*domain.Profile,
) float64 {
	if len(matches) < 2 {
		return 100
	}

	var ages, cities, levels []string
	for _, match := range matches {
		profile, ok := profiles[match.UserID]
		if !ok {
			continue
		}
		ages = append(ages, strconv.Itoa(profile.Age))
		cities = append(cities, profile.Location.City)
		levels = append(levels, string(profile.IslamicProfile.PracticeLevel))
	}

	return (uniquenessRatio(ages) + uniquenessRatio(cities) + uniquenessRatio(levels)) / 3
}

func uniquenessRatio(values []string) float64 {
	if len(values) == 0 {
		return 100
	}
	unique := toSet(values)
	ratio := float64(len(unique)) / float64(len(values)) * 100
	if ratio > 100 {
		ratio = 100
	}
	return ratio
}

func (t *BehaviorTracker) findSimilarUsers(
	behavior *domain.UserBehavior,
	allBehaviors map[string]*domain.UserBehavior,
) []similarUser {
	var neighbors []similarUser
	for otherID, other := range allBehaviors {
		if otherID == behavior.UserID {
			continue
		}
		similarity := behaviorSimilarity(behavior, other)
		if similarity > similarityThreshold {
			neighbors = append(neighbors, similarUser{userID: otherID, similarity: similarity})
		}
	}

	sort.Slice(neighbors, func(i, j int) bool {
		if neighbors[i].similarity == neighbors[j].similarity {
			return neighbors[i].userID < neighbors[j].userID
		}
		return neighbors[i].similarity > neighbors[j].similarity
	})
	return neighbors
}

// behaviorSimilarity is the average Jaccard similarity of the liked
// and accepted sets, in [0,1].
func behaviorSimilarity(a, b *domain.UserBehavior) float64 {
	liked := JaccardSimilarity(a.LikedProfiles, b.LikedProfiles) / 100
	accepted := JaccardSimilarity(a.AcceptedConnections, b.AcceptedConnections) / 100
	return (liked + accepted) / 2
}

func containsID(list []string, id string) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}
