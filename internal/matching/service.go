package matching

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/sistersconnect/backend/internal/domain"
)

const (
	// scoreTieWindow is how close two totals must be before the
	// balance tie-break decides their order.
	scoreTieWindow = 5.0

	// popularityWindow bounds which accepted connections count towards
	// a candidate's popularity.
	popularityWindow = 30 * 24 * time.Hour
)

// Config tunes the orchestrator. Zero values fall back to sane
// defaults in NewService.
type Config struct {
	DefaultLimit   int
	FeatureLimit   int
	ScoringWorkers int
	// DedupeInFlight collapses concurrent recomputations of the same
	// cache key into one (cache-stampede protection). Disable to get
	// the simpler compute-per-request behavior.
	DedupeInFlight bool
}

// MatchOptions carries the optional social and behavioral context for
// one matching request. Missing collections degrade gracefully: the
// social bonus and behavior adjustment simply contribute nothing.
type MatchOptions struct {
	Connections  []*domain.Connection
	Communities  []*domain.Community
	Events       []*domain.Event
	Behavior     *domain.UserBehavior
	AllBehaviors map[string]*domain.UserBehavior
	Limit        int
	DisableCache bool
}

// Recommendation is a collaborative-filtering suggestion.
type Recommendation struct {
	UserID string  `json:"user_id"`
	Score  float64 `json:"score"`
	Reason string  `json:"reason"`
}

// NetworkAnalysis summarizes a user's position in the social graph.
type NetworkAnalysis struct {
	ConnectionCount      int     `json:"connection_count"`
	CommunityMemberships int     `json:"community_memberships"`
	InfluenceScore       float64 `json:"influence_score"`
	NetworkDensity       float64 `json:"network_density"`
}

// Service composes the matching pipeline: candidate filtering,
// social-graph bonus, compatibility scoring, decay and popularity
// adjustment, ranking and result caching. The cache is the only
// mutable shared state; everything else is pure per-request work.
type Service struct {
	filter  *CandidateFilter
	scorer  *CompatibilityScorer
	graph   *SocialGraphEngine
	tracker *BehaviorTracker
	cache   ResultCache
	logger  *zap.Logger
	cfg     Config
	group   singleflight.Group
	now     func() time.Time
}

// NewService wires the pipeline around the given result cache.
func NewService(cache ResultCache, logger *zap.Logger, cfg Config) *Service {
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 20
	}
	if cfg.FeatureLimit <= 0 {
		cfg.FeatureLimit = 10
	}
	if cfg.ScoringWorkers <= 0 {
		cfg.ScoringWorkers = 4
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		filter:  NewCandidateFilter(),
		scorer:  NewCompatibilityScorer(),
		graph:   NewSocialGraphEngine(),
		tracker: NewBehaviorTracker(),
		cache:   cache,
		logger:  logger,
		cfg:     cfg,
		now:     time.Now,
	}
}

// WithClock replaces every internal clock; for deterministic tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	s.filter = NewCandidateFilterWithClock(now)
	s.graph = NewSocialGraphEngineWithClock(now)
	return s
}

// Tracker exposes the pure behavior tracker for interaction ingestion.
func (s *Service) Tracker() *BehaviorTracker {
	return s.tracker
}

// Graph exposes the social graph engine for read-only network queries.
func (s *Service) Graph() *SocialGraphEngine {
	return s.graph
}

// FindMatches runs the full pipeline for one requester against a
// candidate pool and returns the ranked, capped result list. A second
// call with identical arguments within the cache TTL serves the cached
// ranking.
func (s *Service) FindMatches(
	ctx context.Context,
	requester *domain.Profile,
	pool []*domain.Profile,
	prefs *domain.Preferences,
	opts *MatchOptions,
) ([]*domain.MatchScore, error) {
	if opts == nil {
		opts = &MatchOptions{}
	}
	if err := prefs.Validate(); err != nil {
		return nil, err
	}
	if err := requester.Validate(); err != nil {
		return nil, err
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}

	key := CacheKey(requester.ID, hashPreferences(prefs))

	if !opts.DisableCache {
		if cached, ok, err := s.cache.Get(ctx, key); err != nil {
			s.logger.Warn("match cache read failed", zap.String("key", key), zap.Error(err))
		} else if ok {
			return clonePrefix(cached, limit), nil
		}
	}

	compute := func() (interface{}, error) {
		ranked := s.computeMatches(ctx, requester, pool, prefs, opts)
		if !opts.DisableCache {
			if err := s.cache.Set(ctx, key, ranked); err != nil {
				s.logger.Warn("match cache write failed", zap.String("key", key), zap.Error(err))
			}
		}
		return ranked, nil
	}

	var ranked []*domain.MatchScore
	if s.cfg.DedupeInFlight {
		result, err, _ := s.group.Do(key, compute)
		if err != nil {
			return nil, err
		}
		ranked = result.([]*domain.MatchScore)
	} else {
		result, _ := compute()
		ranked = result.([]*domain.MatchScore)
	}

	return clonePrefix(ranked, limit), nil
}

// computeMatches scores each filtered candidate independently (fanned
// out across workers), applies decay and popularity adjustments, drops
// non-positive totals and ranks the rest.
func (s *Service) computeMatches(
	ctx context.Context,
	requester *domain.Profile,
	pool []*domain.Profile,
	prefs *domain.Preferences,
	opts *MatchOptions,
) []*domain.MatchScore {
	candidates := s.filter.FilterCandidates(requester, pool, prefs, opts.Behavior)

	scored := make([]*domain.MatchScore, len(candidates))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.ScoringWorkers)

	for i, candidate := range candidates {
		i, candidate := i, candidate
		g.Go(func() error {
			if err := candidate.Validate(); err != nil {
				s.logger.Warn("skipping malformed candidate",
					zap.String("candidate_id", candidate.ID),
					zap.Error(err))
				return nil
			}
			scored[i] = s.scoreCandidate(requester, candidate, prefs, opts)
			return nil
		})
	}
	// Scoring work never returns an error; the barrier just ensures the
	// full score set exists before ranking.
	_ = g.Wait()

	matches := make([]*domain.MatchScore, 0, len(scored))
	for _, m := range scored {
		if m != nil {
			matches = append(matches, m)
		}
	}

	if opts.AllBehaviors != nil {
		matches = s.tracker.AdjustScores(matches, requester.ID, opts.AllBehaviors)
	}

	return s.rankMatches(matches)
}

func (s *Service) scoreCandidate(
	requester, candidate *domain.Profile,
	prefs *domain.Preferences,
	opts *MatchOptions,
) *domain.MatchScore {
	bonus := s.graph.SocialBonus(requester.ID, candidate.ID,
		opts.Connections, opts.Communities, opts.Events)

	match := s.scorer.Score(requester, candidate, prefs, bonus)
	if match.Ineligible() {
		return nil
	}

	daysSinceActive := s.now().Sub(candidate.LastActive).Hours() / 24
	if daysSinceActive < 0 {
		daysSinceActive = 0
	}
	match.TotalScore = TimeDecay(match.TotalScore, daysSinceActive, defaultDecayRate)

	popularity := s.recentConnectionCount(candidate.ID, opts.Connections)
	match.TotalScore = PopularityPenalty(match.TotalScore, popularity, maxPopularityPenalty)

	if match.TotalScore <= 0 {
		return nil
	}
	return match
}

// rankMatches orders by total score; totals within the tie window are
// ordered by breakdown balance (lower variance first). Each result is
// decorated with its percentile rank.
func (s *Service) rankMatches(matches []*domain.MatchScore) []*domain.MatchScore {
	scores := make([]float64, len(matches))
	for i, m := range matches {
		scores[i] = m.TotalScore
	}
	for _, m := range matches {
		rank := PercentileRank(m.TotalScore, scores)
		m.PercentileRank = &rank
	}

	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if math.Abs(a.TotalScore-b.TotalScore) > scoreTieWindow {
			return a.TotalScore > b.TotalScore
		}
		return a.Breakdown.Variance() < b.Breakdown.Variance()
	})
	return matches
}

// FindFeatureMatches serves a single special-feature query: the
// feature's own eligibility sub-filter, normal scoring, then a
// feature-specific bonus. This path is never cached.
func (s *Service) FindFeatureMatches(
	ctx context.Context,
	requester *domain.Profile,
	pool []*domain.Profile,
	feature domain.SpecialFeature,
	prefs *domain.Preferences,
	opts *MatchOptions,
) ([]*domain.MatchScore, error) {
	if opts == nil {
		opts = &MatchOptions{}
	}
	if err := prefs.Validate(); err != nil {
		return nil, err
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = s.cfg.FeatureLimit
	}

	candidates := s.filter.FilterForFeature(requester, pool, feature)

	var matches []*domain.MatchScore
	for _, candidate := range candidates {
		if candidate.ID == requester.ID {
			continue
		}
		if err := candidate.Validate(); err != nil {
			s.logger.Warn("skipping malformed candidate",
				zap.String("candidate_id", candidate.ID),
				zap.Error(err))
			continue
		}

		bonus := s.graph.SocialBonus(requester.ID, candidate.ID,
			opts.Connections, opts.Communities, opts.Events)
		match := s.scorer.Score(requester, candidate, prefs, bonus)
		match.TotalScore += s.featureBonus(requester, candidate, feature)

		if match.TotalScore > 0 && !match.Ineligible() {
			matches = append(matches, match)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].TotalScore > matches[j].TotalScore
	})

	return clonePrefix(matches, limit), nil
}

func (s *Service) featureBonus(requester, candidate *domain.Profile, feature domain.SpecialFeature) float64 {
	switch feature {
	case domain.FeatureStudyBuddy:
		overlap := commonStrings(requester.Interests.StudyInterests, candidate.Interests.StudyInterests)
		return float64(len(overlap)) * 5
	case domain.FeatureMentorship:
		if requester.IslamicProfile.IsNewMuslim != candidate.IslamicProfile.IsNewMuslim {
			return 15
		}
	case domain.FeatureEventCompanion:
		if SameCity(requester.Location, candidate.Location) {
			return 10
		}
	case domain.FeatureProfessionalNetworking:
		overlap := commonStrings(requester.Interests.ProfessionalInterests, candidate.Interests.ProfessionalInterests)
		return float64(len(overlap)) * 3
	}
	return 0
}

// CollaborativeRecommendations suggests candidates that users with a
// similar profile connected with, excluding anyone the requester
// already interacted with.
func (s *Service) CollaborativeRecommendations(
	requester *domain.Profile,
	pool []*domain.Profile,
	connections []*domain.Connection,
	behavior *domain.UserBehavior,
	limit int,
) []Recommendation {
	if limit <= 0 {
		limit = s.cfg.FeatureLimit
	}

	similar := profileSimilarUsers(requester, pool)
	if len(similar) > maxNeighbors {
		similar = similar[:maxNeighbors]
	}

	byID := make(map[string]*Recommendation)
	var order []string
	for _, neighbor := range similar {
		for _, conn := range connections {
			if !conn.IsAccepted() || !conn.HasUser(neighbor.userID) {
				continue
			}
			connectedID, _ := conn.OtherUser(neighbor.userID)
			if connectedID == requester.ID {
				continue
			}
			if behavior != nil && behavior.HasInteractedWith(connectedID) {
				continue
			}

			if rec, ok := byID[connectedID]; ok {
				rec.Score += neighbor.similarity * 0.3
				continue
			}
			byID[connectedID] = &Recommendation{
				UserID: connectedID,
				Score:  neighbor.similarity * 0.3,
				Reason: "Sisters like you also connected with this person",
			}
			order = append(order, connectedID)
		}
	}

	recommendations := make([]Recommendation, 0, len(order))
	for _, id := range order {
		recommendations = append(recommendations, *byID[id])
	}
	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].Score > recommendations[j].Score
	})

	if len(recommendations) > limit {
		recommendations = recommendations[:limit]
	}
	return recommendations
}

type profileNeighbor struct {
	userID     string
	similarity float64
}

// profileSimilarUsers ranks pool members by coarse profile similarity
// to the requester (age, city, practice level, hobby overlap).
func profileSimilarUsers(requester *domain.Profile, pool []*domain.Profile) []profileNeighbor {
	var neighbors []profileNeighbor
	for _, p := range pool {
		if p.ID == requester.ID {
			continue
		}

		var similarity float64
		ageDiff := requester.Age - p.Age
		if ageDiff < 0 {
			ageDiff = -ageDiff
		}
		similarity += math.Max(0, 20-float64(ageDiff))

		if SameCity(requester.Location, p.Location) {
			similarity += 15
		}
		if requester.IslamicProfile.PracticeLevel == p.IslamicProfile.PracticeLevel {
			similarity += 10
		}
		similarity += float64(len(commonStrings(requester.Interests.Hobbies, p.Interests.Hobbies))) * 2

		if similarity > 20 {
			neighbors = append(neighbors, profileNeighbor{userID: p.ID, similarity: similarity})
		}
	}

	sort.SliceStable(neighbors, func(i, j int) bool {
		return neighbors[i].similarity > neighbors[j].similarity
	})
	return neighbors
}

// AnalyzeNetwork summarizes the requester's social graph position.
func (s *Service) AnalyzeNetwork(
	userID string,
	connections []*domain.Connection,
	communities []*domain.Community,
	events []*domain.Event,
) NetworkAnalysis {
	memberships := 0
	for _, community := range communities {
		if community.HasMember(userID) {
			memberships++
		}
	}

	return NetworkAnalysis{
		ConnectionCount:      len(s.graph.connectionsOf(userID, connections)),
		CommunityMemberships: memberships,
		InfluenceScore:       s.graph.InfluenceScore(userID, connections, communities, events),
		NetworkDensity:       s.graph.NetworkDensity(userID, connections),
	}
}

// LearnPreferences derives an updated preferences value from behavior;
// callers persist and apply it before the next request.
func (s *Service) LearnPreferences(
	requester *domain.Profile,
	prefs domain.Preferences,
	behavior *domain.UserBehavior,
	pool []*domain.Profile,
) domain.Preferences {
	return s.filter.UpdatePreferencesFromBehavior(requester, prefs, behavior, pool)
}

// RecommendationDiversity reports how varied a result list is.
func (s *Service) RecommendationDiversity(
	matches []*domain.MatchScore,
	pool []*domain.Profile,
) float64 {
	byID := make(map[string]*domain.Profile, len(pool))
	for _, p := range pool {
		byID[p.ID] = p
	}
	return s.tracker.RecommendationDiversity(matches, byID)
}

// ClearCache invalidates cached rankings: all of them, or only the
// given user's. Callers invoke this whenever a profile affecting
// scoring changes.
func (s *Service) ClearCache(ctx context.Context, userID string) error {
	if userID == "" {
		return s.cache.Clear(ctx)
	}
	return s.cache.DeleteByUser(ctx, userID)
}

// recentConnectionCount measures a candidate's popularity as accepted
// connections within the popularity window.
func (s *Service) recentConnectionCount(userID string, connections []*domain.Connection) int {
	cutoff := s.now().Add(-popularityWindow)
	count := 0
	for _, conn := range connections {
		if !conn.IsAccepted() || !conn.HasUser(userID) {
			continue
		}
		if conn.AcceptedAt != nil && conn.AcceptedAt.After(cutoff) {
			count++
		}
	}
	return count
}

// hashPreferences produces a short stable digest of the serialized
// preferences for cache keying.
func hashPreferences(prefs *domain.Preferences) string {
	raw, err := json.Marshal(prefs)
	if err != nil {
		// Preferences is a plain value type; Marshal cannot fail on it.
		return fmt.Sprintf("%v", prefs)
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])[:20]
}

func clonePrefix(matches []*domain.MatchScore, limit int) []*domain.MatchScore {
	if len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]*domain.MatchScore, len(matches))
	for i, m := range matches {
		out[i] = m.Clone()
	}
	return out
}
