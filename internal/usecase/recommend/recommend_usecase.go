package recommend

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/sistersconnect/backend/internal/domain"
	"github.com/sistersconnect/backend/internal/infrastructure/gemini"
	"github.com/sistersconnect/backend/internal/matching"
	"github.com/sistersconnect/backend/internal/repository"
)

// candidatePoolLimit bounds how many verified profiles one request
// loads before filtering.
const candidatePoolLimit = 1000

type RecommendUseCase struct {
	matcher       *matching.Service
	profileRepo   repository.ProfileRepository
	connRepo      repository.ConnectionRepository
	communityRepo repository.CommunityRepository
	eventRepo     repository.EventRepository
	behaviorRepo  repository.BehaviorRepository
	prefRepo      repository.PreferenceRepository
	geminiClient  *gemini.GeminiClient
	logger        *zap.Logger
}

func NewRecommendUseCase(
	matcher *matching.Service,
	profileRepo repository.ProfileRepository,
	connRepo repository.ConnectionRepository,
	communityRepo repository.CommunityRepository,
	eventRepo repository.EventRepository,
	behaviorRepo repository.BehaviorRepository,
	prefRepo repository.PreferenceRepository,
	geminiClient *gemini.GeminiClient,
	logger *zap.Logger,
) *RecommendUseCase {
	return &RecommendUseCase{
		matcher:       matcher,
		profileRepo:   profileRepo,
		connRepo:      connRepo,
		communityRepo: communityRepo,
		eventRepo:     eventRepo,
		behaviorRepo:  behaviorRepo,
		prefRepo:      prefRepo,
		geminiClient:  geminiClient,
		logger:        logger,
	}
}

// MatchesRequest carries the optional knobs of a matches query.
type MatchesRequest struct {
	Limit        int
	DisableCache bool
	// WithBehavior enables the collaborative re-ranking pass, which
	// needs every stored behavior record.
	WithBehavior bool
}

// GetMatches runs the full pipeline for the user and returns the
// ranked list.
func (uc *RecommendUseCase) GetMatches(ctx context.Context, userID string, req *MatchesRequest) ([]*domain.MatchScore, error) {
	if req == nil {
		req = &MatchesRequest{}
	}

	requester, prefs, err := uc.loadRequester(ctx, userID)
	if err != nil {
		return nil, err
	}

	pool, err := uc.profileRepo.ListVerified(ctx, candidatePoolLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidate pool: %w", err)
	}

	opts, err := uc.loadMatchContext(ctx, userID, req.WithBehavior)
	if err != nil {
		return nil, err
	}
	opts.Limit = req.Limit
	opts.DisableCache = req.DisableCache

	return uc.matcher.FindMatches(ctx, requester, pool, prefs, opts)
}

// GetFeatureMatches serves one special-feature companion query.
func (uc *RecommendUseCase) GetFeatureMatches(ctx context.Context, userID, feature string, limit int) ([]*domain.MatchScore, error) {
	parsed, err := domain.ParseSpecialFeature(feature)
	if err != nil {
		return nil, err
	}

	requester, prefs, err := uc.loadRequester(ctx, userID)
	if err != nil {
		return nil, err
	}

	pool, err := uc.profileRepo.ListVerified(ctx, candidatePoolLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidate pool: %w", err)
	}

	opts, err := uc.loadMatchContext(ctx, userID, false)
	if err != nil {
		return nil, err
	}
	opts.Limit = limit

	return uc.matcher.FindFeatureMatches(ctx, requester, pool, parsed, prefs, opts)
}

// GetCollaborative returns suggestions derived from what similar
// sisters connected with.
func (uc *RecommendUseCase) GetCollaborative(ctx context.Context, userID string, limit int) ([]matching.Recommendation, error) {
	requester, err := uc.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	pool, err := uc.profileRepo.ListVerified(ctx, candidatePoolLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidate pool: %w", err)
	}

	connections, err := uc.connRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load connections: %w", err)
	}

	behavior, err := uc.loadBehavior(ctx, userID)
	if err != nil {
		return nil, err
	}

	return uc.matcher.CollaborativeRecommendations(requester, pool, connections, behavior, limit), nil
}

// GetNetworkAnalysis summarizes the user's social graph position.
func (uc *RecommendUseCase) GetNetworkAnalysis(ctx context.Context, userID string) (*matching.NetworkAnalysis, error) {
	if _, err := uc.profileRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	connections, communities, events, err := uc.loadGraph(ctx)
	if err != nil {
		return nil, err
	}

	analysis := uc.matcher.AnalyzeNetwork(userID, connections, communities, events)
	return &analysis, nil
}

// GetTrustPaths finds second-degree candidates reachable through the
// user's accepted connections.
func (uc *RecommendUseCase) GetTrustPaths(ctx context.Context, userID string, maxHops int) ([]matching.TrustPath, error) {
	if maxHops <= 0 {
		maxHops = 3
	}

	connections, err := uc.connRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load connections: %w", err)
	}

	return uc.matcher.Graph().TrustPathRecommendations(userID, connections, maxHops), nil
}

// GetConversationStarters suggests openers for userID to send to
// targetID. AI enrichment is best-effort; the deterministic starters
// always back it up.
func (uc *RecommendUseCase) GetConversationStarters(ctx context.Context, userID, targetID string) ([]string, error) {
	if userID == targetID {
		return nil, domain.ErrCannotMatchSelf
	}

	requester, err := uc.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	target, err := uc.profileRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if uc.geminiClient != nil {
		starters, err := uc.geminiClient.GenerateConversationStarters(ctx, requester, target)
		if err == nil && len(starters) > 0 {
			return starters, nil
		}
		if err != nil {
			uc.logger.Warn("gemini starters unavailable, using fallback",
				zap.String("user_id", userID), zap.Error(err))
		}
	}

	return matching.ConversationStarters(requester, target), nil
}

// LearnPreferences derives widened preferences from accumulated
// behavior and persists them.
func (uc *RecommendUseCase) LearnPreferences(ctx context.Context, userID string) (*domain.Preferences, error) {
	requester, prefs, err := uc.loadRequester(ctx, userID)
	if err != nil {
		return nil, err
	}

	behavior, err := uc.loadBehavior(ctx, userID)
	if err != nil {
		return nil, err
	}

	pool, err := uc.profileRepo.ListVerified(ctx, candidatePoolLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidate pool: %w", err)
	}

	learned := uc.matcher.LearnPreferences(requester, *prefs, behavior, pool)
	if err := uc.prefRepo.Save(ctx, userID, &learned); err != nil {
		return nil, fmt.Errorf("failed to save learned preferences: %w", err)
	}

	// Rankings computed under the old preferences are stale now.
	if err := uc.matcher.ClearCache(ctx, userID); err != nil {
		uc.logger.Warn("failed to clear match cache", zap.String("user_id", userID), zap.Error(err))
	}

	return &learned, nil
}

// ClearCache invalidates the user's cached rankings, or everything
// when userID is empty.
func (uc *RecommendUseCase) ClearCache(ctx context.Context, userID string) error {
	return uc.matcher.ClearCache(ctx, userID)
}

func (uc *RecommendUseCase) loadRequester(ctx context.Context, userID string) (*domain.Profile, *domain.Preferences, error) {
	requester, err := uc.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	prefs, err := uc.prefRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load preferences: %w", err)
	}
	return requester, prefs, nil
}

func (uc *RecommendUseCase) loadBehavior(ctx context.Context, userID string) (*domain.UserBehavior, error) {
	behavior, err := uc.behaviorRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrBehaviorNotFound) {
			return domain.NewUserBehavior(userID), nil
		}
		return nil, err
	}
	return behavior, nil
}

func (uc *RecommendUseCase) loadGraph(ctx context.Context) ([]*domain.Connection, []*domain.Community, []*domain.Event, error) {
	connections, err := uc.connRepo.ListAll(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load connections: %w", err)
	}
	communities, err := uc.communityRepo.List(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load communities: %w", err)
	}
	events, err := uc.eventRepo.List(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load events: %w", err)
	}
	return connections, communities, events, nil
}

func (uc *RecommendUseCase) loadMatchContext(ctx context.Context, userID string, withBehavior bool) (*matching.MatchOptions, error) {
	connections, communities, events, err := uc.loadGraph(ctx)
	if err != nil {
		return nil, err
	}

	behavior, err := uc.loadBehavior(ctx, userID)
	if err != nil {
		return nil, err
	}

	opts := &matching.MatchOptions{
		Connections: connections,
		Communities: communities,
		Events:      events,
		Behavior:    behavior,
	}

	if withBehavior {
		allBehaviors, err := uc.behaviorRepo.GetAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load behaviors: %w", err)
		}
		opts.AllBehaviors = allBehaviors
	}
	return opts, nil
}
