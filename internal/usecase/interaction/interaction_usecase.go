package interaction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sistersconnect/backend/internal/domain"
	"github.com/sistersconnect/backend/internal/matching"
	"github.com/sistersconnect/backend/internal/repository"
)

type InteractionUseCase struct {
	behaviorRepo repository.BehaviorRepository
	connRepo     repository.ConnectionRepository
	tracker      *matching.BehaviorTracker
	cache        matching.ResultCache
	logger       *zap.Logger
}

func NewInteractionUseCase(
	behaviorRepo repository.BehaviorRepository,
	connRepo repository.ConnectionRepository,
	tracker *matching.BehaviorTracker,
	cache matching.ResultCache,
	logger *zap.Logger,
) *InteractionUseCase {
	return &InteractionUseCase{
		behaviorRepo: behaviorRepo,
		connRepo:     connRepo,
		tracker:      tracker,
		cache:        cache,
		logger:       logger,
	}
}

// InteractionRequest represents one recorded outcome
type InteractionRequest struct {
	TargetUserID string `json:"target_user_id" binding:"required"`
	Outcome      string `json:"outcome" binding:"required"`
}

// InteractionResponse represents the interaction result
type InteractionResponse struct {
	Behavior     *domain.UserBehavior `json:"behavior"`
	IsConnection bool                 `json:"is_connection"`
	Connection   *domain.Connection   `json:"connection,omitempty"`
}

// RecordInteraction updates the user's behavior record with the
// outcome. A mutual accept creates an accepted connection.
func (uc *InteractionUseCase) RecordInteraction(ctx context.Context, userID string, req *InteractionRequest) (*InteractionResponse, error) {
	if userID == req.TargetUserID {
		return nil, domain.ErrCannotMatchSelf
	}

	outcome, err := domain.ParseInteractionOutcome(req.Outcome)
	if err != nil {
		return nil, err
	}

	behavior, err := uc.behaviorRepo.GetByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrBehaviorNotFound) {
			return nil, err
		}
		behavior = domain.NewUserBehavior(userID)
	}

	updated, err := uc.tracker.TrackInteraction(behavior, req.TargetUserID, outcome)
	if err != nil {
		return nil, err
	}

	if err := uc.behaviorRepo.Save(ctx, updated); err != nil {
		return nil, fmt.Errorf("failed to save behavior: %w", err)
	}

	// The recommendation set changed for this user.
	if err := uc.cache.DeleteByUser(ctx, userID); err != nil {
		uc.logger.Warn("failed to clear match cache", zap.String("user_id", userID), zap.Error(err))
	}

	response := &InteractionResponse{Behavior: updated}

	if outcome == domain.OutcomeAccept {
		conn, err := uc.connectOnMutualAccept(ctx, userID, req.TargetUserID)
		if err != nil {
			uc.logger.Warn("mutual accept check failed",
				zap.String("user_id", userID),
				zap.String("target_user_id", req.TargetUserID),
				zap.Error(err))
			return response, nil // the interaction itself succeeded
		}
		if conn != nil {
			response.IsConnection = true
			response.Connection = conn
		}
	}

	return response, nil
}

// connectOnMutualAccept creates an accepted connection once both sides
// have accepted each other.
func (uc *InteractionUseCase) connectOnMutualAccept(ctx context.Context, userID, targetID string) (*domain.Connection, error) {
	targetBehavior, err := uc.behaviorRepo.GetByUserID(ctx, targetID)
	if err != nil {
		if errors.Is(err, domain.ErrBehaviorNotFound) {
			return nil, nil
		}
		return nil, err
	}

	mutual := false
	for _, id := range targetBehavior.AcceptedConnections {
		if id == userID {
			mutual = true
			break
		}
	}
	if !mutual {
		return nil, nil
	}

	existing, err := uc.connRepo.GetByUsers(ctx, userID, targetID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrConnectionNotFound) {
		return nil, err
	}

	now := time.Now()
	conn := &domain.Connection{
		ID:          uuid.NewString(),
		User1ID:     userID,
		User2ID:     targetID,
		InitiatedBy: userID,
		Status:      domain.ConnectionAccepted,
		AcceptedAt:  &now,
	}
	if err := uc.connRepo.Create(ctx, conn); err != nil {
		return nil, err
	}

	uc.logger.Info("connection created on mutual accept",
		zap.String("user1_id", userID),
		zap.String("user2_id", targetID))
	return conn, nil
}

// GetBehavior returns the stored behavior record, or an empty one.
func (uc *InteractionUseCase) GetBehavior(ctx context.Context, userID string) (*domain.UserBehavior, error) {
	behavior, err := uc.behaviorRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrBehaviorNotFound) {
			return domain.NewUserBehavior(userID), nil
		}
		return nil, err
	}
	return behavior, nil
}
