package profile

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sistersconnect/backend/internal/domain"
	"github.com/sistersconnect/backend/internal/matching"
	"github.com/sistersconnect/backend/internal/repository"
)

type ProfileUseCase struct {
	profileRepo repository.ProfileRepository
	prefRepo    repository.PreferenceRepository
	cache       matching.ResultCache
	logger      *zap.Logger
}

func NewProfileUseCase(
	profileRepo repository.ProfileRepository,
	prefRepo repository.PreferenceRepository,
	cache matching.ResultCache,
	logger *zap.Logger,
) *ProfileUseCase {
	return &ProfileUseCase{
		profileRepo: profileRepo,
		prefRepo:    prefRepo,
		cache:       cache,
		logger:      logger,
	}
}

// GetProfile returns a profile by id and marks the viewer active.
func (uc *ProfileUseCase) GetProfile(ctx context.Context, id string) (*domain.Profile, error) {
	return uc.profileRepo.GetByID(ctx, id)
}

// GetPreferences returns the user's stored matching preferences, or
// the permissive defaults.
func (uc *ProfileUseCase) GetPreferences(ctx context.Context, userID string) (*domain.Preferences, error) {
	return uc.prefRepo.GetByUserID(ctx, userID)
}

// UpdatePreferences validates and persists new matching preferences.
// Cached rankings built under the old preferences are invalidated.
func (uc *ProfileUseCase) UpdatePreferences(ctx context.Context, userID string, prefs *domain.Preferences) error {
	if err := prefs.Validate(); err != nil {
		return err
	}
	if err := uc.prefRepo.Save(ctx, userID, prefs); err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	if err := uc.cache.DeleteByUser(ctx, userID); err != nil {
		uc.logger.Warn("failed to clear match cache", zap.String("user_id", userID), zap.Error(err))
	}
	return nil
}

// TouchActivity records that the user was just active; recency feeds
// the time-decay scoring adjustment.
func (uc *ProfileUseCase) TouchActivity(ctx context.Context, userID string) error {
	return uc.profileRepo.TouchLastActive(ctx, userID)
}
