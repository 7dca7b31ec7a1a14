package repository

import (
	"context"

	"github.com/sistersconnect/backend/internal/domain"
)

type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.Profile) error
	GetByID(ctx context.Context, id string) (*domain.Profile, error)
	Update(ctx context.Context, profile *domain.Profile) error
	TouchLastActive(ctx context.Context, id string) error
	// ListVerified returns the candidate pool for matching.
	ListVerified(ctx context.Context, limit int) ([]*domain.Profile, error)
}

type ConnectionRepository interface {
	Create(ctx context.Context, conn *domain.Connection) error
	GetByUsers(ctx context.Context, user1ID, user2ID string) (*domain.Connection, error)
	UpdateStatus(ctx context.Context, id string, status domain.ConnectionStatus) error
	ListForUser(ctx context.Context, userID string) ([]*domain.Connection, error)
	// ListAll feeds the social-graph traversals, which need edges beyond
	// the requester's first degree.
	ListAll(ctx context.Context) ([]*domain.Connection, error)
}

type CommunityRepository interface {
	List(ctx context.Context) ([]*domain.Community, error)
}

type EventRepository interface {
	List(ctx context.Context) ([]*domain.Event, error)
}

type BehaviorRepository interface {
	GetByUserID(ctx context.Context, userID string) (*domain.UserBehavior, error)
	Save(ctx context.Context, behavior *domain.UserBehavior) error
	// GetAll keys every stored behavior record by user id, for the
	// collaborative-filtering pass.
	GetAll(ctx context.Context) (map[string]*domain.UserBehavior, error)
}

type PreferenceRepository interface {
	GetByUserID(ctx context.Context, userID string) (*domain.Preferences, error)
	Save(ctx context.Context, userID string, prefs *domain.Preferences) error
}
