package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sistersconnect/backend/internal/domain"
	"github.com/sistersconnect/backend/internal/repository"
)

type behaviorRepository struct {
	db *sqlx.DB
}

func NewBehaviorRepository(db *sqlx.DB) repository.BehaviorRepository {
	return &behaviorRepository{db: db}
}

type behaviorRow struct {
	UserID              string         `db:"user_id"`
	LikedProfiles       pq.StringArray `db:"liked_profiles"`
	DislikedProfiles    pq.StringArray `db:"disliked_profiles"`
	AcceptedConnections pq.StringArray `db:"accepted_connections"`
	DeclinedConnections pq.StringArray `db:"declined_connections"`
	ReportedUsers       pq.StringArray `db:"reported_users"`
	InteractionPatterns []byte         `db:"interaction_patterns"`
}

func (r *behaviorRow) toDomain() (*domain.UserBehavior, error) {
	behavior := &domain.UserBehavior{
		UserID:              r.UserID,
		LikedProfiles:       r.LikedProfiles,
		DislikedProfiles:    r.DislikedProfiles,
		AcceptedConnections: r.AcceptedConnections,
		DeclinedConnections: r.DeclinedConnections,
		ReportedUsers:       r.ReportedUsers,
	}
	if len(r.InteractionPatterns) > 0 {
		if err := json.Unmarshal(r.InteractionPatterns, &behavior.InteractionPatterns); err != nil {
			return nil, fmt.Errorf("decode interaction patterns for %s: %w", r.UserID, err)
		}
	}
	return behavior, nil
}

func (r *behaviorRepository) GetByUserID(ctx context.Context, userID string) (*domain.UserBehavior, error) {
	var row behaviorRow
	query := `SELECT * FROM user_behaviors WHERE user_id = $1`
	if err := r.db.GetContext(ctx, &row, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBehaviorNotFound
		}
		return nil, err
	}
	return row.toDomain()
}

func (r *behaviorRepository) Save(ctx context.Context, behavior *domain.UserBehavior) error {
	patterns, err := json.Marshal(behavior.InteractionPatterns)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO user_behaviors (
			user_id, liked_profiles, disliked_profiles,
			accepted_connections, declined_connections, reported_users,
			interaction_patterns
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE SET
			liked_profiles = EXCLUDED.liked_profiles,
			disliked_profiles = EXCLUDED.disliked_profiles,
			accepted_connections = EXCLUDED.accepted_connections,
			declined_connections = EXCLUDED.declined_connections,
			reported_users = EXCLUDED.reported_users,
			interaction_patterns = EXCLUDED.interaction_patterns
	`
	_, err = r.db.ExecContext(
		ctx, query,
		behavior.UserID,
		pq.Array(behavior.LikedProfiles), pq.Array(behavior.DislikedProfiles),
		pq.Array(behavior.AcceptedConnections), pq.Array(behavior.DeclinedConnections),
		pq.Array(behavior.ReportedUsers),
		patterns,
	)
	return err
}

func (r *behaviorRepository) GetAll(ctx context.Context) (map[string]*domain.UserBehavior, error) {
	var rows []behaviorRow
	query := `SELECT * FROM user_behaviors`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}

	behaviors := make(map[string]*domain.UserBehavior, len(rows))
	for i := range rows {
		behavior, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		behaviors[behavior.UserID] = behavior
	}
	return behaviors, nil
}
