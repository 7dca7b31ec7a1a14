package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sistersconnect/backend/internal/domain"
	"github.com/sistersconnect/backend/internal/repository"
)

type connectionRepository struct {
	db *sqlx.DB
}

func NewConnectionRepository(db *sqlx.DB) repository.ConnectionRepository {
	return &connectionRepository{db: db}
}

func (r *connectionRepository) Create(ctx context.Context, conn *domain.Connection) error {
	if conn.ID == "" {
		conn.ID = uuid.NewString()
	}
	query := `
		INSERT INTO connections (id, user1_id, user2_id, initiated_by, status, match_score, accepted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`
	return r.db.QueryRowContext(
		ctx, query,
		conn.ID, conn.User1ID, conn.User2ID, conn.InitiatedBy,
		conn.Status, conn.MatchScore, conn.AcceptedAt,
	).Scan(&conn.CreatedAt)
}

func (r *connectionRepository) GetByUsers(ctx context.Context, user1ID, user2ID string) (*domain.Connection, error) {
	var conn domain.Connection
	query := `
		SELECT id, user1_id, user2_id, initiated_by, status, match_score,
		       created_at, accepted_at, last_interaction
		FROM connections
		WHERE (user1_id = $1 AND user2_id = $2) OR (user1_id = $2 AND user2_id = $1)
	`
	if err := r.db.GetContext(ctx, &conn, query, user1ID, user2ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrConnectionNotFound
		}
		return nil, err
	}
	return &conn, nil
}

func (r *connectionRepository) UpdateStatus(ctx context.Context, id string, status domain.ConnectionStatus) error {
	query := `
		UPDATE connections
		SET status = $1,
		    accepted_at = CASE WHEN $1 = 'accepted' THEN CURRENT_TIMESTAMP ELSE accepted_at END
		WHERE id = $2
	`
	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrConnectionNotFound
	}
	return nil
}

func (r *connectionRepository) ListForUser(ctx context.Context, userID string) ([]*domain.Connection, error) {
	var conns []*domain.Connection
	query := `
		SELECT id, user1_id, user2_id, initiated_by, status, match_score,
		       created_at, accepted_at, last_interaction
		FROM connections
		WHERE user1_id = $1 OR user2_id = $1
		ORDER BY created_at DESC
	`
	err := r.db.SelectContext(ctx, &conns, query, userID)
	return conns, err
}

func (r *connectionRepository) ListAll(ctx context.Context) ([]*domain.Connection, error) {
	var conns []*domain.Connection
	query := `
		SELECT id, user1_id, user2_id, initiated_by, status, match_score,
		       created_at, accepted_at, last_interaction
		FROM connections
	`
	err := r.db.SelectContext(ctx, &conns, query)
	return conns, err
}
