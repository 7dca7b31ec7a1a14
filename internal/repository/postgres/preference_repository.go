package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/sistersconnect/backend/internal/domain"
	"github.com/sistersconnect/backend/internal/repository"
)

type preferenceRepository struct {
	db *sqlx.DB
}

func NewPreferenceRepository(db *sqlx.DB) repository.PreferenceRepository {
	return &preferenceRepository{db: db}
}

// Preferences are stored as a single JSONB document per user; the
// shape evolves with the matching pipeline and never needs relational
// queries.
func (r *preferenceRepository) GetByUserID(ctx context.Context, userID string) (*domain.Preferences, error) {
	var raw []byte
	query := `SELECT preferences FROM matching_preferences WHERE user_id = $1`
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			prefs := domain.DefaultPreferences()
			return &prefs, nil
		}
		return nil, err
	}

	var prefs domain.Preferences
	if err := json.Unmarshal(raw, &prefs); err != nil {
		return nil, fmt.Errorf("decode preferences for %s: %w", userID, err)
	}
	return &prefs, nil
}

func (r *preferenceRepository) Save(ctx context.Context, userID string, prefs *domain.Preferences) error {
	raw, err := json.Marshal(prefs)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO matching_preferences (user_id, preferences)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET
			preferences = EXCLUDED.preferences,
			updated_at = CURRENT_TIMESTAMP
	`
	_, err = r.db.ExecContext(ctx, query, userID, raw)
	return err
}
