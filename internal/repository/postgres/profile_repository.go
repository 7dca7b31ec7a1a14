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

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

// profileRow is the flat storage shape; the nested profile dimensions
// live in JSONB columns.
type profileRow struct {
	ID                 string         `db:"id"`
	FirstName          string         `db:"first_name"`
	Age                int            `db:"age"`
	Latitude           float64        `db:"latitude"`
	Longitude          float64        `db:"longitude"`
	City               string         `db:"city"`
	Country            string         `db:"country"`
	Timezone           string         `db:"timezone"`
	Languages          pq.StringArray `db:"languages"`
	SecondaryLanguages pq.StringArray `db:"secondary_languages"`
	IslamicProfile     []byte         `db:"islamic_profile"`
	Interests          []byte         `db:"interests"`
	Lifestyle          []byte         `db:"lifestyle"`
	CreatedAt          sql.NullTime   `db:"created_at"`
	LastActive         sql.NullTime   `db:"last_active"`
	Verified           bool           `db:"verified"`
}

func (r *profileRow) toDomain() (*domain.Profile, error) {
	profile := &domain.Profile{
		ID:        r.ID,
		FirstName: r.FirstName,
		Age:       r.Age,
		Location: domain.Location{
			Latitude:  r.Latitude,
			Longitude: r.Longitude,
			City:      r.City,
			Country:   r.Country,
			Timezone:  r.Timezone,
		},
		Languages:          r.Languages,
		SecondaryLanguages: r.SecondaryLanguages,
		Verified:           r.Verified,
	}
	if r.CreatedAt.Valid {
		profile.CreatedAt = r.CreatedAt.Time
	}
	if r.LastActive.Valid {
		profile.LastActive = r.LastActive.Time
	}
	if err := json.Unmarshal(r.IslamicProfile, &profile.IslamicProfile); err != nil {
		return nil, fmt.Errorf("decode islamic profile for %s: %w", r.ID, err)
	}
	if err := json.Unmarshal(r.Interests, &profile.Interests); err != nil {
		return nil, fmt.Errorf("decode interests for %s: %w", r.ID, err)
	}
	if err := json.Unmarshal(r.Lifestyle, &profile.Lifestyle); err != nil {
		return nil, fmt.Errorf("decode lifestyle for %s: %w", r.ID, err)
	}
	return profile, nil
}

func encodeProfile(profile *domain.Profile) (islamic, interests, lifestyle []byte, err error) {
	if islamic, err = json.Marshal(profile.IslamicProfile); err != nil {
		return nil, nil, nil, err
	}
	if interests, err = json.Marshal(profile.Interests); err != nil {
		return nil, nil, nil, err
	}
	if lifestyle, err = json.Marshal(profile.Lifestyle); err != nil {
		return nil, nil, nil, err
	}
	return islamic, interests, lifestyle, nil
}

func (r *profileRepository) Create(ctx context.Context, profile *domain.Profile) error {
	islamic, interests, lifestyle, err := encodeProfile(profile)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO profiles (
			id, first_name, age, latitude, longitude, city, country, timezone,
			languages, secondary_languages, islamic_profile, interests, lifestyle,
			last_active, verified
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, CURRENT_TIMESTAMP, $14)
		RETURNING created_at, last_active
	`
	return r.db.QueryRowContext(
		ctx, query,
		profile.ID, profile.FirstName, profile.Age,
		profile.Location.Latitude, profile.Location.Longitude,
		profile.Location.City, profile.Location.Country, profile.Location.Timezone,
		pq.Array(profile.Languages), pq.Array(profile.SecondaryLanguages),
		islamic, interests, lifestyle,
		profile.Verified,
	).Scan(&profile.CreatedAt, &profile.LastActive)
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	var row profileRow
	query := `SELECT * FROM profiles WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return row.toDomain()
}

func (r *profileRepository) Update(ctx context.Context, profile *domain.Profile) error {
	islamic, interests, lifestyle, err := encodeProfile(profile)
	if err != nil {
		return err
	}
	query := `
		UPDATE profiles
		SET first_name = $1, age = $2, latitude = $3, longitude = $4,
		    city = $5, country = $6, timezone = $7,
		    languages = $8, secondary_languages = $9,
		    islamic_profile = $10, interests = $11, lifestyle = $12,
		    verified = $13
		WHERE id = $14
	`
	result, err := r.db.ExecContext(
		ctx, query,
		profile.FirstName, profile.Age,
		profile.Location.Latitude, profile.Location.Longitude,
		profile.Location.City, profile.Location.Country, profile.Location.Timezone,
		pq.Array(profile.Languages), pq.Array(profile.SecondaryLanguages),
		islamic, interests, lifestyle,
		profile.Verified,
		profile.ID,
	)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

func (r *profileRepository) TouchLastActive(ctx context.Context, id string) error {
	query := `UPDATE profiles SET last_active = CURRENT_TIMESTAMP WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

func (r *profileRepository) ListVerified(ctx context.Context, limit int) ([]*domain.Profile, error) {
	var rows []profileRow
	query := `
		SELECT * FROM profiles
		WHERE verified = TRUE
		ORDER BY last_active DESC
		LIMIT $1
	`
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, err
	}

	profiles := make([]*domain.Profile, 0, len(rows))
	for i := range rows {
		profile, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	return profiles, nil
}
