package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sistersconnect/backend/internal/domain"
	"github.com/sistersconnect/backend/internal/repository"
)

type communityRepository struct {
	db *sqlx.DB
}

func NewCommunityRepository(db *sqlx.DB) repository.CommunityRepository {
	return &communityRepository{db: db}
}

type communityRow struct {
	ID                string         `db:"id"`
	Name              string         `db:"name"`
	Latitude          float64        `db:"latitude"`
	Longitude         float64        `db:"longitude"`
	City              string         `db:"city"`
	Country           string         `db:"country"`
	Timezone          string         `db:"timezone"`
	Members           pq.StringArray `db:"members"`
	LeaderID          *string        `db:"leader_id"`
	MosqueAffiliation *string        `db:"mosque_affiliation"`
	Activities        pq.StringArray `db:"activities"`
	EstablishedYear   *int           `db:"established_year"`
}

func (r *communityRepository) List(ctx context.Context) ([]*domain.Community, error) {
	var rows []communityRow
	query := `SELECT * FROM communities ORDER BY name`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}

	communities := make([]*domain.Community, 0, len(rows))
	for i := range rows {
		row := rows[i]
		communities = append(communities, &domain.Community{
			ID:   row.ID,
			Name: row.Name,
			Location: domain.Location{
				Latitude:  row.Latitude,
				Longitude: row.Longitude,
				City:      row.City,
				Country:   row.Country,
				Timezone:  row.Timezone,
			},
			Members:           row.Members,
			LeaderID:          row.LeaderID,
			MosqueAffiliation: row.MosqueAffiliation,
			Activities:        row.Activities,
			EstablishedYear:   row.EstablishedYear,
		})
	}
	return communities, nil
}
