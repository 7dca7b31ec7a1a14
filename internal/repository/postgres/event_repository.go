package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sistersconnect/backend/internal/domain"
	"github.com/sistersconnect/backend/internal/repository"
)

type eventRepository struct {
	db *sqlx.DB
}

func NewEventRepository(db *sqlx.DB) repository.EventRepository {
	return &eventRepository{db: db}
}

type eventRow struct {
	ID          string         `db:"id"`
	Title       string         `db:"title"`
	Description string         `db:"description"`
	Category    string         `db:"category"`
	Latitude    float64        `db:"latitude"`
	Longitude   float64        `db:"longitude"`
	City        string         `db:"city"`
	Country     string         `db:"country"`
	Timezone    string         `db:"timezone"`
	StartDate   time.Time      `db:"start_date"`
	EndDate     time.Time      `db:"end_date"`
	Attendees   pq.StringArray `db:"attendees"`
	OrganizerID string         `db:"organizer_id"`
}

func (r *eventRepository) List(ctx context.Context) ([]*domain.Event, error) {
	var rows []eventRow
	query := `SELECT * FROM events ORDER BY start_date DESC`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}

	events := make([]*domain.Event, 0, len(rows))
	for i := range rows {
		row := rows[i]
		events = append(events, &domain.Event{
			ID:          row.ID,
			Title:       row.Title,
			Description: row.Description,
			Category:    domain.EventCategory(row.Category),
			Location: domain.Location{
				Latitude:  row.Latitude,
				Longitude: row.Longitude,
				City:      row.City,
				Country:   row.Country,
				Timezone:  row.Timezone,
			},
			StartDate:   row.StartDate,
			EndDate:     row.EndDate,
			Attendees:   row.Attendees,
			OrganizerID: row.OrganizerID,
		})
	}
	return events, nil
}
