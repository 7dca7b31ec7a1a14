package domain

import "time"

type ConnectionStatus string

const (
	ConnectionPending  ConnectionStatus = "pending"
	ConnectionAccepted ConnectionStatus = "accepted"
	ConnectionDeclined ConnectionStatus = "declined"
	ConnectionBlocked  ConnectionStatus = "blocked"
)

// Connection links two users. Only accepted connections participate in
// graph traversal.
type Connection struct {
	ID              string           `json:"id" db:"id"`
	User1ID         string           `json:"user1_id" db:"user1_id"`
	User2ID         string           `json:"user2_id" db:"user2_id"`
	InitiatedBy     string           `json:"initiated_by" db:"initiated_by"`
	Status          ConnectionStatus `json:"status" db:"status"`
	MatchScore      float64          `json:"match_score" db:"match_score"`
	CreatedAt       time.Time        `json:"created_at" db:"created_at"`
	AcceptedAt      *time.Time       `json:"accepted_at,omitempty" db:"accepted_at"`
	LastInteraction *time.Time       `json:"last_interaction,omitempty" db:"last_interaction"`
}

func (c *Connection) HasUser(userID string) bool {
	return c.User1ID == userID || c.User2ID == userID
}

// OtherUser returns the peer of userID in this connection.
func (c *Connection) OtherUser(userID string) (string, bool) {
	if c.User1ID == userID {
		return c.User2ID, true
	}
	if c.User2ID == userID {
		return c.User1ID, true
	}
	return "", false
}

// IsAccepted reports whether the connection counts for graph traversal.
func (c *Connection) IsAccepted() bool {
	return c.Status == ConnectionAccepted
}

// Community is a sisters' circle or study group. Leadership is an
// explicit field; member ordering carries no meaning.
type Community struct {
	ID                string   `json:"id" db:"id"`
	Name              string   `json:"name" db:"name"`
	Location          Location `json:"location"`
	Members           []string `json:"members"`
	LeaderID          *string  `json:"leader_id,omitempty" db:"leader_id"`
	MosqueAffiliation *string  `json:"mosque_affiliation,omitempty" db:"mosque_affiliation"`
	Activities        []string `json:"activities,omitempty"`
	EstablishedYear   *int     `json:"established_year,omitempty" db:"established_year"`
}

func (c *Community) HasMember(userID string) bool {
	for _, id := range c.Members {
		if id == userID {
			return true
		}
	}
	return false
}

// IsLeader reports community leadership from the explicit leader field.
func (c *Community) IsLeader(userID string) bool {
	return c.LeaderID != nil && *c.LeaderID == userID
}

type EventCategory string

const (
	EventReligious    EventCategory = "religious"
	EventEducational  EventCategory = "educational"
	EventSocial       EventCategory = "social"
	EventProfessional EventCategory = "professional"
	EventCharity      EventCategory = "charity"
)

// Event is a community gathering with a known attendee list.
type Event struct {
	ID          string        `json:"id" db:"id"`
	Title       string        `json:"title" db:"title"`
	Description string        `json:"description" db:"description"`
	Category    EventCategory `json:"category" db:"category"`
	Location    Location      `json:"location"`
	StartDate   time.Time     `json:"start_date" db:"start_date"`
	EndDate     time.Time     `json:"end_date" db:"end_date"`
	Attendees   []string      `json:"attendees"`
	OrganizerID string        `json:"organizer_id" db:"organizer_id"`
}

func (e *Event) HasAttendee(userID string) bool {
	for _, id := range e.Attendees {
		if id == userID {
			return true
		}
	}
	return false
}
