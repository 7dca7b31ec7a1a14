package domain

import "fmt"

// InteractionOutcome is the result of a user acting on a recommendation.
type InteractionOutcome string

const (
	OutcomeLike    InteractionOutcome = "like"
	OutcomeDislike InteractionOutcome = "dislike"
	OutcomeAccept  InteractionOutcome = "accept"
	OutcomeDecline InteractionOutcome = "decline"
	OutcomeReport  InteractionOutcome = "report"
)

// ParseInteractionOutcome validates an outcome name from the API surface.
func ParseInteractionOutcome(s string) (InteractionOutcome, error) {
	switch InteractionOutcome(s) {
	case OutcomeLike, OutcomeDislike, OutcomeAccept, OutcomeDecline, OutcomeReport:
		return InteractionOutcome(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownOutcome, s)
}

// InteractionPatterns holds simple aggregate interaction statistics.
type InteractionPatterns struct {
	ResponseTimeMinutes float64 `json:"response_time_minutes"`
	MessagesPerDay      float64 `json:"messages_per_day"`
	ActiveHours         []int   `json:"active_hours"`
}

// UserBehavior accumulates interaction outcomes per user. The scoring
// pipeline only reads it; mutation happens through the behavior
// tracker, which returns a fresh copy.
type UserBehavior struct {
	UserID              string              `json:"user_id" db:"user_id"`
	LikedProfiles       []string            `json:"liked_profiles"`
	DislikedProfiles    []string            `json:"disliked_profiles"`
	AcceptedConnections []string            `json:"accepted_connections"`
	DeclinedConnections []string            `json:"declined_connections"`
	ReportedUsers       []string            `json:"reported_users"`
	InteractionPatterns InteractionPatterns `json:"interaction_patterns"`
}

// NewUserBehavior returns an empty behavior record for a user.
func NewUserBehavior(userID string) *UserBehavior {
	return &UserBehavior{UserID: userID}
}

// Clone returns a deep copy used for copy-on-write updates.
func (b *UserBehavior) Clone() *UserBehavior {
	out := *b
	out.LikedProfiles = append([]string(nil), b.LikedProfiles...)
	out.DislikedProfiles = append([]string(nil), b.DislikedProfiles...)
	out.AcceptedConnections = append([]string(nil), b.AcceptedConnections...)
	out.DeclinedConnections = append([]string(nil), b.DeclinedConnections...)
	out.ReportedUsers = append([]string(nil), b.ReportedUsers...)
	out.InteractionPatterns.ActiveHours = append([]int(nil), b.InteractionPatterns.ActiveHours...)
	return &out
}

// HasInteractedWith reports whether the user already acted on targetID
// in any way.
func (b *UserBehavior) HasInteractedWith(targetID string) bool {
	return containsString(b.LikedProfiles, targetID) ||
		containsString(b.DislikedProfiles, targetID) ||
		containsString(b.AcceptedConnections, targetID) ||
		containsString(b.DeclinedConnections, targetID) ||
		containsString(b.ReportedUsers, targetID)
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
