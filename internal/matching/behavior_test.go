package matching

import (
	"errors"
	"testing"

	"github.com/sistersconnect/backend/internal/domain"
)

func TestTrackInteraction(t *testing.T) {
	tracker := NewBehaviorTracker()
	behavior := domain.NewUserBehavior("me")

	updated, err := tracker.TrackInteraction(behavior, "target", domain.OutcomeLike)
	if err != nil {
		t.Fatalf("TrackInteraction: %v", err)
	}
	if len(updated.LikedProfiles) != 1 || updated.LikedProfiles[0] != "target" {
		t.Errorf("LikedProfiles = %v, want [target]", updated.LikedProfiles)
	}
	if len(behavior.LikedProfiles) != 0 {
		t.Error("input behavior was mutated")
	}

	// Repeating the same outcome is idempotent.
	again, err := tracker.TrackInteraction(updated, "target", domain.OutcomeLike)
	if err != nil {
		t.Fatalf("TrackInteraction: %v", err)
	}
	if len(again.LikedProfiles) != 1 {
		t.Errorf("LikedProfiles after repeat = %v, want single entry", again.LikedProfiles)
	}
}

func TestTrackInteractionOutcomes(t *testing.T) {
	tracker := NewBehaviorTracker()
	behavior := domain.NewUserBehavior("me")

	outcomes := []domain.InteractionOutcome{
		domain.OutcomeLike, domain.OutcomeDislike, domain.OutcomeAccept,
		domain.OutcomeDecline, domain.OutcomeReport,
	}
	for _, outcome := range outcomes {
		updated, err := tracker.TrackInteraction(behavior, "t", outcome)
		if err != nil {
			t.Fatalf("outcome %q: %v", outcome, err)
		}
		if !updated.HasInteractedWith("t") {
			t.Errorf("outcome %q not recorded", outcome)
		}
	}

	if _, err := tracker.TrackInteraction(behavior, "t", "superlike"); !errors.Is(err, domain.ErrUnknownOutcome) {
		t.Errorf("unknown outcome error = %v, want ErrUnknownOutcome", err)
	}
}

func TestPredictCompatibilityNeutral(t *testing.T) {
	tracker := NewBehaviorTracker()

	if got := tracker.PredictCompatibility("me", "t", nil); got != 50 {
		t.Errorf("no behaviors = %f, want neutral 50", got)
	}

	all := map[string]*domain.UserBehavior{
		"me": {UserID: "me", LikedProfiles: []string{"x"}},
	}
	if got := tracker.PredictCompatibility("me", "t", all); got != 50 {
		t.Errorf("no neighbors = %f, want neutral 50", got)
	}
}

func TestPredictCompatibilityFromNeighbors(t *testing.T) {
	tracker := NewBehaviorTracker()
	all := map[string]*domain.UserBehavior{
		"me": {UserID: "me", LikedProfiles: []string{"x", "y"}},
		"peer": {
			UserID:              "peer",
			LikedProfiles:       []string{"x", "y"},
			AcceptedConnections: []string{"target"},
		},
	}

	got := tracker.PredictCompatibility("me", "target", all)
	if got != 90 {
		t.Errorf("predicted score = %f, want 90 (neighbor accepted target)", got)
	}

	got = tracker.PredictCompatibility("me", "stranger", all)
	if got != 50 {
		t.Errorf("unseen target = %f, want 50", got)
	}
}

func TestAdjustScores(t *testing.T) {
	tracker := NewBehaviorTracker()
	all := map[string]*domain.UserBehavior{
		"me": {UserID: "me", LikedProfiles: []string{"x", "y"}},
		"peer": {
			UserID:              "peer",
			LikedProfiles:       []string{"x", "y"},
			AcceptedConnections: []string{"target"},
		},
	}
	matches := []*domain.MatchScore{{UserID: "target", TotalScore: 60}}

	adjusted := tracker.AdjustScores(matches, "me", all)
	if len(adjusted) != 1 {
		t.Fatalf("adjusted count = %d, want 1", len(adjusted))
	}
	// Prediction 90 yields a +8 bonus.
	if adjusted[0].TotalScore != 68 {
		t.Errorf("adjusted score = %f, want 68", adjusted[0].TotalScore)
	}
	if len(adjusted[0].Reasons) != 1 {
		t.Errorf("Reasons = %v, want the collaborative note", adjusted[0].Reasons)
	}
	if matches[0].TotalScore != 60 {
		t.Error("input match was mutated")
	}
}

func TestAdjustScoresClamps(t *testing.T) {
	tracker := NewBehaviorTracker()
	all := map[string]*domain.UserBehavior{
		"me": {UserID: "me", LikedProfiles: []string{"x", "y"}},
		"peer": {
			UserID:              "peer",
			LikedProfiles:       []string{"x", "y"},
			AcceptedConnections: []string{"target"},
		},
	}
	matches := []*domain.MatchScore{{UserID: "target", TotalScore: 97}}

	adjusted := tracker.AdjustScores(matches, "me", all)
	if adjusted[0].TotalScore != 100 {
		t.Errorf("adjusted score = %f, want clamped 100", adjusted[0].TotalScore)
	}
}

func TestRecommendationDiversity(t *testing.T) {
	tracker := NewBehaviorTracker()

	if got := tracker.RecommendationDiversity(nil, nil); got != 100 {
		t.Errorf("empty list diversity = %f, want 100", got)
	}

	varied := map[string]*domain.Profile{
		"a": testProfile("a", 25, func(p *domain.Profile) { p.Location.City = "Leeds" }),
		"b": testProfile("b", 35, func(p *domain.Profile) {
			p.IslamicProfile.PracticeLevel = domain.PracticeScholar
		}),
	}
	uniform := map[string]*domain.Profile{
		"a": testProfile("a", 30),
		"b": testProfile("b", 30),
	}
	matches := []*domain.MatchScore{{UserID: "a"}, {UserID: "b"}}

	variedScore := tracker.RecommendationDiversity(matches, varied)
	uniformScore := tracker.RecommendationDiversity(matches, uniform)
	if variedScore != 100 {
		t.Errorf("fully varied diversity = %f, want 100", variedScore)
	}
	if uniformScore >= variedScore {
		t.Errorf("uniform list should score lower: %f >= %f", uniformScore, variedScore)
	}
}
