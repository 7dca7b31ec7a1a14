package matching

import (
	"math"
	"testing"

	"github.com/sistersconnect/backend/internal/domain"
)

func TestSocialBonusBounds(t *testing.T) {
	e := NewSocialGraphEngineWithClock(testClock)

	if got := e.SocialBonus("a", "b", nil, nil, nil); got != 0 {
		t.Errorf("no shared context bonus = %f, want 0", got)
	}

	// Saturate every component: many mutuals, shared communities with a
	// mosque affiliation, recent shared events and a dense circle.
	var conns []*domain.Connection
	for _, id := range []string{"m1", "m2", "m3", "m4", "m5", "m6"} {
		conns = append(conns,
			acceptedConn("a-"+id, "a", id, testNow.AddDate(-1, 0, 0)),
			acceptedConn("b-"+id, "b", id, testNow.AddDate(-1, 0, 0)),
		)
	}
	mosque := "central-mosque"
	communities := []*domain.Community{
		{ID: "c1", Members: []string{"a", "b", "m1"}, MosqueAffiliation: &mosque},
		{ID: "c2", Members: []string{"a", "b"}},
		{ID: "c3", Members: []string{"a", "b"}},
	}
	events := []*domain.Event{
		{ID: "e1", Attendees: []string{"a", "b"}, StartDate: testNow.AddDate(0, -1, 0)},
		{ID: "e2", Attendees: []string{"a", "b"}, StartDate: testNow.AddDate(0, -2, 0)},
		{ID: "e3", Attendees: []string{"a", "b"}, StartDate: testNow.AddDate(0, -3, 0)},
	}

	got := e.SocialBonus("a", "b", conns, communities, events)
	if got != maxSocialBonus {
		t.Errorf("saturated bonus = %f, want cap %f", got, maxSocialBonus)
	}
}

func TestSocialBonusMonotonicInMutuals(t *testing.T) {
	e := NewSocialGraphEngineWithClock(testClock)

	one := []*domain.Connection{
		acceptedConn("1", "a", "m1", testNow),
		acceptedConn("2", "b", "m1", testNow),
	}
	two := append(one,
		acceptedConn("3", "a", "m2", testNow),
		acceptedConn("4", "b", "m2", testNow),
	)

	if e.SocialBonus("a", "b", one, nil, nil) > e.SocialBonus("a", "b", two, nil, nil) {
		t.Error("more mutual connections should not lower the bonus")
	}
}

func TestMutualConnections(t *testing.T) {
	e := NewSocialGraphEngineWithClock(testClock)
	conns := []*domain.Connection{
		acceptedConn("1", "a", "c", testNow),
		acceptedConn("2", "b", "c", testNow),
		acceptedConn("3", "a", "d", testNow),
		{ID: "4", User1ID: "b", User2ID: "d", Status: domain.ConnectionPending, CreatedAt: testNow},
	}

	got := e.MutualConnections("a", "b", conns)
	if len(got) != 1 || got[0] != "c" {
		t.Errorf("MutualConnections = %v, want [c]", got)
	}
}

func TestFriendsOfFriends(t *testing.T) {
	e := NewSocialGraphEngineWithClock(testClock)
	conns := []*domain.Connection{
		acceptedConn("1", "a", "b", testNow),
		acceptedConn("2", "b", "c", testNow),
		acceptedConn("3", "b", "a", testNow), // duplicate edge direction
		acceptedConn("4", "a", "d", testNow),
	}

	got := e.FriendsOfFriends("a", conns)
	if len(got) != 1 || got[0] != "c" {
		t.Errorf("FriendsOfFriends = %v, want [c] (no self, no first-degree)", got)
	}
}

func TestTrustPathRecommendations(t *testing.T) {
	e := NewSocialGraphEngineWithClock(testClock)
	conns := []*domain.Connection{
		acceptedConn("1", "a", "b", testNow),
		acceptedConn("2", "b", "c", testNow),
	}

	got := e.TrustPathRecommendations("a", conns, 3)
	if len(got) != 1 {
		t.Fatalf("recommendations = %d, want 1", len(got))
	}
	rec := got[0]
	if rec.UserID != "c" {
		t.Errorf("recommended user = %q, want c", rec.UserID)
	}
	wantPath := []string{"a", "b", "c"}
	if len(rec.Path) != len(wantPath) {
		t.Fatalf("path = %v, want %v", rec.Path, wantPath)
	}
	for i, id := range wantPath {
		if rec.Path[i] != id {
			t.Fatalf("path = %v, want %v", rec.Path, wantPath)
		}
	}

	// Fresh edges carry no stability boost: 100 · 0.7².
	want := 100 * trustDecayFactor * trustDecayFactor
	if math.Abs(rec.TrustScore-want) > 1e-9 {
		t.Errorf("trust score = %f, want %f", rec.TrustScore, want)
	}
}

func TestTrustPathStability(t *testing.T) {
	e := NewSocialGraphEngineWithClock(testClock)
	old := []*domain.Connection{
		acceptedConn("1", "a", "b", testNow.AddDate(-3, 0, 0)),
		acceptedConn("2", "b", "c", testNow.AddDate(-3, 0, 0)),
	}
	fresh := []*domain.Connection{
		acceptedConn("1", "a", "b", testNow),
		acceptedConn("2", "b", "c", testNow),
	}

	oldScore := e.TrustPathRecommendations("a", old, 3)[0].TrustScore
	freshScore := e.TrustPathRecommendations("a", fresh, 3)[0].TrustScore
	if oldScore <= freshScore {
		t.Errorf("long-lived edges should score higher: %f <= %f", oldScore, freshScore)
	}

	// The stability multiplier saturates at 1.2 per edge.
	want := 100 * trustDecayFactor * trustDecayFactor * 1.2 * 1.2
	if math.Abs(oldScore-want) > 1e-9 {
		t.Errorf("old path score = %f, want %f", oldScore, want)
	}
}

func TestTrustPathHopLimit(t *testing.T) {
	e := NewSocialGraphEngineWithClock(testClock)
	conns := []*domain.Connection{
		acceptedConn("1", "a", "b", testNow),
		acceptedConn("2", "b", "c", testNow),
		acceptedConn("3", "c", "d", testNow),
	}

	got := e.TrustPathRecommendations("a", conns, 3)
	for _, rec := range got {
		if rec.UserID == "d" {
			t.Error("d is beyond the hop limit and should be absent")
		}
	}
}

func TestInfluenceScore(t *testing.T) {
	e := NewSocialGraphEngineWithClock(testClock)
	conns := []*domain.Connection{
		acceptedConn("1", "a", "b", testNow),
		acceptedConn("2", "a", "c", testNow),
	}
	leader := "a"
	communities := []*domain.Community{
		{ID: "c1", Members: []string{"a", "b"}, LeaderID: &leader},
	}
	events := []*domain.Event{
		{ID: "e1", OrganizerID: "a", Attendees: []string{"a", "b"}, StartDate: testNow},
	}

	// 2 connections (4) + leadership (15) + organized event (10) + membership (5)
	got := e.InfluenceScore("a", conns, communities, events)
	if got != 34 {
		t.Errorf("InfluenceScore = %f, want 34", got)
	}

	if got := e.InfluenceScore("nobody", nil, nil, nil); got != 0 {
		t.Errorf("empty influence = %f, want 0", got)
	}
}

func TestInfluenceScoreLeadershipNeedsExplicitLeader(t *testing.T) {
	e := NewSocialGraphEngineWithClock(testClock)
	// First member but not the designated leader.
	other := "b"
	communities := []*domain.Community{
		{ID: "c1", Members: []string{"a", "b"}, LeaderID: &other},
	}

	got := e.InfluenceScore("a", nil, communities, nil)
	if got != 5 { // membership only
		t.Errorf("InfluenceScore = %f, want 5 (no leadership bonus)", got)
	}
}

func TestNetworkDensity(t *testing.T) {
	e := NewSocialGraphEngineWithClock(testClock)

	if got := e.NetworkDensity("a", nil); got != 0 {
		t.Errorf("density with no circle = %f, want 0", got)
	}

	// a's circle {b, c} fully interconnected.
	conns := []*domain.Connection{
		acceptedConn("1", "a", "b", testNow),
		acceptedConn("2", "a", "c", testNow),
		acceptedConn("3", "b", "c", testNow),
	}
	if got := e.NetworkDensity("a", conns); got != 100 {
		t.Errorf("fully connected circle density = %f, want 100", got)
	}
}
