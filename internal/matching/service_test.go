package matching

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/sistersconnect/backend/internal/domain"
)

func newTestService() *Service {
	svc := NewService(NewMemoryCacheWithClock(30*time.Minute, testClock), zap.NewNop(), Config{})
	return svc.WithClock(testClock)
}

// watford is within the default 50km radius of London but a different
// city, so location scoring degrades without filtering the candidate.
var watford = domain.Location{
	Latitude:  51.6565,
	Longitude: -0.3903,
	City:      "Watford",
	Country:   "UK",
	Timezone:  "Europe/London",
}

func TestFindMatchesRanking(t *testing.T) {
	svc := newTestService()
	requester := testProfile("me", 30)

	near := testProfile("near", 30, func(p *domain.Profile) {
		p.Interests.Hobbies = []string{"reading", "cooking"}
	})
	far := testProfile("far", 38, func(p *domain.Profile) {
		p.Location = watford
		p.Interests.Hobbies = []string{"hiking"}
	})
	pool := []*domain.Profile{far, near, requester}

	matches, err := svc.FindMatches(context.Background(), requester, pool, testPrefs(), nil)
	if err != nil {
		t.Fatalf("FindMatches: %v", err)
	}

	if len(matches) != 2 {
		t.Fatalf("matches = %d, want 2 (requester excluded)", len(matches))
	}
	if matches[0].UserID != "near" {
		t.Errorf("top match = %q, want near (same city, shared interests)", matches[0].UserID)
	}
	for _, m := range matches {
		if m.UserID == "me" {
			t.Error("requester appeared in their own matches")
		}
		if m.PercentileRank == nil {
			t.Errorf("match %q missing percentile rank", m.UserID)
		}
		if m.TotalScore <= 0 || m.TotalScore > 100 {
			t.Errorf("match %q score %f out of range", m.UserID, m.TotalScore)
		}
	}
}

func TestFindMatchesLimit(t *testing.T) {
	svc := newTestService()
	requester := testProfile("me", 30)
	pool := []*domain.Profile{
		testProfile("a", 28),
		testProfile("b", 30),
		testProfile("c", 32),
	}

	matches, err := svc.FindMatches(context.Background(), requester, pool, testPrefs(), &MatchOptions{Limit: 1})
	if err != nil {
		t.Fatalf("FindMatches: %v", err)
	}
	if len(matches) != 1 {
		t.Errorf("matches = %d, want 1", len(matches))
	}
}

func TestFindMatchesInvalidPreferences(t *testing.T) {
	svc := newTestService()
	requester := testProfile("me", 30)
	prefs := testPrefs()
	prefs.AgeRange = domain.AgeRange{Min: 40, Max: 30}

	_, err := svc.FindMatches(context.Background(), requester, nil, prefs, nil)
	if !errors.Is(err, domain.ErrInvalidPreferences) {
		t.Errorf("err = %v, want ErrInvalidPreferences", err)
	}
}

func TestFindMatchesSkipsMalformedCandidate(t *testing.T) {
	svc := newTestService()
	requester := testProfile("me", 30)
	pool := []*domain.Profile{
		testProfile("ok", 30),
		testProfile("", 30), // missing id fails validation
	}

	matches, err := svc.FindMatches(context.Background(), requester, pool, testPrefs(), nil)
	if err != nil {
		t.Fatalf("FindMatches: %v", err)
	}
	if len(matches) != 1 || matches[0].UserID != "ok" {
		t.Errorf("matches = %v, want only the well-formed candidate", matches)
	}
}

func TestFindMatchesCaching(t *testing.T) {
	svc := newTestService()
	requester := testProfile("me", 30)
	pool := []*domain.Profile{testProfile("a", 30)}
	prefs := testPrefs()
	ctx := context.Background()

	first, err := svc.FindMatches(ctx, requester, pool, prefs, nil)
	if err != nil {
		t.Fatalf("FindMatches: %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("first call matches = %d, want 1", len(first))
	}

	// A cached ranking survives pool changes until invalidated.
	cached, err := svc.FindMatches(ctx, requester, nil, prefs, nil)
	if err != nil {
		t.Fatalf("FindMatches (cached): %v", err)
	}
	if len(cached) != 1 || cached[0].UserID != first[0].UserID {
		t.Errorf("cached matches = %v, want the original ranking", cached)
	}
	if cached[0].TotalScore != first[0].TotalScore {
		t.Errorf("cached score = %f, want %f", cached[0].TotalScore, first[0].TotalScore)
	}

	// Cache bypass sees the live pool.
	fresh, err := svc.FindMatches(ctx, requester, nil, prefs, &MatchOptions{DisableCache: true})
	if err != nil {
		t.Fatalf("FindMatches (fresh): %v", err)
	}
	if len(fresh) != 0 {
		t.Errorf("fresh matches = %d, want 0 from the empty pool", len(fresh))
	}

	// Invalidation clears the stored ranking.
	if err := svc.ClearCache(ctx, "me"); err != nil {
		t.Fatalf("ClearCache: %v", err)
	}
	cleared, err := svc.FindMatches(ctx, requester, nil, prefs, nil)
	if err != nil {
		t.Fatalf("FindMatches (cleared): %v", err)
	}
	if len(cleared) != 0 {
		t.Errorf("post-clear matches = %d, want 0", len(cleared))
	}
}

func TestFindMatchesDifferentPreferencesMissCache(t *testing.T) {
	svc := newTestService()
	requester := testProfile("me", 30)
	pool := []*domain.Profile{testProfile("a", 30)}
	ctx := context.Background()

	if _, err := svc.FindMatches(ctx, requester, pool, testPrefs(), nil); err != nil {
		t.Fatalf("FindMatches: %v", err)
	}

	narrower := testPrefs()
	narrower.AgeRange = domain.AgeRange{Min: 35, Max: 45}
	matches, err := svc.FindMatches(ctx, requester, pool, narrower, nil)
	if err != nil {
		t.Fatalf("FindMatches: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("narrower prefs reused the old cache entry: %v", matches)
	}
}

func TestFindMatchesTimeDecay(t *testing.T) {
	svc := newTestService()
	requester := testProfile("me", 30)

	active := testProfile("active", 30)
	idle := testProfile("idle", 30, func(p *domain.Profile) {
		p.LastActive = testNow.AddDate(0, 0, -25)
	})

	activeOnly, err := svc.FindMatches(context.Background(), requester,
		[]*domain.Profile{active}, testPrefs(), &MatchOptions{DisableCache: true})
	if err != nil {
		t.Fatalf("FindMatches: %v", err)
	}
	idleOnly, err := svc.FindMatches(context.Background(), requester,
		[]*domain.Profile{idle}, testPrefs(), &MatchOptions{DisableCache: true})
	if err != nil {
		t.Fatalf("FindMatches: %v", err)
	}

	if len(activeOnly) != 1 || len(idleOnly) != 1 {
		t.Fatalf("expected one match each, got %d and %d", len(activeOnly), len(idleOnly))
	}
	if idleOnly[0].TotalScore >= activeOnly[0].TotalScore {
		t.Errorf("idle candidate %f should score below active twin %f",
			idleOnly[0].TotalScore, activeOnly[0].TotalScore)
	}
}

func TestRankMatchesTieBreak(t *testing.T) {
	svc := newTestService()

	balanced := &domain.MatchScore{
		UserID:     "balanced",
		TotalScore: 70,
		Breakdown: domain.Breakdown{
			InterestCompatibility: 70, LocationProximity: 70, AgeCompatibility: 70,
			LanguageMatch: 70, IslamicCompatibility: 70, LifestyleCompatibility: 70,
			SocialGraphBonus: 70,
		},
	}
	spiky := &domain.MatchScore{
		UserID:     "spiky",
		TotalScore: 73,
		Breakdown: domain.Breakdown{
			InterestCompatibility: 100, LocationProximity: 0, AgeCompatibility: 100,
			LanguageMatch: 0, IslamicCompatibility: 100, LifestyleCompatibility: 0,
			SocialGraphBonus: 100,
		},
	}

	ranked := svc.rankMatches([]*domain.MatchScore{spiky, balanced})
	if ranked[0].UserID != "balanced" {
		t.Errorf("within the tie window the balanced match should rank first, got %q", ranked[0].UserID)
	}

	// Outside the window raw score wins.
	spiky.TotalScore = 80
	ranked = svc.rankMatches([]*domain.MatchScore{balanced, spiky})
	if ranked[0].UserID != "spiky" {
		t.Errorf("outside the tie window the higher score should rank first, got %q", ranked[0].UserID)
	}
}

func TestFindFeatureMatches(t *testing.T) {
	svc := newTestService()
	requester := testProfile("me", 30, func(p *domain.Profile) {
		p.Interests.StudyInterests = []string{"tafsir"}
	})
	study := testProfile("study", 30, func(p *domain.Profile) {
		p.Interests.StudyInterests = []string{"tafsir"}
	})
	other := testProfile("other", 30)
	pool := []*domain.Profile{study, other, requester}

	matches, err := svc.FindFeatureMatches(context.Background(), requester, pool,
		domain.FeatureStudyBuddy, testPrefs(), nil)
	if err != nil {
		t.Fatalf("FindFeatureMatches: %v", err)
	}

	if len(matches) != 1 || matches[0].UserID != "study" {
		t.Errorf("feature matches = %v, want only the study candidate", matches)
	}
}

func TestCollaborativeRecommendations(t *testing.T) {
	svc := newTestService()
	requester := testProfile("me", 30)
	twin := testProfile("twin", 30)
	gem := testProfile("gem", 31)
	seen := testProfile("seen", 31)
	pool := []*domain.Profile{twin, gem, seen}

	conns := []*domain.Connection{
		acceptedConn("1", "twin", "gem", testNow),
		acceptedConn("2", "twin", "seen", testNow),
	}
	behavior := &domain.UserBehavior{UserID: "me", DislikedProfiles: []string{"seen"}}

	recs := svc.CollaborativeRecommendations(requester, pool, conns, behavior, 10)

	foundGem, foundSeen := false, false
	for _, rec := range recs {
		if rec.UserID == "gem" {
			foundGem = true
			if rec.Score <= 0 {
				t.Errorf("gem score = %f, want positive", rec.Score)
			}
		}
		if rec.UserID == "seen" {
			foundSeen = true
		}
	}
	if !foundGem {
		t.Errorf("recommendations = %v, want gem via the similar twin", recs)
	}
	if foundSeen {
		t.Error("already-interacted candidate was recommended")
	}
}

func TestAnalyzeNetwork(t *testing.T) {
	svc := newTestService()
	conns := []*domain.Connection{
		acceptedConn("1", "me", "a", testNow),
		acceptedConn("2", "me", "b", testNow),
	}
	communities := []*domain.Community{
		{ID: "c1", Members: []string{"me", "a"}},
	}

	got := svc.AnalyzeNetwork("me", conns, communities, nil)
	if got.ConnectionCount != 2 {
		t.Errorf("ConnectionCount = %d, want 2", got.ConnectionCount)
	}
	if got.CommunityMemberships != 1 {
		t.Errorf("CommunityMemberships = %d, want 1", got.CommunityMemberships)
	}
	if got.InfluenceScore <= 0 {
		t.Errorf("InfluenceScore = %f, want positive", got.InfluenceScore)
	}
}
