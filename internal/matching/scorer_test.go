package matching

import (
	"testing"

	"github.com/sistersconnect/backend/internal/domain"
)

func TestScoreDealBreakerAge(t *testing.T) {
	s := NewCompatibilityScorer()
	requester := testProfile("me", 35)
	candidate := testProfile("other", 27)
	prefs := testPrefs()
	prefs.AgeRange = domain.AgeRange{Min: 30, Max: 40}

	got := s.Score(requester, candidate, prefs, 0)

	if got.TotalScore != 0 {
		t.Errorf("TotalScore = %f, want 0", got.TotalScore)
	}
	if !got.Ineligible() {
		t.Error("deal-breaker violation should mark the match ineligible")
	}

	want := "Age 27 is outside preferred range 30-40"
	found := false
	for _, reason := range got.DealBreakers {
		if reason == want {
			found = true
		}
	}
	if !found {
		t.Errorf("DealBreakers = %v, want to contain %q", got.DealBreakers, want)
	}
}

func TestScoreDealBreakerLanguage(t *testing.T) {
	s := NewCompatibilityScorer()
	requester := testProfile("me", 30)
	candidate := testProfile("other", 30)
	prefs := testPrefs()
	prefs.RequiredLanguages = []string{"Arabic", "Urdu"}

	got := s.Score(requester, candidate, prefs, 0)
	if !got.Ineligible() {
		t.Fatal("missing required language should be a deal breaker")
	}
	want := "Does not speak required languages: Arabic, Urdu"
	if len(got.DealBreakers) != 1 || got.DealBreakers[0] != want {
		t.Errorf("DealBreakers = %v, want [%q]", got.DealBreakers, want)
	}
}

func TestScoreSameCityLocation(t *testing.T) {
	s := NewCompatibilityScorer()
	requester := testProfile("me", 30)
	candidate := testProfile("other", 30)
	prefs := testPrefs()

	got := s.Score(requester, candidate, prefs, 0)

	// Same city scores the raw 100, weighted by the same-city weight.
	want := 100 * prefs.SoftPreferences.SameCity
	if got.Breakdown.LocationProximity != want {
		t.Errorf("LocationProximity = %f, want %f", got.Breakdown.LocationProximity, want)
	}
}

func TestScoreLocationWeightFallback(t *testing.T) {
	s := NewCompatibilityScorer()
	requester := testProfile("me", 30)
	candidate := testProfile("other", 30)
	prefs := testPrefs()
	prefs.SoftPreferences.SameCity = 0

	got := s.Score(requester, candidate, prefs, 0)
	if got.Breakdown.LocationProximity != 30 {
		t.Errorf("LocationProximity with zero weight = %f, want 30 (fallback weight)", got.Breakdown.LocationProximity)
	}
}

func TestScoreInterestMonotonicity(t *testing.T) {
	s := NewCompatibilityScorer()
	requester := testProfile("me", 30)
	prefs := testPrefs()

	overlap := testProfile("overlap", 30, func(p *domain.Profile) {
		p.Interests.Hobbies = []string{"reading", "cooking"}
	})
	none := testProfile("none", 30, func(p *domain.Profile) {
		p.Interests.Hobbies = []string{"hiking", "painting"}
	})

	scoreOverlap := s.Score(requester, overlap, prefs, 0)
	scoreNone := s.Score(requester, none, prefs, 0)

	if scoreOverlap.Breakdown.InterestCompatibility <= scoreNone.Breakdown.InterestCompatibility {
		t.Errorf("interest overlap should score higher: %f <= %f",
			scoreOverlap.Breakdown.InterestCompatibility, scoreNone.Breakdown.InterestCompatibility)
	}
	if scoreOverlap.TotalScore <= scoreNone.TotalScore {
		t.Errorf("overlap total %f should exceed no-overlap total %f",
			scoreOverlap.TotalScore, scoreNone.TotalScore)
	}
}

func TestScoreNoCommonLanguage(t *testing.T) {
	s := NewCompatibilityScorer()
	requester := testProfile("me", 30)
	candidate := testProfile("other", 30, func(p *domain.Profile) {
		p.Languages = []string{"Turkish"}
	})

	got := s.Score(requester, candidate, testPrefs(), 0)
	if got.Breakdown.LanguageMatch != 0 {
		t.Errorf("LanguageMatch = %f, want 0 with no shared language", got.Breakdown.LanguageMatch)
	}
}

func TestScoreSocialBonusFlowsThrough(t *testing.T) {
	s := NewCompatibilityScorer()
	requester := testProfile("me", 30)
	candidate := testProfile("other", 30)
	prefs := testPrefs()

	without := s.Score(requester, candidate, prefs, 0)
	with := s.Score(requester, candidate, prefs, 40)

	if with.Breakdown.SocialGraphBonus != 40 {
		t.Errorf("SocialGraphBonus = %f, want 40", with.Breakdown.SocialGraphBonus)
	}
	if with.TotalScore <= without.TotalScore {
		t.Errorf("social bonus should raise the total: %f <= %f", with.TotalScore, without.TotalScore)
	}

	found := false
	for _, reason := range with.Reasons {
		if reason == "You have mutual connections" {
			found = true
		}
	}
	if !found {
		t.Errorf("Reasons = %v, want mutual connections note", with.Reasons)
	}
}

func TestScoreBoundsAndReasons(t *testing.T) {
	s := NewCompatibilityScorer()
	requester := testProfile("me", 30)
	// A maximally aligned candidate with the full social bonus.
	twin := testProfile("twin", 30, func(p *domain.Profile) {
		p.Interests = requester.Interests
	})

	got := s.Score(requester, twin, testPrefs(), maxSocialBonus)
	if got.TotalScore < 0 || got.TotalScore > 100 {
		t.Errorf("TotalScore = %f, want within [0,100]", got.TotalScore)
	}
	if len(got.Reasons) == 0 {
		t.Error("a strong match should carry reasons")
	}
	if got.Ineligible() {
		t.Error("a strong match must not be ineligible")
	}
}

func TestScoreMentorshipNotes(t *testing.T) {
	s := NewCompatibilityScorer()
	requester := testProfile("me", 30)
	candidate := testProfile("other", 30, func(p *domain.Profile) {
		p.IslamicProfile.IsNewMuslim = true
	})
	prefs := testPrefs()
	prefs.SpecialFeatures.Mentorship = true

	got := s.Score(requester, candidate, prefs, 0)
	found := false
	for _, note := range got.SpecialFeatures {
		if note == "Opportunity to mentor a new Muslim sister" {
			found = true
		}
	}
	if !found {
		t.Errorf("SpecialFeatures = %v, want mentoring note", got.SpecialFeatures)
	}
}
