package matching

import (
	"fmt"
	"math"
	"strings"

	"github.com/sistersconnect/backend/internal/domain"
)

// languageWeight is the fixed weight applied to the language factor;
// together with the unweighted social-bonus slot it accounts for the
// 0.5 constant added to the weight denominator.
const (
	languageWeight   = 0.2
	fixedSlotsWeight = 0.5
)

// CompatibilityScorer produces a MatchScore for a single pair. Pure:
// no side effects, total for well-formed input.
type CompatibilityScorer struct{}

func NewCompatibilityScorer() *CompatibilityScorer {
	return &CompatibilityScorer{}
}

// Score computes the six-factor weighted compatibility of candidate
// for requester. The deal-breaker check intentionally repeats a subset
// of the candidate filter's hard rules as defense-in-depth; when one
// fires the result is a zero score carrying the violated constraints.
func (s *CompatibilityScorer) Score(
	requester, candidate *domain.Profile,
	prefs *domain.Preferences,
	socialBonus float64,
) *domain.MatchScore {
	if violations := s.checkDealBreakers(requester, candidate, prefs); len(violations) > 0 {
		return &domain.MatchScore{
			UserID:       candidate.ID,
			TotalScore:   0,
			Reasons:      violations,
			DealBreakers: violations,
		}
	}

	interestScore := s.interestCompatibility(requester, candidate)
	locationScore := s.locationCompatibility(requester, candidate, prefs.MaxDistanceKm)
	ageScore := AgeCompatibility(requester.Age, candidate.Age, prefs.AgeRange)
	languageScore := s.languageCompatibility(requester, candidate)
	islamicScore := s.islamicCompatibility(requester, candidate)
	lifestyleScore := s.lifestyleCompatibility(requester, candidate)

	locationWeight := prefs.SoftPreferences.SameCity
	if locationWeight == 0 {
		locationWeight = 0.3
	}

	breakdown := domain.Breakdown{
		InterestCompatibility:  interestScore * prefs.SoftPreferences.SimilarInterests,
		LocationProximity:      locationScore * locationWeight,
		AgeCompatibility:       ageScore * prefs.SoftPreferences.SimilarAge,
		LanguageMatch:          languageScore * languageWeight,
		IslamicCompatibility:   islamicScore * prefs.SoftPreferences.SimilarPracticeLevel,
		LifestyleCompatibility: lifestyleScore * prefs.SoftPreferences.SimilarLifestyle,
		SocialGraphBonus:       socialBonus,
	}

	totalWeight := prefs.SoftPreferences.Sum() + fixedSlotsWeight
	var total float64
	for _, v := range breakdown.Values() {
		total += v
	}
	total /= totalWeight

	return &domain.MatchScore{
		UserID:          candidate.ID,
		TotalScore:      clampScore(total),
		Breakdown:       breakdown,
		Reasons:         s.matchReasons(breakdown),
		SpecialFeatures: s.specialFeatureNotes(requester, candidate, prefs),
	}
}

func (s *CompatibilityScorer) checkDealBreakers(
	requester, candidate *domain.Profile,
	prefs *domain.Preferences,
) []string {
	var reasons []string

	if !prefs.AgeRange.Contains(candidate.Age) {
		reasons = append(reasons, fmt.Sprintf(
			"Age %d is outside preferred range %d-%d",
			candidate.Age, prefs.AgeRange.Min, prefs.AgeRange.Max))
	}

	distance := DistanceKm(requester.Location, candidate.Location)
	if distance > prefs.MaxDistanceKm {
		reasons = append(reasons, fmt.Sprintf(
			"Distance %.1fkm exceeds maximum %gkm", distance, prefs.MaxDistanceKm))
	}

	if prefs.DealBreakers.DifferentPracticeLevel &&
		requester.IslamicProfile.PracticeLevel != candidate.IslamicProfile.PracticeLevel {
		reasons = append(reasons, "Different Islamic practice levels")
	}

	if prefs.DealBreakers.NoHijab && !candidate.IslamicProfile.HijabWearing {
		reasons = append(reasons, "Does not wear hijab")
	}

	if prefs.DealBreakers.DifferentFamilyStatus &&
		requester.Lifestyle.FamilyStatus != candidate.Lifestyle.FamilyStatus {
		reasons = append(reasons, "Different family status")
	}

	if len(prefs.RequiredLanguages) > 0 && !speaksAny(candidate, prefs.RequiredLanguages) {
		reasons = append(reasons, fmt.Sprintf(
			"Does not speak required languages: %s", strings.Join(prefs.RequiredLanguages, ", ")))
	}

	return reasons
}

func (s *CompatibilityScorer) interestCompatibility(a, b *domain.Profile) float64 {
	interestsA := a.Interests.All()
	interestsB := b.Interests.All()

	if len(interestsA) == 0 && len(interestsB) == 0 {
		return 50 // neutral when neither side lists anything
	}

	common := commonStrings(interestsA, interestsB)
	largest := math.Max(float64(len(interestsA)), float64(len(interestsB)))
	base := float64(len(common)) / largest * 100

	islamicCommon := commonStrings(a.Interests.IslamicInterests, b.Interests.IslamicInterests)
	return math.Min(100, base+float64(len(islamicCommon))*10)
}

func (s *CompatibilityScorer) locationCompatibility(a, b *domain.Profile, maxDistance float64) float64 {
	distance := DistanceKm(a.Location, b.Location)
	if distance > maxDistance {
		return 0
	}
	if SameCity(a.Location, b.Location) {
		return 100
	}
	if maxDistance == 0 {
		return 100 // distance is 0 too, or the candidate was excluded above
	}
	return math.Max(0, 100-(distance/maxDistance)*100)
}

func (s *CompatibilityScorer) languageCompatibility(a, b *domain.Profile) float64 {
	langsA := a.AllLanguages()
	langsB := b.AllLanguages()

	common := commonStrings(langsA, langsB)
	if len(common) == 0 {
		return 0
	}

	base := float64(len(common)) / math.Max(float64(len(langsA)), float64(len(langsB))) * 100
	if overlaps(a.Languages, b.Languages) {
		base += 20
	}
	return math.Min(100, base)
}

func (s *CompatibilityScorer) islamicCompatibility(a, b *domain.Profile) float64 {
	ia, ib := a.IslamicProfile, b.IslamicProfile

	score := ordinalScore(ia.PracticeLevel.Ordinal(), ib.PracticeLevel.Ordinal(), 25)
	score += ordinalScore(ia.PrayerFrequency.Ordinal(), ib.PrayerFrequency.Ordinal(), 30)

	switch {
	case ia.HijabWearing && ib.HijabWearing:
		score += 100
	case ia.HijabWearing == ib.HijabWearing:
		score += 80
	default:
		score += 60
	}

	score += ordinalScore(ia.MosqueAttendance.Ordinal(), ib.MosqueAttendance.Ordinal(), 25)

	if ia.IsNewMuslim || ib.IsNewMuslim {
		score += 10 // flat bonus when either side is new to the faith
	}

	return score / 4
}

func ordinalScore(a, b int, penaltyPerStep float64) float64 {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return math.Max(0, 100-float64(diff)*penaltyPerStep)
}

var workStatusCompatibility = map[domain.WorkStatus]map[domain.WorkStatus]float64{
	domain.WorkStudent:    {domain.WorkStudent: 100, domain.WorkWorking: 70, domain.WorkHomemaker: 60, domain.WorkRetired: 50, domain.WorkUnemployed: 80},
	domain.WorkWorking:    {domain.WorkStudent: 70, domain.WorkWorking: 100, domain.WorkHomemaker: 60, domain.WorkRetired: 50, domain.WorkUnemployed: 50},
	domain.WorkHomemaker:  {domain.WorkStudent: 60, domain.WorkWorking: 60, domain.WorkHomemaker: 100, domain.WorkRetired: 80, domain.WorkUnemployed: 70},
	domain.WorkRetired:    {domain.WorkStudent: 50, domain.WorkWorking: 50, domain.WorkHomemaker: 80, domain.WorkRetired: 100, domain.WorkUnemployed: 60},
	domain.WorkUnemployed: {domain.WorkStudent: 80, domain.WorkWorking: 50, domain.WorkHomemaker: 70, domain.WorkRetired: 60, domain.WorkUnemployed: 100},
}

func (s *CompatibilityScorer) lifestyleCompatibility(a, b *domain.Profile) float64 {
	la, lb := a.Lifestyle, b.Lifestyle

	work := 50.0
	if la.WorkStatus == lb.WorkStatus {
		work = 100
	} else if row, ok := workStatusCompatibility[la.WorkStatus]; ok {
		if v, ok := row[lb.WorkStatus]; ok {
			work = v
		}
	}

	family := 60.0
	if la.FamilyStatus == lb.FamilyStatus {
		family = 100
	}

	children := 70.0
	if la.HasChildren == lb.HasChildren {
		children = 100
	}

	availability := ordinalScore(la.Availability.Ordinal(), lb.Availability.Ordinal(), 20)

	times := JaccardSimilarity(meetingTimeStrings(la.PreferredMeetingTimes), meetingTimeStrings(lb.PreferredMeetingTimes))

	return (work + family + children + availability + times) / 5
}

func meetingTimeStrings(times []domain.MeetingTime) []string {
	out := make([]string, len(times))
	for i, t := range times {
		out[i] = string(t)
	}
	return out
}

func (s *CompatibilityScorer) matchReasons(b domain.Breakdown) []string {
	var reasons []string

	if b.InterestCompatibility > 70 {
		reasons = append(reasons, "You share many common interests")
	}
	if b.IslamicCompatibility > 80 {
		reasons = append(reasons, "You have similar Islamic practice levels")
	}
	if b.LocationProximity > 90 {
		reasons = append(reasons, "You live in the same city")
	} else if b.LocationProximity > 70 {
		reasons = append(reasons, "You live relatively close to each other")
	}
	if b.AgeCompatibility > 80 {
		reasons = append(reasons, "You are in similar age groups")
	}
	if b.LanguageMatch > 80 {
		reasons = append(reasons, "You speak the same languages")
	}
	if b.LifestyleCompatibility > 75 {
		reasons = append(reasons, "You have compatible lifestyles")
	}
	if b.SocialGraphBonus > 0 {
		reasons = append(reasons, "You have mutual connections")
	}

	return reasons
}

func (s *CompatibilityScorer) specialFeatureNotes(
	a, b *domain.Profile,
	prefs *domain.Preferences,
) []string {
	var features []string

	if prefs.SpecialFeatures.StudyBuddy {
		if overlap := commonStrings(a.Interests.StudyInterests, b.Interests.StudyInterests); len(overlap) > 0 {
			features = append(features, fmt.Sprintf("Study buddy for: %s", strings.Join(overlap, ", ")))
		}
	}

	if prefs.SpecialFeatures.Mentorship {
		if a.IslamicProfile.IsNewMuslim && !b.IslamicProfile.IsNewMuslim {
			features = append(features, "Potential mentor for Islamic guidance")
		} else if !a.IslamicProfile.IsNewMuslim && b.IslamicProfile.IsNewMuslim {
			features = append(features, "Opportunity to mentor a new Muslim sister")
		}
	}

	if prefs.SpecialFeatures.ProfessionalNetworking {
		if overlap := commonStrings(a.Interests.ProfessionalInterests, b.Interests.ProfessionalInterests); len(overlap) > 0 {
			features = append(features, fmt.Sprintf("Professional networking: %s", strings.Join(overlap, ", ")))
		}
	}

	return features
}
