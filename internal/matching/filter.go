package matching

import (
	"math"
	"time"

	"github.com/sistersconnect/backend/internal/domain"
)

// inactivityCutoff is how long a profile may be idle before the safety
// filter hides it.
const inactivityCutoff = 30 * 24 * time.Hour

// CandidateFilter applies eligibility rules before any scoring
// happens. It is stateless apart from an injected clock.
type CandidateFilter struct {
	now func() time.Time
}

// NewCandidateFilter returns a filter using the real clock.
func NewCandidateFilter() *CandidateFilter {
	return &CandidateFilter{now: time.Now}
}

// NewCandidateFilterWithClock allows deterministic tests.
func NewCandidateFilterWithClock(now func() time.Time) *CandidateFilter {
	return &CandidateFilter{now: now}
}

// FilterCandidates runs the three filter stages in order: hard rules,
// behavior-based exclusions (when behavior is supplied) and
// privacy/safety rules. Pure function of its inputs.
func (f *CandidateFilter) FilterCandidates(
	current *domain.Profile,
	candidates []*domain.Profile,
	prefs *domain.Preferences,
	behavior *domain.UserBehavior,
) []*domain.Profile {
	filtered := f.applyHardFilters(current, candidates, prefs)
	if behavior != nil {
		filtered = f.applyBehaviorFilters(filtered, behavior)
	}
	return f.applyPrivacyFilters(current, filtered)
}

func (f *CandidateFilter) applyHardFilters(
	current *domain.Profile,
	candidates []*domain.Profile,
	prefs *domain.Preferences,
) []*domain.Profile {
	out := make([]*domain.Profile, 0, len(candidates))
	for _, candidate := range candidates {
		if !prefs.AgeRange.Contains(candidate.Age) {
			continue
		}
		if DistanceKm(current.Location, candidate.Location) > prefs.MaxDistanceKm {
			continue
		}
		if len(prefs.RequiredLanguages) > 0 && !speaksAny(candidate, prefs.RequiredLanguages) {
			continue
		}
		if prefs.DealBreakers.DifferentPracticeLevel &&
			current.IslamicProfile.PracticeLevel != candidate.IslamicProfile.PracticeLevel {
			continue
		}
		if prefs.DealBreakers.NoHijab && !candidate.IslamicProfile.HijabWearing {
			continue
		}
		if prefs.DealBreakers.DifferentFamilyStatus &&
			current.Lifestyle.FamilyStatus != candidate.Lifestyle.FamilyStatus {
			continue
		}
		out = append(out, candidate)
	}
	return out
}

func speaksAny(p *domain.Profile, required []string) bool {
	spoken := toSet(p.AllLanguages())
	for _, lang := range required {
		if _, ok := spoken[lang]; ok {
			return true
		}
	}
	return false
}

func (f *CandidateFilter) applyBehaviorFilters(
	candidates []*domain.Profile,
	behavior *domain.UserBehavior,
) []*domain.Profile {
	excluded := toSet(behavior.DislikedProfiles)
	for _, id := range behavior.ReportedUsers {
		excluded[id] = struct{}{}
	}
	for _, id := range behavior.DeclinedConnections {
		excluded[id] = struct{}{}
	}

	out := make([]*domain.Profile, 0, len(candidates))
	for _, candidate := range candidates {
		if _, ok := excluded[candidate.ID]; ok {
			continue
		}
		out = append(out, candidate)
	}
	return out
}

func (f *CandidateFilter) applyPrivacyFilters(
	current *domain.Profile,
	candidates []*domain.Profile,
) []*domain.Profile {
	now := f.now()
	out := make([]*domain.Profile, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.ID == current.ID {
			continue
		}
		if !candidate.Verified {
			continue
		}
		if now.Sub(candidate.LastActive) > inactivityCutoff {
			continue
		}
		out = append(out, candidate)
	}
	return out
}

// FilterForFeature applies the eligibility predicate of a single
// special-feature mode. It does not run the general filter stages;
// feature queries layer this on top of normal scoring instead.
func (f *CandidateFilter) FilterForFeature(
	current *domain.Profile,
	candidates []*domain.Profile,
	feature domain.SpecialFeature,
) []*domain.Profile {
	switch feature {
	case domain.FeatureStudyBuddy:
		return filterProfiles(candidates, func(c *domain.Profile) bool {
			return overlaps(current.Interests.StudyInterests, c.Interests.StudyInterests) ||
				overlaps(current.Interests.IslamicInterests, c.Interests.IslamicInterests)
		})
	case domain.FeatureMentorship:
		return filterProfiles(candidates, func(c *domain.Profile) bool {
			if current.IslamicProfile.IsNewMuslim != c.IslamicProfile.IsNewMuslim {
				return true
			}
			ageDiff := current.Age - c.Age
			if ageDiff < 0 {
				ageDiff = -ageDiff
			}
			return ageDiff >= 5
		})
	case domain.FeatureEventCompanion:
		return filterProfiles(candidates, func(c *domain.Profile) bool {
			return SameCity(current.Location, c.Location) &&
				meetingTimesOverlap(current.Lifestyle.PreferredMeetingTimes, c.Lifestyle.PreferredMeetingTimes) > 0
		})
	case domain.FeatureProfessionalNetworking:
		return filterProfiles(candidates, func(c *domain.Profile) bool {
			return overlaps(current.Interests.ProfessionalInterests, c.Interests.ProfessionalInterests) &&
				workingOrStudying(current) && workingOrStudying(c)
		})
	}
	return candidates
}

func filterProfiles(candidates []*domain.Profile, keep func(*domain.Profile) bool) []*domain.Profile {
	out := make([]*domain.Profile, 0, len(candidates))
	for _, c := range candidates {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

func overlaps(a, b []string) bool {
	return len(commonStrings(a, b)) > 0
}

func commonStrings(a, b []string) []string {
	setB := toSet(b)
	seen := make(map[string]struct{}, len(a))
	var common []string
	for _, v := range a {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		if _, ok := setB[v]; ok {
			common = append(common, v)
		}
	}
	return common
}

func meetingTimesOverlap(a, b []domain.MeetingTime) int {
	setB := make(map[domain.MeetingTime]struct{}, len(b))
	for _, t := range b {
		setB[t] = struct{}{}
	}
	overlap := 0
	for _, t := range a {
		if _, ok := setB[t]; ok {
			overlap++
		}
	}
	return overlap
}

func workingOrStudying(p *domain.Profile) bool {
	return p.Lifestyle.WorkStatus == domain.WorkWorking ||
		p.Lifestyle.StudyStatus != domain.StudyNone
}

// UpdatePreferencesFromBehavior derives a new preferences value from
// accumulated interaction history: the age range re-centers on the
// liked profiles' ages (mean ± 1.5σ, clamped to [18,80]) and the
// distance cap widens towards liked profiles' distances with a 20%
// buffer. It never narrows the distance cap and never mutates its
// inputs; callers apply the result before the next request.
func (f *CandidateFilter) UpdatePreferencesFromBehavior(
	current *domain.Profile,
	prefs domain.Preferences,
	behavior *domain.UserBehavior,
	allProfiles []*domain.Profile,
) domain.Preferences {
	if behavior == nil {
		return prefs
	}

	byID := make(map[string]*domain.Profile, len(allProfiles))
	for _, p := range allProfiles {
		byID[p.ID] = p
	}

	var likedAges []float64
	var likedDistances []float64
	for _, id := range behavior.LikedProfiles {
		liked, ok := byID[id]
		if !ok {
			continue
		}
		likedAges = append(likedAges, float64(liked.Age))
		likedDistances = append(likedDistances, DistanceKm(current.Location, liked.Location))
	}

	if len(likedAges) >= 3 {
		mean := meanOf(likedAges)
		stdDev := stdDevOf(likedAges, mean)
		prefs.AgeRange = domain.AgeRange{
			Min: int(math.Max(18, math.Floor(mean-stdDev*1.5))),
			Max: int(math.Min(80, math.Ceil(mean+stdDev*1.5))),
		}
	}

	if len(likedDistances) >= 3 {
		mean := meanOf(likedDistances)
		prefs.MaxDistanceKm = math.Max(prefs.MaxDistanceKm, math.Ceil(mean*1.2))
	}

	prefs.RequiredLanguages = append([]string(nil), prefs.RequiredLanguages...)
	return prefs
}

func meanOf(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stdDevOf(values []float64, mean float64) float64 {
	var sum float64
	for _, v := range values {
		sum += math.Pow(v-mean, 2)
	}
	return math.Sqrt(sum / float64(len(values)))
}
