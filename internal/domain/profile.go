package domain

import (
	"fmt"
	"time"
)

type PracticeLevel string

const (
	PracticeBeginner     PracticeLevel = "beginner"
	PracticeIntermediate PracticeLevel = "intermediate"
	PracticeAdvanced     PracticeLevel = "advanced"
	PracticeScholar      PracticeLevel = "scholar"
)

// Ordinal returns the position of the level on the 4-step practice scale,
// or -1 for an unknown value.
func (p PracticeLevel) Ordinal() int {
	switch p {
	case PracticeBeginner:
		return 0
	case PracticeIntermediate:
		return 1
	case PracticeAdvanced:
		return 2
	case PracticeScholar:
		return 3
	}
	return -1
}

type PrayerFrequency string

const (
	PrayerRarely    PrayerFrequency = "rarely"
	PrayerSometimes PrayerFrequency = "sometimes"
	PrayerRegularly PrayerFrequency = "regularly"
	PrayerAlways    PrayerFrequency = "always"
)

func (p PrayerFrequency) Ordinal() int {
	switch p {
	case PrayerRarely:
		return 0
	case PrayerSometimes:
		return 1
	case PrayerRegularly:
		return 2
	case PrayerAlways:
		return 3
	}
	return -1
}

type MosqueAttendance string

const (
	MosqueNever        MosqueAttendance = "never"
	MosqueOccasionally MosqueAttendance = "occasionally"
	MosqueWeekly       MosqueAttendance = "weekly"
	MosqueDaily        MosqueAttendance = "daily"
)

func (m MosqueAttendance) Ordinal() int {
	switch m {
	case MosqueNever:
		return 0
	case MosqueOccasionally:
		return 1
	case MosqueWeekly:
		return 2
	case MosqueDaily:
		return 3
	}
	return -1
}

type WorkStatus string

const (
	WorkStudent    WorkStatus = "student"
	WorkWorking    WorkStatus = "working"
	WorkHomemaker  WorkStatus = "homemaker"
	WorkRetired    WorkStatus = "retired"
	WorkUnemployed WorkStatus = "unemployed"
)

type StudyStatus string

const (
	StudyNone     StudyStatus = "not_studying"
	StudyPartTime StudyStatus = "part_time"
	StudyFullTime StudyStatus = "full_time"
)

type FamilyStatus string

const (
	FamilySingle              FamilyStatus = "single"
	FamilyMarried             FamilyStatus = "married"
	FamilyMarriedWithChildren FamilyStatus = "married_with_children"
	FamilyWidowed             FamilyStatus = "widowed"
)

type Availability string

const (
	AvailabilityVeryLimited  Availability = "very_limited"
	AvailabilityLimited      Availability = "limited"
	AvailabilityModerate     Availability = "moderate"
	AvailabilityFlexible     Availability = "flexible"
	AvailabilityVeryFlexible Availability = "very_flexible"
)

func (a Availability) Ordinal() int {
	switch a {
	case AvailabilityVeryLimited:
		return 0
	case AvailabilityLimited:
		return 1
	case AvailabilityModerate:
		return 2
	case AvailabilityFlexible:
		return 3
	case AvailabilityVeryFlexible:
		return 4
	}
	return -1
}

type MeetingTime string

const (
	MeetingMorning   MeetingTime = "morning"
	MeetingAfternoon MeetingTime = "afternoon"
	MeetingEvening   MeetingTime = "evening"
	MeetingWeekend   MeetingTime = "weekend"
)

// Location is a geographic position plus the human-readable place it maps to.
type Location struct {
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`
	City      string  `json:"city" db:"city"`
	Country   string  `json:"country" db:"country"`
	Timezone  string  `json:"timezone" db:"timezone"`
}

// IslamicProfile describes a sister's religious practice dimension.
type IslamicProfile struct {
	PracticeLevel          PracticeLevel    `json:"practice_level"`
	PrayerFrequency        PrayerFrequency  `json:"prayer_frequency"`
	HijabWearing           bool             `json:"hijab_wearing"`
	MosqueAttendance       MosqueAttendance `json:"mosque_attendance"`
	QuranStudyInterest     bool             `json:"quran_study_interest"`
	IslamicHistoryInterest bool             `json:"islamic_history_interest"`
	ArabicLearningInterest bool             `json:"arabic_learning_interest"`
	IsNewMuslim            bool             `json:"is_new_muslim"`
	YearsInIslam           *int             `json:"years_in_islam,omitempty"`
}

type Interests struct {
	Hobbies               []string `json:"hobbies"`
	Activities            []string `json:"activities"`
	IslamicInterests      []string `json:"islamic_interests"`
	StudyInterests        []string `json:"study_interests"`
	ProfessionalInterests []string `json:"professional_interests"`
}

// All flattens every interest collection into one slice.
func (i Interests) All() []string {
	all := make([]string, 0,
		len(i.Hobbies)+len(i.Activities)+len(i.IslamicInterests)+
			len(i.StudyInterests)+len(i.ProfessionalInterests))
	all = append(all, i.Hobbies...)
	all = append(all, i.Activities...)
	all = append(all, i.IslamicInterests...)
	all = append(all, i.StudyInterests...)
	all = append(all, i.ProfessionalInterests...)
	return all
}

type Lifestyle struct {
	WorkStatus            WorkStatus    `json:"work_status"`
	StudyStatus           StudyStatus   `json:"study_status"`
	FamilyStatus          FamilyStatus  `json:"family_status"`
	HasChildren           bool          `json:"has_children"`
	NumberOfChildren      *int          `json:"number_of_children,omitempty"`
	Availability          Availability  `json:"availability"`
	PreferredMeetingTimes []MeetingTime `json:"preferred_meeting_times"`
}

// Profile is the full user record the matching pipeline works on.
// It is owned by the caller and treated as immutable for the duration
// of a matching request.
type Profile struct {
	ID                 string         `json:"id" db:"id"`
	FirstName          string         `json:"first_name" db:"first_name"`
	Age                int            `json:"age" db:"age"`
	Location           Location       `json:"location"`
	Languages          []string       `json:"languages"`
	SecondaryLanguages []string       `json:"secondary_languages,omitempty"`
	IslamicProfile     IslamicProfile `json:"islamic_profile"`
	Interests          Interests      `json:"interests"`
	Lifestyle          Lifestyle      `json:"lifestyle"`
	CreatedAt          time.Time      `json:"created_at" db:"created_at"`
	LastActive         time.Time      `json:"last_active" db:"last_active"`
	Verified           bool           `json:"verified" db:"verified"`
}

// AllLanguages returns primary and secondary languages combined.
func (p *Profile) AllLanguages() []string {
	all := make([]string, 0, len(p.Languages)+len(p.SecondaryLanguages))
	all = append(all, p.Languages...)
	all = append(all, p.SecondaryLanguages...)
	return all
}

// Validate checks the fields the scoring pipeline cannot tolerate being
// broken. A profile failing this check is skipped during batch scoring
// rather than aborting the whole request.
func (p *Profile) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("%w: empty profile id", ErrInvalidProfile)
	}
	if p.Age <= 0 {
		return fmt.Errorf("%w: age %d", ErrInvalidProfile, p.Age)
	}
	if p.Location.Latitude < -90 || p.Location.Latitude > 90 {
		return fmt.Errorf("%w: latitude %f", ErrInvalidProfile, p.Location.Latitude)
	}
	if p.Location.Longitude < -180 || p.Location.Longitude > 180 {
		return fmt.Errorf("%w: longitude %f", ErrInvalidProfile, p.Location.Longitude)
	}
	return nil
}
