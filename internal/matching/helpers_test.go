package matching

import (
	"time"

	"github.com/sistersconnect/backend/internal/domain"
)

// testNow is the frozen clock shared by the package tests.
var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func testClock() time.Time { return testNow }

func testProfile(id string, age int, mods ...func(*domain.Profile)) *domain.Profile {
	p := &domain.Profile{
		ID:        id,
		FirstName: "Amina",
		Age:       age,
		Location: domain.Location{
			Latitude:  51.5074,
			Longitude: -0.1278,
			City:      "London",
			Country:   "UK",
			Timezone:  "Europe/London",
		},
		Languages: []string{"English"},
		IslamicProfile: domain.IslamicProfile{
			PracticeLevel:    domain.PracticeIntermediate,
			PrayerFrequency:  domain.PrayerRegularly,
			HijabWearing:     true,
			MosqueAttendance: domain.MosqueWeekly,
		},
		Interests: domain.Interests{
			Hobbies: []string{"reading", "cooking"},
		},
		Lifestyle: domain.Lifestyle{
			WorkStatus:            domain.WorkWorking,
			StudyStatus:           domain.StudyNone,
			FamilyStatus:          domain.FamilySingle,
			Availability:          domain.AvailabilityModerate,
			PreferredMeetingTimes: []domain.MeetingTime{domain.MeetingEvening},
		},
		CreatedAt:  testNow.AddDate(-1, 0, 0),
		LastActive: testNow,
		Verified:   true,
	}
	for _, mod := range mods {
		mod(p)
	}
	return p
}

func testPrefs() *domain.Preferences {
	prefs := domain.DefaultPreferences()
	return &prefs
}

func acceptedConn(id, user1, user2 string, createdAt time.Time) *domain.Connection {
	accepted := createdAt
	return &domain.Connection{
		ID:          id,
		User1ID:     user1,
		User2ID:     user2,
		InitiatedBy: user1,
		Status:      domain.ConnectionAccepted,
		CreatedAt:   createdAt,
		AcceptedAt:  &accepted,
	}
}
