package matching

import (
	"strings"
	"testing"

	"github.com/sistersconnect/backend/internal/domain"
)

func TestConversationStartersSharedInterests(t *testing.T) {
	user1 := testProfile("a", 30, func(p *domain.Profile) {
		p.Interests.IslamicInterests = []string{"Quran study"}
		p.Interests.Hobbies = []string{"calligraphy"}
	})
	user2 := testProfile("b", 30, func(p *domain.Profile) {
		p.Interests.IslamicInterests = []string{"Quran study"}
		p.Interests.Hobbies = []string{"calligraphy"}
	})

	starters := ConversationStarters(user1, user2)
	if len(starters) == 0 || len(starters) > 3 {
		t.Fatalf("starters count = %d, want 1..3", len(starters))
	}

	foundQuran, foundHobby := false, false
	for _, s := range starters {
		if strings.Contains(s, "Quran study") {
			foundQuran = true
		}
		if strings.Contains(s, "calligraphy") {
			foundHobby = true
		}
	}
	if !foundQuran || !foundHobby {
		t.Errorf("starters = %v, want Quran and hobby openers", starters)
	}
}

func TestConversationStartersFallback(t *testing.T) {
	user1 := testProfile("a", 30, func(p *domain.Profile) {
		p.Interests = domain.Interests{}
		p.Location.City = "Leeds"
	})
	user2 := testProfile("b", 30, func(p *domain.Profile) {
		p.Interests = domain.Interests{}
		p.Location.City = "Manchester"
	})

	starters := ConversationStarters(user1, user2)
	if len(starters) != 1 {
		t.Fatalf("starters = %v, want the single default greeting", starters)
	}
	if !strings.Contains(starters[0], "As-salamu alaykum") {
		t.Errorf("default greeting = %q", starters[0])
	}
}

func TestConversationStartersDeterministic(t *testing.T) {
	user1 := testProfile("a", 30)
	user2 := testProfile("b", 30)

	first := ConversationStarters(user1, user2)
	second := ConversationStarters(user1, user2)
	if len(first) != len(second) {
		t.Fatal("starter generation is not deterministic")
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatal("starter generation is not deterministic")
		}
	}
}
