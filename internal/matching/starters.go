package matching

import (
	"fmt"

	"github.com/sistersconnect/backend/internal/domain"
)

// ConversationStarters builds up to three opener suggestions for user1
// to send to user2, derived from what the two profiles share.
// Deterministic; used directly and as the fallback when AI enrichment
// is unavailable.
func ConversationStarters(user1, user2 *domain.Profile) []string {
	var starters []string

	islamicCommon := commonStrings(user1.Interests.IslamicInterests, user2.Interests.IslamicInterests)
	for _, interest := range islamicCommon {
		switch interest {
		case "Quran study":
			starters = append(starters, "As-salamu alaykum sister! I noticed you're interested in Quran study. Do you have a favorite surah?")
		case "Islamic history":
			starters = append(starters, "I see we both love Islamic history! Have you read any good books on the topic recently?")
		}
	}

	if hobbies := commonStrings(user1.Interests.Hobbies, user2.Interests.Hobbies); len(hobbies) > 0 {
		starters = append(starters, fmt.Sprintf("I noticed we both enjoy %s! How did you get started with it?", hobbies[0]))
	}

	if professional := commonStrings(user1.Interests.ProfessionalInterests, user2.Interests.ProfessionalInterests); len(professional) > 0 {
		starters = append(starters, fmt.Sprintf("Great to meet someone else interested in %s! Are you working in this field?", professional[0]))
	}

	if SameCity(user1.Location, user2.Location) {
		starters = append(starters, fmt.Sprintf("Nice to meet a fellow sister from %s! Do you know any good halal restaurants here?", user1.Location.City))
	}

	if user2.IslamicProfile.IsNewMuslim {
		starters = append(starters, "Welcome to Islam, sister! How has your journey been so far? I'd love to support you in any way I can.")
	}

	if len(starters) == 0 {
		starters = append(starters, "As-salamu alaykum sister! I'd love to get to know you better. How are you doing today?")
	}

	if len(starters) > 3 {
		starters = starters[:3]
	}
	return starters
}
