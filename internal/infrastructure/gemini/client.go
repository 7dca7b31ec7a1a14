package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/sistersconnect/backend/internal/domain"
)

type GeminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGeminiClient(apiKey string) (*GeminiClient, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := client.GenerativeModel("gemini-1.5-pro")
	model.SetTemperature(0.7)

	return &GeminiClient{
		client: client,
		model:  model,
	}, nil
}

func (c *GeminiClient) Close() {
	c.client.Close()
}

// GenerateConversationStarters asks the model for up to three opener
// suggestions tailored to what the two sisters share. Callers fall
// back to the deterministic starters on any error.
func (c *GeminiClient) GenerateConversationStarters(ctx context.Context, user1, user2 *domain.Profile) ([]string, error) {
	prompt := fmt.Sprintf(`
		Suggest 3 warm, respectful opening messages for a Muslim women's
		friendship app. Sister 1 will send the message to Sister 2.
		Sister 1 interests: %v
		Sister 2 interests: %v
		Sister 2 city: %s
		Sister 2 is new to Islam: %t

		Task: Create 3 distinct friendly openers grounded in shared
		interests. Keep the tone sisterly, never romantic.
		Language: English.
		Output: JSON array of strings. Example: ["As-salamu alaykum...", "Hi..."]
	`, user1.Interests.All(), user2.Interests.All(),
		user2.Location.City, user2.IslamicProfile.IsNewMuslim)

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, err
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("no content generated")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}

	responseText := strings.TrimSpace(sb.String())
	// Clean up markdown code blocks if present
	responseText = strings.TrimPrefix(responseText, "```json")
	responseText = strings.TrimPrefix(responseText, "```")
	responseText = strings.TrimSuffix(responseText, "```")

	var starters []string
	if err := json.Unmarshal([]byte(responseText), &starters); err != nil {
		// Fallback if JSON parsing fails - just return raw text split by newlines
		lines := strings.Split(responseText, "\n")
		for _, line := range lines {
			line = strings.TrimSpace(line)
			if line != "" && !strings.HasPrefix(line, "[") && !strings.HasSuffix(line, "]") {
				starters = append(starters, line)
			}
		}
		if len(starters) == 0 {
			return nil, fmt.Errorf("failed to parse conversation starters: %w", err)
		}
	}

	if len(starters) > 3 {
		starters = starters[:3]
	}
	return starters, nil
}
