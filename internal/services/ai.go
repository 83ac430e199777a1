package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

type AIService struct {
	client *openai.Client
}

// TriageSuggestion is the model's guess at how a reported problem should be filed.
type TriageSuggestion struct {
	Category  string `json:"category"`
	Priority  string `json:"priority"`
	Rationale string `json:"rationale"`
}

func NewAIService(apiKey string) *AIService {
	return &AIService{
		client: openai.NewClient(apiKey),
	}
}

// SuggestTriage asks the model for a category and priority for a free-text
// problem description.
func (s *AIService) SuggestTriage(ctx context.Context, title, description string) (*TriageSuggestion, error) {
	if s.client == nil {
		return nil, fmt.Errorf("OpenAI client not initialized")
	}

	prompt := fmt.Sprintf(`You are a triage assistant for a village issue tracker. Classify the reported problem below.

Title: %s
Description: %s

Reply with a single JSON object and nothing else:
{
  "category": one of "water", "electricity", "roads", "sanitation", "health", "education", "agriculture", "other",
  "priority": one of "low", "medium", "high", "urgent",
  "rationale": "one short sentence explaining the choice"
}`, title, description)

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: openai.GPT4o,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.3,
		},
	)

	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	content := resp.Choices[0].Message.Content

	var suggestion TriageSuggestion
	if err := json.Unmarshal([]byte(content), &suggestion); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w (response: %s)", err, content)
	}

	return &suggestion, nil
}
