package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

type AIService struct {
	client *openai.Client
}

// GeneratedTask is a task suggestion. Suggestions are not saved until the
// user submits them through the task form.
type GeneratedTask struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func NewAIService(apiKey string) *AIService {
	return &AIService{
		client: openai.NewClient(apiKey),
	}
}

// NewAIServiceWithBaseURL points the client at an OpenAI-compatible endpoint.
func NewAIServiceWithBaseURL(apiKey, baseURL string) *AIService {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	return &AIService{
		client: openai.NewClientWithConfig(cfg),
	}
}

// GenerateTasksFromText asks the model to break a description of project
// work into concrete tasks.
func (s *AIService) GenerateTasksFromText(ctx context.Context, projectTitle, text string) ([]GeneratedTask, error) {
	if s.client == nil {
		return nil, fmt.Errorf("OpenAI client not initialized")
	}

	prompt := fmt.Sprintf(`You help students plan academic projects. Break the notes below into concrete tasks for the project %q.

Notes:
%s

Respond with a JSON array of tasks in this shape:
[
  {
    "title": "short imperative task title",
    "description": "one or two sentences of detail"
  }
]

Rules:
- Return [] when the notes contain no actionable work
- Return JSON only, without commentary or code fences`, projectTitle, text)

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

	content := stripCodeFence(resp.Choices[0].Message.Content)

	var tasks []GeneratedTask
	if err := json.Unmarshal([]byte(content), &tasks); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w (response: %s)", err, content)
	}

	return tasks, nil
}

func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}
