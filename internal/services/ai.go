package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

type AIService struct {
	client *openai.Client
	model  string
}

// GeneratedTask is one task suggested by the model. Nothing is persisted until the
// client posts it back through the regular create endpoint.
type GeneratedTask struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Priority    string   `json:"priority"`
	DueDate     string   `json:"dueDate"`
	Subtasks    []string `json:"subtasks"`
}

func NewAIService(apiKey string) *AIService {
	return &AIService{
		client: openai.NewClient(apiKey),
		model:  openai.GPT4o,
	}
}

// NewAIServiceWithConfig creates an AIService from a full client config, e.g. a custom base URL.
func NewAIServiceWithConfig(cfg openai.ClientConfig, model string) *AIService {
	return &AIService{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// GenerateTasksFromText analyzes text and extracts board tasks using OpenAI GPT
func (s *AIService) GenerateTasksFromText(ctx context.Context, text string) ([]GeneratedTask, error) {
	if s.client == nil {
		return nil, fmt.Errorf("OpenAI client not initialized")
	}

	today := time.Now().Format("2006-01-02")
	prompt := fmt.Sprintf(`You extract tasks for a kanban board from free text.

Today: %s

Text:
%s

Reply with a JSON array of tasks in this shape:
[
  {
    "title": "short task title",
    "description": "details",
    "category": "Technical Task" or "User Story",
    "priority": "high", "medium" or "low",
    "dueDate": "YYYY-MM-DD, or an empty string when the text names no deadline",
    "subtasks": ["optional checklist entries"]
  }
]

Rules:
- Reply with [] when the text contains no tasks
- Turn relative deadlines such as "tomorrow" or "next week" into dates
- Reply with JSON only, no prose`, today, text)

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: s.model,
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

// stripCodeFence removes a ```json ... ``` wrapper the model sometimes adds.
func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimPrefix(content, "json")
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	return strings.TrimSpace(content)
}
