package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeOpenAI(t *testing.T, content string) *AIService {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			ID:     "chatcmpl-test",
			Object: "chat.completion",
			Model:  openai.GPT4o,
			Choices: []openai.ChatCompletionChoice{{
				Index:        0,
				Message:      openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content},
				FinishReason: openai.FinishReasonStop,
			}},
		})
	}))
	t.Cleanup(srv.Close)

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = srv.URL + "/v1"
	return NewAIServiceWithConfig(cfg, openai.GPT4o)
}

func TestAIService_ParsesFencedReply(t *testing.T) {
	ai := fakeOpenAI(t, "```json\n[{\"title\":\"Plan sprint\",\"priority\":\"high\",\"subtasks\":[\"a\"]}]\n```")

	tasks, err := ai.GenerateTasksFromText(context.Background(), "plan the sprint")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Plan sprint", tasks[0].Title)
	assert.Equal(t, []string{"a"}, tasks[0].Subtasks)
}

func TestAIService_InvalidReply(t *testing.T) {
	ai := fakeOpenAI(t, "I could not find tasks.")

	_, err := ai.GenerateTasksFromText(context.Background(), "hello")
	assert.Error(t, err)
}

func TestTaskService_GenerateTasksNormalizes(t *testing.T) {
	reply := `[
		{"title":"Ship","priority":"urgent","dueDate":"2020-01-01"},
		{"title":"  "},
		{"title":"Review","priority":"low","category":"User Story","dueDate":"2024-06-01"}
	]`
	svc := NewTaskService(nil, nil, fakeOpenAI(t, reply), nil)
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC) }

	tasks, err := svc.GenerateTasks(context.Background(), GenerateTasksInput{Text: "ship it, then review"})
	require.NoError(t, err)
	require.Len(t, tasks, 2)

	assert.Equal(t, "medium", tasks[0].Priority)
	assert.Empty(t, tasks[0].DueDate, "past deadlines are dropped")
	assert.Equal(t, "Technical Task", tasks[0].Category)

	assert.Equal(t, "low", tasks[1].Priority)
	assert.Equal(t, "2024-06-01", tasks[1].DueDate)
}

func TestTaskService_GenerateTasksEmpty(t *testing.T) {
	svc := NewTaskService(nil, nil, fakeOpenAI(t, "[]"), nil)

	_, err := svc.GenerateTasks(context.Background(), GenerateTasksInput{Text: "nothing"})
	assert.ErrorIs(t, err, ErrAINoTasksGenerated)
}
