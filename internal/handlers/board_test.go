package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/join-board/internal/dto"
	"github.com/yukikurage/join-board/internal/kvstore"
	"github.com/yukikurage/join-board/internal/models"
	"github.com/yukikurage/join-board/internal/services"
)

func TestBoardHandler_GetBoard(t *testing.T) {
	env := newTestEnv(t, kvstore.NewMemoryStore(), nil)
	handler := NewBoardHandler(env.boardService)
	user := env.createUser(t, "anna@example.com")

	first := env.createTask(t, user.ID, "Write docs")
	env.createTask(t, user.ID, "Fix login")
	_, err := env.taskService.MoveTask(c0(), user.ID, first.ID, models.TaskStatusFeedback)
	require.NoError(t, err)

	c, w := createAuthContext("GET", "/api/board", nil, user.ID)
	handler.GetBoard(c)

	require.Equal(t, http.StatusOK, w.Code)
	var response dto.BoardResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Columns, 4)
	for i, status := range models.BoardColumns {
		assert.Equal(t, status, response.Columns[i].Status)
	}
	require.Len(t, response.Columns[0].Tasks, 1)
	assert.Equal(t, "Fix login", response.Columns[0].Tasks[0].Title)
	assert.Empty(t, response.Columns[1].Tasks)
	require.Len(t, response.Columns[2].Tasks, 1)
	assert.Equal(t, first.ID, response.Columns[2].Tasks[0].ID)

	c, w = createAuthContext("GET", "/api/board?q=docs", nil, user.ID)
	handler.GetBoard(c)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Empty(t, response.Columns[0].Tasks)
	assert.Len(t, response.Columns[2].Tasks, 1)
}

func TestBoardHandler_GetBoardStoreUnavailable(t *testing.T) {
	env := newTestEnv(t, unreachableStore{}, nil)
	handler := NewBoardHandler(env.boardService)

	c, w := createAuthContext("GET", "/api/board", nil, 1)
	handler.GetBoard(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestBoardHandler_GetSummary(t *testing.T) {
	env := newTestEnv(t, kvstore.NewMemoryStore(), nil)
	handler := NewBoardHandler(env.boardService)
	user := env.createUser(t, "anna@example.com")

	_, err := env.taskService.CreateTask(c0(), user.ID, services.CreateTaskInput{
		Title:    "Release",
		Priority: models.PriorityHigh,
		DueDate:  "2099-01-31",
	})
	require.NoError(t, err)
	_, err = env.taskService.CreateTask(c0(), user.ID, services.CreateTaskInput{
		Title:   "Archive",
		Status:  models.TaskStatusDone,
		DueDate: "2098-01-01",
	})
	require.NoError(t, err)

	c, w := createAuthContext("GET", "/api/summary", nil, user.ID)
	handler.GetSummary(c)

	require.Equal(t, http.StatusOK, w.Code)
	var response dto.SummaryDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 1, response.ToDo)
	assert.Equal(t, 1, response.Done)
	assert.Equal(t, 1, response.Urgent)
	assert.Equal(t, 2, response.Total)
	assert.Equal(t, "2099-01-31", response.NextDeadline)
	assert.Equal(t, "Anna Berg", response.UserName)
	assert.Contains(t, []string{"Good morning", "Good day", "Good evening"}, response.Greeting)
}

func TestBoardHandler_GetSummaryUnknownUser(t *testing.T) {
	env := newTestEnv(t, kvstore.NewMemoryStore(), nil)
	handler := NewBoardHandler(env.boardService)

	c, w := createAuthContext("GET", "/api/summary", nil, 42)
	handler.GetSummary(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
