package models

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const legacyDocument = `[
  {
    "id": 0,
    "name": "Anna Berg",
    "email": "anna@example.com",
    "password": "Secret123",
    "contacts": [
      {"name": "Tom Lee", "email": "tom@example.com", "phone": "123", "bgrColor": "#FF7A00"}
    ],
    "tasks": [
      {
        "id": 3,
        "title": "Write docs",
        "description": "",
        "category": "User Story",
        "prio": "high",
        "dueDate": "2024-05-01",
        "assignto": ["Tom Lee"],
        "assigntoID": [0],
        "assigntoColor": ["#FF7A00"],
        "subtask": ["outline", "draft"],
        "subtaskStatus": [true]
      }
    ]
  }
]`

func TestUserDatabase_DecodesLegacyLayout(t *testing.T) {
	var db UserDatabase
	require.NoError(t, json.Unmarshal([]byte(legacyDocument), &db))
	require.Len(t, db.Users, 1)

	user := db.Users[0]
	assert.Equal(t, "Secret123", user.LegacyPassword)
	require.Len(t, user.Contacts, 1)
	assert.Equal(t, "#FF7A00", user.Contacts[0].Color)
	_, err := uuid.Parse(user.Contacts[0].ID)
	assert.NoError(t, err)

	require.Len(t, user.Tasks, 1)
	task := user.Tasks[0]
	_, err = uuid.Parse(task.ID)
	assert.NoError(t, err)
	assert.Equal(t, TaskStatusToDo, task.Status)
	assert.Equal(t, PriorityHigh, task.Priority)

	require.Len(t, task.Assignees, 1)
	assert.Equal(t, user.Contacts[0].ID, task.Assignees[0].ContactID, "assignee relinked by name")
	assert.Equal(t, "#FF7A00", task.Assignees[0].Color)

	require.Len(t, task.Subtasks, 2)
	assert.True(t, task.Subtasks[0].Done)
	assert.False(t, task.Subtasks[1].Done, "missing status entries default to open")
	assert.NotEmpty(t, task.Subtasks[1].ID)

	assert.True(t, db.Migrated())
}

func TestUserDatabase_RoundTripKeepsIdentity(t *testing.T) {
	var db UserDatabase
	require.NoError(t, json.Unmarshal([]byte(legacyDocument), &db))
	taskID := db.Users[0].Tasks[0].ID

	data, err := json.Marshal(db)
	require.NoError(t, err)

	var again UserDatabase
	require.NoError(t, json.Unmarshal(data, &again))
	assert.Equal(t, taskID, again.Users[0].Tasks[0].ID)
	assert.False(t, again.Migrated())
}

func TestUserDatabase_EmptyMarshalsAsArray(t *testing.T) {
	data, err := json.Marshal(UserDatabase{})
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}

func TestUserDatabase_Lookup(t *testing.T) {
	db := UserDatabase{}
	db.Add(User{ID: 4, Email: "A@Example.com"})
	db.Add(User{ID: 9, Email: "b@example.com"})

	assert.Equal(t, uint64(10), db.NextUserID())
	assert.NotNil(t, db.FindByEmail("a@example.com"))
	assert.Nil(t, db.FindByEmail("c@example.com"))
	assert.Equal(t, "b@example.com", db.FindByID(9).Email)
}

func TestTask_MatchesAndProgress(t *testing.T) {
	task := Task{
		Title:       "Fix Login",
		Description: "session cookie expires",
		Subtasks:    []Subtask{{Done: true}, {Done: false}, {Done: true}},
	}

	assert.True(t, task.Matches("login"))
	assert.True(t, task.Matches("COOKIE"))
	assert.True(t, task.Matches(""))
	assert.False(t, task.Matches("board"))

	done, total := task.SubtaskProgress()
	assert.Equal(t, 2, done)
	assert.Equal(t, 3, total)
}

func TestTaskStatus_Valid(t *testing.T) {
	assert.True(t, TaskStatusFeedback.Valid())
	assert.False(t, TaskStatus("TODO").Valid())
	assert.True(t, PriorityNone.Valid())
	assert.False(t, Priority("urgent").Valid())
}
