package models

import (
	"strings"
	"time"
)

type TaskStatus string

const (
	TaskStatusToDo     TaskStatus = "toDo"
	TaskStatusProgress TaskStatus = "progress"
	TaskStatusFeedback TaskStatus = "feedback"
	TaskStatusDone     TaskStatus = "done"
)

// BoardColumns lists the board columns in display order.
var BoardColumns = []TaskStatus{
	TaskStatusToDo,
	TaskStatusProgress,
	TaskStatusFeedback,
	TaskStatusDone,
}

// Valid reports whether s names one of the board columns.
func (s TaskStatus) Valid() bool {
	for _, c := range BoardColumns {
		if c == s {
			return true
		}
	}
	return false
}

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
	PriorityNone   Priority = ""
)

// Valid reports whether p is a known priority. An empty priority is allowed.
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow, PriorityNone:
		return true
	}
	return false
}

// Well-known categories offered by the task form.
const (
	CategoryTechnicalTask = "Technical Task"
	CategoryUserStory     = "User Story"
)

// DueDateLayout is the format of Task.DueDate.
const DueDateLayout = "2006-01-02"

type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Priority    Priority   `json:"priority"`
	Status      TaskStatus `json:"status"`
	DueDate     string     `json:"dueDate"`
	Assignees   []Assignee `json:"assignees"`
	Subtasks    []Subtask  `json:"subtasks"`
	CreatedAt   time.Time  `json:"createdAt"`

	// migrated is set when decoding had to fill in identities or convert
	// the parallel-array layout.
	migrated bool
}

// Due parses DueDate. ok is false when the task has no parseable due date.
func (t Task) Due() (due time.Time, ok bool) {
	if t.DueDate == "" {
		return time.Time{}, false
	}
	d, err := time.Parse(DueDateLayout, t.DueDate)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// SubtaskProgress returns the number of completed subtasks and the total.
func (t Task) SubtaskProgress() (done, total int) {
	for _, st := range t.Subtasks {
		if st.Done {
			done++
		}
	}
	return done, len(t.Subtasks)
}

// FindSubtask returns the subtask with the given ID, or nil.
func (t *Task) FindSubtask(id string) *Subtask {
	for i := range t.Subtasks {
		if t.Subtasks[i].ID == id {
			return &t.Subtasks[i]
		}
	}
	return nil
}

// Matches reports whether the case-insensitive query occurs in the title or description.
func (t Task) Matches(query string) bool {
	q := strings.ToUpper(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToUpper(t.Title), q) ||
		strings.Contains(strings.ToUpper(t.Description), q)
}
