package dto

import (
	"time"

	"github.com/yukikurage/join-board/internal/models"
	"github.com/yukikurage/join-board/internal/utils"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Initials string `json:"initials"`
	Guest    bool   `json:"guest"`
}

// AssigneeDTO represents a contact assigned to a task
type AssigneeDTO struct {
	ContactID string `json:"contactId"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	Initials  string `json:"initials"`
}

// SubtaskDTO represents one checklist entry
type SubtaskDTO struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Done  bool   `json:"done"`
}

// ProgressDTO is the subtask progress bar of a card
type ProgressDTO struct {
	Done    int `json:"done"`
	Total   int `json:"total"`
	Percent int `json:"percent"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Category    string            `json:"category"`
	Priority    models.Priority   `json:"priority"`
	Status      models.TaskStatus `json:"status"`
	DueDate     string            `json:"dueDate"`
	Assignees   []AssigneeDTO     `json:"assignees"`
	Subtasks    []SubtaskDTO      `json:"subtasks"`
	Progress    ProgressDTO       `json:"progress"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []TaskDTO                `json:"tasks"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// Conversion functions

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User, guest bool) UserDTO {
	return UserDTO{
		ID:       user.ID,
		Name:     user.Name,
		Email:    user.Email,
		Initials: utils.Initials(user.Name),
		Guest:    guest,
	}
}

// ToProgressDTO computes the progress of a task's subtasks. A task without
// subtasks reports zero percent.
func ToProgressDTO(task models.Task) ProgressDTO {
	done, total := task.SubtaskProgress()
	p := ProgressDTO{Done: done, Total: total}
	if total > 0 {
		p.Percent = done * 100 / total
	}
	return p
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Category:    task.Category,
		Priority:    task.Priority,
		Status:      task.Status,
		DueDate:     task.DueDate,
		Assignees:   make([]AssigneeDTO, len(task.Assignees)),
		Subtasks:    make([]SubtaskDTO, len(task.Subtasks)),
		Progress:    ToProgressDTO(task),
		CreatedAt:   task.CreatedAt,
	}

	for i, a := range task.Assignees {
		dto.Assignees[i] = AssigneeDTO{
			ContactID: a.ContactID,
			Name:      a.Name,
			Color:     a.Color,
			Initials:  utils.Initials(a.Name),
		}
	}
	for i, st := range task.Subtasks {
		dto.Subtasks[i] = SubtaskDTO{ID: st.ID, Title: st.Title, Done: st.Done}
	}

	return dto
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}
	return items
}

// ToTaskListResponse converts a page of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task, params utils.PaginationParams, total int64) TaskListResponse {
	return TaskListResponse{
		Tasks:      ToTaskDTOs(tasks),
		Pagination: utils.NewPaginationResponse(params, total),
	}
}
