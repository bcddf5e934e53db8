package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yukikurage/join-board/internal/constants"
	"github.com/yukikurage/join-board/internal/logger"
	"github.com/yukikurage/join-board/internal/models"
	"github.com/yukikurage/join-board/internal/repository"
)

var (
	ErrTaskNotFound           = errors.New("task not found")
	ErrSubtaskNotFound        = errors.New("subtask not found")
	ErrTitleRequired          = errors.New("title is required")
	ErrInvalidStatus          = errors.New("invalid task status")
	ErrInvalidPriority        = errors.New("invalid task priority")
	ErrUnknownAssignee        = errors.New("one or more assignees are not in the contact list")
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoTasksGenerated     = errors.New("AI did not generate any tasks")
	ErrAINoValidTasks         = errors.New("no valid tasks could be created from AI output")
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo    repository.TaskRepository
	contactRepo repository.ContactRepository
	aiService   *AIService
	log         *logger.Logger
	now         func() time.Time
}

// NewTaskService creates a new TaskService. aiService may be nil.
func NewTaskService(taskRepo repository.TaskRepository, contactRepo repository.ContactRepository, aiService *AIService, log *logger.Logger) *TaskService {
	if log == nil {
		log = logger.Nop()
	}
	return &TaskService{
		taskRepo:    taskRepo,
		contactRepo: contactRepo,
		aiService:   aiService,
		log:         log.WithComponent("tasks"),
		now:         time.Now,
	}
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	UserID   uint64
	Query    string
	Status   *models.TaskStatus
	Page     int
	PageSize int
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string `validate:"required"`
	Description string
	Category    string `validate:"max=64"`
	Priority    models.Priority
	Status      models.TaskStatus
	DueDate     string `validate:"omitempty,datetime=2006-01-02"`
	AssigneeIDs []string
	Subtasks    []string
}

// SubtaskInput is one subtask in an update. An empty ID creates a new subtask.
type SubtaskInput struct {
	ID    string
	Title string
	Done  bool
}

// UpdateTaskInput represents input for updating a task. The status is changed only by MoveTask.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Category    *string `validate:"omitempty,max=64"`
	Priority    *models.Priority
	DueDate     *string `validate:"omitempty,datetime=2006-01-02"`
	AssigneeIDs *[]string
	Subtasks    *[]SubtaskInput
}

// ListTasks returns the user's tasks matching the filter
func (s *TaskService) ListTasks(ctx context.Context, input ListTasksInput) ([]models.Task, int64, error) {
	if input.Status != nil && !input.Status.Valid() {
		return nil, 0, ErrInvalidStatus
	}

	tasks, total, err := s.taskRepo.List(ctx, input.UserID, repository.TaskFilter{
		Query:    input.Query,
		Status:   input.Status,
		Page:     input.Page,
		PageSize: input.PageSize,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// GetTask returns one task
func (s *TaskService) GetTask(ctx context.Context, userID uint64, taskID string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, userID, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// CreateTask creates a new task in the given column, "toDo" by default
func (s *TaskService) CreateTask(ctx context.Context, userID uint64, input CreateTaskInput) (*models.Task, error) {
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return nil, ErrTitleRequired
	}
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	if input.Status == "" {
		input.Status = models.TaskStatusToDo
	}
	if !input.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	if input.Priority == models.PriorityNone {
		input.Priority = models.PriorityMedium
	}
	if !input.Priority.Valid() {
		return nil, ErrInvalidPriority
	}

	assignees, err := s.resolveAssignees(ctx, userID, input.AssigneeIDs)
	if err != nil {
		return nil, err
	}

	subtasks := make([]models.Subtask, 0, len(input.Subtasks))
	for _, title := range input.Subtasks {
		if title = strings.TrimSpace(title); title != "" {
			subtasks = append(subtasks, models.Subtask{ID: uuid.NewString(), Title: title})
		}
	}

	task := &models.Task{
		ID:          uuid.NewString(),
		Title:       input.Title,
		Description: input.Description,
		Category:    strings.TrimSpace(input.Category),
		Priority:    input.Priority,
		Status:      input.Status,
		DueDate:     input.DueDate,
		Assignees:   assignees,
		Subtasks:    subtasks,
		CreatedAt:   s.now().UTC(),
	}

	if err := s.taskRepo.Create(ctx, userID, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// UpdateTask updates an existing task. The task keeps its column.
func (s *TaskService) UpdateTask(ctx context.Context, userID uint64, taskID string, input UpdateTaskInput) (*models.Task, error) {
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		input.Title = &title
	}
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	if input.Priority != nil && !input.Priority.Valid() {
		return nil, ErrInvalidPriority
	}

	var assignees []models.Assignee
	if input.AssigneeIDs != nil {
		var err error
		if assignees, err = s.resolveAssignees(ctx, userID, *input.AssigneeIDs); err != nil {
			return nil, err
		}
	}

	task, err := s.taskRepo.Update(ctx, userID, taskID, func(t *models.Task) error {
		if input.Title != nil {
			t.Title = *input.Title
		}
		if input.Description != nil {
			t.Description = *input.Description
		}
		if input.Category != nil {
			t.Category = strings.TrimSpace(*input.Category)
		}
		if input.Priority != nil {
			t.Priority = *input.Priority
		}
		if input.DueDate != nil {
			t.DueDate = *input.DueDate
		}
		if input.AssigneeIDs != nil {
			t.Assignees = assignees
		}
		if input.Subtasks != nil {
			t.Subtasks = mergeSubtasks(*input.Subtasks)
		}
		return nil
	})
	if err != nil {
		return nil, s.mapTaskError("update", err)
	}

	return task, nil
}

// DeleteTask deletes a task
func (s *TaskService) DeleteTask(ctx context.Context, userID uint64, taskID string) error {
	if err := s.taskRepo.Delete(ctx, userID, taskID); err != nil {
		return s.mapTaskError("delete", err)
	}
	return nil
}

// MoveTask puts the task into another board column
func (s *TaskService) MoveTask(ctx context.Context, userID uint64, taskID string, status models.TaskStatus) (*models.Task, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	task, err := s.taskRepo.Update(ctx, userID, taskID, func(t *models.Task) error {
		t.Status = status
		return nil
	})
	if err != nil {
		return nil, s.mapTaskError("move", err)
	}

	s.log.Debugw("task moved", "user_id", userID, "task_id", taskID, "status", status)
	return task, nil
}

// ToggleSubtask flips the done flag of one subtask
func (s *TaskService) ToggleSubtask(ctx context.Context, userID uint64, taskID, subtaskID string) (*models.Task, error) {
	task, err := s.taskRepo.Update(ctx, userID, taskID, func(t *models.Task) error {
		st := t.FindSubtask(subtaskID)
		if st == nil {
			return ErrSubtaskNotFound
		}
		st.Done = !st.Done
		return nil
	})
	if err != nil {
		return nil, s.mapTaskError("toggle subtask of", err)
	}
	return task, nil
}

// GenerateTasksInput represents input for AI task generation
type GenerateTasksInput struct {
	Text string
}

// GenerateTasks uses AI to suggest tasks from free text. Nothing is stored.
func (s *TaskService) GenerateTasks(ctx context.Context, input GenerateTasksInput) ([]GeneratedTask, error) {
	if s.aiService == nil {
		return nil, ErrAIServiceNotConfigured
	}

	aiTasks, err := s.aiService.GenerateTasksFromText(ctx, input.Text)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tasks: %w", err)
	}

	if len(aiTasks) == 0 {
		return nil, ErrAINoTasksGenerated
	}
	if len(aiTasks) > constants.MaxAIGeneratedTasks {
		return nil, fmt.Errorf("AI generated too many tasks (max %d)", constants.MaxAIGeneratedTasks)
	}

	validTasks := make([]GeneratedTask, 0, len(aiTasks))
	today := s.now().Format(models.DueDateLayout)
	for _, aiTask := range aiTasks {
		if strings.TrimSpace(aiTask.Title) == "" {
			continue
		}

		if _, err := time.Parse(models.DueDateLayout, aiTask.DueDate); err != nil || aiTask.DueDate < today {
			aiTask.DueDate = ""
		}
		if p := models.Priority(aiTask.Priority); p == models.PriorityNone || !p.Valid() {
			aiTask.Priority = string(models.PriorityMedium)
		}
		if aiTask.Category == "" {
			aiTask.Category = models.CategoryTechnicalTask
		}

		validTasks = append(validTasks, aiTask)
	}

	if len(validTasks) == 0 {
		return nil, ErrAINoValidTasks
	}

	return validTasks, nil
}

func (s *TaskService) resolveAssignees(ctx context.Context, userID uint64, contactIDs []string) ([]models.Assignee, error) {
	assignees := make([]models.Assignee, 0, len(contactIDs))
	if len(contactIDs) == 0 {
		return assignees, nil
	}

	contacts, err := s.contactRepo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load contacts: %w", err)
	}
	byID := make(map[string]models.Contact, len(contacts))
	for _, c := range contacts {
		byID[c.ID] = c
	}

	seen := make(map[string]bool, len(contactIDs))
	for _, id := range contactIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		c, ok := byID[id]
		if !ok {
			return nil, ErrUnknownAssignee
		}
		assignees = append(assignees, models.Assignee{ContactID: c.ID, Name: c.Name, Color: c.Color})
	}
	return assignees, nil
}

func mergeSubtasks(inputs []SubtaskInput) []models.Subtask {
	subtasks := make([]models.Subtask, 0, len(inputs))
	for _, in := range inputs {
		title := strings.TrimSpace(in.Title)
		if title == "" {
			continue
		}
		id := in.ID
		if id == "" {
			id = uuid.NewString()
		}
		subtasks = append(subtasks, models.Subtask{ID: id, Title: title, Done: in.Done})
	}
	return subtasks
}

func (s *TaskService) mapTaskError(action string, err error) error {
	switch {
	case errors.Is(err, repository.ErrTaskNotFound):
		return ErrTaskNotFound
	case errors.Is(err, ErrSubtaskNotFound):
		return ErrSubtaskNotFound
	default:
		return fmt.Errorf("failed to %s task: %w", action, err)
	}
}
