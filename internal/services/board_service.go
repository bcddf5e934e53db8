package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yukikurage/join-board/internal/models"
	"github.com/yukikurage/join-board/internal/repository"
)

// BoardService builds the board and summary views.
type BoardService struct {
	taskRepo   repository.TaskRepository
	userRepo   repository.UserRepository
	guestEmail string
	now        func() time.Time
}

// NewBoardService creates a new BoardService.
func NewBoardService(taskRepo repository.TaskRepository, userRepo repository.UserRepository, guestEmail string) *BoardService {
	return &BoardService{
		taskRepo:   taskRepo,
		userRepo:   userRepo,
		guestEmail: guestEmail,
		now:        time.Now,
	}
}

// BoardColumn is one status column with its cards in stored order.
type BoardColumn struct {
	Status models.TaskStatus
	Tasks  []models.Task
}

// Summary holds the counters shown on the summary page.
type Summary struct {
	Counts       map[models.TaskStatus]int
	Urgent       int
	Total        int
	NextDeadline string
	Greeting     string
	UserName     string
}

// Board returns the four columns in display order. A non-empty query keeps only
// matching cards.
func (s *BoardService) Board(ctx context.Context, userID uint64, query string) ([]BoardColumn, error) {
	tasks, _, err := s.taskRepo.List(ctx, userID, repository.TaskFilter{Query: query})
	if err != nil {
		return nil, fmt.Errorf("failed to load board: %w", err)
	}

	columns := make([]BoardColumn, len(models.BoardColumns))
	index := make(map[models.TaskStatus]int, len(models.BoardColumns))
	for i, status := range models.BoardColumns {
		columns[i] = BoardColumn{Status: status, Tasks: []models.Task{}}
		index[status] = i
	}
	for _, task := range tasks {
		if i, ok := index[task.Status]; ok {
			columns[i].Tasks = append(columns[i].Tasks, task)
		}
	}

	return columns, nil
}

// Summary counts the user's tasks and picks the greeting for the current hour.
func (s *BoardService) Summary(ctx context.Context, userID uint64) (*Summary, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load summary: %w", err)
	}

	now := s.now()
	today := now.Format(models.DueDateLayout)
	summary := &Summary{
		Counts:   make(map[models.TaskStatus]int, len(models.BoardColumns)),
		Total:    len(user.Tasks),
		Greeting: Greeting(now),
	}
	if !isGuest(user, s.guestEmail) {
		summary.UserName = user.Name
	}
	for _, status := range models.BoardColumns {
		summary.Counts[status] = 0
	}

	for _, task := range user.Tasks {
		summary.Counts[task.Status]++
		if task.Priority == models.PriorityHigh {
			summary.Urgent++
		}
		if task.Status == models.TaskStatusDone {
			continue
		}
		if _, ok := task.Due(); !ok || task.DueDate < today {
			continue
		}
		if summary.NextDeadline == "" || task.DueDate < summary.NextDeadline {
			summary.NextDeadline = task.DueDate
		}
	}

	return summary, nil
}

// Greeting returns the salutation for the hour of t.
func Greeting(t time.Time) string {
	switch h := t.Hour(); {
	case h >= 4 && h < 12:
		return "Good morning"
	case h >= 12 && h < 19:
		return "Good day"
	default:
		return "Good evening"
	}
}
