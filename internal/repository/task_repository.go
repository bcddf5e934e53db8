package repository

import (
	"context"
	"errors"

	"github.com/yukikurage/join-board/internal/models"
)

// DocumentTaskRepository is a TaskRepository over the user database document
type DocumentTaskRepository struct {
	db UserDatabaseRepository
}

// ErrTaskNotFound is returned when the user has no task with the requested ID.
var ErrTaskNotFound = errors.New("task repository: task not found")

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db UserDatabaseRepository) TaskRepository {
	return &DocumentTaskRepository{db: db}
}

// Create appends a task to the user's list
func (r *DocumentTaskRepository) Create(ctx context.Context, userID uint64, task *models.Task) error {
	_, err := r.db.Update(ctx, func(db *models.UserDatabase) error {
		user := db.FindByID(userID)
		if user == nil {
			return ErrUserNotFound
		}
		user.Tasks = append(user.Tasks, *task)
		return nil
	})
	return err
}

// FindByID finds a task by ID
func (r *DocumentTaskRepository) FindByID(ctx context.Context, userID uint64, taskID string) (*models.Task, error) {
	db, err := r.db.Load(ctx)
	if err != nil {
		return nil, err
	}
	user := db.FindByID(userID)
	if user == nil {
		return nil, ErrUserNotFound
	}
	_, task := user.FindTask(taskID)
	if task == nil {
		return nil, ErrTaskNotFound
	}
	return task, nil
}

// List retrieves tasks with filtering and pagination, in stored order
func (r *DocumentTaskRepository) List(ctx context.Context, userID uint64, filter TaskFilter) ([]models.Task, int64, error) {
	db, err := r.db.Load(ctx)
	if err != nil {
		return nil, 0, err
	}
	user := db.FindByID(userID)
	if user == nil {
		return nil, 0, ErrUserNotFound
	}

	tasks := make([]models.Task, 0, len(user.Tasks))
	for _, task := range user.Tasks {
		if filter.Status != nil && task.Status != *filter.Status {
			continue
		}
		if !task.Matches(filter.Query) {
			continue
		}
		tasks = append(tasks, task)
	}

	total := int64(len(tasks))
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		if offset >= len(tasks) {
			return []models.Task{}, total, nil
		}
		end := offset + filter.PageSize
		if end > len(tasks) {
			end = len(tasks)
		}
		tasks = tasks[offset:end]
	}

	return tasks, total, nil
}

// Update applies fn to the stored task
func (r *DocumentTaskRepository) Update(ctx context.Context, userID uint64, taskID string, fn func(task *models.Task) error) (*models.Task, error) {
	var updated models.Task
	_, err := r.db.Update(ctx, func(db *models.UserDatabase) error {
		user := db.FindByID(userID)
		if user == nil {
			return ErrUserNotFound
		}
		_, task := user.FindTask(taskID)
		if task == nil {
			return ErrTaskNotFound
		}
		if err := fn(task); err != nil {
			return err
		}
		updated = *task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a task
func (r *DocumentTaskRepository) Delete(ctx context.Context, userID uint64, taskID string) error {
	_, err := r.db.Update(ctx, func(db *models.UserDatabase) error {
		user := db.FindByID(userID)
		if user == nil {
			return ErrUserNotFound
		}
		i, _ := user.FindTask(taskID)
		if i < 0 {
			return ErrTaskNotFound
		}
		user.Tasks = append(user.Tasks[:i], user.Tasks[i+1:]...)
		return nil
	})
	return err
}
