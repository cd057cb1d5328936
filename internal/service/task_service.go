// internal/service/task_service.go
package service

import (
	"context"
	"errors"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/verlic4/To-Do-List---your-reminder-todo/internal/metrics"
	"github.com/verlic4/To-Do-List---your-reminder-todo/internal/models"
	"github.com/verlic4/To-Do-List---your-reminder-todo/internal/repository"
)

// TaskStore is the persistence the service needs. *repository.TaskRepository implements it.
type TaskStore interface {
	Create(ctx context.Context, in *models.CreateTaskInput) (*models.Task, error)
	GetByID(ctx context.Context, id int64) (*models.Task, error)
	List(ctx context.Context, filter models.ListFilter) ([]*models.Task, error)
	Update(ctx context.Context, id int64, in *models.UpdateTaskInput) (*models.Task, error)
	SoftDelete(ctx context.Context, id int64) (*models.Task, error)
}

const errTaskNotFound = "Task not found"

type TaskService struct {
	repo       TaskStore
	validation ValidationConfig
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

func NewTaskService(repo TaskStore, validation ValidationConfig, logger *slog.Logger, m *metrics.Metrics) *TaskService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskService{
		repo:       repo,
		validation: validation,
		logger:     logger,
		metrics:    m,
	}
}

// CreateTask validates and persists a new task
func (s *TaskService) CreateTask(ctx context.Context, in *models.CreateTaskInput) (*models.Task, error) {
	input, err := s.validation.normalizeCreate(in)
	if err != nil {
		return nil, s.observe("create", err)
	}

	task, err := s.repo.Create(ctx, input)
	if err != nil {
		return nil, s.observe("create", s.internal(ctx, "Failed to create task", err))
	}

	s.logger.DebugContext(ctx, "task created", "task_id", task.ID)
	return task, s.observe("create", nil)
}

// GetTask retrieves a live task by ID
func (s *TaskService) GetTask(ctx context.Context, id int64) (*models.Task, error) {
	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, s.observe("get", status.Error(codes.NotFound, errTaskNotFound))
		}
		return nil, s.observe("get", s.internal(ctx, "Failed to fetch task", err))
	}

	if task.IsDeleted() {
		return nil, s.observe("get", status.Error(codes.NotFound, errTaskNotFound))
	}

	return task, s.observe("get", nil)
}

// ListTasks retrieves live tasks matching the filter
func (s *TaskService) ListTasks(ctx context.Context, filter models.ListFilter) ([]*models.Task, error) {
	tasks, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, s.observe("list", s.internal(ctx, "Failed to fetch tasks", err))
	}
	if tasks == nil {
		tasks = []*models.Task{}
	}
	return tasks, s.observe("list", nil)
}

// UpdateTask overwrites the fields present in the input
func (s *TaskService) UpdateTask(ctx context.Context, id int64, in *models.UpdateTaskInput) (*models.Task, error) {
	input, err := s.validation.normalizeUpdate(in)
	if err != nil {
		return nil, s.observe("update", err)
	}

	task, err := s.repo.Update(ctx, id, input)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, s.observe("update", status.Error(codes.NotFound, errTaskNotFound))
		}
		return nil, s.observe("update", s.internal(ctx, "Failed to update task", err))
	}

	s.logger.DebugContext(ctx, "task updated", "task_id", task.ID)
	return task, s.observe("update", nil)
}

// DeleteTask soft-deletes a live task and returns the stamped record
func (s *TaskService) DeleteTask(ctx context.Context, id int64) (*models.Task, error) {
	task, err := s.repo.SoftDelete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, s.observe("delete", status.Error(codes.NotFound, errTaskNotFound))
		}
		return nil, s.observe("delete", s.internal(ctx, "Failed to delete task", err))
	}

	s.logger.InfoContext(ctx, "task deleted", "task_id", task.ID)
	return task, s.observe("delete", nil)
}

// internal logs the cause and hides it behind a generic message.
func (s *TaskService) internal(ctx context.Context, msg string, cause error) error {
	s.logger.ErrorContext(ctx, msg, "error", cause)
	return status.Error(codes.Internal, msg)
}

func (s *TaskService) observe(operation string, err error) error {
	result := "ok"
	switch status.Code(err) {
	case codes.OK:
	case codes.InvalidArgument:
		result = "invalid"
	case codes.NotFound:
		result = "not_found"
	default:
		result = "error"
	}
	s.metrics.ObserveTaskOperation(operation, result)
	return err
}
