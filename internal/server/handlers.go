package server

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/verlic4/To-Do-List---your-reminder-todo/internal/models"
	"github.com/verlic4/To-Do-List---your-reminder-todo/internal/service"
)

// TaskService is the business API the handlers call.
type TaskService interface {
	CreateTask(ctx context.Context, in *models.CreateTaskInput) (*models.Task, error)
	GetTask(ctx context.Context, id int64) (*models.Task, error)
	ListTasks(ctx context.Context, filter models.ListFilter) ([]*models.Task, error)
	UpdateTask(ctx context.Context, id int64, in *models.UpdateTaskInput) (*models.Task, error)
	DeleteTask(ctx context.Context, id int64) (*models.Task, error)
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// DeleteResponse is returned by a successful delete.
type DeleteResponse struct {
	Message string       `json:"message"`
	Task    *models.Task `json:"task"`
}

// HealthResponse is returned by /health.
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

const healthCheckTimeout = 2 * time.Second

var errInvalidBody = status.Error(codes.InvalidArgument, "Invalid request body")

// TaskHandlers serves the task routes.
type TaskHandlers struct {
	tasks TaskService
}

func NewTaskHandlers(tasks TaskService) *TaskHandlers {
	return &TaskHandlers{tasks: tasks}
}

// List handles GET /tasks.
func (h *TaskHandlers) List(c *fiber.Ctx) error {
	filter := models.NewListFilter(c.Query("status"), c.Query("sortBy"), c.Query("orderBy"))

	tasks, err := h.tasks.ListTasks(c.UserContext(), filter)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(tasks)
}

// Create handles POST /tasks.
func (h *TaskHandlers) Create(c *fiber.Ctx) error {
	var in models.CreateTaskInput
	if err := c.BodyParser(&in); err != nil {
		return writeError(c, errInvalidBody)
	}

	task, err := h.tasks.CreateTask(c.UserContext(), &in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(task)
}

// Get handles GET /tasks/:id.
func (h *TaskHandlers) Get(c *fiber.Ctx) error {
	id, err := service.ParseTaskID(c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}

	task, err := h.tasks.GetTask(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(task)
}

// Update handles PUT /tasks/:id. Only title, description and status are applied.
func (h *TaskHandlers) Update(c *fiber.Ctx) error {
	id, err := service.ParseTaskID(c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}

	var in models.UpdateTaskInput
	if err := c.BodyParser(&in); err != nil {
		return writeError(c, errInvalidBody)
	}

	task, err := h.tasks.UpdateTask(c.UserContext(), id, &in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(task)
}

// Delete handles DELETE /tasks/:id.
func (h *TaskHandlers) Delete(c *fiber.Ctx) error {
	id, err := service.ParseTaskID(c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}

	task, err := h.tasks.DeleteTask(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(DeleteResponse{Message: "Task deleted", Task: task})
}

func healthHandler(db Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), healthCheckTimeout)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(HealthResponse{
				Status:   "unavailable",
				Database: "unreachable",
			})
		}
		return c.JSON(HealthResponse{Status: "ok", Database: "ok"})
	}
}
