package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verlic4/To-Do-List---your-reminder-todo/internal/database"
	"github.com/verlic4/To-Do-List---your-reminder-todo/internal/logging"
	"github.com/verlic4/To-Do-List---your-reminder-todo/internal/models"
	"github.com/verlic4/To-Do-List---your-reminder-todo/internal/repository"
	"github.com/verlic4/To-Do-List---your-reminder-todo/internal/server"
	"github.com/verlic4/To-Do-List---your-reminder-todo/internal/service"
)

func setupTestClient(t *testing.T) *Client {
	t.Helper()

	db, err := database.Open(database.Config{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate(context.Background()))

	repo := repository.NewTaskRepository(db)
	svc := service.NewTaskService(repo, service.DefaultValidationConfig(), logging.Discard(), nil)
	srv := server.New(server.Config{Logger: logging.Discard()}, svc, repo)

	ts := httptest.NewServer(adaptor.FiberApp(srv.App()))
	t.Cleanup(ts.Close)

	return New(ts.URL+"/", ts.Client())
}

func strPtr(s string) *string { return &s }

func TestClient_Lifecycle(t *testing.T) {
	c := setupTestClient(t)
	ctx := context.Background()

	created, err := c.Create(ctx, &models.CreateTaskInput{Title: "Write report", Description: strPtr("Q3")})
	require.NoError(t, err)
	assert.Equal(t, "Write report", created.Title)
	assert.Equal(t, models.TaskStatusPending, created.Status)

	got, err := c.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	completed := models.TaskStatusCompleted
	updated, err := c.Update(ctx, created.ID, &models.UpdateTaskInput{Status: &completed})
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusCompleted, updated.Status)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "Q3", *updated.Description)

	tasks, err := c.List(ctx, ListOptions{Status: "COMPLETED"})
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	tasks, err = c.List(ctx, ListOptions{Status: "PENDING"})
	require.NoError(t, err)
	assert.Empty(t, tasks)

	deleted, err := c.Delete(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, deleted)
	assert.NotNil(t, deleted.DeletedAt)

	_, err = c.Get(ctx, created.ID)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Task not found", apiErr.Message)
}

func TestClient_ValidationError(t *testing.T) {
	c := setupTestClient(t)

	_, err := c.Create(context.Background(), &models.CreateTaskInput{Title: "   "})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Title is required and cannot be empty", apiErr.Message)
	assert.Contains(t, apiErr.Error(), "400")
}

func TestClient_ClearDescription(t *testing.T) {
	c := setupTestClient(t)
	ctx := context.Background()

	created, err := c.Create(ctx, &models.CreateTaskInput{Title: "t", Description: strPtr("remove me")})
	require.NoError(t, err)

	updated, err := c.Update(ctx, created.ID, &models.UpdateTaskInput{Description: strPtr("")})
	require.NoError(t, err)
	assert.Nil(t, updated.Description)
}

func TestClient_NonJSONError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gateway down", http.StatusBadGateway)
	}))
	defer ts.Close()

	_, err := New(ts.URL, nil).List(context.Background(), ListOptions{})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "Bad Gateway", apiErr.Message)
}
