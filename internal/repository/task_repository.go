// internal/repository/task_repository.go
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/jmoiron/sqlx"

	"github.com/verlic4/To-Do-List---your-reminder-todo/internal/database"
	"github.com/verlic4/To-Do-List---your-reminder-todo/internal/models"
)

// ErrNotFound is returned when no live task matches the requested id.
var ErrNotFound = errors.New("task not found")

const tasksTable = "tasks"

var taskColumns = []string{
	"id", "title", "description", "status", "created_at", "updated_at", "deleted_at",
}

var sortColumns = map[string]string{
	models.SortByCreatedAt: "created_at",
	models.SortByUpdatedAt: "updated_at",
	models.SortByTitle:     "title",
}

type TaskRepository struct {
	db  *database.DB
	now func() time.Time
}

func NewTaskRepository(db *database.DB) *TaskRepository {
	return &TaskRepository{
		db:  db,
		now: time.Now,
	}
}

// WithClock replaces the timestamp source. Used by tests that need a
// deterministic ordering of created_at/updated_at.
func (r *TaskRepository) WithClock(now func() time.Time) *TaskRepository {
	r.now = now
	return r
}

func (r *TaskRepository) builder() *entsql.DialectBuilder {
	return entsql.Dialect(r.db.Dialect())
}

func (r *TaskRepository) timestamp() time.Time {
	return r.now().UTC().Truncate(time.Microsecond)
}

// Create inserts a task. The input is stored as given; trimming and defaults
// are the caller's job.
func (r *TaskRepository) Create(ctx context.Context, in *models.CreateTaskInput) (*models.Task, error) {
	now := r.timestamp()

	query, args := r.builder().
		Insert(tasksTable).
		Columns("title", "description", "status", "created_at", "updated_at").
		Values(in.Title, nullable(in.Description), string(in.Status), now, now).
		Returning("id").
		Query()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}

	var id int64
	if err := tx.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		return nil, rollback(tx, fmt.Errorf("insert task: %w", err))
	}

	task, err := r.getByID(ctx, tx, id)
	if err != nil {
		return nil, rollback(tx, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit insert: %w", err)
	}
	return task, nil
}

// GetByID returns the task with the given id, including soft-deleted ones.
func (r *TaskRepository) GetByID(ctx context.Context, id int64) (*models.Task, error) {
	return r.getByID(ctx, r.db, id)
}

func (r *TaskRepository) getByID(ctx context.Context, q sqlx.QueryerContext, id int64) (*models.Task, error) {
	b := r.builder()
	query, args := b.Select(taskColumns...).
		From(b.Table(tasksTable)).
		Where(entsql.EQ("id", id)).
		Query()

	var t models.Task
	err := sqlx.GetContext(ctx, q, &t, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get task %d: %w", id, err)
	}

	normalize(&t)
	return &t, nil
}

// List returns live tasks matching the filter. Soft-deleted rows are never returned.
func (r *TaskRepository) List(ctx context.Context, filter models.ListFilter) ([]*models.Task, error) {
	b := r.builder()
	sel := b.Select(taskColumns...).
		From(b.Table(tasksTable)).
		Where(entsql.IsNull("deleted_at"))

	if filter.Status != nil {
		sel = sel.Where(entsql.EQ("status", string(*filter.Status)))
	}

	column, ok := sortColumns[filter.SortBy]
	if !ok {
		column = sortColumns[models.SortByCreatedAt]
	}

	// id breaks ties so equal timestamps or titles come back in a stable order.
	if filter.SortOrder == models.OrderAsc {
		sel = sel.OrderBy(entsql.Asc(column), entsql.Asc("id"))
	} else {
		sel = sel.OrderBy(entsql.Desc(column), entsql.Desc("id"))
	}

	query, args := sel.Query()

	tasks := []*models.Task{}
	if err := r.db.SelectContext(ctx, &tasks, query, args...); err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}

	for _, t := range tasks {
		normalize(t)
	}
	return tasks, nil
}

// Update overwrites the fields present in the input on a live task and bumps updated_at.
func (r *TaskRepository) Update(ctx context.Context, id int64, input *models.UpdateTaskInput) (*models.Task, error) {
	return r.update(ctx, id, func(u *entsql.UpdateBuilder, _ time.Time) {
		if input.Title != nil {
			u.Set("title", *input.Title)
		}
		if input.ClearDescription {
			u.SetNull("description")
		} else if input.Description != nil {
			u.Set("description", *input.Description)
		}
		if input.Status != nil {
			u.Set("status", string(*input.Status))
		}
	})
}

// SoftDelete stamps deleted_at on a live task. The row stays in the table.
func (r *TaskRepository) SoftDelete(ctx context.Context, id int64) (*models.Task, error) {
	return r.update(ctx, id, func(u *entsql.UpdateBuilder, now time.Time) {
		u.Set("deleted_at", now)
	})
}

func (r *TaskRepository) update(ctx context.Context, id int64, apply func(*entsql.UpdateBuilder, time.Time)) (*models.Task, error) {
	now := r.timestamp()
	u := r.builder().
		Update(tasksTable).
		Set("updated_at", now)
	apply(u, now)
	query, args := u.
		Where(entsql.And(entsql.EQ("id", id), entsql.IsNull("deleted_at"))).
		Query()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, rollback(tx, fmt.Errorf("update task %d: %w", id, err))
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, rollback(tx, fmt.Errorf("rows affected: %w", err))
	}
	if affected == 0 {
		return nil, rollback(tx, ErrNotFound)
	}

	task, err := r.getByID(ctx, tx, id)
	if err != nil {
		return nil, rollback(tx, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update: %w", err)
	}
	return task, nil
}

// Ping checks that the database is reachable.
func (r *TaskRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Helper function for transaction rollback
func rollback(tx *sqlx.Tx, err error) error {
	if rerr := tx.Rollback(); rerr != nil {
		err = fmt.Errorf("%w: %v", err, rerr)
	}
	return err
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func normalize(t *models.Task) {
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	if t.DeletedAt != nil {
		deleted := t.DeletedAt.UTC()
		t.DeletedAt = &deleted
	}
}
