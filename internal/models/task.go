package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

type TaskStatus string

// Task status constants
const (
	TaskStatusPending   TaskStatus = "PENDING"
	TaskStatusCompleted TaskStatus = "COMPLETED"
)

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	return s == TaskStatusPending || s == TaskStatusCompleted
}

// Sort fields accepted by the list endpoint, keyed by their API name.
const (
	SortByCreatedAt = "createdAt"
	SortByUpdatedAt = "updatedAt"
	SortByTitle     = "title"

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// Task is the stored record. Column names are snake_case, JSON names follow the public API.
type Task struct {
	ID          int64      `db:"id" json:"id"`
	Title       string     `db:"title" json:"title"`
	Description *string    `db:"description" json:"description"`
	Status      TaskStatus `db:"status" json:"status"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`
	DeletedAt   *time.Time `db:"deleted_at" json:"deleted_at"`
}

// IsDeleted reports whether the task has been soft-deleted.
func (t *Task) IsDeleted() bool {
	return t.DeletedAt != nil
}

type CreateTaskInput struct {
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Status      TaskStatus `json:"status,omitempty"`
}

// UpdateTaskInput carries the writable fields of an update. A nil pointer means
// the field was absent from the request body.
type UpdateTaskInput struct {
	Title       *string     `json:"title,omitempty"`
	Description *string     `json:"description,omitempty"`
	Status      *TaskStatus `json:"status,omitempty"`

	// ClearDescription is set when the body carried "description": null.
	ClearDescription bool `json:"-"`
}

// UnmarshalJSON decodes an update body. Only title, description and status are
// writable; other keys (id, createdAt, updatedAt, deleted_at) are ignored.
func (in *UpdateTaskInput) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return fmt.Errorf("update body must be a JSON object")
	}

	*in = UpdateTaskInput{}

	if v, ok := raw["title"]; ok {
		if isNull(v) {
			return fmt.Errorf("title cannot be null")
		}
		var title string
		if err := json.Unmarshal(v, &title); err != nil {
			return fmt.Errorf("title must be a string")
		}
		in.Title = &title
	}

	if v, ok := raw["description"]; ok {
		if isNull(v) {
			in.ClearDescription = true
		} else {
			var desc string
			if err := json.Unmarshal(v, &desc); err != nil {
				return fmt.Errorf("description must be a string")
			}
			in.Description = &desc
		}
	}

	if v, ok := raw["status"]; ok {
		if isNull(v) {
			return fmt.Errorf("status cannot be null")
		}
		var status TaskStatus
		if err := json.Unmarshal(v, &status); err != nil {
			return fmt.Errorf("status must be a string")
		}
		in.Status = &status
	}

	return nil
}

// Empty reports whether the update carries no field changes.
func (in *UpdateTaskInput) Empty() bool {
	return in.Title == nil && in.Description == nil && in.Status == nil && !in.ClearDescription
}

func isNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

// ListFilter selects and orders non-deleted tasks.
type ListFilter struct {
	Status    *TaskStatus
	SortBy    string
	SortOrder string
}

// NewListFilter builds a filter from raw query values. Unknown statuses are
// ignored, unknown sort fields fall back to createdAt and unknown orders to desc.
func NewListFilter(status, sortBy, orderBy string) ListFilter {
	f := ListFilter{
		SortBy:    SortByCreatedAt,
		SortOrder: OrderDesc,
	}

	if s := TaskStatus(status); s.Valid() {
		f.Status = &s
	}

	switch sortBy {
	case SortByCreatedAt, SortByUpdatedAt, SortByTitle:
		f.SortBy = sortBy
	}

	if orderBy == OrderAsc {
		f.SortOrder = OrderAsc
	}

	return f
}
