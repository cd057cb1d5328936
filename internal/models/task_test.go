package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewListFilter(t *testing.T) {
	completed := TaskStatusCompleted
	pending := TaskStatusPending

	tests := []struct {
		name    string
		status  string
		sortBy  string
		orderBy string
		want    ListFilter
	}{
		{
			name: "defaults",
			want: ListFilter{SortBy: SortByCreatedAt, SortOrder: OrderDesc},
		},
		{
			name:    "all valid",
			status:  "COMPLETED",
			sortBy:  "title",
			orderBy: "asc",
			want:    ListFilter{Status: &completed, SortBy: SortByTitle, SortOrder: OrderAsc},
		},
		{
			name:   "pending updatedAt",
			status: "PENDING",
			sortBy: "updatedAt",
			want:   ListFilter{Status: &pending, SortBy: SortByUpdatedAt, SortOrder: OrderDesc},
		},
		{
			name:    "lowercase status is ignored",
			status:  "completed",
			orderBy: "desc",
			want:    ListFilter{SortBy: SortByCreatedAt, SortOrder: OrderDesc},
		},
		{
			name:    "unknown sort field and order fall back",
			sortBy:  "priority",
			orderBy: "sideways",
			want:    ListFilter{SortBy: SortByCreatedAt, SortOrder: OrderDesc},
		},
		{
			name:   "snake case sort field is not accepted",
			sortBy: "created_at",
			want:   ListFilter{SortBy: SortByCreatedAt, SortOrder: OrderDesc},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewListFilter(tt.status, tt.sortBy, tt.orderBy)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUpdateTaskInput_UnmarshalJSON(t *testing.T) {
	t.Run("all fields", func(t *testing.T) {
		var in UpdateTaskInput
		err := json.Unmarshal([]byte(`{"title":"New","description":"Desc","status":"COMPLETED"}`), &in)
		require.NoError(t, err)

		require.NotNil(t, in.Title)
		assert.Equal(t, "New", *in.Title)
		require.NotNil(t, in.Description)
		assert.Equal(t, "Desc", *in.Description)
		require.NotNil(t, in.Status)
		assert.Equal(t, TaskStatusCompleted, *in.Status)
		assert.False(t, in.ClearDescription)
		assert.False(t, in.Empty())
	})

	t.Run("absent fields stay nil", func(t *testing.T) {
		var in UpdateTaskInput
		require.NoError(t, json.Unmarshal([]byte(`{"status":"PENDING"}`), &in))

		assert.Nil(t, in.Title)
		assert.Nil(t, in.Description)
		assert.False(t, in.ClearDescription)
	})

	t.Run("null description clears", func(t *testing.T) {
		var in UpdateTaskInput
		require.NoError(t, json.Unmarshal([]byte(`{"description":null}`), &in))

		assert.Nil(t, in.Description)
		assert.True(t, in.ClearDescription)
		assert.False(t, in.Empty())
	})

	t.Run("protected fields are ignored", func(t *testing.T) {
		var in UpdateTaskInput
		require.NoError(t, json.Unmarshal([]byte(`{"id":99,"deleted_at":null,"createdAt":"2020-01-01T00:00:00Z"}`), &in))

		assert.True(t, in.Empty())
	})

	t.Run("rejects bad shapes", func(t *testing.T) {
		bodies := []string{
			`[]`,
			`null`,
			`"text"`,
			`{"title":null}`,
			`{"title":42}`,
			`{"status":null}`,
			`{"status":true}`,
			`{"description":["a"]}`,
			`{`,
		}
		for _, body := range bodies {
			var in UpdateTaskInput
			assert.Error(t, json.Unmarshal([]byte(body), &in), body)
		}
	})
}

func TestTaskJSONShape(t *testing.T) {
	task := Task{ID: 7, Title: "Buy milk", Status: TaskStatusPending}

	data, err := json.Marshal(task)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, float64(7), decoded["id"])
	assert.Equal(t, "PENDING", decoded["status"])
	assert.Contains(t, decoded, "createdAt")
	assert.Contains(t, decoded, "updatedAt")
	assert.Contains(t, decoded, "deleted_at")
	assert.Nil(t, decoded["deleted_at"])
	assert.Contains(t, decoded, "description")
	assert.Nil(t, decoded["description"])
}

func TestTaskStatusValid(t *testing.T) {
	assert.True(t, TaskStatusPending.Valid())
	assert.True(t, TaskStatusCompleted.Valid())
	assert.False(t, TaskStatus("pending").Valid())
	assert.False(t, TaskStatus("").Valid())
}
