// internal/service/validation.go
package service

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/verlic4/To-Do-List---your-reminder-todo/internal/models"
)

// ValidationConfig holds validation configuration
type ValidationConfig struct {
	MaxTitleLength       int
	MaxDescriptionLength int
}

// DefaultValidationConfig returns default validation configuration
func DefaultValidationConfig() ValidationConfig {
	return ValidationConfig{
		MaxTitleLength:       255,
		MaxDescriptionLength: 1000,
	}
}

const errInvalidTaskID = "Invalid task ID"

// ParseTaskID converts a path segment to a task id. Anything that is not a
// base-10 integer is rejected with InvalidArgument.
func ParseTaskID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, status.Error(codes.InvalidArgument, errInvalidTaskID)
	}
	return id, nil
}

// validateTitle trims the title and checks it against the configured limit.
func (v ValidationConfig) validateTitle(raw string) (string, error) {
	title := strings.TrimSpace(raw)
	if title == "" {
		return "", status.Error(codes.InvalidArgument, "Title is required and cannot be empty")
	}
	if utf8.RuneCountInString(title) > v.MaxTitleLength {
		return "", status.Error(codes.InvalidArgument,
			fmt.Sprintf("Title must be %d characters or less", v.MaxTitleLength))
	}
	return title, nil
}

// validateDescription trims the description. An empty result is returned as nil.
func (v ValidationConfig) validateDescription(raw *string) (*string, error) {
	if raw == nil {
		return nil, nil
	}
	desc := strings.TrimSpace(*raw)
	if utf8.RuneCountInString(desc) > v.MaxDescriptionLength {
		return nil, status.Error(codes.InvalidArgument,
			fmt.Sprintf("Description must be %d characters or less", v.MaxDescriptionLength))
	}
	if desc == "" {
		return nil, nil
	}
	return &desc, nil
}

func validateStatus(s models.TaskStatus) error {
	if !s.Valid() {
		return status.Errorf(codes.InvalidArgument, "Status must be %s or %s",
			models.TaskStatusPending, models.TaskStatusCompleted)
	}
	return nil
}

// normalizeCreate applies the create rules and defaults, returning the input to persist.
func (v ValidationConfig) normalizeCreate(in *models.CreateTaskInput) (*models.CreateTaskInput, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "Request body is required")
	}

	title, err := v.validateTitle(in.Title)
	if err != nil {
		return nil, err
	}

	desc, err := v.validateDescription(in.Description)
	if err != nil {
		return nil, err
	}

	st := in.Status
	if st == "" {
		st = models.TaskStatusPending
	}
	if err := validateStatus(st); err != nil {
		return nil, err
	}

	return &models.CreateTaskInput{
		Title:       title,
		Description: desc,
		Status:      st,
	}, nil
}

// normalizeUpdate applies the create rules to whichever fields are present.
func (v ValidationConfig) normalizeUpdate(in *models.UpdateTaskInput) (*models.UpdateTaskInput, error) {
	if in == nil {
		return &models.UpdateTaskInput{}, nil
	}

	out := &models.UpdateTaskInput{ClearDescription: in.ClearDescription}

	if in.Title != nil {
		title, err := v.validateTitle(*in.Title)
		if err != nil {
			return nil, err
		}
		out.Title = &title
	}

	if in.Description != nil {
		desc, err := v.validateDescription(in.Description)
		if err != nil {
			return nil, err
		}
		if desc == nil {
			out.ClearDescription = true
		} else {
			out.Description = desc
		}
	}

	if in.Status != nil {
		if err := validateStatus(*in.Status); err != nil {
			return nil, err
		}
		st := *in.Status
		out.Status = &st
	}

	return out, nil
}
