// Package service defines the backend-agnostic interface for task operations.
package service

import (
	"errors"
	"fmt"
	"strings"
)

// Status is the workflow state of a task.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
)

// Statuses lists every valid status in display order.
var Statuses = []Status{StatusTodo, StatusInProgress, StatusDone}

// Presentation-layer validation errors. The store itself never returns these.
var (
	ErrEmptyTitle       = errors.New("title required")
	ErrEmptyDescription = errors.New("description required")
	ErrInvalidStatus    = errors.New("invalid status")
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

func (s Status) String() string { return string(s) }

// ParseStatus parses a status name, case-insensitive and trimmed.
// "in_progress" and "inprogress" are accepted as spellings of in-progress.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "todo":
		return StatusTodo, nil
	case "in-progress", "in_progress", "inprogress":
		return StatusInProgress, nil
	case "done":
		return StatusDone, nil
	}
	return "", fmt.Errorf("%w: %s", ErrInvalidStatus, s)
}

// Task is a stored task. ID is always assigned by the store.
type Task struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      Status `json:"status"`
}

// NewTask is the payload for creating a task. It has no ID on purpose.
type NewTask struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      Status `json:"status,omitempty"`
}

// Validate checks the create-form preconditions.
// An empty status is allowed and means todo.
func (n NewTask) Validate() error {
	if err := validateText(n.Title, n.Description); err != nil {
		return err
	}
	if n.Status != "" && !n.Status.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, n.Status)
	}
	return nil
}

// Validate checks the edit-form preconditions.
func (t Task) Validate() error {
	if err := validateText(t.Title, t.Description); err != nil {
		return err
	}
	if !t.Status.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, t.Status)
	}
	return nil
}

func validateText(title, description string) error {
	if strings.TrimSpace(title) == "" {
		return ErrEmptyTitle
	}
	if strings.TrimSpace(description) == "" {
		return ErrEmptyDescription
	}
	return nil
}
