package service

import "context"

// Service is the task store facade.
// Commands and the HTTP front end only talk to this interface; they never
// import a backend directly.
//
// Absence and no-op are not errors: the in-memory backend never returns a
// non-nil error. Remote backends return errors for transport failures only.
type Service interface {
	// ListTasks returns every task in store order. No filtering, no paging.
	ListTasks(ctx context.Context) ([]Task, error)

	// GetTask returns the task with the given id.
	// ok is false when no task matches.
	GetTask(ctx context.Context, id int) (task Task, ok bool, err error)

	// AddTask stores a new task, assigning its id, and returns the stored task.
	// An empty status is stored as todo. Title and description are not validated.
	AddTask(ctx context.Context, task NewTask) (Task, error)

	// UpdateTask replaces the task with the same id in place.
	// Unknown ids are a silent no-op. The input is returned either way.
	UpdateTask(ctx context.Context, task Task) (Task, error)

	// DeleteTask removes the task with the given id.
	// Unknown ids are a silent no-op.
	DeleteTask(ctx context.Context, id int) error
}
