// Package testutil provides testing utilities.
package testutil

import (
	"context"

	"taskboard/internal/backend/memory"
	"taskboard/internal/service"
)

// FakeService is a service.Service backed by a real memory.Store, with
// per-operation error injection for exercising backend failure paths.
type FakeService struct {
	Store *memory.Store

	// Error injection for testing
	ListTasksErr  error
	GetTaskErr    error
	AddTaskErr    error
	UpdateTaskErr error
	DeleteTaskErr error

	// Calls counts facade calls by operation name.
	Calls map[string]int
}

// NewFakeService creates an empty FakeService.
func NewFakeService(opts ...memory.Option) *FakeService {
	return &FakeService{
		Store: memory.New(opts...),
		Calls: make(map[string]int),
	}
}

// NewSeededFakeService creates a FakeService holding the default seed tasks.
func NewSeededFakeService() *FakeService {
	return NewFakeService(memory.WithSeed(memory.DefaultSeed()))
}

// Seed adds a task directly, bypassing error injection and call counting.
func (f *FakeService) Seed(title, description string, status service.Status) service.Task {
	t, _ := f.Store.AddTask(context.Background(), service.NewTask{
		Title:       title,
		Description: description,
		Status:      status,
	})
	return t
}

// Tasks returns the current contents of the store.
func (f *FakeService) Tasks() []service.Task {
	tasks, _ := f.Store.ListTasks(context.Background())
	return tasks
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context) ([]service.Task, error) {
	f.Calls["list"]++
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	return f.Store.ListTasks(ctx)
}

// GetTask implements service.Service.
func (f *FakeService) GetTask(ctx context.Context, id int) (service.Task, bool, error) {
	f.Calls["get"]++
	if f.GetTaskErr != nil {
		return service.Task{}, false, f.GetTaskErr
	}
	return f.Store.GetTask(ctx, id)
}

// AddTask implements service.Service.
func (f *FakeService) AddTask(ctx context.Context, n service.NewTask) (service.Task, error) {
	f.Calls["add"]++
	if f.AddTaskErr != nil {
		return service.Task{}, f.AddTaskErr
	}
	return f.Store.AddTask(ctx, n)
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, t service.Task) (service.Task, error) {
	f.Calls["update"]++
	if f.UpdateTaskErr != nil {
		return service.Task{}, f.UpdateTaskErr
	}
	return f.Store.UpdateTask(ctx, t)
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id int) error {
	f.Calls["delete"]++
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	return f.Store.DeleteTask(ctx, id)
}
