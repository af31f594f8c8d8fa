// Package memory implements service.Service over an in-process slice.
package memory

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"taskboard/internal/logging"
	"taskboard/internal/service"
)

// IDPolicy selects how ids are assigned to new tasks.
type IDPolicy string

const (
	// PolicySequence assigns the highest id ever handed out plus one.
	// Ids are never reused.
	PolicySequence IDPolicy = "sequence"

	// PolicyCount assigns len(tasks)+1. After a deletion this can hand out
	// an id that is still in use.
	PolicyCount IDPolicy = "count"
)

// ParseIDPolicy parses a policy name. Empty means PolicySequence.
func ParseIDPolicy(s string) (IDPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(PolicySequence):
		return PolicySequence, nil
	case string(PolicyCount):
		return PolicyCount, nil
	}
	return "", fmt.Errorf("unknown id policy: %s", s)
}

// Store is an ordered, in-memory task collection.
//
// When duplicate ids exist (PolicyCount only), GetTask and UpdateTask act on
// the first match and DeleteTask removes every match.
type Store struct {
	mu     sync.RWMutex
	tasks  []service.Task
	lastID int
	policy IDPolicy
	log    *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithIDPolicy sets the id assignment policy.
func WithIDPolicy(p IDPolicy) Option {
	return func(s *Store) {
		if p != "" {
			s.policy = p
		}
	}
}

// WithLogger sets the logger used for mutation debug logs.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithSeed adds the given tasks, in order, when the store is created.
func WithSeed(seed []service.NewTask) Option {
	return func(s *Store) {
		for _, n := range seed {
			s.insert(n)
		}
	}
}

// DefaultSeed returns the tasks a fresh store starts with.
func DefaultSeed() []service.NewTask {
	return []service.NewTask{
		{Title: "Task 1", Description: "Description 1", Status: service.StatusTodo},
		{Title: "Task 2", Description: "Description 2", Status: service.StatusInProgress},
		{Title: "Task 3", Description: "Description 3", Status: service.StatusDone},
	}
}

// New creates an empty store. Options are applied in order, so put
// WithIDPolicy before WithSeed.
func New(opts ...Option) *Store {
	s := &Store{
		policy: PolicySequence,
		log:    logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Policy returns the id policy in use.
func (s *Store) Policy() IDPolicy { return s.policy }

// Len returns the number of stored tasks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// ListTasks implements service.Service.
func (s *Store) ListTasks(ctx context.Context) ([]service.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]service.Task, len(s.tasks))
	copy(out, s.tasks)
	return out, nil
}

// GetTask implements service.Service.
func (s *Store) GetTask(ctx context.Context, id int) (service.Task, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		return s.tasks[i], true, nil
	}
	return service.Task{}, false, nil
}

// AddTask implements service.Service.
func (s *Store) AddTask(ctx context.Context, n service.NewTask) (service.Task, error) {
	s.mu.Lock()
	t := s.insert(n)
	s.mu.Unlock()

	s.log.DebugContext(ctx, "task added", "id", t.ID, "status", t.Status, "policy", s.policy)
	return t, nil
}

// UpdateTask implements service.Service.
func (s *Store) UpdateTask(ctx context.Context, t service.Task) (service.Task, error) {
	s.mu.Lock()
	i := s.indexOf(t.ID)
	if i >= 0 {
		s.tasks[i] = t
	}
	s.mu.Unlock()

	if i < 0 {
		s.log.DebugContext(ctx, "update ignored, no such task", "id", t.ID)
	} else {
		s.log.DebugContext(ctx, "task updated", "id", t.ID, "status", t.Status)
	}
	return t, nil
}

// DeleteTask implements service.Service.
func (s *Store) DeleteTask(ctx context.Context, id int) error {
	s.mu.Lock()
	kept := s.tasks[:0]
	for _, t := range s.tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	removed := len(s.tasks) - len(kept)
	// Zero the tail of the backing array.
	for i := len(kept); i < len(s.tasks); i++ {
		s.tasks[i] = service.Task{}
	}
	s.tasks = kept
	s.mu.Unlock()

	s.log.DebugContext(ctx, "task delete", "id", id, "removed", removed)
	return nil
}

// insert assigns an id and appends. Caller holds the write lock
// (or owns the store exclusively, as during New).
func (s *Store) insert(n service.NewTask) service.Task {
	status := n.Status
	if status == "" {
		status = service.StatusTodo
	}

	var id int
	switch s.policy {
	case PolicyCount:
		id = len(s.tasks) + 1
	default:
		id = s.lastID + 1
	}
	if id > s.lastID {
		s.lastID = id
	}

	t := service.Task{
		ID:          id,
		Title:       n.Title,
		Description: n.Description,
		Status:      status,
	}
	s.tasks = append(s.tasks, t)
	return t
}

func (s *Store) indexOf(id int) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
