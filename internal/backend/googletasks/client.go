// Package googletasks implements the service.Service interface using Google Tasks API.
package googletasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"taskboard/internal/config"
	"taskboard/internal/logging"
	"taskboard/internal/service"
)

const (
	// DefaultListID is the special ID for the default list.
	DefaultListID = "@default"

	// PageSize is the number of tasks per page.
	PageSize = 100

	// APITimeout is the timeout for API calls.
	APITimeout = 5 * time.Second

	// TasksScope is the OAuth scope for Google Tasks.
	TasksScope = "https://www.googleapis.com/auth/tasks"

	// inProgressMarker prefixes notes of in-progress tasks; Google Tasks
	// only knows needsAction and completed.
	inProgressMarker = "[in-progress] "

	remoteNeedsAction = "needsAction"
	remoteCompleted   = "completed"
)

// Client implements service.Service over a single Google Tasks list.
//
// Google task ids are opaque strings. The client hands out local integer
// ids in the order it first sees each remote task and never reuses them.
type Client struct {
	svc    *tasks.Service
	listID string

	mu       sync.Mutex
	toRemote map[int]string
	toLocal  map[string]int
	lastID   int
}

// New creates a new Google Tasks client.
// Requires oauth_client.json and token.json to exist.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	// Load OAuth client config
	clientJSON, err := os.ReadFile(cfg.OAuthClientPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth_client.json: %w", err)
	}

	oauthConfig, err := google.ConfigFromJSON(clientJSON, TasksScope)
	if err != nil {
		return nil, fmt.Errorf("invalid oauth_client.json: %w", err)
	}

	// Load token
	tokenData, err := os.ReadFile(cfg.TokenPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read token.json: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(tokenData, &token); err != nil {
		return nil, fmt.Errorf("invalid token.json: %w", err)
	}

	// Token source refreshes on expiry.
	httpClient := oauth2.NewClient(ctx, oauthConfig.TokenSource(ctx, &token))

	return NewWithHTTPClient(ctx, httpClient, cfg.ListID())
}

// NewWithHTTPClient creates a client with a custom HTTP client.
// Extra options (for example option.WithEndpoint in tests) are passed to the
// Tasks service.
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, listID string, opts ...option.ClientOption) (*Client, error) {
	if listID == "" {
		listID = DefaultListID
	}
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	svc, err := tasks.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}
	return &Client{
		svc:      svc,
		listID:   listID,
		toRemote: make(map[int]string),
		toLocal:  make(map[string]int),
	}, nil
}

// ListTasks returns every task of the list in API order, completed ones
// included.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var result []service.Task
	err := c.svc.Tasks.List(c.listID).
		MaxResults(PageSize).
		ShowCompleted(true).
		ShowHidden(true).
		ShowDeleted(false).
		Pages(ctx, func(resp *tasks.Tasks) error {
			for _, item := range resp.Items {
				if item.Deleted {
					continue
				}
				result = append(result, c.fromRemote(item))
			}
			return nil
		})
	if err != nil {
		return nil, wrapError(err)
	}

	logging.FromContext(ctx).DebugContext(ctx, "googletasks: listed tasks", "list", c.listID, "count", len(result))
	return result, nil
}

// GetTask fetches one task. Unknown local ids and remote 404s are absent.
func (c *Client) GetTask(ctx context.Context, id int) (service.Task, bool, error) {
	remoteID, ok, err := c.resolve(ctx, id)
	if err != nil || !ok {
		return service.Task{}, false, err
	}

	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	item, err := c.svc.Tasks.Get(c.listID, remoteID).Context(ctx).Do()
	if err != nil {
		if isNotFound(err) {
			c.forget(remoteID)
			return service.Task{}, false, nil
		}
		return service.Task{}, false, wrapError(err)
	}
	if item.Deleted {
		return service.Task{}, false, nil
	}
	return c.fromRemote(item), true, nil
}

// AddTask creates a task in the list.
func (c *Client) AddTask(ctx context.Context, n service.NewTask) (service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	status := n.Status
	if status == "" {
		status = service.StatusTodo
	}

	created, err := c.svc.Tasks.Insert(c.listID, toRemote(n.Title, n.Description, status)).Context(ctx).Do()
	if err != nil {
		return service.Task{}, wrapError(err)
	}

	t := c.fromRemote(created)
	logging.FromContext(ctx).DebugContext(ctx, "googletasks: task added", "id", t.ID, "remote_id", created.Id)
	return t, nil
}

// UpdateTask replaces title, notes and status of an existing task.
// Unknown ids are a no-op. Returns the input.
func (c *Client) UpdateTask(ctx context.Context, t service.Task) (service.Task, error) {
	remoteID, ok, err := c.resolve(ctx, t.ID)
	if err != nil {
		return service.Task{}, err
	}
	if !ok {
		return t, nil
	}

	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	patch := toRemote(t.Title, t.Description, t.Status)
	patch.ForceSendFields = []string{"Notes", "Title"}
	if _, err := c.svc.Tasks.Patch(c.listID, remoteID, patch).Context(ctx).Do(); err != nil {
		if isNotFound(err) {
			c.forget(remoteID)
			return t, nil
		}
		return service.Task{}, wrapError(err)
	}
	return t, nil
}

// DeleteTask deletes a task. Unknown ids are a no-op.
func (c *Client) DeleteTask(ctx context.Context, id int) error {
	remoteID, ok, err := c.resolve(ctx, id)
	if err != nil || !ok {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	if err := c.svc.Tasks.Delete(c.listID, remoteID).Context(ctx).Do(); err != nil && !isNotFound(err) {
		return wrapError(err)
	}
	c.forget(remoteID)
	return nil
}

// resolve maps a local id to its remote id, listing the tasks once if the id
// has not been seen yet.
func (c *Client) resolve(ctx context.Context, id int) (string, bool, error) {
	if remoteID, ok := c.lookup(id); ok {
		return remoteID, true, nil
	}
	if _, err := c.ListTasks(ctx); err != nil {
		return "", false, err
	}
	remoteID, ok := c.lookup(id)
	return remoteID, ok, nil
}

func (c *Client) lookup(id int) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	remoteID, ok := c.toRemote[id]
	return remoteID, ok
}

func (c *Client) localID(remoteID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if id, ok := c.toLocal[remoteID]; ok {
		return id
	}
	c.lastID++
	c.toLocal[remoteID] = c.lastID
	c.toRemote[c.lastID] = remoteID
	return c.lastID
}

func (c *Client) forget(remoteID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if id, ok := c.toLocal[remoteID]; ok {
		delete(c.toLocal, remoteID)
		delete(c.toRemote, id)
	}
}

func (c *Client) fromRemote(item *tasks.Task) service.Task {
	description, status := decodeNotes(item.Notes, item.Status)
	return service.Task{
		ID:          c.localID(item.Id),
		Title:       item.Title,
		Description: description,
		Status:      status,
	}
}

func toRemote(title, description string, status service.Status) *tasks.Task {
	remoteStatus := remoteNeedsAction
	if status == service.StatusDone {
		remoteStatus = remoteCompleted
	}
	return &tasks.Task{
		Title:  title,
		Notes:  encodeNotes(description, status),
		Status: remoteStatus,
	}
}

func encodeNotes(description string, status service.Status) string {
	if status == service.StatusInProgress {
		return inProgressMarker + description
	}
	return description
}

func decodeNotes(notes, remoteStatus string) (string, service.Status) {
	if remoteStatus == remoteCompleted {
		return strings.TrimPrefix(notes, inProgressMarker), service.StatusDone
	}
	if strings.HasPrefix(notes, inProgressMarker) {
		return strings.TrimPrefix(notes, inProgressMarker), service.StatusInProgress
	}
	return notes, service.StatusTodo
}

func isNotFound(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == http.StatusNotFound
}

// wrapError wraps API errors with user-friendly messages.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "context deadline exceeded") {
		return fmt.Errorf("request timed out")
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("token expired or revoked (run: taskboard login)")
		case http.StatusNotFound:
			return fmt.Errorf("not found")
		}
	}

	// Refresh failures surface from the oauth2 transport, not the API.
	if strings.Contains(err.Error(), "oauth2:") {
		return fmt.Errorf("token expired or revoked (run: taskboard login)")
	}

	return err
}
