package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/service"
)

func init() {
	Register(&EditCmd{})
}

// optionalString is a flag value that remembers whether it was set, so that
// an explicitly empty value can be told apart from an absent flag.
type optionalString struct {
	value string
	set   bool
}

func (o *optionalString) String() string { return o.value }

func (o *optionalString) Set(s string) error {
	o.value = s
	o.set = true
	return nil
}

// EditCmd implements the edit command (edit view).
type EditCmd struct {
	title       optionalString
	description optionalString
	status      optionalString
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return []string{"update"} }
func (c *EditCmd) Synopsis() string  { return "Change a task" }
func (c *EditCmd) Usage() string {
	return "taskboard edit [--title <title>] [--description <text>] [--status <status>] <id>"
}
func (c *EditCmd) NeedsBackend() bool { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	c.title, c.description, c.status = optionalString{}, optionalString{}, optionalString{}
	fs.Var(&c.title, "title", "")
	fs.Var(&c.title, "t", "")
	fs.Var(&c.description, "description", "")
	fs.Var(&c.description, "d", "")
	fs.Var(&c.status, "status", "")
	fs.Var(&c.status, "s", "")
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	id, code, ok := parseTaskIDOrFail(args, 0, errOut)
	if !ok {
		return code
	}

	task, code, ok := lookupTask(ctx, svc, id, errOut)
	if !ok {
		return code
	}

	if c.title.set {
		task.Title = c.title.value
	}
	if c.description.set {
		task.Description = c.description.value
	}
	if c.status.set {
		st, err := service.ParseStatus(c.status.value)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		task.Status = st
	}

	return saveTask(ctx, cfg, svc, task, out, errOut)
}

// saveTask validates and stores an edited task, then shows the list view.
func saveTask(ctx context.Context, cfg *config.Config, svc service.Service, task service.Task, out, errOut io.Writer) int {
	if err := task.Validate(); err != nil {
		return validationFailure(errOut, err)
	}
	if _, err := svc.UpdateTask(ctx, task); err != nil {
		return backendFailure(errOut, err)
	}
	return saved(ctx, cfg, svc, out, errOut)
}
