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
	Register(&StatusCmd{})
}

// StatusCmd implements the status command: an edit that only moves the task
// to another status.
type StatusCmd struct{}

func (c *StatusCmd) Name() string       { return "status" }
func (c *StatusCmd) Aliases() []string  { return []string{"mv"} }
func (c *StatusCmd) Synopsis() string   { return "Set the status of a task" }
func (c *StatusCmd) Usage() string      { return "taskboard status <id> <todo|in-progress|done>" }
func (c *StatusCmd) NeedsBackend() bool { return true }

func (c *StatusCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *StatusCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	id, code, ok := parseTaskIDOrFail(args, 1, errOut)
	if !ok {
		return code
	}
	if len(args) < 2 {
		fmt.Fprintln(errOut, "error: status required")
		return exitcode.UserError
	}
	st, err := service.ParseStatus(args[1])
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	return setStatus(ctx, cfg, svc, id, st, out, errOut)
}

func setStatus(ctx context.Context, cfg *config.Config, svc service.Service, id int, st service.Status, out, errOut io.Writer) int {
	task, code, ok := lookupTask(ctx, svc, id, errOut)
	if !ok {
		return code
	}
	task.Status = st
	return saveTask(ctx, cfg, svc, task, out, errOut)
}
