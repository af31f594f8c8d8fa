package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/service"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command (create view).
type AddCmd struct {
	title       string
	description string
	status      string
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string {
	return "taskboard add [--title <title>] --description <text> [--status <status>] [<title...>]"
}
func (c *AddCmd) NeedsBackend() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.title, "title", "", "")
	fs.StringVar(&c.title, "t", "", "")
	fs.StringVar(&c.description, "description", "", "")
	fs.StringVar(&c.description, "d", "", "")
	fs.StringVar(&c.status, "status", "", "")
	fs.StringVar(&c.status, "s", "", "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	title := c.title
	if title == "" {
		// Positional words form the title
		title = strings.Join(args, " ")
	} else if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	n := service.NewTask{Title: title, Description: c.description}
	if strings.TrimSpace(c.status) != "" {
		st, err := service.ParseStatus(c.status)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		n.Status = st
	}

	if err := n.Validate(); err != nil {
		return validationFailure(errOut, err)
	}

	if _, err := svc.AddTask(ctx, n); err != nil {
		return backendFailure(errOut, err)
	}
	return saved(ctx, cfg, svc, out, errOut)
}

// validationFailure reports a form precondition failure.
func validationFailure(errOut io.Writer, err error) int {
	switch {
	case errors.Is(err, service.ErrEmptyTitle), errors.Is(err, service.ErrEmptyDescription), errors.Is(err, service.ErrInvalidStatus):
		fmt.Fprintf(errOut, "error: %v\n", err)
	default:
		fmt.Fprintf(errOut, "error: invalid task: %v\n", err)
	}
	return exitcode.UserError
}
