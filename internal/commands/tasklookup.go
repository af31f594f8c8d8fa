package commands

import (
	"context"
	"fmt"
	"io"

	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/output"
	"taskboard/internal/service"
)

// lookupTask loads a task by id. ok is false when the caller must return
// code: the task is absent (user error) or the backend failed.
func lookupTask(ctx context.Context, svc service.Service, id int, errOut io.Writer) (task service.Task, code int, ok bool) {
	task, found, err := svc.GetTask(ctx, id)
	if err != nil {
		return service.Task{}, backendFailure(errOut, err), false
	}
	if !found {
		fmt.Fprintf(errOut, "error: task not found: %d\n", id)
		return service.Task{}, exitcode.UserError, false
	}
	return task, exitcode.Success, true
}

// backendFailure reports a facade error and returns its exit code.
func backendFailure(errOut io.Writer, err error) int {
	fmt.Fprintf(errOut, "error: backend error: %v\n", err)
	return exitcode.BackendError
}

// printList renders the list view.
func printList(ctx context.Context, cfg *config.Config, svc service.Service, out, errOut io.Writer) int {
	tasks, err := svc.ListTasks(ctx)
	if err != nil {
		return backendFailure(errOut, err)
	}
	output.FormatTaskList(out, tasks, cfg.Quiet)
	return exitcode.Success
}

// saved prints the confirmation and the list view after a successful save.
func saved(ctx context.Context, cfg *config.Config, svc service.Service, out, errOut io.Writer) int {
	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return printList(ctx, cfg, svc, out, errOut)
}
