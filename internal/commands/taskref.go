package commands

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"taskboard/internal/exitcode"
)

// ErrTaskIDRequired indicates no task id was provided.
var ErrTaskIDRequired = errors.New("task id required")

// ParseTaskID parses the task id from the first positional argument.
// Ids are positive decimal integers.
func ParseTaskID(args []string) (int, error) {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return 0, ErrTaskIDRequired
	}
	arg := strings.TrimSpace(args[0])
	if !isAllDigits(arg) {
		return 0, fmt.Errorf("invalid task id: %s", arg)
	}
	id, err := strconv.Atoi(arg)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid task id: %s", arg)
	}
	return id, nil
}

// parseTaskIDOrFail parses the id in args[0] and rejects more than extra
// further arguments. Errors are reported on errOut; ok is false when the
// caller must return code.
func parseTaskIDOrFail(args []string, extra int, errOut io.Writer) (id int, code int, ok bool) {
	id, err := ParseTaskID(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return 0, exitcode.UserError, false
	}
	if len(args) > 1+extra {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[1+extra])
		return 0, exitcode.UserError, false
	}
	return id, exitcode.Success, true
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
