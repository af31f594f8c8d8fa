package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/service"
)

func init() {
	Register(&HelpCmd{registry: DefaultRegistry})
}

// HelpCmd implements the help command. Usage lines come from the registry.
type HelpCmd struct {
	registry *Registry
}

// NewHelpCmd returns a help command listing the commands of r.
func NewHelpCmd(r *Registry) *HelpCmd {
	return &HelpCmd{registry: r}
}

func (c *HelpCmd) Name() string       { return "help" }
func (c *HelpCmd) Aliases() []string  { return nil }
func (c *HelpCmd) Synopsis() string   { return "Print usage" }
func (c *HelpCmd) Usage() string      { return "taskboard help" }
func (c *HelpCmd) NeedsBackend() bool { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, "Usage:\n")
	fmt.Fprintf(out, "  %-58s %s\n", "taskboard", "List all tasks")
	fmt.Fprintf(out, "  %-58s %s\n", "taskboard shell", "Run commands interactively")
	if c.registry != nil {
		for _, cmd := range c.registry.All() {
			synopsis := cmd.Synopsis()
			if aliases := cmd.Aliases(); len(aliases) > 0 {
				synopsis += " (alias: " + strings.Join(aliases, ", ") + ")"
			}
			fmt.Fprintf(out, "  %-58s %s\n", cmd.Usage(), synopsis)
		}
	}
	fmt.Fprint(out, helpFooter)
	return exitcode.Success
}

const helpFooter = `
Statuses: todo, in-progress, done

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
