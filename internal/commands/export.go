package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/export"
	"taskboard/internal/service"
)

func init() {
	Register(&ExportCmd{})
}

// ExportCmd writes the task list as JSON, CSV or PDF.
type ExportCmd struct {
	format string
	output string
}

func (c *ExportCmd) Name() string       { return "export" }
func (c *ExportCmd) Aliases() []string  { return nil }
func (c *ExportCmd) Synopsis() string   { return "Export tasks as json, csv or pdf" }
func (c *ExportCmd) Usage() string      { return "taskboard export [--format json|csv|pdf] [--output <file>]" }
func (c *ExportCmd) NeedsBackend() bool { return true }

func (c *ExportCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.format, "format", export.FormatJSON, "")
	fs.StringVar(&c.format, "f", export.FormatJSON, "")
	fs.StringVar(&c.output, "output", "", "")
	fs.StringVar(&c.output, "o", "", "")
}

func (c *ExportCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}
	format, err := export.ParseFormat(c.format)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	if c.output == "" || c.output == "-" {
		if err := export.Export(ctx, svc, format, out); err != nil {
			return backendFailure(errOut, err)
		}
		return exitcode.Success
	}

	f, err := os.Create(c.output)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	err = export.Export(ctx, svc, format, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(c.output)
		var pe *os.PathError
		if errors.As(err, &pe) {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		return backendFailure(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "ok: wrote %s\n", c.output)
	}
	return exitcode.Success
}
