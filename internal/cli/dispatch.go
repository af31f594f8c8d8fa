// Package cli parses the command line and dispatches to commands.
package cli

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"taskboard/internal/commands"
	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/logging"
	"taskboard/internal/service"
)

// ShellPrompt is printed before each line in shell mode.
const ShellPrompt = "taskboard> "

// ServiceFactory creates a Service from config.
// Used to inject the backend during dispatch.
type ServiceFactory func(ctx context.Context, cfg *config.Config) (service.Service, error)

// Dispatcher handles command-line parsing and dispatch.
//
// The backend is created on first use and reused for the lifetime of the
// dispatcher, so every line of a shell session sees the same store.
type Dispatcher struct {
	registry *commands.Registry
	factory  ServiceFactory
	in       io.Reader

	svc     service.Service
	inShell bool
}

// NewDispatcher creates a new dispatcher with the given registry and service factory.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
		in:       os.Stdin,
	}
}

// SetInput sets the reader shell mode reads lines from.
func (d *Dispatcher) SetInput(r io.Reader) {
	d.in = r
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No args -> dispatch to "list" command with no args
	if len(args) == 0 {
		return d.dispatch(ctx, "list", nil, out, errOut)
	}

	cmdName := args[0]

	// Flags require a command
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	if cmdName == "shell" {
		return d.runShell(ctx, args[1:], out, errOut)
	}

	return d.dispatch(ctx, cmdName, args[1:], out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, cmdName string, args []string, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args, out, errOut)
}

// commonFlags are accepted by every command and by shell.
type commonFlags struct {
	configDir string
	quiet     bool
	debug     bool
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.configDir, "config", "", "")
	fs.BoolVar(&c.quiet, "quiet", false, "")
	fs.BoolVar(&c.debug, "debug", false, "")
}

// args renders the flags back into command-line form.
func (c *commonFlags) args() []string {
	var out []string
	if c.configDir != "" {
		out = append(out, "--config", c.configDir)
	}
	if c.quiet {
		out = append(out, "--quiet")
	}
	if c.debug {
		out = append(out, "--debug")
	}
	return out
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	// Create flag set with custom error handling
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	var common commonFlags
	common.register(fs)
	cmd.RegisterFlags(fs)

	positionalArgs, err := parseInterspersed(fs, args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", flagError(err))
		return exitcode.UserError
	}

	// Check if first positional arg starts with - (should have been parsed as flag)
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return exitcode.UserError
	}

	cfg, code, ok := d.loadConfig(common, errOut)
	if !ok {
		return code
	}

	log := newLogger(cfg, errOut)
	ctx = logging.NewContext(ctx, log)
	log.DebugContext(ctx, "dispatch", "command", cmd.Name(), "backend", cfg.BackendName(), "config_dir", cfg.Dir)

	var svc service.Service
	if cmd.NeedsBackend() {
		svc, code, ok = d.service(ctx, cfg, errOut)
		if !ok {
			return code
		}
	}

	return cmd.Run(ctx, cfg, svc, positionalArgs, out, errOut)
}

// parseInterspersed parses fs over args, allowing flags after positional
// arguments. Everything after a "--" terminator is positional.
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		rest := fs.Args()
		consumed := len(args) - len(rest)
		if consumed > 0 && args[consumed-1] == "--" {
			return append(positional, rest...), nil
		}
		if len(rest) == 0 {
			return positional, nil
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}
}

// flagError maps flag package errors to user-facing messages.
func flagError(err error) string {
	errStr := err.Error()
	switch {
	case strings.HasPrefix(errStr, "flag needs an argument:"):
		return "flag needs an argument: " + strings.TrimSpace(strings.TrimPrefix(errStr, "flag needs an argument:"))
	case strings.HasPrefix(errStr, "flag provided but not defined:"):
		return "unknown flag: " + strings.TrimSpace(strings.TrimPrefix(errStr, "flag provided but not defined:"))
	}
	return errStr
}

func (d *Dispatcher) loadConfig(common commonFlags, errOut io.Writer) (*config.Config, int, bool) {
	cfg, err := config.Load(common.configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return nil, exitcode.UserError, false
	}
	cfg.Quiet = common.quiet
	cfg.Debug = common.debug
	return cfg, exitcode.Success, true
}

func newLogger(cfg *config.Config, errOut io.Writer) *slog.Logger {
	level := cfg.LogLevel
	if cfg.Debug {
		level = "debug"
	}
	return logging.New(errOut, logging.Options{Level: level, Format: cfg.LogFormat})
}

// service returns the cached backend, creating it on first use.
func (d *Dispatcher) service(ctx context.Context, cfg *config.Config, errOut io.Writer) (service.Service, int, bool) {
	if d.svc != nil {
		return d.svc, exitcode.Success, true
	}

	if cfg.BackendName() == config.BackendGoogleTasks {
		if !cfg.HasOAuthClient() {
			fmt.Fprintf(errOut, "error: %s not found in %s\n", config.OAuthClientFile, cfg.Dir)
			return nil, exitcode.AuthError, false
		}
		if !cfg.HasToken() {
			fmt.Fprintln(errOut, "error: not logged in (run: taskboard login)")
			return nil, exitcode.AuthError, false
		}
	}

	if d.factory == nil {
		fmt.Fprintln(errOut, "error: backend error: no backend available")
		return nil, exitcode.BackendError, false
	}

	svc, err := d.factory(ctx, cfg)
	if err != nil {
		if strings.Contains(err.Error(), "token") || strings.Contains(err.Error(), "oauth") {
			fmt.Fprintf(errOut, "error: auth error: %s\n", err)
			return nil, exitcode.AuthError, false
		}
		fmt.Fprintf(errOut, "error: backend error: %s\n", err)
		return nil, exitcode.BackendError, false
	}

	d.svc = svc
	return svc, exitcode.Success, true
}

// runShell reads commands line by line until exit, quit or end of input.
// The shell's common flags apply to every line.
func (d *Dispatcher) runShell(ctx context.Context, args []string, out, errOut io.Writer) int {
	if d.inShell {
		fmt.Fprintln(errOut, "error: shell already running")
		return exitcode.UserError
	}

	fs := flag.NewFlagSet("shell", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var common commonFlags
	common.register(fs)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", flagError(err))
		return exitcode.UserError
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", fs.Arg(0))
		return exitcode.UserError
	}

	// Fail early on a bad config rather than on every line.
	if _, code, ok := d.loadConfig(common, errOut); !ok {
		return code
	}

	d.inShell = true
	defer func() { d.inShell = false }()

	scanner := bufio.NewScanner(d.in)
	for {
		if ctx.Err() != nil {
			return exitcode.Success
		}
		if !common.quiet {
			fmt.Fprint(out, ShellPrompt)
		}
		if !scanner.Scan() {
			break
		}

		fields, err := SplitLine(scanner.Text())
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			continue
		}
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "exit", "quit":
			return exitcode.Success
		case "shell":
			fmt.Fprintln(errOut, "error: shell already running")
			continue
		}

		if strings.HasPrefix(fields[0], "-") {
			fmt.Fprintf(errOut, "error: unknown command: %s\n", fields[0])
			continue
		}
		lineArgs := append(common.args(), fields[1:]...)
		d.dispatch(ctx, fields[0], lineArgs, out, errOut)
	}

	if !common.quiet {
		fmt.Fprintln(out)
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	return exitcode.Success
}

// ErrUnterminatedQuote is returned by SplitLine for an unbalanced quote.
var ErrUnterminatedQuote = errors.New("unterminated quote")

// SplitLine splits a shell line into fields on whitespace. Double quotes
// group words and may be empty; a backslash escapes the next character
// inside quotes.
func SplitLine(line string) ([]string, error) {
	var (
		fields  []string
		cur     strings.Builder
		inField bool
		quoted  bool
	)
	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case quoted && r == '\\' && i+1 < len(runes):
			i++
			cur.WriteRune(runes[i])
		case r == '"':
			quoted = !quoted
			inField = true
		case !quoted && (r == ' ' || r == '\t'):
			if inField {
				fields = append(fields, cur.String())
				cur.Reset()
				inField = false
			}
		default:
			cur.WriteRune(r)
			inField = true
		}
	}
	if quoted {
		return nil, ErrUnterminatedQuote
	}
	if inField {
		fields = append(fields, cur.String())
	}
	return fields, nil
}
