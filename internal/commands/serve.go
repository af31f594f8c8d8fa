package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"

	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/httpapi"
	"taskboard/internal/logging"
	"taskboard/internal/service"
)

func init() {
	Register(&ServeCmd{})
}

// ServeCmd runs the HTTP front end until the context is cancelled.
type ServeCmd struct {
	addr string
}

func (c *ServeCmd) Name() string       { return "serve" }
func (c *ServeCmd) Aliases() []string  { return nil }
func (c *ServeCmd) Synopsis() string   { return "Serve tasks over HTTP" }
func (c *ServeCmd) Usage() string      { return "taskboard serve [--addr <host:port>]" }
func (c *ServeCmd) NeedsBackend() bool { return true }

func (c *ServeCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.addr, "addr", "", "")
}

func (c *ServeCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	addr := c.addr
	if addr == "" {
		addr = cfg.Listen
	}
	if addr == "" {
		addr = config.DefaultListen
	}

	srv := httpapi.NewServer(svc, logging.FromContext(ctx))
	err := srv.ListenAndServe(ctx, addr, func(a net.Addr) {
		if !cfg.Quiet {
			fmt.Fprintf(out, "listening on http://%s\n", a)
		}
	})
	if err != nil {
		var opErr *net.OpError
		if errors.As(err, &opErr) && opErr.Op == "listen" {
			fmt.Fprintf(errOut, "error: listen: %s: %v\n", addr, opErr.Err)
		} else {
			fmt.Fprintf(errOut, "error: serve: %v\n", err)
		}
		return exitcode.BackendError
	}
	return exitcode.Success
}
