// Package main is the entry point for the taskboard CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"taskboard/internal/backend/googletasks"
	"taskboard/internal/backend/memory"
	"taskboard/internal/cli"
	"taskboard/internal/commands"
	"taskboard/internal/config"
	"taskboard/internal/logging"
	"taskboard/internal/service"
)

func main() {
	// Create context that cancels on interrupt
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, newService)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

// newService builds the configured backend.
func newService(ctx context.Context, cfg *config.Config) (service.Service, error) {
	switch cfg.BackendName() {
	case config.BackendGoogleTasks:
		return googletasks.New(ctx, cfg)
	case config.BackendMemory:
		return newMemoryStore(ctx, cfg)
	}
	return nil, fmt.Errorf("unknown backend: %s", cfg.Backend)
}

func newMemoryStore(ctx context.Context, cfg *config.Config) (*memory.Store, error) {
	policy, err := memory.ParseIDPolicy(cfg.IDPolicy)
	if err != nil {
		return nil, err
	}

	opts := []memory.Option{
		memory.WithLogger(logging.FromContext(ctx)),
		memory.WithIDPolicy(policy),
	}
	switch {
	case cfg.Empty:
	case len(cfg.Seed) > 0:
		opts = append(opts, memory.WithSeed(cfg.SeedTasks()))
	default:
		opts = append(opts, memory.WithSeed(memory.DefaultSeed()))
	}
	return memory.New(opts...), nil
}
