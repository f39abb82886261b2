// Package main is the entry point for the taskcli CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"taskcli/internal/backend/rest"
	"taskcli/internal/cli"
	"taskcli/internal/commands"
	"taskcli/internal/config"
	"taskcli/internal/service"
	"taskcli/internal/session"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	factory := func(ctx context.Context, cfg *config.Config, store session.Store, logger *log.Logger) (service.Service, error) {
		return rest.New(cfg, store, logger)
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	code := dispatcher.Run(ctx, os.Args[1:], cli.Streams{
		In:  os.Stdin,
		Out: os.Stdout,
		Err: os.Stderr,
	})
	os.Exit(code)
}
