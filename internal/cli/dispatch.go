// Package cli parses the command line and dispatches to commands.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"taskcli/internal/commands"
	"taskcli/internal/config"
	"taskcli/internal/exitcode"
	"taskcli/internal/guard"
	"taskcli/internal/logging"
	"taskcli/internal/service"
	"taskcli/internal/session"
)

// DefaultCommand runs when no arguments are given.
const DefaultCommand = "tasks"

// ServiceFactory creates a Service bound to the session store.
// Used to inject the backend during dispatch.
type ServiceFactory func(ctx context.Context, cfg *config.Config, store session.Store, logger *log.Logger) (service.Service, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  ServiceFactory
}

// NewDispatcher creates a new dispatcher with the given registry and service factory.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// Streams are the standard streams a dispatch runs against.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, s Streams) int {
	if len(args) == 0 {
		args = []string{DefaultCommand}
	}

	cmdName := args[0]

	// Flags require a command.
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(s.Err, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(s.Err, "error: unknown command: %s\n", cmdName)
		if !hasSession(args[1:]) {
			fmt.Fprintln(s.Err, "not logged in (run: taskcli login)")
		}
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args[1:], s)
}

// hasSession reports whether a token is stored for the config dir named in
// args. Unparseable arguments are ignored; an unreadable config or session
// counts as no session.
func hasSession(args []string) bool {
	fs := flag.NewFlagSet("", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var common commonFlags
	common.register(fs)
	_ = fs.Parse(args)

	cfg, err := config.New(common.configDir)
	if err != nil {
		return false
	}
	store, err := session.OpenFile(cfg.TokenPath())
	if err != nil {
		return false
	}
	_, ok := store.Token()
	return ok
}

// commonFlags are accepted by every command.
type commonFlags struct {
	configDir string
	baseURL   string
	quiet     bool
	debug     bool
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.configDir, "config", "", "")
	fs.StringVar(&c.baseURL, "base-url", "", "")
	fs.BoolVar(&c.quiet, "quiet", false, "")
	fs.BoolVar(&c.quiet, "q", false, "")
	fs.BoolVar(&c.debug, "debug", false, "")
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, s Streams) int {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	var common commonFlags
	common.register(fs)
	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(s.Err, "error: %s\n", flagError(err))
		return exitcode.UserError
	}

	// A positional that still looks like a flag was meant as one.
	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") && positionalArgs[0] != "-" {
		fmt.Fprintf(s.Err, "error: unknown flag: %s\n", positionalArgs[0])
		return exitcode.UserError
	}

	cfg, err := config.New(common.configDir)
	if err != nil {
		fmt.Fprintf(s.Err, "error: %s\n", err)
		return exitcode.UserError
	}
	if common.baseURL != "" {
		if err := cfg.SetBaseURL(common.baseURL); err != nil {
			fmt.Fprintf(s.Err, "error: %s\n", err)
			return exitcode.UserError
		}
	}
	cfg.Quiet = common.quiet
	cfg.Debug = cfg.Debug || common.debug

	logger := logging.New(s.Err, cfg.Debug)

	store, err := session.OpenFile(cfg.TokenPath())
	if err != nil {
		fmt.Fprintf(s.Err, "error: reading session: %v\n", err)
		return exitcode.AuthError
	}

	_, loggedIn := store.Token()
	decision := guard.Decide(cmd.View(), loggedIn)
	logger.Debug("dispatch", "command", cmd.Name(), "view", cmd.View(), "logged_in", loggedIn, "session", store.Path())
	if !decision.Render {
		redirect := guard.Resolve(decision.Redirect, loggedIn)
		if redirect == guard.Login {
			fmt.Fprintln(s.Err, "error: not logged in (run: taskcli login)")
			return exitcode.AuthError
		}
		target, ok := d.registry.Find(string(redirect))
		if !ok {
			fmt.Fprintf(s.Err, "error: unknown command: %s\n", redirect)
			return exitcode.UserError
		}
		if !cfg.Quiet {
			fmt.Fprintln(s.Err, "already logged in")
		}
		cmd, positionalArgs = target, nil
	}

	env := &commands.Env{
		Config:  cfg,
		Session: store,
		Logger:  logger,
		In:      s.In,
		Out:     s.Out,
		Err:     s.Err,
	}
	if d.factory != nil {
		env.Service, err = d.factory(ctx, cfg, store, logger)
		if err != nil {
			fmt.Fprintf(s.Err, "error: backend error: %s\n", err)
			return exitcode.BackendError
		}
	}

	return cmd.Run(ctx, env, positionalArgs)
}

// flagError turns a flag package error into the message shown to the user.
func flagError(err error) string {
	msg := err.Error()
	switch {
	case strings.HasPrefix(msg, "flag needs an argument:"):
		return "flag needs an argument: " + strings.TrimSpace(strings.TrimPrefix(msg, "flag needs an argument:"))
	case strings.HasPrefix(msg, "flag provided but not defined:"):
		return "unknown flag: " + strings.TrimSpace(strings.TrimPrefix(msg, "flag provided but not defined:"))
	}
	return msg
}
