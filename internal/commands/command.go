// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"flag"
	"io"

	"github.com/charmbracelet/log"

	"taskcli/internal/config"
	"taskcli/internal/controller"
	"taskcli/internal/guard"
	"taskcli/internal/logging"
	"taskcli/internal/service"
	"taskcli/internal/session"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// View returns the screen the command renders. The dispatcher runs it
	// through guard.Decide before Run is called.
	View() guard.View

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command with positional args and returns the exit code.
	Run(ctx context.Context, env *Env, args []string) int
}

// Env is what a command runs against.
type Env struct {
	Config  *config.Config
	Session session.Store
	// Service is nil for commands that never reach the backend.
	Service service.Service
	Logger  *log.Logger

	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Deps returns the controller dependencies for this environment.
func (e *Env) Deps() controller.Deps {
	logger := e.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return controller.Deps{
		Service: e.Service,
		Session: e.Session,
		Logger:  logger,
	}
}

func (e *Env) quiet() bool {
	return e.Config != nil && e.Config.Quiet
}
