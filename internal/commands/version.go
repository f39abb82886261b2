package commands

import (
	"context"
	"flag"
	"fmt"

	"taskcli/internal/exitcode"
	"taskcli/internal/guard"
)

// Version is the application version. Set at build time.
var Version = "0.1.0"

func init() {
	Register(&VersionCmd{})
}

// VersionCmd implements the version command.
type VersionCmd struct{}

func (c *VersionCmd) Name() string      { return "version" }
func (c *VersionCmd) Aliases() []string { return nil }
func (c *VersionCmd) Synopsis() string  { return "Print version" }
func (c *VersionCmd) Usage() string     { return "taskcli version" }
func (c *VersionCmd) View() guard.View  { return guard.Open }

func (c *VersionCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *VersionCmd) Run(ctx context.Context, env *Env, args []string) int {
	fmt.Fprintf(env.Out, "taskcli %s\n", Version)
	return exitcode.Success
}
