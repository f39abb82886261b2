package commands

import (
	"context"
	"flag"
	"fmt"

	"taskcli/internal/exitcode"
	"taskcli/internal/guard"
	"taskcli/internal/ui"
)

func init() {
	Register(&UICmd{})
}

// UICmd implements the ui command. The terminal UI applies the
// navigation guard itself, so the command is open to everyone.
type UICmd struct{}

func (c *UICmd) Name() string      { return "ui" }
func (c *UICmd) Aliases() []string { return []string{"tui"} }
func (c *UICmd) Synopsis() string  { return "Open the interactive terminal UI" }
func (c *UICmd) Usage() string     { return "taskcli ui" }
func (c *UICmd) View() guard.View  { return guard.Open }

func (c *UICmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *UICmd) Run(ctx context.Context, env *Env, args []string) int {
	if !ui.IsTTY(env.Out) {
		fmt.Fprintln(env.Err, "error: ui requires a terminal")
		return exitcode.UserError
	}
	if err := ui.Run(ctx, env.Deps()); err != nil {
		fmt.Fprintf(env.Err, "error: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}
