package commands

import (
	"context"
	"flag"
	"fmt"

	"taskcli/internal/controller"
	"taskcli/internal/exitcode"
	"taskcli/internal/guard"
	"taskcli/internal/output"
)

func init() {
	Register(&DoneCmd{})
}

// DoneCmd implements the done command: it flips the completion flag.
type DoneCmd struct{}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return []string{"toggle"} }
func (c *DoneCmd) Synopsis() string  { return "Toggle a task between done and pending" }
func (c *DoneCmd) Usage() string     { return "taskcli done <id>" }
func (c *DoneCmd) View() guard.View  { return guard.Tasks }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, env *Env, args []string) int {
	id, err := ParseTaskID(args)
	if err != nil {
		fmt.Fprintf(env.Err, "error: %v\n", err)
		return exitcode.UserError
	}

	list := controller.NewTaskList(env.Deps())
	if next, err := list.Activate(ctx); err != nil {
		return report(env.Err, next, err)
	}

	task, next, err := list.Toggle(ctx, id)
	if err != nil {
		return report(env.Err, next, err)
	}

	if !env.quiet() {
		output.FormatTask(env.Out, task)
	}
	return exitcode.Success
}
