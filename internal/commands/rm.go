package commands

import (
	"context"
	"flag"
	"fmt"

	"taskcli/internal/controller"
	"taskcli/internal/exitcode"
	"taskcli/internal/guard"
	"taskcli/internal/service"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct {
	yes bool
}

func (c *RmCmd) Name() string      { return "rm" }
func (c *RmCmd) Aliases() []string { return []string{"delete"} }
func (c *RmCmd) Synopsis() string  { return "Delete a task" }
func (c *RmCmd) Usage() string     { return "taskcli rm [--yes] <id>" }
func (c *RmCmd) View() guard.View  { return guard.Tasks }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.yes, "yes", false, "")
	fs.BoolVar(&c.yes, "y", false, "")
}

func (c *RmCmd) Run(ctx context.Context, env *Env, args []string) int {
	id, err := ParseTaskID(args)
	if err != nil {
		fmt.Fprintf(env.Err, "error: %v\n", err)
		return exitcode.UserError
	}

	list := controller.NewTaskList(env.Deps())
	if next, err := list.Activate(ctx); err != nil {
		return report(env.Err, next, err)
	}
	if _, found := list.Find(id); !found {
		return report(env.Err, controller.Stay, service.ErrNotFound)
	}

	ask := func(task service.Task) bool {
		return c.yes || confirm(env, fmt.Sprintf("delete task %d %q?", task.ID, task.Title))
	}
	sent, next, err := list.Delete(ctx, id, ask)
	if err != nil {
		return report(env.Err, next, err)
	}
	if !sent {
		fmt.Fprintln(env.Err, "error: cancelled")
		return exitcode.UserError
	}
	return ok(env)
}
