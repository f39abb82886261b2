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
	Register(&TasksCmd{})
}

// TasksCmd implements the tasks command. It is also what runs when
// taskcli is invoked with no arguments.
type TasksCmd struct {
	pending bool
}

func (c *TasksCmd) Name() string      { return "tasks" }
func (c *TasksCmd) Aliases() []string { return []string{"list", "ls"} }
func (c *TasksCmd) Synopsis() string  { return "List tasks" }
func (c *TasksCmd) Usage() string     { return "taskcli tasks [--pending]" }
func (c *TasksCmd) View() guard.View  { return guard.Tasks }

func (c *TasksCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.pending, "pending", false, "")
}

func (c *TasksCmd) Run(ctx context.Context, env *Env, args []string) int {
	if len(args) > 0 {
		fmt.Fprintf(env.Err, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	list := controller.NewTaskList(env.Deps())
	if next, err := list.Activate(ctx); err != nil {
		return report(env.Err, next, err)
	}

	shown := 0
	for _, task := range list.Tasks() {
		if c.pending && task.Done {
			continue
		}
		if shown == 0 {
			output.FormatTaskHeader(env.Out)
		}
		output.FormatTask(env.Out, task)
		shown++
	}

	if shown == 0 && !env.quiet() {
		fmt.Fprintln(env.Out, "no tasks found")
	}
	return exitcode.Success
}
