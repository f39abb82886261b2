package commands

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"taskcli/internal/controller"
	"taskcli/internal/exitcode"
	"taskcli/internal/guard"
	"taskcli/internal/output"
	"taskcli/internal/validate"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	title string
	desc  string
	due   string
	done  bool
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string {
	return "taskcli add --desc <text> --due <YYYY-MM-DD> [--done] [--title <title> | <title...>]"
}
func (c *AddCmd) View() guard.View { return guard.TaskForm }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.title, "title", "", "")
	fs.StringVar(&c.title, "t", "", "")
	fs.StringVar(&c.desc, "desc", "", "")
	fs.StringVar(&c.desc, "d", "", "")
	fs.StringVar(&c.due, "due", "", "")
	fs.BoolVar(&c.done, "done", false, "")
}

func (c *AddCmd) Run(ctx context.Context, env *Env, args []string) int {
	// Positional words form the title when --title is absent.
	title := c.title
	if title == "" {
		title = strings.Join(args, " ")
	}

	form := controller.NewTaskForm(env.Deps(), 0)
	fields := []struct{ name, value string }{
		{validate.FieldTitle, title},
		{validate.FieldDescription, c.desc},
		{validate.FieldDueDate, c.due},
		{controller.FieldDone, strconv.FormatBool(c.done)},
	}
	for _, f := range fields {
		if err := form.Change(f.name, f.value); err != nil {
			fmt.Fprintf(env.Err, "error: %v\n", err)
			return exitcode.UserError
		}
	}

	if next, err := form.Submit(ctx); err != nil {
		return report(env.Err, next, err)
	}
	if !env.quiet() {
		output.FormatTaskDetail(env.Out, form.Saved())
	}
	return exitcode.Success
}
