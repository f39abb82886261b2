package commands

import (
	"context"
	"flag"
	"fmt"
	"strconv"

	"taskcli/internal/controller"
	"taskcli/internal/exitcode"
	"taskcli/internal/guard"
	"taskcli/internal/output"
	"taskcli/internal/validate"
)

func init() {
	Register(&EditCmd{})
}

// optional is a string flag that remembers whether it was given.
type optional struct {
	value string
	set   bool
}

func (o *optional) String() string { return o.value }

func (o *optional) Set(v string) error {
	o.value, o.set = v, true
	return nil
}

// optionalBool is an optional flag that may be given bare (--done).
type optionalBool struct{ optional }

func (o *optionalBool) IsBoolFlag() bool { return true }

func (o *optionalBool) Set(v string) error {
	if _, err := strconv.ParseBool(v); err != nil {
		return fmt.Errorf("invalid boolean value %q", v)
	}
	return o.optional.Set(v)
}

// EditCmd implements the edit command. Only the given fields change; the
// task is then sent back whole.
type EditCmd struct {
	title optional
	desc  optional
	due   optional
	done  optionalBool
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return nil }
func (c *EditCmd) Synopsis() string  { return "Change a task" }
func (c *EditCmd) Usage() string {
	return "taskcli edit [--title <title>] [--desc <text>] [--due <YYYY-MM-DD>] [--done[=bool]] <id>"
}
func (c *EditCmd) View() guard.View { return guard.TaskForm }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	*c = EditCmd{}
	fs.Var(&c.title, "title", "")
	fs.Var(&c.title, "t", "")
	fs.Var(&c.desc, "desc", "")
	fs.Var(&c.desc, "d", "")
	fs.Var(&c.due, "due", "")
	fs.Var(&c.done, "done", "")
}

func (c *EditCmd) Run(ctx context.Context, env *Env, args []string) int {
	id, err := ParseTaskID(args)
	if err != nil {
		fmt.Fprintf(env.Err, "error: %v\n", err)
		return exitcode.UserError
	}

	form := controller.NewTaskForm(env.Deps(), id)
	if next, err := form.Load(ctx); err != nil {
		return report(env.Err, next, err)
	}

	changes := []struct {
		name string
		opt  *optional
	}{
		{validate.FieldTitle, &c.title},
		{validate.FieldDescription, &c.desc},
		{validate.FieldDueDate, &c.due},
		{controller.FieldDone, &c.done.optional},
	}
	changed := false
	for _, ch := range changes {
		if !ch.opt.set {
			continue
		}
		if err := form.Change(ch.name, ch.opt.value); err != nil {
			fmt.Fprintf(env.Err, "error: %v\n", err)
			return exitcode.UserError
		}
		changed = true
	}
	if !changed {
		fmt.Fprintln(env.Err, "error: nothing to change")
		return exitcode.UserError
	}

	if next, err := form.Submit(ctx); err != nil {
		return report(env.Err, next, err)
	}
	if !env.quiet() {
		output.FormatTaskDetail(env.Out, form.Saved())
	}
	return exitcode.Success
}
