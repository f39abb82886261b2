package commands

import (
	"context"
	"flag"
	"fmt"

	"taskcli/internal/exitcode"
	"taskcli/internal/guard"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "taskcli help" }
func (c *HelpCmd) View() guard.View  { return guard.Open }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, env *Env, args []string) int {
	fmt.Fprint(env.Out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  taskcli                                            List tasks
  taskcli tasks [common flags] [--pending]           List tasks (aliases: list, ls)
  taskcli add [common flags] --desc <text> --due <YYYY-MM-DD> [--done] <title...>
  taskcli edit [common flags] [--title <t>] [--desc <d>] [--due <date>] [--done[=bool]] <id>
  taskcli done [common flags] <id>                   Toggle done/pending (alias: toggle)
  taskcli rm [common flags] [--yes] <id>
  taskcli ui [common flags]                          Interactive terminal UI
  taskcli login [common flags] --email <email> [--password <password>]
  taskcli register [common flags] --username <name> --email <email> [--password <password>]
  taskcli profile [common flags]
  taskcli logout [common flags]
  taskcli help
  taskcli version

Passwords not given as flags are read from standard input.

Common flags:
  --config <dir>     Override config directory
  --base-url <url>   Override the backend address
  --quiet            Suppress informational output
  --debug            Print debug logs to stderr
`
