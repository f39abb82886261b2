package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"taskcli/internal/controller"
	"taskcli/internal/exitcode"
	"taskcli/internal/guard"
	"taskcli/internal/output"
	"taskcli/internal/service"
	"taskcli/internal/validate"
)

func init() {
	Register(&LoginCmd{})
	Register(&RegisterCmd{})
	Register(&LogoutCmd{})
	Register(&ProfileCmd{})
}

// LoginCmd implements the login command.
type LoginCmd struct {
	email    string
	password string
}

func (c *LoginCmd) Name() string      { return "login" }
func (c *LoginCmd) Aliases() []string { return nil }
func (c *LoginCmd) Synopsis() string  { return "Log in with email and password" }
func (c *LoginCmd) Usage() string     { return "taskcli login --email <email> [--password <password>]" }
func (c *LoginCmd) View() guard.View  { return guard.Login }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.email, "email", "", "")
	fs.StringVar(&c.password, "password", "", "")
}

func (c *LoginCmd) Run(ctx context.Context, env *Env, args []string) int {
	if len(args) > 0 {
		fmt.Fprintf(env.Err, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	password := c.password
	if password == "" {
		var err error
		if password, err = readPassword(env, "password: "); err != nil {
			fmt.Fprintf(env.Err, "error: reading password: %v\n", err)
			return exitcode.UserError
		}
	}

	form := controller.NewLoginForm(env.Deps())
	form.Email = c.email
	form.Password = password

	if _, err := form.Submit(ctx); err != nil {
		if errors.Is(err, controller.ErrInvalidCredentials) {
			fmt.Fprintf(env.Err, "error: %s\n", form.General)
			return exitcode.AuthError
		}
		return report(env.Err, controller.Stay, err)
	}
	return ok(env)
}

// RegisterCmd implements the register command.
type RegisterCmd struct {
	username string
	email    string
	password string
}

func (c *RegisterCmd) Name() string      { return "register" }
func (c *RegisterCmd) Aliases() []string { return []string{"signup"} }
func (c *RegisterCmd) Synopsis() string  { return "Create an account and log in" }
func (c *RegisterCmd) Usage() string {
	return "taskcli register --username <name> --email <email> [--password <password>]"
}
func (c *RegisterCmd) View() guard.View { return guard.Register }

func (c *RegisterCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.username, "username", "", "")
	fs.StringVar(&c.email, "email", "", "")
	fs.StringVar(&c.password, "password", "", "")
}

func (c *RegisterCmd) Run(ctx context.Context, env *Env, args []string) int {
	if len(args) > 0 {
		fmt.Fprintf(env.Err, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	password := c.password
	if password == "" {
		var err error
		if password, err = readPassword(env, "password: "); err != nil {
			fmt.Fprintf(env.Err, "error: reading password: %v\n", err)
			return exitcode.UserError
		}
	}

	form := controller.NewRegisterForm(env.Deps())
	form.Username = c.username
	form.Email = c.email
	form.Password = password

	next, err := form.Submit(ctx)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			return reportForm(env, form.Errors, form.General)
		}
		return report(env.Err, controller.Stay, err)
	}
	if next == guard.Login {
		fmt.Fprintf(env.Err, "%s (run: taskcli login)\n", form.General)
		return exitcode.Success
	}
	return ok(env)
}

// reportForm prints server-side form errors, field by field.
func reportForm(env *Env, errs validate.Errors, general string) int {
	for _, name := range errs.Fields() {
		fmt.Fprintf(env.Err, "error: %s: %s\n", name, errs[name])
	}
	if general != "" {
		fmt.Fprintf(env.Err, "error: %s\n", general)
	}
	return exitcode.UserError
}

// LogoutCmd implements the logout command.
type LogoutCmd struct{}

func (c *LogoutCmd) Name() string      { return "logout" }
func (c *LogoutCmd) Aliases() []string { return nil }
func (c *LogoutCmd) Synopsis() string  { return "End the session and remove the stored token" }
func (c *LogoutCmd) Usage() string     { return "taskcli logout" }
func (c *LogoutCmd) View() guard.View  { return guard.Open }

func (c *LogoutCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *LogoutCmd) Run(ctx context.Context, env *Env, args []string) int {
	if _, ok := env.Session.Token(); !ok {
		if !env.quiet() {
			fmt.Fprintln(env.Out, "not logged in")
		}
		return exitcode.Success
	}

	if _, err := controller.Logout(ctx, env.Deps()); err != nil {
		fmt.Fprintf(env.Err, "error: %v\n", err)
		return exitcode.AuthError
	}
	return ok(env)
}

// ProfileCmd implements the profile command.
type ProfileCmd struct{}

func (c *ProfileCmd) Name() string      { return "profile" }
func (c *ProfileCmd) Aliases() []string { return []string{"whoami"} }
func (c *ProfileCmd) Synopsis() string  { return "Show the logged-in user" }
func (c *ProfileCmd) Usage() string     { return "taskcli profile" }
func (c *ProfileCmd) View() guard.View  { return guard.Profile }

func (c *ProfileCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ProfileCmd) Run(ctx context.Context, env *Env, args []string) int {
	user, next, err := controller.LoadProfile(ctx, env.Deps())
	if err != nil {
		return report(env.Err, next, err)
	}
	output.FormatProfile(env.Out, user)
	return exitcode.Success
}
