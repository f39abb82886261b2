package commands

import (
	"errors"
	"fmt"
	"io"

	"google.golang.org/api/googleapi"

	"taskcli/internal/exitcode"
	"taskcli/internal/guard"
	"taskcli/internal/service"
	"taskcli/internal/validate"
)

// loginHint is printed whenever a command ends on the login view.
const loginHint = "run: taskcli login"

// report prints err as one or more "error:" lines and returns the exit code
// for it. next is the view the controller asked for; guard.Login always
// exits with AuthError.
func report(w io.Writer, next guard.View, err error) int {
	var (
		ferr *validate.Error
		verr *service.ValidationError
		perr *service.ProtocolError
		gerr *googleapi.Error
	)
	switch {
	case next == guard.Login || errors.Is(err, service.ErrAuth):
		fmt.Fprintf(w, "error: session expired or invalid (%s)\n", loginHint)
		return exitcode.AuthError
	case errors.As(err, &ferr):
		for _, name := range ferr.Errors.Fields() {
			fmt.Fprintf(w, "error: %s: %s\n", name, ferr.Errors[name])
		}
		return exitcode.UserError
	case errors.Is(err, service.ErrNotFound):
		fmt.Fprintln(w, "error: task not found")
		return exitcode.UserError
	case errors.As(err, &verr):
		fmt.Fprintf(w, "error: rejected by server: %v\n", verr)
		return exitcode.UserError
	case errors.Is(err, service.ErrNetwork):
		fmt.Fprintf(w, "error: %v\n", err)
		return exitcode.BackendError
	case errors.As(err, &gerr):
		fmt.Fprintf(w, "error: backend error: server returned %d\n", gerr.Code)
		return exitcode.BackendError
	case errors.As(err, &perr):
		fmt.Fprintf(w, "error: unexpected response from server: %v\n", perr.Err)
		return exitcode.BackendError
	default:
		fmt.Fprintf(w, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}
}

// ok prints the success marker unless quiet.
func ok(env *Env) int {
	if !env.quiet() {
		fmt.Fprintln(env.Out, "ok")
	}
	return exitcode.Success
}
