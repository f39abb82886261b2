// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, failed field validation,
	// declined confirmation, unknown task id).
	UserError = 1

	// AuthError indicates a missing or rejected session. Every redirect to
	// the login view exits with this code.
	AuthError = 2

	// BackendError indicates a backend, network or protocol error.
	BackendError = 3
)
