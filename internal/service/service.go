package service

import "context"

// Service defines the interface for backend operations.
// All REST calls go through this interface; commands, controllers and the
// TUI never talk HTTP directly.
type Service interface {
	// Login exchanges credentials for a session token.
	// Returns ErrAuth when the server rejects the credentials.
	Login(ctx context.Context, email, password string) (AuthResult, error)

	// Register creates an account and returns its session token.
	// Returns *ValidationError when the server reports field conflicts.
	Register(ctx context.Context, username, email, password string) (AuthResult, error)

	// Profile returns the identity bound to the current token.
	Profile(ctx context.Context) (User, error)

	// Logout revokes the current token on the server.
	Logout(ctx context.Context) error

	// ListTasks returns the full task collection in server order.
	ListTasks(ctx context.Context) ([]Task, error)

	// GetTask returns a single task, or ErrNotFound.
	GetTask(ctx context.Context, id int64) (Task, error)

	// CreateTask creates a task. Any ID on the input is ignored.
	CreateTask(ctx context.Context, task Task) (Task, error)

	// UpdateTask replaces every field of the task with the given id.
	UpdateTask(ctx context.Context, id int64, task Task) (Task, error)

	// DeleteTask deletes a task. A missing id returns ErrNotFound.
	DeleteTask(ctx context.Context, id int64) error
}
