// Package service defines the backend-agnostic interface for auth and task operations.
package service

// Task represents a single task owned by the authenticated user.
// The JSON names are the backend's wire names.
type Task struct {
	ID          int64  `json:"id,omitempty"`
	Title       string `json:"titulo"`
	Description string `json:"descripcion"`
	DueDate     string `json:"fecha_vence"` // YYYY-MM-DD
	Done        bool   `json:"estado"`
}

// HasID reports whether the server has assigned an identifier.
func (t Task) HasID() bool {
	return t.ID != 0
}

// User is the identity of the authenticated user.
type User struct {
	ID       int64  `json:"id,omitempty"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// AuthResult is returned by login and register.
type AuthResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// DateLayout is the calendar date format used for due dates.
const DateLayout = "2006-01-02"
