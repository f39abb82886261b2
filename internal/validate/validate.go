// Package validate holds the client-side field rules for the task, login
// and register forms. Rules never touch the network; the server remains
// the trust boundary.
package validate

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode"

	"taskcli/internal/service"
)

// Field names. Task fields use the backend's wire names so that server
// field errors land on the same keys.
const (
	FieldTitle       = "titulo"
	FieldDescription = "descripcion"
	FieldDueDate     = "fecha_vence"
	FieldUsername    = "username"
	FieldEmail       = "email"
	FieldPassword    = "password"
)

// MinPasswordLen is the shortest password the forms accept.
const MinPasswordLen = 8

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@(gmail|hotmail|outlook|yahoo)\.com$`)

// isSpace is unicode.IsSpace plus the byte-order mark.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}

// Errors maps a field name to its message. A field with no entry is valid.
type Errors map[string]string

// Set records msg for field, or removes the field when msg is empty.
func (e Errors) Set(field, msg string) {
	if msg == "" {
		delete(e, field)
		return
	}
	e[field] = msg
}

// OK reports whether no field has an error.
func (e Errors) OK() bool {
	return len(e) == 0
}

// Fields returns the names of the failing fields, sorted.
func (e Errors) Fields() []string {
	names := make([]string, 0, len(e))
	for name := range e {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Error is returned when a submit is blocked by failing fields.
type Error struct {
	Errors Errors
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, name := range e.Errors.Fields() {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e.Errors[name]))
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// text applies the shared rule for title and description: required, and
// no whitespace at the start or the end. Interior whitespace is fine.
func text(value, label string) string {
	trimmed := strings.TrimFunc(value, isSpace)
	if trimmed == "" {
		return label + " is required"
	}
	if trimmed != value {
		return label + " must not start or end with whitespace"
	}
	return ""
}

// Title validates a task title.
func Title(value string) string {
	return text(value, "title")
}

// Description validates a task description.
func Description(value string) string {
	return text(value, "description")
}

// DueDate validates a due date against today's calendar date in today's
// location. A date equal to today is accepted.
func DueDate(value string, today time.Time) string {
	if value == "" {
		return "due date is required"
	}
	due, err := time.ParseInLocation(service.DateLayout, value, today.Location())
	if err != nil {
		return "due date must be a date in YYYY-MM-DD format"
	}
	y, m, d := today.Date()
	if due.Before(time.Date(y, m, d, 0, 0, 0, 0, today.Location())) {
		return "due date cannot be earlier than today"
	}
	return ""
}

// Task validates every field of a task draft.
func Task(t service.Task, today time.Time) Errors {
	errs := Errors{}
	errs.Set(FieldTitle, Title(t.Title))
	errs.Set(FieldDescription, Description(t.Description))
	errs.Set(FieldDueDate, DueDate(t.DueDate, today))
	return errs
}

// Email validates a login or register email address.
func Email(value string) string {
	if value == "" {
		return "email is required"
	}
	if !emailPattern.MatchString(value) {
		return "enter a valid gmail, hotmail, outlook or yahoo address"
	}
	return ""
}

// Password validates a login or register password.
func Password(value string) string {
	if value == "" {
		return "password is required"
	}
	if len([]rune(value)) < MinPasswordLen {
		return fmt.Sprintf("password must be at least %d characters", MinPasswordLen)
	}
	return ""
}

// Username validates a register username.
func Username(value string) string {
	return text(value, "username")
}

// Login validates the login form.
func Login(email, password string) Errors {
	errs := Errors{}
	errs.Set(FieldEmail, Email(email))
	errs.Set(FieldPassword, Password(password))
	return errs
}

// Register validates the register form.
func Register(username, email, password string) Errors {
	errs := Login(email, password)
	errs.Set(FieldUsername, Username(username))
	return errs
}
