package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrAuth means the token is missing, invalid or expired, or the
	// credentials were rejected. Callers clear the session and re-authenticate.
	ErrAuth = errors.New("authentication failed")

	// ErrNotFound means the requested task does not exist for this user.
	ErrNotFound = errors.New("not found")

	// ErrNetwork means the request could not complete.
	ErrNetwork = errors.New("network error")
)

// ValidationError is a payload rejected by the server. Fields maps a field
// name to its messages; Message holds errors not bound to a field.
type ValidationError struct {
	Fields  map[string][]string
	Message string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		if e.Message == "" {
			return "request rejected by server"
		}
		return e.Message
	}

	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names)+1)
	if e.Message != "" {
		parts = append(parts, e.Message)
	}
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, strings.Join(e.Fields[name], " ")))
	}
	return strings.Join(parts, "; ")
}

// Field returns the first message for a field, or "".
func (e *ValidationError) Field(name string) string {
	if msgs := e.Fields[name]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// ProtocolError is a response the client could not understand.
type ProtocolError struct {
	Op  string
	Err error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%s: unexpected response: %v", e.Op, e.Err)
}

func (e *ProtocolError) Unwrap() error { return e.Err }
