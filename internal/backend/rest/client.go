// Package rest implements service.Service against the token-authenticated
// REST backend.
package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"google.golang.org/api/googleapi"

	"taskcli/internal/config"
	"taskcli/internal/gateway"
	"taskcli/internal/logging"
	"taskcli/internal/service"
	"taskcli/internal/session"
)

// Endpoint paths, relative to the base address.
const (
	PathLogin    = "login"
	PathRegister = "registrer" // spelling matches the backend route
	PathProfile  = "profile"
	PathLogout   = "logout"
	PathTasks    = "tareas/"
	PathCreate   = "tareas/crear/"
)

func editPath(id int64) string   { return fmt.Sprintf("tareas/editar/%d/", id) }
func deletePath(id int64) string { return fmt.Sprintf("tareas/eliminar/%d/", id) }

// Doer sends one request and returns the response body.
// *gateway.Client is the production implementation.
type Doer interface {
	Do(ctx context.Context, method, path string, in any) ([]byte, error)
}

// Client implements service.Service on top of the gateway.
type Client struct {
	gw     Doer
	logger *log.Logger
}

// New creates a client for the configured backend. The store is handed to
// the gateway, which reads it on every request.
func New(cfg *config.Config, store session.Store, logger *log.Logger) (*Client, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	gw, err := gateway.New(cfg.BaseURL, store,
		gateway.WithTimeout(cfg.Timeout),
		gateway.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}
	logger.Debug("backend", "base_url", gw.BaseURL())
	return &Client{gw: gw, logger: logger}, nil
}

// NewWithDoer creates a client over an existing gateway (for testing).
func NewWithDoer(gw Doer) *Client {
	return &Client{gw: gw, logger: logging.Discard()}
}

// call sends a request and decodes the body into out when out is non-nil.
func (c *Client) call(ctx context.Context, op, method, path string, in, out any) error {
	data, err := c.gw.Do(ctx, method, path, in)
	if err != nil {
		return wrapError(op, err)
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &service.ProtocolError{Op: op, Err: err}
	}
	return nil
}

// wrapError maps gateway failures onto the service error taxonomy.
func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}

	var nerr *gateway.NetworkError
	if errors.As(err, &nerr) {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%s: request timed out: %w", op, service.ErrNetwork)
		}
		return fmt.Errorf("%s: %w: %w", op, service.ErrNetwork, nerr.Err)
	}

	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return fmt.Errorf("%s: %w", op, err)
	}

	switch gerr.Code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%s: %w", op, service.ErrAuth)
	case http.StatusNotFound:
		return fmt.Errorf("%s: %w", op, service.ErrNotFound)
	case http.StatusBadRequest:
		return parseValidation([]byte(gerr.Body))
	default:
		return fmt.Errorf("%s: server returned %d: %w", op, gerr.Code, err)
	}
}

// generalKeys hold messages that are not bound to a single field.
var generalKeys = map[string]bool{
	"detail":           true,
	"error":            true,
	"message":          true,
	"non_field_errors": true,
}

// parseValidation decodes a rejected payload of the form
// {"field": ["msg", ...], "detail": "msg"}. Anything else yields a
// ValidationError with no fields, which prints a generic message.
func parseValidation(body []byte) *service.ValidationError {
	verr := &service.ValidationError{Fields: map[string][]string{}}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return verr
	}

	var general []string
	for key, value := range raw {
		msgs := messages(value)
		if len(msgs) == 0 {
			continue
		}
		if generalKeys[key] {
			general = append(general, msgs...)
			continue
		}
		verr.Fields[key] = msgs
	}
	verr.Message = strings.Join(general, " ")
	return verr
}

func messages(v any) []string {
	switch v := v.(type) {
	case string:
		return []string{v}
	case []any:
		var out []string
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
