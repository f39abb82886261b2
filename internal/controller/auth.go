package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"taskcli/internal/guard"
	"taskcli/internal/service"
	"taskcli/internal/validate"
)

// Messages shown when a login or registration attempt fails as a whole.
const (
	MsgInvalidCredentials = "invalid email or password"
	MsgRegisterFailed     = "registration failed, check the highlighted fields"
	MsgUnreachable        = "could not reach the server, try again"
	MsgRegisteredNoToken  = "registered, please log in"
)

// ErrInvalidCredentials is returned by LoginForm.Submit when the server
// rejects the email and password. It wraps service.ErrAuth.
var ErrInvalidCredentials = fmt.Errorf("%s: %w", MsgInvalidCredentials, service.ErrAuth)

// LoginForm authenticates with email and password and persists the token.
type LoginForm struct {
	deps Deps

	Email    string
	Password string

	Errors validate.Errors
	// General is the message not bound to a field.
	General string
}

// NewLoginForm returns an empty login form.
func NewLoginForm(deps Deps) *LoginForm {
	return &LoginForm{deps: deps, Errors: validate.Errors{}}
}

// Change sets one field and revalidates it.
func (f *LoginForm) Change(field, value string) error {
	switch field {
	case validate.FieldEmail:
		f.Email = value
		f.Errors.Set(field, validate.Email(value))
	case validate.FieldPassword:
		f.Password = value
		f.Errors.Set(field, validate.Password(value))
	default:
		return fmt.Errorf("unknown field: %s", field)
	}
	return nil
}

// Submit logs in and stores the token. Nothing is persisted on failure.
// A rejected login returns ErrInvalidCredentials with General set.
func (f *LoginForm) Submit(ctx context.Context) (guard.View, error) {
	f.General = ""
	f.Errors = validate.Login(f.Email, f.Password)
	if !f.Errors.OK() {
		return Stay, &validate.Error{Errors: f.Errors}
	}

	res, err := f.deps.Service.Login(ctx, strings.TrimSpace(f.Email), f.Password)
	switch {
	case errors.Is(err, service.ErrAuth):
		f.General = MsgInvalidCredentials
		return Stay, ErrInvalidCredentials
	case errors.Is(err, service.ErrNetwork):
		f.General = MsgUnreachable
		return Stay, err
	case err != nil:
		f.General = err.Error()
		return Stay, err
	}

	if err := f.deps.Session.SetToken(res.Token); err != nil {
		return Stay, fmt.Errorf("saving session: %w", err)
	}
	f.deps.logger().Debug("logged in", "user", res.User.Username)
	return guard.Tasks, nil
}

// RegisterForm creates an account and persists the issued token.
type RegisterForm struct {
	deps Deps

	Username string
	Email    string
	Password string

	Errors  validate.Errors
	General string
}

// NewRegisterForm returns an empty register form.
func NewRegisterForm(deps Deps) *RegisterForm {
	return &RegisterForm{deps: deps, Errors: validate.Errors{}}
}

// Change sets one field and revalidates it.
func (f *RegisterForm) Change(field, value string) error {
	switch field {
	case validate.FieldUsername:
		f.Username = value
		f.Errors.Set(field, validate.Username(value))
	case validate.FieldEmail:
		f.Email = value
		f.Errors.Set(field, validate.Email(value))
	case validate.FieldPassword:
		f.Password = value
		f.Errors.Set(field, validate.Password(value))
	default:
		return fmt.Errorf("unknown field: %s", field)
	}
	return nil
}

// Submit registers the account. Field errors from the server are copied
// into Errors; on success the token is stored and guard.Profile returned.
// A response without a token leaves the session alone and returns
// guard.Login with General set.
func (f *RegisterForm) Submit(ctx context.Context) (guard.View, error) {
	f.General = ""
	f.Errors = validate.Register(f.Username, f.Email, f.Password)
	if !f.Errors.OK() {
		return Stay, &validate.Error{Errors: f.Errors}
	}

	res, err := f.deps.Service.Register(ctx, strings.TrimSpace(f.Username), strings.TrimSpace(f.Email), f.Password)
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			for name := range verr.Fields {
				f.Errors.Set(name, verr.Field(name))
			}
			f.General = verr.Message
			if f.General == "" {
				f.General = MsgRegisterFailed
			}
		case errors.Is(err, service.ErrNetwork):
			f.General = MsgUnreachable
		default:
			f.General = err.Error()
		}
		return Stay, err
	}

	if res.Token == "" {
		f.General = MsgRegisteredNoToken
		f.deps.logger().Debug("registered without a token", "user", res.User.Username)
		return guard.Login, nil
	}
	if err := f.deps.Session.SetToken(res.Token); err != nil {
		return Stay, fmt.Errorf("saving session: %w", err)
	}
	f.deps.logger().Debug("registered", "user", res.User.Username)
	return guard.Profile, nil
}

// LoadProfile fetches the current user. An auth failure clears the
// session and returns guard.Login.
func LoadProfile(ctx context.Context, deps Deps) (service.User, guard.View, error) {
	user, err := deps.Service.Profile(ctx)
	if err != nil {
		return service.User{}, deps.afterFailure(err), err
	}
	return user, Stay, nil
}

// Logout asks the server to invalidate the token and clears the local
// session whatever the server answered. The server error, if any, is
// logged and not returned.
func Logout(ctx context.Context, deps Deps) (guard.View, error) {
	if _, ok := deps.Session.Token(); ok {
		if err := deps.Service.Logout(ctx); err != nil {
			deps.logger().Warn("server logout failed", "err", err)
		}
	}
	if err := deps.Session.Clear(); err != nil {
		return guard.Login, fmt.Errorf("clearing session: %w", err)
	}
	return guard.Login, nil
}
