// Package controller holds the view logic shared by the command line and
// the terminal UI: form state, validation, the calls to the service and
// the rules that keep the local task cache consistent with the server.
//
// Controllers never print and never navigate by themselves. Every
// operation returns the view to show next (Stay to remain) together with
// an error for the presentation layer to render.
package controller

import (
	"errors"
	"time"

	"github.com/charmbracelet/log"

	"taskcli/internal/guard"
	"taskcli/internal/logging"
	"taskcli/internal/service"
	"taskcli/internal/session"
)

// Stay means the current view remains on screen.
const Stay guard.View = ""

// Deps are the collaborators shared by every controller. The session
// store is created once at start-up and passed in here; controllers are
// the only code besides the commands that mutate it.
type Deps struct {
	Service service.Service
	Session session.Store
	Logger  *log.Logger

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

func (d Deps) logger() *log.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return logging.Discard()
}

// afterFailure decides where a failed remote call leads. An auth failure
// ends the session and sends the user to login; anything else keeps the
// session and the current view.
func (d Deps) afterFailure(err error) guard.View {
	if !errors.Is(err, service.ErrAuth) {
		return Stay
	}
	if cerr := d.Session.Clear(); cerr != nil {
		d.logger().Warn("failed to clear session", "err", cerr)
	}
	d.logger().Debug("session cleared", "cause", err)
	return guard.Login
}
