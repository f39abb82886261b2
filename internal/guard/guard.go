// Package guard decides, for each navigation, whether the requested view
// is rendered or the user is sent elsewhere. The decision depends only on
// the view and on whether a session token is present; nothing is cached.
package guard

// View names a navigable screen.
type View string

const (
	Login    View = "login"
	Register View = "register"
	Profile  View = "profile"
	Tasks    View = "tasks"
	TaskForm View = "task-form"

	// Open views render with or without a session (help, version, logout).
	Open View = "open"
)

// Access classifies a view.
type Access int

const (
	// Unknown views are not recognised and always redirect to login.
	Unknown Access = iota
	// PublicOnly views are for anonymous users (login, register).
	PublicOnly
	// Protected views need a session.
	Protected
	// Public views render regardless of the session.
	Public
)

// AccessOf returns the access class of v.
func AccessOf(v View) Access {
	switch v {
	case Login, Register:
		return PublicOnly
	case Profile, Tasks, TaskForm:
		return Protected
	case Open:
		return Public
	default:
		return Unknown
	}
}

// AuthenticatedHome is where a signed-in user visiting login or register
// is sent.
const AuthenticatedHome = Profile

// Decision is the outcome of a navigation check.
type Decision struct {
	// Render is true when the requested view may be shown.
	Render bool
	// Redirect is the view to show instead when Render is false.
	Redirect View
}

// Allow renders the requested view.
var Allow = Decision{Render: true}

// RedirectTo sends the user to v.
func RedirectTo(v View) Decision {
	return Decision{Redirect: v}
}

// Decide applies the navigation policy:
//
//	login, register          + token    -> profile
//	login, register          + no token -> render
//	profile, tasks, task-form + token    -> render
//	profile, tasks, task-form + no token -> login
//	unrecognised view                     -> login
func Decide(v View, tokenPresent bool) Decision {
	switch AccessOf(v) {
	case PublicOnly:
		if tokenPresent {
			return RedirectTo(AuthenticatedHome)
		}
		return Allow
	case Protected:
		if tokenPresent {
			return Allow
		}
		return RedirectTo(Login)
	case Public:
		return Allow
	default:
		return RedirectTo(Login)
	}
}

// maxHops bounds Resolve. The policy needs at most two decisions
// (unknown -> login -> profile).
const maxHops = 4

// Resolve follows redirects from v until a view renders and returns it.
// If the bound is reached the last redirect target is returned.
func Resolve(v View, tokenPresent bool) View {
	for range maxHops {
		d := Decide(v, tokenPresent)
		if d.Render {
			break
		}
		v = d.Redirect
	}
	return v
}
