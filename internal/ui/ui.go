// Package ui provides the interactive terminal interface.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"taskcli/internal/controller"
	"taskcli/internal/guard"
	"taskcli/internal/logging"
	"taskcli/internal/service"
	"taskcli/internal/validate"
)

// Run starts the terminal UI and blocks until the user quits.
func Run(ctx context.Context, deps controller.Deps) error {
	program := tea.NewProgram(New(ctx, deps), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}

// Model is the bubbletea model. One view is shown at a time; every switch
// goes through guard.Decide and bumps the generation, so results of calls
// started for an earlier view are dropped when they arrive.
type Model struct {
	ctx  context.Context
	deps controller.Deps

	view guard.View
	gen  uint64
	busy bool

	status    string
	statusErr bool

	// login, register and task form
	fields   []*field
	focus    int
	errs     validate.Errors
	general  string
	login    *controller.LoginForm
	register *controller.RegisterForm
	form     *controller.TaskForm
	formID   int64

	// tasks
	list       *controller.TaskList
	tasks      []service.Task
	cursor     int
	confirming int64

	// profile
	user service.User
}

// resultMsg carries the outcome of a remote call back to the event loop.
type resultMsg struct {
	gen  uint64
	kind resultKind
	next guard.View
	err  error
	user service.User
}

type resultKind int

const (
	resultLoaded resultKind = iota
	resultSubmitted
	resultToggled
	resultDeleted
	resultProfile
	resultLogout
)

// New returns a model that starts on the task list, or wherever the
// guard sends an anonymous user.
func New(ctx context.Context, deps controller.Deps) *Model {
	if deps.Logger == nil {
		deps.Logger = logging.Discard()
	}
	return &Model{ctx: ctx, deps: deps, errs: validate.Errors{}}
}

// Current returns the screen on display.
func (m *Model) Current() guard.View {
	return m.view
}

// Generation returns the current view generation.
func (m *Model) Generation() uint64 {
	return m.gen
}

func (m *Model) Init() tea.Cmd {
	return m.navigate(guard.Tasks)
}

func (m *Model) tokenPresent() bool {
	_, ok := m.deps.Session.Token()
	return ok
}

// navigate shows v, or the view the guard redirects to, and returns the
// command that loads its data.
func (m *Model) navigate(v guard.View) tea.Cmd {
	v = guard.Resolve(v, m.tokenPresent())

	m.gen++
	m.view = v
	m.busy = false
	m.fields = nil
	m.focus = 0
	m.errs = validate.Errors{}
	m.general = ""
	m.confirming = 0

	switch v {
	case guard.Login:
		m.login = controller.NewLoginForm(m.deps)
		m.fields = loginFields()
	case guard.Register:
		m.register = controller.NewRegisterForm(m.deps)
		m.fields = registerFields()
	case guard.Profile:
		return m.run(resultProfile, func(ctx context.Context) (resultMsg, error) {
			user, next, err := controller.LoadProfile(ctx, m.deps)
			return resultMsg{next: next, user: user}, err
		})
	case guard.Tasks:
		m.list = controller.NewTaskList(m.deps)
		m.tasks = nil
		list := m.list
		return m.run(resultLoaded, func(ctx context.Context) (resultMsg, error) {
			next, err := list.Activate(ctx)
			return resultMsg{next: next}, err
		})
	case guard.TaskForm:
		m.form = controller.NewTaskForm(m.deps, m.formID)
		m.fields = taskFields()
		if m.form.Mode() == controller.Editing {
			form := m.form
			return m.run(resultLoaded, func(ctx context.Context) (resultMsg, error) {
				next, err := form.Load(ctx)
				return resultMsg{next: next}, err
			})
		}
	}
	return nil
}

// run executes op off the event loop, tagged with the current generation.
func (m *Model) run(kind resultKind, op func(ctx context.Context) (resultMsg, error)) tea.Cmd {
	m.busy = true
	gen := m.gen
	ctx := m.ctx
	return func() tea.Msg {
		msg, err := op(ctx)
		msg.gen = gen
		msg.kind = kind
		msg.err = err
		return msg
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.busy {
			return m, nil
		}
		return m, m.handleKey(msg)
	case resultMsg:
		if msg.gen != m.gen {
			m.deps.Logger.Debug("dropping stale result", "gen", msg.gen, "current", m.gen)
			return m, nil
		}
		m.busy = false
		return m, m.handleResult(msg)
	}
	return m, nil
}

func (m *Model) handleResult(msg resultMsg) tea.Cmd {
	m.syncForm()
	if msg.err != nil {
		m.setError(msg.err)
		if msg.next != controller.Stay {
			return m.navigate(msg.next)
		}
		return nil
	}

	switch msg.kind {
	case resultProfile:
		m.user = msg.user
	case resultLoaded, resultToggled, resultDeleted:
		if m.list != nil && m.view == guard.Tasks {
			m.tasks = m.list.Tasks()
			if m.cursor >= len(m.tasks) {
				m.cursor = max(len(m.tasks)-1, 0)
			}
		}
		if msg.kind == resultToggled {
			m.setStatus("task updated")
		}
		if msg.kind == resultDeleted {
			m.setStatus("task deleted")
		}
		if m.view == guard.TaskForm && m.form != nil {
			m.loadDraft()
		}
	case resultSubmitted, resultLogout:
		m.status = ""
		var notice string
		if m.view == guard.Register && m.register != nil {
			notice = m.register.General
		}
		cmd := m.navigate(msg.next)
		if notice != "" {
			m.setStatus(notice)
		}
		return cmd
	}
	return nil
}

func (m *Model) setStatus(s string) {
	m.status, m.statusErr = s, false
}

func (m *Model) setError(err error) {
	var ferr *validate.Error
	switch {
	case errors.As(err, &ferr):
		m.status = "fix the highlighted fields"
	case errors.Is(err, service.ErrAuth) && m.view != guard.Login:
		m.status = "session expired, log in again"
	case m.general != "":
		m.status = m.general
	default:
		m.status = err.Error()
	}
	m.statusErr = true
}

// syncForm copies the controller's error state for rendering. Controllers
// are only read here, on the event loop, after their call has returned.
func (m *Model) syncForm() {
	var (
		errs    validate.Errors
		general string
	)
	switch {
	case m.view == guard.Login && m.login != nil:
		errs, general = m.login.Errors, m.login.General
	case m.view == guard.Register && m.register != nil:
		errs, general = m.register.Errors, m.register.General
	case m.view == guard.TaskForm && m.form != nil:
		errs = m.form.Errors
	default:
		return
	}
	m.errs = validate.Errors{}
	for k, v := range errs {
		m.errs[k] = v
	}
	m.general = general
}

func (m *Model) loadDraft() {
	d := m.form.Draft
	values := map[string]string{
		validate.FieldTitle:       d.Title,
		validate.FieldDescription: d.Description,
		validate.FieldDueDate:     d.DueDate,
		controller.FieldDone:      fmt.Sprint(d.Done),
	}
	for _, f := range m.fields {
		f.value = []rune(values[f.name])
	}
}
