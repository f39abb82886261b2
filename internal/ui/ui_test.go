package ui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"taskcli/internal/controller"
	"taskcli/internal/guard"
	"taskcli/internal/service"
	"taskcli/internal/session"
	"taskcli/internal/testutil"
)

func newModel(t *testing.T, svc *testutil.FakeService, token string) (*Model, session.Store) {
	t.Helper()
	store := session.NewMemoryStore(token)
	deps := controller.Deps{
		Service: svc,
		Session: store,
		Now:     func() time.Time { return time.Date(2024, 5, 10, 9, 0, 0, 0, time.Local) },
	}
	return New(context.Background(), deps), store
}

// drain runs cmd and feeds its messages back into the model until no
// command is left.
func drain(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	for i := 0; cmd != nil; i++ {
		if i > 10 {
			t.Fatal("too many chained commands")
		}
		msg := cmd()
		if _, quit := msg.(tea.QuitMsg); quit {
			return
		}
		_, cmd = m.Update(msg)
	}
}

func press(t *testing.T, m *Model, key tea.KeyMsg) {
	t.Helper()
	_, cmd := m.Update(key)
	drain(t, m, cmd)
}

func typeText(t *testing.T, m *Model, s string) {
	t.Helper()
	press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestStartWithoutSessionShowsLogin(t *testing.T) {
	m, _ := newModel(t, testutil.NewFakeService(), "")
	drain(t, m, m.Init())

	if m.Current() != guard.Login {
		t.Errorf("expected login, got %q", m.Current())
	}
}

func TestLoginThenTasks(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("Buy milk", "2 liters", "2099-01-01", false)
	m, store := newModel(t, svc, "")
	drain(t, m, m.Init())

	typeText(t, m, "ana@gmail.com")
	press(t, m, keyTab)
	typeText(t, m, "secret123")
	press(t, m, keyEnter)

	if m.Current() != guard.Tasks {
		t.Fatalf("expected tasks, got %q (status %q)", m.Current(), m.status)
	}
	if tok, _ := store.Token(); tok != "fake-token" {
		t.Errorf("token = %q", tok)
	}
	if len(m.tasks) != 1 {
		t.Errorf("expected 1 task, got %d", len(m.tasks))
	}
}

func TestFailedLoginStays(t *testing.T) {
	svc := testutil.NewFakeService()
	m, store := newModel(t, svc, "")
	drain(t, m, m.Init())

	typeText(t, m, "a@gmail.com")
	press(t, m, keyTab)
	typeText(t, m, "wrongpass")
	press(t, m, keyEnter)

	if m.Current() != guard.Login {
		t.Errorf("expected to stay on login, got %q", m.Current())
	}
	if m.status != controller.MsgInvalidCredentials {
		t.Errorf("status = %q", m.status)
	}
	if _, ok := store.Token(); ok {
		t.Error("token stored after failed login")
	}
}

func TestGuardOnNavigation(t *testing.T) {
	m, _ := newModel(t, testutil.NewFakeService(), "tok")
	drain(t, m, m.navigate(guard.Login))
	if m.Current() != guard.Profile {
		t.Errorf("signed-in user sent to %q, want profile", m.Current())
	}

	m, _ = newModel(t, testutil.NewFakeService(), "")
	drain(t, m, m.navigate(guard.TaskForm))
	if m.Current() != guard.Login {
		t.Errorf("anonymous user sent to %q, want login", m.Current())
	}

	drain(t, m, m.navigate(guard.View("settings")))
	if m.Current() != guard.Login {
		t.Errorf("unknown view sent to %q, want login", m.Current())
	}
}

func TestUnknownViewWithSession(t *testing.T) {
	m, _ := newModel(t, testutil.NewFakeService(), "tok")
	drain(t, m, m.navigate(guard.View("settings")))
	if m.Current() != guard.Profile {
		t.Errorf("signed-in user on unknown view sent to %q, want profile", m.Current())
	}
	if m.login != nil {
		t.Error("login form built for a signed-in user")
	}
}

func TestRegisterWithoutTokenGoesToLogin(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.Token = ""
	m, store := newModel(t, svc, "")
	drain(t, m, m.navigate(guard.Register))

	typeText(t, m, "bob")
	press(t, m, keyTab)
	typeText(t, m, "bob@yahoo.com")
	press(t, m, keyTab)
	typeText(t, m, "password1")
	press(t, m, keyEnter)

	if m.Current() != guard.Login {
		t.Fatalf("expected login, got %q (status %q)", m.Current(), m.status)
	}
	if m.status != controller.MsgRegisteredNoToken || m.statusErr {
		t.Errorf("status = %q (error %v)", m.status, m.statusErr)
	}
	if _, ok := store.Token(); ok {
		t.Error("session set without a token")
	}
}

func TestStaleResultDropped(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("A", "a", "2099-01-01", false)
	m, _ := newModel(t, svc, "tok")

	load := m.Init()
	staleGen := m.Generation()
	profile := m.navigate(guard.Profile)

	_, cmd := m.Update(load())
	if cmd != nil {
		t.Error("stale result produced a command")
	}
	if m.Current() != guard.Profile || m.Generation() == staleGen {
		t.Fatalf("stale result changed the view: %q gen %d", m.Current(), m.Generation())
	}
	if len(m.tasks) != 0 {
		t.Error("stale task list applied")
	}

	drain(t, m, profile)
	if m.user.Username != "ana" {
		t.Errorf("profile not loaded: %+v", m.user)
	}
}

func TestAuthFailureReturnsToLogin(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.ListErr = service.ErrAuth
	m, store := newModel(t, svc, "tok")
	drain(t, m, m.Init())

	if m.Current() != guard.Login {
		t.Errorf("expected login, got %q", m.Current())
	}
	if _, ok := store.Token(); ok {
		t.Error("session not cleared")
	}
}

func TestNetworkFailureKeepsSession(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.ListErr = service.ErrNetwork
	m, store := newModel(t, svc, "tok")
	drain(t, m, m.Init())

	if m.Current() != guard.Tasks {
		t.Errorf("expected to stay on tasks, got %q", m.Current())
	}
	if !m.statusErr || m.status == "" {
		t.Error("expected an error status")
	}
	if _, ok := store.Token(); !ok {
		t.Error("session cleared on network error")
	}
	if view := m.View(); !strings.Contains(view, "could not be loaded") {
		t.Errorf("failed fetch rendered as:\n%s", view)
	}

	svc.ListErr = nil
	typeText(t, m, "r")
	if view := m.View(); !strings.Contains(view, "No tasks yet") {
		t.Errorf("after retry:\n%s", view)
	}
}

func TestToggleAndDelete(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("A", "a", "2099-01-01", false)
	svc.AddTask("B", "b", "2099-01-01", false)
	m, _ := newModel(t, svc, "tok")
	drain(t, m, m.Init())

	press(t, m, keySpace)
	if !m.tasks[0].Done {
		t.Error("first task not toggled")
	}

	press(t, m, runeKey("d"))
	if m.confirming == 0 {
		t.Fatal("delete did not ask for confirmation")
	}
	press(t, m, runeKey("n"))
	if len(svc.Snapshot()) != 2 {
		t.Fatal("declined delete removed a task")
	}

	press(t, m, runeKey("d"))
	press(t, m, runeKey("y"))
	if got := len(m.tasks); got != 1 {
		t.Errorf("expected 1 task after delete, got %d", got)
	}
	if m.tasks[0].Title != "B" {
		t.Errorf("wrong task deleted: %+v", m.tasks)
	}
}

func TestAddTaskForm(t *testing.T) {
	svc := testutil.NewFakeService()
	m, _ := newModel(t, svc, "tok")
	drain(t, m, m.Init())

	press(t, m, runeKey("a"))
	if m.Current() != guard.TaskForm {
		t.Fatalf("expected task form, got %q", m.Current())
	}

	typeText(t, m, " Buy")
	if m.errs["titulo"] == "" {
		t.Error("expected live validation error on title")
	}
	press(t, m, tea.KeyMsg{Type: tea.KeyCtrlU})
	typeText(t, m, "Buy")
	if m.errs["titulo"] != "" {
		t.Errorf("error not cleared: %q", m.errs["titulo"])
	}

	press(t, m, keyTab)
	typeText(t, m, "2 liters")
	press(t, m, keyTab)
	typeText(t, m, "2024-05-10")
	press(t, m, keyEnter)

	if m.Current() != guard.Tasks {
		t.Fatalf("expected tasks after save, got %q (status %q)", m.Current(), m.status)
	}
	if len(m.tasks) != 1 || m.tasks[0].Title != "Buy" {
		t.Errorf("tasks = %+v", m.tasks)
	}
}

func TestEditFormLoadsDraft(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("Old", "desc", "2099-01-01", true)
	m, _ := newModel(t, svc, "tok")
	drain(t, m, m.Init())

	press(t, m, runeKey("e"))
	if m.Current() != guard.TaskForm {
		t.Fatalf("expected task form, got %q", m.Current())
	}
	if got := m.fields[0].String(); got != "Old" {
		t.Errorf("title field = %q", got)
	}
	if got := m.fields[3].String(); got != "true" {
		t.Errorf("done field = %q", got)
	}
}

func TestLogoutFromProfile(t *testing.T) {
	svc := testutil.NewFakeService()
	m, store := newModel(t, svc, "tok")
	drain(t, m, m.navigate(guard.Profile))

	press(t, m, runeKey("o"))
	if m.Current() != guard.Login {
		t.Errorf("expected login, got %q", m.Current())
	}
	if _, ok := store.Token(); ok {
		t.Error("session not cleared")
	}
}
