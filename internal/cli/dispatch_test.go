package cli_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"taskcli/internal/cli"
	"taskcli/internal/commands"
	"taskcli/internal/config"
	"taskcli/internal/exitcode"
	"taskcli/internal/service"
	"taskcli/internal/session"
	"taskcli/internal/testutil"
)

// testFactory creates a service factory that returns the given FakeService.
func testFactory(svc *testutil.FakeService) cli.ServiceFactory {
	return func(ctx context.Context, cfg *config.Config, store session.Store, logger *log.Logger) (service.Service, error) {
		return svc, nil
	}
}

type result struct {
	code   int
	stdout string
	stderr string
}

func run(t *testing.T, svc *testutil.FakeService, stdin string, args ...string) result {
	t.Helper()
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc))

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), args, cli.Streams{
		In:  strings.NewReader(stdin),
		Out: &stdout,
		Err: &stderr,
	})
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

// loggedIn returns a config dir holding a session token.
func loggedIn(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	store, err := session.OpenFile(filepath.Join(dir, config.TokenFile))
	if err != nil {
		t.Fatal(err)
	}
	if err := store.SetToken("tok"); err != nil {
		t.Fatal(err)
	}
	return dir
}

func tokenExists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, config.TokenFile))
	return err == nil
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	r := run(t, testutil.NewFakeService(), "", "unknowncmd", "--config", t.TempDir())

	if r.code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, r.code)
	}
	expected := "error: unknown command: unknowncmd\nnot logged in (run: taskcli login)\n"
	if r.stderr != expected {
		t.Errorf("expected %q, got %q", expected, r.stderr)
	}
}

func TestDispatcher_UnknownCommandLoggedIn(t *testing.T) {
	r := run(t, testutil.NewFakeService(), "", "unknowncmd", "--config", loggedIn(t), "--bogus")

	if r.code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, r.code)
	}
	expected := "error: unknown command: unknowncmd\n"
	if r.stderr != expected {
		t.Errorf("expected %q, got %q", expected, r.stderr)
	}
}

func TestDispatcher_FlagBeforeCommand(t *testing.T) {
	r := run(t, testutil.NewFakeService(), "", "--quiet")

	if r.code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, r.code)
	}
	expected := "error: unknown command: --quiet\n"
	if r.stderr != expected {
		t.Errorf("expected %q, got %q", expected, r.stderr)
	}
}

func TestDispatcher_HelpCommand(t *testing.T) {
	r := run(t, testutil.NewFakeService(), "", "help", "--config", t.TempDir())

	if r.code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, r.code)
	}
	if r.stderr != "" {
		t.Errorf("expected no stderr, got %q", r.stderr)
	}
	if !strings.Contains(r.stdout, "Usage:") {
		t.Error("expected help output to contain 'Usage:'")
	}
}

func TestDispatcher_VersionCommand(t *testing.T) {
	r := run(t, testutil.NewFakeService(), "", "version", "--config", t.TempDir())

	if r.code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, r.code)
	}
	if r.stdout != "taskcli "+commands.Version+"\n" {
		t.Errorf("unexpected version output %q", r.stdout)
	}
}

func TestDispatcher_FlagErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown flag", []string{"tasks", "--bogus"}, "error: unknown flag: -bogus\n"},
		{"missing value", []string{"add", "--title"}, "error: flag needs an argument: -title\n"},
		{"bad base url", []string{"help", "--base-url", "ftp://x"}, "error: invalid base url: \"ftp://x\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{tt.args[0], "--config", t.TempDir()}, tt.args[1:]...)
			r := run(t, testutil.NewFakeService(), "", args...)
			if r.code != exitcode.UserError {
				t.Errorf("expected exit code %d, got %d", exitcode.UserError, r.code)
			}
			if r.stderr != tt.want {
				t.Errorf("expected %q, got %q", tt.want, r.stderr)
			}
		})
	}
}

func TestDispatcher_NoArgsWithoutSession(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	svc := testutil.NewFakeService()
	r := run(t, svc, "")

	if r.code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, r.code)
	}
	if r.stderr != "error: not logged in (run: taskcli login)\n" {
		t.Errorf("unexpected stderr %q", r.stderr)
	}
	if len(svc.Calls()) != 0 {
		t.Errorf("expected no backend calls, got %v", svc.Calls())
	}
}

func TestDispatcher_ProtectedCommandsNeedSession(t *testing.T) {
	for _, name := range []string{"tasks", "ls", "add", "edit", "done", "rm", "profile"} {
		t.Run(name, func(t *testing.T) {
			r := run(t, testutil.NewFakeService(), "", name, "--config", t.TempDir())
			if r.code != exitcode.AuthError {
				t.Errorf("expected exit code %d, got %d", exitcode.AuthError, r.code)
			}
		})
	}
}

func TestDispatcher_TasksWithSession(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("Buy milk", "2 liters", "2099-01-01", false)
	svc.AddTask("Ship", "v1", "2099-02-01", true)

	r := run(t, svc, "", "tasks", "--config", loggedIn(t))
	if r.code != exitcode.Success {
		t.Fatalf("exit %d: %s", r.code, r.stderr)
	}
	testutil.GoldenString(t, "tasks", r.stdout)

	r = run(t, svc, "", "tasks", "--pending", "--config", loggedIn(t))
	if strings.Contains(r.stdout, "Ship") {
		t.Errorf("--pending listed a done task:\n%s", r.stdout)
	}
}

func TestDispatcher_LoginWhileLoggedInShowsProfile(t *testing.T) {
	svc := testutil.NewFakeService()
	r := run(t, svc, "", "login", "--config", loggedIn(t), "--email", "x@gmail.com")

	if r.code != exitcode.Success {
		t.Fatalf("exit %d: %s", r.code, r.stderr)
	}
	if !strings.Contains(r.stdout, "username: ana") {
		t.Errorf("expected profile output, got %q", r.stdout)
	}
	if svc.CallCount("Login") != 0 {
		t.Error("login was attempted while logged in")
	}
}

func TestDispatcher_LoginPersistsSession(t *testing.T) {
	svc := testutil.NewFakeService()
	dir := t.TempDir()

	r := run(t, svc, "secret123\n", "login", "--config", dir, "--email", "ana@gmail.com")
	if r.code != exitcode.Success {
		t.Fatalf("exit %d: %s", r.code, r.stderr)
	}
	if !tokenExists(dir) {
		t.Fatal("token not saved")
	}

	r = run(t, svc, "", "tasks", "--config", dir)
	if r.code != exitcode.Success {
		t.Errorf("tasks after login: exit %d: %s", r.code, r.stderr)
	}
}

func TestDispatcher_FailedLogin(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.Accounts["a@gmail.com"] = "rightpass"
	dir := t.TempDir()

	r := run(t, svc, "", "login", "--config", dir, "--email", "a@gmail.com", "--password", "wrongpass")
	if r.code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, r.code)
	}
	if r.stderr != "error: invalid email or password\n" {
		t.Errorf("unexpected stderr %q", r.stderr)
	}
	if tokenExists(dir) {
		t.Error("token saved after failed login")
	}
}

func TestDispatcher_ExpiredSession(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.ListErr = service.ErrAuth
	dir := loggedIn(t)

	r := run(t, svc, "", "tasks", "--config", dir)
	if r.code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, r.code)
	}
	if tokenExists(dir) {
		t.Error("expired token kept")
	}
}

func TestDispatcher_NetworkErrorKeepsSession(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.ListErr = service.ErrNetwork
	dir := loggedIn(t)

	r := run(t, svc, "", "tasks", "--config", dir)
	if r.code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, r.code)
	}
	if !tokenExists(dir) {
		t.Error("token removed on network error")
	}
}

func TestDispatcher_Logout(t *testing.T) {
	svc := testutil.NewFakeService()
	dir := loggedIn(t)

	r := run(t, svc, "", "logout", "--config", dir)
	if r.code != exitcode.Success || r.stdout != "ok\n" {
		t.Fatalf("exit %d stdout %q stderr %q", r.code, r.stdout, r.stderr)
	}
	if tokenExists(dir) {
		t.Error("token not removed")
	}

	r = run(t, svc, "", "logout", "--config", dir)
	if r.stdout != "not logged in\n" {
		t.Errorf("second logout printed %q", r.stdout)
	}
}

func TestDispatcher_AddEditDoneRm(t *testing.T) {
	svc := testutil.NewFakeService()
	dir := loggedIn(t)

	r := run(t, svc, "", "add", "--config", dir, "--desc", "2 liters", "--due", "2099-01-01", "Buy", "milk")
	if r.code != exitcode.Success {
		t.Fatalf("add: exit %d: %s", r.code, r.stderr)
	}
	task := svc.Snapshot()[0]
	if task.Title != "Buy milk" {
		t.Errorf("title = %q", task.Title)
	}

	r = run(t, svc, "", "edit", "--config", dir, "--title", "Buy oat milk", "1")
	if r.code != exitcode.Success {
		t.Fatalf("edit: exit %d: %s", r.code, r.stderr)
	}
	if got := svc.Snapshot()[0]; got.Title != "Buy oat milk" || got.Description != "2 liters" {
		t.Errorf("after edit: %+v", got)
	}

	r = run(t, svc, "", "done", "--config", dir, "--quiet", "#1")
	if r.code != exitcode.Success || !svc.Snapshot()[0].Done {
		t.Fatalf("done: exit %d: %s", r.code, r.stderr)
	}

	r = run(t, svc, "n\n", "rm", "--config", dir, "1")
	if r.code != exitcode.UserError || len(svc.Snapshot()) != 1 {
		t.Fatalf("declined rm: exit %d, tasks %d", r.code, len(svc.Snapshot()))
	}

	r = run(t, svc, "y\n", "rm", "--config", dir, "1")
	if r.code != exitcode.Success || len(svc.Snapshot()) != 0 {
		t.Fatalf("rm: exit %d: %s", r.code, r.stderr)
	}
}

func TestDispatcher_AddValidation(t *testing.T) {
	svc := testutil.NewFakeService()
	r := run(t, svc, "", "add", "--config", loggedIn(t), "--desc", "x", "--due", "2000-01-01", "--title", " padded")

	if r.code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, r.code)
	}
	want := "error: fecha_vence: due date cannot be earlier than today\n" +
		"error: titulo: title must not start or end with whitespace\n"
	if r.stderr != want {
		t.Errorf("expected %q, got %q", want, r.stderr)
	}
	if svc.CallCount("CreateTask") != 0 {
		t.Error("invalid task was sent")
	}
}

func TestDispatcher_RmUnknownTask(t *testing.T) {
	r := run(t, testutil.NewFakeService(), "", "rm", "--config", loggedIn(t), "--yes", "9")
	if r.code != exitcode.UserError || r.stderr != "error: task not found\n" {
		t.Errorf("exit %d stderr %q", r.code, r.stderr)
	}
}
