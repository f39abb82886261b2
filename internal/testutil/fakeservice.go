// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"sync"

	"taskcli/internal/service"
)

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu     sync.RWMutex
	tasks  []service.Task
	nextID int64
	calls  []string

	// Accounts maps email to password for Login.
	Accounts map[string]string
	// Token is returned by successful Login and Register.
	Token string
	// User is returned by Profile, Login and Register.
	User service.User

	// Error injection for testing
	LoginErr    error
	RegisterErr error
	ProfileErr  error
	LogoutErr   error
	ListErr     error
	GetErr      error
	CreateErr   error
	UpdateErr   error
	DeleteErr   error
}

// NewFakeService creates a FakeService with one account
// (ana@gmail.com / secret123) and no tasks.
func NewFakeService() *FakeService {
	return &FakeService{
		Accounts: map[string]string{"ana@gmail.com": "secret123"},
		Token:    "fake-token",
		User:     service.User{ID: 1, Username: "ana", Email: "ana@gmail.com"},
	}
}

// AddTask stores a task and returns it with its assigned id.
func (f *FakeService) AddTask(title, description, due string, done bool) service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	t := service.Task{ID: f.nextID, Title: title, Description: description, DueDate: due, Done: done}
	f.tasks = append(f.tasks, t)
	return t
}

// Snapshot returns a copy of the stored tasks.
func (f *FakeService) Snapshot() []service.Task {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]service.Task, len(f.tasks))
	copy(out, f.tasks)
	return out
}

// Calls returns the names of the operations invoked so far, in order.
func (f *FakeService) Calls() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallCount returns how many times the named operation was invoked.
func (f *FakeService) CallCount(name string) int {
	n := 0
	for _, c := range f.Calls() {
		if c == name {
			n++
		}
	}
	return n
}

func (f *FakeService) record(name string) {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	f.mu.Unlock()
}

// Login implements service.Service.
func (f *FakeService) Login(ctx context.Context, email, password string) (service.AuthResult, error) {
	f.record("Login")
	if f.LoginErr != nil {
		return service.AuthResult{}, f.LoginErr
	}
	if pw, ok := f.Accounts[email]; !ok || pw != password {
		return service.AuthResult{}, fmt.Errorf("login: %w", service.ErrAuth)
	}
	return service.AuthResult{Token: f.Token, User: f.User}, nil
}

// Register implements service.Service.
func (f *FakeService) Register(ctx context.Context, username, email, password string) (service.AuthResult, error) {
	f.record("Register")
	if f.RegisterErr != nil {
		return service.AuthResult{}, f.RegisterErr
	}
	if _, taken := f.Accounts[email]; taken {
		return service.AuthResult{}, &service.ValidationError{
			Fields: map[string][]string{"email": {"Este correo ya está registrado."}},
		}
	}
	if f.Accounts == nil {
		f.Accounts = make(map[string]string)
	}
	f.Accounts[email] = password
	user := service.User{ID: 2, Username: username, Email: email}
	return service.AuthResult{Token: f.Token, User: user}, nil
}

// Profile implements service.Service.
func (f *FakeService) Profile(ctx context.Context) (service.User, error) {
	f.record("Profile")
	if f.ProfileErr != nil {
		return service.User{}, f.ProfileErr
	}
	return f.User, nil
}

// Logout implements service.Service.
func (f *FakeService) Logout(ctx context.Context) error {
	f.record("Logout")
	return f.LogoutErr
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context) ([]service.Task, error) {
	f.record("ListTasks")
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	return f.Snapshot(), nil
}

// GetTask implements service.Service.
func (f *FakeService) GetTask(ctx context.Context, id int64) (service.Task, error) {
	f.record("GetTask")
	if f.GetErr != nil {
		return service.Task{}, f.GetErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, t := range f.tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return service.Task{}, fmt.Errorf("task %d: %w", id, service.ErrNotFound)
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, task service.Task) (service.Task, error) {
	f.record("CreateTask")
	if f.CreateErr != nil {
		return service.Task{}, f.CreateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	task.ID = f.nextID
	f.tasks = append(f.tasks, task)
	return task, nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, id int64, task service.Task) (service.Task, error) {
	f.record("UpdateTask")
	if f.UpdateErr != nil {
		return service.Task{}, f.UpdateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.tasks {
		if t.ID == id {
			task.ID = id
			f.tasks[i] = task
			return task, nil
		}
	}
	return service.Task{}, fmt.Errorf("task %d: %w", id, service.ErrNotFound)
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id int64) error {
	f.record("DeleteTask")
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("task %d: %w", id, service.ErrNotFound)
}
