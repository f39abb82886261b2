package controller

import (
	"context"
	"fmt"
	"sync"

	"taskcli/internal/guard"
	"taskcli/internal/service"
)

// Confirm asks the user whether task may be deleted.
type Confirm func(task service.Task) bool

// TaskList caches the user's tasks and applies deletes and completion
// toggles against the server. It is safe for concurrent use; the terminal
// UI runs its calls off the event loop.
type TaskList struct {
	deps Deps

	mu     sync.Mutex
	tasks  []service.Task
	loaded bool
}

// NewTaskList returns an empty list. Call Activate to populate it.
func NewTaskList(deps Deps) *TaskList {
	return &TaskList{deps: deps}
}

// Tasks returns a copy of the cached tasks in server order.
func (l *TaskList) Tasks() []service.Task {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]service.Task, len(l.tasks))
	copy(out, l.tasks)
	return out
}

// Loaded reports whether at least one fetch has succeeded.
func (l *TaskList) Loaded() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loaded
}

// Find returns the cached task with the given id.
func (l *TaskList) Find(id int64) (service.Task, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.index(id)
	if i < 0 {
		return service.Task{}, false
	}
	return l.tasks[i], true
}

func (l *TaskList) index(id int64) int {
	for i, t := range l.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// Activate replaces the cache with the server's list. On an auth failure
// the session is cleared and guard.Login returned; any other failure keeps
// the session and the previous cache.
func (l *TaskList) Activate(ctx context.Context) (guard.View, error) {
	tasks, err := l.deps.Service.ListTasks(ctx)
	if err != nil {
		return l.deps.afterFailure(err), err
	}
	l.mu.Lock()
	l.tasks = tasks
	l.loaded = true
	l.mu.Unlock()
	l.deps.logger().Debug("tasks loaded", "count", len(tasks))
	return Stay, nil
}

// Delete removes task id after confirm agrees, then refetches the list.
// It reports whether a delete request was sent. A declined confirmation
// sends nothing and leaves the cache as it was.
func (l *TaskList) Delete(ctx context.Context, id int64, confirm Confirm) (bool, guard.View, error) {
	task, ok := l.Find(id)
	if !ok {
		task = service.Task{ID: id}
	}
	if confirm != nil && !confirm(task) {
		return false, Stay, nil
	}

	if err := l.deps.Service.DeleteTask(ctx, id); err != nil {
		return true, l.deps.afterFailure(err), err
	}
	l.deps.logger().Debug("task deleted", "id", id)

	next, err := l.Activate(ctx)
	if err != nil {
		return true, next, fmt.Errorf("task deleted but the list could not be refreshed: %w", err)
	}
	return true, Stay, nil
}

// Toggle flips the completion flag of a cached task with a full replace
// and swaps the server's copy into the cache by id. Other entries are
// left untouched and no refetch happens. On failure the cache is unchanged.
func (l *TaskList) Toggle(ctx context.Context, id int64) (service.Task, guard.View, error) {
	task, ok := l.Find(id)
	if !ok {
		return service.Task{}, Stay, fmt.Errorf("task %d: %w", id, service.ErrNotFound)
	}
	task.Done = !task.Done

	saved, err := l.deps.Service.UpdateTask(ctx, id, task)
	if err != nil {
		return service.Task{}, l.deps.afterFailure(err), err
	}
	if saved.ID == 0 {
		saved.ID = id
	}

	l.mu.Lock()
	if i := l.index(id); i >= 0 {
		l.tasks[i] = saved
	}
	l.mu.Unlock()

	l.deps.logger().Debug("task toggled", "id", id, "done", saved.Done)
	return saved, Stay, nil
}
