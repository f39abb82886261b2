package controller

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"taskcli/internal/guard"
	"taskcli/internal/service"
	"taskcli/internal/validate"
)

// ErrSaveFailed is returned by TaskForm.Submit when the server call fails.
// The draft is left as it was so the user can retry.
var ErrSaveFailed = errors.New("could not save the task, try again")

// FieldDone is the completion checkbox. It has no validation rule.
const FieldDone = "estado"

// Mode is the state of a task form.
type Mode int

const (
	// Creating is a form with no identifier bound.
	Creating Mode = iota
	// Editing is a form bound to an existing task.
	Editing
)

// TaskForm holds a draft task and validates it field by field.
type TaskForm struct {
	deps Deps
	id   int64

	// Draft is the task being edited.
	Draft service.Task
	// Errors is recomputed on every change and on submit.
	Errors validate.Errors

	saved service.Task
}

// NewTaskForm returns a form for a new task when id is 0, otherwise a form
// editing task id. Call Load before editing.
func NewTaskForm(deps Deps, id int64) *TaskForm {
	return &TaskForm{deps: deps, id: id, Errors: validate.Errors{}}
}

// Mode reports whether the form creates or edits.
func (f *TaskForm) Mode() Mode {
	if f.id == 0 {
		return Creating
	}
	return Editing
}

// ID returns the bound identifier, or 0 when creating.
func (f *TaskForm) ID() int64 {
	return f.id
}

// Saved returns the server's copy of the task after a successful Submit.
func (f *TaskForm) Saved() service.Task {
	return f.saved
}

// Load hydrates the draft from the server when editing. A task that does
// not exist is reported as service.ErrNotFound rather than an empty form.
func (f *TaskForm) Load(ctx context.Context) (guard.View, error) {
	if f.Mode() == Creating {
		return Stay, nil
	}
	task, err := f.deps.Service.GetTask(ctx, f.id)
	if err != nil {
		return f.deps.afterFailure(err), err
	}
	f.Draft = task
	f.Errors = validate.Errors{}
	return Stay, nil
}

// Change sets one field of the draft and revalidates that field.
func (f *TaskForm) Change(field, value string) error {
	today := f.deps.now()
	switch field {
	case validate.FieldTitle:
		f.Draft.Title = value
		f.Errors.Set(field, validate.Title(value))
	case validate.FieldDescription:
		f.Draft.Description = value
		f.Errors.Set(field, validate.Description(value))
	case validate.FieldDueDate:
		f.Draft.DueDate = value
		f.Errors.Set(field, validate.DueDate(value, today))
	case FieldDone:
		done, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %q", field, value)
		}
		f.Draft.Done = done
	default:
		return fmt.Errorf("unknown field: %s", field)
	}
	return nil
}

// Valid revalidates every field and reports whether the draft may be sent.
func (f *TaskForm) Valid() bool {
	f.Errors = validate.Task(f.Draft, f.deps.now())
	return f.Errors.OK()
}

// Submit validates the whole draft and, if every field passes, creates or
// fully replaces the task. On success it returns guard.Tasks.
//
// Failing fields return *validate.Error and issue no request. A failed
// request returns an error wrapping ErrSaveFailed and the cause; field
// errors reported by the server are merged into Errors.
func (f *TaskForm) Submit(ctx context.Context) (guard.View, error) {
	if !f.Valid() {
		return Stay, &validate.Error{Errors: f.Errors}
	}

	var (
		saved service.Task
		err   error
	)
	if f.Mode() == Creating {
		saved, err = f.deps.Service.CreateTask(ctx, f.Draft)
	} else {
		draft := f.Draft
		draft.ID = f.id
		saved, err = f.deps.Service.UpdateTask(ctx, f.id, draft)
	}
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			for name := range verr.Fields {
				f.Errors.Set(name, verr.Field(name))
			}
		}
		return f.deps.afterFailure(err), fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}

	f.saved = saved
	f.deps.logger().Debug("task saved", "id", saved.ID, "mode", f.Mode())
	return guard.Tasks, nil
}
