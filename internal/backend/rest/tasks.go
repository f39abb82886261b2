package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"taskcli/internal/service"
)

// taskBody is the request body for create and update. The id is never sent.
type taskBody struct {
	Title       string `json:"titulo"`
	Description string `json:"descripcion"`
	DueDate     string `json:"fecha_vence"`
	Done        bool   `json:"estado"`
}

func bodyOf(t service.Task) taskBody {
	return taskBody{
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		Done:        t.Done,
	}
}

// fetch sends a request whose response is a task payload and decodes it
// after checking it against schema.
func (c *Client) fetch(ctx context.Context, op, method, path string, in any, schema *jsonschema.Schema, out any) error {
	data, err := c.gw.Do(ctx, method, path, in)
	if err != nil {
		return wrapError(op, err)
	}
	if err := checkPayload(op, schema, data); err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &service.ProtocolError{Op: op, Err: err}
	}
	return nil
}

// ListTasks implements service.Service.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	var tasks []service.Task
	if err := c.fetch(ctx, "list tasks", http.MethodGet, PathTasks, nil, tasksSchema, &tasks); err != nil {
		return nil, err
	}
	c.logger.Debug("tasks loaded", "count", len(tasks))
	return tasks, nil
}

// GetTask implements service.Service.
// The backend has no single-task endpoint, so the task is looked up in the
// full collection; an id absent from it is ErrNotFound.
func (c *Client) GetTask(ctx context.Context, id int64) (service.Task, error) {
	tasks, err := c.ListTasks(ctx)
	if err != nil {
		return service.Task{}, err
	}
	for _, t := range tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return service.Task{}, fmt.Errorf("task %d: %w", id, service.ErrNotFound)
}

// CreateTask implements service.Service.
func (c *Client) CreateTask(ctx context.Context, task service.Task) (service.Task, error) {
	var created service.Task
	if err := c.fetch(ctx, "create task", http.MethodPost, PathCreate, bodyOf(task), taskSchema, &created); err != nil {
		return service.Task{}, err
	}
	c.logger.Debug("task created", "id", created.ID)
	return created, nil
}

// UpdateTask implements service.Service.
// Every field is sent: the update replaces the stored task.
func (c *Client) UpdateTask(ctx context.Context, id int64, task service.Task) (service.Task, error) {
	var updated service.Task
	op := fmt.Sprintf("update task %d", id)
	if err := c.fetch(ctx, op, http.MethodPut, editPath(id), bodyOf(task), taskSchema, &updated); err != nil {
		return service.Task{}, err
	}
	return updated, nil
}

// DeleteTask implements service.Service.
func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	return c.call(ctx, fmt.Sprintf("delete task %d", id), http.MethodDelete, deletePath(id), nil, nil)
}
