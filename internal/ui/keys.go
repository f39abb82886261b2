package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"taskcli/internal/controller"
	"taskcli/internal/guard"
	"taskcli/internal/service"
)

type changer interface {
	Change(field, value string) error
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.confirming == 0 {
		m.status = ""
	}
	switch m.view {
	case guard.Tasks:
		return m.tasksKey(msg)
	case guard.Profile:
		return m.profileKey(msg)
	case guard.Login, guard.Register, guard.TaskForm:
		return m.formKey(msg)
	}
	return nil
}

func (m *Model) tasksKey(msg tea.KeyMsg) tea.Cmd {
	if m.confirming != 0 {
		id := m.confirming
		m.confirming = 0
		if msg.String() != "y" {
			m.setStatus("delete cancelled")
			return nil
		}
		list := m.list
		return m.run(resultDeleted, func(ctx context.Context) (resultMsg, error) {
			_, next, err := list.Delete(ctx, id, nil)
			return resultMsg{next: next}, err
		})
	}

	switch msg.String() {
	case "q", "esc":
		return tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
		}
	case "r", "f5":
		return m.navigate(guard.Tasks)
	case "a", "n":
		m.formID = 0
		return m.navigate(guard.TaskForm)
	case "e", "enter":
		if task, ok := m.selected(); ok {
			m.formID = task.ID
			return m.navigate(guard.TaskForm)
		}
	case " ", "x":
		if task, ok := m.selected(); ok {
			list := m.list
			return m.run(resultToggled, func(ctx context.Context) (resultMsg, error) {
				_, next, err := list.Toggle(ctx, task.ID)
				return resultMsg{next: next}, err
			})
		}
	case "d", "delete":
		if task, ok := m.selected(); ok {
			m.confirming = task.ID
			m.setStatus("delete \"" + task.Title + "\"? y/N")
		}
	case "p":
		return m.navigate(guard.Profile)
	case "o":
		return m.logout()
	}
	return nil
}

func (m *Model) profileKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q":
		return tea.Quit
	case "t", "esc":
		return m.navigate(guard.Tasks)
	case "o":
		return m.logout()
	}
	return nil
}

func (m *Model) logout() tea.Cmd {
	deps := m.deps
	return m.run(resultLogout, func(ctx context.Context) (resultMsg, error) {
		next, err := controller.Logout(ctx, deps)
		return resultMsg{next: next}, err
	})
}

func (m *Model) formKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "tab", "down":
		m.focus = (m.focus + 1) % len(m.fields)
		return nil
	case "shift+tab", "up":
		m.focus = (m.focus + len(m.fields) - 1) % len(m.fields)
		return nil
	case "enter":
		return m.submit()
	case "esc":
		if m.view == guard.TaskForm {
			return m.navigate(guard.Tasks)
		}
		return tea.Quit
	case "ctrl+r":
		if m.view == guard.Login {
			return m.navigate(guard.Register)
		}
	case "ctrl+l":
		if m.view == guard.Register {
			return m.navigate(guard.Login)
		}
	}

	f := m.fields[m.focus]
	if !f.edit(msg) {
		return nil
	}
	if c := m.changer(); c != nil {
		if err := c.Change(f.name, f.String()); err != nil {
			m.setError(err)
		}
		m.syncForm()
	}
	return nil
}

func (m *Model) changer() changer {
	switch m.view {
	case guard.Login:
		return m.login
	case guard.Register:
		return m.register
	case guard.TaskForm:
		return m.form
	}
	return nil
}

func (m *Model) submit() tea.Cmd {
	var op func(ctx context.Context) (guard.View, error)
	switch m.view {
	case guard.Login:
		op = m.login.Submit
	case guard.Register:
		op = m.register.Submit
	case guard.TaskForm:
		op = m.form.Submit
	default:
		return nil
	}
	return m.run(resultSubmitted, func(ctx context.Context) (resultMsg, error) {
		next, err := op(ctx)
		return resultMsg{next: next}, err
	})
}

func (m *Model) selected() (service.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.tasks) {
		return service.Task{}, false
	}
	return m.tasks[m.cursor], true
}
