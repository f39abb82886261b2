package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"taskcli/internal/guard"
	"taskcli/internal/output"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	selectedStyle = lipgloss.NewStyle().Reverse(true)
	doneStyle     = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	labelStyle    = lipgloss.NewStyle().Width(18)
	helpStyle     = lipgloss.NewStyle().Faint(true).MarginTop(1)
)

func (m *Model) View() string {
	var b strings.Builder

	switch m.view {
	case guard.Login:
		b.WriteString(titleStyle.Render("Log in"))
		b.WriteString("\n")
		m.writeFields(&b)
		m.writeStatus(&b)
		b.WriteString(helpStyle.Render("tab next field | enter log in | ctrl+r register | esc quit"))
	case guard.Register:
		b.WriteString(titleStyle.Render("Register"))
		b.WriteString("\n")
		m.writeFields(&b)
		m.writeStatus(&b)
		b.WriteString(helpStyle.Render("tab next field | enter register | ctrl+l log in | esc quit"))
	case guard.Profile:
		b.WriteString(titleStyle.Render("Profile"))
		b.WriteString("\n")
		if m.busy {
			b.WriteString("Loading...\n")
		} else {
			fmt.Fprintf(&b, "  Username: %s\n  Email:    %s\n", m.user.Username, m.user.Email)
		}
		m.writeStatus(&b)
		b.WriteString(helpStyle.Render("t tasks | o log out | q quit"))
	case guard.Tasks:
		b.WriteString(titleStyle.Render("Tasks"))
		b.WriteString("\n")
		m.writeTasks(&b)
		m.writeStatus(&b)
		b.WriteString(helpStyle.Render("a add | e edit | space toggle | d delete | r refresh | p profile | o log out | q quit"))
	case guard.TaskForm:
		title := "New task"
		if m.formID != 0 {
			title = fmt.Sprintf("Edit task %d", m.formID)
		}
		b.WriteString(titleStyle.Render(title))
		b.WriteString("\n")
		m.writeFields(&b)
		m.writeStatus(&b)
		b.WriteString(helpStyle.Render("tab next field | space toggles done | enter save | esc back"))
	}

	b.WriteString("\n")
	return b.String()
}

func (m *Model) writeFields(b *strings.Builder) {
	for i, f := range m.fields {
		cursor := "  "
		value := f.display()
		if i == m.focus {
			cursor = "> "
			value += "_"
		}
		fmt.Fprintf(b, "%s%s%s\n", cursor, labelStyle.Render(f.label), value)
		if msg := m.errs[f.name]; msg != "" {
			fmt.Fprintf(b, "    %s\n", errorStyle.Render(msg))
		}
	}
}

func (m *Model) writeTasks(b *strings.Builder) {
	if m.busy && len(m.tasks) == 0 {
		b.WriteString("Loading...\n")
		return
	}
	if m.list != nil && !m.list.Loaded() {
		b.WriteString("  Tasks could not be loaded. Press r to retry.\n")
		return
	}
	if len(m.tasks) == 0 {
		b.WriteString("  No tasks yet. Press a to add one.\n")
		return
	}
	for i, t := range m.tasks {
		line := fmt.Sprintf("[%s] %-10s  %s", output.Mark(t.Done), t.DueDate, t.Title)
		if t.Done {
			line = doneStyle.Render(line)
		}
		if i == m.cursor {
			line = selectedStyle.Render(line)
		}
		fmt.Fprintf(b, "  %s\n", line)
	}
}

func (m *Model) writeStatus(b *strings.Builder) {
	if m.status == "" {
		return
	}
	b.WriteString("\n")
	if m.statusErr {
		b.WriteString(errorStyle.Render(m.status))
	} else {
		b.WriteString(statusStyle.Render(m.status))
	}
	b.WriteString("\n")
}
