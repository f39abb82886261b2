package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"taskcli/internal/controller"
	"taskcli/internal/validate"
)

// field is a single-line text input.
type field struct {
	name   string
	label  string
	value  []rune
	secret bool
	// toggle fields hold "true" or "false" and flip on space.
	toggle bool
}

func (f *field) String() string {
	return string(f.value)
}

func (f *field) display() string {
	switch {
	case f.toggle:
		if f.String() == "true" {
			return "[x]"
		}
		return "[ ]"
	case f.secret:
		return strings.Repeat("*", len(f.value))
	}
	return f.String()
}

// edit applies a key to the field and reports whether the value changed.
func (f *field) edit(msg tea.KeyMsg) bool {
	if f.toggle {
		if msg.String() != " " {
			return false
		}
		if f.String() == "true" {
			f.value = []rune("false")
		} else {
			f.value = []rune("true")
		}
		return true
	}

	switch msg.Type {
	case tea.KeyBackspace:
		if len(f.value) == 0 {
			return false
		}
		f.value = f.value[:len(f.value)-1]
		return true
	case tea.KeyCtrlU:
		f.value = nil
		return true
	case tea.KeyRunes, tea.KeySpace:
		f.value = append(f.value, msg.Runes...)
		if msg.Type == tea.KeySpace && len(msg.Runes) == 0 {
			f.value = append(f.value, ' ')
		}
		return true
	}
	return false
}

func loginFields() []*field {
	return []*field{
		{name: validate.FieldEmail, label: "Email"},
		{name: validate.FieldPassword, label: "Password", secret: true},
	}
}

func registerFields() []*field {
	return []*field{
		{name: validate.FieldUsername, label: "Username"},
		{name: validate.FieldEmail, label: "Email"},
		{name: validate.FieldPassword, label: "Password", secret: true},
	}
}

func taskFields() []*field {
	return []*field{
		{name: validate.FieldTitle, label: "Title"},
		{name: validate.FieldDescription, label: "Description"},
		{name: validate.FieldDueDate, label: "Due (YYYY-MM-DD)"},
		{name: controller.FieldDone, label: "Done", toggle: true, value: []rune("false")},
	}
}
