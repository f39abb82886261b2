// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"taskcli/internal/service"
)

// Separator is drawn under the task table header.
const Separator = "------------"

// Check marks used in the status column.
const (
	MarkDone = "x"
	MarkOpen = " "
)

// FormatTaskHeader writes the column header for FormatTask lines.
func FormatTaskHeader(w io.Writer) {
	fmt.Fprintf(w, "%4s  %-3s  %-10s  %s\n", "ID", "", "DUE", "TITLE")
	fmt.Fprintln(w, Separator)
}

// FormatTask formats a task line.
// Format: "{ID:>4}  [{x| }]  {DUE}  {TITLE}\n"
func FormatTask(w io.Writer, task service.Task) {
	fmt.Fprintf(w, "%4d  [%s]  %-10s  %s\n", task.ID, Mark(task.Done), task.DueDate, normalize(task.Title))
}

// FormatTaskDetail writes every field of one task, one per line.
func FormatTaskDetail(w io.Writer, task service.Task) {
	fmt.Fprintf(w, "id:          %d\n", task.ID)
	fmt.Fprintf(w, "title:       %s\n", normalize(task.Title))
	fmt.Fprintf(w, "description: %s\n", normalize(task.Description))
	fmt.Fprintf(w, "due:         %s\n", task.DueDate)
	fmt.Fprintf(w, "done:        %t\n", task.Done)
}

// FormatProfile writes the signed-in user's identity.
func FormatProfile(w io.Writer, user service.User) {
	fmt.Fprintf(w, "username: %s\n", user.Username)
	fmt.Fprintf(w, "email:    %s\n", user.Email)
}

// Mark returns the status column value for done.
func Mark(done bool) string {
	if done {
		return MarkDone
	}
	return MarkOpen
}

// normalize makes a free-text value printable on one line.
// - Empty or whitespace-only values become "(untitled)"
// - Newlines are replaced with spaces
func normalize(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	if strings.TrimSpace(s) == "" {
		return "(untitled)"
	}
	return s
}
