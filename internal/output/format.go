// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"todotrack/internal/service"
	"todotrack/internal/views"
)

const (
	// ListSeparator is the separator line for list sections.
	ListSeparator = "------------"

	// BarWidth is the number of cells in the progress bar.
	BarWidth = 20
)

// FormatTask formats a task line.
// Format: "{N:>4}  [{MARK}] {DESCRIPTION}[  due {DATE}][  ({SKILLS})]\n"
func FormatTask(w io.Writer, num int, task service.Task) {
	var b strings.Builder
	fmt.Fprintf(&b, "%4d  [%s] %s", num, StatusMark(task.Status), normalizeDescription(task.Description))
	if task.DueDate != "" {
		fmt.Fprintf(&b, "  due %s", task.DueDate)
	}
	if len(task.Skills) > 0 {
		fmt.Fprintf(&b, "  (%s)", strings.Join(task.Skills, ", "))
	}
	fmt.Fprintln(w, b.String())
}

// StatusMark returns the one-character status box content.
func StatusMark(s service.Status) string {
	switch s {
	case service.StatusCompleted:
		return "x"
	case service.StatusInProgress:
		return "~"
	}
	return " "
}

// FormatFilterHeader formats the section header shown above a filtered list.
func FormatFilterHeader(w io.Writer, f views.Filter) {
	if f == "" {
		return
	}
	fmt.Fprintln(w, ListSeparator)
	fmt.Fprintf(w, "%s tasks\n", strings.ToUpper(string(f[:1]))+string(f[1:]))
	fmt.Fprintln(w, ListSeparator)
}

// FormatProgress formats the completion summary.
func FormatProgress(w io.Writer, p views.Progress) {
	fmt.Fprintf(w, "Total:      %d\n", p.Total)
	fmt.Fprintf(w, "Completed:  %d\n", p.Completed)
	fmt.Fprintf(w, "Pending:    %d\n", p.Pending)
	fmt.Fprintf(w, "Progress:   %s %d%%\n", ProgressBar(p.Percent, BarWidth), p.Percent)
}

// ProgressBar renders percent as a bar of width cells.
func ProgressBar(percent, width int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := percent * width / 100
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

// FormatSkills formats one skill per line.
func FormatSkills(w io.Writer, skills []string) {
	for _, s := range skills {
		fmt.Fprintln(w, s)
	}
}

// normalizeDescription normalizes a task description for display.
// - Empty or whitespace-only descriptions become "(untitled)"
// - Newlines are replaced with spaces
func normalizeDescription(desc string) string {
	desc = strings.ReplaceAll(desc, "\r", " ")
	desc = strings.ReplaceAll(desc, "\n", " ")

	if strings.TrimSpace(desc) == "" {
		return "(untitled)"
	}
	return desc
}
