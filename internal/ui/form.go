package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"todotrack/internal/tracker"
)

const (
	fieldDescription = iota
	fieldDue
	fieldSkills
	fieldCount
)

// addForm collects a new task. It never touches the tracker itself; the
// parent turns a submitted draft into a mutation.
type addForm struct {
	inputs []textinput.Model
	focus  int
	err    string
}

type formSubmitMsg struct{ draft tracker.Draft }
type formCancelMsg struct{}

func newAddForm() addForm {
	inputs := make([]textinput.Model, fieldCount)

	desc := textinput.New()
	desc.Placeholder = "What needs doing?"
	desc.CharLimit = 200
	desc.Focus()
	inputs[fieldDescription] = desc

	due := textinput.New()
	due.Placeholder = "YYYY-MM-DD (optional)"
	due.CharLimit = 10
	inputs[fieldDue] = due

	skills := textinput.New()
	skills.Placeholder = "comma, separated, skills"
	skills.CharLimit = 200
	inputs[fieldSkills] = skills

	return addForm{inputs: inputs}
}

func (f addForm) Init() tea.Cmd {
	return textinput.Blink
}

func (f addForm) Update(msg tea.Msg) (addForm, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return f, func() tea.Msg { return formCancelMsg{} }
		case "tab", "down":
			return f.setFocus((f.focus + 1) % fieldCount)
		case "shift+tab", "up":
			return f.setFocus((f.focus + fieldCount - 1) % fieldCount)
		case "enter":
			if strings.TrimSpace(f.inputs[fieldDescription].Value()) == "" {
				f.err = tracker.ErrEmptyDescription.Error()
				return f.setFocus(fieldDescription)
			}
			draft := f.draft()
			return f, func() tea.Msg { return formSubmitMsg{draft: draft} }
		}
		f.err = ""
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

func (f addForm) setFocus(i int) (addForm, tea.Cmd) {
	f.focus = i
	var cmd tea.Cmd
	for j := range f.inputs {
		if j == i {
			cmd = f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
	return f, cmd
}

func (f addForm) draft() tracker.Draft {
	return tracker.Draft{
		Description: f.inputs[fieldDescription].Value(),
		DueDate:     f.inputs[fieldDue].Value(),
		Skills:      f.inputs[fieldSkills].Value(),
	}
}

func (f addForm) View() string {
	labels := [fieldCount]string{"Description", "Due date", "Skills"}

	var b strings.Builder
	b.WriteString(titleStyle.Render("New task"))
	b.WriteString("\n\n")
	for i, in := range f.inputs {
		b.WriteString(labelStyle.Render(labels[i]))
		b.WriteString("\n")
		b.WriteString(in.View())
		b.WriteString("\n\n")
	}
	if f.err != "" {
		b.WriteString(errorStyle.Render(f.err))
		b.WriteString("\n")
	}
	b.WriteString(labelStyle.Render("enter save • tab next field • esc cancel"))
	return formStyle.Render(b.String())
}
