// Package ui is the interactive terminal front end.
//
// The bubbletea Update loop is the only goroutine that touches the tracker's
// store. Remote calls run as commands and come back as messages, where they
// are settled.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"todotrack/internal/output"
	"todotrack/internal/service"
	"todotrack/internal/tracker"
	"todotrack/internal/views"
)

// StatusTimeout is how long a reminder status line stays visible.
const StatusTimeout = 5 * time.Second

type mode int

const (
	modeList mode = iota
	modeAdd
	modeConfirmDelete
	modeError
)

type loadedMsg struct{ res tracker.LoadResult }

type committedMsg struct{ p *tracker.Pending }

type reminderMsg struct {
	text string
	err  error
}

type clearStatusMsg struct{ seq int }

// AppModel is the root bubbletea model.
type AppModel struct {
	ctx context.Context
	tr  *tracker.Tracker

	mode    mode
	loading bool
	filter  views.Filter
	cursor  int

	form      addForm
	deleteID  string
	modal     string
	warning   string
	status    string
	statusSeq int
	sending   bool

	keys keyMap
	help help.Model

	width  int
	height int
}

// NewApp creates the root model. The tracker is loaded by Init.
func NewApp(ctx context.Context, tr *tracker.Tracker) AppModel {
	return AppModel{
		ctx:     ctx,
		tr:      tr,
		loading: true,
		filter:  views.FilterAll,
		keys:    defaultKeys(),
		help:    help.New(),
	}
}

// Run starts the UI and blocks until the user quits.
func Run(ctx context.Context, tr *tracker.Tracker, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	_, err := tea.NewProgram(NewApp(ctx, tr), opts...).Run()
	return err
}

func (m AppModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m AppModel) loadCmd() tea.Cmd {
	ctx, tr := m.ctx, m.tr
	return func() tea.Msg {
		return loadedMsg{res: tr.Fetch(ctx)}
	}
}

func (m AppModel) commitCmd(p *tracker.Pending) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		p.Commit(ctx)
		return committedMsg{p: p}
	}
}

func (m AppModel) reminderCmd(kind service.ReminderType) tea.Cmd {
	ctx, tr := m.ctx, m.tr
	return func() tea.Msg {
		text, err := tr.SendReminder(ctx, kind)
		return reminderMsg{text: text, err: err}
	}
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case loadedMsg:
		m.loading = false
		m.tr.ApplyLoad(m.ctx, msg.res)
		m.warning = ""
		if msg.res.Err != nil && msg.res.Source != tracker.SourceNone {
			m.warning = fmt.Sprintf("%s Showing %s data. Press r to retry.", msg.res.Message(), msg.res.Source)
		}
		m.clampCursor()
		return m, nil

	case committedMsg:
		res := m.tr.Settle(m.ctx, msg.p)
		if res.Outcome == tracker.Reverted {
			m.showModal(res.Message())
		}
		m.clampCursor()
		return m, nil

	case reminderMsg:
		m.sending = false
		text := msg.text
		if msg.err != nil {
			text = msg.err.Error()
		}
		cmd := m.setStatus(text)
		return m, cmd

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
		}
		return m, nil

	case formSubmitMsg:
		return m.submitAdd(msg.draft)

	case formCancelMsg:
		m.mode = modeList
		return m, nil
	}

	switch m.mode {
	case modeAdd:
		var cmd tea.Cmd
		m.form, cmd = m.form.Update(msg)
		return m, cmd
	case modeConfirmDelete:
		return m.updateConfirm(msg)
	case modeError:
		return m.updateModal(msg)
	}
	return m.updateList(msg)
}

func (m AppModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	if m.loading {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < len(m.visible())-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, m.keys.Filter):
		m.filter = m.filter.Next()
		m.clampCursor()
	case key.Matches(keyMsg, m.keys.Toggle):
		task, ok := m.selected()
		if !ok {
			return m, nil
		}
		p, err := m.tr.BeginToggle(m.ctx, task.ID)
		if err != nil {
			m.showModal(err.Error())
			return m, nil
		}
		m.clampCursor()
		return m, m.commitCmd(p)
	case key.Matches(keyMsg, m.keys.Delete):
		task, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.deleteID = task.ID
		m.mode = modeConfirmDelete
	case key.Matches(keyMsg, m.keys.Add):
		m.form = newAddForm()
		m.mode = modeAdd
		return m, m.form.Init()
	case key.Matches(keyMsg, m.keys.Morning):
		return m.sendReminder(service.ReminderMorning)
	case key.Matches(keyMsg, m.keys.Evening):
		return m.sendReminder(service.ReminderEvening)
	case key.Matches(keyMsg, m.keys.Retry):
		m.loading = true
		return m, m.loadCmd()
	}
	return m, nil
}

func (m AppModel) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "y", "Y":
		m.mode = modeList
		p, err := m.tr.BeginDelete(m.ctx, m.deleteID)
		m.deleteID = ""
		if err != nil {
			m.showModal(err.Error())
			return m, nil
		}
		m.clampCursor()
		return m, m.commitCmd(p)
	case "n", "N", "esc", "q":
		m.mode = modeList
		m.deleteID = ""
	}
	return m, nil
}

func (m AppModel) updateModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "enter", "esc", " ":
		m.modal = ""
		m.mode = modeList
	case "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m AppModel) submitAdd(d tracker.Draft) (tea.Model, tea.Cmd) {
	p, err := m.tr.BeginAdd(m.ctx, d)
	if err != nil {
		m.form.err = err.Error()
		return m, nil
	}
	m.mode = modeList
	m.filter = views.FilterAll
	m.cursor = 0
	return m, m.commitCmd(p)
}

func (m AppModel) sendReminder(kind service.ReminderType) (tea.Model, tea.Cmd) {
	if m.sending {
		return m, nil
	}
	m.sending = true
	m.status = fmt.Sprintf("Sending %s reminder...", kind)
	return m, m.reminderCmd(kind)
}

// setStatus shows text and schedules it to clear after StatusTimeout.
// A newer status cancels the pending clear of an older one.
func (m *AppModel) setStatus(text string) tea.Cmd {
	m.statusSeq++
	m.status = text
	seq := m.statusSeq
	return tea.Tick(StatusTimeout, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

func (m *AppModel) showModal(text string) {
	m.modal = text
	m.mode = modeError
}

func (m AppModel) visible() []service.Task {
	return views.Apply(m.tr.Tasks(), m.filter)
}

func (m AppModel) selected() (service.Task, bool) {
	tasks := m.visible()
	if m.cursor < 0 || m.cursor >= len(tasks) {
		return service.Task{}, false
	}
	return tasks[m.cursor], true
}

func (m *AppModel) clampCursor() {
	n := len(m.visible())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m AppModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("todotrack"))
	switch {
	case !m.tr.RemoteConfigured():
		b.WriteString(badgeStyle.Render(" mock mode"))
	case m.tr.Degraded() && m.tr.Loaded():
		b.WriteString(badgeStyle.Render(" offline"))
	}
	b.WriteString("\n\n")

	if m.loading {
		b.WriteString(statusStyle.Render("Loading tasks..."))
		b.WriteString("\n\n")
		b.WriteString(m.help.View(m.keys))
		return b.String()
	}

	if m.warning != "" {
		b.WriteString(warningStyle.Render(m.warning))
		b.WriteString("\n\n")
	}

	tasks := m.tr.Tasks()
	p := views.Summarize(tasks)
	b.WriteString(progressStyle.Render(output.ProgressBar(p.Percent, output.BarWidth)))
	fmt.Fprintf(&b, " %d%%  %d completed, %d pending, %d total\n\n", p.Percent, p.Completed, p.Pending, p.Total)

	b.WriteString(m.viewTabs())
	b.WriteString("\n\n")

	switch m.mode {
	case modeAdd:
		b.WriteString(m.form.View())
		b.WriteString("\n")
		return b.String()
	case modeError:
		b.WriteString(modalStyle.Render(errorStyle.Render(m.modal) + "\n\n" + labelStyle.Render("press enter to dismiss")))
		b.WriteString("\n")
		return b.String()
	}

	visible := views.Apply(tasks, m.filter)
	if len(visible) == 0 {
		b.WriteString(statusStyle.Render("No tasks here."))
		b.WriteString("\n")
	}
	for i, task := range visible {
		b.WriteString(m.viewTask(task, i == m.cursor))
		b.WriteString("\n")
	}

	if skills := views.Skills(tasks); len(skills) > 0 {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("Skills learned: "))
		b.WriteString(skillStyle.Render(strings.Join(skills, ", ")))
		b.WriteString("\n")
	}

	if m.mode == modeConfirmDelete {
		b.WriteString("\n")
		b.WriteString(warningStyle.Render("Delete this task? (y/n)"))
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m AppModel) viewTabs() string {
	tabs := make([]string, len(views.Filters))
	for i, f := range views.Filters {
		label := strings.ToUpper(string(f[:1])) + string(f[1:])
		if f == m.filter {
			tabs[i] = activeTabStyle.Render(label)
		} else {
			tabs[i] = tabStyle.Render(label)
		}
	}
	return strings.Join(tabs, tabStyle.Render(" | "))
}

func (m AppModel) viewTask(task service.Task, selected bool) string {
	cursor := "  "
	if selected {
		cursor = "> "
	}

	desc := task.Description
	switch task.Status {
	case service.StatusCompleted:
		desc = completedStyle.Render(desc)
	case service.StatusInProgress:
		desc = inProgressStyle.Render(desc + " (in progress)")
	}

	line := fmt.Sprintf("%s[%s] %s", cursor, output.StatusMark(task.Status), desc)
	if task.DueDate != "" {
		line += "  " + dueStyle.Render("due "+task.DueDate)
	}
	if len(task.Skills) > 0 {
		line += "  " + skillStyle.Render(strings.Join(task.Skills, ", "))
	}
	if selected {
		return selectedStyle.Render(line)
	}
	return line
}
