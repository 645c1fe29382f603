// Package ui renders the terminal Kanban board on top of the optimistic
// task store.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/taskboard/backend/client"
	"github.com/taskboard/backend/domain"
)

const columnWidth = 30

var (
	columnStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Width(columnWidth).
			Padding(0, 1)

	activeColumnStyle = columnStyle.
				BorderForeground(lipgloss.Color("62"))

	titleStyle = lipgloss.NewStyle().Bold(true)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("62"))

	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	completedStyle = lipgloss.NewStyle().
			Strikethrough(true).
			Foreground(lipgloss.Color("240"))

	toastStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

var columnTitles = map[domain.Status]string{
	domain.StatusTodo:       "To Do",
	domain.StatusInProgress: "In Progress",
	domain.StatusCompleted:  "Completed",
}

type notification struct {
	message string
	retry   func()
}

type refreshMsg struct{}

type notifyMsg notification

type tickMsg time.Time

type model struct {
	store  *client.Store
	notifs <-chan notification

	col int
	row int

	adding bool
	input  []rune

	toast *notification
}

// Run starts the board against api and blocks until the user quits.
func Run(ctx context.Context, api client.API) error {
	notifs := make(chan notification, 16)
	store := client.NewStore(api, client.NotifierFunc(func(message string, retry func()) {
		select {
		case notifs <- notification{message: message, retry: retry}:
		default:
		}
	}))

	m := &model{store: store, notifs: notifs}
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(
		m.mutate(func() { _ = m.store.Load(context.Background()) }),
		waitNotification(m.notifs),
		tick(),
	)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case refreshMsg:
		m.clampRow()
		return m, nil
	case notifyMsg:
		toast := notification(msg)
		m.toast = &toast
		return m, waitNotification(m.notifs)
	case tickMsg:
		// Periodic redraw keeps pending markers current while
		// mutations settle in the background.
		return m, tick()
	}
	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.adding {
		return m.handleAddKey(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "left", "h":
		if m.col > 0 {
			m.col--
			m.clampRow()
		}
	case "right", "l":
		if m.col < len(domain.Statuses)-1 {
			m.col++
			m.clampRow()
		}
	case "up", "k":
		if m.row > 0 {
			m.row--
		}
	case "down", "j":
		m.row++
		m.clampRow()
	case "a":
		m.adding = true
		m.input = nil
	case "m":
		return m.moveSelected(1)
	case "M":
		return m.moveSelected(-1)
	case "d":
		if task := m.selected(); task != nil {
			id := task.ID
			return m, m.mutate(func() { _ = m.store.Delete(context.Background(), id) })
		}
	case "R":
		return m, m.mutate(func() { _ = m.store.Load(context.Background()) })
	case "r":
		if m.toast != nil && m.toast.retry != nil {
			retry := m.toast.retry
			m.toast = nil
			return m, m.mutate(retry)
		}
	case "esc":
		m.toast = nil
	}
	return m, nil
}

func (m *model) handleAddKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.adding = false
		m.input = nil
	case "enter":
		content := string(m.input)
		m.adding = false
		m.input = nil
		if strings.TrimSpace(content) == "" {
			return m, nil
		}
		return m, m.mutate(func() { _ = m.store.Create(context.Background(), content) })
	case "backspace":
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
	default:
		if msg.Type == tea.KeyRunes {
			m.input = append(m.input, msg.Runes...)
		} else if msg.Type == tea.KeySpace {
			m.input = append(m.input, ' ')
		}
	}
	return m, nil
}

func (m *model) moveSelected(dir int) (tea.Model, tea.Cmd) {
	task := m.selected()
	if task == nil {
		return m, nil
	}
	next := m.col + dir
	if next < 0 || next >= len(domain.Statuses) {
		return m, nil
	}
	id := task.ID
	status := domain.Statuses[next]
	return m, m.mutate(func() { _ = m.store.UpdateStatus(context.Background(), id, status) })
}

// mutate runs a store operation off the UI loop and triggers a redraw
// once it settles.
func (m *model) mutate(op func()) tea.Cmd {
	return func() tea.Msg {
		op()
		return refreshMsg{}
	}
}

func (m *model) selected() *domain.Task {
	tasks := m.store.TasksByStatus(domain.Statuses[m.col])
	if m.row < 0 || m.row >= len(tasks) {
		return nil
	}
	task := tasks[m.row]
	return &task
}

func (m *model) clampRow() {
	n := len(m.store.TasksByStatus(domain.Statuses[m.col]))
	if n == 0 {
		m.row = 0
		return
	}
	if m.row >= n {
		m.row = n - 1
	}
	if m.row < 0 {
		m.row = 0
	}
}

func (m *model) View() string {
	if m.store.IsLoading() {
		return "\n  loading tasks...\n"
	}

	columns := make([]string, 0, len(domain.Statuses))
	for i, status := range domain.Statuses {
		columns = append(columns, m.renderColumn(i, status))
	}
	board := lipgloss.JoinHorizontal(lipgloss.Top, columns...)

	var b strings.Builder
	b.WriteString(board)
	b.WriteString("\n")

	if m.adding {
		b.WriteString("new task: " + string(m.input) + "▌\n")
	}
	if m.toast != nil {
		line := m.toast.message
		if m.toast.retry != nil {
			line += "  (r to retry, esc to dismiss)"
		}
		b.WriteString(toastStyle.Render(line) + "\n")
	}
	b.WriteString(helpStyle.Render("h/l: column  j/k: task  m/M: move  a: add  d: delete  R: reload  q: quit"))
	return b.String()
}

func (m *model) renderColumn(index int, status domain.Status) string {
	tasks := m.store.TasksByStatus(status)

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s (%d)", columnTitles[status], len(tasks))))
	b.WriteString("\n")

	for i, task := range tasks {
		line := task.Title()
		if runes := []rune(line); len(runes) > columnWidth-6 {
			line = string(runes[:columnWidth-6]) + "…"
		}
		if task.IsCompleted() {
			line = completedStyle.Render(line)
		}
		if m.store.IsPending(task.ID) {
			line = pendingStyle.Render("◌ ") + line
		} else {
			line = "  " + line
		}
		if index == m.col && i == m.row {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if len(tasks) == 0 {
		b.WriteString(helpStyle.Render("  (empty)"))
		b.WriteString("\n")
	}

	style := columnStyle
	if index == m.col {
		style = activeColumnStyle
	}
	return style.Render(b.String())
}

func waitNotification(ch <-chan notification) tea.Cmd {
	return func() tea.Msg {
		return notifyMsg(<-ch)
	}
}

func tick() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
