// Package tui desenha o quadro kanban no terminal.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mission-control/board"
	"mission-control/models"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// RefreshInterval é o intervalo da recarga automática.
const RefreshInterval = 10 * time.Second

type Model struct {
	board *board.Board
	ctx   context.Context

	col    int
	row    int
	width  int
	status string
	err    error
	ready  bool
}

type refreshedMsg struct{ err error }

type opDoneMsg struct {
	info string
	err  error
}

type tickMsg time.Time

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	columnStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	activeColumnStyle = columnStyle.
				BorderForeground(lipgloss.Color("62"))

	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("238"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	priorityStyles = map[models.TaskPriority]lipgloss.Style{
		models.PriorityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		models.PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
		models.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("69")),
	}
)

func New(ctx context.Context, b *board.Board) Model {
	return Model{board: b, ctx: ctx}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.refresh(), tick())
}

func (m Model) refresh() tea.Cmd {
	return func() tea.Msg {
		return refreshedMsg{err: m.board.Refresh(m.ctx)}
	}
}

func tick() tea.Cmd {
	return tea.Tick(RefreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) column() []models.Task {
	return m.board.Column(models.Statuses[m.col])
}

func (m Model) selected() (models.Task, bool) {
	col := m.column()
	if m.row < 0 || m.row >= len(col) {
		return models.Task{}, false
	}
	return col[m.row], true
}

func (m *Model) clampRow() {
	n := len(m.column())
	if m.row >= n {
		m.row = n - 1
	}
	if m.row < 0 {
		m.row = 0
	}
}

// follow reposiciona a seleção na tarefa id depois de uma mudança de coluna ou ordem.
func (m *Model) follow(id string) {
	for c, st := range models.Statuses {
		for r, t := range m.board.Column(st) {
			if t.ID == id {
				m.col, m.row = c, r
				return
			}
		}
	}
	m.clampRow()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case refreshedMsg:
		m.ready = true
		m.err = msg.err
		m.clampRow()
		return m, nil

	case opDoneMsg:
		m.err = msg.err
		if msg.err == nil {
			m.status = msg.info
		}
		m.clampRow()
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.refresh(), tick())
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "left", "h":
		if m.col > 0 {
			m.col--
			m.clampRow()
		}
	case "right", "l":
		if m.col < len(models.Statuses)-1 {
			m.col++
			m.clampRow()
		}
	case "up", "k":
		if m.row > 0 {
			m.row--
		}
	case "down", "j":
		if m.row < len(m.column())-1 {
			m.row++
		}

	case "H", "L":
		t, ok := m.selected()
		target := m.col - 1
		if msg.String() == "L" {
			target = m.col + 1
		}
		if !ok || target < 0 || target >= len(models.Statuses) {
			return m, nil
		}
		status := models.Statuses[target]
		if !m.board.DragOver(t.ID, string(status)) {
			return m, nil
		}
		m.follow(t.ID)
		return m, m.drop(t.ID, status)

	case "K", "J":
		t, ok := m.selected()
		delta := -1
		if msg.String() == "J" {
			delta = 1
		}
		if ok && m.board.Reorder(t.ID, delta) {
			m.follow(t.ID)
		}

	case "d":
		if t, ok := m.selected(); ok {
			return m, m.duplicate(t.ID)
		}
	case "x":
		if t, ok := m.selected(); ok {
			return m, m.remove(t.ID, t.Title)
		}
	case "r":
		m.status = "Recarregando..."
		return m, m.refresh()
	}
	return m, nil
}

func (m Model) drop(id string, status models.TaskStatus) tea.Cmd {
	return func() tea.Msg {
		err := m.board.Drop(m.ctx, id)
		return opDoneMsg{info: fmt.Sprintf("Movida para %s", status), err: err}
	}
}

func (m Model) duplicate(id string) tea.Cmd {
	return func() tea.Msg {
		t, err := m.board.Duplicate(m.ctx, id)
		return opDoneMsg{info: "Criada " + t.Title, err: err}
	}
}

func (m Model) remove(id, title string) tea.Cmd {
	return func() tea.Msg {
		err := m.board.DeleteAll(m.ctx, []string{id})
		return opDoneMsg{info: "Removida " + title, err: err}
	}
}

func (m Model) View() string {
	title := titleStyle.Render(" Mission Control ")
	help := helpStyle.Render("←/→ coluna | ↑/↓ tarefa | H/L mover | K/J ordenar | d duplicar | x remover | r recarregar | q sair")
	if !m.ready {
		return fmt.Sprintf("%s\n\n  Carregando...\n\n%s", title, help)
	}

	colWidth := 30
	if m.width > 0 {
		colWidth = max(20, m.width/len(models.Statuses)-4)
	}

	cols := make([]string, 0, len(models.Statuses))
	for c, st := range models.Statuses {
		cols = append(cols, m.renderColumn(c, st, colWidth))
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, cols...)

	line := helpStyle.Render(m.status)
	if m.err != nil {
		line = errorStyle.Render("Erro: " + m.err.Error())
	}
	return fmt.Sprintf("%s\n\n%s\n%s\n%s", title, body, line, help)
}

func (m Model) renderColumn(c int, status models.TaskStatus, width int) string {
	tasks := m.board.Column(status)

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%s (%d)", status, len(tasks))))
	b.WriteString("\n")
	for r, t := range tasks {
		line := fmt.Sprintf("%s %s", priorityStyles[t.Priority].Render("●"), t.Title)
		if t.AssignedTo != nil {
			line += helpStyle.Render(" @" + *t.AssignedTo)
		}
		if c == m.col && r == m.row {
			line = selectedStyle.Render(line)
		}
		b.WriteString("\n" + line)
	}

	style := columnStyle
	if c == m.col {
		style = activeColumnStyle
	}
	return style.Width(width).Render(b.String())
}

// Run abre o quadro em tela cheia até o usuário sair.
func Run(ctx context.Context, b *board.Board) error {
	_, err := tea.NewProgram(New(ctx, b), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
