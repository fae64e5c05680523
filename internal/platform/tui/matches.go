package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/deepfront/internal/storage"
)

// MatchesKeyMap defines the key bindings for the journal browser.
type MatchesKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Delete key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k MatchesKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Delete, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k MatchesKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.Select}, {k.Delete, k.Quit}}
}

// DefaultMatchesKeyMap returns default key bindings.
func DefaultMatchesKeyMap() MatchesKeyMap {
	return MatchesKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "replay"),
		),
		Delete: key.NewBinding(
			key.WithKeys("delete", "D"),
			key.WithHelp("D", "delete"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// MatchesModel is the Bubble Tea model for browsing journaled matches.
type MatchesModel struct {
	store    *storage.Store
	matches  []storage.MatchRecord
	table    table.Model
	help     help.Model
	keys     MatchesKeyMap
	width    int
	height   int
	selected string
	err      error
}

// NewMatchesModel loads up to limit recent matches.
func NewMatchesModel(store *storage.Store, limit, width, height int) MatchesModel {
	h := help.New()
	h.ShowAll = false

	m := MatchesModel{
		store:  store,
		keys:   DefaultMatchesKeyMap(),
		help:   h,
		width:  width,
		height: height,
	}
	m.table = m.createTable()
	m.matches, m.err = store.RecentMatches(limit)
	m.updateTableRows()
	return m
}

// createTable creates a new table with appropriate columns.
func (m *MatchesModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Match", Width: 24},
		{Title: "Seed", Width: 20},
		{Title: "Deltas", Width: 8},
		{Title: "Cells", Width: 10},
		{Title: "Date", Width: 14},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-6, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// updateTableRows updates the table with the loaded matches.
func (m *MatchesModel) updateTableRows() {
	rows := make([]table.Row, len(m.matches))
	for i, r := range m.matches {
		rows[i] = table.Row{
			r.MatchID,
			fmt.Sprintf("%d", r.Seed),
			fmt.Sprintf("%d", r.Deltas),
			fmt.Sprintf("%d", r.Cells),
			r.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
}

// Init initializes the model.
func (m MatchesModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the browser.
func (m MatchesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Select):
			if i := m.table.Cursor(); i >= 0 && i < len(m.matches) {
				m.selected = m.matches[i].MatchID
				return m, tea.Quit
			}
			return m, nil

		case key.Matches(msg, m.keys.Delete):
			if i := m.table.Cursor(); i >= 0 && i < len(m.matches) {
				if err := m.store.DeleteMatch(m.matches[i].MatchID); err != nil {
					m.err = err
					return m, nil
				}
				m.matches = append(m.matches[:i], m.matches[i+1:]...)
				m.updateTableRows()
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the browser.
func (m MatchesModel) View() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)
	b.WriteString(titleStyle.Render(centerText("RECORDED MATCHES", m.width)))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(tableStyle.Render(m.renderTableContent()))

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(warnStyle.Render(m.err.Error()))
	}

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// renderTableContent renders the table or empty message.
func (m MatchesModel) renderTableContent() string {
	if len(m.matches) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return emptyStyle.Render("No matches recorded yet.\nRun `deepfront watch --record` to journal one.")
	}
	return m.table.View()
}

// Selected returns the match chosen for replay, or "".
func (m MatchesModel) Selected() string {
	return m.selected
}

func centerText(text string, width int) string {
	if len(text) >= width {
		return text
	}
	padding := (width - len(text)) / 2
	return strings.Repeat(" ", padding) + text
}

// RunMatches runs the journal browser and returns the match chosen for
// replay, or "" if the user quit.
func RunMatches(store *storage.Store, limit, width, height int) (string, error) {
	model := NewMatchesModel(store, limit, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	m, ok := finalModel.(MatchesModel)
	if !ok {
		return "", nil
	}
	return m.Selected(), nil
}
