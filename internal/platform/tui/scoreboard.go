package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/timeslip/internal/registry"
	"github.com/vovakirdan/timeslip/internal/storage"
)

const (
	maxScores = 100 // Rows loaded per level
	maxRuns   = 50
)

// boardView selects what the scoreboard table lists.
type boardView int

const (
	viewScores boardView = iota // Best scores first
	viewRuns                    // Latest runs first
)

var (
	boardTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	boardStatsStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	boardDimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	boardTabStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")).Padding(0, 1)
	boardFrameStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
)

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	NextLevel key.Binding
	PrevLevel key.Binding
	Toggle    key.Binding
	Back      key.Binding
	Quit      key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextLevel, k.Toggle, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextLevel, k.PrevLevel},
		{k.Toggle, k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		NextLevel: key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab", "next level")),
		PrevLevel: key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("S-tab", "prev level")),
		Toggle:    key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "scores/runs")),
		Back:      key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc", "back")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ScoreboardModel lists the best scores or the latest runs of each level,
// with the rewind statistics recorded alongside.
type ScoreboardModel struct {
	levels    []registry.GameInfo
	cursor    int
	view      boardView
	store     *storage.Store
	rows      []table.Row
	stats     *storage.GameStats
	table     table.Model
	help      help.Model
	keys      ScoreboardKeyMap
	width     int
	height    int
	quitting  bool
	goingBack bool
}

// NewScoreboardModel creates a scoreboard showing the first registered
// level. store may be nil.
func NewScoreboardModel(store *storage.Store, width, height int) ScoreboardModel {
	m := ScoreboardModel{
		levels: registry.List(),
		store:  store,
		keys:   DefaultScoreboardKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	m.help.Width = width
	m.reload()
	return m
}

// columns returns the table layout for the current view. The date column
// takes whatever width is left.
func (m ScoreboardModel) columns() []table.Column {
	dateW := max(min(m.width-50, 20), 12)
	if m.view == viewRuns {
		return []table.Column{
			{Title: "Result", Width: 6},
			{Title: "Score", Width: 7},
			{Title: "Rewinds", Width: 7},
			{Title: "Played", Width: 7},
			{Title: "Date", Width: dateW},
		}
	}
	return []table.Column{
		{Title: "Rank", Width: 5},
		{Title: "Score", Width: 7},
		{Title: "Rewinds", Width: 7},
		{Title: "Rewound", Width: 7},
		{Title: "Date", Width: dateW},
	}
}

// reload rebuilds the table for the selected level and view.
func (m *ScoreboardModel) reload() {
	m.rows, m.stats = nil, nil
	if m.store != nil && len(m.levels) > 0 {
		id := m.levels[m.cursor].ID
		if stats, err := m.store.GetGameStats(id); err == nil {
			m.stats = stats
		}
		if m.view == viewRuns {
			m.rows = m.runRows(id)
		} else {
			m.rows = m.scoreRows(id)
		}
	}

	st := table.DefaultStyles()
	st.Header = st.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	st.Selected = st.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)

	m.table = table.New(
		table.WithColumns(m.columns()),
		table.WithRows(m.rows),
		table.WithFocused(true),
		table.WithHeight(max(m.height-10, 3)), // Title, tabs, stats and help
		table.WithStyles(st),
	)
}

func (m ScoreboardModel) scoreRows(id string) []table.Row {
	scores, err := m.store.TopScores(id, maxScores)
	if err != nil {
		return nil
	}
	rows := make([]table.Row, len(scores))
	for i, s := range scores {
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			fmt.Sprintf("%d", s.Score),
			fmt.Sprintf("%d", s.Rewinds),
			fmt.Sprintf("%.1fs", s.SecondsRewound),
			s.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	return rows
}

func (m ScoreboardModel) runRows(id string) []table.Row {
	runs, err := m.store.RecentRuns(id, maxRuns)
	if err != nil {
		return nil
	}
	rows := make([]table.Row, len(runs))
	for i, r := range runs {
		result := "lost"
		if r.Won {
			result = "won"
		}
		rows[i] = table.Row{
			result,
			fmt.Sprintf("%d", r.Score),
			fmt.Sprintf("%d", r.Rewinds),
			fmt.Sprintf("%.0fs", r.Duration.Seconds()),
			r.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	return rows
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextLevel):
			if n := len(m.levels); n > 0 {
				m.cursor = (m.cursor + 1) % n
				m.reload()
			}
			return m, nil

		case key.Matches(msg, m.keys.PrevLevel):
			if n := len(m.levels); n > 0 {
				m.cursor = (m.cursor + n - 1) % n
				m.reload()
			}
			return m, nil

		case key.Matches(msg, m.keys.Toggle):
			m.view = 1 - m.view
			m.reload()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.reload()
		return m, nil
	}

	// Scrolling
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	title := "HIGH SCORES"
	if m.view == viewRuns {
		title = "RECENT RUNS"
	}
	b.WriteString("\n")
	b.WriteString(centerText(boardTitleStyle.Render(title), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.tabLine(), m.width))
	b.WriteString("\n")
	b.WriteString(centerText(m.statsLine(), m.width))
	b.WriteString("\n\n")

	var body string
	if len(m.rows) == 0 {
		body = boardDimStyle.Italic(true).Padding(1, 4).
			Render("No runs recorded yet.\nFinish a level to set a score!")
	} else {
		body = m.table.View()
	}
	b.WriteString(centerBlock(boardFrameStyle.Render(body), m.width))
	b.WriteString("\n")
	b.WriteString(boardDimStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// tabLine shows every level with the selected one highlighted, or just
// the selected one when they do not fit.
func (m ScoreboardModel) tabLine() string {
	if len(m.levels) == 0 {
		return boardDimStyle.Render("no levels")
	}
	tabs := make([]string, len(m.levels))
	for i, l := range m.levels {
		if i == m.cursor {
			tabs[i] = boardTabStyle.Render(l.Title)
		} else {
			tabs[i] = boardDimStyle.Render(" " + l.Title + " ")
		}
	}
	line := strings.Join(tabs, " ")
	if lipgloss.Width(line) > m.width-4 {
		line = fmt.Sprintf("< %s >", m.levels[m.cursor].Title)
	}
	return line
}

// statsLine summarises every recorded run of the level.
func (m ScoreboardModel) statsLine() string {
	st := m.stats
	if st == nil || st.Runs == 0 {
		return ""
	}
	return boardStatsStyle.Render(fmt.Sprintf(
		"best %d  %d runs  %d won  %d rewinds  %.1fs rewound",
		st.HighScore, st.Runs, st.Wins, st.Rewinds, st.SecondsRewound))
}

// centerBlock indents every line of a multi-line block by the same amount.
func centerBlock(block string, width int) string {
	pad := (width - lipgloss.Width(block)) / 2
	if pad <= 0 {
		return block
	}
	indent := strings.Repeat(" ", pad)
	return indent + strings.ReplaceAll(block, "\n", "\n"+indent)
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard runs the scoreboard screen.
// Returns true if user wants to go back to menu, false if quitting.
func RunScoreboard(store *storage.Store, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(NewScoreboardModel(store, width, height), tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(ScoreboardModel)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}
