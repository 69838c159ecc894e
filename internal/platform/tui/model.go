package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/timeslip/internal/core"
	"github.com/vovakirdan/timeslip/internal/registry"
	"github.com/vovakirdan/timeslip/internal/storage"
	"github.com/vovakirdan/timeslip/internal/telemetry"
)

// statusRows is the space below the game screen for the rewind bar or key
// help.
const statusRows = 1

// DefaultHoldWindow is how long the rewind key counts as held after its
// last press or auto-repeat.
const DefaultHoldWindow = 600 * time.Millisecond

var (
	rewindLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	statusStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// ModelOption configures a Model.
type ModelOption func(*Model)

// WithMetrics reports rewinds and finished runs to m.
func WithMetrics(m *telemetry.Metrics) ModelOption {
	return func(mod *Model) { mod.metrics = m }
}

// WithHoldWindow sets the rewind hold window.
func WithHoldWindow(d time.Duration) ModelOption {
	return func(mod *Model) {
		if d > 0 {
			mod.holds = NewHoldTracker(d)
		}
	}
}

// WithPalette sets the palette used to draw the level.
func WithPalette(p Palette) ModelOption {
	return func(mod *Model) { mod.palette = p }
}

// WithLogger sets the logger for storage failures.
func WithLogger(l *log.Logger) ModelOption {
	return func(mod *Model) { mod.logger = l }
}

// withBackToMenu lets Back leave a finished or paused level. Only sessions
// that own a menu use it.
func withBackToMenu() ModelOption {
	return func(mod *Model) { mod.backEnabled = true }
}

// Model is the Bubble Tea model for running a level.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	palette    Palette
	store      *storage.Store
	metrics    *telemetry.Metrics
	logger     *log.Logger
	config     core.RuntimeConfig
	keys       *KeyMapper
	holds      *HoldTracker
	inputFrame core.InputFrame
	gameState  core.GameState
	bar        progress.Model
	help       help.Model
	unobserve  func()
	quitting   bool
	runSaved   bool // Whether the current finished run has been recorded

	backEnabled bool
	backToMenu  bool
}

// NewModel creates a new Bubble Tea model for the given game. cfg carries
// the full terminal size; one row is kept for the status line.
func NewModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, opts ...ModelOption) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	cfg.ScreenH = max(cfg.ScreenH-statusRows, 1)

	m := Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		palette:    defaultPalette,
		store:      store,
		logger:     log.Default(),
		config:     cfg,
		keys:       NewKeyMapper(),
		holds:      NewHoldTracker(DefaultHoldWindow),
		inputFrame: core.NewInputFrame(),
		bar:        progress.New(progress.WithGradient("#5FD7FF", "#005FFF"), progress.WithoutPercentage()),
		help:       help.New(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.resizeStatus()

	m.game.Reset(m.config)
	m.gameState = m.game.State()
	m.unobserve = m.metrics.Observe(registry.CoordinatorOf(game))
	return m
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key := msg.String(); key == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	if m.keys.MapKeyToFrame(msg, &m.inputFrame) {
		m.quitting = true
		m.unobserve()
		return m, tea.Quit
	}
	action, _ := m.keys.MapKey(msg)
	if action == core.ActionBack && m.backEnabled && (m.gameState.GameOver || m.gameState.Paused) {
		m.backToMenu = true
		return m, nil
	}
	m.holds.Press(action, time.Now())

	return m, nil
}

// handleResize processes window resize events.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = max(msg.Height-statusRows, 1)
	m.screen.Resize(m.config.ScreenW, m.config.ScreenH)
	m.resizeStatus()

	// Reinitialize the level with the new dimensions. The coordinator
	// survives, so observers stay attached.
	if !m.gameState.GameOver {
		m.game.Reset(m.config)
		m.gameState = m.game.State()
		m.holds.Release()
	}

	return m, nil
}

func (m *Model) resizeStatus() {
	m.bar.Width = max(m.config.ScreenW-24, 10)
	m.help.Width = m.config.ScreenW
}

// handleTick processes simulation ticks.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	// Check for restart
	if m.inputFrame.Has(core.ActionRestart) && m.gameState.GameOver {
		m.config.Seed = time.Now().UnixNano()
		m.game.Reset(m.config)
		m.gameState = m.game.State()
		m.runSaved = false
		m.inputFrame.Clear()
		m.holds.Release()
		return m, tickCmd(m.config.TickRate)
	}

	m.holds.Apply(&m.inputFrame, now)
	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	if m.gameState.GameOver && !m.runSaved {
		m.finishRun()
		m.runSaved = true
	}

	// Clear input for next frame
	m.inputFrame.Clear()

	return m, tickCmd(m.config.TickRate)
}

// finishRun records a finished run. Runs that scored nothing and did not
// win stay out of the scoreboard.
func (m *Model) finishRun() {
	st := m.gameState
	m.metrics.RunFinished(m.game.ID(), st.Won)

	if m.store == nil || (st.Score == 0 && !st.Won) {
		return
	}
	id, err := m.store.SaveRun(storage.RunResult{
		GameID:         m.game.ID(),
		Score:          st.Score,
		Won:            st.Won,
		Rewinds:        st.Rewinds,
		SecondsRewound: st.SecondsRewound,
		Duration:       time.Duration(st.PlaySeconds * float64(time.Second)),
	})
	if err != nil {
		m.logger.Error("save run", "game", m.game.ID(), "err", err)
		return
	}
	m.logger.Debug("run saved", "game", m.game.ID(), "session", id, "score", st.Score)
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	dir := filepath.Join(os.Getenv("HOME"), ".timeslip", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("screenshot", "err", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("screenshot", "err", err)
	}
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	return m.palette.Render(m.screen) + "\n" + m.statusLine()
}

// statusLine shows the rewind bar while rewinding and key help otherwise.
func (m Model) statusLine() string {
	st := m.gameState
	if st.Rewinding {
		label := rewindLabelStyle.Render(fmt.Sprintf(" ◀◀ %4.1fs ", st.RewindRemaining))
		return label + m.bar.ViewAs(st.RewindProgress)
	}
	return statusStyle.Render(" ") + m.help.ShortHelpView(m.keys.Keys().ShortHelp())
}

// BackToMenu reports whether the player asked to leave the level.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// IsQuitting reports whether the player asked to quit.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// Close detaches the metrics observers from the level's coordinator.
func (m Model) Close() {
	m.unobserve()
}

// Run starts the Bubble Tea program with the given model.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, opts ...ModelOption) error {
	model := NewModel(game, store, cfg, opts...)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	model.Close()
	return err
}
