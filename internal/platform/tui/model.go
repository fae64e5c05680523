package tui

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/deepfront/internal/config"
	"github.com/vovakirdan/deepfront/internal/demo"
	"github.com/vovakirdan/deepfront/internal/ground"
	"github.com/vovakirdan/deepfront/internal/render"
	"github.com/vovakirdan/deepfront/internal/replication"
	"github.com/vovakirdan/deepfront/internal/terrain"
)

// Lines reserved below the map for the status bar and help.
const chromeLines = 2

// WatchConfig contains everything needed to start a viewer.
type WatchConfig struct {
	Ground   config.GroundConfig
	Seed     int64
	Match    demo.Config
	TickRate int // Frames per second; each frame is one simulation tick
	ScreenW  int
	ScreenH  int

	// Journal, if set, records every delta under MatchID.
	Journal replication.Journal
	MatchID replication.MatchID

	Mirror        bool
	Clipboard     bool   // Allow copying frames to the local clipboard
	ScreenshotDir string // Empty disables screenshots
	Logger        *log.Logger
}

// WatchModel is the Bubble Tea model for watching and steering a match.
type WatchModel struct {
	match      *demo.Match
	config     WatchConfig
	canvas     *render.Canvas
	keys       WatchKeyMap
	help       help.Model
	inputFrame demo.InputFrame
	state      demo.State
	showFog    bool
	flash      string // Status message, cleared after flashTicks
	flashTicks int
	quitting   bool
	logger     *log.Logger
}

// NewWatchModel generates the ground and sets up the match.
func NewWatchModel(cfg WatchConfig) (WatchModel, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = cfg.Ground.Vision.TickRate
	}

	g := ground.New(cfg.Ground, ground.WithLogger(logger))
	if err := g.Init(cfg.Seed); err != nil {
		return WatchModel{}, err
	}

	authOpts := []replication.AuthorityOption{replication.WithLogger(logger)}
	if cfg.Journal != nil {
		authOpts = append(authOpts, replication.WithJournal(cfg.Journal))
	}
	auth := replication.NewAuthority(cfg.MatchID, g, authOpts...)

	matchOpts := []demo.Option{demo.WithLogger(logger)}
	if cfg.Mirror {
		matchOpts = append(matchOpts, demo.WithMirror())
	}
	match, err := demo.New(auth, cfg.Match, matchOpts...)
	if err != nil {
		return WatchModel{}, err
	}

	h := help.New()
	h.ShowAll = false

	return WatchModel{
		match:      match,
		config:     cfg,
		canvas:     render.NewCanvas(cfg.ScreenW, max(cfg.ScreenH-chromeLines, 1)),
		keys:       DefaultWatchKeyMap(),
		help:       h,
		inputFrame: demo.NewInputFrame(),
		state:      match.State(),
		showFog:    true,
		logger:     logger,
	}, nil
}

// Match returns the running match.
func (m WatchModel) Match() *demo.Match {
	return m.match
}

// Init starts the tick loop.
func (m WatchModel) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.canvas = render.NewCanvas(msg.Width, max(msg.Height-chromeLines, 1))
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m WatchModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Fog):
		m.showFog = !m.showFog
		return m, nil
	case key.Matches(msg, m.keys.Copy):
		m.setFlash(m.copyFrame())
		return m, nil
	case key.Matches(msg, m.keys.Screenshot):
		m.setFlash(m.saveScreenshot())
		return m, nil
	}

	if action := m.keys.MapKey(msg); action != demo.ActionNone {
		m.inputFrame.Set(action)
	}
	return m, nil
}

// handleTick runs one simulation step.
func (m WatchModel) handleTick() (tea.Model, tea.Cmd) {
	m.state = m.match.Step(m.inputFrame)
	m.inputFrame.Clear()
	if m.flashTicks > 0 {
		m.flashTicks--
		if m.flashTicks == 0 {
			m.flash = ""
		}
	}
	return m, tickCmd(m.config.TickRate)
}

func (m *WatchModel) setFlash(msg string) {
	m.flash = msg
	m.flashTicks = 3 * m.config.TickRate
}

// frame builds the view of the match as the observer sees it.
func (m WatchModel) frame() render.View {
	g := m.match.Ground()
	v := render.View{}
	if m.showFog {
		fog := g.FogSnapshot()
		v.Terrain = g.RenderedSnapshot()
		v.Fog = &fog
	} else {
		v.Terrain = g.TerrainSnapshot()
	}

	view := m.match.Config().View
	for _, side := range []terrain.Side{terrain.SideTop, terrain.SideBottom} {
		for _, h := range m.match.Houses(side) {
			if m.showFog && !m.match.Visible(h) {
				continue
			}
			v.Markers = append(v.Markers, render.Marker{Pos: h.Position(), Rune: 'H', Color: sideColor(view, side)})
		}
	}
	for _, d := range m.match.Drills() {
		if m.showFog && !m.match.Visible(d) {
			continue
		}
		v.Markers = append(v.Markers, render.Marker{Pos: d.Position(), Rune: drillRune(d), Color: sideColor(view, d.Side())})
	}
	return v
}

func sideColor(view demo.View, side terrain.Side) render.Color {
	if view.Sees(side) {
		return render.ColorUnit
	}
	return render.ColorEnemy
}

func drillRune(d *demo.Drill) rune {
	if d.Exploding() {
		return '*'
	}
	h := d.Heading()
	switch {
	case math.Abs(h.X) > math.Abs(h.Y) && h.X > 0:
		return '>'
	case math.Abs(h.X) > math.Abs(h.Y):
		return '<'
	case h.Y > 0:
		return '^'
	default:
		return 'v'
	}
}

// copyFrame copies the current frame as plain text.
func (m WatchModel) copyFrame() string {
	if !m.config.Clipboard {
		return "clipboard disabled"
	}
	c := render.Draw(m.frame(), m.match.Ground().Mapper(), m.canvas.Width(), m.canvas.Height())
	if err := clipboard.WriteAll(c.String()); err != nil {
		m.logger.Warn("could not copy frame", "error", err)
		return "copy failed"
	}
	return "frame copied"
}

// saveScreenshot writes the full-resolution frame as a PNG.
func (m WatchModel) saveScreenshot() string {
	if m.config.ScreenshotDir == "" {
		return "screenshots disabled"
	}
	if err := os.MkdirAll(m.config.ScreenshotDir, 0o755); err != nil {
		m.logger.Warn("could not create screenshot directory", "error", err)
		return "screenshot failed"
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(m.config.ScreenshotDir, fmt.Sprintf("deepfront_%d_%s.png", m.match.Ground().Seed(), timestamp))
	f, err := os.Create(path)
	if err != nil {
		m.logger.Warn("could not create screenshot", "error", err)
		return "screenshot failed"
	}
	defer f.Close()

	if err := render.WritePNG(f, m.frame(), m.match.Ground().Mapper(), 2); err != nil {
		m.logger.Warn("could not write screenshot", "error", err)
		return "screenshot failed"
	}
	return "saved " + path
}

// View renders the current state to a string for display.
func (m WatchModel) View() string {
	if m.quitting {
		return ""
	}

	c := render.Draw(m.frame(), m.match.Ground().Mapper(), m.canvas.Width(), m.canvas.Height())

	var b strings.Builder
	b.WriteString(RenderCanvas(c))
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

var (
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229"))
	pausedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("11")).Bold(true)
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

// statusLine summarizes the match in one line.
func (m WatchModel) statusLine() string {
	s := m.state
	player := m.match.Config().View.Player()

	parts := []string{
		fmt.Sprintf("seed %d", m.match.Ground().Seed()),
		fmt.Sprintf("t=%.1fs", m.match.Ground().Vision().Time()),
		fmt.Sprintf("aim %+.0f°", s.Aim*180/math.Pi),
		fmt.Sprintf("house %d", s.House+1),
		fmt.Sprintf("drills %d/%d", s.Drills[player], s.Drills[player.Opponent()]),
		fmt.Sprintf("houses %d/%d", s.Houses[player], s.Houses[player.Opponent()]),
		fmt.Sprintf("gold %.0f", s.Gold[player]),
	}
	line := statusStyle.Render(strings.Join(parts, "  "))

	if w, ok := s.Winner(); ok {
		line += " " + pausedStyle.Render(fmt.Sprintf(" %s WINS ", strings.ToUpper(w.String())))
	}

	if s.Paused {
		line += " " + pausedStyle.Render(" PAUSED ")
	}
	if !m.showFog {
		line += " " + warnStyle.Render("[fog off]")
	}
	if s.Desyncs > 0 {
		line += " " + warnStyle.Render(fmt.Sprintf("desyncs %d", s.Desyncs))
	}
	if m.flash != "" {
		line += "  " + m.flash
	}
	return line
}

// RunWatch starts the Bubble Tea program with a new viewer.
func RunWatch(cfg WatchConfig) error {
	model, err := NewWatchModel(cfg)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err = p.Run()
	return err
}
