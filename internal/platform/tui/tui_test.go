package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/deepfront/internal/config"
	"github.com/vovakirdan/deepfront/internal/demo"
	"github.com/vovakirdan/deepfront/internal/render"
	"github.com/vovakirdan/deepfront/internal/storage"
	"github.com/vovakirdan/deepfront/internal/terrain"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestWatchKeyMap(t *testing.T) {
	keys := DefaultWatchKeyMap()
	tests := []struct {
		name string
		msg  tea.KeyMsg
		want demo.Action
	}{
		{"left arrow", tea.KeyMsg{Type: tea.KeyLeft}, demo.ActionAimLeft},
		{"d", runes("d"), demo.ActionAimRight},
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}, demo.ActionLaunch},
		{"x", runes("x"), demo.ActionExplode},
		{"tab", tea.KeyMsg{Type: tea.KeyTab}, demo.ActionCycleHouse},
		{"p", runes("p"), demo.ActionPause},
		{"unbound", runes("z"), demo.ActionNone},
		{"quit is not a match action", runes("q"), demo.ActionNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := keys.MapKey(tt.msg); got != tt.want {
				t.Errorf("MapKey(%q) = %v, want %v", tt.msg.String(), got, tt.want)
			}
		})
	}
}

func newWatchModel(t *testing.T) WatchModel {
	t.Helper()
	match := demo.DefaultConfig()
	match.Bots = [2]bool{false, false}
	m, err := NewWatchModel(WatchConfig{
		Ground:   config.DefaultGroundConfig(),
		Seed:     3,
		Match:    match,
		TickRate: 30,
		ScreenW:  80,
		ScreenH:  24,
	})
	if err != nil {
		t.Fatalf("NewWatchModel() failed: %v", err)
	}
	return m
}

func TestWatchModelLaunchesOnTick(t *testing.T) {
	m := newWatchModel(t)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(WatchModel)
	if len(m.Match().Drills()) != 0 {
		t.Fatal("input should wait for the next tick")
	}

	next, cmd := m.Update(TickMsg{})
	m = next.(WatchModel)
	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}
	if len(m.Match().Drills()) != 1 {
		t.Errorf("expected 1 drill after tick, got %d", len(m.Match().Drills()))
	}
	if d := m.Match().Drills()[0]; d.Side() != terrain.SideTop {
		t.Errorf("player drill on side %s", d.Side())
	}

	view := m.View()
	if !strings.Contains(view, "seed 3") {
		t.Errorf("status line missing seed:\n%s", view)
	}
}

func TestWatchModelQuit(t *testing.T) {
	m := newWatchModel(t)

	next, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("quit should return a command")
	}
	if v := next.(WatchModel).View(); v != "" {
		t.Errorf("View() after quit = %q, want empty", v)
	}
}

func TestWatchModelFogToggle(t *testing.T) {
	m := newWatchModel(t)
	if m.frame().Fog == nil {
		t.Fatal("fog should be on by default")
	}

	next, _ := m.Update(runes("f"))
	m = next.(WatchModel)
	if m.frame().Fog != nil {
		t.Error("fog should be off after toggle")
	}
	if !strings.Contains(m.statusLine(), "fog off") {
		t.Error("status line should flag disabled fog")
	}
}

func TestWatchModelResize(t *testing.T) {
	m := newWatchModel(t)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 12})
	m = next.(WatchModel)
	if m.canvas.Width() != 40 || m.canvas.Height() != 12-chromeLines {
		t.Errorf("canvas is %dx%d after resize", m.canvas.Width(), m.canvas.Height())
	}
}

func TestWatchModelScreenshot(t *testing.T) {
	m := newWatchModel(t)
	m.config.ScreenshotDir = t.TempDir()

	msg := m.saveScreenshot()
	if !strings.HasPrefix(msg, "saved ") {
		t.Fatalf("saveScreenshot() = %q", msg)
	}
	files, _ := filepath.Glob(filepath.Join(m.config.ScreenshotDir, "*.png"))
	if len(files) != 1 {
		t.Errorf("expected 1 screenshot, found %d", len(files))
	}

	m.config.ScreenshotDir = ""
	if msg := m.saveScreenshot(); msg != "screenshots disabled" {
		t.Errorf("saveScreenshot() without dir = %q", msg)
	}
	if msg := m.copyFrame(); msg != "clipboard disabled" {
		t.Errorf("copyFrame() without clipboard = %q", msg)
	}
}

func TestRenderCanvasKeepsText(t *testing.T) {
	c := render.NewCanvas(6, 2)
	c.DrawText(0, 0, "ab", render.ColorGold)
	c.DrawText(2, 0, "cd", render.ColorDirt)
	c.DrawText(0, 1, "xy", render.ColorFog)

	out := RenderCanvas(c)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "ab") || !strings.Contains(lines[0], "cd") || !strings.Contains(lines[1], "xy") {
		t.Errorf("RenderCanvas lost text: %q", out)
	}
}

func TestMatchesModelSelectAndDelete(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	for _, id := range []string{"a", "b"} {
		if _, err := store.CreateMatch(storage.MatchRecord{MatchID: id, Seed: 1, Width: 32, Height: 35, Resolution: 20}); err != nil {
			t.Fatalf("CreateMatch(%s) failed: %v", id, err)
		}
	}

	m := NewMatchesModel(store, 10, 100, 30)
	if !strings.Contains(m.View(), "RECORDED MATCHES") {
		t.Error("missing title")
	}

	next, _ := m.Update(runes("D"))
	m = next.(MatchesModel)
	if got, _ := store.Match("b"); got != nil {
		t.Error("newest match should be deleted")
	}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(MatchesModel)
	if cmd == nil || m.Selected() != "a" {
		t.Errorf("Selected() = %q, want a", m.Selected())
	}
}

func TestHostKeyPathCreatesDir(t *testing.T) {
	want := filepath.Join(t.TempDir(), "keys", "host_key")
	got, err := hostKeyPath(want)
	if err != nil {
		t.Fatalf("hostKeyPath() failed: %v", err)
	}
	if got != want {
		t.Errorf("hostKeyPath() = %q, want %q", got, want)
	}
	if _, err := os.Stat(filepath.Dir(want)); err != nil {
		t.Errorf("key directory not created: %v", err)
	}
}

func TestSessionWatchConfigRecordsMatch(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	cfg := DefaultSSHServerConfig()
	cfg.Seed = 11
	s := &SSHServer{cfg: cfg, store: store, logger: log.New(io.Discard)}

	wc, err := s.sessionWatchConfig("alice", 100, 40)
	if err != nil {
		t.Fatalf("sessionWatchConfig() failed: %v", err)
	}
	if wc.Seed != 11 || wc.ScreenW != 100 || wc.ScreenH != 40 {
		t.Errorf("unexpected watch config %+v", wc)
	}
	if !strings.HasPrefix(string(wc.MatchID), "alice-") {
		t.Errorf("MatchID = %q, want alice- prefix", wc.MatchID)
	}
	if wc.Journal == nil {
		t.Error("session should journal into the store")
	}

	rec, err := store.Match(string(wc.MatchID))
	if err != nil || rec == nil {
		t.Fatalf("match not recorded: %v", err)
	}
	if rec.Seed != 11 || rec.Resolution != cfg.Ground.World.Resolution {
		t.Errorf("unexpected record %+v", rec)
	}

	s.store = nil
	wc, err = s.sessionWatchConfig("bob", 80, 24)
	if err != nil {
		t.Fatalf("sessionWatchConfig() failed: %v", err)
	}
	if wc.Journal != nil {
		t.Error("no store means no journal")
	}
}

func TestWatchModelDefaultsToGroundTickRate(t *testing.T) {
	cfg := DefaultSSHServerConfig()
	cfg.Seed = 5
	s := &SSHServer{cfg: cfg, logger: log.New(io.Discard)}

	wc, err := s.sessionWatchConfig("carol", 80, 24)
	if err != nil {
		t.Fatalf("sessionWatchConfig() failed: %v", err)
	}
	m, err := NewWatchModel(wc)
	if err != nil {
		t.Fatalf("NewWatchModel() failed: %v", err)
	}
	if got, want := m.config.TickRate, cfg.Ground.Vision.TickRate; got != want {
		t.Errorf("frame rate %d, want the ground tick rate %d", got, want)
	}
}

func TestCloseStoreDuringSessions(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}

	cfg := DefaultSSHServerConfig()
	cfg.Seed = 9
	s := &SSHServer{cfg: cfg, store: store, logger: log.New(io.Discard)}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := s.sessionWatchConfig(fmt.Sprintf("user%d", i), 80, 24); err != nil {
				t.Errorf("sessionWatchConfig() failed: %v", err)
			}
		}(i)
	}
	s.closeStore()
	wg.Wait()

	if s.recording() {
		t.Error("closed server still reports recording")
	}
	wc, err := s.sessionWatchConfig("late", 80, 24)
	if err != nil {
		t.Fatalf("sessionWatchConfig() failed: %v", err)
	}
	if wc.Journal != nil {
		t.Error("session after close should not journal")
	}
	s.closeStore()
}
