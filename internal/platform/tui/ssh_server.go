package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/deepfront/internal/config"
	"github.com/vovakirdan/deepfront/internal/demo"
	"github.com/vovakirdan/deepfront/internal/ground"
	"github.com/vovakirdan/deepfront/internal/replication"
	"github.com/vovakirdan/deepfront/internal/storage"
)

// SSHServerConfig configures the spectator server.
type SSHServerConfig struct {
	Address string

	// HostKeyPath defaults to ~/.deepfront/host_key, generated on first run.
	HostKeyPath string

	// DBPath is the match journal. Empty disables recording.
	DBPath string

	IdleTimeout time.Duration

	Ground config.GroundConfig
	Match  demo.Config

	// TickRate is the frame rate. Zero runs at the ground's tick rate.
	TickRate int

	// Seed fixes every session's seed. Zero draws a new seed per session.
	Seed int64

	// Logger defaults to a timestamped stderr logger.
	Logger *log.Logger
}

// DefaultSSHServerConfig shows both sides of a bot-versus-bot match.
func DefaultSSHServerConfig() SSHServerConfig {
	match := demo.DefaultConfig()
	match.View = demo.ViewBoth
	match.Bots = [2]bool{true, true}
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.deepfront/matches.db",
		IdleTimeout: 30 * time.Minute,
		Ground:      config.DefaultGroundConfig(),
		Match:       match,
	}
}

// SSHServer gives every SSH session its own match to spectate.
type SSHServer struct {
	cfg    SSHServerConfig
	server *ssh.Server
	logger *log.Logger
	live   atomic.Int32

	mu    sync.Mutex
	store *storage.Store
}

// NewSSHServer opens the journal and prepares the listener. A journal that
// cannot be opened only disables recording.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "deepfront-ssh",
		})
	}
	s := &SSHServer{cfg: cfg, logger: logger}

	if cfg.DBPath != "" {
		store, err := storage.Open(cfg.DBPath)
		if err != nil {
			logger.Warn("recording disabled", "db", cfg.DBPath, "error", err)
		} else {
			s.store = store
		}
	}

	keyPath, err := hostKeyPath(cfg.HostKeyPath)
	if err != nil {
		s.closeStore()
		return nil, err
	}

	s.server, err = wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(keyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(s.teaHandler),
			s.sessionMiddleware,
		),
	)
	if err != nil {
		s.closeStore()
		return nil, fmt.Errorf("tui: ssh server: %w", err)
	}
	return s, nil
}

// hostKeyPath resolves the key location and makes sure its directory exists.
func hostKeyPath(path string) (string, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("tui: host key: %w", err)
		}
		path = filepath.Join(home, ".deepfront", "host_key")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", fmt.Errorf("tui: host key dir: %w", err)
	}
	return path, nil
}

// sessionWatchConfig builds the viewer for one session and records its match.
func (s *SSHServer) sessionWatchConfig(user string, width, height int) (WatchConfig, error) {
	seed := s.cfg.Seed
	if seed == 0 {
		var err error
		if seed, err = ground.NewSeed(); err != nil {
			return WatchConfig{}, err
		}
	}

	wc := WatchConfig{
		Ground:   s.cfg.Ground,
		Seed:     seed,
		Match:    s.cfg.Match,
		TickRate: s.cfg.TickRate,
		ScreenW:  width,
		ScreenH:  height,
		MatchID:  replication.MatchID(fmt.Sprintf("%s-%d", user, time.Now().UnixNano())),
		Logger:   s.logger.With("user", user),
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store == nil {
		return wc, nil
	}

	_, err := s.store.CreateMatch(storage.MatchRecord{
		MatchID: string(wc.MatchID),
		Seed:    seed,
		Ground:  wc.Ground,
	})
	if err != nil {
		s.logger.Warn("match not recorded", "match", wc.MatchID, "error", err)
		return wc, nil
	}
	wc.Journal = s.store
	return wc, nil
}

func (s *SSHServer) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sess.Pty()
	if !ok {
		s.logger.Warn("session without pty", "user", sess.User())
		return nil, nil
	}

	wc, err := s.sessionWatchConfig(sess.User(), pty.Window.Width, pty.Window.Height)
	if err != nil {
		s.logger.Error("session config", "user", sess.User(), "error", err)
		return nil, nil
	}
	model, err := NewWatchModel(wc)
	if err != nil {
		s.logger.Error("match setup", "user", sess.User(), "error", err)
		return nil, nil
	}
	s.logger.Info("spectating", "user", sess.User(), "match", wc.MatchID, "seed", wc.Seed)

	return model, []tea.ProgramOption{tea.WithAltScreen()}
}

// sessionMiddleware tracks live sessions.
func (s *SSHServer) sessionMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		remote := sess.RemoteAddr().String()
		s.logger.Info("connected", "user", sess.User(), "remote", remote, "live", s.live.Add(1))
		next(sess)
		s.logger.Info("disconnected", "user", sess.User(), "remote", remote, "live", s.live.Add(-1))
	}
}

// Sessions reports how many sessions are connected.
func (s *SSHServer) Sessions() int {
	return int(s.live.Load())
}

// ListenAndServe serves until SIGINT or SIGTERM, then shuts down.
func (s *SSHServer) ListenAndServe() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s.logger.Info("listening", "address", s.cfg.Address, "recording", s.recording())
	errc := make(chan error, 1)
	go func() {
		errc <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		s.closeStore()
		if errors.Is(err, ssh.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("tui: ssh serve: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down", "live", s.Sessions())
	return s.Shutdown()
}

// Shutdown waits up to ten seconds for sessions to end.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	defer s.closeStore()
	return s.server.Shutdown(ctx)
}

// Addr returns the configured listen address.
func (s *SSHServer) Addr() string {
	return s.cfg.Address
}

func (s *SSHServer) recording() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store != nil
}

// closeStore stops recording. Sessions still running keep their journal
// handle and get errors from it.
func (s *SSHServer) closeStore() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store != nil {
		s.store.Close()
		s.store = nil
	}
}
