package tui

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/tui-minesweeper/internal/config"
	"github.com/vovakirdan/tui-minesweeper/internal/platform/limiter"
	"github.com/vovakirdan/tui-minesweeper/internal/storage"
)

// SSHServer serves one minesweeper session per SSH connection.
type SSHServer struct {
	config  config.Config
	server  *ssh.Server
	store   *storage.Store
	limits  *limiter.Set
	logger  *log.Logger
	started time.Time
}

// NewSSHServer creates a new SSH server with the given configuration.
// A database that cannot be opened is logged and the server runs without best times.
func NewSSHServer(cfg config.Config) (*SSHServer, error) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "minesweeper-ssh",
	})

	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		logger.Warn("could not open best-time database", "error", err)
		store = nil
	}

	perMinute := cfg.SSH.MaxSessionsPerMinute
	if perMinute <= 0 {
		perMinute = 10
	}

	srv := &SSHServer{
		config: cfg,
		store:  store,
		limits: limiter.New(float64(perMinute), time.Minute, perMinute),
		logger: logger,
	}

	hostKeyPath, err := resolveHostKeyPath(cfg.SSH.HostKeyPath)
	if err != nil {
		srv.closeStore()
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); err != nil {
		srv.closeStore()
		return nil, fmt.Errorf("cannot create host key directory: %w", err)
	}

	// Middleware runs last to first: the limiter sees the connection before anything else.
	server, err := wish.NewServer(
		wish.WithAddress(cfg.SSH.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.SSH.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
			srv.rateLimitMiddleware,
		),
	)
	if err != nil {
		srv.closeStore()
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// resolveHostKeyPath expands a leading ~ and falls back to ~/.minesweeper/host_key.
func resolveHostKeyPath(path string) (string, error) {
	if path != "" && !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot get home directory: %w", err)
	}
	if path == "" {
		return filepath.Join(home, ".minesweeper", "host_key"), nil
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sess.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sess.User())
		wish.Fatalln(sess, "minesweeper needs an interactive terminal, try: ssh -t")
		return nil, nil
	}

	cfg := s.config.Runtime(pty.Window.Width, pty.Window.Height, 0)
	model := NewSessionModel(s.store, cfg, false)

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	}
}

// rateLimitMiddleware refuses new sessions from a host that connects too often.
func (s *SSHServer) rateLimitMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		host := remoteHost(sess.RemoteAddr())
		if !s.limits.Allow(host) {
			s.logger.Warn("session rate limited", "user", sess.User(), "remote", host)
			wish.Fatalln(sess, "Too many sessions. Please slow down.")
			return
		}
		next(sess)
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		start := time.Now()
		s.logger.Info("session started",
			"user", sess.User(),
			"remote", sess.RemoteAddr().String(),
		)
		next(sess)
		s.logger.Info("session ended",
			"user", sess.User(),
			"remote", sess.RemoteAddr().String(),
			"duration", time.Since(start).Round(time.Second),
		)
	}
}

// remoteHost strips the port from a remote address.
func remoteHost(addr net.Addr) string {
	if addr == nil {
		return ""
	}
	host, _, err := net.SplitHostPort(addr.String())
	if err != nil {
		return addr.String()
	}
	return host
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *SSHServer) ListenAndServe(ctx context.Context) error {
	s.started = time.Now()
	s.logger.Info("starting SSH server", "address", s.config.SSH.Address)

	go s.pruneLimiters(ctx, time.Minute)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.closeStore()
		if err != nil {
			return fmt.Errorf("ssh server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...", "uptime", time.Since(s.started).Round(time.Second))
	return s.Shutdown()
}

// pruneLimiters forgets hosts whose session budget has refilled.
func (s *SSHServer) pruneLimiters(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := s.limits.Prune(now); n > 0 {
				s.logger.Debug("pruned session limiters", "count", n, "remaining", s.limits.Len())
			}
		}
	}
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	defer s.closeStore()
	return s.server.Shutdown(ctx)
}

func (s *SSHServer) closeStore() {
	if s.store != nil {
		s.store.Close()
		s.store = nil
	}
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.SSH.Address
}
