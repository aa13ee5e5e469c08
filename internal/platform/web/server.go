// Package web serves minesweeper games over a JSON HTTP API.
// Every game lives in memory under a random ID and is dropped after it sat idle
// for the configured TTL. Wins are recorded in the best-time store.
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	ginGzip "github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-minesweeper/internal/config"
	"github.com/vovakirdan/tui-minesweeper/internal/core"
	"github.com/vovakirdan/tui-minesweeper/internal/engine"
	"github.com/vovakirdan/tui-minesweeper/internal/platform/limiter"
	"github.com/vovakirdan/tui-minesweeper/internal/storage"
)

// ErrTooManyGames is returned when the game table is full.
var ErrTooManyGames = errors.New("web: too many active games")

// game is one hosted session. The engine is single-threaded, so every
// access goes through mu.
type game struct {
	mu         sync.Mutex
	session    *engine.Session
	lastAccess time.Time
	recorded   bool
	newRecord  bool
}

// Server hosts games and exposes them over HTTP.
type Server struct {
	cfg     config.Config
	store   *storage.Store // May be nil; wins are then not recorded
	limits  *limiter.Set
	logger  *log.Logger
	now     func() time.Time
	engine  []engine.Option
	router  *gin.Engine
	started time.Time

	mu    sync.RWMutex
	games map[string]*game
}

// Option customises a Server.
type Option func(*Server)

// WithLogger replaces the default stderr logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithEngineOptions passes opts to every new game, e.g. a fixed mine layout.
func WithEngineOptions(opts ...engine.Option) Option {
	return func(s *Server) { s.engine = append(s.engine, opts...) }
}

// WithNow sets the clock used for idle tracking.
func WithNow(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// NewServer creates the HTTP server. The store stays owned by the caller.
func NewServer(cfg config.Config, store *storage.Store, opts ...Option) *Server {
	s := &Server{
		cfg:   cfg,
		store: store,
		limits: limiter.New(cfg.HTTP.RateLimitRPS, time.Second, cfg.HTTP.RateLimitBurst),
		logger: log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "minesweeper-web",
		}),
		now:   time.Now,
		games: make(map[string]*game),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestIDMiddleware(),
		loggingMiddleware(s.logger),
		ginGzip.Gzip(ginGzip.DefaultCompression),
	)

	router.GET("/healthz", s.healthHandler)

	api := router.Group("/api", noStoreMiddleware())
	api.POST("/games", s.rateLimitMiddleware(), s.newGameHandler)
	api.GET("/games/:id", s.gameHandler)
	api.DELETE("/games/:id", s.deleteGameHandler)
	api.POST("/games/:id/reveal", s.rateLimitMiddleware(), s.revealHandler)
	api.POST("/games/:id/flag", s.rateLimitMiddleware(), s.flagHandler)
	api.GET("/games/:id/peek", s.peekHandler)
	api.GET("/best-times", s.bestTimesHandler)
	api.GET("/best-times/:board", s.boardStatsHandler)

	return router
}

// Handler returns the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// createGame starts a session on cfg and stores it under a new ID.
func (s *Server) createGame(cfg engine.Config, seed int64) (string, *game, error) {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if err := s.cfg.Limits.Check(cfg); err != nil {
		return "", nil, err
	}
	opts := append([]engine.Option{engine.WithSeed(seed)}, s.engine...)
	session, err := engine.NewGame(cfg, opts...)
	if err != nil {
		return "", nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if limit := s.cfg.HTTP.MaxSessions; limit > 0 && len(s.games) >= limit {
		s.pruneLocked()
		if len(s.games) >= limit {
			return "", nil, ErrTooManyGames
		}
	}

	id := uuid.NewString()
	g := &game{session: session, lastAccess: s.now()}
	s.games[id] = g
	return id, g, nil
}

// lookup returns the game with id, or nil.
func (s *Server) lookup(id string) *game {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.games[id]
}

func (s *Server) remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[id]; !ok {
		return false
	}
	delete(s.games, id)
	return true
}

// GameCount returns the number of hosted games.
func (s *Server) GameCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.games)
}

// PruneIdle drops games idle for longer than the session TTL and returns how many were dropped.
func (s *Server) PruneIdle() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pruneLocked()
}

func (s *Server) pruneLocked() int {
	cutoff := s.now().Add(-s.cfg.HTTP.SessionTTL)
	removed := 0
	for id, g := range s.games {
		g.mu.Lock()
		idle := g.lastAccess.Before(cutoff)
		g.mu.Unlock()
		if idle {
			delete(s.games, id)
			removed++
		}
	}
	return removed
}

// recordFinish saves a terminal session once. Storage errors are logged and ignored.
// Callers hold g.mu.
func (s *Server) recordFinish(ctx context.Context, g *game) {
	if g.recorded || !g.session.GameOver() {
		return
	}
	g.recorded = true
	if s.store == nil {
		return
	}

	improved, err := s.store.RecordFinish(core.Finish{
		Board:          g.session.Config(),
		Won:            g.session.Status() == engine.StatusWon,
		ElapsedSeconds: g.session.ElapsedSeconds(),
	})
	if err != nil {
		s.logger.Warn("could not record result", "error", err, "request_id", requestID(ctx))
		return
	}
	g.newRecord = improved
}

// bestSeconds looks up the stored record of a board.
func (s *Server) bestSeconds(key string) *int {
	if s.store == nil {
		return nil
	}
	secs, ok, err := s.store.BestTime(key)
	if err != nil || !ok {
		return nil
	}
	return &secs
}

// ListenAndServe serves until ctx is cancelled, pruning idle games in the background.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.started = time.Now()
	srv := &http.Server{
		Addr:              s.cfg.HTTP.Address,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go s.pruneLoop(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "address", s.cfg.HTTP.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...", "games", s.GameCount())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) pruneLoop(ctx context.Context) {
	interval := s.cfg.HTTP.SessionTTL / 4
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.PruneIdle(); n > 0 {
				s.logger.Info("pruned idle games", "count", n, "remaining", s.GameCount())
			}
			if n := s.limits.Prune(time.Now()); n > 0 {
				s.logger.Debug("pruned rate limiters", "count", n, "remaining", s.limits.Len())
			}
		}
	}
}
