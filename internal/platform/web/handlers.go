package web

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vovakirdan/tui-minesweeper/internal/engine"
	"github.com/vovakirdan/tui-minesweeper/internal/storage"
)

type newGameRequest struct {
	Rows  int   `json:"rows"`
	Cols  int   `json:"cols"`
	Mines int   `json:"mines"`
	Seed  int64 `json:"seed"`
}

type cellRequest struct {
	Row *int `json:"row" binding:"required"`
	Col *int `json:"col" binding:"required"`
}

// withGame runs fn with the game named by the :id parameter locked.
func (s *Server) withGame(c *gin.Context, fn func(id string, g *game)) {
	id := c.Param("id")
	g := s.lookup(id)
	if g == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastAccess = s.now()
	fn(id, g)
}

// view renders g for clients. Callers hold g.mu.
func (s *Server) view(id string, g *game) GameView {
	v := newGameView(id, g.session)
	v.BestSeconds = s.bestSeconds(v.Board)
	v.NewRecord = g.newRecord
	return v
}

// newGameHandler starts a game. Missing fields fall back to the configured board.
func (s *Server) newGameHandler(c *gin.Context) {
	req := newGameRequest{
		Rows:  s.cfg.Board.Rows,
		Cols:  s.cfg.Board.Cols,
		Mines: s.cfg.Board.Mines,
	}
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	cfg := engine.Config{Rows: req.Rows, Cols: req.Cols, Mines: req.Mines}
	id, g, err := s.createGame(cfg, req.Seed)
	switch {
	case errors.Is(err, engine.ErrInvalidConfiguration):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, ErrTooManyGames):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Too many active games. Try again later."})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	s.logger.Debug("game created", "id", id, "board", cfg.Key(), "request_id", requestID(c.Request.Context()))

	g.mu.Lock()
	defer g.mu.Unlock()
	c.Header("Location", "/api/games/"+id)
	c.JSON(http.StatusCreated, s.view(id, g))
}

func (s *Server) gameHandler(c *gin.Context) {
	s.withGame(c, func(id string, g *game) {
		c.JSON(http.StatusOK, s.view(id, g))
	})
}

func (s *Server) deleteGameHandler(c *gin.Context) {
	if !s.remove(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) revealHandler(c *gin.Context) {
	var req cellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "row and col are required"})
		return
	}

	s.withGame(c, func(id string, g *game) {
		res, err := g.session.Reveal(*req.Row, *req.Col)
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}
		s.recordFinish(c.Request.Context(), g)

		c.JSON(http.StatusOK, gin.H{
			"game":   s.view(id, g),
			"result": newResultView(res),
		})
	})
}

func (s *Server) flagHandler(c *gin.Context) {
	var req cellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "row and col are required"})
		return
	}

	s.withGame(c, func(id string, g *game) {
		res, err := g.session.ToggleFlag(*req.Row, *req.Col)
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"game": s.view(id, g),
			"flag": FlagView{Pos: res.Pos, Flagged: res.Flagged, Changed: res.Changed},
		})
	})
}

// peekHandler lists the mines that are still hidden. It never changes the game.
func (s *Server) peekHandler(c *gin.Context) {
	s.withGame(c, func(id string, g *game) {
		c.JSON(http.StatusOK, gin.H{
			"id":    id,
			"mines": hiddenMines(g.session),
		})
	})
}

func (s *Server) bestTimesHandler(c *gin.Context) {
	entries := []storage.BestTimeEntry{}
	if s.store != nil {
		stored, err := s.store.BestTimes()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		entries = append(entries, stored...)
	}
	c.JSON(http.StatusOK, gin.H{"best_times": entries})
}

func (s *Server) boardStatsHandler(c *gin.Context) {
	cfg, err := engine.ParseConfig(c.Param("board"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if s.store == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "best times are not recorded"})
		return
	}

	stats, err := s.store.GetStats(cfg.Key())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"stats":        stats,
		"best_seconds": s.bestSeconds(cfg.Key()),
	})
}

func (s *Server) healthHandler(c *gin.Context) {
	uptime := time.Duration(0)
	if !s.started.IsZero() {
		uptime = time.Since(s.started).Round(time.Second)
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"games":     s.GameCount(),
		"storage":   s.store != nil,
		"uptime":    uptime.String(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// statusFor maps engine errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, engine.ErrOutOfBounds), errors.Is(err, engine.ErrInvalidConfiguration):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
