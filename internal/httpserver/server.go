package httpserver

import (
	"context"
	"errors"
	"math"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tinytelemetry/scrollspy/internal/model"
)

// DefaultAddr keeps the control API on the loopback interface.
const DefaultAddr = "127.0.0.1:7070"

// maxDurationMS is the longest suppression that fits in a time.Duration.
const maxDurationMS = math.MaxInt64 / int64(time.Millisecond)

// Controller is the narrow reader contract required by the HTTP API.
// Implementations must be safe for concurrent use.
type Controller interface {
	Snapshot() model.Snapshot
	Navigate(id string) error
	Suppress(d time.Duration) error
}

// Server provides an HTTP API for driving a running reader.
type Server struct {
	addr      string
	ctrl      Controller
	logger    *zap.Logger
	server    *http.Server
	ctx       context.Context
	cancel    context.CancelFunc
	startTime time.Time
}

// NewServer creates a new HTTP API server.
func NewServer(addr string, ctrl Controller, logger *zap.Logger) *Server {
	if addr == "" {
		addr = DefaultAddr
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		addr:   addr,
		ctrl:   ctrl,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/api/health", s.handleHealth)
	r.GET("/api/sections", s.handleSections)
	r.GET("/api/active", s.handleActive)
	r.POST("/api/navigate", s.handleNavigate)
	r.POST("/api/suppress", s.handleSuppress)
	return r
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	gin.SetMode(gin.ReleaseMode)

	s.server = &http.Server{
		Handler:           s.routes(),
		BaseContext:       func(_ net.Listener) context.Context { return s.ctx },
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}

	s.startTime = time.Now()
	s.logger.Info("control API listening", zap.String("addr", listener.Addr().String()))

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("control API stopped", zap.Error(err))
		}
	}()
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop() error {
	s.cancel()
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(s.startTime).String(),
	})
}

func (s *Server) handleSections(c *gin.Context) {
	snap := s.ctrl.Snapshot()
	sections := snap.Sections
	if sections == nil {
		sections = []model.Section{}
	}
	c.JSON(http.StatusOK, gin.H{
		"title":    snap.Title,
		"sections": sections,
	})
}

func (s *Server) handleActive(c *gin.Context) {
	snap := s.ctrl.Snapshot()
	var active any
	if snap.HasActive {
		active = snap.Active
	}
	c.JSON(http.StatusOK, gin.H{
		"active":     active,
		"suppressed": snap.Suppressed,
	})
}

func (s *Server) handleNavigate(c *gin.Context) {
	var req struct {
		ID string `json:"id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body or missing id field"})
		return
	}

	if err := s.ctrl.Navigate(req.ID); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"navigating": req.ID})
}

func (s *Server) handleSuppress(c *gin.Context) {
	var req struct {
		DurationMS *int64 `json:"duration_ms" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body or missing duration_ms field"})
		return
	}

	if *req.DurationMS > maxDurationMS {
		c.JSON(http.StatusBadRequest, gin.H{"error": "duration_ms out of range"})
		return
	}
	d := time.Duration(*req.DurationMS) * time.Millisecond
	if err := s.ctrl.Suppress(d); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"suppressed_for": d.String()})
}

func (s *Server) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, model.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, model.ErrInvalidArgument):
		status = http.StatusBadRequest
	case errors.Is(err, model.ErrUnavailable):
		status = http.StatusServiceUnavailable
	}
	s.logger.Debug("control request rejected", zap.Int("status", status), zap.Error(err))
	c.JSON(status, gin.H{"error": err.Error()})
}
