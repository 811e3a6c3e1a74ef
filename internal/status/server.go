// Package status exposes a small local HTTP endpoint reporting the 6-DOF
// metadata of a configured source, for sidecar use next to a player.
package status

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jtang/sixdofprobe/internal/probe"
)

// LoadFunc supplies the leading transport-stream bytes of the configured
// source on each request.
type LoadFunc func(ctx context.Context) ([]byte, error)

// Server probes a source on demand and reports the result as JSON.
type Server struct {
	load   LoadFunc
	prober *probe.Prober
	log    *slog.Logger
}

// New creates a status server. If log is nil, slog.Default() is used.
func New(load LoadFunc, prober *probe.Prober, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		load:   load,
		prober: prober,
		log:    log.With("component", "status"),
	}
}

// Router builds the gin engine serving the status API.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/api/metadata", s.handleMetadata)

	return r
}

// Run serves the status API on addr until the listener fails.
func (s *Server) Run(addr string) error {
	s.log.Info("status server listening", "addr", addr)
	return s.Router().Run(addr)
}

func (s *Server) handleMetadata(c *gin.Context) {
	ts, err := s.load(c.Request.Context())
	if err != nil {
		s.log.Warn("source load failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	dec, err := s.prober.Extract(ts)
	switch {
	case errors.Is(err, probe.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case err != nil:
		s.log.Warn("decode failed", "error", err)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, probe.BuildReport(dec))
	}
}
