// file: internal/server/server.go
// version: 2.0.0
// guid: 3f0a8b6d-4e2c-49d1-b5a7-c86e1d90f234

package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/richiekastl/vite-code-monitor/internal/watcher"
)

// Server exposes the monitor's status and Prometheus metrics over
// HTTP. It is optional; the monitor runs fine without it.
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	monitor    *watcher.Monitor
}

// New creates a Server for the given monitor.
func New(monitor *watcher.Monitor) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		router:  router,
		monitor: monitor,
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all the routes
func (s *Server) setupRoutes() {
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	s.router.GET("/healthz", s.healthCheck)
	s.router.GET("/api/status", s.status)
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) status(c *gin.Context) {
	c.JSON(http.StatusOK, s.monitor.Snapshot())
}

// Start binds addr and serves in the background. It returns once the
// listener is established or failed.
func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to bind status server: %w", err)
	}

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("[ERROR] server: %v", err)
		}
	}()

	log.Printf("[INFO] server: status endpoint listening on %s", ln.Addr())
	return nil
}

// Shutdown stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("status server forced to shutdown: %w", err)
	}
	return nil
}
