package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/fournil-next/internal/logger"

	"github.com/gin-gonic/gin"
)

// HTTPService serves the API as a supervised service.
type HTTPService struct {
	server *http.Server
}

// NewHTTPService wraps the engine in an http.Server.
func NewHTTPService(host, port string, engine *gin.Engine) *HTTPService {
	return &HTTPService{
		server: &http.Server{
			Addr:              net.JoinHostPort(host, port),
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Name identifies the service in lifecycle logs.
func (s *HTTPService) Name() string {
	return "http-api"
}

// Start listens until Stop is called.
func (s *HTTPService) Start() error {
	logger.Infow("http listening", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop drains in-flight requests and closes the listener.
func (s *HTTPService) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
