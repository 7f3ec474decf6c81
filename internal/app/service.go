// Package app runs the process: it assembles the enabled services and
// supervises their lifecycle until a shutdown signal arrives.
package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fournil-next/internal/logger"
)

// Service is one long-running component supervised by the runner.
type Service interface {
	Name() string
	Start() error
	Stop(ctx context.Context) error
}

// Runner starts services, waits for SIGINT/SIGTERM and stops them in
// reverse order.
type Runner struct {
	services    []Service
	stopTimeout time.Duration
	cleanup     []func()
}

// NewRunner creates the runner.
func NewRunner() *Runner {
	return &Runner{stopTimeout: 15 * time.Second}
}

// Add registers a service.
func (r *Runner) Add(s Service) {
	r.services = append(r.services, s)
}

// OnShutdown registers a cleanup callback run after every service stopped.
func (r *Runner) OnShutdown(fn func()) {
	r.cleanup = append(r.cleanup, fn)
}

// Run starts everything and blocks until shutdown completes.
func (r *Runner) Run() error {
	errCh := make(chan error, len(r.services))
	for _, s := range r.services {
		s := s
		logger.Infow("service starting", "service", s.Name())
		go func() {
			if err := s.Start(); err != nil {
				logger.Errorw("service exited", "service", s.Name(), "error", err)
				errCh <- err
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		logger.Infow("shutdown signal received", "signal", sig.String())
	case err := <-errCh:
		logger.Errorw("service failure, shutting down", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.stopTimeout)
	defer cancel()
	for i := len(r.services) - 1; i >= 0; i-- {
		s := r.services[i]
		if err := s.Stop(ctx); err != nil {
			logger.Warnw("service stop failed", "service", s.Name(), "error", err)
		} else {
			logger.Infow("service stopped", "service", s.Name())
		}
	}
	for _, fn := range r.cleanup {
		fn()
	}
	return nil
}
