package worker

import (
	"context"

	"github.com/fournil-next/internal/config"
	"github.com/fournil-next/internal/logger"
	"github.com/fournil-next/internal/queue"

	"github.com/hibiken/asynq"
)

// Server wraps the asynq consumer as a runnable service.
type Server struct {
	server *asynq.Server
	mux    *asynq.ServeMux
}

// NewServer builds the task consumer with the configured concurrency and
// queue weights.
func NewServer(cfg config.QueueConfig) *Server {
	queues := cfg.Queues
	if len(queues) == 0 {
		queues = map[string]int{"default": 10}
	}
	server := asynq.NewServer(queue.RedisOpt(cfg), asynq.Config{
		Concurrency: cfg.Concurrency,
		Queues:      queues,
		Logger:      asynqLogger{},
	})
	return &Server{server: server, mux: asynq.NewServeMux()}
}

// Mux exposes the handler mux for registration.
func (s *Server) Mux() *asynq.ServeMux {
	return s.mux
}

// Name identifies the service in lifecycle logs.
func (s *Server) Name() string {
	return "task-worker"
}

// Start runs the consumer until Stop is called.
func (s *Server) Start() error {
	return s.server.Run(s.mux)
}

// Stop shuts down the consumer, letting in-flight tasks finish.
func (s *Server) Stop(ctx context.Context) error {
	s.server.Shutdown()
	return nil
}

// asynqLogger adapts asynq's logging onto the shared logger.
type asynqLogger struct{}

func (asynqLogger) Debug(args ...interface{}) { logger.S().Debug(args...) }
func (asynqLogger) Info(args ...interface{})  { logger.S().Info(args...) }
func (asynqLogger) Warn(args ...interface{})  { logger.S().Warn(args...) }
func (asynqLogger) Error(args ...interface{}) { logger.S().Error(args...) }
func (asynqLogger) Fatal(args ...interface{}) { logger.S().Fatal(args...) }
