package app

import (
	"fmt"

	"github.com/fournil-next/internal/config"
	"github.com/fournil-next/internal/jobs"
	"github.com/fournil-next/internal/models"
	"github.com/fournil-next/internal/provider"
	"github.com/fournil-next/internal/router"
	"github.com/fournil-next/internal/worker"
)

// Run modes.
const (
	ModeAll    = "all"
	ModeAPI    = "api"
	ModeWorker = "worker"
)

// BuildRunner opens the database, wires the container and assembles the
// services for the requested mode.
func BuildRunner(cfg *config.Config, mode string) (*Runner, error) {
	switch mode {
	case ModeAll, ModeAPI, ModeWorker:
	default:
		return nil, fmt.Errorf("unknown mode %q (want all, api or worker)", mode)
	}

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig(cfg.Database.Pool)); err != nil {
		return nil, fmt.Errorf("database open: %w", err)
	}
	if err := models.AutoMigrate(); err != nil {
		return nil, fmt.Errorf("database migrate: %w", err)
	}

	container, err := provider.Build(cfg, models.DB)
	if err != nil {
		return nil, err
	}

	runner := NewRunner()
	runner.OnShutdown(container.Close)

	if mode == ModeAll || mode == ModeAPI {
		engine := router.New(container)
		runner.Add(NewHTTPService(cfg.Server.Host, cfg.Server.Port, engine))
	}

	if (mode == ModeAll || mode == ModeWorker) && cfg.Queue.Enabled {
		server := worker.NewServer(cfg.Queue)
		handlers := worker.NewEmailHandlers(container.OrderService, container.EmailService)
		handlers.Register(server.Mux())
		runner.Add(server)

		if cfg.Reminder.Enabled && container.QueueClient != nil {
			runner.Add(jobs.NewScheduler(container.OrderRepo, container.QueueClient, cfg.Reminder.CronSpec))
		}
	}

	return runner, nil
}
