package jobs

import (
	"context"
	"time"

	"github.com/fournil-next/internal/constants"
	"github.com/fournil-next/internal/logger"
	"github.com/fournil-next/internal/models"
	"github.com/fournil-next/internal/repository"
	"github.com/fournil-next/internal/service"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the recurring jobs. Currently a single evening pass that
// queues pickup reminders for tomorrow's orders.
type Scheduler struct {
	cron      *cron.Cron
	orderRepo repository.OrderRepository
	enqueuer  service.TaskEnqueuer
	spec      string
}

// NewScheduler creates the job scheduler.
func NewScheduler(orderRepo repository.OrderRepository, enqueuer service.TaskEnqueuer, spec string) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		orderRepo: orderRepo,
		enqueuer:  enqueuer,
		spec:      spec,
	}
}

// Name identifies the service in lifecycle logs.
func (s *Scheduler) Name() string {
	return "job-scheduler"
}

// Start registers the jobs and runs the scheduler.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.RunReminderPass); err != nil {
		return err
	}
	s.cron.Start()
	logger.Infow("job scheduler started", "reminder_spec", s.spec)
	return nil
}

// Stop halts the scheduler, waiting for a running job to finish.
func (s *Scheduler) Stop(ctx context.Context) error {
	stopped := s.cron.Stop()
	select {
	case <-stopped.Done():
	case <-ctx.Done():
	}
	return nil
}

// RunReminderPass queues a reminder for every order picked up tomorrow
// that still awaits its customer and has an email address.
func (s *Scheduler) RunReminderPass() {
	tomorrow := models.DateOnly(time.Now().AddDate(0, 0, 1))
	filter := repository.OrderListFilter{
		Page:       1,
		PageSize:   1000,
		PickupFrom: &tomorrow,
		PickupTo:   &tomorrow,
	}
	orders, _, err := s.orderRepo.List(filter)
	if err != nil {
		logger.Errorw("reminder pass failed to list orders", "error", err)
		return
	}

	queued := 0
	for _, order := range orders {
		if order.Status == constants.OrderStatusCancelled || order.Status == constants.OrderStatusPickedUp {
			continue
		}
		if order.CustomerEmail == "" {
			continue
		}
		if err := s.enqueuer.EnqueueOrderReminder(order.ID); err != nil {
			logger.Warnw("reminder enqueue failed", "order_id", order.ID, "error", err)
			continue
		}
		queued++
	}
	logger.Infow("reminder pass finished",
		"pickup_date", tomorrow.Format("2006-01-02"),
		"queued", queued,
	)
}
