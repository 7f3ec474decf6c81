package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fournil-next/internal/logger"
	"github.com/fournil-next/internal/models"
	"github.com/fournil-next/internal/queue"
	"github.com/fournil-next/internal/service"

	"github.com/hibiken/asynq"
)

// EmailHandlers processes the order email tasks.
type EmailHandlers struct {
	orders *service.OrderService
	email  *service.EmailService
}

// NewEmailHandlers creates the email task handlers.
func NewEmailHandlers(orders *service.OrderService, email *service.EmailService) *EmailHandlers {
	return &EmailHandlers{orders: orders, email: email}
}

// Register attaches the handlers to the mux.
func (h *EmailHandlers) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(queue.TypeOrderConfirmationEmail, h.HandleOrderConfirmation)
	mux.HandleFunc(queue.TypeOrderReminderEmail, h.HandleOrderReminder)
}

// HandleOrderConfirmation sends the confirmation email for one order.
func (h *EmailHandlers) HandleOrderConfirmation(ctx context.Context, task *asynq.Task) error {
	order, err := h.loadOrder(task)
	if err != nil {
		return err
	}
	if order == nil {
		return nil
	}
	if err := h.email.SendOrderConfirmation(order); err != nil {
		logger.Warnw("confirmation email failed", "order_id", order.ID, "error", err)
		return err
	}
	return nil
}

// HandleOrderReminder sends the pickup reminder email for one order.
func (h *EmailHandlers) HandleOrderReminder(ctx context.Context, task *asynq.Task) error {
	order, err := h.loadOrder(task)
	if err != nil {
		return err
	}
	if order == nil {
		return nil
	}
	if err := h.email.SendOrderReminder(order); err != nil {
		logger.Warnw("reminder email failed", "order_id", order.ID, "error", err)
		return err
	}
	return nil
}

// loadOrder decodes the payload and resolves the order. A missing order is
// not retried.
func (h *EmailHandlers) loadOrder(task *asynq.Task) (*models.Order, error) {
	var payload queue.OrderEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return nil, fmt.Errorf("decode payload: %w: %v", asynq.SkipRetry, err)
	}
	o, err := h.orders.Get(payload.OrderID)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			logger.Warnw("email task for missing order", "order_id", payload.OrderID)
			return nil, nil
		}
		return nil, err
	}
	return o, nil
}
