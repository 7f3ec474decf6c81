package queue

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// Task type names.
const (
	TypeOrderConfirmationEmail = "email:order_confirmation"
	TypeOrderReminderEmail     = "email:order_reminder"
)

// OrderEmailPayload is the payload shared by order email tasks.
type OrderEmailPayload struct {
	OrderID uint `json:"order_id"`
}

// NewOrderConfirmationTask builds a confirmation email task.
func NewOrderConfirmationTask(orderID uint) (*asynq.Task, error) {
	payload, err := json.Marshal(OrderEmailPayload{OrderID: orderID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeOrderConfirmationEmail, payload), nil
}

// NewOrderReminderTask builds a reminder email task.
func NewOrderReminderTask(orderID uint) (*asynq.Task, error) {
	payload, err := json.Marshal(OrderEmailPayload{OrderID: orderID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeOrderReminderEmail, payload), nil
}
