package queue

import (
	"fmt"
	"time"

	"github.com/fournil-next/internal/config"
	"github.com/fournil-next/internal/constants"
	"github.com/fournil-next/internal/logger"

	"github.com/hibiken/asynq"
)

// Client enqueues background tasks. It satisfies the order service's
// enqueuer contract.
type Client struct {
	client *asynq.Client
}

// RedisOpt builds the asynq redis connection options.
func RedisOpt(cfg config.QueueConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

// NewClient creates the queue client, or nil when the queue is disabled.
func NewClient(cfg config.QueueConfig) *Client {
	if !cfg.Enabled {
		return nil
	}
	return &Client{client: asynq.NewClient(RedisOpt(cfg))}
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EnqueueOrderConfirmation queues a confirmation email for one order.
func (c *Client) EnqueueOrderConfirmation(orderID uint) error {
	task, err := NewOrderConfirmationTask(orderID)
	if err != nil {
		return err
	}
	return c.enqueue(task, constants.QueueDefault)
}

// EnqueueOrderReminder queues a pickup reminder email for one order.
func (c *Client) EnqueueOrderReminder(orderID uint) error {
	task, err := NewOrderReminderTask(orderID)
	if err != nil {
		return err
	}
	return c.enqueue(task, constants.QueueDefault)
}

func (c *Client) enqueue(task *asynq.Task, queue string) error {
	info, err := c.client.Enqueue(task,
		asynq.Queue(queue),
		asynq.MaxRetry(5),
		asynq.Timeout(30*time.Second),
	)
	if err != nil {
		return err
	}
	logger.Debugw("task enqueued", "task_id", info.ID, "type", task.Type(), "queue", info.Queue)
	return nil
}
