package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"staybook/config"
	"staybook/models"

	"github.com/hibiken/asynq"
)

// TypeReservationNotify is the asynq task type for reservation notices.
const TypeReservationNotify = "reservation:notify"

// AsynqDispatcher enqueues reservation notices on the Redis-backed task queue
// consumed by the cron worker.
type AsynqDispatcher struct {
	client *asynq.Client
}

// NewAsynqDispatcher creates a Dispatcher backed by asynq.
func NewAsynqDispatcher() *AsynqDispatcher {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	return &AsynqDispatcher{client: client}
}

// DispatchReservationNotice marshals the payload and enqueues it.
func (d *AsynqDispatcher) DispatchReservationNotice(ctx context.Context, p models.NotifyPayload) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal notify payload: %w", err)
	}
	if _, err := d.client.EnqueueContext(ctx, asynq.NewTask(TypeReservationNotify, data)); err != nil {
		return fmt.Errorf("failed to enqueue reservation notice: %w", err)
	}
	return nil
}

// Close releases the underlying asynq client.
func (d *AsynqDispatcher) Close() error {
	return d.client.Close()
}
