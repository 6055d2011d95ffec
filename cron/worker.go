package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"staybook/config"
	"staybook/models"
	"staybook/services/notification"

	"github.com/hibiken/asynq"
)

// InitNotifyWorker runs the async worker consuming reservation notices in the
// background. Delivery is fire-and-forget relative to the state transitions
// that queued the notices.
func InitNotifyWorker(sender notification.PushSender) *asynq.Server {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(notification.TypeReservationNotify, handleNotifyTask(sender))

	// Start async worker with retry logic
	go func() {
		log.Println("[NotifyWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[NotifyWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[NotifyWorker] max retry attempts reached, exiting")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()

	return srv
}

func handleNotifyTask(sender notification.PushSender) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.NotifyPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[NotifyHandler] invalid payload: %v", err)
			return err
		}

		if err := sender.Send(ctx, p.RecipientID, p.Title, p.Body, p.Data); err != nil {
			log.Printf("[NotifyHandler] failed to send notification for reservation %s: %v", p.ReservationID, err)
			return err
		}
		return nil
	}
}
