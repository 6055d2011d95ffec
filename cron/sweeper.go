package cron

import (
	"context"
	"time"

	"staybook/services/reservation"

	"go.uber.org/zap"
)

// StartExpirySweeper runs the pending-reservation expiry sweep on a fixed
// cadence until the context is cancelled. The sweep owns no state beyond
// "now minus TTL"; a failed run is logged and the next tick tries again.
func StartExpirySweeper(ctx context.Context, svc reservation.ReservationService, interval, ttl time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("expiry sweeper started",
		zap.Duration("interval", interval),
		zap.Duration("ttl", ttl))

	for {
		select {
		case <-ctx.Done():
			logger.Info("expiry sweeper shutting down")
			return
		case <-ticker.C:
			deleted, err := svc.SweepExpiredPending(ctx, ttl)
			if err != nil {
				logger.Error("expiry sweep run failed", zap.Error(err))
				continue
			}
			if deleted > 0 {
				logger.Info("expiry sweep run complete", zap.Int64("deleted", deleted))
			}
		}
	}
}
