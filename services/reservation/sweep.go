package reservation

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// SweepExpiredPending deletes pending reservations older than the TTL. The
// sweep is idempotent: a second run over the same window finds nothing. A
// reservation confirmed between the cutoff computation and the delete is
// excluded by the store's status predicate.
func (svc *DefaultReservationService) SweepExpiredPending(ctx context.Context, ttl time.Duration) (int64, error) {
	cutoff := svc.now().Add(-ttl)
	deleted, err := svc.Repo.DeleteExpiredPending(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("expiry sweep failed: %w", err)
	}

	if deleted > 0 {
		svc.logger().Info("expired pending reservations swept",
			zap.Int64("deleted", deleted),
			zap.Time("cutoff", cutoff))
	}
	return deleted, nil
}
