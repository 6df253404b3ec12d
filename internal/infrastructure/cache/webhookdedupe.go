package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// webhookKeyPrefix namespaces delivery claims. Keys are
// ticktrack:dedupe:{caller key}.
const webhookKeyPrefix = "ticktrack:dedupe:"

// DeliveryDedupe gives the webhook processor a cross-instance fast path for
// repeated deliveries. The database ledger remains the authority; a claim here
// only saves the transaction for an obvious replay.
type DeliveryDedupe struct {
	client redis.UniversalClient
}

func NewDeliveryDedupe(client redis.UniversalClient) *DeliveryDedupe {
	return &DeliveryDedupe{client: client}
}

// Claim atomically marks key as seen. It reports false when another
// delivery already holds the claim.
func (d *DeliveryDedupe) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	acquired, err := d.client.SetNX(ctx, webhookKeyPrefix+key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim delivery: %w", err)
	}
	return acquired, nil
}

// Release drops a claim so a retried delivery is processed again.
func (d *DeliveryDedupe) Release(ctx context.Context, key string) error {
	if err := d.client.Del(ctx, webhookKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to release delivery claim: %w", err)
	}
	return nil
}
