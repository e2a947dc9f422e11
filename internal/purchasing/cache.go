package purchasing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache keeps recently read order aggregates in Redis so detail reads do not
// hit Postgres on every poll. Writes invalidate by order id. A nil cache is
// a no-op.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache instantiates the cache helper.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func cacheKey(orderID int64) string {
	return fmt.Sprintf("purchasing:order:%d", orderID)
}

// GetOrder returns the cached aggregate, ok=false on miss.
func (c *Cache) GetOrder(ctx context.Context, orderID int64) (PurchaseOrder, bool) {
	if c == nil || c.client == nil {
		return PurchaseOrder{}, false
	}
	raw, err := c.client.Get(ctx, cacheKey(orderID)).Bytes()
	if err != nil {
		return PurchaseOrder{}, false
	}
	var order PurchaseOrder
	if err := json.Unmarshal(raw, &order); err != nil {
		return PurchaseOrder{}, false
	}
	return order, true
}

// SetOrder stores the aggregate for the configured TTL.
func (c *Cache) SetOrder(ctx context.Context, order PurchaseOrder) error {
	if c == nil || c.client == nil {
		return nil
	}
	raw, err := json.Marshal(order)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, cacheKey(order.ID), raw, c.ttl).Err()
}

// Invalidate drops the cached aggregate after any write.
func (c *Cache) Invalidate(ctx context.Context, orderID int64) error {
	if c == nil || c.client == nil {
		return nil
	}
	err := c.client.Del(ctx, cacheKey(orderID)).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}
