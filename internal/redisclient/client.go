package redisclient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	alertsKey      = "dashboard:alerts"
	maxAlerts      = 100
	detailsTTL     = 10 * time.Minute
	detailsKeyFmt  = "product:details:%s"
)

// Client wraps Redis for the operations dashboard: a capped alert feed and a
// product-details cache.
type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client and verifies connectivity
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// PushAlert prepends an alert to the dashboard feed, keeping only the most
// recent entries.
func (c *Client) PushAlert(ctx context.Context, alert map[string]interface{}) error {
	payload, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("failed to encode alert: %w", err)
	}

	pipe := c.rdb.Pipeline()
	pipe.LPush(ctx, alertsKey, payload)
	pipe.LTrim(ctx, alertsKey, 0, maxAlerts-1)

	_, err = pipe.Exec(ctx)
	return err
}

// RecentAlerts returns up to limit alerts, newest first.
func (c *Client) RecentAlerts(ctx context.Context, limit int) ([]map[string]interface{}, error) {
	if limit <= 0 || limit > maxAlerts {
		limit = maxAlerts
	}
	entries, err := c.rdb.LRange(ctx, alertsKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	alerts := make([]map[string]interface{}, 0, len(entries))
	for _, entry := range entries {
		var alert map[string]interface{}
		if err := json.Unmarshal([]byte(entry), &alert); err != nil {
			return nil, fmt.Errorf("failed to decode alert: %w", err)
		}
		alerts = append(alerts, alert)
	}
	return alerts, nil
}

// CacheProductDetails stores a product's presentation details with a TTL.
func (c *Client) CacheProductDetails(ctx context.Context, productID string, details map[string]interface{}) error {
	payload, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("failed to encode product details: %w", err)
	}
	return c.rdb.Set(ctx, fmt.Sprintf(detailsKeyFmt, productID), payload, detailsTTL).Err()
}

// GetCachedProductDetails returns the cached details, or nil on a miss.
func (c *Client) GetCachedProductDetails(ctx context.Context, productID string) (map[string]interface{}, error) {
	payload, err := c.rdb.Get(ctx, fmt.Sprintf(detailsKeyFmt, productID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var details map[string]interface{}
	if err := json.Unmarshal([]byte(payload), &details); err != nil {
		return nil, fmt.Errorf("failed to decode product details: %w", err)
	}
	return details, nil
}

// InvalidateProduct drops the cached details after a product mutation.
func (c *Client) InvalidateProduct(ctx context.Context, productID string) error {
	return c.rdb.Del(ctx, fmt.Sprintf(detailsKeyFmt, productID)).Err()
}
