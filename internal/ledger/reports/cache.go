package reports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const bumpChannel = "ledger.bump"

// Cache wraps Redis based caching with per-tenant versioning. Every posting
// bumps the tenant's version, so stale report payloads simply stop being
// addressed. A nil cache degrades to building on every call.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache instantiates the cache helper.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func versionKey(tenantID int64) string {
	return fmt.Sprintf("reports:version:%d", tenantID)
}

// Version returns the tenant's cache version, initialising when missing.
func (c *Cache) Version(ctx context.Context, tenantID int64) (int64, error) {
	if c == nil || c.client == nil {
		return 0, nil
	}
	ver, err := c.client.Get(ctx, versionKey(tenantID)).Int64()
	if err == redis.Nil {
		if err := c.client.Set(ctx, versionKey(tenantID), 1, 0).Err(); err != nil {
			return 0, err
		}
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	if ver <= 0 {
		ver = 1
		if err := c.client.Set(ctx, versionKey(tenantID), ver, 0).Err(); err != nil {
			return 0, err
		}
	}
	return ver, nil
}

// BuildKey composes the cache key with the tenant's current version.
func (c *Cache) BuildKey(ctx context.Context, tenantID int64, parts ...string) (string, error) {
	joined := strings.Join(parts, ":")
	if c == nil || c.client == nil {
		return joined, nil
	}
	ver, err := c.Version(ctx, tenantID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%d", joined, ver), nil
}

// FetchJSON loads a cached value or populates it using the loader.
func (c *Cache) FetchJSON(ctx context.Context, key string, dest interface{}, loader func(context.Context) (interface{}, error)) error {
	if loader == nil {
		return errors.New("cache: loader required")
	}
	if c == nil || c.client == nil {
		value, err := loader(ctx)
		if err != nil {
			return err
		}
		raw, err := json.Marshal(value)
		if err != nil {
			return err
		}
		return json.Unmarshal(raw, dest)
	}
	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		return json.Unmarshal(payload, dest)
	}
	if err != redis.Nil {
		return err
	}
	value, err := loader(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

// Bump invalidates the tenant's cached reports by incrementing its version
// and publishing the event for other instances.
func (c *Cache) Bump(ctx context.Context, tenantID int64) error {
	if c == nil || c.client == nil {
		return nil
	}
	ver, err := c.client.Incr(ctx, versionKey(tenantID)).Result()
	if err != nil {
		return err
	}
	payload := fmt.Sprintf("%d:%d", tenantID, ver)
	return c.client.Publish(ctx, bumpChannel, payload).Err()
}

// ListenForInvalidation subscribes to version bump notifications so a warm
// instance tracks versions bumped elsewhere.
func (c *Cache) ListenForInvalidation(ctx context.Context, channel string) error {
	if c == nil || c.client == nil {
		return nil
	}
	if channel == "" {
		channel = bumpChannel
	}
	pubsub := c.client.Subscribe(ctx, channel)
	go func() {
		defer func() { _ = pubsub.Close() }()
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				tenant, ver, ok := parseBump(msg.Payload)
				if !ok {
					continue
				}
				_ = c.client.Set(ctx, versionKey(tenant), ver, 0).Err()
			}
		}
	}()
	return nil
}

func parseBump(payload string) (tenantID, version int64, ok bool) {
	parts := strings.SplitN(payload, ":", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	tenant, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, 0, false
	}
	ver, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, 0, false
	}
	return tenant, ver, true
}

func keyTrialBalance(tenantID, periodID int64) string {
	return fmt.Sprintf("reports:tb:%d:%d", tenantID, periodID)
}

func keyBalanceSheet(tenantID, periodID int64) string {
	return fmt.Sprintf("reports:bs:%d:%d", tenantID, periodID)
}

func keyIncomeStatement(tenantID, periodID int64) string {
	return fmt.Sprintf("reports:is:%d:%d", tenantID, periodID)
}
