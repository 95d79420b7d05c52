package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/core/ports/repositories"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const (
	keyPrefix       = "ledger:reports"
	versionKey      = keyPrefix + ":version"
	lastGoodPrefix  = keyPrefix + ":lkg"
	BumpChannel     = "ledger.reports.bump"
	DefaultCacheTTL = 5 * time.Minute
)

// ReportCache stores derived reports in Redis under a global version that is
// bumped on every ledger write. The latest successful result for each report
// key is kept without expiry and served, flagged stale, when a rebuild fails.
type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
	group  singleflight.Group
}

// NewReportCache instantiates the cache helper. A nil client disables caching.
func NewReportCache(client *redis.Client, ttl time.Duration) *ReportCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &ReportCache{client: client, ttl: ttl}
}

var _ repositories.ReportCache = (*ReportCache)(nil)

// Version returns the current cache version, initialising when missing.
func (c *ReportCache) Version(ctx context.Context) (int64, error) {
	ver, err := c.client.Get(ctx, versionKey).Int64()
	if errors.Is(err, redis.Nil) {
		if err := c.client.SetNX(ctx, versionKey, 1, 0).Err(); err != nil {
			return 0, err
		}
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	if ver <= 0 {
		ver = 1
		if err := c.client.Set(ctx, versionKey, ver, 0).Err(); err != nil {
			return 0, err
		}
	}
	return ver, nil
}

// Fetch loads a cached report into dest or populates it with loader. Concurrent
// misses for the same key share one loader call.
func (c *ReportCache) Fetch(ctx context.Context, dest any, loader func(context.Context) (any, error), keyParts ...string) (bool, error) {
	if loader == nil {
		return false, errors.New("cache: loader required")
	}
	if c == nil || c.client == nil {
		return false, decodeFrom(ctx, dest, loader)
	}

	joined := strings.Join(keyParts, ":")
	ver, err := c.Version(ctx)
	if err != nil {
		// Redis unavailable: compute directly.
		return false, decodeFrom(ctx, dest, loader)
	}
	key := fmt.Sprintf("%s:%s:%d", keyPrefix, joined, ver)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		return false, json.Unmarshal(payload, dest)
	}
	if !errors.Is(err, redis.Nil) {
		return false, decodeFrom(ctx, dest, loader)
	}

	res, err, _ := c.group.Do(key, func() (any, error) {
		value, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		_ = c.client.Set(ctx, key, raw, c.ttl).Err()
		_ = c.client.Set(ctx, lastGoodPrefix+":"+joined, raw, 0).Err()
		return raw, nil
	})
	if err != nil {
		last, lerr := c.client.Get(ctx, lastGoodPrefix+":"+joined).Bytes()
		if lerr != nil {
			return false, err
		}
		if uerr := json.Unmarshal(last, dest); uerr != nil {
			return false, err
		}
		return true, nil
	}
	return false, json.Unmarshal(res.([]byte), dest)
}

// Bump invalidates every cached report by incrementing the global version and
// publishing an event for other instances.
func (c *ReportCache) Bump(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	ver, err := c.client.Incr(ctx, versionKey).Result()
	if err != nil {
		return err
	}
	return c.client.Publish(ctx, BumpChannel, strconv.FormatInt(ver, 10)).Err()
}

func decodeFrom(ctx context.Context, dest any, loader func(context.Context) (any, error)) error {
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
