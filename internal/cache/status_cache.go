// Package cache holds the zone status projection. It is a key/value
// collaborator addressed independently from relational storage: one
// StatusSnapshot per zone under the key "Z:{zoneId}:STATUS", plus a set
// indexing every zone that has a snapshot.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"evac_dispatch/internal/models"
)

// DefaultTTL is the sliding expiry applied when Set is called with ttl 0.
// Stale zones age out of the projection after a day without activity.
const DefaultTTL = 24 * time.Hour

const keyIndex = "Z:STATUS:KEYS"

func statusKey(zoneID uint) string {
	return fmt.Sprintf("Z:%d:STATUS", zoneID)
}

// StatusCache is the cache collaborator consumed by the services. Get
// returns nil without error when no snapshot exists for the zone.
type StatusCache interface {
	Get(ctx context.Context, zoneID uint) (*models.StatusSnapshot, error)
	Set(ctx context.Context, snap models.StatusSnapshot, ttl time.Duration) error
	ZoneKeys(ctx context.Context) ([]uint, error)
	ClearAll(ctx context.Context) error
}

type redisStatusCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStatusCache wraps a connected Redis client. The handle is injected
// by the caller; this package never constructs or stores a global client.
func NewRedisStatusCache(rdb *redis.Client) StatusCache {
	return &redisStatusCache{rdb: rdb, ttl: DefaultTTL}
}

func (c *redisStatusCache) Get(ctx context.Context, zoneID uint) (*models.StatusSnapshot, error) {
	raw, err := c.rdb.Get(ctx, statusKey(zoneID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("status cache: get zone %d: %w", zoneID, err)
	}

	var snap models.StatusSnapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil, fmt.Errorf("status cache: decode zone %d: %w", zoneID, err)
	}

	// Sliding expiry: reading a snapshot keeps it alive.
	if err := c.rdb.Expire(ctx, statusKey(zoneID), c.ttl).Err(); err != nil {
		return nil, fmt.Errorf("status cache: refresh ttl for zone %d: %w", zoneID, err)
	}

	return &snap, nil
}

func (c *redisStatusCache) Set(ctx context.Context, snap models.StatusSnapshot, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.ttl
	}

	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("status cache: encode zone %d: %w", snap.ZoneID, err)
	}

	_, err = c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, statusKey(snap.ZoneID), raw, ttl)
		pipe.SAdd(ctx, keyIndex, strconv.FormatUint(uint64(snap.ZoneID), 10))
		return nil
	})
	if err != nil {
		return fmt.Errorf("status cache: set zone %d: %w", snap.ZoneID, err)
	}
	return nil
}

func (c *redisStatusCache) ZoneKeys(ctx context.Context) ([]uint, error) {
	members, err := c.rdb.SMembers(ctx, keyIndex).Result()
	if err != nil {
		return nil, fmt.Errorf("status cache: list keys: %w", err)
	}

	ids := make([]uint, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseUint(m, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("status cache: bad index entry %q: %w", m, err)
		}
		ids = append(ids, uint(id))
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (c *redisStatusCache) ClearAll(ctx context.Context) error {
	ids, err := c.ZoneKeys(ctx)
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, statusKey(id))
	}
	keys = append(keys, keyIndex)

	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("status cache: clear all: %w", err)
	}
	return nil
}
