// Package cache keeps recent pipeline responses in Redis so repeated
// identical searches skip the provider.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"opportunity/discovery-service/internal/model"
)

const keyPrefix = "discovery:search:"

// Key identifies one response: the composed query plus the type override.
func Key(query string, typ *model.OpportunityType) string {
	h := sha256.New()
	h.Write([]byte(query))
	if typ != nil {
		h.Write([]byte{0})
		h.Write([]byte(*typ))
	}
	return keyPrefix + hex.EncodeToString(h.Sum(nil))
}

// Redis stores responses as JSON with a fixed TTL.
type Redis struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedis(rdb *redis.Client, ttl time.Duration) *Redis {
	return &Redis{rdb: rdb, ttl: ttl}
}

// Get returns the cached records for key. ok is false on a miss.
func (c *Redis) Get(ctx context.Context, key string) (recs []model.OpportunityRecord, ok bool, err error) {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get: %w", err)
	}
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, false, fmt.Errorf("cache decode: %w", err)
	}
	return recs, true, nil
}

// Set stores recs under key. A non-positive TTL disables caching.
func (c *Redis) Set(ctx context.Context, key string, recs []model.OpportunityRecord) error {
	if c.ttl <= 0 {
		return nil
	}
	data, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}
