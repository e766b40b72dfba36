// Package events announces finished discovery runs on Redis pub/sub.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ChannelDiscovered receives one message per pipeline run that kept records.
const ChannelDiscovered = "EVENT_OPPORTUNITIES_DISCOVERED"

// Discovered is the payload published on ChannelDiscovered.
type Discovered struct {
	Type           string    `json:"type"`
	RunID          string    `json:"runId"`
	Query          string    `json:"query"`
	Source         string    `json:"source"`
	Count          int       `json:"count"`
	OpportunityIDs []string  `json:"opportunityIds"`
	At             time.Time `json:"at"`
}

// NewDiscovered fills in the event type and a fresh run id.
func NewDiscovered(query, source string, ids []string, at time.Time) Discovered {
	if ids == nil {
		ids = []string{}
	}
	return Discovered{
		Type:           ChannelDiscovered,
		RunID:          uuid.NewString(),
		Query:          query,
		Source:         source,
		Count:          len(ids),
		OpportunityIDs: ids,
		At:             at.UTC(),
	}
}

// RedisPublisher publishes events with PUBLISH.
type RedisPublisher struct {
	rdb *redis.Client
}

func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

func (p *RedisPublisher) PublishDiscovered(ctx context.Context, ev Discovered) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", ChannelDiscovered, err)
	}
	if err := p.rdb.Publish(ctx, ChannelDiscovered, payload).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", ChannelDiscovered, err)
	}
	return nil
}
