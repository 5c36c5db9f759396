package transport

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/smallnest/graphengine/graph"
)

// RedisBroadcaster is an optional secondary sink that republishes a run's
// progress-event stream to a Redis pub/sub channel, so multiple transport
// replicas (or a separate log-shipper) can observe one run's events without
// being the process that ran it. The in-process bounded queue remains the
// only shared state within the process that runs the graph; fanning the
// same stream out to Redis is for horizontal deployments.
type RedisBroadcaster struct {
	client  *redis.Client
	channel string
}

// RedisBroadcasterOptions configures a RedisBroadcaster.
type RedisBroadcasterOptions struct {
	Addr     string
	Password string
	DB       int
	// Channel is the pub/sub channel prefix events are published under;
	// Publish appends ":<run id>" to it. Default "graphengine:events".
	Channel string
}

// NewRedisBroadcaster returns a RedisBroadcaster over a fresh client.
func NewRedisBroadcaster(opts RedisBroadcasterOptions) *RedisBroadcaster {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	channel := opts.Channel
	if channel == "" {
		channel = "graphengine:events"
	}

	return &RedisBroadcaster{client: client, channel: channel}
}

// runChannel returns the per-run pub/sub channel name.
func (b *RedisBroadcaster) runChannel(runID string) string {
	return fmt.Sprintf("%s:%s", b.channel, runID)
}

// Publish republishes ev on runID's channel. Errors are returned, not
// panicked: a broadcaster outage must never abort the run it is observing.
func (b *RedisBroadcaster) Publish(ctx context.Context, runID string, ev graph.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event for broadcast: %w", err)
	}

	if err := b.client.Publish(ctx, b.runChannel(runID), data).Err(); err != nil {
		return fmt.Errorf("failed to publish event to redis: %w", err)
	}
	return nil
}

// Close closes the underlying Redis client.
func (b *RedisBroadcaster) Close() error {
	return b.client.Close()
}
