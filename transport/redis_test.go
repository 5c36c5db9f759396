package transport_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallnest/graphengine/graph"
	"github.com/smallnest/graphengine/transport"
)

// subscribe opens a pub/sub subscription to channel and blocks until it is
// actually live (pubsub.Ready), so the caller can publish immediately after
// subscribe returns without racing the subscription.
func subscribe(t *testing.T, addr, channel string) (*redis.PubSub, func()) {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: addr})
	pubsub := client.Subscribe(context.Background(), channel)
	require.NoError(t, pubsub.Ready())
	return pubsub, func() {
		pubsub.Close()
		client.Close()
	}
}

func receiveWire(t *testing.T, pubsub *redis.PubSub) map[string]any {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	msg, err := pubsub.ReceiveMessage(ctx)
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &wire))
	return wire
}

func TestRedisBroadcaster_Publish(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	b := transport.NewRedisBroadcaster(transport.RedisBroadcasterOptions{Addr: mr.Addr()})
	defer b.Close()

	pubsub, closeSub := subscribe(t, mr.Addr(), "graphengine:events:run-1")
	defer closeSub()

	err = b.Publish(context.Background(), "run-1", graph.Event{
		Event:  graph.EventExecuteNode,
		NodeID: "n1",
	})
	require.NoError(t, err)

	wire := receiveWire(t, pubsub)
	assert.Equal(t, graph.EventExecuteNode, wire["event"])
	assert.Equal(t, "n1", wire["node_id"])
	assert.NotContains(t, wire, "Event")
	assert.NotContains(t, wire, "NodeID")
}

func TestRedisBroadcaster_Publish_ErrorEventCarriesNodeError(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	b := transport.NewRedisBroadcaster(transport.RedisBroadcasterOptions{Addr: mr.Addr()})
	defer b.Close()

	pubsub, closeSub := subscribe(t, mr.Addr(), "graphengine:events:run-2")
	defer closeSub()

	err = b.Publish(context.Background(), "run-2", graph.Event{
		Event:     graph.EventExecuteNodeError,
		NodeID:    "n1",
		NodeError: "boom",
	})
	require.NoError(t, err)

	wire := receiveWire(t, pubsub)
	assert.Equal(t, "boom", wire["node_error"])
}
