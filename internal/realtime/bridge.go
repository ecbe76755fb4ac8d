package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/redis/go-redis/v9"
)

const channelPrefix = "changes:"

// Bridge carries events between processes over Redis pub/sub: Publish sends
// to changes:<table>:<organization>, Run delivers everything received into a Hub.
type Bridge struct {
	client *redis.Client
	hub    *Hub
}

func NewBridge(client *redis.Client, hub *Hub) *Bridge {
	return &Bridge{client: client, hub: hub}
}

func ChannelFor(table, organizationID string) string {
	return channelPrefix + table + ":" + organizationID
}

func (b *Bridge) Publish(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if err := b.client.Publish(ctx, ChannelFor(ev.Table, ev.OrganizationID), payload).Err(); err != nil {
		return fmt.Errorf("redis publish: %w", err)
	}
	return nil
}

// Run blocks until ctx is done.
func (b *Bridge) Run(ctx context.Context) error {
	pubsub := b.client.PSubscribe(ctx, channelPrefix+"*")
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("redis psubscribe: %w", err)
	}
	slog.Info("realtime bridge subscribed", "pattern", channelPrefix+"*")

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			ev, err := decodeMessage(msg.Channel, msg.Payload)
			if err != nil {
				slog.Error("dropping redis change message", "channel", msg.Channel, "err", err)
				continue
			}
			if err := b.hub.Publish(ctx, ev); err != nil {
				return err
			}
		}
	}
}

func decodeMessage(channel, payload string) (Event, error) {
	var ev Event
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		return Event{}, fmt.Errorf("decode event: %w", err)
	}
	if ChannelFor(ev.Table, ev.OrganizationID) != channel {
		return Event{}, fmt.Errorf("event for %s:%s on %s", ev.Table, ev.OrganizationID,
			strings.TrimPrefix(channel, channelPrefix))
	}
	return ev, nil
}
