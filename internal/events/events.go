package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/go-redis/redis/v8"
)

// Pub/Sub channel constants
const (
	EventsChannel = "channel:events"
)

// Event types
const (
	TypeMatchFinished = "match_finished"
)

// Event represents a global message published via Pub/Sub.
type Event struct {
	Type    string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// MatchFinishedPayload is the payload for the "match_finished" event.
type MatchFinishedPayload struct {
	MatchID string   `json:"match_id"`
	Mode    string   `json:"mode"`
	Players []string `json:"players"`
	// Winner is the winning player's name, empty for a draw.
	Winner string `json:"winner"`
	Moves  int    `json:"moves"`
}

// NewEvent wraps payload into an Event of the given type.
func NewEvent(eventType string, payload any) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}
	return Event{Type: eventType, Payload: data}, nil
}

// Publisher sends events to every interested process.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// RedisPublisher publishes events on EventsChannel.
type RedisPublisher struct {
	rdb *redis.Client
}

func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

func (p *RedisPublisher) Publish(ctx context.Context, e Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := p.rdb.Publish(ctx, EventsChannel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", e.Type, err)
	}
	return nil
}

// Subscribe delivers decoded events to handle until ctx is done. Messages
// that fail to decode are logged and skipped.
func Subscribe(ctx context.Context, rdb *redis.Client, handle func(context.Context, Event)) error {
	pubsub := rdb.Subscribe(ctx, EventsChannel)
	defer pubsub.Close()

	// Wait for the subscription to be confirmed before reading.
	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", EventsChannel, err)
	}

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var e Event
			if err := json.Unmarshal([]byte(msg.Payload), &e); err != nil {
				slog.WarnContext(ctx, "dropping malformed event", "redis.payload", msg.Payload, "error", err)
				continue
			}
			handle(ctx, e)
		}
	}
}
