package live

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/mateuscvictor-cs/dashboard360-sub000/pkg/logger"
)

// DefaultChannelPrefix is the pub/sub channel prefix used when none is configured.
const DefaultChannelPrefix = "notifications:live:"

// envelope is the wire format of a relayed event.
type envelope struct {
	UserID string          `json:"user_id"`
	Type   string          `json:"type"`
	Data   json.RawMessage `json:"data"`
}

// RedisRelay publishes live events through Redis pub/sub so that sessions
// held by any service instance receive them. Every instance runs Run to
// forward relayed events into its local Hub.
type RedisRelay struct {
	client redis.UniversalClient
	hub    *Hub
	prefix string
	logger *slog.Logger
}

// RedisRelayOption configures a RedisRelay.
type RedisRelayOption func(*RedisRelay)

// WithChannelPrefix overrides DefaultChannelPrefix.
func WithChannelPrefix(prefix string) RedisRelayOption {
	return func(r *RedisRelay) {
		if prefix != "" {
			r.prefix = prefix
		}
	}
}

// WithRelayLogger sets the logger for the relay.
func WithRelayLogger(logger *slog.Logger) RedisRelayOption {
	return func(r *RedisRelay) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRedisRelay creates a relay that feeds hub.
func NewRedisRelay(client redis.UniversalClient, hub *Hub, opts ...RedisRelayOption) *RedisRelay {
	r := &RedisRelay{
		client: client,
		hub:    hub,
		prefix: DefaultChannelPrefix,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Send publishes the event on the user's channel.
func (r *RedisRelay) Send(ctx context.Context, userID, eventType string, data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode live event: %w", err)
	}
	payload, err := json.Marshal(envelope{UserID: userID, Type: eventType, Data: raw})
	if err != nil {
		return fmt.Errorf("encode live envelope: %w", err)
	}
	if err := r.client.Publish(ctx, r.channel(userID), payload).Err(); err != nil {
		return fmt.Errorf("publish live event: %w", err)
	}
	return nil
}

// Run subscribes to every user channel and forwards events to the hub until
// ctx is cancelled.
func (r *RedisRelay) Run(ctx context.Context) error {
	pubsub := r.client.PSubscribe(ctx, r.prefix+"*")
	defer pubsub.Close()

	// Wait for the subscription to be confirmed so no early event is lost.
	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe to live channels: %w", err)
	}

	r.logger.LogAttrs(ctx, slog.LevelInfo, "Live relay started",
		logger.Component("redis_relay"),
		slog.String("pattern", r.prefix+"*"),
	)

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			r.forward(ctx, msg)
		}
	}
}

func (r *RedisRelay) forward(ctx context.Context, msg *redis.Message) {
	var env envelope
	if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
		r.logger.LogAttrs(ctx, slog.LevelWarn, "Dropping malformed live event",
			logger.Component("redis_relay"),
			slog.String("channel", msg.Channel),
			logger.Error(err),
		)
		return
	}
	if env.UserID == "" {
		env.UserID = strings.TrimPrefix(msg.Channel, r.prefix)
	}
	r.hub.Publish(env.UserID, Event{Type: env.Type, Data: env.Data})
}

func (r *RedisRelay) channel(userID string) string {
	return r.prefix + userID
}
