package signaling

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	roomKeyPrefix = "signaling:room:"
	eventsChannel = "signaling:events"
	// Rooms left behind by a crashed process expire on their own.
	roomTTL = 12 * time.Hour
)

// RedisBroker shares rooms between server processes. Membership lives in
// one hash per room; frames travel over a single pub/sub channel and each
// process delivers the ones addressed to its own sockets.
type RedisBroker struct {
	kv     *redis.Client
	pubsub *redis.Client
	logger *zap.Logger
	sub    *redis.PubSub
}

type envelope struct {
	Target string          `json:"target"`
	Data   json.RawMessage `json:"data"`
}

// NewRedisBroker uses kv for membership and publishing, and pubsub for the
// long-lived subscription. Both may be the same client.
func NewRedisBroker(kv, pubsub *redis.Client, logger *zap.Logger) *RedisBroker {
	return &RedisBroker{kv: kv, pubsub: pubsub, logger: logger}
}

func roomKey(roomID string) string {
	return roomKeyPrefix + roomID
}

// Join records m and reads the room in one MULTI block, so of two sockets
// joining at once the later one always sees the earlier.
func (b *RedisBroker) Join(ctx context.Context, roomID string, m Member) ([]Member, error) {
	key := roomKey(roomID)

	encoded, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}

	pipe := b.kv.TxPipeline()
	pipe.HSet(ctx, key, m.SocketID, encoded)
	pipe.Expire(ctx, key, roomTTL)
	members := pipe.HGetAll(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("join room %s: %w", roomID, err)
	}

	return decodeMembers(members.Val(), m.SocketID, b.logger), nil
}

func (b *RedisBroker) Leave(ctx context.Context, roomID, socketID string) error {
	return b.kv.HDel(ctx, roomKey(roomID), socketID).Err()
}

func (b *RedisBroker) Send(ctx context.Context, socketID string, data []byte) error {
	payload, err := json.Marshal(envelope{Target: socketID, Data: data})
	if err != nil {
		return err
	}
	return b.kv.Publish(ctx, eventsChannel, payload).Err()
}

// Subscribe confirms the subscription before returning and then delivers
// frames until ctx is cancelled or the broker is closed.
func (b *RedisBroker) Subscribe(ctx context.Context, deliver DeliverFunc) error {
	sub := b.pubsub.Subscribe(ctx, eventsChannel)
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return fmt.Errorf("subscribe %s: %w", eventsChannel, err)
	}
	b.sub = sub

	go func() {
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var env envelope
				if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
					b.logger.Warn("signaling: dropping malformed envelope", zap.Error(err))
					continue
				}
				deliver(env.Target, env.Data)
			}
		}
	}()
	return nil
}

func (b *RedisBroker) Close() error {
	if b.sub == nil {
		return nil
	}
	return b.sub.Close()
}

// decodeMembers turns a room hash into members, skipping self and
// entries that fail to decode.
func decodeMembers(hash map[string]string, self string, logger *zap.Logger) []Member {
	members := make([]Member, 0, len(hash))
	for socketID, raw := range hash {
		if socketID == self {
			continue
		}
		var m Member
		if err := json.Unmarshal([]byte(raw), &m); err != nil {
			logger.Warn("signaling: skipping malformed member", zap.String("socket_id", socketID), zap.Error(err))
			continue
		}
		members = append(members, m)
	}
	return members
}
