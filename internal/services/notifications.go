package services

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/prabaharan-saminathan/Teacher-Connect/internal/models"
)

const (
	EventAppointmentBooked   = "appointment.booked"
	EventAppointmentDecided  = "appointment.decided"
	EventVideoCallCreated    = "video_call.created"
	EventVideoCallCanJoin    = "video_call.can_join_changed"
	EventVideoCallEnded      = "video_call.ended"
	EventChatMessageCreated  = "message.created"
	EventAccountApproved     = "account.approved"
	userUpdatesChannelPrefix = "user_updates:"
)

// Notifier pushes best-effort events to a user's open websocket connections.
// Delivery failures never fail the calling operation.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, eventType string, data interface{})
}

// UserUpdatesChannel is the Redis channel the websocket hub subscribes to for userID.
func UserUpdatesChannel(userID uuid.UUID) string {
	return userUpdatesChannelPrefix + userID.String()
}

type RedisNotifier struct {
	client *redis.Client
	logger *zap.Logger
}

func NewRedisNotifier(client *redis.Client, logger *zap.Logger) *RedisNotifier {
	return &RedisNotifier{client: client, logger: logger}
}

func (n *RedisNotifier) Notify(ctx context.Context, userID uuid.UUID, eventType string, data interface{}) {
	payload, err := json.Marshal(models.Notification{Type: eventType, Data: data})
	if err != nil {
		n.logger.Error("notification: marshal failed", zap.String("type", eventType), zap.Error(err))
		return
	}

	if err := n.client.Publish(ctx, UserUpdatesChannel(userID), payload).Err(); err != nil {
		n.logger.Warn("notification: publish failed",
			zap.String("type", eventType),
			zap.Stringer("user_id", userID),
			zap.Error(err),
		)
	}
}
