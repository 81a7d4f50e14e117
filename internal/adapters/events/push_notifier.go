package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/domain/entities"
	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/domain/providers"
	redisclient "github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/infrastructure/clients/redis"
)

// pushQueueTTL bounds how long undelivered notifications wait for a relay
const pushQueueTTL = 48 * time.Hour

// RedisPushNotifier implements the PushNotifier interface by queueing
// notifications in Redis. The web push relay drains the per-doctor queue and
// delivers to registered browser subscriptions.
type RedisPushNotifier struct {
	client *redisclient.Client
}

// NewRedisPushNotifier creates a new Redis-backed push notifier
func NewRedisPushNotifier(client *redisclient.Client) providers.PushNotifier {
	return &RedisPushNotifier{client: client}
}

// NotifyDoctor queues a push notification for a doctor's devices
func (n *RedisPushNotifier) NotifyDoctor(ctx context.Context, doctorID string, notification *entities.PushNotification) error {
	payload, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to marshal push notification: %w", err)
	}

	key := pushQueueKey(doctorID)
	pipe := n.client.Client().TxPipeline()
	pipe.LPush(ctx, key, payload)
	pipe.Expire(ctx, key, pushQueueTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to queue push notification: %w", err)
	}

	log.Debug().Str("doctor_id", doctorID).Str("tag", notification.Tag).Msg("queued push notification")
	return nil
}

func pushQueueKey(doctorID string) string {
	return "push:doctor:" + doctorID
}
