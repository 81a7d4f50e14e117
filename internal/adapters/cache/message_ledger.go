package cache

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/domain/providers"
	redisclient "github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/infrastructure/clients/redis"
)

// dedupTTL keeps message IDs long past Meta's redelivery window
const dedupTTL = 7 * 24 * time.Hour

// RedisMessageLedger fronts a durable MessageLedger with a Redis SET NX fast
// path. When Redis already knows the ID the database is never touched; when
// Redis is down registration degrades to the durable ledger alone.
type RedisMessageLedger struct {
	client  *redisclient.Client
	durable providers.MessageLedger
}

// NewRedisMessageLedger creates a Redis-fronted message ledger
func NewRedisMessageLedger(client *redisclient.Client, durable providers.MessageLedger) providers.MessageLedger {
	return &RedisMessageLedger{
		client:  client,
		durable: durable,
	}
}

// Register records a message ID and reports whether it is new
func (l *RedisMessageLedger) Register(ctx context.Context, messageID string) (bool, error) {
	key := "wamid:" + messageID

	set, err := l.client.Client().SetNX(ctx, key, 1, dedupTTL).Result()
	if err != nil {
		log.Warn().Err(err).Msg("redis dedup unavailable, falling back to database")
		return l.durable.Register(ctx, messageID)
	}
	if !set {
		return false, nil
	}
	return l.durable.Register(ctx, messageID)
}
