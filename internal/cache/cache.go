// internal/cache/cache.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"gouno/internal/game"
)

// Publisher fans game events out over Redis pub/sub so that every
// server instance (and any external consumer) sees them. It implements
// game.Notifier; publishing is fire and forget per that contract.
type Publisher struct {
	client *redis.Client
	log    *logrus.Logger
}

var _ game.Notifier = (*Publisher)(nil)

// Connect opens the Redis client and verifies the connection.
func Connect(ctx context.Context, addr, password string, db int, logger *logrus.Logger) (*Publisher, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	logger.Info("connected to redis")
	return &Publisher{client: client, log: logger}, nil
}

// Close releases the client.
func (p *Publisher) Close() error {
	return p.client.Close()
}

// ChannelFor returns the pub/sub channel carrying one game's events.
func ChannelFor(gameID uuid.UUID) string {
	return "game:" + gameID.String()
}

// Notify publishes the event on the game's channel. Failures are logged
// and dropped; game state never depends on delivery.
func (p *Publisher) Notify(gameID uuid.UUID, ev game.Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		p.log.WithError(err).WithField("event", ev.Type).Error("encoding game event")
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := p.client.Publish(ctx, ChannelFor(gameID), payload).Err(); err != nil {
			p.log.WithError(err).WithFields(logrus.Fields{
				"game_id": gameID,
				"event":   ev.Type,
			}).Warn("publishing game event")
		}
	}()
}

// Subscribe returns a subscription for one game's event channel. The
// caller owns the returned PubSub and must close it.
func (p *Publisher) Subscribe(ctx context.Context, gameID uuid.UUID) *redis.PubSub {
	return p.client.Subscribe(ctx, ChannelFor(gameID))
}
