package database

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/kbahtiar/folio/internal/config"
)

// Clients bundles the process-local fast state. All durable rows live behind
// the Supabase gateway; redis only carries the visitor-session guard flags
// and the pending-upload set.
type Clients struct {
	Redis *redis.Client
}

func NewClients(cfg config.RedisConfig) (*Clients, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Clients{Redis: redisClient}, nil
}
