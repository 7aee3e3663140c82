package redisseq

import (
	"context"
	"fmt"

	"github.com/ArowuTest/lotto-backend/internal/repositories"
	"github.com/go-redis/redis/v8"
)

const keyPrefix = "lotto:seq:"

var _ repositories.SequenceGenerator = (*Generator)(nil)

// Generator keeps named counters in Redis
type Generator struct {
	client *redis.Client
}

// New creates a generator on an existing client
func New(client *redis.Client) *Generator {
	return &Generator{client: client}
}

// Connect opens a client and checks it answers PING
func Connect(ctx context.Context, addr, password string, db int) (*Generator, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return New(client), nil
}

// Next atomically increments the named counter
func (g *Generator) Next(ctx context.Context, name string) (int64, error) {
	return g.client.Incr(ctx, keyPrefix+name).Result()
}

// NextN reserves n consecutive values and returns the first
func (g *Generator) NextN(ctx context.Context, name string, n int64) (int64, error) {
	if n < 1 {
		return 0, fmt.Errorf("sequence %s: invalid reservation size %d", name, n)
	}
	last, err := g.client.IncrBy(ctx, keyPrefix+name, n).Result()
	if err != nil {
		return 0, err
	}
	return last - n + 1, nil
}

// Reset deletes the named counters
func (g *Generator) Reset(ctx context.Context, names ...string) error {
	if len(names) == 0 {
		return nil
	}
	keys := make([]string, len(names))
	for i, n := range names {
		keys[i] = keyPrefix + n
	}
	return g.client.Del(ctx, keys...).Err()
}

// Close closes the client
func (g *Generator) Close() error {
	return g.client.Close()
}
