package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/JunyuZhan/lawfirm-archive/internal/config"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// releaseScript deletes the key only if it still carries our token
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// Locker holds per-task locks in redis so several API replicas can share them
type Locker struct {
	client     redis.UniversalClient
	prefix     string
	ttl        time.Duration
	retryEvery time.Duration
	logger     *slog.Logger
}

// NewClient connects to redis and pings it
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

// NewLocker creates a Locker
func NewLocker(client redis.UniversalClient, prefix string, cfg config.LockConfig, logger *slog.Logger) *Locker {
	retry := cfg.RetryEvery
	if retry <= 0 {
		retry = 25 * time.Millisecond
	}
	return &Locker{
		client:     client,
		prefix:     prefix,
		ttl:        cfg.TTL,
		retryEvery: retry,
		logger:     logger,
	}
}

// Lock polls SET NX until the key is ours or ctx is done
func (l *Locker) Lock(ctx context.Context, taskID uuid.UUID) (func(), error) {
	key := l.prefix + taskID.String()
	token := uuid.NewString()

	ticker := time.NewTicker(l.retryEvery)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire lock %s: %w", key, err)
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}

	released := false
	return func() {
		if released {
			return
		}
		released = true
		err := releaseScript.Run(context.Background(), l.client, []string{key}, token).Err()
		if err != nil && !errors.Is(err, redis.Nil) {
			l.logger.Error("failed to release task lock", "key", key, "error", err)
		}
	}, nil
}
