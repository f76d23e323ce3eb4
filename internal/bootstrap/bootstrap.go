// Package bootstrap turns configuration into the adapters the binaries share.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/JunyuZhan/lawfirm-archive/internal/adapters/eventbroker/discard"
	"github.com/JunyuZhan/lawfirm-archive/internal/adapters/eventbroker/kafka"
	"github.com/JunyuZhan/lawfirm-archive/internal/adapters/eventbroker/nats"
	"github.com/JunyuZhan/lawfirm-archive/internal/adapters/lock/memory"
	"github.com/JunyuZhan/lawfirm-archive/internal/adapters/lock/redis"
	"github.com/JunyuZhan/lawfirm-archive/internal/adapters/storage/minio"
	"github.com/JunyuZhan/lawfirm-archive/internal/adapters/storage/s3"
	"github.com/JunyuZhan/lawfirm-archive/internal/config"
	"github.com/JunyuZhan/lawfirm-archive/internal/core/port"
	_ "github.com/lib/pq"
)

// DataSourceName builds the lib/pq connection string
func DataSourceName(cfg config.DatabaseConfig) string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)
}

// OpenDB connects to postgres and applies the pool settings
func OpenDB(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", DataSourceName(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenCons)
	db.SetMaxIdleConns(cfg.MaxIdleCons)
	db.SetConnMaxLifetime(cfg.ConMaxLifeTime)

	return db, nil
}

// NewObjectStorage returns the blob backend named by STORAGE_BACKEND
func NewObjectStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (port.ObjectStorage, error) {
	switch cfg.Storage.Backend {
	case config.BackendMinio:
		adapter, err := minio.NewAdapter(ctx, cfg.Minio, logger)
		if err != nil {
			return nil, err
		}
		return adapter, nil
	case config.BackendS3:
		adapter, err := s3.NewAdapter(ctx, cfg.S3, logger)
		if err != nil {
			return nil, err
		}
		return adapter, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// NewTaskLocker returns the lock backend named by LOCK_BACKEND and a func releasing it
func NewTaskLocker(ctx context.Context, cfg *config.Config, logger *slog.Logger) (port.TaskLocker, func() error, error) {
	switch cfg.Lock.Backend {
	case config.BackendMemory:
		return memory.NewLocker(), func() error { return nil }, nil
	case config.BackendRedis:
		client, err := redis.NewClient(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return redis.NewLocker(client, cfg.Redis.KeyPrefix, cfg.Lock, logger), client.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown lock backend %q", cfg.Lock.Backend)
	}
}

// NewEventPublisher returns the publisher named by EVENTS_BACKEND.
// "none" logs events instead of publishing them.
func NewEventPublisher(ctx context.Context, cfg *config.Config, logger *slog.Logger) (port.EventPublisher, error) {
	switch cfg.Events.Backend {
	case config.BackendNone:
		return discard.NewPublisher(logger), nil
	case config.BackendNATS:
		publisher, err := nats.NewNATSPublisher(ctx, cfg.NATS, logger)
		if err != nil {
			return nil, err
		}
		return publisher, nil
	case config.BackendKafka:
		return kafka.NewKafkaPublisher(cfg.Kafka, logger), nil
	default:
		return nil, fmt.Errorf("unknown events backend %q", cfg.Events.Backend)
	}
}

// NewEventConsumer returns the consumer named by EVENTS_BACKEND
func NewEventConsumer(cfg *config.Config, logger *slog.Logger) (port.EventConsumer, error) {
	switch cfg.Events.Backend {
	case config.BackendNATS:
		consumer, err := nats.NewNATSConsumer(cfg.NATS, logger)
		if err != nil {
			return nil, err
		}
		return consumer, nil
	case config.BackendKafka:
		return kafka.NewKafkaConsumer(cfg.Kafka, logger), nil
	case config.BackendNone:
		return nil, fmt.Errorf("events backend %q has nothing to consume", cfg.Events.Backend)
	default:
		return nil, fmt.Errorf("unknown events backend %q", cfg.Events.Backend)
	}
}
