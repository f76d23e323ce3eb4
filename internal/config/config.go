package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Env      Env
	Server   ServerConfig
	Database DatabaseConfig
	Storage  StorageConfig
	Minio    MinioConfig
	S3       S3Config
	Upload   UploadConfig
	Batch    BatchConfig
	Lock     LockConfig
	Redis    RedisConfig
	Events   EventsConfig
	NATS     NATSConfig
	Kafka    KafkaConfig
}

type Env struct {
	Env string `envconfig:"ENV" default:"DEV"`
}

type ServerConfig struct {
	Host string `envconfig:"SERVER_HOST" default:"localhost"`
	Port string `envconfig:"SERVER_PORT" default:"8080"`
}

type DatabaseConfig struct {
	Host           string        `envconfig:"DB_HOST" required:"true"`
	Port           int           `envconfig:"DB_PORT" default:"5432"`
	User           string        `envconfig:"DB_USER" required:"true"`
	Password       string        `envconfig:"DB_PASSWORD" required:"true"`
	Name           string        `envconfig:"DB_NAME" required:"true"`
	SSLMode        string        `envconfig:"DB_SSLMODE" default:"disable"`
	MaxOpenCons    int           `envconfig:"DB_MAX_OPEN_CONS" default:"25"`
	MaxIdleCons    int           `envconfig:"DB_MAX_IDLE_CONS" default:"5"`
	ConMaxLifeTime time.Duration `envconfig:"DB_CONMAX_LIFE_TIME" default:"5m"`
}

// StorageConfig selects the object storage backend
type StorageConfig struct {
	Backend string `envconfig:"STORAGE_BACKEND" default:"minio"`
}

type MinioConfig struct {
	Endpoint   string `envconfig:"MINIO_ENDPOINT"`
	BucketName string `envconfig:"MINIO_BUCKET_NAME"`
	AccessKey  string `envconfig:"MINIO_ACCESS_KEY"`
	SecretKey  string `envconfig:"MINIO_SECRET_KEY"`
	UseSSL     bool   `envconfig:"MINIO_USE_SSL" default:"false"`
}

type S3Config struct {
	Endpoint     string `envconfig:"S3_ENDPOINT"`
	Region       string `envconfig:"S3_REGION" default:"us-east-1"`
	BucketName   string `envconfig:"S3_BUCKET_NAME"`
	AccessKey    string `envconfig:"S3_ACCESS_KEY"`
	SecretKey    string `envconfig:"S3_SECRET_KEY"`
	UsePathStyle bool   `envconfig:"S3_USE_PATH_STYLE" default:"true"`
}

type UploadConfig struct {
	ChunkSize        int64         `envconfig:"UPLOAD_CHUNK_SIZE" default:"5242880"` // 5MiB
	MaxFileSize      int64         `envconfig:"UPLOAD_MAX_FILE_SIZE" default:"10737418240"`
	StagingDir       string        `envconfig:"UPLOAD_STAGING_DIR" default:"data/chunks"`
	TaskExpiry       time.Duration `envconfig:"UPLOAD_TASK_EXPIRY" default:"24h"`
	CleanupEvery     time.Duration `envconfig:"UPLOAD_CLEANUP_EVERY" default:"1h"`
	SweepConcurrency int           `envconfig:"UPLOAD_SWEEP_CONCURRENCY" default:"4"`
}

type BatchConfig struct {
	DeleteConcurrency int `envconfig:"BATCH_DELETE_CONCURRENCY" default:"8"`
	MaxItems          int `envconfig:"BATCH_MAX_ITEMS" default:"500"`
}

// LockConfig selects how per-task locks are held
type LockConfig struct {
	Backend    string        `envconfig:"LOCK_BACKEND" default:"memory"`
	TTL        time.Duration `envconfig:"LOCK_TTL" default:"30s"`
	RetryEvery time.Duration `envconfig:"LOCK_RETRY_EVERY" default:"25ms"`
}

type RedisConfig struct {
	Addr      string `envconfig:"REDIS_ADDR"`
	Password  string `envconfig:"REDIS_PASSWORD"`
	DB        int    `envconfig:"REDIS_DB" default:"0"`
	KeyPrefix string `envconfig:"REDIS_KEY_PREFIX" default:"archive:upload-lock:"`
}

// EventsConfig selects the event broker
type EventsConfig struct {
	Backend string `envconfig:"EVENTS_BACKEND" default:"none"`
}

type NATSConfig struct {
	URL           string        `envconfig:"NATS_URL"`
	StreamName    string        `envconfig:"NATS_STREAM_NAME" default:"ARCHIVE"`
	SubjectPrefix string        `envconfig:"NATS_SUBJECT_PREFIX" default:"archive"`
	ConsumerName  string        `envconfig:"NATS_CONSUMER_NAME" default:"archive-reconciler"`
	Subject       string        `envconfig:"NATS_SUBJECT" default:"archive.documents.orphaned"`
	AckWait       time.Duration `envconfig:"NATS_ACK_WAIT" default:"10s"`
	MaxDeliver    int           `envconfig:"NATS_MAX_DELIVER" default:"5"`
}

type KafkaConfig struct {
	Brokers     []string `envconfig:"KAFKA_BROKERS"`
	Topic       string   `envconfig:"KAFKA_TOPIC" default:"archive-events"`
	GroupID     string   `envconfig:"KAFKA_GROUP_ID" default:"archive-reconciler"`
	MaxAttempts int      `envconfig:"KAFKA_MAX_ATTEMPTS" default:"5"`
}

const (
	BackendMinio  = "minio"
	BackendS3     = "s3"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendNone   = "none"
	BackendNATS   = "nats"
	BackendKafka  = "kafka"
)

func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the settings required by the selected backends
func (c *Config) Validate() error {
	var errs []error

	if c.Upload.ChunkSize <= 0 {
		errs = append(errs, errors.New("UPLOAD_CHUNK_SIZE must be positive"))
	}
	if c.Upload.StagingDir == "" {
		errs = append(errs, errors.New("UPLOAD_STAGING_DIR is required"))
	}

	switch c.Storage.Backend {
	case BackendMinio:
		if c.Minio.Endpoint == "" || c.Minio.BucketName == "" || c.Minio.AccessKey == "" || c.Minio.SecretKey == "" {
			errs = append(errs, errors.New("MINIO_ENDPOINT, MINIO_BUCKET_NAME, MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required"))
		}
	case BackendS3:
		if c.S3.BucketName == "" || c.S3.AccessKey == "" || c.S3.SecretKey == "" {
			errs = append(errs, errors.New("S3_BUCKET_NAME, S3_ACCESS_KEY and S3_SECRET_KEY are required"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_BACKEND %q", c.Storage.Backend))
	}

	switch c.Lock.Backend {
	case BackendMemory:
	case BackendRedis:
		if c.Redis.Addr == "" {
			errs = append(errs, errors.New("REDIS_ADDR is required when LOCK_BACKEND=redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown LOCK_BACKEND %q", c.Lock.Backend))
	}

	switch c.Events.Backend {
	case BackendNone:
	case BackendNATS:
		if c.NATS.URL == "" {
			errs = append(errs, errors.New("NATS_URL is required when EVENTS_BACKEND=nats"))
		}
	case BackendKafka:
		if len(c.Kafka.Brokers) == 0 {
			errs = append(errs, errors.New("KAFKA_BROKERS is required when EVENTS_BACKEND=kafka"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown EVENTS_BACKEND %q", c.Events.Backend))
	}

	return errors.Join(errs...)
}
