package kafka_config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"bondvoyage/pkg/logger"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/compress"
)

const (
	AcksAll    = "all"
	AcksLeader = "leader"
	AcksNone   = "none"

	OffsetOldest = "oldest"
	OffsetNewest = "newest"
)

var (
	requiredAcks = map[string]kafka.RequiredAcks{
		AcksAll:    kafka.RequireAll,
		AcksLeader: kafka.RequireOne,
		AcksNone:   kafka.RequireNone,
	}

	startOffsets = map[string]int64{
		OffsetOldest: kafka.FirstOffset,
		OffsetNewest: kafka.LastOffset,
	}

	codecs = map[string]compress.Compression{
		"none":   0,
		"gzip":   compress.Gzip,
		"snappy": compress.Snappy,
		"lz4":    compress.Lz4,
		"zstd":   compress.Zstd,
	}
)

// Config is shared by the audit producer and the activity log consumer.
type Config struct {
	Brokers []string

	RequiredAcks  string
	Compression   string
	BatchTimeout  time.Duration
	WriteAttempts int
	AsyncWrites   bool

	StartOffset       string
	FetchMinBytes     int
	FetchMaxBytes     int
	FetchMaxWait      time.Duration
	CommitInterval    time.Duration
	HeartbeatInterval time.Duration
	SessionTimeout    time.Duration
	RebalanceTimeout  time.Duration
	HandlerRetries    int
	RetryBackoff      time.Duration

	EnableMiddleware bool
}

// Load reads the Kafka settings from the environment and validates them.
func Load() (*Config, error) {
	cfg := &Config{
		Brokers: splitBrokers(os.Getenv(EnvKafkaBrokers)),

		RequiredAcks:  strings.ToLower(env(EnvKafkaRequiredAcks, DefaultRequiredAcks, parseString)),
		Compression:   strings.ToLower(env(EnvKafkaCompression, DefaultCompression, parseString)),
		BatchTimeout:  env(EnvKafkaBatchTimeout, DefaultBatchTimeout, time.ParseDuration),
		WriteAttempts: env(EnvKafkaWriteAttempts, DefaultWriteAttempts, strconv.Atoi),
		AsyncWrites:   env(EnvKafkaAsyncWrites, DefaultAsyncWrites, strconv.ParseBool),

		StartOffset:       strings.ToLower(env(EnvKafkaStartOffset, DefaultStartOffset, parseString)),
		FetchMinBytes:     fetchMinBytes,
		FetchMaxBytes:     fetchMaxBytes,
		FetchMaxWait:      env(EnvKafkaFetchMaxWait, DefaultFetchMaxWait, time.ParseDuration),
		CommitInterval:    env(EnvKafkaCommitInterval, DefaultCommitInterval, time.ParseDuration),
		HeartbeatInterval: heartbeatInterval,
		SessionTimeout:    sessionTimeout,
		RebalanceTimeout:  rebalanceTimeout,
		HandlerRetries:    env(EnvKafkaHandlerRetries, DefaultHandlerRetries, strconv.Atoi),
		RetryBackoff:      env(EnvKafkaRetryBackoff, DefaultRetryBackoff, time.ParseDuration),

		EnableMiddleware: env(EnvKafkaEnableMiddleware, DefaultEnableMiddleware, strconv.ParseBool),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) Validate() error {
	var problems []string

	if len(cfg.Brokers) == 0 {
		problems = append(problems, "at least one broker is required")
	}
	if _, ok := requiredAcks[cfg.RequiredAcks]; !ok {
		problems = append(problems, fmt.Sprintf("%s must be all, leader or none, got %q", EnvKafkaRequiredAcks, cfg.RequiredAcks))
	}
	if _, ok := codecs[cfg.Compression]; !ok {
		problems = append(problems, fmt.Sprintf("%s must be none, gzip, snappy, lz4 or zstd, got %q", EnvKafkaCompression, cfg.Compression))
	}
	if _, ok := startOffsets[cfg.StartOffset]; !ok {
		problems = append(problems, fmt.Sprintf("%s must be oldest or newest, got %q", EnvKafkaStartOffset, cfg.StartOffset))
	}
	if cfg.WriteAttempts < 1 {
		problems = append(problems, fmt.Sprintf("%s must be at least 1, got %d", EnvKafkaWriteAttempts, cfg.WriteAttempts))
	}
	if cfg.HandlerRetries < 0 {
		problems = append(problems, fmt.Sprintf("%s cannot be negative, got %d", EnvKafkaHandlerRetries, cfg.HandlerRetries))
	}
	if cfg.RetryBackoff < 0 {
		problems = append(problems, fmt.Sprintf("%s cannot be negative, got %s", EnvKafkaRetryBackoff, cfg.RetryBackoff))
	}
	for name, d := range map[string]time.Duration{
		EnvKafkaBatchTimeout:   cfg.BatchTimeout,
		EnvKafkaFetchMaxWait:   cfg.FetchMaxWait,
		EnvKafkaCommitInterval: cfg.CommitInterval,
	} {
		if d <= 0 {
			problems = append(problems, fmt.Sprintf("%s must be positive, got %s", name, d))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("kafka configuration invalid: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Acks maps RequiredAcks onto the writer setting. Unknown values fall back
// to waiting for every in-sync replica.
func (cfg *Config) Acks() kafka.RequiredAcks {
	if acks, ok := requiredAcks[cfg.RequiredAcks]; ok {
		return acks
	}
	return kafka.RequireAll
}

func (cfg *Config) Codec() compress.Compression {
	if codec, ok := codecs[cfg.Compression]; ok {
		return codec
	}
	return compress.Snappy
}

func (cfg *Config) Offset() int64 {
	if offset, ok := startOffsets[cfg.StartOffset]; ok {
		return offset
	}
	return kafka.FirstOffset
}

func (cfg *Config) LogConfiguration(log *logger.Logger) {
	log.Info("Kafka configuration loaded",
		"brokers", cfg.Brokers,
		"required_acks", cfg.RequiredAcks,
		"compression", cfg.Compression,
		"batch_timeout", cfg.BatchTimeout,
		"write_attempts", cfg.WriteAttempts,
		"async_writes", cfg.AsyncWrites,
		"start_offset", cfg.StartOffset,
		"fetch_max_wait", cfg.FetchMaxWait,
		"commit_interval", cfg.CommitInterval,
		"handler_retries", cfg.HandlerRetries,
		"retry_backoff", cfg.RetryBackoff,
		"enable_middleware", cfg.EnableMiddleware,
	)
}

func splitBrokers(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		raw = DefaultKafkaBrokers
	}
	var brokers []string
	for _, broker := range strings.Split(raw, ",") {
		if broker = strings.TrimSpace(broker); broker != "" {
			brokers = append(brokers, broker)
		}
	}
	return brokers
}

// env parses key with parse, keeping fallback when the variable is unset or
// malformed.
func env[T any](key string, fallback T, parse func(string) (T, error)) T {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := parse(raw)
	if err != nil {
		return fallback
	}
	return value
}

func parseString(s string) (string, error) { return s, nil }
