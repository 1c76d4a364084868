package kafka_config

import (
	"strings"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/compress"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.Brokers) != 1 || cfg.Brokers[0] != DefaultKafkaBrokers {
		t.Errorf("Brokers = %v", cfg.Brokers)
	}
	if cfg.Offset() != kafka.FirstOffset {
		t.Errorf("Offset() = %d, want oldest", cfg.Offset())
	}
	if cfg.Acks() != kafka.RequireAll {
		t.Errorf("Acks() = %v, want all", cfg.Acks())
	}
	if cfg.RetryBackoff != DefaultRetryBackoff || cfg.HandlerRetries != DefaultHandlerRetries {
		t.Errorf("retry settings = %d/%s", cfg.HandlerRetries, cfg.RetryBackoff)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv(EnvKafkaBrokers, " kafka-1:9092, ,kafka-2:9092 ")
	t.Setenv(EnvKafkaCompression, "ZSTD")
	t.Setenv(EnvKafkaStartOffset, "newest")
	t.Setenv(EnvKafkaRequiredAcks, "leader")
	t.Setenv(EnvKafkaFetchMaxWait, "2s")
	t.Setenv(EnvKafkaHandlerRetries, "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if strings.Join(cfg.Brokers, ",") != "kafka-1:9092,kafka-2:9092" {
		t.Errorf("Brokers = %v", cfg.Brokers)
	}
	if cfg.Codec() != compress.Zstd {
		t.Errorf("Codec() = %v, want zstd", cfg.Codec())
	}
	if cfg.Offset() != kafka.LastOffset || cfg.Acks() != kafka.RequireOne {
		t.Errorf("offset/acks overrides not applied: %+v", cfg)
	}
	if cfg.FetchMaxWait != 2*time.Second {
		t.Errorf("FetchMaxWait = %s", cfg.FetchMaxWait)
	}
	if cfg.HandlerRetries != DefaultHandlerRetries {
		t.Errorf("malformed value should keep default, got %d", cfg.HandlerRetries)
	}
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv(EnvKafkaCompression, "brotli")
	t.Setenv(EnvKafkaRequiredAcks, "2")
	t.Setenv(EnvKafkaStartOffset, "middle")
	t.Setenv(EnvKafkaWriteAttempts, "0")

	_, err := Load()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{EnvKafkaCompression, EnvKafkaRequiredAcks, EnvKafkaStartOffset, EnvKafkaWriteAttempts} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %s", err, want)
		}
	}
}
