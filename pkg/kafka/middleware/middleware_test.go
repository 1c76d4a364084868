package kafka_middleware

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"bondvoyage/pkg/kafka"
	"bondvoyage/pkg/logger"
)

type recordingObserver struct {
	mu    sync.Mutex
	calls []string
}

func (r *recordingObserver) ObserveEvent(direction, outcome string, d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, direction+":"+outcome)
}

func testMessage(t *testing.T) kafka.Message {
	t.Helper()
	msg, err := kafka.NewMessage().WithKey("booking").WithValue(map[string]string{"a": "b"}).Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	msg.Topic = "activity-logs"
	return msg
}

func TestMetricsProducerMiddleware(t *testing.T) {
	obs := &recordingObserver{}
	mw := MetricsProducerMiddleware(obs)
	msg := testMessage(t)

	_ = mw(context.Background(), msg, func(context.Context, kafka.Message) error { return nil })
	_ = mw(context.Background(), msg, func(context.Context, kafka.Message) error { return errors.New("boom") })

	want := []string{"publish:success", "publish:failure"}
	if strings.Join(obs.calls, ",") != strings.Join(want, ",") {
		t.Errorf("calls = %v, want %v", obs.calls, want)
	}
}

func TestMetricsConsumerMiddleware_PassesError(t *testing.T) {
	obs := &recordingObserver{}
	mw := MetricsConsumerMiddleware(obs)
	boom := errors.New("boom")

	err := mw(context.Background(), testMessage(t), func(context.Context, kafka.Message) error { return boom })
	if !errors.Is(err, boom) {
		t.Errorf("expected handler error to pass through, got %v", err)
	}
	if len(obs.calls) != 1 || obs.calls[0] != "consume:failure" {
		t.Errorf("calls = %v", obs.calls)
	}
}

func TestLoggingConsumerMiddleware(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Output: &buf, Level: logger.DEBUG})
	mw := LoggingConsumerMiddleware(log)
	msg := testMessage(t)

	if err := mw(context.Background(), msg, func(context.Context, kafka.Message) error { return nil }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "processed message") || !strings.Contains(buf.String(), msg.GetEventID()) {
		t.Errorf("log output missing message details: %s", buf.String())
	}
}

func TestLoggingProducerMiddleware_LogsFailure(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Output: &buf})
	mw := LoggingProducerMiddleware(log)

	_ = mw(context.Background(), testMessage(t), func(context.Context, kafka.Message) error { return errors.New("broker down") })

	if !strings.Contains(buf.String(), "failed to publish message") || !strings.Contains(buf.String(), "broker down") {
		t.Errorf("log output = %s", buf.String())
	}
}
