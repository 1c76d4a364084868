package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bondvoyage/pkg/kafka"
	"bondvoyage/pkg/logger"
	"bondvoyage/pkg/model"
)

type fakePublisher struct {
	msgs []kafka.Message
	err  error
	ctx  context.Context
}

func (p *fakePublisher) Publish(ctx context.Context, msg kafka.Message) error {
	p.ctx = ctx
	if p.err != nil {
		return p.err
	}
	p.msgs = append(p.msgs, msg)
	return nil
}

type fakeSink struct {
	saved []model.ActivityLogEntry
}

func (s *fakeSink) Save(ctx context.Context, entry *model.ActivityLogEntry) error {
	s.saved = append(s.saved, *entry)
	return nil
}

func TestMiddleware_ActorAndIP(t *testing.T) {
	var gotActor, gotIP string
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotActor = Actor(r.Context())
		gotIP = clientIP(r.Context())
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", nil)
	req.Header.Set(ActorHeader, "  maria ")
	req.RemoteAddr = "10.0.0.7:5555"
	h.ServeHTTP(httptest.NewRecorder(), req)

	if gotActor != "maria" {
		t.Errorf("actor = %q, want maria", gotActor)
	}
	if gotIP != "10.0.0.7" {
		t.Errorf("ip = %q, want 10.0.0.7", gotIP)
	}

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if gotActor != DefaultActor {
		t.Errorf("missing header should fall back to %q, got %q", DefaultActor, gotActor)
	}
}

func TestKafkaRecorder_Record(t *testing.T) {
	pub := &fakePublisher{}
	rec := NewKafkaRecorder(pub, "bookings", time.Second, logger.Discard())

	ctx, cancel := context.WithCancel(WithActor(context.Background(), "joy"))
	cancel()

	rec.Record(ctx, Event{Action: "Verified payment", Category: model.CategoryPayment, Details: "BK-1"})

	if len(pub.msgs) != 1 {
		t.Fatalf("expected 1 published message, got %d", len(pub.msgs))
	}
	if pub.ctx.Err() != nil {
		t.Error("publish context must not inherit the caller's cancellation")
	}

	msg := pub.msgs[0]
	if msg.Key != model.CategoryPayment {
		t.Errorf("key = %q, want category", msg.Key)
	}
	if msg.GetEventType() != EventType || msg.Headers[kafka.HeaderSource] != "bookings" {
		t.Errorf("headers = %v", msg.Headers)
	}

	var entry model.ActivityLogEntry
	if err := json.Unmarshal(msg.Value, &entry); err != nil {
		t.Fatalf("payload is not an entry: %v", err)
	}
	if entry.ID != msg.GetEventID() {
		t.Errorf("entry id %q must match event id %q", entry.ID, msg.GetEventID())
	}
	if entry.Actor != "joy" || entry.Status != model.OutcomeSuccess {
		t.Errorf("entry = %+v", entry)
	}
}

func TestKafkaRecorder_LogsPublishFailure(t *testing.T) {
	var buf bytes.Buffer
	pub := &fakePublisher{err: errors.New("broker down")}
	rec := NewKafkaRecorder(pub, "users", 0, logger.New(logger.Config{Output: &buf}))

	rec.Record(context.Background(), Event{Action: "Deactivated user", Category: model.CategoryUser})

	if !strings.Contains(buf.String(), "Failed to publish activity event") {
		t.Errorf("expected failure to be logged, got %s", buf.String())
	}
}

func TestSinkRecorder(t *testing.T) {
	sink := &fakeSink{}
	NewSinkRecorder(sink, logger.Discard()).Record(context.Background(), Event{
		Action:   "Exported logs",
		Category: model.CategorySystem,
		Status:   model.OutcomeWarning,
	})

	if len(sink.saved) != 1 || sink.saved[0].Status != model.OutcomeWarning || sink.saved[0].Actor != DefaultActor {
		t.Errorf("saved = %+v", sink.saved)
	}
}
