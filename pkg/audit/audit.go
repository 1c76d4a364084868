// Package audit publishes activity-log events for the admin actions each
// service performs. Events travel over Kafka and are persisted by the
// activity logs service.
package audit

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"bondvoyage/pkg/kafka"
	"bondvoyage/pkg/logger"
	"bondvoyage/pkg/middleware"
	"bondvoyage/pkg/model"

	"github.com/google/uuid"
)

const (
	ActorHeader  = "X-Actor"
	DefaultActor = "admin"

	EventType     = "activity.recorded"
	SchemaVersion = "1"
)

// Event is what a service reports; the recorder stamps id, time, actor and IP.
type Event struct {
	Action   string
	Category string
	Details  string
	Status   string
}

type Recorder interface {
	Record(ctx context.Context, e Event)
}

// Publisher is satisfied by *kafka.Producer.
type Publisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type contextKey string

const (
	actorKey contextKey = "audit_actor"
	ipKey    contextKey = "audit_ip"
)

// Middleware stores the acting user and client IP on the request context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor := strings.TrimSpace(r.Header.Get(ActorHeader))
		if actor == "" {
			actor = DefaultActor
		}
		ctx := context.WithValue(r.Context(), actorKey, actor)
		ctx = context.WithValue(ctx, ipKey, middleware.ClientIP(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

func Actor(ctx context.Context) string {
	if actor, ok := ctx.Value(actorKey).(string); ok && actor != "" {
		return actor
	}
	return DefaultActor
}

func clientIP(ctx context.Context) string {
	ip, _ := ctx.Value(ipKey).(string)
	return ip
}

// Entry turns e into the persisted form using the actor and IP found on ctx.
func Entry(ctx context.Context, e Event) model.ActivityLogEntry {
	status := e.Status
	if status == "" {
		status = model.OutcomeSuccess
	}
	return model.ActivityLogEntry{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Actor:     Actor(ctx),
		Action:    e.Action,
		Category:  e.Category,
		Details:   e.Details,
		IP:        clientIP(ctx),
		Status:    status,
	}
}

// KafkaRecorder publishes entries keyed by category. Publishing never fails
// the caller: errors are logged and dropped.
type KafkaRecorder struct {
	publisher Publisher
	source    string
	timeout   time.Duration
	log       *logger.Logger
}

func NewKafkaRecorder(publisher Publisher, source string, timeout time.Duration, log *logger.Logger) *KafkaRecorder {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &KafkaRecorder{publisher: publisher, source: source, timeout: timeout, log: log}
}

func (r *KafkaRecorder) Record(ctx context.Context, e Event) {
	entry := Entry(ctx, e)

	msg, err := kafka.NewMessage().
		WithKey(entry.Category).
		WithValue(entry).
		WithEventID(entry.ID).
		WithEventType(EventType).
		WithSchemaVersion(SchemaVersion).
		WithSource(r.source).
		WithCorrelationID(middleware.RequestID(ctx)).
		WithTimestamp(entry.Timestamp).
		Build()
	if err != nil {
		r.log.Error("Failed to build activity event", "action", entry.Action, "error", err)
		return
	}

	// The request may already be finished; the event should still go out.
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
	defer cancel()

	if err := r.publisher.Publish(pubCtx, msg); err != nil {
		r.log.Error("Failed to publish activity event",
			"event_id", entry.ID,
			"action", entry.Action,
			"category", entry.Category,
			"error", err,
		)
	}
}

// Sink persists entries directly; the activity logs service records its own
// actions this way.
type Sink interface {
	Save(ctx context.Context, entry *model.ActivityLogEntry) error
}

type SinkRecorder struct {
	sink Sink
	log  *logger.Logger
}

func NewSinkRecorder(sink Sink, log *logger.Logger) *SinkRecorder {
	return &SinkRecorder{sink: sink, log: log}
}

func (r *SinkRecorder) Record(ctx context.Context, e Event) {
	entry := Entry(ctx, e)
	if err := r.sink.Save(context.WithoutCancel(ctx), &entry); err != nil {
		r.log.Error("Failed to save activity entry", "action", entry.Action, "error", err)
	}
}

// Nop drops every event. Used when auditing is disabled and in tests.
type Nop struct{}

func (Nop) Record(context.Context, Event) {}

// Memory keeps events in order. Used by tests to assert what was recorded.
type Memory struct {
	mu     sync.Mutex
	events []Event
}

func (m *Memory) Record(_ context.Context, e Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
}

func (m *Memory) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}
