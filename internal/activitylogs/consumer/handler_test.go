package consumer

import (
	"context"
	"errors"
	"testing"
	"time"

	"bondvoyage/pkg/audit"
	apperrors "bondvoyage/pkg/errors"
	"bondvoyage/pkg/kafka"
	"bondvoyage/pkg/logger"
	"bondvoyage/pkg/model"
)

type fakeIngester struct {
	entries []*model.ActivityLogEntry
	err     error
}

func (f *fakeIngester) Ingest(ctx context.Context, entry *model.ActivityLogEntry) error {
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, entry)
	return nil
}

func eventMessage(t *testing.T, eventType string, value any) kafka.Message {
	t.Helper()
	msg, err := kafka.NewMessage().
		WithKey(model.CategoryPayment).
		WithValue(value).
		WithEventID("3f1c2a4e-0b7d-4c1a-9e6f-0a1b2c3d4e51").
		WithEventType(eventType).
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return msg
}

func sampleEntry() model.ActivityLogEntry {
	return model.ActivityLogEntry{
		ID:        "3f1c2a4e-0b7d-4c1a-9e6f-0a1b2c3d4e51",
		Timestamp: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
		Actor:     "admin",
		Action:    "Verified payment",
		Category:  model.CategoryPayment,
		Status:    model.OutcomeSuccess,
	}
}

func TestEventHandler_Stores(t *testing.T) {
	ingester := &fakeIngester{}
	handler := NewEventHandler(ingester, logger.Discard())

	if err := handler(context.Background(), eventMessage(t, audit.EventType, sampleEntry())); err != nil {
		t.Fatalf("handler() error = %v", err)
	}
	if len(ingester.entries) != 1 || ingester.entries[0].Action != "Verified payment" {
		t.Errorf("entries = %+v", ingester.entries)
	}
}

func TestEventHandler_FallsBackToEventID(t *testing.T) {
	ingester := &fakeIngester{}
	handler := NewEventHandler(ingester, logger.Discard())

	entry := sampleEntry()
	entry.ID = ""
	if err := handler(context.Background(), eventMessage(t, audit.EventType, entry)); err != nil {
		t.Fatalf("handler() error = %v", err)
	}
	if ingester.entries[0].ID != "3f1c2a4e-0b7d-4c1a-9e6f-0a1b2c3d4e51" {
		t.Errorf("id = %q", ingester.entries[0].ID)
	}
}

func TestEventHandler_SkipsOtherEvents(t *testing.T) {
	ingester := &fakeIngester{}
	handler := NewEventHandler(ingester, logger.Discard())

	if err := handler(context.Background(), eventMessage(t, "booking.created", sampleEntry())); err != nil {
		t.Fatalf("handler() error = %v", err)
	}
	if len(ingester.entries) != 0 {
		t.Errorf("entries = %+v, want none", ingester.entries)
	}
}

func TestEventHandler_ErrorClassification(t *testing.T) {
	tests := []struct {
		name      string
		msg       func(t *testing.T) kafka.Message
		ingestErr error
		wantType  kafka.ErrorType
	}{
		{
			name: "undecodable payload",
			msg: func(t *testing.T) kafka.Message {
				msg := eventMessage(t, audit.EventType, sampleEntry())
				msg.Value = []byte("{not json")
				return msg
			},
			wantType: kafka.ErrorTypePermanent,
		},
		{
			name:      "invalid entry",
			msg:       func(t *testing.T) kafka.Message { return eventMessage(t, audit.EventType, sampleEntry()) },
			ingestErr: apperrors.Validation("Activity log validation failed", nil),
			wantType:  kafka.ErrorTypePermanent,
		},
		{
			name:      "storage failure",
			msg:       func(t *testing.T) kafka.Message { return eventMessage(t, audit.EventType, sampleEntry()) },
			ingestErr: apperrors.Internal("Failed to save activity log entry", errors.New("connection reset")),
			wantType:  kafka.ErrorTypeTransient,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewEventHandler(&fakeIngester{err: tt.ingestErr}, logger.Discard())

			err := handler(context.Background(), tt.msg(t))
			if err == nil {
				t.Fatal("expected error")
			}
			if got := kafka.ClassifyError(err); got != tt.wantType {
				t.Errorf("ClassifyError() = %v, want %v (%v)", got, tt.wantType, err)
			}
		})
	}
}
