// Package consumer persists activity events published by the other services.
package consumer

import (
	"context"
	"fmt"

	"bondvoyage/internal/activitylogs/service"
	"bondvoyage/pkg/audit"
	apperrors "bondvoyage/pkg/errors"
	"bondvoyage/pkg/kafka"
	"bondvoyage/pkg/logger"
	"bondvoyage/pkg/model"
)

// Ingester is the part of the activity log service the consumer needs.
type Ingester interface {
	Ingest(ctx context.Context, entry *model.ActivityLogEntry) error
}

var _ Ingester = service.ActivityLogService(nil)

// NewEventHandler decodes activity events and stores them. Messages of other
// event types are skipped. Entries that fail validation are permanent
// failures and go to the dead-letter topic; storage failures are retried.
func NewEventHandler(ingester Ingester, log *logger.Logger) kafka.MessageHandler {
	return func(ctx context.Context, msg kafka.Message) error {
		if eventType := msg.GetEventType(); eventType != "" && eventType != audit.EventType {
			log.Debug("Skipping unrelated event", "event_type", eventType, "event_id", msg.GetEventID())
			return nil
		}

		var entry model.ActivityLogEntry
		if err := msg.DecodeValue(&entry); err != nil {
			return err
		}
		if entry.ID == "" {
			entry.ID = msg.GetEventID()
		}

		if err := ingester.Ingest(ctx, &entry); err != nil {
			if apperrors.HasCode(err, apperrors.CodeValidation) {
				return kafka.NewPermanentError("invalid activity event", err).
					WithDetail("event_id", entry.ID)
			}
			return kafka.NewTransientError(fmt.Sprintf("failed to store activity event %s", entry.ID), err)
		}
		return nil
	}
}
