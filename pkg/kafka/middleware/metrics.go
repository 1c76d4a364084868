package kafka_middleware

import (
	"context"
	"time"

	"bondvoyage/pkg/kafka"
)

const (
	DirectionPublish = "publish"
	DirectionConsume = "consume"

	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// EventObserver records the outcome and latency of one message operation.
// *metrics.Metrics satisfies it.
type EventObserver interface {
	ObserveEvent(direction, outcome string, d time.Duration)
}

// MetricsProducerMiddleware tracks producer metrics
func MetricsProducerMiddleware(obs EventObserver) kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next func(ctx context.Context, msg kafka.Message) error) error {
		start := time.Now()
		err := next(ctx, msg)
		obs.ObserveEvent(DirectionPublish, outcome(err), time.Since(start))
		return err
	}
}

// MetricsConsumerMiddleware tracks consumer metrics
func MetricsConsumerMiddleware(obs EventObserver) kafka.ConsumerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next kafka.MessageHandler) error {
		start := time.Now()
		err := next(ctx, msg)
		obs.ObserveEvent(DirectionConsume, outcome(err), time.Since(start))
		return err
	}
}

func outcome(err error) string {
	if err != nil {
		return OutcomeFailure
	}
	return OutcomeSuccess
}
