package kafka

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/segmentio/kafka-go"
)

var (
	ErrProducerClosed = errors.New("kafka producer is closed")
	ErrConsumerClosed = errors.New("kafka consumer is closed")
	ErrInvalidMessage = errors.New("invalid message")
	ErrEmptyKey       = errors.New("message key cannot be empty")
	ErrEmptyValue     = errors.New("message value cannot be empty")
)

// ErrorType decides what the consumer does with a failed message: transient
// failures are retried, everything else goes to the dead-letter topic.
type ErrorType int

const (
	ErrorTypeUnknown ErrorType = iota
	ErrorTypeTransient
	ErrorTypePermanent
)

func (t ErrorType) String() string {
	switch t {
	case ErrorTypeTransient:
		return "transient"
	case ErrorTypePermanent:
		return "permanent"
	default:
		return "unknown"
	}
}

// KafkaError is returned by message handlers that already know whether a
// failure is worth retrying. Details are copied into the dead-letter headers.
type KafkaError struct {
	Type    ErrorType
	Message string
	Err     error
	Details map[string]any
}

func NewTransientError(message string, err error) *KafkaError {
	return &KafkaError{Type: ErrorTypeTransient, Message: message, Err: err, Details: map[string]any{}}
}

func NewPermanentError(message string, err error) *KafkaError {
	return &KafkaError{Type: ErrorTypePermanent, Message: message, Err: err, Details: map[string]any{}}
}

func (e *KafkaError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *KafkaError) Unwrap() error { return e.Err }

func (e *KafkaError) IsTransient() bool { return e.Type == ErrorTypeTransient }

func (e *KafkaError) IsPermanent() bool { return e.Type == ErrorTypePermanent }

func (e *KafkaError) WithDetail(key string, value any) *KafkaError {
	e.Details[key] = value
	return e
}

// networkHints catch transport failures that arrive as plain strings, such as
// errors flattened by a storage driver.
var networkHints = []string{
	"connection refused",
	"connection reset",
	"broken pipe",
	"i/o timeout",
	"no such host",
	"network is unreachable",
	"server selection error",
}

// ClassifyError reports whether err is worth retrying. Anything it cannot
// place is permanent so a poison message never blocks the partition.
func ClassifyError(err error) ErrorType {
	if err == nil {
		return ErrorTypeUnknown
	}

	var kafkaErr *KafkaError
	if errors.As(err, &kafkaErr) {
		return kafkaErr.Type
	}
	if errors.Is(err, ErrInvalidMessage) {
		return ErrorTypePermanent
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorTypeTransient
	}

	var brokerErr kafka.Error
	if errors.As(err, &brokerErr) {
		if brokerErr.Temporary() || brokerErr.Timeout() {
			return ErrorTypeTransient
		}
		return ErrorTypePermanent
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return ErrorTypeTransient
	}

	msg := strings.ToLower(err.Error())
	for _, hint := range networkHints {
		if strings.Contains(msg, hint) {
			return ErrorTypeTransient
		}
	}
	return ErrorTypePermanent
}

// ShouldRetry is true while attempts remain and err is transient.
func ShouldRetry(err error, attempts, maxRetries int) bool {
	if err == nil || attempts >= maxRetries {
		return false
	}
	return ClassifyError(err) == ErrorTypeTransient
}
