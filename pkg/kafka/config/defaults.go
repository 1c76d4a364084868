package kafka_config

import "time"

const (
	DefaultKafkaBrokers = "localhost:9092"

	// Activity events are small and infrequent; a short linger keeps the
	// request path fast without producing one batch per write.
	DefaultRequiredAcks  = AcksAll
	DefaultCompression   = "snappy"
	DefaultBatchTimeout  = 20 * time.Millisecond
	DefaultWriteAttempts = 5
	DefaultAsyncWrites   = false

	// A new consumer group starts from the oldest retained event so entries
	// published before the activity log service first joined are kept.
	DefaultStartOffset    = OffsetOldest
	DefaultFetchMaxWait   = time.Second
	DefaultCommitInterval = time.Second
	DefaultHandlerRetries = 5
	DefaultRetryBackoff   = time.Second

	DefaultEnableMiddleware = true

	fetchMinBytes     = 1
	fetchMaxBytes     = 1 << 20
	heartbeatInterval = 3 * time.Second
	sessionTimeout    = 30 * time.Second
	rebalanceTimeout  = 30 * time.Second
)
