package kafka_config

// Environment variables read by Load. Reader session timings are fixed in
// defaults.go and not exposed.
const (
	EnvKafkaBrokers = "KAFKA_BROKERS"

	EnvKafkaRequiredAcks  = "KAFKA_REQUIRED_ACKS"
	EnvKafkaCompression   = "KAFKA_COMPRESSION"
	EnvKafkaBatchTimeout  = "KAFKA_BATCH_TIMEOUT"
	EnvKafkaWriteAttempts = "KAFKA_WRITE_ATTEMPTS"
	EnvKafkaAsyncWrites   = "KAFKA_ASYNC_WRITES"

	EnvKafkaStartOffset    = "KAFKA_START_OFFSET"
	EnvKafkaFetchMaxWait   = "KAFKA_FETCH_MAX_WAIT"
	EnvKafkaCommitInterval = "KAFKA_COMMIT_INTERVAL"
	EnvKafkaHandlerRetries = "KAFKA_HANDLER_RETRIES"
	EnvKafkaRetryBackoff   = "KAFKA_RETRY_BACKOFF"

	EnvKafkaEnableMiddleware = "KAFKA_ENABLE_MIDDLEWARE"
)
