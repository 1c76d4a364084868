package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvBrandName     = "BRAND_NAME"
	EnvPhoneRegion   = "PHONE_REGION"
	EnvExportTimeout = "EXPORT_TIMEOUT"

	EnvPageSizeBookings     = "PAGE_SIZE_BOOKINGS"
	EnvPageSizePayments     = "PAGE_SIZE_PAYMENTS"
	EnvPageSizeUsers        = "PAGE_SIZE_USERS"
	EnvPageSizeActivityLogs = "PAGE_SIZE_ACTIVITY_LOGS"
	EnvPageSizeFAQs         = "PAGE_SIZE_FAQS"
	EnvMaxPageSize          = "MAX_PAGE_SIZE"

	EnvAuditEnabled         = "AUDIT_ENABLED"
	EnvActivityLogTopic     = "ACTIVITY_LOG_TOPIC"
	EnvActivityLogDLQTopic  = "ACTIVITY_LOG_DLQ_TOPIC"
	EnvActivityLogGroupID   = "ACTIVITY_LOG_GROUP_ID"
	EnvActivityLogRetention = "ACTIVITY_LOG_RETENTION"
	EnvRetentionSchedule    = "RETENTION_SCHEDULE"
)
