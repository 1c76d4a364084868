package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "bondvoyage"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort = "8080"

	DefaultRateLimitRequests = 120
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultBrandName     = "BondVoyage Travel and Tours"
	DefaultPhoneRegion   = "PH"
	DefaultExportTimeout = 60 * time.Second

	DefaultPageSizeBookings     = 10
	DefaultPageSizePayments     = 5
	DefaultPageSizeUsers        = 8
	DefaultPageSizeActivityLogs = 10
	DefaultPageSizeFAQs         = 8
	DefaultMaxPageSize          = 100

	DefaultAuditEnabled         = true
	DefaultActivityLogTopic     = "activity-logs"
	DefaultActivityLogDLQTopic  = "dlq-activity-logs"
	DefaultActivityLogGroupID   = "activitylogs-consumer"
	DefaultActivityLogRetention = 180 * 24 * time.Hour
	DefaultRetentionSchedule    = "0 3 * * *"
)
