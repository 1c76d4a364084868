package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"bondvoyage/pkg/client"
	"bondvoyage/pkg/logger"

	"github.com/robfig/cron/v3"
)

type Config struct {
	ServiceName string

	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	BrandName     string
	PhoneRegion   string
	ExportTimeout time.Duration

	PageSizeBookings     int
	PageSizePayments     int
	PageSizeUsers        int
	PageSizeActivityLogs int
	PageSizeFAQs         int
	MaxPageSize          int

	AuditEnabled         bool
	ActivityLogTopic     string
	ActivityLogDLQTopic  string
	ActivityLogGroupID   string
	ActivityLogRetention time.Duration
	RetentionSchedule    string

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	cfg := &Config{
		ServiceName: serviceName,

		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		BrandName:     getEnvStr(EnvBrandName, DefaultBrandName),
		PhoneRegion:   strings.ToUpper(getEnvStr(EnvPhoneRegion, DefaultPhoneRegion)),
		ExportTimeout: getEnvDuration(EnvExportTimeout, DefaultExportTimeout),

		PageSizeBookings:     getEnvNum(EnvPageSizeBookings, DefaultPageSizeBookings),
		PageSizePayments:     getEnvNum(EnvPageSizePayments, DefaultPageSizePayments),
		PageSizeUsers:        getEnvNum(EnvPageSizeUsers, DefaultPageSizeUsers),
		PageSizeActivityLogs: getEnvNum(EnvPageSizeActivityLogs, DefaultPageSizeActivityLogs),
		PageSizeFAQs:         getEnvNum(EnvPageSizeFAQs, DefaultPageSizeFAQs),
		MaxPageSize:          getEnvNum(EnvMaxPageSize, DefaultMaxPageSize),

		AuditEnabled:         getEnvBool(EnvAuditEnabled, DefaultAuditEnabled),
		ActivityLogTopic:     getEnvStr(EnvActivityLogTopic, DefaultActivityLogTopic),
		ActivityLogDLQTopic:  getEnvStr(EnvActivityLogDLQTopic, DefaultActivityLogDLQTopic),
		ActivityLogGroupID:   getEnvStr(EnvActivityLogGroupID, DefaultActivityLogGroupID),
		ActivityLogRetention: getEnvDuration(EnvActivityLogRetention, DefaultActivityLogRetention),
		RetentionSchedule:    getEnvStr(EnvRetentionSchedule, DefaultRetentionSchedule),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, logger.INFO),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}
	cfg.LogConfiguration()
	return cfg
}

// SetMongo connects the shared Mongo client or exits; no service can run
// without its store.
func (cfg *Config) SetMongo() {
	if err := cfg.Client.ConnectMongo(cfg.MongoURI, cfg.ServiceName, cfg.MongoConnTimeout); err != nil {
		cfg.Log.Fatal("Failed to connect to MongoDB", "uri", redactMongoURI(cfg.MongoURI), "error", err)
	}
	cfg.Log.Info("Connected to MongoDB", "database", cfg.MongoDatabaseName)
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		errors = append(errors, "MongoURI cannot be empty")
	} else if !regexp.MustCompile(`^mongodb(\+srv)?://.+`).MatchString(cfg.MongoURI) {
		errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactMongoURI(cfg.MongoURI)))
	}
	if cfg.MongoDatabaseName == "" {
		errors = append(errors, "MongoDatabaseName cannot be empty")
	}

	durations := []struct {
		name  string
		value time.Duration
	}{
		{"MongoConnTimeout", cfg.MongoConnTimeout},
		{"RateLimitWindow", cfg.RateLimitWindow},
		{"RequestTimeout", cfg.RequestTimeout},
		{"IdempotencyTTL", cfg.IdempotencyTTL},
		{"ReadTimeout", cfg.ReadTimeout},
		{"WriteTimeout", cfg.WriteTimeout},
		{"IdleTimeout", cfg.IdleTimeout},
		{"ShutdownTimeout", cfg.ShutdownTimeout},
		{"ExportTimeout", cfg.ExportTimeout},
		{"ActivityLogRetention", cfg.ActivityLogRetention},
	}
	for _, d := range durations {
		if d.value <= 0 {
			errors = append(errors, fmt.Sprintf("%s must be positive, got: %s", d.name, d.value))
		}
	}

	if cfg.RateLimitRequests <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}

	if cfg.MaxPageSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxPageSize must be positive, got: %d", cfg.MaxPageSize))
	}
	pageSizes := []struct {
		name  string
		value int
	}{
		{"PageSizeBookings", cfg.PageSizeBookings},
		{"PageSizePayments", cfg.PageSizePayments},
		{"PageSizeUsers", cfg.PageSizeUsers},
		{"PageSizeActivityLogs", cfg.PageSizeActivityLogs},
		{"PageSizeFAQs", cfg.PageSizeFAQs},
	}
	for _, p := range pageSizes {
		if p.value <= 0 || p.value > cfg.MaxPageSize {
			errors = append(errors, fmt.Sprintf("%s must be between 1 and MaxPageSize (%d), got: %d", p.name, cfg.MaxPageSize, p.value))
		}
	}

	if strings.TrimSpace(cfg.BrandName) == "" {
		errors = append(errors, "BrandName cannot be empty")
	}
	if !regexp.MustCompile(`^[A-Z]{2}$`).MatchString(cfg.PhoneRegion) {
		errors = append(errors, fmt.Sprintf("PhoneRegion must be a two-letter region code, got: %s", cfg.PhoneRegion))
	}

	if cfg.AuditEnabled && cfg.ActivityLogTopic == "" {
		errors = append(errors, "ActivityLogTopic cannot be empty when audit is enabled")
	}
	if _, err := cron.ParseStandard(cfg.RetentionSchedule); err != nil {
		errors = append(errors, fmt.Sprintf("RetentionSchedule must be a standard cron expression, got: %q (%v)", cfg.RetentionSchedule, err))
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"port", cfg.Port,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"brand_name", cfg.BrandName,
		"phone_region", cfg.PhoneRegion,
		"page_size_bookings", cfg.PageSizeBookings,
		"page_size_payments", cfg.PageSizePayments,
		"page_size_users", cfg.PageSizeUsers,
		"page_size_activity_logs", cfg.PageSizeActivityLogs,
		"page_size_faqs", cfg.PageSizeFAQs,
		"max_page_size", cfg.MaxPageSize,
		"audit_enabled", cfg.AuditEnabled,
		"activity_log_topic", cfg.ActivityLogTopic,
		"activity_log_retention", cfg.ActivityLogRetention,
		"retention_schedule", cfg.RetentionSchedule,
	)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown(cfg.Log, cfg.ShutdownTimeout)
}

// NormalizePageSize clamps a requested page size. Zero or negative falls back
// to the resource default.
func (cfg *Config) NormalizePageSize(requested, resourceDefault int) int {
	if requested <= 0 {
		return resourceDefault
	}
	maxSize := cfg.MaxPageSize
	if maxSize <= 0 {
		maxSize = DefaultMaxPageSize
	}
	return min(requested, maxSize)
}
