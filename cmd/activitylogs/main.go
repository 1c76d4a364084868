package main

import (
	"bondvoyage/internal/activitylogs/consumer"
	"bondvoyage/internal/activitylogs/handler"
	"bondvoyage/internal/activitylogs/repository"
	"bondvoyage/internal/activitylogs/retention"
	"bondvoyage/internal/activitylogs/service"
	"bondvoyage/internal/activitylogs/validator"
	"bondvoyage/pkg/app"
	"bondvoyage/pkg/audit"
	"bondvoyage/pkg/config"
	"bondvoyage/pkg/kafka"
	kafka_config "bondvoyage/pkg/kafka/config"
	kafkamw "bondvoyage/pkg/kafka/middleware"
)

const ServiceName = "activitylogs"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Activity Logs service")
	serverApp := app.NewApplication(cfg, nil)
	serverApp.OnShutdownMongo()

	activityLogService := initServices(cfg)
	serverApp.SetApp(handler.NewActivityLogHandler(activityLogService, serverApp.Metrics(), cfg))

	startConsumer(cfg, serverApp, activityLogService)
	startRetention(cfg, serverApp, activityLogService)

	serverApp.Run()
}

// initServices records this service's own actions straight to the store.
func initServices(cfg *config.Config) service.ActivityLogService {
	activityLogValidator := validator.NewActivityLogValidator(cfg.Log)
	activityLogRepo := repository.NewMongoActivityLogRepository(cfg)
	activityLogService := service.NewActivityLogService(
		activityLogRepo,
		activityLogValidator,
		audit.NewSinkRecorder(activityLogRepo, cfg.Log),
		cfg,
	)

	cfg.Log.Info("Activity log service initialized", "database", cfg.MongoDatabaseName)
	return activityLogService
}

func startConsumer(cfg *config.Config, serverApp *app.Application, svc service.ActivityLogService) {
	if !cfg.AuditEnabled {
		cfg.Log.Info("Audit events disabled, activity event consumer not started")
		return
	}

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log)

	eventConsumer, err := kafka.NewConsumer(
		kafkaCfg,
		cfg.ActivityLogTopic,
		cfg.ActivityLogGroupID,
		cfg.ActivityLogDLQTopic,
		consumer.NewEventHandler(svc, cfg.Log),
		cfg.Log,
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create activity event consumer", "error", err)
	}
	if kafkaCfg.EnableMiddleware {
		eventConsumer.Use(kafkamw.LoggingConsumerMiddleware(cfg.Log))
		eventConsumer.Use(kafkamw.MetricsConsumerMiddleware(serverApp.Metrics()))
	}

	serverApp.Go("activity-event-consumer", eventConsumer.Start)
	serverApp.OnShutdown("kafka-consumer", eventConsumer.Close)
}

func startRetention(cfg *config.Config, serverApp *app.Application, svc service.ActivityLogService) {
	job, err := retention.NewJob(svc, serverApp.Metrics(), cfg.RetentionSchedule, cfg.WriteTimeout, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create retention job", "error", err)
	}
	serverApp.Go("activity-log-retention", job.Run)
}
