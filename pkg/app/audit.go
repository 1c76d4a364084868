package app

import (
	"bondvoyage/pkg/audit"
	"bondvoyage/pkg/kafka"
	kafka_config "bondvoyage/pkg/kafka/config"
	kafkamw "bondvoyage/pkg/kafka/middleware"
)

// AuditRecorder returns the recorder services report admin actions to. With
// auditing enabled events go to the activity log topic and the producer is
// closed on shutdown.
func (a *Application) AuditRecorder() audit.Recorder {
	if !a.cfg.AuditEnabled {
		a.cfg.Log.Info("Audit events disabled")
		return audit.Nop{}
	}

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		a.cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(a.cfg.Log)

	producer, err := kafka.NewProducer(kafkaCfg, a.cfg.ActivityLogTopic, a.cfg.ActivityLogDLQTopic, a.cfg.Log)
	if err != nil {
		a.cfg.Log.Fatal("Failed to create activity log producer", "error", err)
	}
	if kafkaCfg.EnableMiddleware {
		producer.Use(kafkamw.LoggingProducerMiddleware(a.cfg.Log))
		producer.Use(kafkamw.MetricsProducerMiddleware(a.metrics))
	}
	a.OnShutdown("kafka-producer", producer.Close)

	a.cfg.Log.Info("Audit events enabled", "topic", a.cfg.ActivityLogTopic)
	return audit.NewKafkaRecorder(producer, a.cfg.ServiceName, a.cfg.WriteTimeout, a.cfg.Log)
}

// OnShutdownMongo disconnects the shared Mongo client after everything else
// has stopped.
func (a *Application) OnShutdownMongo() {
	a.closers = append([]closer{{name: "mongo", fn: func() error {
		a.cfg.GracefulShutdown()
		return nil
	}}}, a.closers...)
}
