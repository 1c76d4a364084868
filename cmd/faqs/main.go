package main

import (
	"bondvoyage/internal/faqs/handler"
	"bondvoyage/internal/faqs/repository"
	"bondvoyage/internal/faqs/service"
	"bondvoyage/internal/faqs/validator"
	"bondvoyage/pkg/app"
	"bondvoyage/pkg/audit"
	"bondvoyage/pkg/config"
)

const ServiceName = "faqs"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting FAQs service")
	serverApp := app.NewApplication(cfg, nil)
	serverApp.OnShutdownMongo()

	faqService := initServices(cfg, serverApp.AuditRecorder())
	serverApp.SetApp(handler.NewFAQHandler(faqService, cfg))
	serverApp.Run()
}

func initServices(cfg *config.Config, recorder audit.Recorder) service.FAQService {
	faqValidator := validator.NewFAQValidator(cfg.Log)
	faqRepo := repository.NewMongoFAQRepository(cfg)
	faqService := service.NewFAQService(
		faqRepo,
		faqValidator,
		recorder,
		cfg,
	)

	cfg.Log.Info("FAQ service initialized", "database", cfg.MongoDatabaseName)
	return faqService
}
