package main

import (
	"bondvoyage/internal/users/handler"
	"bondvoyage/internal/users/repository"
	"bondvoyage/internal/users/service"
	"bondvoyage/internal/users/validator"
	"bondvoyage/pkg/app"
	"bondvoyage/pkg/audit"
	"bondvoyage/pkg/config"
)

const ServiceName = "users"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Users service")
	serverApp := app.NewApplication(cfg, nil)
	serverApp.OnShutdownMongo()

	userService := initServices(cfg, serverApp.AuditRecorder())
	serverApp.SetApp(handler.NewUserHandler(userService, serverApp.Metrics(), cfg))
	serverApp.Run()
}

func initServices(cfg *config.Config, recorder audit.Recorder) service.UserService {
	userValidator := validator.NewUserValidator(cfg.Log)
	userRepo := repository.NewMongoUserRepository(cfg)
	userService := service.NewUserService(
		userRepo,
		userValidator,
		recorder,
		cfg,
	)

	cfg.Log.Info("User service initialized", "database", cfg.MongoDatabaseName)
	return userService
}
